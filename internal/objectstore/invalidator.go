package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const metadataTokenURL = "http://metadata.google.internal/computeMetadata/v1/instance/service-accounts/default/token"

// CDNInvalidator asks the load balancer's URL map to drop cached copies of
// republished paths. Purely an acceleration; rendered artifacts are correct
// without it.
type CDNInvalidator struct {
	httpClient *http.Client
	projectID  string
	urlMap     string
	host       string
	logger     *slog.Logger
}

// NewCDNInvalidator creates an invalidator for the given URL map and host.
func NewCDNInvalidator(projectID, urlMap, host string, logger *slog.Logger) *CDNInvalidator {
	return &CDNInvalidator{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		projectID:  projectID,
		urlMap:     urlMap,
		host:       host,
		logger:     logger,
	}
}

// InvalidatePaths requests cache invalidation for each path. Individual
// failures are logged and skipped; the first token fetch failure aborts,
// since no request can succeed without it.
func (c *CDNInvalidator) InvalidatePaths(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return fmt.Errorf("fetch access token: %w", err)
	}

	url := fmt.Sprintf("https://compute.googleapis.com/compute/v1/projects/%s/global/urlMaps/%s/invalidateCache",
		c.projectID, c.urlMap)

	for _, path := range paths {
		body, err := json.Marshal(map[string]string{
			"host":      c.host,
			"path":      path,
			"requestId": uuid.NewString(),
		})
		if err != nil {
			return fmt.Errorf("marshal invalidation request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build invalidation request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("cdn invalidation failed", "path", path, "error", err)
			continue
		}
		if resp.StatusCode >= 300 {
			c.logger.Error("cdn invalidation rejected", "path", path, "status", resp.StatusCode)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}

	return nil
}

// accessToken fetches a service-account token from the metadata server.
func (c *CDNInvalidator) accessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataTokenURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Metadata-Flavor", "Google")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metadata token: HTTP %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	return payload.AccessToken, nil
}
