package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"dendrite/internal/config"
)

// ParseJSON decodes JSON from the request body into the given destination.
// The body is capped at the submission limit; moderation payloads are far
// smaller still.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxSubmissionBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// ParseForm reads a form-encoded body under the submission size cap and
// returns the parsed values. Submission endpoints accept plain HTML form
// posts, not JSON.
func ParseForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxSubmissionBodyBytes)

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}

	return r.PostForm, nil
}
