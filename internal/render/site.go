// Package render turns pages and their visible variants into the static
// HTML artifacts served to readers. Rendering is a pure function of its
// inputs so the publisher can safely re-run it on redelivered events.
package render

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Site holds the reader-facing chrome shared by every rendered artifact:
// stylesheets, logo, navigation targets and the report endpoint. Loaded once
// from the embedded config at startup.
type Site struct {
	Name           string `yaml:"name"`
	HomeHref       string `yaml:"home_href"`
	LogoPath       string `yaml:"logo_path"`
	StylesheetURL  string `yaml:"stylesheet_url"`
	LocalStyles    string `yaml:"local_styles"`
	NewPagePath    string `yaml:"new_page_path"`
	ReportEndpoint string `yaml:"report_endpoint"`
}

// LoadSite reads the embedded site configuration.
func LoadSite() (*Site, error) {
	data, err := configFiles.ReadFile("config/site.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read site config: %w", err)
	}

	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("failed to unmarshal site config: %w", err)
	}

	if site.Name == "" {
		return nil, fmt.Errorf("site config missing name")
	}

	return &site, nil
}
