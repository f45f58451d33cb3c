package entities

import (
	"fmt"
	"strings"
	"time"
)

// DriverKind selects the browser automation backend
type DriverKind string

const (
	DriverSelenium   DriverKind = "selenium"
	DriverPlaywright DriverKind = "playwright"
)

// APIKeyPlaceholder is replaced by the API key inside HubConfig.Path
const APIKeyPlaceholder = "{api_key}"

// HubConfig describes the remote WebDriver endpoint
type HubConfig struct {
	Protocol string `json:"protocol"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Path     string `json:"path"`
}

// URL returns the hub address with the API key embedded in its path
func (h HubConfig) URL(apiKey string) string {
	path := strings.ReplaceAll(h.Path, APIKeyPlaceholder, apiKey)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s://%s:%d%s", h.Protocol, h.Host, h.Port, path)
}

// RunConfig is built once per run and shared by the session driver and the reporter
type RunConfig struct {
	APIKey       string
	Driver       DriverKind
	Hub          HubConfig
	Capabilities Capabilities
	StartURL     string

	// AssertionTimeout bounds how long an element count assertion waits for
	// the page to reach the expected state.
	AssertionTimeout time.Duration
	PollInterval     time.Duration

	ReportResults bool
	ReportURL     string
	ReportTimeout time.Duration

	Headless bool
	LogLevel string
	Trace    bool
}

// HubURL returns the WebDriver hub URL for this run
func (c RunConfig) HubURL() string {
	return c.Hub.URL(c.APIKey)
}

// Validate checks the fields every driver and the reporter depend on
func (c RunConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is not set")
	}
	switch c.Driver {
	case DriverSelenium:
		if c.Hub.Host == "" {
			return fmt.Errorf("hub host is empty")
		}
		if c.Hub.Port <= 0 || c.Hub.Port > 65535 {
			return fmt.Errorf("hub port %d out of range", c.Hub.Port)
		}
		if c.Hub.Protocol != "http" && c.Hub.Protocol != "https" {
			return fmt.Errorf("unsupported hub protocol %q", c.Hub.Protocol)
		}
	case DriverPlaywright:
	default:
		return fmt.Errorf("unknown browser driver %q", c.Driver)
	}
	if c.StartURL == "" {
		return fmt.Errorf("start URL is empty")
	}
	if c.AssertionTimeout < 0 {
		return fmt.Errorf("assertion timeout must not be negative")
	}
	if c.ReportResults && c.ReportURL == "" {
		return fmt.Errorf("reporting is enabled but REPORT_URL is empty")
	}
	return nil
}
