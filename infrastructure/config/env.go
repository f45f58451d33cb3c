package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"remote_e2e/domain/entities"

	"github.com/joho/godotenv"
)

const (
	DefaultHubProtocol       = "https"
	DefaultHubHost           = "appium-dev.headspin.io"
	DefaultHubPort           = 443
	DefaultHubPath           = "/v0/" + entities.APIKeyPlaceholder + "/wd/hub"
	DefaultDeviceSelector    = `device_skus:"Chrome"`
	DefaultScreenWidth       = 1920
	DefaultScreenHeight      = 1080
	DefaultNewCommandTimeout = 600
	DefaultStartURL          = "https://the-internet.herokuapp.com"
	DefaultAssertionTimeout  = 5000 * time.Millisecond
	DefaultPollInterval      = 100 * time.Millisecond
	DefaultReportURL         = "https://api-dev.headspin.io/v0/perftests/upload"
	DefaultReportTimeout     = 30 * time.Second
)

// Load reads an optional .env file and builds the run configuration from the
// environment. Variables already set in the environment win over the file.
func Load(envFiles ...string) (entities.RunConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return entities.RunConfig{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the run configuration from environment variables only
func FromEnv() (entities.RunConfig, error) {
	var errs []string
	intVar := func(key string, def int) int {
		v, err := getInt(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	boolVar := func(key string, def bool) bool {
		v, err := getBool(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	msVar := func(key string, def time.Duration) time.Duration {
		v := intVar(key, int(def.Milliseconds()))
		return time.Duration(v) * time.Millisecond
	}

	cfg := entities.RunConfig{
		APIKey: os.Getenv("API_KEY"),
		Driver: entities.DriverKind(strings.ToLower(getString("BROWSER_DRIVER", string(entities.DriverSelenium)))),
		Hub: entities.HubConfig{
			Protocol: getString("HUB_PROTOCOL", DefaultHubProtocol),
			Host:     getString("HUB_HOST", DefaultHubHost),
			Port:     intVar("HUB_PORT", DefaultHubPort),
			Path:     getString("HUB_PATH", DefaultHubPath),
		},
		Capabilities: entities.Capabilities{
			InitialScreenSize: entities.ScreenSize{
				Width:  intVar("SCREEN_WIDTH", DefaultScreenWidth),
				Height: intVar("SCREEN_HEIGHT", DefaultScreenHeight),
			},
			Selector:          getString("DEVICE_SELECTOR", DefaultDeviceSelector),
			NewCommandTimeout: intVar("NEW_COMMAND_TIMEOUT", DefaultNewCommandTimeout),
			TestName:          os.Getenv("TEST_NAME"),
		},
		StartURL:         getString("START_URL", DefaultStartURL),
		AssertionTimeout: msVar("ASSERTION_TIMEOUT_MS", DefaultAssertionTimeout),
		PollInterval:     msVar("POLL_INTERVAL_MS", DefaultPollInterval),
		ReportResults:    boolVar("REPORT_RESULTS", false),
		ReportURL:        getString("REPORT_URL", DefaultReportURL),
		ReportTimeout:    msVar("REPORT_TIMEOUT_MS", DefaultReportTimeout),
		Headless:         boolVar("HEADLESS", true),
		LogLevel:         getString("LOG_LEVEL", "info"),
		Trace:            boolVar("WEBDRIVER_TRACE", false),
	}

	if _, ok := os.LookupEnv("CAPTURE"); ok {
		capture := boolVar("CAPTURE", false)
		cfg.Capabilities.Capture = &capture
		if capture {
			cfg.Capabilities.AutoLabel = DefaultAutoLabel()
		}
	}

	if len(errs) > 0 {
		return entities.RunConfig{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return entities.RunConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultAutoLabel labels the capture at every navigation and element click
func DefaultAutoLabel() map[string][]entities.AutoLabelRule {
	return map[string][]entities.AutoLabelRule{
		entities.AutoLabelPhaseCommandStart: {
			{Method: "POST", Endpoint: "/session/.*/url", Body: ".*", Label: "navigate"},
			{Method: "POST", Endpoint: "/session/.*/element/.*/click", Label: "click"},
			{Method: "POST", Endpoint: "/session/.*/back", Label: "back"},
		},
	}
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}
