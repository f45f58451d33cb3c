package terminal

import (
	"context"
	"fmt"
	"log"
	"os"

	"remote_e2e/application/runner"
	"remote_e2e/application/scenario"
	"remote_e2e/domain/entities"
	"remote_e2e/domain/interfaces"
	"remote_e2e/infrastructure/browser"
	"remote_e2e/infrastructure/config"
	"remote_e2e/infrastructure/reporting"
	"remote_e2e/infrastructure/security"

	"github.com/sirupsen/logrus"
)

type TerminalInterface struct {
	cfg    entities.RunConfig
	runner *runner.Runner
	logger *logrus.Logger
}

func NewTerminalInterface() (*TerminalInterface, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg)

	var opener interfaces.SessionOpener
	switch cfg.Driver {
	case entities.DriverPlaywright:
		opener = browser.NewPlaywrightOpener(logger)
	default:
		opener = browser.NewSeleniumOpener(logger)
	}

	// A nil interface value, not a typed nil, keeps the base variant silent.
	var reporter interfaces.Reporter
	if cfg.ReportResults {
		reporter = reporting.NewPerfTestsClient(cfg, logger)
	}

	return &TerminalInterface{
		cfg:    cfg,
		runner: runner.NewRunner(cfg, opener, reporter, logger),
		logger: logger,
	}, nil
}

// NewLogger - builds the run logger; the API key never reaches the output.
// The standard library logger is redirected into it as well, since the
// WebDriver client writes its wire trace (hub URL included) through log.Printf.
func NewLogger(cfg entities.RunConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if cfg.Trace {
		level = logrus.TraceLevel
	}
	logger.SetLevel(level)
	logger.AddHook(security.NewRedactionHook(cfg.APIKey))

	stdLevel := logrus.InfoLevel
	if cfg.Trace {
		stdLevel = logrus.TraceLevel
	}
	log.SetFlags(0)
	log.SetOutput(logger.WriterLevel(stdLevel))
	return logger
}

// Run executes the add/remove elements scenario once and returns an error
// when the run did not pass
func (t *TerminalInterface) Run(ctx context.Context) error {
	t.logger.WithFields(logrus.Fields{
		"driver":    t.cfg.Driver,
		"start_url": t.cfg.StartURL,
		"reporting": t.cfg.ReportResults,
	}).Info("Starting run")

	result := t.runner.Run(ctx, scenario.AddRemoveElements(t.cfg.StartURL))

	fields := logrus.Fields{
		"run_id":     result.RunID,
		"session_id": result.SessionID,
		"status":     result.Status(),
		"steps":      len(result.Steps),
	}
	if result.Report.Attempted {
		fields["reported"] = result.Report.Delivered()
	}
	t.logger.WithFields(fields).Info("Run finished")

	// Errors leave through the logger so the redaction hook sees them.
	if err := result.Err(); err != nil {
		t.logger.WithError(err).Error("Run failed")
		return fmt.Errorf("run %s %s", result.RunID, result.Status())
	}
	return nil
}
