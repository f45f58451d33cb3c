package runner

import (
	"context"
	"errors"
	"fmt"

	"remote_e2e/application/scenario"
	"remote_e2e/domain/entities"
	"remote_e2e/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrSessionOpen wraps every failure to acquire a session
var ErrSessionOpen = errors.New("failed to open session")

type Runner struct {
	cfg      entities.RunConfig
	opener   interfaces.SessionOpener
	reporter interfaces.Reporter
	executor *scenario.Executor
	logger   *logrus.Logger
}

// NewRunner - creates runner; reporter may be nil when results are not reported
func NewRunner(cfg entities.RunConfig, opener interfaces.SessionOpener, reporter interfaces.Reporter, logger *logrus.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		opener:   opener,
		reporter: reporter,
		executor: scenario.NewExecutor(logger, cfg.AssertionTimeout, cfg.PollInterval),
		logger:   logger,
	}
}

// Run - opens one session, runs steps against it, reports the outcome and
// releases the session. Close runs exactly once on every path where a
// session was obtained, after the report.
func (r *Runner) Run(ctx context.Context, steps []entities.Step) (result entities.RunResult) {
	result.RunID = uuid.NewString()
	log := r.logger.WithField("run_id", result.RunID)

	// Reporting and cleanup must still happen after the run is interrupted.
	cleanupCtx := context.WithoutCancel(ctx)

	session, err := r.opener.Open(ctx, r.cfg)
	if err == nil && session == nil {
		err = errors.New("driver returned no session")
	}
	if err != nil {
		result.OpenErr = fmt.Errorf("%w: %v", ErrSessionOpen, err)
		log.Errorf("Session setup failed: %v", err)
		result.Report = r.report(cleanupCtx, log, result)
		return result
	}
	result.SessionID = session.ID()
	log = log.WithField("session_id", result.SessionID)

	defer func() {
		if err := session.Close(); err != nil {
			result.CloseErr = fmt.Errorf("failed to close session: %w", err)
			log.Warnf("Session cleanup failed: %v", err)
		}
	}()

	result.Steps, result.ScenarioErr = r.runSteps(ctx, session, steps)
	if result.ScenarioErr != nil {
		log.Errorf("Scenario failed: %v", result.ScenarioErr)
	} else {
		log.Infof("Scenario passed (%d steps)", len(result.Steps))
	}

	result.Report = r.report(cleanupCtx, log, result)
	return result
}

// runSteps - turns a panic inside a step into a scenario failure so that the
// run is still reported
func (r *Runner) runSteps(ctx context.Context, session interfaces.Session, steps []entities.Step) (results []entities.StepResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("step panicked: %v", p)
		}
	}()
	return r.executor.Run(ctx, session, steps)
}

// report - sends the outcome once when a reporter is configured
func (r *Runner) report(ctx context.Context, log *logrus.Entry, result entities.RunResult) entities.ReportResult {
	if r.reporter == nil {
		return entities.ReportResult{}
	}

	payload := entities.NewResultPayload(result.Status(), result.SessionID)
	log.WithField("status", payload.Status).Info("Reporting run status")

	rep := r.reporter.Report(ctx, payload)
	if rep.Err != nil {
		log.Errorf("Report failed (test outcome %s unaffected): %v", payload.Status, rep.Err)
	}
	return rep
}
