package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"remote_e2e/domain/entities"
	"remote_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
)

var (
	// ErrAssertion is returned when the page does not reach the expected state
	ErrAssertion = errors.New("assertion failed")
	// ErrElementIndex is returned when a click targets an element that is not there
	ErrElementIndex = errors.New("element index out of range")
)

const defaultPollInterval = 100 * time.Millisecond

type Executor struct {
	logger       *logrus.Logger
	timeout      time.Duration
	pollInterval time.Duration
}

// NewExecutor - creates executor; count assertions wait up to timeout for the
// expected state
func NewExecutor(logger *logrus.Logger, timeout, pollInterval time.Duration) *Executor {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Executor{
		logger:       logger,
		timeout:      timeout,
		pollInterval: pollInterval,
	}
}

// Run - executes steps in order and stops at the first failure
func (e *Executor) Run(ctx context.Context, session interfaces.Session, steps []entities.Step) ([]entities.StepResult, error) {
	results := make([]entities.StepResult, 0, len(steps))

	for i, step := range steps {
		log := e.logger.WithFields(logrus.Fields{
			"step": i + 1,
			"type": step.Type,
		})
		log.Info(step.Description)

		count, err := e.executeStep(ctx, session, step)
		result := entities.StepResult{Step: step, Success: err == nil, Count: count}
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			log.Errorf("Step failed: %v", err)
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Description, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// executeStep - executes single step, returning the element count for assertions
func (e *Executor) executeStep(ctx context.Context, session interfaces.Session, step entities.Step) (int, error) {
	switch step.Type {
	case entities.StepNavigate:
		if step.URL == "" {
			return 0, fmt.Errorf("url is required for navigate step")
		}
		return 0, session.Navigate(ctx, step.URL)

	case entities.StepClick:
		if step.Selector.IsZero() {
			return 0, fmt.Errorf("selector is required for click step")
		}
		return 0, session.Click(ctx, step.Selector)

	case entities.StepClickNth:
		if step.Selector.IsZero() {
			return 0, fmt.Errorf("selector is required for click_nth step")
		}
		elements, err := session.FindElements(ctx, step.Selector)
		if err != nil {
			return 0, err
		}
		if step.Index < 0 || step.Index >= len(elements) {
			return len(elements), fmt.Errorf("%w: index %d, %d elements match %s", ErrElementIndex, step.Index, len(elements), step.Selector)
		}
		return len(elements), elements[step.Index].Click(ctx)

	case entities.StepExpectCount:
		if step.Selector.IsZero() {
			return 0, fmt.Errorf("selector is required for expect_count step")
		}
		return e.expectCount(ctx, session, step)

	case entities.StepBack:
		return 0, session.Back(ctx)

	default:
		return 0, fmt.Errorf("unknown step type: %s", step.Type)
	}
}

// expectCount - re-queries the live page until the count matches or the
// timeout expires
func (e *Executor) expectCount(ctx context.Context, session interfaces.Session, step entities.Step) (int, error) {
	deadline := time.Now().Add(e.timeout)

	for {
		elements, err := session.FindElements(ctx, step.Selector)
		if err != nil {
			return 0, err
		}
		count := len(elements)
		if count == step.Expected {
			return count, nil
		}
		if !time.Now().Before(deadline) {
			return count, fmt.Errorf("%w: expected %d elements matching %s, found %d", ErrAssertion, step.Expected, step.Selector, count)
		}

		select {
		case <-ctx.Done():
			return count, ctx.Err()
		case <-time.After(e.pollInterval):
		}
	}
}
