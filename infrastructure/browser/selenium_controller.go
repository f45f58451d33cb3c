package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"remote_e2e/domain/entities"
	"remote_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
)

// RemoteFunc creates a WebDriver session against a hub URL
type RemoteFunc func(caps selenium.Capabilities, urlPrefix string) (selenium.WebDriver, error)

// SeleniumOpener opens remote WebDriver sessions on the device cloud hub
type SeleniumOpener struct {
	logger    *logrus.Logger
	newRemote RemoteFunc
}

// NewSeleniumOpener - creates opener backed by selenium.NewRemote
func NewSeleniumOpener(logger *logrus.Logger) *SeleniumOpener {
	return &SeleniumOpener{
		logger:    logger,
		newRemote: selenium.NewRemote,
	}
}

// WithRemote replaces the session constructor, used to run against a stub driver
func (o *SeleniumOpener) WithRemote(fn RemoteFunc) *SeleniumOpener {
	o.newRemote = fn
	return o
}

// Open - starts a remote session with the configured capabilities
func (o *SeleniumOpener) Open(ctx context.Context, cfg entities.RunConfig) (interfaces.Session, error) {
	return NewSeleniumController(ctx, cfg, o.newRemote, o.logger)
}

// SeleniumCapabilities - builds the W3C capability set for a run
func SeleniumCapabilities(cfg entities.RunConfig) selenium.Capabilities {
	caps := selenium.Capabilities{}
	for k, v := range cfg.Capabilities.ToMap() {
		caps[k] = v
	}
	return caps
}

type SeleniumController struct {
	wd           selenium.WebDriver
	logger       *logrus.Logger
	lookupWait   time.Duration
	pollInterval time.Duration
}

// NewSeleniumController - opens a remote WebDriver session on the hub
func NewSeleniumController(ctx context.Context, cfg entities.RunConfig, newRemote RemoteFunc, logger *logrus.Logger) (*SeleniumController, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	selenium.SetDebug(cfg.Trace)

	hubURL := cfg.HubURL()
	logger.Infof("Starting remote session on %s", hubURL)

	wd, err := newRemote(SeleniumCapabilities(cfg), hubURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote session: %w", err)
	}

	// Lookups are polled by the controller itself; the hub must answer
	// FindElements immediately so that zero-count assertions stay fast.
	if err := wd.SetImplicitWaitTimeout(0); err != nil {
		logger.Warnf("Failed to reset implicit wait: %v", err)
	}

	s := &SeleniumController{
		wd:           wd,
		logger:       logger,
		lookupWait:   cfg.AssertionTimeout,
		pollInterval: cfg.PollInterval,
	}
	logger.WithField("session_id", s.ID()).Info("Remote session started")
	return s, nil
}

// ID - returns the hub session id
func (s *SeleniumController) ID() string {
	return s.wd.SessionID()
}

// Navigate - navigates browser to specified URL
func (s *SeleniumController) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Infof("Navigating to: %s", url)
	return s.wd.Get(url)
}

// Click - clicks on the first element identified by selector
func (s *SeleniumController) Click(ctx context.Context, selector entities.Selector) error {
	s.logger.Infof("Clicking on: %s", selector)

	element, err := s.findElement(ctx, selector)
	if err != nil {
		return err
	}
	return s.clickElement(ctx, element)
}

// FindElements - returns every element currently matching selector
func (s *SeleniumController) FindElements(ctx context.Context, selector entities.Selector) ([]interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	by, value, err := seleniumLocator(selector)
	if err != nil {
		return nil, err
	}

	found, err := s.wd.FindElements(by, value)
	if err != nil {
		return nil, fmt.Errorf("find elements %s: %w", selector, err)
	}

	result := make([]interfaces.Element, 0, len(found))
	for _, el := range found {
		result = append(result, &seleniumElement{ctrl: s, el: el})
	}
	return result, nil
}

// Back - navigates one step back in history
func (s *SeleniumController) Back(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("Navigating back")
	return s.wd.Back()
}

// Close - deletes the remote session
func (s *SeleniumController) Close() error {
	if s.wd == nil {
		return nil
	}
	s.logger.WithField("session_id", s.ID()).Info("Deleting remote session")
	err := s.wd.Quit()
	s.wd = nil
	return err
}

// findElement - waits up to lookupWait for an element to appear
func (s *SeleniumController) findElement(ctx context.Context, selector entities.Selector) (selenium.WebElement, error) {
	by, value, err := seleniumLocator(selector)
	if err != nil {
		return nil, err
	}

	var element selenium.WebElement
	var lastErr error
	err = waitFor(ctx, s.lookupWait, s.pollInterval, func() (bool, error) {
		el, err := s.wd.FindElement(by, value)
		if err != nil {
			if !isNoSuchElement(err) {
				return false, err
			}
			lastErr = err
			return false, nil
		}
		element = el
		return true, nil
	})
	if err != nil {
		if errors.Is(err, errWaitTimeout) && lastErr != nil {
			err = fmt.Errorf("%w: %v", err, lastErr)
		}
		return nil, fmt.Errorf("element not found with selector %s: %w", selector, err)
	}
	return element, nil
}

// isNoSuchElement - reports whether a lookup failed only because the element
// is not on the page yet
func isNoSuchElement(err error) bool {
	var wdErr *selenium.Error
	if errors.As(err, &wdErr) {
		return wdErr.Err == "no such element"
	}
	return strings.Contains(err.Error(), "no such element")
}

// clickElement - scrolls element into view and clicks it
func (s *SeleniumController) clickElement(ctx context.Context, element selenium.WebElement) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	script := `arguments[0].scrollIntoView({ block: 'center' }); return true;`
	if _, err := s.wd.ExecuteScript(script, []interface{}{element}); err != nil {
		s.logger.Debugf("Failed to scroll to element: %v", err)
		if err := element.MoveTo(0, 0); err != nil {
			s.logger.Debugf("Failed to move to element: %v", err)
		}
	}

	return element.Click()
}

type seleniumElement struct {
	ctrl *SeleniumController
	el   selenium.WebElement
}

func (e *seleniumElement) Click(ctx context.Context) error {
	return e.ctrl.clickElement(ctx, e.el)
}

// seleniumLocator - maps a selector onto a WebDriver location strategy
func seleniumLocator(selector entities.Selector) (string, string, error) {
	switch selector.Strategy {
	case entities.ByCSS, "":
		return selenium.ByCSSSelector, selector.Value, nil
	case entities.ByLinkText:
		return selenium.ByLinkText, selector.Value, nil
	default:
		return "", "", fmt.Errorf("unsupported selector strategy %q", selector.Strategy)
	}
}

// Ensure SeleniumController implements Session interface
var _ interfaces.Session = (*SeleniumController)(nil)
