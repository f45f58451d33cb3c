package browser

import (
	"context"
	"fmt"
	"strconv"

	"remote_e2e/domain/entities"
	"remote_e2e/domain/interfaces"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// PlaywrightOpener runs the scenario against a local Chromium instead of the hub
type PlaywrightOpener struct {
	logger *logrus.Logger
}

// NewPlaywrightOpener - creates opener for local browser sessions
func NewPlaywrightOpener(logger *logrus.Logger) *PlaywrightOpener {
	return &PlaywrightOpener{logger: logger}
}

// Open - launches Chromium and opens a page sized like the remote screen
func (o *PlaywrightOpener) Open(ctx context.Context, cfg entities.RunConfig) (interfaces.Session, error) {
	return NewBrowserController(ctx, cfg, o.logger)
}

type browserController struct {
	pw        *playwright.Playwright
	browser   playwright.Browser
	context   playwright.BrowserContext
	page      playwright.Page
	sessionID string
	logger    *logrus.Logger
	timeout   float64
}

// NewBrowserController - creates new local browser session
func NewBrowserController(ctx context.Context, cfg entities.RunConfig, logger *logrus.Logger) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	size := cfg.Capabilities.InitialScreenSize
	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  size.Width,
			Height: size.Height,
		},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	timeout := float64(cfg.AssertionTimeout.Milliseconds())
	bctx.SetDefaultTimeout(timeout)

	page, err := bctx.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	c := &browserController{
		pw:        pw,
		browser:   browser,
		context:   bctx,
		page:      page,
		sessionID: uuid.NewString(),
		logger:    logger,
		timeout:   timeout,
	}
	logger.WithField("session_id", c.sessionID).Info("Local browser session started")
	return c, nil
}

func (b *browserController) ID() string {
	return b.sessionID
}

// Navigate - navigates to URL
func (b *browserController) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.logger.Infof("Navigating to: %s", url)
	if _, err := b.page.Goto(url); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	return nil
}

// Click - clicks on the first element matching selector
func (b *browserController) Click(ctx context.Context, selector entities.Selector) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.logger.Infof("Clicking on: %s", selector)
	err := b.page.Locator(playwrightSelector(selector)).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(b.timeout),
	})
	if err != nil {
		return fmt.Errorf("element not found with selector %s: %w", selector, err)
	}
	return nil
}

// FindElements - returns locators for every element currently matching selector
func (b *browserController) FindElements(ctx context.Context, selector entities.Selector) ([]interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locators, err := b.page.Locator(playwrightSelector(selector)).All()
	if err != nil {
		return nil, fmt.Errorf("find elements %s: %w", selector, err)
	}

	result := make([]interfaces.Element, 0, len(locators))
	for _, l := range locators {
		result = append(result, &playwrightElement{locator: l, timeout: b.timeout})
	}
	return result, nil
}

// Back - goes back in history
func (b *browserController) Back(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.logger.Info("Navigating back")
	if _, err := b.page.GoBack(); err != nil {
		return fmt.Errorf("failed to go back: %w", err)
	}
	return nil
}

// Close - closes the browser and stops the driver
func (b *browserController) Close() error {
	if b.browser == nil {
		return nil
	}
	b.logger.WithField("session_id", b.sessionID).Info("Closing local browser session")

	var firstErr error
	if err := b.context.Close(); err != nil {
		firstErr = err
	}
	if err := b.browser.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := b.pw.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}
	b.browser = nil
	return firstErr
}

type playwrightElement struct {
	locator playwright.Locator
	timeout float64
}

func (e *playwrightElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.locator.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(e.timeout),
	})
}

// playwrightSelector - translates a selector into Playwright selector syntax
func playwrightSelector(selector entities.Selector) string {
	if selector.Strategy == entities.ByLinkText {
		return "a:text-is(" + strconv.Quote(selector.Value) + ")"
	}
	return selector.Value
}
