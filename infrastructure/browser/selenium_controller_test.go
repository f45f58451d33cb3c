package browser

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"remote_e2e/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
)

// stubDriver implements the handful of WebDriver calls the controller makes;
// anything else panics through the nil embedded interface.
type stubDriver struct {
	selenium.WebDriver

	sessionID   string
	visited     []string
	backs       int
	quits       int
	implicit    []time.Duration
	findMisses  int
	findErr     error
	found       map[string][]selenium.WebElement
	lookups     []string
	scriptCalls int
}

func (d *stubDriver) SessionID() string { return d.sessionID }

func (d *stubDriver) Get(url string) error {
	d.visited = append(d.visited, url)
	return nil
}

func (d *stubDriver) Back() error {
	d.backs++
	return nil
}

func (d *stubDriver) Quit() error {
	d.quits++
	return nil
}

func (d *stubDriver) SetImplicitWaitTimeout(timeout time.Duration) error {
	d.implicit = append(d.implicit, timeout)
	return nil
}

func (d *stubDriver) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	d.scriptCalls++
	return true, nil
}

func (d *stubDriver) FindElement(by, value string) (selenium.WebElement, error) {
	d.lookups = append(d.lookups, by+"|"+value)
	if d.findErr != nil {
		return nil, d.findErr
	}
	if d.findMisses > 0 {
		d.findMisses--
		return nil, errors.New("no such element")
	}
	els := d.found[by+"|"+value]
	if len(els) == 0 {
		return nil, errors.New("no such element")
	}
	return els[0], nil
}

func (d *stubDriver) FindElements(by, value string) ([]selenium.WebElement, error) {
	d.lookups = append(d.lookups, by+"|"+value)
	return d.found[by+"|"+value], nil
}

type stubElement struct {
	selenium.WebElement
	clicks int
}

func (e *stubElement) Click() error {
	e.clicks++
	return nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func remoteConfig() entities.RunConfig {
	return entities.RunConfig{
		APIKey: "k3y",
		Driver: entities.DriverSelenium,
		Hub: entities.HubConfig{
			Protocol: "https",
			Host:     "appium-dev.headspin.io",
			Port:     443,
			Path:     "/v0/{api_key}/wd/hub",
		},
		Capabilities: entities.Capabilities{
			InitialScreenSize: entities.ScreenSize{Width: 1920, Height: 1080},
			Selector:          `device_skus:"Chrome"`,
			NewCommandTimeout: 600,
		},
		StartURL:         "https://the-internet.herokuapp.com",
		AssertionTimeout: 50 * time.Millisecond,
		PollInterval:     time.Millisecond,
	}
}

func openStub(t *testing.T, wd *stubDriver) (*SeleniumController, selenium.Capabilities, string) {
	t.Helper()
	var gotCaps selenium.Capabilities
	var gotURL string
	opener := NewSeleniumOpener(testLogger()).WithRemote(func(caps selenium.Capabilities, urlPrefix string) (selenium.WebDriver, error) {
		gotCaps = caps
		gotURL = urlPrefix
		return wd, nil
	})

	session, err := opener.Open(context.Background(), remoteConfig())
	require.NoError(t, err)
	ctrl, ok := session.(*SeleniumController)
	require.True(t, ok)
	return ctrl, gotCaps, gotURL
}

func TestSeleniumOpener_OpensOnHub(t *testing.T) {
	wd := &stubDriver{sessionID: "hs-42"}
	ctrl, caps, url := openStub(t, wd)

	assert.Equal(t, "https://appium-dev.headspin.io:443/v0/k3y/wd/hub", url)
	assert.Equal(t, `device_skus:"Chrome"`, caps["headspin:selector"])
	assert.Equal(t, 600, caps["headspin:newCommandTimeout"])
	assert.Equal(t, "hs-42", ctrl.ID())
	assert.Equal(t, []time.Duration{0}, wd.implicit)
}

func TestSeleniumOpener_RemoteError(t *testing.T) {
	opener := NewSeleniumOpener(testLogger()).WithRemote(func(selenium.Capabilities, string) (selenium.WebDriver, error) {
		return nil, errors.New("session not created")
	})

	_, err := opener.Open(context.Background(), remoteConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session not created")
}

func TestSeleniumController_ClickWaitsForElement(t *testing.T) {
	link := &stubElement{}
	wd := &stubDriver{
		findMisses: 2,
		found: map[string][]selenium.WebElement{
			selenium.ByLinkText + "|Add/Remove Elements": {link},
		},
	}
	ctrl, _, _ := openStub(t, wd)

	require.NoError(t, ctrl.Click(context.Background(), entities.LinkText("Add/Remove Elements")))
	assert.Equal(t, 1, link.clicks)
	assert.Len(t, wd.lookups, 3)
	assert.Equal(t, 1, wd.scriptCalls)
}

func TestSeleniumController_ClickMissingElement(t *testing.T) {
	wd := &stubDriver{}
	ctrl, _, _ := openStub(t, wd)

	err := ctrl.Click(context.Background(), entities.CSS(`button[onclick="addElement()"]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `button[onclick="addElement()"]`)
}

func TestSeleniumController_ClickTimeoutKeepsLookupError(t *testing.T) {
	wd := &stubDriver{findErr: &selenium.Error{Err: "no such element", Message: "Unable to locate element: .missing"}}
	ctrl, _, _ := openStub(t, wd)

	err := ctrl.Click(context.Background(), entities.CSS(".missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errWaitTimeout)
	assert.Contains(t, err.Error(), "Unable to locate element")
	assert.Greater(t, len(wd.lookups), 1)
}

func TestSeleniumController_ClickFailsFastOnSessionError(t *testing.T) {
	sessionErr := &selenium.Error{Err: "invalid session id", Message: "session deleted", HTTPCode: 404}
	wd := &stubDriver{findErr: sessionErr}
	ctrl, _, _ := openStub(t, wd)

	start := time.Now()
	err := ctrl.Click(context.Background(), entities.LinkText("Add/Remove Elements"))

	require.Error(t, err)
	assert.ErrorIs(t, err, sessionErr)
	assert.NotErrorIs(t, err, errWaitTimeout)
	assert.Len(t, wd.lookups, 1)
	assert.Less(t, time.Since(start), remoteConfig().AssertionTimeout)
}

func TestSeleniumController_FindElementsAndClickNth(t *testing.T) {
	first, second := &stubElement{}, &stubElement{}
	wd := &stubDriver{
		found: map[string][]selenium.WebElement{
			selenium.ByCSSSelector + "|.added-manually": {first, second},
		},
	}
	ctrl, _, _ := openStub(t, wd)

	elements, err := ctrl.FindElements(context.Background(), entities.CSS(".added-manually"))
	require.NoError(t, err)
	require.Len(t, elements, 2)

	require.NoError(t, elements[1].Click(context.Background()))
	assert.Equal(t, 0, first.clicks)
	assert.Equal(t, 1, second.clicks)

	none, err := ctrl.FindElements(context.Background(), entities.CSS(".missing"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSeleniumController_NavigateBackClose(t *testing.T) {
	wd := &stubDriver{}
	ctrl, _, _ := openStub(t, wd)

	require.NoError(t, ctrl.Navigate(context.Background(), "https://the-internet.herokuapp.com"))
	require.NoError(t, ctrl.Back(context.Background()))
	require.NoError(t, ctrl.Close())
	require.NoError(t, ctrl.Close())

	assert.Equal(t, []string{"https://the-internet.herokuapp.com"}, wd.visited)
	assert.Equal(t, 1, wd.backs)
	assert.Equal(t, 1, wd.quits)
}

func TestSeleniumController_CanceledContext(t *testing.T) {
	wd := &stubDriver{}
	ctrl, _, _ := openStub(t, wd)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, ctrl.Navigate(ctx, "https://example.com"), context.Canceled)
	assert.Empty(t, wd.visited)
}

func TestLocators(t *testing.T) {
	by, value, err := seleniumLocator(entities.LinkText("Add/Remove Elements"))
	require.NoError(t, err)
	assert.Equal(t, selenium.ByLinkText, by)
	assert.Equal(t, "Add/Remove Elements", value)

	by, _, err = seleniumLocator(entities.CSS(".added-manually"))
	require.NoError(t, err)
	assert.Equal(t, selenium.ByCSSSelector, by)

	_, _, err = seleniumLocator(entities.Selector{Strategy: "xpath", Value: "//a"})
	assert.Error(t, err)

	assert.Equal(t, `a:text-is("Add/Remove Elements")`, playwrightSelector(entities.LinkText("Add/Remove Elements")))
	assert.Equal(t, ".added-manually", playwrightSelector(entities.CSS(".added-manually")))
}
