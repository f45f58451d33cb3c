package entities

// VendorPrefix namespaces the device cloud's extension capabilities
const VendorPrefix = "headspin:"

// AutoLabelPhaseCommandStart fires a label when a matching command starts
const AutoLabelPhaseCommandStart = "onCommandStart"

// ScreenSize is the initial browser window size
type ScreenSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AutoLabelRule annotates the capture whenever a WebDriver command matches
type AutoLabelRule struct {
	Method   string `json:"method"`
	Endpoint string `json:"endpoint"`
	Body     string `json:"body,omitempty"`
	Label    string `json:"label,omitempty"`
}

// Capabilities describes the remote environment requested at session creation
type Capabilities struct {
	InitialScreenSize ScreenSize
	Selector          string
	// NewCommandTimeout is in seconds.
	NewCommandTimeout int
	Capture           *bool
	TestName          string
	AutoLabel         map[string][]AutoLabelRule
}

// ToMap renders the capabilities as vendor-prefixed W3C capability entries
func (c Capabilities) ToMap() map[string]interface{} {
	caps := map[string]interface{}{
		VendorPrefix + "initialScreenSize": map[string]interface{}{
			"width":  c.InitialScreenSize.Width,
			"height": c.InitialScreenSize.Height,
		},
		VendorPrefix + "newCommandTimeout": c.NewCommandTimeout,
	}
	if c.Selector != "" {
		caps[VendorPrefix+"selector"] = c.Selector
	}
	if c.Capture != nil {
		caps[VendorPrefix+"capture"] = *c.Capture
	}
	if c.TestName != "" {
		caps[VendorPrefix+"testName"] = c.TestName
	}
	if len(c.AutoLabel) > 0 {
		phases := make(map[string]interface{}, len(c.AutoLabel))
		for phase, rules := range c.AutoLabel {
			list := make([]map[string]interface{}, 0, len(rules))
			for _, r := range rules {
				rule := map[string]interface{}{
					"method":   r.Method,
					"endpoint": r.Endpoint,
				}
				if r.Body != "" {
					rule["body"] = r.Body
				}
				if r.Label != "" {
					rule["label"] = r.Label
				}
				list = append(list, rule)
			}
			phases[phase] = list
		}
		caps[VendorPrefix+"autoLabel"] = phases
	}
	return caps
}
