package entities

// StepType represents the kind of interaction a scenario step performs
type StepType string

const (
	StepNavigate    StepType = "navigate"
	StepClick       StepType = "click"
	StepClickNth    StepType = "click_nth"
	StepExpectCount StepType = "expect_count"
	StepBack        StepType = "back"
)

// Step represents a single scripted interaction with the page
type Step struct {
	Type        StepType `json:"type"`
	Selector    Selector `json:"selector,omitempty"`
	URL         string   `json:"url,omitempty"`
	Index       int      `json:"index,omitempty"`
	Expected    int      `json:"expected,omitempty"`
	Description string   `json:"description"`
}

// StepResult represents the outcome of a step
type StepResult struct {
	Step    Step   `json:"step"`
	Success bool   `json:"success"`
	Count   int    `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}
