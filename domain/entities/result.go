package entities

// RunStatus is the pass/fail status sent to the collection endpoint
type RunStatus string

const (
	RunStatusPassed RunStatus = "passed"
	RunStatusFailed RunStatus = "failed"
)

// ResultPayload is the body posted once per run. SessionID is null when no
// session was obtained.
type ResultPayload struct {
	Status    RunStatus `json:"status"`
	SessionID *string   `json:"session_id"`
}

// NewResultPayload builds the payload, leaving session_id null for an empty id
func NewResultPayload(status RunStatus, sessionID string) ResultPayload {
	p := ResultPayload{Status: status}
	if sessionID != "" {
		id := sessionID
		p.SessionID = &id
	}
	return p
}

// ReportResult records whether the report reached the collection endpoint
type ReportResult struct {
	Attempted  bool
	StatusCode int
	Body       string
	Err        error
}

// Delivered reports whether the endpoint accepted the payload
func (r ReportResult) Delivered() bool {
	return r.Attempted && r.Err == nil
}

// RunResult summarizes one run of a scenario against one session
type RunResult struct {
	RunID       string
	SessionID   string
	OpenErr     error
	ScenarioErr error
	CloseErr    error
	Steps       []StepResult
	Report      ReportResult
}

// Status returns passed only when a session was opened and every step succeeded
func (r RunResult) Status() RunStatus {
	if r.OpenErr != nil || r.ScenarioErr != nil || r.SessionID == "" {
		return RunStatusFailed
	}
	return RunStatusPassed
}

// Err returns the error that failed the run, if any
func (r RunResult) Err() error {
	if r.OpenErr != nil {
		return r.OpenErr
	}
	return r.ScenarioErr
}
