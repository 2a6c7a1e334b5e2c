package domain

// Status codes reported per testcase in the callback payload.
const (
	StatusCodeAccepted         = 0
	StatusCodeWrongAnswer      = 1
	StatusCodeCompilationError = 2
	StatusCodeRuntimeError     = 3
	StatusCodeTimeout          = 4
	StatusCodeInternalError    = 5
)

// TestResult represents the verdict for a single testcase. Stdout and
// Stderr are only populated when the originating job asked for them.
type TestResult struct {
	StatusCode int     `json:"statuscode"`
	Stdout     *string `json:"stdout,omitempty"`
	Stderr     *string `json:"stderr,omitempty"`
}

// CallbackPayload is the asynchronous reply posted to the submission's
// callback URL. Results appear in the same order as the job's testcases.
type CallbackPayload struct {
	ID      int64        `json:"id"`
	Results []TestResult `json:"results"`
}
