package domain

// Job is the unit of work published for asynchronous judging. Its ID is
// always the ID of the submission it was built from; there is no separate
// job identity. A job is only ever constructed after the submission row
// exists, so every dequeued job has an addressable owner.
type Job struct {
	ID          int64      `json:"id"`
	Source      string     `json:"source"`
	Lang        string     `json:"lang"`
	TestCases   []TestCase `json:"testcases"`
	GetStdout   bool       `json:"getstdout"`
	CallbackURL string     `json:"callbackurl"`
}

// NewJob builds the job for a persisted submission, copying the request
// fields verbatim.
func NewJob(submissionID int64, source, lang string, testCases []TestCase, getStdout bool, callbackURL string) *Job {
	return &Job{
		ID:          submissionID,
		Source:      source,
		Lang:        lang,
		TestCases:   testCases,
		GetStdout:   getStdout,
		CallbackURL: callbackURL,
	}
}
