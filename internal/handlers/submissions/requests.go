package submissions

import "gitlab.com/graderelay.net/internal/domain"

// TestCasePair mirrors one {input, output} entry of the request body
type TestCasePair struct {
	Input  string `json:"input" validate:"required"`
	Output string `json:"output" validate:"required"`
}

// CreateSubmissionRequest represents a request to submit code for judging
type CreateSubmissionRequest struct {
	Source      string         `json:"source" validate:"required"`
	Lang        string         `json:"lang" validate:"required"`
	TestCases   []TestCasePair `json:"testcases" validate:"required,min=1,dive"`
	GetStdout   bool           `json:"getstdout"`
	CallbackURL string         `json:"callbackurl" validate:"required,url"`
}

func (r *CreateSubmissionRequest) testCases() []domain.TestCase {
	testCases := make([]domain.TestCase, 0, len(r.TestCases))
	for _, pair := range r.TestCases {
		testCases = append(testCases, domain.TestCase{
			Input:  pair.Input,
			Output: pair.Output,
		})
	}
	return testCases
}
