package domain

// TestCase is one input/expected-output pair. Testcase order is
// significant: callback results must mirror it positionally.
type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}
