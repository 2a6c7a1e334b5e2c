package errs

import "errors"

var (
	SourceRequired      = errors.New("source is required")
	CallbackURLRequired = errors.New("callbackurl is required")
	CallbackURLInvalid  = errors.New("callbackurl is not a valid URL")
	SourceInvalid       = errors.New("source is not a valid locator")
	TestCasesRequired   = errors.New("at least one testcase is required")
	UnknownLanguage     = errors.New("unknown language")
	SubmissionRejected  = errors.New("failed to persist submission")
)
