package secondary

import (
	"context"
)

// ExecutionOutput is what the executor observed for a single run.
type ExecutionOutput struct {
	Stdout        string
	Stderr        string
	CompileOutput string
	Status        ExecutionStatus
}

// ExecutionStatus classifies a single run.
type ExecutionStatus string

const (
	ExecutionStatusOK               ExecutionStatus = "OK"
	ExecutionStatusCompilationError ExecutionStatus = "COMPILATION_ERROR"
	ExecutionStatusRuntimeError     ExecutionStatus = "RUNTIME_ERROR"
	ExecutionStatusTimeout          ExecutionStatus = "TIMEOUT"
)

// CodeExecutor runs submitted source against one testcase input. Actual
// sandboxing lives behind this port; the worker only compares outputs.
type CodeExecutor interface {
	Execute(ctx context.Context, source, lang, stdin string) (*ExecutionOutput, error)
}
