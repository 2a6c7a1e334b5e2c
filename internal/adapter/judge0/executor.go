// package judge0 delegates code execution to a Judge0 CE instance. The
// service never runs untrusted code itself; sandboxing is the executor's
// problem.
package judge0

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gitlab.com/graderelay.net/internal/config"
	"gitlab.com/graderelay.net/internal/core/ports/primary"
	"gitlab.com/graderelay.net/internal/core/ports/secondary"
)

// Judge0 language ids for the registry slugs.
var languageIDs = map[string]int{
	"py2":     70,
	"java8":   62,
	"nodejs6": 63,
	"cpp":     54,
	"c":       50,
}

// Executor implements the CodeExecutor interface against the Judge0 REST API
type Executor struct {
	url       string
	authToken string
	client    *http.Client
	logger    primary.Logger
}

// NewExecutor creates a new Judge0 executor
func NewExecutor(cfg *config.ExecutorCfg, logger primary.Logger) *Executor {
	return &Executor{
		url:       strings.TrimRight(cfg.URL, "/"),
		authToken: cfg.AuthToken,
		client:    &http.Client{Timeout: cfg.RequestTimeout},
		logger:    logger,
	}
}

// Execute submits source code to Judge0 and waits synchronously for the run
func (e *Executor) Execute(ctx context.Context, source, lang, stdin string) (*secondary.ExecutionOutput, error) {
	languageID, ok := languageIDs[lang]
	if !ok {
		return nil, fmt.Errorf("no executor language for slug '%s'", lang)
	}

	reqBody := map[string]interface{}{
		"source_code": base64.StdEncoding.EncodeToString([]byte(source)),
		"language_id": languageID,
	}
	if stdin != "" {
		reqBody["stdin"] = base64.StdEncoding.EncodeToString([]byte(stdin))
	}

	bodyJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal execution request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.url+"/submissions?base64_encoded=true&wait=true", bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to build execution request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.authToken != "" {
		req.Header.Set("X-Auth-Token", e.authToken)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Error("Failed to reach executor", "error", err)
		return nil, fmt.Errorf("failed to reach executor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("executor returned HTTP %d", resp.StatusCode)
	}

	var raw struct {
		Stdout        *string `json:"stdout"`
		Stderr        *string `json:"stderr"`
		CompileOutput *string `json:"compile_output"`
		Status        struct {
			ID          int    `json:"id"`
			Description string `json:"description"`
		} `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode executor response: %w", err)
	}

	out := &secondary.ExecutionOutput{
		Status: mapStatus(raw.Status.ID),
	}
	out.Stdout = decodeField(raw.Stdout)
	out.Stderr = decodeField(raw.Stderr)
	out.CompileOutput = decodeField(raw.CompileOutput)

	return out, nil
}

// mapStatus folds Judge0 status ids into the executor statuses the worker
// cares about. 3 is Accepted, 4 is Wrong Answer (both are successful runs;
// output comparison happens in the worker), 5 is TLE, 6 is a compile error.
func mapStatus(id int) secondary.ExecutionStatus {
	switch id {
	case 3, 4:
		return secondary.ExecutionStatusOK
	case 5:
		return secondary.ExecutionStatusTimeout
	case 6:
		return secondary.ExecutionStatusCompilationError
	default:
		return secondary.ExecutionStatusRuntimeError
	}
}

func decodeField(field *string) string {
	if field == nil {
		return ""
	}
	decoded, err := base64.StdEncoding.DecodeString(*field)
	if err != nil {
		return *field
	}
	return string(decoded)
}
