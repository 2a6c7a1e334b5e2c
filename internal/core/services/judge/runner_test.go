package judge_test

import (
	"context"
	"errors"
	"testing"

	"gitlab.com/graderelay.net/internal/core/ports/secondary"
	"gitlab.com/graderelay.net/internal/core/services/judge"
	"gitlab.com/graderelay.net/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Warn(msg string, args ...interface{})  {}

// memSubmissionRepo mimics the store's conditional state machine
type memSubmissionRepo struct {
	subs map[int64]*domain.Submission
}

func (m *memSubmissionRepo) CreateSubmission(ctx context.Context, submission *domain.Submission) (int64, error) {
	return 0, errors.New("not used")
}

func (m *memSubmissionRepo) GetSubmission(ctx context.Context, submissionID int64) (*domain.Submission, error) {
	sub, ok := m.subs[submissionID]
	if !ok {
		return nil, nil
	}
	copied := *sub
	return &copied, nil
}

func (m *memSubmissionRepo) ListSubmissions(ctx context.Context) ([]*domain.Submission, error) {
	return nil, nil
}

func (m *memSubmissionRepo) RecordVerdict(ctx context.Context, submissionID int64, results []domain.TestResult) (bool, error) {
	sub, ok := m.subs[submissionID]
	if !ok || sub.Status != domain.SubmissionStatusPending {
		return false, nil
	}
	sub.Status = domain.SubmissionStatusJudged
	sub.Results = results
	return true, nil
}

func (m *memSubmissionRepo) MarkDelivered(ctx context.Context, submissionID int64) error {
	if sub, ok := m.subs[submissionID]; ok && sub.Status == domain.SubmissionStatusJudged {
		sub.Status = domain.SubmissionStatusDelivered
	}
	return nil
}

func (m *memSubmissionRepo) MarkDeliveryFailed(ctx context.Context, submissionID int64) error {
	if sub, ok := m.subs[submissionID]; ok && sub.Status == domain.SubmissionStatusJudged {
		sub.Status = domain.SubmissionStatusDeliveryFailed
	}
	return nil
}

type fakeExecutor struct {
	outputs map[string]*secondary.ExecutionOutput
	err     error
	calls   int
}

func (f *fakeExecutor) Execute(ctx context.Context, source, lang, stdin string) (*secondary.ExecutionOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if out, ok := f.outputs[stdin]; ok {
		return out, nil
	}
	return &secondary.ExecutionOutput{Status: secondary.ExecutionStatusOK}, nil
}

type fakeDelivery struct {
	payloads []*domain.CallbackPayload
	urls     []string
	err      error
}

func (f *fakeDelivery) Deliver(ctx context.Context, callbackURL string, payload *domain.CallbackPayload) error {
	f.urls = append(f.urls, callbackURL)
	f.payloads = append(f.payloads, payload)
	return f.err
}

type ackQueue struct {
	acked []*domain.Job
}

func (q *ackQueue) Publish(ctx context.Context, job *domain.Job) (bool, error) { return true, nil }
func (q *ackQueue) Consume(ctx context.Context) (*domain.Job, error)           { return nil, nil }
func (q *ackQueue) Ack(ctx context.Context, job *domain.Job) error {
	q.acked = append(q.acked, job)
	return nil
}

func pendingRepo(id int64) *memSubmissionRepo {
	return &memSubmissionRepo{subs: map[int64]*domain.Submission{
		id: {ID: id, Lang: "cpp", Status: domain.SubmissionStatusPending, CallbackURL: "http://cb/x"},
	}}
}

func testJob(getStdout bool) *domain.Job {
	return &domain.Job{
		ID:     7,
		Source: "s1",
		Lang:   "cpp",
		TestCases: []domain.TestCase{
			{Input: "i1", Output: "o1"},
			{Input: "i2", Output: "o2"},
		},
		GetStdout:   getStdout,
		CallbackURL: "http://cb/x",
	}
}

func TestProcessJudgesAndDelivers(t *testing.T) {
	repo := pendingRepo(7)
	executor := &fakeExecutor{outputs: map[string]*secondary.ExecutionOutput{
		"i1": {Status: secondary.ExecutionStatusOK, Stdout: "o1"},
		"i2": {Status: secondary.ExecutionStatusOK, Stdout: "wrong"},
	}}
	delivery := &fakeDelivery{}
	queue := &ackQueue{}
	runner := judge.NewRunner(queue, repo, executor, delivery, nopLogger{})

	runner.Process(context.Background(), testJob(true))

	if len(delivery.payloads) != 1 {
		t.Fatalf("expected one delivery, got %d", len(delivery.payloads))
	}
	payload := delivery.payloads[0]
	if payload.ID != 7 {
		t.Errorf("expected payload id 7, got %d", payload.ID)
	}
	if len(payload.Results) != 2 {
		t.Fatalf("expected one result per testcase, got %d", len(payload.Results))
	}
	if payload.Results[0].StatusCode != domain.StatusCodeAccepted {
		t.Errorf("first testcase should pass, got status %d", payload.Results[0].StatusCode)
	}
	if payload.Results[1].StatusCode != domain.StatusCodeWrongAnswer {
		t.Errorf("second testcase should be a wrong answer, got status %d", payload.Results[1].StatusCode)
	}
	if payload.Results[0].Stdout == nil || *payload.Results[0].Stdout != "o1" {
		t.Error("stdout should be included when the job asked for it")
	}
	if delivery.urls[0] != "http://cb/x" {
		t.Errorf("delivered to wrong URL %q", delivery.urls[0])
	}
	if repo.subs[7].Status != domain.SubmissionStatusDelivered {
		t.Errorf("expected DELIVERED, got %s", repo.subs[7].Status)
	}
	if len(queue.acked) != 1 {
		t.Errorf("expected the job to be acked once, got %d", len(queue.acked))
	}
}

func TestProcessOmitsOutputWhenNotRequested(t *testing.T) {
	repo := pendingRepo(7)
	executor := &fakeExecutor{outputs: map[string]*secondary.ExecutionOutput{
		"i1": {Status: secondary.ExecutionStatusOK, Stdout: "o1", Stderr: "noise"},
		"i2": {Status: secondary.ExecutionStatusOK, Stdout: "o2"},
	}}
	delivery := &fakeDelivery{}
	runner := judge.NewRunner(&ackQueue{}, repo, executor, delivery, nopLogger{})

	runner.Process(context.Background(), testJob(false))

	for i, result := range delivery.payloads[0].Results {
		if result.Stdout != nil || result.Stderr != nil {
			t.Errorf("result %d must omit stdout/stderr when getstdout is false", i)
		}
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	repo := pendingRepo(7)
	executor := &fakeExecutor{}
	delivery := &fakeDelivery{}
	runner := judge.NewRunner(&ackQueue{}, repo, executor, delivery, nopLogger{})

	job := testJob(false)
	runner.Process(context.Background(), job)
	runner.Process(context.Background(), job)

	if executor.calls != len(job.TestCases) {
		t.Errorf("a redelivered job must not re-execute tests, executor ran %d times", executor.calls)
	}
	if len(delivery.payloads) != 1 {
		t.Errorf("a terminal submission must not be redelivered, got %d deliveries", len(delivery.payloads))
	}
	if repo.subs[7].Status != domain.SubmissionStatusDelivered {
		t.Errorf("expected DELIVERED, got %s", repo.subs[7].Status)
	}
}

func TestProcessRedeliversRecordedResults(t *testing.T) {
	recorded := []domain.TestResult{{StatusCode: domain.StatusCodeAccepted}, {StatusCode: domain.StatusCodeTimeout}}
	repo := &memSubmissionRepo{subs: map[int64]*domain.Submission{
		7: {ID: 7, Status: domain.SubmissionStatusJudged, Results: recorded, CallbackURL: "http://cb/x"},
	}}
	executor := &fakeExecutor{}
	delivery := &fakeDelivery{}
	runner := judge.NewRunner(&ackQueue{}, repo, executor, delivery, nopLogger{})

	runner.Process(context.Background(), testJob(false))

	if executor.calls != 0 {
		t.Errorf("a judged submission must not be re-executed, executor ran %d times", executor.calls)
	}
	if len(delivery.payloads) != 1 {
		t.Fatalf("expected the recorded results to be delivered, got %d deliveries", len(delivery.payloads))
	}
	if delivery.payloads[0].Results[1].StatusCode != domain.StatusCodeTimeout {
		t.Error("delivery did not use the recorded results")
	}
	if repo.subs[7].Status != domain.SubmissionStatusDelivered {
		t.Errorf("expected DELIVERED, got %s", repo.subs[7].Status)
	}
}

func TestProcessRecordsDeliveryFailure(t *testing.T) {
	repo := pendingRepo(7)
	delivery := &fakeDelivery{err: errors.New("endpoint gone")}
	runner := judge.NewRunner(&ackQueue{}, repo, &fakeExecutor{}, delivery, nopLogger{})

	runner.Process(context.Background(), testJob(false))

	if repo.subs[7].Status != domain.SubmissionStatusDeliveryFailed {
		t.Errorf("expected DELIVERY_FAILED, got %s", repo.subs[7].Status)
	}
	if repo.subs[7].Results == nil {
		t.Error("results must stay recorded even when delivery fails")
	}
}

func TestProcessMapsExecutorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		output *secondary.ExecutionOutput
		want   int
	}{
		{"compile error", &secondary.ExecutionOutput{Status: secondary.ExecutionStatusCompilationError}, domain.StatusCodeCompilationError},
		{"timeout", &secondary.ExecutionOutput{Status: secondary.ExecutionStatusTimeout}, domain.StatusCodeTimeout},
		{"runtime error", &secondary.ExecutionOutput{Status: secondary.ExecutionStatusRuntimeError}, domain.StatusCodeRuntimeError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := pendingRepo(7)
			executor := &fakeExecutor{outputs: map[string]*secondary.ExecutionOutput{
				"i1": tc.output,
				"i2": tc.output,
			}}
			delivery := &fakeDelivery{}
			runner := judge.NewRunner(&ackQueue{}, repo, executor, delivery, nopLogger{})

			runner.Process(context.Background(), testJob(false))

			if got := delivery.payloads[0].Results[0].StatusCode; got != tc.want {
				t.Errorf("expected status %d, got %d", tc.want, got)
			}
		})
	}
}

func TestProcessExecutorErrorBecomesInternalError(t *testing.T) {
	repo := pendingRepo(7)
	executor := &fakeExecutor{err: errors.New("executor down")}
	delivery := &fakeDelivery{}
	runner := judge.NewRunner(&ackQueue{}, repo, executor, delivery, nopLogger{})

	runner.Process(context.Background(), testJob(false))

	results := delivery.payloads[0].Results
	if len(results) != 2 {
		t.Fatalf("expected one result per testcase, got %d", len(results))
	}
	for i, result := range results {
		if result.StatusCode != domain.StatusCodeInternalError {
			t.Errorf("result %d: expected internal error status, got %d", i, result.StatusCode)
		}
	}
}
