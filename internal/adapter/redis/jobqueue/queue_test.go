package jobqueue_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"gitlab.com/graderelay.net/internal/adapter/redis/jobqueue"
	"gitlab.com/graderelay.net/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Warn(msg string, args ...interface{})  {}

func setupQueue(t *testing.T) (*jobqueue.JobQueue, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return jobqueue.NewJobQueue(client, nopLogger{}, 100*time.Millisecond), server
}

func sampleJob() *domain.Job {
	return &domain.Job{
		ID:     11,
		Source: "s1",
		Lang:   "py2",
		TestCases: []domain.TestCase{
			{Input: "i1", Output: "o1"},
			{Input: "i2", Output: "o2"},
		},
		GetStdout:   true,
		CallbackURL: "http://cb/x",
	}
}

func TestPublishConsumeRoundTrip(t *testing.T) {
	queue, _ := setupQueue(t)
	ctx := context.Background()

	accepted, err := queue.Publish(ctx, sampleJob())
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if !accepted {
		t.Fatal("expected the broker to accept the publish")
	}

	job, err := queue.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume returned error: %v", err)
	}
	if job == nil {
		t.Fatal("expected a job")
	}
	if job.ID != 11 || job.Source != "s1" || !job.GetStdout {
		t.Errorf("job did not survive the round trip: %+v", job)
	}
	if len(job.TestCases) != 2 || job.TestCases[0].Input != "i1" || job.TestCases[1].Input != "i2" {
		t.Error("testcase order was not preserved")
	}
	if job.CallbackURL != "http://cb/x" {
		t.Errorf("unexpected callback URL %q", job.CallbackURL)
	}
}

func TestConsumeLeasesUntilAck(t *testing.T) {
	queue, server := setupQueue(t)
	ctx := context.Background()

	if _, err := queue.Publish(ctx, sampleJob()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	job, err := queue.Consume(ctx)
	if err != nil || job == nil {
		t.Fatalf("Consume failed: job=%v err=%v", job, err)
	}

	// Leased but not acked: the job sits on the processing list
	if got := server.Keys(); len(got) != 1 {
		t.Fatalf("expected only the processing list to remain, keys: %v", got)
	}

	if err := queue.Ack(ctx, job); err != nil {
		t.Fatalf("Ack returned error: %v", err)
	}
	if got := server.Keys(); len(got) != 0 {
		t.Errorf("expected no keys after ack, got %v", got)
	}
}

func TestRequeueRecoversStrandedJobs(t *testing.T) {
	queue, _ := setupQueue(t)
	ctx := context.Background()

	if _, err := queue.Publish(ctx, sampleJob()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if _, err := queue.Consume(ctx); err != nil {
		t.Fatalf("Consume returned error: %v", err)
	}

	// Simulate a crashed worker: the job was leased, never acked
	if err := queue.Requeue(ctx); err != nil {
		t.Fatalf("Requeue returned error: %v", err)
	}

	job, err := queue.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume after requeue returned error: %v", err)
	}
	if job == nil || job.ID != 11 {
		t.Fatalf("expected the stranded job back, got %+v", job)
	}
}

func TestConsumeTimesOutOnEmptyQueue(t *testing.T) {
	queue, _ := setupQueue(t)

	job, err := queue.Consume(context.Background())
	if err != nil {
		t.Fatalf("an empty queue is not an error, got: %v", err)
	}
	if job != nil {
		t.Fatalf("expected no job, got %+v", job)
	}
}

func TestPublishBrokerDown(t *testing.T) {
	queue, server := setupQueue(t)
	server.Close()

	accepted, err := queue.Publish(context.Background(), sampleJob())
	if err == nil {
		t.Fatal("expected an error when the broker is unreachable")
	}
	if accepted {
		t.Error("a failed publish must not report accepted")
	}
}
