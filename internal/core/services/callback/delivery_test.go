package callback_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gitlab.com/graderelay.net/internal/config"
	"gitlab.com/graderelay.net/internal/core/services/callback"
	"gitlab.com/graderelay.net/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Warn(msg string, args ...interface{})  {}

func testCfg() *config.CallbackCfg {
	return &config.CallbackCfg{
		MaxAttempts:     4,
		InitialInterval: time.Millisecond,
		MaxElapsedTime:  time.Second,
		RequestTimeout:  time.Second,
	}
}

func payload() *domain.CallbackPayload {
	return &domain.CallbackPayload{
		ID: 42,
		Results: []domain.TestResult{
			{StatusCode: domain.StatusCodeAccepted},
			{StatusCode: domain.StatusCodeWrongAnswer},
		},
	}
}

func TestDeliverPostsPayload(t *testing.T) {
	var received domain.CallbackPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode callback body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := callback.NewDeliveryService(testCfg(), nopLogger{})
	if err := svc.Deliver(context.Background(), server.URL, payload()); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}

	if received.ID != 42 {
		t.Errorf("expected id 42, got %d", received.ID)
	}
	if len(received.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(received.Results))
	}
	if received.Results[0].StatusCode != domain.StatusCodeAccepted ||
		received.Results[1].StatusCode != domain.StatusCodeWrongAnswer {
		t.Error("result order was not preserved")
	}
}

func TestDeliverRetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := callback.NewDeliveryService(testCfg(), nopLogger{})
	if err := svc.Deliver(context.Background(), server.URL, payload()); err != nil {
		t.Fatalf("Deliver should have succeeded after retries: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestDeliverGivesUpAfterBoundedAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := callback.NewDeliveryService(testCfg(), nopLogger{})
	if err := svc.Deliver(context.Background(), server.URL, payload()); err == nil {
		t.Fatal("expected exhausted delivery to return an error")
	}

	if got := atomic.LoadInt32(&calls); got != 4 {
		t.Errorf("expected exactly 4 attempts, got %d", got)
	}
}

func TestDeliverUnreachableEndpoint(t *testing.T) {
	svc := callback.NewDeliveryService(testCfg(), nopLogger{})
	if err := svc.Deliver(context.Background(), "http://127.0.0.1:1/cb", payload()); err == nil {
		t.Fatal("expected delivery to an unreachable endpoint to fail")
	}
}
