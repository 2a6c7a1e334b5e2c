// package callback implements result delivery to the caller-supplied URL.
// Delivery is at-least-once: the receiving end must treat payloads as
// idempotent, keyed by submission id.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v4"

	"gitlab.com/graderelay.net/internal/config"
	"gitlab.com/graderelay.net/internal/core/ports/primary"
	"gitlab.com/graderelay.net/internal/domain"
)

// IDeliveryService defines the interface for callback delivery
type IDeliveryService interface {
	// Deliver posts the payload to the callback URL, retrying transient
	// failures with backoff up to the configured bound
	Deliver(ctx context.Context, callbackURL string, payload *domain.CallbackPayload) error
}

var _ IDeliveryService = (*DeliveryService)(nil)

// DeliveryService implements the IDeliveryService interface over HTTP
type DeliveryService struct {
	client *http.Client
	cfg    *config.CallbackCfg
	logger primary.Logger
}

// NewDeliveryService creates a new callback delivery service
func NewDeliveryService(cfg *config.CallbackCfg, logger primary.Logger) *DeliveryService {
	return &DeliveryService{
		client: &http.Client{Timeout: cfg.RequestTimeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Deliver posts the results to the callback endpoint. Network errors and
// non-2xx responses are retried with exponential backoff; after the
// attempt budget is spent the last error is returned so the caller can
// record the delivery failure against the submission.
func (s *DeliveryService) Deliver(ctx context.Context, callbackURL string, payload *domain.CallbackPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal callback payload: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.cfg.InitialInterval
	policy.MaxElapsedTime = s.cfg.MaxElapsedTime

	attempt := 0
	operation := func() error {
		attempt++
		if err := s.post(ctx, callbackURL, body); err != nil {
			s.logger.Warn("Callback delivery attempt failed",
				"submissionId", payload.ID, "attempt", attempt, "error", err)
			return err
		}
		return nil
	}

	err = backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(policy, s.cfg.MaxAttempts-1), ctx))
	if err != nil {
		s.logger.Error("Callback delivery exhausted",
			"submissionId", payload.ID, "attempts", attempt, "error", err)
		return fmt.Errorf("callback delivery exhausted: %w", err)
	}

	s.logger.Info("Callback delivered", "submissionId", payload.ID, "attempts", attempt)
	return nil
}

func (s *DeliveryService) post(ctx context.Context, callbackURL string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, bytes.NewReader(body))
	if err != nil {
		// A malformed URL will never succeed, stop retrying
		return backoff.Permanent(fmt.Errorf("failed to build callback request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach callback endpoint: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("callback endpoint returned HTTP %d", resp.StatusCode)
	}

	return nil
}
