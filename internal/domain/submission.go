package domain

import (
	"time"
)

// SubmissionStatus represents the lifecycle state of a submission
type SubmissionStatus string

const (
	// SubmissionStatusPending is set at creation, before any judging happened.
	SubmissionStatusPending SubmissionStatus = "PENDING"
	// SubmissionStatusJudged means results are durably recorded but the
	// callback has not been confirmed yet.
	SubmissionStatusJudged SubmissionStatus = "JUDGED"
	// SubmissionStatusDelivered means the callback endpoint acknowledged the results.
	SubmissionStatusDelivered SubmissionStatus = "DELIVERED"
	// SubmissionStatusDeliveryFailed means callback delivery was retried and gave up.
	SubmissionStatusDeliveryFailed SubmissionStatus = "DELIVERY_FAILED"
)

// Submission represents one judging request. The ID is assigned by the
// store at creation and doubles as the job identifier on the queue.
type Submission struct {
	ID          int64            `db:"id" json:"id"`
	Lang        string           `db:"lang" json:"lang"`
	StartTime   time.Time        `db:"start_time" json:"start_time"`
	CallbackURL string           `db:"callback_url" json:"callbackurl"`
	Status      SubmissionStatus `db:"status" json:"status"`
	Results     []TestResult     `json:"results,omitempty"`
	CompletedAt *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
}

type SubmissionTable struct {
	ID          string
	Lang        string
	StartTime   string
	CallbackURL string
	Status      string
	Results     string
	CompletedAt string
}

func GetSubmissionTable() SubmissionTable {
	return SubmissionTable{
		ID:          "id",
		Lang:        "lang",
		StartTime:   "start_time",
		CallbackURL: "callback_url",
		Status:      "status",
		Results:     "results",
		CompletedAt: "completed_at",
	}
}

func (SubmissionTable) TableName() string {
	return "submissions"
}

// SubmissionResponse is the synchronous reply to a submission request.
// Accepted reflects only whether the queue took the job, never the
// outcome of judging.
type SubmissionResponse struct {
	ID          int64  `json:"id"`
	Accepted    bool   `json:"accepted"`
	CallbackURL string `json:"callbackurl"`
}
