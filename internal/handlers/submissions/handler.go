package submissions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"gitlab.com/graderelay.net/internal/core/ports/primary"
	"gitlab.com/graderelay.net/internal/core/services/intake"
	"gitlab.com/graderelay.net/internal/handlers/response"
)

// SubmissionHandler handles submission API requests
type SubmissionHandler struct {
	intakeService intake.IIntakeService
	validate      *validator.Validate
	logger        primary.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(intakeService intake.IIntakeService, logger primary.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		intakeService: intakeService,
		validate:      validator.New(),
		logger:        logger,
	}
}

// RegisterRoutes registers the API routes for SubmissionHandler
func (h *SubmissionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/submissions", h.CreateSubmission).Methods("POST")
	router.HandleFunc("/submissions", h.ListSubmissions).Methods("GET")
	router.HandleFunc("/submissions/{submissionId}", h.GetSubmission).Methods("GET")
	router.HandleFunc("/languages", h.ListLanguages).Methods("GET")
}

// CreateSubmission handles submission requests. A 202 only means the
// submission was persisted; the accepted flag carries the enqueue outcome.
func (h *SubmissionHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.intakeService.Accept(r.Context(), &intake.SubmissionRequest{
		Source:      req.Source,
		Lang:        req.Lang,
		TestCases:   req.testCases(),
		GetStdout:   req.GetStdout,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		var validationErr *intake.ValidationError
		if errors.As(err, &validationErr) {
			response.WriteError(w, http.StatusBadRequest, validationErr.Error())
			return
		}
		h.logger.Error("Failed to accept submission", "error", err)
		response.WriteError(w, http.StatusServiceUnavailable, "failed to persist submission")
		return
	}

	response.WriteJSON(w, http.StatusAccepted, resp)
}

// ListSubmissions handles submission listing requests
func (h *SubmissionHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.intakeService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list submissions", "error", err)
		response.WriteError(w, http.StatusServiceUnavailable, "failed to list submissions")
		return
	}

	response.WriteJSON(w, http.StatusOK, submissions)
}

// GetSubmission handles submission retrieval requests
func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	submissionID, err := strconv.ParseInt(vars["submissionId"], 10, 64)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid submission ID")
		return
	}

	submission, err := h.intakeService.Get(r.Context(), submissionID)
	if err != nil {
		h.logger.Error("Failed to get submission", "submissionId", submissionID, "error", err)
		response.WriteError(w, http.StatusServiceUnavailable, "failed to get submission")
		return
	}

	if submission == nil {
		response.WriteError(w, http.StatusNotFound, "submission not found")
		return
	}

	response.WriteJSON(w, http.StatusOK, submission)
}

// ListLanguages handles language registry requests
func (h *SubmissionHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.intakeService.Languages(r.Context())
	if err != nil {
		h.logger.Error("Failed to list languages", "error", err)
		response.WriteError(w, http.StatusServiceUnavailable, "failed to list languages")
		return
	}

	response.WriteJSON(w, http.StatusOK, languages)
}
