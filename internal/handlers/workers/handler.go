package workers

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/graderelay.net/internal/core/ports/primary"
	"gitlab.com/graderelay.net/internal/core/services/worker"
	"gitlab.com/graderelay.net/internal/handlers/response"
)

// WorkerHandler exposes the live worker registry
type WorkerHandler struct {
	workerService worker.IWorkerRegistrationService
	logger        primary.Logger
}

// NewWorkerHandler creates a new worker handler
func NewWorkerHandler(workerService worker.IWorkerRegistrationService, logger primary.Logger) *WorkerHandler {
	return &WorkerHandler{
		workerService: workerService,
		logger:        logger,
	}
}

// RegisterRoutes registers the API routes for WorkerHandler
func (h *WorkerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/workers", h.ListWorkers).Methods("GET")
}

// ListWorkers handles worker listing requests
func (h *WorkerHandler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.workerService.GetAllWorkers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list workers", "error", err)
		response.WriteError(w, http.StatusServiceUnavailable, "failed to list workers")
		return
	}

	response.WriteJSON(w, http.StatusOK, workers)
}
