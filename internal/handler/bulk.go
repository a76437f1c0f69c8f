package handler

import (
	"log/slog"
	"net/http"

	wsSvc "atrium/internal/domain/services/workspace"
	"atrium/internal/httputil"
)

// BulkHandler handles multi-folder selection requests
type BulkHandler struct {
	bulkService wsSvc.BulkService
	logger      *slog.Logger
}

// NewBulkHandler creates a new bulk operation handler
func NewBulkHandler(bulkService wsSvc.BulkService, logger *slog.Logger) *BulkHandler {
	return &BulkHandler{
		bulkService: bulkService,
		logger:      logger,
	}
}

// ArchiveFolders archives a folder selection and returns the partition.
// A partially denied selection is still a 200: denial is data here.
// POST /api/workspaces/{id}/folders/archive
func (h *BulkHandler) ArchiveFolders(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.PathValue("id")
	if workspaceID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Workspace ID is required")
		return
	}

	userID := httputil.GetUserID(r)

	var req wsSvc.BulkSelectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.WorkspaceID = workspaceID
	req.ActorID = userID

	result, err := h.bulkService.ArchiveFolders(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
