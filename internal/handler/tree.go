package handler

import (
	"log/slog"
	"net/http"

	wsSvc "atrium/internal/domain/services/workspace"
	"atrium/internal/httputil"
)

// TreeHandler handles HTTP requests for tree operations
type TreeHandler struct {
	treeService wsSvc.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService wsSvc.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// GetTree returns the caller's folder hierarchy for a workspace.
// An optional ?q= filters by folder name, keeping ancestors of matches.
// GET /api/workspaces/{id}/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.PathValue("id")
	if workspaceID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Workspace ID is required")
		return
	}

	userID := httputil.GetUserID(r)
	query := r.URL.Query().Get("q")

	forest, err := h.treeService.GetWorkspaceTree(r.Context(), userID, workspaceID, query)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, forest)
}
