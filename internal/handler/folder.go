package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"atrium/internal/domain"
	models "atrium/internal/domain/models/workspace"
	wsSvc "atrium/internal/domain/services/workspace"
	"atrium/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService wsSvc.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService wsSvc.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// ListFolders returns the flat accessible set of a workspace
// GET /api/workspaces/{id}/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.PathValue("id")
	if workspaceID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Workspace ID is required")
		return
	}

	userID := httputil.GetUserID(r)

	folders, err := h.folderService.ListAccessible(r.Context(), userID, workspaceID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"folders": folders,
	})
}

// CreateFolder creates a new folder
// POST /api/workspaces/{id}/folders
// Returns 201 if created, 409 with the existing folder if the name is taken
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.PathValue("id")
	if workspaceID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Workspace ID is required")
		return
	}

	userID := httputil.GetUserID(r)

	var req wsSvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.WorkspaceID = workspaceID
	req.ActorID = userID

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		// Duplicate names return the existing folder alongside the 409
		HandleCreateConflict(w, err, func() (*models.Folder, error) {
			var conflictErr *domain.ConflictError
			if errors.As(err, &conflictErr) {
				return h.folderService.GetFolder(r.Context(), userID, conflictErr.ResourceID)
			}
			return nil, err
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolder retrieves a folder by ID
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Folder ID is required")
		return
	}

	userID := httputil.GetUserID(r)

	folder, err := h.folderService.GetFolder(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// GetCapabilities returns the caller's resolved capability record for a folder
// GET /api/folders/{id}/capabilities
func (h *FolderHandler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Folder ID is required")
		return
	}

	userID := httputil.GetUserID(r)

	caps, err := h.folderService.GetCapabilities(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, caps)
}

// updateFolderBody is the wire shape of a folder PATCH. team_id and
// project_id use tri-state semantics: absent leaves the tag alone, null
// clears it, a value sets it.
type updateFolderBody struct {
	Name        *string                 `json:"name"`
	Visibility  *models.Visibility      `json:"visibility"`
	TeamID      httputil.OptionalString `json:"team_id"`
	ProjectID   httputil.OptionalString `json:"project_id"`
	Settings    *models.FolderSettings  `json:"settings"`
	Permissions *models.PermissionLists `json:"permissions"`
	Archive     bool                    `json:"archive"`
}

// UpdateFolder renames, re-tags, or edits permissions of a folder
// PATCH /api/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Folder ID is required")
		return
	}

	userID := httputil.GetUserID(r)

	var body updateFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req := wsSvc.UpdateFolderRequest{
		ActorID:     userID,
		Name:        body.Name,
		Visibility:  body.Visibility,
		TeamID:      wsSvc.OptionalTag{Present: body.TeamID.Present, Value: body.TeamID.Value},
		ProjectID:   wsSvc.OptionalTag{Present: body.ProjectID.Present, Value: body.ProjectID.Value},
		Settings:    body.Settings,
		Permissions: body.Permissions,
		Archive:     body.Archive,
	}

	folder, err := h.folderService.UpdateFolder(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder hard-deletes a folder
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Folder ID is required")
		return
	}

	userID := httputil.GetUserID(r)

	if err := h.folderService.DeleteFolder(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
