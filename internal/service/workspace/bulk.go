package workspace

import (
	"context"
	"fmt"
	"log/slog"

	"atrium/internal/authz"
	"atrium/internal/config"
	"atrium/internal/domain"
	models "atrium/internal/domain/models/workspace"
	wsRepo "atrium/internal/domain/repositories/workspace"
	"atrium/internal/domain/services"
	wsSvc "atrium/internal/domain/services/workspace"
)

type bulkService struct {
	folderRepo wsRepo.FolderRepository
	authorizer services.FolderAuthorizer
	logger     *slog.Logger
}

// NewBulkService creates a new bulk operation service
func NewBulkService(
	folderRepo wsRepo.FolderRepository,
	authorizer services.FolderAuthorizer,
	logger *slog.Logger,
) wsSvc.BulkService {
	return &bulkService{
		folderRepo: folderRepo,
		authorizer: authorizer,
		logger:     logger,
	}
}

// Authorize computes the allowed/denied partition for an operation over the
// selection without performing it. Selected folders that do not exist in the
// workspace are reported as denied rather than erroring the whole selection.
func (s *bulkService) Authorize(ctx context.Context, req *wsSvc.BulkSelectionRequest, op authz.Operation) (*authz.BulkDecision, error) {
	if len(req.FolderIDs) == 0 {
		return nil, fmt.Errorf("%w: empty folder selection", domain.ErrValidation)
	}
	if len(req.FolderIDs) > config.MaxBulkSelectionSize {
		return nil, fmt.Errorf("%w: selection exceeds %d folders", domain.ErrValidation, config.MaxBulkSelectionSize)
	}

	identity, role, err := s.authorizer.Identity(ctx, req.WorkspaceID, req.ActorID)
	if err != nil {
		return nil, err
	}

	folders, err := s.folderRepo.ListByWorkspace(ctx, req.WorkspaceID)
	if err != nil {
		return nil, err
	}

	selection := resolveSelection(folders, req.FolderIDs)

	decision := authz.AuthorizeBulk(selection.found, op, identity, role)
	decision.Denied = append(decision.Denied, selection.missing...)

	return &decision, nil
}

// ArchiveFolders archives every selected folder the actor may archive and
// reports the rest. Transitions are applied one folder at a time: a store
// failure on one folder lands it in Failed and the batch continues.
func (s *bulkService) ArchiveFolders(ctx context.Context, req *wsSvc.BulkSelectionRequest) (*wsSvc.BulkResult, error) {
	decision, err := s.Authorize(ctx, req, authz.OpArchive)
	if err != nil {
		return nil, err
	}

	result := &wsSvc.BulkResult{
		Archived: make([]string, 0, len(decision.Allowed)),
		Denied:   decision.Denied,
	}

	for _, id := range decision.Allowed {
		if err := s.folderRepo.UpdateStatus(ctx, id, models.StatusArchived); err != nil {
			s.logger.Error("bulk archive transition failed",
				"folder_id", id,
				"workspace_id", req.WorkspaceID,
				"error", err,
			)
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Archived = append(result.Archived, id)
	}

	s.logger.Info("bulk archive completed",
		"workspace_id", req.WorkspaceID,
		"actor_id", req.ActorID,
		"selected", len(req.FolderIDs),
		"archived", len(result.Archived),
		"denied", len(result.Denied),
		"failed", len(result.Failed),
	)

	return result, nil
}

type selectionLookup struct {
	found   []models.Folder
	missing []string
}

// resolveSelection maps requested ids onto the workspace snapshot, keeping
// selection order and separating ids with no matching folder.
func resolveSelection(folders []models.Folder, ids []string) selectionLookup {
	byID := make(map[string]*models.Folder, len(folders))
	for i := range folders {
		byID[folders[i].ID] = &folders[i]
	}

	lookup := selectionLookup{
		found:   make([]models.Folder, 0, len(ids)),
		missing: make([]string, 0),
	}
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			lookup.found = append(lookup.found, *f)
		} else {
			lookup.missing = append(lookup.missing, id)
		}
	}
	return lookup
}
