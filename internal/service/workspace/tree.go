package workspace

import (
	"context"
	"log/slog"
	"strings"

	"atrium/internal/authz"
	models "atrium/internal/domain/models/workspace"
	wsRepo "atrium/internal/domain/repositories/workspace"
	"atrium/internal/domain/services"
	wsSvc "atrium/internal/domain/services/workspace"
)

type treeService struct {
	folderRepo wsRepo.FolderRepository
	authorizer services.FolderAuthorizer
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo wsRepo.FolderRepository,
	authorizer services.FolderAuthorizer,
	logger *slog.Logger,
) wsSvc.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		authorizer: authorizer,
		logger:     logger,
	}
}

// GetWorkspaceTree builds the forest of folders the actor may enumerate.
// The accessible filter runs before assembly, so a folder the actor cannot
// open never appears, not even as a pass-through ancestor; its accessible
// descendants are promoted to roots instead.
func (s *treeService) GetWorkspaceTree(ctx context.Context, actorID, workspaceID, query string) (*models.Forest, error) {
	identity, role, err := s.authorizer.Identity(ctx, workspaceID, actorID)
	if err != nil {
		return nil, err
	}

	folders, err := s.folderRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	accessible := authz.AccessibleFolders(folders, identity, role)
	forest := BuildForest(accessible)

	if forest.Repairs > 0 {
		s.logger.Warn("folder hierarchy repaired during tree build",
			"workspace_id", workspaceID,
			"repairs", forest.Repairs,
			"folders", len(accessible),
		)
	}

	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		forest = FilterForest(forest, func(f *models.Folder) bool {
			return strings.Contains(strings.ToLower(f.Name), q)
		})
	}

	return forest, nil
}
