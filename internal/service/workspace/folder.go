package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"atrium/internal/authz"
	"atrium/internal/domain"
	models "atrium/internal/domain/models/workspace"
	"atrium/internal/domain/repositories"
	wsRepo "atrium/internal/domain/repositories/workspace"
	"atrium/internal/domain/services"
	wsSvc "atrium/internal/domain/services/workspace"
)

type folderService struct {
	folderRepo wsRepo.FolderRepository
	roles      *authz.RoleRegistry
	authorizer services.FolderAuthorizer
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo wsRepo.FolderRepository,
	roles *authz.RoleRegistry,
	authorizer services.FolderAuthorizer,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) wsSvc.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		roles:      roles,
		authorizer: authorizer,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateFolder creates a new folder after role, quota, and parent checks.
// The quota count and the insert run in one transaction so concurrent
// creations cannot slip past the limit together.
func (s *folderService) CreateFolder(ctx context.Context, req *wsSvc.CreateFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)

	if err := validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validateTypeShape(req); err != nil {
		return nil, err
	}

	_, role, err := s.authorizer.Identity(ctx, req.WorkspaceID, req.ActorID)
	if err != nil {
		return nil, err
	}

	baseline, err := s.roles.Baseline(role)
	if err != nil {
		return nil, err
	}
	if !baseline.CanCreateFolders {
		return nil, fmt.Errorf("role %s cannot create folders: %w", role, domain.ErrForbidden)
	}
	if !baseline.CanCreateType(req.FolderType) {
		return nil, fmt.Errorf("role %s cannot create %s folders: %w", role, req.FolderType, domain.ErrForbidden)
	}

	var parent *models.Folder
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	if req.ParentID != nil {
		parent, err = s.folderRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent folder: %w", err)
		}
		if parent.WorkspaceID != req.WorkspaceID {
			return nil, fmt.Errorf("%w: parent folder belongs to a different workspace", domain.ErrValidation)
		}
		if parent.IsArchived() {
			return nil, fmt.Errorf("%w: cannot create folders under an archived folder", domain.ErrValidation)
		}
		if !parent.Settings.AllowSubfolders {
			return nil, fmt.Errorf("%w: parent folder does not allow subfolders", domain.ErrValidation)
		}
		// Writing into the parent requires upload capability on it.
		if err := s.authorizer.Require(ctx, req.ActorID, parent, authz.OpUpload); err != nil {
			return nil, err
		}
	}

	settings := models.FolderSettings{AllowSubfolders: true}
	if req.Settings != nil {
		settings = *req.Settings
	}

	folder := &models.Folder{
		WorkspaceID:      req.WorkspaceID,
		ParentID:         req.ParentID,
		Name:             req.Name,
		FolderType:       req.FolderType,
		Visibility:       req.Visibility,
		OwnerID:          req.ActorID,
		AssignedMemberID: req.AssignedMemberID,
		TeamID:           req.TeamID,
		ProjectID:        req.ProjectID,
		Status:           models.StatusActive,
		Settings:         settings,
	}
	if parent != nil {
		folder.Level = parent.Level + 1
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		owned, err := s.folderRepo.CountOwnedBy(ctx, req.WorkspaceID, req.ActorID)
		if err != nil {
			return fmt.Errorf("count owned folders: %w", err)
		}
		if !baseline.WithinQuota(owned) {
			return fmt.Errorf("folder quota of %d reached for role %s: %w", baseline.MaxFolders, role, domain.ErrForbidden)
		}

		if err := s.checkDuplicateName(ctx, req.WorkspaceID, req.ParentID, req.Name, ""); err != nil {
			return err
		}

		return s.folderRepo.Create(ctx, folder)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"workspace_id", folder.WorkspaceID,
		"folder_type", folder.FolderType,
		"owner_id", folder.OwnerID,
		"actor_role", role,
	)

	return folder, nil
}

// GetFolder retrieves a folder the actor may open
func (s *folderService) GetFolder(ctx context.Context, actorID, folderID string) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Require(ctx, actorID, folder, authz.OpOpen); err != nil {
		return nil, err
	}
	return folder, nil
}

// GetCapabilities resolves the actor's capability record for a folder.
// Resolution itself never fails: a user with no grants gets an all-false
// record, not an error.
func (s *folderService) GetCapabilities(ctx context.Context, actorID, folderID string) (*models.Capabilities, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	caps, err := s.authorizer.Capabilities(ctx, actorID, folder)
	if err != nil {
		return nil, err
	}
	return &caps, nil
}

// ListAccessible returns the folders of a workspace the actor may enumerate
func (s *folderService) ListAccessible(ctx context.Context, actorID, workspaceID string) ([]models.Folder, error) {
	identity, role, err := s.authorizer.Identity(ctx, workspaceID, actorID)
	if err != nil {
		return nil, err
	}
	folders, err := s.folderRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return authz.AccessibleFolders(folders, identity, role), nil
}

// UpdateFolder renames, re-tags, or edits permissions of a folder. Nil
// request fields are left unchanged. Permission list edits are gated on
// manage-permissions separately from plain edits.
func (s *folderService) UpdateFolder(ctx context.Context, folderID string, req *wsSvc.UpdateFolderRequest) (*models.Folder, error) {
	if err := validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if folder.IsArchived() {
		return nil, fmt.Errorf("%w: archived folders are read-only", domain.ErrValidation)
	}

	hasFieldEdits := req.Name != nil || req.Visibility != nil || req.TeamID.Present || req.ProjectID.Present || req.Settings != nil
	if hasFieldEdits {
		if err := s.authorizer.Require(ctx, req.ActorID, folder, authz.OpEdit); err != nil {
			return nil, err
		}
	}
	if req.Permissions != nil {
		if err := s.authorizer.Require(ctx, req.ActorID, folder, authz.OpManagePermissions); err != nil {
			return nil, err
		}
	}
	if req.Archive {
		if err := s.authorizer.Require(ctx, req.ActorID, folder, authz.OpArchive); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != folder.Name {
			if err := s.checkDuplicateName(ctx, folder.WorkspaceID, folder.ParentID, name, folder.ID); err != nil {
				return nil, err
			}
		}
		folder.Name = name
	}
	if req.Visibility != nil {
		folder.Visibility = *req.Visibility
	}
	if req.TeamID.Present {
		folder.TeamID = req.TeamID.Value
	}
	if req.ProjectID.Present {
		folder.ProjectID = req.ProjectID.Value
	}
	if req.Settings != nil {
		folder.Settings = *req.Settings
	}
	if req.Permissions != nil {
		folder.Permissions = *req.Permissions
	}
	folder.UpdatedAt = time.Now()

	if hasFieldEdits || req.Permissions != nil {
		if err := s.folderRepo.Update(ctx, folder); err != nil {
			return nil, err
		}
	}

	if req.Archive {
		if err := s.folderRepo.UpdateStatus(ctx, folder.ID, models.StatusArchived); err != nil {
			return nil, err
		}
		folder.Status = models.StatusArchived
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"workspace_id", folder.WorkspaceID,
		"actor_id", req.ActorID,
		"archived", req.Archive,
		"permissions_changed", req.Permissions != nil,
	)

	return folder, nil
}

// DeleteFolder hard-deletes a folder. System folders are never deletable:
// the resolver pins canDelete false for them regardless of role or grants,
// so the capability check refuses before the store is touched.
func (s *folderService) DeleteFolder(ctx context.Context, actorID, folderID string) error {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}

	if err := s.authorizer.Require(ctx, actorID, folder, authz.OpDelete); err != nil {
		return err
	}

	if err := s.folderRepo.Delete(ctx, folderID); err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", folder.ID,
		"name", folder.Name,
		"workspace_id", folder.WorkspaceID,
		"actor_id", actorID,
	)

	return nil
}

// validateTypeShape checks the cross-field constraints a folder type imposes
func validateTypeShape(req *wsSvc.CreateFolderRequest) error {
	if req.FolderType == models.FolderTypeMemberAssigned && (req.AssignedMemberID == nil || *req.AssignedMemberID == "") {
		return fmt.Errorf("%w: member_assigned folders require an assigned member", domain.ErrValidation)
	}
	if req.Visibility == models.VisibilityTeam && (req.TeamID == nil || *req.TeamID == "") {
		return fmt.Errorf("%w: team visibility requires a team", domain.ErrValidation)
	}
	if req.Visibility == models.VisibilityProject && (req.ProjectID == nil || *req.ProjectID == "") {
		return fmt.Errorf("%w: project visibility requires a project", domain.ErrValidation)
	}
	return nil
}

// checkDuplicateName refuses a name already used by an active sibling.
// excludeID skips the folder being renamed.
func (s *folderService) checkDuplicateName(ctx context.Context, workspaceID string, parentID *string, name, excludeID string) error {
	folders, err := s.folderRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("check for duplicate names: %w", err)
	}
	for i := range folders {
		sibling := &folders[i]
		if sibling.ID == excludeID || sibling.IsArchived() {
			continue
		}
		if !sameParent(sibling.ParentID, parentID) {
			continue
		}
		if sibling.Name == name {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", name),
				ResourceType: "folder",
				ResourceID:   sibling.ID,
			}
		}
	}
	return nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
