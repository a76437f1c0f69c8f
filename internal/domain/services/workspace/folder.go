package workspace

import (
	"context"

	models "atrium/internal/domain/models/workspace"
)

// FolderService handles folder business logic. Every mutating operation
// checks the permission resolver's verdict for the acting user before
// touching the store; denial surfaces as domain.ErrForbidden.
type FolderService interface {
	// CreateFolder creates a new folder after role quota and type checks
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder the actor may open
	GetFolder(ctx context.Context, actorID, folderID string) (*models.Folder, error)

	// GetCapabilities resolves the actor's capability record for a folder
	GetCapabilities(ctx context.Context, actorID, folderID string) (*models.Capabilities, error)

	// ListAccessible returns the folders of a workspace the actor may enumerate
	ListAccessible(ctx context.Context, actorID, workspaceID string) ([]models.Folder, error)

	// UpdateFolder renames, re-tags, or edits permissions of a folder
	UpdateFolder(ctx context.Context, folderID string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder hard-deletes a folder (never a system folder)
	DeleteFolder(ctx context.Context, actorID, folderID string) error
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	WorkspaceID      string                 `json:"-"`
	ActorID          string                 `json:"-"`
	Name             string                 `json:"name"`
	ParentID         *string                `json:"parent_id,omitempty"` // null for root folders
	FolderType       models.FolderType      `json:"folder_type"`
	Visibility       models.Visibility      `json:"visibility"`
	TeamID           *string                `json:"team_id,omitempty"`
	ProjectID        *string                `json:"project_id,omitempty"`
	AssignedMemberID *string                `json:"assigned_member_id,omitempty"` // required for member_assigned
	Settings         *models.FolderSettings `json:"settings,omitempty"`
}

// OptionalTag tracks tri-state semantics for team/project re-tagging (RFC
// 7396 PATCH). Transport-agnostic (no JSON tags) - the handler maps from
// httputil.OptionalString.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (clear the tag)
//   - Present=true, Value=&"id": tag the folder
type OptionalTag struct {
	Present bool
	Value   *string
}

// UpdateFolderRequest represents a folder update request. Nil fields are left
// unchanged (JSON merge-patch semantics).
type UpdateFolderRequest struct {
	ActorID     string                  `json:"-"`
	Name        *string                 `json:"name,omitempty"`
	Visibility  *models.Visibility      `json:"visibility,omitempty"`
	TeamID      OptionalTag             `json:"-"` // mapped from handler DTO
	ProjectID   OptionalTag             `json:"-"` // mapped from handler DTO
	Settings    *models.FolderSettings  `json:"settings,omitempty"`
	Permissions *models.PermissionLists `json:"permissions,omitempty"` // requires manage-permissions
	Archive     bool                    `json:"archive,omitempty"`     // active → archived, one-way
}
