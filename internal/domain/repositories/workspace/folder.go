package workspace

import (
	"context"

	models "atrium/internal/domain/models/workspace"
)

// FolderRepository handles folder persistence. Snapshots returned by reads
// are what the authorization core and forest builder consume; writes are only
// invoked after the caller has checked the resolver's verdict.
type FolderRepository interface {
	// ListByWorkspace returns every folder in a workspace, unfiltered.
	// Visibility filtering is the accessible-set filter's job, not the store's.
	ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Folder, error)

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// CountOwnedBy returns how many active folders a user owns in a
	// workspace, for role quota checks.
	CountOwnedBy(ctx context.Context, workspaceID, userID string) (int, error)

	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// Update updates a folder's mutable fields
	Update(ctx context.Context, folder *models.Folder) error

	// UpdateStatus transitions a folder's lifecycle status
	UpdateStatus(ctx context.Context, id string, status models.FolderStatus) error

	// Delete hard-deletes a folder
	Delete(ctx context.Context, id string) error
}
