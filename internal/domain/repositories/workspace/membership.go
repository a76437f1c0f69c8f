package workspace

import (
	"context"

	models "atrium/internal/domain/models/workspace"
)

// MembershipRepository is the identity/role provider: it supplies the
// (identity, role) pair the permission resolver requires. The authorization
// core never looks up roles itself.
type MembershipRepository interface {
	// GetMembership returns a user's standing in a workspace, including the
	// teams and projects they belong to.
	GetMembership(ctx context.Context, workspaceID, userID string) (*models.Membership, error)

	// ListByWorkspace returns all memberships of a workspace
	ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Membership, error)

	// Upsert creates or updates a membership
	Upsert(ctx context.Context, membership *models.Membership) error
}

// WorkspaceRepository handles workspace persistence.
type WorkspaceRepository interface {
	// GetByID retrieves a workspace by ID
	GetByID(ctx context.Context, id string) (*models.Workspace, error)

	// Create creates a new workspace
	Create(ctx context.Context, ws *models.Workspace) error
}
