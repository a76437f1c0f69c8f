package workspace

import (
	"context"

	models "atrium/internal/domain/models/workspace"
)

// TreeService builds the navigable folder hierarchy for a user: the
// accessible subset of the workspace snapshot, assembled into a forest.
type TreeService interface {
	// GetWorkspaceTree builds the forest of folders the actor may enumerate.
	// A non-empty query filters the forest by folder name, retaining the
	// ancestor chain of every match.
	GetWorkspaceTree(ctx context.Context, actorID, workspaceID, query string) (*models.Forest, error)
}
