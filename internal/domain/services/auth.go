package services

import (
	"context"

	"atrium/internal/authz"
	models "atrium/internal/domain/models/workspace"
)

// FolderAuthorizer gates folder operations on resolved capabilities.
//
// Design principle: services call the authorizer before operating on a
// folder. The authorizer loads the actor's membership and delegates to the
// capability resolver; services never inspect roles or permission lists
// themselves.
type FolderAuthorizer interface {
	// Identity loads the actor's identity and role in a workspace.
	// A user with no membership gets domain.ErrForbidden.
	Identity(ctx context.Context, workspaceID, actorID string) (models.UserIdentity, models.Role, error)

	// Capabilities resolves what the actor can do with a folder
	Capabilities(ctx context.Context, actorID string, folder *models.Folder) (models.Capabilities, error)

	// Require fails with domain.ErrForbidden unless the actor holds the
	// capability op demands on the folder.
	Require(ctx context.Context, actorID string, folder *models.Folder, op authz.Operation) error
}
