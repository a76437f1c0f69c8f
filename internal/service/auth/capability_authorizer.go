package auth

import (
	"context"
	"errors"
	"fmt"

	"atrium/internal/authz"
	"atrium/internal/domain"
	models "atrium/internal/domain/models/workspace"
	wsRepo "atrium/internal/domain/repositories/workspace"
	"atrium/internal/domain/services"
)

// CapabilityAuthorizer implements FolderAuthorizer on top of the pure
// capability resolver. It owns the membership lookup; the resolver itself
// stays free of I/O so it can be called in loops over workspace snapshots.
type CapabilityAuthorizer struct {
	membershipRepo wsRepo.MembershipRepository
}

// NewCapabilityAuthorizer creates a new capability-based authorizer
func NewCapabilityAuthorizer(membershipRepo wsRepo.MembershipRepository) services.FolderAuthorizer {
	return &CapabilityAuthorizer{
		membershipRepo: membershipRepo,
	}
}

// Identity loads the actor's identity and role in a workspace.
// A user with no membership record is not a member: domain.ErrForbidden.
func (a *CapabilityAuthorizer) Identity(ctx context.Context, workspaceID, actorID string) (models.UserIdentity, models.Role, error) {
	membership, err := a.membershipRepo.GetMembership(ctx, workspaceID, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return models.UserIdentity{}, "", fmt.Errorf("user %s is not a member of workspace %s: %w", actorID, workspaceID, domain.ErrForbidden)
		}
		return models.UserIdentity{}, "", fmt.Errorf("load membership: %w", err)
	}
	return membership.Identity(), membership.Role, nil
}

// Capabilities resolves what the actor can do with a folder
func (a *CapabilityAuthorizer) Capabilities(ctx context.Context, actorID string, folder *models.Folder) (models.Capabilities, error) {
	identity, role, err := a.Identity(ctx, folder.WorkspaceID, actorID)
	if err != nil {
		return models.Capabilities{}, err
	}
	return authz.Resolve(identity, role, folder), nil
}

// Require fails with domain.ErrForbidden unless the actor holds the
// capability op demands on the folder
func (a *CapabilityAuthorizer) Require(ctx context.Context, actorID string, folder *models.Folder, op authz.Operation) error {
	caps, err := a.Capabilities(ctx, actorID, folder)
	if err != nil {
		return err
	}
	if !op.Permits(caps) {
		return fmt.Errorf("access denied to folder %s for %s: %w", folder.ID, op, domain.ErrForbidden)
	}
	return nil
}
