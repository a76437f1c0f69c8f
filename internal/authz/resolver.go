// Package authz is the folder authorization core: a pure permission resolver
// plus the accessible-set filter and bulk-operation authorizer built on it.
// Every rule is additive — later evaluation steps only ever grant capability,
// with the single exception of the system-folder delete floor, which is final.
package authz

import (
	"atrium/internal/domain/models/workspace"
)

// Resolve computes the full capability record for a (user, role, folder)
// triple. It is total and side-effect free: absence of a right yields false,
// never an error. Callers must supply an authenticated identity; the resolver
// does not look up roles or memberships.
//
// Evaluation order:
//  1. role baseline (owner full, admin per folder type, member nothing)
//  2. ownership / assignment / visibility grants
//  3. explicit permission lists
//  4. OR-aggregate, then the system-folder delete floor
func Resolve(user workspace.UserIdentity, role workspace.Role, folder *workspace.Folder) workspace.Capabilities {
	caps := roleBaseline(user, role, folder)
	caps = caps.Union(relationshipGrants(user, folder))
	caps = caps.Union(explicitGrants(user, folder))

	// System folders reject deletion for every role, including owners.
	if folder.IsSystemFolder {
		caps.CanDelete = false
	}
	return caps
}

// roleBaseline is the workspace-wide floor a role grants on any folder.
func roleBaseline(user workspace.UserIdentity, role workspace.Role, folder *workspace.Folder) workspace.Capabilities {
	switch role {
	case workspace.RoleOwner:
		return workspace.AllCapabilities()

	case workspace.RoleAdmin:
		if folder.FolderType != workspace.FolderTypeMemberAssigned {
			return workspace.AllCapabilities()
		}
		if folder.OwnerID == user.ID {
			// Admins keep full rights over member folders they set up.
			return workspace.AllCapabilities()
		}
		// Admins see every member folder and may edit its contents, but not
		// delete it. Managing its permissions needs an explicit admin grant,
		// which the explicit-list step picks up.
		return workspace.Capabilities{
			CanOpen:     true,
			CanEdit:     true,
			CanDownload: true,
		}

	default:
		// Members get nothing from role alone; everything comes from
		// ownership, assignment, visibility, or explicit grants.
		return workspace.Capabilities{}
	}
}

// relationshipGrants covers ownership, member assignment, and visibility.
func relationshipGrants(user workspace.UserIdentity, folder *workspace.Folder) workspace.Capabilities {
	var caps workspace.Capabilities

	if user.ID != "" && user.ID == folder.OwnerID {
		caps.CanOpen = true
		caps.CanEdit = true
		caps.CanUpload = true
		caps.CanShare = true
		caps.CanDownload = true
		caps.CanDelete = true
	}

	if folder.AssignedTo(user.ID) {
		// Assignment alone is read access; writing into or editing the
		// folder still needs an explicit grant.
		caps.CanOpen = true
		caps.CanDownload = true
		if folder.Permissions.HasWrite(user.ID) {
			caps.CanUpload = true
		}
		if folder.Permissions.HasAdmin(user.ID) {
			caps.CanEdit = true
		}
	}

	// Visibility is ignored for member_assigned folders: they are always
	// effectively private to the assignee.
	if folder.FolderType != workspace.FolderTypeMemberAssigned {
		switch folder.Visibility {
		case workspace.VisibilityPublic:
			caps.CanOpen = true
			caps.CanDownload = true
		case workspace.VisibilityTeam:
			if folder.TeamID != nil && user.InTeam(*folder.TeamID) {
				caps.CanOpen = true
				caps.CanDownload = true
				if folder.Permissions.HasWrite(user.ID) {
					caps.CanUpload = true
				}
			}
		case workspace.VisibilityProject:
			if folder.ProjectID != nil && user.InProject(*folder.ProjectID) {
				caps.CanOpen = true
				caps.CanDownload = true
				if folder.Permissions.HasWrite(user.ID) {
					caps.CanUpload = true
				}
			}
		}
	}

	return caps
}

// explicitGrants maps the four per-folder permission lists onto capabilities.
func explicitGrants(user workspace.UserIdentity, folder *workspace.Folder) workspace.Capabilities {
	var caps workspace.Capabilities

	if folder.Permissions.HasRead(user.ID) {
		caps.CanOpen = true
		caps.CanDownload = true
	}
	if folder.Permissions.HasWrite(user.ID) {
		caps.CanUpload = true
	}
	if folder.Permissions.HasAdmin(user.ID) {
		caps.CanEdit = true
		caps.CanManagePermissions = true
	}
	if folder.Permissions.HasDelete(user.ID) {
		caps.CanDelete = true
	}

	return caps
}
