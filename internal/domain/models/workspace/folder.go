package workspace

import (
	"fmt"
	"time"
)

// FolderType classifies what a folder is for and which access rules apply.
type FolderType string

const (
	FolderTypePersonal       FolderType = "personal"
	FolderTypeTeam           FolderType = "team"
	FolderTypeProject        FolderType = "project"
	FolderTypeShared         FolderType = "shared"
	FolderTypeMemberAssigned FolderType = "member_assigned"
	FolderTypeSystem         FolderType = "system"
)

// ParseFolderType converts a string into a FolderType, rejecting unknown values.
func ParseFolderType(s string) (FolderType, error) {
	t := FolderType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown folder type %q", s)
	}
	return t, nil
}

// IsValid reports whether the type is one of the known variants.
func (t FolderType) IsValid() bool {
	switch t {
	case FolderTypePersonal, FolderTypeTeam, FolderTypeProject,
		FolderTypeShared, FolderTypeMemberAssigned, FolderTypeSystem:
		return true
	default:
		return false
	}
}

func (t FolderType) String() string { return string(t) }

// Visibility controls who may enumerate a folder beyond explicit grants.
// It is meaningless for member_assigned folders, which are always effectively
// private to the assignee.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityTeam    Visibility = "team"
	VisibilityProject Visibility = "project"
	VisibilityPublic  Visibility = "public"
)

// ParseVisibility converts a string into a Visibility, rejecting unknown values.
func ParseVisibility(s string) (Visibility, error) {
	v := Visibility(s)
	if !v.IsValid() {
		return "", fmt.Errorf("unknown visibility %q", s)
	}
	return v, nil
}

// IsValid reports whether the visibility is one of the known variants.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPrivate, VisibilityTeam, VisibilityProject, VisibilityPublic:
		return true
	default:
		return false
	}
}

func (v Visibility) String() string { return string(v) }

// FolderStatus is the folder lifecycle state. The archive transition is
// one-way: there is no restore operation.
type FolderStatus string

const (
	StatusActive   FolderStatus = "active"
	StatusArchived FolderStatus = "archived"
)

// IsValid reports whether the status is one of the known variants.
func (s FolderStatus) IsValid() bool {
	return s == StatusActive || s == StatusArchived
}

func (s FolderStatus) String() string { return string(s) }

// PermissionLists are the explicit per-folder grants, one set of user ids per
// right. Entries are additive only: they may grant capability beyond the
// role/type default, never revoke below it.
type PermissionLists struct {
	Read   []string `json:"read,omitempty"`
	Write  []string `json:"write,omitempty"`
	Admin  []string `json:"admin,omitempty"`
	Delete []string `json:"delete,omitempty"`
}

// HasRead reports whether the user holds an explicit read grant.
func (p PermissionLists) HasRead(userID string) bool { return contains(p.Read, userID) }

// HasWrite reports whether the user holds an explicit write grant.
func (p PermissionLists) HasWrite(userID string) bool { return contains(p.Write, userID) }

// HasAdmin reports whether the user holds an explicit admin grant.
func (p PermissionLists) HasAdmin(userID string) bool { return contains(p.Admin, userID) }

// HasDelete reports whether the user holds an explicit delete grant.
func (p PermissionLists) HasDelete(userID string) bool { return contains(p.Delete, userID) }

func contains(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// FolderSettings are per-folder switches. They are consulted by services, not
// enforced by the resolver.
type FolderSettings struct {
	AllowSubfolders bool `json:"allow_subfolders"`
	RequireApproval bool `json:"require_approval"`
	NotifyOnUpload  bool `json:"notify_on_upload"`
	AutoArchive     bool `json:"auto_archive"`
}

// Folder is an immutable snapshot of a folder record as the resolver and tree
// builder consume it. Level is derived (parent's level + 1, or 0 at root) and
// recomputed by the forest builder rather than trusted from storage.
type Folder struct {
	ID               string          `json:"id"`
	WorkspaceID      string          `json:"workspace_id"`
	ParentID         *string         `json:"parent_id,omitempty"`
	Level            int             `json:"level"`
	Name             string          `json:"name"`
	FolderType       FolderType      `json:"folder_type"`
	Visibility       Visibility      `json:"visibility"`
	OwnerID          string          `json:"owner_id"`
	AssignedMemberID *string         `json:"assigned_member_id,omitempty"`
	TeamID           *string         `json:"team_id,omitempty"`
	ProjectID        *string         `json:"project_id,omitempty"`
	Permissions      PermissionLists `json:"permissions"`
	IsSystemFolder   bool            `json:"is_system_folder"`
	Status           FolderStatus    `json:"status"`
	FileCount        int             `json:"file_count"`
	TotalSize        int64           `json:"total_size"`
	Settings         FolderSettings  `json:"settings"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// AssignedTo reports whether the folder is a member_assigned folder whose
// assignee is the given user.
func (f *Folder) AssignedTo(userID string) bool {
	return f.FolderType == FolderTypeMemberAssigned &&
		f.AssignedMemberID != nil && *f.AssignedMemberID == userID && userID != ""
}

// IsArchived reports whether the folder has been archived.
func (f *Folder) IsArchived() bool {
	return f.Status == StatusArchived
}
