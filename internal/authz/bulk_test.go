package authz

import (
	"testing"

	"atrium/internal/domain/models/workspace"
)

func TestAuthorizeBulkPartition(t *testing.T) {
	ok := baseFolder("folder_ok", "owner1")
	system := baseFolder("folder_system", "owner1")
	system.FolderType = workspace.FolderTypeSystem
	system.IsSystemFolder = true

	selection := []workspace.Folder{ok, system}
	decision := AuthorizeBulk(selection, OpArchive, workspace.UserIdentity{ID: "owner1"}, workspace.RoleOwner)

	if len(decision.Allowed) != 1 || decision.Allowed[0] != "folder_ok" {
		t.Errorf("Allowed = %v, want [folder_ok]", decision.Allowed)
	}
	if len(decision.Denied) != 1 || decision.Denied[0] != "folder_system" {
		t.Errorf("Denied = %v, want [folder_system]", decision.Denied)
	}
}

// Allowed and Denied must partition the selection: together they cover every
// selected folder and no folder appears in both.
func TestAuthorizeBulkPartitionCompleteness(t *testing.T) {
	folders := []workspace.Folder{
		baseFolder("a", "owner1"),
		baseFolder("b", "m1"),
		baseFolder("c", "m2"),
	}
	folders[1].Permissions = workspace.PermissionLists{Delete: []string{"m1"}}

	ops := []Operation{OpOpen, OpEdit, OpUpload, OpShare, OpDownload, OpDelete, OpArchive, OpManagePermissions}
	users := []struct {
		user workspace.UserIdentity
		role workspace.Role
	}{
		{workspace.UserIdentity{ID: "owner1"}, workspace.RoleOwner},
		{workspace.UserIdentity{ID: "adminX"}, workspace.RoleAdmin},
		{workspace.UserIdentity{ID: "m1"}, workspace.RoleMember},
		{workspace.UserIdentity{ID: "m2"}, workspace.RoleMember},
	}

	for _, u := range users {
		for _, op := range ops {
			decision := AuthorizeBulk(folders, op, u.user, u.role)

			if got := len(decision.Allowed) + len(decision.Denied); got != len(folders) {
				t.Errorf("%s/%s: partition covers %d folders, want %d", u.user.ID, op, got, len(folders))
			}

			seen := make(map[string]bool)
			for _, id := range decision.Allowed {
				seen[id] = true
			}
			for _, id := range decision.Denied {
				if seen[id] {
					t.Errorf("%s/%s: folder %s in both Allowed and Denied", u.user.ID, op, id)
				}
			}
		}
	}
}

func TestAuthorizeBulkPreservesSelectionOrder(t *testing.T) {
	folders := []workspace.Folder{
		baseFolder("z", "owner1"),
		baseFolder("a", "owner1"),
		baseFolder("m", "owner1"),
	}

	decision := AuthorizeBulk(folders, OpDelete, workspace.UserIdentity{ID: "owner1"}, workspace.RoleOwner)
	want := []string{"z", "a", "m"}
	for i, id := range decision.Allowed {
		if id != want[i] {
			t.Errorf("Allowed[%d] = %s, want %s (selection order must be preserved)", i, id, want[i])
		}
	}
}

func TestArchiveRequiresDeleteCapability(t *testing.T) {
	folder := baseFolder("f", "owner1")
	folder.Permissions = workspace.PermissionLists{Admin: []string{"m1"}}

	decision := AuthorizeBulk([]workspace.Folder{folder}, OpArchive, workspace.UserIdentity{ID: "m1"}, workspace.RoleMember)
	if len(decision.Denied) != 1 {
		t.Error("edit rights alone must not permit archiving")
	}

	folder.Permissions.Delete = []string{"m1"}
	decision = AuthorizeBulk([]workspace.Folder{folder}, OpArchive, workspace.UserIdentity{ID: "m1"}, workspace.RoleMember)
	if len(decision.Allowed) != 1 {
		t.Error("an explicit delete grant must permit archiving")
	}
}

func TestParseOperation(t *testing.T) {
	tests := []struct {
		input   string
		want    Operation
		wantErr bool
	}{
		{input: "archive", want: OpArchive},
		{input: "manage_permissions", want: OpManagePermissions},
		{input: "restore", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			op, err := ParseOperation(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseOperation(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOperation(%q): %v", tt.input, err)
			}
			if op != tt.want {
				t.Errorf("ParseOperation(%q) = %s, want %s", tt.input, op, tt.want)
			}
		})
	}
}
