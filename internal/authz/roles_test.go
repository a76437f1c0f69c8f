package authz

import (
	"testing"

	"atrium/internal/domain/models/workspace"
)

func TestNewRoleRegistry(t *testing.T) {
	registry, err := NewRoleRegistry()
	if err != nil {
		t.Fatalf("NewRoleRegistry: %v", err)
	}

	for _, role := range []workspace.Role{workspace.RoleOwner, workspace.RoleAdmin, workspace.RoleMember} {
		if _, err := registry.Baseline(role); err != nil {
			t.Errorf("missing baseline for %s: %v", role, err)
		}
	}
}

func TestRoleBaselineCreatableTypes(t *testing.T) {
	registry, err := NewRoleRegistry()
	if err != nil {
		t.Fatalf("NewRoleRegistry: %v", err)
	}

	tests := []struct {
		role       workspace.Role
		folderType workspace.FolderType
		want       bool
	}{
		{workspace.RoleOwner, workspace.FolderTypeSystem, true},
		{workspace.RoleOwner, workspace.FolderTypeMemberAssigned, true},
		{workspace.RoleAdmin, workspace.FolderTypeMemberAssigned, true},
		{workspace.RoleAdmin, workspace.FolderTypeSystem, false},
		{workspace.RoleMember, workspace.FolderTypePersonal, true},
		{workspace.RoleMember, workspace.FolderTypeTeam, false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String()+"/"+tt.folderType.String(), func(t *testing.T) {
			baseline, err := registry.Baseline(tt.role)
			if err != nil {
				t.Fatal(err)
			}
			if got := baseline.CanCreateType(tt.folderType); got != tt.want {
				t.Errorf("CanCreateType = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoleBaselineQuota(t *testing.T) {
	registry, err := NewRoleRegistry()
	if err != nil {
		t.Fatalf("NewRoleRegistry: %v", err)
	}

	ownerBaseline, _ := registry.Baseline(workspace.RoleOwner)
	if !ownerBaseline.WithinQuota(1_000_000) {
		t.Error("owner quota is unlimited")
	}

	memberBaseline, _ := registry.Baseline(workspace.RoleMember)
	if memberBaseline.MaxFolders == 0 {
		t.Fatal("member quota expected to be bounded")
	}
	if !memberBaseline.WithinQuota(memberBaseline.MaxFolders - 1) {
		t.Error("count below quota must pass")
	}
	if memberBaseline.WithinQuota(memberBaseline.MaxFolders) {
		t.Error("count at quota must fail")
	}
}
