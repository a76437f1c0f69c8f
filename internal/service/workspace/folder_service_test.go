package workspace

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"atrium/internal/authz"
	"atrium/internal/domain"
	models "atrium/internal/domain/models/workspace"
	wsSvc "atrium/internal/domain/services/workspace"
	authSvc "atrium/internal/service/auth"
)

const testWorkspace = "ws-1"

func testMemberships() *fakeMembershipRepo {
	return newFakeMembershipRepo(
		models.Membership{WorkspaceID: testWorkspace, UserID: "owner-1", Role: models.RoleOwner},
		models.Membership{WorkspaceID: testWorkspace, UserID: "admin-1", Role: models.RoleAdmin},
		models.Membership{WorkspaceID: testWorkspace, UserID: "member-1", Role: models.RoleMember, TeamIDs: []string{"team-a"}},
		models.Membership{WorkspaceID: testWorkspace, UserID: "member-2", Role: models.RoleMember},
	)
}

func newTestFolderService(t *testing.T, folderRepo *fakeFolderRepo) wsSvc.FolderService {
	t.Helper()
	registry, err := authz.NewRoleRegistry()
	if err != nil {
		t.Fatalf("load role registry: %v", err)
	}
	authorizer := authSvc.NewCapabilityAuthorizer(testMemberships())
	return NewFolderService(folderRepo, registry, authorizer, passthroughTx{}, discardLogger())
}

func activeFolder(id, name, ownerID string) models.Folder {
	return models.Folder{
		ID:          id,
		WorkspaceID: testWorkspace,
		Name:        name,
		FolderType:  models.FolderTypePersonal,
		Visibility:  models.VisibilityPrivate,
		OwnerID:     ownerID,
		Status:      models.StatusActive,
		Settings:    models.FolderSettings{AllowSubfolders: true},
	}
}

func TestCreateFolderByMember(t *testing.T) {
	repo := newFakeFolderRepo()
	svc := newTestFolderService(t, repo)

	folder, err := svc.CreateFolder(context.Background(), &wsSvc.CreateFolderRequest{
		WorkspaceID: testWorkspace,
		ActorID:     "member-1",
		Name:        "My Notes",
		FolderType:  models.FolderTypePersonal,
		Visibility:  models.VisibilityPrivate,
	})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}

	if folder.ID == "" {
		t.Error("expected assigned folder ID")
	}
	if folder.OwnerID != "member-1" {
		t.Errorf("OwnerID = %q, want member-1", folder.OwnerID)
	}
	if folder.Level != 0 {
		t.Errorf("Level = %d, want 0 for root folder", folder.Level)
	}
	if folder.Status != models.StatusActive {
		t.Errorf("Status = %q, want active", folder.Status)
	}
}

func TestCreateFolderRoleRestrictions(t *testing.T) {
	tests := []struct {
		name       string
		actorID    string
		folderType models.FolderType
		wantErr    error
	}{
		{"member cannot create team folders", "member-1", models.FolderTypeTeam, domain.ErrForbidden},
		{"member cannot create system folders", "member-1", models.FolderTypeSystem, domain.ErrForbidden},
		{"admin cannot create system folders", "admin-1", models.FolderTypeSystem, domain.ErrForbidden},
		{"admin can create shared folders", "admin-1", models.FolderTypeShared, nil},
		{"owner can create system folders", "owner-1", models.FolderTypeSystem, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestFolderService(t, newFakeFolderRepo())
			_, err := svc.CreateFolder(context.Background(), &wsSvc.CreateFolderRequest{
				WorkspaceID: testWorkspace,
				ActorID:     tt.actorID,
				Name:        "Candidate",
				FolderType:  tt.folderType,
				Visibility:  models.VisibilityPrivate,
			})
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("CreateFolder: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateFolder error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateFolderDuplicateName(t *testing.T) {
	repo := newFakeFolderRepo(activeFolder("existing", "Reports", "member-1"))
	svc := newTestFolderService(t, repo)

	_, err := svc.CreateFolder(context.Background(), &wsSvc.CreateFolderRequest{
		WorkspaceID: testWorkspace,
		ActorID:     "member-1",
		Name:        "Reports",
		FolderType:  models.FolderTypePersonal,
		Visibility:  models.VisibilityPrivate,
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("CreateFolder error = %v, want conflict", err)
	}

	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %T", err)
	}
	if conflict.ResourceID != "existing" {
		t.Errorf("ResourceID = %q, want existing", conflict.ResourceID)
	}
}

func TestCreateFolderParentChecks(t *testing.T) {
	lockedParent := activeFolder("locked", "Locked", "member-1")
	lockedParent.Settings.AllowSubfolders = false

	archivedParent := activeFolder("archived", "Archived", "member-1")
	archivedParent.Status = models.StatusArchived

	otherWorkspace := activeFolder("foreign", "Foreign", "member-1")
	otherWorkspace.WorkspaceID = "ws-2"

	openParent := activeFolder("open", "Open", "member-1")
	openParent.Level = 2

	unrelatedParent := activeFolder("unrelated", "Unrelated", "member-2")

	repo := newFakeFolderRepo(lockedParent, archivedParent, otherWorkspace, openParent, unrelatedParent)
	svc := newTestFolderService(t, repo)

	tests := []struct {
		name     string
		parentID string
		wantErr  error
	}{
		{"parent disallows subfolders", "locked", domain.ErrValidation},
		{"archived parent refused", "archived", domain.ErrValidation},
		{"parent in another workspace", "foreign", domain.ErrValidation},
		{"no write access to parent", "unrelated", domain.ErrForbidden},
		{"missing parent", "ghost", domain.ErrNotFound},
		{"writable parent accepted", "open", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folder, err := svc.CreateFolder(context.Background(), &wsSvc.CreateFolderRequest{
				WorkspaceID: testWorkspace,
				ActorID:     "member-1",
				Name:        "Child of " + tt.parentID,
				ParentID:    strptr(tt.parentID),
				FolderType:  models.FolderTypePersonal,
				Visibility:  models.VisibilityPrivate,
			})
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("CreateFolder: %v", err)
				}
				if folder.Level != 3 {
					t.Errorf("Level = %d, want parent level + 1 = 3", folder.Level)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateFolder error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateFolderShapeValidation(t *testing.T) {
	tests := []struct {
		name string
		req  wsSvc.CreateFolderRequest
	}{
		{
			"member_assigned without assignee",
			wsSvc.CreateFolderRequest{
				Name:       "Assigned",
				FolderType: models.FolderTypeMemberAssigned,
				Visibility: models.VisibilityPrivate,
			},
		},
		{
			"team visibility without team",
			wsSvc.CreateFolderRequest{
				Name:       "Team Docs",
				FolderType: models.FolderTypePersonal,
				Visibility: models.VisibilityTeam,
			},
		},
		{
			"project visibility without project",
			wsSvc.CreateFolderRequest{
				Name:       "Project Docs",
				FolderType: models.FolderTypePersonal,
				Visibility: models.VisibilityProject,
			},
		},
		{
			"name with slash",
			wsSvc.CreateFolderRequest{
				Name:       "a/b",
				FolderType: models.FolderTypePersonal,
				Visibility: models.VisibilityPrivate,
			},
		},
		{
			"blank name",
			wsSvc.CreateFolderRequest{
				Name:       "   ",
				FolderType: models.FolderTypePersonal,
				Visibility: models.VisibilityPrivate,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestFolderService(t, newFakeFolderRepo())
			req := tt.req
			req.WorkspaceID = testWorkspace
			req.ActorID = "owner-1"
			_, err := svc.CreateFolder(context.Background(), &req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("CreateFolder error = %v, want validation failure", err)
			}
		})
	}
}

func TestCreateFolderQuota(t *testing.T) {
	// Seed the member at their cap of 100 owned active folders.
	seeded := make([]models.Folder, 0, 100)
	for i := 0; i < 100; i++ {
		seeded = append(seeded, activeFolder(fmt.Sprintf("f-%d", i), fmt.Sprintf("Folder %d", i), "member-1"))
	}
	repo := newFakeFolderRepo(seeded...)
	svc := newTestFolderService(t, repo)

	_, err := svc.CreateFolder(context.Background(), &wsSvc.CreateFolderRequest{
		WorkspaceID: testWorkspace,
		ActorID:     "member-1",
		Name:        "One Too Many",
		FolderType:  models.FolderTypePersonal,
		Visibility:  models.VisibilityPrivate,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("CreateFolder error = %v, want quota denial", err)
	}

	// The owner role has no cap.
	_, err = svc.CreateFolder(context.Background(), &wsSvc.CreateFolderRequest{
		WorkspaceID: testWorkspace,
		ActorID:     "owner-1",
		Name:        "Owner Folder",
		FolderType:  models.FolderTypePersonal,
		Visibility:  models.VisibilityPrivate,
	})
	if err != nil {
		t.Errorf("owner CreateFolder: %v", err)
	}
}

func TestUpdateFolderRename(t *testing.T) {
	repo := newFakeFolderRepo(
		activeFolder("f1", "Drafts", "member-1"),
		activeFolder("f2", "Final", "member-1"),
	)
	svc := newTestFolderService(t, repo)

	folder, err := svc.UpdateFolder(context.Background(), "f1", &wsSvc.UpdateFolderRequest{
		ActorID: "member-1",
		Name:    strptr("Drafts 2024"),
	})
	if err != nil {
		t.Fatalf("UpdateFolder: %v", err)
	}
	if folder.Name != "Drafts 2024" {
		t.Errorf("Name = %q, want Drafts 2024", folder.Name)
	}

	// Renaming onto a sibling's name conflicts.
	_, err = svc.UpdateFolder(context.Background(), "f1", &wsSvc.UpdateFolderRequest{
		ActorID: "member-1",
		Name:    strptr("Final"),
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("UpdateFolder error = %v, want conflict", err)
	}
}

func TestUpdateFolderRetag(t *testing.T) {
	tagged := activeFolder("f1", "Sprint Notes", "member-1")
	tagged.Visibility = models.VisibilityTeam
	tagged.TeamID = strptr("team-a")
	repo := newFakeFolderRepo(tagged)
	svc := newTestFolderService(t, repo)

	// Absent fields leave the tag alone.
	folder, err := svc.UpdateFolder(context.Background(), "f1", &wsSvc.UpdateFolderRequest{
		ActorID: "member-1",
		Name:    strptr("Sprint Notes 2"),
	})
	if err != nil {
		t.Fatalf("UpdateFolder: %v", err)
	}
	if folder.TeamID == nil || *folder.TeamID != "team-a" {
		t.Errorf("TeamID = %v, want team-a untouched", folder.TeamID)
	}

	// An explicit null clears the tag.
	vis := models.VisibilityPrivate
	folder, err = svc.UpdateFolder(context.Background(), "f1", &wsSvc.UpdateFolderRequest{
		ActorID:    "member-1",
		Visibility: &vis,
		TeamID:     wsSvc.OptionalTag{Present: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("UpdateFolder clear tag: %v", err)
	}
	if folder.TeamID != nil {
		t.Errorf("TeamID = %v, want cleared", folder.TeamID)
	}

	// A value re-tags.
	folder, err = svc.UpdateFolder(context.Background(), "f1", &wsSvc.UpdateFolderRequest{
		ActorID:   "member-1",
		ProjectID: wsSvc.OptionalTag{Present: true, Value: strptr("proj-launch")},
	})
	if err != nil {
		t.Fatalf("UpdateFolder set tag: %v", err)
	}
	if folder.ProjectID == nil || *folder.ProjectID != "proj-launch" {
		t.Errorf("ProjectID = %v, want proj-launch", folder.ProjectID)
	}
}

func TestUpdateFolderPermissionGates(t *testing.T) {
	repo := newFakeFolderRepo(activeFolder("f1", "Shared Work", "member-1"))
	svc := newTestFolderService(t, repo)

	perms := &models.PermissionLists{Read: []string{"member-2"}}

	// Ownership grants edit but not manage-permissions for a plain member.
	_, err := svc.UpdateFolder(context.Background(), "f1", &wsSvc.UpdateFolderRequest{
		ActorID:     "member-1",
		Permissions: perms,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("member permission edit error = %v, want forbidden", err)
	}

	// The admin baseline includes manage-permissions.
	folder, err := svc.UpdateFolder(context.Background(), "f1", &wsSvc.UpdateFolderRequest{
		ActorID:     "admin-1",
		Permissions: perms,
	})
	if err != nil {
		t.Fatalf("admin permission edit: %v", err)
	}
	if !folder.Permissions.HasRead("member-2") {
		t.Error("expected member-2 on the read list")
	}
}

func TestUpdateFolderArchiveIsOneWay(t *testing.T) {
	repo := newFakeFolderRepo(activeFolder("f1", "Old Work", "member-1"))
	svc := newTestFolderService(t, repo)

	// A plain member owner may archive their own folder.
	folder, err := svc.UpdateFolder(context.Background(), "f1", &wsSvc.UpdateFolderRequest{
		ActorID: "member-1",
		Archive: true,
	})
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if folder.Status != models.StatusArchived {
		t.Errorf("Status = %q, want archived", folder.Status)
	}

	// No way back, and no further edits.
	_, err = svc.UpdateFolder(context.Background(), "f1", &wsSvc.UpdateFolderRequest{
		ActorID: "member-1",
		Name:    strptr("Revived"),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("post-archive edit error = %v, want validation failure", err)
	}
}

func TestDeleteFolder(t *testing.T) {
	system := activeFolder("sys", "Workspace Root", "owner-1")
	system.FolderType = models.FolderTypeSystem
	system.IsSystemFolder = true

	repo := newFakeFolderRepo(
		system,
		activeFolder("f1", "Scratch", "member-1"),
	)
	svc := newTestFolderService(t, repo)

	// System folders refuse deletion for everyone, the workspace owner
	// included.
	err := svc.DeleteFolder(context.Background(), "owner-1", "sys")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("system delete error = %v, want forbidden", err)
	}

	// Another plain member holds no delete capability on it.
	err = svc.DeleteFolder(context.Background(), "member-2", "f1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("foreign delete error = %v, want forbidden", err)
	}

	if err := svc.DeleteFolder(context.Background(), "member-1", "f1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "f1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID after delete = %v, want not found", err)
	}
}

func TestGetFolderRequiresOpen(t *testing.T) {
	repo := newFakeFolderRepo(activeFolder("f1", "Private", "member-1"))
	svc := newTestFolderService(t, repo)

	if _, err := svc.GetFolder(context.Background(), "member-1", "f1"); err != nil {
		t.Errorf("owner open: %v", err)
	}
	if _, err := svc.GetFolder(context.Background(), "member-2", "f1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("stranger open error = %v, want forbidden", err)
	}
	if _, err := svc.GetFolder(context.Background(), "member-1", "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing folder error = %v, want not found", err)
	}
}

func TestGetCapabilitiesNeverDenies(t *testing.T) {
	repo := newFakeFolderRepo(activeFolder("f1", "Private", "member-1"))
	svc := newTestFolderService(t, repo)

	// A user with no relationship to the folder gets an all-false record,
	// not an error.
	caps, err := svc.GetCapabilities(context.Background(), "member-2", "f1")
	if err != nil {
		t.Fatalf("GetCapabilities: %v", err)
	}
	if *caps != (models.Capabilities{}) {
		t.Errorf("capabilities = %+v, want all false", *caps)
	}

	caps, err = svc.GetCapabilities(context.Background(), "member-1", "f1")
	if err != nil {
		t.Fatalf("GetCapabilities: %v", err)
	}
	if !caps.CanOpen || !caps.CanDelete {
		t.Errorf("owner capabilities = %+v, want open and delete", *caps)
	}
}

func TestListAccessible(t *testing.T) {
	public := activeFolder("pub", "Handbook", "owner-1")
	public.Visibility = models.VisibilityPublic

	repo := newFakeFolderRepo(
		public,
		activeFolder("own", "Mine", "member-1"),
		activeFolder("other", "Not Mine", "member-2"),
	)
	svc := newTestFolderService(t, repo)

	folders, err := svc.ListAccessible(context.Background(), "member-1", testWorkspace)
	if err != nil {
		t.Fatalf("ListAccessible: %v", err)
	}

	got := make(map[string]bool, len(folders))
	for _, f := range folders {
		got[f.ID] = true
	}
	if !got["pub"] || !got["own"] {
		t.Errorf("accessible = %v, want pub and own", got)
	}
	if got["other"] {
		t.Error("member-1 should not see member-2's private folder")
	}

	// Non-members are refused outright.
	if _, err := svc.ListAccessible(context.Background(), "stranger", testWorkspace); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-member error = %v, want forbidden", err)
	}
}
