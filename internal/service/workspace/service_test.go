package workspace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"atrium/internal/domain"
	models "atrium/internal/domain/models/workspace"
	"atrium/internal/domain/repositories"
)

// In-memory fakes backing the service tests. They honor the same contracts
// as the Postgres implementations: not-found sentinels, snapshot reads,
// independent per-folder writes.

type fakeFolderRepo struct {
	mu      sync.Mutex
	folders map[string]*models.Folder
	nextID  int

	failUpdateStatus map[string]bool // folder ids whose status writes error
}

func newFakeFolderRepo(folders ...models.Folder) *fakeFolderRepo {
	r := &fakeFolderRepo{
		folders:          make(map[string]*models.Folder),
		failUpdateStatus: make(map[string]bool),
	}
	for i := range folders {
		f := folders[i]
		r.folders[f.ID] = &f
	}
	return r
}

func (r *fakeFolderRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Folder, 0, len(r.folders))
	for _, f := range r.folders {
		if f.WorkspaceID == workspaceID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFolderRepo) CountOwnedBy(ctx context.Context, workspaceID, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, f := range r.folders {
		if f.WorkspaceID == workspaceID && f.OwnerID == userID && f.Status == models.StatusActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if folder.ID == "" {
		r.nextID++
		folder.ID = fmt.Sprintf("folder-%d", r.nextID)
	}
	if folder.Status == "" {
		folder.Status = models.StatusActive
	}
	copied := *folder
	r.folders[folder.ID] = &copied
	return nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	copied := *folder
	r.folders[folder.ID] = &copied
	return nil
}

func (r *fakeFolderRepo) UpdateStatus(ctx context.Context, id string, status models.FolderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdateStatus[id] {
		return fmt.Errorf("storage unavailable for %s", id)
	}
	f, ok := r.folders[id]
	if !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	f.Status = status
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[id]; !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	return nil
}

type fakeMembershipRepo struct {
	memberships map[string]*models.Membership // workspaceID + "/" + userID
}

func newFakeMembershipRepo(memberships ...models.Membership) *fakeMembershipRepo {
	r := &fakeMembershipRepo{memberships: make(map[string]*models.Membership)}
	for i := range memberships {
		m := memberships[i]
		r.memberships[m.WorkspaceID+"/"+m.UserID] = &m
	}
	return r
}

func (r *fakeMembershipRepo) GetMembership(ctx context.Context, workspaceID, userID string) (*models.Membership, error) {
	m, ok := r.memberships[workspaceID+"/"+userID]
	if !ok {
		return nil, fmt.Errorf("membership %s/%s: %w", workspaceID, userID, domain.ErrNotFound)
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMembershipRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Membership, error) {
	out := make([]models.Membership, 0)
	for _, m := range r.memberships {
		if m.WorkspaceID == workspaceID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) Upsert(ctx context.Context, membership *models.Membership) error {
	copied := *membership
	r.memberships[membership.WorkspaceID+"/"+membership.UserID] = &copied
	return nil
}

// passthroughTx runs the function without any transaction
type passthroughTx struct{}

func (passthroughTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
