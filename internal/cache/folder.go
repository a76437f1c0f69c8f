package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	models "atrium/internal/domain/models/workspace"
	wsRepo "atrium/internal/domain/repositories/workspace"
)

const (
	snapshotKeyPrefix = "atrium:folders:"
	snapshotTTL       = 30 * time.Second
)

// CachedFolderRepository wraps a FolderRepository with a short-lived Redis
// cache of per-workspace folder snapshots. Tree builds and bulk checks read
// the whole workspace at once, so the snapshot is cached as a unit and
// invalidated wholesale on any write. Cache failures fall through to the
// underlying store; they are logged, never surfaced.
type CachedFolderRepository struct {
	inner  wsRepo.FolderRepository
	client *redis.Client
	logger *slog.Logger
}

// NewCachedFolderRepository decorates repo with workspace snapshot caching
func NewCachedFolderRepository(repo wsRepo.FolderRepository, client *redis.Client, logger *slog.Logger) wsRepo.FolderRepository {
	return &CachedFolderRepository{
		inner:  repo,
		client: client,
		logger: logger,
	}
}

func snapshotKey(workspaceID string) string {
	return snapshotKeyPrefix + workspaceID
}

// ListByWorkspace returns the cached snapshot when present, otherwise reads
// through to the store and caches the result.
func (r *CachedFolderRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Folder, error) {
	key := snapshotKey(workspaceID)

	data, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var folders []models.Folder
		if err := json.Unmarshal(data, &folders); err == nil {
			return folders, nil
		}
		// Unreadable entry, drop it and reload.
		r.client.Del(ctx, key)
	} else if err != redis.Nil {
		r.logger.Warn("folder snapshot cache read failed", "workspace_id", workspaceID, "error", err)
	}

	folders, err := r.inner.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(folders); err == nil {
		if err := r.client.Set(ctx, key, data, snapshotTTL).Err(); err != nil {
			r.logger.Warn("folder snapshot cache write failed", "workspace_id", workspaceID, "error", err)
		}
	}

	return folders, nil
}

// GetByID reads through to the store; single-folder reads are not cached
func (r *CachedFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	return r.inner.GetByID(ctx, id)
}

// CountOwnedBy reads through to the store
func (r *CachedFolderRepository) CountOwnedBy(ctx context.Context, workspaceID, userID string) (int, error) {
	return r.inner.CountOwnedBy(ctx, workspaceID, userID)
}

// Create creates the folder and invalidates the workspace snapshot
func (r *CachedFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if err := r.inner.Create(ctx, folder); err != nil {
		return err
	}
	r.invalidate(ctx, folder.WorkspaceID)
	return nil
}

// Update updates the folder and invalidates the workspace snapshot
func (r *CachedFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	if err := r.inner.Update(ctx, folder); err != nil {
		return err
	}
	r.invalidate(ctx, folder.WorkspaceID)
	return nil
}

// UpdateStatus transitions the folder and invalidates its workspace snapshot
func (r *CachedFolderRepository) UpdateStatus(ctx context.Context, id string, status models.FolderStatus) error {
	folder, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.inner.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	r.invalidate(ctx, folder.WorkspaceID)
	return nil
}

// Delete removes the folder and invalidates its workspace snapshot
func (r *CachedFolderRepository) Delete(ctx context.Context, id string) error {
	folder, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, folder.WorkspaceID)
	return nil
}

func (r *CachedFolderRepository) invalidate(ctx context.Context, workspaceID string) {
	if err := r.client.Del(ctx, snapshotKey(workspaceID)).Err(); err != nil {
		r.logger.Warn("folder snapshot cache invalidation failed", "workspace_id", workspaceID, "error", err)
	}
}
