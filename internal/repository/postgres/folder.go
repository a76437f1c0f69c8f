package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"atrium/internal/domain"
	models "atrium/internal/domain/models/workspace"
	wsRepo "atrium/internal/domain/repositories/workspace"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) wsRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const folderColumns = `
	id, workspace_id, parent_id, level, name, folder_type, visibility,
	owner_id, assigned_member_id, team_id, project_id,
	perm_read, perm_write, perm_admin, perm_delete,
	is_system_folder, status, file_count, total_size, settings,
	created_at, updated_at`

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var f models.Folder
	err := row.Scan(
		&f.ID,
		&f.WorkspaceID,
		&f.ParentID,
		&f.Level,
		&f.Name,
		&f.FolderType,
		&f.Visibility,
		&f.OwnerID,
		&f.AssignedMemberID,
		&f.TeamID,
		&f.ProjectID,
		&f.Permissions.Read,
		&f.Permissions.Write,
		&f.Permissions.Admin,
		&f.Permissions.Delete,
		&f.IsSystemFolder,
		&f.Status,
		&f.FileCount,
		&f.TotalSize,
		&f.Settings,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByWorkspace returns every folder in a workspace
func (r *PostgresFolderRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE workspace_id = $1
		ORDER BY name, id
	`, folderColumns, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := make([]models.Folder, 0)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	return folders, nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, folderColumns, r.tables.Folders)

	f, err := scanFolder(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return f, nil
}

// CountOwnedBy counts the active folders a user owns in a workspace
func (r *PostgresFolderRepository) CountOwnedBy(ctx context.Context, workspaceID, userID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE workspace_id = $1 AND owner_id = $2 AND status = 'active'
	`, r.tables.Folders)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, workspaceID, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count owned folders: %w", err)
	}
	return count, nil
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	now := time.Now()
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = now
	}
	folder.UpdatedAt = now

	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, workspace_id, parent_id, level, name, folder_type, visibility,
			owner_id, assigned_member_id, team_id, project_id,
			perm_read, perm_write, perm_admin, perm_delete,
			is_system_folder, status, file_count, total_size, settings,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		        $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`, r.tables.Folders)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.ID,
		folder.WorkspaceID,
		folder.ParentID,
		folder.Level,
		folder.Name,
		folder.FolderType,
		folder.Visibility,
		folder.OwnerID,
		folder.AssignedMemberID,
		folder.TeamID,
		folder.ProjectID,
		folder.Permissions.Read,
		folder.Permissions.Write,
		folder.Permissions.Admin,
		folder.Permissions.Delete,
		folder.IsSystemFolder,
		folder.Status,
		folder.FileCount,
		folder.TotalSize,
		folder.Settings,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// Update updates a folder's mutable fields
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	folder.UpdatedAt = time.Now()

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, visibility = $2, team_id = $3, project_id = $4,
		    perm_read = $5, perm_write = $6, perm_admin = $7, perm_delete = $8,
		    status = $9, settings = $10, updated_at = $11
		WHERE id = $12
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.Name,
		folder.Visibility,
		folder.TeamID,
		folder.ProjectID,
		folder.Permissions.Read,
		folder.Permissions.Write,
		folder.Permissions.Admin,
		folder.Permissions.Delete,
		folder.Status,
		folder.Settings,
		folder.UpdatedAt,
		folder.ID,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// UpdateStatus transitions a folder's lifecycle status
func (r *PostgresFolderRepository) UpdateStatus(ctx context.Context, id string, status models.FolderStatus) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, updated_at = $2
		WHERE id = $3
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update folder status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete hard-deletes a folder
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("cannot delete folder with children: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
