package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"atrium/internal/domain"
	models "atrium/internal/domain/models/workspace"
	wsRepo "atrium/internal/domain/repositories/workspace"
)

// PostgresMembershipRepository implements the MembershipRepository interface
type PostgresMembershipRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(config *RepositoryConfig) wsRepo.MembershipRepository {
	return &PostgresMembershipRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetMembership returns a user's standing in a workspace
func (r *PostgresMembershipRepository) GetMembership(ctx context.Context, workspaceID, userID string) (*models.Membership, error) {
	query := fmt.Sprintf(`
		SELECT workspace_id, user_id, role, team_ids, project_ids
		FROM %s
		WHERE workspace_id = $1 AND user_id = $2
	`, r.tables.Memberships)

	var m models.Membership
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, workspaceID, userID).Scan(
		&m.WorkspaceID,
		&m.UserID,
		&m.Role,
		&m.TeamIDs,
		&m.ProjectIDs,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("membership %s/%s: %w", workspaceID, userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}

	return &m, nil
}

// ListByWorkspace returns all memberships of a workspace
func (r *PostgresMembershipRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Membership, error) {
	query := fmt.Sprintf(`
		SELECT workspace_id, user_id, role, team_ids, project_ids
		FROM %s
		WHERE workspace_id = $1
		ORDER BY user_id
	`, r.tables.Memberships)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	memberships := make([]models.Membership, 0)
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.WorkspaceID, &m.UserID, &m.Role, &m.TeamIDs, &m.ProjectIDs); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	return memberships, nil
}

// Upsert creates or updates a membership
func (r *PostgresMembershipRepository) Upsert(ctx context.Context, membership *models.Membership) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (workspace_id, user_id, role, team_ids, project_ids, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (workspace_id, user_id)
		DO UPDATE SET role = $3, team_ids = $4, project_ids = $5, updated_at = $6
	`, r.tables.Memberships)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		membership.WorkspaceID,
		membership.UserID,
		membership.Role,
		membership.TeamIDs,
		membership.ProjectIDs,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}

	return nil
}

// PostgresWorkspaceRepository implements the WorkspaceRepository interface
type PostgresWorkspaceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(config *RepositoryConfig) wsRepo.WorkspaceRepository {
	return &PostgresWorkspaceRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves a workspace by ID
func (r *PostgresWorkspaceRepository) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT id, name, owner_id, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Workspaces)

	var ws models.Workspace
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&ws.ID, &ws.Name, &ws.OwnerID, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get workspace: %w", err)
	}

	return &ws, nil
}

// Create creates a new workspace
func (r *PostgresWorkspaceRepository) Create(ctx context.Context, ws *models.Workspace) error {
	now := time.Now()
	if ws.CreatedAt.IsZero() {
		ws.CreatedAt = now
	}
	ws.UpdatedAt = now

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.Workspaces)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ws.ID, ws.Name, ws.OwnerID, ws.CreatedAt, ws.UpdatedAt)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("workspace '%s': %w", ws.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create workspace: %w", err)
	}

	return nil
}
