package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"atrium/internal/auth"
	"atrium/internal/config"
	models "atrium/internal/domain/models/workspace"
	"atrium/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	clearData := flag.Bool("clear-data", false, "Clear all folders and memberships (keep schema)")
	withUsers := flag.Bool("with-users", false, "Provision demo accounts via the Supabase admin API")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		log.Println("Clearing folders and memberships...")
		if err := clearWorkspaceData(ctx, pool, tables, cfg.TestWorkspaceID); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("Data cleared successfully")
		return
	}

	// Resolve demo user ids, optionally provisioning real accounts
	roster := defaultRoster(cfg.TestUserID)
	if *withUsers {
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			log.Fatalf("--with-users requires SUPABASE_URL and SUPABASE_KEY")
		}
		admin := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)
		for i := range roster {
			id, err := admin.EnsureUser(roster[i].email, "atrium-demo-password")
			if err != nil {
				log.Fatalf("Failed to provision %s: %v", roster[i].email, err)
			}
			roster[i].id = id
			log.Printf("Provisioned account: %s (%s)", roster[i].email, id)
		}
	}

	// Ensure the demo workspace exists
	if err := ensureWorkspace(ctx, pool, tables, cfg.TestWorkspaceID, roster[0].id); err != nil {
		log.Fatalf("Failed to ensure workspace: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	membershipRepo := postgres.NewMembershipRepository(repoConfig)

	// Clear existing demo data so reruns stay deterministic
	log.Println("Clearing existing folders and memberships...")
	if err := clearWorkspaceData(ctx, pool, tables, cfg.TestWorkspaceID); err != nil {
		log.Printf("Warning: Could not clear data: %v", err)
	}

	// Seed memberships
	log.Println("Seeding memberships...")
	for _, m := range seedMemberships(cfg.TestWorkspaceID, roster) {
		if err := membershipRepo.Upsert(ctx, &m); err != nil {
			log.Fatalf("Failed to seed membership %s: %v", m.UserID, err)
		}
		log.Printf("Created membership: %s (%s)", m.UserID, m.Role)
	}

	// Seed the folder taxonomy
	log.Println("Seeding folder taxonomy...")
	folders := seedFolders(cfg.TestWorkspaceID, roster)
	for i := range folders {
		if err := folderRepo.Create(ctx, &folders[i]); err != nil {
			log.Fatalf("Failed to create folder '%s': %v", folders[i].Name, err)
		}
		// Children reference the generated parent ids
		for j := i + 1; j < len(folders); j++ {
			if folders[j].ParentID != nil && *folders[j].ParentID == folders[i].Name {
				folders[j].ParentID = &folders[i].ID
				folders[j].Level = folders[i].Level + 1
			}
		}
		log.Printf("Created folder %d/%d: %s (%s)", i+1, len(folders), folders[i].Name, folders[i].FolderType)
	}

	log.Println("Seeding complete!")
}

// demoUser pairs a seed account with the id memberships reference.
// Roster order is fixed: owner, admin, designer, engineer.
type demoUser struct {
	email string
	id    string
}

// defaultRoster returns the demo accounts with fixed UUIDs, used when no
// real accounts are provisioned.
func defaultRoster(ownerID string) []demoUser {
	return []demoUser{
		{email: "owner@atrium.dev", id: ownerID},
		{email: "admin@atrium.dev", id: "00000000-0000-0000-0000-0000000000ab"},
		{email: "designer@atrium.dev", id: "00000000-0000-0000-0000-0000000000ac"},
		{email: "engineer@atrium.dev", id: "00000000-0000-0000-0000-0000000000ad"},
	}
}

// seedMemberships returns the demo roster: the workspace owner, one admin,
// and two members split across teams.
func seedMemberships(workspaceID string, roster []demoUser) []models.Membership {
	return []models.Membership{
		{WorkspaceID: workspaceID, UserID: roster[0].id, Role: models.RoleOwner},
		{WorkspaceID: workspaceID, UserID: roster[1].id, Role: models.RoleAdmin},
		{WorkspaceID: workspaceID, UserID: roster[2].id, Role: models.RoleMember, TeamIDs: []string{"team-design"}},
		{WorkspaceID: workspaceID, UserID: roster[3].id, Role: models.RoleMember, TeamIDs: []string{"team-eng"}, ProjectIDs: []string{"proj-launch"}},
	}
}

// seedFolders returns the demo taxonomy. ParentID temporarily carries the
// parent's NAME; the seeding loop rewrites it to the generated id once the
// parent row exists.
func seedFolders(workspaceID string, roster []demoUser) []models.Folder {
	ownerID := roster[0].id
	assignee := roster[2].id
	teamDesign := "team-design"
	projLaunch := "proj-launch"
	root := "Workspace Root"

	open := models.FolderSettings{AllowSubfolders: true}
	leaf := models.FolderSettings{}

	return []models.Folder{
		{
			WorkspaceID: workspaceID, Name: root,
			FolderType: models.FolderTypeSystem, Visibility: models.VisibilityPublic,
			OwnerID: ownerID, IsSystemFolder: true, Status: models.StatusActive, Settings: open,
		},
		{
			WorkspaceID: workspaceID, Name: "Company Handbook", ParentID: &root,
			FolderType: models.FolderTypeShared, Visibility: models.VisibilityPublic,
			OwnerID: ownerID, Status: models.StatusActive, Settings: open,
		},
		{
			WorkspaceID: workspaceID, Name: "Design Assets", ParentID: &root,
			FolderType: models.FolderTypeTeam, Visibility: models.VisibilityTeam, TeamID: &teamDesign,
			OwnerID: ownerID, Status: models.StatusActive,
			Permissions: models.PermissionLists{Write: []string{assignee}},
			Settings:    open,
		},
		{
			WorkspaceID: workspaceID, Name: "Launch Plan", ParentID: &root,
			FolderType: models.FolderTypeProject, Visibility: models.VisibilityProject, ProjectID: &projLaunch,
			OwnerID: ownerID, Status: models.StatusActive, Settings: open,
		},
		{
			WorkspaceID: workspaceID, Name: "Onboarding Tasks", ParentID: &root,
			FolderType: models.FolderTypeMemberAssigned, Visibility: models.VisibilityPrivate,
			AssignedMemberID: &assignee,
			OwnerID:          ownerID, Status: models.StatusActive, Settings: leaf,
		},
	}
}

// ensureWorkspace creates the demo workspace if it doesn't exist
func ensureWorkspace(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, workspaceID, ownerID string) error {
	query := `
		INSERT INTO ` + tables.Workspaces + ` (id, name, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := pool.Exec(ctx, query, workspaceID, "Demo Workspace", ownerID, time.Now())
	return err
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	// Enable UUID extension
	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\""); err != nil {
		return err
	}

	createWorkspaces := `
		CREATE TABLE IF NOT EXISTS ` + tables.Workspaces + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name TEXT NOT NULL,
			owner_id UUID NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createWorkspaces); err != nil {
		return err
	}

	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			workspace_id UUID NOT NULL REFERENCES ` + tables.Workspaces + `(id) ON DELETE CASCADE,
			parent_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE RESTRICT,
			level INTEGER NOT NULL DEFAULT 0,
			name TEXT NOT NULL,
			folder_type TEXT NOT NULL,
			visibility TEXT NOT NULL,
			owner_id UUID NOT NULL,
			assigned_member_id UUID,
			team_id TEXT,
			project_id TEXT,
			perm_read TEXT[] NOT NULL DEFAULT '{}',
			perm_write TEXT[] NOT NULL DEFAULT '{}',
			perm_admin TEXT[] NOT NULL DEFAULT '{}',
			perm_delete TEXT[] NOT NULL DEFAULT '{}',
			is_system_folder BOOLEAN NOT NULL DEFAULT FALSE,
			status TEXT NOT NULL DEFAULT 'active',
			file_count INTEGER NOT NULL DEFAULT 0,
			total_size BIGINT NOT NULL DEFAULT 0,
			settings JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFolders); err != nil {
		return err
	}

	createMemberships := `
		CREATE TABLE IF NOT EXISTS ` + tables.Memberships + ` (
			workspace_id UUID NOT NULL REFERENCES ` + tables.Workspaces + `(id) ON DELETE CASCADE,
			user_id UUID NOT NULL,
			role TEXT NOT NULL,
			team_ids TEXT[] NOT NULL DEFAULT '{}',
			project_ids TEXT[] NOT NULL DEFAULT '{}',
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (workspace_id, user_id)
		)
	`
	if _, err := pool.Exec(ctx, createMemberships); err != nil {
		return err
	}

	// The accessible-set filter reads whole workspaces at a time
	createIndex := `
		CREATE INDEX IF NOT EXISTS idx_` + tables.Folders + `_workspace
		ON ` + tables.Folders + ` (workspace_id, name, id)
	`
	_, err := pool.Exec(ctx, createIndex)
	return err
}

// dropAllTables drops all tables in dependency order
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	statements := []string{
		"DROP TABLE IF EXISTS " + tables.Memberships + " CASCADE",
		"DROP TABLE IF EXISTS " + tables.Folders + " CASCADE",
		"DROP TABLE IF EXISTS " + tables.Workspaces + " CASCADE",
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// clearWorkspaceData removes folders and memberships of a workspace
func clearWorkspaceData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, workspaceID string) error {
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Folders+" WHERE workspace_id = $1", workspaceID); err != nil {
		return err
	}
	_, err := pool.Exec(ctx, "DELETE FROM "+tables.Memberships+" WHERE workspace_id = $1", workspaceID)
	return err
}
