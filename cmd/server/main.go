package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"atrium/internal/auth"
	"atrium/internal/authz"
	"atrium/internal/cache"
	"atrium/internal/config"
	wsRepo "atrium/internal/domain/repositories/workspace"
	"atrium/internal/handler"
	"atrium/internal/middleware"
	"atrium/internal/repository/postgres"
	serviceAuth "atrium/internal/service/auth"
	serviceWs "atrium/internal/service/workspace"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 5)
		if err != nil {
			log.Fatalf("Failed to create log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	var folderRepo wsRepo.FolderRepository = postgres.NewFolderRepository(repoConfig)
	membershipRepo := postgres.NewMembershipRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Optional Redis snapshot cache in front of the folder store
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		folderRepo = cache.NewCachedFolderRepository(folderRepo, redisClient, logger)
		logger.Info("folder snapshot cache enabled")
	}

	// Initialize role registry
	roleRegistry, err := authz.NewRoleRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize role registry: %v", err)
	}
	logger.Info("role registry initialized")

	// Create services
	authorizer := serviceAuth.NewCapabilityAuthorizer(membershipRepo)
	folderService := serviceWs.NewFolderService(folderRepo, roleRegistry, authorizer, txManager, logger)
	treeService := serviceWs.NewTreeService(folderRepo, authorizer, logger)
	bulkService := serviceWs.NewBulkService(folderRepo, authorizer, logger)

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	folderHandler := handler.NewFolderHandler(folderService, logger)
	treeHandler := handler.NewTreeHandler(treeService, logger)
	bulkHandler := handler.NewBulkHandler(bulkService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", healthHandler.HealthCheck)

	// Workspace-scoped folder routes
	mux.HandleFunc("GET /api/workspaces/{id}/folders", folderHandler.ListFolders)
	mux.HandleFunc("POST /api/workspaces/{id}/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/workspaces/{id}/tree", treeHandler.GetTree)
	mux.HandleFunc("POST /api/workspaces/{id}/folders/archive", bulkHandler.ArchiveFolders)

	// Folder routes
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("GET /api/folders/{id}/capabilities", folderHandler.GetCapabilities)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.AuthMiddleware(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
