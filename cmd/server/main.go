package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"casedesk/internal/auth"
	"casedesk/internal/config"
	models "casedesk/internal/domain/models/casework"
	"casedesk/internal/domain/repositories"
	repo "casedesk/internal/domain/repositories/casework"
	"casedesk/internal/handler"
	"casedesk/internal/middleware"
	"casedesk/internal/repository/memory"
	"casedesk/internal/repository/postgres"
	postgresCasework "casedesk/internal/repository/postgres/casework"
	"casedesk/internal/seed"
	serviceAuth "casedesk/internal/service/auth"
	serviceCasework "casedesk/internal/service/casework"
	"casedesk/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// stores is the persistence backend chosen at startup
type stores struct {
	tasks       repo.TaskRepository
	annotations repo.AnnotationRepository
	attachments repo.AttachmentRepository
	folders     repo.FolderRepository
	staff       repo.StaffRepository
	cases       repo.CaseRepository
	txManager   repositories.TransactionManager
	pinger      handler.Pinger
	backend     string
	close       func()
}

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer f.Close()
		logOut = io.MultiWriter(os.Stdout, f)
	}
	logger := config.NewLogger(cfg.Environment, logOut)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := newVerifier(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer verifier.Close()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.close()

	content, err := storage.NewDiskContentStore(cfg.ContentDir)
	if err != nil {
		log.Fatalf("Failed to open content store: %v", err)
	}

	// Services
	authorizer := serviceAuth.NewMembershipAuthorizer(st.cases, st.tasks, st.folders)
	directory := serviceCasework.NewStaffDirectory(st.staff)
	validator := serviceCasework.NewResourceValidator(st.folders)
	workflow := serviceCasework.NewWorkflowService(serviceCasework.WorkflowConfig{
		Tasks:              st.tasks,
		Annotations:        st.annotations,
		Attachments:        st.attachments,
		Staff:              st.staff,
		Directory:          directory,
		Content:            content,
		TxManager:          st.txManager,
		Validator:          validator,
		Authorizer:         authorizer,
		Logger:             logger,
		MaxAttachmentBytes: cfg.MaxAttachmentBytes,
	})
	folderService := serviceCasework.NewFolderService(st.folders, st.attachments, authorizer, logger)

	logger.Info("services initialized", "store", st.backend)

	// Handlers
	taskHandler := handler.NewTaskHandler(workflow, models.Latest(cfg.DefaultAnnotationWindow), logger)
	attachmentHandler := handler.NewAttachmentHandler(workflow, cfg.MaxAttachmentBytes, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	staffHandler := handler.NewStaffHandler(directory)
	healthHandler := handler.NewHealthHandler(st.pinger, st.backend)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Routes{
		Tasks:       taskHandler,
		Attachments: attachmentHandler,
		Folders:     folderHandler,
		Staff:       staffHandler,
		Health:      healthHandler,
	})

	// Order: CORS → RequestLogger → Recovery → Auth → Routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(verifier)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	// CORS must be outermost to answer pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", handler.IdempotencyKeyHeader, middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}

func newVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.JWTVerifier, error) {
	if cfg.JWKSURL != "" {
		return auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
	}
	if cfg.JWTSecret != "" {
		logger.Warn("using shared-secret JWT verification")
		return auth.NewHMACVerifier(cfg.JWTSecret, logger)
	}
	return nil, errors.New("set JWKS_URL or JWT_SECRET")
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if cfg.DatabaseURL == "" {
		if cfg.Environment == "prod" {
			return nil, errors.New("DATABASE_URL is required in prod")
		}
		logger.Warn("DATABASE_URL not set, using in-memory store (data is lost on restart)")
		mem := memory.NewStore()
		r := mem.Repositories()
		if cfg.SeedFile != "" {
			fx, err := seed.LoadFile(cfg.SeedFile)
			if err != nil {
				return nil, err
			}
			if err := seed.NewSeeder(mem, r.Folders, logger).Apply(ctx, fx); err != nil {
				return nil, err
			}
		}
		return &stores{
			tasks:       r.Tasks,
			annotations: r.Annotations,
			attachments: r.Attachments,
			folders:     r.Folders,
			staff:       r.Staff,
			cases:       r.Cases,
			txManager:   mem,
			pinger:      mem,
			backend:     "memory",
			close:       func() {},
		}, nil
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected")

	if err := postgres.Migrate(ctx, pool, cfg.TablePrefix, logger); err != nil {
		pool.Close()
		return nil, err
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	return &stores{
		tasks:       postgresCasework.NewTaskRepository(repoConfig),
		annotations: postgresCasework.NewAnnotationRepository(repoConfig),
		attachments: postgresCasework.NewAttachmentRepository(repoConfig),
		folders:     postgresCasework.NewFolderRepository(repoConfig),
		staff:       postgresCasework.NewStaffRepository(repoConfig),
		cases:       postgresCasework.NewCaseRepository(repoConfig),
		txManager:   postgres.NewTransactionManager(pool, logger),
		pinger:      pool,
		backend:     "postgres",
		close:       pool.Close,
	}, nil
}
