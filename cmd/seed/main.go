package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"casedesk/internal/auth"
	"casedesk/internal/config"
	"casedesk/internal/repository/postgres"
	pgcasework "casedesk/internal/repository/postgres/casework"
	"casedesk/internal/seed"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only apply migrations, don't load fixtures")
	fixturesPath := flag.String("file", "fixtures/dev.yaml", "YAML fixture file")
	tokens := flag.Bool("tokens", false, "Print a 24h HS256 token per staff account (needs JWT_SECRET)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	logger := config.NewLogger(cfg.Environment, os.Stdout)

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	log.Println("Applying migrations...")
	if err := postgres.Migrate(ctx, pool, cfg.TablePrefix, logger); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	fx, err := seed.LoadFile(*fixturesPath)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	// No surrounding transaction: a duplicate folder insert would abort it.
	seeder := seed.NewSeeder(pgcasework.NewRegistryWriter(repoConfig), pgcasework.NewFolderRepository(repoConfig), logger)
	if err := seeder.Apply(ctx, fx); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}
	log.Printf("Seeded %d staff accounts and %d cases from %s", len(fx.Staff), len(fx.Cases), *fixturesPath)

	if *tokens {
		if err := printTokens(cfg.JWTSecret, fx); err != nil {
			log.Fatalf("Failed to sign tokens: %v", err)
		}
	}
}

// dropAllTables drops every prefixed table, children first
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{
		tables.CycleKeys,
		tables.Attachments,
		tables.Annotations,
		tables.Tasks,
		tables.Folders,
		tables.CaseMembers,
		tables.Cases,
		tables.Staff,
		tables.Schema,
	} {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

func printTokens(secret string, fx *seed.Fixtures) error {
	if secret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	now := time.Now()
	for _, s := range fx.Staff {
		token, err := auth.SignHS256(secret, s.ID, jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\t%s\n", s.ID, s.Role, token)
	}
	return nil
}
