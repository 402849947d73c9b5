package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"casedesk/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Cases       string
	CaseMembers string
	Staff       string
	Tasks       string
	Annotations string
	Attachments string
	CycleKeys   string
	Folders     string
	Schema      string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Cases:       fmt.Sprintf("%scases", prefix),
		CaseMembers: fmt.Sprintf("%scase_members", prefix),
		Staff:       fmt.Sprintf("%sstaff_members", prefix),
		Tasks:       fmt.Sprintf("%stasks", prefix),
		Annotations: fmt.Sprintf("%stask_annotations", prefix),
		Attachments: fmt.Sprintf("%stask_attachments", prefix),
		CycleKeys:   fmt.Sprintf("%stask_cycle_keys", prefix),
		Folders:     fmt.Sprintf("%scase_folders", prefix),
		Schema:      fmt.Sprintf("%sschema_version", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// Port 6543 (a transaction-mode PgBouncer) does not support prepared
// statements, so the pool switches to QueryExecModeCacheDescribe there unless
// default_query_exec_mode was set explicitly in the connection string.
//
// Table prefixes are interpolated with fmt.Sprintf before a statement is sent,
// so each environment gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or pool when there is none.
// Repositories use it to join a surrounding ExecTx automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
