package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/techurbanist/duread/internal/client/migrations"
	"github.com/techurbanist/duread/internal/client/repositories/documents"
	"github.com/techurbanist/duread/internal/client/repositories/settings"
	"github.com/techurbanist/duread/internal/dbx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepositoryManager serves a library shared between machines.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) SQLDriver() string { return "pgx" }

func (m *PostgresRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Documents(db dbx.DBTX) documents.Repository {
	return documents.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Postgres)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, migrations.PostgresDir)
}
