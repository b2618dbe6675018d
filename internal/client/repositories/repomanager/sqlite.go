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

	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager serves a local single-file library.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) SQLDriver() string { return "sqlite" }

func (m *SQLiteRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Documents(db dbx.DBTX) documents.Repository {
	return documents.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.SQLite)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, migrations.SQLiteDir)
}
