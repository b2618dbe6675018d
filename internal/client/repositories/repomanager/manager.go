// Package repomanager picks the repository implementations and the schema
// migrations that match a storage driver.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/techurbanist/duread/internal/client/repositories/documents"
	"github.com/techurbanist/duread/internal/client/repositories/settings"
	"github.com/techurbanist/duread/internal/dbx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// RepositoryManager vends repositories bound to a DBTX and migrates the
// schema they expect.
type RepositoryManager interface {
	// SQLDriver is the database/sql driver name to open connections with.
	SQLDriver() string
	RunMigrations(ctx context.Context, db *sql.DB) error
	Settings(db dbx.DBTX) settings.Repository
	Documents(db dbx.DBTX) documents.Repository
}

// New returns the manager for a storage driver name.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case DriverSQLite, "":
		return &SQLiteRepositoryManager{}, nil
	case DriverPostgres:
		return &PostgresRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}
