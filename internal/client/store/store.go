// Package store is the document store used by the reader: a settings table
// and a documents table behind one handle, with storage failures reported
// as common.ErrStorageUnavailable or common.ErrStorageIO.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/techurbanist/duread/internal/client/models"
	"github.com/techurbanist/duread/internal/client/repositories/documents"
	"github.com/techurbanist/duread/internal/client/repositories/repomanager"
	"github.com/techurbanist/duread/internal/client/repositories/settings"
	"github.com/techurbanist/duread/internal/common"
	"github.com/techurbanist/duread/internal/filex"
)

type Store struct {
	db        *sql.DB
	settings  settings.Repository
	documents documents.Repository
	closed    atomic.Bool
}

// Open connects to the backend named by driver, migrates it and returns a
// ready Store. Any failure on the way is common.ErrStorageUnavailable.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	m, err := repomanager.New(driver)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	if m.SQLDriver() == "sqlite" {
		if _, err := filex.EnsureParentDir(dsn); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
		}
	}

	db, err := sql.Open(m.SQLDriver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	if m.SQLDriver() == "sqlite" {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrations: %w", common.ErrStorageUnavailable, err)
	}

	return New(db, m), nil
}

// New wraps an already migrated database.
func New(db *sql.DB, m repomanager.RepositoryManager) *Store {
	return &Store{db: db, settings: m.Settings(db), documents: m.Documents(db)}
}

func (s *Store) wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrNotFound):
		return err
	case s.closed.Load(), errors.Is(err, sql.ErrConnDone):
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", common.ErrStorageIO, err)
	}
}

func (s *Store) check() error {
	if s.closed.Load() {
		return common.ErrStorageUnavailable
	}
	return nil
}

// GetSetting returns ("", false, nil) for an absent key.
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	if err := s.check(); err != nil {
		return "", false, err
	}
	v, ok, err := s.settings.Get(ctx, key)
	return v, ok, s.wrap(err)
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.wrap(s.settings.Set(ctx, key, value))
}

func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.wrap(s.settings.Delete(ctx, key))
}

// ClearSettings wipes every setting. Documents are kept.
func (s *Store) ClearSettings(ctx context.Context) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.wrap(s.settings.Clear(ctx))
}

// PutDocument stores doc, which must already carry its ID and timestamps.
func (s *Store) PutDocument(ctx context.Context, doc *models.Document) error {
	if err := s.check(); err != nil {
		return err
	}
	if doc.ID == "" {
		return fmt.Errorf("%w: document has no id", common.ErrStorageIO)
	}
	return s.wrap(s.documents.Put(ctx, doc))
}

// GetDocument returns common.ErrNotFound for an unknown id.
func (s *Store) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	d, err := s.documents.Get(ctx, id)
	return d, s.wrap(err)
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.wrap(s.documents.Delete(ctx, id))
}

// ListDocuments returns all documents, most recently updated first.
func (s *Store) ListDocuments(ctx context.Context) ([]models.Document, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	list, err := s.documents.List(ctx)
	return list, s.wrap(err)
}

func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}
