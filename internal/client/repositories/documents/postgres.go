package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techurbanist/duread/internal/client/models"
	"github.com/techurbanist/duread/internal/common"
	"github.com/techurbanist/duread/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Put(ctx context.Context, doc *models.Document) error {
	rec, err := encode(doc)
	if err != nil {
		return err
	}
	query :=
		`INSERT INTO documents (id, title, source_text, direction, sentences, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title,
			source_text = EXCLUDED.source_text,
			direction = EXCLUDED.direction,
			sentences = EXCLUDED.sentences,
			updated_at = EXCLUDED.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.Title, rec.SourceText, rec.Direction, string(rec.Sentences), rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert document[%s]: %w", doc.ID, err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Document, error) {
	query :=
		`SELECT id, title, source_text, direction, sentences, created_at, updated_at
		 FROM documents WHERE id = $1`

	rec, err := scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document[%s]: %w", id, err)
	}
	return rec.decode()
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete document[%s]: %w", id, err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Document, error) {
	query :=
		`SELECT id, title, source_text, direction, sentences, created_at, updated_at
		 FROM documents ORDER BY updated_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}
