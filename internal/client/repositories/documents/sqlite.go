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

const columns = `id, title, source_text, direction, sentences, created_at, updated_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, doc *models.Document) error {
	rec, err := encode(doc)
	if err != nil {
		return err
	}
	query := `INSERT INTO documents (` + columns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title,
				source_text = excluded.source_text,
				direction = excluded.direction,
				sentences = excluded.sentences,
				updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.Title, rec.SourceText, rec.Direction, string(rec.Sentences), rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert document[%s]: %w", doc.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Document, error) {
	rec, err := scanRow(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM documents WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document[%s]: %w", id, err)
	}
	return rec.decode()
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete document[%s]: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Document, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM documents ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}
