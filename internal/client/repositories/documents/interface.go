// Package documents persists reading documents together with their sentence
// state, one row per document.
package documents

import (
	"context"

	"github.com/techurbanist/duread/internal/client/models"
)

// Repository stores whole documents.
type Repository interface {
	// Put inserts or replaces a document by ID. CreatedAt of an existing row
	// is kept.
	Put(ctx context.Context, doc *models.Document) error

	// Get returns common.ErrNotFound when no document has the ID.
	Get(ctx context.Context, id string) (*models.Document, error)

	// Delete removes a document. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every document, most recently updated first.
	List(ctx context.Context) ([]models.Document, error)
}
