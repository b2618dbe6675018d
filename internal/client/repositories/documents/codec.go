package documents

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/techurbanist/duread/internal/client/models"
)

// row is the column layout shared by both dialects. Timestamps are Unix
// milliseconds.
type row struct {
	ID         string
	Title      string
	SourceText string
	Direction  string
	Sentences  []byte
	CreatedAt  int64
	UpdatedAt  int64
}

func encode(d *models.Document) (row, error) {
	sentences := d.Sentences
	if sentences == nil {
		sentences = []models.Sentence{}
	}
	b, err := json.Marshal(sentences)
	if err != nil {
		return row{}, fmt.Errorf("failed to encode sentences of %s: %w", d.ID, err)
	}
	return row{
		ID:         d.ID,
		Title:      d.Title,
		SourceText: d.SourceText,
		Direction:  string(d.Direction),
		Sentences:  b,
		CreatedAt:  d.CreatedAt.UnixMilli(),
		UpdatedAt:  d.UpdatedAt.UnixMilli(),
	}, nil
}

func (r row) decode() (*models.Document, error) {
	dir, err := models.ParseDirection(r.Direction)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", r.ID, err)
	}
	var sentences []models.Sentence
	if err := json.Unmarshal(r.Sentences, &sentences); err != nil {
		return nil, fmt.Errorf("failed to decode sentences of %s: %w", r.ID, err)
	}
	// an empty word list is not written out for loaded sentences
	for i := range sentences {
		if sentences[i].Status == models.StatusLoaded && sentences[i].Words == nil {
			sentences[i].Words = []models.Word{}
		}
	}
	return &models.Document{
		ID:         r.ID,
		Title:      r.Title,
		SourceText: r.SourceText,
		Direction:  dir,
		Sentences:  sentences,
		CreatedAt:  time.UnixMilli(r.CreatedAt),
		UpdatedAt:  time.UnixMilli(r.UpdatedAt),
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (row, error) {
	var r row
	err := s.Scan(&r.ID, &r.Title, &r.SourceText, &r.Direction, &r.Sentences, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func collect(rows *sql.Rows) ([]models.Document, error) {
	result := make([]models.Document, 0)
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		d, err := r.decode()
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate document rows: %w", err)
	}
	return result, nil
}
