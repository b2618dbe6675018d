package documents

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techurbanist/duread/internal/client/migrations"
	"github.com/techurbanist/duread/internal/client/models"
	"github.com/techurbanist/duread/internal/common"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.SQLite)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, migrations.SQLiteDir))
	return db
}

func sampleDoc(id string, updated time.Time) *models.Document {
	b := "读 + 书"
	return &models.Document{
		ID:         id,
		Title:      "Reading",
		SourceText: "I like reading. It is fun.",
		Direction:  models.DirectionEnZh,
		Sentences: []models.Sentence{
			{ID: "s-0", Source: "I like reading.", Status: models.StatusLoaded, Translation: "我喜欢读书。", Pinyin: "wǒ xǐhuan dúshū",
				Words: []models.Word{{Source: "reading", Chinese: "读书", Pinyin: "dúshū", Meaning: "to read", Breakdown: &b}}},
			{ID: "s-1", Source: "It is fun.", Status: models.StatusPending},
		},
		CreatedAt: updated.Add(-time.Hour),
		UpdatedAt: updated,
	}
}

func TestPutAndGet_RoundTrip(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)

	in := sampleDoc("d1", now)
	require.NoError(t, r.Put(ctx, in))

	got, err := r.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, in.Title, got.Title)
	assert.Equal(t, in.Direction, got.Direction)
	assert.Equal(t, in.Sentences, got.Sentences)
	assert.True(t, in.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, in.UpdatedAt.Equal(got.UpdatedAt))
}

func TestPutAndGet_LoadedWithoutWords(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	in := sampleDoc("d1", time.UnixMilli(1_700_000_000_000))
	in.Sentences[0].Words = []models.Word{}
	require.NoError(t, r.Put(ctx, in))

	got, err := r.Get(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, got.Sentences[0].Words)
	assert.Empty(t, got.Sentences[0].Words)
	assert.Nil(t, got.Sentences[1].Words, "pending sentences carry no words")
	assert.Equal(t, in.Sentences, got.Sentences)
}

func TestPut_UpdateKeepsCreatedAt(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)

	doc := sampleDoc("d1", now)
	require.NoError(t, r.Put(ctx, doc))

	doc.Sentences[1].Status = models.StatusError
	doc.Sentences[1].Error = "boom"
	doc.CreatedAt = now.Add(time.Hour)
	doc.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, r.Put(ctx, doc))

	got, err := r.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, got.Sentences[1].Status)
	assert.Equal(t, "boom", got.Sentences[1].Error)
	assert.True(t, now.Add(-time.Hour).Equal(got.CreatedAt))
	assert.True(t, now.Add(time.Minute).Equal(got.UpdatedAt))
}

func TestGet_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestList_OrderedByUpdatedAtDesc(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	require.NoError(t, r.Put(ctx, sampleDoc("a", base)))
	require.NoError(t, r.Put(ctx, sampleDoc("b", base.Add(time.Second))))
	require.NoError(t, r.Put(ctx, sampleDoc("c", base.Add(-time.Second))))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestList_Empty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	list, err := r.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDelete_IsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, sampleDoc("d1", time.Now())))
	require.NoError(t, r.Delete(ctx, "d1"))
	require.NoError(t, r.Delete(ctx, "d1"))

	_, err := r.Get(ctx, "d1")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestGet_CorruptSentences(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := db.Exec(`INSERT INTO documents (id, title, source_text, direction, sentences, created_at, updated_at)
		VALUES ('x', 't', 's', 'en-zh', '{not json', 0, 0)`)
	require.NoError(t, err)

	_, err = r.Get(context.Background(), "x")
	require.ErrorContains(t, err, "failed to decode sentences of x")
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	require.ErrorContains(t, r.Put(ctx, sampleDoc("d1", time.Now())), "failed to upsert document[d1]")
	_, err := r.Get(ctx, "d1")
	require.ErrorContains(t, err, "failed to get document[d1]")
	require.ErrorContains(t, r.Delete(ctx, "d1"), "failed to delete document[d1]")
	_, err = r.List(ctx)
	require.ErrorContains(t, err, "failed to list documents")
}
