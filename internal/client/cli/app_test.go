package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techurbanist/duread/internal/client/config"
	"github.com/techurbanist/duread/internal/client/models"
	"github.com/techurbanist/duread/internal/client/services"
	"github.com/techurbanist/duread/internal/common"
)

// ------------ fakes ------------

type fakeCreds struct {
	saveKey  string
	savePass string
	saveErr  error

	unlockPass string
	unlockErr  error

	forgot bool
	status services.CredentialStatus
	key    string
}

func (f *fakeCreds) Save(ctx context.Context, apiKey string, passphrase []byte) error {
	f.saveKey, f.savePass = apiKey, string(passphrase)
	return f.saveErr
}
func (f *fakeCreds) Unlock(ctx context.Context, passphrase []byte) error {
	f.unlockPass = string(passphrase)
	return f.unlockErr
}
func (f *fakeCreds) Restore() bool                    { return f.key != "" }
func (f *fakeCreds) Forget(ctx context.Context) error { f.forgot = true; return nil }
func (f *fakeCreds) Status(ctx context.Context) (services.CredentialStatus, error) {
	return f.status, nil
}
func (f *fakeCreds) APIKey() (string, bool) { return f.key, f.key != "" }

type fakeDocs struct {
	current   *models.Document
	direction models.Direction
	list      []models.Document
	visible   [][]string

	submitted string
	shared    services.SharedContent
	loaded    string
	deleted   string
	newCalled bool
	err       error
}

func (f *fakeDocs) Submit(ctx context.Context, text string) (models.Document, error) {
	f.submitted = text
	if f.err != nil {
		return models.Document{}, f.err
	}
	d := document(3)
	f.current = &d
	return d, nil
}
func (f *fakeDocs) SubmitShared(ctx context.Context, c services.SharedContent) (models.Document, error) {
	f.shared = c
	return f.Submit(ctx, c.URL)
}
func (f *fakeDocs) Load(ctx context.Context, id string) (models.Document, error) {
	f.loaded = id
	if f.err != nil {
		return models.Document{}, f.err
	}
	d := document(2)
	d.ID = id
	f.current = &d
	return d, nil
}
func (f *fakeDocs) New() { f.newCalled = true; f.current = nil }
func (f *fakeDocs) Delete(ctx context.Context, id string) error {
	f.deleted = id
	return f.err
}
func (f *fakeDocs) List(ctx context.Context) ([]models.Document, error) { return f.list, f.err }
func (f *fakeDocs) Current() (models.Document, bool) {
	if f.current == nil {
		return models.Document{}, false
	}
	return *f.current, true
}
func (f *fakeDocs) Direction() models.Direction { return f.direction }
func (f *fakeDocs) SetDirection(ctx context.Context, d models.Direction) error {
	f.direction = d
	return f.err
}
func (f *fakeDocs) MarkVisible(ids ...string) { f.visible = append(f.visible, ids) }
func (f *fakeDocs) Close() error              { return nil }

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func document(n int) models.Document {
	d := models.Document{ID: "doc", Title: "Title", Direction: models.DirectionEnZh}
	for i := 0; i < n; i++ {
		d.Sentences = append(d.Sentences, models.NewSentence(fmt.Sprintf("s-%d", i), fmt.Sprintf("Sentence %d.", i)))
	}
	return d
}

func newTestApp(creds *fakeCreds, docs *fakeDocs, r *bufio.Reader) *App {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ViewportSize = 2
	cfg.PrefetchMargin = 1
	a := NewApp(cfg, creds, docs)
	a.reader = r
	a.out = &bytes.Buffer{}
	a.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return a
}

func stubPasswords(t *testing.T, secrets ...string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if len(secrets) == 0 {
			return nil, errors.New("no more input")
		}
		s := secrets[0]
		secrets = secrets[1:]
		return []byte(s), nil
	}
	t.Cleanup(func() { getPassword = orig })
}

// ------------ tests ------------

func TestSaveKey_PassesKeyAndPassphrase(t *testing.T) {
	out := captureOutput(t)
	stubPasswords(t, "sk-ant-1", "hunter22")
	creds := &fakeCreds{}
	a := newTestApp(creds, &fakeDocs{}, readerFromLines())

	require.NoError(t, a.SaveKey(context.Background()))
	assert.Equal(t, "sk-ant-1", creds.saveKey)
	assert.Equal(t, "hunter22", creds.savePass)
	assert.Contains(t, *out, "API key saved successfully")
}

func TestSaveKey_Errors(t *testing.T) {
	captureOutput(t)

	stubPasswords(t)
	a := newTestApp(&fakeCreds{}, &fakeDocs{}, readerFromLines())
	require.Error(t, a.SaveKey(context.Background()))

	stubPasswords(t, "sk", "short")
	a = newTestApp(&fakeCreds{saveErr: common.ErrPassphraseTooShort}, &fakeDocs{}, readerFromLines())
	require.ErrorIs(t, a.SaveKey(context.Background()), common.ErrPassphraseTooShort)
}

func TestUnlock(t *testing.T) {
	out := captureOutput(t)
	stubPasswords(t, "passphrase", "wrong")

	creds := &fakeCreds{}
	a := newTestApp(creds, &fakeDocs{}, readerFromLines())
	require.NoError(t, a.Unlock(context.Background()))
	assert.Equal(t, "passphrase", creds.unlockPass)
	assert.Contains(t, *out, "Session unlocked")

	creds.unlockErr = common.ErrInvalidPassphrase
	require.ErrorIs(t, a.Unlock(context.Background()), common.ErrInvalidPassphrase)
}

func TestForget_AsksFirst(t *testing.T) {
	captureOutput(t)

	creds := &fakeCreds{}
	a := newTestApp(creds, &fakeDocs{}, readerFromLines("n"))
	require.NoError(t, a.Forget(context.Background()))
	assert.False(t, creds.forgot)

	a = newTestApp(creds, &fakeDocs{}, readerFromLines("y"))
	require.NoError(t, a.Forget(context.Background()))
	assert.True(t, creds.forgot)
}

func TestStatus(t *testing.T) {
	out := captureOutput(t)
	docs := &fakeDocs{direction: models.DirectionZhEn}
	a := newTestApp(&fakeCreds{status: services.CredentialLocked}, docs, readerFromLines())

	require.NoError(t, a.Status(context.Background()))
	assert.Contains(t, *out, "API key configured (locked)")
	assert.Contains(t, *out, "No text open")

	d := document(4)
	d.Sentences[0].Status = models.StatusLoaded
	docs.current = &d
	require.NoError(t, a.Status(context.Background()))
	assert.Contains(t, *out, "Reading: Title (1/4 translated)")
}

func TestRead_SubmitsAndViews(t *testing.T) {
	out := captureOutput(t)
	docs := &fakeDocs{}
	a := newTestApp(&fakeCreds{key: "sk"}, docs, readerFromLines("First line.", "Second line.", ""))

	require.NoError(t, a.Read(context.Background()))
	assert.Equal(t, "First line.\nSecond line.", docs.submitted)

	require.Len(t, docs.visible, 1)
	assert.Equal(t, []string{"s-0", "s-1", "s-2"}, docs.visible[0], "window of 2 plus a margin of 1")
	assert.Contains(t, *out, "Title  [1-2 of 3, 0 translated]")
	assert.Contains(t, *out, "[1] Sentence 0.\n    ·\n")
}

func TestRead_Error(t *testing.T) {
	captureOutput(t)
	docs := &fakeDocs{err: common.ErrCredentialMissing}
	a := newTestApp(&fakeCreds{}, docs, readerFromLines("Text.", ""))

	require.ErrorIs(t, a.Read(context.Background()), common.ErrCredentialMissing)
	assert.Empty(t, docs.visible)
}

func TestOpen_SharesURL(t *testing.T) {
	captureOutput(t)
	docs := &fakeDocs{}
	a := newTestApp(&fakeCreds{key: "sk"}, docs, readerFromLines())

	require.NoError(t, a.Open(context.Background(), "https://example.com/a"))
	assert.Equal(t, services.SharedContent{URL: "https://example.com/a"}, docs.shared)
}

func TestNavigation(t *testing.T) {
	out := captureOutput(t)
	d := document(5)
	docs := &fakeDocs{current: &d}
	a := newTestApp(&fakeCreds{}, docs, readerFromLines())
	ctx := context.Background()

	require.NoError(t, a.View(ctx))
	require.NoError(t, a.Next(ctx))
	assert.Equal(t, []string{"s-1", "s-2", "s-3", "s-4"}, docs.visible[1])

	require.NoError(t, a.Next(ctx))
	require.NoError(t, a.Next(ctx))
	assert.Contains(t, *out, "No more sentences that way")

	require.NoError(t, a.Top(ctx))
	assert.Equal(t, []string{"s-0", "s-1", "s-2"}, docs.visible[len(docs.visible)-1])

	require.NoError(t, a.Show(ctx, "4"))
	assert.Contains(t, *out, "Title  [4-5 of 5, 0 translated]")

	require.Error(t, a.Show(ctx, "zero"))
	require.Error(t, a.Show(ctx, "9"))
}

func TestView_WithoutDocument(t *testing.T) {
	out := captureOutput(t)
	docs := &fakeDocs{}
	a := newTestApp(&fakeCreds{}, docs, readerFromLines())

	require.NoError(t, a.View(context.Background()))
	require.NoError(t, a.Next(context.Background()))
	assert.Empty(t, docs.visible)
	assert.Contains(t, *out, "No text open. Use 'read', 'open <url>' or 'library'.")
}

func TestSetDirection(t *testing.T) {
	out := captureOutput(t)
	d := document(1)
	docs := &fakeDocs{direction: models.DirectionEnZh, current: &d}
	a := newTestApp(&fakeCreds{}, docs, readerFromLines())
	ctx := context.Background()

	require.NoError(t, a.SetDirection(ctx, ""))
	assert.Equal(t, models.DirectionZhEn, docs.direction)
	assert.Contains(t, strings.Join(*out, "\n"), "it applies to the next one")

	require.NoError(t, a.SetDirection(ctx, "en-zh"))
	assert.Equal(t, models.DirectionEnZh, docs.direction)

	require.ErrorIs(t, a.SetDirection(ctx, "xx"), common.ErrInvalidDirection)
}

func TestLibrary_LoadAndDeleteByNumber(t *testing.T) {
	out := captureOutput(t)

	older := document(2)
	older.ID, older.Title = "old-id", "Older text"
	older.UpdatedAt = time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	newer := document(2)
	newer.ID, newer.Title = "new-id", "Newer text"
	newer.Sentences[0].Status = models.StatusLoaded
	newer.UpdatedAt = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	docs := &fakeDocs{list: []models.Document{newer, older}}
	a := newTestApp(&fakeCreds{}, docs, readerFromLines("y"))
	ctx := context.Background()

	require.NoError(t, a.Library(ctx))
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "  1. Newer text")
	assert.Contains(t, joined, "1/2 translated · Today")
	assert.Contains(t, joined, "  2. Older text")
	assert.Contains(t, joined, "Yesterday")

	require.NoError(t, a.Load(ctx, "2"))
	assert.Equal(t, "old-id", docs.loaded)
	assert.Contains(t, *out, "Text loaded")

	require.NoError(t, a.Delete(ctx, "1"))
	assert.Equal(t, "new-id", docs.deleted)
	assert.Equal(t, []string{"old-id"}, a.library)

	require.NoError(t, a.Load(ctx, "raw-id"))
	assert.Equal(t, "raw-id", docs.loaded)
}

func TestLibrary_Empty(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(&fakeCreds{}, &fakeDocs{}, readerFromLines())

	require.NoError(t, a.Library(context.Background()))
	assert.Contains(t, *out, "No saved texts yet")
}

func TestDelete_Declined(t *testing.T) {
	captureOutput(t)
	docs := &fakeDocs{}
	a := newTestApp(&fakeCreds{}, docs, readerFromLines("no"))

	require.NoError(t, a.Delete(context.Background(), "x"))
	assert.Empty(t, docs.deleted)
}

func TestNew(t *testing.T) {
	captureOutput(t)
	d := document(1)
	docs := &fakeDocs{current: &d}
	a := newTestApp(&fakeCreds{}, docs, readerFromLines())

	require.NoError(t, a.New(context.Background()))
	assert.True(t, docs.newCalled)
	_, ok := docs.Current()
	assert.False(t, ok)
}

func TestRun_RestoresSessionAndExits(t *testing.T) {
	out := captureOutput(t)
	a := newTestApp(&fakeCreds{key: "sk"}, &fakeDocs{direction: models.DirectionEnZh}, readerFromLines("exit"))

	a.Run(context.Background())
	assert.Contains(t, *out, "Session restored")
	assert.Contains(t, *out, "duread (en-zh, unlocked)> ")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}
