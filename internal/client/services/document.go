package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/techurbanist/duread/internal/client/extract"
	"github.com/techurbanist/duread/internal/client/models"
	"github.com/techurbanist/duread/internal/client/scheduler"
	"github.com/techurbanist/duread/internal/client/segment"
	"github.com/techurbanist/duread/internal/client/translator"
	"github.com/techurbanist/duread/internal/common"
	"github.com/techurbanist/duread/internal/logging"
)

const visibleBuffer = 64

// DocumentStore is the part of the document store the controller needs.
type DocumentStore interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
	PutDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context) ([]models.Document, error)
}

// Fetcher retrieves the readable text of a web page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// SharedContent is what another application hands over for reading.
type SharedContent struct {
	Title string
	Text  string
	URL   string
}

// DocumentService owns the active document and its translation scheduler.
//
// At most one document is active. Submitting, loading, starting a new
// document or deleting the active one cancels the previous scheduler and
// waits for its loop to exit before anything else happens, so a stale
// translation can never land in the next document.
type DocumentService interface {
	Submit(ctx context.Context, text string) (models.Document, error)
	SubmitShared(ctx context.Context, content SharedContent) (models.Document, error)
	Load(ctx context.Context, id string) (models.Document, error)
	New()
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Document, error)
	Current() (models.Document, bool)
	Direction() models.Direction
	SetDirection(ctx context.Context, d models.Direction) error
	MarkVisible(ids ...string)
	Close() error
}

type DocumentOption func(*documentService)

func WithObserver(o scheduler.Observer) DocumentOption {
	return func(s *documentService) { s.observer = o }
}

func WithFetcher(f Fetcher) DocumentOption {
	return func(s *documentService) { s.fetcher = f }
}

func WithLogger(l logging.Logger) DocumentOption {
	return func(s *documentService) { s.logger = l }
}

// WithSchedulerOptions passes timeout and retry settings to every scheduler.
func WithSchedulerOptions(opts ...scheduler.Option) DocumentOption {
	return func(s *documentService) { s.schedOpts = append(s.schedOpts, opts...) }
}

func withClock(now func() time.Time) DocumentOption {
	return func(s *documentService) { s.now = now }
}

// activation is one running scheduler.
type activation struct {
	sched   *scheduler.Scheduler
	visible chan string
	cancel  context.CancelFunc
	done    chan struct{}
}

type documentService struct {
	store     DocumentStore
	creds     CredentialService
	client    translator.Translator
	fetcher   Fetcher
	observer  scheduler.Observer
	logger    logging.Logger
	schedOpts []scheduler.Option
	now       func() time.Time

	// switchMu serialises activations; mu guards the fields below it.
	switchMu  sync.Mutex
	mu        sync.Mutex
	active    *activation
	direction models.Direction
}

// NewDocumentService builds the controller and restores the remembered
// translation direction. A store failure there only costs the preference.
func NewDocumentService(ctx context.Context, store DocumentStore, creds CredentialService, client translator.Translator, opts ...DocumentOption) DocumentService {
	s := &documentService{
		store:     store,
		creds:     creds,
		client:    client,
		observer:  scheduler.ObserverFunc(func(models.Sentence) {}),
		logger:    logging.NewNopLogger(),
		now:       time.Now,
		direction: models.DirectionEnZh,
	}
	for _, opt := range opts {
		opt(s)
	}

	v, ok, err := store.GetSetting(ctx, common.DirectionSetting)
	switch {
	case err != nil:
		s.logger.Warn(ctx, "failed to read direction preference", "error", err)
	case ok:
		if d, err := models.ParseDirection(v); err == nil {
			s.direction = d
		}
	}
	return s
}

// Translate implements scheduler.Translator by attaching the unlocked key.
func (s *documentService) Translate(ctx context.Context, source string, direction models.Direction) (*models.TranslationResult, error) {
	key, ok := s.creds.APIKey()
	if !ok {
		return nil, common.ErrCredentialMissing
	}
	return s.client.Translate(ctx, key, source, direction)
}

// SaveDocument implements scheduler.Saver. The first save assigns the id.
func (s *documentService) SaveDocument(ctx context.Context, doc models.Document) (models.Document, error) {
	now := time.UnixMilli(s.now().UnixMilli())
	if doc.ID == "" {
		doc.ID = uuid.NewString()
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if err := s.store.PutDocument(ctx, &doc); err != nil {
		return models.Document{}, fmt.Errorf("failed to save document: %w", err)
	}
	return doc, nil
}

func (s *documentService) requireKey(ctx context.Context) error {
	if _, ok := s.creds.APIKey(); ok {
		return nil
	}
	status, err := s.creds.Status(ctx)
	if err != nil {
		return err
	}
	if status == CredentialLocked {
		return fmt.Errorf("%w: unlock the stored key first", common.ErrCredentialMissing)
	}
	return fmt.Errorf("%w: configure a key first", common.ErrCredentialMissing)
}

func (s *documentService) Submit(ctx context.Context, text string) (models.Document, error) {
	if strings.TrimSpace(text) == "" {
		return models.Document{}, common.ErrSegmentationEmpty
	}
	if err := s.requireKey(ctx); err != nil {
		return models.Document{}, err
	}

	direction := s.Direction()
	if d, changed := segment.AutoDirection(direction, text); changed {
		s.logger.Info(ctx, "direction switched to match the text", "direction", d)
		direction = d
		s.rememberDirection(ctx, d)
	}

	prefix := "sentence-" + strconv.FormatInt(s.now().UnixMilli(), 10)
	sentences := segment.Split(text, prefix)
	if len(sentences) == 0 {
		return models.Document{}, common.ErrSegmentationEmpty
	}

	doc := models.Document{
		Title:      segment.Title(text),
		SourceText: text,
		Direction:  direction,
		Sentences:  sentences,
	}

	a := s.activate(doc)
	if err := a.sched.Persist(ctx); err != nil {
		s.logger.Warn(ctx, "failed to save new document", "error", err)
	}
	doc = a.sched.Snapshot()
	s.logger.Info(ctx, "document submitted", "id", doc.ID, "sentences", len(doc.Sentences), "direction", doc.Direction)
	return doc, nil
}

// SubmitShared reads shared content. A URL is fetched and its article text
// read instead; if fetching fails the shared text itself is read.
func (s *documentService) SubmitShared(ctx context.Context, content SharedContent) (models.Document, error) {
	var b strings.Builder
	if content.Title != "" {
		b.WriteString(content.Title + "\n\n")
	}
	b.WriteString(content.Text)
	if content.URL != "" && !strings.Contains(b.String(), content.URL) {
		b.WriteString("\n" + content.URL)
	}
	shared := strings.TrimSpace(b.String())
	if shared == "" {
		return models.Document{}, common.ErrSegmentationEmpty
	}
	if err := s.requireKey(ctx); err != nil {
		return models.Document{}, err
	}

	url := content.URL
	if url == "" {
		url = extract.FindURL(shared)
	}
	if url == "" || s.fetcher == nil {
		return s.Submit(ctx, shared)
	}

	article, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Warn(ctx, "could not fetch article, reading shared text", "url", url, "error", err)
		return s.Submit(ctx, shared)
	}

	title := content.Title
	if title == "" {
		title = "Article"
	}
	return s.Submit(ctx, title+"\n\n"+article)
}

func (s *documentService) Load(ctx context.Context, id string) (models.Document, error) {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to load document[%s]: %w", id, err)
	}

	if n := doc.ResetInterrupted(); n > 0 {
		s.logger.Info(ctx, "reset interrupted sentences", "id", id, "count", n)
	}

	s.mu.Lock()
	s.direction = doc.Direction
	s.mu.Unlock()

	a := s.activate(*doc)
	return a.sched.Snapshot(), nil
}

func (s *documentService) New() {
	s.switchMu.Lock()
	defer s.switchMu.Unlock()
	s.deactivate()
}

// Delete removes a stored document. Deleting the active one also clears it;
// its scheduler is stopped first so no auto-save can bring the row back.
func (s *documentService) Delete(ctx context.Context, id string) error {
	s.switchMu.Lock()
	defer s.switchMu.Unlock()

	s.mu.Lock()
	current := s.active != nil && s.active.sched.Snapshot().ID == id
	s.mu.Unlock()
	if current {
		s.deactivate()
	}

	if err := s.store.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document[%s]: %w", id, err)
	}
	return nil
}

func (s *documentService) List(ctx context.Context) ([]models.Document, error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) Current() (models.Document, bool) {
	s.mu.Lock()
	a := s.active
	s.mu.Unlock()
	if a == nil {
		return models.Document{}, false
	}
	return a.sched.Snapshot(), true
}

func (s *documentService) Direction() models.Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.direction
}

// SetDirection changes the direction used for the next submission and
// remembers it. The active document keeps its own direction.
func (s *documentService) SetDirection(ctx context.Context, d models.Direction) error {
	d, err := models.ParseDirection(string(d))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.direction = d
	s.mu.Unlock()

	if err := s.store.SetSetting(ctx, common.DirectionSetting, string(d)); err != nil {
		return fmt.Errorf("failed to save direction: %w", err)
	}
	return nil
}

func (s *documentService) rememberDirection(ctx context.Context, d models.Direction) {
	s.mu.Lock()
	s.direction = d
	s.mu.Unlock()
	if err := s.store.SetSetting(ctx, common.DirectionSetting, string(d)); err != nil {
		s.logger.Warn(ctx, "failed to save direction", "error", err)
	}
}

// MarkVisible reports sentences of the active document that came into view.
func (s *documentService) MarkVisible(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return
	}
	for _, id := range ids {
		select {
		case s.active.visible <- id:
		default:
			s.active.sched.Notify(id)
		}
	}
}

func (s *documentService) Close() error {
	s.switchMu.Lock()
	defer s.switchMu.Unlock()
	s.deactivate()
	return nil
}

func (s *documentService) activate(doc models.Document) *activation {
	s.switchMu.Lock()
	defer s.switchMu.Unlock()
	s.deactivate()

	opts := append([]scheduler.Option{
		scheduler.WithObserver(s.observer),
		scheduler.WithSaver(s),
		scheduler.WithLogger(s.logger),
	}, s.schedOpts...)

	ctx, cancel := context.WithCancel(context.Background())
	a := &activation{
		sched:   scheduler.New(doc, s, opts...),
		visible: make(chan string, visibleBuffer),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(a.done)
		if err := a.sched.Run(ctx, a.visible); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error(ctx, "scheduler stopped", "error", err)
		}
	}()

	s.mu.Lock()
	s.active = a
	s.mu.Unlock()
	return a
}

// deactivate stops the active scheduler and waits for its loop. The caller
// holds switchMu.
func (s *documentService) deactivate() {
	s.mu.Lock()
	a := s.active
	s.active = nil
	s.mu.Unlock()
	if a == nil {
		return
	}
	a.cancel()
	<-a.done
}
