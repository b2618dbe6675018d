// Package scheduler translates the sentences of one document lazily: a
// sentence is queued when it becomes visible and translated in FIFO order,
// with at most one translation in flight.
//
// A Scheduler belongs to a single document activation. Switching documents
// means cancelling the context given to Run and building a new Scheduler;
// outcomes that arrive after that are dropped.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/techurbanist/duread/internal/client/models"
	"github.com/techurbanist/duread/internal/client/translator"
	"github.com/techurbanist/duread/internal/logging"
)

const (
	DefaultTimeout   = 60 * time.Second
	DefaultRetryBase = 500 * time.Millisecond

	persistTimeout = 10 * time.Second
)

// Translator translates one sentence. Credentials are the implementation's
// concern.
type Translator interface {
	Translate(ctx context.Context, source string, direction models.Direction) (*models.TranslationResult, error)
}

type TranslatorFunc func(ctx context.Context, source string, direction models.Direction) (*models.TranslationResult, error)

func (f TranslatorFunc) Translate(ctx context.Context, source string, direction models.Direction) (*models.TranslationResult, error) {
	return f(ctx, source, direction)
}

// Observer is told about every status change, with a private copy of the
// sentence. It is called from the scheduler loop and must not block long.
type Observer interface {
	SentenceChanged(s models.Sentence)
}

type ObserverFunc func(s models.Sentence)

func (f ObserverFunc) SentenceChanged(s models.Sentence) { f(s) }

// Saver stores a whole document and returns it as stored, with the ID and
// timestamps the store assigned.
type Saver interface {
	SaveDocument(ctx context.Context, doc models.Document) (models.Document, error)
}

type Option func(*Scheduler)

func WithObserver(o Observer) Option { return func(s *Scheduler) { s.observer = o } }

func WithSaver(sv Saver) Option { return func(s *Scheduler) { s.saver = sv } }

func WithLogger(l logging.Logger) Option { return func(s *Scheduler) { s.logger = l } }

// WithTimeout bounds each translation attempt. Zero disables the bound.
func WithTimeout(d time.Duration) Option { return func(s *Scheduler) { s.timeout = d } }

// WithRetry retries transient failures up to max extra attempts with
// exponential backoff starting at base. The sentence stays loading meanwhile.
func WithRetry(max uint64, base time.Duration) Option {
	return func(s *Scheduler) {
		s.maxRetries = max
		if base > 0 {
			s.retryBase = base
		}
	}
}

type outcome struct {
	id     string
	result *models.TranslationResult
	err    error
}

type Scheduler struct {
	translator Translator
	observer   Observer
	saver      Saver
	logger     logging.Logger
	timeout    time.Duration
	maxRetries uint64
	retryBase  time.Duration

	mu       sync.Mutex
	doc      models.Document
	index    map[string]int
	queue    []string
	queued   map[string]struct{}
	busy     bool
	inflight string

	persistMu sync.Mutex
	wake      chan struct{}
}

// New takes ownership of a deep copy of doc.
func New(doc models.Document, t Translator, opts ...Option) *Scheduler {
	s := &Scheduler{
		translator: t,
		observer:   ObserverFunc(func(models.Sentence) {}),
		logger:     logging.NewNopLogger(),
		timeout:    DefaultTimeout,
		retryBase:  DefaultRetryBase,
		doc:        doc.Clone(),
		queued:     make(map[string]struct{}),
		wake:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.index = make(map[string]int, len(s.doc.Sentences))
	for i, sent := range s.doc.Sentences {
		s.index[sent.ID] = i
	}
	return s
}

// Notify queues a visible sentence. Only pending sentences of this document
// are queued, and only once; the result reports whether id was queued.
func (s *Scheduler) Notify(id string) bool {
	s.mu.Lock()
	idx, ok := s.index[id]
	if !ok || s.doc.Sentences[idx].Status != models.StatusPending {
		s.mu.Unlock()
		return false
	}
	if _, dup := s.queued[id]; dup {
		s.mu.Unlock()
		return false
	}
	s.queue = append(s.queue, id)
	s.queued[id] = struct{}{}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return true
}

// Run drives the queue until ctx is cancelled. Visibility events may come
// through visible (nil is fine) or through Notify.
func (s *Scheduler) Run(ctx context.Context, visible <-chan string) error {
	results := make(chan outcome, 1)
	for {
		s.dispatch(ctx, results)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case id, ok := <-visible:
			if !ok {
				visible = nil
				continue
			}
			s.Notify(id)
		case <-s.wake:
		case out := <-results:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.complete(ctx, out)
		}
	}
}

// dispatch starts the next translation unless one is already in flight.
// Queued entries that are no longer pending are dropped without a call.
func (s *Scheduler) dispatch(ctx context.Context, results chan<- outcome) {
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return
	}

	for len(s.queue) > 0 {
		id := s.queue[0]
		s.queue = s.queue[1:]
		delete(s.queued, id)

		idx, ok := s.index[id]
		if !ok {
			continue
		}
		sent := &s.doc.Sentences[idx]
		if err := sent.MarkLoading(); err != nil {
			continue
		}

		s.busy = true
		s.inflight = id
		source, direction := sent.Source, s.doc.Direction
		snapshot := sent.Clone()
		s.mu.Unlock()

		s.logger.Debug(ctx, "translating sentence", "sentence", id)
		s.observer.SentenceChanged(snapshot)

		go func() {
			res, err := s.translate(ctx, source, direction)
			results <- outcome{id: id, result: res, err: err}
		}()
		return
	}
	s.mu.Unlock()
}

func (s *Scheduler) translate(ctx context.Context, source string, direction models.Direction) (*models.TranslationResult, error) {
	attempt := func(ctx context.Context) (*models.TranslationResult, error) {
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		return s.translator.Translate(ctx, source, direction)
	}

	if s.maxRetries == 0 {
		return attempt(ctx)
	}

	var res *models.TranslationResult
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(s.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		r, err := attempt(ctx)
		if err != nil {
			if ctx.Err() == nil && translator.IsTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		res = r
		return nil
	})
	return res, err
}

// complete applies an outcome for the in-flight sentence, saves the
// document and frees the slot for the next dispatch.
func (s *Scheduler) complete(ctx context.Context, out outcome) {
	s.mu.Lock()
	idx, ok := s.index[out.id]
	if !ok || !s.busy || s.inflight != out.id {
		s.mu.Unlock()
		s.logger.Warn(ctx, "dropping translation outcome", "sentence", out.id)
		return
	}

	sent := &s.doc.Sentences[idx]
	var err error
	if out.err != nil {
		err = sent.MarkFailed(translator.Describe(out.err))
	} else {
		err = sent.MarkLoaded(*out.result)
	}
	snapshot := sent.Clone()
	s.mu.Unlock()

	if err != nil {
		s.logger.Error(ctx, "unexpected sentence state", "sentence", out.id, "error", err)
	} else if out.err != nil {
		s.logger.Warn(ctx, "sentence translation failed", "sentence", out.id, "error", out.err)
	} else {
		s.logger.Debug(ctx, "sentence translated", "sentence", out.id)
	}
	s.observer.SentenceChanged(snapshot)

	// saved even when ctx is already cancelled
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	if err := s.Persist(saveCtx); err != nil {
		s.logger.Warn(ctx, "auto-save failed", "error", err)
	}
	cancel()

	s.mu.Lock()
	s.busy = false
	s.inflight = ""
	s.mu.Unlock()
}

// Persist saves the current document through the Saver and adopts the
// stored identity. Saves are serialised, so the store sees them in order.
func (s *Scheduler) Persist(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	stored, err := s.saver.SaveDocument(ctx, s.Snapshot())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.doc.ID = stored.ID
	s.doc.CreatedAt = stored.CreatedAt
	s.doc.UpdatedAt = stored.UpdatedAt
	s.mu.Unlock()
	return nil
}

// Snapshot returns a deep copy of the document.
func (s *Scheduler) Snapshot() models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Stats describes the queue at this instant.
type Stats struct {
	Queued   int
	InFlight string
}

func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Queued: len(s.queue), InFlight: s.inflight}
}
