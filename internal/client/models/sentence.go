// Package models defines the reading-aid data model: documents, their
// sentences and the per-word annotations returned by the translator.
package models

import (
	"fmt"

	"github.com/techurbanist/duread/internal/common"
)

// Status is the translation lifecycle of a single sentence.
type Status string

const (
	StatusPending Status = "pending"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

// Word is one annotated token of a translated sentence. Chinese and Pinyin
// hold the target-script form and its tone-marked pronunciation; Breakdown is
// nil for single-character words.
type Word struct {
	Source    string  `json:"source"`
	Chinese   string  `json:"chinese"`
	Pinyin    string  `json:"pinyin"`
	Meaning   string  `json:"meaning"`
	Breakdown *string `json:"breakdown"`
}

// TranslationResult is what the translator returns for one sentence.
type TranslationResult struct {
	Translation string `json:"translation"`
	Pinyin      string `json:"pinyin"`
	Words       []Word `json:"words"`
}

// Sentence is the unit of lazy translation. Translation, Pinyin and Words
// are set only in StatusLoaded; Error only in StatusError.
type Sentence struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Status      Status `json:"status"`
	Translation string `json:"translation,omitempty"`
	Pinyin      string `json:"pinyin,omitempty"`
	Words       []Word `json:"words,omitempty"`
	Error       string `json:"error,omitempty"`
}

// NewSentence returns a pending sentence.
func NewSentence(id, source string) Sentence {
	return Sentence{ID: id, Source: source, Status: StatusPending}
}

func (s *Sentence) transition(from, to Status) error {
	if s.Status != from {
		return fmt.Errorf("%w: %s -> %s (sentence %s)", common.ErrInvalidTransition, s.Status, to, s.ID)
	}
	s.Status = to
	return nil
}

// MarkLoading moves a pending sentence into flight.
func (s *Sentence) MarkLoading() error {
	return s.transition(StatusPending, StatusLoading)
}

// MarkLoaded records a successful translation for an in-flight sentence.
func (s *Sentence) MarkLoaded(r TranslationResult) error {
	if err := s.transition(StatusLoading, StatusLoaded); err != nil {
		return err
	}
	s.Translation = r.Translation
	s.Pinyin = r.Pinyin
	s.Words = cloneWords(r.Words)
	if s.Words == nil {
		s.Words = []Word{}
	}
	s.Error = ""
	return nil
}

// MarkFailed records a terminal failure for an in-flight sentence.
func (s *Sentence) MarkFailed(msg string) error {
	if err := s.transition(StatusLoading, StatusError); err != nil {
		return err
	}
	s.Error = msg
	s.Translation, s.Pinyin, s.Words = "", "", nil
	return nil
}

// Reset returns an interrupted in-flight sentence to pending. It reports
// whether anything changed.
func (s *Sentence) Reset() bool {
	if s.Status != StatusLoading {
		return false
	}
	s.Status = StatusPending
	return true
}

// Clone returns a deep copy, so renderers can hold it without racing the
// scheduler.
func (s Sentence) Clone() Sentence {
	s.Words = cloneWords(s.Words)
	return s
}

func cloneWords(in []Word) []Word {
	if in == nil {
		return nil
	}
	out := make([]Word, len(in))
	for i, w := range in {
		out[i] = w
		if w.Breakdown != nil {
			b := *w.Breakdown
			out[i].Breakdown = &b
		}
	}
	return out
}
