// Package segment turns raw text into sentences and guesses its language.
// Everything here is pure: no I/O, no clocks, no randomness.
package segment

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/techurbanist/duread/internal/client/models"
)

const terminators = `.!?。！？；`

var (
	whitespace = regexp.MustCompile(`\s+`)

	// A sentence runs up to a run of terminators plus trailing spaces; a tail
	// without terminal punctuation is a sentence of its own.
	sentencePattern = regexp.MustCompile(`[^` + terminators + `]*[` + terminators + `]+\s*|[^` + terminators + `]+`)
)

// Normalize collapses every whitespace run to one space and trims the ends.
func Normalize(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// Split segments text into pending sentences in document order. Ids are
// "<idPrefix>-<index>", unique within the result; an empty prefix means
// "sentence". Text with nothing but whitespace yields an empty slice.
func Split(text, idPrefix string) []models.Sentence {
	if idPrefix == "" {
		idPrefix = "sentence"
	}

	normalized := Normalize(text)
	if normalized == "" {
		return []models.Sentence{}
	}

	matches := sentencePattern.FindAllString(normalized, -1)
	out := make([]models.Sentence, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		out = append(out, models.NewSentence(fmt.Sprintf("%s-%d", idPrefix, len(out)), m))
	}
	return out
}

// Language is a coarse source-language guess.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageChinese Language = "zh"
)

// DetectLanguage reports Chinese when CJK unified ideographs make up more
// than 30% of the non-whitespace runes.
func DetectLanguage(text string) Language {
	var han, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if r >= 0x4E00 && r <= 0x9FFF {
			han++
		}
	}
	if total > 0 && float64(han) > float64(total)*0.3 {
		return LanguageChinese
	}
	return LanguageEnglish
}

// AutoDirection returns the direction whose source language matches text.
// The second result reports whether that differs from current.
func AutoDirection(current models.Direction, text string) (models.Direction, bool) {
	want := models.DirectionEnZh
	if DetectLanguage(text) == LanguageChinese {
		want = models.DirectionZhEn
	}
	return want, want != current
}

const (
	titleMaxRunes = 50
	titleMinCutAt = 20
	titleEllipsis = "..."
)

// Title derives a library title: the first 50 runes of text, cut back to the
// last space when that space lies beyond rune 20, with "..." appended when
// anything was dropped.
func Title(text string) string {
	runes := []rune(text)
	if len(runes) <= titleMaxRunes {
		return strings.TrimSpace(text)
	}

	head := runes[:titleMaxRunes]
	if i := lastSpace(head); i > titleMinCutAt {
		head = head[:i]
	}
	return string(head) + titleEllipsis
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == ' ' {
			return i
		}
	}
	return -1
}
