package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/techurbanist/duread/internal/client/models"
)

// Renderer prints sentences as their translations land. It implements
// scheduler.Observer.
type Renderer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) SentenceChanged(s models.Sentence) {
	if s.Status != models.StatusLoaded && s.Status != models.StatusError {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, formatSentence(sentenceNumber(s.ID), s))
}

// sentenceNumber is the one-based position encoded in a sentence id, or 0.
func sentenceNumber(id string) int {
	i := strings.LastIndexByte(id, '-')
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return 0
	}
	return n + 1
}

func formatSentence(n int, s models.Sentence) string {
	var b strings.Builder
	if n > 0 {
		fmt.Fprintf(&b, "[%d] ", n)
	}
	b.WriteString(s.Source)
	b.WriteByte('\n')

	switch s.Status {
	case models.StatusPending:
		b.WriteString("    ·\n")
	case models.StatusLoading:
		b.WriteString("    translating...\n")
	case models.StatusError:
		fmt.Fprintf(&b, "    ✗ %s\n", s.Error)
	case models.StatusLoaded:
		fmt.Fprintf(&b, "    %s\n", s.Translation)
		if s.Pinyin != "" {
			fmt.Fprintf(&b, "    %s\n", s.Pinyin)
		}
		b.WriteString(formatWords(s.Words))
	}
	return b.String()
}

func formatWords(words []models.Word) string {
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, w := range words {
		line := fmt.Sprintf("      %s\t%s\t%s\t%s", w.Chinese, w.Pinyin, w.Meaning, w.Source)
		if w.Breakdown != nil && *w.Breakdown != "" {
			line += "\t" + *w.Breakdown
		}
		fmt.Fprintln(tw, line)
	}
	_ = tw.Flush()
	return b.String()
}
