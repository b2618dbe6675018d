package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/techurbanist/duread/internal/client/models"
	"github.com/techurbanist/duread/internal/client/services"
)

var getMultiline = GetMultiline

// Read takes a pasted text and starts reading it.
func (a *App) Read(ctx context.Context) error {
	text, err := getMultiline(a.reader, "Paste the text to read", a.out)
	if err != nil {
		return err
	}
	doc, err := a.docs.Submit(ctx, text)
	if err != nil {
		return err
	}
	return a.start(ctx, doc)
}

// Open reads the article behind url, or the url itself if it cannot be
// fetched.
func (a *App) Open(ctx context.Context, url string) error {
	printlnFn("Fetching article from:", url)
	doc, err := a.docs.SubmitShared(ctx, services.SharedContent{URL: url})
	if err != nil {
		return err
	}
	return a.start(ctx, doc)
}

func (a *App) start(ctx context.Context, doc models.Document) error {
	printlnFn(fmt.Sprintf("%d sentences, %s", len(doc.Sentences), doc.Direction))
	a.view.reset()
	return a.View(ctx)
}

// SetDirection toggles the direction, or sets it when arg names one.
func (a *App) SetDirection(ctx context.Context, arg string) error {
	d := a.docs.Direction().Toggle()
	if arg != "" {
		var err error
		if d, err = models.ParseDirection(arg); err != nil {
			return err
		}
	}
	if err := a.docs.SetDirection(ctx, d); err != nil {
		return err
	}
	printlnFn("Direction:", d)
	if doc, ok := a.docs.Current(); ok && doc.Direction != d {
		printlnFn("The open text keeps", doc.Direction, "- it applies to the next one")
	}
	return nil
}

// View prints the sentences in the viewport and reports the visible range,
// margin included, to the document service.
func (a *App) View(ctx context.Context) error {
	doc, ok := a.docs.Current()
	if !ok {
		printlnFn("No text open. Use 'read', 'open <url>' or 'library'.")
		return nil
	}
	total := len(doc.Sentences)

	vs, ve := a.view.visible(total)
	ids := make([]string, 0, ve-vs)
	for _, s := range doc.Sentences[vs:ve] {
		ids = append(ids, s.ID)
	}
	a.docs.MarkVisible(ids...)

	start, end := a.view.window(total)
	loaded, _ := doc.Progress()
	printlnFn(fmt.Sprintf("%s  [%d-%d of %d, %d translated]", doc.Title, start+1, end, total, loaded))
	for i := start; i < end; i++ {
		printlnFn(formatSentence(i+1, doc.Sentences[i]))
	}
	return nil
}

func (a *App) scroll(ctx context.Context, move func(total int) bool) error {
	doc, ok := a.docs.Current()
	if !ok {
		return a.View(ctx)
	}
	if !move(len(doc.Sentences)) {
		printlnFn("No more sentences that way")
		return nil
	}
	return a.View(ctx)
}

func (a *App) Next(ctx context.Context) error { return a.scroll(ctx, a.view.next) }

func (a *App) Prev(ctx context.Context) error { return a.scroll(ctx, a.view.prev) }

func (a *App) Top(ctx context.Context) error {
	a.view.reset()
	return a.View(ctx)
}

// Show jumps to the one-based sentence n.
func (a *App) Show(ctx context.Context, arg string) error {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return fmt.Errorf("not a sentence number: %q", arg)
	}
	doc, ok := a.docs.Current()
	if !ok {
		return a.View(ctx)
	}
	if n > len(doc.Sentences) {
		return fmt.Errorf("the text has %d sentences", len(doc.Sentences))
	}
	a.view.jump(n-1, len(doc.Sentences))
	return a.View(ctx)
}

func (a *App) New(ctx context.Context) error {
	a.docs.New()
	a.view.reset()
	printlnFn("Ready for a new text. Use 'read' or 'open <url>'.")
	return nil
}
