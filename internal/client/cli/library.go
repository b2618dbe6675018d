package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/techurbanist/duread/internal/timex"
)

// Library lists the saved texts, newest first, and remembers their order
// so load and delete can take a number.
func (a *App) Library(ctx context.Context) error {
	docs, err := a.docs.List(ctx)
	if err != nil {
		return err
	}

	a.library = a.library[:0]
	if len(docs) == 0 {
		printlnFn("No saved texts yet")
		return nil
	}

	now := a.now()
	for i, d := range docs {
		a.library = append(a.library, d.ID)
		loaded, total := d.Progress()
		printlnFn(fmt.Sprintf("%3d. %s\n     %s · %d/%d translated · %s",
			i+1, d.Title, d.Direction, loaded, total, timex.Relative(d.UpdatedAt, now)))
	}
	return nil
}

// resolve maps a library number to its id; anything else is taken as an id.
func (a *App) resolve(ref string) string {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(a.library) {
		return a.library[n-1]
	}
	return ref
}

func (a *App) Load(ctx context.Context, ref string) error {
	doc, err := a.docs.Load(ctx, a.resolve(ref))
	if err != nil {
		return err
	}
	printlnFn("Text loaded")
	return a.start(ctx, doc)
}

func (a *App) Delete(ctx context.Context, ref string) error {
	id := a.resolve(ref)
	if !Confirm(a.reader, "Delete this text? This cannot be undone.", a.out) {
		return nil
	}
	if err := a.docs.Delete(ctx, id); err != nil {
		return err
	}
	for i, v := range a.library {
		if v == id {
			a.library = append(a.library[:i], a.library[i+1:]...)
			break
		}
	}
	printlnFn("Text deleted")
	return nil
}
