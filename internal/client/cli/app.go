package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/techurbanist/duread/internal/client/config"
	"github.com/techurbanist/duread/internal/client/services"
)

type App struct {
	config  *config.Config
	creds   services.CredentialService
	docs    services.DocumentService
	reader  *bufio.Reader
	out     io.Writer
	view    *viewport
	library []string
	now     func() time.Time
}

func NewApp(c *config.Config, creds services.CredentialService, docs services.DocumentService) *App {
	return &App{
		config: c,
		creds:  creds,
		docs:   docs,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		view:   newViewport(c.ViewportSize, c.PrefetchMargin),
		now:    time.Now,
	}
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to DuRead (type 'help' for commands)")
	if a.creds.Restore() {
		printlnFn("Session restored")
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) getStatus() string {
	lock := "locked"
	if _, ok := a.creds.APIKey(); ok {
		lock = "unlocked"
	}
	return fmt.Sprintf("(%s, %s)", string(a.docs.Direction()), lock)
}
