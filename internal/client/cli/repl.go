package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	SaveKey(ctx context.Context) error
	Unlock(ctx context.Context) error
	Forget(ctx context.Context) error
	Status(ctx context.Context) error
	SetDirection(ctx context.Context, arg string) error
	Read(ctx context.Context) error
	Open(ctx context.Context, url string) error
	View(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Top(ctx context.Context) error
	Show(ctx context.Context, arg string) error
	Library(ctx context.Context) error
	Load(ctx context.Context, arg string) error
	Delete(ctx context.Context, arg string) error
	New(ctx context.Context) error
}

const helpText = `Available commands:
  key            save an API key, encrypted with a passphrase
  unlock         unlock the saved API key for this session
  forget         delete the API key and all settings
  status         show key, direction and current text
  dir [d]        toggle or set the direction (en-zh, zh-en)
  read           paste a new text to read
  open <url>     read the article at url
  view           show the current sentences
  next, prev     move the view by one page
  top            back to the first sentence
  show <n>       jump to sentence n
  library        list saved texts
  load <n|id>    open a saved text
  delete <n|id>  delete a saved text
  new            close the current text
  exit | quit    leave the program`

// runREPL reads a line from reader, parses the first token as the command,
// and dispatches to methods on a. Errors from handlers are reported to the
// user and the loop goes on; it ends on EOF or "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("duread %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := strings.Join(parts[1:], " ")

		switch cmd {
		case "help":
			printlnFn(helpText)
		case "key":
			err = a.SaveKey(ctx)
		case "unlock":
			err = a.Unlock(ctx)
		case "forget":
			err = a.Forget(ctx)
		case "status":
			err = a.Status(ctx)
		case "dir":
			err = a.SetDirection(ctx, arg)
		case "read":
			err = a.Read(ctx)
		case "open":
			if arg == "" {
				printlnFn("Usage: open <url>")
				continue
			}
			err = a.Open(ctx, arg)
		case "view", "v":
			err = a.View(ctx)
		case "next", "n":
			err = a.Next(ctx)
		case "prev", "p":
			err = a.Prev(ctx)
		case "top":
			err = a.Top(ctx)
		case "show":
			if arg == "" {
				printlnFn("Usage: show <n>")
				continue
			}
			err = a.Show(ctx, arg)
		case "library", "l":
			err = a.Library(ctx)
		case "load":
			if arg == "" {
				printlnFn("Usage: load <n|id>")
				continue
			}
			err = a.Load(ctx, arg)
		case "delete":
			if arg == "" {
				printlnFn("Usage: delete <n|id>")
				continue
			}
			err = a.Delete(ctx, arg)
		case "new":
			err = a.New(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err != nil {
			printlnFn("Error:", userMessage(err))
		}
	}
}
