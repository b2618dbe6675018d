// Package cli provides the interactive duread reader for the terminal.
//
// The REPL stands in for a reading page: a text is split into sentences,
// a viewport of a few sentences is printed at a time, and every sentence that
// comes into view (plus a small prefetch margin) is reported to the document
// service, which translates it in the background. Translations are printed
// as they arrive by the Renderer.
//
// Key features:
//   - key / unlock / forget: the API key, encrypted under a passphrase
//   - read / open <url>: start a new text from pasted input or a web page
//   - view / next / prev / top / show <n>: move the viewport
//   - library / load / delete / new: the saved texts
//   - dir: translation direction
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
