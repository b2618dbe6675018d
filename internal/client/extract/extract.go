// Package extract turns a web page into plain readable text: page chrome is
// dropped, the main content block is preferred and the result is capped so it
// stays a reasonable reading session.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	MaxLength       = 8000
	TruncatedSuffix = "...\n\n[Content truncated]"

	minContentLength = 200
	maxBodyBytes     = 5 << 20
)

var urlRe = regexp.MustCompile(`(?i)https?://\S+`)

// FindURL returns the first http(s) URL in text, or "".
func FindURL(text string) string {
	return urlRe.FindString(text)
}

var (
	chromeTags = map[atom.Atom]bool{
		atom.Script: true, atom.Style: true, atom.Nav: true, atom.Header: true,
		atom.Footer: true, atom.Aside: true, atom.Iframe: true, atom.Noscript: true,
		atom.Svg: true, atom.Form: true, atom.Button: true,
	}
	chromeRoles = map[string]bool{
		"navigation": true, "banner": true, "contentinfo": true,
	}
	chromeClasses = map[string]bool{
		"nav": true, "navbar": true, "menu": true, "sidebar": true, "footer": true,
		"header": true, "advertisement": true, "ad": true, "ads": true, "social": true,
		"share": true, "comments": true, "cookie": true, "popup": true, "modal": true,
		"newsletter": true,
	}
	blockTags = map[atom.Atom]bool{
		atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
		atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true,
		atom.H6: true, atom.Section: true, atom.Article: true, atom.Main: true,
		atom.Blockquote: true, atom.Pre: true, atom.Td: true, atom.Th: true,
	}
)

// matcher is one content selector, tried in order.
type matcher func(n *html.Node) bool

var contentSelectors = []matcher{
	tag(atom.Article),
	tag(atom.Main),
	func(n *html.Node) bool { return attr(n, "role") == "main" },
	class("post-content"),
	class("article-content"),
	class("entry-content"),
	class("content"),
	class("post"),
	class("article"),
}

func tag(a atom.Atom) matcher {
	return func(n *html.Node) bool { return n.DataAtom == a }
}

func class(name string) matcher {
	return func(n *html.Node) bool { return hasClass(n, name) }
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, name string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == name {
			return true
		}
	}
	return false
}

func isChrome(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if chromeTags[n.DataAtom] || chromeRoles[attr(n, "role")] {
		return true
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if chromeClasses[c] {
			return true
		}
	}
	return false
}

func strip(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isChrome(c) {
			n.RemoveChild(c)
		} else {
			strip(c)
		}
		c = next
	}
}

func find(n *html.Node, m matcher) *html.Node {
	if n.Type == html.ElementNode && m(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, m); found != nil {
			return found
		}
	}
	return nil
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		block := n.Type == html.ElementNode && blockTags[n.DataAtom]
		if block {
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte(' ')
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// Extract reads an HTML document and returns its main text.
func Extract(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	strip(doc)

	var content string
	for _, m := range contentSelectors {
		if n := find(doc, m); n != nil {
			if t := text(n); utf8.RuneCountInString(t) > minContentLength {
				content = t
				break
			}
		}
	}
	if content == "" {
		if body := find(doc, tag(atom.Body)); body != nil {
			content = text(body)
		}
	}

	return truncate(content), nil
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxLength {
		return s
	}
	return string([]rune(s)[:MaxLength]) + TruncatedSuffix
}

// Extractor fetches pages over HTTP.
type Extractor struct {
	httpClient *http.Client
	userAgent  string
}

type Option func(*Extractor)

func WithHTTPClient(h *http.Client) Option { return func(e *Extractor) { e.httpClient = h } }

func WithUserAgent(ua string) Option { return func(e *Extractor) { e.userAgent = ua } }

func New(opts ...Option) *Extractor {
	e := &Extractor{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  "duread",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fetch downloads url and returns its extracted text.
func (e *Extractor) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}

	content, err := Extract(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", fmt.Errorf("no readable content at %s", url)
	}
	return content, nil
}
