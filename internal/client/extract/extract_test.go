package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"no link here", ""},
		{"read https://example.com/a?b=1 now", "https://example.com/a?b=1"},
		{"HTTP://EXAMPLE.COM first then http://second.org", "HTTP://EXAMPLE.COM"},
		{"ftp://example.com", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FindURL(tt.in), tt.in)
	}
}

func TestExtract_PrefersArticleAndDropsChrome(t *testing.T) {
	body := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 6)
	page := `<html><head><title>x</title><style>p{}</style></head><body>
<nav>Home About</nav>
<div class="share">Share this</div>
<article>
  <h1>Headline</h1>
  <script>var x = 1;</script>
  <p>` + body + `</p>
  <div class="ad">Buy now</div>
  <p>Last   paragraph.</p>
</article>
<footer>Copyright</footer>
</body></html>`

	got, err := Extract(strings.NewReader(page))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "Headline The quick brown fox"), got)
	assert.True(t, strings.HasSuffix(got, "Last paragraph."), got)
	for _, chrome := range []string{"Home About", "Share this", "var x", "Buy now", "Copyright"} {
		assert.NotContains(t, got, chrome)
	}
}

func TestExtract_ShortContentFallsBackToBody(t *testing.T) {
	page := `<body><div role="navigation">menu</div><article>Too short.</article><p>Body text.</p></body>`

	got, err := Extract(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "Too short. Body text.", got)
}

func TestExtract_ContentClass(t *testing.T) {
	long := strings.Repeat("word ", 60)
	page := `<body><p>intro</p><div class="wrapper entry-content">` + long + `</div></body>`

	got, err := Extract(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(long), got)
}

func TestExtract_Truncates(t *testing.T) {
	page := "<body><p>" + strings.Repeat("字", MaxLength+10) + "</p></body>"

	got, err := Extract(strings.NewReader(page))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(got, TruncatedSuffix))
	assert.Equal(t, MaxLength, utf8.RuneCountInString(strings.TrimSuffix(got, TruncatedSuffix)))
}

func TestExtractor_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "duread-test", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte("<html><body><p>Hello there.</p></body></html>"))
		case "/empty":
			_, _ = w.Write([]byte("<html><body><script>x()</script></body></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	e := New(WithHTTPClient(srv.Client()), WithUserAgent("duread-test"))

	got, err := e.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", got)

	_, err = e.Fetch(context.Background(), srv.URL+"/missing")
	require.ErrorContains(t, err, "status 404")

	_, err = e.Fetch(context.Background(), srv.URL+"/empty")
	require.ErrorContains(t, err, "no readable content")
}

func TestExtractor_FetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Fetch(ctx, "http://127.0.0.1:1/")
	require.Error(t, err)
}
