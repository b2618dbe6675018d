package segment

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techurbanist/duread/internal/client/models"
)

func sources(ss []models.Sentence) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Source
	}
	return out
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "two english sentences", in: "Hello world. How are you?", want: []string{"Hello world.", "How are you?"}},
		{name: "chinese terminators", in: "你好。我很好！谢谢？", want: []string{"你好。", "我很好！", "谢谢？"}},
		{name: "chinese semicolon", in: "第一句；第二句", want: []string{"第一句；", "第二句"}},
		{name: "no terminal punctuation", in: "just a fragment", want: []string{"just a fragment"}},
		{name: "whitespace collapsed", in: "  One.\n\n\tTwo  three!  ", want: []string{"One.", "Two three!"}},
		{name: "ellipsis stays attached", in: "Wait... what?!", want: []string{"Wait...", "what?!"}},
		{name: "leading punctuation kept", in: "?! ok", want: []string{"?!", "ok"}},
		{name: "trailing fragment", in: "Done. and then", want: []string{"Done.", "and then"}},
		{name: "empty", in: "", want: []string{}},
		{name: "only whitespace", in: " \n\t ", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.in, "t")
			assert.Equal(t, tt.want, sources(got))
		})
	}
}

func TestSplit_IDsAndStatus(t *testing.T) {
	got := Split("A. B. C.", "doc")
	require.Len(t, got, 3)

	seen := map[string]bool{}
	for i, s := range got {
		assert.Equal(t, models.StatusPending, s.Status)
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
		assert.True(t, strings.HasPrefix(s.ID, "doc-"))
		assert.Equal(t, s.ID, Split("A. B. C.", "doc")[i].ID, "ids are deterministic")
	}

	assert.Equal(t, "sentence-0", Split("x", "")[0].ID)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func TestSplit_LosesNoCharacters(t *testing.T) {
	inputs := []string{
		"Hello world. How are you?",
		"Mr. Smith went to Washington... Then? He left!",
		"这是第一句。这是第二句！还有第三句？最后；",
		"  mixed 中文 and English. 好吗？ fine  ",
		"!!!",
		"no punctuation at all",
	}

	for _, in := range inputs {
		got := Split(in, "p")
		var b strings.Builder
		for _, s := range got {
			assert.NotEmpty(t, s.Source)
			assert.Equal(t, strings.TrimSpace(s.Source), s.Source)
			b.WriteString(s.Source)
		}
		assert.Equal(t, stripSpace(in), stripSpace(b.String()), "input %q", in)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("  a \n b\t\tc  "))
	assert.Equal(t, "", Normalize("\n"))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, LanguageChinese, DetectLanguage("你好，世界"))
	assert.Equal(t, LanguageEnglish, DetectLanguage("Hello world"))
	assert.Equal(t, LanguageEnglish, DetectLanguage(""))
	// 2 of 11 non-space runes are ideographs: below the threshold
	assert.Equal(t, LanguageEnglish, DetectLanguage("I like 中文 a lot"))
	// 4 of 10
	assert.Equal(t, LanguageChinese, DetectLanguage("abc 中文中文 def"))
}

func TestAutoDirection(t *testing.T) {
	d, changed := AutoDirection(models.DirectionEnZh, "我喜欢读书。")
	assert.Equal(t, models.DirectionZhEn, d)
	assert.True(t, changed)

	d, changed = AutoDirection(models.DirectionZhEn, "I like reading.")
	assert.Equal(t, models.DirectionEnZh, d)
	assert.True(t, changed)

	d, changed = AutoDirection(models.DirectionEnZh, "I like reading.")
	assert.Equal(t, models.DirectionEnZh, d)
	assert.False(t, changed)
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "short text kept", in: "  A short note  ", want: "A short note"},
		{
			name: "cut at word boundary",
			in:   "The quick brown fox jumps over the lazy dog and keeps running far away",
			want: "The quick brown fox jumps over the lazy dog and...",
		},
		{
			name: "no usable space",
			in:   "A " + strings.Repeat("x", 60),
			want: "A " + strings.Repeat("x", 48) + "...",
		},
		{
			name: "counts runes not bytes",
			in:   strings.Repeat("读", 50),
			want: strings.Repeat("读", 50),
		},
		{
			name: "long chinese",
			in:   strings.Repeat("读", 60),
			want: strings.Repeat("读", 50) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.in))
		})
	}
}
