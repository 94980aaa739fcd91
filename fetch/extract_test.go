package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMainText_PrefersArticle(t *testing.T) {
	html := `<html><body>
		<nav>Site navigation</nav>
		<article><p>The actual story text.</p></article>
		<footer>Footer junk</footer>
	</body></html>`

	text, err := ExtractMainText(html, DefaultContentSelectors)
	require.NoError(t, err)

	assert.Contains(t, text, "The actual story text.")
	assert.NotContains(t, text, "Footer junk")
	assert.NotContains(t, text, "Site navigation")
}

func TestExtractMainText_SelectorPriority(t *testing.T) {
	// Both article and .post-content exist; article comes first in the list
	html := `<html><body>
		<div class="post-content">Secondary container</div>
		<article>Primary container</article>
	</body></html>`

	text, err := ExtractMainText(html, DefaultContentSelectors)
	require.NoError(t, err)

	assert.Contains(t, text, "Primary container")
	assert.NotContains(t, text, "Secondary container")
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	html := `<html><body>
		<div><p>Plain page without article markup.</p></div>
	</body></html>`

	text, err := ExtractMainText(html, DefaultContentSelectors)
	require.NoError(t, err)

	assert.Contains(t, text, "Plain page without article markup.")
}

func TestExtractMainText_StripsUnwantedSubtrees(t *testing.T) {
	html := `<html><body><article>
		<script>var tracking = true;</script>
		<style>.ad { color: red }</style>
		<nav>In-article nav</nav>
		<noscript>Enable JavaScript</noscript>
		<iframe src="https://ads.example.com"></iframe>
		<form><input name="email"></form>
		<p>Readable paragraph.</p>
	</article></body></html>`

	text, err := ExtractMainText(html, DefaultContentSelectors)
	require.NoError(t, err)

	assert.Contains(t, text, "Readable paragraph.")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "In-article nav")
	assert.NotContains(t, text, "Enable JavaScript")
}

func TestExtractMainText_EmptyPage(t *testing.T) {
	text, err := ExtractMainText("<html><body></body></html>", DefaultContentSelectors)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "trims and drops empty lines",
			raw:  "  first line  \n\n\n   second line\n\t\n third ",
			want: "first line\nsecond line\nthird",
		},
		{
			name: "single line",
			raw:  "  hello  ",
			want: "hello",
		},
		{
			name: "only whitespace",
			raw:  " \n \t \n ",
			want: "",
		},
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
		{
			name: "preserves content order",
			raw:  "b\na\nc",
			want: "b\na\nc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.raw))
		})
	}
}

func TestCleanText_LongDocument(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("  padded line \n\n")
	}

	cleaned := CleanText(b.String())
	lines := strings.Split(cleaned, "\n")
	assert.Len(t, lines, 50)
	for _, line := range lines {
		assert.Equal(t, "padded line", line)
	}
}
