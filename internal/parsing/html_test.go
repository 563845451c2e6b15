package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, LooksLikeHTML("<p>Hello</p>"))
	assert.True(t, LooksLikeHTML("Requirements:<br/>Go"))
	assert.True(t, LooksLikeHTML(`<ul class="reqs"><li>Go</li></ul>`))
	assert.False(t, LooksLikeHTML("5 < 10 and 10 > 5"))
	assert.False(t, LooksLikeHTML("plain text"))
}

func TestHTMLToText(t *testing.T) {
	html := `<html><head><style>.x{}</style></head><body>
		<h2>About the role</h2>
		<p>We build payment systems.</p>
		<ul><li>Go</li><li>PostgreSQL</li></ul>
		<script>track()</script>
	</body></html>`

	text, err := HTMLToText(html)
	require.NoError(t, err)
	assert.NotContains(t, text, "track")
	assert.NotContains(t, text, ".x{}")
	assert.Contains(t, text, "We build payment systems.")

	sentences := SplitSentences(text)
	assert.Contains(t, sentences, []string{"go"})
	assert.Contains(t, sentences, []string{"postgresql"})
	assert.Contains(t, sentences, []string{"about", "the", "role"})
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Go and SQL", PlainText("Go and SQL"))
	assert.Equal(t, "Go. and SQL", PlainText("<p>Go</p>and SQL"))
}
