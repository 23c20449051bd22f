package html

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/format"
)

func ingest(t *testing.T, input string) []string {
	t.Helper()
	var out []string
	for frag, err := range New().Ingest(core.TextPayload(input)) {
		require.NoError(t, err)
		out = append(out, frag.Text)
	}
	return out
}

func TestIngest_SectionsPerHeading(t *testing.T) {
	doc := `<html><head><title>t</title></head><body>
<h1>Guide</h1><p>Welcome to the <b>guide</b>.</p>
<h2>Install</h2><p>Run the installer.</p>
</body></html>`

	got := ingest(t, doc)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "# Guide")
	assert.Contains(t, got[0], "Welcome to the **guide**.")
	assert.Contains(t, got[1], "## Install")
	assert.Contains(t, got[1], "Run the installer.")
}

func TestIngest_StripsScripts(t *testing.T) {
	doc := `<body><p>visible</p><script>alert("x")</script></body>`
	got := ingest(t, doc)
	require.Len(t, got, 1)
	assert.Equal(t, "visible", got[0])
}

func TestIngest_EmptyDocument(t *testing.T) {
	assert.Empty(t, ingest(t, "<html><body>   </body></html>"))
}

func TestIngest_BytesPayload(t *testing.T) {
	var out []string
	for frag, err := range New().Ingest(core.BytesPayload([]byte("<p>bytes</p>"))) {
		require.NoError(t, err)
		out = append(out, frag.Text)
	}
	assert.Equal(t, []string{"bytes"}, out)
}

func TestIngest_OpenFailure(t *testing.T) {
	var errs []error
	for _, err := range New().Ingest(core.FilePayload("/nonexistent/page.html")) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], format.ErrDecode)
}

func TestIngest_OversizedLineIsHTMLDecodeError(t *testing.T) {
	doc := "<p>" + strings.Repeat("a", 1<<20+16) + "</p>"

	var errs []error
	for _, err := range New().Ingest(core.TextPayload(doc)) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], bufio.ErrTooLong)

	var decodeErr *format.DecodeError
	require.True(t, errors.As(errs[0], &decodeErr))
	assert.Equal(t, core.ContentTypeHTML, decodeErr.ContentType)
	assert.True(t, strings.HasPrefix(errs[0].Error(), "decode html:"))
}
