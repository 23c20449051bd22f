package docx

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/format"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fw.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><w:document ` + wordNS + `><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

const pageBreak = `<w:p><w:r><w:br w:type="page"/></w:r></w:p>`

func drain(payload core.Payload) ([]format.Fragment, []error) {
	var frags []format.Fragment
	var errs []error
	for frag, err := range New().Ingest(payload) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		frags = append(frags, frag)
	}
	return frags, errs
}

func TestIngest_SinglePage(t *testing.T) {
	doc := buildDocx(t, para("Hello")+para("World"))
	frags, errs := drain(core.BytesPayload(doc))
	require.Empty(t, errs)
	require.Len(t, frags, 1)
	assert.Equal(t, "Hello\nWorld", frags[0].Text)
	assert.Equal(t, 1, frags[0].Source)
}

func TestIngest_ExplicitPageBreaks(t *testing.T) {
	doc := buildDocx(t, para("one")+pageBreak+para("two")+pageBreak+pageBreak+para("three"))
	frags, errs := drain(core.BytesPayload(doc))
	require.Empty(t, errs)
	require.Len(t, frags, 3)
	assert.Equal(t, "one", frags[0].Text)
	assert.Equal(t, "two", frags[1].Text)
	assert.Equal(t, "three", frags[2].Text)
}

func TestIngest_RenderedPageBreaks(t *testing.T) {
	body := para("first") + `<w:p><w:r><w:lastRenderedPageBreak/><w:t>second</w:t><w:tab/><w:t>col</w:t></w:r></w:p>`
	frags, errs := drain(core.BytesPayload(buildDocx(t, body)))
	require.Empty(t, errs)
	require.Len(t, frags, 2)
	assert.Equal(t, "first", frags[0].Text)
	assert.Equal(t, "second\tcol", frags[1].Text)
}

func TestIngest_EmptyDocument(t *testing.T) {
	frags, errs := drain(core.BytesPayload(buildDocx(t, `<w:p/>`)))
	assert.Empty(t, errs)
	assert.Empty(t, frags)
}

func TestIngest_DecodeErrors(t *testing.T) {
	var noDoc bytes.Buffer
	w := zip.NewWriter(&noDoc)
	_, _ = w.Create("other.xml")
	require.NoError(t, w.Close())

	tests := []struct {
		name    string
		payload core.Payload
		wantIs  error
	}{
		{name: "not a zip", payload: core.BytesPayload([]byte("plain bytes"))},
		{name: "missing document part", payload: core.BytesPayload(noDoc.Bytes()), wantIs: ErrMissingDocument},
		{name: "text payload", payload: core.TextPayload("hello"), wantIs: format.ErrWrongRepresentation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frags, errs := drain(tt.payload)
			assert.Empty(t, frags)
			require.Len(t, errs, 1)
			assert.ErrorIs(t, errs[0], format.ErrDecode)
			if tt.wantIs != nil {
				assert.ErrorIs(t, errs[0], tt.wantIs)
			}
		})
	}
}

func TestIngest_NestingLimit(t *testing.T) {
	body := strings.Repeat("<w:p>", 300) + `<w:r><w:t>deep</w:t></w:r>` + strings.Repeat("</w:p>", 300)
	frags, errs := drain(core.BytesPayload(buildDocx(t, body)))
	assert.Empty(t, frags)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrTooDeep)
}
