package loader

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/documentloaders"

	"github.com/poiesic/pagestream/core"
	"github.com/poiesic/pagestream/format"
)

const sample = "name,city,age\nada,london,36\nalan,wilmslow,41\n"

func fragments(t *testing.T, a format.Adapter, p core.Payload) []format.Fragment {
	t.Helper()
	var out []format.Fragment
	for frag, err := range a.Ingest(p) {
		require.NoError(t, err)
		out = append(out, frag)
	}
	return out
}

func TestCSV_OneFragmentPerRow(t *testing.T) {
	got := fragments(t, NewCSV(), core.TextPayload(sample))
	require.Len(t, got, 2)
	assert.Equal(t, "name: ada\ncity: london\nage: 36", got[0].Text)
	assert.Equal(t, 1, got[0].Source)
	assert.Equal(t, "name: alan\ncity: wilmslow\nage: 41", got[1].Text)
	assert.Equal(t, 2, got[1].Source)
}

func TestCSV_ColumnFilter(t *testing.T) {
	got := fragments(t, NewCSV("name"), core.BytesPayload([]byte(sample)))
	require.Len(t, got, 2)
	assert.Equal(t, "name: ada", got[0].Text)
}

func TestCSV_HeaderOnly(t *testing.T) {
	assert.Empty(t, fragments(t, NewCSV(), core.TextPayload("a,b\n")))
}

func TestCSV_Malformed(t *testing.T) {
	var errs []error
	for _, err := range NewCSV().Ingest(core.TextPayload("a,b\n\"unterminated,1\n")) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], format.ErrDecode)
}

func TestNew_TextLoader(t *testing.T) {
	a := New(core.ContentTypePlainText, func(r io.Reader) documentloaders.Loader {
		return documentloaders.NewText(r)
	})
	got := fragments(t, a, core.TextPayload("  whole document  "))
	require.Len(t, got, 1)
	assert.Equal(t, "whole document", got[0].Text)
	assert.Equal(t, 1, got[0].Source)
}
