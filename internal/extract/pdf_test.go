package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_MissingFile(t *testing.T) {
	_, err := Adapter{}.Text(filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentUnreadable)
}

func TestLines_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := Adapter{}.Lines(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentUnreadable)
}
