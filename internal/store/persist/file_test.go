package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissing(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))

	data, err := fs.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kampai-delivery-storage.json")
	fs := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, fs.Save(ctx, []byte(`{"version":1}`)))
	require.NoError(t, fs.Save(ctx, []byte(`{"version":1,"language":"he"}`)))

	data, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"language":"he"}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}
