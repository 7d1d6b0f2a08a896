package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
- id: "1"
  name: Dune
  price: 15
  language: English
  genre: SciFi
- id: "2"
  name: Solaris
  language: Polish
  genre: SciFi
- id: "3"
  name: The Hobbit
  price: 9.99
  language: English
  genre: Fantasy
`

func writeCatalog(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSource_FetchAll(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), catalogYAML)
	src := NewFileSource(path)
	defer src.Close()

	recs, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "Dune", recs[0].Name)
	require.NotNil(t, recs[2].Price)
	assert.Equal(t, 9.99, *recs[2].Price)
	assert.Nil(t, recs[1].Price)
}

func TestFileSource_SearchFilters(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), catalogYAML)
	src := NewFileSource(path)
	defer src.Close()

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"Dune", "Solaris", "The Hobbit"}},
		{"dune", []string{"Dune"}},
		{"english", []string{"Dune", "The Hobbit"}},
		{"fantasy", []string{"The Hobbit"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run("term="+tt.term, func(t *testing.T) {
			recs, err := src.Search(context.Background(), tt.term)
			require.NoError(t, err)
			var names []string
			for _, r := range recs {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFileSource_FetchAllMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "absent.yaml"))
	defer src.Close()

	_, err := src.FetchAll(context.Background())
	assert.Error(t, err)
}

func TestFileSource_ChangesFiresOnRewrite(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, catalogYAML)
	src := NewFileSource(path)
	defer src.Close()

	// Give the watcher a moment to establish before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o600))

	select {
	case <-src.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal after rewriting the catalog file")
	}
}

func TestFileSource_CloseIsIdempotent(t *testing.T) {
	src := NewFileSource(writeCatalog(t, t.TempDir(), catalogYAML))
	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
}
