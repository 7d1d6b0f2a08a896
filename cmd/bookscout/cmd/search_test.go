package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
- id: "1"
  name: Dune
  price: 12
  language: English
  genre: Sci-Fi
- id: "2"
  name: Solaris
  price: 9.5
  language: Polish
  genre: Sci-Fi
`

// writeTestConfig points the global config at a file-backed catalog
// and restores the previous --config value afterwards.
func writeTestConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()

	catalogPath := filepath.Join(dir, "books.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o600))

	cfgPath := filepath.Join(dir, "bookscout.yaml")
	cfg := "catalog:\n  source: file\n  file: " + catalogPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	prev := cfgFile
	cfgFile = cfgPath
	t.Cleanup(func() { cfgFile = prev })
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)
	c.SetContext(context.Background())
	return c, &buf
}

func TestRunSearch_FileSource(t *testing.T) {
	writeTestConfig(t)
	c, buf := newTestCmd()

	require.NoError(t, runSearch(c, []string{"dune"}))

	out := buf.String()
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "$12.00")
	assert.NotContains(t, out, "Solaris")
}

func TestRunSearch_EmptyTermListsAll(t *testing.T) {
	writeTestConfig(t)
	c, buf := newTestCmd()

	require.NoError(t, runSearch(c, nil))

	out := buf.String()
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "Solaris")
}

func TestRunInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	prev := cfgFile
	cfgFile = filepath.Join(dir, ".bookscout.yaml")
	t.Cleanup(func() { cfgFile = prev })

	c, buf := newTestCmd()
	require.NoError(t, runInit(c, nil))
	assert.Contains(t, buf.String(), "Wrote")

	err := runInit(c, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestVersionCmd(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2026-01-01")
	c, buf := newTestCmd()
	versionCmd.Run(c, nil)

	out := buf.String()
	assert.Contains(t, out, "1.2.3")
	assert.True(t, strings.Contains(out, "abc123"))
}
