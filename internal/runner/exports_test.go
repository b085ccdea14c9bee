package runner

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportAfterRun(t *testing.T) {
	s := newSession(t)
	dir := t.TempDir()
	pngPath, pdfPath := filepath.Join(dir, "scene.png"), filepath.Join(dir, "scene.pdf")
	s.ExportAfterRun(pngPath, pdfPath)

	s.Execute("canvas.rect(10, 10, 50, 20, 'red', 'black', 2)")

	data, err := os.ReadFile(pngPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
	data, err = os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportAfterFailedRunStillWrites(t *testing.T) {
	s := newSession(t)
	pngPath := filepath.Join(t.TempDir(), "scene.png")
	s.ExportAfterRun(pngPath, "")

	s.Execute("canvas.line(0, 0, 5, 5, 'red')\nerror('late')")

	_, err := os.Stat(pngPath)
	assert.NoError(t, err)
}
