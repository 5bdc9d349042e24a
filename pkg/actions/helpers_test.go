package actions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupPlayground creates a small tree:
//
//	doc1.pdf, doc2.txt, image.png, subfolder/doc3.pdf
func setupPlayground(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeTestFile(t, filepath.Join(dir, "doc1.pdf"), "dummy pdf")
	writeTestFile(t, filepath.Join(dir, "doc2.txt"), "dummy txt")
	writeTestFile(t, filepath.Join(dir, "image.png"), "dummy png")
	writeTestFile(t, filepath.Join(dir, "subfolder", "doc3.pdf"), "dummy pdf deep")
	return dir
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
