package editor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensionFor(t *testing.T) {
	tests := map[string]string{
		"javascript": "js",
		"typescript": "ts",
		"html":       "html",
		"css":        "css",
		"python":     "py",
		"java":       "java",
		"cpp":        "cpp",
		"c":          "c",
		"rust":       "txt",
		"":           "txt",
	}
	for lang, want := range tests {
		assert.Equal(t, want, ExtensionFor(lang), lang)
	}
}

func TestDownloadName(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	assert.Equal(t, "solution-1700000000123.py", DownloadName(ts, "python"))
}

func TestFileDownloaderWritesPlainText(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	p, err := FileDownloader{Dir: dir}.Download("solution-1.js", "console.log(1)\n")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "solution-1.js"), p)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)\n", string(b))

	fi, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm()&0o644)
}
