package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var extensions = map[string]string{
	"javascript": "js",
	"typescript": "ts",
	"html":       "html",
	"css":        "css",
	"python":     "py",
	"java":       "java",
	"cpp":        "cpp",
	"c":          "c",
}

// ExtensionFor returns the file extension for an editor language ID. Unknown
// languages get "txt".
func ExtensionFor(languageID string) string {
	if ext, ok := extensions[languageID]; ok {
		return ext
	}
	return "txt"
}

// DownloadName returns the artifact name for a download made at t.
func DownloadName(t time.Time, languageID string) string {
	return fmt.Sprintf("solution-%d.%s", t.UnixMilli(), ExtensionFor(languageID))
}

// FileDownloader writes downloads into a directory.
type FileDownloader struct {
	Dir string
}

// Download writes content to Dir/name as plain text.
func (d FileDownloader) Download(name, content string) (string, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create downloads dir: %w", err)
	}
	p := filepath.Join(d.Dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return p, nil
}
