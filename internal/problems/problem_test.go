package problems

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveEditorLanguage(t *testing.T) {
	tests := map[string]string{
		"":            "javascript",
		"JavaScript":  "javascript",
		"react":       "javascript",
		"Node.js":     "javascript",
		"typescript":  "typescript",
		"TS":          "typescript",
		"python":      "python",
		"Django":      "python",
		"flask":       "python",
		"java":        "java",
		"Spring Boot": "java",
		"c++":         "cpp",
		"CPP":         "cpp",
		"c":           "c",
		"html":        "html",
		"css":         "css",
		"tailwind":    "css",
		"sass":        "css",
		"haskell":     "javascript",
		"  python  ":  "python",
	}
	for topic, want := range tests {
		assert.Equal(t, want, ResolveEditorLanguage(topic), "topic %q", topic)
	}
}

func TestProblemEditorLanguage(t *testing.T) {
	assert.Equal(t, "cpp", Problem{Topic: "c++"}.EditorLanguage())
}
