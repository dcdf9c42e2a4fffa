// Package problems loads question banks and resolves the editor language of
// each problem.
package problems

import (
	"errors"
	"strings"

	"github.com/abhisek/codebench/internal/judge"
	"github.com/abhisek/codebench/internal/store"
)

// Status is a problem's progress state.
type Status = store.Status

const (
	StatusNotStarted = store.StatusNotStarted
	StatusAttempted  = store.StatusAttempted
	StatusSolved     = store.StatusSolved
)

// Difficulty grades a problem.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var (
	// ErrNotFound is returned for unknown problem IDs.
	ErrNotFound = errors.New("problem not found")
	// ErrUnsupportedFormat is returned for banks with an unknown format version.
	ErrUnsupportedFormat = errors.New("unsupported bank format")
)

// Problem is one question with the learner's progress on it.
type Problem struct {
	ID          string
	Title       string
	Topic       string
	Difficulty  Difficulty
	Statement   string // markdown
	StarterCode string
	TestCases   []judge.TestCase
	Judge       judge.Judge

	Status    Status
	IsStarred bool
	Notes     *string
}

// EditorLanguage returns the editor language for the problem's topic.
func (p Problem) EditorLanguage() string {
	return ResolveEditorLanguage(p.Topic)
}

// ResolveEditorLanguage maps a topic or track name onto an editor language
// ID. Empty and unknown topics resolve to javascript.
func ResolveEditorLanguage(topic string) string {
	t := strings.ToLower(strings.TrimSpace(topic))
	switch t {
	case "javascript", "js", "node", "nodejs", "node.js", "react", "vue", "angular", "express", "dom":
		return "javascript"
	case "typescript", "ts":
		return "typescript"
	case "python", "py", "django", "flask", "pandas":
		return "python"
	case "java", "spring", "springboot", "spring boot":
		return "java"
	case "cpp", "c++", "cplusplus":
		return "cpp"
	case "c":
		return "c"
	case "html", "html5":
		return "html"
	case "css", "css3", "sass", "scss", "tailwind":
		return "css"
	default:
		return "javascript"
	}
}
