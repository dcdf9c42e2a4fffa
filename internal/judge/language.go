package judge

import (
	"fmt"
	"strings"
)

// LanguageConfig describes how to build and run a single-file program.
type LanguageConfig struct {
	FileName    string
	DockerImage string
	Build       []string // empty for interpreted languages
	Run         []string
}

// DefaultLanguages returns configurations keyed by editor language ID.
func DefaultLanguages() map[string]LanguageConfig {
	return map[string]LanguageConfig{
		"javascript": {
			FileName:    "main.js",
			DockerImage: "node:22-alpine",
			Run:         []string{"node", "main.js"},
		},
		"typescript": {
			FileName:    "main.ts",
			DockerImage: "node:22-alpine",
			Run:         []string{"node", "--experimental-strip-types", "main.ts"},
		},
		"python": {
			FileName:    "main.py",
			DockerImage: "python:3.12-alpine",
			Run:         []string{"python3", "main.py"},
		},
		"java": {
			FileName:    "Main.java",
			DockerImage: "eclipse-temurin:21-alpine",
			Build:       []string{"javac", "Main.java"},
			Run:         []string{"java", "Main"},
		},
		"c": {
			FileName:    "main.c",
			DockerImage: "gcc:13",
			Build:       []string{"gcc", "-O2", "-o", "main", "main.c"},
			Run:         []string{"./main"},
		},
		"cpp": {
			FileName:    "main.cpp",
			DockerImage: "gcc:13",
			Build:       []string{"g++", "-std=c++17", "-O2", "-o", "main", "main.cpp"},
			Run:         []string{"./main"},
		},
	}
}

// lookupLanguage returns the config for id from langs.
func lookupLanguage(langs map[string]LanguageConfig, id string) (LanguageConfig, error) {
	cfg, ok := langs[id]
	if !ok {
		return LanguageConfig{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, id)
	}
	return cfg, nil
}

// shellLine joins argv for `sh -c`. Arguments are simple tokens.
func shellLine(argv []string) string {
	return strings.Join(argv, " ")
}
