package problems

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/codebench/internal/judge"
	"github.com/abhisek/codebench/internal/schema"
)

// SupportedFormat is the major bank format version this build reads.
const SupportedFormat = "v1"

//go:embed bank/*.yaml
var defaultBank embed.FS

var bankSchema = schema.Definition{
	Name: "problem-bank",
	Source: `{
		"type": "object",
		"required": ["format", "problems"],
		"properties": {
			"format": {"type": "string"},
			"problems": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["title", "statement", "test_cases"],
					"properties": {
						"id": {"type": "string"},
						"title": {"type": "string", "minLength": 1},
						"topic": {"type": "string"},
						"difficulty": {"enum": ["easy", "medium", "hard"]},
						"statement": {"type": "string"},
						"starter_code": {"type": "string"},
						"test_cases": {
							"type": "array",
							"minItems": 1,
							"items": {
								"type": "object",
								"required": ["input", "expected_output"],
								"properties": {
									"input": {"type": "string"},
									"expected_output": {"type": "string"}
								}
							}
						}
					}
				}
			}
		}
	}`,
}

type bankFile struct {
	Format   string        `yaml:"format"`
	Problems []bankProblem `yaml:"problems"`
}

type bankProblem struct {
	ID          string           `yaml:"id"`
	Title       string           `yaml:"title"`
	Topic       string           `yaml:"topic"`
	Difficulty  Difficulty       `yaml:"difficulty"`
	Statement   string           `yaml:"statement"`
	StarterCode string           `yaml:"starter_code"`
	TestCases   []judge.TestCase `yaml:"test_cases"`
}

// ParseBank decodes one YAML bank. source names the bank in errors.
func ParseBank(data []byte, source string) ([]Problem, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse bank %s: %w", source, err)
	}
	if err := schema.ValidateValue(bankSchema, doc); err != nil {
		return nil, fmt.Errorf("validate bank %s: %w", source, err)
	}

	var bf bankFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("decode bank %s: %w", source, err)
	}
	if !semver.IsValid(bf.Format) || semver.Major(bf.Format) != SupportedFormat {
		return nil, fmt.Errorf("bank %s: %w %q (want %s.x.y)", source, ErrUnsupportedFormat, bf.Format, SupportedFormat)
	}

	out := make([]Problem, 0, len(bf.Problems))
	for _, bp := range bf.Problems {
		id := bp.ID
		if id == "" {
			id = slug.Make(bp.Title)
		}
		diff := bp.Difficulty
		if diff == "" {
			diff = Easy
		}
		out = append(out, Problem{
			ID:          id,
			Title:       bp.Title,
			Topic:       bp.Topic,
			Difficulty:  diff,
			Statement:   bp.Statement,
			StarterCode: bp.StarterCode,
			TestCases:   bp.TestCases,
			Status:      StatusNotStarted,
		})
	}
	return out, nil
}

// LoadFS reads every *.yaml and *.yml bank at the root of fsys in name order.
func LoadFS(fsys fs.FS) ([]Problem, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read bank dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(path.Ext(e.Name())) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []Problem
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read bank %s: %w", name, err)
		}
		ps, err := ParseBank(data, name)
		if err != nil {
			return nil, err
		}
		out = append(out, ps...)
	}
	return out, nil
}

// LoadDir loads banks from dir. A missing directory yields no problems.
func LoadDir(dir string) ([]Problem, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return LoadFS(os.DirFS(dir))
}

// DefaultBank returns the problems shipped with the binary.
func DefaultBank() ([]Problem, error) {
	sub, err := fs.Sub(defaultBank, "bank")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}
