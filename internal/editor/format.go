package editor

import "strings"

var formattable = map[string]bool{
	"javascript": true,
	"typescript": true,
	"python":     true,
	"java":       true,
	"cpp":        true,
	"c":          true,
	"html":       true,
	"css":        true,
}

// FormatSource tidies whitespace for known languages: trailing blanks are
// trimmed, runs of blank lines collapse to one, tabs become four spaces in
// python, and the document ends with one newline. ok is false for languages
// without a formatter.
func FormatSource(languageID, src string) (out string, ok bool) {
	if !formattable[languageID] {
		return src, false
	}

	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	var b strings.Builder
	blank := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if languageID == "python" {
			line = expandLeadingTabs(line)
		}
		if line == "" {
			blank++
			continue
		}
		if b.Len() > 0 && blank > 0 {
			b.WriteString("\n")
		}
		blank = 0
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String(), true
}

func expandLeadingTabs(line string) string {
	i := 0
	for i < len(line) && line[i] == '\t' {
		i++
	}
	if i == 0 {
		return line
	}
	return strings.Repeat("    ", i) + line[i:]
}
