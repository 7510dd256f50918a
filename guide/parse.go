package guide

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatter is the optional YAML header of a guide document.
type frontmatter struct {
	Title    string            `yaml:"title"`
	Language string            `yaml:"language"`
	Rules    map[string]string `yaml:"rules"`
}

// Parse parses a guide document: optional YAML frontmatter, level-two
// sections, and fenced snippets tagged bad or good. Fence tracking
// keeps headings inside code blocks from splitting sections.
func Parse(path string, content []byte) (*Guide, error) {
	g := &Guide{
		Path:  path,
		Rules: make(map[string]string),
	}

	lines := strings.Split(string(content), "\n")
	idx := 0

	if len(lines) > 0 && isDelimiter(lines[0]) {
		end := findDelimiter(lines, 1)
		if end == -1 {
			return nil, fmt.Errorf("no closing frontmatter delimiter")
		}
		var meta frontmatter
		yamlContent := strings.Join(lines[1:end], "\n")
		if err := yaml.Unmarshal([]byte(yamlContent), &meta); err != nil {
			return nil, fmt.Errorf("parse frontmatter: %w", err)
		}
		g.Title = meta.Title
		g.Language = meta.Language
		for slug, ruleID := range meta.Rules {
			g.Rules[slug] = ruleID
		}
		idx = end + 1
	}

	var current *Section
	var bodyLines []string
	inFence := false
	var snippet *Snippet

	flushSection := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimRight(strings.Join(bodyLines, "\n"), "\n")
		g.Sections = append(g.Sections, *current)
		current, bodyLines = nil, nil
	}

	for ; idx < len(lines); idx++ {
		line := lines[idx]

		if isCodeFence(line) {
			if inFence {
				if snippet != nil && current != nil {
					snippet.Code = strings.TrimRight(snippet.Code, "\n")
					current.Snippets = append(current.Snippets, *snippet)
				}
				snippet = nil
				inFence = false
			} else {
				inFence = true
				if lang, label, ok := parseFenceInfo(line, g.Language); ok {
					snippet = &Snippet{
						Language: lang,
						Label:    label,
						Line:     idx + 1,
					}
				}
			}
			if current != nil {
				bodyLines = append(bodyLines, line)
			}
			continue
		}

		if inFence {
			if snippet != nil {
				snippet.Code += line + "\n"
			}
			if current != nil {
				bodyLines = append(bodyLines, line)
			}
			continue
		}

		if isHeading(line) {
			level, text := parseHeading(line)
			switch level {
			case 1:
				if g.Title == "" {
					g.Title = text
				}
			case 2:
				flushSection()
				current = &Section{
					Slug:      Slugify(text),
					Title:     text,
					StartLine: idx + 1,
				}
			}
		}

		if current != nil {
			bodyLines = append(bodyLines, line)
		}
	}
	flushSection()

	if inFence {
		return nil, fmt.Errorf("unclosed code fence")
	}
	return g, nil
}

// parseFenceInfo reads the fence info string. The second word, when it
// is bad or good, tags the snippet; a lone bad/good tag inherits the
// guide's default language.
func parseFenceInfo(line, defaultLanguage string) (lang string, label Label, ok bool) {
	info := strings.TrimLeft(strings.TrimSpace(line), "`~")
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return "", "", false
	}

	switch Label(fields[len(fields)-1]) {
	case LabelBad, LabelGood:
		label = Label(fields[len(fields)-1])
	default:
		return "", "", false
	}

	if len(fields) > 1 {
		lang = fields[0]
	} else {
		lang = defaultLanguage
	}
	return lang, label, true
}

// isDelimiter reports whether a line is a frontmatter delimiter.
func isDelimiter(line string) bool {
	return strings.TrimRight(line, "\r") == "---"
}

// findDelimiter returns the index of the next delimiter line, or -1.
func findDelimiter(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			return i
		}
	}
	return -1
}

// isCodeFence checks if a line is a code fence (``` or ~~~).
func isCodeFence(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// isHeading checks if a line is a markdown heading.
func isHeading(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// parseHeading extracts the level and text from a heading line.
func parseHeading(line string) (int, string) {
	trimmed := strings.TrimSpace(line)
	level := 0
	for _, ch := range trimmed {
		if ch == '#' {
			level++
		} else {
			break
		}
	}
	if level > 6 {
		level = 6
	}
	text := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
	return level, text
}

// Slugify turns a heading into its section slug: lower case, spaces to
// hyphens, everything else dropped.
func Slugify(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteRune('-')
		}
	}
	slug := sb.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
