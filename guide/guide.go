// Package guide parses and verifies the style guide document: a
// markdown file whose sections describe rules and carry paired bad and
// good code snippets the engine can check against itself.
package guide

import (
	"fmt"
	"os"
)

// Label tags a fenced snippet as the discouraged or preferred form.
type Label string

const (
	// LabelBad marks a snippet the mapped rule must flag.
	LabelBad Label = "bad"

	// LabelGood marks the counterpart the rule must accept.
	LabelGood Label = "good"
)

// Snippet is one fenced code block tagged bad or good.
type Snippet struct {
	// Language from the fence info string, falling back to the guide's
	// default language.
	Language string

	// Label is bad or good.
	Label Label

	// Code is the fence body.
	Code string

	// Line is the 1-based guide line of the opening fence.
	Line int
}

// Section is one level-two heading with its prose and snippets.
type Section struct {
	// Slug identifies the section for the frontmatter rules mapping.
	Slug string

	// Title is the heading text.
	Title string

	// Body is the section's full markdown, heading included.
	Body string

	// StartLine is the 1-based guide line of the heading.
	StartLine int

	// Snippets are the tagged fenced blocks, in document order.
	Snippets []Snippet
}

// ByLabel returns the section's snippets carrying the given label.
func (s *Section) ByLabel(label Label) []Snippet {
	var out []Snippet
	for _, snip := range s.Snippets {
		if snip.Label == label {
			out = append(out, snip)
		}
	}
	return out
}

// Guide is a parsed style guide document.
type Guide struct {
	// Path is where the guide was loaded from.
	Path string

	// Title from frontmatter, or the first level-one heading.
	Title string

	// Language is the default snippet language from frontmatter.
	Language string

	// Rules maps section slugs to the rule IDs they document.
	Rules map[string]string

	// Sections in document order.
	Sections []Section
}

// Section returns the section with the given slug.
func (g *Guide) Section(slug string) (*Section, bool) {
	for i := range g.Sections {
		if g.Sections[i].Slug == slug {
			return &g.Sections[i], true
		}
	}
	return nil, false
}

// RuleFor returns the rule ID a section documents, if mapped.
func (g *Guide) RuleFor(slug string) (string, bool) {
	id, ok := g.Rules[slug]
	return id, ok
}

// Load reads and parses a guide file.
func Load(path string) (*Guide, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guide: %w", err)
	}
	return Parse(path, content)
}
