package guide

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// blankRunRe matches runs of blank lines in converted output.
var blankRunRe = regexp.MustCompile(`\n{4,}`)

// ConvertResult contains the result of HTML to markdown conversion.
type ConvertResult struct {
	Title    string
	Markdown string
}

// Converter turns fetched HTML into guide markdown: readability
// extraction isolates the article, then the markdown conversion runs
// over that.
type Converter struct {
	converter *md.Converter
}

// NewConverter creates a new HTML to markdown converter.
func NewConverter() *Converter {
	conv := md.NewConverter("", true, nil)

	// GitHub-flavored output keeps fenced code blocks intact, which the
	// guide format depends on.
	conv.Use(plugin.GitHubFlavored())

	return &Converter{converter: conv}
}

// Convert transforms HTML content to guide markdown. The page URL
// resolves relative links during extraction.
func (c *Converter) Convert(htmlContent []byte, pageURL string) (*ConvertResult, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		parsedURL = &url.URL{}
	}

	body := string(htmlContent)
	title := extractHTMLTitle(htmlContent)
	if article, err := readability.FromReader(bytes.NewReader(htmlContent), parsedURL); err == nil && article.Content != "" {
		body = article.Content
		if title == "" {
			title = article.Title
		}
	}

	markdown, err := c.converter.ConvertString(body)
	if err != nil {
		return nil, fmt.Errorf("convert to markdown: %w", err)
	}
	markdown = cleanMarkdown(markdown)

	if title == "" {
		title = extractMarkdownTitle(markdown)
	}

	return &ConvertResult{
		Title:    title,
		Markdown: markdown,
	}, nil
}

// NeedsConversion reports whether fetched content is HTML rather than
// markdown or plain text served as-is.
func NeedsConversion(contentType string) bool {
	ct := strings.ToLower(contentType)
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	ct = strings.TrimSpace(ct)
	switch ct {
	case "text/markdown", "text/x-markdown", "text/plain":
		return false
	}
	return true
}

// extractHTMLTitle returns the trimmed text of the document's <title>
// element, or "" when it has none.
func extractHTMLTitle(content []byte) string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return ""
	}
	node := findTitleNode(doc)
	if node == nil || node.FirstChild == nil {
		return ""
	}
	return strings.TrimSpace(node.FirstChild.Data)
}

func findTitleNode(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "title" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTitleNode(c); found != nil {
			return found
		}
	}
	return nil
}

// cleanMarkdown normalizes converter output: trailing whitespace goes
// from every line, and runs of blank lines collapse to at most two.
func cleanMarkdown(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = strings.Join(lines, "\n")
	content = blankRunRe.ReplaceAllString(content, "\n\n\n")
	return strings.TrimSpace(content)
}

// extractMarkdownTitle returns the first H1 heading in the markdown.
func extractMarkdownTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if heading, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(heading)
		}
	}
	return ""
}
