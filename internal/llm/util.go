package llm

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	boldPattern      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern    = regexp.MustCompile(`\*([^*\n]+?)\*`)
	headingPattern   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	htmlTagPattern   = regexp.MustCompile(`<(?:[a-zA-Z][a-zA-Z0-9]*|/[a-zA-Z][a-zA-Z0-9]*)(?:\s[^<>]*)?/?>`)
	blankRunsPattern = regexp.MustCompile(`\n{3,}`)
)

// quotePairs are the wrappers models like to put around the whole answer
var quotePairs = [][2]string{{`"`, `"`}, {`'`, `'`}, {"“", "”"}, {"‘", "’"}}

// CleanDescription turns a raw model answer into plain listing copy: surrounding quotes,
// markdown emphasis and headings, and HTML tags are removed. Paragraph breaks survive.
func CleanDescription(text string) string {
	text = strings.TrimSpace(text)
	text = stripWrappingQuotes(text)

	text = boldPattern.ReplaceAllString(text, "$1")
	text = italicPattern.ReplaceAllString(text, "$1")
	text = headingPattern.ReplaceAllString(text, "")

	if htmlTagPattern.MatchString(text) {
		text = stripHTML(text)
	}

	text = blankRunsPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func stripWrappingQuotes(text string) string {
	for _, q := range quotePairs {
		if len(text) >= len(q[0])+len(q[1]) && strings.HasPrefix(text, q[0]) && strings.HasSuffix(text, q[1]) {
			return strings.TrimSpace(text[len(q[0]) : len(text)-len(q[1])])
		}
	}
	return text
}

// stripHTML drops tags while keeping block boundaries as blank lines
func stripHTML(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return htmlTagPattern.ReplaceAllString(text, "")
	}

	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(textNode("\n"))
	})
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(textNode("\n\n"))
	})

	lines := strings.Split(doc.Find("body").Text(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

func textNode(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}
