package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/jonathan/listing-copywriter/internal/db"
	"github.com/jonathan/listing-copywriter/internal/scoring"
	"github.com/jonathan/listing-copywriter/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// barWidth is the width of a 0-100 score bar
	barWidth = 20
)

// colorMarkers stand in for the score colors on a terminal
var colorMarkers = map[string]string{
	"green":  "●",
	"blue":   "◐",
	"yellow": "◔",
	"red":    "○",
}

// Printer writes human-readable reports for the CLI
type Printer struct {
	out io.Writer
	now func() time.Time
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, now: time.Now}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDescription outputs generated copy, wrapped to the box width.
func (p *Printer) PrintDescription(title, text string) {
	p.printBox(title, text)
}

// PrintScoreReport outputs the three scores with bars and labels, then the text statistics.
func (p *Printer) PrintScoreReport(title string, r types.ScoreResult) {
	var sb strings.Builder

	sb.WriteString(scoreLine("Overall", r.OverallScore, ""))
	sb.WriteString(scoreLine("Readability", r.ReadabilityScore, r.ReadabilityLabel))
	sb.WriteString(scoreLine("SEO", r.SEOScore, r.SEOLabel))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Words: %s   Characters: %s   Sentences: %d\n",
		humanize.Comma(int64(r.WordCount)), humanize.Comma(int64(r.CharacterCount)), r.SentenceCount))
	sb.WriteString(fmt.Sprintf("Avg sentence length: %.1f words   Keyword mentions: %d",
		r.AverageSentenceLength, r.KeywordMentions))

	p.printBox(title, sb.String())
}

func scoreLine(name string, score int, label string) string {
	filled := score * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	line := fmt.Sprintf("%s %-12s %3d/100 %s", colorMarkers[scoring.ScoreColor(score)], name, score, bar)
	if label != "" {
		line += "  " + label
	}
	return line + "\n"
}

// PrintHistory outputs one line per stored description, newest first.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintHistory(descriptions []db.Description) {
	if len(descriptions) == 0 {
		fmt.Fprintln(p.out, "No saved descriptions yet.")
		return
	}

	var sb strings.Builder
	for i, d := range descriptions {
		sb.WriteString(fmt.Sprintf("%s  %s\n", d.ID, d.Title))
		sb.WriteString(fmt.Sprintf("  %s · %s · %s · overall %d · %s\n",
			d.PropertyType, d.Location, d.Property().FormattedPrice(), d.OverallScore, humanize.RelTime(d.CreatedAt, p.now(), "ago", "from now")))
		sb.WriteString(fmt.Sprintf("  %s", d.ShortDescription()))
		if i < len(descriptions)-1 {
			sb.WriteString("\n\n")
		}
	}

	p.printBox(fmt.Sprintf("HISTORY (%d)", len(descriptions)), sb.String())
}

// PrintRecord outputs a stored description with its property data and scores.
func (p *Printer) PrintRecord(d *db.Description) {
	if d == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s\n", d.ID))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", d.Title))
	sb.WriteString(fmt.Sprintf("Type:     %s\n", d.PropertyType))
	sb.WriteString(fmt.Sprintf("Location: %s\n", d.Location))
	sb.WriteString(fmt.Sprintf("Price:    %s\n", d.Property().FormattedPrice()))
	sb.WriteString(fmt.Sprintf("Features: %s\n", d.KeyFeatures))
	sb.WriteString(fmt.Sprintf("Tone:     %s\n", d.Tone))
	sb.WriteString(fmt.Sprintf("Created:  %s (%s)", d.CreatedAt.Format(time.RFC1123), humanize.RelTime(d.CreatedAt, p.now(), "ago", "from now")))

	p.printBox("PROPERTY", sb.String())
	p.PrintDescription("DESCRIPTION", d.GeneratedDescription)
	p.PrintScoreReport("SCORES", d.Scores())
}

// pad right-pads s with spaces to width display characters
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// wrap breaks line into chunks no wider than width, preferring word boundaries
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	var lines []string
	var current []rune
	for _, word := range strings.Fields(line) {
		w := []rune(word)
		for len(w) > width {
			if len(current) > 0 {
				lines = append(lines, string(current))
				current = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(current) == 0:
			current = w
		case len(current)+1+len(w) <= width:
			current = append(append(current, ' '), w...)
		default:
			lines = append(lines, string(current))
			current = w
		}
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}
