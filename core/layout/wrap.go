package layout

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/VerseDeck/core/passage"
)

// LineKind discriminates wrapped display lines.
type LineKind int

const (
	// LineHeading is a section heading, drawn centered and bold.
	LineHeading LineKind = iota
	// LineBody is a wrapped prose line.
	LineBody
	// LinePoetry is a wrapped poetry line carrying an indent.
	LinePoetry
)

// String returns the kind name.
func (k LineKind) String() string {
	switch k {
	case LineHeading:
		return "heading"
	case LineBody:
		return "body"
	case LinePoetry:
		return "poetry"
	default:
		return fmt.Sprintf("LineKind(%d)", int(k))
	}
}

// Line is one wrapped display line ready for slide placement. Indent is
// the count of leading spaces from the source poetry line and is zero
// for every other kind.
type Line struct {
	Kind   LineKind
	Text   string
	Indent int
}

// WrapText greedily packs words into lines no wider than maxWidth, using
// measure to size each candidate line. Words are never split: a single
// word wider than maxWidth occupies its own line and overflows. Input
// with no words yields no lines.
func WrapText(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current == "" || measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// WrapElements turns parsed elements into display lines at the deck's
// content width. Headings pass through unwrapped. Poetry lines wrap in
// the width remaining after their indent offset; only the first sub-line
// keeps the indent, continuations restart at the left margin.
func WrapElements(elements []passage.Element, geom Geometry, style Style, measure Measurer) []Line {
	bodyWidth := func(s string) float64 {
		return measure(s, style.Font, geom.BodySize)
	}

	var lines []Line
	for _, el := range elements {
		switch el.Kind {
		case passage.KindHeading:
			lines = append(lines, Line{Kind: LineHeading, Text: el.Text})
		case passage.KindBody:
			for _, text := range WrapText(el.Text, geom.ContentWidth(), bodyWidth) {
				lines = append(lines, Line{Kind: LineBody, Text: text})
			}
		case passage.KindPoetryLine:
			indent := len(el.Text) - len(strings.TrimLeft(el.Text, " "))
			available := geom.ContentWidth() - geom.IndentOffset(indent)
			for i, text := range WrapText(strings.TrimSpace(el.Text), available, bodyWidth) {
				line := Line{Kind: LinePoetry, Text: text}
				if i == 0 {
					line.Indent = indent
				}
				lines = append(lines, line)
			}
		}
	}
	return lines
}
