// Package passage classifies and parses fetched scripture text into
// ordered elements ready for layout. Passage text carries inline verse
// markers like [16] and marks poetry lines with leading spaces.
package passage

import (
	"fmt"
	"regexp"
	"strings"
)

// RawPassage is one fetched passage: the canonical reference and the
// plain text returned by the passage source.
type RawPassage struct {
	Reference string
	Text      string
}

// ElementKind discriminates parsed passage elements.
type ElementKind int

const (
	// KindHeading is a section heading such as "The Good Shepherd".
	KindHeading ElementKind = iota
	// KindBody is prose text joined from one or more source lines.
	KindBody
	// KindPoetryLine is a single verbatim poetry line, indentation intact.
	KindPoetryLine
)

// String returns the kind name.
func (k ElementKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindBody:
		return "body"
	case KindPoetryLine:
		return "poetry"
	default:
		return fmt.Sprintf("ElementKind(%d)", int(k))
	}
}

// Element is one parsed unit of passage text.
type Element struct {
	Kind ElementKind
	Text string
}

// String renders the element for diagnostics.
func (e Element) String() string {
	return fmt.Sprintf("%s(%q)", e.Kind, e.Text)
}

var verseMarker = regexp.MustCompile(`\[\d+\]`)

// IsHeading reports whether line is a section heading: non-empty after
// stripping, free of verse markers, and without leading indentation.
func IsHeading(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	if verseMarker.MatchString(line) {
		return false
	}
	return !strings.HasPrefix(line, " ")
}

// IsPoetry reports whether the passage uses indented poetry layout. The
// decision is made once from the full text: any line with a leading
// space and non-empty content switches the whole passage to poetry.
func IsPoetry(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, " ") && strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}

// Parse splits passage text into ordered elements. Blank lines are
// skipped. A heading flushes the accumulated body buffer and is emitted
// on its own. In a poetry passage every buffered line becomes its own
// PoetryLine with indentation preserved; in prose the buffered lines are
// stripped and joined into a single Body element per run.
func Parse(text string) []Element {
	poetry := IsPoetry(text)

	var elements []Element
	var buf []string

	flush := func() {
		if len(buf) == 0 {
			return
		}
		if poetry {
			for _, line := range buf {
				elements = append(elements, Element{Kind: KindPoetryLine, Text: line})
			}
		} else {
			elements = append(elements, Element{Kind: KindBody, Text: strings.Join(buf, " ")})
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if IsHeading(line) {
			flush()
			elements = append(elements, Element{Kind: KindHeading, Text: stripped})
			continue
		}
		if poetry {
			buf = append(buf, line)
		} else {
			buf = append(buf, stripped)
		}
	}
	flush()

	return elements
}
