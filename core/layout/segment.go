package layout

import "regexp"

// SegmentKind discriminates display-line segments.
type SegmentKind int

const (
	// SegmentText is plain passage text drawn at body size.
	SegmentText SegmentKind = iota
	// SegmentVerseNumber is the digits of an inline verse marker, drawn
	// smaller and raised.
	SegmentVerseNumber
)

// Segment is a typed span of a display line. For verse numbers Text
// holds only the digits, brackets stripped.
type Segment struct {
	Kind SegmentKind
	Text string
}

var marker = regexp.MustCompile(`\[(\d+)\]`)

// SegmentLine splits a line into plain text and verse-number segments in
// source order. Text between, before, and after markers becomes a text
// segment when non-empty; bracket text that is not a bare number stays
// plain text. An empty line yields no segments.
func SegmentLine(line string) []Segment {
	var segments []Segment
	last := 0
	for _, m := range marker.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > last {
			segments = append(segments, Segment{Kind: SegmentText, Text: line[last:m[0]]})
		}
		segments = append(segments, Segment{Kind: SegmentVerseNumber, Text: line[m[2]:m[3]]})
		last = m[1]
	}
	if last < len(line) {
		segments = append(segments, Segment{Kind: SegmentText, Text: line[last:]})
	}
	return segments
}
