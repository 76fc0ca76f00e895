package layout

import (
	"math"
	"testing"

	"github.com/FocuswithJustin/VerseDeck/core/errors"
	"github.com/FocuswithJustin/VerseDeck/core/passage"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// drawnText is one DrawText call with the style in effect when it ran.
type drawnText struct {
	text  string
	x, y  float64
	font  string
	size  float64
	color string
}

// fakeSurface records draw instructions for assertions.
type fakeSurface struct {
	font  string
	size  float64
	color string

	texts []drawnText
	rects int
	pages int
}

func (f *fakeSurface) SetFill(color string)            { f.color = color }
func (f *fakeSurface) SetFont(name string, s float64)  { f.font, f.size = name, s }
func (f *fakeSurface) FillRect(x, y, w, h float64)     { f.rects++ }
func (f *fakeSurface) NextPage()                       { f.pages++ }
func (f *fakeSurface) DrawText(text string, x, y float64) {
	f.texts = append(f.texts, drawnText{text: text, x: x, y: y, font: f.font, size: f.size, color: f.color})
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Config{Measure: measureTenPerChar})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e
}

func TestNewRequiresMeasurer(t *testing.T) {
	_, err := New(Config{})
	if err == nil {
		t.Fatal("New() with no measurer succeeded, want error")
	}
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestLayoutTitleSlideFirst(t *testing.T) {
	e := newTestEngine(t)
	slides := e.Layout(passage.RawPassage{
		Reference: "John 3:16",
		Text:      "[16] For God so loved the world",
	})
	if len(slides) != 2 {
		t.Fatalf("got %d slides, want 2", len(slides))
	}
	if slides[0].Kind != SlideTitle {
		t.Errorf("first slide kind = %d, want title", slides[0].Kind)
	}
	if slides[0].Reference != "John 3:16" {
		t.Errorf("title reference = %q", slides[0].Reference)
	}
	if len(slides[0].Lines) != 0 {
		t.Errorf("title slide has %d lines, want 0", len(slides[0].Lines))
	}
	if slides[1].Kind != SlideBody {
		t.Errorf("second slide kind = %d, want body", slides[1].Kind)
	}
}

// TestLayoutEmptyPassage verifies an empty passage still yields its
// title slide.
func TestLayoutEmptyPassage(t *testing.T) {
	e := newTestEngine(t)
	slides := e.Layout(passage.RawPassage{Reference: "Psalm 117", Text: ""})
	if len(slides) != 1 {
		t.Fatalf("got %d slides, want 1", len(slides))
	}
	if slides[0].Kind != SlideTitle {
		t.Errorf("slide kind = %d, want title", slides[0].Kind)
	}
}

func TestDrawTitleSlide(t *testing.T) {
	e := newTestEngine(t)
	s := &fakeSurface{}
	e.Draw([]Slide{{Kind: SlideTitle, Reference: "John 3:16"}}, s)

	if s.rects != 1 {
		t.Errorf("background rects = %d, want 1", s.rects)
	}
	if s.pages != 0 {
		t.Errorf("pages advanced = %d, want 0", s.pages)
	}
	if len(s.texts) != 2 {
		t.Fatalf("got %d texts, want title and footer: %+v", len(s.texts), s.texts)
	}

	title := s.texts[0]
	if title.text != "John 3:16" {
		t.Errorf("title text = %q", title.text)
	}
	// Nine characters at ten units each center at (1920-90)/2.
	if title.x != 915 || title.y != 540 {
		t.Errorf("title at (%g, %g), want (915, 540)", title.x, title.y)
	}
	if title.font != "sans-bold" || title.size != 72 {
		t.Errorf("title font = %s@%g, want sans-bold@72", title.font, title.size)
	}

	footer := s.texts[1]
	if footer.text != "ESV" {
		t.Errorf("footer text = %q, want ESV", footer.text)
	}
	if footer.x != 150 || footer.y != 1020 {
		t.Errorf("footer at (%g, %g), want (150, 1020)", footer.x, footer.y)
	}
	if footer.font != "sans" || footer.size != 24 {
		t.Errorf("footer font = %s@%g, want sans@24", footer.font, footer.size)
	}
}

func TestDrawBodySlideSegments(t *testing.T) {
	e := newTestEngine(t)
	s := &fakeSurface{}
	slide := Slide{
		Kind:      SlideBody,
		Reference: "John 3:16",
		Lines: []Line{
			{Kind: LineBody, Text: "[16] For God so loved the world"},
		},
	}
	e.Draw([]Slide{slide}, s)

	if len(s.texts) != 3 {
		t.Fatalf("got %d texts, want verse, text, footer: %+v", len(s.texts), s.texts)
	}

	verse := s.texts[0]
	if verse.text != "16" {
		t.Errorf("verse segment = %q, want 16", verse.text)
	}
	if verse.x != 150 {
		t.Errorf("verse x = %g, want 150", verse.x)
	}
	// Baseline rises by 0.4 of the body size: 150 - 25.6.
	if !approx(verse.y, 124.4) {
		t.Errorf("verse y = %g, want 124.4", verse.y)
	}
	if verse.size != 42 {
		t.Errorf("verse size = %g, want 42", verse.size)
	}

	text := s.texts[1]
	if text.text != " For God so loved the world" {
		t.Errorf("text segment = %q", text.text)
	}
	// The verse number measures 20 units, advancing x from the margin.
	if text.x != 170 || text.y != 150 {
		t.Errorf("text at (%g, %g), want (170, 150)", text.x, text.y)
	}
	if text.size != 64 {
		t.Errorf("text size = %g, want 64", text.size)
	}

	footer := s.texts[2]
	if footer.text != "John 3:16 | ESV" {
		t.Errorf("footer = %q, want \"John 3:16 | ESV\"", footer.text)
	}
}

func TestDrawHeadingCenteredBold(t *testing.T) {
	e := newTestEngine(t)
	s := &fakeSurface{}
	slide := Slide{
		Kind:      SlideBody,
		Reference: "Matthew 5:1-2",
		Lines: []Line{
			{Kind: LineHeading, Text: "The Sermon on the Mount"},
			{Kind: LineBody, Text: "Seeing the crowds"},
		},
	}
	e.Draw([]Slide{slide}, s)

	heading := s.texts[0]
	if heading.font != "sans-bold" || heading.size != 64 {
		t.Errorf("heading font = %s@%g, want sans-bold@64", heading.font, heading.size)
	}
	// 23 characters at ten units center at (1920-230)/2; first line draws
	// at the top margin with no gap.
	if heading.x != 845 || heading.y != 150 {
		t.Errorf("heading at (%g, %g), want (845, 150)", heading.x, heading.y)
	}

	body := s.texts[1]
	if body.y != 246 {
		t.Errorf("body y = %g, want 246", body.y)
	}
}

// TestDrawHeadingGap verifies a heading below other content skips one
// extra line height for its gap.
func TestDrawHeadingGap(t *testing.T) {
	e := newTestEngine(t)
	s := &fakeSurface{}
	slide := Slide{
		Kind:      SlideBody,
		Reference: "ref",
		Lines: []Line{
			{Kind: LineBody, Text: "before"},
			{Kind: LineHeading, Text: "Heading"},
		},
	}
	e.Draw([]Slide{slide}, s)

	// Body draws at 150. The heading would draw at 246 but the gap pushes
	// it to 342.
	heading := s.texts[1]
	if heading.text != "Heading" {
		t.Fatalf("second text = %q, want heading", heading.text)
	}
	if heading.y != 342 {
		t.Errorf("heading y = %g, want 342", heading.y)
	}
}

func TestDrawPoetryIndent(t *testing.T) {
	e := newTestEngine(t)
	s := &fakeSurface{}
	slide := Slide{
		Kind:      SlideBody,
		Reference: "Psalm 23",
		Lines: []Line{
			{Kind: LinePoetry, Text: "and all that is within me,", Indent: 2},
		},
	}
	e.Draw([]Slide{slide}, s)

	poetry := s.texts[0]
	// Two leading spaces offset the margin by 2*64*0.3.
	if !approx(poetry.x, 188.4) {
		t.Errorf("poetry x = %g, want 188.4", poetry.x)
	}
}

func TestDrawAdvancesPages(t *testing.T) {
	e := newTestEngine(t)
	s := &fakeSurface{}
	slides := []Slide{
		{Kind: SlideTitle, Reference: "ref"},
		{Kind: SlideBody, Reference: "ref", Lines: []Line{{Kind: LineBody, Text: "one"}}},
		{Kind: SlideBody, Reference: "ref", Lines: []Line{{Kind: LineBody, Text: "two"}}},
	}
	e.Draw(slides, s)

	if s.pages != 2 {
		t.Errorf("pages advanced = %d, want 2", s.pages)
	}
	if s.rects != 3 {
		t.Errorf("background rects = %d, want 3", s.rects)
	}
}
