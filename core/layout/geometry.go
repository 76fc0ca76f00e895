package layout

import "math"

// Base slide dimensions and font sizes, tuned for a 1920x1080 slide with
// a body size of 64. Distances are PDF points.
const (
	baseWidth        = 1920.0
	baseHeight       = 1080.0
	baseMarginLeft   = 150.0
	baseMarginRight  = 150.0
	baseMarginTop    = 150.0
	baseMarginBottom = 120.0

	baseBodySize   = 64.0
	baseTitleSize  = 72.0
	baseVerseSize  = 42.0
	baseFooterSize = 24.0

	// Leading space characters on a poetry line each consume this fraction
	// of the body size in horizontal offset.
	indentFactor = 0.3

	// Verse numbers are raised above the body baseline by this fraction of
	// the body size.
	superscriptFactor = 0.4

	// Footer baseline sits this far below the bottom content margin.
	footerDrop = 60.0
)

// Geometry fixes the slide coordinate system for one deck: dimensions,
// margins, scaled font sizes, and the derived line height. The origin is
// the top-left corner; y values are text baselines.
type Geometry struct {
	Width  float64
	Height float64

	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64

	TitleSize  float64
	BodySize   float64
	VerseSize  float64
	FooterSize float64

	LineHeight float64
}

// NewGeometry derives the slide geometry for a body font size. Title,
// verse, and footer sizes scale relative to the base body size of 64 and
// truncate to whole points. A non-positive size falls back to the base.
func NewGeometry(bodySize float64) Geometry {
	if bodySize <= 0 {
		bodySize = baseBodySize
	}
	scale := bodySize / baseBodySize
	g := Geometry{
		Width:        baseWidth,
		Height:       baseHeight,
		MarginLeft:   baseMarginLeft,
		MarginRight:  baseMarginRight,
		MarginTop:    baseMarginTop,
		MarginBottom: baseMarginBottom,
		TitleSize:    math.Trunc(baseTitleSize * scale),
		BodySize:     bodySize,
		VerseSize:    math.Trunc(baseVerseSize * scale),
		FooterSize:   math.Trunc(baseFooterSize * scale),
	}
	g.LineHeight = g.BodySize * 1.5
	return g
}

// ContentWidth is the usable line width between the side margins.
func (g Geometry) ContentWidth() float64 {
	return g.Width - g.MarginLeft - g.MarginRight
}

// ContentHeight is the usable height between the vertical margins.
func (g Geometry) ContentHeight() float64 {
	return g.Height - g.MarginTop - g.MarginBottom
}

// MaxLines is how many line-height units fit in the content area.
func (g Geometry) MaxLines() int {
	if g.LineHeight <= 0 {
		return 0
	}
	return int(g.ContentHeight() / g.LineHeight)
}

// IndentOffset is the horizontal offset for a poetry line with the given
// number of leading spaces.
func (g Geometry) IndentOffset(spaces int) float64 {
	return float64(spaces) * g.BodySize * indentFactor
}

// SuperscriptRise is how far verse numbers rise above the body baseline.
func (g Geometry) SuperscriptRise() float64 {
	return g.BodySize * superscriptFactor
}

// FooterBaseline is the y coordinate of the footer text baseline.
func (g Geometry) FooterBaseline() float64 {
	return g.Height - g.MarginBottom + footerDrop
}

// Style carries the deck colors and font names. Colors are hex strings
// like "#FFFFFF"; fonts are logical names resolved by the surface.
type Style struct {
	Background  string
	Text        string
	VerseNumber string
	Font        string
	BoldFont    string
}

// DefaultStyle is the stock dark deck: white text on black, built-in
// sans face.
func DefaultStyle() Style {
	return Style{
		Background:  "#000000",
		Text:        "#FFFFFF",
		VerseNumber: "#FFFFFF",
		Font:        "sans",
		BoldFont:    "sans-bold",
	}
}
