// Package layout turns parsed passage elements into fixed-size slides
// and draw instructions. It owns word wrapping, pagination, and inline
// verse-number segmentation; font metrics and drawing are injected so
// the package stays free of rendering dependencies.
package layout

import (
	"log/slog"

	"github.com/FocuswithJustin/VerseDeck/core/errors"
	"github.com/FocuswithJustin/VerseDeck/core/passage"
)

// Measurer returns the rendered width of text in the given font at the
// given size, in the same units as the slide geometry. It must be
// deterministic for the duration of a layout pass.
type Measurer func(text, font string, size float64) float64

// Surface receives the ordered draw instructions for a deck. Coordinates
// are top-left origin with y at the text baseline. Implementations
// finalize output on their own once drawing is complete.
type Surface interface {
	// SetFill selects the fill color, as a hex string like "#FFFFFF".
	SetFill(color string)
	// SetFont selects the font face and size for subsequent text.
	SetFont(name string, size float64)
	// DrawText draws text with its left edge at x and baseline at y.
	DrawText(text string, x, y float64)
	// FillRect fills the rectangle at (x, y) with the current color.
	FillRect(x, y, w, h float64)
	// NextPage finishes the current page and starts a fresh one.
	NextPage()
}

// Config parameterizes an Engine. Zero-value fields take defaults;
// Measure is required.
type Config struct {
	Geometry Geometry
	Style    Style
	// SourceLabel is the attribution in slide footers, "ESV" by default.
	SourceLabel string
	Measure     Measurer
	// Logger receives layout diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Engine lays passages out into slides and draws them onto a surface.
type Engine struct {
	geom    Geometry
	style   Style
	label   string
	measure Measurer
	log     *slog.Logger
}

// New builds an Engine from cfg. The measurer is required; geometry,
// style, and label default when unset.
func New(cfg Config) (*Engine, error) {
	if cfg.Measure == nil {
		return nil, &errors.ValidationError{Field: "Measure", Message: "a measurer is required"}
	}
	if cfg.Geometry == (Geometry{}) {
		cfg.Geometry = NewGeometry(baseBodySize)
	}
	if cfg.Style == (Style{}) {
		cfg.Style = DefaultStyle()
	}
	if cfg.SourceLabel == "" {
		cfg.SourceLabel = "ESV"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		geom:    cfg.Geometry,
		style:   cfg.Style,
		label:   cfg.SourceLabel,
		measure: cfg.Measure,
		log:     cfg.Logger,
	}, nil
}

// Geometry returns the engine's slide geometry.
func (e *Engine) Geometry() Geometry { return e.geom }

// Layout parses, wraps, and paginates one passage. The returned sequence
// starts with the passage's title slide, followed by its body slides.
func (e *Engine) Layout(p passage.RawPassage) []Slide {
	elements := passage.Parse(p.Text)
	lines := WrapElements(elements, e.geom, e.style, e.measure)
	slides := []Slide{{Kind: SlideTitle, Reference: p.Reference}}
	slides = append(slides, Paginate(lines, e.geom.MaxLines(), p.Reference)...)

	e.log.Debug("passage laid out",
		"reference", p.Reference,
		"elements", len(elements),
		"lines", len(lines),
		"slides", len(slides))
	return slides
}
