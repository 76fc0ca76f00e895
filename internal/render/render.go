// Package render provides drawing surfaces for slide decks: a PDF surface
// built on github.com/tdewolff/canvas and a PNG surface built on
// github.com/fogleman/gg. Both consume layout coordinates in points with a
// top-left origin and baseline y values.
package render

import (
	"fmt"

	"github.com/FocuswithJustin/VerseDeck/core/errors"
	"github.com/FocuswithJustin/VerseDeck/core/layout"
)

// Renderer is a layout.Surface bound to an output file, together with the
// text measurement the layout engine needs.
type Renderer interface {
	layout.Surface

	// Measure returns the advance width of text in points.
	Measure(text, font string, size float64) float64

	// Files lists the output paths the renderer has written or will write.
	Files() []string

	// Close finalizes the output. Any drawing error surfaces here.
	Close() error
}

var (
	_ Renderer = (*PDF)(nil)
	_ Renderer = (*PNG)(nil)
)

// New creates a renderer for the given output type ("pdf" or "png").
func New(outputType, path string, geom layout.Geometry, fonts *Fonts, info PDFInfo) (Renderer, error) {
	switch outputType {
	case "pdf":
		return NewPDF(path, geom, fonts, info), nil
	case "png":
		return NewPNG(path, geom, fonts), nil
	default:
		return nil, errors.NewUnsupported("output type", fmt.Sprintf("%q is not pdf or png", outputType))
	}
}

// OutputExt returns the file extension for an output type.
func OutputExt(outputType string) string {
	if outputType == "png" {
		return ".png"
	}
	return ".pdf"
}
