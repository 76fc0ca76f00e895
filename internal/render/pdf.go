package render

import (
	"bytes"
	"fmt"
	"os"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/FocuswithJustin/VerseDeck/core/errors"
	"github.com/FocuswithJustin/VerseDeck/core/layout"
)

// Points to millimeters. Geometry works in points; canvas pages in mm.
const (
	ptToMm = 0.352777
	mmToPt = 1.0 / ptToMm
)

// PDFInfo carries document metadata.
type PDFInfo struct {
	Title   string
	Subject string
}

// PDF renders slides into a single PDF file via github.com/tdewolff/canvas.
// Drawing errors are sticky and reported by Close.
type PDF struct {
	path   string
	buf    bytes.Buffer
	writer *pdf.PDF
	c      *canvas.Canvas
	ctx    *canvas.Context
	err    error

	fonts    *Fonts
	families map[string]*canvas.FontFamily

	fillHex  string
	fontName string
	fontSize float64

	widthMm  float64
	heightMm float64
}

// NewPDF creates a PDF surface sized to the geometry. The file at path is
// written on Close.
func NewPDF(path string, geom layout.Geometry, fonts *Fonts, info PDFInfo) *PDF {
	p := &PDF{
		path:     path,
		fonts:    fonts,
		families: make(map[string]*canvas.FontFamily),
		fillHex:  "#FFFFFF",
		fontName: "sans",
		fontSize: geom.BodySize,
		widthMm:  geom.Width * ptToMm,
		heightMm: geom.Height * ptToMm,
	}
	p.writer = pdf.New(&p.buf, p.widthMm, p.heightMm, nil)
	p.writer.SetInfo(info.Title, info.Subject, "", "", "versedeck")
	p.newPageCanvas()
	return p
}

func (p *PDF) newPageCanvas() {
	p.c = canvas.New(p.widthMm, p.heightMm)
	p.ctx = canvas.NewContext(p.c)
	// Top-left origin to match the layout coordinates
	p.ctx.SetCoordSystem(canvas.CartesianIV)
}

func (p *PDF) family(name string) (*canvas.FontFamily, error) {
	if family, ok := p.families[name]; ok {
		return family, nil
	}
	data, err := p.fonts.Bytes(name)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, errors.NewParse("font", name, err.Error())
	}
	p.families[name] = family
	return family, nil
}

func (p *PDF) face(name string, size float64, col string) (*canvas.FontFace, error) {
	family, err := p.family(name)
	if err != nil {
		return nil, err
	}
	return family.Face(size, canvas.Hex(col), canvas.FontRegular, canvas.FontNormal), nil
}

// SetFill sets the current fill color ("#RRGGBB").
func (p *PDF) SetFill(color string) {
	p.fillHex = color
}

// SetFont sets the current face by registry name and point size.
func (p *PDF) SetFont(name string, size float64) {
	p.fontName = name
	p.fontSize = size
}

// DrawText draws text with its baseline at (x, y) points.
func (p *PDF) DrawText(text string, x, y float64) {
	if p.err != nil {
		return
	}
	face, err := p.face(p.fontName, p.fontSize, p.fillHex)
	if err != nil {
		p.err = err
		return
	}
	line := canvas.NewTextLine(face, text, canvas.Left)
	p.ctx.DrawText(x*ptToMm, y*ptToMm, line)
}

// FillRect fills a rectangle in the current fill color.
func (p *PDF) FillRect(x, y, w, h float64) {
	if p.err != nil {
		return
	}
	p.ctx.SetFillColor(canvas.Hex(p.fillHex))
	p.ctx.DrawPath(x*ptToMm, y*ptToMm, canvas.Rectangle(w*ptToMm, h*ptToMm))
}

// NextPage flushes the current page and starts a fresh one.
func (p *PDF) NextPage() {
	if p.err != nil {
		return
	}
	p.c.RenderTo(p.writer)
	p.writer.NewPage(p.widthMm, p.heightMm)
	p.newPageCanvas()
}

// Measure returns the advance width of text in points.
func (p *PDF) Measure(text, font string, size float64) float64 {
	face, err := p.face(font, size, "#000000")
	if err != nil {
		if p.err == nil {
			p.err = err
		}
		return 0
	}
	return face.TextWidth(text) * mmToPt
}

// Close flushes the last page and writes the PDF file.
func (p *PDF) Close() error {
	if p.err != nil {
		return p.err
	}
	p.c.RenderTo(p.writer)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("finalizing PDF: %w", err)
	}
	if err := os.WriteFile(p.path, p.buf.Bytes(), 0o644); err != nil {
		return errors.NewIO("write", p.path, err)
	}
	return nil
}

// Files returns the output paths this surface writes.
func (p *PDF) Files() []string {
	return []string{p.path}
}
