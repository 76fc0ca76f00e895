package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/FocuswithJustin/VerseDeck/core/errors"
	"github.com/FocuswithJustin/VerseDeck/core/layout"
)

type faceKey struct {
	name string
	size float64
}

// PNG renders slides as numbered image files, one per slide. A path like
// output/deck.png produces output/deck_001.png, output/deck_002.png, and
// so on. At 72 DPI one layout point equals one pixel, so the geometry maps
// directly onto the image. Drawing errors are sticky and reported by Close.
type PNG struct {
	base    string
	dc      *gg.Context
	err     error
	page    int
	written []string

	width  int
	height int

	fonts  *Fonts
	parsed map[string]*truetype.Font
	faces  map[faceKey]font.Face
}

// NewPNG creates a PNG surface sized to the geometry.
func NewPNG(path string, geom layout.Geometry, fonts *Fonts) *PNG {
	p := &PNG{
		base:   path,
		width:  int(geom.Width),
		height: int(geom.Height),
		fonts:  fonts,
		parsed: make(map[string]*truetype.Font),
		faces:  make(map[faceKey]font.Face),
		page:   1,
	}
	p.dc = gg.NewContext(p.width, p.height)
	return p
}

func (p *PNG) pagePath(page int) string {
	ext := filepath.Ext(p.base)
	stem := strings.TrimSuffix(p.base, ext)
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("%s_%03d%s", stem, page, ext)
}

func (p *PNG) face(name string, size float64) (font.Face, error) {
	key := faceKey{name, size}
	if f, ok := p.faces[key]; ok {
		return f, nil
	}

	parsed, ok := p.parsed[name]
	if !ok {
		data, err := p.fonts.Bytes(name)
		if err != nil {
			return nil, err
		}
		parsed, err = truetype.Parse(data)
		if err != nil {
			return nil, errors.NewParse("font", name, err.Error())
		}
		p.parsed[name] = parsed
	}

	f := truetype.NewFace(parsed, &truetype.Options{Size: size, DPI: 72})
	p.faces[key] = f
	return f, nil
}

// SetFill sets the current fill color ("#RRGGBB").
func (p *PNG) SetFill(color string) {
	p.dc.SetHexColor(color)
}

// SetFont sets the current face by registry name and point size.
func (p *PNG) SetFont(name string, size float64) {
	if p.err != nil {
		return
	}
	f, err := p.face(name, size)
	if err != nil {
		p.err = err
		return
	}
	p.dc.SetFontFace(f)
}

// DrawText draws text with its baseline at (x, y).
func (p *PNG) DrawText(text string, x, y float64) {
	if p.err != nil {
		return
	}
	p.dc.DrawString(text, x, y)
}

// FillRect fills a rectangle in the current fill color.
func (p *PNG) FillRect(x, y, w, h float64) {
	p.dc.DrawRectangle(x, y, w, h)
	p.dc.Fill()
}

// NextPage writes the current image and starts a fresh one.
func (p *PNG) NextPage() {
	if p.err != nil {
		return
	}
	path := p.pagePath(p.page)
	if err := p.dc.SavePNG(path); err != nil {
		p.err = errors.NewIO("write", path, err)
		return
	}
	p.written = append(p.written, path)
	p.page++
	p.dc = gg.NewContext(p.width, p.height)
}

// Measure returns the advance width of text in points. Measurement uses a
// cached face directly so it never disturbs the drawing state.
func (p *PNG) Measure(text, fontName string, size float64) float64 {
	f, err := p.face(fontName, size)
	if err != nil {
		if p.err == nil {
			p.err = err
		}
		return 0
	}
	return float64(font.MeasureString(f, text)) / 64
}

// Close writes the final image.
func (p *PNG) Close() error {
	if p.err != nil {
		return p.err
	}
	path := p.pagePath(p.page)
	if err := p.dc.SavePNG(path); err != nil {
		return errors.NewIO("write", path, err)
	}
	p.written = append(p.written, path)
	return nil
}

// Files returns the image paths written so far.
func (p *PNG) Files() []string {
	return p.written
}
