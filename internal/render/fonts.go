package render

import (
	"os"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/FocuswithJustin/VerseDeck/core/errors"
)

// Fonts maps font names to raw TTF/OTF data. The built-in names are
// "sans", "sans-bold", "mono" and "mono-bold", backed by the Go fonts.
type Fonts struct {
	data map[string][]byte
}

// NewFonts returns a registry pre-loaded with the built-in faces.
func NewFonts() *Fonts {
	return &Fonts{data: map[string][]byte{
		"sans":      goregular.TTF,
		"sans-bold": gobold.TTF,
		"mono":      gomono.TTF,
		"mono-bold": gomonobold.TTF,
	}}
}

// Register adds (or replaces) a font under name.
func (f *Fonts) Register(name string, data []byte) {
	f.data[name] = data
}

// RegisterFile loads a .ttf or .otf file and registers it under name.
func (f *Fonts) RegisterFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewIO("read", path, err)
	}
	f.data[name] = data
	return nil
}

// Bytes returns the raw font data for name.
func (f *Fonts) Bytes(name string) ([]byte, error) {
	data, ok := f.data[name]
	if !ok {
		return nil, errors.NewNotFound("font", name)
	}
	return data, nil
}

// Has reports whether name is registered.
func (f *Fonts) Has(name string) bool {
	_, ok := f.data[name]
	return ok
}

// Bold returns the bold companion for name when one is registered,
// otherwise name itself. Custom fonts without a "-bold" variant render
// headings in the regular face.
func (f *Fonts) Bold(name string) string {
	if strings.HasSuffix(name, "-bold") {
		return name
	}
	if bold := name + "-bold"; f.Has(bold) {
		return bold
	}
	return name
}

// IsFontPath reports whether the configured font value names a font file
// rather than a built-in face.
func IsFontPath(font string) bool {
	lower := strings.ToLower(font)
	return strings.HasSuffix(lower, ".ttf") || strings.HasSuffix(lower, ".otf")
}
