package imagepkg

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// ErrResource marks a missing or unreadable font or template.
var ErrResource = errors.New("resource unavailable")

// Fonts holds the two faces a card is drawn with.
type Fonts struct {
	Name font.Face
	ID   font.Face
}

// LoadFonts reads a TrueType/OpenType file and builds the name and ID faces.
func LoadFonts(path string, nameSize, idSize float64) (*Fonts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: font %s: %w", ErrResource, path, err)
	}
	fonts, err := ParseFonts(data, nameSize, idSize)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", path, err)
	}
	return fonts, nil
}

// ParseFonts builds both faces from raw font data.
func ParseFonts(data []byte, nameSize, idSize float64) (*Fonts, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse font: %w", ErrResource, err)
	}
	name, err := newFace(f, nameSize)
	if err != nil {
		return nil, err
	}
	id, err := newFace(f, idSize)
	if err != nil {
		name.Close()
		return nil, err
	}
	return &Fonts{Name: name, ID: id}, nil
}

// Close releases both faces.
func (f *Fonts) Close() error {
	return errors.Join(f.Name.Close(), f.ID.Close())
}

// newFace uses 72 DPI so that size maps one to one onto pixels.
func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create face at %.1f: %w", ErrResource, size, err)
	}
	return face, nil
}
