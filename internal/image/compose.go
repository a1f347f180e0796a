package imagepkg

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Layout positions the card elements on the template, in pixels.
type Layout struct {
	NameX        int
	NameY        int
	MaxNameWidth int
	LineSpacing  int
	IDGap        int
	QRX          int
	QRY          int
	QRSize       int
}

// DefaultLayout matches the stock id_template.png.
func DefaultLayout() Layout {
	return Layout{
		NameX:        200,
		NameY:        510,
		MaxNameWidth: 500,
		LineSpacing:  45,
		IDGap:        10,
		QRX:          250,
		QRY:          240,
		QRSize:       255,
	}
}

// CardRenderer composites name, ID and QR code onto a copy of the template.
type CardRenderer struct {
	base      *image.NRGBA
	fonts     *Fonts
	layout    Layout
	textColor color.Color
}

// NewCardRenderer flattens template onto white once; every card starts from
// a fresh copy of that base, so the template itself is never drawn on.
func NewCardRenderer(template image.Image, fonts *Fonts, layout Layout) *CardRenderer {
	src := imaging.Clone(template)
	base := imaging.New(src.Bounds().Dx(), src.Bounds().Dy(), color.White)
	base = imaging.Overlay(base, src, image.Pt(0, 0), 1.0)
	return &CardRenderer{
		base:      base,
		fonts:     fonts,
		layout:    layout,
		textColor: color.Black,
	}
}

// Layout returns the positions the renderer draws with.
func (r *CardRenderer) Layout() Layout {
	return r.layout
}

// WrapName splits name into lines that fit the configured name width.
func (r *CardRenderer) WrapName(name string) []string {
	return WrapText(name, r.fonts.Name, r.layout.MaxNameWidth)
}

// RenderCard wraps name and renders the full card.
func (r *CardRenderer) RenderCard(name, id string, qr image.Image) *image.NRGBA {
	return r.Render(r.WrapName(name), id, qr)
}

// Render draws the name lines, the "ID: <id>" line below them and the QR code.
// The QR code is pasted last and covers anything underneath it.
func (r *CardRenderer) Render(nameLines []string, id string, qr image.Image) *image.NRGBA {
	l := r.layout
	canvas := imaging.Clone(r.base)

	for i, line := range nameLines {
		r.drawText(canvas, r.fonts.Name, line, l.NameX, l.NameY+i*l.LineSpacing)
	}
	idTop := l.NameY + len(nameLines)*l.LineSpacing + l.IDGap
	r.drawText(canvas, r.fonts.ID, "ID: "+id, l.NameX, idTop)

	if qr != nil {
		q := imaging.Resize(qr, l.QRSize, l.QRSize, imaging.Lanczos)
		canvas = imaging.Paste(canvas, q, image.Pt(l.QRX, l.QRY))
	}
	return canvas
}

// drawText places s with the top of its ascent at y.
func (r *CardRenderer) drawText(dst draw.Image, face font.Face, s string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(r.textColor),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}
