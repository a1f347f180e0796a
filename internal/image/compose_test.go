package imagepkg

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func testTemplate() *image.NRGBA {
	return imaging.New(720, 900, color.NRGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff})
}

func countDarkPixels(img image.Image, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if c.Y < 0x80 {
				n++
			}
		}
	}
	return n
}

func TestRender_KeepsTemplateSize(t *testing.T) {
	tmpl := testTemplate()
	r := NewCardRenderer(tmpl, testFonts(t), DefaultLayout())

	qr, err := GenerateQRImage("https://code.swecha.org/ada", 0)
	if err != nil {
		t.Fatalf("GenerateQRImage failed: %v", err)
	}
	card := r.RenderCard("Ada Lovelace", "1", qr)
	if card.Bounds().Dx() != 720 || card.Bounds().Dy() != 900 {
		t.Errorf("expected 720x900 card, got %v", card.Bounds())
	}
}

func TestRender_TemplateNotMutated(t *testing.T) {
	tmpl := testTemplate()
	before := imaging.Clone(tmpl)
	r := NewCardRenderer(tmpl, testFonts(t), DefaultLayout())

	r.RenderCard("Ada Lovelace", "1", nil)
	r.RenderCard("Grace Hopper", "2", nil)

	if countDarkPixels(tmpl, tmpl.Bounds()) != 0 {
		t.Error("expected template to stay untouched")
	}
	for i := range before.Pix {
		if before.Pix[i] != tmpl.Pix[i] {
			t.Fatal("template pixels changed after rendering")
		}
	}
}

func TestRender_QRRegionDecodes(t *testing.T) {
	layout := DefaultLayout()
	r := NewCardRenderer(testTemplate(), testFonts(t), layout)

	url := "https://code.swecha.org/ada"
	qr, err := GenerateQRImage(url, 0)
	if err != nil {
		t.Fatalf("GenerateQRImage failed: %v", err)
	}
	card := r.RenderCard("Ada Lovelace", "1", qr)

	region := image.Rect(layout.QRX, layout.QRY, layout.QRX+layout.QRSize, layout.QRY+layout.QRSize)
	if got := decodeQR(t, imaging.Crop(card, region)); got != url {
		t.Errorf("expected QR to decode to %q, got %q", url, got)
	}
}

func TestRender_TextPlacement(t *testing.T) {
	layout := DefaultLayout()
	fonts := testFonts(t)
	r := NewCardRenderer(testTemplate(), fonts, layout)

	lines := []string{"Ada", "Lovelace"}
	card := r.Render(lines, "1", nil)

	for i := range lines {
		top := layout.NameY + i*layout.LineSpacing
		band := image.Rect(layout.NameX, top, layout.NameX+layout.MaxNameWidth, top+layout.LineSpacing)
		if countDarkPixels(card, band) == 0 {
			t.Errorf("expected ink for name line %d in %v", i, band)
		}
	}

	idTop := layout.NameY + len(lines)*layout.LineSpacing + layout.IDGap
	idBand := image.Rect(layout.NameX, idTop, layout.NameX+layout.MaxNameWidth, idTop+fonts.ID.Metrics().Height.Ceil())
	if countDarkPixels(card, idBand) == 0 {
		t.Errorf("expected ink for ID line in %v", idBand)
	}

	if countDarkPixels(card, image.Rect(0, 0, layout.NameX-5, card.Bounds().Dy())) != 0 {
		t.Error("expected nothing drawn left of the name column")
	}
}

func TestRender_NoNameLines(t *testing.T) {
	layout := DefaultLayout()
	r := NewCardRenderer(testTemplate(), testFonts(t), layout)

	card := r.Render(nil, "42", nil)

	idTop := layout.NameY + layout.IDGap
	band := image.Rect(layout.NameX, idTop, layout.NameX+layout.MaxNameWidth, idTop+40)
	if countDarkPixels(card, band) == 0 {
		t.Error("expected ID line directly below the name origin")
	}
}

func TestNewCardRenderer_FlattensTransparency(t *testing.T) {
	tmpl := imaging.New(400, 400, color.NRGBA{})
	r := NewCardRenderer(tmpl, testFonts(t), DefaultLayout())

	card := r.Render(nil, "1", nil)
	c := card.NRGBAAt(5, 5)
	if c != (color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Errorf("expected transparent template to render white, got %v", c)
	}
}
