package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"github.com/youruser/idcards/internal/util"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadTemplate reads the card background from a local path or an http(s) URL.
// svgWidth and svgHeight size the raster of an SVG template; zero means the
// SVG's own view box.
func LoadTemplate(src string, svgWidth, svgHeight int) (image.Image, error) {
	var (
		data []byte
		err  error
	)
	if isRemote(src) {
		data, err = util.GetBytes(src)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: template %s: %w", ErrResource, src, err)
	}
	img, err := DecodeTemplate(data, svgWidth, svgHeight)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", src, err)
	}
	return img, nil
}

// DecodeTemplate decodes raster formats known to the image package and
// rasterizes SVG documents.
func DecodeTemplate(data []byte, svgWidth, svgHeight int) (image.Image, error) {
	if looksLikeSVG(data) {
		return rasterizeSVG(data, svgWidth, svgHeight)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %w", ErrResource, err)
	}
	return img, nil
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func looksLikeSVG(data []byte) bool {
	n := len(data)
	if n > 4096 {
		n = 4096
	}
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	return bytes.Contains(header, []byte("<svg"))
}

func rasterizeSVG(data []byte, w, h int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parse svg: %w", ErrResource, err)
	}
	if w <= 0 || h <= 0 {
		w, h = int(icon.ViewBox.W), int(icon.ViewBox.H)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: svg has no size, set template_width and template_height", ErrResource)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := imaging.New(w, h, color.White)
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}
