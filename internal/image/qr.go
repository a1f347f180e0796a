package imagepkg

import (
	"fmt"
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

// modulePixels is the module size used when no explicit size is requested.
const modulePixels = 10

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
// A size <= 0 draws every module 10 pixels wide.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	q, err := newQR(text)
	if err != nil {
		return nil, err
	}
	return q.PNG(pixelSize(size))
}

// GenerateQRImage returns an image.Image for further composition.
func GenerateQRImage(text string, size int) (image.Image, error) {
	q, err := newQR(text)
	if err != nil {
		return nil, err
	}
	return q.Image(pixelSize(size)), nil
}

func newQR(text string) (*qrcode.QRCode, error) {
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr (%d bytes): %w", len(text), err)
	}
	return q, nil
}

// skip2 treats a negative size as pixels per module.
func pixelSize(size int) int {
	if size <= 0 {
		return -modulePixels
	}
	return size
}
