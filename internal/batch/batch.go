// Package batch turns a roster into rendered card images and bundles them.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/youruser/idcards/internal/archive"
	imagepkg "github.com/youruser/idcards/internal/image"
	"github.com/youruser/idcards/internal/roster"
)

// Renderer composes a finished card.
type Renderer interface {
	RenderCard(name, id string, qr image.Image) *image.NRGBA
}

// QREncoder builds the QR bitmap for a profile URL.
type QREncoder func(text string, size int) (image.Image, error)

// RowError aborts a batch; it names the row that failed.
type RowError struct {
	Line int
	ID   string
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row at line %d (ID %s): %v", e.Line, e.ID, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Result is the in-memory card set of one run.
type Result struct {
	Entries     []archive.Entry
	Rows        int
	Overwritten int
}

type Generator struct {
	renderer Renderer
	encodeQR QREncoder
	baseURL  string
	logger   *slog.Logger
}

func NewGenerator(renderer Renderer, baseURL string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		renderer: renderer,
		encodeQR: imagepkg.GenerateQRImage,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// WithQREncoder swaps the QR encoder.
func (g *Generator) WithQREncoder(enc QREncoder) *Generator {
	g.encodeQR = enc
	return g
}

// Generate renders every record in order. A later record whose file name
// matches an earlier one replaces that card in place. The first failing row
// aborts the batch and nothing is returned. ctx is checked between rows.
func (g *Generator) Generate(ctx context.Context, records []roster.Record) (*Result, error) {
	res := &Result{}
	index := map[string]int{}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := CardFileName(rec.Name, rec.ID)
		if err := checkFileName(name); err != nil {
			return nil, &RowError{Line: rec.Line, ID: rec.ID, Err: err}
		}
		data, err := g.renderRow(rec)
		if err != nil {
			return nil, &RowError{Line: rec.Line, ID: rec.ID, Err: err}
		}

		if i, ok := index[name]; ok {
			g.logger.Warn("card file name repeated, keeping later row", "file", name, "line", rec.Line)
			res.Entries[i].Data = data
			res.Overwritten++
		} else {
			index[name] = len(res.Entries)
			res.Entries = append(res.Entries, archive.Entry{Name: name, Data: data})
		}
		res.Rows++
		g.logger.Debug("card rendered", "file", name, "line", rec.Line)
	}
	return res, nil
}

func (g *Generator) renderRow(rec roster.Record) ([]byte, error) {
	qr, err := g.encodeQR(ProfileURL(g.baseURL, rec.Username), 0)
	if err != nil {
		return nil, err
	}
	card := g.renderer.RenderCard(rec.Name, rec.ID, qr)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, card, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}
	return buf.Bytes(), nil
}
