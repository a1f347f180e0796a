package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/youruser/idcards/internal/archive"
	"github.com/youruser/idcards/internal/auth"
	"github.com/youruser/idcards/internal/config"
	imagepkg "github.com/youruser/idcards/internal/image"
	"github.com/youruser/idcards/internal/roster"
)

// Summary describes a finished run.
type Summary struct {
	Rows        int
	Entries     int
	Overwritten int
	ArchiveName string
}

// Service runs the whole pipeline: roster, fonts and template, cards, archive.
// It keeps no state between runs.
type Service struct {
	cfg    *config.Config
	gate   *auth.Gate
	logger *slog.Logger
}

func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:    cfg,
		gate:   auth.NewGate(cfg.Password),
		logger: logger,
	}
}

func (s *Service) Gate() *auth.Gate {
	return s.gate
}

// Authorize checks candidate against the configured password.
func (s *Service) Authorize(candidate string) error {
	return s.gate.Check(candidate)
}

func (s *Service) ArchiveName() string {
	return s.cfg.ArchiveName
}

func (s *Service) ProfileURL(username string) string {
	return ProfileURL(s.cfg.BaseURL, username)
}

// Run reads the roster from csv and writes the card archive to w. Nothing is
// written to w unless every row rendered. Callers authorize first.
func (s *Service) Run(ctx context.Context, csv io.Reader, w io.Writer) (*Summary, error) {
	records, err := roster.Load(csv)
	if err != nil {
		return nil, err
	}

	renderer, closeFonts, err := s.newRenderer()
	if err != nil {
		return nil, err
	}
	defer closeFonts()

	s.logger.Info("generating cards", "rows", len(records))
	res, err := NewGenerator(renderer, s.cfg.BaseURL, s.logger).Generate(ctx, records)
	if err != nil {
		return nil, err
	}

	n, err := archive.WriteZip(w, res.Entries)
	if err != nil {
		return nil, fmt.Errorf("write archive: %w", err)
	}
	s.logger.Info("cards generated", "rows", res.Rows, "entries", n, "overwritten", res.Overwritten)

	return &Summary{
		Rows:        res.Rows,
		Entries:     n,
		Overwritten: res.Overwritten,
		ArchiveName: s.cfg.ArchiveName,
	}, nil
}

// newRenderer loads the font and template fresh for every run.
func (s *Service) newRenderer() (*imagepkg.CardRenderer, func(), error) {
	fonts, err := imagepkg.LoadFonts(s.cfg.FontPath, s.cfg.NameFontSize, s.cfg.IDFontSize)
	if err != nil {
		return nil, nil, err
	}
	template, err := imagepkg.LoadTemplate(s.cfg.TemplatePath, s.cfg.TemplateWidth, s.cfg.TemplateHeight)
	if err != nil {
		fonts.Close()
		return nil, nil, err
	}
	closeFonts := func() {
		if err := fonts.Close(); err != nil {
			s.logger.Warn("failed to close font faces", "error", err)
		}
	}
	return imagepkg.NewCardRenderer(template, fonts, layoutFromConfig(s.cfg.Layout)), closeFonts, nil
}

func layoutFromConfig(l config.Layout) imagepkg.Layout {
	return imagepkg.Layout{
		NameX:        l.NameX,
		NameY:        l.NameY,
		MaxNameWidth: l.MaxNameWidth,
		LineSpacing:  l.LineSpacing,
		IDGap:        l.IDGap,
		QRX:          l.QRX,
		QRY:          l.QRY,
		QRSize:       l.QRSize,
	}
}
