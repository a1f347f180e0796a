package main

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/youruser/idcards/internal/archive"
	"github.com/youruser/idcards/internal/auth"
	"golang.org/x/image/font/gofont/goregular"
)

// setup writes a config, font, template and roster into a temp dir.
func setup(t *testing.T, roster string) generateOptions {
	t.Helper()
	for _, k := range []string{"PORT", "IDCARDS_PORT", "IDCARDS_PASSWORD", "IDCARDS_BASE_URL",
		"IDCARDS_FONT_PATH", "IDCARDS_TEMPLATE_PATH", "IDCARDS_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "font.ttf")
	if err := os.WriteFile(fontPath, goregular.TTF, 0o644); err != nil {
		t.Fatalf("failed to write font: %v", err)
	}
	templatePath := filepath.Join(dir, "id_template.png")
	if err := imaging.Save(imaging.New(720, 900, color.White), templatePath); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
	configPath := filepath.Join(dir, "config.yaml")
	cfg := "password: swecha\nfont_path: " + fontPath + "\ntemplate_path: " + templatePath + "\n"
	if err := os.WriteFile(configPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	csvPath := filepath.Join(dir, "roster.csv")
	if err := os.WriteFile(csvPath, []byte(roster), 0o644); err != nil {
		t.Fatalf("failed to write roster: %v", err)
	}
	return generateOptions{
		configPath: configPath,
		csvPath:    csvPath,
		outPath:    filepath.Join(dir, "out", "cards.zip"),
	}
}

func TestRunGenerate(t *testing.T) {
	opts := setup(t, "Name,ID,username\nAda Lovelace,1,ada\nGrace Hopper,2,grace\n")
	opts.password = "swecha"
	opts.list = true

	var stdout, stderr bytes.Buffer
	if err := runGenerate(context.Background(), opts, strings.NewReader(""), &stdout, &stderr); err != nil {
		t.Fatalf("runGenerate failed: %v\n%s", err, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "wrote 2 cards") {
		t.Errorf("expected summary line, got %q", out)
	}
	if !strings.Contains(out, "Ada_Lovelace_1.png") || !strings.Contains(out, "Grace_Hopper_2.png") {
		t.Errorf("expected entry listing, got %q", out)
	}
}

func TestRunGenerate_PromptedPassword(t *testing.T) {
	opts := setup(t, "Name,ID,username\nAda Lovelace,1,ada\n")

	var stdout, stderr bytes.Buffer
	if err := runGenerate(context.Background(), opts, strings.NewReader("swecha\n"), &stdout, &stderr); err != nil {
		t.Fatalf("runGenerate failed: %v", err)
	}
	if _, err := os.Stat(opts.outPath); err != nil {
		t.Errorf("expected archive at %s: %v", opts.outPath, err)
	}
}

func TestRunGenerate_WrongPassword(t *testing.T) {
	opts := setup(t, "Name,ID,username\nAda Lovelace,1,ada\n")
	opts.password = "nope"

	var stdout, stderr bytes.Buffer
	err := runGenerate(context.Background(), opts, strings.NewReader(""), &stdout, &stderr)
	if err == nil || err.Error() != auth.PromptMessage {
		t.Fatalf("expected prompt message error, got %v", err)
	}
	if _, statErr := os.Stat(opts.outPath); !os.IsNotExist(statErr) {
		t.Error("expected no archive after failed authentication")
	}
}

func TestRunGenerate_SchemaErrorLeavesNoArchive(t *testing.T) {
	opts := setup(t, "Name,ID\nAda Lovelace,1\n")
	opts.password = "swecha"

	var stdout, stderr bytes.Buffer
	if err := runGenerate(context.Background(), opts, strings.NewReader(""), &stdout, &stderr); err == nil {
		t.Fatal("expected schema error")
	}
	if _, statErr := os.Stat(opts.outPath); !os.IsNotExist(statErr) {
		t.Error("expected partial archive to be removed")
	}
}

func TestRunGenerate_FailureKeepsExistingArchive(t *testing.T) {
	opts := setup(t, "Name,ID\nAda Lovelace,1\n")
	opts.password = "swecha"

	previous := []byte("previous archive")
	if err := os.MkdirAll(filepath.Dir(opts.outPath), 0o755); err != nil {
		t.Fatalf("failed to create out dir: %v", err)
	}
	if err := os.WriteFile(opts.outPath, previous, 0o644); err != nil {
		t.Fatalf("failed to write previous archive: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if err := runGenerate(context.Background(), opts, strings.NewReader(""), &stdout, &stderr); err == nil {
		t.Fatal("expected schema error")
	}

	got, err := os.ReadFile(opts.outPath)
	if err != nil {
		t.Fatalf("expected previous archive to survive: %v", err)
	}
	if !bytes.Equal(got, previous) {
		t.Errorf("expected previous archive untouched, got %q", got)
	}
	entries, err := os.ReadDir(filepath.Dir(opts.outPath))
	if err != nil {
		t.Fatalf("failed to read out dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the previous archive in out dir, found %d files", len(entries))
	}
}

func TestRunGenerate_SuccessReplacesExistingArchive(t *testing.T) {
	opts := setup(t, "Name,ID,username\nAda Lovelace,1,ada\n")
	opts.password = "swecha"

	if err := os.MkdirAll(filepath.Dir(opts.outPath), 0o755); err != nil {
		t.Fatalf("failed to create out dir: %v", err)
	}
	if err := os.WriteFile(opts.outPath, []byte("previous archive"), 0o644); err != nil {
		t.Fatalf("failed to write previous archive: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if err := runGenerate(context.Background(), opts, strings.NewReader(""), &stdout, &stderr); err != nil {
		t.Fatalf("runGenerate failed: %v", err)
	}

	f, err := os.Open(opts.outPath)
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	defer f.Close()
	info, _ := f.Stat()
	names, err := archive.ReadNames(f, info.Size())
	if err != nil {
		t.Fatalf("expected a fresh zip at %s: %v", opts.outPath, err)
	}
	if len(names) != 1 || names[0] != "Ada_Lovelace_1.png" {
		t.Errorf("unexpected entries %v", names)
	}
	entries, _ := os.ReadDir(filepath.Dir(opts.outPath))
	if len(entries) != 1 {
		t.Errorf("expected no leftover temp files, found %d files", len(entries))
	}
}
