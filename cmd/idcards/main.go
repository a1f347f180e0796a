package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/youruser/idcards/internal/archive"
	"github.com/youruser/idcards/internal/auth"
	"github.com/youruser/idcards/internal/batch"
	"github.com/youruser/idcards/internal/config"
	"github.com/youruser/idcards/internal/util"
	"golang.org/x/term"
)

var version = "v0.1.0"

type generateOptions struct {
	configPath string
	csvPath    string
	outPath    string
	password   string
	list       bool
}

func main() {
	root := &cobra.Command{
		Use:           "idcards",
		Short:         "Generate printable ID cards with profile QR codes from a CSV roster",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var opts generateOptions
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Render one card per roster row and write them to a ZIP archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	generateCmd.Flags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "Path to config file")
	generateCmd.Flags().StringVar(&opts.csvPath, "csv", "", "Roster CSV with Name, ID and username columns")
	generateCmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "Output archive (defaults to archive_name from config)")
	generateCmd.Flags().StringVarP(&opts.password, "password", "p", "", "Access password (prompted for when empty)")
	generateCmd.Flags().BoolVar(&opts.list, "list", false, "Print the archive entries after writing")
	generateCmd.MarkFlagRequired("csv")
	root.AddCommand(generateCmd)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "idcards %s\n", version)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runGenerate(ctx context.Context, opts generateOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	svc := batch.NewService(cfg, logger)

	password := opts.password
	if password == "" {
		password, err = promptPassword(stdin, stderr)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}
	if err := svc.Authorize(password); err != nil {
		return errors.New(auth.PromptMessage)
	}

	in, err := os.Open(opts.csvPath)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	defer in.Close()

	outPath := opts.outPath
	if outPath == "" {
		outPath = cfg.ArchiveName
	}
	if err := util.EnsureParentDir(outPath); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	// an existing archive at outPath is only replaced once the new one is complete
	out, err := os.CreateTemp(filepath.Dir(outPath), ".idcards-*.zip")
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	tmpPath := out.Name()

	logger.Info("generating cards", "csv", opts.csvPath, "out", outPath)
	sum, err := svc.Run(ctx, in, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0o644)
	}
	if err == nil {
		err = os.Rename(tmpPath, outPath)
	}
	if err != nil {
		os.Remove(tmpPath)
		return err
	}
	fmt.Fprintf(stdout, "wrote %d cards to %s\n", sum.Entries, outPath)
	if sum.Overwritten > 0 {
		fmt.Fprintf(stdout, "%d rows shared a file name with an earlier row and replaced it\n", sum.Overwritten)
	}

	if opts.list {
		return listEntries(outPath, stdout)
	}
	return nil
}

func listEntries(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	names, err := archive.ReadNames(f, info.Size())
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
	return nil
}

// promptPassword hides input on a terminal and reads one line otherwise.
func promptPassword(stdin io.Reader, stderr io.Writer) (string, error) {
	fmt.Fprint(stderr, "Enter password to generate ID cards: ")
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(stderr)
		return string(b), err
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
