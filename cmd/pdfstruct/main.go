// Command pdfstruct prints the structure of a PDF as text, Markdown, CSV
// or HTML.
//
// Usage:
//
//	pdfstruct -format markdown report.pdf       # every page
//	pdfstruct -page 2 -format csv report.pdf    # third page as CSV
//	pdfstruct -count report.pdf                 # page count only
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tsawler/pdfstruct"
)

type options struct {
	path       string
	page       int
	format     pdfstruct.Format
	configPath string
	count      bool
}

func main() {
	page := flag.Int("page", -1, "0-based page index to extract (default: all pages)")
	format := flag.String("format", "text", "output format: text, markdown, csv, html")
	configPath := flag.String("config", "", "path to a YAML threshold file")
	count := flag.Bool("count", false, "print the page count and exit")
	verbose := flag.Bool("v", false, "log debug records to stderr")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: pdfstruct [flags] <pdf>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	f, err := pdfstruct.ParseFormat(*format)
	if err != nil {
		logger.Error("pdfstruct: invalid flags", "error", err)
		os.Exit(2)
	}

	opts := options{
		path:       flag.Arg(0),
		page:       *page,
		format:     f,
		configPath: *configPath,
		count:      *count,
	}
	if err := run(os.Stdout, logger, opts); err != nil {
		logger.Error("pdfstruct: failed", "path", opts.path, "error", err)
		os.Exit(1)
	}
}

func run(w io.Writer, logger *slog.Logger, opts options) error {
	cfg := pdfstruct.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := pdfstruct.LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Debug("config loaded", "path", opts.configPath)
	}

	data, err := os.ReadFile(opts.path)
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}
	ext := pdfstruct.FromBytes(data).WithConfig(cfg).WithLogger(logger)

	if opts.count {
		n, err := ext.PageCount()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, n)
		return err
	}

	if opts.page >= 0 {
		n, err := ext.PageCount()
		if err != nil {
			return err
		}
		if opts.page >= n {
			return fmt.Errorf("page %d of %d: %w", opts.page, n, pdfstruct.ErrPageIndexOutOfRange)
		}
		ext = ext.Pages(opts.page)
	}

	out, err := ext.Render(opts.format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
