// Package waterloo adds PEP 484 type comments to Python 2 source files by
// parsing the type information already written in their Args/Returns/Yields
// docstring sections. For each annotated function the type text is removed
// from the docstring and any imports the annotations need are appended to
// the file's import block.
package waterloo

import (
	"cmp"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"sync"

	"github.com/anentropic/python-waterloo/internal/types"
)

// ErrNoFiles indicates the source yielded nothing to annotate.
var ErrNoFiles = errors.New("no files to annotate")

type annotateConfig struct {
	logger   *slog.Logger
	settings Settings
	write    bool
}

// Option configures an Annotate run.
type Option func(*annotateConfig)

// WithLogger sets a logger for diagnostics. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *annotateConfig) {
		cfg.logger = logger
	}
}

// WithSettings replaces the default annotation settings.
func WithSettings(settings Settings) Option {
	return func(cfg *annotateConfig) {
		cfg.settings = settings
	}
}

// WithWrite enables writing the annotated text back to each changed file.
// Without it the run is a dry run; results are only collected in the Report.
// Writing requires a filesystem-backed source (Dir, DirTree or Files).
func WithWrite(write bool) Option {
	return func(cfg *annotateConfig) {
		cfg.write = write
	}
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

func logEnabled(logger *slog.Logger, level slog.Level) bool {
	return logger != nil && logger.Enabled(context.Background(), level)
}

// Annotate runs the annotation pipeline over every file from the source,
// in parallel, and returns a per-file report sorted by path. Files are
// processed independently; a failure in one file (or one function) never
// blocks the others.
func Annotate(ctx context.Context, source Source, opts ...Option) (*Report, error) {
	cfg := annotateConfig{settings: DefaultSettings()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.settings.Validate(); err != nil {
		return nil, err
	}

	files, err := source.ListFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	logger := cfg.logger
	if logEnabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "annotating",
			slog.Int("files", len(files)))
	}

	results := make(chan FileReport, len(files))

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())

	for _, file := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			results <- annotateFile(path, source, cfg)
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	report := &Report{}
	for r := range results {
		report.Files = append(report.Files, r)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	slices.SortFunc(report.Files, func(a, b FileReport) int {
		return cmp.Compare(a.Path, b.Path)
	})

	if logEnabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "annotation complete",
			slog.Int("files", len(report.Files)),
			slog.Int("annotated", report.Annotated()))
	}

	return report, nil
}

// AnnotateText runs the pipeline over a single in-memory file. The path is
// used only for reporting.
func AnnotateText(path, src string, opts ...Option) (FileReport, error) {
	cfg := annotateConfig{settings: DefaultSettings()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.settings.Validate(); err != nil {
		return FileReport{}, err
	}
	log := types.Logger{L: componentLogger(cfg.logger, "annotate")}
	return annotateSource(path, src, cfg.settings, log), nil
}

func annotateFile(path string, source Source, cfg annotateConfig) FileReport {
	rc, err := source.Open(path)
	if err != nil {
		return FileReport{Path: path, Err: err}
	}
	content, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return FileReport{Path: path, Err: err}
	}

	log := types.Logger{L: componentLogger(cfg.logger, "annotate")}
	report := annotateSource(path, string(content), cfg.settings, log)

	if cfg.write && report.Err == nil && report.Changed {
		if err := os.WriteFile(path, []byte(report.Content), 0o644); err != nil {
			report.Err = err
		}
	}
	return report
}
