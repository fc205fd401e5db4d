package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/pablor21/consty/logger"
	"github.com/pablor21/consty/utils"
)

// GeneratedFile is one output file.
type GeneratedFile struct {
	// Path is where the file is written, absolute or relative to the
	// working directory.
	Path    string
	Package string
	// Enums lists the enumerations the file covers, in emission order.
	Enums     []string
	Fragments []*Fragment
	// Content is filled by Writer.Render.
	Content []byte
}

// WriterMetrics counts what a Writer did.
type WriterMetrics struct {
	FilesWritten   int
	FilesUnchanged int
	TotalBytes     int64
}

// Writer renders generated files and writes them in parallel.
type Writer struct {
	version string
	workers int
	log     logger.Logger
	dryRun  bool

	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithWorkers bounds the number of files written at once.
func WithWorkers(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) WriterOption {
	return func(w *Writer) {
		if l != nil {
			w.log = l
		}
	}
}

// WithDryRun renders files without touching the file system.
func WithDryRun(dry bool) WriterOption {
	return func(w *Writer) { w.dryRun = dry }
}

// NewWriter returns a writer stamping files with version.
func NewWriter(version string, opts ...WriterOption) *Writer {
	w := &Writer{
		version: version,
		workers: runtime.GOMAXPROCS(0),
		log:     logger.Nop{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Metrics returns a snapshot of the counters.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Render fills f.Content with formatted source.
func (w *Writer) Render(f *GeneratedFile) error {
	src, err := FileSource(f.Package, w.version, f.Fragments)
	if err != nil {
		return err
	}
	formatted, err := imports.Process(f.Path, src, nil)
	if err != nil {
		return fmt.Errorf("format %s: %w", f.Path, err)
	}
	f.Content = formatted
	return nil
}

// WriteAll renders and writes files concurrently. Files whose content is
// unchanged on disk are left alone so file watchers do not loop.
func (w *Writer) WriteAll(ctx context.Context, files []*GeneratedFile) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)

	for _, f := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.write(f)
			}
		})
	}
	return eg.Wait()
}

func (w *Writer) write(f *GeneratedFile) error {
	if err := w.Render(f); err != nil {
		return err
	}
	if w.dryRun {
		w.log.Info("rendered", "path", f.Path, "bytes", len(f.Content))
		return nil
	}

	if existing, err := os.ReadFile(f.Path); err == nil && bytes.Equal(existing, f.Content) {
		w.mu.Lock()
		w.metrics.FilesUnchanged++
		w.mu.Unlock()
		w.log.Debug("unchanged", "path", f.Path)
		return nil
	}

	dir := filepath.Dir(f.Path)
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(f.Path, f.Content, 0o644); err != nil {
		return fmt.Errorf("write file %s: %w", f.Path, err)
	}

	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(f.Content))
	w.mu.Unlock()

	w.log.Info(fmt.Sprintf("Generated %s (%d bytes)", f.Path, len(f.Content)), "enums", f.Enums)
	return nil
}
