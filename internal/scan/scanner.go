// Package scan runs the image-to-label pipeline.
//
// A Scanner loads a label photo, optionally crops it, preprocesses it for OCR,
// hands it to an ocr.Recognizer and parses the recognized text with package
// label. Each scan is independent; ScanBatch runs several in parallel.
package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/label-tools-mcp/internal/imaging"
	"github.com/ironsheep/label-tools-mcp/internal/label"
	"github.com/ironsheep/label-tools-mcp/internal/ocr"
)

// Options configures a Scanner.
type Options struct {
	Preprocess imaging.PreprocessOptions
	Parse      label.ParseOptions

	// Workers bounds ScanBatch parallelism; values below 1 mean 1.
	Workers int
}

// Scanner turns label images into analyses.
type Scanner struct {
	cache      *imaging.ImageCache
	recognizer ocr.Recognizer
	opts       Options
	logger     *zap.Logger
}

// New creates a Scanner. A nil logger disables logging.
func New(cache *imaging.ImageCache, recognizer ocr.Recognizer, opts Options, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Scanner{
		cache:      cache,
		recognizer: recognizer,
		opts:       opts,
		logger:     logger,
	}
}

// Request selects an image and, optionally, the region of it to read.
type Request struct {
	Path   string         `json:"path"`
	Region imaging.Region `json:"region,omitempty"`
}

// Result is the outcome of one scan.
//
// Error is set instead of Analysis when the image could not be read or OCR
// failed; the label pipeline itself never fails.
type Result struct {
	ScanID     string                    `json:"scan_id"`
	Path       string                    `json:"path"`
	RawText    string                    `json:"raw_text,omitempty"`
	Analysis   *label.Analysis           `json:"analysis,omitempty"`
	Preprocess *imaging.PreprocessReport `json:"preprocess,omitempty"`
	DurationMS int64                     `json:"duration_ms"`
	Error      string                    `json:"error,omitempty"`
}

// Scan reads one label image and parses it.
func (s *Scanner) Scan(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()
	log := s.logger.With(zap.String("scan_id", id), zap.String("path", req.Path))

	img, err := s.cache.Load(req.Path)
	if err != nil {
		return nil, err
	}

	if !req.Region.IsZero() {
		img, err = imaging.CropRegion(img, req.Region)
		if err != nil {
			return nil, err
		}
	}

	prepared, report := imaging.Preprocess(img, s.opts.Preprocess)
	log.Debug("preprocessed image",
		zap.Int("width", report.Width),
		zap.Int("height", report.Height),
		zap.Bool("inverted", report.Inverted),
		zap.Float64("lightness", report.Lightness))

	raw, err := s.recognizer.Recognize(ctx, prepared)
	if err != nil {
		return nil, fmt.Errorf("recognize %s: %w", req.Path, err)
	}

	analysis := label.Analyze(label.ParseWith(raw, s.opts.Parse))
	elapsed := time.Since(start)
	log.Info("scanned label",
		zap.Int("nutrients", analysis.Record.NutritionFacts.Len()),
		zap.Int("allergens", len(analysis.Allergens)),
		zap.Duration("duration", elapsed))

	return &Result{
		ScanID:     id,
		Path:       req.Path,
		RawText:    raw,
		Analysis:   &analysis,
		Preprocess: &report,
		DurationMS: elapsed.Milliseconds(),
	}, nil
}

// ScanBatch scans every path with at most Options.Workers scans in flight.
//
// Results are returned in input order. A failed image gets a Result with
// Error set and does not stop the batch; the returned error is non-nil only
// when ctx ends before all images were dispatched. Each image is evicted
// from the cache once scanned, so large batches do not pin decoded photos
// until the TTL runs out.
func (s *Scanner) ScanBatch(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i, path := range paths {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			defer s.cache.Evict(path)
			res, err := s.Scan(gctx, Request{Path: path})
			if err != nil {
				s.logger.Warn("scan failed", zap.String("path", path), zap.Error(err))
				results[i] = Result{ScanID: uuid.NewString(), Path: path, Error: err.Error()}
				return nil
			}
			results[i] = *res
			return nil
		})
	}

	_ = g.Wait()
	s.logger.Debug("batch finished",
		zap.Int("images", len(paths)),
		zap.Int("cached_images", s.cache.Len()))
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
