// Package batch runs the normalization of a whole directory of frames.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/maauso/framenorm/internal/background"
	"github.com/maauso/framenorm/internal/batch/id"
	"github.com/maauso/framenorm/internal/frame"
	"github.com/maauso/framenorm/internal/media"
	"github.com/maauso/framenorm/internal/storage"
)

// Opener creates the destination storage. It is called only after the
// source frames have been enumerated, so a failed setup writes nothing.
type Opener func() (storage.Storage, error)

// Summary describes a completed run.
type Summary struct {
	RunID   string
	Source  string
	Dest    string
	Frames  int
	Outputs []storage.Object
}

// URLs returns the published URLs of the outputs, if any.
func (s *Summary) URLs() []string {
	var urls []string
	for _, o := range s.Outputs {
		if o.URL != "" {
			urls = append(urls, o.URL)
		}
	}
	return urls
}

// Service normalizes every frame of a source directory, one at a time.
// The first failing frame aborts the run.
type Service struct {
	processor media.Processor
	rule      background.Rule
	open      Opener
	logger    *slog.Logger
	runID     string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(runID string) Option {
	return func(s *Service) {
		if runID != "" {
			s.runID = runID
		}
	}
}

// NewService creates a Service.
func NewService(processor media.Processor, rule background.Rule, open Opener, opts ...Option) *Service {
	s := &Service{
		processor: processor,
		rule:      rule,
		open:      open,
		logger:    slog.Default(),
		runID:     id.Generate(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunID returns the identifier of the run.
func (s *Service) RunID() string {
	return s.runID
}

// Run normalizes all frames found in src.
func (s *Service) Run(ctx context.Context, src string) (*Summary, error) {
	frames, err := frame.List(src)
	if err != nil {
		return nil, err
	}

	store, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("open destination: %w", err)
	}

	log := s.logger.With(slog.String("run_id", s.runID))
	log.Info("normalizing frames",
		slog.String("src", src),
		slog.String("dest", store.Dir()),
		slog.Int("frames", len(frames)),
	)

	summary := &Summary{
		RunID:   s.runID,
		Source:  src,
		Dest:    store.Dir(),
		Outputs: make([]storage.Object, 0, len(frames)),
	}

	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled before %s: %w", f.Name, err)
		}

		obj, err := s.processFrame(ctx, log, store, f)
		if err != nil {
			log.Error("frame failed",
				slog.String("frame", f.Name),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("frame %s: %w", f.Name, err)
		}
		summary.Outputs = append(summary.Outputs, obj)
	}

	summary.Frames = len(summary.Outputs)
	log.Info("batch complete",
		slog.Int("frames", summary.Frames),
		slog.Int("published", len(summary.URLs())),
	)
	return summary, nil
}

func (s *Service) processFrame(ctx context.Context, log *slog.Logger, store storage.Storage, f frame.Frame) (storage.Object, error) {
	img, err := s.processor.Open(ctx, f.Path)
	if err != nil {
		return storage.Object{}, err
	}

	bg := s.rule.Color(f.Name)
	out, err := s.processor.Normalize(ctx, img, bg)
	if err != nil {
		return storage.Object{}, err
	}

	var buf bytes.Buffer
	if err := s.processor.Encode(ctx, &buf, out); err != nil {
		return storage.Object{}, err
	}

	obj, err := store.Save(ctx, f.Name, &buf)
	if err != nil {
		return storage.Object{}, fmt.Errorf("save: %w", err)
	}

	log.Debug("frame normalized",
		slog.String("frame", f.Name),
		slog.String("source_size", media.SizeOf(img).String()),
		slog.String("canvas_size", media.SizeOf(out).String()),
		slog.String("background", background.Hex(bg)),
	)
	return obj, nil
}
