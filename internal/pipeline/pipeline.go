package pipeline

import (
	"errors"
	"log/slog"
	"runtime"

	"github.com/AnyUserName/fsdither-cli/internal/encoder"
	"github.com/AnyUserName/fsdither-cli/internal/logging"
	"github.com/AnyUserName/fsdither-cli/internal/palette"
)

// Failure kinds. Every error returned by the pipeline wraps exactly one of
// these together with the underlying cause.
var (
	ErrOpenInput = errors.New("open input")
	ErrDecode    = errors.New("decode input")
	ErrEncode    = errors.New("encode output")
)

// Config holds all parameters for a pipeline run.
type Config struct {
	Levels  int  // requested palette size, normalised by palette.Generate
	Gray    bool // desaturate before dithering
	Quality int  // lossy encoders only; 0 = encoder default

	// Batch only.
	Preset           string // recorded in the manifest
	Format           string // output format name
	Workers          int
	ContentAddressed bool // name outputs <key>.<hash8>.<ext>

	Logger *slog.Logger
}

// Pipeline decodes, dithers and re-encodes images.
type Pipeline struct {
	cfg      Config
	palette  palette.Palette
	registry *encoder.Registry
	log      *slog.Logger
}

// New creates a configured pipeline using the built-in encoders.
func New(cfg Config) *Pipeline {
	return NewWithRegistry(cfg, encoder.NewRegistry())
}

// NewWithRegistry creates a pipeline that encodes through registry.
func NewWithRegistry(cfg Config, registry *encoder.Registry) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{
		cfg:      cfg,
		palette:  palette.Generate(cfg.Levels),
		registry: registry,
		log:      logging.For(cfg.Logger, logging.ComponentPipeline),
	}
}

// Palette returns the levels every channel is quantized to.
func (p *Pipeline) Palette() palette.Palette {
	return p.palette
}
