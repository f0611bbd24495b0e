// Package export sequences a capture of the visual stack into a downloadable
// PNG artifact. One export runs at a time; the state machine rejects, rather
// than queues, a request made while another is in flight.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xob0t/SnapPolish/pkg/layout"
)

var (
	ErrExportInProgress      = errors.New("export already in progress")
	ErrRasterizerUnavailable = errors.New("rasterizer not loaded yet")
	ErrRasterizerFailure     = errors.New("rasterizer failure")
	ErrNoStack               = errors.New("nothing to export")
)

// Resolution multipliers.
const (
	DefaultMultiplier = 2
	UltraMultiplier   = 4
)

// DefaultSettleDelay gives pending image and font loads time to land before
// the capture.
const DefaultSettleDelay = 100 * time.Millisecond

// CaptureOptions is passed to the Rasterizer. Width and Height are the root
// box at 1×; the output is Multiplier times larger.
type CaptureOptions struct {
	Multiplier            float64
	Width                 float64
	Height                float64
	TransparentBackground bool
	AllowCrossOrigin      bool
}

// Rasterizer captures a stack into PNG bytes.
type Rasterizer interface {
	Capture(ctx context.Context, stack *layout.Stack, opts CaptureOptions) ([]byte, error)
}

// Config is the orchestrator's fixed export policy.
type Config struct {
	Multiplier            float64
	SettleDelay           time.Duration
	Product               string
	TransparentBackground bool
	AllowCrossOrigin      bool
}

// DefaultConfig returns the 2× policy.
func DefaultConfig() Config {
	return Config{
		Multiplier:       DefaultMultiplier,
		SettleDelay:      DefaultSettleDelay,
		Product:          DefaultProduct,
		AllowCrossOrigin: true,
	}
}

// State is the orchestrator state.
type State int32

const (
	Idle State = iota
	Exporting
)

func (s State) String() string {
	if s == Exporting {
		return "exporting"
	}
	return "idle"
}

// Outcome is the result of the last export that reached the rasterizer.
type Outcome int32

const (
	OutcomeNone Outcome = iota
	OutcomeSucceeded
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "none"
	}
}

// Orchestrator runs exports. The zero value is not usable; call New.
type Orchestrator struct {
	cfg Config

	state   atomic.Int32
	outcome atomic.Int32

	mu         sync.RWMutex
	rasterizer Rasterizer

	sleep func(time.Duration)
}

// New returns an Idle orchestrator without a rasterizer. A non-positive
// multiplier falls back to DefaultMultiplier.
func New(cfg Config) *Orchestrator {
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = DefaultMultiplier
	}
	if cfg.Product == "" {
		cfg.Product = DefaultProduct
	}
	return &Orchestrator{cfg: cfg, sleep: time.Sleep}
}

// Config returns the export policy.
func (o *Orchestrator) Config() Config { return o.cfg }

// SetRasterizer installs the rasterizer once it has loaded. nil marks it
// unavailable again.
func (o *Orchestrator) SetRasterizer(r Rasterizer) {
	o.mu.Lock()
	o.rasterizer = r
	o.mu.Unlock()
}

// Ready reports whether a rasterizer is installed.
func (o *Orchestrator) Ready() bool {
	return o.currentRasterizer() != nil
}

func (o *Orchestrator) currentRasterizer() Rasterizer {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.rasterizer
}

func (o *Orchestrator) State() State         { return State(o.state.Load()) }
func (o *Orchestrator) LastOutcome() Outcome { return Outcome(o.outcome.Load()) }

// Export captures stack into a PNG artifact. It is allowed only from Idle and
// always returns to Idle. The capture is not cancelled by ctx.
func (o *Orchestrator) Export(ctx context.Context, stack *layout.Stack) (*Artifact, error) {
	if stack == nil {
		return nil, ErrNoStack
	}
	if !o.state.CompareAndSwap(int32(Idle), int32(Exporting)) {
		return nil, ErrExportInProgress
	}
	defer o.state.Store(int32(Idle))

	r := o.currentRasterizer()
	if r == nil {
		return nil, ErrRasterizerUnavailable
	}

	ctx = context.WithoutCancel(ctx)
	if o.cfg.SettleDelay > 0 {
		o.sleep(o.cfg.SettleDelay)
	}

	opts := CaptureOptions{
		Multiplier:            o.cfg.Multiplier,
		Width:                 stack.Width,
		Height:                stack.Height,
		TransparentBackground: o.cfg.TransparentBackground,
		AllowCrossOrigin:      o.cfg.AllowCrossOrigin,
	}
	data, err := r.Capture(ctx, stack, opts)
	if err != nil {
		o.outcome.Store(int32(OutcomeFailed))
		return nil, fmt.Errorf("%w: %w", ErrRasterizerFailure, err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		o.outcome.Store(int32(OutcomeFailed))
		return nil, fmt.Errorf("%w: output is not a PNG: %w", ErrRasterizerFailure, err)
	}

	o.outcome.Store(int32(OutcomeSucceeded))
	return &Artifact{
		Filename:   Filename(o.cfg.Product, o.cfg.Multiplier),
		MIME:       "image/png",
		Data:       data,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Multiplier: o.cfg.Multiplier,
	}, nil
}

// Preview captures stack at 1× for on-screen display. It runs outside the
// export state machine: no settle delay, no state change and no recorded
// outcome, so previews never block or fail a download. ctx cancels it.
func (o *Orchestrator) Preview(ctx context.Context, stack *layout.Stack) ([]byte, error) {
	if stack == nil {
		return nil, ErrNoStack
	}
	r := o.currentRasterizer()
	if r == nil {
		return nil, ErrRasterizerUnavailable
	}
	data, err := r.Capture(ctx, stack, CaptureOptions{
		Multiplier:            1,
		Width:                 stack.Width,
		Height:                stack.Height,
		TransparentBackground: o.cfg.TransparentBackground,
		AllowCrossOrigin:      o.cfg.AllowCrossOrigin,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterizerFailure, err)
	}
	return data, nil
}

// Notice reduces an export error to the text shown to the user.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRasterizerUnavailable):
		return "Download tool is loading, please try again in 2 seconds."
	case errors.Is(err, ErrExportInProgress):
		return "An export is already running."
	default:
		return "An error occurred. Please try again."
	}
}
