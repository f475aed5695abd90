// Package svgrender converts SVG documents to PNG images
// of a given pixel size.
//
// A Converter runs at most one render at a time: a request issued
// while another one is in progress fails immediately with
// ErrRenderingInProgress, leaving the running render untouched.
// Independent Converters may be used concurrently.
package svgrender

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"sync"

	"github.com/benoitkugler/svg2png/svgicon"
	"github.com/benoitkugler/svg2png/svgraster"
)

// maxPixelSize bounds the width and height of the output image
const maxPixelSize = 1 << 15

// Configuration controls the conversion.
type Configuration struct {
	// AllowFixingMissingViewBox enables the guess of a missing viewBox
	// attribute from the width and height of the document.
	// Without viewBox, the document is not resized.
	AllowFixingMissingViewBox bool

	// RemoveAlphaChannel composites the image over Background,
	// producing an opaque PNG.
	RemoveAlphaChannel bool

	// Background is used when RemoveAlphaChannel is true.
	// A nil value means white.
	Background color.Color

	// ErrorMode controls how unsupported content is reported.
	ErrorMode svgicon.ErrorMode

	CompressionLevel png.CompressionLevel
}

// DefaultConfiguration returns the default values: viewBox fixing enabled,
// alpha channel kept, unsupported content logged.
func DefaultConfiguration() Configuration {
	return Configuration{
		AllowFixingMissingViewBox: true,
		Background:                color.White,
		ErrorMode:                 svgicon.WarnErrorMode,
	}
}

// Target is the size of the output image, in pixels.
type Target struct {
	Width, Height float64
	// Scale multiplies the size. Zero means 1.
	Scale float64
}

// PixelSize returns the rounded size of the image, or an error wrapping
// ErrInvalidGeometry for null, negative or invalid sizes.
func (t Target) PixelSize() (width, height int, err error) {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	w, h := math.Round(t.Width*scale), math.Round(t.Height*scale)
	if !(scale > 0) || !(w >= 1) || !(h >= 1) || w > maxPixelSize || h > maxPixelSize {
		return 0, 0, fmt.Errorf("%w: target size %gx%g (scale %g)", ErrInvalidGeometry, t.Width, t.Height, scale)
	}
	return int(w), int(h), nil
}

// WarningHandler receives the (at most one) warning of a render.
type WarningHandler func(svgicon.Warning)

// Result is the outcome of an asynchronous render.
type Result struct {
	PNG []byte
	Err error
}

// State is the state of a Converter.
type State uint8

const (
	Idle State = iota
	Rendering
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("<unknown State %d>", uint8(s))
	}
}

// SetLogger configures the logger used by this module.
// See svgicon.SetLogger.
func SetLogger(l *slog.Logger) { svgicon.SetLogger(l) }

// Converter renders SVG documents, one at a time.
type Converter struct {
	config Configuration

	mu    sync.Mutex
	state State
	last  State // outcome of the last render

	// test hooks
	onTransition    func(State) // called after each state change, without holding mu
	beforeRasterize func()
}

// NewConverter returns an idle converter.
func NewConverter(config Configuration) *Converter {
	return &Converter{config: config}
}

// State returns the current state: Idle or Rendering.
func (c *Converter) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastOutcome returns Completed or Failed for the last finished render,
// or Idle if no render has finished yet.
func (c *Converter) LastOutcome() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Converter) notify(s State) {
	if c.onTransition != nil {
		c.onTransition(s)
	}
}

// acquire switches to Rendering, or fails if a render is in progress.
func (c *Converter) acquire() error {
	c.mu.Lock()
	if c.state == Rendering {
		c.mu.Unlock()
		svgicon.Logger().Debug("render rejected", "reason", "already in progress")
		return ErrRenderingInProgress
	}
	c.state = Rendering
	c.mu.Unlock()
	c.notify(Rendering)
	return nil
}

// release goes through the terminal state back to Idle.
func (c *Converter) release(err error) {
	outcome := Completed
	if err != nil {
		outcome = Failed
	}
	c.notify(outcome)
	c.mu.Lock()
	c.last = outcome
	c.state = Idle
	c.mu.Unlock()
	c.notify(Idle)
}

// Render converts `svg` to a PNG image of the size given by `target`.
// Warnings are sent to `warn`, which may be nil.
// On failure, no image is returned.
func (c *Converter) Render(svg []byte, target Target, warn WarningHandler) ([]byte, error) {
	if err := c.acquire(); err != nil {
		return nil, err
	}
	return c.process(svg, target, warn)
}

// RenderAsync starts a render on a new goroutine and returns a channel
// receiving its result. A request issued while another render is
// in progress fails immediately: the channel then holds ErrRenderingInProgress.
func (c *Converter) RenderAsync(svg []byte, target Target, warn WarningHandler) <-chan Result {
	ch := make(chan Result, 1)
	if err := c.acquire(); err != nil {
		ch <- Result{Err: err}
		close(ch)
		return ch
	}
	go func() {
		defer close(ch)
		out, err := c.process(svg, target, warn)
		ch <- Result{PNG: out, Err: err}
	}()
	return ch
}

// RenderContext is like Render but returns ctx.Err() if `ctx` is done
// before the render ends. The render itself is not interrupted, and
// the converter stays busy until it finishes.
func (c *Converter) RenderContext(ctx context.Context, svg []byte, target Target, warn WarningHandler) ([]byte, error) {
	ch := c.RenderAsync(svg, target, warn)
	select {
	case res := <-ch:
		return res.PNG, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// process runs the conversion pipeline, then releases the converter.
// A panic in the pipeline is reported as a failed render.
func (c *Converter) process(svg []byte, target Target, warn WarningHandler) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("svgrender: render aborted: %v", r)
			svgicon.Logger().Error("render panicked", "panic", r)
		}
		c.release(err)
	}()
	return c.render(svg, target, warn)
}

// render runs the conversion pipeline
func (c *Converter) render(svg []byte, target Target, warn WarningHandler) ([]byte, error) {
	logger := svgicon.Logger()
	width, height, err := target.PixelSize()
	if err != nil {
		return nil, err
	}
	logger.Debug("render started", "width", width, "height", height, "bytes", len(svg))

	doc, err := svgicon.Parse(bytes.NewReader(svg))
	if err != nil {
		logger.Debug("render failed", "step", "parse", "error", err)
		return nil, err
	}

	if warning := doc.ResolveViewBox(float64(width), float64(height), c.config.AllowFixingMissingViewBox); warning != svgicon.NoWarning {
		logger.Debug("render warning", "warning", warning.Error())
		if warn != nil {
			warn(warning)
		}
	}

	vb, ok, err := doc.ViewBox()
	if err != nil {
		logger.Debug("render failed", "step", "viewBox", "error", err)
		return nil, err
	}
	m := svgicon.NormalizeTransform(vb, ok, float64(width), float64(height))

	icon, err := doc.Icon(c.config.ErrorMode)
	if err != nil {
		logger.Debug("render failed", "step", "build", "error", err)
		return nil, err
	}

	if c.beforeRasterize != nil {
		c.beforeRasterize()
	}
	img, err := svgraster.Rasterize(icon, m, width, height)
	if err != nil {
		logger.Debug("render failed", "step", "rasterize", "error", err)
		return nil, err
	}
	if c.config.RemoveAlphaChannel {
		img = svgraster.RemoveAlpha(img, c.config.Background)
	}

	out, err := encodePNG(img, c.config.CompressionLevel, c.config.RemoveAlphaChannel)
	if err != nil {
		logger.Debug("render failed", "step", "encode", "error", err)
		return nil, err
	}
	logger.Debug("render completed", "width", width, "height", height, "bytes", len(out))
	return out, nil
}
