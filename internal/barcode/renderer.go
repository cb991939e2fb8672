// Package barcode renders HUB-3 payment payloads as PDF417 symbols onto a
// raster surface. Rendering failures are recovered locally: the surface is
// cleared and a short error message is painted instead of leaving stale or
// partial content.
package barcode

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/pdf417"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"cluborder/internal/await"
)

const renderErrorText = "Greska pri crtanju barkoda"

// Renderer draws PDF417 symbols at a fixed configuration.
type Renderer struct {
	securityLevel byte
	surfaceWait   time.Duration
	pollInterval  time.Duration
	logger        *zap.Logger
}

// Option tweaks a Renderer.
type Option func(*Renderer)

// WithSurfaceWait overrides the bounded wait for surface readiness.
func WithSurfaceWait(timeout, interval time.Duration) Option {
	return func(r *Renderer) {
		r.surfaceWait = timeout
		r.pollInterval = interval
	}
}

// WithSecurityLevel overrides the PDF417 error-correction level.
func WithSecurityLevel(level byte) Option {
	return func(r *Renderer) {
		r.securityLevel = level
	}
}

// NewRenderer builds a Renderer with the defaults used on the payment step.
func NewRenderer(logger *zap.Logger, opts ...Option) *Renderer {
	r := &Renderer{
		securityLevel: 2,
		surfaceWait:   1500 * time.Millisecond,
		pollInterval:  50 * time.Millisecond,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws the payload onto the surface. Blank payloads are skipped
// silently with a diagnostic. The surface is awaited with a bounded poll;
// a cancelled ctx before the draw commits leaves the surface untouched.
func (r *Renderer) Render(ctx context.Context, s Surface, payload string) error {
	if strings.TrimSpace(payload) == "" {
		r.logger.Warn("skipping barcode render: empty payload")
		return nil
	}

	if err := await.Until(ctx, func() bool { return s.Image() != nil }, r.surfaceWait, r.pollInterval); err != nil {
		return fmt.Errorf("barcode surface not ready: %w", err)
	}

	code, err := pdf417.Encode(payload, r.securityLevel)
	if err == nil {
		img := s.Image()
		bounds := img.Bounds()
		var scaled barcode.Barcode
		scaled, err = barcode.Scale(code, bounds.Dx(), bounds.Dy())
		if err == nil {
			if cerr := ctx.Err(); cerr != nil {
				// the owning view moved on; do not touch its surface
				return cerr
			}
			fill(img, color.White)
			draw.Draw(img, bounds, scaled, scaled.Bounds().Min, draw.Src)
			r.logger.Debug("pdf417 rendered", zap.Int("payloadLen", len(payload)))
			return nil
		}
	}

	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	r.paintError(s.Image())
	r.logger.Error("pdf417 render failed", zap.Error(err))
	return fmt.Errorf("render pdf417: %w", err)
}

func (r *Renderer) paintError(img draw.Image) {
	if img == nil {
		return
	}
	fill(img, color.White)
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 0x99, A: 0xff}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(img.Bounds().Min.X+10, img.Bounds().Min.Y+20),
	}
	d.DrawString(renderErrorText)
}

func fill(img draw.Image, c color.Color) {
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}
