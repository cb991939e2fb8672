package barcode

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
)

// Surface is a raster target for the renderer. Image returns nil until the
// surface is ready to be drawn on; the renderer polls for readiness with a
// bounded wait.
type Surface interface {
	Image() draw.Image
}

// ImageSurface is an in-memory Surface backed by an RGBA image. The zero
// value is not ready; NewImageSurface returns a ready one.
type ImageSurface struct {
	mu  sync.Mutex
	img *image.RGBA
}

// NewImageSurface returns a ready surface of the given dimensions, filled
// white like an empty canvas.
func NewImageSurface(width, height int) *ImageSurface {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, color.White)
	return &ImageSurface{img: img}
}

// Image implements Surface.
func (s *ImageSurface) Image() draw.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return nil
	}
	return s.img
}

// Attach makes the surface ready with the given backing image.
func (s *ImageSurface) Attach(img *image.RGBA) {
	s.mu.Lock()
	s.img = img
	s.mu.Unlock()
}
