package httpserver

import (
	"image/png"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cluborder/internal/barcode"
	"cluborder/internal/wizard"
)

const (
	defaultBarcodeWidth  = 600
	defaultBarcodeHeight = 300
	maxBarcodeDimension  = 2000
)

// barcodeHandler renders the session's HUB-3 payload as a PDF417 PNG. A
// failed render still yields an image: the surface carries the error
// marker instead of a symbol.
func barcodeHandler(svc *wizard.Service, renderer *barcode.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := svc.Payload(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}

		w := dimensionQuery(c, "w", defaultBarcodeWidth)
		h := dimensionQuery(c, "h", defaultBarcodeHeight)
		surface := barcode.NewImageSurface(w, h)
		_ = renderer.Render(c.Request.Context(), surface, payload)
		if c.Request.Context().Err() != nil {
			// client went away mid-render
			c.Status(http.StatusRequestTimeout)
			return
		}

		c.Header("Content-Type", "image/png")
		c.Header("Cache-Control", "no-store")
		if err := png.Encode(c.Writer, surface.Image()); err != nil {
			c.Status(http.StatusInternalServerError)
		}
	}
}

func dimensionQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > maxBarcodeDimension {
		return def
	}
	return n
}
