package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cluborder/internal/barcode"
	"cluborder/internal/catalog"
	"cluborder/internal/wizard"
)

// Deps carries everything the routes need.
type Deps struct {
	Wizard         *wizard.Service
	Catalog        *catalog.Catalog
	Renderer       *barcode.Renderer
	Logger         *zap.Logger
	AllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(deps.Logger), gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if allowsAll(deps.AllowedOrigins) {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = deps.AllowedOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/catalog", catalogHandler(deps.Catalog))

	sessions := router.Group("/sessions")
	{
		sessions.POST("", createSessionHandler(deps.Wizard))
		sessions.GET("/:id", getSessionHandler(deps.Wizard))
		sessions.PUT("/:id/buyer", buyerHandler(deps.Wizard))
		sessions.PUT("/:id/package", packageHandler(deps.Wizard))
		sessions.PUT("/:id/extras", extrasHandler(deps.Wizard))
		sessions.POST("/:id/advance", advanceHandler(deps.Wizard))
		sessions.POST("/:id/back", backHandler(deps.Wizard))
		sessions.GET("/:id/payment", paymentHandler(deps.Wizard))
		sessions.GET("/:id/barcode.png", barcodeHandler(deps.Wizard, deps.Renderer))
	}

	return router, nil
}

func allowsAll(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}

// requestLogger logs every request in structured form.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remoteIP", c.ClientIP()),
		)
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
