package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cluborder/internal/catalog"
)

func catalogHandler(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cat)
	}
}
