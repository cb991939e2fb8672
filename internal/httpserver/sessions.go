package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cluborder/internal/domain"
	"cluborder/internal/wizard"
)

func createSessionHandler(svc *wizard.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := svc.Create()
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, snap)
	}
}

func getSessionHandler(svc *wizard.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := svc.Get(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func buyerHandler(svc *wizard.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in wizard.BuyerInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		snap, err := svc.SetBuyer(c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func packageHandler(svc *wizard.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in wizard.PackageInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		snap, err := svc.SetPackage(c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// extraUpdate toggles selection or records a size for one extra.
type extraUpdate struct {
	ExtraID string  `json:"extraId"`
	Toggle  bool    `json:"toggle,omitempty"`
	Size    *string `json:"size,omitempty"`
}

func extrasHandler(svc *wizard.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in extraUpdate
		if err := c.ShouldBindJSON(&in); err != nil || in.ExtraID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		id := c.Param("id")
		var (
			snap wizard.Snapshot
			err  error
		)
		switch {
		case in.Toggle:
			snap, err = svc.ToggleExtra(id, in.ExtraID)
		case in.Size != nil:
			snap, err = svc.SetExtraSize(id, in.ExtraID, *in.Size)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "either toggle or size is required"})
			return
		}
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func advanceHandler(svc *wizard.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := svc.Advance(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func backHandler(svc *wizard.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := svc.Back(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func paymentHandler(svc *wizard.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := svc.PaymentInfo(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

// writeError maps domain errors onto HTTP statuses. Guard failures are a
// conflict, not an exception.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, domain.ErrTransitionBlocked), errors.Is(err, domain.ErrNotPayment):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnknownPackage),
		errors.Is(err, domain.ErrUnknownExtra),
		errors.Is(err, domain.ErrInvalidSize):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
