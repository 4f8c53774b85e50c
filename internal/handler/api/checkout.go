package api

import (
	"errors"
	"net/http"

	reqdto "pdv-terminal/internal/handler/dto/request"
	resdto "pdv-terminal/internal/handler/dto/response"
	"pdv-terminal/internal/handler/middleware"
	"pdv-terminal/internal/pkg/metrics"
	"pdv-terminal/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutCommands commands.CheckoutCommands
	metrics          *metrics.TerminalMetrics
}

func NewCheckoutHandler(checkoutCommands commands.CheckoutCommands, m *metrics.TerminalMetrics) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutCommands: checkoutCommands,
		metrics:          m,
	}
}

func (h *CheckoutHandler) Finalize(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	terminalID := c.Param("terminal")

	var req reqdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.checkoutCommands.Finalize(c.Request.Context(), id, terminalID, commands.FinalizeRequest{
		Payments: req.ToInputs(),
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEmptyCart):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Cart is empty",
			})
		case errors.Is(err, commands.ErrInvalidPayment):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid payment data",
			})
		case errors.Is(err, commands.ErrMissingIdentity):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Operator not authenticated",
			})
		case errors.Is(err, commands.ErrOfflineQueueFailed):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Sale could not be stored, try again",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	h.metrics.RecordCheckout(string(result.State))
	c.JSON(http.StatusCreated, resdto.FromCheckoutResult(result))
}
