package api

import (
	"errors"
	"net/http"

	"pdv-terminal/internal/domain/cart"
	reqdto "pdv-terminal/internal/handler/dto/request"
	resdto "pdv-terminal/internal/handler/dto/response"
	"pdv-terminal/internal/handler/middleware"
	"pdv-terminal/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartCommands commands.CartCommands
}

func NewCartHandler(cartCommands commands.CartCommands) *CartHandler {
	return &CartHandler{
		cartCommands: cartCommands,
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	h.run(c, http.StatusOK, func(id commands.Identity, terminalID string) (*commands.CartView, error) {
		return h.cartCommands.View(c.Request.Context(), id, terminalID)
	})
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req reqdto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	h.run(c, http.StatusCreated, func(id commands.Identity, terminalID string) (*commands.CartView, error) {
		return h.cartCommands.AddProduct(c.Request.Context(), id, terminalID, req.ProductID)
	})
}

func (h *CartHandler) Scan(c *gin.Context) {
	var req reqdto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	h.run(c, http.StatusCreated, func(id commands.Identity, terminalID string) (*commands.CartView, error) {
		return h.cartCommands.Scan(c.Request.Context(), id, terminalID, req.Code)
	})
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID format",
		})
		return
	}
	var req reqdto.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	h.run(c, http.StatusOK, func(id commands.Identity, terminalID string) (*commands.CartView, error) {
		return h.cartCommands.UpdateQuantity(c.Request.Context(), id, terminalID, productID, req.Delta)
	})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID format",
		})
		return
	}
	h.run(c, http.StatusOK, func(id commands.Identity, terminalID string) (*commands.CartView, error) {
		return h.cartCommands.RemoveItem(c.Request.Context(), id, terminalID, productID)
	})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	h.run(c, http.StatusOK, func(id commands.Identity, terminalID string) (*commands.CartView, error) {
		return h.cartCommands.ClearCart(c.Request.Context(), id, terminalID)
	})
}

func (h *CartHandler) SetLineDiscount(c *gin.Context) {
	var req reqdto.LineDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	h.run(c, http.StatusOK, func(id commands.Identity, terminalID string) (*commands.CartView, error) {
		return h.cartCommands.SetLineDiscount(c.Request.Context(), id, terminalID, req.ProductID, req.Percent)
	})
}

func (h *CartHandler) SetGlobalDiscount(c *gin.Context) {
	var req reqdto.GlobalDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	h.run(c, http.StatusOK, func(id commands.Identity, terminalID string) (*commands.CartView, error) {
		return h.cartCommands.SetGlobalDiscount(c.Request.Context(), id, terminalID, req.Percent)
	})
}

func (h *CartHandler) RepeatLastSale(c *gin.Context) {
	h.run(c, http.StatusCreated, func(id commands.Identity, terminalID string) (*commands.CartView, error) {
		return h.cartCommands.RepeatLastSale(c.Request.Context(), id, terminalID)
	})
}

func (h *CartHandler) run(c *gin.Context, successStatus int, op func(commands.Identity, string) (*commands.CartView, error)) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	terminalID := c.Param("terminal")

	view, err := op(id, terminalID)
	if err != nil {
		respondCartError(c, err)
		return
	}

	resp, err := resdto.FromCartView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(successStatus, resp)
}

func respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
	case errors.Is(err, commands.ErrNoLastSale):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No previous sale to repeat",
		})
	case errors.Is(err, cart.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Product is out of stock",
		})
	case errors.Is(err, cart.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Insufficient stock for requested quantity",
		})
	case errors.Is(err, cart.ErrLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Item is not in the cart",
		})
	case errors.Is(err, cart.ErrInvalidDiscount):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Discount must be between 0 and 100",
		})
	case errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid quantity",
		})
	case errors.Is(err, cart.ErrUnpricedProduct):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Product has no unit price",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
