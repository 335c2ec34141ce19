package handlers

import (
	"net/http"
	"strconv"

	"golang-food-storefront/internal/middleware"
	"golang-food-storefront/internal/models"
	"golang-food-storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	sessions        *services.CartSessions
	checkoutService CheckoutServiceInterface
	menuService     MenuServiceInterface
}

// NewCartHandler builds the cart handler. menuService may be nil, in which
// case adding straight from the catalog is not offered.
func NewCartHandler(sessions *services.CartSessions, checkoutService CheckoutServiceInterface, menuService MenuServiceInterface) *CartHandler {
	return &CartHandler{
		sessions:        sessions,
		checkoutService: checkoutService,
		menuService:     menuService,
	}
}

// RegisterRoutes registers the routes for cart management
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, sessionMiddleware *middleware.SessionMiddleware) {
	cart := router.Group("/cart", sessionMiddleware.SessionRequired())
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)

		cart.POST("/items", h.AddItem)
		if h.menuService != nil {
			cart.POST("/items/catalog/:product_id", h.AddCatalogItem)
		}
		cart.PUT("/items/:item_id", h.SetQuantity)
		cart.DELETE("/items/:item_id", h.RemoveItem)
		cart.POST("/items/:item_id/increase", h.IncreaseQuantity)
		cart.POST("/items/:item_id/decrease", h.DecreaseQuantity)

		cart.POST("/checkout", h.Checkout)
	}
}

type CartMutationResponse struct {
	Changed bool            `json:"changed"`
	Cart    models.CartView `json:"cart"`
}

type SetQuantityRequest struct {
	// Quantity is raw user input, a JSON number or string
	Quantity interface{} `json:"quantity"`
}

// mutate runs op against the caller's cart and writes the resulting view.
func (h *CartHandler) mutate(c *gin.Context, title string, op func(cart *services.CartManager) (bool, error)) {
	var resp CartMutationResponse
	err := h.sessions.WithCart(c.Request.Context(), middleware.GetSessionID(c), func(cart *services.CartManager) error {
		changed, err := op(cart)
		if err != nil {
			return err
		}
		resp = CartMutationResponse{Changed: changed, Cart: cart.View()}
		return nil
	})
	if err != nil {
		respondError(c, title, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCart returns the caller's line items and totals
func (h *CartHandler) GetCart(c *gin.Context) {
	var view models.CartView
	err := h.sessions.WithCart(c.Request.Context(), middleware.GetSessionID(c), func(cart *services.CartManager) error {
		view = cart.View()
		return nil
	})
	if err != nil {
		respondError(c, "Failed to get cart", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// AddItem adds one unit of the posted product descriptor
func (h *CartHandler) AddItem(c *gin.Context) {
	var req models.ProductDescriptor
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	h.mutate(c, "Failed to add item to cart", func(cart *services.CartManager) (bool, error) {
		return cart.AddItem(c.Request.Context(), req)
	})
}

// AddCatalogItem looks the product up on the menu and adds one unit of it
func (h *CartHandler) AddCatalogItem(c *gin.Context) {
	descriptor, err := h.menuService.Descriptor(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		respondError(c, "Failed to add item to cart", err)
		return
	}

	h.mutate(c, "Failed to add item to cart", func(cart *services.CartManager) (bool, error) {
		return cart.AddItem(c.Request.Context(), descriptor)
	})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	id := c.Param("item_id")
	h.mutate(c, "Failed to remove item from cart", func(cart *services.CartManager) (bool, error) {
		return cart.RemoveItem(c.Request.Context(), id), nil
	})
}

func (h *CartHandler) IncreaseQuantity(c *gin.Context) {
	id := c.Param("item_id")
	h.mutate(c, "Failed to update cart item", func(cart *services.CartManager) (bool, error) {
		return cart.IncreaseQuantity(c.Request.Context(), id), nil
	})
}

func (h *CartHandler) DecreaseQuantity(c *gin.Context) {
	id := c.Param("item_id")
	h.mutate(c, "Failed to update cart item", func(cart *services.CartManager) (bool, error) {
		return cart.DecreaseQuantity(c.Request.Context(), id), nil
	})
}

// SetQuantity accepts whatever the quantity box held; unusable input becomes 1
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	id := c.Param("item_id")
	quantity := services.ParseQuantity(rawQuantity(req.Quantity))
	h.mutate(c, "Failed to update cart item", func(cart *services.CartManager) (bool, error) {
		return cart.SetQuantity(c.Request.Context(), id, quantity), nil
	})
}

func rawQuantity(v interface{}) string {
	switch q := v.(type) {
	case string:
		return q
	case float64:
		return strconv.FormatFloat(q, 'f', -1, 64)
	default:
		return ""
	}
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	h.mutate(c, "Failed to clear cart", func(cart *services.CartManager) (bool, error) {
		changed := cart.Len() > 0
		cart.ClearCart(c.Request.Context())
		return changed, nil
	})
}

// Checkout places the order for the current cart and empties it
func (h *CartHandler) Checkout(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.checkoutService.Checkout(c.Request.Context(), middleware.GetSessionID(c), &req)
	if err != nil {
		respondError(c, "Failed to checkout", err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
