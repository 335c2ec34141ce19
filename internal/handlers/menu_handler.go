package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menuService MenuServiceInterface
}

func NewMenuHandler(menuService MenuServiceInterface) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// RegisterRoutes registers the public menu routes
func (h *MenuHandler) RegisterRoutes(router *gin.RouterGroup) {
	menu := router.Group("/menu")
	{
		menu.GET("", h.ListMenu)
		menu.GET("/:product_id", h.GetProduct)
	}
}

// @Summary List menu
// @Description List menu products sorted by name, unavailable ones included with is_available=false
// @Tags menu
// @Produce json
// @Param limit query int false "Items per page (default: 50)"
// @Param offset query int false "Offset (default: 0)"
// @Success 200 {array} models.Product
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/menu [get]
func (h *MenuHandler) ListMenu(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	products, err := h.menuService.ListMenu(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, "Failed to list menu", err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// @Summary Get product
// @Tags menu
// @Produce json
// @Param product_id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/menu/{product_id} [get]
func (h *MenuHandler) GetProduct(c *gin.Context) {
	product, err := h.menuService.GetProduct(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		respondError(c, "Failed to get product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}
