package controllers

import (
	"io"
	"net/http"

	"go-marketplace/middleware"
	"go-marketplace/models"

	"github.com/gin-gonic/gin"
)

type CartController struct{}

// @Summary Get cart
// @Description Get the products currently in the cart, in insertion order
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=[]models.CartEntry}
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	store := middleware.UseCart(c)
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Cart retrieved", Data: store.Products()})
}

// @Summary Add to cart
// @Description Add one unit of a product; an existing entry has its quantity increased
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CartItem true "Product"
// @Success 200 {object} models.Response{data=[]models.CartEntry}
// @Failure 400 {object} models.ErrorResponse
// @Router /cart [post]
func (ctrl *CartController) AddToCart(c *gin.Context) {
	store := middleware.UseCart(c)

	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request",
			Error:   err.Error(),
		})
		return
	}

	store.AddToCart(item)
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Product added to cart", Data: store.Products()})
}

// @Summary Increment product
// @Description Add one unit of a product already in the cart. Unknown ids leave the cart unchanged
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Response{data=[]models.CartEntry}
// @Router /cart/{id}/increment [patch]
func (ctrl *CartController) Increment(c *gin.Context) {
	store := middleware.UseCart(c)
	store.Increment(c.Param("id"))
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Cart updated", Data: store.Products()})
}

// @Summary Decrement product
// @Description Remove one unit of a product; the product leaves the cart when its last unit is removed
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Response{data=[]models.CartEntry}
// @Router /cart/{id}/decrement [patch]
func (ctrl *CartController) Decrement(c *gin.Context) {
	store := middleware.UseCart(c)
	store.Decrement(c.Param("id"))
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Cart updated", Data: store.Products()})
}

// @Summary Clear cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=[]models.CartEntry}
// @Router /cart [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	store := middleware.UseCart(c)
	store.Clear()
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Cart cleared", Data: store.Products()})
}

// @Summary Cart events
// @Description Server-sent events; a "cart" event carries the full cart after every change
// @Tags Cart
// @Security BearerAuth
// @Produce text/event-stream
// @Router /cart/events [get]
func (ctrl *CartController) Events(c *gin.Context) {
	store := middleware.UseCart(c)

	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()

	c.Stream(func(w io.Writer) bool {
		select {
		case products, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("cart", products)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
