package middleware

import (
	"go-marketplace/services"

	"github.com/gin-gonic/gin"
)

const cartStoreKey = "cart_store"

// CartProvider makes store available to every handler in the group.
func CartProvider(store *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cartStoreKey, store)
		c.Request = c.Request.WithContext(services.WithCartStore(c.Request.Context(), store))
		c.Next()
	}
}

// UseCart returns the store installed by CartProvider. It panics with
// services.ErrNoCartProvider when the route is not wrapped by one.
func UseCart(c *gin.Context) *services.CartStore {
	if v, ok := c.Get(cartStoreKey); ok {
		if store, ok := v.(*services.CartStore); ok && store != nil {
			return store
		}
	}
	return services.MustCartStore(c.Request.Context())
}
