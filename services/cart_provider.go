package services

import (
	"context"
	"errors"
)

// ErrNoCartProvider is raised when the cart is used outside a provider scope.
var ErrNoCartProvider = errors.New("cart store must be used within a cart provider")

type cartStoreKey struct{}

func WithCartStore(ctx context.Context, store *CartStore) context.Context {
	return context.WithValue(ctx, cartStoreKey{}, store)
}

func CartStoreFrom(ctx context.Context) (*CartStore, error) {
	store, ok := ctx.Value(cartStoreKey{}).(*CartStore)
	if !ok || store == nil {
		return nil, ErrNoCartProvider
	}
	return store, nil
}

// MustCartStore panics with ErrNoCartProvider outside a provider scope.
func MustCartStore(ctx context.Context) *CartStore {
	store, err := CartStoreFrom(ctx)
	if err != nil {
		panic(err)
	}
	return store
}
