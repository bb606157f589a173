package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedCart = errors.New("malformed cart snapshot")

// CartEntry is one product line in the cart. Quantity is always >= 1 while
// the entry exists.
type CartEntry struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CartItem describes a product being added to the cart.
type CartItem struct {
	ID       string  `json:"id" binding:"required"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
}

func (i CartItem) Entry(quantity int) CartEntry {
	return CartEntry{
		ID:       i.ID,
		Title:    i.Title,
		ImageURL: i.ImageURL,
		Price:    i.Price,
		Quantity: quantity,
	}
}

// EncodeCart serializes the whole cart as a JSON array.
func EncodeCart(entries []CartEntry) (string, error) {
	if entries == nil {
		entries = []CartEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(data), nil
}

// DecodeCart parses a snapshot written by EncodeCart. Snapshots with
// duplicate ids, empty ids or non-positive quantities are rejected.
func DecodeCart(data string) ([]CartEntry, error) {
	var entries []CartEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCart, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: not a list", ErrMalformedCart)
	}

	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrMalformedCart, i)
		}
		if e.Quantity < 1 {
			return nil, fmt.Errorf("%w: entry %q has quantity %d", ErrMalformedCart, e.ID, e.Quantity)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("%w: duplicate entry %q", ErrMalformedCart, e.ID)
		}
		seen[e.ID] = true
	}
	return entries, nil
}
