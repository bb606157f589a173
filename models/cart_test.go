package models

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCartRoundTrip(t *testing.T) {
	entries := []CartEntry{
		{ID: "b", Title: "Banana", ImageURL: "https://img/b.png", Price: 0.1, Quantity: 7},
		{ID: "a", Title: "Açaí \"bowl\"", ImageURL: "", Price: 19.99, Quantity: 1},
	}

	data, err := EncodeCart(entries)
	assert.NoError(t, err)

	decoded, err := DecodeCart(data)
	assert.NoError(t, err)
	assert.Equal(t, entries, decoded)
}

func TestEncodeCartUsesStoredFieldNames(t *testing.T) {
	data, err := EncodeCart([]CartEntry{{ID: "x", Title: "T", ImageURL: "u", Price: 9.99, Quantity: 1}})
	assert.NoError(t, err)
	assert.Equal(t, `[{"id":"x","title":"T","image_url":"u","price":9.99,"quantity":1}]`, data)

	empty, err := EncodeCart(nil)
	assert.NoError(t, err)
	assert.Equal(t, `[]`, empty)
}

func TestDecodeCartRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"NotJSON", `{oops`},
		{"Object", `{"id":"a"}`},
		{"Null", `null`},
		{"MissingID", `[{"title":"T","quantity":1}]`},
		{"ZeroQuantity", `[{"id":"a","quantity":0}]`},
		{"DuplicateID", `[{"id":"a","quantity":1},{"id":"a","quantity":2}]`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := DecodeCart(test.data)
			assert.IsError(t, err, ErrMalformedCart)
		})
	}
}

func TestDecodeEmptyCart(t *testing.T) {
	entries, err := DecodeCart(`[]`)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(entries))
}
