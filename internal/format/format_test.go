package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{name: "small", amount: 500, want: "Rs. 500.00"},
		{name: "thousand", amount: 1234, want: "Rs. 1,234.00"},
		{name: "lakh", amount: 123456, want: "Rs. 1,23,456.00"},
		{name: "ten lakh with paisa", amount: 1234567.5, want: "Rs. 12,34,567.50"},
		{name: "crore", amount: 12345678, want: "Rs. 1,23,45,678.00"},
		{name: "zero", amount: 0, want: "Rs. 0.00"},
		{name: "negative", amount: -1234.5, want: "Rs. -1,234.50"},
		{name: "rounds paisa up", amount: 9.999, want: "Rs. 10.00"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Currency(tt.amount))
		})
	}
}

func TestDate(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, time.March, 7, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "Mar 7, 2025", Date(ts))
	assert.Equal(t, "Mar 7, 2025 2:05 PM", DateTime(ts))
	assert.Empty(t, Date(time.Time{}))
	assert.Empty(t, DateTime(time.Time{}))
}

func TestImageURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{name: "relative joins base", base: "https://cdn.example.com", path: "products/kettle.jpg", want: "https://cdn.example.com/products/kettle.jpg"},
		{name: "strips duplicate slashes", base: "https://cdn.example.com/", path: "/products/kettle.jpg", want: "https://cdn.example.com/products/kettle.jpg"},
		{name: "absolute passes through", base: "https://cdn.example.com", path: "https://elsewhere.com/x.jpg", want: "https://elsewhere.com/x.jpg"},
		{name: "empty path", base: "https://cdn.example.com", path: "", want: ""},
		{name: "no base", base: "", path: "products/kettle.jpg", want: "products/kettle.jpg"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ImageURL(tt.base, tt.path))
		})
	}
}
