package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"whitelisted field passes through", "quantity", "quantity"},
		{"empty field falls back to default", "", "updated_at"},
		{"whitespace falls back to default", "   ", "updated_at"},
		{"unknown column falls back to default", "secret_column", "updated_at"},
		{"statement injection falls back to default", "quantity; DROP TABLE inventory_records; --", "updated_at"},
		{"subquery injection falls back to default", "(SELECT password_hash FROM users LIMIT 1)", "updated_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSortField(tt.input, InventoryRecordSortFields, "updated_at")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"asc is normalized", "asc", "ASC"},
		{"ASC passes through", "ASC", "ASC"},
		{"desc is normalized", "desc", "DESC"},
		{"empty defaults to DESC", "", "DESC"},
		{"garbage defaults to DESC", "DESC; DROP TABLE users", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}
