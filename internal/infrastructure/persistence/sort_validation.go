package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"sku":                 true,
	"barcode":             true,
	"name":                true,
	"category_id":         true,
	"price":               true,
	"cost_price":          true,
	"low_stock_threshold": true,
	"active":              true,
}

// CategorySortFields contains allowed sort fields for categories
var CategorySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"slug":       true,
	"sort_order": true,
}

// BranchSortFields contains allowed sort fields for branches
var BranchSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"city":       true,
	"active":     true,
	"sort_order": true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"name":         true,
	"contact_name": true,
	"active":       true,
	"sort_order":   true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"full_name":     true,
	"branch_id":     true,
	"role_id":       true,
	"active":        true,
	"last_login_at": true,
}

// RoleSortFields contains allowed sort fields for roles
var RoleSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"is_system":  true,
}

// InventoryRecordSortFields contains allowed sort fields for inventory records
var InventoryRecordSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"branch_id":     true,
	"product_id":    true,
	"quantity":      true,
	"reorder_point": true,
	"bin_location":  true,
}

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"occurred_at": true,
	"branch_id":   true,
	"product_id":  true,
	"type":        true,
	"quantity":    true,
	"reference":   true,
}

// AdjustmentSortFields contains allowed sort fields for stock adjustments
var AdjustmentSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"branch_id":   true,
	"product_id":  true,
	"direction":   true,
	"quantity":    true,
	"reason":      true,
	"adjusted_by": true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"supplier_id":   true,
	"supplier_name": true,
	"branch_id":     true,
	"status":        true,
	"total_cost":    true,
	"sent_at":       true,
	"received_at":   true,
}

// StockTransferSortFields contains allowed sort fields for stock transfers
var StockTransferSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"transfer_number": true,
	"from_branch_id":  true,
	"to_branch_id":    true,
	"status":          true,
	"priority":        true,
	"shipped_at":      true,
	"received_at":     true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"sale_number":    true,
	"branch_id":      true,
	"sold_by":        true,
	"status":         true,
	"payment_method": true,
	"total_amount":   true,
	"sold_at":        true,
	"till_number":    true,
}
