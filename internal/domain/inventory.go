package domain

import "time"

type InventoryChangeType string

const (
	InventoryImport InventoryChangeType = "IMPORT"
	InventoryExport InventoryChangeType = "EXPORT"
)

func IsValidChangeType(t InventoryChangeType) bool {
	return t == InventoryImport || t == InventoryExport
}

type InventoryHistoryItem struct {
	ID              int                 `json:"id"`
	ProductDetailID int                 `json:"productDetailId"`
	ProductName     string              `json:"productName"`
	QuantityChange  int                 `json:"quantityChange"`
	Type            InventoryChangeType `json:"type"`
	Reason          string              `json:"reason"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// InventoryAdjustment is what the warehouse form submits; Quantity is always positive.
type InventoryAdjustment struct {
	ProductDetailID int                 `json:"productDetailId"`
	Quantity        int                 `json:"-"`
	QuantityChange  int                 `json:"quantityChange"`
	Type            InventoryChangeType `json:"type"`
	Reason          string              `json:"reason"`
}

// SignedDelta is the quantity change applied to stock: negative for exports.
func (a InventoryAdjustment) SignedDelta() int {
	if a.Type == InventoryExport {
		return -a.Quantity
	}
	return a.Quantity
}

// StockRow is one product detail on the warehouse page.
type StockRow struct {
	ProductID       int
	ProductName     string
	ProductDetailID int
	Size            string
	Type            string
	Values          string
	Quantity        int
	IsActive        bool
}
