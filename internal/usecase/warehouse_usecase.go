package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"candlebliss_storefront/internal/clients"
	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/session"
	"candlebliss_storefront/pkg/listing"

	"github.com/sirupsen/logrus"
)

type WarehouseUseCase interface {
	Stock(ctx context.Context, q listing.Query) (listing.Page[domain.StockRow], error)
	History(ctx context.Context, q listing.Query) (listing.Page[domain.InventoryHistoryItem], error)
	Adjust(ctx context.Context, adj domain.InventoryAdjustment) (*domain.InventoryHistoryItem, error)
}

type warehouseUseCase struct {
	inventory clients.InventoryClient
	catalog   *productCatalog
	audit     *Auditor
	log       *logrus.Logger
}

func NewWarehouseUseCase(
	products clients.ProductClient,
	inventory clients.InventoryClient,
	cache session.Cache,
	cacheTTL time.Duration,
	auditor *Auditor,
	logger *logrus.Logger,
) WarehouseUseCase {
	return &warehouseUseCase{
		inventory: inventory,
		catalog:   newProductCatalog(products, cache, cacheTTL, logger),
		audit:     auditor,
		log:       logger,
	}
}

var stockSorters = map[string]listing.Less[domain.StockRow]{
	"product":  func(a, b domain.StockRow) bool { return strings.ToLower(a.ProductName) < strings.ToLower(b.ProductName) },
	"quantity": func(a, b domain.StockRow) bool { return a.Quantity < b.Quantity },
	"detail":   func(a, b domain.StockRow) bool { return a.ProductDetailID < b.ProductDetailID },
}

var historySorters = map[string]listing.Less[domain.InventoryHistoryItem]{
	"createdAt": func(a, b domain.InventoryHistoryItem) bool { return a.CreatedAt.Before(b.CreatedAt) },
	"quantity":  func(a, b domain.InventoryHistoryItem) bool { return a.QuantityChange < b.QuantityChange },
}

func stockRows(products []domain.Product) []domain.StockRow {
	rows := make([]domain.StockRow, 0, len(products))
	for _, p := range products {
		for _, d := range p.Details {
			rows = append(rows, domain.StockRow{
				ProductID:       p.ID,
				ProductName:     p.Name,
				ProductDetailID: d.ID,
				Size:            d.Size,
				Type:            d.Type,
				Values:          d.Values,
				Quantity:        d.Quantities,
				IsActive:        d.IsActive,
			})
		}
	}
	return rows
}

func (uc *warehouseUseCase) Stock(ctx context.Context, q listing.Query) (listing.Page[domain.StockRow], error) {
	products, err := uc.catalog.list(ctx)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to load warehouse stock: %v", err)
		return listing.Paginate([]domain.StockRow{}, 1, q.PageSize), err
	}
	rows := stockRows(products)
	return listing.Apply(rows, q, func(r domain.StockRow, term string) bool {
		return listing.Contains(term, r.ProductName, r.Size, r.Type, r.Values, fmt.Sprint(r.ProductDetailID))
	}, stockSorters), nil
}

func (uc *warehouseUseCase) History(ctx context.Context, q listing.Query) (listing.Page[domain.InventoryHistoryItem], error) {
	history, err := uc.inventory.ListHistory(ctx)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to load inventory history: %v", err)
		return listing.Paginate([]domain.InventoryHistoryItem{}, 1, q.PageSize), err
	}
	if q.SortBy == "" {
		q.SortBy, q.Desc = "createdAt", true
	}
	return listing.Apply(history, q, func(h domain.InventoryHistoryItem, term string) bool {
		return listing.Contains(term, h.ProductName, h.Reason)
	}, historySorters), nil
}

// Adjust posts the change to the inventory API and then applies the same
// delta to the cached product list instead of refetching it.
func (uc *warehouseUseCase) Adjust(ctx context.Context, adj domain.InventoryAdjustment) (*domain.InventoryHistoryItem, error) {
	adj.Reason = strings.TrimSpace(adj.Reason)
	if adj.ProductDetailID <= 0 {
		return nil, invalid("choose a product detail")
	}
	if adj.Quantity <= 0 {
		return nil, invalid("quantity must be positive")
	}
	if !domain.IsValidChangeType(adj.Type) {
		return nil, invalid("unknown inventory change type %q", adj.Type)
	}

	products, err := uc.catalog.list(ctx)
	if err != nil {
		return nil, err
	}
	row, ok := findStockRow(products, adj.ProductDetailID)
	if !ok {
		return nil, fmt.Errorf("product detail %d: %w", adj.ProductDetailID, ErrNotFound)
	}
	if adj.Type == domain.InventoryExport && adj.Quantity > row.Quantity {
		return nil, invalid("cannot export %d of %s, only %d in stock", adj.Quantity, row.ProductName, row.Quantity)
	}

	item, err := uc.inventory.Adjust(ctx, adj)
	if err != nil {
		uc.log.Errorf("Use Case: Inventory %s for product detail %d failed: %v", adj.Type, adj.ProductDetailID, err)
		return nil, err
	}

	if !uc.catalog.applyDelta(ctx, adj.ProductDetailID, adj.SignedDelta()) {
		uc.log.Debugf("Use Case: Product cache not reconciled for detail %d, next read refetches", adj.ProductDetailID)
	}
	uc.audit.Record(ctx, "inventory.adjust", "product_detail", adj.ProductDetailID,
		fmt.Sprintf("%s %d (%s)", adj.Type, adj.Quantity, adj.Reason))
	uc.log.Infof("Use Case: Recorded %s of %d for %s (detail %d)", adj.Type, adj.Quantity, row.ProductName, adj.ProductDetailID)
	return item, nil
}

func findStockRow(products []domain.Product, detailID int) (domain.StockRow, bool) {
	for _, r := range stockRows(products) {
		if r.ProductDetailID == detailID {
			return r, true
		}
	}
	return domain.StockRow{}, false
}
