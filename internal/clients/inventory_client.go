package clients

import (
	"context"
	"fmt"
	"time"

	"candlebliss_storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type InventoryClient interface {
	ListHistory(ctx context.Context) ([]domain.InventoryHistoryItem, error)
	Adjust(ctx context.Context, adj domain.InventoryAdjustment) (*domain.InventoryHistoryItem, error)
}

type inventoryHTTPClient struct {
	api *apiClient
	log *logrus.Logger
}

func NewInventoryHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) InventoryClient {
	return &inventoryHTTPClient{
		api: newAPIClient(baseURL, timeout, logger),
		log: logger,
	}
}

func (c *inventoryHTTPClient) ListHistory(ctx context.Context) ([]domain.InventoryHistoryItem, error) {
	var history []domain.InventoryHistoryItem
	if err := c.api.get(ctx, "/api/inventory", nil, &history); err != nil {
		return nil, fmt.Errorf("failed to list inventory history: %w", err)
	}
	return history, nil
}

func (c *inventoryHTTPClient) Adjust(ctx context.Context, adj domain.InventoryAdjustment) (*domain.InventoryHistoryItem, error) {
	if adj.Quantity <= 0 {
		c.log.Errorf("InventoryClient: Attempted non-positive adjustment (%d) for product detail ID %d", adj.Quantity, adj.ProductDetailID)
		return nil, fmt.Errorf("quantity must be positive")
	}
	adj.QuantityChange = adj.SignedDelta()

	var item domain.InventoryHistoryItem
	if err := c.api.post(ctx, "/api/inventory", adj, &item); err != nil {
		return nil, fmt.Errorf("failed to record inventory %s for product detail %d: %w", adj.Type, adj.ProductDetailID, err)
	}
	c.log.Infof("InventoryClient: Recorded %s of %d for product detail ID %d", adj.Type, adj.Quantity, adj.ProductDetailID)
	return &item, nil
}
