package clients

import (
	"context"
	"fmt"
	"time"

	"candlebliss_storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type ProductClient interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int, req domain.UpdateProductRequest) (*domain.Product, error)
}

type productHTTPClient struct {
	api *apiClient
	log *logrus.Logger
}

func NewProductHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) ProductClient {
	return &productHTTPClient{
		api: newAPIClient(baseURL, timeout, logger),
		log: logger,
	}
}

func (c *productHTTPClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.api.get(ctx, "/api/products", nil, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	c.log.Debugf("ProductClient: Retrieved %d products", len(products))
	return products, nil
}

func (c *productHTTPClient) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	var product domain.Product
	if err := c.api.get(ctx, fmt.Sprintf("/api/products/%d", id), nil, &product); err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	if product.ID != id {
		c.log.Warnf("ProductClient: Mismatched product ID in response. Requested %d, got %d", id, product.ID)
	}
	return &product, nil
}

func (c *productHTTPClient) UpdateProduct(ctx context.Context, id int, req domain.UpdateProductRequest) (*domain.Product, error) {
	var product domain.Product
	if err := c.api.patch(ctx, fmt.Sprintf("/api/products/%d", id), req, &product); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	c.log.Infof("ProductClient: Updated product ID %d", id)
	return &product, nil
}
