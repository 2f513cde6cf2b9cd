package clients

import (
	"context"
	"fmt"
	"time"

	"candlebliss_storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type ProductDetailClient interface {
	GetProductDetail(ctx context.Context, id int) (*domain.ProductDetail, error)
	UpdateProductDetail(ctx context.Context, id int, req domain.UpdateProductDetailRequest) (*domain.ProductDetail, error)
}

type productDetailHTTPClient struct {
	api *apiClient
	log *logrus.Logger
}

func NewProductDetailHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) ProductDetailClient {
	return &productDetailHTTPClient{
		api: newAPIClient(baseURL, timeout, logger),
		log: logger,
	}
}

func (c *productDetailHTTPClient) GetProductDetail(ctx context.Context, id int) (*domain.ProductDetail, error) {
	var detail domain.ProductDetail
	if err := c.api.get(ctx, fmt.Sprintf("/api/product-details/%d", id), nil, &detail); err != nil {
		return nil, fmt.Errorf("failed to get product detail %d: %w", id, err)
	}
	return &detail, nil
}

func (c *productDetailHTTPClient) UpdateProductDetail(ctx context.Context, id int, req domain.UpdateProductDetailRequest) (*domain.ProductDetail, error) {
	var detail domain.ProductDetail
	if err := c.api.patch(ctx, fmt.Sprintf("/api/product-details/%d", id), req, &detail); err != nil {
		return nil, fmt.Errorf("failed to update product detail %d: %w", id, err)
	}
	c.log.Infof("ProductDetailClient: Updated product detail ID %d", id)
	return &detail, nil
}
