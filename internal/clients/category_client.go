package clients

import (
	"context"
	"fmt"
	"time"

	"candlebliss_storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type CategoryClient interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type categoryHTTPClient struct {
	api *apiClient
}

func NewCategoryHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) CategoryClient {
	return &categoryHTTPClient{api: newAPIClient(baseURL, timeout, logger)}
}

func (c *categoryHTTPClient) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.api.get(ctx, "/api/categories", nil, &categories); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
