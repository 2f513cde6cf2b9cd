package clients

import (
	"context"
	"fmt"
	"time"

	"candlebliss_storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type PriceClient interface {
	ListPricesByDetail(ctx context.Context, detailID int) ([]domain.Price, error)
	UpdatePrice(ctx context.Context, id int, req domain.UpdatePriceRequest) (*domain.Price, error)
}

type priceHTTPClient struct {
	api *apiClient
	log *logrus.Logger
}

func NewPriceHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) PriceClient {
	return &priceHTTPClient{
		api: newAPIClient(baseURL, timeout, logger),
		log: logger,
	}
}

func (c *priceHTTPClient) ListPricesByDetail(ctx context.Context, detailID int) ([]domain.Price, error) {
	var prices []domain.Price
	if err := c.api.get(ctx, fmt.Sprintf("/api/v1/prices/product-detail/%d", detailID), nil, &prices); err != nil {
		return nil, fmt.Errorf("failed to list prices of product detail %d: %w", detailID, err)
	}
	return prices, nil
}

func (c *priceHTTPClient) UpdatePrice(ctx context.Context, id int, req domain.UpdatePriceRequest) (*domain.Price, error) {
	var price domain.Price
	if err := c.api.patch(ctx, fmt.Sprintf("/api/v1/prices/%d", id), req, &price); err != nil {
		return nil, fmt.Errorf("failed to update price %d: %w", id, err)
	}
	c.log.Infof("PriceClient: Updated price ID %d (base %.2f, discount %.2f)", id, req.BasePrice, req.DiscountPrice)
	return &price, nil
}
