package clients

import (
	"context"
	"fmt"
	"time"

	"candlebliss_storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type CartClient interface {
	GetCartByUser(ctx context.Context, userID int) (*domain.Cart, error)
}

type cartHTTPClient struct {
	api *apiClient
}

func NewCartHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) CartClient {
	return &cartHTTPClient{api: newAPIClient(baseURL, timeout, logger)}
}

func (c *cartHTTPClient) GetCartByUser(ctx context.Context, userID int) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.api.get(ctx, fmt.Sprintf("/api/cart/user/%d", userID), nil, &cart); err != nil {
		return nil, fmt.Errorf("failed to get cart of user %d: %w", userID, err)
	}
	return &cart, nil
}
