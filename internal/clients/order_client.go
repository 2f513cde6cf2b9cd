package clients

import (
	"context"
	"fmt"
	"time"

	"candlebliss_storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type OrderClient interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error)
}

type orderHTTPClient struct {
	api *apiClient
	log *logrus.Logger
}

func NewOrderHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) OrderClient {
	return &orderHTTPClient{
		api: newAPIClient(baseURL, timeout, logger),
		log: logger,
	}
}

func (c *orderHTTPClient) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.api.get(ctx, "/api/orders", nil, &orders); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	c.log.Debugf("OrderClient: Retrieved %d orders", len(orders))
	return orders, nil
}

func (c *orderHTTPClient) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	var order domain.Order
	path := fmt.Sprintf("/api/orders/%d/status", id)
	if err := c.api.patch(ctx, path, domain.UpdateOrderStatusRequest{Status: status}, &order); err != nil {
		return nil, fmt.Errorf("failed to update status of order %d: %w", id, err)
	}
	c.log.Infof("OrderClient: Order %d moved to status %s", id, status)
	return &order, nil
}
