package clients

import (
	"context"
	"fmt"
	"time"

	"candlebliss_storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type UserClient interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type userHTTPClient struct {
	api *apiClient
}

func NewUserHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) UserClient {
	return &userHTTPClient{api: newAPIClient(baseURL, timeout, logger)}
}

func (c *userHTTPClient) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.api.get(ctx, "/api/v1/users", nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
