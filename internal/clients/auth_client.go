package clients

import (
	"context"
	"fmt"
	"time"

	"candlebliss_storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type AuthClient interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
}

type authHTTPClient struct {
	api *apiClient
	log *logrus.Logger
}

func NewAuthHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) AuthClient {
	return &authHTTPClient{
		api: newAPIClient(baseURL, timeout, logger),
		log: logger,
	}
}

func (c *authHTTPClient) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	c.log.Debugf("AuthClient: Logging in %s", req.Email)
	var res domain.LoginResponse
	if err := c.api.post(ctx, "/api/v1/auth/email/login", req, &res); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if res.Token == "" {
		return nil, fmt.Errorf("login failed: api returned no token")
	}
	return &res, nil
}
