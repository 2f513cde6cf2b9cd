package handlers

import (
	"time"

	"candlebliss_storefront/internal/clients"
	"candlebliss_storefront/internal/middleware"
	"candlebliss_storefront/internal/session"
	"candlebliss_storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Dependencies is everything the HTTP surface needs.
type Dependencies struct {
	Storefront usecase.StorefrontUseCase
	Customers  usecase.CustomerUseCase
	Exchanges  usecase.ExchangeUseCase
	Products   usecase.ProductUseCase
	Warehouse  usecase.WarehouseUseCase
	Activity   ActivityLister
	Auth       clients.AuthClient
	Sessions   session.Store
	Checks     map[string]Check

	PageSize     int
	SessionTTL   time.Duration
	SecureCookie bool
	Logger       *logrus.Logger
}

func NewRouter(deps Dependencies) (*gin.Engine, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	log := deps.Logger
	pages := NewPages(deps.Sessions, deps.SessionTTL, deps.SecureCookie, log)

	storefrontHandler := NewStorefrontHandler(deps.Storefront, pages, deps.PageSize, log)
	authHandler := NewAuthHandler(deps.Auth, pages, log)
	customerHandler := NewCustomerHandler(deps.Customers, pages, deps.PageSize, log)
	exchangeHandler := NewExchangeHandler(deps.Exchanges, pages, deps.PageSize, log)
	productHandler := NewProductHandler(deps.Products, pages, log)
	warehouseHandler := NewWarehouseHandler(deps.Warehouse, pages, deps.PageSize, log)
	activityHandler := NewActivityHandler(deps.Activity, pages, log)
	healthHandler := NewHealthHandler(deps.Checks, log)

	router := gin.New()
	router.HTMLRender = renderer
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.LoadSession(deps.Sessions, log))

	router.GET("/health", healthHandler.Health)

	router.GET("/", storefrontHandler.Search)
	router.GET("/search", storefrontHandler.Search)
	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)

	router.GET("/cart", middleware.RequireLogin(log), storefrontHandler.Cart)

	admin := router.Group("/admin")
	admin.Use(middleware.RequireLogin(log), middleware.RequireAdmin(log))
	{
		admin.GET("/customers", customerHandler.List)
		admin.GET("/customers/export", customerHandler.Export)
		admin.GET("/customers/:id/orders", customerHandler.Orders)

		admin.GET("/exchanges", exchangeHandler.List)
		admin.GET("/exchanges/:id", exchangeHandler.Detail)
		admin.POST("/exchanges/:id/status", exchangeHandler.UpdateStatus)

		admin.GET("/products/:id", productHandler.Edit)
		admin.POST("/products/:id", productHandler.UpdateProduct)
		admin.POST("/products/:id/details/:detailId", productHandler.UpdateDetail)
		admin.POST("/products/:id/prices/:priceId", productHandler.UpdatePrice)

		admin.GET("/warehouse", warehouseHandler.Stock)
		admin.GET("/warehouse/history", warehouseHandler.History)
		admin.POST("/warehouse/adjust", warehouseHandler.Adjust)

		admin.GET("/activity", activityHandler.List)
	}

	return router, nil
}
