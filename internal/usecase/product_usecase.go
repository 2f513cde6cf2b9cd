package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"candlebliss_storefront/internal/clients"
	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/session"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type DetailWithPrices struct {
	domain.ProductDetail
	Prices []domain.Price
}

type ProductEditor struct {
	Product    domain.Product
	Details    []DetailWithPrices
	Categories []domain.Category
}

type ProductUseCase interface {
	Load(ctx context.Context, productID int) (*ProductEditor, error)
	UpdateProduct(ctx context.Context, productID int, req domain.UpdateProductRequest) (*domain.Product, error)
	UpdateDetail(ctx context.Context, detailID int, req domain.UpdateProductDetailRequest) (*domain.ProductDetail, error)
	UpdatePrice(ctx context.Context, priceID int, req domain.UpdatePriceRequest) (*domain.Price, error)
}

type productUseCase struct {
	products   clients.ProductClient
	details    clients.ProductDetailClient
	prices     clients.PriceClient
	categories clients.CategoryClient
	catalog    *productCatalog
	audit      *Auditor
	log        *logrus.Logger
}

func NewProductUseCase(
	products clients.ProductClient,
	details clients.ProductDetailClient,
	prices clients.PriceClient,
	categories clients.CategoryClient,
	cache session.Cache,
	cacheTTL time.Duration,
	auditor *Auditor,
	logger *logrus.Logger,
) ProductUseCase {
	return &productUseCase{
		products:   products,
		details:    details,
		prices:     prices,
		categories: categories,
		catalog:    newProductCatalog(products, cache, cacheTTL, logger),
		audit:      auditor,
		log:        logger,
	}
}

// Load fetches the product, then the categories and every detail's prices
// in parallel. Missing categories or prices degrade to empty lists.
func (uc *productUseCase) Load(ctx context.Context, productID int) (*ProductEditor, error) {
	if productID <= 0 {
		return nil, invalid("invalid product ID")
	}
	product, err := uc.products.GetProduct(ctx, productID)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to load product %d: %v", productID, err)
		return nil, err
	}

	editor := &ProductEditor{
		Product:    *product,
		Details:    make([]DetailWithPrices, len(product.Details)),
		Categories: []domain.Category{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailFetchLimit)

	g.Go(func() error {
		categories, err := uc.categories.ListCategories(gctx)
		if err != nil {
			uc.log.Warnf("Use Case: Categories unavailable for product editor: %v", err)
			return nil
		}
		editor.Categories = categories
		return nil
	})

	for i, detail := range product.Details {
		editor.Details[i] = DetailWithPrices{ProductDetail: detail, Prices: []domain.Price{}}
		slot := &editor.Details[i]
		g.Go(func() error {
			prices, err := uc.prices.ListPricesByDetail(gctx, slot.ID)
			if err != nil {
				uc.log.Warnf("Use Case: Prices unavailable for product detail %d: %v", slot.ID, err)
				return nil
			}
			slot.Prices = prices
			return nil
		})
	}

	_ = g.Wait()
	return editor, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, productID int, req domain.UpdateProductRequest) (*domain.Product, error) {
	if productID <= 0 {
		return nil, invalid("invalid product ID")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" {
		return nil, invalid("product name cannot be empty")
	}
	if req.CategoryID < 0 {
		return nil, invalid("invalid category")
	}

	product, err := uc.products.UpdateProduct(ctx, productID, req)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to update product %d: %v", productID, err)
		return nil, err
	}
	uc.catalog.invalidate(ctx)
	uc.audit.Record(ctx, "product.update", "product", productID, fmt.Sprintf("name=%q category=%d", req.Name, req.CategoryID))
	return product, nil
}

func (uc *productUseCase) UpdateDetail(ctx context.Context, detailID int, req domain.UpdateProductDetailRequest) (*domain.ProductDetail, error) {
	if detailID <= 0 {
		return nil, invalid("invalid product detail ID")
	}
	req.Size = strings.TrimSpace(req.Size)
	req.Type = strings.TrimSpace(req.Type)
	req.Values = strings.TrimSpace(req.Values)
	if req.Size == "" {
		return nil, invalid("size cannot be empty")
	}

	detail, err := uc.details.UpdateProductDetail(ctx, detailID, req)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to update product detail %d: %v", detailID, err)
		return nil, err
	}
	uc.catalog.invalidate(ctx)
	uc.audit.Record(ctx, "product_detail.update", "product_detail", detailID,
		fmt.Sprintf("size=%s type=%s active=%t", req.Size, req.Type, req.IsActive))
	return detail, nil
}

func (uc *productUseCase) UpdatePrice(ctx context.Context, priceID int, req domain.UpdatePriceRequest) (*domain.Price, error) {
	if priceID <= 0 {
		return nil, invalid("invalid price ID")
	}
	if req.BasePrice <= 0 {
		return nil, invalid("base price must be positive")
	}
	if req.DiscountPrice < 0 {
		return nil, invalid("discount price cannot be negative")
	}
	if req.DiscountPrice > req.BasePrice {
		return nil, invalid("discount price cannot exceed the base price")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, invalid("end date cannot precede start date")
	}

	price, err := uc.prices.UpdatePrice(ctx, priceID, req)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to update price %d: %v", priceID, err)
		return nil, err
	}
	uc.audit.Record(ctx, "price.update", "price", priceID,
		fmt.Sprintf("base=%.2f discount=%.2f", req.BasePrice, req.DiscountPrice))
	return price, nil
}
