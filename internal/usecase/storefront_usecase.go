package usecase

import (
	"context"
	"time"

	"candlebliss_storefront/internal/clients"
	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/session"
	"candlebliss_storefront/pkg/listing"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type NavBar struct {
	Categories []domain.Category
	CartCount  int
}

type SearchQuery struct {
	Term       string
	CategoryID int
	Page       int
	PageSize   int
}

type StorefrontUseCase interface {
	NavBar(ctx context.Context, userID int) NavBar
	Search(ctx context.Context, q SearchQuery) (listing.Page[domain.Product], error)
	Cart(ctx context.Context, userID int) (*domain.Cart, error)
}

type storefrontUseCase struct {
	categories clients.CategoryClient
	carts      clients.CartClient
	catalog    *productCatalog
	log        *logrus.Logger
}

func NewStorefrontUseCase(
	products clients.ProductClient,
	categories clients.CategoryClient,
	carts clients.CartClient,
	cache session.Cache,
	cacheTTL time.Duration,
	logger *logrus.Logger,
) StorefrontUseCase {
	return &storefrontUseCase{
		categories: categories,
		carts:      carts,
		catalog:    newProductCatalog(products, cache, cacheTTL, logger),
		log:        logger,
	}
}

// NavBar never fails: missing categories render an empty menu and a
// failing cart renders an empty badge.
func (uc *storefrontUseCase) NavBar(ctx context.Context, userID int) NavBar {
	var nav NavBar
	var g errgroup.Group

	g.Go(func() error {
		categories, err := uc.categories.ListCategories(ctx)
		if err != nil {
			uc.log.Warnf("Use Case: Navigation categories unavailable: %v", err)
			return nil
		}
		nav.Categories = categories
		return nil
	})

	if userID > 0 {
		g.Go(func() error {
			cart, err := uc.carts.GetCartByUser(ctx, userID)
			if err != nil {
				uc.log.Warnf("Use Case: Cart badge unavailable for user %d: %v", userID, err)
				return nil
			}
			nav.CartCount = cart.ItemCount()
			return nil
		})
	}

	_ = g.Wait()
	if nav.Categories == nil {
		nav.Categories = []domain.Category{}
	}
	return nav
}

func (uc *storefrontUseCase) Search(ctx context.Context, q SearchQuery) (listing.Page[domain.Product], error) {
	products, err := uc.catalog.list(ctx)
	if err != nil {
		uc.log.Warnf("Use Case: Search failed to load products: %v", err)
		return listing.Paginate([]domain.Product{}, 1, q.PageSize), err
	}

	if q.CategoryID > 0 {
		inCategory := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if p.CategoryRef() == q.CategoryID {
				inCategory = append(inCategory, p)
			}
		}
		products = inCategory
	}

	matches := listing.Filter(products, q.Term, func(p domain.Product, term string) bool {
		return listing.Contains(term, p.Name, p.Description)
	})
	uc.log.Debugf("Use Case: Search %q in category %d matched %d products", q.Term, q.CategoryID, len(matches))
	return listing.Paginate(matches, q.Page, q.PageSize), nil
}

func (uc *storefrontUseCase) Cart(ctx context.Context, userID int) (*domain.Cart, error) {
	if userID <= 0 {
		return nil, invalid("invalid user ID")
	}
	cart, err := uc.carts.GetCartByUser(ctx, userID)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to load cart for user %d: %v", userID, err)
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return cart, nil
}
