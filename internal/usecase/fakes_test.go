package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"candlebliss_storefront/internal/clients"
	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/repository"
	"candlebliss_storefront/internal/session"

	"github.com/sirupsen/logrus"
)

var errUpstream = &clients.APIError{StatusCode: 500, Method: "GET", Path: "/api"}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newCache() session.Cache {
	return session.NewMemoryStore(time.Hour).Cache()
}

func newAuditor() (*Auditor, domain.AuditRepository) {
	repo := repository.NewLogAuditRepository(quietLogger(), 50)
	return NewAuditor(repo, quietLogger()), repo
}

type fakeProducts struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
	calls    int
	updated  map[int]domain.UpdateProductRequest
}

func (f *fakeProducts) ListProducts(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeProducts) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, &clients.APIError{StatusCode: 404, Method: "GET", Path: "/api/products"}
}

func (f *fakeProducts) UpdateProduct(ctx context.Context, id int, req domain.UpdateProductRequest) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.updated == nil {
		f.updated = map[int]domain.UpdateProductRequest{}
	}
	f.updated[id] = req
	return &domain.Product{ID: id, Name: req.Name, Description: req.Description, CategoryID: req.CategoryID}, nil
}

type fakeCategories struct {
	categories []domain.Category
	err        error
}

func (f *fakeCategories) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return f.categories, f.err
}

type fakeCarts struct {
	carts map[int]domain.Cart
	err   error
}

func (f *fakeCarts) GetCartByUser(ctx context.Context, userID int) (*domain.Cart, error) {
	if f.err != nil {
		return nil, f.err
	}
	cart, ok := f.carts[userID]
	if !ok {
		return nil, &clients.APIError{StatusCode: 404}
	}
	return &cart, nil
}

type fakeOrders struct {
	mu       sync.Mutex
	orders   []domain.Order
	err      error
	patchErr error
	calls    int
	patched  map[int]domain.OrderStatus
}

func (f *fakeOrders) ListOrders(ctx context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Order(nil), f.orders...), nil
}

func (f *fakeOrders) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.patchErr != nil {
		return nil, f.patchErr
	}
	if f.patched == nil {
		f.patched = map[int]domain.OrderStatus{}
	}
	f.patched[id] = status
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
		}
	}
	return &domain.Order{ID: id, Status: status}, nil
}

type fakeUsers struct {
	users []domain.User
	err   error
}

func (f *fakeUsers) ListUsers(ctx context.Context) ([]domain.User, error) {
	return f.users, f.err
}

type fakeDetails struct {
	details map[int]domain.ProductDetail
	updated map[int]domain.UpdateProductDetailRequest
}

func (f *fakeDetails) GetProductDetail(ctx context.Context, id int) (*domain.ProductDetail, error) {
	d, ok := f.details[id]
	if !ok {
		return nil, errors.New("detail service down")
	}
	return &d, nil
}

func (f *fakeDetails) UpdateProductDetail(ctx context.Context, id int, req domain.UpdateProductDetailRequest) (*domain.ProductDetail, error) {
	if f.updated == nil {
		f.updated = map[int]domain.UpdateProductDetailRequest{}
	}
	f.updated[id] = req
	return &domain.ProductDetail{ID: id, Size: req.Size, Type: req.Type, Values: req.Values, IsActive: req.IsActive}, nil
}

type fakePrices struct {
	prices  map[int][]domain.Price
	updated map[int]domain.UpdatePriceRequest
}

func (f *fakePrices) ListPricesByDetail(ctx context.Context, detailID int) ([]domain.Price, error) {
	p, ok := f.prices[detailID]
	if !ok {
		return nil, errUpstream
	}
	return p, nil
}

func (f *fakePrices) UpdatePrice(ctx context.Context, id int, req domain.UpdatePriceRequest) (*domain.Price, error) {
	if f.updated == nil {
		f.updated = map[int]domain.UpdatePriceRequest{}
	}
	f.updated[id] = req
	return &domain.Price{ID: id, BasePrice: req.BasePrice, DiscountPrice: req.DiscountPrice}, nil
}

type fakeInventory struct {
	history  []domain.InventoryHistoryItem
	err      error
	adjusted []domain.InventoryAdjustment
}

func (f *fakeInventory) ListHistory(ctx context.Context) ([]domain.InventoryHistoryItem, error) {
	return f.history, f.err
}

func (f *fakeInventory) Adjust(ctx context.Context, adj domain.InventoryAdjustment) (*domain.InventoryHistoryItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.adjusted = append(f.adjusted, adj)
	return &domain.InventoryHistoryItem{ID: len(f.adjusted), ProductDetailID: adj.ProductDetailID, QuantityChange: adj.SignedDelta(), Type: adj.Type}, nil
}
