package handlers

import (
	"context"
	"io"

	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/usecase"
	"candlebliss_storefront/pkg/listing"
)

type fakeStorefront struct {
	products  []domain.Product
	searchErr error
	cart      *domain.Cart
	cartErr   error
	lastQuery usecase.SearchQuery
}

func (f *fakeStorefront) NavBar(ctx context.Context, userID int) usecase.NavBar {
	nav := usecase.NavBar{Categories: []domain.Category{{ID: 1, Name: "Floral"}}}
	if userID > 0 && f.cart != nil {
		nav.CartCount = f.cart.ItemCount()
	}
	return nav
}

func (f *fakeStorefront) Search(ctx context.Context, q usecase.SearchQuery) (listing.Page[domain.Product], error) {
	f.lastQuery = q
	if f.searchErr != nil {
		return listing.Paginate([]domain.Product{}, 1, q.PageSize), f.searchErr
	}
	return listing.Paginate(f.products, q.Page, q.PageSize), nil
}

func (f *fakeStorefront) Cart(ctx context.Context, userID int) (*domain.Cart, error) {
	return f.cart, f.cartErr
}

type fakeCustomers struct {
	users     []domain.User
	err       error
	lastQuery listing.Query
}

func (f *fakeCustomers) List(ctx context.Context, q listing.Query) (listing.Page[domain.User], error) {
	f.lastQuery = q
	if f.err != nil {
		return listing.Paginate([]domain.User{}, 1, q.PageSize), f.err
	}
	return listing.Paginate(f.users, q.Page, q.PageSize), nil
}

func (f *fakeCustomers) Orders(ctx context.Context, userID int) ([]domain.Order, error) {
	return []domain.Order{{ID: 10, UserID: userID, Status: domain.StatusDelivered, TotalPrice: 150000}}, f.err
}

func (f *fakeCustomers) Export(ctx context.Context, q listing.Query, w io.Writer) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	_, err := w.Write([]byte("PK-workbook"))
	return len(f.users), err
}

type fakeExchanges struct {
	order     *domain.Order
	updateErr error
	updated   domain.OrderStatus
}

func (f *fakeExchanges) List(ctx context.Context, q listing.Query, status domain.OrderStatus) (listing.Page[domain.Order], error) {
	return listing.Paginate([]domain.Order{*f.order}, 1, q.PageSize), nil
}

func (f *fakeExchanges) Detail(ctx context.Context, orderID int) (*domain.Order, error) {
	if orderID != f.order.ID {
		return nil, usecase.ErrNotFound
	}
	return f.order, nil
}

func (f *fakeExchanges) UpdateStatus(ctx context.Context, orderID int, status domain.OrderStatus) (*domain.Order, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = status
	o := *f.order
	o.Status = status
	return &o, nil
}

type fakeProducts struct {
	editor       *usecase.ProductEditor
	priceReq     domain.UpdatePriceRequest
	detailReq    domain.UpdateProductDetailRequest
	productReq   domain.UpdateProductRequest
	lastDetailID int
}

func (f *fakeProducts) Load(ctx context.Context, productID int) (*usecase.ProductEditor, error) {
	if f.editor == nil || f.editor.Product.ID != productID {
		return nil, usecase.ErrNotFound
	}
	return f.editor, nil
}

func (f *fakeProducts) UpdateProduct(ctx context.Context, productID int, req domain.UpdateProductRequest) (*domain.Product, error) {
	f.productReq = req
	return &domain.Product{ID: productID, Name: req.Name}, nil
}

func (f *fakeProducts) UpdateDetail(ctx context.Context, detailID int, req domain.UpdateProductDetailRequest) (*domain.ProductDetail, error) {
	f.lastDetailID = detailID
	f.detailReq = req
	return &domain.ProductDetail{ID: detailID}, nil
}

func (f *fakeProducts) UpdatePrice(ctx context.Context, priceID int, req domain.UpdatePriceRequest) (*domain.Price, error) {
	f.priceReq = req
	if req.DiscountPrice > req.BasePrice {
		return nil, usecase.ErrInvalidInput
	}
	return &domain.Price{ID: priceID}, nil
}

type fakeWarehouse struct {
	rows     []domain.StockRow
	adjusted []domain.InventoryAdjustment
	err      error
}

func (f *fakeWarehouse) Stock(ctx context.Context, q listing.Query) (listing.Page[domain.StockRow], error) {
	return listing.Paginate(f.rows, q.Page, q.PageSize), f.err
}

func (f *fakeWarehouse) History(ctx context.Context, q listing.Query) (listing.Page[domain.InventoryHistoryItem], error) {
	return listing.Paginate([]domain.InventoryHistoryItem{{ID: 1, ProductName: "Lavender", QuantityChange: -2, Type: domain.InventoryExport}}, 1, q.PageSize), f.err
}

func (f *fakeWarehouse) Adjust(ctx context.Context, adj domain.InventoryAdjustment) (*domain.InventoryHistoryItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.adjusted = append(f.adjusted, adj)
	return &domain.InventoryHistoryItem{ID: 1}, nil
}

type fakeActivity struct {
	entries []domain.AuditEntry
}

func (f *fakeActivity) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return f.entries, nil
}

type fakeAuth struct {
	res *domain.LoginResponse
	err error
}

func (f *fakeAuth) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	return f.res, f.err
}
