package usecase

import (
	"context"
	"fmt"
	"time"

	"candlebliss_storefront/internal/clients"
	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/session"
	"candlebliss_storefront/pkg/listing"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	ordersCacheKey     = "orders"
	detailFetchLimit   = 4
	detailFetchTimeout = 5 * time.Second
)

type ExchangeUseCase interface {
	List(ctx context.Context, q listing.Query, status domain.OrderStatus) (listing.Page[domain.Order], error)
	Detail(ctx context.Context, orderID int) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int, status domain.OrderStatus) (*domain.Order, error)
}

type exchangeUseCase struct {
	orders  clients.OrderClient
	details clients.ProductDetailClient
	cache   session.Cache
	ttl     time.Duration
	audit   *Auditor
	log     *logrus.Logger
}

func NewExchangeUseCase(
	orders clients.OrderClient,
	details clients.ProductDetailClient,
	cache session.Cache,
	cacheTTL time.Duration,
	auditor *Auditor,
	logger *logrus.Logger,
) ExchangeUseCase {
	return &exchangeUseCase{
		orders:  orders,
		details: details,
		cache:   cache,
		ttl:     cacheTTL,
		audit:   auditor,
		log:     logger,
	}
}

var exchangeSorters = map[string]listing.Less[domain.Order]{
	"id":        func(a, b domain.Order) bool { return a.ID < b.ID },
	"createdAt": func(a, b domain.Order) bool { return a.CreatedAt.Before(b.CreatedAt) },
	"total":     func(a, b domain.Order) bool { return a.TotalPrice < b.TotalPrice },
}

func matchExchange(o domain.Order, term string) bool {
	return listing.Contains(term, fmt.Sprint(o.ID), o.CustomerName(), o.ReturnReason, o.Note)
}

// returnOrders loads the return/exchange orders. The list page always asks
// the API so new requests show up at once; detail and status changes reuse
// the list the page was rendered from.
func (uc *exchangeUseCase) returnOrders(ctx context.Context, fresh bool) ([]domain.Order, error) {
	if !fresh {
		var cached []domain.Order
		ok, err := uc.cache.Get(ctx, ordersCacheKey, &cached)
		if err != nil {
			uc.log.Warnf("Use Case: Order cache read failed, fetching from API: %v", err)
		}
		if ok {
			return cached, nil
		}
	}

	orders, err := uc.orders.ListOrders(ctx)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to load orders: %v", err)
		return nil, err
	}
	returns := make([]domain.Order, 0)
	for _, o := range orders {
		if domain.IsReturnOrExchange(o.Status) {
			returns = append(returns, o)
		}
	}
	if err := uc.cache.Set(ctx, ordersCacheKey, returns, uc.ttl); err != nil {
		uc.log.Warnf("Use Case: Failed to cache %d return orders: %v", len(returns), err)
	}
	return returns, nil
}

func (uc *exchangeUseCase) List(ctx context.Context, q listing.Query, status domain.OrderStatus) (listing.Page[domain.Order], error) {
	if status != "" && !domain.IsReturnOrExchange(status) {
		return listing.Paginate([]domain.Order{}, 1, q.PageSize), invalid("unknown return/exchange status %q", status)
	}
	orders, err := uc.returnOrders(ctx, true)
	if err != nil {
		return listing.Paginate([]domain.Order{}, 1, q.PageSize), err
	}

	if status != "" {
		filtered := make([]domain.Order, 0, len(orders))
		for _, o := range orders {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}
	if q.SortBy == "" {
		q.SortBy, q.Desc = "createdAt", true
	}
	return listing.Apply(orders, q, matchExchange, exchangeSorters), nil
}

func (uc *exchangeUseCase) find(ctx context.Context, orderID int) (*domain.Order, error) {
	if orderID <= 0 {
		return nil, invalid("invalid order ID")
	}
	orders, err := uc.returnOrders(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == orderID {
			return &orders[i], nil
		}
	}
	return nil, fmt.Errorf("return order %d: %w", orderID, ErrNotFound)
}

// Detail fetches the product detail of every item in parallel. A failing
// fetch only leaves that item without its detail.
func (uc *exchangeUseCase) Detail(ctx context.Context, orderID int) (*domain.Order, error) {
	order, err := uc.find(ctx, orderID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailFetchLimit)
	for i := range order.Items {
		item := &order.Items[i]
		if item.ProductDetailID <= 0 {
			continue
		}
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, detailFetchTimeout)
			defer cancel()
			detail, err := uc.details.GetProductDetail(callCtx, item.ProductDetailID)
			if err != nil {
				uc.log.Warnf("Use Case: Order %d item %d: product detail %d unavailable: %v", orderID, item.ID, item.ProductDetailID, err)
				return nil
			}
			item.Detail = detail
			return nil
		})
	}
	_ = g.Wait()
	return order, nil
}

func (uc *exchangeUseCase) UpdateStatus(ctx context.Context, orderID int, status domain.OrderStatus) (*domain.Order, error) {
	current, err := uc.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, status) {
		uc.log.Warnf("Use Case: Rejected status change of order %d from %s to %s", orderID, current.Status, status)
		return nil, invalid("order %d cannot move from %s to %s", orderID, current.Status, status)
	}

	if _, err := uc.orders.UpdateOrderStatus(ctx, orderID, status); err != nil {
		uc.log.Errorf("Use Case: Failed to update status of order %d: %v", orderID, err)
		return nil, err
	}

	from := current.Status
	current.Status = status
	current.UpdatedAt = time.Now().UTC()
	uc.patchCached(ctx, *current)
	uc.audit.Record(ctx, "order.status", "order", orderID, fmt.Sprintf("%s -> %s", from, status))
	uc.log.Infof("Use Case: Order %d moved from %s to %s", orderID, from, status)
	return current, nil
}

// patchCached replaces the order in the cached list so a following detail
// view or status change sees the new status.
func (uc *exchangeUseCase) patchCached(ctx context.Context, order domain.Order) {
	var cached []domain.Order
	ok, err := uc.cache.Get(ctx, ordersCacheKey, &cached)
	if err != nil || !ok {
		return
	}
	for i := range cached {
		if cached[i].ID == order.ID {
			cached[i] = order
			if err := uc.cache.Set(ctx, ordersCacheKey, cached, uc.ttl); err != nil {
				uc.log.Warnf("Use Case: Failed to patch cached order %d, dropping cache: %v", order.ID, err)
				_ = uc.cache.Delete(ctx, ordersCacheKey)
			}
			return
		}
	}
}
