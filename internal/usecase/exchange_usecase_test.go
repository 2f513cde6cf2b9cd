package usecase

import (
	"context"
	"testing"
	"time"

	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/pkg/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exchangeFixture() *fakeOrders {
	day := func(d int) time.Time { return time.Date(2024, 4, d, 9, 0, 0, 0, time.UTC) }
	return &fakeOrders{orders: []domain.Order{
		{ID: 1, Status: domain.StatusDelivered, CreatedAt: day(1)},
		{ID: 2, Status: domain.StatusReturnRequested, ReturnReason: "cracked glass", CreatedAt: day(2),
			User:  &domain.User{ID: 5, FirstName: "Lan", LastName: "Anh"},
			Items: []domain.OrderItem{{ID: 20, ProductDetailID: 7}, {ID: 21, ProductDetailID: 8}, {ID: 22}}},
		{ID: 3, Status: domain.StatusExchangeRequested, Note: "wrong scent", CreatedAt: day(4)},
		{ID: 4, Status: domain.StatusReturnCompleted, CreatedAt: day(3)},
		{ID: 5, Status: domain.StatusPending, CreatedAt: day(5)},
	}}
}

func newExchangeUseCase(orders *fakeOrders, details *fakeDetails) (ExchangeUseCase, domain.AuditRepository) {
	auditor, repo := newAuditor()
	return NewExchangeUseCase(orders, details, newCache(), time.Minute, auditor, quietLogger()), repo
}

func TestExchanges_List(t *testing.T) {
	orders := exchangeFixture()
	uc, _ := newExchangeUseCase(orders, &fakeDetails{})
	ctx := context.Background()

	page, err := uc.List(ctx, listing.Query{PageSize: 10}, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 3, "only return and exchange orders are listed")
	assert.Equal(t, []int{3, 4, 2}, []int{page.Items[0].ID, page.Items[1].ID, page.Items[2].ID}, "newest first by default")

	page, err = uc.List(ctx, listing.Query{PageSize: 10}, domain.StatusExchangeRequested)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.Items[0].ID)

	page, err = uc.List(ctx, listing.Query{Search: "lan anh", PageSize: 10}, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Items[0].ID)

	page, err = uc.List(ctx, listing.Query{Search: "scent", PageSize: 10}, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.Items[0].ID)

	_, err = uc.List(ctx, listing.Query{PageSize: 10}, domain.StatusPending)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 4, orders.calls, "every list view asks the api")
}

func TestExchanges_ListShowsNewRequests(t *testing.T) {
	orders := exchangeFixture()
	uc, _ := newExchangeUseCase(orders, &fakeDetails{})
	ctx := context.Background()

	page, err := uc.List(ctx, listing.Query{PageSize: 10}, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 3)

	orders.mu.Lock()
	orders.orders = append(orders.orders, domain.Order{ID: 6, Status: domain.StatusReturnRequested, CreatedAt: time.Date(2024, 4, 6, 9, 0, 0, 0, time.UTC)})
	orders.mu.Unlock()

	page, err = uc.List(ctx, listing.Query{PageSize: 10}, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 4)
	assert.Equal(t, 6, page.Items[0].ID)

	order, err := uc.Detail(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReturnRequested, order.Status)
	assert.Equal(t, 2, orders.calls, "detail reuses the list the page was rendered from")
}

func TestExchanges_ListFailure(t *testing.T) {
	uc, _ := newExchangeUseCase(&fakeOrders{err: errUpstream}, &fakeDetails{})
	page, err := uc.List(context.Background(), listing.Query{PageSize: 10}, "")
	assert.ErrorIs(t, err, errUpstream)
	assert.Empty(t, page.Items)
}

func TestExchanges_Detail(t *testing.T) {
	details := &fakeDetails{details: map[int]domain.ProductDetail{7: {ID: 7, Size: "M", Quantities: 3}}}
	uc, _ := newExchangeUseCase(exchangeFixture(), details)

	order, err := uc.Detail(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, order.Items, 3)
	require.NotNil(t, order.Items[0].Detail)
	assert.Equal(t, "M", order.Items[0].Detail.Size)
	assert.Nil(t, order.Items[1].Detail, "a failing detail fetch leaves the item without detail")
	assert.Nil(t, order.Items[2].Detail)

	_, err = uc.Detail(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound, "plain orders are not part of the returns page")

	_, err = uc.Detail(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExchanges_UpdateStatus(t *testing.T) {
	t.Run("allowed transition patches cache and audits", func(t *testing.T) {
		orders := exchangeFixture()
		uc, repo := newExchangeUseCase(orders, &fakeDetails{})
		ctx := WithActor(context.Background(), "Minh Tran")

		_, err := uc.List(ctx, listing.Query{PageSize: 10}, "")
		require.NoError(t, err)

		updated, err := uc.UpdateStatus(ctx, 2, domain.StatusReturnApproved)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusReturnApproved, updated.Status)
		assert.Equal(t, domain.StatusReturnApproved, orders.patched[2])

		page, err := uc.List(ctx, listing.Query{PageSize: 10}, domain.StatusReturnApproved)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, 2, page.Items[0].ID)
		assert.Equal(t, 2, orders.calls, "the status change itself used the cached list")

		entries, err := repo.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "order.status", entries[0].Action)
		assert.Equal(t, "Minh Tran", entries[0].Actor)
		assert.Equal(t, "RETURN_REQUESTED -> RETURN_APPROVED", entries[0].Detail)

		_, err = uc.UpdateStatus(ctx, 2, domain.StatusReturnCompleted)
		require.NoError(t, err)
		assert.Equal(t, 2, orders.calls)
	})

	t.Run("illegal transition never reaches the api", func(t *testing.T) {
		orders := exchangeFixture()
		uc, repo := newExchangeUseCase(orders, &fakeDetails{})

		_, err := uc.UpdateStatus(context.Background(), 4, domain.StatusReturnApproved)
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = uc.UpdateStatus(context.Background(), 3, domain.StatusReturnApproved)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, orders.patched)

		entries, _ := repo.ListRecent(context.Background(), 10)
		assert.Empty(t, entries)
	})

	t.Run("api failure leaves the status unchanged", func(t *testing.T) {
		orders := exchangeFixture()
		orders.patchErr = errUpstream
		uc, _ := newExchangeUseCase(orders, &fakeDetails{})
		ctx := context.Background()

		_, err := uc.UpdateStatus(ctx, 3, domain.StatusExchangeApproved)
		assert.ErrorIs(t, err, errUpstream)

		page, err := uc.List(ctx, listing.Query{PageSize: 10}, domain.StatusExchangeRequested)
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
	})
}
