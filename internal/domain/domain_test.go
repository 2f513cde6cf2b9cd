package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	assert.True(t, CanTransition(StatusReturnRequested, StatusReturnApproved))
	assert.True(t, CanTransition(StatusReturnApproved, StatusReturnCompleted))
	assert.True(t, CanTransition(StatusExchangeRequested, StatusExchangeRejected))
	assert.False(t, CanTransition(StatusReturnRequested, StatusExchangeApproved))
	assert.False(t, CanTransition(StatusReturnCompleted, StatusReturnApproved))
	assert.False(t, CanTransition(StatusPending, StatusReturnApproved))

	assert.Empty(t, NextStatuses(StatusReturnRejected))
	assert.True(t, IsReturnOrExchange(StatusExchangeCompleted))
	assert.False(t, IsReturnOrExchange(StatusDelivered))
}

func TestCartTotals(t *testing.T) {
	cart := Cart{Items: []CartItem{{Quantity: 2, UnitPrice: 12.5}, {Quantity: 3, UnitPrice: 10}}}
	assert.Equal(t, 5, cart.ItemCount())
	assert.Equal(t, 55.0, cart.Total())
	assert.Zero(t, Cart{}.Total())
}

func TestPriceEffective(t *testing.T) {
	assert.Equal(t, 80.0, Price{BasePrice: 100, DiscountPrice: 80}.Effective())
	assert.Equal(t, 100.0, Price{BasePrice: 100}.Effective())
	assert.Equal(t, 100.0, Price{BasePrice: 100, DiscountPrice: 120}.Effective())
}

func TestNamesFallBack(t *testing.T) {
	u := User{}
	assert.Equal(t, "N/A", u.FullName())
	assert.Equal(t, "N/A", u.RoleName())
	assert.False(t, u.IsAdmin())

	admin := User{FirstName: "Minh", Role: &Role{Name: "Admin"}}
	assert.Equal(t, "Minh", admin.FullName())
	assert.True(t, admin.IsAdmin())

	assert.Equal(t, "N/A", Order{}.CustomerName())
	assert.Equal(t, "N/A", Product{}.CategoryName())
	assert.Equal(t, 2, Product{CategoryID: 1, Category: &Category{ID: 2}}.CategoryRef())
	assert.Equal(t, -4, InventoryAdjustment{Quantity: 4, Type: InventoryExport}.SignedDelta())
}
