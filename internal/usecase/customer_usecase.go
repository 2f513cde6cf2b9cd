package usecase

import (
	"context"
	"io"
	"sort"
	"strings"

	"candlebliss_storefront/internal/clients"
	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/pkg/listing"

	"github.com/sirupsen/logrus"
)

type CustomerUseCase interface {
	List(ctx context.Context, q listing.Query) (listing.Page[domain.User], error)
	Orders(ctx context.Context, userID int) ([]domain.Order, error)
	// Export writes every customer matching q (ignoring pagination) as an
	// Excel workbook and returns how many rows were written.
	Export(ctx context.Context, q listing.Query, w io.Writer) (int, error)
}

type customerUseCase struct {
	users  clients.UserClient
	orders clients.OrderClient
	log    *logrus.Logger
}

func NewCustomerUseCase(users clients.UserClient, orders clients.OrderClient, logger *logrus.Logger) CustomerUseCase {
	return &customerUseCase{
		users:  users,
		orders: orders,
		log:    logger,
	}
}

var customerSorters = map[string]listing.Less[domain.User]{
	"id":        func(a, b domain.User) bool { return a.ID < b.ID },
	"name":      func(a, b domain.User) bool { return strings.ToLower(a.FullName()) < strings.ToLower(b.FullName()) },
	"email":     func(a, b domain.User) bool { return strings.ToLower(a.Email) < strings.ToLower(b.Email) },
	"createdAt": func(a, b domain.User) bool { return a.CreatedAt.Before(b.CreatedAt) },
}

func matchCustomer(u domain.User, term string) bool {
	return listing.Contains(term, u.FullName(), u.Email, u.Phone)
}

// isCustomer drops staff accounts; users without a role are kept.
func isCustomer(u domain.User) bool {
	return u.Role == nil || u.Role.Name == "" || strings.EqualFold(u.Role.Name, domain.RoleUser)
}

func (uc *customerUseCase) customers(ctx context.Context) ([]domain.User, error) {
	users, err := uc.users.ListUsers(ctx)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to load users: %v", err)
		return nil, err
	}
	customers := make([]domain.User, 0, len(users))
	for _, u := range users {
		if isCustomer(u) {
			customers = append(customers, u)
		}
	}
	return customers, nil
}

func (uc *customerUseCase) List(ctx context.Context, q listing.Query) (listing.Page[domain.User], error) {
	customers, err := uc.customers(ctx)
	if err != nil {
		return listing.Paginate([]domain.User{}, 1, q.PageSize), err
	}
	page := listing.Apply(customers, q, matchCustomer, customerSorters)
	uc.log.Infof("Use Case: Listed %d of %d customers (page %d/%d)", len(page.Items), page.Total, page.Page, page.TotalPages)
	return page, nil
}

func (uc *customerUseCase) Orders(ctx context.Context, userID int) ([]domain.Order, error) {
	if userID <= 0 {
		return nil, invalid("invalid user ID")
	}
	orders, err := uc.orders.ListOrders(ctx)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to load orders for customer %d: %v", userID, err)
		return nil, err
	}
	own := make([]domain.Order, 0)
	for _, o := range orders {
		if o.UserID == userID || (o.User != nil && o.User.ID == userID) {
			own = append(own, o)
		}
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].CreatedAt.After(own[j].CreatedAt) })
	return own, nil
}

func (uc *customerUseCase) Export(ctx context.Context, q listing.Query, w io.Writer) (int, error) {
	customers, err := uc.customers(ctx)
	if err != nil {
		return 0, err
	}
	all := listing.Apply(customers, listing.Query{
		Search:   q.Search,
		SortBy:   q.SortBy,
		Desc:     q.Desc,
		Page:     1,
		PageSize: len(customers) + 1,
	}, matchCustomer, customerSorters)

	if err := writeCustomerWorkbook(all.Items, w); err != nil {
		uc.log.Errorf("Use Case: Failed to write customer workbook: %v", err)
		return 0, err
	}
	uc.log.Infof("Use Case: Exported %d customers", len(all.Items))
	return len(all.Items), nil
}
