package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"candlebliss_storefront/internal/clients"
	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/middleware"
	"candlebliss_storefront/internal/session"
	"candlebliss_storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router     *gin.Engine
	store      *session.MemoryStore
	storefront *fakeStorefront
	customers  *fakeCustomers
	exchanges  *fakeExchanges
	products   *fakeProducts
	warehouse  *fakeWarehouse
	auth       *fakeAuth
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := &testEnv{
		store: session.NewMemoryStore(time.Hour),
		storefront: &fakeStorefront{
			products: []domain.Product{{ID: 1, Name: "Lavender Dream"}, {ID: 2, Name: "Cedar Wood"}},
			cart:     &domain.Cart{Items: []domain.CartItem{{ProductName: "Lavender Dream", Quantity: 2, UnitPrice: 150000}}},
		},
		customers: &fakeCustomers{users: []domain.User{{ID: 2, FirstName: "Lan", LastName: "Anh", Email: "lan@example.com"}}},
		exchanges: &fakeExchanges{order: &domain.Order{ID: 7, Status: domain.StatusReturnRequested, ReturnReason: "cracked"}},
		products: &fakeProducts{editor: &usecase.ProductEditor{
			Product: domain.Product{ID: 3, Name: "Vanilla Bean"},
			Details: []usecase.DetailWithPrices{{
				ProductDetail: domain.ProductDetail{ID: 30, Size: "M"},
				Prices:        []domain.Price{{ID: 300, BasePrice: 200000}},
			}},
		}},
		warehouse: &fakeWarehouse{rows: []domain.StockRow{{ProductID: 1, ProductName: "Lavender Dream", ProductDetailID: 10, Quantity: 4}}},
		auth:      &fakeAuth{},
	}

	router, err := NewRouter(Dependencies{
		Storefront: env.storefront,
		Customers:  env.customers,
		Exchanges:  env.exchanges,
		Products:   env.products,
		Warehouse:  env.warehouse,
		Activity:   &fakeActivity{entries: []domain.AuditEntry{{Action: "price.update", Actor: "Minh", Entity: "price", EntityID: 300}}},
		Auth:       env.auth,
		Sessions:   env.store,
		Checks: map[string]Check{
			"session_store": func(ctx context.Context) error { return nil },
		},
		PageSize:   10,
		SessionTTL: time.Hour,
		Logger:     logger,
	})
	require.NoError(t, err)
	env.router = router
	return env
}

func (e *testEnv) login(t *testing.T, role string) *session.Session {
	t.Helper()
	sess := session.New("tok", 5, "Minh Tran", role)
	require.NoError(t, e.store.Save(context.Background(), sess))
	return sess
}

func (e *testEnv) do(t *testing.T, sess *session.Session, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if sess != nil {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sess.ID})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestSearchPage(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, nil, http.MethodGet, "/search?q=lav&category=2&page=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lavender Dream")
	assert.Contains(t, w.Body.String(), "Floral")
	assert.Equal(t, "lav", env.storefront.lastQuery.Term)
	assert.Equal(t, 2, env.storefront.lastQuery.CategoryID)

	env.storefront.searchErr = &clients.APIError{StatusCode: http.StatusBadGateway}
	w = env.do(t, nil, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code, "search failures render the empty state")
	assert.Contains(t, w.Body.String(), "No products found.")
	assert.Contains(t, w.Body.String(), "temporarily unavailable")
}

func TestCartPage(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, nil, http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = env.do(t, env.login(t, "user"), http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "300,000 ₫")
	assert.Contains(t, w.Body.String(), "Cart (2)")
}

func TestLogin(t *testing.T) {
	t.Run("admin lands on the seller area", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.res = &domain.LoginResponse{Token: "jwt", User: domain.User{ID: 1, FirstName: "Minh", Role: &domain.Role{Name: "Admin"}}}

		w := env.do(t, nil, http.MethodPost, "/login", url.Values{"email": {"minh@example.com"}, "password": {"secret"}})
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin/customers", w.Header().Get("Location"))

		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)

		sess, err := env.store.Get(context.Background(), cookies[0].Value)
		require.NoError(t, err)
		assert.Equal(t, "jwt", sess.Token)
		assert.True(t, sess.IsAdmin())
	})

	t.Run("next is honoured only on site", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.res = &domain.LoginResponse{Token: "jwt", User: domain.User{ID: 4}}

		w := env.do(t, nil, http.MethodPost, "/login", url.Values{"email": {"a@b.co"}, "password": {"x"}, "next": {"/cart"}})
		assert.Equal(t, "/cart", w.Header().Get("Location"))

		for _, next := range []string{"//evil.example", "/\\evil.example", "/\\/evil.example", "/\tevil.example", "https://evil.example"} {
			w = env.do(t, nil, http.MethodPost, "/login", url.Values{"email": {"a@b.co"}, "password": {"x"}, "next": {next}})
			assert.Equal(t, "/", w.Header().Get("Location"), "next=%q", next)
		}
	})

	t.Run("wrong credentials", func(t *testing.T) {
		env := newTestEnv(t)
		env.auth.err = &clients.APIError{StatusCode: http.StatusUnauthorized}

		w := env.do(t, nil, http.MethodPost, "/login", url.Values{"email": {"a@b.co"}, "password": {"x"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Incorrect email or password")
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("invalid form", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, nil, http.MethodPost, "/login", url.Values{"email": {"not-an-email"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	sess := env.login(t, "user")

	w := env.do(t, sess, http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	_, err := env.store.Get(context.Background(), sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAdminRequiresAdminRole(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, env.login(t, "user"), http.MethodGet, "/admin/customers", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCustomers(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "Admin")

	w := env.do(t, admin, http.MethodGet, "/admin/customers?q=lan&sort=name&order=desc&size=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lan Anh")
	assert.Equal(t, "lan", env.customers.lastQuery.Search)
	assert.True(t, env.customers.lastQuery.Desc)
	assert.Equal(t, 5, env.customers.lastQuery.PageSize)

	w = env.do(t, admin, http.MethodGet, "/admin/customers/export?q=lan", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.Equal(t, "PK-workbook", w.Body.String())

	w = env.do(t, admin, http.MethodGet, "/admin/customers/2/orders", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "150,000 ₫")

	w = env.do(t, admin, http.MethodGet, "/admin/customers/abc/orders", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomers_ExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "Admin")
	env.customers.err = &clients.APIError{StatusCode: http.StatusUnauthorized}

	w := env.do(t, admin, http.MethodGet, "/admin/customers", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?expired=1", w.Header().Get("Location"))
	_, err := env.store.Get(context.Background(), admin.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestExchangeStatus(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "Admin")

	w := env.do(t, admin, http.MethodGet, "/admin/exchanges/7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Return approved", "the allowed next steps are offered")

	w = env.do(t, admin, http.MethodPost, "/admin/exchanges/7/status", url.Values{"status": {"RETURN_APPROVED"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/exchanges/7", w.Header().Get("Location"))
	assert.Equal(t, domain.StatusReturnApproved, env.exchanges.updated)

	w = env.do(t, admin, http.MethodGet, "/admin/exchanges", nil)
	assert.Contains(t, w.Body.String(), "Order #7 is now Return approved", "success toast is shown once")
	w = env.do(t, admin, http.MethodGet, "/admin/exchanges", nil)
	assert.NotContains(t, w.Body.String(), "is now Return approved")

	env.exchanges.updateErr = fmt.Errorf("%w: order 7 cannot move from RETURN_REQUESTED to RETURN_COMPLETED", usecase.ErrInvalidInput)
	w = env.do(t, admin, http.MethodPost, "/admin/exchanges/7/status", url.Values{"status": {"RETURN_COMPLETED"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	w = env.do(t, admin, http.MethodGet, "/admin/exchanges", nil)
	assert.Contains(t, w.Body.String(), "Order 7 cannot move from RETURN_REQUESTED to RETURN_COMPLETED")

	w = env.do(t, admin, http.MethodGet, "/admin/exchanges/99", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestProductEditor(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "Admin")

	w := env.do(t, admin, http.MethodGet, "/admin/products/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Vanilla Bean")
	assert.Contains(t, w.Body.String(), "200,000 ₫")

	w = env.do(t, admin, http.MethodGet, "/admin/products/4", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, admin, http.MethodPost, "/admin/products/3", url.Values{"name": {"Vanilla Night"}, "category_id": {"2"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "Vanilla Night", env.products.productReq.Name)
	assert.Equal(t, 2, env.products.productReq.CategoryID)

	w = env.do(t, admin, http.MethodPost, "/admin/products/3/details/30", url.Values{"size": {"L"}, "is_active": {"true"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 30, env.products.lastDetailID)
	assert.True(t, env.products.detailReq.IsActive)

	w = env.do(t, admin, http.MethodPost, "/admin/products/3/prices/300", url.Values{
		"base_price": {"210000"}, "discount_price": {"180000"}, "start_date": {"2024-06-01"}, "end_date": {""},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.NotNil(t, env.products.priceReq.StartDate)
	assert.Equal(t, time.June, env.products.priceReq.StartDate.Month())
	assert.Nil(t, env.products.priceReq.EndDate)

	w = env.do(t, admin, http.MethodPost, "/admin/products/3/prices/300", url.Values{"base_price": {"100"}, "start_date": {"June"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	w = env.do(t, admin, http.MethodGet, "/admin/products/3", nil)
	assert.Contains(t, w.Body.String(), "Start date must look like 2024-12-31")
}

func TestWarehouse(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "Admin")

	w := env.do(t, admin, http.MethodGet, "/admin/warehouse", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lavender Dream")

	w = env.do(t, admin, http.MethodGet, "/admin/warehouse/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "EXPORT")

	w = env.do(t, admin, http.MethodPost, "/admin/warehouse/adjust", url.Values{
		"product_detail_id": {"10"}, "quantity": {"3"}, "type": {"export"}, "reason": {"gift"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.Len(t, env.warehouse.adjusted, 1)
	assert.Equal(t, domain.InventoryExport, env.warehouse.adjusted[0].Type)
	assert.Equal(t, 3, env.warehouse.adjusted[0].Quantity)

	w = env.do(t, admin, http.MethodGet, "/admin/warehouse", nil)
	assert.Contains(t, w.Body.String(), "Exported 3 units")

	w = env.do(t, admin, http.MethodPost, "/admin/warehouse/adjust", url.Values{"quantity": {"3"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Len(t, env.warehouse.adjusted, 1)
}

func TestActivityAndHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, env.login(t, "Admin"), http.MethodGet, "/admin/activity", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "price.update")

	w = env.do(t, nil, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestHealth_Degraded(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := NewHealthHandler(map[string]Check{
		"redis": func(ctx context.Context) error { return errors.New("connection refused") },
	}, logger)

	router := gin.New()
	router.GET("/health", h.Health)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		text   string
	}{
		{fmt.Errorf("%w: size cannot be empty", usecase.ErrInvalidInput), http.StatusBadRequest, "Size cannot be empty"},
		{fmt.Errorf("detail 9: %w", usecase.ErrNotFound), http.StatusNotFound, "The requested item no longer exists"},
		{&clients.APIError{StatusCode: http.StatusForbidden}, http.StatusForbidden, "You are not allowed to do that"},
		{&clients.APIError{StatusCode: http.StatusServiceUnavailable}, http.StatusBadGateway, "The shop service is temporarily unavailable"},
		{&clients.APIError{StatusCode: http.StatusConflict, Message: "Price overlaps"}, http.StatusBadRequest, "Price overlaps"},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, "The shop service did not answer in time"},
		{errors.New("dial tcp: refused"), http.StatusBadGateway, "Could not reach the shop service"},
	}
	for _, tc := range cases {
		status, text := statusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.text, text, tc.err.Error())
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0 ₫", formatMoney(0))
	assert.Equal(t, "950 ₫", formatMoney(950))
	assert.Equal(t, "1,500,000 ₫", formatMoney(1499999.6))
	assert.Equal(t, "-20,000 ₫", formatMoney(-20000))
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                      "/",
		"/admin/customers?q=an": "/admin/customers?q=an",
		"/cart":                 "/cart",
		"cart":                  "/",
		"//evil.example":        "/",
		"/\\evil.example":       "/",
		"/%5Cevil.example":      "/%5Cevil.example",
		"/\r\nLocation: x":      "/",
		"https://evil.example":  "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeNext(in), "safeNext(%q)", in)
	}
}
