package handlers

import (
	"net/http"
	"strconv"

	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/middleware"
	"candlebliss_storefront/internal/usecase"
	"candlebliss_storefront/pkg/listing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type StorefrontHandler struct {
	uc       usecase.StorefrontUseCase
	pages    *Pages
	pageSize int
	log      *logrus.Logger
}

func NewStorefrontHandler(uc usecase.StorefrontUseCase, pages *Pages, pageSize int, logger *logrus.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		uc:       uc,
		pages:    pages,
		pageSize: pageSize,
		log:      logger,
	}
}

type searchView struct {
	Query   usecase.SearchQuery
	Results listing.Page[domain.Product]
	Error   string
}

func (h *StorefrontHandler) navBar(c *gin.Context) *usecase.NavBar {
	userID := 0
	if sess := middleware.CurrentSession(c); sess != nil {
		userID = sess.UserID
	}
	nav := h.uc.NavBar(c.Request.Context(), userID)
	return &nav
}

// Search serves both the home page and /search. A failing product fetch
// renders the empty state with the error instead of an error page.
func (h *StorefrontHandler) Search(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "Search")

	q := usecase.SearchQuery{
		Term:     c.Query("q"),
		Page:     1,
		PageSize: h.pageSize,
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		q.Page = page
	}
	if category, err := strconv.Atoi(c.Query("category")); err == nil && category > 0 {
		q.CategoryID = category
	}

	view := searchView{Query: q}
	results, err := h.uc.Search(c.Request.Context(), q)
	if err != nil {
		handlerLogger.Warnf("Search %q failed: %v", q.Term, err)
		_, view.Error = statusFor(err)
	}
	view.Results = results

	h.pages.render(c, http.StatusOK, "home", "CandleBliss", h.navBar(c), view)
}

func (h *StorefrontHandler) Cart(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "Cart")
	sess := middleware.CurrentSession(c)

	cart, err := h.uc.Cart(c.Request.Context(), sess.UserID)
	if err != nil {
		if isUnauthorized(err) {
			h.pages.expire(c)
			return
		}
		handlerLogger.Warnf("Cart of user %d unavailable: %v", sess.UserID, err)
		h.pages.renderError(c, err)
		return
	}
	h.pages.render(c, http.StatusOK, "cart", "Your cart", h.navBar(c), cart)
}
