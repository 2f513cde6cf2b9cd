package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/usecase"
	"candlebliss_storefront/pkg/listing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ExchangeHandler struct {
	uc       usecase.ExchangeUseCase
	pages    *Pages
	pageSize int
	log      *logrus.Logger
}

func NewExchangeHandler(uc usecase.ExchangeUseCase, pages *Pages, pageSize int, logger *logrus.Logger) *ExchangeHandler {
	return &ExchangeHandler{
		uc:       uc,
		pages:    pages,
		pageSize: pageSize,
		log:      logger,
	}
}

type exchangesView struct {
	Query    listing.Query
	Status   domain.OrderStatus
	Statuses []domain.OrderStatus
	Orders   listing.Page[domain.Order]
	Error    string
}

type StatusForm struct {
	Status string `form:"status" binding:"required"`
}

func (h *ExchangeHandler) List(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "ListExchanges")
	q := listing.ParseQuery(c.Request.URL.Query(), h.pageSize)
	status := domain.OrderStatus(c.Query("status"))

	view := exchangesView{Query: q, Status: status, Statuses: domain.ReturnExchangeStatuses}
	orders, err := h.uc.List(c.Request.Context(), q, status)
	if err != nil {
		if isUnauthorized(err) {
			h.pages.expire(c)
			return
		}
		handlerLogger.Warnf("Failed to list return orders: %v", err)
		_, view.Error = statusFor(err)
	}
	view.Orders = orders
	h.pages.render(c, http.StatusOK, "exchanges", "Returns & exchanges", nil, view)
}

func (h *ExchangeHandler) Detail(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "ExchangeDetail")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		handlerLogger.Warnf("Invalid order ID format: %s", c.Param("id"))
		h.pages.render(c, http.StatusBadRequest, "error", "Something went wrong", nil, "Invalid order ID")
		return
	}

	order, err := h.uc.Detail(c.Request.Context(), id)
	if err != nil {
		handlerLogger.Warnf("Failed to load return order %d: %v", id, err)
		h.pages.fail(c, err, "/admin/exchanges")
		return
	}
	h.pages.render(c, http.StatusOK, "exchange_detail", fmt.Sprintf("Order #%d", id), nil, order)
}

func (h *ExchangeHandler) UpdateStatus(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "UpdateExchangeStatus")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		handlerLogger.Warnf("Invalid order ID format: %s", c.Param("id"))
		h.pages.fail(c, fmt.Errorf("%w: invalid order ID", usecase.ErrInvalidInput), "/admin/exchanges")
		return
	}
	back := fmt.Sprintf("/admin/exchanges/%d", id)

	var form StatusForm
	if err := c.ShouldBind(&form); err != nil {
		handlerLogger.Warnf("Failed to bind status form: %v", err)
		h.pages.fail(c, fmt.Errorf("%w: choose a status", usecase.ErrInvalidInput), back)
		return
	}

	order, err := h.uc.UpdateStatus(c.Request.Context(), id, domain.OrderStatus(form.Status))
	if err != nil {
		handlerLogger.Warnf("Failed to update status of order %d: %v", id, err)
		h.pages.fail(c, err, back)
		return
	}
	h.pages.done(c, fmt.Sprintf("Order #%d is now %s", id, statusLabel(order.Status)), back)
}
