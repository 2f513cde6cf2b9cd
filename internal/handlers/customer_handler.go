package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/usecase"
	"candlebliss_storefront/pkg/listing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CustomerHandler struct {
	uc       usecase.CustomerUseCase
	pages    *Pages
	pageSize int
	log      *logrus.Logger
}

func NewCustomerHandler(uc usecase.CustomerUseCase, pages *Pages, pageSize int, logger *logrus.Logger) *CustomerHandler {
	return &CustomerHandler{
		uc:       uc,
		pages:    pages,
		pageSize: pageSize,
		log:      logger,
	}
}

type customersView struct {
	Query     listing.Query
	Customers listing.Page[domain.User]
	Error     string
}

type customerOrdersView struct {
	CustomerID int
	Orders     []domain.Order
}

func (h *CustomerHandler) List(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "ListCustomers")
	q := listing.ParseQuery(c.Request.URL.Query(), h.pageSize)

	view := customersView{Query: q}
	customers, err := h.uc.List(c.Request.Context(), q)
	if err != nil {
		if isUnauthorized(err) {
			h.pages.expire(c)
			return
		}
		handlerLogger.Warnf("Failed to list customers: %v", err)
		_, view.Error = statusFor(err)
	}
	view.Customers = customers
	h.pages.render(c, http.StatusOK, "customers", "Customers", nil, view)
}

func (h *CustomerHandler) Export(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "ExportCustomers")
	q := listing.ParseQuery(c.Request.URL.Query(), h.pageSize)

	var buf bytes.Buffer
	n, err := h.uc.Export(c.Request.Context(), q, &buf)
	if err != nil {
		handlerLogger.Errorf("Failed to export customers: %v", err)
		h.pages.fail(c, err, "/admin/customers")
		return
	}

	handlerLogger.Infof("Exported %d customers", n)
	filename := fmt.Sprintf("customers-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *CustomerHandler) Orders(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "CustomerOrders")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		handlerLogger.Warnf("Invalid customer ID format: %s", c.Param("id"))
		h.pages.render(c, http.StatusBadRequest, "error", "Something went wrong", nil, "Invalid customer ID")
		return
	}

	orders, err := h.uc.Orders(c.Request.Context(), id)
	if err != nil {
		handlerLogger.Warnf("Failed to load orders of customer %d: %v", id, err)
		h.pages.fail(c, err, "/admin/customers")
		return
	}
	h.pages.render(c, http.StatusOK, "customer_orders", fmt.Sprintf("Orders of customer #%d", id), nil,
		customerOrdersView{CustomerID: id, Orders: orders})
}
