package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/usecase"
	"candlebliss_storefront/pkg/listing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type WarehouseHandler struct {
	uc       usecase.WarehouseUseCase
	pages    *Pages
	pageSize int
	log      *logrus.Logger
}

func NewWarehouseHandler(uc usecase.WarehouseUseCase, pages *Pages, pageSize int, logger *logrus.Logger) *WarehouseHandler {
	return &WarehouseHandler{
		uc:       uc,
		pages:    pages,
		pageSize: pageSize,
		log:      logger,
	}
}

type stockView struct {
	Query listing.Query
	Stock listing.Page[domain.StockRow]
	Error string
}

type historyView struct {
	Query   listing.Query
	History listing.Page[domain.InventoryHistoryItem]
	Error   string
}

type AdjustForm struct {
	ProductDetailID int    `form:"product_detail_id" binding:"required"`
	Quantity        int    `form:"quantity" binding:"required"`
	Type            string `form:"type" binding:"required"`
	Reason          string `form:"reason"`
}

func (h *WarehouseHandler) Stock(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "WarehouseStock")
	q := listing.ParseQuery(c.Request.URL.Query(), h.pageSize)

	view := stockView{Query: q}
	stock, err := h.uc.Stock(c.Request.Context(), q)
	if err != nil {
		if isUnauthorized(err) {
			h.pages.expire(c)
			return
		}
		handlerLogger.Warnf("Failed to load stock: %v", err)
		_, view.Error = statusFor(err)
	}
	view.Stock = stock
	h.pages.render(c, http.StatusOK, "warehouse", "Warehouse", nil, view)
}

func (h *WarehouseHandler) History(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "WarehouseHistory")
	q := listing.ParseQuery(c.Request.URL.Query(), h.pageSize)

	view := historyView{Query: q}
	history, err := h.uc.History(c.Request.Context(), q)
	if err != nil {
		if isUnauthorized(err) {
			h.pages.expire(c)
			return
		}
		handlerLogger.Warnf("Failed to load inventory history: %v", err)
		_, view.Error = statusFor(err)
	}
	view.History = history
	h.pages.render(c, http.StatusOK, "warehouse_history", "Inventory history", nil, view)
}

func (h *WarehouseHandler) Adjust(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "AdjustInventory")
	var form AdjustForm
	if err := c.ShouldBind(&form); err != nil {
		handlerLogger.Warnf("Failed to bind adjustment form: %v", err)
		h.pages.fail(c, fmt.Errorf("%w: choose a variant, a quantity and a direction", usecase.ErrInvalidInput), "/admin/warehouse")
		return
	}

	adj := domain.InventoryAdjustment{
		ProductDetailID: form.ProductDetailID,
		Quantity:        form.Quantity,
		Type:            domain.InventoryChangeType(strings.ToUpper(form.Type)),
		Reason:          form.Reason,
	}
	if _, err := h.uc.Adjust(c.Request.Context(), adj); err != nil {
		h.pages.fail(c, err, "/admin/warehouse")
		return
	}

	verb := "Imported"
	if adj.Type == domain.InventoryExport {
		verb = "Exported"
	}
	h.pages.done(c, fmt.Sprintf("%s %d units", verb, adj.Quantity), "/admin/warehouse")
}
