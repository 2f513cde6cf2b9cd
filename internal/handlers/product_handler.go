package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	uc    usecase.ProductUseCase
	pages *Pages
	log   *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUseCase, pages *Pages, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		uc:    uc,
		pages: pages,
		log:   logger,
	}
}

type ProductForm struct {
	Name        string `form:"name"`
	Description string `form:"description"`
	CategoryID  int    `form:"category_id"`
}

type DetailForm struct {
	Size     string `form:"size"`
	Type     string `form:"type"`
	Values   string `form:"values"`
	IsActive bool   `form:"is_active"`
}

type PriceForm struct {
	BasePrice     float64 `form:"base_price"`
	DiscountPrice float64 `form:"discount_price"`
	StartDate     string  `form:"start_date"`
	EndDate       string  `form:"end_date"`
}

func (f PriceForm) request() (domain.UpdatePriceRequest, error) {
	req := domain.UpdatePriceRequest{BasePrice: f.BasePrice, DiscountPrice: f.DiscountPrice}
	var err error
	if req.StartDate, err = parseDate(f.StartDate); err != nil {
		return req, fmt.Errorf("%w: start date must look like 2024-12-31", usecase.ErrInvalidInput)
	}
	if req.EndDate, err = parseDate(f.EndDate); err != nil {
		return req, fmt.Errorf("%w: end date must look like 2024-12-31", usecase.ErrInvalidInput)
	}
	return req, nil
}

func parseDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// productID reads :id and renders the error page when it is malformed.
func (h *ProductHandler) productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.log.WithField("handler", "Product").Warnf("Invalid product ID format: %s", c.Param("id"))
		h.pages.render(c, http.StatusBadRequest, "error", "Something went wrong", nil, "Invalid product ID")
		return 0, false
	}
	return id, true
}

func (h *ProductHandler) Edit(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "EditProduct")
	id, ok := h.productID(c)
	if !ok {
		return
	}

	editor, err := h.uc.Load(c.Request.Context(), id)
	if err != nil {
		if isUnauthorized(err) {
			h.pages.expire(c)
			return
		}
		handlerLogger.Warnf("Failed to load product %d: %v", id, err)
		h.pages.renderError(c, err)
		return
	}
	h.pages.render(c, http.StatusOK, "product", editor.Product.Name, nil, editor)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "UpdateProduct")
	id, ok := h.productID(c)
	if !ok {
		return
	}
	back := fmt.Sprintf("/admin/products/%d", id)

	var form ProductForm
	if err := c.ShouldBind(&form); err != nil {
		handlerLogger.Warnf("Failed to bind product form: %v", err)
		h.pages.fail(c, fmt.Errorf("%w: check the product fields", usecase.ErrInvalidInput), back)
		return
	}

	_, err := h.uc.UpdateProduct(c.Request.Context(), id, domain.UpdateProductRequest{
		Name:        form.Name,
		Description: form.Description,
		CategoryID:  form.CategoryID,
	})
	if err != nil {
		h.pages.fail(c, err, back)
		return
	}
	h.pages.done(c, "Product saved", back)
}

func (h *ProductHandler) UpdateDetail(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "UpdateProductDetail")
	id, ok := h.productID(c)
	if !ok {
		return
	}
	back := fmt.Sprintf("/admin/products/%d", id)

	detailID, err := strconv.Atoi(c.Param("detailId"))
	if err != nil {
		handlerLogger.Warnf("Invalid product detail ID format: %s", c.Param("detailId"))
		h.pages.fail(c, fmt.Errorf("%w: invalid product detail ID", usecase.ErrInvalidInput), back)
		return
	}

	var form DetailForm
	if err := c.ShouldBind(&form); err != nil {
		handlerLogger.Warnf("Failed to bind detail form: %v", err)
		h.pages.fail(c, fmt.Errorf("%w: check the detail fields", usecase.ErrInvalidInput), back)
		return
	}

	_, err = h.uc.UpdateDetail(c.Request.Context(), detailID, domain.UpdateProductDetailRequest{
		Size:     form.Size,
		Type:     form.Type,
		Values:   form.Values,
		IsActive: form.IsActive,
	})
	if err != nil {
		h.pages.fail(c, err, back)
		return
	}
	h.pages.done(c, "Variant saved", back)
}

func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "UpdatePrice")
	id, ok := h.productID(c)
	if !ok {
		return
	}
	back := fmt.Sprintf("/admin/products/%d", id)

	priceID, err := strconv.Atoi(c.Param("priceId"))
	if err != nil {
		handlerLogger.Warnf("Invalid price ID format: %s", c.Param("priceId"))
		h.pages.fail(c, fmt.Errorf("%w: invalid price ID", usecase.ErrInvalidInput), back)
		return
	}

	var form PriceForm
	if err := c.ShouldBind(&form); err != nil {
		handlerLogger.Warnf("Failed to bind price form: %v", err)
		h.pages.fail(c, fmt.Errorf("%w: prices must be numbers", usecase.ErrInvalidInput), back)
		return
	}
	req, err := form.request()
	if err != nil {
		h.pages.fail(c, err, back)
		return
	}

	if _, err := h.uc.UpdatePrice(c.Request.Context(), priceID, req); err != nil {
		h.pages.fail(c, err, back)
		return
	}
	h.pages.done(c, "Price saved", back)
}
