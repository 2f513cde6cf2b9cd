package handlers

import (
	"context"
	"net/http"
	"strconv"

	"candlebliss_storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ActivityLister returns the latest seller actions, newest first.
type ActivityLister interface {
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

type ActivityHandler struct {
	activity ActivityLister
	pages    *Pages
	log      *logrus.Logger
}

func NewActivityHandler(activity ActivityLister, pages *Pages, logger *logrus.Logger) *ActivityHandler {
	return &ActivityHandler{
		activity: activity,
		pages:    pages,
		log:      logger,
	}
}

func (h *ActivityHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}

	entries, err := h.activity.Recent(c.Request.Context(), limit)
	if err != nil {
		h.log.WithField("handler", "Activity").Errorf("Failed to list audit entries: %v", err)
		h.pages.render(c, http.StatusInternalServerError, "error", "Something went wrong", nil, "The activity log is unavailable")
		return
	}
	h.pages.render(c, http.StatusOK, "activity", "Recent activity", nil, entries)
}
