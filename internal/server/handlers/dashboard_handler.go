package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wolffia-coop/ferntrack/internal/service/dashboard"
)

// DashboardHandler exposes the aggregated production summary over HTTP.
type DashboardHandler struct {
	svc    *dashboard.Service
	logger *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc *dashboard.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

// Overview returns the aggregated production summary, optionally narrowed
// to a single branch via the branch_id query parameter.
func (h *DashboardHandler) Overview(c *gin.Context) {
	summary, err := h.svc.Overview(c.Request.Context(), c.Query("branch_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
