package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// dashboardHandler serves the summary views: dashboard and audit trail.
type dashboardHandler struct {
	dashboardService portssvc.DashboardSvc
	auditService     portssvc.AuditSvc
}

func registerDashboardRoutes(rg *gin.RouterGroup, ds portssvc.DashboardSvc, as portssvc.AuditSvc) {
	h := &dashboardHandler{dashboardService: ds, auditService: as}

	rg.GET("/dashboard", h.getDashboard)
	rg.GET("/audit-logs", h.listAuditLogs)
}

// getDashboard handles GET /dashboard?cashbookId=&startDate=&endDate=.
func (h *dashboardHandler) getDashboard(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var params dto.DashboardParams
	if !bindQuery(c, &params) {
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context(), c.Param("orgID"), params, userID)
	if err != nil {
		respondError(c, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// listAuditLogs handles GET /audit-logs. Pages are chained through nextToken.
func (h *dashboardHandler) listAuditLogs(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var params dto.ListAuditLogsParams
	if !bindQuery(c, &params) {
		return
	}

	resp, err := h.auditService.ListAuditLogs(c.Request.Context(), c.Param("orgID"), params, userID)
	if err != nil {
		respondError(c, err, "Failed to list audit logs")
		return
	}
	c.JSON(http.StatusOK, resp)
}
