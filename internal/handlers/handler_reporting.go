package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/SscSPs/cashbook_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to generated reports.
type reportingHandler struct {
	reportingService portssvc.ReportSvc
}

func newReportingHandler(rs portssvc.ReportSvc) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the user-facing report routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportSvc) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.POST("", h.createReport)
		reports.GET("", h.listReports)
		reports.GET("/:reportID/download", h.getDownloadURL)
	}
}

// registerReportCallbackRoutes registers the status callback used by the report worker.
func registerReportCallbackRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportSvc) {
	h := newReportingHandler(reportingService)
	rg.POST("/reports/:reportID/status", h.updateReportStatus)
}

// createReport handles POST /reports. The job is handed to the worker queue.
func (h *reportingHandler) createReport(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateReportRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.reportingService.CreateReport(c.Request.Context(), c.Param("orgID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create report")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Report requested",
		slog.String("report_id", report.ReportID), slog.String("status", string(report.Status)))
	c.JSON(http.StatusAccepted, report)
}

// listReports handles GET /reports.
func (h *reportingHandler) listReports(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var params dto.ListReportsParams
	if !bindQuery(c, &params) {
		return
	}

	resp, err := h.reportingService.ListReports(c.Request.Context(), c.Param("orgID"), params, userID)
	if err != nil {
		respondError(c, err, "Failed to list reports")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getDownloadURL handles GET /reports/:reportID/download.
func (h *reportingHandler) getDownloadURL(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	download, err := h.reportingService.GetReportDownloadURL(c.Request.Context(), c.Param("orgID"), c.Param("reportID"), userID)
	if err != nil {
		respondError(c, err, "Failed to create download link")
		return
	}
	c.JSON(http.StatusOK, download)
}

// updateReportStatus handles the worker callback POST /reports/:reportID/status.
func (h *reportingHandler) updateReportStatus(c *gin.Context) {
	var req dto.UpdateReportStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.reportingService.UpdateReportStatus(c.Request.Context(), c.Param("orgID"), c.Param("reportID"), req)
	if err != nil {
		respondError(c, err, "Failed to update report status")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Report status updated",
		slog.String("report_id", report.ReportID), slog.String("status", string(report.Status)))
	c.JSON(http.StatusOK, report)
}
