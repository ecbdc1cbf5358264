package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/SscSPs/cashbook_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader lets clients retry entry creation safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// entryHandler handles HTTP requests for ledger entries, transfers and delete approvals.
type entryHandler struct {
	entryService    portssvc.EntrySvcFacade
	transferService portssvc.TransferSvc
	approvalService portssvc.DeleteApprovalSvc
}

func newEntryHandler(es portssvc.EntrySvcFacade, ts portssvc.TransferSvc, as portssvc.DeleteApprovalSvc) *entryHandler {
	return &entryHandler{
		entryService:    es,
		transferService: ts,
		approvalService: as,
	}
}

// registerEntryRoutes registers routes related to ledger entries.
func registerEntryRoutes(rg *gin.RouterGroup, es portssvc.EntrySvcFacade, ts portssvc.TransferSvc, as portssvc.DeleteApprovalSvc) {
	h := newEntryHandler(es, ts, as)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PATCH("/:entryID", h.updateEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
		entries.POST("/:entryID/reconcile", h.toggleReconciliation)
		entries.POST("/:entryID/delete-request", h.requestDelete)
	}

	rg.POST("/transfers", h.createTransfer)

	deleteRequests := rg.Group("/delete-requests")
	{
		deleteRequests.GET("", h.listDeleteRequests)
		deleteRequests.POST("/:requestID/approve", h.approveDelete)
		deleteRequests.POST("/:requestID/reject", h.rejectDelete)
	}
}

// createEntry handles POST /entries. A repeated Idempotency-Key returns the original entry.
func (h *entryHandler) createEntry(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	var idempotencyKey *string
	if key := c.GetHeader(IdempotencyKeyHeader); key != "" {
		idempotencyKey = &key
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), c.Param("orgID"), req, idempotencyKey, userID)
	if err != nil {
		respondError(c, err, "Failed to create entry")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Entry recorded",
		slog.String("entry_id", entry.EntryID), slog.String("voucher_number", entry.VoucherNumber))
	c.JSON(http.StatusCreated, entry)
}

// listEntries handles GET /entries. Filtering by accountId adds the ledger context.
func (h *entryHandler) listEntries(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var params dto.ListEntriesParams
	if !bindQuery(c, &params) {
		return
	}

	page, err := h.entryService.ListEntries(c.Request.Context(), c.Param("orgID"), params, userID)
	if err != nil {
		respondError(c, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, page)
}

// getEntry handles GET /entries/:entryID.
func (h *entryHandler) getEntry(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	entry, err := h.entryService.GetEntry(c.Request.Context(), c.Param("orgID"), c.Param("entryID"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// updateEntry handles PATCH /entries/:entryID.
func (h *entryHandler) updateEntry(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.UpdateEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.entryService.UpdateEntry(c.Request.Context(), c.Param("orgID"), c.Param("entryID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// reverseEntry handles POST /entries/:entryID/reverse and returns the new reversal entry.
func (h *entryHandler) reverseEntry(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.ReverseEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entryID := c.Param("entryID")
	reversal, err := h.entryService.ReverseEntry(c.Request.Context(), c.Param("orgID"), entryID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to reverse entry")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Entry reversed",
		slog.String("entry_id", entryID), slog.String("reversal_id", reversal.EntryID))
	c.JSON(http.StatusCreated, reversal)
}

// toggleReconciliation handles POST /entries/:entryID/reconcile.
func (h *entryHandler) toggleReconciliation(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	entry, err := h.entryService.ToggleReconciliation(c.Request.Context(), c.Param("orgID"), c.Param("entryID"), userID)
	if err != nil {
		respondError(c, err, "Failed to toggle reconciliation")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// createTransfer handles POST /transfers.
func (h *entryHandler) createTransfer(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateTransferRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.transferService.CreateTransfer(c.Request.Context(), c.Param("orgID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create transfer")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transfer recorded", slog.String("transfer_group_id", result.TransferGroupID))
	c.JSON(http.StatusCreated, result)
}

// requestDelete handles POST /entries/:entryID/delete-request.
func (h *entryHandler) requestDelete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.RequestDeleteRequest
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.approvalService.RequestDelete(c.Request.Context(), c.Param("orgID"), c.Param("entryID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to request entry deletion")
		return
	}
	c.JSON(http.StatusCreated, request)
}

// listDeleteRequests handles GET /delete-requests.
func (h *entryHandler) listDeleteRequests(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var params dto.ListDeleteRequestsParams
	if !bindQuery(c, &params) {
		return
	}

	requests, err := h.approvalService.ListDeleteRequests(c.Request.Context(), c.Param("orgID"), params, userID)
	if err != nil {
		respondError(c, err, "Failed to list delete requests")
		return
	}
	c.JSON(http.StatusOK, requests)
}

// approveDelete handles POST /delete-requests/:requestID/approve.
func (h *entryHandler) approveDelete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	request, err := h.approvalService.ApproveDelete(c.Request.Context(), c.Param("orgID"), c.Param("requestID"), userID)
	if err != nil {
		respondError(c, err, "Failed to approve delete request")
		return
	}
	c.JSON(http.StatusOK, request)
}

// rejectDelete handles POST /delete-requests/:requestID/reject.
func (h *entryHandler) rejectDelete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.RejectDeleteRequest
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.approvalService.RejectDelete(c.Request.Context(), c.Param("orgID"), c.Param("requestID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to reject delete request")
		return
	}
	c.JSON(http.StatusOK, request)
}
