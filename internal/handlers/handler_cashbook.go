package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/SscSPs/cashbook_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// cashbookHandler handles HTTP requests related to cashbooks and their members.
type cashbookHandler struct {
	cashbookService portssvc.CashbookSvcFacade
}

func newCashbookHandler(cs portssvc.CashbookSvcFacade) *cashbookHandler {
	return &cashbookHandler{cashbookService: cs}
}

// registerCashbookRoutes registers routes related to cashbooks.
func registerCashbookRoutes(rg *gin.RouterGroup, cashbookService portssvc.CashbookSvcFacade) {
	h := newCashbookHandler(cashbookService)

	cashbooks := rg.Group("/cashbooks")
	{
		cashbooks.POST("", h.createCashbook)
		cashbooks.GET("", h.listCashbooks)
		cashbooks.GET("/:cashbookID", h.getCashbook)
		cashbooks.PATCH("/:cashbookID", h.updateCashbook)
		cashbooks.DELETE("/:cashbookID", h.deleteCashbook)

		cashbooks.GET("/:cashbookID/members", h.listMembers)
		cashbooks.POST("/:cashbookID/members", h.addMember)
		cashbooks.DELETE("/:cashbookID/members/:userID", h.removeMember)
	}
}

// createCashbook handles POST /cashbooks.
func (h *cashbookHandler) createCashbook(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateCashbookRequest
	if !bindJSON(c, &req) {
		return
	}

	cashbook, err := h.cashbookService.CreateCashbook(c.Request.Context(), c.Param("orgID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create cashbook")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Cashbook created", slog.String("cashbook_id", cashbook.CashbookID))
	c.JSON(http.StatusCreated, dto.ToCashbookResponse(cashbook))
}

// listCashbooks handles GET /cashbooks.
func (h *cashbookHandler) listCashbooks(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	cashbooks, err := h.cashbookService.ListCashbooks(c.Request.Context(), c.Param("orgID"), userID)
	if err != nil {
		respondError(c, err, "Failed to list cashbooks")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashbookResponses(cashbooks))
}

// getCashbook handles GET /cashbooks/:cashbookID.
func (h *cashbookHandler) getCashbook(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	cashbook, err := h.cashbookService.GetCashbook(c.Request.Context(), c.Param("orgID"), c.Param("cashbookID"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve cashbook")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashbookResponse(cashbook))
}

// updateCashbook handles PATCH /cashbooks/:cashbookID.
func (h *cashbookHandler) updateCashbook(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.UpdateCashbookRequest
	if !bindJSON(c, &req) {
		return
	}

	cashbook, err := h.cashbookService.UpdateCashbook(c.Request.Context(), c.Param("orgID"), c.Param("cashbookID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update cashbook")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashbookResponse(cashbook))
}

// deleteCashbook handles DELETE /cashbooks/:cashbookID.
func (h *cashbookHandler) deleteCashbook(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	cashbookID := c.Param("cashbookID")
	if err := h.cashbookService.DeleteCashbook(c.Request.Context(), c.Param("orgID"), cashbookID, userID); err != nil {
		respondError(c, err, "Failed to delete cashbook")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Cashbook deleted", slog.String("cashbook_id", cashbookID))
	c.Status(http.StatusNoContent)
}

// listMembers handles GET /cashbooks/:cashbookID/members.
func (h *cashbookHandler) listMembers(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	members, err := h.cashbookService.ListCashbookMembers(c.Request.Context(), c.Param("orgID"), c.Param("cashbookID"), userID)
	if err != nil {
		respondError(c, err, "Failed to list cashbook members")
		return
	}
	c.JSON(http.StatusOK, members)
}

// addMember handles POST /cashbooks/:cashbookID/members. Re-adding a member changes its role.
func (h *cashbookHandler) addMember(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.AddCashbookMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.cashbookService.AddCashbookMember(c.Request.Context(), c.Param("orgID"), c.Param("cashbookID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to add cashbook member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// removeMember handles DELETE /cashbooks/:cashbookID/members/:userID.
func (h *cashbookHandler) removeMember(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	err := h.cashbookService.RemoveCashbookMember(c.Request.Context(), c.Param("orgID"), c.Param("cashbookID"), c.Param("userID"), userID)
	if err != nil {
		respondError(c, err, "Failed to remove cashbook member")
		return
	}
	c.Status(http.StatusNoContent)
}
