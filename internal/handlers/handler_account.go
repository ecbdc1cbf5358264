package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/SscSPs/cashbook_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to cashbook accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PATCH("/:accountID", h.updateAccount)
		accounts.POST("/:accountID/archive", h.archiveAccount)
		accounts.GET("/:accountID/balance", h.getAccountBalance)
		accounts.GET("/:accountID/opening-balance", h.getOpeningBalance)
	}
}

// createAccount handles POST /accounts.
func (h *accountHandler) createAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), c.Param("orgID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account created",
		slog.String("account_id", account.AccountID), slog.String("cashbook_id", account.CashbookID))
	c.JSON(http.StatusCreated, account)
}

// listAccounts handles GET /accounts.
func (h *accountHandler) listAccounts(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var params dto.ListAccountsParams
	if !bindQuery(c, &params) {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("orgID"), params, userID)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// getAccount handles GET /accounts/:accountID.
func (h *accountHandler) getAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), c.Param("orgID"), c.Param("accountID"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// updateAccount handles PATCH /accounts/:accountID.
func (h *accountHandler) updateAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("orgID"), c.Param("accountID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// archiveAccount handles POST /accounts/:accountID/archive.
func (h *accountHandler) archiveAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	account, err := h.accountService.ArchiveAccount(c.Request.Context(), c.Param("orgID"), c.Param("accountID"), userID)
	if err != nil {
		respondError(c, err, "Failed to archive account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// getAccountBalance handles GET /accounts/:accountID/balance.
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	orgID, accountID := c.Param("orgID"), c.Param("accountID")

	account, err := h.accountService.GetAccount(ctx, orgID, accountID, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	balance, err := h.accountService.GetAccountBalance(ctx, orgID, accountID, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account balance")
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID: accountID,
		Currency:  account.Currency,
		Balance:   balance,
	})
}

// getOpeningBalance handles GET /accounts/:accountID/opening-balance?asOf=YYYY-MM-DD.
func (h *accountHandler) getOpeningBalance(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOfStr := c.Query("asOf")
	asOf, err := time.Parse(time.DateOnly, asOfStr)
	if err != nil {
		logger.Warn("Invalid asOf date format", slog.String("asOf", asOfStr), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	ctx := c.Request.Context()
	orgID, accountID := c.Param("orgID"), c.Param("accountID")
	account, err := h.accountService.GetAccount(ctx, orgID, accountID, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	balance, err := h.accountService.GetOpeningBalance(ctx, orgID, accountID, asOf, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve opening balance")
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID: accountID,
		Currency:  account.Currency,
		Balance:   balance,
		AsOf:      &asOf,
	})
}
