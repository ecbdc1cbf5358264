package dto

import (
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	CashbookID  string             `json:"cashbookID" binding:"required"`
	Name        string             `json:"name" binding:"required,max=120"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=CASH BANK CARD WALLET OTHER"`
	Currency    string             `json:"currency" binding:"omitempty,len=3,uppercase"` // defaults to the cashbook currency
	Description string             `json:"description" binding:"max=500"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
type UpdateAccountRequest struct {
	Name        *string             `json:"name" binding:"omitempty,min=1,max=120"`
	Description *string             `json:"description" binding:"omitempty,max=500"`
	AccountType *domain.AccountType `json:"accountType" binding:"omitempty,oneof=CASH BANK CARD WALLET OTHER"`
}

// ListAccountsParams defines the query parameters for listing accounts.
type ListAccountsParams struct {
	CashbookID      *string `form:"cashbookId"`
	IncludeArchived bool    `form:"includeArchived"`
}

// AccountBalanceResponse defines the data returned for a balance query.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	AsOf      *time.Time      `json:"asOf,omitempty"` // set for opening balances
}
