package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is one row of the dashboard balance table.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	CashbookID  string          `json:"cashbookID"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
}

// Dashboard summarizes an organization's (or one cashbook's) financial position.
// The top-level totals are nominal sums that do not convert between currencies;
// Currencies carries the same figures per currency.
type Dashboard struct {
	TotalBalance          decimal.Decimal  `json:"totalBalance"`
	TotalInflow           decimal.Decimal  `json:"totalInflow"`
	TotalOutflow          decimal.Decimal  `json:"totalOutflow"`
	NetCashflow           decimal.Decimal  `json:"netCashflow"`
	AccountBalances       []AccountBalance `json:"accountBalances"`
	RecentEntries         []LedgerEntry    `json:"recentEntries"`
	PendingDeleteRequests int              `json:"pendingDeleteRequests"`
	Currencies            []CurrencyTotals `json:"currencies"`
}

// CurrencyTotals is the dashboard summary of the accounts held in one currency.
type CurrencyTotals struct {
	Currency     string          `json:"currency"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
	TotalInflow  decimal.Decimal `json:"totalInflow"`
	TotalOutflow decimal.Decimal `json:"totalOutflow"`
	NetCashflow  decimal.Decimal `json:"netCashflow"`
}

// DashboardFilter narrows the dashboard to a cashbook and a date window for flows.
type DashboardFilter struct {
	CashbookID *string
	StartDate  *time.Time
	EndDate    *time.Time
}
