package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

const recentEntriesLimit = 10

type dashboardService struct {
	BaseService
	accountRepo       portsrepo.AccountReader
	entryRepo         portsrepo.EntryReader
	deleteRequestRepo portsrepo.DeleteRequestRepositoryFacade
}

// NewDashboardService creates the dashboard summary service.
func NewDashboardService(repos portsrepo.RepositoryProvider) portssvc.DashboardSvc {
	return &dashboardService{
		BaseService:       newBaseService(repos.OrganizationRepo, repos.CashbookRepo),
		accountRepo:       repos.AccountRepo,
		entryRepo:         repos.EntryRepo,
		deleteRequestRepo: repos.DeleteRequestRepo,
	}
}

var _ portssvc.DashboardSvc = (*dashboardService)(nil)

func (s *dashboardService) GetDashboard(ctx context.Context, orgID string, params dto.DashboardParams, userID string) (*domain.Dashboard, error) {
	scope, err := s.Scope(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	if params.CashbookID != nil {
		if _, err := s.authorizeCashbook(ctx, orgID, *params.CashbookID, userID, permRead); err != nil {
			return nil, err
		}
		scope = domain.OnlyCashbooks(*params.CashbookID)
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, orgID, domain.AccountFilter{
		CashbookID:      params.CashbookID,
		Scope:           scope,
		IncludeArchived: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	// One grouped aggregate serves every account instead of a lookup per account.
	allTotals, err := s.entryRepo.SumEntryTotals(ctx, orgID, domain.TotalsFilter{Scope: scope})
	if err != nil {
		return nil, fmt.Errorf("sum balances: %w", err)
	}
	balances := domain.FoldBalancesByAccount(allTotals)

	d := &domain.Dashboard{
		TotalBalance:    decimal.Zero,
		AccountBalances: make([]domain.AccountBalance, 0, len(accounts)),
	}
	currencyOf := make(map[string]string, len(accounts))
	perCurrency := make(map[string]*domain.CurrencyTotals)
	for _, a := range accounts {
		balance, ok := balances[a.AccountID]
		if !ok {
			balance = decimal.Zero
		}
		currencyOf[a.AccountID] = a.Currency
		ct := perCurrency[a.Currency]
		if ct == nil {
			ct = &domain.CurrencyTotals{Currency: a.Currency, TotalBalance: decimal.Zero}
			perCurrency[a.Currency] = ct
		}
		ct.TotalBalance = ct.TotalBalance.Add(balance)
		d.TotalBalance = d.TotalBalance.Add(balance)
		d.AccountBalances = append(d.AccountBalances, domain.AccountBalance{
			AccountID:   a.AccountID,
			CashbookID:  a.CashbookID,
			Name:        a.Name,
			AccountType: a.AccountType,
			Currency:    a.Currency,
			Balance:     balance,
		})
	}

	totalsFilter := domain.TotalsFilter{Scope: scope, FromDate: params.StartDate}
	if params.EndDate != nil {
		totalsFilter.ToDate = ptr(endOfDay(*params.EndDate))
	}
	totals, err := s.entryRepo.SumEntryTotals(ctx, orgID, totalsFilter)
	if err != nil {
		return nil, fmt.Errorf("sum entry flows: %w", err)
	}
	d.TotalInflow, d.TotalOutflow = domain.FlowTotals(totals)
	d.NetCashflow = d.TotalInflow.Sub(d.TotalOutflow)

	flowsByCurrency := make(map[string][]domain.BalanceTotal)
	for _, t := range totals {
		if currency, ok := currencyOf[t.AccountID]; ok {
			flowsByCurrency[currency] = append(flowsByCurrency[currency], t)
		}
	}
	d.Currencies = make([]domain.CurrencyTotals, 0, len(perCurrency))
	for currency, ct := range perCurrency {
		ct.TotalInflow, ct.TotalOutflow = domain.FlowTotals(flowsByCurrency[currency])
		ct.NetCashflow = ct.TotalInflow.Sub(ct.TotalOutflow)
		d.Currencies = append(d.Currencies, *ct)
	}
	slices.SortFunc(d.Currencies, func(a, b domain.CurrencyTotals) int {
		return strings.Compare(a.Currency, b.Currency)
	})

	recent, _, err := s.entryRepo.ListEntries(ctx, orgID, domain.EntryFilter{
		Scope:      scope,
		CashbookID: params.CashbookID,
		Page:       1,
		Limit:      recentEntriesLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list recent entries: %w", err)
	}
	d.RecentEntries = recent

	if d.PendingDeleteRequests, err = s.deleteRequestRepo.CountPendingDeleteRequests(ctx, orgID, scope); err != nil {
		return nil, fmt.Errorf("count pending delete requests: %w", err)
	}
	return d, nil
}
