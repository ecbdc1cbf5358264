package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/SscSPs/cashbook_ledger/internal/core/ports/capabilities"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// DefaultBalanceTTL bounds how long a cached balance may live without an invalidation.
const DefaultBalanceTTL = 10 * time.Minute

type balanceService struct {
	BaseService
	entryRepo portsrepo.EntryReader
	cache     capabilities.KeyValueCache
	ttl       time.Duration
}

// NewBalanceService creates the balance engine. A nil cache disables memoization.
func NewBalanceService(entryRepo portsrepo.EntryReader, cache capabilities.KeyValueCache, ttl time.Duration) portssvc.BalanceSvc {
	if ttl <= 0 {
		ttl = DefaultBalanceTTL
	}
	return &balanceService{entryRepo: entryRepo, cache: cache, ttl: ttl}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

func balanceKey(orgID, accountID string) string {
	return "balance:" + orgID + ":" + accountID
}

func (s *balanceService) sum(ctx context.Context, orgID, accountID string, from, to *time.Time) (decimal.Decimal, error) {
	totals, err := s.entryRepo.SumEntryTotals(ctx, orgID, domain.TotalsFilter{
		AccountIDs: []string{accountID},
		Scope:      domain.AllCashbooks(),
		FromDate:   from,
		ToDate:     to,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum entries of account %s: %w", accountID, err)
	}
	return domain.FoldBalance(totals), nil
}

func (s *balanceService) ComputeBalance(ctx context.Context, orgID, accountID string) (decimal.Decimal, error) {
	return s.sum(ctx, orgID, accountID, nil, nil)
}

// GetBalance reads through the cache. Cache failures degrade to a direct computation.
func (s *balanceService) GetBalance(ctx context.Context, orgID, accountID string) (decimal.Decimal, error) {
	if s.cache == nil {
		return s.ComputeBalance(ctx, orgID, accountID)
	}
	key := balanceKey(orgID, accountID)
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.LogError(ctx, err, "Balance cache read failed", slog.String("key", key))
	} else if ok {
		if d, err := decimal.NewFromString(raw); err == nil {
			metrics.BalanceCacheLookups.WithLabelValues("hit").Inc()
			return d, nil
		}
		s.LogDebug(ctx, "Discarding unparsable cached balance", slog.String("key", key))
	}
	metrics.BalanceCacheLookups.WithLabelValues("miss").Inc()

	balance, err := s.ComputeBalance(ctx, orgID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if err := s.cache.Set(ctx, key, balance.StringFixed(domain.MoneyScale), s.ttl); err != nil {
		s.LogError(ctx, err, "Balance cache write failed", slog.String("key", key))
	}
	return balance, nil
}

// OpeningBalance is the current balance less every movement dated on or after asOf.
func (s *balanceService) OpeningBalance(ctx context.Context, orgID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	current, err := s.ComputeBalance(ctx, orgID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	after, err := s.sum(ctx, orgID, accountID, &asOf, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.RoundMoney(current.Sub(after)), nil
}

// ClosingBalance is the current balance less every movement dated after endDate.
func (s *balanceService) ClosingBalance(ctx context.Context, orgID, accountID string, endDate time.Time) (decimal.Decimal, error) {
	current, err := s.ComputeBalance(ctx, orgID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	from := endDate.Add(time.Nanosecond)
	after, err := s.sum(ctx, orgID, accountID, &from, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.RoundMoney(current.Sub(after)), nil
}

func (s *balanceService) Invalidate(ctx context.Context, orgID string, accountIDs ...string) {
	if s.cache == nil {
		return
	}
	for _, id := range accountIDs {
		if err := s.cache.Delete(ctx, balanceKey(orgID, id)); err != nil {
			s.LogError(ctx, err, "Balance cache invalidation failed",
				slog.String("org_id", orgID), slog.String("account_id", id))
		}
	}
}
