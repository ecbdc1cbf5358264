// Package memory is a process-local implementation of every repository port.
// It backs the memory storage driver and the service tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
)

type txKey struct{}

type state struct {
	orgMembers      map[string]map[string]domain.OrganizationMember // org -> user
	cashbooks       map[string]domain.Cashbook
	cashbookMembers map[string]map[string]domain.CashbookMember // cashbook -> user
	accounts        map[string]domain.Account
	contacts        map[string]domain.Contact
	entries         map[string]domain.LedgerEntry
	idempotency     map[string]string // org|key -> entry
	voucherNumbers  map[string]struct{}
	sequences       map[string]int64
	deleteRequests  map[string]domain.DeleteRequest
	auditLogs       []domain.AuditLog
	reports         map[string]domain.Report
	notifications   []domain.Notification
}

func newState() state {
	return state{
		orgMembers:      map[string]map[string]domain.OrganizationMember{},
		cashbooks:       map[string]domain.Cashbook{},
		cashbookMembers: map[string]map[string]domain.CashbookMember{},
		accounts:        map[string]domain.Account{},
		contacts:        map[string]domain.Contact{},
		entries:         map[string]domain.LedgerEntry{},
		idempotency:     map[string]string{},
		voucherNumbers:  map[string]struct{}{},
		sequences:       map[string]int64{},
		deleteRequests:  map[string]domain.DeleteRequest{},
		reports:         map[string]domain.Report{},
	}
}

func (s state) clone() state {
	c := state{
		orgMembers:      make(map[string]map[string]domain.OrganizationMember, len(s.orgMembers)),
		cashbooks:       maps.Clone(s.cashbooks),
		cashbookMembers: make(map[string]map[string]domain.CashbookMember, len(s.cashbookMembers)),
		accounts:        maps.Clone(s.accounts),
		contacts:        maps.Clone(s.contacts),
		entries:         maps.Clone(s.entries),
		idempotency:     maps.Clone(s.idempotency),
		voucherNumbers:  maps.Clone(s.voucherNumbers),
		sequences:       maps.Clone(s.sequences),
		deleteRequests:  maps.Clone(s.deleteRequests),
		auditLogs:       slices.Clone(s.auditLogs),
		reports:         maps.Clone(s.reports),
		notifications:   slices.Clone(s.notifications),
	}
	for k, v := range s.orgMembers {
		c.orgMembers[k] = maps.Clone(v)
	}
	for k, v := range s.cashbookMembers {
		c.cashbookMembers[k] = maps.Clone(v)
	}
	return c
}

// Store holds all tables behind one mutex. Units of work are serialized and
// run against a private copy of the tables that replaces the committed
// tables only when the unit succeeds.
type Store struct {
	txMu sync.Mutex // held for the whole of a unit of work or a standalone write
	mu   sync.Mutex // guards data
	data state      // committed tables
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

// Provider exposes the store through every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:         s,
		OrganizationRepo:  s,
		CashbookRepo:      s,
		AccountRepo:       s,
		ContactRepo:       s,
		EntryRepo:         s,
		VoucherRepo:       s,
		DeleteRequestRepo: s,
		AuditRepo:         s,
		ReportRepo:        s,
		NotificationRepo:  s,
	}
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// WithinTx runs fn with exclusive write access on a working copy of the
// tables. Readers outside the unit keep seeing the committed tables until fn
// returns nil. A ctx already inside a unit joins it.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if workingState(ctx) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	work := s.data.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, &work)); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

func workingState(ctx context.Context) *state {
	d, _ := ctx.Value(txKey{}).(*state)
	return d
}

// write applies fn to the unit's working copy, or to the committed tables
// after waiting for any running unit.
func (s *Store) write(ctx context.Context, fn func(d *state) error) error {
	if d := workingState(ctx); d != nil {
		return fn(d)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

// read sees the unit's working copy inside a unit and the committed tables otherwise.
func (s *Store) read(ctx context.Context, fn func(d *state)) {
	if d := workingState(ctx); d != nil {
		fn(d)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}

// Notifications returns a copy of every stored notification.
func (s *Store) Notifications() []domain.Notification {
	var out []domain.Notification
	s.read(context.Background(), func(d *state) { out = slices.Clone(d.notifications) })
	return out
}

func scopeAllows(scope domain.CashbookScope, cashbookID string) bool {
	return !scope.Empty() && scope.Allows(cashbookID)
}
