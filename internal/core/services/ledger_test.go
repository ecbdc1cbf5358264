package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/SscSPs/cashbook_ledger/internal/core/ports/capabilities"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/core/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/SscSPs/cashbook_ledger/internal/platform/cache"
	"github.com/SscSPs/cashbook_ledger/internal/platform/config"
	"github.com/SscSPs/cashbook_ledger/internal/platform/storage"
	"github.com/SscSPs/cashbook_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	orgID      = "org-1"
	ownerID    = "u-owner"
	adminID    = "u-admin"
	editorID   = "u-editor"
	approverID = "u-approver"
	viewerID   = "u-viewer"
	outsiderID = "u-outsider"
)

// --- Mock Notifier ---
type MockNotifier struct {
	mock.Mock
}

var _ capabilities.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotifier) sent(typ domain.NotificationType) []domain.Notification {
	var out []domain.Notification
	for _, call := range m.Calls {
		if n, ok := call.Arguments.Get(1).(domain.Notification); ok && n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

// --- Mock ReportQueue ---
type MockReportQueue struct {
	mock.Mock
}

var _ capabilities.ReportQueue = (*MockReportQueue)(nil)

func (m *MockReportQueue) EnqueueReportJob(ctx context.Context, job domain.ReportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// LedgerServiceTestSuite runs the services against the in-memory store.
type LedgerServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	notifier *MockNotifier
	queue    *MockReportQueue
	svc      *portssvc.ServiceContainer

	cashbook *domain.Cashbook
	usd      *domain.Account
	bank     *domain.Account
	eur      *domain.Account
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.notifier = new(MockNotifier)
	s.notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.queue = new(MockReportQueue)

	s.svc = s.newContainer(s.store.Provider())

	for userID, role := range map[string]domain.OrgRole{
		ownerID:    domain.OrgRoleOwner,
		adminID:    domain.OrgRoleAdmin,
		editorID:   domain.OrgRoleMember,
		approverID: domain.OrgRoleMember,
		viewerID:   domain.OrgRoleMember,
	} {
		s.Require().NoError(s.store.UpsertOrgMember(s.ctx, domain.OrganizationMember{
			OrganizationID: orgID, UserID: userID, Role: role, JoinedAt: time.Now(),
		}))
	}

	var err error
	s.cashbook, err = s.svc.Cashbook.CreateCashbook(s.ctx, orgID, dto.CreateCashbookRequest{
		Name: "Main", Currency: "USD", AllowBackdated: true,
	}, ownerID)
	s.Require().NoError(err)

	for userID, role := range map[string]domain.CashbookRole{
		editorID:   domain.CashbookRoleEditor,
		approverID: domain.CashbookRoleApprover,
		viewerID:   domain.CashbookRoleViewer,
	} {
		_, err := s.svc.Cashbook.AddCashbookMember(s.ctx, orgID, s.cashbook.CashbookID,
			dto.AddCashbookMemberRequest{UserID: userID, Role: role}, ownerID)
		s.Require().NoError(err)
	}

	s.usd = s.createAccount("Cash", "")
	s.bank = s.createAccount("Bank", "")
	s.eur = s.createAccount("Euro wallet", "EUR")
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

// --- helpers ---

func (s *LedgerServiceTestSuite) newContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	cfg := &config.Config{BalanceCacheTTL: time.Minute, DownloadURLTTL: 15 * time.Minute}
	return services.NewServiceContainer(cfg, repos, services.Capabilities{
		Cache:    cache.NewLRUCache(128, time.Hour),
		Queue:    s.queue,
		Notifier: s.notifier,
		Signer:   storage.NewURLSigner("https://files.example.test", "test-secret"),
	})
}

// staleReads serves the account and cashbook rows captured before a concurrent
// change committed, the way a read outside the writing transaction would.
type staleReads struct {
	*memory.Store
	accounts  map[string]domain.Account
	cashbooks map[string]domain.Cashbook
}

func (r staleReads) FindAccountByID(ctx context.Context, orgID, accountID string) (*domain.Account, error) {
	if acc, ok := r.accounts[accountID]; ok {
		return &acc, nil
	}
	return r.Store.FindAccountByID(ctx, orgID, accountID)
}

func (r staleReads) FindCashbookByID(ctx context.Context, orgID, cashbookID string) (*domain.Cashbook, error) {
	if cb, ok := r.cashbooks[cashbookID]; ok {
		return &cb, nil
	}
	return r.Store.FindCashbookByID(ctx, orgID, cashbookID)
}

func (s *LedgerServiceTestSuite) staleContainer(r staleReads) *portssvc.ServiceContainer {
	repos := s.store.Provider()
	repos.AccountRepo = r
	repos.CashbookRepo = r
	return s.newContainer(repos)
}

func (s *LedgerServiceTestSuite) createAccount(name, currency string) *domain.Account {
	acc, err := s.svc.Account.CreateAccount(s.ctx, orgID, dto.CreateAccountRequest{
		CashbookID:  s.cashbook.CashbookID,
		Name:        name,
		AccountType: domain.AccountTypeCash,
		Currency:    currency,
	}, adminID)
	s.Require().NoError(err)
	return acc
}

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

func entryReq(accountID string, typ domain.EntryType, amount string, date time.Time) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		AccountID:       accountID,
		Type:            typ,
		Amount:          decimal.RequireFromString(amount),
		Description:     fmt.Sprintf("%s %s", typ, amount),
		TransactionDate: date,
	}
}

func (s *LedgerServiceTestSuite) mustCreate(req dto.CreateEntryRequest) *domain.LedgerEntry {
	entry, err := s.svc.Entry.CreateEntry(s.ctx, orgID, req, nil, editorID)
	s.Require().NoError(err)
	return entry
}

func (s *LedgerServiceTestSuite) assertBalance(accountID, want string) {
	computed, err := s.svc.Balance.ComputeBalance(s.ctx, orgID, accountID)
	s.Require().NoError(err)
	s.Equal(want, computed.StringFixed(2), "computed balance")

	cached, err := s.svc.Account.GetAccountBalance(s.ctx, orgID, accountID, ownerID)
	s.Require().NoError(err)
	s.Equal(want, cached.StringFixed(2), "cached balance")
}

func (s *LedgerServiceTestSuite) entryCount() int {
	page, err := s.svc.Entry.ListEntries(s.ctx, orgID, dto.ListEntriesParams{Limit: 100}, ownerID)
	s.Require().NoError(err)
	return page.Total
}

// --- scenario ---

func (s *LedgerServiceTestSuite) TestEndToEndScenario() {
	inflow := s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "100", day(time.January, 5)))
	s.Equal("R-000001", inflow.VoucherNumber)
	s.assertBalance(s.usd.AccountID, "100.00")

	rate := decimal.RequireFromString("0.9")
	transfer, err := s.svc.Transfer.CreateTransfer(s.ctx, orgID, dto.CreateTransferRequest{
		FromAccountID: s.usd.AccountID,
		ToAccountID:   s.eur.AccountID,
		Amount:        decimal.NewFromInt(40),
		ExchangeRate:  &rate,
	}, editorID)
	s.Require().NoError(err)
	s.Equal("36.00", transfer.Credit.Amount.StringFixed(2))
	s.Equal(domain.EntryTypeOutflow, transfer.Debit.Type)
	s.Equal(domain.EntryTypeInflow, transfer.Credit.Type)
	s.Equal("T-000001-DR", transfer.Debit.VoucherNumber)
	s.Equal("T-000001-CR", transfer.Credit.VoucherNumber)
	s.Equal("EUR", transfer.Credit.Currency)
	s.assertBalance(s.usd.AccountID, "60.00")
	s.assertBalance(s.eur.AccountID, "36.00")

	reversal, err := s.svc.Entry.ReverseEntry(s.ctx, orgID, inflow.EntryID, dto.ReverseEntryRequest{Reason: "duplicate"}, editorID)
	s.Require().NoError(err)
	s.Equal(domain.EntryTypeOutflow, reversal.Type)
	s.Equal("P-000001", reversal.VoucherNumber)
	s.Equal("REVERSAL: "+inflow.Description, reversal.Description)
	// The reversed original drops out of the fold and the reversal outflow counts.
	s.assertBalance(s.usd.AccountID, "-140.00")

	original, err := s.svc.Entry.GetEntry(s.ctx, orgID, inflow.EntryID, editorID)
	s.Require().NoError(err)
	s.Equal(domain.EntryStatusReversed, original.Status)
	s.Equal(reversal.EntryID, *original.ReversedByID)

	request, err := s.svc.DeleteApproval.RequestDelete(s.ctx, orgID, reversal.EntryID, dto.RequestDeleteRequest{Reason: "test"}, editorID)
	s.Require().NoError(err)
	s.Equal(domain.DeleteRequestPending, request.Status)
	pending, err := s.svc.Entry.GetEntry(s.ctx, orgID, reversal.EntryID, editorID)
	s.Require().NoError(err)
	s.Equal(domain.EntryStatusPendingDeleteApproval, pending.Status)
	// Pending entries keep counting until the delete is approved.
	s.assertBalance(s.usd.AccountID, "-140.00")

	_, err = s.svc.DeleteApproval.ApproveDelete(s.ctx, orgID, request.RequestID, approverID)
	s.Require().NoError(err)
	s.assertBalance(s.usd.AccountID, "-40.00")
	s.assertBalance(s.eur.AccountID, "36.00")
}

// --- entries ---

func (s *LedgerServiceTestSuite) TestCreateEntry_Idempotent() {
	key := "  client-key-1 "
	req := entryReq(s.usd.AccountID, domain.EntryTypeInflow, "25.50", day(time.March, 1))
	req.Category = domain.EntryCategoryBackdated

	first, err := s.svc.Entry.CreateEntry(s.ctx, orgID, req, &key, editorID)
	s.Require().NoError(err)
	second, err := s.svc.Entry.CreateEntry(s.ctx, orgID, req, &key, editorID)
	s.Require().NoError(err)

	s.Equal(first.EntryID, second.EntryID)
	s.Equal(first.VoucherNumber, second.VoucherNumber)
	s.Equal(1, s.entryCount())
	s.assertBalance(s.usd.AccountID, "25.50")

	logs, err := s.svc.Audit.ListAuditLogs(s.ctx, orgID, dto.ListAuditLogsParams{EntryID: &first.EntryID}, adminID)
	s.Require().NoError(err)
	s.Len(logs.Data, 1)
	s.Len(s.notifier.sent(domain.NotificationNonStandardEntry), 1)
}

func (s *LedgerServiceTestSuite) TestCreateEntry_ConcurrentVouchersAreUnique() {
	const writers = 20
	var wg sync.WaitGroup
	vouchers := make(chan string, writers)
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, err := s.svc.Entry.CreateEntry(s.ctx, orgID,
				entryReq(s.usd.AccountID, domain.EntryTypeOutflow, "1", day(time.April, 1+i%20)), nil, editorID)
			if err != nil {
				errs <- err
				return
			}
			vouchers <- entry.VoucherNumber
		}(i)
	}
	wg.Wait()
	close(vouchers)
	close(errs)

	for err := range errs {
		s.Require().NoError(err)
	}
	seen := map[string]bool{}
	for v := range vouchers {
		s.False(seen[v], "duplicate voucher %s", v)
		seen[v] = true
	}
	s.Len(seen, writers)
	s.True(seen["P-000001"])
	s.True(seen[fmt.Sprintf("P-%06d", writers)])
}

func (s *LedgerServiceTestSuite) TestCreateEntry_Policy() {
	tests := []struct {
		name    string
		mutate  func(*dto.CreateEntryRequest)
		userID  string
		wantErr error
	}{
		{"omitted not allowed", func(r *dto.CreateEntryRequest) { r.Category = domain.EntryCategoryOmitted }, editorID, apperrors.ErrValidation},
		{"before lock date", func(r *dto.CreateEntryRequest) { r.TransactionDate = day(time.January, 15) }, editorID, apperrors.ErrValidation},
		{"non-positive amount", func(r *dto.CreateEntryRequest) { r.Amount = decimal.Zero }, editorID, apperrors.ErrValidation},
		{"unknown contact", func(r *dto.CreateEntryRequest) { r.ContactID = ptr("missing") }, editorID, apperrors.ErrValidation},
		{"viewer cannot write", func(*dto.CreateEntryRequest) {}, viewerID, apperrors.ErrForbidden},
		{"outsider", func(*dto.CreateEntryRequest) {}, outsiderID, apperrors.ErrForbidden},
	}

	lock := day(time.February, 1)
	_, err := s.svc.Cashbook.UpdateCashbook(s.ctx, orgID, s.cashbook.CashbookID, dto.UpdateCashbookRequest{LockDate: &lock}, ownerID)
	s.Require().NoError(err)

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := entryReq(s.usd.AccountID, domain.EntryTypeInflow, "10", day(time.March, 1))
			tt.mutate(&req)
			_, err := s.svc.Entry.CreateEntry(s.ctx, orgID, req, nil, tt.userID)
			s.ErrorIs(err, tt.wantErr)
		})
	}
	s.Equal(0, s.entryCount())
}

func (s *LedgerServiceTestSuite) TestCreateEntry_ArchivedAccountRejected() {
	_, err := s.svc.Account.ArchiveAccount(s.ctx, orgID, s.bank.AccountID, adminID)
	s.Require().NoError(err)
	_, err = s.svc.Account.ArchiveAccount(s.ctx, orgID, s.bank.AccountID, adminID)
	s.ErrorIs(err, apperrors.ErrConflict)

	_, err = s.svc.Entry.CreateEntry(s.ctx, orgID, entryReq(s.bank.AccountID, domain.EntryTypeInflow, "5", day(time.May, 1)), nil, editorID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestCreateEntry_RechecksAccountAndCashbookInsideTx() {
	stale := staleReads{
		Store:     s.store,
		accounts:  map[string]domain.Account{s.bank.AccountID: *s.bank},
		cashbooks: map[string]domain.Cashbook{s.cashbook.CashbookID: *s.cashbook},
	}
	_, err := s.svc.Account.ArchiveAccount(s.ctx, orgID, s.bank.AccountID, adminID)
	s.Require().NoError(err)
	lock := day(time.February, 1)
	_, err = s.svc.Cashbook.UpdateCashbook(s.ctx, orgID, s.cashbook.CashbookID, dto.UpdateCashbookRequest{LockDate: &lock}, ownerID)
	s.Require().NoError(err)

	svc := s.staleContainer(stale)
	_, err = svc.Entry.CreateEntry(s.ctx, orgID, entryReq(s.bank.AccountID, domain.EntryTypeInflow, "5", day(time.May, 1)), nil, editorID)
	s.ErrorIs(err, apperrors.ErrValidation, "archived account")
	_, err = svc.Entry.CreateEntry(s.ctx, orgID, entryReq(s.usd.AccountID, domain.EntryTypeInflow, "5", day(time.January, 10)), nil, editorID)
	s.ErrorIs(err, apperrors.ErrValidation, "locked period")
	_, err = svc.Transfer.CreateTransfer(s.ctx, orgID, dto.CreateTransferRequest{
		FromAccountID: s.usd.AccountID, ToAccountID: s.bank.AccountID, Amount: decimal.NewFromInt(5),
	}, editorID)
	s.ErrorIs(err, apperrors.ErrValidation, "transfer into archived account")
	_, err = svc.Transfer.CreateTransfer(s.ctx, orgID, dto.CreateTransferRequest{
		FromAccountID: s.usd.AccountID, ToAccountID: s.eur.AccountID, Amount: decimal.NewFromInt(5),
		ToAmount: ptr(decimal.NewFromInt(4)), TransactionDate: ptr(day(time.January, 10)),
	}, editorID)
	s.ErrorIs(err, apperrors.ErrValidation, "transfer in locked period")

	s.Equal(0, s.entryCount())
	_, err = svc.Entry.CreateEntry(s.ctx, orgID, entryReq(s.usd.AccountID, domain.EntryTypeInflow, "5", day(time.March, 1)), nil, editorID)
	s.NoError(err)
}

func (s *LedgerServiceTestSuite) TestCreateEntry_ConcurrentIdempotencyKey() {
	const writers = 16
	key := "same-key"
	var wg sync.WaitGroup
	ids := make(chan string, writers)
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, err := s.svc.Entry.CreateEntry(s.ctx, orgID,
				entryReq(s.usd.AccountID, domain.EntryTypeInflow, "12.5", day(time.March, 1)), &key, editorID)
			if err != nil {
				errs <- err
				return
			}
			ids <- entry.EntryID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		s.Require().NoError(err)
	}
	seen := map[string]int{}
	for id := range ids {
		seen[id]++
	}
	s.Require().Len(seen, 1, "every caller gets the same entry")
	s.Equal(1, s.entryCount())
	s.assertBalance(s.usd.AccountID, "12.50")

	for id, n := range seen {
		s.Equal(writers, n)
		logs, err := s.svc.Audit.ListAuditLogs(s.ctx, orgID, dto.ListAuditLogsParams{EntryID: &id}, ownerID)
		s.Require().NoError(err)
		s.Require().Len(logs.Data, 1)
		s.Equal(domain.AuditActionCreate, logs.Data[0].Action)
	}
}

func (s *LedgerServiceTestSuite) TestAmountScale() {
	tests := []struct {
		amount  string
		wantErr bool
	}{
		{"0.00001", true},
		{"10.12345", true},
		{"10.1234", false},
		{"7.50", false},
	}
	for _, tt := range tests {
		s.Run(tt.amount, func() {
			req := entryReq(s.usd.AccountID, domain.EntryTypeInflow, tt.amount, day(time.March, 1))
			entry, err := s.svc.Entry.CreateEntry(s.ctx, orgID, req, ptr("scale-"+tt.amount), editorID)
			if tt.wantErr {
				s.ErrorIs(err, apperrors.ErrValidation)
				return
			}
			s.Require().NoError(err)
			s.True(entry.Amount.Equal(decimal.RequireFromString(tt.amount)))

			_, err = s.svc.Entry.UpdateEntry(s.ctx, orgID, entry.EntryID, dto.UpdateEntryRequest{
				Amount: ptr(decimal.RequireFromString("1.00001")), EditReason: ptr("typo"),
			}, editorID)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}

	_, err := s.svc.Transfer.CreateTransfer(s.ctx, orgID, dto.CreateTransferRequest{
		FromAccountID: s.usd.AccountID, ToAccountID: s.bank.AccountID, Amount: decimal.RequireFromString("1.00001"),
	}, editorID)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal(2, s.entryCount())
}

func (s *LedgerServiceTestSuite) TestGetBalance_IgnoresUncommittedWrites() {
	s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "50", day(time.March, 1)))
	s.assertBalance(s.usd.AccountID, "50.00")
	s.svc.Balance.Invalidate(s.ctx, orgID, s.usd.AccountID)

	rollback := errors.New("rollback")
	err := s.store.WithinTx(s.ctx, func(txCtx context.Context) error {
		_, err := s.svc.Entry.CreateEntry(txCtx, orgID,
			entryReq(s.usd.AccountID, domain.EntryTypeInflow, "1000", day(time.March, 2)), nil, editorID)
		s.Require().NoError(err)

		// A reader outside the unit sees, and caches, only committed rows.
		outside, err := s.svc.Balance.GetBalance(s.ctx, orgID, s.usd.AccountID)
		s.Require().NoError(err)
		s.Equal("50.00", outside.StringFixed(2))
		return rollback
	})
	s.ErrorIs(err, rollback)

	s.assertBalance(s.usd.AccountID, "50.00")
	s.Equal(1, s.entryCount())
}

func (s *LedgerServiceTestSuite) TestCreateEntry_NotificationFailureDoesNotFailWrite() {
	s.notifier.ExpectedCalls = nil
	s.notifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("sink down"))

	req := entryReq(s.usd.AccountID, domain.EntryTypeAdjustment, "7", day(time.June, 1))
	req.Category = domain.EntryCategoryBackdated
	entry, err := s.svc.Entry.CreateEntry(s.ctx, orgID, req, nil, editorID)
	s.Require().NoError(err)
	s.Equal("J-000001", entry.VoucherNumber)
	s.notifier.AssertCalled(s.T(), "Notify", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.UserID == ownerID && n.Type == domain.NotificationNonStandardEntry
	}))
	s.assertBalance(s.usd.AccountID, "7.00")
}

func (s *LedgerServiceTestSuite) TestUpdateEntry() {
	entry := s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "50", day(time.March, 10)))
	s.assertBalance(s.usd.AccountID, "50.00")

	amount := decimal.NewFromInt(80)
	updated, err := s.svc.Entry.UpdateEntry(s.ctx, orgID, entry.EntryID, dto.UpdateEntryRequest{
		Amount:     &amount,
		EditReason: ptr("typo"),
	}, editorID)
	s.Require().NoError(err)
	s.True(updated.IsEdited)
	s.Equal(editorID, *updated.LastEditedByID)
	s.assertBalance(s.usd.AccountID, "80.00")

	_, err = s.svc.Entry.UpdateEntry(s.ctx, orgID, entry.EntryID, dto.UpdateEntryRequest{}, editorID)
	s.ErrorIs(err, apperrors.ErrValidation)

	lock := day(time.April, 1)
	_, err = s.svc.Cashbook.UpdateCashbook(s.ctx, orgID, s.cashbook.CashbookID, dto.UpdateCashbookRequest{LockDate: &lock}, ownerID)
	s.Require().NoError(err)
	_, err = s.svc.Entry.UpdateEntry(s.ctx, orgID, entry.EntryID, dto.UpdateEntryRequest{Description: ptr("late")}, editorID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestUpdateEntry_TransferLegAmountRejected() {
	transfer, err := s.svc.Transfer.CreateTransfer(s.ctx, orgID, dto.CreateTransferRequest{
		FromAccountID: s.usd.AccountID, ToAccountID: s.bank.AccountID, Amount: decimal.NewFromInt(10),
	}, editorID)
	s.Require().NoError(err)

	amount := decimal.NewFromInt(11)
	_, err = s.svc.Entry.UpdateEntry(s.ctx, orgID, transfer.Debit.EntryID, dto.UpdateEntryRequest{Amount: &amount}, editorID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestReverseEntry_TwiceConflicts() {
	entry := s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeAdjustment, "30", day(time.March, 3)))

	reversal, err := s.svc.Entry.ReverseEntry(s.ctx, orgID, entry.EntryID, dto.ReverseEntryRequest{Reason: "wrong"}, editorID)
	s.Require().NoError(err)
	s.Equal(domain.EntryTypeOutflow, reversal.Type)
	s.assertBalance(s.usd.AccountID, "-30.00")

	_, err = s.svc.Entry.ReverseEntry(s.ctx, orgID, entry.EntryID, dto.ReverseEntryRequest{Reason: "again"}, editorID)
	s.ErrorIs(err, apperrors.ErrConflict)
	_, err = s.svc.Entry.ReverseEntry(s.ctx, orgID, reversal.EntryID, dto.ReverseEntryRequest{Reason: "undo"}, editorID)
	s.ErrorIs(err, apperrors.ErrConflict)

	logs, err := s.svc.Audit.ListAuditLogs(s.ctx, orgID, dto.ListAuditLogsParams{
		EntryID: &entry.EntryID, Action: ptr(domain.AuditActionReverse),
	}, ownerID)
	s.Require().NoError(err)
	s.Len(logs.Data, 1)
}

func (s *LedgerServiceTestSuite) TestToggleReconciliation() {
	entry := s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "5", day(time.March, 3)))

	on, err := s.svc.Entry.ToggleReconciliation(s.ctx, orgID, entry.EntryID, editorID)
	s.Require().NoError(err)
	s.True(on.IsReconciled)
	s.NotNil(on.ReconciledAt)

	off, err := s.svc.Entry.ToggleReconciliation(s.ctx, orgID, entry.EntryID, editorID)
	s.Require().NoError(err)
	s.False(off.IsReconciled)
	s.Nil(off.ReconciledAt)

	_, err = s.svc.Entry.ToggleReconciliation(s.ctx, orgID, entry.EntryID, viewerID)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *LedgerServiceTestSuite) TestListEntries_LedgerContext() {
	s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "100", day(time.January, 10)))
	s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeOutflow, "30", day(time.February, 15)))
	reversed := s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "12", day(time.March, 1)))
	s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeAdjustment, "5", day(time.March, 20)))
	s.mustCreate(entryReq(s.bank.AccountID, domain.EntryTypeInflow, "999", day(time.February, 20)))
	_, err := s.svc.Entry.ReverseEntry(s.ctx, orgID, reversed.EntryID, dto.ReverseEntryRequest{Reason: "x"}, editorID)
	s.Require().NoError(err)

	start := day(time.February, 1)
	end := day(time.February, 28)
	page, err := s.svc.Entry.ListEntries(s.ctx, orgID, dto.ListEntriesParams{
		AccountID: &s.usd.AccountID,
		StartDate: &start,
		EndDate:   &end,
	}, editorID)
	s.Require().NoError(err)
	s.Require().NotNil(page.LedgerContext)
	s.Equal(1, page.Total)
	s.Equal("100.00", page.LedgerContext.OpeningBalance.StringFixed(2))
	s.Equal("70.00", page.LedgerContext.ClosingBalance.StringFixed(2))
	s.Equal("63.00", page.LedgerContext.CurrentBalance.StringFixed(2))
	s.Equal("-30.00", page.LedgerContext.PageMovement.StringFixed(2))

	// opening(asOf) + movements dated on or after asOf == current, for any asOf.
	for _, asOf := range []time.Time{day(time.January, 1), start, day(time.March, 2), time.Now().Add(time.Hour)} {
		opening, err := s.svc.Account.GetOpeningBalance(s.ctx, orgID, s.usd.AccountID, asOf, editorID)
		s.Require().NoError(err)
		after, err := s.svc.Entry.ListEntries(s.ctx, orgID, dto.ListEntriesParams{AccountID: &s.usd.AccountID, StartDate: &asOf, Limit: 100}, editorID)
		s.Require().NoError(err)
		s.Equal(after.LedgerContext.CurrentBalance.StringFixed(2),
			opening.Add(after.LedgerContext.PageMovement).StringFixed(2), "asOf %s", asOf)
	}

	noAccount, err := s.svc.Entry.ListEntries(s.ctx, orgID, dto.ListEntriesParams{}, editorID)
	s.Require().NoError(err)
	s.Nil(noAccount.LedgerContext)
}

// --- transfers ---

func (s *LedgerServiceTestSuite) TestCreateTransfer_Validation() {
	rate := decimal.RequireFromString("0.9")
	toAmount := decimal.RequireFromString("9")
	tests := []struct {
		name string
		req  dto.CreateTransferRequest
	}{
		{"same account", dto.CreateTransferRequest{FromAccountID: s.usd.AccountID, ToAccountID: s.usd.AccountID, Amount: decimal.NewFromInt(1)}},
		{"cross currency without rate", dto.CreateTransferRequest{FromAccountID: s.usd.AccountID, ToAccountID: s.eur.AccountID, Amount: decimal.NewFromInt(10)}},
		{"cross currency with both", dto.CreateTransferRequest{FromAccountID: s.usd.AccountID, ToAccountID: s.eur.AccountID, Amount: decimal.NewFromInt(10), ExchangeRate: &rate, ToAmount: &toAmount}},
		{"same currency with a rate", dto.CreateTransferRequest{FromAccountID: s.usd.AccountID, ToAccountID: s.bank.AccountID, Amount: decimal.NewFromInt(10), ExchangeRate: &rate}},
		{"before lock date", dto.CreateTransferRequest{FromAccountID: s.usd.AccountID, ToAccountID: s.bank.AccountID, Amount: decimal.NewFromInt(10), TransactionDate: ptr(day(time.January, 1))}},
	}

	lock := day(time.February, 1)
	_, err := s.svc.Cashbook.UpdateCashbook(s.ctx, orgID, s.cashbook.CashbookID, dto.UpdateCashbookRequest{LockDate: &lock}, ownerID)
	s.Require().NoError(err)

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.Transfer.CreateTransfer(s.ctx, orgID, tt.req, editorID)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	s.Equal(0, s.entryCount())

	logs, err := s.svc.Audit.ListAuditLogs(s.ctx, orgID, dto.ListAuditLogsParams{EntityType: ptr(domain.AuditEntityTransfer)}, ownerID)
	s.Require().NoError(err)
	s.Empty(logs.Data)
}

func (s *LedgerServiceTestSuite) TestCreateTransfer_ToAmountDerivesRate() {
	toAmount := decimal.RequireFromString("92.5")
	transfer, err := s.svc.Transfer.CreateTransfer(s.ctx, orgID, dto.CreateTransferRequest{
		FromAccountID: s.usd.AccountID, ToAccountID: s.eur.AccountID,
		Amount: decimal.NewFromInt(100), ToAmount: &toAmount,
	}, editorID)
	s.Require().NoError(err)
	s.Equal("0.925", transfer.Debit.ExchangeRate.String())
	s.Equal(transfer.TransferGroupID, *transfer.Credit.TransferGroupID)

	legs, err := s.svc.Entry.ListEntries(s.ctx, orgID, dto.ListEntriesParams{TransferGroupID: &transfer.TransferGroupID}, ownerID)
	s.Require().NoError(err)
	s.Equal(2, legs.Total)
	s.assertBalance(s.usd.AccountID, "-100.00")
	s.assertBalance(s.eur.AccountID, "92.50")
}

// --- delete approval ---

func (s *LedgerServiceTestSuite) TestDeleteWorkflow_Approve() {
	entry := s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "40", day(time.March, 3)))

	request, err := s.svc.DeleteApproval.RequestDelete(s.ctx, orgID, entry.EntryID, dto.RequestDeleteRequest{Reason: "duplicate"}, editorID)
	s.Require().NoError(err)
	_, err = s.svc.DeleteApproval.RequestDelete(s.ctx, orgID, entry.EntryID, dto.RequestDeleteRequest{Reason: "again"}, editorID)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.NotEmpty(s.notifier.sent(domain.NotificationDeleteRequested))

	_, err = s.svc.DeleteApproval.ApproveDelete(s.ctx, orgID, request.RequestID, editorID)
	s.ErrorIs(err, apperrors.ErrForbidden)

	approved, err := s.svc.DeleteApproval.ApproveDelete(s.ctx, orgID, request.RequestID, approverID)
	s.Require().NoError(err)
	s.Equal(domain.DeleteRequestApproved, approved.Status)
	s.Equal(approverID, *approved.ApprovedByID)

	deleted, err := s.svc.Entry.GetEntry(s.ctx, orgID, entry.EntryID, editorID)
	s.Require().NoError(err)
	s.Equal(domain.EntryStatusDeleted, deleted.Status)
	s.assertBalance(s.usd.AccountID, "0.00")
	s.Equal(0, s.entryCount())

	_, err = s.svc.DeleteApproval.RejectDelete(s.ctx, orgID, request.RequestID, dto.RejectDeleteRequest{Reason: "late"}, approverID)
	s.ErrorIs(err, apperrors.ErrConflict)

	resolved := s.notifier.sent(domain.NotificationDeleteRequestResolved)
	s.Require().Len(resolved, 1)
	s.Equal(editorID, resolved[0].UserID)
}

func (s *LedgerServiceTestSuite) TestDeleteWorkflow_Reject() {
	entry := s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "40", day(time.March, 3)))
	request, err := s.svc.DeleteApproval.RequestDelete(s.ctx, orgID, entry.EntryID, dto.RequestDeleteRequest{Reason: "duplicate"}, editorID)
	s.Require().NoError(err)

	rejected, err := s.svc.DeleteApproval.RejectDelete(s.ctx, orgID, request.RequestID, dto.RejectDeleteRequest{Reason: "keep it"}, adminID)
	s.Require().NoError(err)
	s.Equal(domain.DeleteRequestRejected, rejected.Status)
	s.Equal("keep it", *rejected.RejectionReason)

	restored, err := s.svc.Entry.GetEntry(s.ctx, orgID, entry.EntryID, editorID)
	s.Require().NoError(err)
	s.Equal(domain.EntryStatusActive, restored.Status)
	s.Nil(restored.DeleteRequestedByID)
	s.assertBalance(s.usd.AccountID, "40.00")

	again, err := s.svc.DeleteApproval.RequestDelete(s.ctx, orgID, entry.EntryID, dto.RequestDeleteRequest{Reason: "really"}, editorID)
	s.Require().NoError(err)
	list, err := s.svc.DeleteApproval.ListDeleteRequests(s.ctx, orgID, dto.ListDeleteRequestsParams{Status: ptr(domain.DeleteRequestPending)}, approverID)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(again.RequestID, list[0].RequestID)
}

func (s *LedgerServiceTestSuite) TestDeleteWorkflow_SelfApproval() {
	entry := s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "1", day(time.March, 3)))
	request, err := s.svc.DeleteApproval.RequestDelete(s.ctx, orgID, entry.EntryID, dto.RequestDeleteRequest{Reason: "mine"}, approverID)
	s.Require().NoError(err)
	_, err = s.svc.DeleteApproval.ApproveDelete(s.ctx, orgID, request.RequestID, approverID)
	s.ErrorIs(err, apperrors.ErrForbidden)

	other := s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "2", day(time.March, 4)))
	ownRequest, err := s.svc.DeleteApproval.RequestDelete(s.ctx, orgID, other.EntryID, dto.RequestDeleteRequest{Reason: "mine"}, ownerID)
	s.Require().NoError(err)
	_, err = s.svc.DeleteApproval.ApproveDelete(s.ctx, orgID, ownRequest.RequestID, ownerID)
	s.NoError(err)
}

func (s *LedgerServiceTestSuite) TestRequestDelete_ReversedEntryRejected() {
	entry := s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "3", day(time.March, 3)))
	_, err := s.svc.Entry.ReverseEntry(s.ctx, orgID, entry.EntryID, dto.ReverseEntryRequest{Reason: "x"}, editorID)
	s.Require().NoError(err)
	_, err = s.svc.DeleteApproval.RequestDelete(s.ctx, orgID, entry.EntryID, dto.RequestDeleteRequest{Reason: "x"}, editorID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

// --- cashbooks, audit, dashboard ---

func (s *LedgerServiceTestSuite) TestCashbookScopeAndAdminWrites() {
	_, err := s.svc.Cashbook.CreateCashbook(s.ctx, orgID, dto.CreateCashbookRequest{Name: "Side", Currency: "USD"}, editorID)
	s.ErrorIs(err, apperrors.ErrForbidden)

	side, err := s.svc.Cashbook.CreateCashbook(s.ctx, orgID, dto.CreateCashbookRequest{Name: "Side", Currency: "USD"}, adminID)
	s.Require().NoError(err)

	visible, err := s.svc.Cashbook.ListCashbooks(s.ctx, orgID, editorID)
	s.Require().NoError(err)
	s.Require().Len(visible, 1)
	s.Equal(s.cashbook.CashbookID, visible[0].CashbookID)

	all, err := s.svc.Cashbook.ListCashbooks(s.ctx, orgID, adminID)
	s.Require().NoError(err)
	s.Len(all, 2)

	_, err = s.svc.Cashbook.GetCashbook(s.ctx, orgID, side.CashbookID, editorID)
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.svc.Cashbook.AddCashbookMember(s.ctx, orgID, side.CashbookID, dto.AddCashbookMemberRequest{UserID: outsiderID, Role: domain.CashbookRoleViewer}, ownerID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestDeleteCashbookKeepsAuditTrail() {
	entry := s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "9", day(time.March, 3)))
	s.assertBalance(s.usd.AccountID, "9.00")

	s.Require().NoError(s.svc.Cashbook.DeleteCashbook(s.ctx, orgID, s.cashbook.CashbookID, ownerID))

	_, err := s.svc.Entry.GetEntry(s.ctx, orgID, entry.EntryID, ownerID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.svc.Account.GetAccountBalance(s.ctx, orgID, s.usd.AccountID, ownerID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	logs, err := s.svc.Audit.ListAuditLogs(s.ctx, orgID, dto.ListAuditLogsParams{EntryID: &entry.EntryID}, ownerID)
	s.Require().NoError(err)
	s.Len(logs.Data, 1)
}

func (s *LedgerServiceTestSuite) TestAuditLogs_AdminOnlyAndPaged() {
	for i := 0; i < 3; i++ {
		s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "1", day(time.March, 3)))
	}
	_, err := s.svc.Audit.ListAuditLogs(s.ctx, orgID, dto.ListAuditLogsParams{}, editorID)
	s.ErrorIs(err, apperrors.ErrForbidden)

	entity := domain.AuditEntityEntry
	first, err := s.svc.Audit.ListAuditLogs(s.ctx, orgID, dto.ListAuditLogsParams{EntityType: &entity, Limit: 2}, adminID)
	s.Require().NoError(err)
	s.Len(first.Data, 2)
	s.Require().NotNil(first.NextToken)

	second, err := s.svc.Audit.ListAuditLogs(s.ctx, orgID, dto.ListAuditLogsParams{EntityType: &entity, Limit: 2, NextToken: first.NextToken}, adminID)
	s.Require().NoError(err)
	s.Len(second.Data, 1)
	s.Nil(second.NextToken)
	s.NotEqual(first.Data[0].AuditLogID, second.Data[0].AuditLogID)
}

func (s *LedgerServiceTestSuite) TestDashboard_TotalsPerCurrency() {
	s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "100", day(time.March, 1)))
	s.mustCreate(entryReq(s.eur.AccountID, domain.EntryTypeInflow, "40", day(time.March, 2)))
	s.mustCreate(entryReq(s.eur.AccountID, domain.EntryTypeOutflow, "15", day(time.March, 3)))

	d, err := s.svc.Dashboard.GetDashboard(s.ctx, orgID, dto.DashboardParams{}, ownerID)
	s.Require().NoError(err)
	s.Require().Len(d.Currencies, 2)
	eur, usd := d.Currencies[0], d.Currencies[1]
	s.Equal("25.00", eur.TotalBalance.StringFixed(2))
	s.Equal("40.00", eur.TotalInflow.StringFixed(2))
	s.Equal("15.00", eur.TotalOutflow.StringFixed(2))
	s.Equal("100.00", usd.TotalBalance.StringFixed(2))
	s.Equal("100.00", usd.NetCashflow.StringFixed(2))

	for _, row := range d.AccountBalances {
		computed, err := s.svc.Balance.ComputeBalance(s.ctx, orgID, row.AccountID)
		s.Require().NoError(err)
		s.True(computed.Equal(row.Balance), row.Name)
	}
}

func (s *LedgerServiceTestSuite) TestDashboard() {
	s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeInflow, "100", day(time.March, 1)))
	s.mustCreate(entryReq(s.usd.AccountID, domain.EntryTypeOutflow, "30", day(time.March, 2)))
	s.mustCreate(entryReq(s.bank.AccountID, domain.EntryTypeAdjustment, "5", day(time.March, 3)))
	pending := s.mustCreate(entryReq(s.bank.AccountID, domain.EntryTypeInflow, "10", day(time.April, 1)))
	_, err := s.svc.DeleteApproval.RequestDelete(s.ctx, orgID, pending.EntryID, dto.RequestDeleteRequest{Reason: "x"}, editorID)
	s.Require().NoError(err)

	start, end := day(time.March, 1), day(time.March, 31)
	d, err := s.svc.Dashboard.GetDashboard(s.ctx, orgID, dto.DashboardParams{
		CashbookID: &s.cashbook.CashbookID, StartDate: &start, EndDate: &end,
	}, viewerID)
	s.Require().NoError(err)
	s.Equal("85.00", d.TotalBalance.StringFixed(2))
	s.Equal("100.00", d.TotalInflow.StringFixed(2))
	s.Equal("30.00", d.TotalOutflow.StringFixed(2))
	s.Equal("70.00", d.NetCashflow.StringFixed(2))
	s.Len(d.AccountBalances, 3)
	s.Len(d.RecentEntries, 4)
	s.Equal(1, d.PendingDeleteRequests)
	s.Require().Len(d.Currencies, 2)
	s.Equal("EUR", d.Currencies[0].Currency)
	s.True(d.Currencies[0].TotalBalance.IsZero())
	s.Equal("USD", d.Currencies[1].Currency)
	s.Equal("85.00", d.Currencies[1].TotalBalance.StringFixed(2))
	s.Equal("70.00", d.Currencies[1].NetCashflow.StringFixed(2))

	_, err = s.svc.Dashboard.GetDashboard(s.ctx, orgID, dto.DashboardParams{}, outsiderID)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

// --- reports ---

func (s *LedgerServiceTestSuite) TestReportLifecycle() {
	s.queue.On("EnqueueReportJob", mock.Anything, mock.MatchedBy(func(job domain.ReportJob) bool {
		return job.OrganizationID == orgID && job.Type == domain.ReportTypeLedger
	})).Return(nil).Once()

	report, err := s.svc.Report.CreateReport(s.ctx, orgID, dto.CreateReportRequest{
		Type: domain.ReportTypeLedger, Format: domain.ReportFormatCSV,
	}, editorID)
	s.Require().NoError(err)
	s.Equal(domain.ReportStatusPending, report.Status)
	s.queue.AssertExpectations(s.T())

	_, err = s.svc.Report.GetReportDownloadURL(s.ctx, orgID, report.ReportID, editorID)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Report.UpdateReportStatus(s.ctx, orgID, report.ReportID, dto.UpdateReportStatusRequest{Status: domain.ReportStatusProcessing})
	s.Require().NoError(err)
	_, err = s.svc.Report.UpdateReportStatus(s.ctx, orgID, report.ReportID, dto.UpdateReportStatusRequest{Status: domain.ReportStatusCompleted})
	s.ErrorIs(err, apperrors.ErrValidation)

	done, err := s.svc.Report.UpdateReportStatus(s.ctx, orgID, report.ReportID, dto.UpdateReportStatusRequest{
		Status: domain.ReportStatusCompleted, FileKey: ptr("reports/org-1/ledger.csv"),
	})
	s.Require().NoError(err)
	s.NotNil(done.CompletedAt)

	_, err = s.svc.Report.UpdateReportStatus(s.ctx, orgID, report.ReportID, dto.UpdateReportStatusRequest{Status: domain.ReportStatusProcessing})
	s.ErrorIs(err, apperrors.ErrConflict)

	link, err := s.svc.Report.GetReportDownloadURL(s.ctx, orgID, report.ReportID, editorID)
	s.Require().NoError(err)
	s.Contains(link.URL, "https://files.example.test/")
	s.Contains(link.URL, "token=")

	ready := s.notifier.sent(domain.NotificationReportReady)
	s.Require().Len(ready, 1)
	s.Equal(editorID, ready[0].UserID)

	list, err := s.svc.Report.ListReports(s.ctx, orgID, dto.ListReportsParams{}, viewerID)
	s.Require().NoError(err)
	s.Equal(1, list.Total)
}

func (s *LedgerServiceTestSuite) TestReportEnqueueFailureAndStaleSweep() {
	s.queue.On("EnqueueReportJob", mock.Anything, mock.Anything).Return(errors.New("queue full")).Once()
	failed, err := s.svc.Report.CreateReport(s.ctx, orgID, dto.CreateReportRequest{
		Type: domain.ReportTypeCashflow, Format: domain.ReportFormatPDF,
	}, editorID)
	s.Require().NoError(err)
	s.Equal(domain.ReportStatusFailed, failed.Status)
	s.Require().NotNil(failed.ErrorMessage)

	s.queue.On("EnqueueReportJob", mock.Anything, mock.Anything).Return(nil).Once()
	stuck, err := s.svc.Report.CreateReport(s.ctx, orgID, dto.CreateReportRequest{
		Type: domain.ReportTypeAuditTrail, Format: domain.ReportFormatXLSX,
	}, editorID)
	s.Require().NoError(err)

	n, err := s.svc.Report.FailStaleReports(s.ctx, time.Now().Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(1, n)

	list, err := s.svc.Report.ListReports(s.ctx, orgID, dto.ListReportsParams{}, editorID)
	s.Require().NoError(err)
	for _, r := range list.Data {
		s.Equal(domain.ReportStatusFailed, r.Status, r.ReportID)
	}
	s.Contains([]string{list.Data[0].ReportID, list.Data[1].ReportID}, stuck.ReportID)
}

func ptr[T any](v T) *T { return &v }

func TestConversionRounding(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertOrgMember(ctx, domain.OrganizationMember{OrganizationID: orgID, UserID: ownerID, Role: domain.OrgRoleOwner}))
	c := services.NewServiceContainer(&config.Config{}, store.Provider(), services.Capabilities{})

	cb, err := c.Cashbook.CreateCashbook(ctx, orgID, dto.CreateCashbookRequest{Name: "FX", Currency: "USD"}, ownerID)
	require.NoError(t, err)
	from, err := c.Account.CreateAccount(ctx, orgID, dto.CreateAccountRequest{CashbookID: cb.CashbookID, Name: "USD", AccountType: domain.AccountTypeBank}, ownerID)
	require.NoError(t, err)
	to, err := c.Account.CreateAccount(ctx, orgID, dto.CreateAccountRequest{CashbookID: cb.CashbookID, Name: "JPY", AccountType: domain.AccountTypeBank, Currency: "JPY"}, ownerID)
	require.NoError(t, err)

	rate := decimal.RequireFromString("151.237")
	res, err := c.Transfer.CreateTransfer(ctx, orgID, dto.CreateTransferRequest{
		FromAccountID: from.AccountID, ToAccountID: to.AccountID,
		Amount: decimal.RequireFromString("10.01"), ExchangeRate: &rate,
	}, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "1513.88", res.Credit.Amount.String())

	balance, err := c.Balance.GetBalance(ctx, orgID, to.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "1513.88", balance.StringFixed(2))
}
