package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/core/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/SscSPs/cashbook_ledger/internal/handlers"
	"github.com/SscSPs/cashbook_ledger/internal/middleware"
	"github.com/SscSPs/cashbook_ledger/internal/platform/cache"
	"github.com/SscSPs/cashbook_ledger/internal/platform/config"
	"github.com/SscSPs/cashbook_ledger/internal/platform/metrics"
	"github.com/SscSPs/cashbook_ledger/internal/platform/storage"
	"github.com/SscSPs/cashbook_ledger/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	orgID       = "org-1"
	ownerID     = "u-owner"
	viewerID    = "u-viewer"
	workerToken = "worker-secret"
)

// --- Mock ReportQueue ---
type MockReportQueue struct {
	mock.Mock
}

func (m *MockReportQueue) EnqueueReportJob(ctx context.Context, job domain.ReportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// HandlerTestSuite drives the full router over an in-memory store.
type HandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	store     *memory.Store
	queue     *MockReportQueue
	jwtSecret string
	cfg       *config.Config
	container *portssvc.ServiceContainer
}

// generateTestToken creates a dummy JWT for testing.
func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ledger-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.store = memory.NewStore()
	suite.queue = new(MockReportQueue)
	suite.queue.On("EnqueueReportJob", mock.Anything, mock.Anything).Return(nil).Maybe()

	cfg := &config.Config{
		JWTSecret:           suite.jwtSecret,
		BalanceCacheTTL:     time.Minute,
		DownloadURLTTL:      15 * time.Minute,
		ReportCallbackToken: workerToken,
	}
	container := services.NewServiceContainer(cfg, suite.store.Provider(), services.Capabilities{
		Cache:  cache.NewLRUCache(64, time.Hour),
		Queue:  suite.queue,
		Signer: storage.NewURLSigner("https://files.example.test", "download-secret"),
	})

	ctx := context.Background()
	for userID, role := range map[string]domain.OrgRole{
		ownerID:  domain.OrgRoleOwner,
		viewerID: domain.OrgRoleMember,
	} {
		suite.Require().NoError(suite.store.UpsertOrgMember(ctx, domain.OrganizationMember{
			OrganizationID: orgID, UserID: userID, Role: role, JoinedAt: time.Now(),
		}))
	}

	suite.cfg = cfg
	suite.container = container
	suite.router = gin.New()
	suite.router.Use(metrics.GinMiddleware())
	handlers.RegisterRoutes(suite.router, cfg, container)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

// --- helpers ---

func (suite *HandlerTestSuite) do(method, path, userID string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func orgPath(format string, args ...any) string {
	return "/api/v1/orgs/" + orgID + fmt.Sprintf(format, args...)
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

// setupAccount creates a cashbook with one account and grants the viewer read access.
func (suite *HandlerTestSuite) setupAccount() (dto.CashbookResponse, domain.Account) {
	w := suite.do(http.MethodPost, orgPath("/cashbooks"), ownerID, dto.CreateCashbookRequest{
		Name: "Main", Currency: "USD",
	}, nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var cashbook dto.CashbookResponse
	suite.decode(w, &cashbook)

	w = suite.do(http.MethodPost, orgPath("/cashbooks/%s/members", cashbook.CashbookID), ownerID, dto.AddCashbookMemberRequest{
		UserID: viewerID, Role: domain.CashbookRoleViewer,
	}, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, orgPath("/accounts"), ownerID, dto.CreateAccountRequest{
		CashbookID: cashbook.CashbookID, Name: "Cash", AccountType: domain.AccountTypeCash,
	}, nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var account domain.Account
	suite.decode(w, &account)
	suite.Equal("USD", account.Currency)

	return cashbook, account
}

func entryBody(accountID, amount string) map[string]any {
	return map[string]any{
		"accountID":       accountID,
		"type":            "INFLOW",
		"amount":          amount,
		"description":     "Opening float",
		"transactionDate": time.Now().UTC().Format(time.RFC3339),
	}
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestHealthAndMetrics() {
	w := suite.do(http.MethodGet, "/health", "", nil, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/metrics", "", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `ledger_http_requests_total{endpoint="/health",method="GET",status="200"}`)
}

func (suite *HandlerTestSuite) TestRateLimitIsPerUser() {
	limiter, err := middleware.NewRateLimiter("2-M")
	suite.Require().NoError(err)
	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, suite.cfg, suite.container, middleware.RateLimit(limiter))

	for i := 0; i < 2; i++ {
		w := suite.do(http.MethodGet, orgPath("/cashbooks"), ownerID, nil, nil)
		suite.Equal(http.StatusOK, w.Code)
		suite.Equal("2", w.Header().Get("X-RateLimit-Limit"))
	}
	w := suite.do(http.MethodGet, orgPath("/cashbooks"), ownerID, nil, nil)
	suite.Equal(http.StatusTooManyRequests, w.Code)

	// Same client IP, different user: its own budget.
	w = suite.do(http.MethodGet, orgPath("/cashbooks"), viewerID, nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("1", w.Header().Get("X-RateLimit-Remaining"))

	// Rejected before the limiter, so no budget is spent.
	w = suite.do(http.MethodGet, orgPath("/cashbooks"), "", nil, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Empty(w.Header().Get("X-RateLimit-Limit"))
}

func (suite *HandlerTestSuite) TestRequiresBearerToken() {
	w := suite.do(http.MethodGet, orgPath("/cashbooks"), "", nil, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestCreateEntry_IdempotencyKeyAndBalance() {
	_, account := suite.setupAccount()
	headers := map[string]string{handlers.IdempotencyKeyHeader: "client-key-1"}

	first := suite.do(http.MethodPost, orgPath("/entries"), ownerID, entryBody(account.AccountID, "100.00"), headers)
	suite.Require().Equal(http.StatusCreated, first.Code, first.Body.String())
	second := suite.do(http.MethodPost, orgPath("/entries"), ownerID, entryBody(account.AccountID, "100.00"), headers)
	suite.Require().Equal(http.StatusCreated, second.Code, second.Body.String())

	var a, b domain.LedgerEntry
	suite.decode(first, &a)
	suite.decode(second, &b)
	suite.Equal(a.EntryID, b.EntryID)
	suite.Equal("R-000001", a.VoucherNumber)

	w := suite.do(http.MethodGet, orgPath("/accounts/%s/balance", account.AccountID), viewerID, nil, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var balance dto.AccountBalanceResponse
	suite.decode(w, &balance)
	suite.True(decimal.NewFromInt(100).Equal(balance.Balance), balance.Balance.String())
	suite.Equal("USD", balance.Currency)

	w = suite.do(http.MethodGet, orgPath("/entries?accountId=%s", account.AccountID), viewerID, nil, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var page domain.EntryPage
	suite.decode(w, &page)
	suite.Equal(1, page.Total)
	suite.Require().NotNil(page.LedgerContext)
	suite.True(decimal.NewFromInt(100).Equal(page.LedgerContext.CurrentBalance))
}

func (suite *HandlerTestSuite) TestCreateEntry_Errors() {
	_, account := suite.setupAccount()

	tests := []struct {
		name   string
		userID string
		body   map[string]any
		want   int
	}{
		{"viewer cannot write", viewerID, entryBody(account.AccountID, "10"), http.StatusForbidden},
		{"zero amount", ownerID, entryBody(account.AccountID, "0"), http.StatusBadRequest},
		{"more than four decimal places", ownerID, entryBody(account.AccountID, "10.12345"), http.StatusBadRequest},
		{"unknown account", ownerID, entryBody("missing", "10"), http.StatusNotFound},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, orgPath("/entries"), tt.userID, tt.body, nil)
			suite.Equal(tt.want, w.Code, w.Body.String())
			suite.Contains(w.Body.String(), "error")
		})
	}
}

func (suite *HandlerTestSuite) TestDeleteWorkflow() {
	_, account := suite.setupAccount()
	w := suite.do(http.MethodPost, orgPath("/entries"), ownerID, entryBody(account.AccountID, "25"), nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var entry domain.LedgerEntry
	suite.decode(w, &entry)

	w = suite.do(http.MethodPost, orgPath("/entries/%s/delete-request", entry.EntryID), ownerID,
		dto.RequestDeleteRequest{Reason: "duplicate"}, nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var request domain.DeleteRequest
	suite.decode(w, &request)

	w = suite.do(http.MethodPost, orgPath("/entries/%s/delete-request", entry.EntryID), ownerID,
		dto.RequestDeleteRequest{Reason: "again"}, nil)
	suite.Equal(http.StatusConflict, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, orgPath("/delete-requests/%s/approve", request.RequestID), ownerID, nil, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, orgPath("/entries/%s", entry.EntryID), ownerID, nil, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &entry)
	suite.Equal(domain.EntryStatusDeleted, entry.Status)
}

func (suite *HandlerTestSuite) TestAuditLogsAdminOnly() {
	suite.setupAccount()

	w := suite.do(http.MethodGet, orgPath("/audit-logs?limit=2"), viewerID, nil, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodGet, orgPath("/audit-logs?limit=2"), ownerID, nil, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListAuditLogsResponse
	suite.decode(w, &resp)
	suite.Len(resp.Data, 2)
	suite.NotNil(resp.NextToken)
}

func (suite *HandlerTestSuite) TestReportCallbackAndDownload() {
	w := suite.do(http.MethodPost, orgPath("/reports"), ownerID, dto.CreateReportRequest{
		Type: domain.ReportTypeLedger, Format: domain.ReportFormatCSV,
	}, nil)
	suite.Require().Equal(http.StatusAccepted, w.Code, w.Body.String())
	var report domain.Report
	suite.decode(w, &report)
	suite.queue.AssertCalled(suite.T(), "EnqueueReportJob", mock.Anything, mock.Anything)

	callback := fmt.Sprintf("/internal/orgs/%s/reports/%s/status", orgID, report.ReportID)
	processing := dto.UpdateReportStatusRequest{Status: domain.ReportStatusProcessing}

	w = suite.do(http.MethodPost, callback, "", processing, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	w = suite.do(http.MethodPost, callback, "", processing, map[string]string{middleware.WorkerTokenHeader: "wrong"})
	suite.Equal(http.StatusUnauthorized, w.Code)

	worker := map[string]string{middleware.WorkerTokenHeader: workerToken}
	w = suite.do(http.MethodPost, callback, "", processing, worker)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, orgPath("/reports/%s/download", report.ReportID), ownerID, nil, nil)
	suite.Equal(http.StatusBadRequest, w.Code, "download before completion")

	fileKey := "reports/ledger.csv"
	w = suite.do(http.MethodPost, callback, "", dto.UpdateReportStatusRequest{
		Status: domain.ReportStatusCompleted, FileKey: &fileKey,
	}, worker)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, orgPath("/reports/%s/download", report.ReportID), ownerID, nil, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var download domain.ReportDownload
	suite.decode(w, &download)
	suite.True(strings.HasPrefix(download.URL, "https://files.example.test/"), download.URL)
	suite.True(download.ExpiresAt.After(time.Now()))
}
