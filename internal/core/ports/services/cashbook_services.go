package services

import (
	"context"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
)

// CashbookReaderSvc defines read operations for cashbooks.
type CashbookReaderSvc interface {
	// ListCashbooks returns every cashbook for owners and admins, and the
	// cashbooks the user is a member of otherwise.
	ListCashbooks(ctx context.Context, orgID string, userID string) ([]domain.Cashbook, error)
	GetCashbook(ctx context.Context, orgID string, cashbookID string, userID string) (*domain.Cashbook, error)
	ListCashbookMembers(ctx context.Context, orgID string, cashbookID string, userID string) ([]domain.CashbookMember, error)
}

// CashbookWriterSvc defines write operations for cashbooks.
type CashbookWriterSvc interface {
	CreateCashbook(ctx context.Context, orgID string, req dto.CreateCashbookRequest, userID string) (*domain.Cashbook, error)
	UpdateCashbook(ctx context.Context, orgID string, cashbookID string, req dto.UpdateCashbookRequest, userID string) (*domain.Cashbook, error)
	DeleteCashbook(ctx context.Context, orgID string, cashbookID string, userID string) error
	AddCashbookMember(ctx context.Context, orgID string, cashbookID string, req dto.AddCashbookMemberRequest, userID string) (*domain.CashbookMember, error)
	RemoveCashbookMember(ctx context.Context, orgID string, cashbookID string, memberUserID string, userID string) error
}

// CashbookSvcFacade combines all cashbook-related service interfaces.
type CashbookSvcFacade interface {
	CashbookReaderSvc
	CashbookWriterSvc
}
