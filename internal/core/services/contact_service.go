package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/google/uuid"
)

type contactService struct {
	BaseService
	tx          portsrepo.TransactionManager
	contactRepo portsrepo.ContactRepositoryFacade
	audit       portssvc.AuditSvc
}

// NewContactService creates a new ContactService.
func NewContactService(repos portsrepo.RepositoryProvider, audit portssvc.AuditSvc) portssvc.ContactSvcFacade {
	return &contactService{
		BaseService: newBaseService(repos.OrganizationRepo, repos.CashbookRepo),
		tx:          repos.TxManager,
		contactRepo: repos.ContactRepo,
		audit:       audit,
	}
}

var _ portssvc.ContactSvcFacade = (*contactService)(nil)

func (s *contactService) CreateContact(ctx context.Context, orgID string, req dto.CreateContactRequest, userID string) (*domain.Contact, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.orgRole(ctx, orgID, userID); err != nil {
		return nil, err
	}
	now := s.now()
	contact := domain.Contact{
		ContactID:      uuid.NewString(),
		OrganizationID: orgID,
		Name:           strings.TrimSpace(req.Name),
		ContactType:    req.ContactType,
		Email:          req.Email,
		Phone:          req.Phone,
		Notes:          req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.contactRepo.SaveContact(ctx, contact); err != nil {
			return err
		}
		return s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntityType:     domain.AuditEntityContact,
			EntityID:       contact.ContactID,
			Action:         domain.AuditActionCreate,
			NewData:        contact,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return &contact, nil
}

func (s *contactService) GetContact(ctx context.Context, orgID, contactID, userID string) (*domain.Contact, error) {
	if _, err := s.orgRole(ctx, orgID, userID); err != nil {
		return nil, err
	}
	contact, err := s.contactRepo.FindContactByID(ctx, orgID, contactID)
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return contact, nil
}

func (s *contactService) ListContacts(ctx context.Context, orgID, search, userID string) ([]domain.Contact, error) {
	if _, err := s.orgRole(ctx, orgID, userID); err != nil {
		return nil, err
	}
	contacts, err := s.contactRepo.ListContacts(ctx, orgID, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s *contactService) UpdateContact(ctx context.Context, orgID, contactID string, req dto.UpdateContactRequest, userID string) (*domain.Contact, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.orgRole(ctx, orgID, userID); err != nil {
		return nil, err
	}
	var updated domain.Contact
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		contact, err := s.contactRepo.FindContactByID(ctx, orgID, contactID)
		if err != nil {
			return err
		}
		before := *contact
		if req.Name != nil {
			contact.Name = strings.TrimSpace(*req.Name)
		}
		if req.ContactType != nil {
			contact.ContactType = *req.ContactType
		}
		if req.Email != nil {
			contact.Email = *req.Email
		}
		if req.Phone != nil {
			contact.Phone = *req.Phone
		}
		if req.Notes != nil {
			contact.Notes = *req.Notes
		}
		contact.LastUpdatedAt = s.now()
		contact.LastUpdatedBy = userID
		if err := s.contactRepo.UpdateContact(ctx, *contact); err != nil {
			return err
		}
		if err := s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntityType:     domain.AuditEntityContact,
			EntityID:       contact.ContactID,
			Action:         domain.AuditActionUpdate,
			PreviousData:   before,
			NewData:        contact,
		}); err != nil {
			return err
		}
		updated = *contact
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return &updated, nil
}

// DeleteContact removes the contact; entries that referenced it keep their amounts and lose the link.
func (s *contactService) DeleteContact(ctx context.Context, orgID, contactID, userID string) error {
	if _, err := s.RequireOrgAdmin(ctx, orgID, userID); err != nil {
		return err
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		contact, err := s.contactRepo.FindContactByID(ctx, orgID, contactID)
		if err != nil {
			return err
		}
		if err := s.contactRepo.DeleteContact(ctx, orgID, contactID); err != nil {
			return err
		}
		return s.audit.Record(ctx, portssvc.AuditRecord{
			OrganizationID: orgID,
			UserID:         userID,
			EntityType:     domain.AuditEntityContact,
			EntityID:       contactID,
			Action:         domain.AuditActionDelete,
			PreviousData:   contact,
		})
	})
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
