package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxContactRepository persists contacts.
type PgxContactRepository struct {
	BaseRepository
}

func newPgxContactRepository(pool *pgxpool.Pool) *PgxContactRepository {
	return &PgxContactRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ContactRepositoryFacade = (*PgxContactRepository)(nil)

const contactColumns = `contact_id, organization_id, name, contact_type, email, phone, notes,
	created_at, created_by, last_updated_at, last_updated_by`

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(&c.ContactID, &c.OrganizationID, &c.Name, &c.ContactType, &c.Email, &c.Phone, &c.Notes,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgxContactRepository) SaveContact(ctx context.Context, c domain.Contact) error {
	_, err := r.conn(ctx).Exec(ctx, `INSERT INTO contacts (`+contactColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ContactID, c.OrganizationID, c.Name, c.ContactType, c.Email, c.Phone, c.Notes,
		c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("save contact %s: %w", c.ContactID, err)
	}
	return nil
}

func (r *PgxContactRepository) FindContactByID(ctx context.Context, orgID, contactID string) (*domain.Contact, error) {
	c, err := scanContact(r.conn(ctx).QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE organization_id = $1 AND contact_id = $2`, orgID, contactID))
	if err != nil {
		return nil, notFoundOr(err, "contact %s", contactID)
	}
	return c, nil
}

func (r *PgxContactRepository) ListContacts(ctx context.Context, orgID string, search string) ([]domain.Contact, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+contactColumns+` FROM contacts
		WHERE organization_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
		ORDER BY name, contact_id`, orgID, search)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

func (r *PgxContactRepository) UpdateContact(ctx context.Context, c domain.Contact) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE contacts SET name = $3, contact_type = $4, email = $5, phone = $6, notes = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE organization_id = $1 AND contact_id = $2`,
		c.OrganizationID, c.ContactID, c.Name, c.ContactType, c.Email, c.Phone, c.Notes,
		c.LastUpdatedAt, c.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("update contact %s: %w", c.ContactID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("contact " + c.ContactID)
	}
	return nil
}

// DeleteContact relies on ON DELETE SET NULL to detach entries.
func (r *PgxContactRepository) DeleteContact(ctx context.Context, orgID, contactID string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM contacts WHERE organization_id = $1 AND contact_id = $2`, orgID, contactID)
	if err != nil {
		return fmt.Errorf("delete contact %s: %w", contactID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("contact " + contactID)
	}
	return nil
}
