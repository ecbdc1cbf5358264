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

// PgxCashbookRepository persists cashbooks and their members.
type PgxCashbookRepository struct {
	BaseRepository
}

func newPgxCashbookRepository(pool *pgxpool.Pool) *PgxCashbookRepository {
	return &PgxCashbookRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CashbookRepositoryFacade = (*PgxCashbookRepository)(nil)

const cashbookColumns = `cashbook_id, organization_id, name, description, currency, allow_backdated,
	allow_omitted, lock_date, created_at, created_by, last_updated_at, last_updated_by`

func scanCashbook(row pgx.Row) (*domain.Cashbook, error) {
	var c domain.Cashbook
	err := row.Scan(
		&c.CashbookID, &c.OrganizationID, &c.Name, &c.Description, &c.Currency, &c.AllowBackdated,
		&c.AllowOmitted, &c.LockDate, &c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgxCashbookRepository) SaveCashbook(ctx context.Context, c domain.Cashbook) error {
	_, err := r.conn(ctx).Exec(ctx, `INSERT INTO cashbooks (`+cashbookColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.CashbookID, c.OrganizationID, c.Name, c.Description, c.Currency, c.AllowBackdated,
		c.AllowOmitted, c.LockDate, c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: cashbook %s", apperrors.ErrDuplicate, c.CashbookID)
		}
		return fmt.Errorf("save cashbook %s: %w", c.CashbookID, err)
	}
	return nil
}

func (r *PgxCashbookRepository) FindCashbookByID(ctx context.Context, orgID, cashbookID string) (*domain.Cashbook, error) {
	c, err := scanCashbook(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cashbookColumns+` FROM cashbooks WHERE organization_id = $1 AND cashbook_id = $2`,
		orgID, cashbookID,
	))
	if err != nil {
		return nil, notFoundOr(err, "cashbook %s", cashbookID)
	}
	return c, nil
}

func (r *PgxCashbookRepository) LockCashbookShared(ctx context.Context, orgID, cashbookID string) (*domain.Cashbook, error) {
	c, err := scanCashbook(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cashbookColumns+` FROM cashbooks WHERE organization_id = $1 AND cashbook_id = $2 FOR SHARE`,
		orgID, cashbookID,
	))
	if err != nil {
		return nil, notFoundOr(err, "cashbook %s", cashbookID)
	}
	return c, nil
}

func (r *PgxCashbookRepository) ListCashbooks(ctx context.Context, orgID string) ([]domain.Cashbook, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cashbookColumns+` FROM cashbooks WHERE organization_id = $1 ORDER BY name, cashbook_id`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list cashbooks: %w", err)
	}
	defer rows.Close()

	cashbooks := []domain.Cashbook{}
	for rows.Next() {
		c, err := scanCashbook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cashbook: %w", err)
		}
		cashbooks = append(cashbooks, *c)
	}
	return cashbooks, rows.Err()
}

func (r *PgxCashbookRepository) UpdateCashbook(ctx context.Context, c domain.Cashbook) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE cashbooks SET name = $3, description = $4, allow_backdated = $5, allow_omitted = $6,
			lock_date = $7, last_updated_at = $8, last_updated_by = $9
		WHERE organization_id = $1 AND cashbook_id = $2`,
		c.OrganizationID, c.CashbookID, c.Name, c.Description, c.AllowBackdated, c.AllowOmitted,
		c.LockDate, c.LastUpdatedAt, c.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("update cashbook %s: %w", c.CashbookID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("cashbook " + c.CashbookID)
	}
	return nil
}

// DeleteCashbook relies on ON DELETE CASCADE for members, accounts, entries and requests.
func (r *PgxCashbookRepository) DeleteCashbook(ctx context.Context, orgID, cashbookID string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM cashbooks WHERE organization_id = $1 AND cashbook_id = $2`, orgID, cashbookID)
	if err != nil {
		return fmt.Errorf("delete cashbook %s: %w", cashbookID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("cashbook " + cashbookID)
	}
	return nil
}

func (r *PgxCashbookRepository) UpsertCashbookMember(ctx context.Context, m domain.CashbookMember) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO cashbook_members (cashbook_id, user_id, role, added_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cashbook_id, user_id) DO UPDATE
			SET role = EXCLUDED.role, added_by = EXCLUDED.added_by, updated_at = EXCLUDED.updated_at`,
		m.CashbookID, m.UserID, m.Role, m.AddedBy, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert cashbook member %s: %w", m.UserID, err)
	}
	return nil
}

func (r *PgxCashbookRepository) DeleteCashbookMember(ctx context.Context, cashbookID, userID string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM cashbook_members WHERE cashbook_id = $1 AND user_id = $2`, cashbookID, userID)
	if err != nil {
		return fmt.Errorf("delete cashbook member %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("cashbook member " + userID)
	}
	return nil
}

const memberColumns = `cashbook_id, user_id, role, added_by, created_at, updated_at`

func (r *PgxCashbookRepository) FindCashbookMember(ctx context.Context, cashbookID, userID string) (*domain.CashbookMember, error) {
	var m domain.CashbookMember
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+memberColumns+` FROM cashbook_members WHERE cashbook_id = $1 AND user_id = $2`,
		cashbookID, userID,
	).Scan(&m.CashbookID, &m.UserID, &m.Role, &m.AddedBy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err, "cashbook member %s", userID)
	}
	return &m, nil
}

func (r *PgxCashbookRepository) ListCashbookMembers(ctx context.Context, cashbookID string) ([]domain.CashbookMember, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+memberColumns+` FROM cashbook_members WHERE cashbook_id = $1 ORDER BY created_at, user_id`, cashbookID)
	if err != nil {
		return nil, fmt.Errorf("list cashbook members: %w", err)
	}
	defer rows.Close()

	members := []domain.CashbookMember{}
	for rows.Next() {
		var m domain.CashbookMember
		if err := rows.Scan(&m.CashbookID, &m.UserID, &m.Role, &m.AddedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cashbook member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *PgxCashbookRepository) ListCashbookIDsForMember(ctx context.Context, orgID, userID string) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT m.cashbook_id FROM cashbook_members m
		JOIN cashbooks c ON c.cashbook_id = m.cashbook_id
		WHERE c.organization_id = $1 AND m.user_id = $2`, orgID, userID)
	if err != nil {
		return nil, fmt.Errorf("list member cashbooks: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member cashbook: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
