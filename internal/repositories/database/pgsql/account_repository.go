package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cashbook_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAccountRepository persists accounts.
type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, organization_id, cashbook_id, name, account_type, currency, description,
	is_archived, archived_at, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID, &a.OrganizationID, &a.CashbookID, &a.Name, &a.AccountType, &a.Currency, &a.Description,
		&a.IsArchived, &a.ArchivedAt, &a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, a domain.Account) error {
	_, err := r.conn(ctx).Exec(ctx, `INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.AccountID, a.OrganizationID, a.CashbookID, a.Name, a.AccountType, a.Currency, a.Description,
		a.IsArchived, a.ArchivedAt, a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, a.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", a.AccountID, err)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, orgID, accountID string) (*domain.Account, error) {
	a, err := scanAccount(r.conn(ctx).QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE organization_id = $1 AND account_id = $2`,
		orgID, accountID,
	))
	if err != nil {
		return nil, notFoundOr(err, "account %s", accountID)
	}
	return a, nil
}

func (r *PgxAccountRepository) LockAccountShared(ctx context.Context, orgID, accountID string) (*domain.Account, error) {
	a, err := scanAccount(r.conn(ctx).QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE organization_id = $1 AND account_id = $2 FOR SHARE`,
		orgID, accountID,
	))
	if err != nil {
		return nil, notFoundOr(err, "account %s", accountID)
	}
	return a, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, orgID string, filter domain.AccountFilter) ([]domain.Account, error) {
	if filter.Scope.Empty() {
		return []domain.Account{}, nil
	}
	conds := []string{"organization_id = $1"}
	args := []any{orgID}
	if filter.CashbookID != nil {
		args = append(args, *filter.CashbookID)
		conds = append(conds, fmt.Sprintf("cashbook_id = $%d", len(args)))
	}
	if !filter.Scope.All {
		args = append(args, filter.Scope.IDs)
		conds = append(conds, fmt.Sprintf("cashbook_id = ANY($%d)", len(args)))
	}
	if !filter.IncludeArchived {
		conds = append(conds, "NOT is_archived")
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE `+strings.Join(conds, " AND ")+` ORDER BY name, account_id`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, a domain.Account) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE accounts SET name = $3, account_type = $4, description = $5, is_archived = $6,
			archived_at = $7, last_updated_at = $8, last_updated_by = $9
		WHERE organization_id = $1 AND account_id = $2`,
		a.OrganizationID, a.AccountID, a.Name, a.AccountType, a.Description, a.IsArchived,
		a.ArchivedAt, a.LastUpdatedAt, a.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("update account %s: %w", a.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + a.AccountID)
	}
	return nil
}
