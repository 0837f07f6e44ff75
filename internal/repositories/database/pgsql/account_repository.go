package pgsql

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/balance_ledger/internal/models"
	"github.com/SscSPs/balance_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, code, name, category, behavior, created_at, updated_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool dbPool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (id, code, name, category, behavior, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query, m.AccountID, m.Code, m.Name, m.Category, m.Behavior, m.CreatedAt, m.UpdatedAt)
	return translateError(err, "save", "account "+m.Code)
}

// FindAccountByID retrieves an account by its id.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1;`
	return r.findOne(ctx, query, accountID, "account "+accountID)
}

// FindAccountByCode retrieves an account by its chart code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	return r.findOne(ctx, query, code, "account with code "+code)
}

func (r *PgxAccountRepository) findOne(ctx context.Context, query, arg, subject string) (*domain.Account, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, translateError(err, "load", subject)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateError(err, "load", subject)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs loads every existing account among accountIDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, translateError(err, "load", "accounts")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateError(err, "scan", "accounts")
	}
	for _, m := range ms {
		result[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return result, nil
}

// ListAccounts lists accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	where := newWhereBuilder()
	if filter.Category != nil {
		where.Equals("category", string(*filter.Category))
	}
	if filter.Behavior != nil {
		where.Equals("behavior", string(*filter.Behavior))
	}
	if filter.LiquidOnly {
		where.NotEquals("behavior", string(domain.NonLiquid))
	}

	query := `SELECT ` + accountColumns + ` FROM accounts` + where.SQL() + ` ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, translateError(err, "list", "accounts")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateError(err, "scan", "accounts")
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// AccountHasEntries reports whether a journal entry of any status references the account.
func (r *PgxAccountRepository) AccountHasEntries(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM journal_entries WHERE account_id = $1);`
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&exists); err != nil {
		return false, translateError(err, "check entries of", "account "+accountID)
	}
	return exists, nil
}

// UpdateAccount rewrites the mutable columns of an account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, category = $3, behavior = $4, updated_at = $5
		WHERE id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, m.AccountID, m.Name, m.Category, m.Behavior, m.UpdatedAt)
	if err != nil {
		return translateError(err, "update", "account "+m.AccountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("account %s", m.AccountID)
	}
	return nil
}

// DeleteAccount removes an account. The journal_entries foreign key restricts deletion
// of referenced accounts, which surfaces as ErrPolicy.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1;`, accountID)
	if err != nil {
		return translateError(err, "delete", "account "+accountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("account %s", accountID)
	}
	return nil
}
