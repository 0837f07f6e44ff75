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

const divisionColumns = `id, name, code, description, is_active, created_at, updated_at`

// mappingSelect joins each mapping to its account so DisplayName and IsLiquid can be answered.
const mappingSelect = `
	SELECT da.id, da.division_id, da.account_id, da.alias_name, da.is_active, da.created_at, da.updated_at,
	       a.id, a.code, a.name, a.category, a.behavior, a.created_at, a.updated_at
	FROM division_accounts da
	JOIN accounts a ON a.id = da.account_id`

type PgxDivisionRepository struct {
	BaseRepository
}

func newPgxDivisionRepository(pool dbPool) *PgxDivisionRepository {
	return &PgxDivisionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DivisionRepositoryFacade = (*PgxDivisionRepository)(nil)

// --- Divisions ---

func (r *PgxDivisionRepository) SaveDivision(ctx context.Context, division domain.Division) error {
	m := mapping.ToModelDivision(division)
	query := `INSERT INTO divisions (` + divisionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	_, err := r.Pool.Exec(ctx, query, m.DivisionID, m.Name, m.Code, m.Description, m.IsActive, m.CreatedAt, m.UpdatedAt)
	return translateError(err, "save", "division "+m.Code)
}

func (r *PgxDivisionRepository) UpdateDivision(ctx context.Context, division domain.Division) error {
	m := mapping.ToModelDivision(division)
	query := `
		UPDATE divisions
		SET name = $2, code = $3, description = $4, is_active = $5, updated_at = $6
		WHERE id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, m.DivisionID, m.Name, m.Code, m.Description, m.IsActive, m.UpdatedAt)
	if err != nil {
		return translateError(err, "update", "division "+m.DivisionID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("division %s", m.DivisionID)
	}
	return nil
}

func (r *PgxDivisionRepository) FindDivisionByID(ctx context.Context, divisionID string) (*domain.Division, error) {
	return r.findDivision(ctx, `SELECT `+divisionColumns+` FROM divisions WHERE id = $1;`, divisionID, "division "+divisionID)
}

func (r *PgxDivisionRepository) FindDivisionByCode(ctx context.Context, code string) (*domain.Division, error) {
	return r.findDivision(ctx, `SELECT `+divisionColumns+` FROM divisions WHERE code = $1;`, code, "division with code "+code)
}

func (r *PgxDivisionRepository) findDivision(ctx context.Context, query, arg, subject string) (*domain.Division, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, translateError(err, "load", subject)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Division])
	if err != nil {
		return nil, translateError(err, "load", subject)
	}
	division := mapping.ToDomainDivision(m)
	return &division, nil
}

// ListDivisions lists divisions ordered by name.
func (r *PgxDivisionRepository) ListDivisions(ctx context.Context, activeOnly bool) ([]domain.Division, error) {
	where := newWhereBuilder()
	if activeOnly {
		where.Equals("is_active", true)
	}
	query := `SELECT ` + divisionColumns + ` FROM divisions` + where.SQL() + ` ORDER BY name;`
	rows, err := r.Pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, translateError(err, "list", "divisions")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Division])
	if err != nil {
		return nil, translateError(err, "scan", "divisions")
	}
	return mapping.ToDomainDivisionSlice(ms), nil
}

// --- Division accounts ---

func scanMapping(row pgx.CollectableRow) (domain.DivisionAccount, error) {
	var m models.DivisionAccount
	var a models.Account
	err := row.Scan(
		&m.MappingID, &m.DivisionID, &m.AccountID, &m.AliasName, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
		&a.AccountID, &a.Code, &a.Name, &a.Category, &a.Behavior, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.DivisionAccount{}, err
	}
	return mapping.ToDomainDivisionAccount(m, &a), nil
}

func (r *PgxDivisionRepository) FindMapping(ctx context.Context, divisionID, accountID string) (*domain.DivisionAccount, error) {
	return r.findMapping(ctx, r.Pool, divisionID, accountID)
}

func (r *PgxDivisionRepository) findMapping(ctx context.Context, q querier, divisionID, accountID string) (*domain.DivisionAccount, error) {
	subject := "mapping of account " + accountID + " in division " + divisionID
	rows, err := q.Query(ctx, mappingSelect+` WHERE da.division_id = $1 AND da.account_id = $2;`, divisionID, accountID)
	if err != nil {
		return nil, translateError(err, "load", subject)
	}
	m, err := pgx.CollectExactlyOneRow(rows, scanMapping)
	if err != nil {
		return nil, translateError(err, "load", subject)
	}
	return &m, nil
}

// ListMappings lists a division's mappings ordered by account code.
func (r *PgxDivisionRepository) ListMappings(ctx context.Context, divisionID string, activeOnly bool) ([]domain.DivisionAccount, error) {
	where := newWhereBuilder()
	where.Equals("da.division_id", divisionID)
	if activeOnly {
		where.Equals("da.is_active", true)
	}
	rows, err := r.Pool.Query(ctx, mappingSelect+where.SQL()+` ORDER BY a.code;`, where.Args()...)
	if err != nil {
		return nil, translateError(err, "list", "mappings of division "+divisionID)
	}
	mappings, err := pgx.CollectRows(rows, scanMapping)
	if err != nil {
		return nil, translateError(err, "scan", "mappings of division "+divisionID)
	}
	return mappings, nil
}

const upsertMappingQuery = `
	INSERT INTO division_accounts (id, division_id, account_id, alias_name, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (division_id, account_id)
	DO UPDATE SET alias_name = EXCLUDED.alias_name, is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at;
`

func (r *PgxDivisionRepository) upsert(ctx context.Context, q querier, da domain.DivisionAccount) (*domain.DivisionAccount, error) {
	m := mapping.ToModelDivisionAccount(da)
	_, err := q.Exec(ctx, upsertMappingQuery, m.MappingID, m.DivisionID, m.AccountID, m.AliasName, m.IsActive, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "map", "account "+m.AccountID+" into division "+m.DivisionID)
	}
	return r.findMapping(ctx, q, m.DivisionID, m.AccountID)
}

// UpsertMapping inserts the mapping or refreshes alias and active flag of the existing one.
func (r *PgxDivisionRepository) UpsertMapping(ctx context.Context, da domain.DivisionAccount) (*domain.DivisionAccount, error) {
	return r.upsert(ctx, r.Pool, da)
}

// UpsertMappings applies every upsert in one database transaction.
func (r *PgxDivisionRepository) UpsertMappings(ctx context.Context, mappings []domain.DivisionAccount) ([]domain.DivisionAccount, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	saved := make([]domain.DivisionAccount, 0, len(mappings))
	for _, da := range mappings {
		m, err := r.upsert(ctx, tx, da)
		if err != nil {
			return nil, err
		}
		saved = append(saved, *m)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *PgxDivisionRepository) UpdateMapping(ctx context.Context, da domain.DivisionAccount) error {
	m := mapping.ToModelDivisionAccount(da)
	query := `
		UPDATE division_accounts
		SET alias_name = $3, is_active = $4, updated_at = $5
		WHERE division_id = $1 AND account_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, m.DivisionID, m.AccountID, m.AliasName, m.IsActive, m.UpdatedAt)
	if err != nil {
		return translateError(err, "update", "mapping of account "+m.AccountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("account %s is not mapped to division %s", m.AccountID, m.DivisionID)
	}
	return nil
}

func (r *PgxDivisionRepository) DeleteMapping(ctx context.Context, divisionID, accountID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM division_accounts WHERE division_id = $1 AND account_id = $2;`, divisionID, accountID)
	if err != nil {
		return translateError(err, "delete", "mapping of account "+accountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("account %s is not mapped to division %s", accountID, divisionID)
	}
	return nil
}
