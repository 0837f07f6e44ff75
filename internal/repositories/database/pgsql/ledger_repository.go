package pgsql

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/balance_ledger/internal/models"
	"github.com/SscSPs/balance_ledger/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository reads journal entries of approved transactions.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool dbPool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

// approvedEntries starts every ledger query: entries joined to their transaction,
// restricted to APPROVED.
func approvedEntries(f domain.BalanceFilter) (*whereBuilder, error) {
	where := newWhereBuilder()
	where.Equals("t.status", string(domain.Approved))
	if err := applyBalanceFilter(where, f); err != nil {
		return nil, err
	}
	return where, nil
}

// SumApprovedEntries totals debits and credits per account.
func (r *PgxLedgerRepository) SumApprovedEntries(ctx context.Context, accountIDs []string, filter domain.BalanceFilter) (map[string]domain.EntryTotals, error) {
	where, err := approvedEntries(filter)
	if err != nil {
		return nil, err
	}
	if len(accountIDs) > 0 {
		where.AnyOf("je.account_id", accountIDs)
	}
	query := `
		SELECT je.account_id,
		       COALESCE(SUM(CASE WHEN je.entry_type = 'DEBIT' THEN je.amount ELSE 0 END), 0) AS debits,
		       COALESCE(SUM(CASE WHEN je.entry_type = 'CREDIT' THEN je.amount ELSE 0 END), 0) AS credits
		FROM journal_entries je
		JOIN transactions t ON t.id = je.transaction_id` + where.SQL() + `
		GROUP BY je.account_id;
	`
	rows, err := r.Pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, translateError(err, "sum", "approved entries")
	}
	defer rows.Close()

	totals := make(map[string]domain.EntryTotals)
	for rows.Next() {
		var accountID string
		var debits, credits decimal.Decimal
		if err := rows.Scan(&accountID, &debits, &credits); err != nil {
			return nil, translateError(err, "scan", "entry totals")
		}
		totals[accountID] = domain.EntryTotals{Debits: debits, Credits: credits}
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate", "entry totals")
	}
	return totals, nil
}

// FindApprovedEntries lists approved entries of an account, newest transaction first.
func (r *PgxLedgerRepository) FindApprovedEntries(ctx context.Context, accountID string, filter domain.BalanceFilter) ([]domain.LedgerEntry, error) {
	where, err := approvedEntries(filter)
	if err != nil {
		return nil, err
	}
	where.Equals("je.account_id", accountID)
	query := `
		SELECT je.id, je.transaction_id, je.account_id, je.entry_type, je.amount, je.created_at,
		       t.date, t.description, t.voucher_no, t.division_id
		FROM journal_entries je
		JOIN transactions t ON t.id = je.transaction_id` + where.SQL() + `
		ORDER BY t.date DESC, t.created_at DESC, je.created_at DESC, je.id;
	`
	rows, err := r.Pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, translateError(err, "list", "entries of account "+accountID)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.TransactionID,
			&m.AccountID,
			&m.EntryType,
			&m.Amount,
			&m.CreatedAt,
			&m.TransactionDate,
			&m.Description,
			&m.VoucherNo,
			&m.DivisionID,
		); err != nil {
			return nil, translateError(err, "scan", "ledger entry")
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate", "ledger entries")
	}
	return entries, nil
}
