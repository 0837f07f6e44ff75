package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/balance_ledger/internal/models"
	"github.com/SscSPs/balance_ledger/internal/utils/mapping"
	"github.com/SscSPs/balance_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, division_id, date, description, total_amount, status, voucher_no, attachment_url, created_at, updated_at`

const entryColumns = `id, transaction_id, account_id, entry_type, amount, created_at`

const logColumns = `id, transaction_id, actor_id, action, comment, created_at`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transactions, their entries and logs.
func newPgxTransactionRepository(pool dbPool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// --- Reads ---

// FindTransactionByID loads a transaction with entries and logs.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := r.findHeader(ctx, r.Pool, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1;`, transactionID)
	if err != nil {
		return nil, err
	}
	if err := r.attachEntries(ctx, r.Pool, []*domain.Transaction{txn}); err != nil {
		return nil, err
	}
	logs, err := r.FindLogsByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	txn.Logs = logs
	return txn, nil
}

// ListTransactions returns one keyset page ordered by (date, created_at, id) descending.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells us whether another page exists.
	fetchLimit := limit + 1

	where := transactionWhere(filter)
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.Validationf("invalid nextToken: %v", err)
		}
		where.Clause("(date, created_at, id) < (%s, %s, %s)", cursor.Date, cursor.CreatedAt, cursor.ID)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions` + where.SQL() +
		` ORDER BY date DESC, created_at DESC, id DESC LIMIT ` + where.bind(fetchLimit) + `;`
	rows, err := r.Pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, nil, translateError(err, "list", "transactions")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, nil, translateError(err, "scan", "transactions")
	}

	var nextToken *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		nextToken = &token
		ms = ms[:limit]
	}

	txns := make([]domain.Transaction, len(ms))
	ptrs := make([]*domain.Transaction, len(ms))
	for i, m := range ms {
		txns[i] = mapping.ToDomainTransaction(m)
		ptrs[i] = &txns[i]
	}
	if err := r.attachEntries(ctx, r.Pool, ptrs); err != nil {
		return nil, nil, err
	}
	return txns, nextToken, nil
}

// CountTransactionsByStatus counts matching transactions per status.
func (r *PgxTransactionRepository) CountTransactionsByStatus(ctx context.Context, filter domain.TransactionFilter) (map[domain.TransactionStatus]int, error) {
	where := transactionWhere(filter)
	query := `SELECT status, COUNT(*) FROM transactions` + where.SQL() + ` GROUP BY status;`
	rows, err := r.Pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, translateError(err, "count", "transactions")
	}
	defer rows.Close()

	counts := make(map[domain.TransactionStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, translateError(err, "scan", "transaction counts")
		}
		counts[domain.TransactionStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate", "transaction counts")
	}
	return counts, nil
}

// FindLogsByTransactionID returns the audit trail, most recent first.
func (r *PgxTransactionRepository) FindLogsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionLog, error) {
	query := `SELECT ` + logColumns + ` FROM transaction_logs WHERE transaction_id = $1 ORDER BY created_at DESC, id DESC;`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, translateError(err, "list", "logs of transaction "+transactionID)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TransactionLog])
	if err != nil {
		return nil, translateError(err, "scan", "transaction logs")
	}
	return mapping.ToDomainTransactionLogSlice(ms), nil
}

func transactionWhere(filter domain.TransactionFilter) *whereBuilder {
	where := newWhereBuilder()
	if filter.Status != nil {
		where.Equals("status", string(*filter.Status))
	}
	if filter.DivisionID != nil {
		where.Equals("division_id", *filter.DivisionID)
	}
	if filter.DateFrom != nil {
		where.AtLeast("date", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where.AtMost("date", *filter.DateTo)
	}
	return where
}

func (r *PgxTransactionRepository) findHeader(ctx context.Context, q querier, query, transactionID string) (*domain.Transaction, error) {
	rows, err := q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, translateError(err, "load", "transaction "+transactionID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, translateError(err, "load", "transaction "+transactionID)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// attachEntries loads the entries of every transaction in one query.
func (r *PgxTransactionRepository) attachEntries(ctx context.Context, q querier, txns []*domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	ids := make([]string, len(txns))
	byID := make(map[string]*domain.Transaction, len(txns))
	for i, t := range txns {
		ids[i] = t.TransactionID
		byID[t.TransactionID] = t
		t.Entries = make([]domain.JournalEntry, 0)
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE transaction_id = ANY($1) ORDER BY created_at, id;`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return translateError(err, "load", "journal entries")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return translateError(err, "scan", "journal entries")
	}
	for _, m := range ms {
		if t, ok := byID[m.TransactionID]; ok {
			t.Entries = append(t.Entries, mapping.ToDomainJournalEntry(m))
		}
	}
	return nil
}

// --- Writes, always inside a unit of work ---

// SaveTransaction inserts the header and queues one insert per entry in a single batch.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.DivisionID,
		m.Date,
		m.Description,
		m.TotalAmount,
		m.Status,
		m.VoucherNo,
		m.AttachmentURL,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "insert", "transaction "+m.TransactionID)
	}
	return r.insertEntries(ctx, tx, txn.TransactionID, txn.Entries)
}

func (r *PgxTransactionRepository) insertEntries(ctx context.Context, tx pgx.Tx, transactionID string, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `INSERT INTO journal_entries (` + entryColumns + `) VALUES ($1, $2, $3, $4, $5, $6);`
	batch := &pgx.Batch{}
	for _, e := range entries {
		m := mapping.ToModelJournalEntry(e)
		batch.Queue(query, m.EntryID, m.TransactionID, m.AccountID, m.EntryType, m.Amount, m.CreatedAt)
	}
	// Close reports the first failing insert.
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return translateError(err, "insert", "entries of transaction "+transactionID)
	}
	return nil
}

// UpdateTransactionHeader rewrites the editable header columns.
func (r *PgxTransactionRepository) UpdateTransactionHeader(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET date = $2, description = $3, total_amount = $4, division_id = $5, attachment_url = $6, updated_at = $7
		WHERE id = $1;
	`
	tag, err := tx.Exec(ctx, query, m.TransactionID, m.Date, m.Description, m.TotalAmount, m.DivisionID, m.AttachmentURL, m.UpdatedAt)
	if err != nil {
		return translateError(err, "update", "transaction "+m.TransactionID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundf("transaction %s", m.TransactionID)
	}
	return nil
}

// ReplaceEntries deletes every entry of the transaction and inserts entries.
func (r *PgxTransactionRepository) ReplaceEntries(ctx context.Context, tx pgx.Tx, transactionID string, entries []domain.JournalEntry) error {
	if _, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE transaction_id = $1;`, transactionID); err != nil {
		return translateError(err, "delete", "entries of transaction "+transactionID)
	}
	return r.insertEntries(ctx, tx, transactionID, entries)
}

// AppendLog inserts an audit record.
func (r *PgxTransactionRepository) AppendLog(ctx context.Context, tx pgx.Tx, log domain.TransactionLog) error {
	m := mapping.ToModelTransactionLog(log)
	query := `INSERT INTO transaction_logs (` + logColumns + `) VALUES ($1, $2, $3, $4, $5, $6);`
	_, err := tx.Exec(ctx, query, m.LogID, m.TransactionID, m.ActorID, m.Action, m.Comment, m.CreatedAt)
	return translateError(err, "append", "log of transaction "+m.TransactionID)
}

// --- Workflow support ---

// FindTransactionForUpdate locks the transaction row until tx ends.
func (r *PgxTransactionRepository) FindTransactionForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error) {
	txn, err := r.findHeader(ctx, tx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE;`, transactionID)
	if err != nil {
		return nil, err
	}
	if err := r.attachEntries(ctx, tx, []*domain.Transaction{txn}); err != nil {
		return nil, err
	}
	return txn, nil
}

// CompareAndSetStatus updates the status only while the row still holds from.
// voucher_no is written only when voucherNo is non-nil and the column is still empty.
func (r *PgxTransactionRepository) CompareAndSetStatus(ctx context.Context, tx pgx.Tx, transactionID string, from, to domain.TransactionStatus, voucherNo *string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $3, voucher_no = COALESCE(voucher_no, $4), updated_at = $5
		WHERE id = $1 AND status = $2;
	`
	tag, err := tx.Exec(ctx, query, transactionID, string(from), string(to), voucherNo, now)
	if err != nil {
		return translateError(err, "update status of", "transaction "+transactionID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is no longer %s", apperrors.ErrConflict, transactionID, from)
	}
	return nil
}

// LockVoucherSequence takes a transaction-scoped advisory lock on key.
func (r *PgxTransactionRepository) LockVoucherSequence(ctx context.Context, tx pgx.Tx, key string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, key); err != nil {
		return translateError(err, "lock", "voucher sequence "+key)
	}
	return nil
}

// FindLastVoucherNo returns the greatest voucher number with the given prefix, or "".
// Voucher numbers are fixed width so the lexicographic maximum is the numeric one.
func (r *PgxTransactionRepository) FindLastVoucherNo(ctx context.Context, tx pgx.Tx, prefix string) (string, error) {
	var last string
	query := `SELECT COALESCE(MAX(voucher_no), '') FROM transactions WHERE voucher_no LIKE $1;`
	if err := tx.QueryRow(ctx, query, prefix+"%").Scan(&last); err != nil {
		return "", translateError(err, "read", "last voucher for "+prefix)
	}
	return last, nil
}
