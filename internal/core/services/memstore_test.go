package services_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// memStore is an in-memory implementation of every repository port. WithTx holds a
// store-wide lock for the whole unit of work and restores a snapshot when fn fails,
// which gives serializable semantics for the concurrency tests.
type memStore struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	accounts  map[string]domain.Account
	txns      map[string]domain.Transaction
	logs      map[string][]domain.TransactionLog
	divisions map[string]domain.Division
	mappings  map[string]domain.DivisionAccount // key divisionID|accountID

	failures map[string]error // write method name -> injected error
}

func newMemStore() *memStore {
	return &memStore{
		accounts:  map[string]domain.Account{},
		txns:      map[string]domain.Transaction{},
		logs:      map[string][]domain.TransactionLog{},
		divisions: map[string]domain.Division{},
		mappings:  map[string]domain.DivisionAccount{},
		failures:  map[string]error{},
	}
}

// failOn makes every later call of the named write method return err.
func (s *memStore) failOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = err
}

// failure must be called with mu held.
func (s *memStore) failure(method string) error {
	return s.failures[method]
}

var (
	_ portsrepo.AccountRepositoryFacade     = (*memStore)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*memStore)(nil)
	_ portsrepo.LedgerReader                = (*memStore)(nil)
	_ portsrepo.DivisionRepositoryFacade    = (*memStore)(nil)
	_ portsrepo.TransactionManager          = (*memStore)(nil)
)

func (s *memStore) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     s,
		TransactionRepo: s,
		LedgerRepo:      s,
		DivisionRepo:    s,
		TxManager:       s,
	}
}

type memSnapshot struct {
	txns     map[string]domain.Transaction
	logs     map[string][]domain.TransactionLog
	mappings map[string]domain.DivisionAccount
}

func (s *memStore) WithTx(ctx context.Context, fn portsrepo.TxFunc) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snap := memSnapshot{
		txns:     make(map[string]domain.Transaction, len(s.txns)),
		logs:     make(map[string][]domain.TransactionLog, len(s.logs)),
		mappings: make(map[string]domain.DivisionAccount, len(s.mappings)),
	}
	for k, v := range s.txns {
		snap.txns[k] = copyTxn(v)
	}
	for k, v := range s.logs {
		snap.logs[k] = append([]domain.TransactionLog(nil), v...)
	}
	for k, v := range s.mappings {
		snap.mappings[k] = v
	}
	s.mu.RUnlock()

	if err := fn(ctx, nil); err != nil {
		s.mu.Lock()
		s.txns, s.logs, s.mappings = snap.txns, snap.logs, snap.mappings
		s.mu.Unlock()
		return err
	}
	return nil
}

func copyTxn(t domain.Transaction) domain.Transaction {
	t.Entries = append([]domain.JournalEntry(nil), t.Entries...)
	t.Logs = nil
	return t
}

// --- accounts ---

func (s *memStore) addAccount(a domain.Account) domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.AccountID] = a
	return a
}

func (s *memStore) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (s *memStore) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Code == code {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := s.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (s *memStore) ListAccounts(_ context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if filter.Category != nil && a.Category != *filter.Category {
			continue
		}
		if filter.Behavior != nil && a.Behavior != *filter.Behavior {
			continue
		}
		if filter.LiquidOnly && !a.IsLiquid() {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *memStore) AccountHasEntries(_ context.Context, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.txns {
		for _, e := range t.Entries {
			if e.AccountID == accountID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *memStore) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Code == account.Code {
			return apperrors.ErrDuplicate
		}
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *memStore) UpdateAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.AccountID]; !ok {
		return apperrors.ErrNotFound
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *memStore) DeleteAccount(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, accountID)
	return nil
}

// --- transactions ---

func (s *memStore) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.txns[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	t = copyTxn(t)
	t.Logs = s.logsNewestFirst(transactionID)
	return &t, nil
}

func (s *memStore) logsNewestFirst(transactionID string) []domain.TransactionLog {
	logs := s.logs[transactionID]
	out := make([]domain.TransactionLog, len(logs))
	for i, l := range logs {
		out[len(logs)-1-i] = l
	}
	return out
}

func (s *memStore) ListTransactions(_ context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, 0)
	for _, t := range s.txns {
		if matchesTxnFilter(t, filter) {
			out = append(out, copyTxn(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].TransactionID > out[j].TransactionID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil, nil
}

func matchesTxnFilter(t domain.Transaction, filter domain.TransactionFilter) bool {
	if filter.Status != nil && t.Status != *filter.Status {
		return false
	}
	if filter.DivisionID != nil && (t.DivisionID == nil || *t.DivisionID != *filter.DivisionID) {
		return false
	}
	if filter.DateFrom != nil && t.Date.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && t.Date.After(*filter.DateTo) {
		return false
	}
	return true
}

func (s *memStore) CountTransactionsByStatus(_ context.Context, filter domain.TransactionFilter) (map[domain.TransactionStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[domain.TransactionStatus]int{}
	for _, t := range s.txns {
		if matchesTxnFilter(t, filter) {
			counts[t.Status]++
		}
	}
	return counts, nil
}

func (s *memStore) FindLogsByTransactionID(_ context.Context, transactionID string) ([]domain.TransactionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logsNewestFirst(transactionID), nil
}

func (s *memStore) SaveTransaction(_ context.Context, _ pgx.Tx, txn domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("SaveTransaction"); err != nil {
		return err
	}
	if _, ok := s.txns[txn.TransactionID]; ok {
		return apperrors.ErrDuplicate
	}
	s.txns[txn.TransactionID] = copyTxn(txn)
	return nil
}

func (s *memStore) UpdateTransactionHeader(_ context.Context, _ pgx.Tx, txn domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.txns[txn.TransactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	cur.Date, cur.Description, cur.TotalAmount = txn.Date, txn.Description, txn.TotalAmount
	cur.DivisionID, cur.AttachmentURL, cur.UpdatedAt = txn.DivisionID, txn.AttachmentURL, txn.UpdatedAt
	s.txns[txn.TransactionID] = cur
	return nil
}

func (s *memStore) ReplaceEntries(_ context.Context, _ pgx.Tx, transactionID string, entries []domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("ReplaceEntries"); err != nil {
		return err
	}
	cur, ok := s.txns[transactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	cur.Entries = append([]domain.JournalEntry(nil), entries...)
	s.txns[transactionID] = cur
	return nil
}

func (s *memStore) AppendLog(_ context.Context, _ pgx.Tx, log domain.TransactionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("AppendLog"); err != nil {
		return err
	}
	s.logs[log.TransactionID] = append(s.logs[log.TransactionID], log)
	return nil
}

func (s *memStore) FindTransactionForUpdate(_ context.Context, _ pgx.Tx, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.txns[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	t = copyTxn(t)
	return &t, nil
}

func (s *memStore) CompareAndSetStatus(_ context.Context, _ pgx.Tx, transactionID string, from, to domain.TransactionStatus, voucherNo *string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CompareAndSetStatus"); err != nil {
		return err
	}
	cur, ok := s.txns[transactionID]
	if !ok || cur.Status != from {
		return apperrors.ErrConflict
	}
	if voucherNo != nil {
		for id, t := range s.txns {
			if id != transactionID && t.VoucherNo != nil && *t.VoucherNo == *voucherNo {
				return apperrors.ErrDuplicate
			}
		}
		v := *voucherNo
		cur.VoucherNo = &v
	}
	cur.Status = to
	cur.UpdatedAt = now
	s.txns[transactionID] = cur
	return nil
}

func (s *memStore) LockVoucherSequence(context.Context, pgx.Tx, string) error {
	return nil
}

func (s *memStore) FindLastVoucherNo(_ context.Context, _ pgx.Tx, prefix string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	last := ""
	for _, t := range s.txns {
		if t.VoucherNo != nil && strings.HasPrefix(*t.VoucherNo, prefix) && *t.VoucherNo > last {
			last = *t.VoucherNo
		}
	}
	return last, nil
}

// --- ledger ---

func (s *memStore) approvedMatching(filter domain.BalanceFilter) []domain.Transaction {
	out := make([]domain.Transaction, 0)
	for _, t := range s.txns {
		if t.Status != domain.Approved {
			continue
		}
		if filter.DateFrom != nil && t.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && t.Date.After(*filter.DateTo) {
			continue
		}
		if !matchesEquals(t, filter.Equals) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesEquals(t domain.Transaction, equals map[string]string) bool {
	for k, v := range equals {
		var got *string
		switch k {
		case domain.FilterDivisionID:
			got = t.DivisionID
		case domain.FilterVoucherNo:
			got = t.VoucherNo
		case domain.FilterTransactionID:
			id := t.TransactionID
			got = &id
		}
		if got == nil || *got != v {
			return false
		}
	}
	return true
}

func (s *memStore) SumApprovedEntries(_ context.Context, accountIDs []string, filter domain.BalanceFilter) (map[string]domain.EntryTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		want[id] = true
	}
	out := map[string]domain.EntryTotals{}
	for _, t := range s.approvedMatching(filter) {
		for _, e := range t.Entries {
			if len(want) > 0 && !want[e.AccountID] {
				continue
			}
			tot := out[e.AccountID]
			if e.EntryType == domain.Debit {
				tot.Debits = tot.Debits.Add(e.Amount)
			} else {
				tot.Credits = tot.Credits.Add(e.Amount)
			}
			out[e.AccountID] = tot
		}
	}
	return out, nil
}

func (s *memStore) FindApprovedEntries(_ context.Context, accountID string, filter domain.BalanceFilter) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LedgerEntry, 0)
	for _, t := range s.approvedMatching(filter) {
		for _, e := range t.Entries {
			if e.AccountID != accountID {
				continue
			}
			out = append(out, domain.LedgerEntry{
				JournalEntry:    e,
				TransactionDate: t.Date,
				Description:     t.Description,
				VoucherNo:       t.VoucherNo,
				DivisionID:      t.DivisionID,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionDate.After(out[j].TransactionDate) })
	return out, nil
}

// --- divisions ---

func mappingKey(divisionID, accountID string) string {
	return divisionID + "|" + accountID
}

func (s *memStore) FindDivisionByID(_ context.Context, divisionID string) (*domain.Division, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.divisions[divisionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &d, nil
}

func (s *memStore) FindDivisionByCode(_ context.Context, code string) (*domain.Division, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.divisions {
		if d.Code == code {
			return &d, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) ListDivisions(_ context.Context, activeOnly bool) ([]domain.Division, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Division, 0, len(s.divisions))
	for _, d := range s.divisions {
		if activeOnly && !d.IsActive {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *memStore) SaveDivision(_ context.Context, division domain.Division) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.divisions {
		if d.Code == division.Code {
			return apperrors.ErrDuplicate
		}
	}
	s.divisions[division.DivisionID] = division
	return nil
}

func (s *memStore) UpdateDivision(_ context.Context, division domain.Division) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.divisions[division.DivisionID]; !ok {
		return apperrors.ErrNotFound
	}
	s.divisions[division.DivisionID] = division
	return nil
}

func (s *memStore) withAccount(m domain.DivisionAccount) domain.DivisionAccount {
	if a, ok := s.accounts[m.AccountID]; ok {
		m.Account = &a
	}
	return m
}

func (s *memStore) FindMapping(_ context.Context, divisionID, accountID string) (*domain.DivisionAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mappings[mappingKey(divisionID, accountID)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	m = s.withAccount(m)
	return &m, nil
}

func (s *memStore) ListMappings(_ context.Context, divisionID string, activeOnly bool) ([]domain.DivisionAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DivisionAccount, 0)
	for _, m := range s.mappings {
		if m.DivisionID != divisionID || (activeOnly && !m.IsActive) {
			continue
		}
		out = append(out, s.withAccount(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

func (s *memStore) upsertLocked(mapping domain.DivisionAccount) domain.DivisionAccount {
	key := mappingKey(mapping.DivisionID, mapping.AccountID)
	if cur, ok := s.mappings[key]; ok {
		cur.AliasName, cur.IsActive, cur.UpdatedAt = mapping.AliasName, mapping.IsActive, mapping.UpdatedAt
		mapping = cur
	}
	mapping.Account = nil
	s.mappings[key] = mapping
	return mapping
}

func (s *memStore) UpsertMapping(_ context.Context, mapping domain.DivisionAccount) (*domain.DivisionAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.upsertLocked(mapping)
	return &m, nil
}

func (s *memStore) UpsertMappings(_ context.Context, mappings []domain.DivisionAccount) ([]domain.DivisionAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.DivisionAccount, len(mappings))
	for i, m := range mappings {
		out[i] = s.upsertLocked(m)
	}
	return out, nil
}

func (s *memStore) UpdateMapping(_ context.Context, mapping domain.DivisionAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := mappingKey(mapping.DivisionID, mapping.AccountID)
	if _, ok := s.mappings[key]; !ok {
		return apperrors.ErrNotFound
	}
	mapping.Account = nil
	s.mappings[key] = mapping
	return nil
}

func (s *memStore) DeleteMapping(_ context.Context, divisionID, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := mappingKey(divisionID, accountID)
	if _, ok := s.mappings[key]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.mappings, key)
	return nil
}
