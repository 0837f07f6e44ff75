package pgsql

import (
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(pool),
		TransactionRepo: newPgxTransactionRepository(pool),
		LedgerRepo:      newPgxLedgerRepository(pool),
		DivisionRepo:    newPgxDivisionRepository(pool),
		TxManager:       newPgxTransactionManager(pool),
	}
}
