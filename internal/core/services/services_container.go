package services

import (
	"fmt"

	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/platform/config"
	"github.com/SscSPs/balance_ledger/seeds"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The actor provider identifies who performs workflow actions for the audit trail.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, actors portssvc.ActorProvider) (*portssvc.ServiceContainer, error) {
	container := &portssvc.ServiceContainer{}

	vouchers, err := NewVoucherGenerator(repos.TransactionRepo, cfg.VoucherPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create voucher generator: %w", err)
	}
	container.Voucher = vouchers

	container.Account = NewAccountService(repos.AccountRepo)
	container.Transaction = NewTransactionService(repos.AccountRepo, repos.DivisionRepo, repos.TransactionRepo, repos.TxManager, actors)
	container.Approval = NewApprovalWorkflow(repos.TransactionRepo, repos.TxManager, vouchers, actors)
	container.Balance = NewBalanceCalculator(repos.AccountRepo, repos.LedgerRepo)

	// Division services wrap the core ones with a division filter.
	container.Division = NewDivisionService(repos.DivisionRepo)
	container.DivisionAccount = NewDivisionAccountService(repos.DivisionRepo, repos.AccountRepo)
	container.DivisionTransaction = NewDivisionTransactionService(repos.DivisionRepo, repos.TransactionRepo, container.Transaction)
	container.DivisionBalance = NewDivisionBalanceService(repos.DivisionRepo, container.Balance, container.DivisionTransaction)

	container.Seeder = NewChartSeeder(repos.AccountRepo, repos.DivisionRepo, seeds.ChartOfAccounts)

	return container, nil
}
