package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/core/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/SscSPs/balance_ledger/internal/platform/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// staticActor always reports the same actor.
type staticActor string

func (a staticActor) CurrentActorID(context.Context) string {
	if a == "" {
		return portssvc.SystemActorID
	}
	return string(a)
}

func (a staticActor) HasCurrentActor(context.Context) bool { return a != "" }

// ledgerFixture wires real services over a memStore seeded with a small chart.
type ledgerFixture struct {
	store *memStore
	svc   *portssvc.ServiceContainer

	kas, bank, qris, hutang, modal, iuran, beban domain.Account
}

func newLedgerFixture(actor string) *ledgerFixture {
	store := newMemStore()
	svc, err := services.NewServiceContainer(&config.Config{VoucherPrefix: "VCH"}, store.provider(), staticActor(actor))
	if err != nil {
		panic(err)
	}

	f := &ledgerFixture{store: store, svc: svc}
	f.kas = store.addAccount(newAccount("101", "Kas", domain.Assets, domain.Flexible))
	f.bank = store.addAccount(newAccount("102", "Bank", domain.Assets, domain.Flexible))
	f.qris = store.addAccount(newAccount("103", "QRIS", domain.Assets, domain.TransitOnly))
	f.hutang = store.addAccount(newAccount("201", "Hutang Usaha", domain.Liabilities, domain.CreditOnly))
	f.modal = store.addAccount(newAccount("301", "Modal", domain.Equity, domain.NonLiquid))
	f.iuran = store.addAccount(newAccount("401", "Iuran", domain.Income, domain.Flexible))
	f.beban = store.addAccount(newAccount("501", "Beban Operasional", domain.Expenses, domain.Flexible))
	return f
}

func newAccount(code, name string, category domain.AccountCategory, behavior domain.AccountBehavior) domain.Account {
	return domain.Account{
		AccountID: uuid.NewString(),
		Code:      code,
		Name:      name,
		Category:  category,
		Behavior:  behavior,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) dto.Date {
	return dto.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func debit(a domain.Account, amount string) dto.JournalEntryRequest {
	return dto.JournalEntryRequest{AccountID: a.AccountID, EntryType: domain.Debit, Amount: dec(amount)}
}

func credit(a domain.Account, amount string) dto.JournalEntryRequest {
	return dto.JournalEntryRequest{AccountID: a.AccountID, EntryType: domain.Credit, Amount: dec(amount)}
}

func createReq(date dto.Date, description string, entries ...dto.JournalEntryRequest) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		TransactionHeaderRequest: dto.TransactionHeaderRequest{Date: date, Description: description},
		Entries:                  entries,
	}
}

// approved creates, submits and approves a transaction.
func (f *ledgerFixture) approved(ctx context.Context, req dto.CreateTransactionRequest) *domain.Transaction {
	txn, err := f.svc.Transaction.CreateTransaction(ctx, req)
	if err != nil {
		panic(err)
	}
	if _, err := f.svc.Approval.Submit(ctx, txn.TransactionID); err != nil {
		panic(err)
	}
	txn, err = f.svc.Approval.Approve(ctx, txn.TransactionID)
	if err != nil {
		panic(err)
	}
	return txn
}
