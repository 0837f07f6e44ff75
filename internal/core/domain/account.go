package domain

// AccountCategory classifies an account on the financial statements.
type AccountCategory string

const (
	Assets      AccountCategory = "Assets"
	Liabilities AccountCategory = "Liabilities"
	Equity      AccountCategory = "Equity"
	Income      AccountCategory = "Income"
	Expenses    AccountCategory = "Expenses"
)

// AccountCategories returns every category in statement order.
func AccountCategories() []AccountCategory {
	return []AccountCategory{Assets, Liabilities, Equity, Income, Expenses}
}

// IsValid reports whether c is a known category.
func (c AccountCategory) IsValid() bool {
	switch c {
	case Assets, Liabilities, Equity, Income, Expenses:
		return true
	}
	return false
}

// NormalBalance returns the entry type that increases an account of this category.
// Unknown categories yield the zero EntryType.
func (c AccountCategory) NormalBalance() EntryType {
	switch c {
	case Assets, Expenses:
		return Debit
	case Liabilities, Equity, Income:
		return Credit
	}
	return ""
}

func (c AccountCategory) IncreasesWithDebit() bool {
	return c.NormalBalance() == Debit
}

func (c AccountCategory) IncreasesWithCredit() bool {
	return c.NormalBalance() == Credit
}

// AccountBehavior restricts which side of a journal entry an account may take.
type AccountBehavior string

const (
	Flexible    AccountBehavior = "FLEXIBLE"     // Both debit and credit entries
	TransitOnly AccountBehavior = "TRANSIT_ONLY" // Receives funds only (debit)
	CreditOnly  AccountBehavior = "CREDIT_ONLY"  // Disburses only (credit), e.g. payables
	NonLiquid   AccountBehavior = "NON_LIQUID"   // Never the subject of an entry
)

// AccountBehaviors returns every behavior value.
func AccountBehaviors() []AccountBehavior {
	return []AccountBehavior{Flexible, TransitOnly, CreditOnly, NonLiquid}
}

// IsValid reports whether b is a known behavior.
func (b AccountBehavior) IsValid() bool {
	switch b {
	case Flexible, TransitOnly, CreditOnly, NonLiquid:
		return true
	}
	return false
}

// IsLiquid is true for every behavior that permits at least one entry type.
func (b AccountBehavior) IsLiquid() bool {
	switch b {
	case Flexible, TransitOnly, CreditOnly:
		return true
	case NonLiquid:
		return false
	}
	return false
}

// Permits reports whether an entry of type t may be posted to an account with this behavior.
func (b AccountBehavior) Permits(t EntryType) bool {
	switch b {
	case Flexible:
		return t == Debit || t == Credit
	case TransitOnly:
		return t == Debit
	case CreditOnly:
		return t == Credit
	case NonLiquid:
		return false
	}
	return false
}

func (b AccountBehavior) CanReceiveIncome() bool {
	switch b {
	case Flexible, TransitOnly:
		return true
	case CreditOnly, NonLiquid:
		return false
	}
	return false
}

func (b AccountBehavior) CanMakeExpense() bool {
	switch b {
	case Flexible, CreditOnly:
		return true
	case TransitOnly, NonLiquid:
		return false
	}
	return false
}

// Description returns a human readable explanation of the behavior.
func (b AccountBehavior) Description() string {
	switch b {
	case Flexible:
		return "Can be used for both income and expenses"
	case TransitOnly:
		return "Only for receiving income (e.g., QRIS)"
	case CreditOnly:
		return "Only for expenses (e.g., Debt/Hutang)"
	case NonLiquid:
		return "Non-liquid account (e.g., Capital/Modal)"
	}
	return ""
}

// Account is a node in the chart of accounts.
type Account struct {
	AccountID string          `json:"accountID"` // Primary Key (UUID)
	Code      string          `json:"code"`      // Unique, up to 20 chars
	Name      string          `json:"name"`
	Category  AccountCategory `json:"category"` // Fixed once entries reference the account
	Behavior  AccountBehavior `json:"behavior"` // Defaults to FLEXIBLE
	Timestamps
}

func (a Account) NormalBalance() EntryType {
	return a.Category.NormalBalance()
}

func (a Account) IsLiquid() bool {
	return a.Behavior.IsLiquid()
}

// AccountFilter narrows account listings. Nil fields are ignored.
type AccountFilter struct {
	Category   *AccountCategory
	Behavior   *AccountBehavior
	LiquidOnly bool
}
