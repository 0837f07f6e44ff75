package models

// Account is a row of the accounts table.
type Account struct {
	AccountID string `db:"id"`
	Code      string `db:"code"`
	Name      string `db:"name"`
	Category  string `db:"category"`
	Behavior  string `db:"behavior"`
	Timestamps
}
