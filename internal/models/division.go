package models

// Division is a row of the divisions table.
type Division struct {
	DivisionID  string  `db:"id"`
	Name        string  `db:"name"`
	Code        string  `db:"code"`
	Description *string `db:"description"`
	IsActive    bool    `db:"is_active"`
	Timestamps
}

// DivisionAccount is a row of the division_accounts table.
type DivisionAccount struct {
	MappingID  string `db:"id"`
	DivisionID string `db:"division_id"`
	AccountID  string `db:"account_id"`
	AliasName  string `db:"alias_name"`
	IsActive   bool   `db:"is_active"`
	Timestamps
}
