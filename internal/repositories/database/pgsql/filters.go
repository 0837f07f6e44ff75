package pgsql

import (
	"sort"
	"strconv"
	"strings"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
)

// balanceFilterColumns maps BalanceFilter equality keys onto qualified transaction columns.
// Keys outside this map never reach SQL.
var balanceFilterColumns = map[string]string{
	domain.FilterDivisionID:    "t.division_id",
	domain.FilterVoucherNo:     "t.voucher_no",
	domain.FilterTransactionID: "t.id",
}

// whereBuilder accumulates AND-ed predicates with numbered placeholders.
// Column names are always supplied by code, values are always bound.
type whereBuilder struct {
	clauses []string
	args    []any
}

func newWhereBuilder(args ...any) *whereBuilder {
	return &whereBuilder{args: args}
}

// bind appends value and returns its placeholder.
func (b *whereBuilder) bind(value any) string {
	b.args = append(b.args, value)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *whereBuilder) add(column, op string, value any) {
	b.clauses = append(b.clauses, column+" "+op+" "+b.bind(value))
}

func (b *whereBuilder) Equals(column string, value any) {
	b.add(column, "=", value)
}

func (b *whereBuilder) NotEquals(column string, value any) {
	b.add(column, "<>", value)
}

func (b *whereBuilder) AtLeast(column string, value any) {
	b.add(column, ">=", value)
}

func (b *whereBuilder) AtMost(column string, value any) {
	b.add(column, "<=", value)
}

// AnyOf adds column = ANY(values).
func (b *whereBuilder) AnyOf(column string, values any) {
	b.clauses = append(b.clauses, column+" = ANY("+b.bind(values)+")")
}

// Clause adds a predicate whose %s markers are replaced, in order, by placeholders for values.
func (b *whereBuilder) Clause(predicate string, values ...any) {
	for _, v := range values {
		predicate = strings.Replace(predicate, "%s", b.bind(v), 1)
	}
	b.clauses = append(b.clauses, predicate)
}

// SQL renders " WHERE ..." or the empty string.
func (b *whereBuilder) SQL() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

func (b *whereBuilder) Args() []any {
	return b.args
}

// applyBalanceFilter adds the date bounds and whitelisted equality predicates of f.
// Keys are applied in sorted order so the generated SQL is stable.
func applyBalanceFilter(b *whereBuilder, f domain.BalanceFilter) error {
	if f.DateFrom != nil {
		b.AtLeast("t.date", *f.DateFrom)
	}
	if f.DateTo != nil {
		b.AtMost("t.date", *f.DateTo)
	}
	keys := make([]string, 0, len(f.Equals))
	for k := range f.Equals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		column, ok := balanceFilterColumns[k]
		if !ok {
			return apperrors.Validationf("unsupported balance filter %q", k)
		}
		b.Equals(column, f.Equals[k])
	}
	return nil
}
