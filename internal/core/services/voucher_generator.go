package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
)

// DefaultVoucherPrefix is used when no prefix is configured.
const DefaultVoucherPrefix = "VCH"

// MaxVoucherSequence is the largest sequence that fits the five digit field.
const MaxVoucherSequence = 99999

var (
	voucherPattern = regexp.MustCompile(`^([A-Z]{3})-(\d{4})-(\d{5})$`)
	prefixPattern  = regexp.MustCompile(`^[A-Z]{3}$`)
)

type voucherGenerator struct {
	BaseService
	repo   portsrepo.VoucherSequenceSupport
	prefix string
}

// NewVoucherGenerator creates a generator for prefix. An empty prefix selects DefaultVoucherPrefix.
func NewVoucherGenerator(repo portsrepo.VoucherSequenceSupport, prefix string) (portssvc.VoucherGeneratorSvc, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultVoucherPrefix
	}
	if !prefixPattern.MatchString(prefix) {
		return nil, apperrors.Validationf("voucher prefix must be three letters, got %q", prefix)
	}
	return &voucherGenerator{repo: repo, prefix: prefix}, nil
}

var _ portssvc.VoucherGeneratorSvc = (*voucherGenerator)(nil)

// FormatVoucherNo renders prefix, year and sequence as PREFIX-YYYY-NNNNN.
func FormatVoucherNo(prefix string, year, sequence int) string {
	return fmt.Sprintf("%s-%04d-%05d", prefix, year, sequence)
}

func (g *voucherGenerator) Prefix() string {
	return g.prefix
}

func (g *voucherGenerator) Generate(ctx context.Context, tx pgx.Tx, txn domain.Transaction) (string, error) {
	if txn.Date.IsZero() {
		return "", apperrors.Validationf("transaction %s has no date to number a voucher from", txn.TransactionID)
	}
	year := txn.Date.Year()
	key := fmt.Sprintf("%s-%04d", g.prefix, year)

	if err := g.repo.LockVoucherSequence(ctx, tx, key); err != nil {
		g.LogError(ctx, err, "Failed to lock voucher sequence", slog.String("key", key))
		return "", err
	}

	last, err := g.repo.FindLastVoucherNo(ctx, tx, key+"-")
	if err != nil {
		g.LogError(ctx, err, "Failed to read last voucher number", slog.String("key", key))
		return "", err
	}

	next := 1
	if last != "" {
		parts, ok := g.Parse(last)
		if !ok {
			return "", fmt.Errorf("stored voucher number %q is malformed", last)
		}
		next = parts.Sequence + 1
	}
	if next > MaxVoucherSequence {
		return "", apperrors.Policyf("Voucher sequence for %s is exhausted", key)
	}

	voucherNo := FormatVoucherNo(g.prefix, year, next)
	g.LogDebug(ctx, "Voucher number allocated", slog.String("voucher_no", voucherNo))
	return voucherNo, nil
}

func (g *voucherGenerator) IsValidFormat(voucherNo string) bool {
	return voucherPattern.MatchString(voucherNo)
}

func (g *voucherGenerator) Parse(voucherNo string) (domain.VoucherParts, bool) {
	m := voucherPattern.FindStringSubmatch(voucherNo)
	if m == nil {
		return domain.VoucherParts{}, false
	}
	year, _ := strconv.Atoi(m[2])
	seq, _ := strconv.Atoi(m[3])
	return domain.VoucherParts{Prefix: m[1], Year: year, Sequence: seq}, true
}
