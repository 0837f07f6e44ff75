package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/core/services"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVoucherSequence struct {
	mock.Mock
}

func (m *MockVoucherSequence) LockVoucherSequence(ctx context.Context, tx pgx.Tx, key string) error {
	args := m.Called(ctx, tx, key)
	return args.Error(0)
}

func (m *MockVoucherSequence) FindLastVoucherNo(ctx context.Context, tx pgx.Tx, prefix string) (string, error) {
	args := m.Called(ctx, tx, prefix)
	return args.String(0), args.Error(1)
}

func TestNewVoucherGenerator_Prefix(t *testing.T) {
	gen, err := services.NewVoucherGenerator(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "VCH", gen.Prefix())

	gen, err = services.NewVoucherGenerator(nil, " jrn ")
	require.NoError(t, err)
	assert.Equal(t, "JRN", gen.Prefix())

	for _, bad := range []string{"AB", "ABCD", "A1C"} {
		_, err := services.NewVoucherGenerator(nil, bad)
		assert.ErrorIs(t, err, apperrors.ErrValidation, bad)
	}
}

func TestVoucherGenerator_Format(t *testing.T) {
	gen, err := services.NewVoucherGenerator(nil, "VCH")
	require.NoError(t, err)

	tests := []struct {
		in    string
		valid bool
		parts domain.VoucherParts
	}{
		{"VCH-2024-00001", true, domain.VoucherParts{Prefix: "VCH", Year: 2024, Sequence: 1}},
		{"JRN-1999-99999", true, domain.VoucherParts{Prefix: "JRN", Year: 1999, Sequence: 99999}},
		{"VCH-2024-1", false, domain.VoucherParts{}},
		{"vch-2024-00001", false, domain.VoucherParts{}},
		{"VCH-24-00001", false, domain.VoucherParts{}},
		{"VCH-2024-00001 ", false, domain.VoucherParts{}},
		{"", false, domain.VoucherParts{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.valid, gen.IsValidFormat(tt.in))
			parts, ok := gen.Parse(tt.in)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.parts, parts)
		})
	}

	no := services.FormatVoucherNo("VCH", 2024, 42)
	assert.Equal(t, "VCH-2024-00042", no)
	parts, ok := gen.Parse(no)
	require.True(t, ok)
	assert.Equal(t, 42, parts.Sequence)
}

func TestVoucherGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	txn := domain.Transaction{TransactionID: "t1", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}

	t.Run("first of year", func(t *testing.T) {
		repo := new(MockVoucherSequence)
		repo.On("LockVoucherSequence", ctx, mock.Anything, "VCH-2024").Return(nil).Once()
		repo.On("FindLastVoucherNo", ctx, mock.Anything, "VCH-2024-").Return("", nil).Once()
		gen, _ := services.NewVoucherGenerator(repo, "VCH")

		no, err := gen.Generate(ctx, nil, txn)
		require.NoError(t, err)
		assert.Equal(t, "VCH-2024-00001", no)
		repo.AssertExpectations(t)
	})

	t.Run("continues sequence", func(t *testing.T) {
		repo := new(MockVoucherSequence)
		repo.On("LockVoucherSequence", ctx, mock.Anything, "VCH-2024").Return(nil).Once()
		repo.On("FindLastVoucherNo", ctx, mock.Anything, "VCH-2024-").Return("VCH-2024-00041", nil).Once()
		gen, _ := services.NewVoucherGenerator(repo, "VCH")

		no, err := gen.Generate(ctx, nil, txn)
		require.NoError(t, err)
		assert.Equal(t, "VCH-2024-00042", no)
	})

	t.Run("exhausted", func(t *testing.T) {
		repo := new(MockVoucherSequence)
		repo.On("LockVoucherSequence", ctx, mock.Anything, "VCH-2024").Return(nil).Once()
		repo.On("FindLastVoucherNo", ctx, mock.Anything, "VCH-2024-").Return("VCH-2024-99999", nil).Once()
		gen, _ := services.NewVoucherGenerator(repo, "VCH")

		_, err := gen.Generate(ctx, nil, txn)
		assert.ErrorIs(t, err, apperrors.ErrPolicy)
	})

	t.Run("lock failure", func(t *testing.T) {
		repo := new(MockVoucherSequence)
		repo.On("LockVoucherSequence", ctx, mock.Anything, "VCH-2024").Return(assert.AnError).Once()
		gen, _ := services.NewVoucherGenerator(repo, "VCH")

		_, err := gen.Generate(ctx, nil, txn)
		assert.ErrorIs(t, err, assert.AnError)
		repo.AssertNotCalled(t, "FindLastVoucherNo", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no date", func(t *testing.T) {
		gen, _ := services.NewVoucherGenerator(new(MockVoucherSequence), "VCH")
		_, err := gen.Generate(ctx, nil, domain.Transaction{TransactionID: "t2"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}
