package repositories

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
)

// DivisionReader defines read operations for divisions
type DivisionReader interface {
	FindDivisionByID(ctx context.Context, divisionID string) (*domain.Division, error)
	FindDivisionByCode(ctx context.Context, code string) (*domain.Division, error)
	ListDivisions(ctx context.Context, activeOnly bool) ([]domain.Division, error)
}

// DivisionWriter defines write operations for divisions
type DivisionWriter interface {
	SaveDivision(ctx context.Context, division domain.Division) error
	UpdateDivision(ctx context.Context, division domain.Division) error
}

// DivisionAccountReader reads division to account mappings. Mappings are returned
// with their Account populated.
type DivisionAccountReader interface {
	FindMapping(ctx context.Context, divisionID, accountID string) (*domain.DivisionAccount, error)
	ListMappings(ctx context.Context, divisionID string, activeOnly bool) ([]domain.DivisionAccount, error)
}

// DivisionAccountWriter writes division to account mappings.
type DivisionAccountWriter interface {
	// UpsertMapping inserts the mapping or updates alias and active flag of the existing one.
	UpsertMapping(ctx context.Context, mapping domain.DivisionAccount) (*domain.DivisionAccount, error)
	// UpsertMappings applies UpsertMapping to every mapping in one database transaction.
	UpsertMappings(ctx context.Context, mappings []domain.DivisionAccount) ([]domain.DivisionAccount, error)
	UpdateMapping(ctx context.Context, mapping domain.DivisionAccount) error
	DeleteMapping(ctx context.Context, divisionID, accountID string) error
}

// DivisionScopeReader is what transaction validation needs to check a division scope.
type DivisionScopeReader interface {
	DivisionReader
	DivisionAccountReader
}

// DivisionRepositoryFacade combines all division-related repository interfaces
type DivisionRepositoryFacade interface {
	DivisionReader
	DivisionWriter
	DivisionAccountReader
	DivisionAccountWriter
}
