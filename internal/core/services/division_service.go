package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/google/uuid"
)

// DivisionCodePattern matches a normalized division code.
var DivisionCodePattern = regexp.MustCompile(`^[A-Z0-9_]{1,10}$`)

// NormalizeDivisionCode trims and uppercases code.
func NormalizeDivisionCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type divisionService struct {
	BaseService
	divisionRepo portsrepo.DivisionRepositoryFacade
}

func NewDivisionService(divisionRepo portsrepo.DivisionRepositoryFacade) portssvc.DivisionSvc {
	return &divisionService{divisionRepo: divisionRepo}
}

var _ portssvc.DivisionSvc = (*divisionService)(nil)

func (s *divisionService) CreateDivision(ctx context.Context, req dto.CreateDivisionRequest) (*domain.Division, error) {
	code := NormalizeDivisionCode(req.Code)
	if !DivisionCodePattern.MatchString(code) {
		return nil, apperrors.Validationf("division code %q must be 1 to 10 letters, digits or underscores", req.Code)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validationf("division name is required")
	}

	ts := now()
	division := domain.Division{
		DivisionID:  uuid.NewString(),
		Name:        name,
		Code:        code,
		Description: req.Description,
		IsActive:    true,
		Timestamps:  domain.Timestamps{CreatedAt: ts, UpdatedAt: ts},
	}
	if err := s.divisionRepo.SaveDivision(ctx, division); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: division code '%s' is already in use", apperrors.ErrDuplicate, code)
		}
		s.LogError(ctx, err, "Failed to save division", slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Division created", slog.String("division_id", division.DivisionID), slog.String("code", code))
	return &division, nil
}

func (s *divisionService) GetDivision(ctx context.Context, divisionID string) (*domain.Division, error) {
	return s.divisionRepo.FindDivisionByID(ctx, divisionID)
}

func (s *divisionService) GetDivisionByCode(ctx context.Context, code string) (*domain.Division, error) {
	return s.divisionRepo.FindDivisionByCode(ctx, NormalizeDivisionCode(code))
}

func (s *divisionService) ListDivisions(ctx context.Context, activeOnly bool) ([]domain.Division, error) {
	return s.divisionRepo.ListDivisions(ctx, activeOnly)
}

func (s *divisionService) UpdateDivision(ctx context.Context, divisionID string, req dto.UpdateDivisionRequest) (*domain.Division, error) {
	division, err := s.divisionRepo.FindDivisionByID(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validationf("division name must not be empty")
		}
		division.Name = name
	}
	if req.Description != nil {
		division.Description = req.Description
	}
	if req.IsActive != nil {
		division.IsActive = *req.IsActive
	}
	return s.save(ctx, division)
}

func (s *divisionService) SetDivisionActive(ctx context.Context, divisionID string, active bool) (*domain.Division, error) {
	division, err := s.divisionRepo.FindDivisionByID(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	division.IsActive = active
	return s.save(ctx, division)
}

func (s *divisionService) save(ctx context.Context, division *domain.Division) (*domain.Division, error) {
	division.UpdatedAt = now()
	if err := s.divisionRepo.UpdateDivision(ctx, *division); err != nil {
		s.LogError(ctx, err, "Failed to update division", slog.String("division_id", division.DivisionID))
		return nil, err
	}
	return division, nil
}
