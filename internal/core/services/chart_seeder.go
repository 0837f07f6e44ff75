package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ChartDefinition is the YAML layout of a seed chart.
type ChartDefinition struct {
	Accounts []struct {
		Code     string                 `yaml:"code"`
		Name     string                 `yaml:"name"`
		Category domain.AccountCategory `yaml:"category"`
		Behavior domain.AccountBehavior `yaml:"behavior"`
	} `yaml:"accounts"`
	DivisionAccounts []struct {
		Code  string `yaml:"code"`
		Alias string `yaml:"alias"`
	} `yaml:"division_accounts"`
	Divisions []struct {
		Code        string `yaml:"code"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"divisions"`
}

// ParseChart decodes and checks a YAML chart definition.
func ParseChart(data []byte) (*ChartDefinition, error) {
	var chart ChartDefinition
	if err := yaml.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("failed to parse chart of accounts: %w", err)
	}

	codes := make(map[string]struct{}, len(chart.Accounts))
	for _, a := range chart.Accounts {
		if a.Code == "" || a.Name == "" {
			return nil, apperrors.Validationf("chart account needs code and name")
		}
		if !a.Category.IsValid() || !a.Behavior.IsValid() {
			return nil, apperrors.Validationf("chart account %s has invalid category or behavior", a.Code)
		}
		if _, dup := codes[a.Code]; dup {
			return nil, apperrors.Validationf("chart account code %s appears twice", a.Code)
		}
		codes[a.Code] = struct{}{}
	}
	for _, m := range chart.DivisionAccounts {
		if _, ok := codes[m.Code]; !ok {
			return nil, apperrors.Validationf("division account %s is not in the chart", m.Code)
		}
	}
	for _, d := range chart.Divisions {
		if !DivisionCodePattern.MatchString(NormalizeDivisionCode(d.Code)) {
			return nil, apperrors.Validationf("invalid division code %q", d.Code)
		}
	}
	return &chart, nil
}

type chartSeeder struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	divisionRepo portsrepo.DivisionRepositoryFacade
	chart        []byte
}

// NewChartSeeder creates a seeder for the YAML chart in data.
func NewChartSeeder(accountRepo portsrepo.AccountRepositoryFacade, divisionRepo portsrepo.DivisionRepositoryFacade, data []byte) portssvc.ChartSeederSvc {
	return &chartSeeder{accountRepo: accountRepo, divisionRepo: divisionRepo, chart: data}
}

var _ portssvc.ChartSeederSvc = (*chartSeeder)(nil)

// Seed creates whatever accounts, divisions and default mappings are missing. Existing
// records are left untouched, so running it twice is a no-op.
func (s *chartSeeder) Seed(ctx context.Context) error {
	logger := s.GetLogger(ctx)

	chart, err := ParseChart(s.chart)
	if err != nil {
		return err
	}

	byCode := make(map[string]domain.Account, len(chart.Accounts))
	created := 0
	for _, a := range chart.Accounts {
		account, err := s.accountRepo.FindAccountByCode(ctx, a.Code)
		if err == nil {
			byCode[a.Code] = *account
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		ts := now()
		fresh := domain.Account{
			AccountID:  uuid.NewString(),
			Code:       a.Code,
			Name:       a.Name,
			Category:   a.Category,
			Behavior:   a.Behavior,
			Timestamps: domain.Timestamps{CreatedAt: ts, UpdatedAt: ts},
		}
		if err := s.accountRepo.SaveAccount(ctx, fresh); err != nil {
			return fmt.Errorf("failed to seed account %s: %w", a.Code, err)
		}
		byCode[a.Code] = fresh
		created++
	}

	divisions := 0
	for _, d := range chart.Divisions {
		code := NormalizeDivisionCode(d.Code)
		_, err := s.divisionRepo.FindDivisionByCode(ctx, code)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		ts := now()
		division := domain.Division{
			DivisionID: uuid.NewString(),
			Name:       d.Name,
			Code:       code,
			IsActive:   true,
			Timestamps: domain.Timestamps{CreatedAt: ts, UpdatedAt: ts},
		}
		if d.Description != "" {
			division.Description = stringPtr(d.Description)
		}
		if err := s.divisionRepo.SaveDivision(ctx, division); err != nil {
			return fmt.Errorf("failed to seed division %s: %w", code, err)
		}

		mappings := make([]domain.DivisionAccount, 0, len(chart.DivisionAccounts))
		for _, m := range chart.DivisionAccounts {
			mappings = append(mappings, domain.DivisionAccount{
				MappingID:  uuid.NewString(),
				DivisionID: division.DivisionID,
				AccountID:  byCode[m.Code].AccountID,
				AliasName:  strings.ReplaceAll(m.Alias, "{name}", d.Name),
				IsActive:   true,
				Timestamps: domain.Timestamps{CreatedAt: ts, UpdatedAt: ts},
			})
		}
		if len(mappings) > 0 {
			if _, err := s.divisionRepo.UpsertMappings(ctx, mappings); err != nil {
				return fmt.Errorf("failed to map accounts for division %s: %w", code, err)
			}
		}
		divisions++
	}

	logger.Info("Chart of accounts seeded",
		slog.Int("accounts_created", created),
		slog.Int("divisions_created", divisions))
	return nil
}
