package handlers

import (
	"reflect"
	"sync"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/core/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/SscSPs/balance_ledger/internal/utils/accounting"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags used by the request DTOs.
// It is safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// decimal.Decimal and dto.Date are validated through their string form so
		// that required sees the zero value as missing.
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		v.RegisterCustomTypeFunc(dateValue, dto.Date{})

		_ = v.RegisterValidation("decimal_positive", decimalPositive)
		_ = v.RegisterValidation("division_code", divisionCode)
		_ = v.RegisterValidation("entry_type", entryType)
	})
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		if d.IsZero() {
			return ""
		}
		return d.String()
	}
	return nil
}

func dateValue(field reflect.Value) any {
	if d, ok := field.Interface().(dto.Date); ok {
		return d.String()
	}
	return nil
}

// decimalPositive accepts positive amounts with at most two fractional digits.
func decimalPositive(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return accounting.ValidateEntryAmount(d) == nil
}

func divisionCode(fl validator.FieldLevel) bool {
	return services.DivisionCodePattern.MatchString(services.NormalizeDivisionCode(fl.Field().String()))
}

func entryType(fl validator.FieldLevel) bool {
	return domain.EntryType(fl.Field().String()).IsValid()
}
