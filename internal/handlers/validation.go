package handlers

import (
	"fmt"
	"reflect"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators installs the custom binding tags used by the request DTOs:
// positive_amount for money (whole cents only) and entry_type for income/expense.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}

	// Validate decimals through their string form so tags apply to them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && domain.ValidateAmount(fl.FieldName(), d) == nil
	}); err != nil {
		return fmt.Errorf("failed to register positive_amount validator: %w", err)
	}

	if err := v.RegisterValidation("entry_type", func(fl validator.FieldLevel) bool {
		return domain.EntryType(fl.Field().String()).IsValid()
	}); err != nil {
		return fmt.Errorf("failed to register entry_type validator: %w", err)
	}
	return nil
}
