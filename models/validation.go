package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidationError is a client-side rejection: no request was sent.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field)
	case "gte":
		return fmt.Sprintf("%s is below the allowed minimum", e.Field)
	case "min":
		return fmt.Sprintf("%s is too short", e.Field)
	case "stock":
		return fmt.Sprintf("%s exceeds available stock", e.Field)
	case "out_of_stock":
		return "product is out of stock"
	case "transition":
		return fmt.Sprintf("%s cannot change that way", e.Field)
	default:
		return fmt.Sprintf("%s is invalid", e.Field)
	}
}

func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return strings.ToLower(f.Name[:1]) + f.Name[1:]
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return Category(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
			return PaymentMethod(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
			return OrderStatus(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

// Validate checks the required-field rules on a form and reports the first
// failing field.
func Validate(form any) error {
	err := validatorInstance().Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{Field: fieldErrs[0].Field(), Rule: fieldErrs[0].Tag()}
	}
	return err
}
