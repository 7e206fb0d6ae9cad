// Package validation validates request payloads with validator/v10 and turns
// failures into domain.ValidationError values keyed by JSON field path.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/msomdec/recipe-api/internal/domain"
)

var (
	maxPrice       = decimal.NewFromInt(1000)
	priceDecimals  = int32(2)
	errNotAStruct  = errors.New("validation target must be a struct")
	moneyValidator = "money"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" {
			return fld.Name
		}
		if name == "-" {
			return ""
		}
		return name
	})

	// Decimals are validated through their string form so field tags apply.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation(moneyValidator, validateMoney); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", moneyValidator, err))
	}

	return &Validator{v: v}
}

// Validate validates a struct and returns a *domain.ValidationError on failure.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// Fields validates s and returns the failing fields, or nil if it is valid.
// It lets callers merge checks that cannot be expressed as struct tags.
func (v *Validator) Fields(s any) map[string]string {
	err := v.Validate(s)
	if err == nil {
		return nil
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return map[string]string{"non_field_errors": err.Error()}
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: %v", errNotAStruct, err)
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[fieldPath(e)] = friendlyMessage(e)
	}
	return domain.NewValidationError(fieldErrors)
}

// fieldPath drops the root struct name from the namespace, so
// RecipeInput.tags[0].name becomes tags[0].name.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if e.Kind() == reflect.String && e.Param() == "1" {
			return "may not be blank"
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "eqfield":
		return "does not match"
	case moneyValidator:
		return "must be a non-negative amount with at most 5 digits and 2 decimal places"
	default:
		return "is invalid"
	}
}

// validateMoney accepts decimals in [0, 1000) with at most two decimal places.
func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	if d.IsNegative() || d.GreaterThanOrEqual(maxPrice) {
		return false
	}
	return d.Equal(d.Truncate(priceDecimals))
}
