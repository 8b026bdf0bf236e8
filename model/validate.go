package model

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// TextCodeValidation tags every validation error raised by this module.
const TextCodeValidation = "ERR-VAL"

var dniPattern = regexp.MustCompile(`^\d{8}$`)

// check is one field inspection in a validation sequence.
type check struct {
	field string
	value any
	rules []validation.Rule
}

func field(name string, value any, rules ...validation.Rule) check {
	return check{field: name, value: value, rules: rules}
}

// firstFailure runs the checks in order and stops at the first violation.
func firstFailure(entity string, checks ...check) error {
	for _, c := range checks {
		value := c.value
		if s, ok := value.(string); ok {
			value = strings.TrimSpace(s)
		}
		if err := validation.Validate(value, c.rules...); err != nil {
			return Invalid(entity, c.field, err.Error(), c.value)
		}
	}
	return nil
}

// Invalid builds the validation error reported for a single field.
func Invalid(entity, field, message string, value any) error {
	return goerrors.NewValidation(
		fmt.Sprintf("invalid %s", entity),
		goerrors.FieldError{Field: field, Message: message, Value: value},
	).WithTextCode(TextCodeValidation)
}

// Between is a closed-interval rule for float values. Unlike validation.Min
// and validation.Max it does not treat zero as absent.
func Between(minValue, maxValue float64) validation.Rule {
	return validation.By(func(value any) error {
		v, isNil := validation.Indirect(value)
		if isNil {
			return nil
		}
		f, err := validation.ToFloat(v)
		if err != nil {
			return err
		}
		if f < minValue || f > maxValue {
			return validation.NewError("validation_out_of_range",
				fmt.Sprintf("must be between %g and %g", minValue, maxValue))
		}
		return nil
	})
}

// NonNegative rejects values below zero.
var NonNegative = validation.Min(0.0).Error("must not be negative")

// GenerateCode formats a record code such as ANI000042.
func GenerateCode(prefix string, n int64) string {
	return fmt.Sprintf("%s%06d", prefix, n)
}

func required(what string) validation.Rule {
	return validation.Required.Error(what + " is required")
}

// Code prefixes for generated record codes.
const (
	PrefixAnimal       = "ANI"
	PrefixConsultation = "CON"
	PrefixReferral     = "DER"
)
