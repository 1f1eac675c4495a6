// Package validation wraps go-playground/validator with the custom rules used by
// recipe and catalog input, and converts failures into models.DomainError values.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	// recipeNamePattern accepts Cyrillic and Latin letters separated by whitespace.
	recipeNamePattern = regexp.MustCompile(`^[\p{Cyrillic}\p{Latin}\s]+$`)
	slugPattern       = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// GetValidator returns the singleton validator instance.
// Field errors are reported under their json names.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation("recipe_name", func(fl validator.FieldLevel) bool {
			return IsRecipeName(fl.Field().String())
		})
		_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
	})

	return validate
}

// IsRecipeName reports whether name consists only of letters and whitespace.
func IsRecipeName(name string) bool {
	return recipeNamePattern.MatchString(name)
}

// ValidateStruct validates s and returns the first failure as a validation
// DomainError keyed by the field's json name, or nil.
func ValidateStruct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return models.NewValidationError(fe.Field(), translate(fe.Field(), fe.Tag(), fe.Param()))
	}
	return models.NewValidationError("", err.Error())
}

// ValidateVar validates a single value against tag and reports failures under field.
func ValidateVar(field string, value interface{}, tag string) error {
	err := GetValidator().Var(value, tag)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return models.NewValidationError(field, translate(field, fe.Tag(), fe.Param()))
	}
	return models.NewValidationError(field, err.Error())
}

// translate produces a human-readable message for a failed tag.
func translate(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "recipe_name":
		return "recipe name may contain only letters and spaces"
	case "slug":
		return fmt.Sprintf("%s may contain only letters, digits, hyphens and underscores", field)
	default:
		return fmt.Sprintf("%s failed on %s validation", field, tag)
	}
}
