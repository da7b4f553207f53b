package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// Validator runs struct-tag rules plus model Check hooks and reports per-field messages.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return &Validator{validate: validate}
}

// Problems returns field -> message for everything wrong with value. Empty means valid.
func (v *Validator) Problems(value any) map[string]string {
	problems := map[string]string{}

	if err := v.validate.Struct(value); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			problems["_"] = err.Error()
			return problems
		}
		for _, fe := range fieldErrs {
			if _, seen := problems[fe.Field()]; !seen {
				problems[fe.Field()] = message(fe)
			}
		}
	}

	if checker, ok := value.(models.Checker); ok {
		for field, msg := range checker.Check() {
			if _, seen := problems[field]; !seen {
				problems[field] = msg
			}
		}
	}
	return problems
}

// Struct returns a validation ApiErr listing every failing field, or nil.
func (v *Validator) Struct(value any) error {
	if problems := v.Problems(value); len(problems) > 0 {
		return errs.NewValidationError(problems)
	}
	return nil
}

// Var checks a single value against a tag expression such as "required,email".
func (v *Validator) Var(field string, value any, tag string) error {
	err := v.validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return errs.NewValidationError(map[string]string{field: message(fieldErrs[0])})
	}
	return errs.NewValidationError(map[string]string{field: err.Error()})
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed the %s rule", fe.Tag())
	}
}
