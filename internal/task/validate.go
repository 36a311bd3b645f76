package task

import (
	"errors"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// createRules carries the creation-time rules. Field order is check order.
type createRules struct {
	Title       string `field:"title"       validate:"notblank,utf8"`
	Description string `field:"description" validate:"notblank,utf8"`
	Executor    string `field:"executor"    validate:"notblank,utf8"`
	Deadline    string `field:"deadline"    validate:"required,date"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("field")
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("date", isCalendarDate)
	_ = v.RegisterValidation("utf8", isValidUTF8)

	return v
}

func isCalendarDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())

	return err == nil
}

// isValidUTF8 rejects text the JSON encoder would rewrite to U+FFFD.
func isValidUTF8(fl validator.FieldLevel) bool {
	return utf8.ValidString(fl.Field().String())
}

var reasons = map[string]string{
	"notblank": "must not be empty",
	"required": "is required",
	"date":     "must be a date (YYYY-MM-DD)",
	"utf8":     "must be valid UTF-8",
}

// ValidateCreate checks creation rules: title, description and executor are
// non-blank UTF-8 text, deadline is a calendar date. Reports the first failing field.
func ValidateCreate(fields Fields) error {
	err := validate.Struct(createRules{
		Title:       fields.Title,
		Description: fields.Description,
		Executor:    fields.Executor,
		Deadline:    fields.Deadline,
	})

	return firstViolation(err)
}

// ValidateUpdate checks the update rule for one field. Deadline may be
// cleared; every other field must stay non-blank.
func ValidateUpdate(field Field, value string) error {
	var err error

	switch field {
	case FieldTitle, FieldDescription, FieldExecutor:
		err = validate.Var(value, "notblank,utf8")
	case FieldDeadline:
		if strings.TrimSpace(value) == "" {
			return nil
		}

		err = validate.Var(value, "date")
	default:
		_, err = ParseField(string(field))

		return err
	}

	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{Field: field, Reason: reasons[fieldErrs[0].Tag()]}
	}

	return err
}

func firstViolation(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	first := fieldErrs[0]

	return &ValidationError{Field: Field(first.Field()), Reason: reasons[first.Tag()]}
}
