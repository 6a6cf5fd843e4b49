package tienda

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound is returned when an operation names an id that is not in the
// collection.
var ErrNotFound = errors.New("not found")

// ValidationError is a user input error. The mutation that returned it left
// the state untouched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation tells user input errors apart from infrastructure failures.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their persisted name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// the builtin "number" does not know about ',' separators.
	v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		_, ok := ParseDecimal(fl.Field().String())
		return ok
	})
	return v
}

// check runs the struct tags of a draft and converts the failures into
// ValidationErrors.
func check(draft any) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required", "notblank":
			errs = append(errs, invalid(fe.Field(), "is required"))
		case "decimal":
			errs = append(errs, invalid(fe.Field(), "%q is not a number", fe.Value()))
		default:
			errs = append(errs, invalid(fe.Field(), "fails %q", fe.Tag()))
		}
	}
	return errors.Join(errs...)
}
