package form

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// ValidationError carries field-scoped messages keyed by the field's JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "invalid input"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Field returns the message for one field, or "".
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

var (
	validateOnce sync.Once
	validate     *validator.Validate

	strictPolicy = bluemonday.StrictPolicy()
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("plaintext", func(fl validator.FieldLevel) bool {
			return IsPlainText(fl.Field().String())
		})
	})
	return validate
}

// Validate checks v against its `validate` struct tags. It returns a
// *ValidationError describing every failing field, or nil.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		if _, seen := out.Fields[fe.Field()]; seen {
			continue
		}
		out.Fields[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or later", fe.Param())
	case "lte":
		return fmt.Sprintf("must be %s or earlier", fe.Param())
	case "gt":
		return "must be selected"
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	case "plaintext":
		return "must not contain markup"
	default:
		return "is invalid"
	}
}

// Clean trims surrounding whitespace. Markup is rejected by the plaintext
// rule rather than stripped, so Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	return strings.TrimSpace(s)
}

// IsPlainText reports whether s survives the strict HTML policy unchanged:
// no tags, no comments and no character references.
func IsPlainText(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	return html.UnescapeString(strictPolicy.Sanitize(s)) == s
}
