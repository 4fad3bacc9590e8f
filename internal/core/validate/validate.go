// Package validate wraps go-playground/validator with the custom tags used
// by registry entities and request DTOs.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"posledger/internal/core/apperror"
)

var (
	phoneRE = regexp.MustCompile(`^\+?[0-9]{7,12}$`)
	nicRE   = regexp.MustCompile(`^[0-9A-Za-z]{5,15}$`)
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Get returns the shared validator with custom tags registered.
func Get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		if err := Register(instance); err != nil {
			panic(err)
		}
	})
	return instance
}

// Register adds the custom tags to v. The HTTP layer calls it on gin's
// binding engine so DTOs and entities share one rule set.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("phone", matchString(phoneRE)); err != nil {
		return err
	}
	return v.RegisterValidation("nic", matchString(nicRE))
}

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Struct validates v and converts failures into a VALIDATION_ERROR
// naming the first failing field; all failures are listed in details.
func Struct(v any) error {
	return ToAppError(Get().Struct(v))
}

// ToAppError converts validator errors into an AppError.
func ToAppError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.NewValidation(err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	first := verrs[0]
	return apperror.NewValidation(first.Field()+" is invalid").
		WithDetail("field", first.Field()).
		WithDetail("rule", first.Tag()).
		WithDetail("fields", fields)
}

// Field validates a single value against tag and names field in the error.
func Field(field string, value any, tag string) error {
	err := Get().Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	rule := tag
	if errors.As(err, &verrs) && len(verrs) > 0 {
		rule = verrs[0].Tag()
	}
	return apperror.NewValidation(field+" is invalid").
		WithDetail("field", field).
		WithDetail("rule", rule)
}
