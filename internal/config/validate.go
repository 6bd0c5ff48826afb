package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"wanted-mailer/internal/fsutil"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their config-file names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

func Validate(cfg Config) error {
	errs := problems(cfg)
	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + joinLines(errs))
	}
	return nil
}

func problems(cfg Config) []string {
	var errs []string

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []string{err.Error()}
		}
		for _, fe := range verrs {
			errs = append(errs, describe(fe))
		}
	}

	if cfg.Source.PageDelay < 0 {
		errs = append(errs, "source.page_delay must be >= 0")
	}
	if cfg.Source.Timeout < 0 {
		errs = append(errs, "source.timeout must be >= 0")
	}
	return errs
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	field = strings.TrimPrefix(field, "Criteria.")
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entry", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be an email address (got %q)", field, fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a URL (got %q)", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %q)", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param())
	}
}

// SaveAtomic writes cfg to path in the format its extension names. Readers
// see either the old file or the new one.
func SaveAtomic(path string, cfg Config) error {
	b, err := marshal(path, cfg)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, b, 0o644)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n- ")
}
