package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dshills/gosemchunk/internal/logging"
	"github.com/dshills/gosemchunk/internal/tokenizer"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("tokenizer", func(fl validator.FieldLevel) bool {
			return tokenizer.Known(fl.Field().String())
		})
		_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
			return slices.Contains(logging.Levels(), strings.ToLower(fl.Field().String()))
		})
	})
	return validate
}

// Validate checks every field and reports all failures at once
func (c *Config) Validate() error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "tokenizer":
		return fmt.Sprintf("%s: unknown tokenizer %q", field, fe.Value())
	case "loglevel":
		return fmt.Sprintf("%s: must be one of %s", field, strings.Join(logging.Levels(), ", "))
	case "excluded_with":
		return fmt.Sprintf("%s: cannot be combined with %s", field, fe.Param())
	case "ltfield":
		return fmt.Sprintf("%s: must be less than %s", field, fe.Param())
	case "required":
		return fmt.Sprintf("%s: is required", field)
	default:
		return fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
}
