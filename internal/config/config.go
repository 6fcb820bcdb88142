// Package config holds the validated settings of a scenario run.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"newop/construct-go/pkg/scenario"
)

// validate is shared; building a validator is expensive.
var validate = mustValidator()

func mustValidator() *validator.Validate {
	v, err := newValidator()
	if err != nil {
		panic(err)
	}
	return v
}

func newValidator() (*validator.Validate, error) {
	v := validator.New()
	if err := v.RegisterValidation("scenario", knownScenario); err != nil {
		return nil, fmt.Errorf("register scenario validation: %w", err)
	}
	return v, nil
}

func knownScenario(fl validator.FieldLevel) bool {
	_, ok := scenario.Lookup(fl.Field().String())
	return ok
}

// Run configures `newop run`.
type Run struct {
	Format    string   `validate:"required,oneof=text yaml json"`
	Scenarios []string `validate:"dive,required,scenario"`
}

// Default returns a Run that renders every scenario as a table.
func Default() *Run {
	return &Run{Format: scenario.FormatText}
}

// Validate checks the configuration.
func (c *Run) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid run configuration: %w", err)
	}
	return nil
}
