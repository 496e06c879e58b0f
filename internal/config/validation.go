// Package config provides configuration management for the Longball predictor.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("lineupsources", validateLineupSources)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateLineupSources checks every configured lineup provider is known.
func validateLineupSources(fl validator.FieldLevel) bool {
	sources, ok := fl.Field().Interface().([]string)
	if !ok || len(sources) == 0 {
		return false
	}
	for _, s := range sources {
		switch s {
		case "mlb", "rotowire":
		default:
			return false
		}
	}
	return true
}

// validateCrossField holds validations that span multiple fields.
func validateCrossField(cfg *Config) error {
	if cfg.Sources.RetryWaitMinMS > cfg.Sources.RetryWaitMaxMS {
		return fmt.Errorf("sources.retry_wait_min_ms (%d) exceeds retry_wait_max_ms (%d)",
			cfg.Sources.RetryWaitMinMS, cfg.Sources.RetryWaitMaxMS)
	}
	if cfg.Tiers.HotPickQuantile >= cfg.Tiers.LockQuantile {
		return fmt.Errorf("tiers.hot_pick_quantile (%.2f) must be below lock_quantile (%.2f)",
			cfg.Tiers.HotPickQuantile, cfg.Tiers.LockQuantile)
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	msg := "configuration validation failed:"
	for _, e := range errs {
		msg += fmt.Sprintf("\n  %s: failed %q validation", e.Namespace(), e.Tag())
	}
	return fmt.Errorf("%s", msg)
}
