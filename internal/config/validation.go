package config

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains non-fatal issues.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Err joins all errors, or returns nil when there are none.
func (vr *ValidationResult) Err() error {
	errs := make([]error, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// maxPreviewDimension bounds the preview window size.
const maxPreviewDimension = 16384

// Check validates every field and collects all problems.
func (c *Config) Check() *ValidationResult {
	result := &ValidationResult{}

	if c.Unit == "" {
		result.AddError("unit", "no unit given")
	}
	for i, dir := range c.IncludePaths {
		if dir == "" {
			result.AddWarning("include_paths", fmt.Sprintf("empty entry at index %d", i))
		}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		result.AddError("log_level", err.Error())
	}
	if c.LogFormat < LogFormatAuto || c.LogFormat > LogFormatJSON {
		result.AddError("log_format", fmt.Sprintf("unknown log format: %d", c.LogFormat))
	}
	if c.WatchDebounce < 0 {
		result.AddError("watch_debounce", fmt.Sprintf("must be non-negative, got %v", c.WatchDebounce))
	} else if c.Watch && c.WatchDebounce > 10*time.Second {
		result.AddWarning("watch_debounce", fmt.Sprintf("unusually long debounce %v", c.WatchDebounce))
	}
	if c.CPULimit > 0 && c.CPULimit < 1000 {
		result.AddWarning("cpu_limit", fmt.Sprintf("very low instruction limit %d", c.CPULimit))
	}

	p := c.Preview
	if p.Enabled {
		if p.Width <= 0 || p.Width > maxPreviewDimension {
			result.AddError("preview.width", fmt.Sprintf("must be in 1..%d, got %d", maxPreviewDimension, p.Width))
		}
		if p.Height <= 0 || p.Height > maxPreviewDimension {
			result.AddError("preview.height", fmt.Sprintf("must be in 1..%d, got %d", maxPreviewDimension, p.Height))
		}
	}
	if c.CPUProfile != "" && c.CPUProfile == c.MemProfile {
		result.AddError("profile", "CPU and memory profiles must use different files")
	}

	return result
}

// Validate returns nil if the config is usable, or an error joining every
// problem found.
func (c *Config) Validate() error {
	return c.Check().Err()
}
