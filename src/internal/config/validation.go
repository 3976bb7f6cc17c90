package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maksimkurb/hostconf/src/internal/execrunner"
)

var unitNameRegexp = regexp.MustCompile(`^[A-Za-z0-9@._:-]+$`)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "required_if":
		return "field is required when the section is enabled"
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "hostname_port":
		return "must be in format 'host:port'"
	case "abs_path":
		return "must be an absolute, clean path"
	case "unit_name":
		return "must be a service name made of letters, digits and @._:-"
	case "command_template":
		return "must be a command line; {{variables}} must be well-formed"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	ItemName  string // For services: the service kind (e.g., "dns")
	FieldPath string // Dot-notation field path (e.g., "general.state_dir", "check_command")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		if err.ItemName != "" {
			sb.WriteString(fmt.Sprintf("  %d. [%s] %s: %s\n", i+1, err.ItemName, err.FieldPath, err.Message))
		} else {
			sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
		}
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validators
	if err := validate.RegisterValidation("abs_path", validateAbsPath); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("unit_name", validateUnitName); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("command_template", validateCommandTemplate); err != nil {
		panic(err)
	}

	// Register function to get field name from "toml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validator: absolute path without . or .. elements
func validateAbsPath(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return filepath.IsAbs(value) && filepath.Clean(value) == value
}

// Custom validator: service manager unit name
func validateUnitName(fl validator.FieldLevel) bool {
	return unitNameRegexp.MatchString(fl.Field().String())
}

// Custom validator: command line template
func validateCommandTemplate(fl validator.FieldLevel) bool {
	_, err := execrunner.ParseCommandTemplate(fl.Field().String())
	return err == nil
}
