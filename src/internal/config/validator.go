package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maksimkurb/hostconf/src/internal/models"
)

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	// Validate general config
	if c.General == nil {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "general",
			Message:   "configuration must contain 'general' section",
		})
		return validationErrors
	}

	if err := validate.Struct(c.General); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "general", "")...)
	}

	// Validate services
	if len(c.ManagedKinds()) == 0 {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "services",
			Message:   "configuration must enable at least one of services.dns, services.dhcp or services.http",
		})
	} else {
		validationErrors = append(validationErrors, c.validateServices()...)
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

func (c *Config) validateServices() ValidationErrors {
	var validationErrors ValidationErrors

	// Track duplicates
	seenPaths := make(map[string]models.ServiceKind)

	for _, kind := range c.ManagedKinds() {
		svc := c.Services.Service(kind)
		itemName := string(kind)
		prefix := "services." + itemName

		// Validate struct fields
		if err := validate.Struct(svc); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, prefix, itemName)...)
		}

		// Check that no two services own the same file
		if other, ok := seenPaths[svc.ConfigPath]; ok {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: prefix + ".config_path",
				Message:   fmt.Sprintf("config_path is already used by services.%s", other),
			})
		}
		seenPaths[svc.ConfigPath] = kind

		// Validate template variables
		validationErrors = append(validationErrors, requireVariables(itemName, prefix+".control_command", svc.ControlCommand, "action", "unit")...)
		validationErrors = append(validationErrors, requireVariables(itemName, prefix+".check_command", svc.CheckCommand, "path")...)

		if kind == models.KindDNS {
			if svc.ZoneDir == "" {
				validationErrors = append(validationErrors, ValidationError{
					ItemName:  itemName,
					FieldPath: prefix + ".zone_dir",
					Message:   "field is required",
				})
			}
			if svc.ZoneCheckCommand != "" {
				validationErrors = append(validationErrors, requireVariables(itemName, prefix+".zone_check_command", svc.ZoneCheckCommand, "zone", "path")...)
			}
		}
	}

	return validationErrors
}

// requireVariables reports every {{variable}} missing from a command template.
func requireVariables(itemName, fieldPath, command string, variables ...string) ValidationErrors {
	if command == "" {
		return nil
	}
	var validationErrors ValidationErrors
	for _, v := range variables {
		if !strings.Contains(command, "{{"+v+"}}") {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   fmt.Sprintf("must contain {{%s}}", v),
			})
		}
	}
	return validationErrors
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				// Namespace is "<Struct>.<toml path>"; drop the struct name
				namespace := e.Namespace()
				if i := strings.Index(namespace, "."); i >= 0 {
					namespace = namespace[i+1:]
				}

				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + namespace
				} else {
					fieldPath = namespace
				}
			}

			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
	}

	return validationErrors
}
