package schema

import (
	"fmt"
	"strings"

	"github.com/maksimkurb/hostconf/src/internal/models"
)

// Diagnostic is a single validation failure.
type Diagnostic struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Diagnostics is a collection of validation failures.
type Diagnostics []Diagnostic

// Error implements the error interface
func (d Diagnostics) Error() string {
	if len(d) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(d)))
	for i, diag := range d {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, diag.Path, diag.Message))
	}
	return sb.String()
}

// Result is either a valid configuration or the list of its defects.
type Result struct {
	Config      *models.ServiceConfig
	Diagnostics Diagnostics
}

// Valid reports whether the input was lifted into a ServiceConfig.
func (r Result) Valid() bool {
	return r.Config != nil && len(r.Diagnostics) == 0
}

// Err returns the diagnostics as an error, or nil for a valid result.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return r.Diagnostics
}

func join(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func index(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}
