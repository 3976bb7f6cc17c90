package execrunner

import (
	"fmt"

	"github.com/google/shlex"
	"github.com/valyala/fasttemplate"
)

// CommandTemplate is a command line whose fields may contain {{placeholders}}.
// Fields are split with shell quoting rules before substitution, so a
// substituted value always stays inside the field it was written in.
type CommandTemplate struct {
	raw    string
	fields []string
}

// ParseCommandTemplate splits a command line template into fields.
// Single and double quotes group words into one field.
func ParseCommandTemplate(s string) (CommandTemplate, error) {
	fields, err := shlex.Split(s)
	if err != nil {
		return CommandTemplate{}, fmt.Errorf("invalid command template %q: %w", s, err)
	}
	if len(fields) == 0 {
		return CommandTemplate{}, fmt.Errorf("command template is empty")
	}
	for _, f := range fields {
		if _, err := fasttemplate.NewTemplate(f, "{{", "}}"); err != nil {
			return CommandTemplate{}, fmt.Errorf("invalid command template %q: %w", s, err)
		}
	}
	return CommandTemplate{raw: s, fields: fields}, nil
}

// MustParseCommandTemplate is ParseCommandTemplate for built-in defaults.
func MustParseCommandTemplate(s string) CommandTemplate {
	t, err := ParseCommandTemplate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// IsZero reports whether the template is unset.
func (t CommandTemplate) IsZero() bool {
	return len(t.fields) == 0
}

// Render substitutes values and returns the program and its arguments.
func (t CommandTemplate) Render(values map[string]string) (string, []string) {
	m := make(map[string]interface{}, len(values))
	for k, v := range values {
		m[k] = v
	}

	rendered := make([]string, len(t.fields))
	for i, f := range t.fields {
		rendered[i] = fasttemplate.ExecuteString(f, "{{", "}}", m)
	}
	return rendered[0], rendered[1:]
}

// String returns the template as written.
func (t CommandTemplate) String() string {
	return t.raw
}
