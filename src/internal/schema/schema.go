package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/maksimkurb/hostconf/src/internal/models"
)

const rootPath = "(root)"

// Validate checks an untyped configuration object for the given service kind.
// input is typically the result of decoding JSON into interface{}.
func Validate(kind models.ServiceKind, input interface{}) Result {
	r := newReader()

	obj, ok := input.(map[string]interface{})
	if !ok {
		r.fail(rootPath, "must be an object")
		return Result{Diagnostics: r.diags}
	}

	var cfg *models.ServiceConfig
	switch kind {
	case models.KindDNS:
		dnsCfg := readDNS(r, obj)
		validateStruct(r, dnsCfg)
		checkDNS(r, dnsCfg)
		cfg = models.NewDNSConfig(dnsCfg)
	case models.KindDHCP:
		dhcpCfg := readDHCP(r, obj)
		validateStruct(r, dhcpCfg)
		checkDHCP(r, dhcpCfg)
		cfg = models.NewDHCPConfig(dhcpCfg)
	case models.KindHTTP:
		httpCfg := readHTTP(r, obj)
		validateStruct(r, httpCfg)
		checkHTTP(r, httpCfg)
		cfg = models.NewHTTPConfig(httpCfg)
	default:
		r.fail(rootPath, fmt.Sprintf("unknown service kind %q", kind))
		return Result{Diagnostics: r.diags}
	}

	if len(r.diags) > 0 {
		return Result{Diagnostics: r.diags}
	}
	return Result{Config: cfg}
}

// ValidateJSON decodes data and validates it with Validate.
// Malformed JSON produces a single diagnostic at the root.
func ValidateJSON(kind models.ServiceKind, data []byte) Result {
	input, err := decodeJSON(data)
	if err != nil {
		return Result{Diagnostics: Diagnostics{{Path: rootPath, Message: fmt.Sprintf("invalid JSON: %v", err)}}}
	}
	return Validate(kind, input)
}

// Revalidate runs a typed configuration through the same checks as untyped input.
func Revalidate(cfg *models.ServiceConfig) Result {
	data, err := json.Marshal(cfg)
	if err != nil {
		return Result{Diagnostics: Diagnostics{{Path: rootPath, Message: err.Error()}}}
	}
	return ValidateJSON(cfg.Kind, data)
}

func decodeJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var input interface{}
	if err := dec.Decode(&input); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after the top-level value")
	}
	return input, nil
}
