package schema

import (
	"fmt"
	"net"
	"path"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/miekg/dns"

	"github.com/maksimkurb/hostconf/src/internal/models"
)

var (
	labelRegexp     = regexp.MustCompile(`^[A-Za-z0-9_]([A-Za-z0-9_-]{0,61}[A-Za-z0-9_])?$`)
	directiveRegexp = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
)

// deniedDirectives load code, read other files or open arbitrary files for writing.
var deniedDirectives = map[string]bool{
	"loadmodule":       true,
	"loadfile":         true,
	"include":          true,
	"includeoptional":  true,
	"errorlog":         true,
	"customlog":        true,
	"transferlog":      true,
	"globallog":        true,
	"rewritemap":       true,
	"scriptalias":      true,
	"scriptaliasmatch": true,
	"scriptsock":       true,
	"define":           true,
	"undefine":         true,
}

var aclKeywords = map[string]bool{
	"any":       true,
	"none":      true,
	"localhost": true,
	"localnets": true,
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	custom := map[string]validator.Func{
		"dns_name":       validateDNSNameTag,
		"record_name":    validateRecordName,
		"rr_type":        validateRRType,
		"acl_entry":      validateACLEntry,
		"dhcp_option":    validateDHCPOption,
		"server_name":    validateServerName,
		"abs_path":       validateAbsPath,
		"directive_name": validateDirectiveName,
	}
	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	// Register function to get field name from "json" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "ip":
		return "must be a valid IP address"
	case "ipv4":
		return "must be a valid IPv4 address"
	case "cidrv4":
		return "must be an IPv4 network in CIDR notation, e.g. 10.0.0.0/24"
	case "mac":
		return "must be a valid MAC address"
	case "email":
		return "must be a valid email address"
	case "hostname_rfc1123":
		return "must be a valid host name"
	case "dns_name":
		return "must be a valid domain name"
	case "record_name":
		return "must be @, a relative name or an absolute name ending with a dot"
	case "rr_type":
		return fmt.Sprintf("must be one of: %s", strings.Join(models.SupportedRecordTypes, " "))
	case "acl_entry":
		return "must be an IP address, a CIDR prefix or one of: any none localhost localnets"
	case "dhcp_option":
		return "must be a supported DHCP option name"
	case "server_name":
		return "must be a host name, optionally starting with *."
	case "abs_path":
		return "must be an absolute path"
	case "directive_name":
		return "must be a plain directive name that does not load modules, include files or open logs"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// validateStruct runs the struct tag rules and reports failures on r.
// Failures on paths already reported by the reader are dropped.
func validateStruct(r *reader, v interface{}) {
	err := validate.Struct(v)
	if err == nil {
		return
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		r.report("(root)", err.Error())
		return
	}

	for _, e := range validationErrs {
		r.report(fieldPath(e.Namespace()), getValidationMessage(e))
	}
}

// fieldPath strips the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// isDomainName accepts relative or absolute host-style domain names.
func isDomainName(name string) bool {
	if name == "" || len(name) > 253 {
		return false
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return false
	}
	trimmed := strings.TrimSuffix(name, ".")
	if trimmed == "" {
		return false
	}
	for _, label := range strings.Split(trimmed, ".") {
		if !labelRegexp.MatchString(label) {
			return false
		}
	}
	return true
}

func validateDNSNameTag(fl validator.FieldLevel) bool {
	return isDomainName(fl.Field().String())
}

func validateRecordName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "@" {
		return true
	}
	if name == "*" {
		return true
	}
	return isDomainName(strings.TrimPrefix(name, "*."))
}

// isSupportedRecordType reports whether t names an RR type the generator renders.
func isSupportedRecordType(t string) bool {
	if _, ok := dns.StringToType[t]; !ok {
		return false
	}
	for _, supported := range models.SupportedRecordTypes {
		if t == supported {
			return true
		}
	}
	return false
}

func validateRRType(fl validator.FieldLevel) bool {
	return isSupportedRecordType(fl.Field().String())
}

func validateACLEntry(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if aclKeywords[value] {
		return true
	}
	if ip := net.ParseIP(value); ip != nil {
		return true
	}
	_, _, err := net.ParseCIDR(value)
	return err == nil
}

func validateDHCPOption(fl validator.FieldLevel) bool {
	_, ok := models.LookupDHCPOption(fl.Field().String())
	return ok
}

func validateServerName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if strings.HasSuffix(name, ".") {
		return false
	}
	return isDomainName(strings.TrimPrefix(name, "*."))
}

func validateAbsPath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if !strings.HasPrefix(p, "/") {
		return false
	}
	if strings.ContainsAny(p, "\x00\n\r") {
		return false
	}
	return path.Clean(p) == p || path.Clean(p)+"/" == p
}

func validateDirectiveName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if !directiveRegexp.MatchString(name) {
		return false
	}
	return !deniedDirectives[strings.ToLower(name)]
}
