package sanitize

import "strings"

// Context is the syntactic position an escaped value is placed into.
type Context int

const (
	// QuotedString is the body of a double-quoted value; the caller adds the quotes.
	QuotedString Context = iota
	// BareArgument is an unquoted directive argument (addresses, prefixes, numbers, MACs).
	BareArgument
	// Comment is the text after a line comment opener.
	Comment
	// Hostname is a host name, DNS label sequence or server name token.
	Hostname
)

// Placeholder replaces empty input in contexts where an empty token would break the statement.
const Placeholder = "_"

const hexDigits = "0123456789ABCDEF"

func (c Context) String() string {
	switch c {
	case QuotedString:
		return "quoted-string"
	case BareArgument:
		return "bare-argument"
	case Comment:
		return "comment"
	case Hostname:
		return "hostname"
	}
	return "unknown"
}

// Escape makes raw safe for ctx.
func Escape(raw string, ctx Context) string {
	if raw == "" {
		if ctx == BareArgument || ctx == Hostname {
			return Placeholder
		}
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(raw))
	var prev byte
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		switch {
		case ctx == BareArgument && b == '/' && prev == '/':
			// "//" opens a comment in named.conf and dhcpd.conf.
			sb.WriteString("%2F")
			b = 0
		case allowed(b, ctx):
			sb.WriteByte(b)
		case ctx == Comment && isControl(b):
			sb.WriteByte(' ')
		default:
			sb.WriteByte('%')
			sb.WriteByte(hexDigits[b>>4])
			sb.WriteByte(hexDigits[b&0x0f])
		}
		prev = b
	}
	return sb.String()
}

// Quote escapes raw for QuotedString and wraps it in double quotes.
func Quote(raw string) string {
	return `"` + Escape(raw, QuotedString) + `"`
}

// Bare escapes raw for BareArgument.
func Bare(raw string) string {
	return Escape(raw, BareArgument)
}

// Host escapes raw for Hostname.
func Host(raw string) string {
	return Escape(raw, Hostname)
}

// CommentText escapes raw for Comment.
func CommentText(raw string) string {
	return Escape(raw, Comment)
}

func isControl(b byte) bool {
	return b < 0x20 || b == 0x7f
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// allowed reports whether b may appear verbatim in ctx. Non-ASCII bytes are never allowed.
func allowed(b byte, ctx Context) bool {
	if b >= 0x80 || isControl(b) {
		return false
	}
	if isAlnum(b) {
		return true
	}

	switch ctx {
	case QuotedString:
		// Quotes, backslash, statement terminators, comment openers, section
		// brackets and shell substitution characters are escaped.
		return !strings.ContainsRune("\"\\%;#$`<>{}*'|", rune(b))
	case BareArgument:
		return strings.IndexByte("._:/@+=-", b) >= 0
	case Comment:
		// "*" keeps block comment delimiters from forming; "\" prevents line continuation.
		return !strings.ContainsRune("%*\\", rune(b))
	case Hostname:
		return strings.IndexByte(".-_*", b) >= 0
	}
	return false
}
