package generator

import (
	"fmt"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/maksimkurb/hostconf/src/internal/sanitize"
)

const headerText = "Generated by hostconf. Manual changes are overwritten on the next apply."

// confBuilder accumulates indented configuration lines.
type confBuilder struct {
	sb     strings.Builder
	indent string
	depth  int
}

func newConfBuilder(indent, commentPrefix string) *confBuilder {
	b := &confBuilder{indent: indent}
	b.line(commentPrefix + " " + headerText)
	return b
}

func (b *confBuilder) line(s string) {
	for i := 0; i < b.depth; i++ {
		b.sb.WriteString(b.indent)
	}
	b.sb.WriteString(s)
	b.sb.WriteByte('\n')
}

func (b *confBuilder) linef(format string, args ...interface{}) {
	b.line(fmt.Sprintf(format, args...))
}

func (b *confBuilder) blank() {
	b.sb.WriteByte('\n')
}

func (b *confBuilder) open(s string) {
	b.line(s)
	b.depth++
}

func (b *confBuilder) close(s string) {
	if b.depth > 0 {
		b.depth--
	}
	b.line(s)
}

func (b *confBuilder) comment(prefix, text string) {
	b.line(prefix + " " + sanitize.CommentText(text))
}

func (b *confBuilder) String() string {
	return b.sb.String()
}

// stanza fills a {{placeholder}} template. Values must already be escaped.
func stanza(template string, values map[string]interface{}) string {
	return fasttemplate.ExecuteString(template, "{{", "}}", values)
}
