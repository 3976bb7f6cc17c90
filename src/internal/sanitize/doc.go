// Package sanitize escapes untrusted strings before they are embedded in
// generated daemon configuration.
//
// Escaping is context-sensitive: the Context names the syntactic position being
// filled. Every byte outside the context's allowed set is replaced with a %XX
// escape (the percent sign itself included), so the result can never close a
// quoted string, terminate a statement, open a comment, continue a line, or carry
// a command substitution into a daemon that hands values to a shell. Escape never
// fails; hostile input produces ugly but inert text.
package sanitize
