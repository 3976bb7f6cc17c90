package models

import (
	"crypto/sha256"
	"encoding/hex"
)

// GeneratedDocument is rendered configuration text bound to the file it replaces.
// It is never mutated after NewGeneratedDocument returns.
type GeneratedDocument struct {
	Kind ServiceKind `json:"kind"`
	// Path is the daemon's live configuration path.
	Path     string `json:"path"`
	Content  string `json:"content"`
	Checksum string `json:"checksum"`
	// Label names a companion document (the zone of a DNS zone file).
	Label string `json:"label,omitempty"`
	// Companions are files that must be deployed together with this one.
	Companions []*GeneratedDocument `json:"companions,omitempty"`
}

// NewGeneratedDocument builds a document and computes its checksum.
func NewGeneratedDocument(kind ServiceKind, path, content string, companions ...*GeneratedDocument) *GeneratedDocument {
	return &GeneratedDocument{
		Kind:       kind,
		Path:       path,
		Content:    content,
		Checksum:   Checksum([]byte(content)),
		Companions: companions,
	}
}

// NewCompanionDocument builds a labelled companion, such as the zone file of one DNS zone.
func NewCompanionDocument(kind ServiceKind, path, label, content string) *GeneratedDocument {
	doc := NewGeneratedDocument(kind, path, content)
	doc.Label = label
	return doc
}

// Files returns the companions followed by the document itself, the order in which they are deployed.
func (d *GeneratedDocument) Files() []*GeneratedDocument {
	files := make([]*GeneratedDocument, 0, len(d.Companions)+1)
	files = append(files, d.Companions...)
	return append(files, d)
}

// Checksum returns the hex-encoded SHA-256 of content.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
