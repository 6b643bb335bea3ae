// Package document loads source material (PDF guides, blog posts, plain
// text) and prepares it for chunking: raw extraction, cleanup of
// PDF-conversion artifacts, and heading-based sectioning.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Source type values recorded in chunk metadata.
const (
	SourceTypePDF  = "pdf"
	SourceTypeText = "text"
	SourceTypeWeb  = "web"
)

// Document is a loaded source document. Immutable after load.
type Document struct {
	ID         string
	Source     string // file path or URL
	Title      string
	SourceType string
	Text       string // cleaned text
	LoadedAt   time.Time
}

// SupportedExtensions are the file types the loader accepts.
var SupportedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// NewID derives a stable document ID from the source path or URL.
func NewID(source string) string {
	hash := sha256.Sum256([]byte(source))
	return "doc_" + hex.EncodeToString(hash[:16])
}
