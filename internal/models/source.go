// ABOUTME: Source type vocabulary for ingested documents
// ABOUTME: Maps file extensions to source types and validates type tags
package models

import (
	"fmt"
	"strings"
)

// SourceType tags where an ingested document came from
type SourceType string

const (
	SourceWeb     SourceType = "web"
	SourceYouTube SourceType = "youtube"
	SourcePDF     SourceType = "pdf"
	SourceDOCX    SourceType = "docx"
	SourceTXT     SourceType = "txt"
)

// ParseSourceType validates a source type tag against the fixed vocabulary
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(strings.ToLower(strings.TrimSpace(s))) {
	case SourceWeb:
		return SourceWeb, nil
	case SourceYouTube:
		return SourceYouTube, nil
	case SourcePDF:
		return SourcePDF, nil
	case SourceDOCX:
		return SourceDOCX, nil
	case SourceTXT:
		return SourceTXT, nil
	default:
		return "", fmt.Errorf("%w: %q (expected web, youtube, pdf, docx, or txt)", ErrUnsupportedSourceType, s)
	}
}

// SourceTypeForExtension maps a file extension to a source type.
// Only plain-text files can be read directly; PDF and DOCX content
// must be extracted upstream and ingested as text with an explicit type.
func SourceTypeForExtension(ext string) (SourceType, error) {
	switch strings.ToLower(ext) {
	case ".txt", ".md":
		return SourceTXT, nil
	case ".pdf", ".docx":
		return "", fmt.Errorf("%w: %s files must be extracted to text before ingestion", ErrUnsupportedSourceType, ext)
	default:
		return "", fmt.Errorf("%w: %q (use .txt, or pass extracted text with an explicit type)", ErrUnsupportedSourceType, ext)
	}
}
