// ABOUTME: Answer model pairing response text with its citation labels
// ABOUTME: Citations always match the retrieval rank order, never the model's usage
package models

import (
	"fmt"
	"strings"
)

// NoCitationsMarker is returned when retrieval produced no context
const NoCitationsMarker = "No citations found."

// Answer is a completed question-answer result
type Answer struct {
	Text      string   `json:"answer"`
	Citations []string `json:"citations"`
}

// CitationLabel formats the bracket label for a retrieved record at a 1-based rank
func CitationLabel(rank int, meta Metadata) string {
	return fmt.Sprintf("[%d] %s (%s)", rank, meta.Source, meta.SourceType)
}

// CitationBlock renders the citation list as a bulleted block
func (a *Answer) CitationBlock() string {
	if len(a.Citations) == 0 {
		return NoCitationsMarker
	}
	lines := make([]string, len(a.Citations))
	for i, c := range a.Citations {
		lines[i] = "- " + c
	}
	return strings.Join(lines, "\n")
}
