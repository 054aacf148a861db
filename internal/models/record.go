// ABOUTME: Core data model for chunks, indexed records, and retrieval results
// ABOUTME: Metadata has a fixed shape enforced by the index write contract
package models

// Chunk is one token-window substring of a source document
type Chunk struct {
	Content    string     `json:"content"`
	Index      int        `json:"index"`
	Source     string     `json:"source"`
	SourceType SourceType `json:"source_type"`
}

// Metadata is the fixed per-record metadata shape
type Metadata struct {
	Source     string     `json:"source"`
	SourceType SourceType `json:"source_type"`
	ChunkIndex int        `json:"chunk_index"`
}

// Label renders the "name (type)" form used for source listings
func (m Metadata) Label() string {
	return m.Source + " (" + string(m.SourceType) + ")"
}

// Record is a stored (id, text, vector, metadata) tuple in a session's index
type Record struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	Vector  []float64 `json:"vector"`
	Meta    Metadata  `json:"metadata"`
}

// SearchResult is one retrieved record with its similarity to the query
type SearchResult struct {
	Content    string   `json:"content"`
	Meta       Metadata `json:"metadata"`
	Similarity float64  `json:"similarity"`
}
