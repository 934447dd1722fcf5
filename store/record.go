package store

// Metadata keys shared by every backend. Persisted names are part of the
// record format and must not change.
const (
	MetaTitle        = "title"
	MetaSourceType   = "source_type"
	MetaSourceID     = "source_id"
	MetaIndex        = "index"
	MetaRunID        = "run_id"
	MetaConversation = "conversation_id"
)

// Record is the persisted form of a chunk. Id is globally unique across
// ingestion runs ("{runId}:{sourceType}:{sourceId}:{index}") and records
// are immutable once added.
type Record struct {
	Id        string
	Content   string
	Metadata  map[string]any
	Embedding []float32
}

// Candidate is a record returned from a query, decorated with its cosine
// distance to the query vector.
type Candidate struct {
	Record
	Distance float64
}
