package domain

// QuerySource is one retrieved document fragment backing an answer.
type QuerySource struct {
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// QueryAnswer is the result of a RAG query.
type QueryAnswer struct {
	Answer         string        `json:"answer"`
	Sources        []QuerySource `json:"sources"`
	RetrievedCount int           `json:"retrieved_count"`
}

// SearchHit is one vector-search result. Results below the configured
// score threshold are filtered by the remote service, not locally.
type SearchHit struct {
	Content  string            `json:"content"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// GroupInfo describes one knowledge group on the backend.
type GroupInfo struct {
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
}

// KnowledgeStats is the backend's aggregate inventory.
type KnowledgeStats struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
	Groups    int `json:"groups"`
}

// IngestStatus is the lifecycle state of a backend ingestion job.
type IngestStatus string

const (
	IngestPending   IngestStatus = "pending"
	IngestRunning   IngestStatus = "running"
	IngestSucceeded IngestStatus = "succeeded"
	IngestFailed    IngestStatus = "failed"
)

// Terminal reports whether the status ends the job's lifecycle.
func (s IngestStatus) Terminal() bool {
	return s == IngestSucceeded || s == IngestFailed
}

// IngestResult is the payload reported for a completed ingestion.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
}

// IngestJob is the ephemeral view of a backend ingestion job. It exists
// only for the duration of one add-knowledge call.
type IngestJob struct {
	ID     string        `json:"id"`
	Status IngestStatus  `json:"status"`
	Result *IngestResult `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// IngestAck acknowledges an add-knowledge submission. Async carries the
// backend's explicit discriminator: when true, JobID identifies the job
// to poll; when false, Result holds the inline outcome.
type IngestAck struct {
	Async  bool          `json:"async"`
	JobID  string        `json:"job_id,omitempty"`
	Result *IngestResult `json:"result,omitempty"`
}

// DeleteAck acknowledges a delete-knowledge call.
type DeleteAck struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}
