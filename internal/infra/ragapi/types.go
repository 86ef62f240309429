package ragapi

import "github.com/fengshao1227/woerk-rag-sub001/internal/domain"

// Wire shapes for the knowledge-base HTTP API. The adapter owns only the
// serialization; paths and field names are the remote service's contract.

type queryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

type queryResponse struct {
	Answer         string               `json:"answer"`
	Sources        []domain.QuerySource `json:"sources"`
	RetrievedCount int                  `json:"retrieved_count"`
}

type searchRequest struct {
	Query          string  `json:"query"`
	TopK           int     `json:"top_k"`
	ScoreThreshold float64 `json:"score_threshold"`
}

type searchResponse struct {
	Results []domain.SearchHit `json:"results"`
}

type addKnowledgeRequest struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type addKnowledgeResponse struct {
	Async  bool                 `json:"async"`
	JobID  string               `json:"job_id,omitempty"`
	Result *domain.IngestResult `json:"result,omitempty"`
}

type ingestStatusResponse struct {
	JobID  string               `json:"job_id"`
	Status string               `json:"status"`
	Result *domain.IngestResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

type listGroupsResponse struct {
	Groups []domain.GroupInfo `json:"groups"`
}

type statsResponse struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
	Groups    int `json:"groups"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e errorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
