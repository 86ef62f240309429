package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fengshao1227/woerk-rag-sub001/internal/buildinfo"
	"github.com/fengshao1227/woerk-rag-sub001/internal/domain"
)

func (g *Gateway) registerTools() {
	queryTool := QueryTool()
	g.server.AddTool(&queryTool, g.handle("rag.query", true, g.prepareQuery))

	searchTool := SearchTool()
	g.server.AddTool(&searchTool, g.handle("rag.search", true, g.prepareSearch))

	addTool := AddKnowledgeTool()
	g.server.AddTool(&addTool, g.handle("rag.add_knowledge", true, g.prepareAddKnowledge))

	deleteTool := DeleteKnowledgeTool()
	g.server.AddTool(&deleteTool, g.handle("rag.delete_knowledge", true, g.prepareDeleteKnowledge))

	groupsTool := ListGroupsTool()
	g.server.AddTool(&groupsTool, g.handle("rag.list_groups", true, g.prepareListGroups))

	statsTool := StatsTool()
	g.server.AddTool(&statsTool, g.handle("rag.stats", true, g.prepareStats))

	healthTool := HealthTool()
	g.server.AddTool(&healthTool, g.handle("rag.health", false, g.prepareHealth))
}

// QueryTool returns the MCP tool definition for rag.query.
func QueryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rag.query",
		Description: "Ask a question over the knowledge base. Returns a synthesized answer plus the retrieved source fragments with relevance scores.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{
					"type":        "string",
					"description": "The question to answer from the knowledge base.",
				},
				"top_k": map[string]any{
					"type":        "integer",
					"description": "How many source fragments to retrieve (1-50, default 5).",
				},
			},
			"required": []string{"question"},
		},
	}
}

// SearchTool returns the MCP tool definition for rag.search.
func SearchTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rag.search",
		Description: "Raw vector search over the knowledge base. Returns matching chunks with scores; results below the configured score threshold are filtered by the service.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search text to embed and match against stored chunks.",
				},
				"top_k": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results (1-50, default 5).",
				},
			},
			"required": []string{"query"},
		},
	}
}

// AddKnowledgeTool returns the MCP tool definition for rag.add_knowledge.
func AddKnowledgeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rag.add_knowledge",
		Description: "Add a document to the knowledge base. Ingestion may run asynchronously on the backend; this call waits for completion and reports the final outcome.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"content": map[string]any{
					"type":        "string",
					"description": "Document text to ingest.",
				},
				"metadata": map[string]any{
					"type":        "object",
					"description": "Optional string-valued metadata attached to the document (e.g. source, group).",
					"additionalProperties": map[string]any{
						"type": "string",
					},
				},
			},
			"required": []string{"content"},
		},
	}
}

// DeleteKnowledgeTool returns the MCP tool definition for rag.delete_knowledge.
func DeleteKnowledgeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rag.delete_knowledge",
		Description: "Delete a document from the knowledge base by its identifier.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "Identifier of the document to delete.",
				},
			},
			"required": []string{"id"},
		},
	}
}

// ListGroupsTool returns the MCP tool definition for rag.list_groups.
func ListGroupsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rag.list_groups",
		Description: "List knowledge groups with their document counts.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

// StatsTool returns the MCP tool definition for rag.stats.
func StatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rag.stats",
		Description: "Report aggregate knowledge-base statistics: documents, chunks, and groups.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

// HealthTool returns the MCP tool definition for rag.health.
func HealthTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rag.health",
		Description: "Liveness and configuration info for the adapter itself.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

type queryParams struct {
	Question string `json:"question"`
	TopK     *int   `json:"top_k"`
}

type searchParams struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k"`
}

type addKnowledgeParams struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

type deleteKnowledgeParams struct {
	ID string `json:"id"`
}

// The prepare functions decode and validate parameters without touching
// the network; the returned exec performs the remote work.

func (g *Gateway) prepareQuery(args json.RawMessage) (toolExec, error) {
	var params queryParams
	if err := decodeParams(args, &params); err != nil {
		return nil, err
	}
	if params.Question == "" {
		return nil, invalidParam("question is required")
	}
	topK, err := resolveTopK(params.TopK)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) (any, error) {
		return g.client.Query(ctx, params.Question, topK)
	}, nil
}

func (g *Gateway) prepareSearch(args json.RawMessage) (toolExec, error) {
	var params searchParams
	if err := decodeParams(args, &params); err != nil {
		return nil, err
	}
	if params.Query == "" {
		return nil, invalidParam("query is required")
	}
	topK, err := resolveTopK(params.TopK)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) (any, error) {
		hits, err := g.client.Search(ctx, params.Query, topK)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"results": hits,
			"count":   len(hits),
		}, nil
	}, nil
}

func (g *Gateway) prepareAddKnowledge(args json.RawMessage) (toolExec, error) {
	var params addKnowledgeParams
	if err := decodeParams(args, &params); err != nil {
		return nil, err
	}
	if params.Content == "" {
		return nil, invalidParam("content is required")
	}
	return func(ctx context.Context) (any, error) {
		ack, err := g.client.AddKnowledge(ctx, params.Content, params.Metadata)
		if err != nil {
			return nil, err
		}
		if !ack.Async {
			return map[string]any{
				"status": string(domain.IngestSucceeded),
				"result": ack.Result,
			}, nil
		}

		job, err := g.jobs.Await(ctx, ack.JobID)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"status": string(job.Status),
			"job_id": job.ID,
			"result": job.Result,
		}, nil
	}, nil
}

func (g *Gateway) prepareDeleteKnowledge(args json.RawMessage) (toolExec, error) {
	var params deleteKnowledgeParams
	if err := decodeParams(args, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, invalidParam("id is required")
	}
	return func(ctx context.Context) (any, error) {
		return g.client.DeleteKnowledge(ctx, params.ID)
	}, nil
}

func (g *Gateway) prepareListGroups(_ json.RawMessage) (toolExec, error) {
	return func(ctx context.Context) (any, error) {
		groups, err := g.client.ListGroups(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"groups": groups,
			"count":  len(groups),
		}, nil
	}, nil
}

func (g *Gateway) prepareStats(_ json.RawMessage) (toolExec, error) {
	return func(ctx context.Context) (any, error) {
		return g.client.Stats(ctx)
	}, nil
}

func (g *Gateway) prepareHealth(_ json.RawMessage) (toolExec, error) {
	return func(ctx context.Context) (any, error) {
		keyValid, err := g.keys.IsValid(ctx, g.cfg.APIKey)
		if err != nil {
			// Health stays informative when the backend is unreachable.
			keyValid = false
		}
		return map[string]any{
			"name":      "ragmcp",
			"version":   buildinfo.Version,
			"endpoint":  g.cfg.APIBase,
			"key_valid": keyValid,
			"time_utc":  time.Now().UTC().Format(time.RFC3339),
		}, nil
	}, nil
}

func decodeParams(args json.RawMessage, out any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, out); err != nil {
		return domain.E(domain.CodeInvalidArgument, "gateway.decodeParams",
			fmt.Sprintf("malformed parameters: %s", err.Error()), err)
	}
	return nil
}

func resolveTopK(topK *int) (int, error) {
	if topK == nil {
		return domain.DefaultTopK, nil
	}
	if *topK < 1 || *topK > domain.MaxTopK {
		return 0, invalidParam(fmt.Sprintf("top_k must be between 1 and %d", domain.MaxTopK))
	}
	return *topK, nil
}

func invalidParam(message string) error {
	return domain.E(domain.CodeInvalidArgument, "gateway.validate", message, nil)
}
