// Package gateway exposes the knowledge-base operations as MCP tools over
// a stdio transport. The dispatcher validates tool parameters before any
// remote call, routes to the API client (and the ingestion poller for
// asynchronous adds), and converts every failure into a structured error
// result; no error escapes the tool-call boundary.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fengshao1227/woerk-rag-sub001/internal/buildinfo"
	"github.com/fengshao1227/woerk-rag-sub001/internal/domain"
	"github.com/fengshao1227/woerk-rag-sub001/internal/infra/telemetry"
)

// KnowledgeClient is the remote API surface consumed by the dispatcher.
type KnowledgeClient interface {
	Query(ctx context.Context, question string, topK int) (domain.QueryAnswer, error)
	Search(ctx context.Context, query string, topK int) ([]domain.SearchHit, error)
	AddKnowledge(ctx context.Context, content string, metadata map[string]string) (domain.IngestAck, error)
	DeleteKnowledge(ctx context.Context, id string) (domain.DeleteAck, error)
	ListGroups(ctx context.Context) ([]domain.GroupInfo, error)
	Stats(ctx context.Context) (domain.KnowledgeStats, error)
}

// KeyChecker reports whether the configured API key is currently valid.
type KeyChecker interface {
	IsValid(ctx context.Context, key string) (bool, error)
}

// JobAwaiter blocks on an asynchronous ingestion job until it resolves.
type JobAwaiter interface {
	Await(ctx context.Context, jobID string) (domain.IngestJob, error)
}

type Gateway struct {
	cfg     domain.Config
	client  KnowledgeClient
	keys    KeyChecker
	jobs    JobAwaiter
	logger  *zap.Logger
	metrics domain.Metrics
	server  *mcp.Server
}

type Options struct {
	Config  domain.Config
	Client  KnowledgeClient
	Keys    KeyChecker
	Jobs    JobAwaiter
	Logger  *zap.Logger
	Metrics domain.Metrics
}

func NewGateway(opts Options) (*Gateway, error) {
	if opts.Client == nil {
		return nil, errors.New("knowledge client is required")
	}
	if opts.Keys == nil {
		return nil, errors.New("key checker is required")
	}
	if opts.Jobs == nil {
		return nil, errors.New("job awaiter is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}

	g := &Gateway{
		cfg:     opts.Config,
		client:  opts.Client,
		keys:    opts.Keys,
		jobs:    opts.Jobs,
		logger:  logger.Named("gateway"),
		metrics: metrics,
	}

	g.server = mcp.NewServer(&mcp.Implementation{
		Name:    "ragmcp",
		Version: buildinfo.Version,
	}, &mcp.ServerOptions{
		HasTools: true,
	})
	g.registerTools()
	return g, nil
}

// Server exposes the underlying MCP server, used by tests to connect over
// in-memory transports.
func (g *Gateway) Server() *mcp.Server {
	return g.server
}

// Run serves tool calls over stdio until the host disconnects or the
// context is canceled.
func (g *Gateway) Run(ctx context.Context) error {
	g.logger.Info("gateway starting (stdio transport)")
	return g.server.Run(ctx, &mcp.StdioTransport{})
}

// toolExec runs a tool body whose parameters already passed validation.
type toolExec func(ctx context.Context) (any, error)

// handle wraps a tool with the shared dispatch concerns: request id,
// parameter validation, key validation, metrics, and conversion of
// failures into error results.
func (g *Gateway) handle(tool string, checkKey bool, prepare func(args json.RawMessage) (toolExec, error)) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		ctx = telemetry.WithRequestID(ctx, telemetry.NewRequestID())

		payload, err := g.dispatch(ctx, checkKey, json.RawMessage(req.Params.Arguments), prepare)
		g.metrics.ObserveToolCall(tool, time.Since(start), err)
		if err != nil {
			g.logger.Warn("tool call failed",
				zap.String("tool", tool),
				zap.String("code", string(domain.CodeFrom(err))),
				zap.Error(err),
			)
			return errorResult(err), nil
		}
		return successResult(payload)
	}
}

// dispatch decodes and validates parameters before consulting the key
// cache, so a malformed call never triggers a remote validation probe.
func (g *Gateway) dispatch(ctx context.Context, checkKey bool, args json.RawMessage, prepare func(args json.RawMessage) (toolExec, error)) (any, error) {
	exec, err := prepare(args)
	if err != nil {
		return nil, err
	}
	if checkKey {
		valid, err := g.keys.IsValid(ctx, g.cfg.APIKey)
		if err != nil {
			return nil, err
		}
		if !valid {
			return nil, domain.E(domain.CodeUnauthenticated, "gateway.dispatch",
				"API key was rejected by the knowledge-base service", nil)
		}
	}
	return exec(ctx)
}

func successResult(payload any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errorResult(domain.E(domain.CodeInternal, "gateway.successResult", "encode result", err)), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(raw)},
		},
		StructuredContent: payload,
	}, nil
}

func errorResult(err error) *mcp.CallToolResult {
	code := domain.CodeFrom(err)
	structured := map[string]any{
		"code":    string(code),
		"message": err.Error(),
	}
	if meta := domain.MetaFrom(err); len(meta) > 0 {
		for key, value := range meta {
			structured[key] = value
		}
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %s", err.Error())},
		},
		StructuredContent: structured,
	}
}
