// Package ragapi implements the HTTP client for the remote knowledge-base
// service. Every operation attaches the configured API key as a bearer
// credential, applies the per-request timeout, and maps transport and
// status failures onto the domain error taxonomy. Calls are single-attempt;
// there is no retry policy.
package ragapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fengshao1227/woerk-rag-sub001/internal/domain"
	"github.com/fengshao1227/woerk-rag-sub001/internal/infra/telemetry"
)

type Client struct {
	cfg     domain.Config
	http    *http.Client
	logger  *zap.Logger
	metrics domain.Metrics
}

type Options struct {
	Config     domain.Config
	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    domain.Metrics
}

func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	return &Client{
		cfg:     opts.Config,
		http:    httpClient,
		logger:  logger.Named("ragapi"),
		metrics: metrics,
	}
}

// Query asks the backend to answer a question over the knowledge base.
func (c *Client) Query(ctx context.Context, question string, topK int) (domain.QueryAnswer, error) {
	const op = "ragapi.Query"
	if strings.TrimSpace(question) == "" {
		return domain.QueryAnswer{}, domain.E(domain.CodeInvalidArgument, op, "question must not be empty", nil)
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	var resp queryResponse
	err := c.do(ctx, op, http.MethodPost, "/query", queryRequest{Question: question, TopK: topK}, &resp)
	if err != nil {
		return domain.QueryAnswer{}, err
	}
	return domain.QueryAnswer{
		Answer:         resp.Answer,
		Sources:        resp.Sources,
		RetrievedCount: resp.RetrievedCount,
	}, nil
}

// Search runs a raw vector search. Threshold filtering happens on the
// server; results come back already pruned.
func (c *Client) Search(ctx context.Context, query string, topK int) ([]domain.SearchHit, error) {
	const op = "ragapi.Search"
	if strings.TrimSpace(query) == "" {
		return nil, domain.E(domain.CodeInvalidArgument, op, "query must not be empty", nil)
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	var resp searchResponse
	err := c.do(ctx, op, http.MethodPost, "/search", searchRequest{
		Query:          query,
		TopK:           topK,
		ScoreThreshold: c.cfg.ScoreThreshold,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// AddKnowledge submits content for ingestion. The backend reports via the
// ack's Async field whether the caller must poll a job or already has the
// inline result.
func (c *Client) AddKnowledge(ctx context.Context, content string, metadata map[string]string) (domain.IngestAck, error) {
	const op = "ragapi.AddKnowledge"
	if strings.TrimSpace(content) == "" {
		return domain.IngestAck{}, domain.E(domain.CodeInvalidArgument, op, "content must not be empty", nil)
	}
	if len(content) > domain.MaxContentSize {
		return domain.IngestAck{}, domain.E(domain.CodeInvalidArgument, op,
			fmt.Sprintf("content exceeds %d bytes", domain.MaxContentSize), nil)
	}
	var resp addKnowledgeResponse
	err := c.do(ctx, op, http.MethodPost, "/knowledge", addKnowledgeRequest{Content: content, Metadata: metadata}, &resp)
	if err != nil {
		return domain.IngestAck{}, err
	}
	if resp.Async && resp.JobID == "" {
		return domain.IngestAck{}, domain.E(domain.CodeRemote, op, "async ack without job id", nil)
	}
	return domain.IngestAck{Async: resp.Async, JobID: resp.JobID, Result: resp.Result}, nil
}

// IngestStatus reads the current state of an ingestion job.
func (c *Client) IngestStatus(ctx context.Context, jobID string) (domain.IngestJob, error) {
	const op = "ragapi.IngestStatus"
	if jobID == "" {
		return domain.IngestJob{}, domain.E(domain.CodeInvalidArgument, op, "job id must not be empty", nil)
	}
	var resp ingestStatusResponse
	err := c.do(ctx, op, http.MethodGet, "/knowledge/jobs/"+url.PathEscape(jobID), nil, &resp)
	if err != nil {
		return domain.IngestJob{}, err
	}
	return domain.IngestJob{
		ID:     resp.JobID,
		Status: domain.IngestStatus(resp.Status),
		Result: resp.Result,
		Error:  resp.Error,
	}, nil
}

// DeleteKnowledge removes a document. A missing id surfaces as NOT_FOUND.
func (c *Client) DeleteKnowledge(ctx context.Context, id string) (domain.DeleteAck, error) {
	const op = "ragapi.DeleteKnowledge"
	if id == "" {
		return domain.DeleteAck{}, domain.E(domain.CodeInvalidArgument, op, "id must not be empty", nil)
	}
	err := c.do(ctx, op, http.MethodDelete, "/knowledge/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return domain.DeleteAck{}, err
	}
	return domain.DeleteAck{Deleted: true, ID: id}, nil
}

// ListGroups enumerates knowledge groups with their document counts.
func (c *Client) ListGroups(ctx context.Context) ([]domain.GroupInfo, error) {
	const op = "ragapi.ListGroups"
	var resp listGroupsResponse
	if err := c.do(ctx, op, http.MethodGet, "/groups", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

// Stats fetches the backend's aggregate counts.
func (c *Client) Stats(ctx context.Context) (domain.KnowledgeStats, error) {
	const op = "ragapi.Stats"
	var resp statsResponse
	if err := c.do(ctx, op, http.MethodGet, "/stats", nil, &resp); err != nil {
		return domain.KnowledgeStats{}, err
	}
	return domain.KnowledgeStats{Documents: resp.Documents, Chunks: resp.Chunks, Groups: resp.Groups}, nil
}

// ValidateKey probes the auth endpoint with the given key. A 401 or 403
// means the key is definitively invalid, not a call failure.
func (c *Client) ValidateKey(ctx context.Context, key string) (bool, error) {
	const op = "ragapi.ValidateKey"
	start := time.Now()
	valid := false
	err := c.exchange(ctx, http.MethodGet, "/auth/validate", key, nil, func(resp *http.Response) error {
		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			valid = true
			return nil
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil
		default:
			return statusError("", resp)
		}
	})
	c.metrics.ObserveRemoteRequest(op, time.Since(start), err)
	if err != nil {
		return false, domain.Wrap(domain.CodeRemote, op, err)
	}
	return valid, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	start := time.Now()
	err := c.doOnce(ctx, method, path, body, out)
	c.metrics.ObserveRemoteRequest(op, time.Since(start), err)
	if err != nil {
		c.logger.Debug("remote call failed",
			zap.String("op", op),
			zap.String("path", path),
			zap.Error(err),
		)
		return domain.Wrap(domain.CodeRemote, op, err)
	}
	return nil
}

func (c *Client) doOnce(ctx context.Context, method, path string, body, out any) error {
	return c.exchange(ctx, method, path, c.cfg.APIKey, body, func(resp *http.Response) error {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return statusError("", resp)
		}
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return domain.E(domain.CodeRemote, "", "decode response", err)
		}
		return nil
	})
}

// exchange owns the shared request plumbing: body encoding, bearer and
// request-id headers, the per-request timeout, transport error mapping,
// and response draining. handle interprets the status and body.
func (c *Client) exchange(ctx context.Context, method, path, key string, body any, handle func(*http.Response) error) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return domain.E(domain.CodeInternal, "", "encode request", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return domain.E(domain.CodeInternal, "", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout())
	defer cancel()
	resp, err := c.http.Do(req.WithContext(reqCtx))
	if err != nil {
		return transportError("", err)
	}
	defer drainAndClose(resp.Body)
	return handle(resp)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	base := strings.TrimSuffix(c.cfg.APIBase, "/")
	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return nil, err
	}
	if id, ok := telemetry.RequestIDFromContext(ctx); ok {
		req.Header.Set(telemetry.RequestIDHeader, id)
	}
	return req, nil
}

func transportError(op string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.E(domain.CodeDeadlineExceeded, op, "request timed out", err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return domain.E(domain.CodeDeadlineExceeded, op, "request timed out", err)
	case errors.Is(err, context.Canceled):
		return domain.E(domain.CodeNetwork, op, "request canceled", err)
	default:
		return domain.E(domain.CodeNetwork, op, "connection failed", err)
	}
}

func statusError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload errorResponse
	message := ""
	if json.Unmarshal(raw, &payload) == nil {
		message = payload.text()
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	code := domain.CodeRemote
	if resp.StatusCode == http.StatusNotFound {
		code = domain.CodeNotFound
	}
	return &domain.Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf("backend returned %d: %s", resp.StatusCode, message),
		Meta:    map[string]string{"status": strconv.Itoa(resp.StatusCode)},
	}
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
