// Package directory is the REST client for the officials directory service.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"civiclink/internal/officials"
	"civiclink/internal/platform/metrics"
	dErrors "civiclink/pkg/domain-errors"
	"civiclink/pkg/platform/circuit"
)

const (
	// DefaultBaseURL is the hosted directory service.
	DefaultBaseURL = "https://civiclink-backend-g3.onrender.com"

	officialsPath = "/api/v1/officials"
	maxBodyBytes  = 4 << 20
)

// Client is a stateless wrapper over the directory service. It holds no
// caches and is safe for concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	breaker *circuit.Breaker
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithBreaker makes the client fail fast with network_error while the
// breaker is open. Only transport failures and non-2xx statuses count
// against it.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

// New creates a directory client for baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: slog.Default(),
		tracer: otel.Tracer("civiclink/directory"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the service's response wrapper.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// ListAll returns every official in service order.
func (c *Client) ListAll(ctx context.Context) ([]officials.RestRecord, error) {
	data, err := c.get(ctx, "ListAll", officialsPath)
	if err != nil {
		return nil, err
	}

	var records []officials.RestRecord
	if isNull(data) {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDecodeError, "decode officials list")
	}
	return records, nil
}

// GetByID returns one official. An unknown id yields a not_found error,
// never a zero record.
func (c *Client) GetByID(ctx context.Context, id string) (officials.RestRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return officials.RestRecord{}, dErrors.New(dErrors.CodeNotFound, "official id is empty")
	}

	data, err := c.get(ctx, "GetByID", officialsPath+"/"+url.PathEscape(id))
	if err != nil {
		return officials.RestRecord{}, err
	}
	if isEmpty(data) {
		return officials.RestRecord{}, dErrors.Newf(dErrors.CodeNotFound, "official %s not found", id)
	}

	var record officials.RestRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return officials.RestRecord{}, dErrors.Wrap(err, dErrors.CodeDecodeError, "decode official")
	}
	if record.Identifier() == "" && record.Name == "" {
		return officials.RestRecord{}, dErrors.Newf(dErrors.CodeNotFound, "official %s not found", id)
	}
	return record, nil
}

// get issues a GET and returns the raw "data" member of the envelope.
func (c *Client) get(ctx context.Context, op, path string) (data json.RawMessage, err error) {
	endpoint := c.baseURL + path
	ctx, span := c.tracer.Start(ctx, "directory."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.full", endpoint),
		),
	)
	start := time.Now()
	if c.breaker != nil && !c.breaker.Allow() {
		span.End()
		return nil, dErrors.Newf(dErrors.CodeNetworkError, "GET %s: directory circuit open", path)
	}
	// unhealthy marks transport failures and 5xx, the only outcomes that
	// count against the breaker.
	unhealthy := false
	defer func() {
		c.record(ctx, unhealthy)
		c.metrics.ObserveBackendCall("directory", op, metrics.Outcome(err), time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNetworkError, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		unhealthy = true
		return nil, dErrors.Wrap(err, dErrors.CodeNetworkError, fmt.Sprintf("GET %s", path))
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		unhealthy = true
		return nil, dErrors.Wrap(err, dErrors.CodeNetworkError, "read response body")
	}

	switch {
	case notFoundStatus(resp.StatusCode):
		return nil, dErrors.Newf(dErrors.CodeNotFound, "GET %s: status %d", path, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		unhealthy = resp.StatusCode >= 500
		c.logger.WarnContext(ctx, "directory returned non-2xx",
			"path", path,
			"status", resp.StatusCode,
		)
		return nil, dErrors.Newf(dErrors.CodeNetworkError, "GET %s: status %d", path, resp.StatusCode)
	}
	if len(body) > maxBodyBytes {
		return nil, dErrors.Newf(dErrors.CodeDecodeError, "GET %s: response too large (over %d bytes)", path, maxBodyBytes)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDecodeError, "response is not JSON")
	}
	if env.Data == nil {
		return nil, dErrors.New(dErrors.CodeDecodeError, "response has no data envelope")
	}
	return env.Data, nil
}

// record feeds the call outcome to the breaker. Caller cancellation says
// nothing about backend health and is not counted.
func (c *Client) record(ctx context.Context, unhealthy bool) {
	if c.breaker == nil || ctx.Err() != nil {
		return
	}
	if unhealthy {
		if _, change := c.breaker.RecordFailure(); change.Opened {
			c.logger.WarnContext(ctx, "directory circuit opened", "breaker", c.breaker.Name())
		}
		return
	}
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "directory circuit closed", "breaker", c.breaker.Name())
	}
}

// notFoundStatus reports the statuses the service answers for an id it
// cannot resolve: unknown, malformed, or deleted.
func notFoundStatus(code int) bool {
	switch code {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusGone, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// isEmpty reports a null, empty array or empty object payload.
func isEmpty(raw json.RawMessage) bool {
	if isNull(raw) {
		return true
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch v := v.(type) {
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}
