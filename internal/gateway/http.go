package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rileyhilliard/evmon/internal/errors"
	"github.com/rileyhilliard/evmon/internal/events"
	"github.com/rileyhilliard/evmon/internal/logger"
)

const (
	// apiPrefix is prepended to every call name.
	apiPrefix = "/api/v1/"

	// DefaultTimeout bounds a single call when Options.Timeout is zero.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is kept for messages.
	maxErrorBody = 512

	// RequestIDHeader carries a per-call id for server-side log correlation.
	RequestIDHeader = "X-Request-Id"
)

// Options configures an HTTPGateway.
type Options struct {
	BaseURL            string
	Token              string
	Timeout            time.Duration
	InsecureSkipVerify bool
	Logger             logger.Logger
}

// HTTPGateway implements Gateway over JSON/HTTP.
type HTTPGateway struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPGateway creates a gateway for the server at opts.BaseURL.
func NewHTTPGateway(opts Options) (*HTTPGateway, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New(errors.ErrConfig,
			"No server URL configured",
			"Set server.url in .evmon.yaml or EVMON_SERVER_URL")
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed lab servers
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewEnvLogger("[gateway]")
	}

	return &HTTPGateway{
		baseURL: base,
		token:   opts.Token,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		log: log,
	}, nil
}

// ListAvailableEventResults lists artifacts with results for req.ClientID.
func (g *HTTPGateway) ListAvailableEventResults(ctx context.Context, req events.ListEventResultsRequest) (*events.ListEventResultsResponse, error) {
	var resp events.ListEventResultsResponse
	if err := g.call(ctx, http.MethodPost, CallListAvailableEventResults, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetServerMonitoringState fetches the server monitoring table.
func (g *HTTPGateway) GetServerMonitoringState(ctx context.Context) (*events.ArtifactCollectorArgs, error) {
	var resp events.ArtifactCollectorArgs
	if err := g.call(ctx, http.MethodGet, CallGetServerMonitoringState, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetClientMonitoringState fetches the client monitoring table.
func (g *HTTPGateway) GetClientMonitoringState(ctx context.Context) (*events.ClientMonitoringState, error) {
	var resp events.ClientMonitoringState
	if err := g.call(ctx, http.MethodGet, CallGetClientMonitoringState, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetClientMonitoringState replaces the client monitoring table.
func (g *HTTPGateway) SetClientMonitoringState(ctx context.Context, table *events.ClientMonitoringState) (*events.Ack, error) {
	var ack events.Ack
	if err := g.call(ctx, http.MethodPost, CallSetClientMonitoringState, table, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// SetServerMonitoringState replaces the server monitoring table.
func (g *HTTPGateway) SetServerMonitoringState(ctx context.Context, table *events.ArtifactCollectorArgs) (*events.Ack, error) {
	var ack events.Ack
	if err := g.call(ctx, http.MethodPost, CallSetServerMonitoringState, table, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// call performs one request and decodes the JSON response into out.
func (g *HTTPGateway) call(ctx context.Context, method, name string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrGateway,
				fmt.Sprintf("Failed to encode %s request", name), "")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+apiPrefix+name, body)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrGateway,
			fmt.Sprintf("Failed to build %s request", name),
			"Check server.url in your config")
	}

	reqID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "evmon-cli")
	req.Header.Set(RequestIDHeader, reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			g.log.Debug("%s %s cancelled", name, reqID)
			return ctx.Err()
		}
		return errors.WrapWithCode(err, errors.ErrGateway,
			fmt.Sprintf("%s failed", name),
			"Check that the server is reachable")
	}
	defer resp.Body.Close()

	g.log.Debug("%s %s -> %d in %s", name, reqID, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.WrapWithCode(
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			errors.ErrGateway,
			fmt.Sprintf("%s returned an error", name),
			suggestionForStatus(resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return errors.WrapWithCode(err, errors.ErrGateway,
			fmt.Sprintf("Failed to decode %s response", name), "")
	}
	return nil
}

func suggestionForStatus(code int) string {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "Check server.token in your config"
	case http.StatusNotFound:
		return "Check server.url points at the monitoring server"
	default:
		return ""
	}
}
