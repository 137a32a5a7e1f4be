// Package testing provides test doubles for the gateway package.
package testing

import (
	"context"
	"sync"

	"github.com/mitchellh/copystructure"
	"github.com/rileyhilliard/evmon/internal/events"
	"github.com/rileyhilliard/evmon/internal/gateway"
)

// FakeGateway serves canned monitoring data without a server.
//
// By default it ignores context cancellation, which models a transport that
// cannot abort in-flight requests: responses for cancelled requests still
// arrive and the caller must discard them. Set HonorCancel to return
// ctx.Err() instead.
type FakeGateway struct {
	mu sync.Mutex

	results     map[string][]events.ArtifactDescriptor
	serverTable *events.ArtifactCollectorArgs
	clientTable *events.ClientMonitoringState
	failures    map[string]error

	HonorCancel bool

	// Tracking for assertions
	Calls          []string
	ListClientIDs  []string
	SetClientCalls []*events.ClientMonitoringState
	SetServerCalls []*events.ArtifactCollectorArgs
}

var _ gateway.Gateway = (*FakeGateway)(nil)

// NewFakeGateway creates an empty fake gateway.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		results:     make(map[string][]events.ArtifactDescriptor),
		serverTable: &events.ArtifactCollectorArgs{},
		clientTable: &events.ClientMonitoringState{},
		failures:    make(map[string]error),
	}
}

// WithResults sets the result index returned for clientID.
func (g *FakeGateway) WithResults(clientID string, logs ...events.ArtifactDescriptor) *FakeGateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.results[clientID] = logs
	return g
}

// WithServerTable sets the server monitoring table.
func (g *FakeGateway) WithServerTable(t *events.ArtifactCollectorArgs) *FakeGateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.serverTable = t
	return g
}

// WithClientTable sets the client monitoring table.
func (g *FakeGateway) WithClientTable(t *events.ClientMonitoringState) *FakeGateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clientTable = t
	return g
}

// FailCall makes every call named call (see gateway.Call*) return err.
func (g *FakeGateway) FailCall(call string, err error) *FakeGateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[call] = err
	return g
}

// CallCount returns how many times call was made.
func (g *FakeGateway) CallCount(call string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (g *FakeGateway) begin(ctx context.Context, call string) error {
	g.Calls = append(g.Calls, call)
	if g.HonorCancel && ctx.Err() != nil {
		return ctx.Err()
	}
	return g.failures[call]
}

// ListAvailableEventResults implements gateway.Gateway.
func (g *FakeGateway) ListAvailableEventResults(ctx context.Context, req events.ListEventResultsRequest) (*events.ListEventResultsResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ListClientIDs = append(g.ListClientIDs, req.ClientID)
	if err := g.begin(ctx, gateway.CallListAvailableEventResults); err != nil {
		return nil, err
	}

	logs := make([]events.ArtifactDescriptor, len(g.results[req.ClientID]))
	copy(logs, g.results[req.ClientID])
	return &events.ListEventResultsResponse{Logs: logs}, nil
}

// GetServerMonitoringState implements gateway.Gateway. The returned table is
// a copy so callers cannot mutate the fake's state.
func (g *FakeGateway) GetServerMonitoringState(ctx context.Context) (*events.ArtifactCollectorArgs, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.begin(ctx, gateway.CallGetServerMonitoringState); err != nil {
		return nil, err
	}
	return copystructure.Must(copystructure.Copy(g.serverTable)).(*events.ArtifactCollectorArgs), nil
}

// GetClientMonitoringState implements gateway.Gateway.
func (g *FakeGateway) GetClientMonitoringState(ctx context.Context) (*events.ClientMonitoringState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.begin(ctx, gateway.CallGetClientMonitoringState); err != nil {
		return nil, err
	}
	return copystructure.Must(copystructure.Copy(g.clientTable)).(*events.ClientMonitoringState), nil
}

// SetClientMonitoringState implements gateway.Gateway.
func (g *FakeGateway) SetClientMonitoringState(ctx context.Context, table *events.ClientMonitoringState) (*events.Ack, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.begin(ctx, gateway.CallSetClientMonitoringState); err != nil {
		return nil, err
	}
	g.SetClientCalls = append(g.SetClientCalls, table)
	g.clientTable = table
	return &events.Ack{}, nil
}

// SetServerMonitoringState implements gateway.Gateway.
func (g *FakeGateway) SetServerMonitoringState(ctx context.Context, table *events.ArtifactCollectorArgs) (*events.Ack, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.begin(ctx, gateway.CallSetServerMonitoringState); err != nil {
		return nil, err
	}
	g.SetServerCalls = append(g.SetServerCalls, table)
	g.serverTable = table
	return &events.Ack{}, nil
}
