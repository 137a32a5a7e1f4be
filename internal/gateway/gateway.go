// Package gateway is the typed request/response client for the monitoring
// server's event monitoring API.
package gateway

import (
	"context"

	"github.com/rileyhilliard/evmon/internal/events"
)

// API call names, as they appear in request paths.
const (
	CallListAvailableEventResults = "ListAvailableEventResults"
	CallGetServerMonitoringState  = "GetServerMonitoringState"
	CallGetClientMonitoringState  = "GetClientMonitoringState"
	CallSetClientMonitoringState  = "SetClientMonitoringState"
	CallSetServerMonitoringState  = "SetServerMonitoringState"
)

// Gateway performs the remote calls the console depends on. Every call
// honours ctx cancellation on a best-effort basis; callers must still
// discard responses for cancelled requests themselves.
type Gateway interface {
	ListAvailableEventResults(ctx context.Context, req events.ListEventResultsRequest) (*events.ListEventResultsResponse, error)
	GetServerMonitoringState(ctx context.Context) (*events.ArtifactCollectorArgs, error)
	GetClientMonitoringState(ctx context.Context) (*events.ClientMonitoringState, error)
	SetClientMonitoringState(ctx context.Context, table *events.ClientMonitoringState) (*events.Ack, error)
	SetServerMonitoringState(ctx context.Context, table *events.ArtifactCollectorArgs) (*events.Ack, error)
}
