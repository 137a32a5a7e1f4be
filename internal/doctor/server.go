package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/evmon/internal/events"
	"github.com/rileyhilliard/evmon/internal/gateway"
)

// ServerReachableCheck lists the server's own event results, which proves
// the URL, TLS settings and token all work.
type ServerReachableCheck struct {
	Gateway gateway.Gateway
	URL     string
}

func (c *ServerReachableCheck) Name() string     { return "server_reachable" }
func (c *ServerReachableCheck) Category() string { return "SERVER" }

func (c *ServerReachableCheck) Run(ctx context.Context) CheckResult {
	if c.Gateway == nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "No server configured",
			Suggestion: "Set server.url in .evmon.yaml or EVMON_SERVER_URL",
		}
	}

	start := time.Now()
	resp, err := c.Gateway.ListAvailableEventResults(ctx, events.ListEventResultsRequest{
		ClientID: events.ServerClientID,
	})
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot reach %s", c.URL),
			Suggestion: err.Error(),
		}
	}

	n := 0
	if resp != nil {
		n = len(resp.Logs)
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Server %s answered in %s (%d server artifact%s with results)", c.URL, time.Since(start).Round(time.Millisecond), n, pluralize(n)),
	}
}

// MonitoringTableCheck reads the server or client monitoring table.
type MonitoringTableCheck struct {
	Gateway gateway.Gateway
	Server  bool
}

func (c *MonitoringTableCheck) Name() string {
	if c.Server {
		return "server_table"
	}
	return "client_table"
}

func (c *MonitoringTableCheck) Category() string { return "SERVER" }

func (c *MonitoringTableCheck) Run(ctx context.Context) CheckResult {
	if c.Gateway == nil {
		return CheckResult{Name: c.Name(), Status: StatusFail, Message: "No server configured"}
	}

	var (
		n   int
		err error
	)
	what := "Client"
	if c.Server {
		what = "Server"
		var t *events.ArtifactCollectorArgs
		if t, err = c.Gateway.GetServerMonitoringState(ctx); err == nil && t != nil {
			n = len(t.Artifacts)
		}
	} else {
		var t *events.ClientMonitoringState
		if t, err = c.Gateway.GetClientMonitoringState(ctx); err == nil && t != nil {
			if t.Artifacts != nil {
				n = len(t.Artifacts.Artifacts)
			}
			for _, le := range t.LabelEvents {
				if le.Artifacts != nil {
					n += len(le.Artifacts.Artifacts)
				}
			}
		}
	}

	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s monitoring table unreadable", what),
			Suggestion: err.Error(),
		}
	}
	if n == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s monitoring table is empty", what),
			Suggestion: "Add artifacts with the edit dialog in 'evmon console' (press e)",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s monitoring table: %d artifact%s", what, n, pluralize(n)),
	}
}
