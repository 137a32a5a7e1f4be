package events

import "strings"

// ServerClientID is the client id used on the wire for the server target.
const ServerClientID = "server"

// TargetKind distinguishes endpoint targets from the server target.
type TargetKind int

const (
	// KindServer is the zero value so an unset Target behaves as the server.
	KindServer TargetKind = iota
	KindEndpoint
)

// Target identifies whose monitoring configuration is in view.
type Target struct {
	kind TargetKind
	id   string
}

// ServerTarget returns the server target.
func ServerTarget() Target {
	return Target{kind: KindServer}
}

// EndpointTarget returns a target for the endpoint with the given client id.
// An empty id or "server" yields the server target.
func EndpointTarget(id string) Target {
	return ParseTarget(id)
}

// ParseTarget converts a client id as it appears in routes and flags.
func ParseTarget(s string) Target {
	s = strings.TrimSpace(s)
	if s == "" || s == ServerClientID {
		return ServerTarget()
	}
	return Target{kind: KindEndpoint, id: s}
}

// Kind returns the target variant.
func (t Target) Kind() TargetKind {
	return t.kind
}

// IsServer reports whether this is the server target.
func (t Target) IsServer() bool {
	return t.kind == KindServer
}

// ClientID returns the endpoint id, or "server" for the server target.
func (t Target) ClientID() string {
	if t.IsServer() {
		return ServerClientID
	}
	return t.id
}

// String returns the client id.
func (t Target) String() string {
	return t.ClientID()
}
