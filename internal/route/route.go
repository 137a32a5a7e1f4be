// Package route maps console selections to and from /events paths so a
// session can be reopened on the same target and artifact.
package route

import (
	"net/url"
	"strings"
	"sync"

	"github.com/rileyhilliard/evmon/internal/errors"
	"github.com/rileyhilliard/evmon/internal/events"
)

// Prefix is the first path segment of every console route.
const Prefix = "/events"

// Path returns /events/<client_id>/<artifact>. The artifact segment is
// omitted when empty.
func Path(target events.Target, artifact string) string {
	p := Prefix + "/" + url.PathEscape(target.ClientID())
	if artifact != "" {
		p += "/" + url.PathEscape(artifact)
	}
	return p
}

// Parse extracts the target and optional artifact from an /events path.
// "/events" alone selects the server target.
func Parse(path string) (events.Target, string, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) == 0 || parts[0] != strings.TrimPrefix(Prefix, "/") || len(parts) > 3 {
		return events.Target{}, "", errors.New(errors.ErrRoute,
			"Invalid route: "+path,
			"Use /events/<client_id>/<artifact>, for example /events/server/Server.Monitor.Health")
	}

	segs := make([]string, 0, 2)
	for _, p := range parts[1:] {
		s, err := url.PathUnescape(p)
		if err != nil {
			return events.Target{}, "", errors.WrapWithCode(err, errors.ErrRoute,
				"Invalid route segment: "+p, "")
		}
		segs = append(segs, s)
	}

	var target events.Target
	var artifact string
	if len(segs) > 0 {
		target = events.ParseTarget(segs[0])
	}
	if len(segs) > 1 {
		artifact = segs[1]
	}
	return target, artifact, nil
}

// Navigator receives route updates when the selection changes.
type Navigator interface {
	Push(path string)
}

// History is an in-memory Navigator.
type History struct {
	mu      sync.Mutex
	entries []string
}

// NewHistory creates a history starting at initial, if non-empty.
func NewHistory(initial string) *History {
	h := &History{}
	if initial != "" {
		h.entries = append(h.entries, initial)
	}
	return h
}

// Push records a navigation.
func (h *History) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, path)
}

// Current returns the latest path, or "" if nothing was pushed.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

// Entries returns a copy of all recorded paths.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
