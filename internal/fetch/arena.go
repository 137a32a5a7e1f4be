// Package fetch implements last-request-wins cancellation for remote calls.
//
// Each fetch site owns one slot in an Arena. Issuing a request on a site
// cancels the token held by that slot and installs a new one. A response is
// applied only if its token is still the live token for its site, so a slow
// response from a superseded request can never overwrite newer state.
//
// Cancellation is cooperative: the token's context is handed to the
// transport, which may abort early, but correctness only depends on Accept.
package fetch

import (
	"context"
	"sync"
)

// Site names a logical fetch location.
type Site int

const (
	SiteResultIndex Site = iota
	SiteApplyTable
	SiteInspector
)

// String returns a short name for logs.
func (s Site) String() string {
	switch s {
	case SiteResultIndex:
		return "result-index"
	case SiteApplyTable:
		return "apply-table"
	case SiteInspector:
		return "inspector"
	default:
		return "unknown"
	}
}

// Token is the cancellation handle bound to one issued request.
type Token struct {
	site Site
	seq  uint64
	ctx  context.Context
}

// Site returns the site the token was issued on.
func (t Token) Site() Site { return t.site }

// Seq returns the arena-wide sequence number of the request.
func (t Token) Seq() uint64 { return t.seq }

// Context returns the context to pass to the transport.
func (t Token) Context() context.Context {
	if t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

// Cancelled reports whether the token has been superseded or cancelled.
func (t Token) Cancelled() bool {
	return t.ctx != nil && t.ctx.Err() != nil
}

type slot struct {
	seq    uint64
	cancel context.CancelFunc
}

// Arena holds one live token per site.
type Arena struct {
	mu     sync.Mutex
	parent context.Context
	seq    uint64
	slots  map[Site]*slot
}

// NewArena creates an arena whose tokens derive from parent.
func NewArena(parent context.Context) *Arena {
	if parent == nil {
		parent = context.Background()
	}
	return &Arena{
		parent: parent,
		slots:  make(map[Site]*slot),
	}
}

// Issue cancels the live token on site, if any, and returns a new live token.
func (a *Arena) Issue(site Site) Token {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s, ok := a.slots[site]; ok {
		s.cancel()
	}

	a.seq++
	ctx, cancel := context.WithCancel(a.parent)
	a.slots[site] = &slot{seq: a.seq, cancel: cancel}

	return Token{site: site, seq: a.seq, ctx: ctx}
}

// Accept reports whether a response carried by t may be applied. It returns
// true at most once per token: an accepted token is retired from its slot.
func (a *Arena) Accept(t Token) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.slots[t.site]
	if !ok || s.seq != t.seq || t.Cancelled() {
		return false
	}

	delete(a.slots, t.site)
	s.cancel()
	return true
}

// Pending reports whether site has a live, unanswered request.
func (a *Arena) Pending(site Site) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.slots[site]
	return ok
}

// Cancel cancels the live token on site.
func (a *Arena) Cancel(site Site) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s, ok := a.slots[site]; ok {
		s.cancel()
		delete(a.slots, site)
	}
}

// CancelAll cancels every live token. Called when the owning view goes away.
func (a *Arena) CancelAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for site, s := range a.slots {
		s.cancel()
		delete(a.slots, site)
	}
}
