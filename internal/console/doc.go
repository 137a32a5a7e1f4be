// Package console implements the interactive event monitoring console.
//
// The console is a Bubble Tea model that tracks which target (an endpoint or
// the server) is in view, which monitored artifact is selected, and which of
// three display modes is active. It fetches the result index for the target,
// applies monitoring table edits, and routes rendering to the timeline or
// report viewer.
//
// # Fetch discipline
//
// Every remote call is issued on a fetch site of a fetch.Arena. Issuing a new
// request on a site cancels the previous one, and a response is applied only
// if its token is still live, so the last request always wins:
//
//	SiteResultIndex - ListAvailableEventResults (Init, target change, refresh)
//	SiteApplyTable  - Set{Client,Server}MonitoringState
//	SiteInspector   - Get{Client,Server}MonitoringState (inspector's own arena)
//
// Failures never reach the screen. The affected state keeps its previous
// value, which looks the same as "not loaded yet".
//
// # View routing
//
//	Raw Data / Logs + artifact  -> timeline viewer
//	Report + artifact           -> report viewer
//	Report, no artifact         -> placeholder
//	Raw Data / Logs, no artifact -> toolbar only
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C       - Quit
//	[ / ], ←/→      - Select previous / next artifact
//	m               - Cycle display mode
//	t               - Change target
//	e               - Edit monitoring table (client or server by target)
//	i               - Inspect raw monitoring table
//	r               - Refresh result index
//	Esc             - Close dialog
//	?               - Toggle help overlay
package console
