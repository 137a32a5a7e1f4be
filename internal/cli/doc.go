// Package cli implements the evmon command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to a plain function that takes its dependencies (a gateway,
// an output writer) so it can be tested without a terminal or a server.
//
// # Command Structure
//
//	evmon console [target]        - Interactive event monitoring console
//	evmon results [target]        - List artifacts with collected results
//	evmon table show [target]     - Print the redacted monitoring table
//	evmon table apply [target] -f - Replace the monitoring table from a file
//	evmon config init|set|show    - Manage .evmon.yaml
//	evmon doctor                  - Diagnose config and server access
//	evmon version                 - Print version information
//
// A target is an endpoint client id; omitting it, or passing "server",
// selects the server itself.
//
// # Flag Handling
//
// Global flags (--config, --no-color) are defined on the root command and
// available to all subcommands. The server connection always comes from
// config, with EVMON_* environment variables taking precedence.
package cli
