// Package events defines the event monitoring data model shared by the
// console, the gateway and the CLI: targets, display modes, artifact
// descriptors, monitoring tables, and the redaction applied before a table
// is shown to an operator.
package events
