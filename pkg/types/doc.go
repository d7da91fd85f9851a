// Package types defines the core data structures used throughout relgraph:
// relationship records as read from tabular input, graph nodes and edges
// derived from them, and the audit flags produced by the rule engine.
package types
