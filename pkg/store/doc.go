// Package store caches completed analysis runs in an embedded Badger
// database keyed by run id, so results can be listed, re-served, and
// deleted without recomputing the graph.
package store
