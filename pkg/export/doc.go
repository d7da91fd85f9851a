// Package export writes the derived tables of an analysis run as flat
// files: centrality scores, cluster and component assignments, audit
// flags, per-party relationship counts, BFS orderings, and a Graphviz DOT
// rendering of the graph.
package export
