// Package relgraph builds undirected relationship graphs from tabular
// party-to-party records and computes the connectivity, centrality, and
// audit measures used for relationship-network analysis.
//
// The typical pipeline is:
//
//	records, err := ingest.ReadCSVFile("relationships.csv", ingest.Options{})
//	if err != nil { ... }
//
//	result, graph, err := relgraph.Analyze(ctx, records, relgraph.AuditConfig{
//		MinAge:           0,
//		MaxAge:           120,
//		MaxRelationships: 10,
//	})
//
// The resulting tables (degree centrality, connected components, label
// propagation clusters, isolated parties, audit flags, per-party
// relationship counts) are exported as flat files through pkg/export,
// cached through pkg/store, or served over HTTP through pkg/server.
//
// Each input record is one edge. Repeated (source, target, relationship
// type) triples accumulate edge multiplicity rather than collapsing, and
// a party related to itself forms a self-loop that contributes two to its
// degree, so degree sums always equal twice the multiplicity-weighted
// edge count.
package relgraph
