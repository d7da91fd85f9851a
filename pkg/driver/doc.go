// Package driver persists analyzed relationship graphs to external graph
// databases. The Neo4j sink tags everything it writes with a run id so
// multiple analysis runs can coexist and be cleared independently; the
// breaker sink adds circuit breaking around any sink.
package driver
