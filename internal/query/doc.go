// Package query builds level-scoped find requests from web query parameters,
// invokes the protocol engine, and paginates its reply.
//
// Backend failures during a find deliberately degrade to an empty result set
// so search endpoints stay uniform; the orchestrator logs every swallowed
// failure for operational visibility.
package query
