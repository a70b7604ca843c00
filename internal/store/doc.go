// Package store provides the work queue and result log used by the router
// worker and the HTTP API.
//
// Two backends are available: Redis lists (LPUSH/BRPOP/LLEN for the queue,
// LPUSH/LRANGE for results) and an in-memory implementation with identical
// ordering semantics for tests and local runs.
//
// Backend failures are returned as *TransientStoreError; Pop returns ErrEmpty
// when its block timeout elapses without a job.
package store
