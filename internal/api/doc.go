// Package api exposes the ingress and egress HTTP endpoints.
//
//	GET  /         welcome message
//	GET  /health   liveness
//	POST /data     queue a job {"sensor_id", "timestamp", "features"}
//	GET  /results  most recent result records, newest first
//
// Jobs are pushed to the work queue and never processed in the request path,
// so submissions keep succeeding while the worker is down.
package api
