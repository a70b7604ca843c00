// Package events publishes one event per completed job to a Redis stream so
// downstream consumers can follow routing decisions without polling the
// result list.
package events
