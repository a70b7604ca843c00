// Package strategy holds the processing backends behind each routing decision.
//
// Simulated waits a fixed duration and is the default for both decisions.
// Remote sends the job to an LLM provider through dago-adapters and can serve
// the accurate path when a provider is configured.
package strategy
