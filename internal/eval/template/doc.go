// Package template provides a Handlebars template engine used to render the
// worker's per-job event line and the prompts sent to remote models.
//
// Example usage:
//
//	engine := template.NewEngine()
//
//	line, err := engine.Render("[{{model}}] latency={{latency}} queue={{queue}}", map[string]interface{}{
//	    "model":   "Fast-Model",
//	    "latency": "0.73",
//	    "queue":   6,
//	})
//	// line == "[Fast-Model] latency=0.73 queue=6"
//
// Built-in helpers:
//   - uppercase - Convert string to uppercase
//   - lowercase - Convert string to lowercase
//   - default - Return default value if first arg is empty
//   - eq - Equality comparison
//   - join - Join array elements with separator
//   - len - Get length of array/string/map
//
// Example with helpers:
//
//	{{uppercase sensor_id}}                  # "SENSOR-7"
//	{{join features ", "}}                   # "0.1, 0.2, 0.3"
//	{{#if (eq model "Fast-Model")}}...{{/if}} # Conditional
package template
