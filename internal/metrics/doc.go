// Package metrics derives labels and counters from scenarios and tool calls.
//
// Nothing here influences what the agent does; the values feed telemetry,
// incident history and the REPL stats view.
package metrics
