// Package memory keeps a local history of resolved disruption incidents.
//
// Persistence model:
//   - One JSON array per file, oldest first, capped at MaxIncidents.
//   - Only the final answer and tool names are stored; tool payloads are transient.
//   - A missing file is an empty history. A corrupt file is an error, never silently reset.
package memory
