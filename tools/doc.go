// Package tools defines the delivery coordination tool catalog.
//
// Includes:
//   - ToolDefinition: name, group, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Logistics, customer, dispute and verification stubs. None of them talk to
//     a real backend; each returns one of a small set of canned strings.
//   - Invariant: a call with valid arguments always returns a member of the
//     tool's canned set. Invalid arguments yield a ToolError, never a panic.
package tools
