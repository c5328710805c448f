// Package registry maps names to typed task handlers so that callers can
// submit work by name with loosely-typed input (maps, JSON-decoded values),
// leaving input conversion and output allocation to the registry. Handler
// input and output types are kept in a type registry for lookup by name.
package registry
