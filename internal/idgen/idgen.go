package idgen

import "github.com/google/uuid"

// NewFunc produces task and worker identifiers. It is a variable so tests
// can substitute a deterministic generator.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier as string.
func New() string { return NewFunc() }
