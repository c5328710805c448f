package registry

import (
	"reflect"
	"strings"

	"github.com/viant/x"
)

// Types keeps the Go types of registered handler inputs and outputs,
// addressable by name.
type Types struct {
	x.Registry
}

// Lookup returns a data type from the registry. A slice or map modifier
// prefix ("[]Foo", "map[string]Foo") wraps the registered element type.
func (t *Types) Lookup(dataType string) *x.Type {
	typeModifier := ""
	if idx := strings.LastIndex(dataType, "]"); idx != -1 {
		typeModifier = dataType[:idx+1]
		dataType = dataType[idx+1:]
	}

	ret := t.Registry.Lookup(dataType)
	if ret == nil {
		return nil
	}
	rType := ret.Type

	switch strings.TrimSpace(typeModifier) {
	case "[]":
		rType = reflect.SliceOf(rType)
	case "map[string]":
		rType = reflect.MapOf(reflect.TypeOf(""), rType)
	case "map[string][]":
		rType = reflect.MapOf(reflect.TypeOf(""), reflect.SliceOf(rType))
	}
	if rType != ret.Type {
		return x.NewType(rType)
	}
	return ret
}

// NewTypes creates a new types registry
func NewTypes(options ...x.RegistryOption) *Types {
	return &Types{
		Registry: *x.NewRegistry(options...),
	}
}
