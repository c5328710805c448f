package registry

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/structology/conv"
	"github.com/viant/taskpool/scheduler"
	"github.com/viant/x"
)

// Handler executes a named operation. Input and output are pointers to the
// types the handler was registered with.
type Handler func(ctx context.Context, input, output interface{}) error

// Signature describes a handler's typed contract.
type Signature struct {
	Name   string
	Input  reflect.Type
	Output reflect.Type
}

type entry struct {
	signature Signature
	handler   Handler
}

// Service provides named handler registration and lookup
type Service struct {
	types     *Types
	converter *conv.Converter
	handlers  map[string]*entry
	mux       sync.RWMutex
}

// Types returns the registry of handler input and output types
func (s *Service) Types() *Types {
	return s.types
}

// Register adds a named handler together with input and output prototypes
// the handler's typed contract is derived from.
func (s *Service) Register(name string, input, output interface{}, handler Handler) error {
	if name == "" {
		return fmt.Errorf("handler name was empty")
	}
	if handler == nil {
		return fmt.Errorf("handler %v was nil", name)
	}
	inType := prototypeType(input)
	outType := prototypeType(output)
	if inType == nil || outType == nil {
		return fmt.Errorf("handler %v requires input and output prototypes", name)
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	if _, ok := s.handlers[name]; ok {
		return fmt.Errorf("handler %v already registered", name)
	}
	s.types.Register(namedType(inType))
	s.types.Register(namedType(outType))
	s.handlers[name] = &entry{
		signature: Signature{Name: name, Input: inType, Output: outType},
		handler:   handler,
	}
	return nil
}

// Lookup returns the signature of a registered handler
func (s *Service) Lookup(name string) (*Signature, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	e, ok := s.handlers[name]
	if !ok {
		return nil, false
	}
	signature := e.signature
	return &signature, true
}

// Task builds a pool task that resolves the named handler, converts input
// into the handler's input type and returns a pointer to its typed output.
// Resolution happens when the task runs, so handlers registered after the
// task was built are still found.
func (s *Service) Task(name string, input interface{}) scheduler.Task {
	return func(ctx context.Context) (interface{}, error) {
		s.mux.RLock()
		e, ok := s.handlers[name]
		s.mux.RUnlock()
		if !ok {
			return nil, NewHandlerNotFoundError(name)
		}
		typedInput, err := s.typedValue(e.signature.Input, input)
		if err != nil {
			return nil, NewInvalidInputError(name, err)
		}
		output := reflect.New(e.signature.Output).Interface()
		if err := e.handler(ctx, typedInput, output); err != nil {
			return nil, err
		}
		return output, nil
	}
}

// typedValue converts a value to a pointer of the specified type
func (s *Service) typedValue(aType reflect.Type, value interface{}) (interface{}, error) {
	instance := reflect.New(aType).Interface()
	if value == nil {
		return instance, nil
	}
	if err := s.converter.Convert(value, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func prototypeType(prototype interface{}) reflect.Type {
	rType := reflect.TypeOf(prototype)
	if rType == nil {
		return nil
	}
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

// namedType builds a registry entry keyed by the bare type name, so that
// handler contracts resolve without package qualification.
func namedType(rType reflect.Type) *x.Type {
	ret := x.NewType(rType)
	ret.Name = rType.Name()
	return ret
}

// New creates a new handler registry
func New(goTypes ...*x.Type) *Service {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true

	ret := &Service{
		types:     NewTypes(),
		converter: conv.NewConverter(options),
		handlers:  make(map[string]*entry),
	}
	for _, t := range goTypes {
		if t != nil {
			ret.types.Register(t)
		}
	}
	return ret
}
