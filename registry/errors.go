package registry

import "fmt"

func NewHandlerNotFoundError(name string) error {
	return fmt.Errorf("handler %v not found", name)
}

func NewInvalidInputError(name string, err error) error {
	return fmt.Errorf("invalid input for handler %v: %w", name, err)
}
