package handler

import "fmt"

// NoReceiverError is returned when no receiver is registered under the requested name.
type NoReceiverError struct {
	Name string
}

func (m *NoReceiverError) Error() string {
	return fmt.Sprintf("no receiver registered for '%s'", m.Name)
}

// DuplicateReceiverError is returned when two receivers share a name.
type DuplicateReceiverError struct {
	Name string
}

func (m *DuplicateReceiverError) Error() string {
	return fmt.Sprintf("receiver '%s' is already registered", m.Name)
}
