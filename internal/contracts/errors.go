package contracts

import "fmt"

// MissingAttributeError is returned when a stage needs a context attribute
// that is absent (or stored under a different type)
type MissingAttributeError struct {
	Name string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("context attribute %q does not exist", e.Name)
}

// InvalidDomainValueError is returned when a value falls outside its ball domain
type InvalidDomainValueError struct {
	Domain Domain
	Value  int
}

func (e *InvalidDomainValueError) Error() string {
	return fmt.Sprintf("invalid %s ball value %d (valid: 1..%d)", e.Domain, e.Value, e.Domain.Size())
}

// OtherError covers invariant violations not classified above
type OtherError struct {
	Message string
}

func (e *OtherError) Error() string {
	return e.Message
}

// Errorf builds an OtherError with a formatted message
func Errorf(format string, args ...interface{}) error {
	return &OtherError{Message: fmt.Sprintf(format, args...)}
}
