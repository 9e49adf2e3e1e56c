// Package processor provides the pipeline blackboard (Store), the Processor
// contract and the fail-fast Chain that runs processors in order.
package processor

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/wonny/ssq/internal/contracts"
)

// Attribute is a typed lookup key into a Store.
// Two attributes are the same key iff both name and T match.
type Attribute[T any] struct {
	name string
}

// NewAttribute creates a key for values of type T
func NewAttribute[T any](name string) Attribute[T] {
	return Attribute[T]{name: name}
}

// Name returns the attribute name
func (a Attribute[T]) Name() string {
	return a.name
}

func (a Attribute[T]) String() string {
	return fmt.Sprintf("%s[%s]", a.name, reflect.TypeFor[T]())
}

func (a Attribute[T]) key() attrKey {
	return attrKey{name: a.name, typ: reflect.TypeFor[T]()}
}

type attrKey struct {
	name string
	typ  reflect.Type
}

// Store is the shared state of one pipeline run.
// ⭐ SSOT: 스테이지 간 데이터 전달은 Store를 통해서만
//
// A Store is created per run, bound to one immutable draw history, and is
// not safe for concurrent use.
type Store struct {
	records    []contracts.DrawRecord
	attributes map[attrKey]any
}

// NewStore binds a store to a draw history. The records are copied.
func NewStore(records []contracts.DrawRecord) *Store {
	return &Store{
		records:    slices.Clone(records),
		attributes: make(map[attrKey]any),
	}
}

// Records returns the draw history. Callers must not modify it.
func (s *Store) Records() []contracts.DrawRecord {
	return s.records
}

// Len returns the number of stored attributes
func (s *Store) Len() int {
	return len(s.attributes)
}

// Names returns the names of all stored attributes, sorted
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.attributes))
	for k := range s.attributes {
		names = append(names, k.name)
	}
	slices.Sort(names)
	return names
}

// Set stores value under attr and returns the value it replaced, if any
func Set[T any](s *Store, attr Attribute[T], value T) (T, bool) {
	k := attr.key()
	prev, replaced := s.attributes[k]
	s.attributes[k] = value
	if !replaced {
		var zero T
		return zero, false
	}
	p, ok := prev.(T)
	return p, ok
}

// Get returns the value stored under attr. A missing key or a stored value
// of another type is reported as absent.
func Get[T any](s *Store, attr Attribute[T]) (T, bool) {
	v, ok := s.attributes[attr.key()]
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// Require is Get that reports absence as *contracts.MissingAttributeError
func Require[T any](s *Store, attr Attribute[T]) (T, error) {
	v, ok := Get(s, attr)
	if !ok {
		return v, &contracts.MissingAttributeError{Name: attr.name}
	}
	return v, nil
}

// Has reports whether a value is stored under attr
func Has[T any](s *Store, attr Attribute[T]) bool {
	_, ok := Get(s, attr)
	return ok
}
