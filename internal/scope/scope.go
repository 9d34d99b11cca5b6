package scope

import (
	"errors"
	"fmt"
)

var (
	ERR_SYMBOL_ALREADY_DEFINED_ON_SCOPE = errors.New("symbol already defined on scope")
	ERR_SYMBOL_NOT_FOUND_ON_SCOPE       = errors.New("symbol not found on scope")
)

// Scope is one level of a lexical scope chain. The type checker stores
// types in it, the code generator stores stack slots.
type Scope[V any] struct {
	Parent *Scope[V]
	Nodes  map[string]V
}

func New[V any](parent *Scope[V]) *Scope[V] {
	return &Scope[V]{Parent: parent, Nodes: map[string]V{}}
}

// Insert fails if name is already defined at this level. Shadowing a name
// from an enclosing level is fine.
func (scope *Scope[V]) Insert(name string, element V) error {
	if _, ok := scope.Nodes[name]; ok {
		return fmt.Errorf("%w: %s", ERR_SYMBOL_ALREADY_DEFINED_ON_SCOPE, name)
	}
	scope.Nodes[name] = element
	return nil
}

func (scope *Scope[V]) LookupCurrentScope(name string) (V, error) {
	if node, ok := scope.Nodes[name]; ok {
		return node, nil
	}
	var empty V
	return empty, fmt.Errorf("%w: %s", ERR_SYMBOL_NOT_FOUND_ON_SCOPE, name)
}

func (scope *Scope[V]) Lookup(name string) (V, error) {
	if node, ok := scope.Nodes[name]; ok {
		return node, nil
	}
	if scope.Parent == nil {
		var empty V
		return empty, fmt.Errorf("%w: %s", ERR_SYMBOL_NOT_FOUND_ON_SCOPE, name)
	}
	return scope.Parent.Lookup(name)
}

// IsGlobal reports whether scope is the root of its chain.
func (scope *Scope[V]) IsGlobal() bool {
	return scope.Parent == nil
}

func (scope Scope[V]) String() string {
	if scope.Parent == nil {
		return fmt.Sprintf("Scope:\nParent: nil\nCurrent: %v\n", scope.Nodes)
	}
	return fmt.Sprintf("Scope:\nParent: %v\nCurrent: %v\n", scope.Parent, scope.Nodes)
}
