package scope

import (
	"errors"
	"testing"
)

func TestShadowingAndLookup(t *testing.T) {
	global := New[int](nil)
	if err := global.Insert("x", 1); err != nil {
		t.Fatalf("unexpected error '%v'", err)
	}

	inner := New(global)
	if err := inner.Insert("x", 2); err != nil {
		t.Fatalf("expected shadowing to be allowed, but got '%v'", err)
	}

	value, err := inner.Lookup("x")
	if err != nil || value != 2 {
		t.Errorf("expected innermost x == 2, but got %d (%v)", value, err)
	}
	value, err = global.Lookup("x")
	if err != nil || value != 1 {
		t.Errorf("expected global x == 1, but got %d (%v)", value, err)
	}

	if !global.IsGlobal() || inner.IsGlobal() {
		t.Errorf("expected only the root scope to be global")
	}
}

func TestScopeErrors(t *testing.T) {
	global := New[string](nil)
	_ = global.Insert("a", "first")

	err := global.Insert("a", "second")
	if !errors.Is(err, ERR_SYMBOL_ALREADY_DEFINED_ON_SCOPE) {
		t.Errorf("expected ERR_SYMBOL_ALREADY_DEFINED_ON_SCOPE, but got %v", err)
	}

	inner := New(global)
	if _, err := inner.Lookup("missing"); !errors.Is(err, ERR_SYMBOL_NOT_FOUND_ON_SCOPE) {
		t.Errorf("expected ERR_SYMBOL_NOT_FOUND_ON_SCOPE, but got %v", err)
	}
	if _, err := inner.LookupCurrentScope("a"); !errors.Is(err, ERR_SYMBOL_NOT_FOUND_ON_SCOPE) {
		t.Errorf("expected current-scope lookup to ignore parents, but got %v", err)
	}
}
