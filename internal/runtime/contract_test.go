package runtime

import (
	"strings"
	"testing"
)

func TestContractNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, symbol := range CONTRACT {
		if seen[symbol.Name] {
			t.Fatalf("duplicated symbol %s", symbol.Name)
		}
		seen[symbol.Name] = true
	}
}

func TestContractPrefixMatchesCategory(t *testing.T) {
	prefixes := map[Category]string{
		ARRAY:     "ember_array_",
		DICT:      "ember_dict_",
		STRING:    "ember_str_",
		RC:        "ember_rc_",
		FILE:      "ember_file_",
		EXCEPTION: "ember_exc_",
		STACK:     "ember_stack_",
	}
	for _, symbol := range CONTRACT {
		prefix, ok := prefixes[symbol.Category]
		if !ok {
			if strings.HasPrefix(symbol.Name, "ember_") {
				t.Errorf("%s is categorized as %s", symbol.Name, symbol.Category)
			}
			continue
		}
		if !strings.HasPrefix(symbol.Name, prefix) {
			t.Errorf("%s does not start with %s", symbol.Name, prefix)
		}
	}
}

func TestLookup(t *testing.T) {
	symbol, ok := Lookup(DICT_GET)
	if !ok {
		t.Fatalf("%s is missing", DICT_GET)
	}
	if symbol.Ret != I64 || len(symbol.Params) != 2 || symbol.Params[1] != PTR {
		t.Fatalf("unexpected signature for %s: %v %v", DICT_GET, symbol.Ret, symbol.Params)
	}

	printf, _ := Lookup(PRINTF)
	if !printf.Variadic {
		t.Fatalf("printf must be variadic")
	}

	if _, ok := Lookup("ember_gc_collect"); ok {
		t.Fatalf("unexpected symbol")
	}
}

func TestCategoriesAreOrdered(t *testing.T) {
	categories := Categories()
	if len(categories) != 8 {
		t.Fatalf("expected 8 categories, got %d", len(categories))
	}
	for i := 1; i < len(categories); i++ {
		if categories[i-1] >= categories[i] {
			t.Fatalf("categories out of order: %v", categories)
		}
	}
}

func TestBuiltinsResolveToContract(t *testing.T) {
	for _, builtin := range BUILTINS {
		symbol, ok := Lookup(builtin.Symbol)
		if !ok {
			t.Errorf("builtin %s maps to unknown symbol %s", builtin.Name, builtin.Symbol)
			continue
		}
		if len(symbol.Params) != len(builtin.Params) {
			t.Errorf("builtin %s has %d params, %s takes %d", builtin.Name, len(builtin.Params), symbol.Name, len(symbol.Params))
		}
	}
	if !IsReserved("print") || !IsReserved("exists") || IsReserved("main") {
		t.Fatalf("reserved names are wrong")
	}
}
