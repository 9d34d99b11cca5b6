package ast

import "testing"

func TestAccepts(t *testing.T) {
	tests := []struct {
		expected *ExprType
		actual   *ExprType
		accepts  bool
	}{
		{INT_TYPE, INT_TYPE, true},
		{FLOAT_TYPE, INT_TYPE, true},
		{INT_TYPE, FLOAT_TYPE, false},
		{STR_TYPE, INT_TYPE, false},
		{BOOL_TYPE, BOOL_TYPE, true},
		{NewListType(FLOAT_TYPE), NewListType(INT_TYPE), true},
		{NewListType(INT_TYPE), NewListType(FLOAT_TYPE), false},
		{NewListType(INT_TYPE), NewArrayType(INT_TYPE, 3), false},
		{NewArrayType(INT_TYPE, 3), NewArrayType(INT_TYPE, 3), true},
		{NewArrayType(INT_TYPE, 3), NewArrayType(INT_TYPE, 4), false},
		{NewDictType(STR_TYPE, FLOAT_TYPE), NewDictType(STR_TYPE, INT_TYPE), true},
		{NewDictType(STR_TYPE, INT_TYPE), NewDictType(INT_TYPE, INT_TYPE), false},
		{NewListType(NewListType(FLOAT_TYPE)), NewListType(NewListType(INT_TYPE)), true},
		{NewCustomType("Point"), NewCustomType("Point"), true},
		{NewCustomType("Point"), NewCustomType("Vec"), false},
	}

	for _, test := range tests {
		t.Run(test.expected.String()+"<-"+test.actual.String(), func(t *testing.T) {
			if got := test.expected.Accepts(test.actual); got != test.accepts {
				t.Errorf("expected %v, but got %v", test.accepts, got)
			}
		})
	}
}

func TestMutuallyCompatible(t *testing.T) {
	if !MutuallyCompatible(INT_TYPE, FLOAT_TYPE) || !MutuallyCompatible(FLOAT_TYPE, INT_TYPE) {
		t.Errorf("expected int and float to be mutually compatible")
	}
	if MutuallyCompatible(STR_TYPE, INT_TYPE) {
		t.Errorf("expected str and int to be incompatible")
	}
}

func TestComparable(t *testing.T) {
	tests := []struct {
		left, right *ExprType
		equality    bool
		ordering    bool
	}{
		{INT_TYPE, FLOAT_TYPE, true, true},
		{STR_TYPE, STR_TYPE, true, true},
		{STR_TYPE, INT_TYPE, false, false},
		{BOOL_TYPE, BOOL_TYPE, true, false},
		{VOID_TYPE, VOID_TYPE, false, false},
		{NewArrayType(INT_TYPE, 2), NewArrayType(INT_TYPE, 2), false, false},
		{NewListType(INT_TYPE), NewListType(INT_TYPE), true, false},
		{NewListType(INT_TYPE), NewListType(FLOAT_TYPE), false, false},
		{NewCustomType("Point"), NewCustomType("Point"), true, false},
	}

	for _, test := range tests {
		t.Run(test.left.String()+"?"+test.right.String(), func(t *testing.T) {
			if got := Comparable(test.left, test.right, true); got != test.equality {
				t.Errorf("equality: expected %v, but got %v", test.equality, got)
			}
			if got := Comparable(test.left, test.right, false); got != test.ordering {
				t.Errorf("ordering: expected %v, but got %v", test.ordering, got)
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		ty       *ExprType
		expected string
	}{
		{NewListType(INT_TYPE), "list[int]"},
		{NewDictType(STR_TYPE, NewListType(FLOAT_TYPE)), "dict[str, list[float]]"},
		{NewArrayType(BOOL_TYPE, 4), "bool[4]"},
		{NewCustomType("Point"), "Point"},
	}
	for _, test := range tests {
		if test.ty.String() != test.expected {
			t.Errorf("expected %q, but got %q", test.expected, test.ty.String())
		}
	}
}
