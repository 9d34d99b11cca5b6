package ast

import (
	"fmt"
)

var (
	INT_TYPE   = &ExprType{Kind: EXPR_TYPE_INT}
	FLOAT_TYPE = &ExprType{Kind: EXPR_TYPE_FLOAT}
	BOOL_TYPE  = &ExprType{Kind: EXPR_TYPE_BOOL}
	STR_TYPE   = &ExprType{Kind: EXPR_TYPE_STR}
	VOID_TYPE  = &ExprType{Kind: EXPR_TYPE_VOID}
)

type ExprTypeKind int

const (
	EXPR_TYPE_INT ExprTypeKind = iota
	EXPR_TYPE_FLOAT
	EXPR_TYPE_BOOL
	EXPR_TYPE_STR
	EXPR_TYPE_VOID
	EXPR_TYPE_ARRAY
	EXPR_TYPE_LIST
	EXPR_TYPE_DICT
	EXPR_TYPE_CUSTOM
)

// ExprType is shared freely between nodes and must not be mutated after
// construction. T holds *ArrayType, *ListType, *DictType or *CustomType for
// the compound kinds and is nil otherwise.
type ExprType struct {
	Kind ExprTypeKind
	T    any
}

type ArrayType struct {
	Elem *ExprType
	Size int
}

type ListType struct {
	Elem *ExprType
}

type DictType struct {
	Key   *ExprType
	Value *ExprType
}

type CustomType struct {
	Name string
}

func NewArrayType(elem *ExprType, size int) *ExprType {
	return &ExprType{Kind: EXPR_TYPE_ARRAY, T: &ArrayType{Elem: elem, Size: size}}
}

func NewListType(elem *ExprType) *ExprType {
	return &ExprType{Kind: EXPR_TYPE_LIST, T: &ListType{Elem: elem}}
}

func NewDictType(key, value *ExprType) *ExprType {
	return &ExprType{Kind: EXPR_TYPE_DICT, T: &DictType{Key: key, Value: value}}
}

func NewCustomType(name string) *ExprType {
	return &ExprType{Kind: EXPR_TYPE_CUSTOM, T: &CustomType{Name: name}}
}

func (ty *ExprType) Equals(other *ExprType) bool {
	if ty.Kind != other.Kind {
		return false
	}

	switch ty.Kind {
	case EXPR_TYPE_ARRAY:
		left, right := ty.T.(*ArrayType), other.T.(*ArrayType)
		return left.Size == right.Size && left.Elem.Equals(right.Elem)
	case EXPR_TYPE_LIST:
		return ty.T.(*ListType).Elem.Equals(other.T.(*ListType).Elem)
	case EXPR_TYPE_DICT:
		left, right := ty.T.(*DictType), other.T.(*DictType)
		return left.Key.Equals(right.Key) && left.Value.Equals(right.Value)
	case EXPR_TYPE_CUSTOM:
		return ty.T.(*CustomType).Name == other.T.(*CustomType).Name
	default:
		return true
	}
}

// Accepts reports whether a value of type actual may be used where ty is
// expected. It is structural equality plus the int to float widening,
// applied recursively to container elements.
func (ty *ExprType) Accepts(actual *ExprType) bool {
	if ty.Kind == EXPR_TYPE_FLOAT && actual.Kind == EXPR_TYPE_INT {
		return true
	}
	if ty.Kind != actual.Kind {
		return false
	}

	switch ty.Kind {
	case EXPR_TYPE_ARRAY:
		expected, got := ty.T.(*ArrayType), actual.T.(*ArrayType)
		return expected.Size == got.Size && expected.Elem.Accepts(got.Elem)
	case EXPR_TYPE_LIST:
		return ty.T.(*ListType).Elem.Accepts(actual.T.(*ListType).Elem)
	case EXPR_TYPE_DICT:
		expected, got := ty.T.(*DictType), actual.T.(*DictType)
		return expected.Key.Accepts(got.Key) && expected.Value.Accepts(got.Value)
	default:
		return ty.Equals(actual)
	}
}

// MutuallyCompatible is the rule comparisons use: either side may widen.
func MutuallyCompatible(left, right *ExprType) bool {
	return left.Accepts(right) || right.Accepts(left)
}

// Comparable reports whether left and right can be compared with an
// equality operator (equality is true) or an ordering operator. Numbers
// compare with numbers and strings with strings. Bools, containers and
// instances only support equality against their exact type; arrays and void
// never compare.
func Comparable(left, right *ExprType, equality bool) bool {
	switch {
	case left.IsNumeric() && right.IsNumeric():
		return true
	case left.IsStr() && right.IsStr():
		return true
	}
	return equality && left.Equals(right) && !left.IsVoid() && left.Kind != EXPR_TYPE_ARRAY
}

func (ty *ExprType) IsNumeric() bool {
	return ty.Kind == EXPR_TYPE_INT || ty.Kind == EXPR_TYPE_FLOAT
}

func (ty *ExprType) IsInt() bool     { return ty.Kind == EXPR_TYPE_INT }
func (ty *ExprType) IsFloat() bool   { return ty.Kind == EXPR_TYPE_FLOAT }
func (ty *ExprType) IsBoolean() bool { return ty.Kind == EXPR_TYPE_BOOL }
func (ty *ExprType) IsStr() bool     { return ty.Kind == EXPR_TYPE_STR }
func (ty *ExprType) IsVoid() bool    { return ty.Kind == EXPR_TYPE_VOID }

// IsPrimitive is true for the types print, str() and f-strings can format.
func (ty *ExprType) IsPrimitive() bool {
	switch ty.Kind {
	case EXPR_TYPE_INT, EXPR_TYPE_FLOAT, EXPR_TYPE_BOOL, EXPR_TYPE_STR:
		return true
	}
	return false
}

// Elem returns the element type of arrays and lists, the key type of
// dicts and nil otherwise.
func (ty *ExprType) Elem() *ExprType {
	switch ty.Kind {
	case EXPR_TYPE_ARRAY:
		return ty.T.(*ArrayType).Elem
	case EXPR_TYPE_LIST:
		return ty.T.(*ListType).Elem
	case EXPR_TYPE_DICT:
		return ty.T.(*DictType).Key
	}
	return nil
}

func (ty *ExprType) ClassName() string {
	if ty.Kind != EXPR_TYPE_CUSTOM {
		return ""
	}
	return ty.T.(*CustomType).Name
}

func (ty *ExprType) String() string {
	if ty == nil {
		return "<nil>"
	}
	switch ty.Kind {
	case EXPR_TYPE_INT:
		return "int"
	case EXPR_TYPE_FLOAT:
		return "float"
	case EXPR_TYPE_BOOL:
		return "bool"
	case EXPR_TYPE_STR:
		return "str"
	case EXPR_TYPE_VOID:
		return "void"
	case EXPR_TYPE_ARRAY:
		array := ty.T.(*ArrayType)
		return fmt.Sprintf("%s[%d]", array.Elem, array.Size)
	case EXPR_TYPE_LIST:
		return fmt.Sprintf("list[%s]", ty.T.(*ListType).Elem)
	case EXPR_TYPE_DICT:
		dict := ty.T.(*DictType)
		return fmt.Sprintf("dict[%s, %s]", dict.Key, dict.Value)
	case EXPR_TYPE_CUSTOM:
		return ty.T.(*CustomType).Name
	}
	return "unknown"
}
