package runtime

import "github.com/HicaroD/ember/internal/ast"

// Builtin is a free function the language provides that maps one to one
// onto a runtime symbol.
type Builtin struct {
	Name   string
	Params []*ast.ExprType
	Ret    *ast.ExprType
	Symbol string
}

var BUILTINS = []*Builtin{
	{"open", []*ast.ExprType{ast.STR_TYPE, ast.STR_TYPE}, ast.INT_TYPE, FILE_OPEN},
	{"read", []*ast.ExprType{ast.INT_TYPE}, ast.STR_TYPE, FILE_READ},
	{"read_line", []*ast.ExprType{ast.INT_TYPE}, ast.STR_TYPE, FILE_READ_LINE},
	{"write", []*ast.ExprType{ast.INT_TYPE, ast.STR_TYPE}, ast.INT_TYPE, FILE_WRITE},
	{"close", []*ast.ExprType{ast.INT_TYPE}, ast.VOID_TYPE, FILE_CLOSE},
	{"exists", []*ast.ExprType{ast.STR_TYPE}, ast.BOOL_TYPE, FILE_EXISTS},
}

// INTRINSICS are builtins whose typing or lowering depends on their
// arguments, so they have no fixed signature.
var INTRINSICS = []string{"print", "len", "int", "float", "str"}

func LookupBuiltin(name string) (*Builtin, bool) {
	for _, builtin := range BUILTINS {
		if builtin.Name == name {
			return builtin, true
		}
	}
	return nil, false
}

func IsIntrinsic(name string) bool {
	for _, intrinsic := range INTRINSICS {
		if intrinsic == name {
			return true
		}
	}
	return false
}

// IsReserved reports whether name belongs to the language and cannot be
// redefined by a program.
func IsReserved(name string) bool {
	_, ok := LookupBuiltin(name)
	return ok || IsIntrinsic(name)
}
