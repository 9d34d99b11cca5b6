// Package sema type checks a parsed program. It reports the first error it
// finds and never annotates the tree.
package sema

import (
	"log"
	"reflect"
	"strings"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/config"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer/token"
	"github.com/HicaroD/ember/internal/runtime"
	"github.com/HicaroD/ember/internal/scope"
)

type FunctionSig struct {
	Name string
	// For methods the first parameter is self
	Params []*ast.ExprType
	Ret    *ast.ExprType
}

type ClassInfo struct {
	Name       string
	Fields     []*ast.Field
	fieldTypes map[string]*ast.ExprType
	Methods    map[string]*ast.FunctionDef
}

func (class *ClassInfo) FieldType(name string) (*ast.ExprType, bool) {
	ty, ok := class.fieldTypes[name]
	return ty, ok
}

type sema struct {
	program   *ast.Program
	globals   *scope.Scope[*ast.ExprType]
	functions map[string]*FunctionSig
	classes   map[string]*ClassInfo

	// return type of the function being checked, nil at top level
	retType   *ast.ExprType
	loopDepth int
}

func New() *sema {
	return &sema{
		globals:   scope.New[*ast.ExprType](nil),
		functions: make(map[string]*FunctionSig),
		classes:   make(map[string]*ClassInfo),
	}
}

// MethodName is the registry key of a method, also used as its symbol name
// by the code generator.
func MethodName(class, method string) string {
	return class + "::" + method
}

func IsPrivate(name string) bool {
	return strings.HasPrefix(name, "_")
}

func (sema *sema) Check(program *ast.Program) error {
	sema.program = program

	err := sema.hoist(program.Stmts)
	if err != nil {
		return err
	}

	for _, stmt := range program.Stmts {
		err := sema.checkStmt(stmt, sema.globals)
		if err != nil {
			return err
		}
	}
	return nil
}

// hoist registers every top-level class and function signature, so bodies
// may refer to definitions that appear later in the file. Classes go first
// because signatures may mention them.
func (sema *sema) hoist(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		class, ok := stmt.(*ast.ClassDef)
		if !ok {
			continue
		}
		name := class.Name.Name()
		if err := sema.checkNewGlobalName(class.Name); err != nil {
			return err
		}
		sema.classes[name] = &ClassInfo{
			Name:       name,
			Fields:     class.Fields,
			fieldTypes: make(map[string]*ast.ExprType, len(class.Fields)),
			Methods:    make(map[string]*ast.FunctionDef, len(class.Methods)),
		}
	}

	for _, stmt := range stmts {
		switch def := stmt.(type) {
		case *ast.ClassDef:
			err := sema.declareClass(def)
			if err != nil {
				return err
			}
		case *ast.FunctionDef:
			if err := sema.checkNewGlobalName(def.Name); err != nil {
				return err
			}
			sig, err := sema.signature(def.Name.Name(), def)
			if err != nil {
				return err
			}
			sema.functions[sig.Name] = sig
		}
	}

	if config.DEV {
		log.Printf("sema: hoisted %d functions and %d classes", len(sema.functions), len(sema.classes))
	}
	return nil
}

func (sema *sema) checkNewGlobalName(name *token.Token) error {
	if runtime.IsReserved(name.Name()) {
		return typeError(name.Pos, "cannot redefine builtin '%s'", name.Name())
	}
	if name.Name() == "main" {
		return typeError(name.Pos, "'main' is reserved for the program entry point")
	}
	// globals share the symbol namespace of the runtime library
	if _, ok := runtime.Lookup(name.Name()); ok {
		return typeError(name.Pos, "'%s' is reserved by the runtime library", name.Name())
	}
	if _, ok := sema.functions[name.Name()]; ok {
		return typeError(name.Pos, "'%s' is already defined", name.Name())
	}
	if _, ok := sema.classes[name.Name()]; ok {
		return typeError(name.Pos, "'%s' is already defined", name.Name())
	}
	return nil
}

func (sema *sema) declareClass(def *ast.ClassDef) error {
	class := sema.classes[def.Name.Name()]

	for _, field := range def.Fields {
		name := field.Name.Name()
		if _, ok := class.fieldTypes[name]; ok {
			return typeError(field.Name.Pos, "field '%s' declared twice in class '%s'", name, class.Name)
		}
		if err := sema.checkType(field.Type, field.Name.Pos); err != nil {
			return err
		}
		if field.Type.IsVoid() {
			return typeError(field.Name.Pos, "field '%s' cannot have type void", name)
		}
		class.fieldTypes[name] = field.Type
	}

	for _, method := range def.Methods {
		name := method.Name.Name()
		if _, ok := class.Methods[name]; ok {
			return typeError(method.Name.Pos, "method '%s' declared twice in class '%s'", name, class.Name)
		}
		if len(method.Params) == 0 || !method.Params[0].IsSelf {
			return typeError(method.Name.Pos, "method '%s' must take 'self' as its first parameter", name)
		}
		if name == "init" && (len(method.Params) != 1 || !method.RetType.IsVoid()) {
			return typeError(method.Name.Pos, "method 'init' must take only 'self' and return void")
		}
		sig, err := sema.signature(MethodName(class.Name, name), method)
		if err != nil {
			return err
		}
		class.Methods[name] = method
		sema.functions[sig.Name] = sig
	}
	return nil
}

func (sema *sema) signature(name string, def *ast.FunctionDef) (*FunctionSig, error) {
	sig := &FunctionSig{Name: name, Ret: def.RetType}
	for _, param := range def.Params {
		if err := sema.checkType(param.Type, param.Name.Pos); err != nil {
			return nil, err
		}
		if param.Type.IsVoid() {
			return nil, typeError(param.Name.Pos, "parameter '%s' cannot have type void", param.Name.Name())
		}
		sig.Params = append(sig.Params, param.Type)
	}
	if err := sema.checkType(def.RetType, def.Name.Pos); err != nil {
		return nil, err
	}
	return sig, nil
}

// checkType validates a written type: custom names must be classes and
// containers cannot hold void.
func (sema *sema) checkType(ty *ast.ExprType, pos token.Pos) error {
	switch ty.Kind {
	case ast.EXPR_TYPE_CUSTOM:
		if _, ok := sema.classes[ty.ClassName()]; !ok {
			return typeError(pos, "unknown type '%s'", ty.ClassName())
		}
	case ast.EXPR_TYPE_ARRAY, ast.EXPR_TYPE_LIST:
		if ty.Elem().IsVoid() {
			return typeError(pos, "invalid element type void in %s", ty)
		}
		return sema.checkType(ty.Elem(), pos)
	case ast.EXPR_TYPE_DICT:
		dict := ty.T.(*ast.DictType)
		if dict.Key.IsVoid() || dict.Value.IsVoid() {
			return typeError(pos, "invalid element type void in %s", ty)
		}
		if err := sema.checkType(dict.Key, pos); err != nil {
			return err
		}
		return sema.checkType(dict.Value, pos)
	}
	return nil
}

func typeError(pos token.Pos, format string, args ...any) error {
	return diagnostics.Errorf(diagnostics.TYPE_ERROR, pos, format, args...)
}

func unimplemented(node ast.Node) error {
	return typeError(node.GetPos(), "unimplemented node for sema: %s", reflect.TypeOf(node))
}

func argsError(pos token.Pos, name string, expected, got int) error {
	plural := "s"
	if expected == 1 {
		plural = ""
	}
	return typeError(pos, "'%s' expects %d argument%s, but got %d", name, expected, plural, got)
}
