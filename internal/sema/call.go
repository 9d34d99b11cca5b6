package sema

import (
	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/lexer/token"
	"github.com/HicaroD/ember/internal/runtime"
)

func (sema *sema) checkCall(call *ast.CallExpr, current *typeScope) (*ast.ExprType, error) {
	name := call.Name.Name()

	if _, err := current.Lookup(name); err == nil {
		return nil, typeError(call.Name.Pos, "'%s' is a variable, not a function", name)
	}

	if runtime.IsIntrinsic(name) {
		return sema.checkIntrinsic(call, current)
	}
	if builtin, ok := runtime.LookupBuiltin(name); ok {
		sig := &FunctionSig{Name: name, Params: builtin.Params, Ret: builtin.Ret}
		return sema.checkArgs(sig, name, call.Args, call.Name.Pos, current)
	}
	if class, ok := sema.classes[name]; ok {
		return sema.checkConstructor(class, call, current)
	}
	if sig, ok := sema.functions[name]; ok {
		return sema.checkArgs(sig, name, call.Args, call.Name.Pos, current)
	}
	return nil, typeError(call.Name.Pos, "undefined function '%s'", name)
}

// checkArgs checks call arguments against sig's parameters and returns the
// result type.
func (sema *sema) checkArgs(sig *FunctionSig, name string, args []ast.Expr, pos token.Pos, current *typeScope) (*ast.ExprType, error) {
	return sema.checkArgsAgainst(sig.Params, sig.Ret, name, args, pos, current)
}

func (sema *sema) checkArgsAgainst(params []*ast.ExprType, ret *ast.ExprType, name string, args []ast.Expr, pos token.Pos, current *typeScope) (*ast.ExprType, error) {
	if len(args) != len(params) {
		return nil, argsError(pos, name, len(params), len(args))
	}
	for i, arg := range args {
		argTy, err := sema.checkExpr(arg, params[i], current)
		if err != nil {
			return nil, err
		}
		if !params[i].Accepts(argTy) {
			return nil, typeError(arg.GetPos(), "cannot use %s as argument %d of '%s', expected %s", argTy, i+1, name, params[i])
		}
	}
	return ret, nil
}

func (sema *sema) checkConstructor(class *ClassInfo, call *ast.CallExpr, current *typeScope) (*ast.ExprType, error) {
	params := make([]*ast.ExprType, len(class.Fields))
	for i, field := range class.Fields {
		params[i] = field.Type
	}
	_, err := sema.checkArgsAgainst(params, nil, class.Name, call.Args, call.Name.Pos, current)
	if err != nil {
		return nil, err
	}
	return ast.NewCustomType(class.Name), nil
}

func (sema *sema) checkIntrinsic(call *ast.CallExpr, current *typeScope) (*ast.ExprType, error) {
	name := call.Name.Name()

	if name == "print" {
		for _, arg := range call.Args {
			ty, err := sema.checkExpr(arg, nil, current)
			if err != nil {
				return nil, err
			}
			if !ty.IsPrimitive() {
				return nil, typeError(arg.GetPos(), "cannot print value of type %s", ty)
			}
		}
		return ast.VOID_TYPE, nil
	}

	if len(call.Args) != 1 {
		return nil, argsError(call.Name.Pos, name, 1, len(call.Args))
	}
	arg := call.Args[0]
	ty, err := sema.checkExpr(arg, nil, current)
	if err != nil {
		return nil, err
	}

	switch name {
	case "len":
		switch ty.Kind {
		case ast.EXPR_TYPE_LIST, ast.EXPR_TYPE_ARRAY, ast.EXPR_TYPE_DICT, ast.EXPR_TYPE_STR:
			return ast.INT_TYPE, nil
		}
		return nil, typeError(arg.GetPos(), "value of type %s has no length", ty)
	case "int", "float":
		if !ty.IsNumeric() {
			return nil, typeError(arg.GetPos(), "cannot convert %s to %s", ty, name)
		}
		if name == "int" {
			return ast.INT_TYPE, nil
		}
		return ast.FLOAT_TYPE, nil
	case "str":
		if !ty.IsPrimitive() {
			return nil, typeError(arg.GetPos(), "cannot convert %s to str", ty)
		}
		return ast.STR_TYPE, nil
	}
	return nil, unimplemented(call)
}

// isModuleRef reports whether id names an imported module rather than a
// variable.
func (sema *sema) isModuleRef(id *ast.IdExpr, current *typeScope) bool {
	name := id.Name.Name()
	if _, err := current.Lookup(name); err == nil {
		return false
	}
	return sema.program.IsModule(name)
}

func (sema *sema) checkMethodCall(call *ast.MethodCall, current *typeScope) (*ast.ExprType, error) {
	method := call.Method.Name()
	if IsPrivate(method) {
		return nil, typeError(call.Method.Pos, "cannot access private member '%s'", method)
	}

	if id, ok := call.Object.(*ast.IdExpr); ok && sema.isModuleRef(id, current) {
		module := id.Name.Name()
		if !sema.program.Exports(module, method) {
			return nil, typeError(call.Method.Pos, "module '%s' has no exported function '%s'", module, method)
		}
		sig, ok := sema.functions[method]
		if !ok {
			return nil, typeError(call.Method.Pos, "undefined function '%s.%s'", module, method)
		}
		return sema.checkArgs(sig, module+"."+method, call.Args, call.Method.Pos, current)
	}

	objectTy, err := sema.checkExpr(call.Object, nil, current)
	if err != nil {
		return nil, err
	}

	if objectTy.Kind == ast.EXPR_TYPE_CUSTOM {
		sig, ok := sema.functions[MethodName(objectTy.ClassName(), method)]
		if !ok {
			return nil, typeError(call.Method.Pos, "class '%s' has no method '%s'", objectTy.ClassName(), method)
		}
		return sema.checkArgsAgainst(sig.Params[1:], sig.Ret, method, call.Args, call.Method.Pos, current)
	}

	sig, ok := BuiltinMethod(objectTy, method)
	if !ok {
		return nil, typeError(call.Method.Pos, "type %s has no method '%s'", objectTy, method)
	}
	return sema.checkArgs(sig, method, call.Args, call.Method.Pos, current)
}

// BuiltinMethod returns the signature of a method the language provides on
// lists, dicts and strings. The receiver is not part of Params.
func BuiltinMethod(receiver *ast.ExprType, method string) (*FunctionSig, bool) {
	var params []*ast.ExprType
	var ret *ast.ExprType

	switch receiver.Kind {
	case ast.EXPR_TYPE_LIST:
		elem := receiver.Elem()
		switch method {
		case "push":
			params, ret = []*ast.ExprType{elem}, ast.VOID_TYPE
		case "pop":
			ret = elem
		case "get":
			params, ret = []*ast.ExprType{ast.INT_TYPE}, elem
		case "set":
			params, ret = []*ast.ExprType{ast.INT_TYPE, elem}, ast.VOID_TYPE
		}
	case ast.EXPR_TYPE_DICT:
		dict := receiver.T.(*ast.DictType)
		switch method {
		case "get":
			params, ret = []*ast.ExprType{dict.Key}, dict.Value
		case "set":
			params, ret = []*ast.ExprType{dict.Key, dict.Value}, ast.VOID_TYPE
		case "has":
			params, ret = []*ast.ExprType{dict.Key}, ast.BOOL_TYPE
		}
	case ast.EXPR_TYPE_STR:
		switch method {
		case "upper", "lower":
			ret = ast.STR_TYPE
		case "contains":
			params, ret = []*ast.ExprType{ast.STR_TYPE}, ast.BOOL_TYPE
		}
	}

	if ret == nil {
		return nil, false
	}
	return &FunctionSig{Name: method, Params: params, Ret: ret}, true
}
