package llvm

import (
	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/runtime"
	"github.com/HicaroD/ember/internal/sema"
	"tinygo.org/x/go-llvm"
)

func (c *llvmCodegen) generateCall(call *ast.CallExpr, current *varScope) (operand, error) {
	name := call.Name.Name()

	if runtime.IsIntrinsic(name) {
		return c.generateIntrinsic(call, current)
	}
	if builtin, ok := runtime.LookupBuiltin(name); ok {
		return c.generateBuiltinCall(builtin, call, current)
	}
	if class, ok := c.classes[name]; ok {
		args, err := c.getArgs(call.Args, class.Ctor.Params, name, call, current)
		if err != nil {
			return operand{}, err
		}
		return operand{c.callFunction(class.Ctor, args), class.Ctor.Ret}, nil
	}

	fn, ok := c.functions[name]
	if !ok {
		return operand{}, codegenError(call.Name.Pos, "undefined function '%s'", name)
	}
	args, err := c.getArgs(call.Args, fn.Params, name, call, current)
	if err != nil {
		return operand{}, err
	}
	return operand{c.callFunction(fn, args), fn.Ret}, nil
}

// getArgs lowers call arguments, converting each to its parameter type.
func (c *llvmCodegen) getArgs(args []ast.Expr, params []*ast.ExprType, name string, call ast.Expr, current *varScope) ([]llvm.Value, error) {
	if len(args) != len(params) {
		return nil, codegenError(call.GetPos(), "'%s' expects %d arguments, but got %d", name, len(params), len(args))
	}
	values := make([]llvm.Value, len(args))
	for i, arg := range args {
		value, err := c.getConverted(arg, params[i], current)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

func (c *llvmCodegen) generateBuiltinCall(builtin *runtime.Builtin, call *ast.CallExpr, current *varScope) (operand, error) {
	args, err := c.getArgs(call.Args, builtin.Params, builtin.Name, call, current)
	if err != nil {
		return operand{}, err
	}
	result, err := c.callRuntime(builtin.Symbol, args...)
	if err != nil {
		return operand{}, err
	}

	switch builtin.Ret.Kind {
	case ast.EXPR_TYPE_VOID:
		return operand{ty: ast.VOID_TYPE}, nil
	case ast.EXPR_TYPE_BOOL:
		// predicates come back as i64 0 or 1
		return operand{c.builder.CreateICmp(llvm.IntNE, result, c.i64(0), ".bool"), ast.BOOL_TYPE}, nil
	}
	return operand{result, builtin.Ret}, nil
}

func (c *llvmCodegen) generateIntrinsic(call *ast.CallExpr, current *varScope) (operand, error) {
	name := call.Name.Name()
	if name == "print" {
		return c.generatePrint(call, current)
	}

	if len(call.Args) != 1 {
		return operand{}, codegenError(call.Name.Pos, "'%s' expects 1 argument, but got %d", name, len(call.Args))
	}
	arg, err := c.getExpr(call.Args[0], nil, current)
	if err != nil {
		return operand{}, err
	}
	pos := call.Args[0].GetPos()

	switch name {
	case "len":
		length, err := c.length(arg)
		if err != nil {
			return operand{}, codegenError(pos, "value of type %s has no length", arg.ty)
		}
		return operand{length, ast.INT_TYPE}, nil
	case "int":
		switch {
		case arg.ty.IsInt():
			return arg, nil
		case arg.ty.IsFloat():
			return operand{c.builder.CreateFPToSI(arg.v, c.context.Int64Type(), ".int"), ast.INT_TYPE}, nil
		}
	case "float":
		if arg.ty.IsNumeric() {
			return operand{c.toFloat(arg), ast.FLOAT_TYPE}, nil
		}
	case "str":
		value, err := c.toStr(arg, pos)
		if err != nil {
			return operand{}, err
		}
		return operand{value, ast.STR_TYPE}, nil
	}
	return operand{}, codegenError(pos, "cannot convert %s to %s", arg.ty, name)
}

// generatePrint writes its arguments separated by spaces and ends the
// line, like print in the host language would.
func (c *llvmCodegen) generatePrint(call *ast.CallExpr, current *varScope) (operand, error) {
	format := ""
	args := []llvm.Value{}
	for i, arg := range call.Args {
		op, err := c.getExpr(arg, nil, current)
		if err != nil {
			return operand{}, err
		}
		spec, value, err := c.format(op, arg.GetPos())
		if err != nil {
			return operand{}, err
		}
		if i > 0 {
			format += " "
		}
		format += spec
		args = append(args, value)
	}
	format += "\n"

	_, err := c.callRuntime(runtime.PRINTF, append([]llvm.Value{c.globalString(format)}, args...)...)
	if err != nil {
		return operand{}, err
	}
	return operand{ty: ast.VOID_TYPE}, nil
}

func (c *llvmCodegen) generateMethodCall(call *ast.MethodCall, current *varScope) (operand, error) {
	method := call.Method.Name()

	if id, ok := call.Object.(*ast.IdExpr); ok && c.isModuleRef(id, current) {
		module := id.Name.Name()
		fn, ok := c.functions[method]
		if !ok || !c.program.Exports(module, method) {
			return operand{}, codegenError(call.Method.Pos, "undefined function '%s.%s'", module, method)
		}
		args, err := c.getArgs(call.Args, fn.Params, module+"."+method, call, current)
		if err != nil {
			return operand{}, err
		}
		return operand{c.callFunction(fn, args), fn.Ret}, nil
	}

	object, err := c.getExpr(call.Object, nil, current)
	if err != nil {
		return operand{}, err
	}
	if object.ty.Kind != ast.EXPR_TYPE_CUSTOM {
		return c.generateBuiltinMethod(call, object, current)
	}

	fn, ok := c.functions[sema.MethodName(object.ty.ClassName(), method)]
	if !ok {
		return operand{}, codegenError(call.Method.Pos, "class '%s' has no method '%s'", object.ty.ClassName(), method)
	}
	args, err := c.getArgs(call.Args, fn.Params[1:], method, call, current)
	if err != nil {
		return operand{}, err
	}
	args = append([]llvm.Value{object.v}, args...)
	return operand{c.callFunction(fn, args), fn.Ret}, nil
}

func (c *llvmCodegen) isModuleRef(id *ast.IdExpr, current *varScope) bool {
	name := id.Name.Name()
	if _, err := current.Lookup(name); err == nil {
		return false
	}
	return c.program.IsModule(name)
}
