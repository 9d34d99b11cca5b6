package llvm

import (
	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/lexer/token"
	"github.com/HicaroD/ember/internal/runtime"
	"tinygo.org/x/go-llvm"
)

type Function struct {
	Name string
	Fn   llvm.Value
	Ty   llvm.Type
	// nil for runtime symbols, whose types are given by the contract
	Params []*ast.ExprType
	Ret    *ast.ExprType
	// ABI return kind, set for runtime symbols only
	abi runtime.ABI
}

func NewFunctionValue(name string, fn llvm.Value, ty llvm.Type) *Function {
	return &Function{Name: name, Fn: fn, Ty: ty}
}

type Class struct {
	Name    string
	Ty      llvm.Type
	Fields  []*ast.Field
	index   map[string]int
	Ctor    *Function
	HasInit bool
}

func (class *Class) FieldIndex(name string) (int, bool) {
	i, ok := class.index[name]
	return i, ok
}

type loop struct {
	// target of continue
	cont llvm.BasicBlock
	// target of break
	end llvm.BasicBlock
}

func (c *llvmCodegen) addFunction(name string, params []*ast.ExprType, ret *ast.ExprType) *Function {
	functionType := llvm.FunctionType(c.getType(ret), c.getTypes(params), false)
	functionValue := llvm.AddFunction(c.module, name, functionType)
	// only main is exported, user symbols never collide with the C library
	functionValue.SetLinkage(llvm.InternalLinkage)
	fn := NewFunctionValue(name, functionValue, functionType)
	fn.Params, fn.Ret = params, ret
	c.functions[name] = fn
	return fn
}

// createAlloca places the slot in the entry block of the current function,
// so it dominates every use regardless of where the declaration appears.
func (c *llvmCodegen) createAlloca(ty llvm.Type, name string) llvm.Value {
	entry := c.fn.Fn.EntryBasicBlock()
	first := entry.FirstInstruction()
	if first.IsNil() {
		c.allocaBuilder.SetInsertPointAtEnd(entry)
	} else {
		c.allocaBuilder.SetInsertPointBefore(first)
	}
	return c.allocaBuilder.CreateAlloca(ty, name)
}

func (c *llvmCodegen) blockTerminated() bool {
	last := c.builder.GetInsertBlock().LastInstruction()
	return !last.IsNil() && !last.IsATerminatorInst().IsNil()
}

// runtimeFunction declares a contract symbol on first use.
func (c *llvmCodegen) runtimeFunction(name string) (*Function, error) {
	if fn, ok := c.runtime[name]; ok {
		return fn, nil
	}

	symbol, ok := runtime.Lookup(name)
	if !ok {
		return nil, codegenError(token.Pos{}, "undefined runtime symbol '%s'", name)
	}
	params := make([]llvm.Type, len(symbol.Params))
	for i, param := range symbol.Params {
		params[i] = c.getABIType(param)
	}
	ty := llvm.FunctionType(c.getABIType(symbol.Ret), params, symbol.Variadic)

	value := c.module.NamedFunction(name)
	if value.IsNil() {
		value = llvm.AddFunction(c.module, name, ty)
	}
	fn := NewFunctionValue(name, value, ty)
	fn.abi = symbol.Ret
	c.runtime[name] = fn
	return fn, nil
}

func (c *llvmCodegen) callRuntime(name string, args ...llvm.Value) (llvm.Value, error) {
	fn, err := c.runtimeFunction(name)
	if err != nil {
		return llvm.Value{}, err
	}
	callName := ".call"
	if fn.abi == runtime.VOID {
		callName = ""
	}
	return c.builder.CreateCall(fn.Ty, fn.Fn, args, callName), nil
}

// callFunction calls a function defined by the program.
func (c *llvmCodegen) callFunction(fn *Function, args []llvm.Value) llvm.Value {
	callName := ".call"
	if fn.Ret.IsVoid() {
		callName = ""
	}
	return c.builder.CreateCall(fn.Ty, fn.Fn, args, callName)
}
