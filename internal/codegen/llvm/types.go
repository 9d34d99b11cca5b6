package llvm

import (
	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/lexer/token"
	"github.com/HicaroD/ember/internal/runtime"
	"tinygo.org/x/go-llvm"
)

// Variable is a stack slot or a module global holding a value of Type.
type Variable struct {
	Ty   llvm.Type
	Ptr  llvm.Value
	Type *ast.ExprType
}

func NewVariableValue(ty llvm.Type, ptr llvm.Value, exprTy *ast.ExprType) *Variable {
	return &Variable{Ty: ty, Ptr: ptr, Type: exprTy}
}

// operand is a lowered expression together with its source type, which
// decides how later instructions treat the value.
type operand struct {
	v  llvm.Value
	ty *ast.ExprType
}

func (c *llvmCodegen) getType(ty *ast.ExprType) llvm.Type {
	switch ty.Kind {
	case ast.EXPR_TYPE_INT:
		return c.context.Int64Type()
	case ast.EXPR_TYPE_FLOAT:
		return c.context.DoubleType()
	case ast.EXPR_TYPE_BOOL:
		return c.context.Int1Type()
	case ast.EXPR_TYPE_VOID:
		return c.context.VoidType()
	case ast.EXPR_TYPE_ARRAY:
		array := ty.T.(*ast.ArrayType)
		return llvm.ArrayType(c.getType(array.Elem), array.Size)
	default:
		// str, list, dict and class instances live behind a pointer
		return c.getPtrType()
	}
}

func (c *llvmCodegen) getPtrType() llvm.Type {
	return llvm.PointerType(c.context.Int8Type(), 0)
}

func (c *llvmCodegen) getTypes(types []*ast.ExprType) []llvm.Type {
	tys := make([]llvm.Type, len(types))
	for i, ty := range types {
		tys[i] = c.getType(ty)
	}
	return tys
}

func (c *llvmCodegen) getABIType(abi runtime.ABI) llvm.Type {
	switch abi {
	case runtime.I1:
		return c.context.Int1Type()
	case runtime.I32:
		return c.context.Int32Type()
	case runtime.I64:
		return c.context.Int64Type()
	case runtime.F64:
		return c.context.DoubleType()
	case runtime.PTR:
		return c.getPtrType()
	default:
		return c.context.VoidType()
	}
}

func (c *llvmCodegen) i64(value int64) llvm.Value {
	return llvm.ConstInt(c.context.Int64Type(), uint64(value), true)
}

func (c *llvmCodegen) i1(value bool) llvm.Value {
	if value {
		return llvm.ConstInt(c.context.Int1Type(), 1, false)
	}
	return llvm.ConstInt(c.context.Int1Type(), 0, false)
}

// zeroValue is what a declaration without initializer holds. Containers
// start empty and strings start as "".
func (c *llvmCodegen) zeroValue(ty *ast.ExprType) (llvm.Value, error) {
	switch ty.Kind {
	case ast.EXPR_TYPE_STR:
		return c.globalString(""), nil
	case ast.EXPR_TYPE_LIST:
		return c.callRuntime(runtime.ARRAY_CREATE)
	case ast.EXPR_TYPE_DICT:
		return c.callRuntime(runtime.DICT_CREATE)
	default:
		return llvm.ConstNull(c.getType(ty)), nil
	}
}

// convert adapts a value to the type of the slot it is stored in. The only
// conversion the language has is int to float; containers are never
// rebuilt.
func (c *llvmCodegen) convert(op operand, target *ast.ExprType, pos token.Pos) (llvm.Value, error) {
	if target.IsFloat() && op.ty.IsInt() {
		return c.builder.CreateSIToFP(op.v, c.context.DoubleType(), ".conv"), nil
	}
	if op.ty.Equals(target) || op.ty.IsVoid() {
		return op.v, nil
	}
	return llvm.Value{}, codegenError(pos, "cannot convert value of type %s to %s", op.ty, target)
}

// toElem widens a value to the i64 cell containers store.
func (c *llvmCodegen) toElem(v llvm.Value, ty *ast.ExprType, pos token.Pos) (llvm.Value, error) {
	i64 := c.context.Int64Type()
	switch ty.Kind {
	case ast.EXPR_TYPE_INT:
		return v, nil
	case ast.EXPR_TYPE_FLOAT:
		return c.builder.CreateBitCast(v, i64, ".elem"), nil
	case ast.EXPR_TYPE_BOOL:
		return c.builder.CreateZExt(v, i64, ".elem"), nil
	case ast.EXPR_TYPE_STR, ast.EXPR_TYPE_LIST, ast.EXPR_TYPE_DICT, ast.EXPR_TYPE_CUSTOM:
		return c.builder.CreatePtrToInt(v, i64, ".elem"), nil
	}
	return llvm.Value{}, codegenError(pos, "values of type %s cannot be stored in a container", ty)
}

// fromElem is the inverse of toElem.
func (c *llvmCodegen) fromElem(v llvm.Value, ty *ast.ExprType, pos token.Pos) (llvm.Value, error) {
	switch ty.Kind {
	case ast.EXPR_TYPE_INT:
		return v, nil
	case ast.EXPR_TYPE_FLOAT:
		return c.builder.CreateBitCast(v, c.context.DoubleType(), ".val"), nil
	case ast.EXPR_TYPE_BOOL:
		return c.builder.CreateICmp(llvm.IntNE, v, c.i64(0), ".val"), nil
	case ast.EXPR_TYPE_STR, ast.EXPR_TYPE_LIST, ast.EXPR_TYPE_DICT, ast.EXPR_TYPE_CUSTOM:
		return c.builder.CreateIntToPtr(v, c.getPtrType(), ".val"), nil
	}
	return llvm.Value{}, codegenError(pos, "values of type %s cannot be stored in a container", ty)
}
