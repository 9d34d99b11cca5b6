package llvm

import (
	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/lexer/token"
	"github.com/HicaroD/ember/internal/runtime"
	"github.com/HicaroD/ember/internal/sema"
	"tinygo.org/x/go-llvm"
)

// The runtime hash table only knows string keys.
func checkDictKey(ty *ast.ExprType, pos token.Pos) error {
	key := ty.T.(*ast.DictType).Key
	if !key.IsStr() {
		return codegenError(pos, "dict keys must be str, but got %s", key)
	}
	return nil
}

// spill stores an aggregate in a fresh slot and returns its address.
func (c *llvmCodegen) spill(op operand) llvm.Value {
	ptr := c.createAlloca(c.getType(op.ty), ".tmp")
	c.builder.CreateStore(op.v, ptr)
	return ptr
}

func (c *llvmCodegen) arrayElemPtr(ptr llvm.Value, arrayTy *ast.ExprType, index llvm.Value) llvm.Value {
	indices := []llvm.Value{c.i64(0), index}
	return c.builder.CreateInBoundsGEP(c.getType(arrayTy), ptr, indices, ".elemptr")
}

func (c *llvmCodegen) length(op operand) (llvm.Value, error) {
	switch op.ty.Kind {
	case ast.EXPR_TYPE_ARRAY:
		return c.i64(int64(op.ty.T.(*ast.ArrayType).Size)), nil
	case ast.EXPR_TYPE_LIST:
		return c.callRuntime(runtime.ARRAY_LENGTH, op.v)
	case ast.EXPR_TYPE_DICT:
		return c.callRuntime(runtime.DICT_LENGTH, op.v)
	case ast.EXPR_TYPE_STR:
		return c.callRuntime(runtime.STR_LENGTH, op.v)
	}
	return llvm.Value{}, codegenError(token.Pos{}, "value of type %s has no length", op.ty)
}

// elementAt reads element i of a list or a one character string.
func (c *llvmCodegen) elementAt(op operand, i llvm.Value, pos token.Pos) (llvm.Value, error) {
	switch op.ty.Kind {
	case ast.EXPR_TYPE_LIST:
		elem, err := c.callRuntime(runtime.ARRAY_GET, op.v, i)
		if err != nil {
			return llvm.Value{}, err
		}
		return c.fromElem(elem, op.ty.Elem(), pos)
	case ast.EXPR_TYPE_STR:
		return c.callRuntime(runtime.STR_CHAR_AT, op.v, i)
	}
	return llvm.Value{}, codegenError(pos, "cannot index value of type %s", op.ty)
}

// getIndexed evaluates the object of an index expression. Fixed arrays are
// returned by address, so element writes land in the original slot.
func (c *llvmCodegen) getIndexed(expr ast.Expr, current *varScope) (operand, llvm.Value, error) {
	switch target := expr.(type) {
	case *ast.IdExpr:
		variable, err := current.Lookup(target.Name.Name())
		if err != nil {
			return operand{}, llvm.Value{}, codegenError(target.Name.Pos, "undefined variable '%s'", target.Name.Name())
		}
		if variable.Type.Kind == ast.EXPR_TYPE_ARRAY {
			return operand{ty: variable.Type}, variable.Ptr, nil
		}
		return operand{c.builder.CreateLoad(variable.Ty, variable.Ptr, ".load"), variable.Type}, llvm.Value{}, nil
	case *ast.MemberAccess:
		object, err := c.getExpr(target.Object, nil, current)
		if err != nil {
			return operand{}, llvm.Value{}, err
		}
		if object.ty.Kind == ast.EXPR_TYPE_CUSTOM {
			ptr, fieldTy, err := c.fieldPtr(object, target.Field)
			if err != nil {
				return operand{}, llvm.Value{}, err
			}
			if fieldTy.Kind == ast.EXPR_TYPE_ARRAY {
				return operand{ty: fieldTy}, ptr, nil
			}
			return operand{c.builder.CreateLoad(c.getType(fieldTy), ptr, ".field"), fieldTy}, llvm.Value{}, nil
		}
		value, err := c.generateMember(object, target)
		return value, llvm.Value{}, err
	}

	object, err := c.getExpr(expr, nil, current)
	if err != nil {
		return operand{}, llvm.Value{}, err
	}
	if object.ty.Kind == ast.EXPR_TYPE_ARRAY {
		return object, c.spill(object), nil
	}
	return object, llvm.Value{}, nil
}

func (c *llvmCodegen) generateListLiteral(list *ast.ListLiteral, hint *ast.ExprType, current *varScope) (operand, error) {
	elems := make([]operand, len(list.Elems))
	elemHint := sema.ElemHint(hint)
	for i, elem := range list.Elems {
		op, err := c.getExpr(elem, elemHint, current)
		if err != nil {
			return operand{}, err
		}
		elems[i] = op
	}

	if hint != nil && hint.Kind == ast.EXPR_TYPE_ARRAY {
		return c.generateArrayLiteral(list, elems, hint)
	}

	var elemTy *ast.ExprType
	switch {
	case elemHint != nil && (len(elems) == 0 || elemHint.Accepts(elems[0].ty)):
		elemTy = elemHint
	case len(elems) > 0:
		elemTy = elems[0].ty
	default:
		return operand{}, codegenError(list.Open, "cannot infer the type of an empty list literal")
	}

	array, err := c.callRuntime(runtime.ARRAY_CREATE)
	if err != nil {
		return operand{}, err
	}
	for i, elem := range elems {
		pos := list.Elems[i].GetPos()
		value, err := c.convert(elem, elemTy, pos)
		if err != nil {
			return operand{}, err
		}
		cell, err := c.toElem(value, elemTy, pos)
		if err != nil {
			return operand{}, err
		}
		_, err = c.callRuntime(runtime.ARRAY_PUSH, array, cell)
		if err != nil {
			return operand{}, err
		}
	}
	return operand{array, ast.NewListType(elemTy)}, nil
}

// generateArrayLiteral builds a fixed array as a first class aggregate.
func (c *llvmCodegen) generateArrayLiteral(list *ast.ListLiteral, elems []operand, arrayTy *ast.ExprType) (operand, error) {
	array := arrayTy.T.(*ast.ArrayType)
	if len(elems) != array.Size {
		return operand{}, codegenError(list.Open, "array literal has %d elements, but %s expects %d", len(elems), arrayTy, array.Size)
	}

	aggregate := llvm.Undef(c.getType(arrayTy))
	for i, elem := range elems {
		value, err := c.convert(elem, array.Elem, list.Elems[i].GetPos())
		if err != nil {
			return operand{}, err
		}
		aggregate = c.builder.CreateInsertValue(aggregate, value, i, ".arr")
	}
	return operand{aggregate, arrayTy}, nil
}

func (c *llvmCodegen) generateDictLiteral(dict *ast.DictLiteral, hint *ast.ExprType, current *varScope) (operand, error) {
	var keyHint, valueHint *ast.ExprType
	if hint != nil && hint.Kind == ast.EXPR_TYPE_DICT {
		keyHint, valueHint = hint.T.(*ast.DictType).Key, hint.T.(*ast.DictType).Value
	}

	keys := make([]operand, len(dict.Keys))
	values := make([]operand, len(dict.Values))
	for i := range dict.Keys {
		key, err := c.getExpr(dict.Keys[i], keyHint, current)
		if err != nil {
			return operand{}, err
		}
		value, err := c.getExpr(dict.Values[i], valueHint, current)
		if err != nil {
			return operand{}, err
		}
		keys[i], values[i] = key, value
	}

	var dictTy *ast.ExprType
	switch {
	case keyHint != nil && (len(keys) == 0 || (keyHint.Accepts(keys[0].ty) && valueHint.Accepts(values[0].ty))):
		dictTy = hint
	case len(keys) > 0:
		dictTy = ast.NewDictType(keys[0].ty, values[0].ty)
	default:
		return operand{}, codegenError(dict.Open, "cannot infer the type of an empty dict literal")
	}
	if err := checkDictKey(dictTy, dict.Open); err != nil {
		return operand{}, err
	}
	valueTy := dictTy.T.(*ast.DictType).Value

	table, err := c.callRuntime(runtime.DICT_CREATE)
	if err != nil {
		return operand{}, err
	}
	for i := range keys {
		err := c.dictSet(table, keys[i], values[i], valueTy, dict.Values[i].GetPos())
		if err != nil {
			return operand{}, err
		}
	}
	return operand{table, dictTy}, nil
}

func (c *llvmCodegen) dictSet(table llvm.Value, key, value operand, valueTy *ast.ExprType, pos token.Pos) error {
	converted, err := c.convert(value, valueTy, pos)
	if err != nil {
		return err
	}
	cell, err := c.toElem(converted, valueTy, pos)
	if err != nil {
		return err
	}
	_, err = c.callRuntime(runtime.DICT_SET, table, key.v, cell)
	return err
}

func (c *llvmCodegen) generateIndexExpr(index *ast.IndexExpr, current *varScope) (operand, error) {
	object, ptr, err := c.getIndexed(index.Object, current)
	if err != nil {
		return operand{}, err
	}

	switch object.ty.Kind {
	case ast.EXPR_TYPE_ARRAY:
		i, err := c.getIndex(index.Index, current)
		if err != nil {
			return operand{}, err
		}
		elemTy := object.ty.Elem()
		return operand{c.builder.CreateLoad(c.getType(elemTy), c.arrayElemPtr(ptr, object.ty, i), ".elem"), elemTy}, nil
	case ast.EXPR_TYPE_LIST, ast.EXPR_TYPE_STR:
		i, err := c.getIndex(index.Index, current)
		if err != nil {
			return operand{}, err
		}
		elem, err := c.elementAt(object, i, index.Pos)
		if err != nil {
			return operand{}, err
		}
		if object.ty.IsStr() {
			return operand{elem, ast.STR_TYPE}, nil
		}
		return operand{elem, object.ty.Elem()}, nil
	case ast.EXPR_TYPE_DICT:
		return c.dictGet(object, index.Index, index.Pos, current)
	}
	return operand{}, codegenError(index.Pos, "cannot index value of type %s", object.ty)
}

func (c *llvmCodegen) getIndex(expr ast.Expr, current *varScope) (llvm.Value, error) {
	i, err := c.getExpr(expr, ast.INT_TYPE, current)
	if err != nil {
		return llvm.Value{}, err
	}
	if !i.ty.IsInt() {
		return llvm.Value{}, codegenError(expr.GetPos(), "index must be int, but got %s", i.ty)
	}
	return i.v, nil
}

func (c *llvmCodegen) dictGet(table operand, keyExpr ast.Expr, pos token.Pos, current *varScope) (operand, error) {
	if err := checkDictKey(table.ty, pos); err != nil {
		return operand{}, err
	}
	key, err := c.getExpr(keyExpr, ast.STR_TYPE, current)
	if err != nil {
		return operand{}, err
	}
	cell, err := c.callRuntime(runtime.DICT_GET, table.v, key.v)
	if err != nil {
		return operand{}, err
	}
	valueTy := table.ty.T.(*ast.DictType).Value
	value, err := c.fromElem(cell, valueTy, pos)
	if err != nil {
		return operand{}, err
	}
	return operand{value, valueTy}, nil
}

func (c *llvmCodegen) generateIndexAssign(assign *ast.IndexAssignExpr, current *varScope) (operand, error) {
	object, ptr, err := c.getIndexed(assign.Object, current)
	if err != nil {
		return operand{}, err
	}

	if object.ty.Kind == ast.EXPR_TYPE_ARRAY {
		i, err := c.getIndex(assign.Index, current)
		if err != nil {
			return operand{}, err
		}
		elemTy := object.ty.Elem()
		value, err := c.getConverted(assign.Value, elemTy, current)
		if err != nil {
			return operand{}, err
		}
		c.builder.CreateStore(value, c.arrayElemPtr(ptr, object.ty, i))
		return operand{value, elemTy}, nil
	}

	switch object.ty.Kind {
	case ast.EXPR_TYPE_LIST:
		i, err := c.getIndex(assign.Index, current)
		if err != nil {
			return operand{}, err
		}
		elemTy := object.ty.Elem()
		value, err := c.getConverted(assign.Value, elemTy, current)
		if err != nil {
			return operand{}, err
		}
		cell, err := c.toElem(value, elemTy, assign.Pos)
		if err != nil {
			return operand{}, err
		}
		_, err = c.callRuntime(runtime.ARRAY_SET, object.v, i, cell)
		return operand{value, elemTy}, err
	case ast.EXPR_TYPE_DICT:
		if err := checkDictKey(object.ty, assign.Pos); err != nil {
			return operand{}, err
		}
		key, err := c.getExpr(assign.Index, ast.STR_TYPE, current)
		if err != nil {
			return operand{}, err
		}
		valueTy := object.ty.T.(*ast.DictType).Value
		value, err := c.getExpr(assign.Value, valueTy, current)
		if err != nil {
			return operand{}, err
		}
		err = c.dictSet(object.v, key, value, valueTy, assign.Value.GetPos())
		return value, err
	}
	return operand{}, codegenError(assign.Pos, "cannot assign to element of %s", object.ty)
}

// generateBuiltinMethod lowers the methods lists, dicts and strings provide.
func (c *llvmCodegen) generateBuiltinMethod(call *ast.MethodCall, object operand, current *varScope) (operand, error) {
	method := call.Method.Name()
	sig, ok := sema.BuiltinMethod(object.ty, method)
	if !ok {
		return operand{}, codegenError(call.Method.Pos, "type %s has no method '%s'", object.ty, method)
	}
	if len(call.Args) != len(sig.Params) {
		return operand{}, codegenError(call.Method.Pos, "'%s' expects %d arguments, but got %d", method, len(sig.Params), len(call.Args))
	}

	args := make([]llvm.Value, len(call.Args))
	for i, arg := range call.Args {
		value, err := c.getConverted(arg, sig.Params[i], current)
		if err != nil {
			return operand{}, err
		}
		args[i] = value
	}
	pos := call.Method.Pos

	switch object.ty.Kind {
	case ast.EXPR_TYPE_LIST:
		elemTy := object.ty.Elem()
		switch method {
		case "push":
			cell, err := c.toElem(args[0], elemTy, pos)
			if err != nil {
				return operand{}, err
			}
			_, err = c.callRuntime(runtime.ARRAY_PUSH, object.v, cell)
			return operand{ty: ast.VOID_TYPE}, err
		case "pop", "get":
			name := runtime.ARRAY_POP
			callArgs := []llvm.Value{object.v}
			if method == "get" {
				name = runtime.ARRAY_GET
				callArgs = append(callArgs, args[0])
			}
			cell, err := c.callRuntime(name, callArgs...)
			if err != nil {
				return operand{}, err
			}
			value, err := c.fromElem(cell, elemTy, pos)
			return operand{value, elemTy}, err
		case "set":
			cell, err := c.toElem(args[1], elemTy, pos)
			if err != nil {
				return operand{}, err
			}
			_, err = c.callRuntime(runtime.ARRAY_SET, object.v, args[0], cell)
			return operand{ty: ast.VOID_TYPE}, err
		}
	case ast.EXPR_TYPE_DICT:
		if err := checkDictKey(object.ty, pos); err != nil {
			return operand{}, err
		}
		valueTy := object.ty.T.(*ast.DictType).Value
		switch method {
		case "get":
			cell, err := c.callRuntime(runtime.DICT_GET, object.v, args[0])
			if err != nil {
				return operand{}, err
			}
			value, err := c.fromElem(cell, valueTy, pos)
			return operand{value, valueTy}, err
		case "set":
			cell, err := c.toElem(args[1], valueTy, pos)
			if err != nil {
				return operand{}, err
			}
			_, err = c.callRuntime(runtime.DICT_SET, object.v, args[0], cell)
			return operand{ty: ast.VOID_TYPE}, err
		case "has":
			found, err := c.callRuntime(runtime.DICT_HAS, object.v, args[0])
			if err != nil {
				return operand{}, err
			}
			return operand{c.builder.CreateICmp(llvm.IntNE, found, c.i64(0), ".has"), ast.BOOL_TYPE}, nil
		}
	case ast.EXPR_TYPE_STR:
		switch method {
		case "upper", "lower":
			name := runtime.STR_UPPER
			if method == "lower" {
				name = runtime.STR_LOWER
			}
			value, err := c.callRuntime(name, object.v)
			return operand{value, ast.STR_TYPE}, err
		case "contains":
			found, err := c.callRuntime(runtime.STR_CONTAINS, object.v, args[0])
			if err != nil {
				return operand{}, err
			}
			return operand{c.builder.CreateICmp(llvm.IntNE, found, c.i64(0), ".contains"), ast.BOOL_TYPE}, nil
		}
	}
	return operand{}, codegenError(pos, "type %s has no method '%s'", object.ty, method)
}
