package sema

import (
	"strconv"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/lexer/token"
)

// checkExpr returns the type of expr. hint is the type the surrounding
// context expects, or nil; only container literals consult it.
func (sema *sema) checkExpr(expr ast.Expr, hint *ast.ExprType, current *typeScope) (*ast.ExprType, error) {
	switch expression := expr.(type) {
	case *ast.LiteralExpr:
		return checkLiteral(expression)
	case *ast.IdExpr:
		return sema.checkIdExpr(expression, current)
	case *ast.BinaryExpr:
		return sema.checkBinaryExpr(expression, current)
	case *ast.UnaryExpr:
		return sema.checkUnaryExpr(expression, current)
	case *ast.CallExpr:
		return sema.checkCall(expression, current)
	case *ast.MethodCall:
		return sema.checkMethodCall(expression, current)
	case *ast.MemberAccess:
		return sema.checkMemberAccess(expression, current)
	case *ast.IndexExpr:
		return sema.checkIndexExpr(expression, current)
	case *ast.AssignExpr:
		return sema.checkAssign(expression, current)
	case *ast.IndexAssignExpr:
		return sema.checkIndexAssign(expression, current)
	case *ast.ListLiteral:
		return sema.checkListLiteral(expression, hint, current)
	case *ast.DictLiteral:
		return sema.checkDictLiteral(expression, hint, current)
	case *ast.FStringExpr:
		return sema.checkFString(expression, current)
	default:
		return nil, unimplemented(expr)
	}
}

func checkLiteral(literal *ast.LiteralExpr) (*ast.ExprType, error) {
	switch literal.Kind {
	case token.INT_LITERAL:
		_, err := strconv.ParseInt(string(literal.Value), 10, 64)
		if err != nil {
			return nil, typeError(literal.Pos, "integer literal %s is out of range", literal.Value)
		}
		return ast.INT_TYPE, nil
	case token.FLOAT_LITERAL:
		return ast.FLOAT_TYPE, nil
	case token.STRING_LITERAL:
		return ast.STR_TYPE, nil
	case token.TRUE_BOOL_LITERAL, token.FALSE_BOOL_LITERAL:
		return ast.BOOL_TYPE, nil
	case token.NONE_LITERAL:
		return ast.VOID_TYPE, nil
	}
	return nil, unimplemented(literal)
}

func (sema *sema) checkIdExpr(id *ast.IdExpr, current *typeScope) (*ast.ExprType, error) {
	name := id.Name.Name()
	ty, err := current.Lookup(name)
	if err == nil {
		return ty, nil
	}

	if _, ok := sema.functions[name]; ok {
		return nil, typeError(id.Name.Pos, "function '%s' used as a value", name)
	}
	if _, ok := sema.classes[name]; ok {
		return nil, typeError(id.Name.Pos, "class '%s' used as a value", name)
	}
	return nil, typeError(id.Name.Pos, "undefined variable '%s'", name)
}

// ArithmeticType is the result of a numeric operator: Int when both
// operands are Int, Float otherwise.
func ArithmeticType(left, right *ast.ExprType) *ast.ExprType {
	if left.IsInt() && right.IsInt() {
		return ast.INT_TYPE
	}
	return ast.FLOAT_TYPE
}

func (sema *sema) checkBinaryExpr(binary *ast.BinaryExpr, current *typeScope) (*ast.ExprType, error) {
	left, err := sema.checkExpr(binary.Left, nil, current)
	if err != nil {
		return nil, err
	}
	right, err := sema.checkExpr(binary.Right, nil, current)
	if err != nil {
		return nil, err
	}

	switch binary.Op {
	case token.AND, token.OR:
		if !left.IsBoolean() || !right.IsBoolean() {
			return nil, typeError(binary.OpPos, "operator '%s' requires bool operands, but got %s and %s", binary.Op, left, right)
		}
		return ast.BOOL_TYPE, nil
	case token.EQUAL_EQUAL, token.BANG_EQUAL:
		if !ast.Comparable(left, right, true) {
			return nil, typeError(binary.OpPos, "cannot compare %s and %s", left, right)
		}
		return ast.BOOL_TYPE, nil
	case token.LESS, token.LESS_EQ, token.GREATER, token.GREATER_EQ:
		if !ast.Comparable(left, right, false) {
			if ast.MutuallyCompatible(left, right) {
				return nil, typeError(binary.OpPos, "operator '%s' is not defined for %s", binary.Op, left)
			}
			return nil, typeError(binary.OpPos, "cannot compare %s and %s", left, right)
		}
		return ast.BOOL_TYPE, nil
	case token.PLUS:
		if left.IsStr() && right.IsStr() {
			return ast.STR_TYPE, nil
		}
		fallthrough
	case token.MINUS, token.STAR, token.SLASH, token.STAR_STAR:
		if !left.IsNumeric() || !right.IsNumeric() {
			return nil, typeError(binary.OpPos, "operator '%s' is not defined for %s and %s", binary.Op, left, right)
		}
		return ArithmeticType(left, right), nil
	case token.PERCENT, token.SLASH_SLASH:
		if !left.IsInt() || !right.IsInt() {
			return nil, typeError(binary.OpPos, "operator '%s' requires int operands, but got %s and %s", binary.Op, left, right)
		}
		return ast.INT_TYPE, nil
	}
	return nil, unimplemented(binary)
}

func (sema *sema) checkUnaryExpr(unary *ast.UnaryExpr, current *typeScope) (*ast.ExprType, error) {
	ty, err := sema.checkExpr(unary.Value, nil, current)
	if err != nil {
		return nil, err
	}

	switch unary.Op {
	case token.NOT:
		if !ty.IsBoolean() {
			return nil, typeError(unary.OpPos, "operator 'not' requires bool operand, but got %s", ty)
		}
	case token.MINUS:
		if !ty.IsNumeric() {
			return nil, typeError(unary.OpPos, "operator '-' requires numeric operand, but got %s", ty)
		}
	default:
		return nil, unimplemented(unary)
	}
	return ty, nil
}

func (sema *sema) checkMemberAccess(access *ast.MemberAccess, current *typeScope) (*ast.ExprType, error) {
	ty, _, err := sema.checkMember(access, current)
	return ty, err
}

// checkMember returns the type of object.field together with the type of
// the object.
func (sema *sema) checkMember(access *ast.MemberAccess, current *typeScope) (*ast.ExprType, *ast.ExprType, error) {
	field := access.Field.Name()
	if IsPrivate(field) {
		return nil, nil, typeError(access.Field.Pos, "cannot access private member '%s'", field)
	}
	if id, ok := access.Object.(*ast.IdExpr); ok && sema.isModuleRef(id, current) {
		return nil, nil, typeError(access.Field.Pos, "module member '%s.%s' must be called", id.Name.Name(), field)
	}

	objectTy, err := sema.checkExpr(access.Object, nil, current)
	if err != nil {
		return nil, nil, err
	}

	switch objectTy.Kind {
	case ast.EXPR_TYPE_LIST, ast.EXPR_TYPE_ARRAY, ast.EXPR_TYPE_DICT, ast.EXPR_TYPE_STR:
		if field == "length" {
			return ast.INT_TYPE, objectTy, nil
		}
	case ast.EXPR_TYPE_CUSTOM:
		class := sema.classes[objectTy.ClassName()]
		if ty, ok := class.FieldType(field); ok {
			return ty, objectTy, nil
		}
		return nil, nil, typeError(access.Field.Pos, "class '%s' has no field '%s'", class.Name, field)
	}
	return nil, nil, typeError(access.Field.Pos, "type %s has no member '%s'", objectTy, field)
}

func (sema *sema) checkIndexExpr(index *ast.IndexExpr, current *typeScope) (*ast.ExprType, error) {
	objectTy, err := sema.checkExpr(index.Object, nil, current)
	if err != nil {
		return nil, err
	}
	return sema.checkSubscript(objectTy, index.Index, index.Pos, current)
}

// checkSubscript validates the index of object[index] and returns the type
// of the element it designates.
func (sema *sema) checkSubscript(objectTy *ast.ExprType, index ast.Expr, pos token.Pos, current *typeScope) (*ast.ExprType, error) {
	switch objectTy.Kind {
	case ast.EXPR_TYPE_LIST, ast.EXPR_TYPE_ARRAY, ast.EXPR_TYPE_STR:
		indexTy, err := sema.checkExpr(index, ast.INT_TYPE, current)
		if err != nil {
			return nil, err
		}
		if !indexTy.IsInt() {
			return nil, typeError(index.GetPos(), "index must be int, but got %s", indexTy)
		}
		if objectTy.IsStr() {
			return ast.STR_TYPE, nil
		}
		return objectTy.Elem(), nil
	case ast.EXPR_TYPE_DICT:
		dict := objectTy.T.(*ast.DictType)
		keyTy, err := sema.checkExpr(index, dict.Key, current)
		if err != nil {
			return nil, err
		}
		if !dict.Key.Accepts(keyTy) {
			return nil, typeError(index.GetPos(), "cannot use %s as key of %s", keyTy, objectTy)
		}
		return dict.Value, nil
	}
	return nil, typeError(pos, "cannot index value of type %s", objectTy)
}

func (sema *sema) checkAssign(assign *ast.AssignExpr, current *typeScope) (*ast.ExprType, error) {
	var targetTy *ast.ExprType
	var err error

	switch target := assign.Target.(type) {
	case *ast.IdExpr:
		targetTy, err = sema.checkIdExpr(target, current)
	case *ast.MemberAccess:
		var objectTy *ast.ExprType
		targetTy, objectTy, err = sema.checkMember(target, current)
		if err == nil && target.Field.Name() == "length" && objectTy.Kind != ast.EXPR_TYPE_CUSTOM {
			return nil, typeError(target.Field.Pos, "cannot assign to 'length'")
		}
	default:
		return nil, typeError(assign.Pos, "invalid assignment target")
	}
	if err != nil {
		return nil, err
	}

	valueTy, err := sema.checkExpr(assign.Value, targetTy, current)
	if err != nil {
		return nil, err
	}
	if !targetTy.Accepts(valueTy) {
		return nil, typeError(assign.Value.GetPos(), "cannot assign value of type %s to %s", valueTy, targetTy)
	}
	return targetTy, nil
}

func (sema *sema) checkIndexAssign(assign *ast.IndexAssignExpr, current *typeScope) (*ast.ExprType, error) {
	objectTy, err := sema.checkExpr(assign.Object, nil, current)
	if err != nil {
		return nil, err
	}
	if objectTy.IsStr() {
		return nil, typeError(assign.Pos, "strings are immutable")
	}

	elemTy, err := sema.checkSubscript(objectTy, assign.Index, assign.Pos, current)
	if err != nil {
		return nil, err
	}
	valueTy, err := sema.checkExpr(assign.Value, elemTy, current)
	if err != nil {
		return nil, err
	}
	if !elemTy.Accepts(valueTy) {
		return nil, typeError(assign.Value.GetPos(), "cannot assign value of type %s to element of %s", valueTy, objectTy)
	}
	return elemTy, nil
}

// ElemHint returns the element type a literal should be built with when it
// is checked against hint, or nil when hint gives no such information.
func ElemHint(hint *ast.ExprType) *ast.ExprType {
	if hint == nil {
		return nil
	}
	switch hint.Kind {
	case ast.EXPR_TYPE_LIST, ast.EXPR_TYPE_ARRAY:
		return hint.Elem()
	}
	return nil
}

func (sema *sema) checkListLiteral(list *ast.ListLiteral, hint *ast.ExprType, current *typeScope) (*ast.ExprType, error) {
	elemHint := ElemHint(hint)

	if hint != nil && hint.Kind == ast.EXPR_TYPE_ARRAY {
		array := hint.T.(*ast.ArrayType)
		if len(list.Elems) != array.Size {
			return nil, typeError(list.Open, "array literal has %d elements, but %s expects %d", len(list.Elems), hint, array.Size)
		}
		for _, elem := range list.Elems {
			ty, err := sema.checkExpr(elem, elemHint, current)
			if err != nil {
				return nil, err
			}
			if !array.Elem.Accepts(ty) {
				return nil, typeError(elem.GetPos(), "array elements must be %s, but got %s", array.Elem, ty)
			}
		}
		return hint, nil
	}

	if len(list.Elems) == 0 {
		if elemHint == nil {
			return nil, typeError(list.Open, "cannot infer the type of an empty list literal")
		}
		return hint, nil
	}

	first, err := sema.checkExpr(list.Elems[0], elemHint, current)
	if err != nil {
		return nil, err
	}
	if first.IsVoid() {
		return nil, typeError(list.Elems[0].GetPos(), "list elements cannot be void")
	}
	for _, elem := range list.Elems[1:] {
		ty, err := sema.checkExpr(elem, elemHint, current)
		if err != nil {
			return nil, err
		}
		if !first.Accepts(ty) {
			return nil, typeError(elem.GetPos(), "list elements must have the same type: expected %s, but got %s", first, ty)
		}
	}

	if elemHint != nil && elemHint.Accepts(first) {
		return hint, nil
	}
	return ast.NewListType(first), nil
}

func (sema *sema) checkDictLiteral(dict *ast.DictLiteral, hint *ast.ExprType, current *typeScope) (*ast.ExprType, error) {
	var keyHint, valueHint *ast.ExprType
	if hint != nil && hint.Kind == ast.EXPR_TYPE_DICT {
		keyHint, valueHint = hint.T.(*ast.DictType).Key, hint.T.(*ast.DictType).Value
	}

	if len(dict.Keys) == 0 {
		if keyHint == nil {
			return nil, typeError(dict.Open, "cannot infer the type of an empty dict literal")
		}
		return hint, nil
	}

	var keyTy, valueTy *ast.ExprType
	for i := range dict.Keys {
		k, err := sema.checkExpr(dict.Keys[i], keyHint, current)
		if err != nil {
			return nil, err
		}
		v, err := sema.checkExpr(dict.Values[i], valueHint, current)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			if k.IsVoid() || v.IsVoid() {
				return nil, typeError(dict.Keys[i].GetPos(), "dict entries cannot be void")
			}
			keyTy, valueTy = k, v
			continue
		}
		if !keyTy.Accepts(k) {
			return nil, typeError(dict.Keys[i].GetPos(), "dict keys must have the same type: expected %s, but got %s", keyTy, k)
		}
		if !valueTy.Accepts(v) {
			return nil, typeError(dict.Values[i].GetPos(), "dict values must have the same type: expected %s, but got %s", valueTy, v)
		}
	}

	if keyHint != nil && keyHint.Accepts(keyTy) && valueHint.Accepts(valueTy) {
		return hint, nil
	}
	return ast.NewDictType(keyTy, valueTy), nil
}

func (sema *sema) checkFString(fstr *ast.FStringExpr, current *typeScope) (*ast.ExprType, error) {
	for _, expr := range fstr.Exprs {
		ty, err := sema.checkExpr(expr, nil, current)
		if err != nil {
			return nil, err
		}
		if !ty.IsPrimitive() {
			return nil, typeError(expr.GetPos(), "cannot format value of type %s in f-string", ty)
		}
	}
	return ast.STR_TYPE, nil
}
