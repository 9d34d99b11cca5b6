package llvm

import (
	"strconv"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/lexer/token"
	"github.com/HicaroD/ember/internal/sema"
	"tinygo.org/x/go-llvm"
)

// getExpr lowers expr. hint is the type of the slot the value flows into,
// if any; container literals are built with it.
func (c *llvmCodegen) getExpr(expr ast.Expr, hint *ast.ExprType, current *varScope) (operand, error) {
	switch expression := expr.(type) {
	case *ast.LiteralExpr:
		return c.generateLiteral(expression)
	case *ast.IdExpr:
		variable, err := current.Lookup(expression.Name.Name())
		if err != nil {
			return operand{}, codegenError(expression.Name.Pos, "undefined variable '%s'", expression.Name.Name())
		}
		loadedVariable := c.builder.CreateLoad(variable.Ty, variable.Ptr, ".load")
		return operand{loadedVariable, variable.Type}, nil
	case *ast.BinaryExpr:
		return c.generateBinaryExpr(expression, current)
	case *ast.UnaryExpr:
		return c.generateUnaryExpr(expression, current)
	case *ast.CallExpr:
		return c.generateCall(expression, current)
	case *ast.MethodCall:
		return c.generateMethodCall(expression, current)
	case *ast.MemberAccess:
		object, err := c.getExpr(expression.Object, nil, current)
		if err != nil {
			return operand{}, err
		}
		return c.generateMember(object, expression)
	case *ast.IndexExpr:
		return c.generateIndexExpr(expression, current)
	case *ast.AssignExpr:
		return c.generateAssign(expression, current)
	case *ast.IndexAssignExpr:
		return c.generateIndexAssign(expression, current)
	case *ast.ListLiteral:
		return c.generateListLiteral(expression, hint, current)
	case *ast.DictLiteral:
		return c.generateDictLiteral(expression, hint, current)
	case *ast.FStringExpr:
		return c.generateFString(expression, current)
	default:
		return operand{}, unimplemented(expr)
	}
}

func (c *llvmCodegen) getConverted(expr ast.Expr, ty *ast.ExprType, current *varScope) (llvm.Value, error) {
	op, err := c.getExpr(expr, ty, current)
	if err != nil {
		return llvm.Value{}, err
	}
	return c.convert(op, ty, expr.GetPos())
}

func (c *llvmCodegen) generateLiteral(lit *ast.LiteralExpr) (operand, error) {
	switch lit.Kind {
	case token.INT_LITERAL:
		value, err := strconv.ParseInt(string(lit.Value), 10, 64)
		if err != nil {
			return operand{}, codegenError(lit.Pos, "integer literal %s is out of range", lit.Value)
		}
		return operand{c.i64(value), ast.INT_TYPE}, nil
	case token.FLOAT_LITERAL:
		value, err := strconv.ParseFloat(string(lit.Value), 64)
		if err != nil {
			return operand{}, codegenError(lit.Pos, "invalid float literal %s", lit.Value)
		}
		return operand{llvm.ConstFloat(c.context.DoubleType(), value), ast.FLOAT_TYPE}, nil
	case token.STRING_LITERAL:
		return operand{c.globalString(string(lit.Value)), ast.STR_TYPE}, nil
	case token.TRUE_BOOL_LITERAL:
		return operand{c.i1(true), ast.BOOL_TYPE}, nil
	case token.FALSE_BOOL_LITERAL:
		return operand{c.i1(false), ast.BOOL_TYPE}, nil
	case token.NONE_LITERAL:
		return operand{ty: ast.VOID_TYPE}, nil
	}
	return operand{}, unimplemented(lit)
}

// globalString returns a pointer to a private, null terminated constant.
// Equal strings share one global.
func (c *llvmCodegen) globalString(value string) llvm.Value {
	if ptr, ok := c.strings[value]; ok {
		return ptr
	}

	strlen := len(value) + 1
	arrTy := llvm.ArrayType(c.context.Int8Type(), strlen)
	arr := llvm.ConstArray(c.context.Int8Type(), c.llvmConstInt8s([]byte(value), strlen))

	globalVal := llvm.AddGlobal(c.module, arrTy, ".str")
	globalVal.SetInitializer(arr)
	globalVal.SetLinkage(llvm.PrivateLinkage)
	globalVal.SetGlobalConstant(true)
	globalVal.SetAlignment(1)
	globalVal.SetUnnamedAddr(true)

	zero := llvm.ConstInt(c.context.Int32Type(), 0, false)
	indices := []llvm.Value{zero, zero}
	ptr := llvm.ConstInBoundsGEP(arrTy, globalVal, indices)

	c.strings[value] = ptr
	return ptr
}

func (c *llvmCodegen) llvmConstInt8s(data []byte, length int) []llvm.Value {
	out := make([]llvm.Value, length)
	for i, b := range data {
		out[i] = llvm.ConstInt(c.context.Int8Type(), uint64(b), false)
	}
	// c-string null terminated string
	out[length-1] = llvm.ConstInt(c.context.Int8Type(), uint64(0), false)
	return out
}

func (c *llvmCodegen) toFloat(op operand) llvm.Value {
	if op.ty.IsInt() {
		return c.builder.CreateSIToFP(op.v, c.context.DoubleType(), ".conv")
	}
	return op.v
}

func (c *llvmCodegen) generateBinaryExpr(binary *ast.BinaryExpr, current *varScope) (operand, error) {
	if binary.Op == token.STAR_STAR {
		return operand{}, codegenError(binary.OpPos, "operator '**' is not supported by the code generator")
	}

	lhs, err := c.getExpr(binary.Left, nil, current)
	if err != nil {
		return operand{}, err
	}
	rhs, err := c.getExpr(binary.Right, nil, current)
	if err != nil {
		return operand{}, err
	}

	switch binary.Op {
	case token.AND:
		return operand{c.builder.CreateAnd(lhs.v, rhs.v, ".and"), ast.BOOL_TYPE}, nil
	case token.OR:
		return operand{c.builder.CreateOr(lhs.v, rhs.v, ".or"), ast.BOOL_TYPE}, nil
	case token.EQUAL_EQUAL, token.BANG_EQUAL, token.LESS, token.LESS_EQ, token.GREATER, token.GREATER_EQ:
		return c.generateComparison(binary, lhs, rhs)
	case token.PLUS:
		if lhs.ty.IsStr() && rhs.ty.IsStr() {
			return c.generateConcat(lhs, rhs)
		}
	}

	if !lhs.ty.IsNumeric() || !rhs.ty.IsNumeric() {
		return operand{}, codegenError(binary.OpPos, "operator '%s' is not defined for %s and %s", binary.Op, lhs.ty, rhs.ty)
	}

	ty := sema.ArithmeticType(lhs.ty, rhs.ty)
	if ty.IsInt() {
		switch binary.Op {
		case token.PLUS:
			return operand{c.builder.CreateAdd(lhs.v, rhs.v, ".add"), ty}, nil
		case token.MINUS:
			return operand{c.builder.CreateSub(lhs.v, rhs.v, ".sub"), ty}, nil
		case token.STAR:
			return operand{c.builder.CreateMul(lhs.v, rhs.v, ".mul"), ty}, nil
		case token.SLASH, token.SLASH_SLASH:
			return operand{c.builder.CreateSDiv(lhs.v, rhs.v, ".div"), ty}, nil
		case token.PERCENT:
			return operand{c.builder.CreateSRem(lhs.v, rhs.v, ".rem"), ty}, nil
		}
	} else {
		l, r := c.toFloat(lhs), c.toFloat(rhs)
		switch binary.Op {
		case token.PLUS:
			return operand{c.builder.CreateFAdd(l, r, ".fadd"), ty}, nil
		case token.MINUS:
			return operand{c.builder.CreateFSub(l, r, ".fsub"), ty}, nil
		case token.STAR:
			return operand{c.builder.CreateFMul(l, r, ".fmul"), ty}, nil
		case token.SLASH:
			return operand{c.builder.CreateFDiv(l, r, ".fdiv"), ty}, nil
		}
	}
	return operand{}, codegenError(binary.OpPos, "operator '%s' is not defined for %s and %s", binary.Op, lhs.ty, rhs.ty)
}

var intPredicates = map[token.Kind]llvm.IntPredicate{
	token.EQUAL_EQUAL: llvm.IntEQ,
	token.BANG_EQUAL:  llvm.IntNE,
	token.LESS:        llvm.IntSLT,
	token.LESS_EQ:     llvm.IntSLE,
	token.GREATER:     llvm.IntSGT,
	token.GREATER_EQ:  llvm.IntSGE,
}

var floatPredicates = map[token.Kind]llvm.FloatPredicate{
	token.EQUAL_EQUAL: llvm.FloatOEQ,
	token.BANG_EQUAL:  llvm.FloatUNE,
	token.LESS:        llvm.FloatOLT,
	token.LESS_EQ:     llvm.FloatOLE,
	token.GREATER:     llvm.FloatOGT,
	token.GREATER_EQ:  llvm.FloatOGE,
}

func (c *llvmCodegen) generateComparison(binary *ast.BinaryExpr, lhs, rhs operand) (operand, error) {
	equality := binary.Op == token.EQUAL_EQUAL || binary.Op == token.BANG_EQUAL
	if !ast.Comparable(lhs.ty, rhs.ty, equality) {
		return operand{}, codegenError(binary.OpPos, "cannot compare %s and %s", lhs.ty, rhs.ty)
	}

	switch {
	case lhs.ty.IsNumeric() && rhs.ty.IsNumeric():
		if lhs.ty.IsFloat() || rhs.ty.IsFloat() {
			cmp := c.builder.CreateFCmp(floatPredicates[binary.Op], c.toFloat(lhs), c.toFloat(rhs), ".fcmp")
			return operand{cmp, ast.BOOL_TYPE}, nil
		}
		return operand{c.builder.CreateICmp(intPredicates[binary.Op], lhs.v, rhs.v, ".cmp"), ast.BOOL_TYPE}, nil
	case lhs.ty.IsStr() && rhs.ty.IsStr():
		return c.generateStrComparison(binary.Op, lhs, rhs)
	}
	// bools by value, containers and instances by identity
	return operand{c.builder.CreateICmp(intPredicates[binary.Op], lhs.v, rhs.v, ".cmp"), ast.BOOL_TYPE}, nil
}

func (c *llvmCodegen) generateUnaryExpr(unary *ast.UnaryExpr, current *varScope) (operand, error) {
	value, err := c.getExpr(unary.Value, nil, current)
	if err != nil {
		return operand{}, err
	}

	switch {
	case unary.Op == token.NOT && value.ty.IsBoolean():
		return operand{c.builder.CreateNot(value.v, ".not"), ast.BOOL_TYPE}, nil
	case unary.Op == token.MINUS && value.ty.IsInt():
		return operand{c.builder.CreateNeg(value.v, ".neg"), ast.INT_TYPE}, nil
	case unary.Op == token.MINUS && value.ty.IsFloat():
		return operand{c.builder.CreateFNeg(value.v, ".fneg"), ast.FLOAT_TYPE}, nil
	}
	return operand{}, codegenError(unary.OpPos, "operator '%s' is not defined for %s", unary.Op, value.ty)
}

func (c *llvmCodegen) generateAssign(assign *ast.AssignExpr, current *varScope) (operand, error) {
	switch target := assign.Target.(type) {
	case *ast.IdExpr:
		variable, err := current.Lookup(target.Name.Name())
		if err != nil {
			return operand{}, codegenError(target.Name.Pos, "undefined variable '%s'", target.Name.Name())
		}
		value, err := c.getConverted(assign.Value, variable.Type, current)
		if err != nil {
			return operand{}, err
		}
		c.builder.CreateStore(value, variable.Ptr)
		return operand{value, variable.Type}, nil
	case *ast.MemberAccess:
		object, err := c.getExpr(target.Object, nil, current)
		if err != nil {
			return operand{}, err
		}
		if object.ty.Kind != ast.EXPR_TYPE_CUSTOM {
			return operand{}, codegenError(target.Field.Pos, "cannot assign to '%s'", target.Field.Name())
		}
		ptr, fieldTy, err := c.fieldPtr(object, target.Field)
		if err != nil {
			return operand{}, err
		}
		value, err := c.getConverted(assign.Value, fieldTy, current)
		if err != nil {
			return operand{}, err
		}
		c.builder.CreateStore(value, ptr)
		return operand{value, fieldTy}, nil
	}
	return operand{}, codegenError(assign.Pos, "invalid assignment target")
}

func (c *llvmCodegen) fieldPtr(object operand, field *token.Token) (llvm.Value, *ast.ExprType, error) {
	class, ok := c.classes[object.ty.ClassName()]
	if !ok {
		return llvm.Value{}, nil, codegenError(field.Pos, "undefined class '%s'", object.ty.ClassName())
	}
	index, ok := class.FieldIndex(field.Name())
	if !ok {
		return llvm.Value{}, nil, codegenError(field.Pos, "class '%s' has no field '%s'", class.Name, field.Name())
	}
	ptr := c.builder.CreateStructGEP(class.Ty, object.v, index, ".fieldptr")
	return ptr, class.Fields[index].Type, nil
}

func (c *llvmCodegen) generateMember(object operand, access *ast.MemberAccess) (operand, error) {
	if object.ty.Kind == ast.EXPR_TYPE_CUSTOM {
		ptr, fieldTy, err := c.fieldPtr(object, access.Field)
		if err != nil {
			return operand{}, err
		}
		return operand{c.builder.CreateLoad(c.getType(fieldTy), ptr, ".field"), fieldTy}, nil
	}

	if access.Field.Name() == "length" {
		switch object.ty.Kind {
		case ast.EXPR_TYPE_LIST, ast.EXPR_TYPE_ARRAY, ast.EXPR_TYPE_DICT, ast.EXPR_TYPE_STR:
			length, err := c.length(object)
			return operand{length, ast.INT_TYPE}, err
		}
	}
	return operand{}, codegenError(access.Field.Pos, "type %s has no member '%s'", object.ty, access.Field.Name())
}
