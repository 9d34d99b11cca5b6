package llvm

import (
	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/lexer/token"
	"github.com/HicaroD/ember/internal/runtime"
	"tinygo.org/x/go-llvm"
)

// Large enough for any %lld or %g conversion.
const scratchSize = 32

func (c *llvmCodegen) boolString(v llvm.Value) llvm.Value {
	return c.builder.CreateSelect(v, c.globalString("True"), c.globalString("False"), ".boolstr")
}

// format returns the printf conversion for op and the argument to pass
// with it.
func (c *llvmCodegen) format(op operand, pos token.Pos) (string, llvm.Value, error) {
	switch op.ty.Kind {
	case ast.EXPR_TYPE_INT:
		return "%lld", op.v, nil
	case ast.EXPR_TYPE_FLOAT:
		return "%g", op.v, nil
	case ast.EXPR_TYPE_STR:
		return "%s", op.v, nil
	case ast.EXPR_TYPE_BOOL:
		return "%s", c.boolString(op.v), nil
	}
	return "", llvm.Value{}, codegenError(pos, "cannot format value of type %s", op.ty)
}

// snprintf formats op into buf, which holds scratchSize bytes.
func (c *llvmCodegen) snprintf(buf llvm.Value, op operand, pos token.Pos) error {
	spec, value, err := c.format(op, pos)
	if err != nil {
		return err
	}
	_, err = c.callRuntime(runtime.SNPRINTF, buf, c.i64(scratchSize), c.globalString(spec), value)
	return err
}

// toStr converts a primitive to a string. Numbers are formatted into a
// fresh heap buffer.
func (c *llvmCodegen) toStr(op operand, pos token.Pos) (llvm.Value, error) {
	switch op.ty.Kind {
	case ast.EXPR_TYPE_STR:
		return op.v, nil
	case ast.EXPR_TYPE_BOOL:
		return c.boolString(op.v), nil
	case ast.EXPR_TYPE_INT, ast.EXPR_TYPE_FLOAT:
		buf, err := c.callRuntime(runtime.MALLOC, c.i64(scratchSize))
		if err != nil {
			return llvm.Value{}, err
		}
		return buf, c.snprintf(buf, op, pos)
	}
	return llvm.Value{}, codegenError(pos, "cannot convert %s to str", op.ty)
}

func (c *llvmCodegen) generateConcat(lhs, rhs operand) (operand, error) {
	result, err := c.joinStrings([]llvm.Value{lhs.v, rhs.v}, 0, nil)
	if err != nil {
		return operand{}, err
	}
	return operand{result, ast.STR_TYPE}, nil
}

// joinStrings copies pieces into one malloc'd buffer. known is the total
// length of the pieces whose size is a compile time constant; the others
// are measured with strlen. A nil measure measures every piece.
func (c *llvmCodegen) joinStrings(pieces []llvm.Value, known int, measure []bool) (llvm.Value, error) {
	size := c.i64(int64(known + 1))
	for i, piece := range pieces {
		if measure != nil && !measure[i] {
			continue
		}
		length, err := c.callRuntime(runtime.STRLEN, piece)
		if err != nil {
			return llvm.Value{}, err
		}
		size = c.builder.CreateAdd(size, length, ".size")
	}

	buf, err := c.callRuntime(runtime.MALLOC, size)
	if err != nil {
		return llvm.Value{}, err
	}
	if len(pieces) == 0 {
		_, err = c.callRuntime(runtime.STRCPY, buf, c.globalString(""))
		return buf, err
	}

	_, err = c.callRuntime(runtime.STRCPY, buf, pieces[0])
	if err != nil {
		return llvm.Value{}, err
	}
	for _, piece := range pieces[1:] {
		_, err = c.callRuntime(runtime.STRCAT, buf, piece)
		if err != nil {
			return llvm.Value{}, err
		}
	}
	return buf, nil
}

func (c *llvmCodegen) generateStrComparison(op token.Kind, lhs, rhs operand) (operand, error) {
	cmp, err := c.callRuntime(runtime.STRCMP, lhs.v, rhs.v)
	if err != nil {
		return operand{}, err
	}
	zero := llvm.ConstInt(c.context.Int32Type(), 0, false)
	return operand{c.builder.CreateICmp(intPredicates[op], cmp, zero, ".strcmp"), ast.BOOL_TYPE}, nil
}

// generateFString formats every interpolated number into its own scratch
// buffer, then joins literal parts and values into a single heap string.
func (c *llvmCodegen) generateFString(fstr *ast.FStringExpr, current *varScope) (operand, error) {
	var pieces []llvm.Value
	var measure []bool
	known := 0

	addLiteral := func(part string) {
		if part == "" {
			return
		}
		pieces = append(pieces, c.globalString(part))
		measure = append(measure, false)
		known += len(part)
	}

	for i, expr := range fstr.Exprs {
		addLiteral(fstr.Parts[i])

		op, err := c.getExpr(expr, nil, current)
		if err != nil {
			return operand{}, err
		}
		var piece llvm.Value
		switch op.ty.Kind {
		case ast.EXPR_TYPE_STR:
			piece = op.v
		case ast.EXPR_TYPE_BOOL:
			piece = c.boolString(op.v)
		default:
			piece = c.createAlloca(llvm.ArrayType(c.context.Int8Type(), scratchSize), ".fmtbuf")
			if err := c.snprintf(piece, op, expr.GetPos()); err != nil {
				return operand{}, err
			}
		}
		pieces = append(pieces, piece)
		measure = append(measure, true)
	}
	addLiteral(fstr.Parts[len(fstr.Parts)-1])

	result, err := c.joinStrings(pieces, known, measure)
	if err != nil {
		return operand{}, err
	}
	return operand{result, ast.STR_TYPE}, nil
}
