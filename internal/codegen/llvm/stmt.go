package llvm

import (
	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/runtime"
	"github.com/HicaroD/ember/internal/scope"
	"github.com/HicaroD/ember/internal/sema"
	"tinygo.org/x/go-llvm"
)

type varScope = scope.Scope[*Variable]

// generateBlock stops at the first statement that terminates the current
// basic block; whatever follows it is unreachable.
func (c *llvmCodegen) generateBlock(block *ast.BlockStmt, parentScope *varScope) error {
	blockScope := scope.New(parentScope)
	for _, stmt := range block.Statements {
		err := c.generateStmt(stmt, blockScope)
		if err != nil {
			return err
		}
		if c.blockTerminated() {
			break
		}
	}
	return nil
}

func (c *llvmCodegen) generateStmt(stmt ast.Stmt, current *varScope) error {
	switch statement := stmt.(type) {
	case *ast.VarDecl:
		return c.generateVarDecl(statement, current)
	case *ast.ExprStmt:
		_, err := c.getExpr(statement.Expr, nil, current)
		return err
	case *ast.IfStmt:
		return c.generateCondStmt(statement, current)
	case *ast.WhileStmt:
		return c.generateWhileLoop(statement, current)
	case *ast.ForStmt:
		return c.generateForLoop(statement, current)
	case *ast.ReturnStmt:
		return c.generateReturnStmt(statement, current)
	case *ast.BreakStmt:
		if len(c.loops) == 0 {
			return codegenError(statement.Pos, "'break' outside of loop")
		}
		c.builder.CreateBr(c.loops[len(c.loops)-1].end)
		return nil
	case *ast.ContinueStmt:
		if len(c.loops) == 0 {
			return codegenError(statement.Pos, "'continue' outside of loop")
		}
		c.builder.CreateBr(c.loops[len(c.loops)-1].cont)
		return nil
	case *ast.PassStmt, *ast.ImportStmt:
		return nil
	case *ast.AssertStmt:
		return c.generateAssert(statement, current)
	case *ast.BlockStmt:
		return c.generateBlock(statement, current)
	default:
		return unimplemented(stmt)
	}
}

func (c *llvmCodegen) generateVarDecl(variable *ast.VarDecl, current *varScope) error {
	var value llvm.Value
	var err error

	if variable.Value != nil {
		var op operand
		op, err = c.getExpr(variable.Value, variable.Type, current)
		if err != nil {
			return err
		}
		value, err = c.convert(op, variable.Type, variable.Value.GetPos())
	} else {
		value, err = c.zeroValue(variable.Type)
	}
	if err != nil {
		return err
	}

	name := variable.Name.Name()
	ty := c.getType(variable.Type)

	var ptr llvm.Value
	if current == c.globals {
		ptr = llvm.AddGlobal(c.module, ty, name)
		ptr.SetLinkage(llvm.InternalLinkage)
		ptr.SetInitializer(llvm.ConstNull(ty))
	} else {
		ptr = c.createAlloca(ty, name)
	}
	c.builder.CreateStore(value, ptr)

	// shadowing in the same scope was rejected by sema
	current.Nodes[name] = NewVariableValue(ty, ptr, variable.Type)
	return nil
}

func (c *llvmCodegen) getCondition(cond ast.Expr, current *varScope) (llvm.Value, error) {
	op, err := c.getExpr(cond, ast.BOOL_TYPE, current)
	if err != nil {
		return llvm.Value{}, err
	}
	if !op.ty.IsBoolean() {
		return llvm.Value{}, codegenError(cond.GetPos(), "condition must be bool, but got %s", op.ty)
	}
	return op.v, nil
}

func (c *llvmCodegen) generateCondStmt(condStmt *ast.IfStmt, current *varScope) error {
	branches := append([]*ast.CondBranch{condStmt.If}, condStmt.Elifs...)
	endBlock := c.context.AddBasicBlock(c.fn.Fn, ".end")

	for i, branch := range branches {
		cond, err := c.getCondition(branch.Cond, current)
		if err != nil {
			return err
		}

		ifBlock := c.context.InsertBasicBlock(endBlock, ".if")
		elseBlock := endBlock
		if i < len(branches)-1 || condStmt.Else != nil {
			elseBlock = c.context.InsertBasicBlock(endBlock, ".else")
		}
		c.builder.CreateCondBr(cond, ifBlock, elseBlock)

		c.builder.SetInsertPointAtEnd(ifBlock)
		err = c.generateBlock(branch.Block, current)
		if err != nil {
			return err
		}
		if !c.blockTerminated() {
			c.builder.CreateBr(endBlock)
		}

		c.builder.SetInsertPointAtEnd(elseBlock)
	}

	if condStmt.Else != nil {
		err := c.generateBlock(condStmt.Else, current)
		if err != nil {
			return err
		}
		if !c.blockTerminated() {
			c.builder.CreateBr(endBlock)
		}
		c.builder.SetInsertPointAtEnd(endBlock)
	}
	return nil
}

func (c *llvmCodegen) generateWhileLoop(whileLoop *ast.WhileStmt, current *varScope) error {
	condBlock := c.context.AddBasicBlock(c.fn.Fn, ".whilecond")
	bodyBlock := c.context.AddBasicBlock(c.fn.Fn, ".whilebody")
	endBlock := c.context.AddBasicBlock(c.fn.Fn, ".whileend")

	c.builder.CreateBr(condBlock)
	c.builder.SetInsertPointAtEnd(condBlock)
	cond, err := c.getCondition(whileLoop.Cond, current)
	if err != nil {
		return err
	}
	c.builder.CreateCondBr(cond, bodyBlock, endBlock)

	c.builder.SetInsertPointAtEnd(bodyBlock)
	c.loops = append(c.loops, &loop{cont: condBlock, end: endBlock})
	err = c.generateBlock(whileLoop.Block, current)
	c.loops = c.loops[:len(c.loops)-1]
	if err != nil {
		return err
	}
	if !c.blockTerminated() {
		c.builder.CreateBr(condBlock)
	}

	endBlock.MoveAfter(c.builder.GetInsertBlock())
	c.builder.SetInsertPointAtEnd(endBlock)
	return nil
}

// generateForLoop desugars `for x in e` into a counted loop over e, which
// is evaluated once.
func (c *llvmCodegen) generateForLoop(forLoop *ast.ForStmt, current *varScope) error {
	iterable, err := c.getExpr(forLoop.Iterable, nil, current)
	if err != nil {
		return err
	}
	varTy := sema.IterationType(iterable.ty)
	if varTy == nil {
		return codegenError(forLoop.Iterable.GetPos(), "cannot iterate over value of type %s", iterable.ty)
	}

	// dicts iterate over a snapshot of their keys
	items := iterable
	if iterable.ty.Kind == ast.EXPR_TYPE_DICT {
		if err := checkDictKey(iterable.ty, forLoop.Iterable.GetPos()); err != nil {
			return err
		}
		keys, err := c.callRuntime(runtime.DICT_KEYS, iterable.v)
		if err != nil {
			return err
		}
		items = operand{keys, ast.NewListType(varTy)}
	}
	var arrayPtr llvm.Value
	if items.ty.Kind == ast.EXPR_TYPE_ARRAY {
		arrayPtr = c.spill(items)
	}

	length, err := c.length(items)
	if err != nil {
		return err
	}

	i64 := c.context.Int64Type()
	index := c.createAlloca(i64, ".idx")
	c.builder.CreateStore(c.i64(0), index)

	loopScope := scope.New(current)
	varSlot := c.createAlloca(c.getType(varTy), forLoop.Var.Name())
	loopScope.Nodes[forLoop.Var.Name()] = NewVariableValue(c.getType(varTy), varSlot, varTy)

	condBlock := c.context.AddBasicBlock(c.fn.Fn, ".forcond")
	bodyBlock := c.context.AddBasicBlock(c.fn.Fn, ".forbody")
	stepBlock := c.context.AddBasicBlock(c.fn.Fn, ".forstep")
	endBlock := c.context.AddBasicBlock(c.fn.Fn, ".forend")

	c.builder.CreateBr(condBlock)
	c.builder.SetInsertPointAtEnd(condBlock)
	i := c.builder.CreateLoad(i64, index, ".i")
	inRange := c.builder.CreateICmp(llvm.IntSLT, i, length, ".inrange")
	c.builder.CreateCondBr(inRange, bodyBlock, endBlock)

	c.builder.SetInsertPointAtEnd(bodyBlock)
	var elem llvm.Value
	if items.ty.Kind == ast.EXPR_TYPE_ARRAY {
		elem = c.builder.CreateLoad(c.getType(varTy), c.arrayElemPtr(arrayPtr, items.ty, i), ".elem")
	} else {
		elem, err = c.elementAt(items, i, forLoop.Pos)
		if err != nil {
			return err
		}
	}
	c.builder.CreateStore(elem, varSlot)

	c.loops = append(c.loops, &loop{cont: stepBlock, end: endBlock})
	err = c.generateBlock(forLoop.Block, loopScope)
	c.loops = c.loops[:len(c.loops)-1]
	if err != nil {
		return err
	}
	if !c.blockTerminated() {
		c.builder.CreateBr(stepBlock)
	}

	stepBlock.MoveAfter(c.builder.GetInsertBlock())
	c.builder.SetInsertPointAtEnd(stepBlock)
	next := c.builder.CreateAdd(c.builder.CreateLoad(i64, index, ".i"), c.i64(1), ".next")
	c.builder.CreateStore(next, index)
	c.builder.CreateBr(condBlock)

	endBlock.MoveAfter(stepBlock)
	c.builder.SetInsertPointAtEnd(endBlock)
	return nil
}

func (c *llvmCodegen) generateReturnStmt(ret *ast.ReturnStmt, current *varScope) error {
	if ret.Value == nil || c.fn.Ret.IsVoid() {
		if ret.Value != nil {
			if _, err := c.getExpr(ret.Value, nil, current); err != nil {
				return err
			}
		}
		if err := c.generateStackPop(); err != nil {
			return err
		}
		c.builder.CreateRetVoid()
		return nil
	}

	op, err := c.getExpr(ret.Value, c.fn.Ret, current)
	if err != nil {
		return err
	}
	value, err := c.convert(op, c.fn.Ret, ret.Value.GetPos())
	if err != nil {
		return err
	}
	if err := c.generateStackPop(); err != nil {
		return err
	}
	c.builder.CreateRet(value)
	return nil
}

// generateAssert raises an AssertionError through the runtime when the
// condition does not hold.
func (c *llvmCodegen) generateAssert(assert *ast.AssertStmt, current *varScope) error {
	cond, err := c.getCondition(assert.Cond, current)
	if err != nil {
		return err
	}

	failBlock := c.context.AddBasicBlock(c.fn.Fn, ".assertfail")
	okBlock := c.context.AddBasicBlock(c.fn.Fn, ".assertok")
	c.builder.CreateCondBr(cond, okBlock, failBlock)

	c.builder.SetInsertPointAtEnd(failBlock)
	msg := c.globalString("assertion failed")
	if assert.Msg != nil {
		op, err := c.getExpr(assert.Msg, ast.STR_TYPE, current)
		if err != nil {
			return err
		}
		msg = op.v
	}
	exc, err := c.callRuntime(runtime.EXC_CREATE, c.globalString("AssertionError"), msg)
	if err != nil {
		return err
	}
	_, err = c.callRuntime(runtime.EXC_RAISE, exc)
	if err != nil {
		return err
	}
	c.builder.CreateUnreachable()

	c.builder.SetInsertPointAtEnd(okBlock)
	return nil
}
