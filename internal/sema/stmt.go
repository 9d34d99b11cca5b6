package sema

import (
	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/scope"
)

type typeScope = scope.Scope[*ast.ExprType]

func (sema *sema) checkBlock(block *ast.BlockStmt, parent *typeScope) error {
	blockScope := scope.New(parent)
	for _, stmt := range block.Statements {
		err := sema.checkStmt(stmt, blockScope)
		if err != nil {
			return err
		}
	}
	return nil
}

func (sema *sema) checkStmt(stmt ast.Stmt, current *typeScope) error {
	switch statement := stmt.(type) {
	case *ast.VarDecl:
		return sema.checkVarDecl(statement, current)
	case *ast.ExprStmt:
		_, err := sema.checkExpr(statement.Expr, nil, current)
		return err
	case *ast.FunctionDef:
		if !current.IsGlobal() {
			return typeError(statement.Name.Pos, "function definitions are only allowed at the top level")
		}
		return sema.checkFunctionDef(statement, statement.Name.Name())
	case *ast.ClassDef:
		if !current.IsGlobal() {
			return typeError(statement.Name.Pos, "class definitions are only allowed at the top level")
		}
		return sema.checkClassDef(statement)
	case *ast.IfStmt:
		return sema.checkIfStmt(statement, current)
	case *ast.WhileStmt:
		return sema.checkWhileLoop(statement, current)
	case *ast.ForStmt:
		return sema.checkForLoop(statement, current)
	case *ast.ReturnStmt:
		return sema.checkReturn(statement, current)
	case *ast.BreakStmt:
		if sema.loopDepth == 0 {
			return typeError(statement.Pos, "'break' outside of loop")
		}
		return nil
	case *ast.ContinueStmt:
		if sema.loopDepth == 0 {
			return typeError(statement.Pos, "'continue' outside of loop")
		}
		return nil
	case *ast.PassStmt:
		return nil
	case *ast.AssertStmt:
		return sema.checkAssert(statement, current)
	case *ast.ImportStmt:
		if !sema.program.IsModule(statement.Module.Name()) {
			return typeError(statement.Module.Pos, "unknown module '%s'", statement.Module.Name())
		}
		return nil
	case *ast.BlockStmt:
		return sema.checkBlock(statement, current)
	default:
		return unimplemented(stmt)
	}
}

func (sema *sema) checkVarDecl(variable *ast.VarDecl, current *typeScope) error {
	name := variable.Name.Name()
	if err := sema.checkType(variable.Type, variable.Name.Pos); err != nil {
		return err
	}
	if variable.Type.IsVoid() {
		return typeError(variable.Name.Pos, "variable '%s' cannot have type void", name)
	}

	if variable.Value != nil {
		valueTy, err := sema.checkExpr(variable.Value, variable.Type, current)
		if err != nil {
			return err
		}
		if !variable.Type.Accepts(valueTy) {
			return typeError(variable.Value.GetPos(), "cannot assign value of type %s to variable '%s' of type %s", valueTy, name, variable.Type)
		}
	}

	if _, err := current.LookupCurrentScope(name); err == nil {
		return typeError(variable.Name.Pos, "'%s' is already declared in this scope", name)
	}
	if current == sema.globals {
		if err := sema.checkNewGlobalName(variable.Name); err != nil {
			return err
		}
	}
	return current.Insert(name, variable.Type)
}

func (sema *sema) checkFunctionDef(fn *ast.FunctionDef, symbol string) error {
	sig := sema.functions[symbol]

	params := scope.New(sema.globals)
	for i, param := range fn.Params {
		err := params.Insert(param.Name.Name(), sig.Params[i])
		if err != nil {
			return typeError(param.Name.Pos, "parameter '%s' declared twice", param.Name.Name())
		}
	}

	outerRet, outerLoops := sema.retType, sema.loopDepth
	sema.retType, sema.loopDepth = sig.Ret, 0
	defer func() { sema.retType, sema.loopDepth = outerRet, outerLoops }()

	return sema.checkBlock(fn.Body, params)
}

func (sema *sema) checkClassDef(class *ast.ClassDef) error {
	for _, method := range class.Methods {
		err := sema.checkFunctionDef(method, MethodName(class.Name.Name(), method.Name.Name()))
		if err != nil {
			return err
		}
	}
	return nil
}

func (sema *sema) checkCondition(cond ast.Expr, what string, current *typeScope) error {
	ty, err := sema.checkExpr(cond, ast.BOOL_TYPE, current)
	if err != nil {
		return err
	}
	if !ty.IsBoolean() {
		return typeError(cond.GetPos(), "%s condition must be bool, but got %s", what, ty)
	}
	return nil
}

func (sema *sema) checkIfStmt(cond *ast.IfStmt, current *typeScope) error {
	branches := append([]*ast.CondBranch{cond.If}, cond.Elifs...)
	for i, branch := range branches {
		what := "if"
		if i > 0 {
			what = "elif"
		}
		if err := sema.checkCondition(branch.Cond, what, current); err != nil {
			return err
		}
		if err := sema.checkBlock(branch.Block, current); err != nil {
			return err
		}
	}

	if cond.Else != nil {
		return sema.checkBlock(cond.Else, current)
	}
	return nil
}

func (sema *sema) checkWhileLoop(while *ast.WhileStmt, current *typeScope) error {
	if err := sema.checkCondition(while.Cond, "while", current); err != nil {
		return err
	}
	sema.loopDepth++
	defer func() { sema.loopDepth-- }()
	return sema.checkBlock(while.Block, current)
}

// IterationType is the type a for loop binds when walking a value of type
// ty, or nil when ty is not iterable.
func IterationType(ty *ast.ExprType) *ast.ExprType {
	switch ty.Kind {
	case ast.EXPR_TYPE_LIST, ast.EXPR_TYPE_ARRAY, ast.EXPR_TYPE_DICT:
		return ty.Elem()
	case ast.EXPR_TYPE_STR:
		return ast.STR_TYPE
	}
	return nil
}

func (sema *sema) checkForLoop(forLoop *ast.ForStmt, current *typeScope) error {
	iterableTy, err := sema.checkExpr(forLoop.Iterable, nil, current)
	if err != nil {
		return err
	}
	varTy := IterationType(iterableTy)
	if varTy == nil {
		return typeError(forLoop.Iterable.GetPos(), "cannot iterate over value of type %s", iterableTy)
	}

	loopScope := scope.New(current)
	err = loopScope.Insert(forLoop.Var.Name(), varTy)
	if err != nil {
		return err
	}

	sema.loopDepth++
	defer func() { sema.loopDepth-- }()
	return sema.checkBlock(forLoop.Block, loopScope)
}

func (sema *sema) checkReturn(ret *ast.ReturnStmt, current *typeScope) error {
	if sema.retType == nil {
		return typeError(ret.Pos, "'return' outside of function")
	}

	if ret.Value == nil {
		if !sema.retType.IsVoid() {
			return typeError(ret.Pos, "missing return value in function returning %s", sema.retType)
		}
		return nil
	}

	if sema.retType.IsVoid() {
		return typeError(ret.Value.GetPos(), "unexpected return value in function returning void")
	}
	valueTy, err := sema.checkExpr(ret.Value, sema.retType, current)
	if err != nil {
		return err
	}
	if !sema.retType.Accepts(valueTy) {
		return typeError(ret.Value.GetPos(), "cannot return value of type %s from function returning %s", valueTy, sema.retType)
	}
	return nil
}

func (sema *sema) checkAssert(assert *ast.AssertStmt, current *typeScope) error {
	if err := sema.checkCondition(assert.Cond, "assert", current); err != nil {
		return err
	}
	if assert.Msg == nil {
		return nil
	}
	msgTy, err := sema.checkExpr(assert.Msg, ast.STR_TYPE, current)
	if err != nil {
		return err
	}
	if !msgTy.IsStr() {
		return typeError(assert.Msg.GetPos(), "assert message must be str, but got %s", msgTy)
	}
	return nil
}
