package ast

import (
	"fmt"

	"github.com/HicaroD/ember/internal/lexer/token"
)

type BlockStmt struct {
	OpenCurly  token.Pos
	Statements []Stmt
	CloseCurly token.Pos
}

func (block *BlockStmt) String() string {
	return fmt.Sprintf("\n'{' %s\n%s\n'}' %s", block.OpenCurly, block.Statements, block.CloseCurly)
}
func (block *BlockStmt) GetPos() token.Pos { return block.OpenCurly }
func (block *BlockStmt) IsReturn() bool    { return false }
func (block *BlockStmt) astNode()          {}
func (block *BlockStmt) stmtNode()         {}

// VarDecl is `name: type [= value]`. Value is nil when omitted.
type VarDecl struct {
	Name  *token.Token
	Type  *ExprType
	Value Expr
}

func (variable *VarDecl) String() string {
	return fmt.Sprintf("Variable: %s %s %v", variable.Name.Name(), variable.Type, variable.Value)
}
func (variable *VarDecl) GetPos() token.Pos { return variable.Name.Pos }
func (variable *VarDecl) IsReturn() bool    { return false }
func (variable *VarDecl) astNode()          {}
func (variable *VarDecl) stmtNode()         {}

type Param struct {
	Name *token.Token
	Type *ExprType
	// IsSelf is set for an untyped leading `self` inside a class body
	IsSelf bool
}

func (param *Param) String() string {
	return fmt.Sprintf("%s: %s", param.Name.Name(), param.Type)
}

type FunctionDef struct {
	Name    *token.Token
	Params  []*Param
	RetType *ExprType
	Body    *BlockStmt
}

func (fn *FunctionDef) String() string {
	return fmt.Sprintf("def %s(%v) -> %s", fn.Name.Name(), fn.Params, fn.RetType)
}
func (fn *FunctionDef) GetPos() token.Pos { return fn.Name.Pos }
func (fn *FunctionDef) IsReturn() bool    { return false }
func (fn *FunctionDef) astNode()          {}
func (fn *FunctionDef) stmtNode()         {}

type Field struct {
	Name *token.Token
	Type *ExprType
}

func (field *Field) String() string {
	return fmt.Sprintf("%s: %s", field.Name.Name(), field.Type)
}

type ClassDef struct {
	Name *token.Token
	// Parsed but never consulted: there is no inheritance
	Base    *token.Token
	Fields  []*Field
	Methods []*FunctionDef
}

func (class *ClassDef) String() string {
	return fmt.Sprintf("class %s %v %v", class.Name.Name(), class.Fields, class.Methods)
}
func (class *ClassDef) GetPos() token.Pos { return class.Name.Pos }
func (class *ClassDef) IsReturn() bool    { return false }
func (class *ClassDef) astNode()          {}
func (class *ClassDef) stmtNode()         {}

type CondBranch struct {
	Pos   token.Pos
	Cond  Expr
	Block *BlockStmt
}

type IfStmt struct {
	If    *CondBranch
	Elifs []*CondBranch
	Else  *BlockStmt
}

func (cond *IfStmt) String() string {
	return fmt.Sprintf("if %v %v elif %v else %v", cond.If.Cond, cond.If.Block, cond.Elifs, cond.Else)
}
func (cond *IfStmt) GetPos() token.Pos { return cond.If.Pos }
func (cond *IfStmt) IsReturn() bool    { return false }
func (cond *IfStmt) astNode()          {}
func (cond *IfStmt) stmtNode()         {}

type WhileStmt struct {
	Pos   token.Pos
	Cond  Expr
	Block *BlockStmt
}

func (while *WhileStmt) String() string {
	return fmt.Sprintf("while %v %v", while.Cond, while.Block)
}
func (while *WhileStmt) GetPos() token.Pos { return while.Pos }
func (while *WhileStmt) IsReturn() bool    { return false }
func (while *WhileStmt) astNode()          {}
func (while *WhileStmt) stmtNode()         {}

// ForStmt is kept as written; lowering desugars it into an indexed loop.
type ForStmt struct {
	Pos      token.Pos
	Var      *token.Token
	Iterable Expr
	Block    *BlockStmt
}

func (forLoop *ForStmt) String() string {
	return fmt.Sprintf("for %s in %v %v", forLoop.Var.Name(), forLoop.Iterable, forLoop.Block)
}
func (forLoop *ForStmt) GetPos() token.Pos { return forLoop.Pos }
func (forLoop *ForStmt) IsReturn() bool    { return false }
func (forLoop *ForStmt) astNode()          {}
func (forLoop *ForStmt) stmtNode()         {}

type ReturnStmt struct {
	Pos token.Pos
	// nil for a bare `return`
	Value Expr
}

func (ret *ReturnStmt) String() string {
	return fmt.Sprintf("return %v", ret.Value)
}
func (ret *ReturnStmt) GetPos() token.Pos { return ret.Pos }
func (ret *ReturnStmt) IsReturn() bool    { return true }
func (ret *ReturnStmt) astNode()          {}
func (ret *ReturnStmt) stmtNode()         {}

type BreakStmt struct {
	Pos token.Pos
}

func (brk *BreakStmt) GetPos() token.Pos { return brk.Pos }
func (brk *BreakStmt) IsReturn() bool    { return false }
func (brk *BreakStmt) astNode()          {}
func (brk *BreakStmt) stmtNode()         {}

type ContinueStmt struct {
	Pos token.Pos
}

func (cont *ContinueStmt) GetPos() token.Pos { return cont.Pos }
func (cont *ContinueStmt) IsReturn() bool    { return false }
func (cont *ContinueStmt) astNode()          {}
func (cont *ContinueStmt) stmtNode()         {}

type PassStmt struct {
	Pos token.Pos
}

func (pass *PassStmt) GetPos() token.Pos { return pass.Pos }
func (pass *PassStmt) IsReturn() bool    { return false }
func (pass *PassStmt) astNode()          {}
func (pass *PassStmt) stmtNode()         {}

type AssertStmt struct {
	Pos  token.Pos
	Cond Expr
	// optional
	Msg Expr
}

func (assert *AssertStmt) String() string {
	return fmt.Sprintf("assert %v, %v", assert.Cond, assert.Msg)
}
func (assert *AssertStmt) GetPos() token.Pos { return assert.Pos }
func (assert *AssertStmt) IsReturn() bool    { return false }
func (assert *AssertStmt) astNode()          {}
func (assert *AssertStmt) stmtNode()         {}

type ExprStmt struct {
	Expr Expr
}

func (stmt *ExprStmt) String() string {
	return fmt.Sprintf("%v", stmt.Expr)
}
func (stmt *ExprStmt) GetPos() token.Pos { return stmt.Expr.GetPos() }
func (stmt *ExprStmt) IsReturn() bool    { return false }
func (stmt *ExprStmt) astNode()          {}
func (stmt *ExprStmt) stmtNode()         {}

type ImportStmt struct {
	Pos    token.Pos
	Module *token.Token
}

func (imp *ImportStmt) String() string {
	return fmt.Sprintf("import %s", imp.Module.Name())
}
func (imp *ImportStmt) GetPos() token.Pos { return imp.Pos }
func (imp *ImportStmt) IsReturn() bool    { return false }
func (imp *ImportStmt) astNode()          {}
func (imp *ImportStmt) stmtNode()         {}
