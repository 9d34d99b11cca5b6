// Package ast defines the syntax tree produced by the parser and consumed by
// the type checker and the code generator.
package ast

import "github.com/HicaroD/ember/internal/lexer/token"

type Node interface {
	GetPos() token.Pos
	astNode()
}

type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	IsReturn() bool
	stmtNode()
}
