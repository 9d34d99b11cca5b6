package ast

import (
	"fmt"

	"github.com/HicaroD/ember/internal/lexer/token"
)

var LOGICAL_OR map[token.Kind]bool = map[token.Kind]bool{
	token.OR: true,
}

var LOGICAL_AND map[token.Kind]bool = map[token.Kind]bool{
	token.AND: true,
}

var EQUALITY map[token.Kind]bool = map[token.Kind]bool{
	token.EQUAL_EQUAL: true,
	token.BANG_EQUAL:  true,
}

var COMPARASION map[token.Kind]bool = map[token.Kind]bool{
	token.GREATER:    true,
	token.GREATER_EQ: true,
	token.LESS:       true,
	token.LESS_EQ:    true,
}

var TERM map[token.Kind]bool = map[token.Kind]bool{
	token.MINUS: true,
	token.PLUS:  true,
}

var FACTOR map[token.Kind]bool = map[token.Kind]bool{
	token.SLASH:       true,
	token.SLASH_SLASH: true,
	token.STAR:        true,
	token.PERCENT:     true,
}

var UNARY map[token.Kind]bool = map[token.Kind]bool{
	token.NOT:   true,
	token.MINUS: true,
}

type LiteralExpr struct {
	Pos token.Pos
	// One of the *_LITERAL token kinds except FSTRING_LITERAL
	Kind  token.Kind
	Value []byte
}

func (literal *LiteralExpr) String() string {
	return fmt.Sprintf("%s(%s)", literal.Kind, string(literal.Value))
}
func (literal *LiteralExpr) GetPos() token.Pos { return literal.Pos }
func (literal *LiteralExpr) astNode()          {}
func (literal *LiteralExpr) exprNode()         {}

type IdExpr struct {
	Name *token.Token
}

func (idExpr *IdExpr) String() string {
	return idExpr.Name.Name()
}
func (idExpr *IdExpr) GetPos() token.Pos { return idExpr.Name.Pos }
func (idExpr *IdExpr) astNode()          {}
func (idExpr *IdExpr) exprNode()         {}

type BinaryExpr struct {
	Left  Expr
	Op    token.Kind
	OpPos token.Pos
	Right Expr
}

func (binary *BinaryExpr) String() string {
	return fmt.Sprintf("(%v %s %v)", binary.Left, binary.Op, binary.Right)
}
func (binary *BinaryExpr) GetPos() token.Pos { return binary.OpPos }
func (binary *BinaryExpr) astNode()          {}
func (binary *BinaryExpr) exprNode()         {}

type UnaryExpr struct {
	Op    token.Kind
	OpPos token.Pos
	Value Expr
}

func (unary *UnaryExpr) String() string {
	return fmt.Sprintf("(%s %v)", unary.Op, unary.Value)
}
func (unary *UnaryExpr) GetPos() token.Pos { return unary.OpPos }
func (unary *UnaryExpr) astNode()          {}
func (unary *UnaryExpr) exprNode()         {}

// CallExpr is a call to a free function, a builtin or a class constructor.
type CallExpr struct {
	Name *token.Token
	Args []Expr
}

func (call *CallExpr) String() string {
	return fmt.Sprintf("%s(%v)", call.Name.Name(), call.Args)
}
func (call *CallExpr) GetPos() token.Pos { return call.Name.Pos }
func (call *CallExpr) astNode()          {}
func (call *CallExpr) exprNode()         {}

type MemberAccess struct {
	Object Expr
	Field  *token.Token
}

func (access *MemberAccess) String() string {
	return fmt.Sprintf("%v.%s", access.Object, access.Field.Name())
}
func (access *MemberAccess) GetPos() token.Pos { return access.Field.Pos }
func (access *MemberAccess) astNode()          {}
func (access *MemberAccess) exprNode()         {}

// MethodCall covers instance methods, container and string methods and
// qualified module calls (`math.sqrt(x)`); the checker tells them apart.
type MethodCall struct {
	Object Expr
	Method *token.Token
	Args   []Expr
}

func (call *MethodCall) String() string {
	return fmt.Sprintf("%v.%s(%v)", call.Object, call.Method.Name(), call.Args)
}
func (call *MethodCall) GetPos() token.Pos { return call.Method.Pos }
func (call *MethodCall) astNode()          {}
func (call *MethodCall) exprNode()         {}

type IndexExpr struct {
	Object Expr
	Index  Expr
	Pos    token.Pos
}

func (index *IndexExpr) String() string {
	return fmt.Sprintf("%v[%v]", index.Object, index.Index)
}
func (index *IndexExpr) GetPos() token.Pos { return index.Pos }
func (index *IndexExpr) astNode()          {}
func (index *IndexExpr) exprNode()         {}

// AssignExpr targets either an *IdExpr or a *MemberAccess.
type AssignExpr struct {
	Target Expr
	Value  Expr
	Pos    token.Pos
}

func (assign *AssignExpr) String() string {
	return fmt.Sprintf("%v = %v", assign.Target, assign.Value)
}
func (assign *AssignExpr) GetPos() token.Pos { return assign.Pos }
func (assign *AssignExpr) astNode()          {}
func (assign *AssignExpr) exprNode()         {}

type IndexAssignExpr struct {
	Object Expr
	Index  Expr
	Value  Expr
	Pos    token.Pos
}

func (assign *IndexAssignExpr) String() string {
	return fmt.Sprintf("%v[%v] = %v", assign.Object, assign.Index, assign.Value)
}
func (assign *IndexAssignExpr) GetPos() token.Pos { return assign.Pos }
func (assign *IndexAssignExpr) astNode()          {}
func (assign *IndexAssignExpr) exprNode()         {}

// ListLiteral is also the literal form of fixed-size arrays; which one it
// builds depends on the annotation it is checked against.
type ListLiteral struct {
	Open  token.Pos
	Elems []Expr
}

func (list *ListLiteral) String() string {
	return fmt.Sprintf("%v", list.Elems)
}
func (list *ListLiteral) GetPos() token.Pos { return list.Open }
func (list *ListLiteral) astNode()          {}
func (list *ListLiteral) exprNode()         {}

type DictLiteral struct {
	Open   token.Pos
	Keys   []Expr
	Values []Expr
}

func (dict *DictLiteral) String() string {
	return fmt.Sprintf("{%v: %v}", dict.Keys, dict.Values)
}
func (dict *DictLiteral) GetPos() token.Pos { return dict.Open }
func (dict *DictLiteral) astNode()          {}
func (dict *DictLiteral) exprNode()         {}

// FStringExpr alternates Parts and Exprs: Parts[0] Exprs[0] Parts[1] ...
// There is always exactly one more part than expressions.
type FStringExpr struct {
	Pos   token.Pos
	Parts []string
	Exprs []Expr
}

func (fstr *FStringExpr) String() string {
	return fmt.Sprintf("f%q%v", fstr.Parts, fstr.Exprs)
}
func (fstr *FStringExpr) GetPos() token.Pos { return fstr.Pos }
func (fstr *FStringExpr) astNode()          {}
func (fstr *FStringExpr) exprNode()         {}
