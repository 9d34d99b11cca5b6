package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/diagnostics"
)

const filename = "test.em"

// render prints an expression as a compact s-expression so tests can
// compare tree shapes without positions.
func render(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		if e.Kind.String() == "string literal" {
			return fmt.Sprintf("%q", string(e.Value))
		}
		if len(e.Value) == 0 {
			return e.Kind.String()
		}
		return string(e.Value)
	case *ast.IdExpr:
		return e.Name.Name()
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", e.Op, render(e.Left), render(e.Right))
	case *ast.UnaryExpr:
		return fmt.Sprintf("(%s %s)", e.Op, render(e.Value))
	case *ast.CallExpr:
		return fmt.Sprintf("%s(%s)", e.Name.Name(), renderList(e.Args))
	case *ast.MemberAccess:
		return fmt.Sprintf("%s.%s", render(e.Object), e.Field.Name())
	case *ast.MethodCall:
		return fmt.Sprintf("%s.%s(%s)", render(e.Object), e.Method.Name(), renderList(e.Args))
	case *ast.IndexExpr:
		return fmt.Sprintf("%s[%s]", render(e.Object), render(e.Index))
	case *ast.AssignExpr:
		return fmt.Sprintf("(= %s %s)", render(e.Target), render(e.Value))
	case *ast.IndexAssignExpr:
		return fmt.Sprintf("([]= %s %s %s)", render(e.Object), render(e.Index), render(e.Value))
	case *ast.ListLiteral:
		return fmt.Sprintf("[%s]", renderList(e.Elems))
	case *ast.DictLiteral:
		pairs := make([]string, len(e.Keys))
		for i := range e.Keys {
			pairs[i] = render(e.Keys[i]) + ": " + render(e.Values[i])
		}
		return fmt.Sprintf("{%s}", strings.Join(pairs, ", "))
	case *ast.FStringExpr:
		return fmt.Sprintf("f%q%s", e.Parts, "["+renderList(e.Exprs)+"]")
	}
	return fmt.Sprintf("<%T>", expr)
}

func renderList(exprs []ast.Expr) string {
	rendered := make([]string, len(exprs))
	for i, expr := range exprs {
		rendered[i] = render(expr)
	}
	return strings.Join(rendered, ", ")
}

func TestExprPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"10 // 3 % 2", "(% (// 10 3) 2)"},
		{"a or b and c", "(or a (and b c))"},
		{"not a and b", "(and (not a) b)"},
		{"a == b < c", "(== a (< b c))"},
		{"a != b == c", "(== (!= a b) c)"},
		{"-2 ** 2", "(- (** 2 2))"},
		{"2 ** 3 ** 2", "(** 2 (** 3 2))"},
		{"2 ** -1", "(** 2 (- 1))"},
		{"a * -b", "(* a (- b))"},
		{"x = y = 3", "(= x (= y 3))"},
		{"a[i] = a[i] + 1", "([]= a i (+ a[i] 1))"},
		{"self.x = 1.5", "(= self.x 1.5)"},
		{"lst.push(4)", "lst.push(4)"},
		{"lst.length", "lst.length"},
		{"f(1, 2)[0].y", "f(1, 2)[0].y"},
		{"m.sqrt(x).z(1)", "m.sqrt(x).z(1)"},
		{`d["k"]`, `d["k"]`},
		{"[1, 2,\n 3,]", "[1, 2, 3]"},
		{"[]", "[]"},
		{"{}", "{}"},
		{"{\"a\": 1,\n \"b\": 2}", `{"a": 1, "b": 2}`},
		{"int(x) + float(y)", "(+ int(x) float(y))"},
		{"str(1)", "str(1)"},
		{"True and False", "(and True False)"},
		{"None", "None"},
		{"f(\n  a,\n  b\n)", "f(a, b)"},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestExprPrecedence(%q)", test.input), func(t *testing.T) {
			expr, err := ParseExprFrom(filename, test.input)
			if err != nil {
				t.Fatalf("unexpected error '%v'", err)
			}
			if got := render(expr); got != test.expected {
				t.Errorf("expected %s, but got %s", test.expected, got)
			}
		})
	}
}

func TestVarDeclDisambiguation(t *testing.T) {
	tests := []struct {
		input string
		decl  bool
		ty    string
		value string
	}{
		{"x: int = 5", true, "int", "5"},
		{"x: float", true, "float", ""},
		{"lst: list[int] = [1, 2, 3]", true, "list[int]", "[1, 2, 3]"},
		{"d: dict[str, list[int]] = {}", true, "dict[str, list[int]]", "{}"},
		{"grid: int[3][2]", true, "int[3][2]", ""},
		{"p: Point = Point(1, 2)", true, "Point", "Point(1, 2)"},
		{"x = 5", false, "", "(= x 5)"},
		{"x", false, "", "x"},
		{"x.y(1)", false, "", "x.y(1)"},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestVarDeclDisambiguation(%q)", test.input), func(t *testing.T) {
			stmt, err := ParseStmtFrom(filename, test.input)
			if err != nil {
				t.Fatalf("unexpected error '%v'", err)
			}

			if !test.decl {
				exprStmt, ok := stmt.(*ast.ExprStmt)
				if !ok {
					t.Fatalf("expected *ast.ExprStmt, but got %T", stmt)
				}
				if got := render(exprStmt.Expr); got != test.value {
					t.Errorf("expected %s, but got %s", test.value, got)
				}
				return
			}

			variable, ok := stmt.(*ast.VarDecl)
			if !ok {
				t.Fatalf("expected *ast.VarDecl, but got %T", stmt)
			}
			if variable.Name.Name() != strings.SplitN(test.input, ":", 2)[0] {
				t.Errorf("unexpected variable name %s", variable.Name.Name())
			}
			if variable.Type.String() != test.ty {
				t.Errorf("expected type %s, but got %s", test.ty, variable.Type)
			}
			if test.value == "" {
				if variable.Value != nil {
					t.Errorf("expected no initializer, but got %s", render(variable.Value))
				}
			} else if got := render(variable.Value); got != test.value {
				t.Errorf("expected value %s, but got %s", test.value, got)
			}
		})
	}
}

func TestFunctionDef(t *testing.T) {
	stmt, err := ParseStmtFrom(filename, "def add(a: int, b: float) -> float {\n  return a + b\n}")
	if err != nil {
		t.Fatalf("unexpected error '%v'", err)
	}

	fn, ok := stmt.(*ast.FunctionDef)
	if !ok {
		t.Fatalf("expected *ast.FunctionDef, but got %T", stmt)
	}

	var params []string
	for _, param := range fn.Params {
		params = append(params, param.String())
	}
	if diff := cmp.Diff([]string{"a: int", "b: float"}, params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	if !fn.RetType.IsFloat() {
		t.Errorf("expected return type float, but got %s", fn.RetType)
	}
	if len(fn.Body.Statements) != 1 || !fn.Body.Statements[0].IsReturn() {
		t.Fatalf("expected a single return statement, but got %v", fn.Body.Statements)
	}
	ret := fn.Body.Statements[0].(*ast.ReturnStmt)
	if render(ret.Value) != "(+ a b)" {
		t.Errorf("expected (+ a b), but got %s", render(ret.Value))
	}
}

func TestFunctionDefWithoutReturnType(t *testing.T) {
	stmt, err := ParseStmtFrom(filename, "def hello() { return }")
	if err != nil {
		t.Fatalf("unexpected error '%v'", err)
	}
	fn := stmt.(*ast.FunctionDef)
	if !fn.RetType.IsVoid() {
		t.Errorf("expected void return type, but got %s", fn.RetType)
	}
	if ret := fn.Body.Statements[0].(*ast.ReturnStmt); ret.Value != nil {
		t.Errorf("expected bare return, but got %s", render(ret.Value))
	}
}

func TestClassDef(t *testing.T) {
	src := `class Point(Base) {
	x: int
	y: int

	def init(self) {
		pass
	}

	def sum(self, scale: int) -> int {
		return (self.x + self.y) * scale
	}
}`

	stmt, err := ParseStmtFrom(filename, src)
	if err != nil {
		t.Fatalf("unexpected error '%v'", err)
	}

	class, ok := stmt.(*ast.ClassDef)
	if !ok {
		t.Fatalf("expected *ast.ClassDef, but got %T", stmt)
	}
	if class.Base == nil || class.Base.Name() != "Base" {
		t.Errorf("expected base class Base, but got %v", class.Base)
	}

	var fields []string
	for _, field := range class.Fields {
		fields = append(fields, field.String())
	}
	if diff := cmp.Diff([]string{"x: int", "y: int"}, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	if len(class.Methods) != 2 {
		t.Fatalf("expected 2 methods, but got %d", len(class.Methods))
	}
	sum := class.Methods[1]
	if !sum.Params[0].IsSelf || sum.Params[0].Type.ClassName() != "Point" {
		t.Errorf("expected self parameter of type Point, but got %s", sum.Params[0])
	}
	if sum.Params[1].IsSelf || !sum.Params[1].Type.IsInt() {
		t.Errorf("expected scale: int, but got %s", sum.Params[1])
	}
}

func TestCondStmt(t *testing.T) {
	src := "if a {\n  x = 1\n}\nelif b {\n  x = 2\n} elif c {\n  x = 3\n}\nelse {\n  x = 4\n}\ny = 5"

	program, err := ParseSource(filename, []byte(src))
	if err != nil {
		t.Fatalf("unexpected error '%v'", err)
	}
	if len(program.Stmts) != 2 {
		t.Fatalf("expected 2 statements, but got %d", len(program.Stmts))
	}

	cond, ok := program.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, but got %T", program.Stmts[0])
	}
	if render(cond.If.Cond) != "a" {
		t.Errorf("expected if condition a, but got %s", render(cond.If.Cond))
	}
	if len(cond.Elifs) != 2 {
		t.Fatalf("expected 2 elif branches, but got %d", len(cond.Elifs))
	}
	if render(cond.Elifs[1].Cond) != "c" {
		t.Errorf("expected second elif condition c, but got %s", render(cond.Elifs[1].Cond))
	}
	if cond.Else == nil || len(cond.Else.Statements) != 1 {
		t.Errorf("expected else block with one statement")
	}
}

func TestForAndWhileLoops(t *testing.T) {
	program, err := ParseSource(filename, []byte("for x in items { print(x) }\nwhile i < 10 { i = i + 1; continue }"))
	if err != nil {
		t.Fatalf("unexpected error '%v'", err)
	}

	forLoop, ok := program.Stmts[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected *ast.ForStmt, but got %T", program.Stmts[0])
	}
	if forLoop.Var.Name() != "x" || render(forLoop.Iterable) != "items" {
		t.Errorf("unexpected for loop header: %s in %s", forLoop.Var.Name(), render(forLoop.Iterable))
	}

	while, ok := program.Stmts[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected *ast.WhileStmt, but got %T", program.Stmts[1])
	}
	if len(while.Block.Statements) != 2 {
		t.Fatalf("expected 2 statements in while body, but got %d", len(while.Block.Statements))
	}
	if _, ok := while.Block.Statements[1].(*ast.ContinueStmt); !ok {
		t.Errorf("expected continue, but got %T", while.Block.Statements[1])
	}
}

func TestMiscStatements(t *testing.T) {
	program, err := ParseSource(filename, []byte("import math\nassert x > 0, \"positive\"\npass\nbreak"))
	if err != nil {
		t.Fatalf("unexpected error '%v'", err)
	}

	imp := program.Stmts[0].(*ast.ImportStmt)
	if imp.Module.Name() != "math" {
		t.Errorf("expected import of math, but got %s", imp.Module.Name())
	}
	assert := program.Stmts[1].(*ast.AssertStmt)
	if render(assert.Cond) != "(> x 0)" || render(assert.Msg) != `"positive"` {
		t.Errorf("unexpected assert: %s, %s", render(assert.Cond), render(assert.Msg))
	}
	if _, ok := program.Stmts[2].(*ast.PassStmt); !ok {
		t.Errorf("expected pass, but got %T", program.Stmts[2])
	}
	if _, ok := program.Stmts[3].(*ast.BreakStmt); !ok {
		t.Errorf("expected break, but got %T", program.Stmts[3])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"def f(a int) {}", "expected ':' after parameter name, but got 'int'"},
		{"(1 + 2", "expected ')' to close parenthesized expression, but got end of file"},
		{"1 = 2", "invalid assignment target"},
		{"x: 5", "expected type, but got '5'"},
		{"if x { y", "expected '}' to close block, but got end of file"},
		{"a b", "expected newline or ';' after statement, but got 'b'"},
		{"for x items {}", "expected 'in' after loop variable, but got 'items'"},
		{"class A {\n def f(self) {}\n x: int\n}", "field 'x' declared after a method: fields must come before methods"},
		{"class A { 1 }", "expected field declaration or method in class body, but got '1'"},
		{"(a + b)(1)", "expression is not callable"},
		{"x: int[0]", "invalid array size 0"},
		{"d: dict[str int]", "expected ',' between dict key and value types, but got 'int'"},
		{"[1, 2", "expected ',' or ']' in list literal, but got end of file"},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestParseErrors(%q)", test.input), func(t *testing.T) {
			_, err := ParseSource(filename, []byte(test.input))
			if err == nil {
				t.Fatalf("expected error, but got nil")
			}

			var diag *diagnostics.Error
			if !errors.As(err, &diag) {
				t.Fatalf("expected *diagnostics.Error, but got %T", err)
			}
			if diag.Kind != diagnostics.PARSE_ERROR {
				t.Errorf("expected parse error, but got %s", diag.Kind)
			}
			if diag.Msg != test.msg {
				t.Errorf("expected message %q, but got %q", test.msg, diag.Msg)
			}
		})
	}
}

func TestLexErrorsSurfaceThroughParser(t *testing.T) {
	_, err := ParseSource(filename, []byte("x = 1 $ 2"))

	var diag *diagnostics.Error
	if !errors.As(err, &diag) || diag.Kind != diagnostics.LEX_ERROR {
		t.Fatalf("expected lex error, but got %v", err)
	}
}
