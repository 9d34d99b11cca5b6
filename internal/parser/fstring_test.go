package parser

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/diagnostics"
)

func TestFString(t *testing.T) {
	tests := []struct {
		input string
		parts []string
		exprs []string
	}{
		{`f"sum={a+b}"`, []string{"sum=", ""}, []string{"(+ a b)"}},
		{`f"plain"`, []string{"plain"}, nil},
		{`f""`, []string{""}, nil},
		{`f"{{x}} {y}!"`, []string{"{x} ", "!"}, []string{"y"}},
		{`f"{a}{b}"`, []string{"", "", ""}, []string{"a", "b"}},
		{`f"{p.x * 2} and {items[0]}"`, []string{"", " and ", ""}, []string{"(* p.x 2)", "items[0]"}},
		{`f"{d[\"k\"]}"`, []string{"", ""}, []string{`d["k"]`}},
		{`f"nested {f(g(1), {\"a\": 1})}"`, []string{"nested ", ""}, []string{`f(g(1), {"a": 1})`}},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestFString(%q)", test.input), func(t *testing.T) {
			expr, err := ParseExprFrom(filename, test.input)
			if err != nil {
				t.Fatalf("unexpected error '%v'", err)
			}

			fstr, ok := expr.(*ast.FStringExpr)
			if !ok {
				t.Fatalf("expected *ast.FStringExpr, but got %T", expr)
			}
			if len(fstr.Parts) != len(fstr.Exprs)+1 {
				t.Errorf("expected one more part than expressions, but got %d parts and %d expressions", len(fstr.Parts), len(fstr.Exprs))
			}
			if diff := cmp.Diff(test.parts, fstr.Parts); diff != "" {
				t.Errorf("parts mismatch (-want +got):\n%s", diff)
			}

			var exprs []string
			for _, e := range fstr.Exprs {
				exprs = append(exprs, render(e))
			}
			if diff := cmp.Diff(test.exprs, exprs); diff != "" {
				t.Errorf("expressions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFStringErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  diagnostics.Kind
		msg   string
	}{
		{`f"{a"`, diagnostics.PARSE_ERROR, "unterminated '{' in f-string"},
		{`f"a}"`, diagnostics.PARSE_ERROR, "single '}' is not allowed in f-string, use '}}'"},
		{`f"{ }"`, diagnostics.PARSE_ERROR, "empty expression in f-string"},
		{`f"{a b}"`, diagnostics.PARSE_ERROR, "expected '}' after f-string expression, but got 'b'"},
		{`f"{a $ b}"`, diagnostics.LEX_ERROR, "invalid character '$'"},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestFStringErrors(%q)", test.input), func(t *testing.T) {
			_, err := ParseExprFrom(filename, test.input)

			var diag *diagnostics.Error
			if !errors.As(err, &diag) {
				t.Fatalf("expected *diagnostics.Error, but got %v", err)
			}
			if diag.Kind != test.kind {
				t.Errorf("expected %s, but got %s", test.kind, diag.Kind)
			}
			if diag.Msg != test.msg {
				t.Errorf("expected message %q, but got %q", test.msg, diag.Msg)
			}
		})
	}
}

func TestFStringExprPosition(t *testing.T) {
	expr, err := ParseExprFrom(filename, `f"ab{x}"`)
	if err != nil {
		t.Fatalf("unexpected error '%v'", err)
	}
	id := expr.(*ast.FStringExpr).Exprs[0]
	// f" is columns 1-2, "ab{" runs to column 5, x sits at column 6
	if pos := id.GetPos(); pos.Line != 1 || pos.Column != 6 {
		t.Errorf("expected embedded expression at 1:6, but got %s", pos)
	}
}
