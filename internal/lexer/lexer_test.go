package lexer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer/token"
)

const filename = "test.em"

type tokenKindTest struct {
	lexeme string
	kind   token.Kind
}

func TestTokenKinds(t *testing.T) {
	tests := []*tokenKindTest{
		{"\n", token.NEWLINE},
		{"def", token.DEF},
		{"class", token.CLASS},
		{"import", token.IMPORT},
		{"if", token.IF},
		{"elif", token.ELIF},
		{"else", token.ELSE},
		{"while", token.WHILE},
		{"for", token.FOR},
		{"in", token.IN},
		{"return", token.RETURN},
		{"pass", token.PASS},
		{"break", token.BREAK},
		{"continue", token.CONTINUE},
		{"and", token.AND},
		{"or", token.OR},
		{"not", token.NOT},
		{"assert", token.ASSERT},
		{"True", token.TRUE_BOOL_LITERAL},
		{"False", token.FALSE_BOOL_LITERAL},
		{"None", token.NONE_LITERAL},

		{"int", token.INT_TYPE},
		{"float", token.FLOAT_TYPE},
		{"bool", token.BOOL_TYPE},
		{"str", token.STR_TYPE},
		{"void", token.VOID_TYPE},
		{"list", token.LIST_TYPE},
		{"dict", token.DICT_TYPE},

		{"(", token.OPEN_PAREN},
		{")", token.CLOSE_PAREN},
		{"{", token.OPEN_CURLY},
		{"}", token.CLOSE_CURLY},
		{"[", token.OPEN_BRACKET},
		{"]", token.CLOSE_BRACKET},
		{",", token.COMMA},
		{";", token.SEMICOLON},
		{":", token.COLON},
		{".", token.DOT},
		{"->", token.ARROW},
		{"=", token.EQUAL},
		{"==", token.EQUAL_EQUAL},
		{"!=", token.BANG_EQUAL},
		{">", token.GREATER},
		{">=", token.GREATER_EQ},
		{"<", token.LESS},
		{"<=", token.LESS_EQ},
		{"+", token.PLUS},
		{"-", token.MINUS},
		{"*", token.STAR},
		{"**", token.STAR_STAR},
		{"/", token.SLASH},
		{"//", token.SLASH_SLASH},
		{"%", token.PERCENT},

		{"foo", token.ID},
		{"_private", token.ID},
		{"f", token.ID},
		{"42", token.INT_LITERAL},
		{"4.2", token.FLOAT_LITERAL},
		{"\"hi\"", token.STRING_LITERAL},
		{"'hi'", token.STRING_LITERAL},
		{"f\"hi\"", token.FSTRING_LITERAL},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestTokenKind('%q')", test.lexeme), func(t *testing.T) {
			lex := New(filename, []byte(test.lexeme))

			tokenResult, err := lex.Tokenize()
			if err != nil {
				t.Fatalf("unexpected error '%v'", err)
			}

			if len(tokenResult) != 2 {
				t.Fatalf("expected len(tokenResult) == 2, but got %d", len(tokenResult))
			}
			if tokenResult[1].Kind != token.EOF {
				t.Errorf("expected last token to be EOF, but got %q", tokenResult[1].Kind)
			}
			if tokenResult[0].Kind != test.kind {
				t.Errorf("expected token to be %q, but got %q", test.kind, tokenResult[0].Kind)
			}
		})
	}
}

type tokenPosTest struct {
	input     string
	positions []token.Pos
}

func TestTokenPos(t *testing.T) {
	tests := []*tokenPosTest{
		{";", []token.Pos{
			{Filename: filename, Line: 1, Column: 1},  // ;
			{Filename: filename, Line: 1, Column: 2}}, // eof
		},
		{";\n;", []token.Pos{
			{Filename: filename, Line: 1, Column: 1},  // ;
			{Filename: filename, Line: 1, Column: 2},  // \n
			{Filename: filename, Line: 2, Column: 1},  // ;
			{Filename: filename, Line: 2, Column: 2}}, // eof
		},
		{"x  == 1.5", []token.Pos{
			{Filename: filename, Line: 1, Column: 1},   // x
			{Filename: filename, Line: 1, Column: 4},   // ==
			{Filename: filename, Line: 1, Column: 7},   // 1.5
			{Filename: filename, Line: 1, Column: 10}}, // eof
		},
		{"# comment\nf\"{a}\"", []token.Pos{
			{Filename: filename, Line: 1, Column: 10}, // \n
			{Filename: filename, Line: 2, Column: 1},  // f"{a}"
			{Filename: filename, Line: 2, Column: 7}}, // eof
		},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestTokenPos(%q)", test.input), func(t *testing.T) {
			lex := New(filename, []byte(test.input))
			tokens, err := lex.Tokenize()
			if err != nil {
				t.Fatalf("unexpected error '%v'", err)
			}

			positions := make([]token.Pos, len(tokens))
			for i, tok := range tokens {
				positions[i] = tok.Pos
			}
			if diff := cmp.Diff(test.positions, positions); diff != "" {
				t.Errorf("token positions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type lexedToken struct {
	Kind   token.Kind
	Lexeme string
}

func lexAll(t *testing.T, input string) []lexedToken {
	t.Helper()

	tokens, err := New(filename, []byte(input)).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error '%v'", err)
	}

	var result []lexedToken
	for _, tok := range tokens {
		result = append(result, lexedToken{tok.Kind, string(tok.Lexeme)})
	}
	return result
}

func TestTokenStream(t *testing.T) {
	tests := []struct {
		input    string
		expected []lexedToken
	}{
		{
			"def add(a: int) -> int { return a ** 2 // 3 }",
			[]lexedToken{
				{token.DEF, "def"},
				{token.ID, "add"},
				{token.OPEN_PAREN, ""},
				{token.ID, "a"},
				{token.COLON, ""},
				{token.INT_TYPE, "int"},
				{token.CLOSE_PAREN, ""},
				{token.ARROW, ""},
				{token.INT_TYPE, "int"},
				{token.OPEN_CURLY, ""},
				{token.RETURN, "return"},
				{token.ID, "a"},
				{token.STAR_STAR, ""},
				{token.INT_LITERAL, "2"},
				{token.SLASH_SLASH, ""},
				{token.INT_LITERAL, "3"},
				{token.CLOSE_CURLY, ""},
				{token.EOF, ""},
			},
		},
		{
			"1.foo 1.5 7",
			[]lexedToken{
				{token.INT_LITERAL, "1"},
				{token.DOT, ""},
				{token.ID, "foo"},
				{token.FLOAT_LITERAL, "1.5"},
				{token.INT_LITERAL, "7"},
				{token.EOF, ""},
			},
		},
		{
			"x = 1 # the answer\ny",
			[]lexedToken{
				{token.ID, "x"},
				{token.EQUAL, ""},
				{token.INT_LITERAL, "1"},
				{token.NEWLINE, ""},
				{token.ID, "y"},
				{token.EOF, ""},
			},
		},
		{
			`"a\tb\n" 'it\'s' "\\"`,
			[]lexedToken{
				{token.STRING_LITERAL, "a\tb\n"},
				{token.STRING_LITERAL, "it's"},
				{token.STRING_LITERAL, "\\"},
				{token.EOF, ""},
			},
		},
		{
			`f"sum={a+b} {{x}} {d[\"k\"]}"`,
			[]lexedToken{
				{token.FSTRING_LITERAL, `sum={a+b} {{x}} {d["k"]}`},
				{token.EOF, ""},
			},
		},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestTokenStream(%q)", test.input), func(t *testing.T) {
			got := lexAll(t, test.input)
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Errorf("token stream mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEmptyStringLiteral(t *testing.T) {
	got := lexAll(t, `""`)
	if got[0].Kind != token.STRING_LITERAL || got[0].Lexeme != "" {
		t.Errorf("expected empty string literal, but got %v", got[0])
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
		pos   token.Pos
	}{
		{"x = @", "invalid character '@'", token.NewPosition(filename, 1, 5)},
		{"a ! b", "invalid character '!', did you mean '!='?", token.NewPosition(filename, 1, 3)},
		{"\"abc", "unterminated string literal", token.NewPosition(filename, 1, 1)},
		{"'abc\n'", "unterminated string literal", token.NewPosition(filename, 1, 1)},
		{"\"\\q\"", "invalid escape sequence '\\q'", token.NewPosition(filename, 1, 2)},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestLexErrors(%q)", test.input), func(t *testing.T) {
			_, err := New(filename, []byte(test.input)).Tokenize()
			if err == nil {
				t.Fatalf("expected error, but got nil")
			}

			var diag *diagnostics.Error
			if !errors.As(err, &diag) {
				t.Fatalf("expected *diagnostics.Error, but got %T", err)
			}
			if diag.Kind != diagnostics.LEX_ERROR {
				t.Errorf("expected lex error, but got %s", diag.Kind)
			}
			if diag.Msg != test.msg {
				t.Errorf("expected message %q, but got %q", test.msg, diag.Msg)
			}
			if diag.Pos != test.pos {
				t.Errorf("expected position %s, but got %s", test.pos, diag.Pos)
			}
		})
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lex := New(filename, []byte("a b"))

	peeked, err := lex.Peek()
	if err != nil {
		t.Fatalf("unexpected error '%v'", err)
	}
	next, err := lex.Next()
	if err != nil {
		t.Fatalf("unexpected error '%v'", err)
	}
	if peeked.Pos != next.Pos || string(peeked.Lexeme) != string(next.Lexeme) {
		t.Errorf("expected Peek and Next to agree, but got %s and %s", peeked, next)
	}
}
