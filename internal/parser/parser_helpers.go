package parser

import (
	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer"
	"github.com/HicaroD/ember/internal/lexer/token"
)

func (p *Parser) expect(expectedKind token.Kind) (*token.Token, bool) {
	tok := p.cursor.peek()
	if tok.Kind != expectedKind {
		return nil, false
	}
	p.cursor.skip()
	return tok, true
}

// consume is expect with a diagnostic: what describes the construct the
// parser was looking for.
func (p *Parser) consume(expectedKind token.Kind, what string) (*token.Token, error) {
	tok, ok := p.expect(expectedKind)
	if !ok {
		return nil, p.unexpected(what)
	}
	return tok, nil
}

func (p *Parser) unexpected(what string) error {
	tok := p.cursor.peek()
	return diagnostics.Errorf(diagnostics.PARSE_ERROR, tok.Pos, "expected %s, but got %s", what, describe(tok))
}

func describe(tok *token.Token) string {
	switch tok.Kind {
	case token.EOF, token.NEWLINE:
		return tok.Kind.String()
	}
	return "'" + tok.Name() + "'"
}

func (p *Parser) skipNewlines() {
	for p.cursor.nextIs(token.NEWLINE) || p.cursor.nextIs(token.SEMICOLON) {
		p.cursor.skip()
	}
}

func (p *Parser) atStmtEnd() bool {
	switch p.cursor.peek().Kind {
	case token.NEWLINE, token.SEMICOLON, token.CLOSE_CURLY, token.EOF:
		return true
	}
	return false
}

// endStmt consumes the terminator after a statement. A closing brace or
// EOF also ends a statement but belongs to the enclosing construct.
func (p *Parser) endStmt() error {
	switch p.cursor.peek().Kind {
	case token.NEWLINE, token.SEMICOLON:
		p.cursor.skip()
		return nil
	case token.CLOSE_CURLY, token.EOF:
		return nil
	}
	return p.unexpected("newline or ';' after statement")
}

// Useful for testing
func ParseExprFrom(filename, input string) (ast.Expr, error) {
	p, err := NewFromLexer(lexer.New(filename, []byte(input)))
	if err != nil {
		return nil, err
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.cursor.nextIs(token.EOF) {
		return nil, p.unexpected("end of expression")
	}
	return expr, nil
}

// Useful for testing
func ParseStmtFrom(filename, input string) (ast.Stmt, error) {
	program, err := ParseSource(filename, []byte(input))
	if err != nil {
		return nil, err
	}
	if len(program.Stmts) != 1 {
		return nil, diagnostics.Errorf(diagnostics.PARSE_ERROR, token.Pos{}, "expected exactly one statement, but got %d", len(program.Stmts))
	}
	return program.Stmts[0], nil
}
