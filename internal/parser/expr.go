package parser

import (
	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer/token"
)

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.Expr, error) {
	lhs, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}

	if !p.cursor.nextIs(token.EQUAL) {
		return lhs, nil
	}
	equal := p.cursor.next() // =

	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}

	switch target := lhs.(type) {
	case *ast.IdExpr, *ast.MemberAccess:
		return &ast.AssignExpr{Target: target, Value: value, Pos: equal.Pos}, nil
	case *ast.IndexExpr:
		return &ast.IndexAssignExpr{Object: target.Object, Index: target.Index, Value: value, Pos: equal.Pos}, nil
	default:
		return nil, diagnostics.Errorf(diagnostics.PARSE_ERROR, equal.Pos, "invalid assignment target")
	}
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	lhs, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}

	for {
		next := p.cursor.peek()
		if _, ok := ast.LOGICAL_OR[next.Kind]; !ok {
			break
		}
		p.cursor.skip()
		rhs, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{Left: lhs, Op: next.Kind, OpPos: next.Pos, Right: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	lhs, err := p.parseEquality()
	if err != nil {
		return nil, err
	}

	for {
		next := p.cursor.peek()
		if _, ok := ast.LOGICAL_AND[next.Kind]; !ok {
			break
		}
		p.cursor.skip()
		rhs, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{Left: lhs, Op: next.Kind, OpPos: next.Pos, Right: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	lhs, err := p.parseComparasion()
	if err != nil {
		return nil, err
	}

	for {
		next := p.cursor.peek()
		if _, ok := ast.EQUALITY[next.Kind]; !ok {
			break
		}
		p.cursor.skip()
		rhs, err := p.parseComparasion()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{Left: lhs, Op: next.Kind, OpPos: next.Pos, Right: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseComparasion() (ast.Expr, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for {
		next := p.cursor.peek()
		if _, ok := ast.COMPARASION[next.Kind]; !ok {
			break
		}
		p.cursor.skip()
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{Left: lhs, Op: next.Kind, OpPos: next.Pos, Right: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	lhs, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for {
		next := p.cursor.peek()
		if _, ok := ast.TERM[next.Kind]; !ok {
			break
		}
		p.cursor.skip()
		rhs, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{Left: lhs, Op: next.Kind, OpPos: next.Pos, Right: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		next := p.cursor.peek()
		if _, ok := ast.FACTOR[next.Kind]; !ok {
			break
		}
		p.cursor.skip()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{Left: lhs, Op: next.Kind, OpPos: next.Pos, Right: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	next := p.cursor.peek()
	if _, ok := ast.UNARY[next.Kind]; ok {
		p.cursor.skip()
		value, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: next.Kind, OpPos: next.Pos, Value: value}, nil
	}

	return p.parsePower()
}

// parsePower is right-associative: the exponent is parsed as a full unary
// operand, so 2 ** 3 ** 2 is 2 ** (3 ** 2) and 2 ** -1 parses.
func (p *Parser) parsePower() (ast.Expr, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}

	if !p.cursor.nextIs(token.STAR_STAR) {
		return base, nil
	}
	op := p.cursor.next() // **

	exponent, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{Left: base, Op: op.Kind, OpPos: op.Pos, Right: exponent}, nil
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.cursor.peek()
		switch tok.Kind {
		case token.OPEN_PAREN:
			id, ok := expr.(*ast.IdExpr)
			if !ok {
				return nil, diagnostics.Errorf(diagnostics.PARSE_ERROR, tok.Pos, "expression is not callable")
			}
			p.cursor.skip() // (
			args, err := p.parseExprList(token.CLOSE_PAREN, "',' or ')' in argument list")
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Name: id.Name, Args: args}
		case token.OPEN_BRACKET:
			p.cursor.skip() // [
			p.skipNewlines()
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			p.skipNewlines()
			_, err = p.consume(token.CLOSE_BRACKET, "']' after index")
			if err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Object: expr, Index: index, Pos: tok.Pos}
		case token.DOT:
			p.cursor.skip() // .
			name, err := p.consume(token.ID, "member name after '.'")
			if err != nil {
				return nil, err
			}
			if p.cursor.nextIs(token.OPEN_PAREN) {
				p.cursor.skip() // (
				args, err := p.parseExprList(token.CLOSE_PAREN, "',' or ')' in argument list")
				if err != nil {
					return nil, err
				}
				expr = &ast.MethodCall{Object: expr, Method: name, Args: args}
			} else {
				expr = &ast.MemberAccess{Object: expr, Field: name}
			}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cursor.peek()

	switch tok.Kind {
	case token.ID:
		p.cursor.skip()
		return &ast.IdExpr{Name: tok}, nil
	case token.INT_TYPE, token.FLOAT_TYPE, token.STR_TYPE:
		// conversions: int(x), float(x), str(x)
		if p.cursor.peekN(1).Kind != token.OPEN_PAREN {
			return nil, p.unexpected("expression")
		}
		p.cursor.skip()
		return &ast.IdExpr{Name: token.New([]byte(tok.Kind.String()), token.ID, tok.Pos)}, nil
	case token.FSTRING_LITERAL:
		p.cursor.skip()
		return p.parseFString(tok)
	case token.OPEN_PAREN:
		p.cursor.skip() // (
		p.skipNewlines()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipNewlines()
		_, err = p.consume(token.CLOSE_PAREN, "')' to close parenthesized expression")
		if err != nil {
			return nil, err
		}
		return expr, nil
	case token.OPEN_BRACKET:
		p.cursor.skip() // [
		elems, err := p.parseExprList(token.CLOSE_BRACKET, "',' or ']' in list literal")
		if err != nil {
			return nil, err
		}
		return &ast.ListLiteral{Open: tok.Pos, Elems: elems}, nil
	case token.OPEN_CURLY:
		return p.parseDictLiteral()
	default:
		if tok.Kind.IsLiteral() {
			p.cursor.skip()
			return &ast.LiteralExpr{Pos: tok.Pos, Kind: tok.Kind, Value: tok.Lexeme}, nil
		}
		return nil, p.unexpected("expression")
	}
}

// parseExprList parses comma separated expressions up to and including
// end. Newlines are insignificant inside the delimiters and a trailing
// comma is accepted.
func (p *Parser) parseExprList(end token.Kind, what string) ([]ast.Expr, error) {
	var exprs []ast.Expr
	for {
		p.skipNewlines()
		if p.cursor.nextIs(end) {
			p.cursor.skip()
			return exprs, nil
		}

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)

		p.skipNewlines()
		if p.cursor.nextIs(token.COMMA) {
			p.cursor.skip()
			continue
		}
		if !p.cursor.nextIs(end) {
			return nil, p.unexpected(what)
		}
	}
}

func (p *Parser) parseDictLiteral() (*ast.DictLiteral, error) {
	open := p.cursor.next() // {
	dict := &ast.DictLiteral{Open: open.Pos}

	for {
		p.skipNewlines()
		if p.cursor.nextIs(token.CLOSE_CURLY) {
			p.cursor.skip()
			return dict, nil
		}

		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		_, err = p.consume(token.COLON, "':' after dict key")
		if err != nil {
			return nil, err
		}
		p.skipNewlines()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		dict.Keys = append(dict.Keys, key)
		dict.Values = append(dict.Values, value)

		p.skipNewlines()
		if p.cursor.nextIs(token.COMMA) {
			p.cursor.skip()
			continue
		}
		if !p.cursor.nextIs(token.CLOSE_CURLY) {
			return nil, p.unexpected("',' or '}' in dict literal")
		}
	}
}
