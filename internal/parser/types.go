package parser

import (
	"strconv"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer/token"
)

func (p *Parser) parseExprType() (*ast.ExprType, error) {
	tok := p.cursor.next()

	var ty *ast.ExprType
	var err error

	switch tok.Kind {
	case token.INT_TYPE:
		ty = ast.INT_TYPE
	case token.FLOAT_TYPE:
		ty = ast.FLOAT_TYPE
	case token.BOOL_TYPE:
		ty = ast.BOOL_TYPE
	case token.STR_TYPE:
		ty = ast.STR_TYPE
	case token.VOID_TYPE:
		ty = ast.VOID_TYPE
	case token.LIST_TYPE:
		ty, err = p.parseListType()
	case token.DICT_TYPE:
		ty, err = p.parseDictType()
	case token.ID:
		ty = ast.NewCustomType(tok.Name())
	default:
		return nil, diagnostics.Errorf(diagnostics.PARSE_ERROR, tok.Pos, "expected type, but got %s", describe(tok))
	}
	if err != nil {
		return nil, err
	}

	// fixed-size array suffixes: int[3], list[int][2]
	for p.cursor.nextIs(token.OPEN_BRACKET) && p.cursor.peekN(1).Kind == token.INT_LITERAL {
		p.cursor.skip() // [
		sizeTok := p.cursor.next()
		size, convErr := strconv.Atoi(string(sizeTok.Lexeme))
		if convErr != nil || size <= 0 {
			return nil, diagnostics.Errorf(diagnostics.PARSE_ERROR, sizeTok.Pos, "invalid array size %s", sizeTok.Name())
		}
		_, err := p.consume(token.CLOSE_BRACKET, "']' after array size")
		if err != nil {
			return nil, err
		}
		ty = ast.NewArrayType(ty, size)
	}

	return ty, nil
}

func (p *Parser) parseListType() (*ast.ExprType, error) {
	_, err := p.consume(token.OPEN_BRACKET, "'[' after 'list'")
	if err != nil {
		return nil, err
	}
	elem, err := p.parseExprType()
	if err != nil {
		return nil, err
	}
	_, err = p.consume(token.CLOSE_BRACKET, "']' to close list type")
	if err != nil {
		return nil, err
	}
	return ast.NewListType(elem), nil
}

func (p *Parser) parseDictType() (*ast.ExprType, error) {
	_, err := p.consume(token.OPEN_BRACKET, "'[' after 'dict'")
	if err != nil {
		return nil, err
	}
	key, err := p.parseExprType()
	if err != nil {
		return nil, err
	}
	_, err = p.consume(token.COMMA, "',' between dict key and value types")
	if err != nil {
		return nil, err
	}
	value, err := p.parseExprType()
	if err != nil {
		return nil, err
	}
	_, err = p.consume(token.CLOSE_BRACKET, "']' to close dict type")
	if err != nil {
		return nil, err
	}
	return ast.NewDictType(key, value), nil
}
