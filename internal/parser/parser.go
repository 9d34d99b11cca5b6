package parser

import (
	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer"
	"github.com/HicaroD/ember/internal/lexer/token"
)

type Parser struct {
	cursor *cursor

	// name of the class whose body is being parsed, empty outside of one
	className string
}

func New(tokens []*token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		var pos token.Pos
		if len(tokens) > 0 {
			pos = tokens[len(tokens)-1].Pos
		}
		tokens = append(tokens, token.New(nil, token.EOF, pos))
	}
	return &Parser{cursor: newCursor(tokens)}
}

func NewFromLexer(lex *lexer.Lexer) (*Parser, error) {
	tokens, err := lex.Tokenize()
	if err != nil {
		return nil, err
	}
	return New(tokens), nil
}

// ParseSource lexes and parses a whole compilation unit.
func ParseSource(filename string, src []byte) (*ast.Program, error) {
	p, err := NewFromLexer(lexer.New(filename, src))
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

func (p *Parser) Parse() (*ast.Program, error) {
	var stmts []ast.Stmt

	for {
		p.skipNewlines()
		if p.cursor.nextIs(token.EOF) {
			break
		}

		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		err = p.endStmt()
		if err != nil {
			return nil, err
		}
	}

	return ast.NewProgram(stmts), nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	tok := p.cursor.peek()

	switch tok.Kind {
	case token.DEF:
		return p.parseFunctionDef()
	case token.CLASS:
		return p.parseClassDef()
	case token.IMPORT:
		return p.parseImport()
	case token.IF:
		return p.parseCondStmt()
	case token.WHILE:
		return p.parseWhileLoop()
	case token.FOR:
		return p.parseForLoop()
	case token.RETURN:
		return p.parseReturn()
	case token.ASSERT:
		return p.parseAssert()
	case token.PASS:
		p.cursor.skip()
		return &ast.PassStmt{Pos: tok.Pos}, nil
	case token.BREAK:
		p.cursor.skip()
		return &ast.BreakStmt{Pos: tok.Pos}, nil
	case token.CONTINUE:
		p.cursor.skip()
		return &ast.ContinueStmt{Pos: tok.Pos}, nil
	case token.ID:
		return p.parseIdStmt()
	default:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr}, nil
	}
}

// parseIdStmt decides between `name: type [= value]` and an expression
// statement. It consumes `name :` speculatively and rewinds when the colon
// is missing.
func (p *Parser) parseIdStmt() (ast.Stmt, error) {
	mark := p.cursor.mark()

	name := p.cursor.next()
	if p.cursor.nextIs(token.COLON) {
		p.cursor.skip() // :
		return p.parseVarDecl(name)
	}

	p.cursor.reset(mark)
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Expr: expr}, nil
}

func (p *Parser) parseVarDecl(name *token.Token) (*ast.VarDecl, error) {
	ty, err := p.parseExprType()
	if err != nil {
		return nil, err
	}

	variable := &ast.VarDecl{Name: name, Type: ty}
	if !p.cursor.nextIs(token.EQUAL) {
		return variable, nil
	}
	p.cursor.skip() // =

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	variable.Value = value
	return variable, nil
}

func (p *Parser) parseFunctionDef() (*ast.FunctionDef, error) {
	p.cursor.skip() // def

	name, err := p.consume(token.ID, "function name after 'def'")
	if err != nil {
		return nil, err
	}

	params, err := p.parseFunctionParams()
	if err != nil {
		return nil, err
	}

	retType := ast.VOID_TYPE
	if p.cursor.nextIs(token.ARROW) {
		p.cursor.skip() // ->
		retType, err = p.parseExprType()
		if err != nil {
			return nil, err
		}
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDef{Name: name, Params: params, RetType: retType, Body: block}, nil
}

func (p *Parser) parseFunctionParams() ([]*ast.Param, error) {
	_, err := p.consume(token.OPEN_PAREN, "'(' to open parameter list")
	if err != nil {
		return nil, err
	}

	var params []*ast.Param
	for {
		p.skipNewlines()
		if p.cursor.nextIs(token.CLOSE_PAREN) {
			p.cursor.skip()
			break
		}

		name, err := p.consume(token.ID, "parameter name")
		if err != nil {
			return nil, err
		}

		if len(params) == 0 && p.className != "" && name.Name() == "self" && !p.cursor.nextIs(token.COLON) {
			params = append(params, &ast.Param{Name: name, Type: ast.NewCustomType(p.className), IsSelf: true})
		} else {
			_, err = p.consume(token.COLON, "':' after parameter name")
			if err != nil {
				return nil, err
			}
			ty, err := p.parseExprType()
			if err != nil {
				return nil, err
			}
			params = append(params, &ast.Param{Name: name, Type: ty})
		}

		p.skipNewlines()
		if p.cursor.nextIs(token.COMMA) {
			p.cursor.skip()
			continue
		}
		if !p.cursor.nextIs(token.CLOSE_PAREN) {
			return nil, p.unexpected("',' or ')' in parameter list")
		}
	}

	return params, nil
}

func (p *Parser) parseClassDef() (*ast.ClassDef, error) {
	p.cursor.skip() // class

	name, err := p.consume(token.ID, "class name after 'class'")
	if err != nil {
		return nil, err
	}
	class := &ast.ClassDef{Name: name}

	if p.cursor.nextIs(token.OPEN_PAREN) {
		p.cursor.skip() // (
		base, err := p.consume(token.ID, "base class name")
		if err != nil {
			return nil, err
		}
		class.Base = base
		_, err = p.consume(token.CLOSE_PAREN, "')' after base class")
		if err != nil {
			return nil, err
		}
	}

	_, err = p.consume(token.OPEN_CURLY, "'{' to open class body")
	if err != nil {
		return nil, err
	}

	outerClass := p.className
	p.className = name.Name()
	defer func() { p.className = outerClass }()

	methodsStarted := false
	for {
		p.skipNewlines()

		tok := p.cursor.peek()
		switch tok.Kind {
		case token.CLOSE_CURLY:
			p.cursor.skip()
			return class, nil
		case token.PASS:
			p.cursor.skip()
		case token.DEF:
			methodsStarted = true
			method, err := p.parseFunctionDef()
			if err != nil {
				return nil, err
			}
			class.Methods = append(class.Methods, method)
		case token.ID:
			if p.cursor.peekN(1).Kind != token.COLON {
				return nil, p.unexpected("field declaration or method in class body")
			}
			if methodsStarted {
				return nil, diagnostics.Errorf(
					diagnostics.PARSE_ERROR,
					tok.Pos,
					"field '%s' declared after a method: fields must come before methods",
					tok.Name(),
				)
			}
			p.cursor.skip() // name
			p.cursor.skip() // :
			ty, err := p.parseExprType()
			if err != nil {
				return nil, err
			}
			class.Fields = append(class.Fields, &ast.Field{Name: tok, Type: ty})
		default:
			return nil, p.unexpected("field declaration or method in class body")
		}

		err = p.endStmt()
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseImport() (*ast.ImportStmt, error) {
	imp := p.cursor.next() // import
	module, err := p.consume(token.ID, "module name after 'import'")
	if err != nil {
		return nil, err
	}
	return &ast.ImportStmt{Pos: imp.Pos, Module: module}, nil
}

func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	block := new(ast.BlockStmt)

	openCurly, err := p.consume(token.OPEN_CURLY, "'{' to open block")
	if err != nil {
		return nil, err
	}
	block.OpenCurly = openCurly.Pos

	for {
		p.skipNewlines()
		if p.cursor.nextIs(token.CLOSE_CURLY) {
			break
		}
		if p.cursor.nextIs(token.EOF) {
			return nil, p.unexpected("'}' to close block")
		}

		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)

		err = p.endStmt()
		if err != nil {
			return nil, err
		}
	}

	closeCurly := p.cursor.next()
	block.CloseCurly = closeCurly.Pos

	return block, nil
}

func (p *Parser) parseCondStmt() (*ast.IfStmt, error) {
	ifBranch, err := p.parseCondBranch()
	if err != nil {
		return nil, err
	}
	cond := &ast.IfStmt{If: ifBranch}

	for {
		// `}` and `elif`/`else` may be split across lines
		mark := p.cursor.mark()
		p.skipNewlines()

		switch p.cursor.peek().Kind {
		case token.ELIF:
			elif, err := p.parseCondBranch()
			if err != nil {
				return nil, err
			}
			cond.Elifs = append(cond.Elifs, elif)
		case token.ELSE:
			p.cursor.skip() // else
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			cond.Else = elseBlock
			return cond, nil
		default:
			p.cursor.reset(mark)
			return cond, nil
		}
	}
}

func (p *Parser) parseCondBranch() (*ast.CondBranch, error) {
	keyword := p.cursor.next() // if or elif

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.CondBranch{Pos: keyword.Pos, Cond: expr, Block: block}, nil
}

func (p *Parser) parseWhileLoop() (*ast.WhileStmt, error) {
	while := p.cursor.next() // while

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.WhileStmt{Pos: while.Pos, Cond: expr, Block: block}, nil
}

func (p *Parser) parseForLoop() (*ast.ForStmt, error) {
	forTok := p.cursor.next() // for

	variable, err := p.consume(token.ID, "loop variable after 'for'")
	if err != nil {
		return nil, err
	}

	_, err = p.consume(token.IN, "'in' after loop variable")
	if err != nil {
		return nil, err
	}

	iterable, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.ForStmt{Pos: forTok.Pos, Var: variable, Iterable: iterable, Block: block}, nil
}

func (p *Parser) parseReturn() (*ast.ReturnStmt, error) {
	ret := p.cursor.next() // return

	if p.atStmtEnd() {
		return &ast.ReturnStmt{Pos: ret.Pos}, nil
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Pos: ret.Pos, Value: value}, nil
}

func (p *Parser) parseAssert() (*ast.AssertStmt, error) {
	assert := p.cursor.next() // assert

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt := &ast.AssertStmt{Pos: assert.Pos, Cond: cond}

	if p.cursor.nextIs(token.COMMA) {
		p.cursor.skip()
		msg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Msg = msg
	}
	return stmt, nil
}
