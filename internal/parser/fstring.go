package parser

import (
	"strings"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer"
	"github.com/HicaroD/ember/internal/lexer/token"
)

// parseFString splits the raw f-string text into literal parts and
// embedded expressions. `{{` and `}}` stand for literal braces; anything
// between a single `{` and its matching `}` is lexed and parsed again with
// a fresh lexer and parser.
func (p *Parser) parseFString(tok *token.Token) (*ast.FStringExpr, error) {
	raw := tok.Lexeme
	fstr := &ast.FStringExpr{Pos: tok.Pos}

	var text []byte
	for i := 0; i < len(raw); {
		ch := raw[i]

		switch {
		case ch == '{' && i+1 < len(raw) && raw[i+1] == '{':
			text = append(text, '{')
			i += 2
		case ch == '}' && i+1 < len(raw) && raw[i+1] == '}':
			text = append(text, '}')
			i += 2
		case ch == '{':
			depth := 1
			j := i + 1
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			if depth != 0 {
				return nil, diagnostics.Errorf(diagnostics.PARSE_ERROR, tok.Pos, "unterminated '{' in f-string")
			}

			// f and the opening quote come before the raw text
			pos := tok.Pos
			pos.Column += 2 + i + 1
			expr, err := parseEmbeddedExpr(pos, raw[i+1:j-1])
			if err != nil {
				return nil, err
			}

			fstr.Parts = append(fstr.Parts, string(text))
			fstr.Exprs = append(fstr.Exprs, expr)
			text = nil
			i = j
		case ch == '}':
			return nil, diagnostics.Errorf(diagnostics.PARSE_ERROR, tok.Pos, "single '}' is not allowed in f-string, use '}}'")
		default:
			text = append(text, ch)
			i++
		}
	}
	fstr.Parts = append(fstr.Parts, string(text))

	return fstr, nil
}

func parseEmbeddedExpr(pos token.Pos, src []byte) (ast.Expr, error) {
	if strings.TrimSpace(string(src)) == "" {
		return nil, diagnostics.Errorf(diagnostics.PARSE_ERROR, pos, "empty expression in f-string")
	}

	p, err := NewFromLexer(lexer.NewAt(pos, src))
	if err != nil {
		return nil, err
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.cursor.nextIs(token.EOF) {
		return nil, p.unexpected("'}' after f-string expression")
	}
	return expr, nil
}
