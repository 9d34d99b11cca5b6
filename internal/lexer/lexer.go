package lexer

import (
	"os"
	"unicode"

	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer/token"
)

const eof = '\000'

type Lexer struct {
	src    []byte
	offset int
	pos    token.Pos
}

func New(filename string, src []byte) *Lexer {
	lexer := new(Lexer)

	lexer.pos = token.NewPosition(filename, 1, 1)
	lexer.src = src
	lexer.offset = 0

	return lexer
}

func NewFromFilePath(path string) (*Lexer, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(path, src), nil
}

// NewAt lexes src as if it started at pos. The parser uses it for the
// expressions embedded in f-strings so their errors point into the
// enclosing literal.
func NewAt(pos token.Pos, src []byte) *Lexer {
	lexer := New(pos.Filename, src)
	lexer.pos = pos
	return lexer
}

func (lex *Lexer) Filename() string { return lex.pos.Filename }

func (lex *Lexer) Peek() (*token.Token, error) {
	prevPos := lex.pos
	prevOffset := lex.offset

	tok, err := lex.Next()

	lex.pos.SetPosition(prevPos)
	lex.offset = prevOffset
	return tok, err
}

func (lex *Lexer) Next() (*token.Token, error) {
	lex.skipWhitespace()
	character := lex.peekChar()

	tok := &token.Token{}
	tok.Kind = token.INVALID

	if character == eof {
		lex.consumeTokenNoLex(tok, token.EOF)
		return tok, nil
	}

	return lex.getToken(tok, character)
}

// Tokenize materializes the whole stream, EOF included.
func (lex *Lexer) Tokenize() ([]*token.Token, error) {
	var tokens []*token.Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, nil
}

func (lex *Lexer) getToken(tok *token.Token, ch byte) (*token.Token, error) {
	switch ch {
	case '\n':
		lex.consumeTokenNoLex(tok, token.NEWLINE)
		lex.nextChar()
	case '(':
		lex.consumeTokenNoLex(tok, token.OPEN_PAREN)
		lex.nextChar()
	case ')':
		lex.consumeTokenNoLex(tok, token.CLOSE_PAREN)
		lex.nextChar()
	case '{':
		lex.consumeTokenNoLex(tok, token.OPEN_CURLY)
		lex.nextChar()
	case '}':
		lex.consumeTokenNoLex(tok, token.CLOSE_CURLY)
		lex.nextChar()
	case '[':
		lex.consumeTokenNoLex(tok, token.OPEN_BRACKET)
		lex.nextChar()
	case ']':
		lex.consumeTokenNoLex(tok, token.CLOSE_BRACKET)
		lex.nextChar()
	case '"', '\'':
		return lex.getStringLit(tok, token.STRING_LITERAL)
	case ',':
		lex.consumeTokenNoLex(tok, token.COMMA)
		lex.nextChar()
	case ';':
		lex.consumeTokenNoLex(tok, token.SEMICOLON)
		lex.nextChar()
	case ':':
		lex.consumeTokenNoLex(tok, token.COLON)
		lex.nextChar()
	case '.':
		lex.consumeTokenNoLex(tok, token.DOT)
		lex.nextChar()
	case '+':
		lex.consumeTokenNoLex(tok, token.PLUS)
		lex.nextChar()
	case '%':
		lex.consumeTokenNoLex(tok, token.PERCENT)
		lex.nextChar()
	case '-':
		lex.consumeTwoCharOp(tok, token.MINUS, '>', token.ARROW)
	case '*':
		lex.consumeTwoCharOp(tok, token.STAR, '*', token.STAR_STAR)
	case '/':
		lex.consumeTwoCharOp(tok, token.SLASH, '/', token.SLASH_SLASH)
	case '>':
		lex.consumeTwoCharOp(tok, token.GREATER, '=', token.GREATER_EQ)
	case '<':
		lex.consumeTwoCharOp(tok, token.LESS, '=', token.LESS_EQ)
	case '=':
		lex.consumeTwoCharOp(tok, token.EQUAL, '=', token.EQUAL_EQUAL)
	case '!':
		tok.Pos = lex.pos
		lex.nextChar() // !

		if lex.peekChar() != '=' {
			return nil, diagnostics.Errorf(diagnostics.LEX_ERROR, tok.Pos, "invalid character '!', did you mean '!='?")
		}
		lex.nextChar() // =
		tok.Kind = token.BANG_EQUAL
	default:
		if ch == 'f' && (lex.peekCharAt(1) == '"' || lex.peekCharAt(1) == '\'') {
			pos := lex.pos
			lex.nextChar() // f
			_, err := lex.getStringLit(tok, token.FSTRING_LITERAL)
			if err != nil {
				return nil, err
			}
			tok.Pos = pos
			return tok, nil
		}
		if unicode.IsLetter(rune(ch)) || ch == '_' {
			lex.getIdOrKeyword(tok)
		} else if isDigit(ch) {
			lex.getNumberLit(tok)
		} else {
			return nil, diagnostics.Errorf(diagnostics.LEX_ERROR, lex.pos, "invalid character %q", ch)
		}
	}
	return tok, nil
}

func (lex *Lexer) consumeTwoCharOp(tok *token.Token, single token.Kind, second byte, double token.Kind) {
	tok.Kind = single
	tok.Pos = lex.pos
	lex.nextChar()

	if lex.peekChar() != second {
		return
	}
	lex.nextChar()
	tok.Kind = double
}

// getStringLit reads a quoted literal terminated by the same quote that
// opened it. Escapes are decoded for both plain and f-strings; braces are
// left for the parser.
func (lex *Lexer) getStringLit(tok *token.Token, kind token.Kind) (*token.Token, error) {
	tok.Pos = lex.pos
	quote := lex.nextChar()

	str := []byte{}
	for {
		ch := lex.peekChar()
		if ch == eof || ch == '\n' || ch == quote {
			break
		}

		if ch == '\\' {
			escapePos := lex.pos
			lex.nextChar()
			escapeSym := lex.peekChar()

			var escape byte

			switch escapeSym {
			case 'n':
				escape = '\n'
			case 't':
				escape = '\t'
			case 'r':
				escape = '\r'
			case '\\':
				escape = '\\'
			case '"':
				escape = '"'
			case '\'':
				escape = '\''
			default:
				return nil, diagnostics.Errorf(diagnostics.LEX_ERROR, escapePos, "invalid escape sequence '\\%c'", escapeSym)
			}
			str = append(str, escape)
		} else {
			str = append(str, ch)
		}

		lex.nextChar()
	}

	if lex.peekChar() != quote {
		return nil, diagnostics.Errorf(diagnostics.LEX_ERROR, tok.Pos, "unterminated string literal")
	}
	lex.nextChar()

	tok.Kind = kind
	tok.Lexeme = str
	return tok, nil
}

// getNumberLit only takes a '.' into the literal when a digit follows it,
// so "1.foo" is INT_LITERAL DOT ID.
func (lex *Lexer) getNumberLit(tok *token.Token) {
	tok.Pos = lex.pos
	start := lex.offset
	tok.Kind = token.INT_LITERAL

	lex.readWhile(isDigit)
	if lex.peekChar() == '.' && isDigit(lex.peekCharAt(1)) {
		tok.Kind = token.FLOAT_LITERAL
		lex.nextChar() // .
		lex.readWhile(isDigit)
	}

	tok.Lexeme = lex.src[start:lex.offset]
}

func (lex *Lexer) getIdOrKeyword(tok *token.Token) {
	tok.Pos = lex.pos
	identifier := lex.readWhile(
		func(chr byte) bool { return unicode.IsNumber(rune(chr)) || unicode.IsLetter(rune(chr)) || chr == '_' },
	)
	tok.Kind = token.ID
	tok.Lexeme = identifier
	keyword, ok := token.KEYWORDS[string(identifier)]
	if ok {
		tok.Kind = keyword
	}
}

func (lex *Lexer) consumeTokenNoLex(tok *token.Token, kind token.Kind) {
	tok.Lexeme = nil
	tok.Kind = kind
	tok.Pos = lex.pos
}

func (lex *Lexer) skipWhitespace() {
	for {
		lex.readWhile(func(ch byte) bool {
			return ch == ' ' || ch == '\t' || ch == '\r'
		})
		if lex.peekChar() != '#' {
			return
		}
		lex.readWhile(func(ch byte) bool { return ch != '\n' })
	}
}

func (lex *Lexer) readWhile(isValid func(byte) bool) []byte {
	var start, end int
	start = lex.offset

	for {
		character := lex.peekChar()
		if character == eof {
			break
		}

		if isValid(character) {
			lex.nextChar()
		} else {
			break
		}
	}

	end = lex.offset

	return lex.src[start:end]
}

func (lex *Lexer) nextChar() byte {
	if lex.offset >= len(lex.src) {
		return eof
	}
	character := lex.src[lex.offset]
	lex.pos.Move(character)
	lex.offset++
	return character
}

func (lex *Lexer) peekChar() byte {
	return lex.peekCharAt(0)
}

func (lex *Lexer) peekCharAt(n int) byte {
	if lex.offset+n >= len(lex.src) {
		return eof
	}
	return lex.src[lex.offset+n]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
