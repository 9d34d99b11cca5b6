package token

import "fmt"

type Token struct {
	Lexeme []byte
	Kind   Kind
	Pos    Pos
}

func New(lexeme []byte, kind Kind, position Pos) *Token {
	return &Token{Lexeme: lexeme, Kind: kind, Pos: position}
}

// Name returns the lexeme for tokens carrying a payload and the kind
// spelling for everything else. It is what diagnostics print as "got ...".
func (token *Token) Name() string {
	switch token.Kind {
	case ID, INT_LITERAL, FLOAT_LITERAL:
		return string(token.Lexeme)
	case STRING_LITERAL, FSTRING_LITERAL:
		return fmt.Sprintf("%q", string(token.Lexeme))
	}
	return token.Kind.String()
}

func (token *Token) String() string {
	return fmt.Sprintf("%s | %s | %s", string(token.Lexeme), token.Kind, token.Pos)
}
