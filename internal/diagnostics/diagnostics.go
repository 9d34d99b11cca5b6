package diagnostics

import (
	"fmt"

	"github.com/HicaroD/ember/internal/lexer/token"
)

type Kind int

const (
	LEX_ERROR Kind = iota
	PARSE_ERROR
	TYPE_ERROR
	CODEGEN_ERROR
)

func (kind Kind) String() string {
	switch kind {
	case LEX_ERROR:
		return "lex error"
	case PARSE_ERROR:
		return "parse error"
	case TYPE_ERROR:
		return "type error"
	case CODEGEN_ERROR:
		return "codegen error"
	}
	return "error"
}

// Error is the single failure value shared by every stage of the pipeline.
// Stages stop at the first one, so a compilation produces at most one.
type Error struct {
	Kind Kind
	// Pos is the zero value when the failing construct has no position,
	// e.g. a missing runtime symbol during lowering.
	Pos token.Pos
	Msg string
}

func Errorf(kind Kind, pos token.Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (err *Error) HasPos() bool {
	return err.Pos.Line > 0
}

func (err *Error) Error() string {
	if !err.HasPos() {
		return err.Msg
	}
	return fmt.Sprintf("%s:%d:%d: %s", err.Pos.Filename, err.Pos.Line, err.Pos.Column, err.Msg)
}
