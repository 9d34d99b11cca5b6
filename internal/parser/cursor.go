package parser

import (
	"github.com/HicaroD/ember/internal/lexer/token"
)

// cursor walks a fully materialized token stream. The stream always ends
// with EOF and the cursor never moves past it.
type cursor struct {
	offset int
	tokens []*token.Token
}

func newCursor(tokens []*token.Token) *cursor {
	return &cursor{offset: 0, tokens: tokens}
}

func (cursor *cursor) peek() *token.Token {
	return cursor.tokens[cursor.offset]
}

func (cursor *cursor) peekN(n int) *token.Token {
	if cursor.offset+n < len(cursor.tokens) {
		return cursor.tokens[cursor.offset+n]
	}
	return cursor.tokens[len(cursor.tokens)-1]
}

func (cursor *cursor) next() *token.Token {
	token := cursor.peek()
	if cursor.offset < len(cursor.tokens)-1 {
		cursor.offset++
	}
	return token
}

func (cursor *cursor) skip() {
	cursor.next()
}

func (cursor *cursor) nextIs(expectedKind token.Kind) bool {
	return cursor.peek().Kind == expectedKind
}

// mark and reset snapshot and restore the read position. Speculative
// parses take a mark before consuming and reset to it when they back out.
func (cursor *cursor) mark() int {
	return cursor.offset
}

func (cursor *cursor) reset(mark int) {
	cursor.offset = mark
}
