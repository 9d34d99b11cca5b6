package testutil

import (
	"testing"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/parser"
	"github.com/HicaroD/ember/internal/sema"
)

const DefaultFilename = "test.em"

// Check parses and type checks src as a whole program, failing the test on
// any diagnostic.
func Check(t testing.TB, src string) *ast.Program {
	t.Helper()

	program, err := parser.ParseSource(DefaultFilename, []byte(src))
	if err != nil {
		t.Fatalf("unexpected parse error '%v'", err)
	}
	err = sema.New().Check(program)
	if err != nil {
		t.Fatalf("unexpected type error '%v'", err)
	}
	return program
}
