package loader

import (
	"path/filepath"
	"testing"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/sema"
	"github.com/stretchr/testify/require"
)

func functionNames(program *ast.Program) []string {
	var names []string
	for _, stmt := range program.Stmts {
		if def, ok := stmt.(*ast.FunctionDef); ok {
			names = append(names, def.Name.Name())
		}
	}
	return names
}

func TestLoadResolvesLocalBeforeStd(t *testing.T) {
	program, err := Load("testdata/basic/main.em", "testdata/basic/std")
	require.NoError(t, err)

	// geometry.em next to main.em shadows the std one
	require.Equal(t, []string{"square"}, program.Modules["geometry"])
	require.Equal(t, []string{"shout"}, program.Modules["strings"])
	require.Equal(t, []string{"shout", "_helper", "square"}, functionNames(program))

	require.NoError(t, sema.New().Check(program))
}

func TestImportedStatementsComeFirst(t *testing.T) {
	program, err := Load("testdata/basic/main.em", "testdata/basic/std")
	require.NoError(t, err)

	last := program.Stmts[len(program.Stmts)-1]
	_, isExprStmt := last.(*ast.ExprStmt)
	require.True(t, isExprStmt)
}

func TestImportCyclesAreIgnored(t *testing.T) {
	program, err := Load("testdata/cycle/main.em", "")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"ping", "pong"}, functionNames(program))
	require.Contains(t, program.Modules, "ping")
	require.Contains(t, program.Modules, "pong")

	require.NoError(t, sema.New().Check(program))
}

func TestUnresolvedImportIsReportedByChecker(t *testing.T) {
	program, err := Load("testdata/private/main.em", "")
	require.NoError(t, err)
	require.NotContains(t, program.Modules, "missing")

	err = sema.New().Check(program)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown module 'missing'")
}

func TestMissingEntryFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.em"), "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unable to read")
}

func TestModuleName(t *testing.T) {
	require.Equal(t, "geometry", ModuleName("a/b/geometry.em"))
}
