package compiler

import (
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/HicaroD/ember/internal/config"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer/token"
	"github.com/stretchr/testify/require"
)

func newCompiler() *Compiler {
	cfg := config.Default()
	cfg.Paths.Std = ""
	cfg.Paths.Runtime = ""
	return New(cfg)
}

func TestTokens(t *testing.T) {
	tokens, err := newCompiler().Tokens("testdata/type_error.em")
	require.NoError(t, err)
	require.Equal(t, token.ID, tokens[0].Kind)
	require.Equal(t, token.EOF, tokens[len(tokens)-1].Kind)
}

func TestCheck(t *testing.T) {
	program, err := newCompiler().Check("testdata/hello.em")
	require.NoError(t, err)
	require.NotEmpty(t, program.Stmts)
}

func TestDiagnosticsAreCollected(t *testing.T) {
	tests := []struct {
		file string
		kind diagnostics.Kind
		msg  string
	}{
		{"testdata/type_error.em", diagnostics.TYPE_ERROR, "testdata/type_error.em:2:10: cannot assign value of type int to variable 'y' of type str"},
		{"testdata/power.em", diagnostics.CODEGEN_ERROR, "operator '**' is not supported"},
	}

	for _, test := range tests {
		t.Run(test.file, func(t *testing.T) {
			c := newCompiler()
			_, err := c.IR(test.file, Options{BuildType: config.DEBUG})
			require.ErrorIs(t, err, diagnostics.COMPILER_ERROR_FOUND)

			diag := c.Collector.First()
			require.NotNil(t, diag)
			require.Equal(t, test.kind, diag.Kind)
			require.Contains(t, diag.Error(), test.msg)
		})
	}
}

func TestMissingFileIsNotADiagnostic(t *testing.T) {
	c := newCompiler()
	_, err := c.Check("testdata/does_not_exist.em")
	require.Error(t, err)
	require.False(t, errors.Is(err, diagnostics.COMPILER_ERROR_FOUND))
	require.False(t, c.Collector.HasErrors())
}

func TestIRFollowsBuildType(t *testing.T) {
	debug, err := newCompiler().IR("testdata/hello.em", Options{BuildType: config.DEBUG})
	require.NoError(t, err)
	require.Contains(t, debug, "define i32 @main()")
	require.Contains(t, debug, "ember_stack_push")

	release, err := newCompiler().IR("testdata/hello.em", Options{BuildType: config.RELEASE})
	require.NoError(t, err)
	require.NotContains(t, release, "ember_stack_push")
}

func TestBuild(t *testing.T) {
	for _, tool := range []string{"opt", "clang"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not found in PATH", tool)
		}
	}

	out := filepath.Join(t.TempDir(), "hello")
	exe, err := newCompiler().Build("testdata/hello.em", Options{BuildType: config.RELEASE, Output: out, KeepIR: true})
	require.NoError(t, err)
	require.Equal(t, out, exe)
	require.FileExists(t, out+".ll")

	output, err := exec.Command(exe).Output()
	require.NoError(t, err)
	require.Equal(t, "Hello, world!\n10 2.5\n", string(output))
}
