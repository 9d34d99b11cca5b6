package llvm

import (
	"errors"
	"strings"
	"testing"

	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/testutil"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/go-llvm"
)

// generate compiles src and returns the textual IR of the verified module.
func generate(t *testing.T, src string, options Options) (string, error) {
	t.Helper()

	program := testutil.Check(t, src)
	codegen := NewCG("test", program, options)
	defer codegen.Dispose()

	module, err := codegen.Generate()
	if err != nil {
		return "", err
	}
	require.NoError(t, llvm.VerifyModule(module, llvm.ReturnStatusAction))
	return module.String(), nil
}

func TestGeneratedIR(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains []string
	}{
		{
			name: "function",
			src: `def add(a: int, b: int) -> int {
  return a + b
}
x: int = add(2, 3)
`,
			contains: []string{"define internal i64 @add(i64", "define i32 @main()", "add i64", "call i64 @add"},
		},
		{
			name: "mixed arithmetic",
			src: `a: int = 1
b: float = a + 1.5
`,
			contains: []string{"sitofp", "fadd double"},
		},
		{
			name: "integer division",
			src: `a: int = 7 // 2
b: int = 7 % 2
`,
			contains: []string{"sdiv i64", "srem i64"},
		},
		{
			name: "list methods",
			src: `lst: list[int] = [1, 2, 3]
lst.push(4)
n: int = lst.length
`,
			contains: []string{"ember_array_create", "ember_array_push", "ember_array_length"},
		},
		{
			name: "dict index",
			src: `d: dict[str, int] = {"a": 1}
x: int = d["missing"]
`,
			contains: []string{"ember_dict_create", "ember_dict_set", "ember_dict_get"},
		},
		{
			name: "dict iteration",
			src: `d: dict[str, int] = {"a": 1}
total: int = 0
for k in d {
  total = total + d[k]
}
`,
			contains: []string{"ember_dict_keys", ".forcond", ".forstep", ".forend"},
		},
		{
			name: "fixed array",
			src: `arr: int[3] = [1, 2, 3]
arr[0] = 10
n: int = arr.length + arr[1]
`,
			contains: []string{"[3 x i64]", "getelementptr inbounds"},
		},
		{
			name: "class",
			src: `class Point {
  x: int
  y: int
  def sum(self) -> int {
    return self.x + self.y
  }
}
p: Point = Point(1, 2)
s: int = p.sum()
`,
			contains: []string{"%Point = type { i64, i64 }", "@Point.new", `@"Point::sum"`, "ember_rc_alloc"},
		},
		{
			name: "string operations",
			src: `a: str = "foo"
b: str = a + "bar"
same: bool = a == b
`,
			contains: []string{"strlen", "malloc", "strcpy", "strcat", "strcmp"},
		},
		{
			name: "f-string",
			src: `a: int = 2
b: int = 3
s: str = f"sum={a + b} ok={a < b}"
`,
			contains: []string{"snprintf", "%lld", "True", "False", "sum="},
		},
		{
			name: "print",
			src: `print(1, 2.5, "three", True)
`,
			contains: []string{"@printf", "%lld %g %s %s\\0A"},
		},
		{
			name: "while loop",
			src: `i: int = 0
while i < 10 {
  if i == 5 {
    break
  }
  i = i + 1
}
`,
			contains: []string{".whilecond", ".whilebody", ".whileend", ".if"},
		},
		{
			name: "assert",
			src: `x: int = 1
assert x == 1, "x must be one"
`,
			contains: []string{".assertfail", "ember_exc_create", "ember_exc_raise", "unreachable"},
		},
		{
			name: "globals",
			src: `counter: int = 0
def bump() -> void {
  counter = counter + 1
}
bump()
`,
			contains: []string{"@counter = internal global i64 0", "store i64"},
		},
		{
			name: "file builtins",
			src: `h: int = open("out.txt", "w")
ok: bool = exists("out.txt")
close(h)
`,
			contains: []string{"ember_file_open", "ember_file_exists", "ember_file_close"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ir, err := generate(t, test.src, Options{})
			require.NoError(t, err)
			for _, fragment := range test.contains {
				require.Contains(t, ir, fragment)
			}
		})
	}
}

func TestStackTrace(t *testing.T) {
	src := `def f() -> int {
  return 1
}
x: int = f()
`
	ir, err := generate(t, src, Options{StackTrace: true})
	require.NoError(t, err)
	require.Contains(t, ir, "ember_stack_push")
	require.Contains(t, ir, "ember_stack_pop")

	ir, err = generate(t, src, Options{})
	require.NoError(t, err)
	require.NotContains(t, ir, "ember_stack_push")
}

func TestZeroReturnIsSynthesized(t *testing.T) {
	ir, err := generate(t, `def f(x: int) -> int {
  if x > 0 {
    return x
  }
}
`, Options{})
	require.NoError(t, err)
	require.Contains(t, ir, "ret i64 0")
}

func TestCodegenErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  string
	}{
		{"power", "x: int = 2 ** 3\n", "operator '**' is not supported"},
		{"int keys", "d: dict[int, int] = {1: 2}\n", "dict keys must be str, but got int"},
		{"list widening", "a: list[int] = [1]\nb: list[float] = a\n", "cannot convert value of type list[int] to list[float]"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := generate(t, test.src, Options{})
			require.Error(t, err)
			require.Contains(t, err.Error(), test.err)

			var diag *diagnostics.Error
			require.True(t, errors.As(err, &diag))
			require.Equal(t, diagnostics.CODEGEN_ERROR, diag.Kind)
			require.True(t, diag.HasPos())
		})
	}
}

func TestUserSymbolsAreInternal(t *testing.T) {
	ir, err := generate(t, `def free(n: int) -> int {
  return n
}
stdout: int = free(1)
`, Options{})
	require.NoError(t, err)
	require.Contains(t, ir, "define internal i64 @free(i64")
	require.Contains(t, ir, "@stdout = internal global i64 0")
	require.Contains(t, ir, "define i32 @main()")
}

func TestConstructorFrames(t *testing.T) {
	ir, err := generate(t, `class Point {
  x: int
}
p: Point = Point(1)
`, Options{StackTrace: true})
	require.NoError(t, err)

	var body string
	for _, fn := range strings.Split(ir, "\n}\n") {
		i := strings.Index(fn, "define ")
		if i == -1 {
			continue
		}
		header, _, _ := strings.Cut(fn[i:], "\n")
		if strings.Contains(header, "@Point.new(i64") {
			body = fn[i:]
		}
	}
	require.NotEmpty(t, body, "constructor is not defined")
	require.Contains(t, body, "ember_stack_push")
	require.Contains(t, body, "ember_stack_pop")
	require.Contains(t, ir, `c"Point.new\00"`)
}
