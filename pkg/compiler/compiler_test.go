package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
	"github.com/jeronimonunes/simple-compiler/pkg/examples"
	"github.com/jeronimonunes/simple-compiler/pkg/runtime"
)

func mustGenerate(t *testing.T, program *ast.Program) string {
	t.Helper()
	src, err := Generate(program)
	if err != nil {
		t.Fatalf("generate %s: %v", program.Name, err)
	}
	return src
}

func expectContains(t *testing.T, src string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(src, fragment) {
			t.Fatalf("expected generated source to contain %q:\n%s", fragment, src)
		}
	}
}

func TestGenerateFactorial(t *testing.T) {
	want := `// Program: factorial
// C translation generated by simplec

#include <stdio.h>

typedef char boolean;
typedef double real;
typedef long long integer;

#define true 1
#define false 0

integer teste;

integer fn_factorial(integer n);

integer fn_factorial(integer n) {
	integer v;
	if (n < 1) {
		v = 1;
	} else {
		v = n * fn_factorial(n - 1);
	}
	return v;
}

int main(void) {
	scanf("%lld", &teste);
	teste = fn_factorial(teste);
	printf("%lld", teste);
	printf("\n");
	return 0;
}
`
	if got := mustGenerate(t, examples.Factorial()); got != want {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	for _, ex := range examples.All() {
		first := mustGenerate(t, ex.Program)
		second := mustGenerate(t, ex.Program)
		if first != second {
			t.Fatalf("%s: generated output differs between runs", ex.Name)
		}
	}
}

func TestGenerateOperators(t *testing.T) {
	program := ast.Prog("ops",
		ast.Decls(ast.Var("a", ast.TypeInteger), ast.Var("b", ast.TypeBoolean)),
		ast.Assign("a", ast.Mul(ast.ID("a"),
			ast.MulOp(ast.OpDiv, ast.Int(2)),
			ast.MulOp(ast.OpMod, ast.Int(3)),
			ast.MulOp(ast.OpAnd, ast.Int(1)),
			ast.MulOp(ast.OpDivide, ast.Int(4)),
		)),
		ast.Assign("a", ast.Add(ast.ID("a"), ast.AddOp(ast.OpOr, ast.Int(8)), ast.AddOp(ast.OpSubtract, ast.Neg(ast.Int(1))))),
		ast.Assign("b", ast.Rel(ast.ID("a"), ast.RelOp(ast.OpEqual, ast.Int(1)))),
		ast.Assign("b", ast.Rel(ast.ID("a"), ast.RelOp(ast.OpNotEqual, ast.Int(1)))),
		ast.Assign("b", ast.Not(ast.Paren(ast.Rel(ast.ID("a"), ast.RelOp(ast.OpGreaterEqual, ast.Int(1)))))),
		ast.Assign("b", ast.Bool(true)),
	)
	src := mustGenerate(t, program)
	expectContains(t, src,
		"a = (real)(a / 2 % 3 & 1) / 4;",
		"a = (a | 8) - -1;",
		"b = a == 1;",
		"b = a != 1;",
		"b = !(a >= 1);",
		"b = true;",
	)
}

func TestGenerateArithmeticMatchesInterpreter(t *testing.T) {
	program := ast.Prog("arith",
		ast.Decls(
			ast.Var("i", ast.TypeInteger),
			ast.Var("r", ast.TypeReal),
			ast.Var("b", ast.TypeBoolean),
			ast.Var("c", ast.TypeBoolean),
		),
		ast.Write(ast.Mul(ast.Int(7), ast.MulOp(ast.OpDivide, ast.Int(2)))),
		ast.Write(ast.Mul(ast.ID("r"), ast.MulOp(ast.OpMod, ast.Int(2)))),
		ast.Write(ast.Mul(ast.ID("r"), ast.MulOp(ast.OpDiv, ast.Real(2)))),
		ast.Write(ast.Mul(ast.ID("i"), ast.MulOp(ast.OpDiv, ast.Int(2)))),
		ast.Assign("b", ast.Add(ast.ID("b"), ast.AddOp(ast.OpOr, ast.Paren(ast.Mul(ast.ID("b"), ast.MulOp(ast.OpAnd, ast.ID("c"))))))),
		ast.Assign("b", ast.Rel(ast.Add(ast.ID("i"), ast.AddOp(ast.OpOr, ast.Int(1))), ast.RelOp(ast.OpEqual, ast.Int(1)))),
		ast.Assign("i", ast.Add(ast.ID("i"), ast.AddOp(ast.OpAdd, ast.Mul(ast.ID("i"), ast.MulOp(ast.OpAnd, ast.Int(1)))))),
	)
	src := mustGenerate(t, program)
	expectContains(t, src,
		"#include <math.h>\n#include <stdio.h>",
		`printf("%g", (real)((real)7 / 2));`,
		`printf("%g", (real)(fmod(r, 2)));`,
		`printf("%g", (real)(trunc(r / 2.0)));`,
		`printf("%lld", (integer)(i / 2));`,
		"b = b | (b & c);",
		"b = (i | 1) == 1;",
		"i = i + (i & 1);",
	)
	if strings.Contains(mustGenerate(t, examples.Factorial()), "math.h") {
		t.Fatalf("math.h included without a real div or mod")
	}
}

func TestGenerateProcedureWithoutResultIsVoid(t *testing.T) {
	program := ast.Prog("voidret",
		ast.Decls(
			ast.Proc("f", nil, ast.Returns(ast.TypeInteger), nil, "", ast.Write(ast.Int(1))),
		),
		ast.CallStmt("f"),
	)
	src := mustGenerate(t, program)
	expectContains(t, src,
		"void fn_f(void);",
		"void fn_f(void) {",
		"\tfn_f();\n",
	)
}

func TestGenerateShadowingKeepsSameName(t *testing.T) {
	program := ast.Prog("shadow",
		ast.Decls(
			ast.Var("a-b", ast.TypeInteger),
			ast.Var("fn_x", ast.TypeInteger),
			ast.Proc("f", ast.Params(ast.Val("a-b", ast.TypeInteger)), nil, nil, "", ast.Write(ast.ID("a-b"))),
		),
		ast.Assign("fn_x", ast.Int(2)),
		ast.CallStmt("f", ast.ID("fn_x")),
	)
	src := mustGenerate(t, program)
	expectContains(t, src,
		"integer a_b;",
		"integer _fn_x;",
		"void fn_f(integer a_b) {",
		"_fn_x = 2;",
		"fn_f(_fn_x);",
	)
}

func TestGenerateControlFlow(t *testing.T) {
	src := mustGenerate(t, examples.HelloWorld10())
	expectContains(t, src,
		"\ti = 10;\n\tdo {\n",
		"\t\tprintf(\"%c\", 'h');\n",
		"\t\tprintf(\"%lld\", i);\n\t\tprintf(\"\\n\");\n",
		"\t\ti = i - 1;\n\t} while (!(i > 0));\n",
	)
	if strings.Contains(src, "scan_boolean") {
		t.Fatalf("scan_boolean helper emitted without a boolean read")
	}
}

func TestGenerateWriteForms(t *testing.T) {
	program := ast.Prog("writes",
		ast.Decls(
			ast.Var("i", ast.TypeInteger),
			ast.Var("r", ast.TypeReal),
			ast.Var("b", ast.TypeBoolean),
			ast.Var("c", ast.TypeChar),
		),
		ast.Write(ast.Int(5), ast.Real(2.5), ast.Chr("'"), ast.Chr("hi \"x\""), ast.Bool(false)),
		ast.Write(ast.ID("i"), ast.ID("r"), ast.ID("b"), ast.ID("c")),
		ast.Write(ast.Plus(ast.ID("i"), ast.Int(1))),
	)
	src := mustGenerate(t, program)
	expectContains(t, src,
		`printf("%lld", (integer)5);`,
		`printf("%g", 2.5);`,
		`printf("%c", '\'');`,
		`printf("%s", "hi \"x\"");`,
		`printf("false");`,
		`printf("%lld", i);`,
		`printf("%g", r);`,
		`printf("%s", b ? "true" : "false");`,
		`printf("%c", c);`,
		`printf("%lld", (integer)(i + 1));`,
	)
}

func TestGenerateReadForms(t *testing.T) {
	program := ast.Prog("reads",
		ast.Decls(
			ast.Var("i", ast.TypeInteger),
			ast.Var("r", ast.TypeReal),
			ast.Var("b", ast.TypeBoolean),
			ast.Var("c", ast.TypeChar),
		),
		ast.Read("i", "r", "b", "c"),
	)
	src := mustGenerate(t, program)
	expectContains(t, src,
		"#include <string.h>",
		"static void scan_boolean(boolean *target) {",
		`scanf("%lld", &i);`,
		`scanf("%lf", &r);`,
		`scan_boolean(&b);`,
		`scanf(" %c", &c);`,
	)
}

func TestGenerateReferenceParameters(t *testing.T) {
	program := ast.Prog("refs",
		ast.Decls(
			ast.Var("a", ast.TypeInteger),
			ast.Proc("set", ast.Params(ast.Ref("x", ast.TypeInteger)), nil, nil, "",
				ast.Read("x"),
				ast.Assign("x", ast.Plus(ast.ID("x"), ast.Int(1))),
				ast.Write(ast.ID("x")),
			),
			ast.Proc("outer", ast.Params(ast.Ref("y", ast.TypeInteger)), nil, nil, "",
				ast.CallStmt("set", ast.ID("y")),
			),
		),
		ast.CallStmt("outer", ast.ID("a")),
	)
	src := mustGenerate(t, program)
	expectContains(t, src,
		"void fn_set(integer *x) {",
		`scanf("%lld", x);`,
		"(*x) = (*x) + 1;",
		`printf("%lld", (*x));`,
		"fn_set(y);",
		"fn_outer(&a);",
		"void fn_outer(integer *y);",
	)
}

func TestGenerateNestedProcedureAndSanitizedNames(t *testing.T) {
	program := ast.Prog("nested",
		ast.Decls(
			ast.Var("int", ast.TypeInteger),
			ast.Proc("outer", nil, ast.Returns(ast.TypeInteger),
				ast.Decls(
					ast.Var("v", ast.TypeInteger),
					ast.Proc("inner", nil, nil, nil, "", ast.Assign("v", ast.Int(2))),
				), "v",
				ast.Bare("inner"),
			),
		),
		ast.Assign("int", ast.Call("outer")),
	)
	src := mustGenerate(t, program)
	expectContains(t, src,
		"integer _int;",
		"\tauto void fn_inner(void);\n\tvoid fn_inner(void) {\n\t\tv = 2;\n",
		"\tfn_inner();\n\treturn v;\n",
		"_int = fn_outer();",
	)
}

func TestGenerateErrors(t *testing.T) {
	cases := []struct {
		name    string
		program *ast.Program
		kind    runtime.ErrorKind
	}{
		{
			name:    "undeclared variable",
			program: ast.Prog("p", nil, ast.Assign("x", ast.Int(1))),
			kind:    runtime.UndeclaredNameError,
		},
		{
			name:    "undeclared procedure",
			program: ast.Prog("p", nil, ast.CallStmt("missing")),
			kind:    runtime.UndeclaredNameError,
		},
		{
			name:    "undeclared read target",
			program: ast.Prog("p", nil, ast.Read("x")),
			kind:    runtime.UndeclaredNameError,
		},
		{
			name:    "redeclared variable",
			program: ast.Prog("p", ast.Decls(ast.Var("x", ast.TypeInteger), ast.Var("x", ast.TypeInteger))),
			kind:    runtime.RedeclarationError,
		},
		{
			name: "redeclared parameter",
			program: ast.Prog("p", ast.Decls(
				ast.Proc("f", ast.Params(ast.Val("a", ast.TypeInteger)), nil, ast.Decls(ast.Var("a", ast.TypeInteger)), ""),
			)),
			kind: runtime.RedeclarationError,
		},
		{
			name: "call without result used as value",
			program: ast.Prog("p", ast.Decls(
				ast.Var("x", ast.TypeInteger),
				ast.Proc("f", nil, ast.Returns(ast.TypeInteger), nil, ""),
			), ast.Assign("x", ast.Call("f"))),
			kind: runtime.TypeMismatchError,
		},
		{
			name: "sanitized globals collide",
			program: ast.Prog("p", ast.Decls(
				ast.Var("a-b", ast.TypeInteger),
				ast.Var("a_b", ast.TypeInteger),
			)),
			kind: runtime.RedeclarationError,
		},
		{
			name: "local collides with sanitized global",
			program: ast.Prog("p", ast.Decls(
				ast.Var("a-b", ast.TypeInteger),
				ast.Proc("f", ast.Params(ast.Val("a_b", ast.TypeInteger)), nil, nil, ""),
			)),
			kind: runtime.RedeclarationError,
		},
		{
			name: "result not local",
			program: ast.Prog("p", ast.Decls(
				ast.Var("g", ast.TypeInteger),
				ast.Proc("f", nil, ast.Returns(ast.TypeInteger), nil, "g"),
			)),
			kind: runtime.UndeclaredNameError,
		},
		{
			name: "reference argument not a variable",
			program: ast.Prog("p", ast.Decls(
				ast.Proc("f", ast.Params(ast.Ref("a", ast.TypeInteger)), nil, nil, ""),
			), ast.CallStmt("f", ast.Int(1))),
			kind: runtime.TypeMismatchError,
		},
		{
			name: "arity",
			program: ast.Prog("p", ast.Decls(
				ast.Proc("f", ast.Params(ast.Val("a", ast.TypeInteger)), nil, nil, ""),
			), ast.CallStmt("f")),
			kind: runtime.TypeMismatchError,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := Generate(tc.program)
			if got := runtime.KindOf(err); got != tc.kind {
				t.Fatalf("expected %s, got %v", tc.kind, err)
			}
		})
	}
}

func TestGenerateResolvesLaterGlobals(t *testing.T) {
	program := ast.Prog("order",
		ast.Decls(
			ast.Proc("show", nil, nil, nil, "", ast.Write(ast.ID("late"))),
			ast.Var("late", ast.TypeInteger),
		),
		ast.Assign("late", ast.Int(3)),
		ast.CallStmt("show"),
	)
	src := mustGenerate(t, program)
	if strings.Index(src, "integer late;") > strings.Index(src, "void fn_show(void) {") {
		t.Fatalf("globals must precede functions:\n%s", src)
	}
}

func TestResultWrite(t *testing.T) {
	res, err := New(Options{FileName: "fact.c"}).Compile(examples.Factorial())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "out")
	if err := res.Write(dir); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "fact.c"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != res.Source() {
		t.Fatalf("written file differs from result source")
	}
	if err := (&Result{}).Write(""); err == nil {
		t.Fatalf("expected empty output dir to fail")
	}
}

func TestSanitizeIdent(t *testing.T) {
	cases := map[string]string{
		"value":  "value",
		"while":  "_while",
		"main":   "_main",
		"real":   "_real",
		"9lives": "_9lives",
		"a-b":    "a_b",
		"fn_x":   "_fn_x",
		"":       "_",
	}
	for in, want := range cases {
		if got := sanitizeIdent(in); got != want {
			t.Fatalf("sanitizeIdent(%q): expected %q, got %q", in, want, got)
		}
	}
}
