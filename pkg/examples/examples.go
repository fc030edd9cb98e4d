// Package examples holds the built-in sample programs, built directly as ASTs.
package examples

import (
	"sort"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
)

// Example is a named sample program together with an input it is usually run
// with and the output that input produces.
type Example struct {
	Name        string
	Description string
	Input       string
	Output      string
	Program     *ast.Program
}

func HelloWorld() *ast.Program {
	return ast.Prog("helloWorld", nil,
		ast.Write(ast.Chars("helo world")...),
	)
}

func Factorial() *ast.Program {
	return ast.Prog("factorial",
		ast.Decls(
			ast.Var("teste", ast.TypeInteger),
			ast.Proc("factorial", ast.Params(ast.Val("n", ast.TypeInteger)), ast.Returns(ast.TypeInteger),
				ast.Decls(ast.Var("v", ast.TypeInteger)), "v",
				ast.IfElse(ast.Less(ast.ID("n"), ast.Int(1)),
					ast.Block(ast.Assign("v", ast.Int(1))),
					ast.Block(ast.Assign("v", ast.Times(ast.ID("n"), ast.Call("factorial", ast.Minus(ast.ID("n"), ast.Int(1)))))),
				),
			),
		),
		ast.Read("teste"),
		ast.Assign("teste", ast.Call("factorial", ast.ID("teste"))),
		ast.Write(ast.ID("teste")),
	)
}

func HelloWorld10() *ast.Program {
	return ast.Prog("helloWorld10",
		ast.Decls(ast.Var("i", ast.TypeInteger)),
		ast.Assign("i", ast.Int(10)),
		ast.Repeat(ast.Greater(ast.ID("i"), ast.Int(0)),
			ast.Block(
				ast.Write(append(ast.Chars("helo world "), ast.ID("i"))...),
				ast.Assign("i", ast.Minus(ast.ID("i"), ast.Int(1))),
			),
		),
	)
}

func Fibonacci() *ast.Program {
	return ast.Prog("fibonacci",
		ast.Decls(
			ast.Var("teste", ast.TypeInteger),
			ast.Proc("fib", ast.Params(ast.Val("n", ast.TypeInteger)), ast.Returns(ast.TypeInteger),
				ast.Decls(ast.Var("v", ast.TypeInteger)), "v",
				ast.IfElse(ast.Less(ast.ID("n"), ast.Int(3)),
					ast.Block(ast.Assign("v", ast.Int(1))),
					ast.Block(ast.Assign("v", ast.Plus(
						ast.Call("fib", ast.Minus(ast.ID("n"), ast.Int(1))),
						ast.Call("fib", ast.Minus(ast.ID("n"), ast.Int(2))),
					))),
				),
			),
		),
		ast.Read("teste"),
		ast.Assign("teste", ast.Call("fib", ast.ID("teste"))),
		ast.Write(ast.ID("teste")),
	)
}

// Swap exercises by-reference parameters: the procedure exchanges the
// caller's variables through aliases.
func Swap() *ast.Program {
	return ast.Prog("swap",
		ast.Decls(
			ast.Var("a", ast.TypeInteger),
			ast.Var("b", ast.TypeInteger),
			ast.Proc("swap", ast.Params(ast.Ref("x", ast.TypeInteger), ast.Ref("y", ast.TypeInteger)), nil,
				ast.Decls(ast.Var("t", ast.TypeInteger)), "",
				ast.Assign("t", ast.ID("x")),
				ast.Assign("x", ast.ID("y")),
				ast.Assign("y", ast.ID("t")),
			),
		),
		ast.Read("a", "b"),
		ast.CallStmt("swap", ast.ID("a"), ast.ID("b")),
		ast.Write(ast.ID("a"), ast.Chr(" "), ast.ID("b")),
	)
}

var all = map[string]Example{
	"helloWorld": {
		Name:        "helloWorld",
		Description: "writes a greeting one character at a time",
		Output:      "helo world\n",
		Program:     HelloWorld(),
	},
	"factorial": {
		Name:        "factorial",
		Description: "recursive factorial of the number read",
		Input:       "5",
		Output:      "120\n",
		Program:     Factorial(),
	},
	"helloWorld10": {
		Name:        "helloWorld10",
		Description: "repeat body runs once because the until condition already holds",
		Output:      "helo world 10\n",
		Program:     HelloWorld10(),
	},
	"fibonacci": {
		Name:        "fibonacci",
		Description: "recursive 1-indexed fibonacci of the number read",
		Input:       "6",
		Output:      "8\n",
		Program:     Fibonacci(),
	},
	"swap": {
		Name:        "swap",
		Description: "exchanges two variables through reference parameters",
		Input:       "1 2",
		Output:      "2 1\n",
		Program:     Swap(),
	},
}

// Lookup returns the named example.
func Lookup(name string) (Example, bool) {
	ex, ok := all[name]
	return ex, ok
}

// Names lists the example names in sorted order.
func Names() []string {
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every example, ordered by name.
func All() []Example {
	out := make([]Example, 0, len(all))
	for _, name := range Names() {
		out = append(out, all[name])
	}
	return out
}
