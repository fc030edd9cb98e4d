package compiler

import (
	"fmt"
	"strings"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
	"github.com/jeronimonunes/simple-compiler/pkg/runtime"
)

// generator carries the declaration-only environment used to resolve names
// while the program is translated, plus the rendered sections of the file.
type generator struct {
	opts  Options
	env   *runtime.Environment
	frame runtime.FrameID
	// cnames maps each live frame's C identifiers back to source names.
	cnames map[runtime.FrameID]map[string]string

	globals          []string
	prototypes       []string
	functions        []string
	main             []string
	needsScanBoolean bool
	needsMath        bool
}

func newGenerator(opts Options) *generator {
	env := runtime.NewEnvironment()
	return &generator{
		opts:   opts,
		env:    env,
		frame:  env.Root(),
		cnames: make(map[runtime.FrameID]map[string]string),
	}
}

// collect declares every top-level name first so procedures may refer to
// each other and to every global, then translates declarations in order and
// finally the main body.
func (g *generator) collect(program *ast.Program) error {
	for _, decl := range program.Declarations {
		if err := g.env.Declare(g.frame, decl); err != nil {
			return runtime.WithSpan(err, decl)
		}
		if err := g.claimDeclaration(g.frame, decl); err != nil {
			return runtime.WithSpan(err, decl)
		}
	}
	for _, decl := range program.Declarations {
		switch d := decl.(type) {
		case *ast.VariableDeclaration:
			g.globals = append(g.globals, variableLine(d))
		case *ast.ProcedureDeclaration:
			signature, err := g.signature(d)
			if err != nil {
				return runtime.WithSpan(err, d)
			}
			lines, err := g.procedure(d, signature)
			if err != nil {
				return err
			}
			g.prototypes = append(g.prototypes, signature+";")
			g.functions = append(g.functions, lines...)
			g.functions = append(g.functions, "")
		default:
			return fmt.Errorf("compiler: unsupported declaration %T", decl)
		}
	}
	body, err := g.blockLines(program.Body)
	if err != nil {
		return err
	}
	g.main = body
	return nil
}

func (g *generator) claimDeclaration(frame runtime.FrameID, decl ast.Declaration) error {
	switch d := decl.(type) {
	case *ast.VariableDeclaration:
		return g.claim(frame, sanitizeIdent(d.Name), d.Name)
	case *ast.ProcedureDeclaration:
		return g.claim(frame, functionName(d.Name), d.Name)
	default:
		return nil
	}
}

// claim records that source name is emitted as cName in frame. Distinct
// source names sharing a C identifier in the same frame or an enclosing one
// would make C resolve one to the other, so that is a redeclaration.
func (g *generator) claim(frame runtime.FrameID, cName, name string) error {
	for id := frame; id != runtime.NoFrame; id = g.env.Parent(id) {
		if other, ok := g.cnames[id][cName]; ok && other != name {
			return runtime.NewNameCollision(name, other, cName)
		}
	}
	names := g.cnames[frame]
	if names == nil {
		names = make(map[string]string)
		g.cnames[frame] = names
	}
	names[cName] = name
	return nil
}

func cType(t ast.PrimitiveType) string {
	switch t {
	case ast.TypeInteger, ast.TypeReal, ast.TypeBoolean, ast.TypeChar:
		return string(t)
	default:
		return "integer"
	}
}

func variableLine(d *ast.VariableDeclaration) string {
	return fmt.Sprintf("%s %s;", cType(d.Type), sanitizeIdent(d.Name))
}

// procedureType is the type of the value a procedure yields, or "" when it
// has no result identifier. A declared return type wins; otherwise the result
// identifier's declared type is used.
func procedureType(d *ast.ProcedureDeclaration) (ast.PrimitiveType, error) {
	if d.Body == nil || d.Body.Result == "" {
		return "", nil
	}
	if d.ReturnType != nil {
		return *d.ReturnType, nil
	}
	result := d.Body.Result
	for _, p := range d.Params {
		if p.Name == result {
			return p.Type, nil
		}
	}
	for _, decl := range d.Body.Declarations {
		if v, ok := decl.(*ast.VariableDeclaration); ok && v.Name == result {
			return v.Type, nil
		}
	}
	return "", runtime.NewUndeclared("variable", result)
}

// resultType is the C return type of a procedure. Procedures without a
// result identifier return void even when a return type is declared.
func resultType(d *ast.ProcedureDeclaration) (string, error) {
	typ, err := procedureType(d)
	if err != nil {
		return "", err
	}
	if typ == "" {
		return "void", nil
	}
	return cType(typ), nil
}

func (g *generator) signature(d *ast.ProcedureDeclaration) (string, error) {
	ret, err := resultType(d)
	if err != nil {
		return "", err
	}
	params := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		if p.Mode == ast.ByReference {
			params = append(params, fmt.Sprintf("%s *%s", cType(p.Type), sanitizeIdent(p.Name)))
			continue
		}
		params = append(params, fmt.Sprintf("%s %s", cType(p.Type), sanitizeIdent(p.Name)))
	}
	list := "void"
	if len(params) > 0 {
		list = strings.Join(params, ", ")
	}
	return fmt.Sprintf("%s %s(%s)", ret, functionName(d.Name), list), nil
}

// procedure translates one procedure into a C function. The procedure's frame
// is a child of the frame it is declared in; parameters come first, then
// locals, and nested procedures become nested functions.
func (g *generator) procedure(d *ast.ProcedureDeclaration, signature string) ([]string, error) {
	child := g.env.Push(g.frame)
	outer := g.frame
	g.frame = child
	defer func() {
		g.frame = outer
		delete(g.cnames, child)
		g.env.Pop(child)
	}()

	for _, p := range d.Params {
		if err := g.env.DeclareVariable(child, runtime.NewParameter(p)); err != nil {
			return nil, runtime.WithSpan(err, p)
		}
		if err := g.claim(child, sanitizeIdent(p.Name), p.Name); err != nil {
			return nil, runtime.WithSpan(err, p)
		}
	}
	body := d.Body
	if body == nil {
		body = ast.NewProcedureBody(nil, ast.Block(), "")
	}
	for _, decl := range body.Declarations {
		if err := g.env.Declare(child, decl); err != nil {
			return nil, runtime.WithSpan(err, decl)
		}
		if err := g.claimDeclaration(child, decl); err != nil {
			return nil, runtime.WithSpan(err, decl)
		}
	}

	var inner []string
	var nested []string
	for _, decl := range body.Declarations {
		switch n := decl.(type) {
		case *ast.VariableDeclaration:
			inner = append(inner, variableLine(n))
		case *ast.ProcedureDeclaration:
			sig, err := g.signature(n)
			if err != nil {
				return nil, runtime.WithSpan(err, n)
			}
			lines, err := g.procedure(n, sig)
			if err != nil {
				return nil, err
			}
			inner = append(inner, "auto "+sig+";")
			nested = append(nested, lines...)
		default:
			return nil, fmt.Errorf("compiler: unsupported declaration %T", decl)
		}
	}
	inner = append(inner, nested...)

	stmts, err := g.blockLines(body.Statement)
	if err != nil {
		return nil, err
	}
	inner = append(inner, stmts...)

	if body.Result != "" {
		if _, err := g.env.LookupLocal(child, body.Result); err != nil {
			return nil, runtime.WithSpan(err, d)
		}
		ref, err := g.identifier(body.Result)
		if err != nil {
			return nil, err
		}
		inner = append(inner, fmt.Sprintf("return %s;", ref))
	} else {
		inner = append(inner, "return;")
	}

	lines := []string{signature + " {"}
	lines = append(lines, indentLines(inner, 1)...)
	lines = append(lines, "}")
	return lines, nil
}

func indentLines(lines []string, tabs int) []string {
	if len(lines) == 0 || tabs <= 0 {
		return lines
	}
	prefix := strings.Repeat("\t", tabs)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			out = append(out, line)
			continue
		}
		out = append(out, prefix+line)
	}
	return out
}
