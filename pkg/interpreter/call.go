package interpreter

import (
	"github.com/jeronimonunes/simple-compiler/pkg/ast"
	"github.com/jeronimonunes/simple-compiler/pkg/runtime"
)

var _ ast.StatementVisitor = (*execution)(nil)

// argument is an evaluated call argument: a value for by-value parameters or
// the caller's slot for by-reference ones.
type argument struct {
	value  runtime.Value
	target *runtime.Variable
}

// call activates the named procedure. Arguments are evaluated in the caller's
// frame first; the activation frame's parent is the caller's active frame. The
// returned value is nil for procedures without a result identifier.
func (e *execution) call(name string, args []ast.Expression) (runtime.Value, error) {
	proc, err := e.env.LookupProcedure(e.frame, name)
	if err != nil {
		return nil, err
	}
	if len(args) != len(proc.Params) {
		return nil, runtime.NewTypeMismatch("procedure %s expects %d arguments, got %d", name, len(proc.Params), len(args))
	}
	if e.depth >= e.opts.MaxCallDepth {
		return nil, runtime.NewRecursionLimit(name, e.opts.MaxCallDepth)
	}

	bound := make([]argument, len(args))
	for i, param := range proc.Params {
		if param.Mode == ast.ByReference {
			target, err := e.referenceArgument(name, param, args[i])
			if err != nil {
				return nil, err
			}
			bound[i] = argument{target: target}
			continue
		}
		val, err := e.operand(args[i])
		if err != nil {
			return nil, err
		}
		bound[i] = argument{value: val}
	}

	child := e.env.Push(e.frame)
	caller := e.frame
	e.frame = child
	e.depth++
	defer func() {
		e.depth--
		e.frame = caller
		e.env.Pop(child)
	}()

	for i, param := range proc.Params {
		if bound[i].target != nil {
			if err := e.env.Bind(child, param.Name, bound[i].target); err != nil {
				return nil, err
			}
			continue
		}
		slot := runtime.NewParameter(param)
		if err := e.env.DeclareVariable(child, slot); err != nil {
			return nil, err
		}
		slot.Set(bound[i].value)
	}

	body := proc.Body
	if body == nil {
		return nil, nil
	}
	for _, decl := range body.Declarations {
		if err := e.env.Declare(child, decl); err != nil {
			return nil, runtime.WithSpan(err, decl)
		}
	}
	if err := e.execCompound(body.Statement); err != nil {
		return nil, err
	}
	if body.Result == "" {
		return nil, nil
	}
	result, err := e.env.LookupLocal(child, body.Result)
	if err != nil {
		return nil, err
	}
	val, ok := result.Get()
	if !ok {
		return nil, runtime.NewUnassigned(body.Result)
	}
	return val, nil
}

// referenceArgument resolves the caller's variable that a by-reference
// parameter aliases.
func (e *execution) referenceArgument(proc string, param *ast.Parameter, arg ast.Expression) (*runtime.Variable, error) {
	id, ok := ast.BareIdentifier(arg)
	if !ok {
		return nil, runtime.NewTypeMismatch("argument for reference parameter %s of %s must be a variable", param.Name, proc)
	}
	target, err := e.env.LookupVariable(e.frame, id.Name)
	if err != nil {
		return nil, err
	}
	if target.Type != param.Type {
		return nil, runtime.NewTypeMismatch("reference parameter %s of %s is %s but %s is %s", param.Name, proc, param.Type, id.Name, target.Type)
	}
	return target, nil
}
