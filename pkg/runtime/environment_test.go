package runtime

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
)

func TestEnvironmentDeclareAndLookup(t *testing.T) {
	env := NewEnvironment()
	root := env.Root()
	if err := env.DeclareVariable(root, NewVariable("x", ast.TypeInteger)); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if err := env.DeclareVariable(root, NewVariable("x", ast.TypeReal)); !errors.Is(err, ErrRedeclaration) {
		t.Fatalf("expected redeclaration, got %v", err)
	}
	if _, err := env.LookupVariable(root, "y"); !errors.Is(err, ErrUndeclaredName) {
		t.Fatalf("expected undeclared, got %v", err)
	}
	if _, err := env.Value(root, "x"); KindOf(err) != UndeclaredNameError {
		t.Fatalf("expected unassigned x to fail, got %v", err)
	}
	if err := env.SetValue(root, "x", IntegerValue{Val: 3}); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, err := env.Value(root, "x")
	if err != nil || val != (IntegerValue{Val: 3}) {
		t.Fatalf("unexpected value %v, %v", val, err)
	}
	if err := env.SetValue(root, "missing", IntegerValue{Val: 1}); KindOf(err) != UndeclaredNameError {
		t.Fatalf("expected undeclared on set, got %v", err)
	}
}

func TestEnvironmentNamespacesAreSeparate(t *testing.T) {
	env := NewEnvironment()
	root := env.Root()
	if err := env.Declare(root, ast.Var("p", ast.TypeInteger)); err != nil {
		t.Fatalf("declare variable: %v", err)
	}
	if err := env.Declare(root, ast.Proc("p", nil, nil, nil, "")); err != nil {
		t.Fatalf("declare procedure with the same name: %v", err)
	}
	if err := env.Declare(root, ast.Proc("p", nil, nil, nil, "")); !errors.Is(err, ErrRedeclaration) {
		t.Fatalf("expected procedure redeclaration, got %v", err)
	}
	if _, err := env.LookupProcedure(root, "q"); !errors.Is(err, ErrUndeclaredName) {
		t.Fatalf("expected undeclared procedure, got %v", err)
	}
}

func TestEnvironmentShadowingAndFrames(t *testing.T) {
	env := NewEnvironment()
	root := env.Root()
	_ = env.DeclareVariable(root, NewVariable("x", ast.TypeInteger))
	_ = env.SetValue(root, "x", IntegerValue{Val: 1})

	child := env.Push(root)
	if env.Parent(child) != root || env.Parent(root) != NoFrame {
		t.Fatalf("unexpected parents")
	}
	if err := env.DeclareVariable(child, NewVariable("x", ast.TypeInteger)); err != nil {
		t.Fatalf("shadowing should succeed: %v", err)
	}
	_ = env.SetValue(child, "x", IntegerValue{Val: 2})
	if v, _ := env.Value(child, "x"); v != (IntegerValue{Val: 2}) {
		t.Fatalf("child sees %v", v)
	}
	if _, err := env.LookupLocal(child, "y"); err == nil {
		t.Fatalf("expected local lookup to miss")
	}
	if env.Depth() != 2 {
		t.Fatalf("expected 2 frames, got %d", env.Depth())
	}
	env.Pop(child)
	if v, _ := env.Value(root, "x"); v != (IntegerValue{Val: 1}) {
		t.Fatalf("root sees %v", v)
	}
	if env.Depth() != 1 {
		t.Fatalf("expected 1 frame, got %d", env.Depth())
	}
}

func TestEnvironmentPopOutOfOrderPanics(t *testing.T) {
	env := NewEnvironment()
	first := env.Push(env.Root())
	env.Push(first)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	env.Pop(first)
}

func TestEnvironmentBindAliases(t *testing.T) {
	env := NewEnvironment()
	root := env.Root()
	x := NewVariable("x", ast.TypeInteger)
	_ = env.DeclareVariable(root, x)
	child := env.Push(root)
	if err := env.Bind(child, "alias", x); err != nil {
		t.Fatalf("bind: %v", err)
	}
	_ = env.SetValue(child, "alias", IntegerValue{Val: 9})
	if v, _ := env.Value(root, "x"); v != (IntegerValue{Val: 9}) {
		t.Fatalf("alias did not write through, got %v", v)
	}
}

func TestEnvironmentKeysSorted(t *testing.T) {
	env := NewEnvironment()
	for _, name := range []string{"c", "a", "b"} {
		_ = env.DeclareVariable(env.Root(), NewVariable(name, ast.TypeChar))
	}
	if got := env.Keys(env.Root()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected keys %v", got)
	}
}

func TestVariableCoercesIntegerToReal(t *testing.T) {
	v := NewVariable("r", ast.TypeReal)
	v.Set(IntegerValue{Val: 2})
	got, ok := v.Get()
	if !ok || got != (RealValue{Val: 2}) {
		t.Fatalf("unexpected %v", got)
	}
	p := NewParameter(ast.Ref("p", ast.TypeInteger))
	if !p.IsReference() || NewVariable("q", ast.TypeInteger).IsReference() {
		t.Fatalf("unexpected reference flags")
	}
}
