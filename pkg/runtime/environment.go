package runtime

import (
	"fmt"
	"sort"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
)

// FrameID addresses a frame inside an Environment.
type FrameID int

// NoFrame is the parent of the root frame.
const NoFrame FrameID = -1

// Variable is a declared variable or parameter slot. The emitter only uses the
// declaration half; the interpreter also stores the current value.
type Variable struct {
	Name  string
	Type  ast.PrimitiveType
	Mode  ast.PassingMode
	Param bool

	value    Value
	assigned bool
}

// NewVariable declares a plain local or global variable.
func NewVariable(name string, t ast.PrimitiveType) *Variable {
	return &Variable{Name: name, Type: t, Mode: ast.ByValue}
}

// NewParameter declares a procedure parameter slot.
func NewParameter(p *ast.Parameter) *Variable {
	return &Variable{Name: p.Name, Type: p.Type, Mode: p.Mode, Param: true}
}

// IsReference reports whether the slot is a by-reference parameter.
func (v *Variable) IsReference() bool {
	return v != nil && v.Param && v.Mode == ast.ByReference
}

// Get returns the current value; ok is false until the variable is assigned.
func (v *Variable) Get() (Value, bool) {
	return v.value, v.assigned
}

// Set stores a value, promoting integers assigned to real variables.
func (v *Variable) Set(val Value) {
	v.value = Coerce(v.Type, val)
	v.assigned = true
}

type frame struct {
	parent     FrameID
	variables  map[string]*Variable
	procedures map[string]*ast.ProcedureDeclaration
}

// Environment is an arena of scope frames. Frames refer to their parent by
// FrameID, never by pointer, and are created and discarded in stack order:
// a procedure activation pushes a frame whose parent is the caller's active
// frame and pops it on return.
type Environment struct {
	frames []frame
}

// NewEnvironment creates an environment holding only the root frame.
func NewEnvironment() *Environment {
	env := &Environment{}
	env.Push(NoFrame)
	return env
}

// Root returns the global frame.
func (e *Environment) Root() FrameID {
	return 0
}

// Depth reports the number of live frames.
func (e *Environment) Depth() int {
	return len(e.frames)
}

// Push creates a child frame of parent and returns its handle.
func (e *Environment) Push(parent FrameID) FrameID {
	e.frames = append(e.frames, frame{
		parent:     parent,
		variables:  make(map[string]*Variable),
		procedures: make(map[string]*ast.ProcedureDeclaration),
	})
	return FrameID(len(e.frames) - 1)
}

// Pop discards the most recently pushed frame, which must be id.
func (e *Environment) Pop(id FrameID) {
	if int(id) != len(e.frames)-1 || id <= e.Root() {
		panic(fmt.Sprintf("runtime: pop of frame %d with %d live frames", id, len(e.frames)))
	}
	e.frames = e.frames[:id]
}

// Parent returns the parent handle of id (NoFrame for the root).
func (e *Environment) Parent(id FrameID) FrameID {
	return e.frames[id].parent
}

// DeclareVariable adds v to frame id under its own name.
func (e *Environment) DeclareVariable(id FrameID, v *Variable) error {
	return e.Bind(id, v.Name, v)
}

// Bind adds v to frame id under name. Binding an existing slot under a second
// name makes the two names aliases of the same storage.
func (e *Environment) Bind(id FrameID, name string, v *Variable) error {
	f := &e.frames[id]
	if _, exists := f.variables[name]; exists {
		return NewRedeclaration("variable", name)
	}
	f.variables[name] = v
	return nil
}

// DeclareProcedure adds a procedure declaration to frame id.
func (e *Environment) DeclareProcedure(id FrameID, decl *ast.ProcedureDeclaration) error {
	f := &e.frames[id]
	if _, exists := f.procedures[decl.Name]; exists {
		return NewRedeclaration("procedure", decl.Name)
	}
	f.procedures[decl.Name] = decl
	return nil
}

// LookupVariable searches id and then its ancestors for name.
func (e *Environment) LookupVariable(id FrameID, name string) (*Variable, error) {
	for cur := id; cur != NoFrame; cur = e.frames[cur].parent {
		if v, ok := e.frames[cur].variables[name]; ok {
			return v, nil
		}
	}
	return nil, NewUndeclared("variable", name)
}

// LookupLocal searches only frame id.
func (e *Environment) LookupLocal(id FrameID, name string) (*Variable, error) {
	if v, ok := e.frames[id].variables[name]; ok {
		return v, nil
	}
	return nil, NewUndeclared("variable", name)
}

// LookupProcedure searches id and then its ancestors for a procedure.
func (e *Environment) LookupProcedure(id FrameID, name string) (*ast.ProcedureDeclaration, error) {
	for cur := id; cur != NoFrame; cur = e.frames[cur].parent {
		if p, ok := e.frames[cur].procedures[name]; ok {
			return p, nil
		}
	}
	return nil, NewUndeclared("procedure", name)
}

// SetValue assigns name at the frame that owns its declaration.
func (e *Environment) SetValue(id FrameID, name string, val Value) error {
	v, err := e.LookupVariable(id, name)
	if err != nil {
		return err
	}
	v.Set(val)
	return nil
}

// Value reads the current value of name. Declared but unassigned variables
// fail with UndeclaredNameError.
func (e *Environment) Value(id FrameID, name string) (Value, error) {
	v, err := e.LookupVariable(id, name)
	if err != nil {
		return nil, err
	}
	val, ok := v.Get()
	if !ok {
		return nil, NewUnassigned(name)
	}
	return val, nil
}

// Keys returns the variable names of frame id in sorted order (useful for
// determinism in tests).
func (e *Environment) Keys(id FrameID) []string {
	f := e.frames[id]
	keys := make([]string, 0, len(f.variables))
	for k := range f.variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Declare adds a variable or procedure declaration to frame id.
func (e *Environment) Declare(id FrameID, decl ast.Declaration) error {
	switch d := decl.(type) {
	case *ast.VariableDeclaration:
		return e.DeclareVariable(id, NewVariable(d.Name, d.Type))
	case *ast.ProcedureDeclaration:
		return e.DeclareProcedure(id, d)
	default:
		return fmt.Errorf("runtime: unsupported declaration %T", decl)
	}
}
