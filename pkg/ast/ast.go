package ast

type NodeType string

const (
	NodeProgram                  NodeType = "Program"
	NodeVariableDeclaration      NodeType = "VariableDeclaration"
	NodeProcedureDeclaration     NodeType = "ProcedureDeclaration"
	NodeParameter                NodeType = "Parameter"
	NodeProcedureBody            NodeType = "ProcedureBody"
	NodeAssignStatement          NodeType = "AssignStatement"
	NodeIfStatement              NodeType = "IfStatement"
	NodeRepeatStatement          NodeType = "RepeatStatement"
	NodeReadStatement            NodeType = "ReadStatement"
	NodeWriteStatement           NodeType = "WriteStatement"
	NodeCompoundStatement        NodeType = "CompoundStatement"
	NodeCallStatement            NodeType = "CallStatement"
	NodeBareReference            NodeType = "BareReference"
	NodeRelationalExpression     NodeType = "RelationalExpression"
	NodeAdditiveExpression       NodeType = "AdditiveExpression"
	NodeMultiplicativeExpression NodeType = "MultiplicativeExpression"
	NodeNegatedFactor            NodeType = "NegatedFactor"
	NodeIdentifier               NodeType = "Identifier"
	NodeConstant                 NodeType = "Constant"
	NodeParenExpression          NodeType = "ParenExpression"
	NodeCallExpression           NodeType = "CallExpression"
	NodeNotExpression            NodeType = "NotExpression"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool { return s == Span{} }

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}

//-----------------------------------------------------------------------------
// Primitive types and parameter modes
//-----------------------------------------------------------------------------

type PrimitiveType string

const (
	TypeInteger PrimitiveType = "integer"
	TypeReal    PrimitiveType = "real"
	TypeBoolean PrimitiveType = "boolean"
	TypeChar    PrimitiveType = "char"
)

// Valid reports whether t names one of the four primitive types.
func (t PrimitiveType) Valid() bool {
	switch t {
	case TypeInteger, TypeReal, TypeBoolean, TypeChar:
		return true
	default:
		return false
	}
}

type PassingMode string

const (
	ByValue     PassingMode = "value"
	ByReference PassingMode = "reference"
)

//-----------------------------------------------------------------------------
// Program and declarations
//-----------------------------------------------------------------------------

type Program struct {
	nodeImpl

	Name         string             `json:"identifier"`
	Declarations []Declaration      `json:"declarations,omitempty"`
	Body         *CompoundStatement `json:"body"`
}

func NewProgram(name string, declarations []Declaration, body *CompoundStatement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Name: name, Declarations: declarations, Body: body}
}

type Declaration interface {
	Node
	DeclaredName() string
	declarationNode()
}

type declarationMarker struct{}

func (declarationMarker) declarationNode() {}

type VariableDeclaration struct {
	nodeImpl
	declarationMarker

	Name string        `json:"name"`
	Type PrimitiveType `json:"varType"`
}

func NewVariableDeclaration(name string, typ PrimitiveType) *VariableDeclaration {
	return &VariableDeclaration{nodeImpl: newNodeImpl(NodeVariableDeclaration), Name: name, Type: typ}
}

func (d *VariableDeclaration) DeclaredName() string { return d.Name }

type Parameter struct {
	nodeImpl

	Name string        `json:"name"`
	Type PrimitiveType `json:"type"`
	Mode PassingMode   `json:"mode"`
}

func NewParameter(name string, typ PrimitiveType, mode PassingMode) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter), Name: name, Type: typ, Mode: mode}
}

// ProcedureBody holds the locals, statement and optional result identifier of
// a procedure. The procedure's return value is the final value of Result.
type ProcedureBody struct {
	nodeImpl

	Declarations []Declaration      `json:"declarations,omitempty"`
	Statement    *CompoundStatement `json:"stmt"`
	Result       string             `json:"return,omitempty"`
}

func NewProcedureBody(declarations []Declaration, stmt *CompoundStatement, result string) *ProcedureBody {
	return &ProcedureBody{nodeImpl: newNodeImpl(NodeProcedureBody), Declarations: declarations, Statement: stmt, Result: result}
}

type ProcedureDeclaration struct {
	nodeImpl
	declarationMarker

	Name       string         `json:"name"`
	Params     []*Parameter   `json:"params"`
	ReturnType *PrimitiveType `json:"returnType,omitempty"`
	Body       *ProcedureBody `json:"body"`
}

func NewProcedureDeclaration(name string, params []*Parameter, returnType *PrimitiveType, body *ProcedureBody) *ProcedureDeclaration {
	return &ProcedureDeclaration{nodeImpl: newNodeImpl(NodeProcedureDeclaration), Name: name, Params: params, ReturnType: returnType, Body: body}
}

func (d *ProcedureDeclaration) DeclaredName() string { return d.Name }

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

type Statement interface {
	Node
	Accept(v StatementVisitor) error
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// StatementVisitor has one method per statement variant. Backends implement it
// so a new variant cannot be added without every backend handling it.
type StatementVisitor interface {
	VisitAssign(*AssignStatement) error
	VisitIf(*IfStatement) error
	VisitRepeat(*RepeatStatement) error
	VisitRead(*ReadStatement) error
	VisitWrite(*WriteStatement) error
	VisitCompound(*CompoundStatement) error
	VisitCall(*CallStatement) error
	VisitBareReference(*BareReference) error
}

type AssignStatement struct {
	nodeImpl
	statementMarker

	Target string     `json:"identifier"`
	Value  Expression `json:"expression"`
}

func NewAssignStatement(target string, value Expression) *AssignStatement {
	return &AssignStatement{nodeImpl: newNodeImpl(NodeAssignStatement), Target: target, Value: value}
}

func (s *AssignStatement) Accept(v StatementVisitor) error { return v.VisitAssign(s) }

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then, otherwise Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: otherwise}
}

func (s *IfStatement) Accept(v StatementVisitor) error { return v.VisitIf(s) }

// RepeatStatement runs Body, then stops once Until evaluates to true.
type RepeatStatement struct {
	nodeImpl
	statementMarker

	Body  []Statement `json:"body"`
	Until Expression  `json:"condition"`
}

func NewRepeatStatement(body []Statement, until Expression) *RepeatStatement {
	return &RepeatStatement{nodeImpl: newNodeImpl(NodeRepeatStatement), Body: body, Until: until}
}

func (s *RepeatStatement) Accept(v StatementVisitor) error { return v.VisitRepeat(s) }

type ReadStatement struct {
	nodeImpl
	statementMarker

	Targets []string `json:"params"`
}

func NewReadStatement(targets []string) *ReadStatement {
	return &ReadStatement{nodeImpl: newNodeImpl(NodeReadStatement), Targets: targets}
}

func (s *ReadStatement) Accept(v StatementVisitor) error { return v.VisitRead(s) }

type WriteStatement struct {
	nodeImpl
	statementMarker

	Arguments []Expression `json:"params"`
}

func NewWriteStatement(args []Expression) *WriteStatement {
	return &WriteStatement{nodeImpl: newNodeImpl(NodeWriteStatement), Arguments: args}
}

func (s *WriteStatement) Accept(v StatementVisitor) error { return v.VisitWrite(s) }

type CompoundStatement struct {
	nodeImpl
	statementMarker

	Statements []Statement `json:"stmts"`
}

func NewCompoundStatement(stmts []Statement) *CompoundStatement {
	return &CompoundStatement{nodeImpl: newNodeImpl(NodeCompoundStatement), Statements: stmts}
}

func (s *CompoundStatement) Accept(v StatementVisitor) error { return v.VisitCompound(s) }

type CallStatement struct {
	nodeImpl
	statementMarker

	Name      string       `json:"identifier"`
	Arguments []Expression `json:"params"`
}

func NewCallStatement(name string, args []Expression) *CallStatement {
	return &CallStatement{nodeImpl: newNodeImpl(NodeCallStatement), Name: name, Arguments: args}
}

func (s *CallStatement) Accept(v StatementVisitor) error { return v.VisitCall(s) }

// BareReference is a zero-argument procedure invocation written without
// parentheses.
type BareReference struct {
	nodeImpl
	statementMarker

	Name string `json:"identifier"`
}

func NewBareReference(name string) *BareReference {
	return &BareReference{nodeImpl: newNodeImpl(NodeBareReference), Name: name}
}

func (s *BareReference) Accept(v StatementVisitor) error { return v.VisitBareReference(s) }

//-----------------------------------------------------------------------------
// Expressions
//
// The five precedence tiers are nested interfaces: every lower tier satisfies
// the tiers above it, so a pass-through level is simply the lower node itself.
//-----------------------------------------------------------------------------

type Expression interface {
	Node
	expressionNode()
}

type SimpleExpression interface {
	Expression
	simpleNode()
}

type Term interface {
	SimpleExpression
	termNode()
}

type SignedFactor interface {
	Term
	signedNode()
}

type Factor interface {
	SignedFactor
	factorNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type simpleMarker struct{ expressionMarker }

func (simpleMarker) simpleNode() {}

type termMarker struct{ simpleMarker }

func (termMarker) termNode() {}

type signedMarker struct{ termMarker }

func (signedMarker) signedNode() {}

type factorMarker struct{ signedMarker }

func (factorMarker) factorNode() {}

type RelationalOperator string

const (
	OpNotEqual     RelationalOperator = "!="
	OpEqual        RelationalOperator = "="
	OpLessEqual    RelationalOperator = "<="
	OpLess         RelationalOperator = "<"
	OpGreaterEqual RelationalOperator = ">="
	OpGreater      RelationalOperator = ">"
)

type AdditiveOperator string

const (
	OpAdd      AdditiveOperator = "+"
	OpSubtract AdditiveOperator = "-"
	OpOr       AdditiveOperator = "or"
)

type MultiplicativeOperator string

const (
	OpMultiply MultiplicativeOperator = "*"
	OpDivide   MultiplicativeOperator = "/"
	OpDiv      MultiplicativeOperator = "div"
	OpMod      MultiplicativeOperator = "mod"
	OpAnd      MultiplicativeOperator = "and"
)

type RelationalOperand struct {
	Operator RelationalOperator `json:"op"`
	Operand  SimpleExpression   `json:"expr"`
}

type RelationalExpression struct {
	nodeImpl
	expressionMarker

	Head SimpleExpression    `json:"head"`
	Tail []RelationalOperand `json:"tail"`
}

func NewRelationalExpression(head SimpleExpression, tail []RelationalOperand) *RelationalExpression {
	return &RelationalExpression{nodeImpl: newNodeImpl(NodeRelationalExpression), Head: head, Tail: tail}
}

type AdditiveOperand struct {
	Operator AdditiveOperator `json:"op"`
	Operand  Term             `json:"expr"`
}

type AdditiveExpression struct {
	nodeImpl
	simpleMarker

	Head Term              `json:"head"`
	Tail []AdditiveOperand `json:"tail"`
}

func NewAdditiveExpression(head Term, tail []AdditiveOperand) *AdditiveExpression {
	return &AdditiveExpression{nodeImpl: newNodeImpl(NodeAdditiveExpression), Head: head, Tail: tail}
}

type MultiplicativeOperand struct {
	Operator MultiplicativeOperator `json:"op"`
	Operand  SignedFactor           `json:"expr"`
}

type MultiplicativeExpression struct {
	nodeImpl
	termMarker

	Head SignedFactor            `json:"head"`
	Tail []MultiplicativeOperand `json:"tail"`
}

func NewMultiplicativeExpression(head SignedFactor, tail []MultiplicativeOperand) *MultiplicativeExpression {
	return &MultiplicativeExpression{nodeImpl: newNodeImpl(NodeMultiplicativeExpression), Head: head, Tail: tail}
}

type NegatedFactor struct {
	nodeImpl
	signedMarker

	Operand Factor `json:"expr"`
}

func NewNegatedFactor(operand Factor) *NegatedFactor {
	return &NegatedFactor{nodeImpl: newNodeImpl(NodeNegatedFactor), Operand: operand}
}

type Identifier struct {
	nodeImpl
	factorMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Constant is a typed literal. Integer values are int64, real values float64,
// boolean values bool and char values string; a char constant longer than one
// character is a string constant.
type Constant struct {
	nodeImpl
	factorMarker

	Type  PrimitiveType `json:"kind"`
	Value any           `json:"value"`
}

func NewConstant(typ PrimitiveType, value any) *Constant {
	return &Constant{nodeImpl: newNodeImpl(NodeConstant), Type: typ, Value: value}
}

type ParenExpression struct {
	nodeImpl
	factorMarker

	Inner Expression `json:"expr"`
}

func NewParenExpression(inner Expression) *ParenExpression {
	return &ParenExpression{nodeImpl: newNodeImpl(NodeParenExpression), Inner: inner}
}

type CallExpression struct {
	nodeImpl
	factorMarker

	Name      string       `json:"identifier"`
	Arguments []Expression `json:"params"`
}

func NewCallExpression(name string, args []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Name: name, Arguments: args}
}

type NotExpression struct {
	nodeImpl
	factorMarker

	Operand Factor `json:"factor"`
}

func NewNotExpression(operand Factor) *NotExpression {
	return &NotExpression{nodeImpl: newNodeImpl(NodeNotExpression), Operand: operand}
}

// Unwrap strips chains that carry no operators, returning the innermost
// expression they wrap. Parentheses are kept.
func Unwrap(expr Expression) Expression {
	for {
		switch n := expr.(type) {
		case *RelationalExpression:
			if len(n.Tail) != 0 || n.Head == nil {
				return expr
			}
			expr = n.Head
		case *AdditiveExpression:
			if len(n.Tail) != 0 || n.Head == nil {
				return expr
			}
			expr = n.Head
		case *MultiplicativeExpression:
			if len(n.Tail) != 0 || n.Head == nil {
				return expr
			}
			expr = n.Head
		default:
			return expr
		}
	}
}

// BareIdentifier reports the identifier expr denotes once operator-free
// chains are stripped. Parenthesised identifiers do not count.
func BareIdentifier(expr Expression) (*Identifier, bool) {
	id, ok := Unwrap(expr).(*Identifier)
	return id, ok
}
