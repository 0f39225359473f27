// Package expr models predicate expression trees: the input to the
// translator. Nodes are immutable; rewrite passes replace sub-trees by
// producing new nodes.
package expr

import "reflect"

// Expression represents a node in the predicate expression tree.
type Expression interface {
	exprNode()
}

// BinaryOp identifies a binary operator.
type BinaryOp string

const (
	OpEqual              BinaryOp = "eq"
	OpNotEqual           BinaryOp = "ne"
	OpLessThan           BinaryOp = "lt"
	OpLessThanOrEqual    BinaryOp = "le"
	OpGreaterThan        BinaryOp = "gt"
	OpGreaterThanOrEqual BinaryOp = "ge"
	OpAndAlso            BinaryOp = "and"
	OpOrElse             BinaryOp = "or"
	OpAdd                BinaryOp = "add"
	OpSubtract           BinaryOp = "sub"
	OpMultiply           BinaryOp = "mul"
	OpDivide             BinaryOp = "div"
	OpModulo             BinaryOp = "mod"
)

// UnaryOp identifies a unary operator.
type UnaryOp string

const (
	OpNot     UnaryOp = "not"
	OpConvert UnaryOp = "convert"
	OpNegate  UnaryOp = "neg"
	OpQuote   UnaryOp = "quote"
)

// ConstantExpr represents a literal or a folded closed-over value.
type ConstantExpr struct {
	Value interface{}
	// Type is the static type of the constant. It may be nil for untyped
	// nil constants, where the static type comes from the other operand.
	Type reflect.Type
}

func (e *ConstantExpr) exprNode() {}

// ParameterExpr represents the bound root of a predicate, i.e. the document
// record the lambda ranges over.
type ParameterExpr struct {
	Name string
	Type reflect.Type
}

func (e *ParameterExpr) exprNode() {}

// MemberExpr represents a member access such as r.Stats.Pricing.
// Target is nil for static member accesses.
type MemberExpr struct {
	Target Expression
	Member Member
}

func (e *MemberExpr) exprNode() {}

// BinaryExpr represents a binary expression (e.g. A and B, Cost gt 100).
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (e *BinaryExpr) exprNode() {}

// UnaryExpr represents a unary expression. For OpConvert, Type carries the
// conversion target type.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expression
	Type    reflect.Type
}

func (e *UnaryExpr) exprNode() {}

// CallExpr represents a method call. Receiver is nil for static calls.
type CallExpr struct {
	Receiver Expression
	Method   Method
	Args     []Expression
}

func (e *CallExpr) exprNode() {}

// LambdaExpr represents a predicate lambda of shape x => body(x).
type LambdaExpr struct {
	Params []*ParameterExpr
	Body   Expression
}

func (e *LambdaExpr) exprNode() {}
