package expr

import (
	"fmt"
	"strings"
)

// Print renders an expression in a canonical textual form. The output is
// deterministic for structurally identical trees, which makes it usable both
// for diagnostics and as a translation cache key.
func Print(e Expression) string {
	var sb strings.Builder
	printTo(&sb, e)
	return sb.String()
}

func printTo(sb *strings.Builder, e Expression) {
	switch n := e.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *ConstantExpr:
		if n.Value == nil {
			sb.WriteString("null")
			return
		}
		if s, ok := n.Value.(string); ok {
			fmt.Fprintf(sb, "%q", s)
			return
		}
		fmt.Fprintf(sb, "%v", n.Value)
	case *ParameterExpr:
		sb.WriteString(n.Name)
	case *MemberExpr:
		if n.Target != nil {
			printTo(sb, n.Target)
			sb.WriteByte('.')
		}
		sb.WriteString(n.Member.Name)
	case *BinaryExpr:
		sb.WriteByte('(')
		printTo(sb, n.Left)
		fmt.Fprintf(sb, " %s ", n.Op)
		printTo(sb, n.Right)
		sb.WriteByte(')')
	case *UnaryExpr:
		fmt.Fprintf(sb, "%s(", n.Op)
		printTo(sb, n.Operand)
		sb.WriteByte(')')
	case *CallExpr:
		if n.Receiver != nil {
			printTo(sb, n.Receiver)
			sb.WriteByte('.')
		} else if n.Method.Declaring != "" {
			sb.WriteString(n.Method.Declaring)
			sb.WriteByte('.')
		}
		sb.WriteString(n.Method.Name)
		sb.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			printTo(sb, a)
		}
		sb.WriteByte(')')
	case *LambdaExpr:
		for i, p := range n.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.Name)
		}
		sb.WriteString(" => ")
		printTo(sb, n.Body)
	default:
		fmt.Fprintf(sb, "<%T>", e)
	}
}

// Kind returns a short name for the expression's node kind, used in error
// messages.
func Kind(e Expression) string {
	switch n := e.(type) {
	case nil:
		return "nil"
	case *ConstantExpr:
		return "constant"
	case *ParameterExpr:
		return "parameter"
	case *MemberExpr:
		return "member " + n.Member.Name
	case *BinaryExpr:
		return "binary " + string(n.Op)
	case *UnaryExpr:
		return "unary " + string(n.Op)
	case *CallExpr:
		return "call " + n.Method.Name
	case *LambdaExpr:
		return "lambda"
	default:
		return fmt.Sprintf("%T", e)
	}
}
