package ir

import (
	"fmt"
	"strings"

	"scriptc/report"
	"scriptc/types"
)

// Statement represents a single IR statement used in a function.
type Statement interface {
	// Repr returns a representative string from the statement.
	Repr() string

	// Span returns the source span this statement corresponds to.
	Span() *report.TextSpan

	// Instruction returns the instruction performed by the statement.
	Instruction() *Instruction
}

// StmtBase is the base structure for all IR statements.
type StmtBase struct {
	span *report.TextSpan
}

func NewStmtBase(span *report.TextSpan) StmtBase {
	return StmtBase{span: span}
}

func (sb *StmtBase) Span() *report.TextSpan {
	return sb.span
}

// -----------------------------------------------------------------------------

// Binding represents the binding of an instruction to an SSA value.
type Binding struct {
	StmtBase
	ValueID int
	Instr   *Instruction
}

func (b *Binding) Repr() string {
	return fmt.Sprintf("$%d = %s", b.ValueID, b.Instr.Repr())
}

func (b *Binding) Instruction() *Instruction {
	return b.Instr
}

// Effect is an instruction executed only for its effects.
type Effect struct {
	StmtBase
	Instr *Instruction
}

func (e *Effect) Repr() string {
	return e.Instr.Repr()
}

func (e *Effect) Instruction() *Instruction {
	return e.Instr
}

// -----------------------------------------------------------------------------

// Instruction represents a single operation within the IR.
type Instruction struct {
	// OpCode must be one of the enumerated instruction op codes.
	OpCode int

	// TypeSpec is the type the instruction yields, if any.
	TypeSpec types.Type

	// Attr is the symbolic operand of the instruction: the attribute name for
	// attribute access, the callee name for calls.
	Attr string

	// Operands are the list of operands that this instruction is applied to.
	Operands []Value
}

// Enumeration of instruction op codes.
const (
	// Function Calling
	OpCall = iota
	OpCallMethod
	OpHostCall
	OpReturn

	// Object Access
	OpGetAttr
	OpSetAttr
	OpParameters
	OpNamedParameters
	OpCapture

	// Construction
	OpTuple
	OpList
	OpTupleIndex
)

// Table of Op Code names
var opCodeNames = []string{
	"call",
	"call_method",
	"host_call",
	"ret",

	"getattr",
	"setattr",
	"parameters",
	"named_parameters",
	"capture",

	"tuple",
	"list",
	"tuple_index",
}

func (instr *Instruction) Repr() string {
	sb := strings.Builder{}

	sb.WriteString(opCodeNames[instr.OpCode])
	sb.WriteRune(' ')

	if instr.TypeSpec != nil {
		sb.WriteString(instr.TypeSpec.Repr())
		sb.WriteRune(' ')
	}

	if instr.Attr != "" {
		sb.WriteRune('@')
		sb.WriteString(instr.Attr)
		sb.WriteRune(' ')
	}

	sb.WriteRune('(')
	for i, op := range instr.Operands {
		sb.WriteString(op.Repr())

		if i < len(instr.Operands)-1 {
			sb.WriteString(", ")
		}
	}
	sb.WriteRune(')')

	return sb.String()
}
