package ir

import (
	"strings"

	"scriptc/report"
	"scriptc/types"

	"github.com/zclconf/go-cty/cty"
)

// Function is a compiled function: a flat list of SSA statements over its
// parameters.
type Function struct {
	Name    string
	Params  []*Param
	Returns types.Type
	Stmts   []Statement

	// nextID is the ID of the next local SSA value.
	nextID int
}

// NewFunction creates a new empty function.
func NewFunction(name string) *Function {
	return &Function{Name: name}
}

// AddParam appends a parameter to the function.
func (f *Function) AddParam(name string, typ types.Type) *Param {
	p := &Param{ValueBase: NewValueBase(typ), Name: name}
	f.Params = append(f.Params, p)
	return p
}

// Constant creates a constant operand.  Constants are not emitted as
// statements.
func (f *Function) Constant(val cty.Value, typ types.Type) *Constant {
	return &Constant{ValueBase: NewValueBase(typ), Val: val}
}

// Emit appends an instruction yielding a value of type typ and returns the
// value it is bound to.
func (f *Function) Emit(span *report.TextSpan, opCode int, typ types.Type, attr string, operands ...Value) *Local {
	local := &Local{ValueBase: NewValueBase(typ), ID: f.nextID}
	f.nextID++

	f.Stmts = append(f.Stmts, &Binding{
		StmtBase: NewStmtBase(span),
		ValueID:  local.ID,
		Instr: &Instruction{
			OpCode:   opCode,
			TypeSpec: typ,
			Attr:     attr,
			Operands: operands,
		},
	})

	return local
}

// EmitEffect appends an instruction whose result is not used.
func (f *Function) EmitEffect(span *report.TextSpan, opCode int, attr string, operands ...Value) {
	f.Stmts = append(f.Stmts, &Effect{
		StmtBase: NewStmtBase(span),
		Instr: &Instruction{
			OpCode:   opCode,
			Attr:     attr,
			Operands: operands,
		},
	})
}

// EmitReturn terminates the function by returning v.
func (f *Function) EmitReturn(span *report.TextSpan, v Value) {
	f.Returns = v.Type()
	f.EmitEffect(span, OpReturn, "", v)
}

// CountOps returns the number of instructions with a given op code.
func (f *Function) CountOps(opCode int) int {
	n := 0
	for _, stmt := range f.Stmts {
		if stmt.Instruction().OpCode == opCode {
			n++
		}
	}

	return n
}

func (f *Function) Repr() string {
	sb := strings.Builder{}
	sb.WriteString("func @")
	sb.WriteString(f.Name)
	sb.WriteRune('(')

	for i, p := range f.Params {
		if i != 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(p.Type().Repr())
		sb.WriteRune(' ')
		sb.WriteString(p.Repr())
	}

	sb.WriteString(")")
	if f.Returns != nil {
		sb.WriteRune(' ')
		sb.WriteString(f.Returns.Repr())
	}

	sb.WriteString(":\n")
	for _, stmt := range f.Stmts {
		sb.WriteString("  ")
		sb.WriteString(stmt.Repr())
		sb.WriteRune('\n')
	}

	return sb.String()
}
