// Package ir holds the in-memory representation the parser produces and
// the evaluator and constraint emitter consume: a flat, ordered
// instruction stream over wire identifiers.
//
// The instruction shape is grounded on ir.Instruction from the compiler
// collection (a tagged step over Inputs/OutputIds) and, for the concrete
// opcode set and payload fields, on ethsnarks::CircuitInstruction in
// original_source/cxx/circuit_reader.hpp - opcode, constant, inputs,
// outputs, table.
package ir

import "github.com/ethsnarks-go/circuitcore/field"

// Wire is a global, flat identifier for a position in the circuit's value
// vector, as used by the Pinocchio arithmetic circuit text format.
type Wire uint32

// Opcode enumerates the instruction kinds the format supports. Table sizes
// other than 2, 4, and 8 are rejected during parse and never reach this
// representation.
type Opcode int

const (
	Add Opcode = iota
	Mul
	Xor
	Or
	Assert
	Zerop
	Split
	Pack
	ConstMul
	ConstMulNeg
	Table
)

func (op Opcode) String() string {
	switch op {
	case Add:
		return "add"
	case Mul:
		return "mul"
	case Xor:
		return "xor"
	case Or:
		return "or"
	case Assert:
		return "assert"
	case Zerop:
		return "zerop"
	case Split:
		return "split"
	case Pack:
		return "pack"
	case ConstMul:
		return "const-mul"
	case ConstMulNeg:
		return "const-mul-neg"
	case Table:
		return "table"
	default:
		return "unknown"
	}
}

// Instruction is one line of the circuit file, resolved to concrete wire
// ids. It is immutable once the parser produces it. Constant is the zero
// field element for every opcode except ConstMul/ConstMulNeg; Table is
// empty for every opcode except Table.
type Instruction struct {
	Opcode   Opcode
	Constant field.Element
	Inputs   []Wire
	Outputs  []Wire
	Table    []field.Element
}
