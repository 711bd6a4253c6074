// Package core wires the parser, input loader, evaluator, and constraint
// emitter into the single straight-through pipeline described by the
// top-level flow: parse, optionally load+evaluate, then emit constraints.
//
// Grounded on the CircuitReader constructor in
// original_source/cxx/circuit_reader.cpp, which performs exactly these
// steps in exactly this order. File-system access is left to the caller -
// Core is built from io.Readers, not paths, so that file-system plumbing
// stays an external concern as specified.
package core

import (
	"io"

	"github.com/ethsnarks-go/circuitcore/constraints"
	"github.com/ethsnarks-go/circuitcore/eval"
	"github.com/ethsnarks-go/circuitcore/field"
	"github.com/ethsnarks-go/circuitcore/input"
	"github.com/ethsnarks-go/circuitcore/ir"
	"github.com/ethsnarks-go/circuitcore/parser"
	"github.com/ethsnarks-go/circuitcore/r1cs"
	"github.com/rs/zerolog"
)

// Core owns the parsed circuit, the wire table, and the constraint system
// for the lifetime of one circuit-file evaluation.
type Core struct {
	circuit *ir.Circuit
	wires   *ir.WireTable
	cs      *r1cs.ConstraintSystem
	log     zerolog.Logger
}

// New parses circuitFile, optionally loads and evaluates inputFile (pass
// nil to skip both loading and evaluation, leaving the witness empty), and
// then emits every instruction's constraints. log may be the zero value
// (zerolog.Nop()).
func New(circuitFile io.Reader, inputFile io.Reader, log zerolog.Logger) (*Core, error) {
	cs := r1cs.New()
	wires := ir.NewWireTable(cs)

	circuit, err := parser.Parse(circuitFile, wires, log)
	if err != nil {
		return nil, err
	}
	cs.SetNumPublicInputs(circuit.NumPublicInputs())

	if inputFile != nil {
		if err := input.Load(inputFile, wires, log); err != nil {
			return nil, err
		}
		if err := eval.All(circuit, wires, log); err != nil {
			return nil, err
		}
	}

	if err := constraints.EmitAll(circuit, wires, cs, log); err != nil {
		return nil, err
	}

	return &Core{circuit: circuit, wires: wires, cs: cs, log: log}, nil
}

// NumInputs returns the number of `input` declarations (public inputs).
func (c *Core) NumInputs() int {
	return c.circuit.NumPublicInputs()
}

// NumPrivateInputs returns the number of `nizkinput` declarations.
func (c *Core) NumPrivateInputs() int {
	return len(c.circuit.PrivateInputWireIDs)
}

// NumOutputs returns the number of `output` declarations.
func (c *Core) NumOutputs() int {
	return c.circuit.NumOutputs()
}

// OutputWireIDs returns the circuit's output wires, in declaration order.
func (c *Core) OutputWireIDs() []ir.Wire {
	return c.circuit.OutputWireIDs
}

// PublicInputWireIDs returns the circuit's public input wires, in
// declaration order.
func (c *Core) PublicInputWireIDs() []ir.Wire {
	return c.circuit.PublicInputWireIDs
}

// WireValue returns w's evaluated field value. If w was never allocated a
// variable, the wire table allocates a fresh one for it and the value read
// is zero; callers should only read wires reachable from
// OutputWireIDs/PublicInputWireIDs or known instruction wires.
func (c *Core) WireValue(w ir.Wire) field.Element {
	return c.wires.ReadValue(w)
}

// NumConstraints returns the number of R1CS constraints emitted.
func (c *Core) NumConstraints() int {
	return c.cs.NumConstraints()
}

// IsSatisfied delegates to the constraint system: it reports whether every
// emitted constraint holds under the current assignment. The caller
// decides whether an unsatisfied witness is fatal.
func (c *Core) IsSatisfied() bool {
	return c.cs.IsSatisfied()
}

// ConstraintSystem exposes the underlying sink, for callers (e.g. a proving
// backend) that need direct access to variables and constraints.
func (c *Core) ConstraintSystem() *r1cs.ConstraintSystem {
	return c.cs
}
