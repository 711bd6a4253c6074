// Package eval walks a parsed circuit's instruction stream in order and
// fills in every dependent wire's concrete field value.
//
// Grounded on CircuitReader::evalInstruction in
// original_source/cxx/circuit_reader.cpp, which defines the exact
// arithmetic semantics of each opcode - these are restated here in Go
// against field.Element and ir.WireTable instead of FieldT/VariableT.
package eval

import (
	"github.com/ethsnarks-go/circuitcore/field"
	"github.com/ethsnarks-go/circuitcore/ir"
	"github.com/rs/zerolog"
)

// All evaluates every instruction in c against wt, in order. log may be the
// zero value.
func All(c *ir.Circuit, wt *ir.WireTable, log zerolog.Logger) error {
	for i, inst := range c.Instructions {
		if err := one(inst, wt); err != nil {
			log.Error().Int("instruction", i).Str("op", inst.Opcode.String()).Err(err).Msg("evaluation failed")
			return &EvalError{InstructionIndex: i, Reason: err.Error()}
		}
	}
	return nil
}

func one(inst ir.Instruction, wt *ir.WireTable) error {
	switch inst.Opcode {
	case ir.Add:
		sum := field.Zero()
		for _, w := range inst.Inputs {
			sum = field.Add(sum, wt.ReadValue(w))
		}
		wt.WriteValue(inst.Outputs[0], sum)

	case ir.Mul:
		a := wt.ReadValue(inst.Inputs[0])
		b := wt.ReadValue(inst.Inputs[1])
		wt.WriteValue(inst.Outputs[0], field.Mul(a, b))

	case ir.Xor:
		a := wt.ReadValue(inst.Inputs[0])
		b := wt.ReadValue(inst.Inputs[1])
		if field.Equal(a, b) {
			wt.WriteValue(inst.Outputs[0], field.Zero())
		} else {
			wt.WriteValue(inst.Outputs[0], field.One())
		}

	case ir.Or:
		a := wt.ReadValue(inst.Inputs[0])
		b := wt.ReadValue(inst.Inputs[1])
		if field.IsZero(a) && field.IsZero(b) {
			wt.WriteValue(inst.Outputs[0], field.Zero())
		} else {
			wt.WriteValue(inst.Outputs[0], field.One())
		}

	case ir.Assert:
		// The third wire's value is assumed already present (an input or a
		// prior instruction's output); the constraint emitter is what
		// actually enforces a*b=c.

	case ir.Zerop:
		x := wt.ReadValue(inst.Inputs[0])
		wt.WriteValue(inst.Outputs[0], field.Inverse(x)) // M: meaningless when x==0
		if field.IsZero(x) {
			wt.WriteValue(inst.Outputs[1], field.Zero())
		} else {
			wt.WriteValue(inst.Outputs[1], field.One())
		}

	case ir.Split:
		x := wt.ReadValue(inst.Inputs[0])
		for i, w := range inst.Outputs {
			wt.WriteValue(w, field.FromUint64(field.Bit(x, i)))
		}

	case ir.Pack:
		sum := field.Zero()
		two := field.One()
		for _, w := range inst.Inputs {
			sum = field.Add(sum, field.Mul(two, wt.ReadValue(w)))
			two = field.Add(two, two)
		}
		wt.WriteValue(inst.Outputs[0], sum)

	case ir.ConstMul, ir.ConstMulNeg:
		x := wt.ReadValue(inst.Inputs[0])
		wt.WriteValue(inst.Outputs[0], field.Mul(inst.Constant, x))

	case ir.Table:
		idx := 0
		n := len(inst.Inputs)
		for j := 0; j < n; j++ {
			v := wt.ReadValue(inst.Inputs[n-1-j])
			bit, err := asBit(v)
			if err != nil {
				return err
			}
			idx = idx<<1 | bit
		}
		wt.WriteValue(inst.Outputs[0], inst.Table[idx])
	}
	return nil
}

func asBit(v field.Element) (int, error) {
	if field.IsZero(v) {
		return 0, nil
	}
	if field.Equal(v, field.One()) {
		return 1, nil
	}
	return 0, &boolError{v}
}

type boolError struct {
	v field.Element
}

func (e *boolError) Error() string {
	return "table lookup input is not boolean: " + field.String(e.v)
}
