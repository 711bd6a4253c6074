package constraints

import (
	"testing"

	"github.com/ethsnarks-go/circuitcore/eval"
	"github.com/ethsnarks-go/circuitcore/field"
	"github.com/ethsnarks-go/circuitcore/ir"
	"github.com/ethsnarks-go/circuitcore/r1cs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// runCircuit evaluates then emits constraints for insts, wiring the given
// wire values in first, and returns the constraint system for inspection.
func runCircuit(t *testing.T, insts []ir.Instruction, preset map[ir.Wire]uint64) *r1cs.ConstraintSystem {
	t.Helper()
	cs := r1cs.New()
	wt := ir.NewWireTable(cs)
	for w, val := range preset {
		wt.WriteValue(w, field.FromUint64(val))
	}
	c := &ir.Circuit{Instructions: insts}
	require.NoError(t, eval.All(c, wt, zerolog.Nop()))
	require.NoError(t, EmitAll(c, wt, cs, zerolog.Nop()))
	return cs
}

func TestEmitXorSatisfied(t *testing.T) {
	for _, tc := range []struct{ a, b uint64 }{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		insts := []ir.Instruction{{Opcode: ir.Xor, Inputs: []ir.Wire{1, 2}, Outputs: []ir.Wire{3}}}
		cs := runCircuit(t, insts, map[ir.Wire]uint64{1: tc.a, 2: tc.b})
		require.Truef(t, cs.IsSatisfied(), "xor(%d,%d)", tc.a, tc.b)
	}
}

func TestEmitOrSatisfied(t *testing.T) {
	for _, tc := range []struct{ a, b uint64 }{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		insts := []ir.Instruction{{Opcode: ir.Or, Inputs: []ir.Wire{1, 2}, Outputs: []ir.Wire{3}}}
		cs := runCircuit(t, insts, map[ir.Wire]uint64{1: tc.a, 2: tc.b})
		require.Truef(t, cs.IsSatisfied(), "or(%d,%d)", tc.a, tc.b)
	}
}

func TestEmitZeropSatisfiedBothCases(t *testing.T) {
	insts := []ir.Instruction{{Opcode: ir.Zerop, Inputs: []ir.Wire{1}, Outputs: []ir.Wire{2, 3}}}
	cs := runCircuit(t, insts, map[ir.Wire]uint64{1: 0})
	require.True(t, cs.IsSatisfied())

	cs = runCircuit(t, insts, map[ir.Wire]uint64{1: 9})
	require.True(t, cs.IsSatisfied())
}

func TestEmitZeropRejectsForgedWitness(t *testing.T) {
	cs := r1cs.New()
	wt := ir.NewWireTable(cs)
	x := ir.Wire(1)
	m := ir.Wire(2)
	y := ir.Wire(3)
	wt.WriteValue(x, field.FromUint64(9))
	wt.WriteValue(m, field.Zero())
	wt.WriteValue(y, field.Zero()) // forged: claims x==0 when x=9

	c := &ir.Circuit{Instructions: []ir.Instruction{{Opcode: ir.Zerop, Inputs: []ir.Wire{x}, Outputs: []ir.Wire{m, y}}}}
	require.NoError(t, EmitAll(c, wt, cs, zerolog.Nop()))
	require.False(t, cs.IsSatisfied())
}

func TestEmitSplitPackSatisfied(t *testing.T) {
	x := ir.Wire(1)
	bits := []ir.Wire{2, 3, 4, 5}
	packed := ir.Wire(6)
	insts := []ir.Instruction{
		{Opcode: ir.Split, Inputs: []ir.Wire{x}, Outputs: bits},
		{Opcode: ir.Pack, Inputs: bits, Outputs: []ir.Wire{packed}},
	}
	cs := runCircuit(t, insts, map[ir.Wire]uint64{x: 13})
	require.True(t, cs.IsSatisfied())
}

func TestEmitTable1Bit(t *testing.T) {
	cs := r1cs.New()
	wt := ir.NewWireTable(cs)
	b := ir.Wire(1)
	out := ir.Wire(2)
	wt.WriteValue(b, field.Zero())
	values := []field.Element{field.FromUint64(40), field.FromUint64(41)}

	c := &ir.Circuit{Instructions: []ir.Instruction{{Opcode: ir.Table, Inputs: []ir.Wire{b}, Outputs: []ir.Wire{out}, Table: values}}}
	require.NoError(t, eval.All(c, wt, zerolog.Nop()))
	require.NoError(t, EmitAll(c, wt, cs, zerolog.Nop()))
	require.True(t, field.Equal(wt.ReadValue(out), field.FromUint64(40)))
	require.True(t, cs.IsSatisfied())
}

func TestEmitTable2Bit(t *testing.T) {
	b0, b1 := ir.Wire(1), ir.Wire(2)
	out := ir.Wire(3)
	values := []field.Element{field.FromUint64(10), field.FromUint64(11), field.FromUint64(12), field.FromUint64(13)}

	for idx := uint64(0); idx < 4; idx++ {
		cs := r1cs.New()
		wt := ir.NewWireTable(cs)
		wt.WriteValue(b0, field.FromUint64(idx&1))
		wt.WriteValue(b1, field.FromUint64((idx>>1)&1))
		c := &ir.Circuit{Instructions: []ir.Instruction{{Opcode: ir.Table, Inputs: []ir.Wire{b0, b1}, Outputs: []ir.Wire{out}, Table: values}}}
		require.NoError(t, eval.All(c, wt, zerolog.Nop()))
		require.NoError(t, EmitAll(c, wt, cs, zerolog.Nop()))
		require.Truef(t, field.Equal(wt.ReadValue(out), values[idx]), "idx=%d", idx)
		require.Truef(t, cs.IsSatisfied(), "idx=%d", idx)
	}
}

func TestEmitTable3Bit(t *testing.T) {
	b0, b1, b2 := ir.Wire(1), ir.Wire(2), ir.Wire(3)
	out := ir.Wire(4)
	values := make([]field.Element, 8)
	for i := range values {
		values[i] = field.FromUint64(uint64(100 + i))
	}

	for idx := uint64(0); idx < 8; idx++ {
		cs := r1cs.New()
		wt := ir.NewWireTable(cs)
		wt.WriteValue(b0, field.FromUint64(idx&1))
		wt.WriteValue(b1, field.FromUint64((idx>>1)&1))
		wt.WriteValue(b2, field.FromUint64((idx>>2)&1))
		c := &ir.Circuit{Instructions: []ir.Instruction{{Opcode: ir.Table, Inputs: []ir.Wire{b0, b1, b2}, Outputs: []ir.Wire{out}, Table: values}}}
		require.NoError(t, eval.All(c, wt, zerolog.Nop()))
		require.NoError(t, EmitAll(c, wt, cs, zerolog.Nop()))
		require.Truef(t, field.Equal(wt.ReadValue(out), values[idx]), "idx=%d", idx)
		require.Truef(t, cs.IsSatisfied(), "idx=%d", idx)
	}
}

func TestEmitAddVariadic(t *testing.T) {
	insts := []ir.Instruction{{Opcode: ir.Add, Inputs: []ir.Wire{1, 2, 3}, Outputs: []ir.Wire{4}}}
	cs := runCircuit(t, insts, map[ir.Wire]uint64{1: 3, 2: 5, 3: 7})
	require.True(t, cs.IsSatisfied())
}
