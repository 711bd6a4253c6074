package parser

import (
	"strings"
	"testing"

	"github.com/ethsnarks-go/circuitcore/ir"
	"github.com/ethsnarks-go/circuitcore/r1cs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const dotProductCircuit = `total 15
input 2
input 3
input 4
input 5
input 6
input 7
output 14
mul in 2 <2 5> out 1 <8>
mul in 2 <3 6> out 1 <9>
mul in 2 <4 7> out 1 <10>
add in 2 <8 9> out 1 <11>
add in 2 <11 10> out 1 <12>
const-mul-1 in 1 <12> out 1 <14>
`

func newTable() (*r1cs.ConstraintSystem, *ir.WireTable) {
	cs := r1cs.New()
	return cs, ir.NewWireTable(cs)
}

func TestParseDotProductCircuit(t *testing.T) {
	_, wt := newTable()
	c, err := Parse(strings.NewReader(dotProductCircuit), wt, zerolog.Nop())
	require.NoError(t, err)

	require.Equal(t, uint64(15), c.NumWires)
	require.Equal(t, []ir.Wire{2, 3, 4, 5, 6, 7}, c.PublicInputWireIDs)
	require.Equal(t, []ir.Wire{14}, c.OutputWireIDs)
	require.Len(t, c.Instructions, 6)

	require.Equal(t, ir.Mul, c.Instructions[0].Opcode)
	require.Equal(t, []ir.Wire{2, 5}, c.Instructions[0].Inputs)
	require.Equal(t, []ir.Wire{8}, c.Instructions[0].Outputs)

	last := c.Instructions[5]
	require.Equal(t, ir.ConstMul, last.Opcode)
	require.Equal(t, []ir.Wire{12}, last.Inputs)
	require.Equal(t, []ir.Wire{14}, last.Outputs)
}

func TestParseAllocatesEachWireExactlyOnce(t *testing.T) {
	cs, wt := newTable()
	_, err := Parse(strings.NewReader(dotProductCircuit), wt, zerolog.Nop())
	require.NoError(t, err)

	// 12 distinct wires (2..12 and 14) plus the constant wire.
	require.Equal(t, 13, cs.NumVariables())

	base := wt.Lookup(12)
	require.Equal(t, base, wt.Lookup(12))
}

func TestParseRejectsMissingTotalHeader(t *testing.T) {
	_, wt := newTable()
	_, err := Parse(strings.NewReader("input 0\n"), wt, zerolog.Nop())
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseRejectsEmptyFile(t *testing.T) {
	_, wt := newTable()
	_, err := Parse(strings.NewReader(""), wt, zerolog.Nop())
	require.Error(t, err)
}

func TestParseSkipsCommentsAndBlankLines(t *testing.T) {
	const circ = `total 3
# a comment

input 0
input 1
add in 2 <0 1> out 1 <2>
`
	_, wt := newTable()
	c, err := Parse(strings.NewReader(circ), wt, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, c.Instructions, 1)
}

func TestParseRejectsAddWithOneInput(t *testing.T) {
	const circ = `total 2
input 0
add in 1 <0> out 1 <1>
`
	_, wt := newTable()
	_, err := Parse(strings.NewReader(circ), wt, zerolog.Nop())
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, 3, pe.LineNo)
}

func TestParseRejectsMulWithThreeInputs(t *testing.T) {
	const circ = `total 3
input 0
input 1
input 2
mul in 3 <0 1 2> out 1 <3>
`
	_, wt := newTable()
	_, err := Parse(strings.NewReader(circ), wt, zerolog.Nop())
	require.Error(t, err)
}

func TestParseRejectsZeropWithOneOutput(t *testing.T) {
	const circ = `total 2
input 0
zerop in 1 <0> out 1 <1>
`
	_, wt := newTable()
	_, err := Parse(strings.NewReader(circ), wt, zerolog.Nop())
	require.Error(t, err)
}

func TestParseRejectsDeclaredArityMismatch(t *testing.T) {
	const circ = `total 3
input 0
input 1
mul in 2 <0 1> out 2 <2 2>
`
	_, wt := newTable()
	_, err := Parse(strings.NewReader(circ), wt, zerolog.Nop())
	require.Error(t, err)
}

func TestParseUnknownOpcodeIsParseError(t *testing.T) {
	const circ = `total 2
input 0
frobnicate in 1 <0> out 1 <1>
`
	_, wt := newTable()
	_, err := Parse(strings.NewReader(circ), wt, zerolog.Nop())
	require.Error(t, err)
}

func TestParseConstMulNegTakesPrecedenceOverConstMulPrefix(t *testing.T) {
	const circ = `total 2
input 0
const-mul-neg-ff in 1 <0> out 1 <1>
`
	_, wt := newTable()
	c, err := Parse(strings.NewReader(circ), wt, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, c.Instructions, 1)
	require.Equal(t, ir.ConstMulNeg, c.Instructions[0].Opcode)
}

func TestParseTableRejectsUnsupportedSize(t *testing.T) {
	const circ = `total 2
input 0
input 1
input 2
input 3
table 16 <0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0> in <0 1 2 3> out <4>
`
	_, wt := newTable()
	_, err := Parse(strings.NewReader(circ), wt, zerolog.Nop())
	require.Error(t, err)
}

func TestParseTableAcceptsThreeBitSize(t *testing.T) {
	const circ = `total 5
input 0
input 1
input 2
table 8 <10 11 12 13 14 15 16 17> in <0 1 2> out <3>
`
	_, wt := newTable()
	c, err := Parse(strings.NewReader(circ), wt, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, c.Instructions, 1)
	require.Equal(t, ir.Table, c.Instructions[0].Opcode)
	require.Len(t, c.Instructions[0].Table, 8)
}

func TestParseTableRejectsMismatchedInputCount(t *testing.T) {
	const circ = `total 4
input 0
input 1
table 4 <10 11 12 13> in <0> out <1>
`
	_, wt := newTable()
	_, err := Parse(strings.NewReader(circ), wt, zerolog.Nop())
	require.Error(t, err)
}

func TestParseNizkinputIsPrivate(t *testing.T) {
	const circ = `total 2
nizkinput 0
input 1
`
	_, wt := newTable()
	c, err := Parse(strings.NewReader(circ), wt, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, []ir.Wire{0}, c.PrivateInputWireIDs)
	require.Equal(t, []ir.Wire{1}, c.PublicInputWireIDs)
	require.Equal(t, 1, c.NumPublicInputs())
}
