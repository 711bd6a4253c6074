package input

import (
	"strings"
	"testing"

	"github.com/ethsnarks-go/circuitcore/field"
	"github.com/ethsnarks-go/circuitcore/ir"
	"github.com/ethsnarks-go/circuitcore/r1cs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoadAcceptsEqualsSeparator(t *testing.T) {
	cs := r1cs.New()
	wt := ir.NewWireTable(cs)
	require.NoError(t, Load(strings.NewReader("2=ff\n"), wt, zerolog.Nop()))
	require.True(t, field.Equal(wt.ReadValue(2), field.FromUint64(255)))
}

func TestLoadAcceptsSpaceSeparator(t *testing.T) {
	cs := r1cs.New()
	wt := ir.NewWireTable(cs)
	require.NoError(t, Load(strings.NewReader("3 b\n"), wt, zerolog.Nop()))
	require.True(t, field.Equal(wt.ReadValue(3), field.FromUint64(11)))
}

func TestLoadLastEntryWins(t *testing.T) {
	cs := r1cs.New()
	wt := ir.NewWireTable(cs)
	require.NoError(t, Load(strings.NewReader("4=1\n4=2\n"), wt, zerolog.Nop()))
	require.True(t, field.Equal(wt.ReadValue(4), field.FromUint64(2)))
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	cs := r1cs.New()
	wt := ir.NewWireTable(cs)
	err := Load(strings.NewReader("not-a-wire\n"), wt, zerolog.Nop())
	require.Error(t, err)
	var ie *InputError
	require.ErrorAs(t, err, &ie)
	require.Equal(t, 1, ie.LineNo)
}

func TestLoadSkipsBlankLines(t *testing.T) {
	cs := r1cs.New()
	wt := ir.NewWireTable(cs)
	require.NoError(t, Load(strings.NewReader("\n5=a\n\n"), wt, zerolog.Nop()))
	require.True(t, field.Equal(wt.ReadValue(5), field.FromUint64(10)))
}
