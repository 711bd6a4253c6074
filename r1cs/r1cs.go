// Package r1cs implements the rank-1 constraint system sink the circuit
// core emits into: variable allocation, an assignment vector, and
// A*B=C constraints over linear combinations of variables.
//
// The variable/term/linear-combination shape is grounded on
// expr.Term/expr.Expression from the compiler collection (a variable id
// plus a field coefficient) and on the R1C{L,R,O LinearExpression} triple
// from ZeroBase-Pro-prover's compiled.R1CS, simplified to plain linear
// combinations since the core never needs quadratic expressions to survive
// past a single gadget - each opcode builds its A, B, C directly.
//
// The CBOR dump/load pair exists to hand the finished constraint system to
// an external proving backend without sharing Go memory, and
// UnsetVariables is a coverage diagnostic over the assignment vector; both
// are built on dependencies the compiler collection already
// carries transitively through gnark (bits-and-blooms/bitset,
// fxamacker/cbor/v2), exercised here directly for the first time.
package r1cs

import (
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/ethsnarks-go/circuitcore/field"
	"github.com/fxamacker/cbor/v2"
)

// Variable is a handle into the constraint system's assignment vector.
// Variable 0 is reserved for the constant wire, whose value is always one.
type Variable int

const One Variable = 0

// Term is coeff*var.
type Term struct {
	Coeff field.Element
	VID   Variable
}

// LinearCombination is a sum of terms, Σ coeff_i * var_i.
type LinearCombination []Term

// FromVariable returns the linear combination 1*v.
func FromVariable(v Variable) LinearCombination {
	return LinearCombination{{Coeff: field.One(), VID: v}}
}

// FromConstant returns the linear combination c*One.
func FromConstant(c field.Element) LinearCombination {
	return LinearCombination{{Coeff: c, VID: One}}
}

// ScaledVariable returns the linear combination coeff*v.
func ScaledVariable(coeff field.Element, v Variable) LinearCombination {
	return LinearCombination{{Coeff: coeff, VID: v}}
}

// Plus returns a new linear combination extended with coeff*v.
func (lc LinearCombination) Plus(coeff field.Element, v Variable) LinearCombination {
	out := make(LinearCombination, len(lc), len(lc)+1)
	copy(out, lc)
	return append(out, Term{Coeff: coeff, VID: v})
}

// Add returns the linear combination lc + other, terms concatenated
// without merging - the constraint system evaluates by summing all terms,
// so duplicate variable ids are harmless.
func (lc LinearCombination) Add(other LinearCombination) LinearCombination {
	out := make(LinearCombination, 0, len(lc)+len(other))
	out = append(out, lc...)
	out = append(out, other...)
	return out
}

// Sub returns lc - other.
func (lc LinearCombination) Sub(other LinearCombination) LinearCombination {
	out := make(LinearCombination, 0, len(lc)+len(other))
	out = append(out, lc...)
	for _, t := range other {
		out = append(out, Term{Coeff: field.Neg(t.Coeff), VID: t.VID})
	}
	return out
}

// Constraint is one rank-1 constraint A*B=C.
type Constraint struct {
	A, B, C LinearCombination
}

// ConstraintSystem is the sink the core writes R1CS constraints and
// variable assignments into. It is the concrete stand-in for the
// "external" constraint-system interface the core is specified against.
type ConstraintSystem struct {
	values          []field.Element
	numPublicInputs int
	constraints     []Constraint
	touched         *bitset.BitSet
}

// New returns an empty constraint system with the constant wire allocated.
func New() *ConstraintSystem {
	cs := &ConstraintSystem{
		values:  make([]field.Element, 1),
		touched: bitset.New(1),
	}
	cs.values[0] = field.One()
	cs.touched.Set(0)
	return cs
}

// AllocateVariable reserves a fresh variable and returns its handle. The
// variable's value defaults to zero until SetValue is called.
func (cs *ConstraintSystem) AllocateVariable() Variable {
	cs.values = append(cs.values, field.Zero())
	return Variable(len(cs.values) - 1)
}

// SetValue assigns val to v. v must have been returned by AllocateVariable
// (or be One).
func (cs *ConstraintSystem) SetValue(v Variable, val field.Element) {
	cs.values[v] = val
	cs.touched.Set(uint(v))
}

// GetValue returns the current assignment of v.
func (cs *ConstraintSystem) GetValue(v Variable) field.Element {
	return cs.values[v]
}

// NumVariables returns the number of allocated variables, including the
// constant wire.
func (cs *ConstraintSystem) NumVariables() int {
	return len(cs.values)
}

// AddConstraint appends the constraint A*B=C.
func (cs *ConstraintSystem) AddConstraint(a, b, c LinearCombination) {
	cs.constraints = append(cs.constraints, Constraint{A: a, B: b, C: c})
}

// SetNumPublicInputs fixes the count of public-input variables. The core
// calls this exactly once, right after parsing.
func (cs *ConstraintSystem) SetNumPublicInputs(n int) {
	cs.numPublicInputs = n
}

// NumPublicInputs returns the count set by SetNumPublicInputs.
func (cs *ConstraintSystem) NumPublicInputs() int {
	return cs.numPublicInputs
}

// NumConstraints returns the number of constraints emitted so far.
func (cs *ConstraintSystem) NumConstraints() int {
	return len(cs.constraints)
}

// Eval evaluates a linear combination against the current assignment.
func (cs *ConstraintSystem) Eval(lc LinearCombination) field.Element {
	sum := field.Zero()
	for _, t := range lc {
		sum = field.Add(sum, field.Mul(t.Coeff, cs.values[t.VID]))
	}
	return sum
}

// IsSatisfied evaluates every constraint against the current assignment and
// reports whether A*B=C holds for all of them.
func (cs *ConstraintSystem) IsSatisfied() bool {
	for _, c := range cs.constraints {
		a := cs.Eval(c.A)
		b := cs.Eval(c.B)
		want := cs.Eval(c.C)
		got := field.Mul(a, b)
		if !field.Equal(got, want) {
			return false
		}
	}
	return true
}

// FirstUnsatisfied returns the index of the first constraint that does not
// hold under the current assignment, or -1 if all constraints hold.
func (cs *ConstraintSystem) FirstUnsatisfied() int {
	for i, c := range cs.constraints {
		a := cs.Eval(c.A)
		b := cs.Eval(c.B)
		want := cs.Eval(c.C)
		if !field.Equal(field.Mul(a, b), want) {
			return i
		}
	}
	return -1
}

func (c Constraint) String() string {
	return fmt.Sprintf("(%v)*(%v)=(%v)", c.A, c.B, c.C)
}

// UnsetVariables returns every allocated variable that SetValue has never
// been called on, in ascending order. A non-empty result almost always
// means the circuit referenced a wire that no instruction or input entry
// ever produced a value for.
func (cs *ConstraintSystem) UnsetVariables() []Variable {
	var out []Variable
	for i := uint(0); i < uint(len(cs.values)); i++ {
		if !cs.touched.Test(i) {
			out = append(out, Variable(i))
		}
	}
	return out
}

// dumpedTerm and dumpedConstraint mirror Term/Constraint with the field
// coefficient serialized as a decimal string - cbor has no native bignum
// codec for an arbitrary prime field, and round-tripping through
// field.Element's own decimal representation keeps the artifact
// self-describing without pulling in the field library on the reading end.
type dumpedTerm struct {
	Coeff string `cbor:"coeff"`
	VID   int    `cbor:"vid"`
}

type dumpedConstraint struct {
	A []dumpedTerm `cbor:"a"`
	B []dumpedTerm `cbor:"b"`
	C []dumpedTerm `cbor:"c"`
}

// DumpedSystem is the serialized hand-off artifact a proving backend reads
// instead of sharing this package's in-memory representation.
type DumpedSystem struct {
	NumVariables    int                `cbor:"num_variables"`
	NumPublicInputs int                `cbor:"num_public_inputs"`
	Constraints     []dumpedConstraint `cbor:"constraints"`
}

func dumpLC(lc LinearCombination) []dumpedTerm {
	out := make([]dumpedTerm, len(lc))
	for i, t := range lc {
		out[i] = dumpedTerm{Coeff: field.String(t.Coeff), VID: int(t.VID)}
	}
	return out
}

// DumpCBOR serializes the constraint system's shape - variable count,
// public-input count, and every constraint's terms - to w. It does not
// serialize the assignment vector; the artifact describes the circuit, not
// a particular witness.
func (cs *ConstraintSystem) DumpCBOR(w io.Writer) error {
	dumped := DumpedSystem{
		NumVariables:    len(cs.values),
		NumPublicInputs: cs.numPublicInputs,
		Constraints:     make([]dumpedConstraint, len(cs.constraints)),
	}
	for i, c := range cs.constraints {
		dumped.Constraints[i] = dumpedConstraint{A: dumpLC(c.A), B: dumpLC(c.B), C: dumpLC(c.C)}
	}
	enc := cbor.NewEncoder(w)
	if err := enc.Encode(&dumped); err != nil {
		return fmt.Errorf("r1cs: encoding CBOR dump: %w", err)
	}
	return nil
}

// LoadCBOR reads back an artifact written by DumpCBOR. It does not
// reconstruct a ConstraintSystem - the reader has no assignment vector to
// populate - it returns the plain DumpedSystem value.
func LoadCBOR(r io.Reader) (*DumpedSystem, error) {
	var dumped DumpedSystem
	dec := cbor.NewDecoder(r)
	if err := dec.Decode(&dumped); err != nil {
		return nil, fmt.Errorf("r1cs: decoding CBOR dump: %w", err)
	}
	return &dumped, nil
}
