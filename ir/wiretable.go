package ir

import (
	"github.com/ethsnarks-go/circuitcore/field"
	"github.com/ethsnarks-go/circuitcore/r1cs"
)

// WireTable maps circuit wire ids to constraint-system variable handles.
// It is insertion-only: a wire, once allocated, keeps the same variable for
// the table's lifetime. Many real circuits reference intermediate wires
// without ever declaring them (no `input`/`nizkinput`/`output` line), so
// Lookup allocates lazily on first sight rather than requiring
// pre-declaration - this is the behaviour the source format relies on and
// it is preserved exactly.
type WireTable struct {
	cs   *r1cs.ConstraintSystem
	vars map[Wire]r1cs.Variable
}

// NewWireTable returns an empty table backed by cs.
func NewWireTable(cs *r1cs.ConstraintSystem) *WireTable {
	return &WireTable{
		cs:   cs,
		vars: make(map[Wire]r1cs.Variable),
	}
}

// Allocate reserves a variable for w. It is idempotent: a wire declared
// more than once (e.g. produced by an instruction before also appearing in
// an `output` line, or vice versa) keeps its first variable rather than
// getting a second, orphaned one. Callers that only want a wire's
// variable, allocating on demand, should use Lookup instead; Allocate
// exists for the parser's explicit input/nizkinput/output declarations.
func (t *WireTable) Allocate(w Wire) r1cs.Variable {
	if v, ok := t.vars[w]; ok {
		return v
	}
	v := t.cs.AllocateVariable()
	t.vars[w] = v
	return v
}

// Lookup returns w's variable, allocating one if this is the first
// reference to w.
func (t *WireTable) Lookup(w Wire) r1cs.Variable {
	if v, ok := t.vars[w]; ok {
		return v
	}
	return t.Allocate(w)
}

// Exists reports whether w has been allocated a variable yet.
func (t *WireTable) Exists(w Wire) bool {
	_, ok := t.vars[w]
	return ok
}

// ReadValue returns w's current field value, allocating w if necessary.
func (t *WireTable) ReadValue(w Wire) field.Element {
	return t.cs.GetValue(t.Lookup(w))
}

// WriteValue sets w's field value, allocating w if necessary.
func (t *WireTable) WriteValue(w Wire, v field.Element) {
	t.cs.SetValue(t.Lookup(w), v)
}
