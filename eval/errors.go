package eval

import "fmt"

// EvalError reports a fault surfaced while evaluating an instruction. The
// only fault the evaluator detects is a lookup-table input that is neither
// 0 nor 1; the field operations it uses do not fail (the inverse of zero
// is zero).
type EvalError struct {
	InstructionIndex int
	Reason           string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating instruction %d: %s", e.InstructionIndex, e.Reason)
}
