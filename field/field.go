// Package field wraps the BN254 scalar field used by the circuit core.
//
// Grounded on the field wrapper the compiler collection keeps around
// gnark-crypto's fr.Element (ecgo/field/bn254/field_wrapper.go) and on the
// per-target field dispatch in field/babybear/field.go, trimmed down to the
// single large prime the Pinocchio arithmetic format is defined over.
package field

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Element is a value in the BN254 scalar field.
type Element = fr.Element

// Modulus returns the field's prime modulus.
func Modulus() *big.Int {
	return fr.Modulus()
}

// Zero returns the additive identity.
func Zero() Element {
	var e Element
	return e
}

// One returns the multiplicative identity.
func One() Element {
	return fr.One()
}

// Add returns a+b.
func Add(a, b Element) Element {
	var r Element
	r.Add(&a, &b)
	return r
}

// Sub returns a-b.
func Sub(a, b Element) Element {
	var r Element
	r.Sub(&a, &b)
	return r
}

// Mul returns a*b.
func Mul(a, b Element) Element {
	var r Element
	r.Mul(&a, &b)
	return r
}

// Neg returns -a.
func Neg(a Element) Element {
	var r Element
	r.Neg(&a)
	return r
}

// Inverse returns 1/a. It returns the zero element, unchanged, if a is zero -
// callers that need to distinguish this case must check IsZero(a) themselves.
func Inverse(a Element) Element {
	if a.IsZero() {
		return Zero()
	}
	var r Element
	r.Inverse(&a)
	return r
}

// IsZero reports whether a is the additive identity.
func IsZero(a Element) bool {
	return a.IsZero()
}

// Equal reports whether a and b represent the same field element.
func Equal(a, b Element) bool {
	return a.Equal(&b)
}

// Bit returns bit i (0 = least significant) of a's canonical representative.
func Bit(a Element, i int) uint64 {
	var b big.Int
	a.BigInt(&b)
	return uint64(b.Bit(i))
}

// FromUint64 lifts a small unsigned integer into the field.
func FromUint64(v uint64) Element {
	var e Element
	e.SetUint64(v)
	return e
}

// ParseDecimal parses a base-10 field literal, as used by table entries in
// the circuit file format.
func ParseDecimal(s string) (Element, error) {
	var e Element
	if _, err := e.SetString(s); err != nil {
		return Element{}, fmt.Errorf("field: bad decimal literal %q: %w", s, err)
	}
	return e, nil
}

// ParseHex parses an unsigned hexadecimal literal with no "0x" prefix, as
// used by input files and const-mul opcode suffixes.
func ParseHex(s string) (Element, error) {
	i, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return Element{}, fmt.Errorf("field: bad hex literal %q", s)
	}
	var e Element
	e.SetBigInt(i)
	return e, nil
}

// String renders a in decimal, matching the ethsnarks FieldT::print convention.
func String(a Element) string {
	return a.String()
}
