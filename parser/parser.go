// Package parser turns a Pinocchio arithmetic-circuit text file into an
// ir.Circuit, allocating a constraint-system variable for every wire it
// encounters along the way.
//
// Grounded on CircuitReader::parseCircuit in
// original_source/cxx/circuit_reader.cpp, which is the format's reference
// implementation - in particular the literal `<...>`-bracketed wire-id and
// table-value lists that the format's sscanf patterns parse around.
// Re-expressed with Go's bufio.Scanner/strings instead of C's sscanf
// buffers.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ethsnarks-go/circuitcore/field"
	"github.com/ethsnarks-go/circuitcore/ir"
	"github.com/rs/zerolog"
)

const (
	prefixConstMulNeg = "const-mul-neg-"
	prefixConstMul    = "const-mul-"
)

var binaryArity = map[string]ir.Opcode{
	"mul":    ir.Mul,
	"xor":    ir.Xor,
	"or":     ir.Or,
	"assert": ir.Assert,
}

// Parse reads a circuit file from r and builds its instruction stream,
// allocating a variable in wt for every wire it references. log may be the
// zero value (zerolog.Nop()); when enabled at debug level it traces each
// parsed instruction (not the header or input/nizkinput/output
// declarations), mirroring the reference reader's optional traceEnabled
// mode.
func Parse(r io.Reader, wt *ir.WireTable, log zerolog.Logger) (*ir.Circuit, error) {
	p := &parser{wt: wt, log: log}
	return p.run(r)
}

type parser struct {
	wt       *ir.WireTable
	log      zerolog.Logger
	lineNo   int
	sawTotal bool
	circuit  ir.Circuit
}

func (p *parser) run(r io.Reader) (*ir.Circuit, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		p.lineNo++
		raw := scanner.Text()
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if !p.sawTotal {
			n, err := parseHeader(trimmed)
			if err != nil {
				return nil, newParseError(p.lineNo, line, "missing `total <N>` header")
			}
			p.circuit.NumWires = n
			p.sawTotal = true
			continue
		}

		if err := p.parseLine(p.lineNo, line, trimmed); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parser: reading circuit file: %w", err)
	}
	if !p.sawTotal {
		return nil, newParseError(p.lineNo, "", "empty circuit file, missing `total <N>` header")
	}
	return &p.circuit, nil
}

func parseHeader(line string) (uint64, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] != "total" {
		return 0, fmt.Errorf("not a total header")
	}
	n, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (p *parser) parseLine(lineNo int, line, trimmed string) error {
	fields := strings.Fields(trimmed)

	switch fields[0] {
	case "input":
		w, err := p.singleWire(lineNo, line, fields)
		if err != nil {
			return err
		}
		p.wt.Allocate(w)
		p.circuit.PublicInputWireIDs = append(p.circuit.PublicInputWireIDs, w)
		return nil
	case "nizkinput":
		w, err := p.singleWire(lineNo, line, fields)
		if err != nil {
			return err
		}
		p.wt.Allocate(w)
		p.circuit.PrivateInputWireIDs = append(p.circuit.PrivateInputWireIDs, w)
		return nil
	case "output":
		w, err := p.singleWire(lineNo, line, fields)
		if err != nil {
			return err
		}
		p.wt.Allocate(w)
		p.circuit.OutputWireIDs = append(p.circuit.OutputWireIDs, w)
		return nil
	case "table":
		inst, err := p.parseTable(lineNo, line, trimmed)
		if err != nil {
			return err
		}
		p.circuit.Instructions = append(p.circuit.Instructions, inst)
		return nil
	default:
		inst, err := p.parseOp(lineNo, line, trimmed)
		if err != nil {
			return err
		}
		p.circuit.Instructions = append(p.circuit.Instructions, inst)
		return nil
	}
}

func (p *parser) singleWire(lineNo int, line string, fields []string) (ir.Wire, error) {
	if len(fields) != 2 {
		return 0, newParseError(lineNo, line, "expected `%s <wire-id>`", fields[0])
	}
	return parseWire(lineNo, line, fields[1])
}

func parseWire(lineNo int, line, tok string) (ir.Wire, error) {
	n, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, newParseError(lineNo, line, "bad wire id %q", tok)
	}
	return ir.Wire(n), nil
}

func parseWireList(lineNo int, line, s string) ([]ir.Wire, error) {
	fields := strings.Fields(s)
	out := make([]ir.Wire, 0, len(fields))
	for _, f := range fields {
		w, err := parseWire(lineNo, line, f)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// bracketed extracts the contents of the next `<...>` group starting at or
// after s, returning that content and the remainder of s after the `>`.
func bracketed(lineNo int, line, s string) (content, rest string, err error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || s[0] != '<' {
		return "", "", newParseError(lineNo, line, "expected `<...>` wire list")
	}
	end := strings.IndexByte(s, '>')
	if end < 0 {
		return "", "", newParseError(lineNo, line, "unterminated `<...>` wire list")
	}
	return s[1:end], s[end+1:], nil
}

// parseTable handles: table <k> <v0 v1 ... v(k-1)> in <w0 ... w(m-1)> out <w_out>
func (p *parser) parseTable(lineNo int, line, trimmed string) (ir.Instruction, error) {
	fields := strings.Fields(trimmed)
	if len(fields) < 2 || fields[0] != "table" {
		return ir.Instruction{}, newParseError(lineNo, line, "malformed table line")
	}
	k, err := strconv.Atoi(fields[1])
	if err != nil || k <= 0 {
		return ir.Instruction{}, newParseError(lineNo, line, "bad table size %q", fields[1])
	}

	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(trimmed, "table")), fields[1]))
	valuesStr, rest, err := bracketed(lineNo, line, rest)
	if err != nil {
		return ir.Instruction{}, err
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "in") {
		return ir.Instruction{}, newParseError(lineNo, line, "expected `in <...>` in table line")
	}
	rest = strings.TrimSpace(rest[len("in"):])
	inStr, rest, err := bracketed(lineNo, line, rest)
	if err != nil {
		return ir.Instruction{}, err
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "out") {
		return ir.Instruction{}, newParseError(lineNo, line, "expected `out <...>` in table line")
	}
	rest = strings.TrimSpace(rest[len("out"):])
	outStr, rest, err := bracketed(lineNo, line, rest)
	if err != nil {
		return ir.Instruction{}, err
	}
	if strings.TrimSpace(rest) != "" {
		return ir.Instruction{}, newParseError(lineNo, line, "unexpected trailing content")
	}

	values, err := parseDecimalList(lineNo, line, valuesStr)
	if err != nil {
		return ir.Instruction{}, err
	}
	if len(values) != k {
		return ir.Instruction{}, newParseError(lineNo, line, "table declares %d entries, got %d values", k, len(values))
	}

	inputs, err := parseWireList(lineNo, line, inStr)
	if err != nil {
		return ir.Instruction{}, err
	}
	if k != 1<<len(inputs) {
		return ir.Instruction{}, newParseError(lineNo, line, "table of size %d needs %d input wires, got %d", k, log2Exact(k), len(inputs))
	}
	if k != 2 && k != 4 && k != 8 {
		return ir.Instruction{}, newParseError(lineNo, line, "unsupported lookup table size %d (only 2, 4, 8 are supported)", k)
	}

	outputs, err := parseWireList(lineNo, line, outStr)
	if err != nil {
		return ir.Instruction{}, err
	}
	if len(outputs) != 1 {
		return ir.Instruction{}, newParseError(lineNo, line, "table requires exactly 1 output, got %d", len(outputs))
	}

	for _, w := range inputs {
		p.wt.Lookup(w)
	}
	for _, w := range outputs {
		p.wt.Lookup(w)
	}

	p.log.Debug().Str("op", "table").Int("size", k).Msg("parsed instruction")

	return ir.Instruction{
		Opcode:  ir.Table,
		Inputs:  inputs,
		Outputs: outputs,
		Table:   values,
	}, nil
}

func log2Exact(k int) int {
	n := 0
	for k > 1 {
		k >>= 1
		n++
	}
	return n
}

func parseDecimalList(lineNo int, line, s string) ([]field.Element, error) {
	fields := strings.Fields(s)
	out := make([]field.Element, 0, len(fields))
	for _, f := range fields {
		e, err := field.ParseDecimal(f)
		if err != nil {
			return nil, newParseError(lineNo, line, "bad table value %q", f)
		}
		out = append(out, e)
	}
	return out, nil
}

// parseOp handles: <op> in <n> <w1 w2 ... wn> out <m> <w1 ... wm>
func (p *parser) parseOp(lineNo int, line, trimmed string) (ir.Instruction, error) {
	fields := strings.Fields(trimmed)
	if len(fields) < 5 {
		return ir.Instruction{}, newParseError(lineNo, line, "unrecognized line")
	}
	opName := fields[0]
	if fields[1] != "in" {
		return ir.Instruction{}, newParseError(lineNo, line, "expected `in` after opcode")
	}
	declaredIn, err := strconv.Atoi(fields[2])
	if err != nil {
		return ir.Instruction{}, newParseError(lineNo, line, "bad input count %q", fields[2])
	}

	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, opName))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "in"))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, fields[2]))

	inStr, rest, err := bracketed(lineNo, line, rest)
	if err != nil {
		return ir.Instruction{}, err
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "out") {
		return ir.Instruction{}, newParseError(lineNo, line, "expected `out <...>`")
	}
	rest = strings.TrimSpace(rest[len("out"):])
	fields2 := strings.Fields(rest)
	if len(fields2) < 1 {
		return ir.Instruction{}, newParseError(lineNo, line, "expected output count")
	}
	declaredOut, err := strconv.Atoi(fields2[0])
	if err != nil {
		return ir.Instruction{}, newParseError(lineNo, line, "bad output count %q", fields2[0])
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, fields2[0]))
	outStr, rest, err := bracketed(lineNo, line, rest)
	if err != nil {
		return ir.Instruction{}, err
	}
	if strings.TrimSpace(rest) != "" {
		return ir.Instruction{}, newParseError(lineNo, line, "unexpected trailing content")
	}

	inputs, err := parseWireList(lineNo, line, inStr)
	if err != nil {
		return ir.Instruction{}, err
	}
	if len(inputs) != declaredIn {
		return ir.Instruction{}, newParseError(lineNo, line, "declares %d inputs, got %d", declaredIn, len(inputs))
	}
	outputs, err := parseWireList(lineNo, line, outStr)
	if err != nil {
		return ir.Instruction{}, err
	}
	if len(outputs) != declaredOut {
		return ir.Instruction{}, newParseError(lineNo, line, "declares %d outputs, got %d", declaredOut, len(outputs))
	}

	opcode, constant, err := classifyOpcode(lineNo, line, opName)
	if err != nil {
		return ir.Instruction{}, err
	}

	if err := checkArity(lineNo, line, opcode, len(inputs), len(outputs)); err != nil {
		return ir.Instruction{}, err
	}

	for _, w := range inputs {
		p.wt.Lookup(w)
	}
	for _, w := range outputs {
		p.wt.Lookup(w)
	}

	p.log.Debug().Str("op", opName).Int("inputs", len(inputs)).Int("outputs", len(outputs)).Msg("parsed instruction")

	return ir.Instruction{
		Opcode:   opcode,
		Constant: constant,
		Inputs:   inputs,
		Outputs:  outputs,
	}, nil
}

func classifyOpcode(lineNo int, line, opName string) (ir.Opcode, field.Element, error) {
	switch opName {
	case "add":
		return ir.Add, field.Zero(), nil
	case "pack":
		return ir.Pack, field.Zero(), nil
	case "zerop":
		return ir.Zerop, field.Zero(), nil
	case "split":
		return ir.Split, field.Zero(), nil
	}
	if op, ok := binaryArity[opName]; ok {
		return op, field.Zero(), nil
	}
	if strings.HasPrefix(opName, prefixConstMulNeg) {
		hex := opName[len(prefixConstMulNeg):]
		c, err := field.ParseHex(hex)
		if err != nil {
			return 0, field.Element{}, newParseError(lineNo, line, "bad const-mul-neg constant %q", hex)
		}
		return ir.ConstMulNeg, field.Neg(c), nil
	}
	if strings.HasPrefix(opName, prefixConstMul) {
		hex := opName[len(prefixConstMul):]
		c, err := field.ParseHex(hex)
		if err != nil {
			return 0, field.Element{}, newParseError(lineNo, line, "bad const-mul constant %q", hex)
		}
		return ir.ConstMul, c, nil
	}
	return 0, field.Element{}, newParseError(lineNo, line, "unrecognized opcode %q", opName)
}

func checkArity(lineNo int, line string, op ir.Opcode, nIn, nOut int) error {
	switch op {
	case ir.Add:
		if nIn < 2 || nOut != 1 {
			return newParseError(lineNo, line, "add requires >=2 inputs and 1 output, got %d/%d", nIn, nOut)
		}
	case ir.Mul, ir.Xor, ir.Or, ir.Assert:
		if nIn != 2 || nOut != 1 {
			return newParseError(lineNo, line, "%s requires 2 inputs and 1 output, got %d/%d", op, nIn, nOut)
		}
	case ir.Zerop:
		if nIn != 1 || nOut != 2 {
			return newParseError(lineNo, line, "zerop requires 1 input and 2 outputs, got %d/%d", nIn, nOut)
		}
	case ir.Split:
		if nIn != 1 || nOut < 1 {
			return newParseError(lineNo, line, "split requires 1 input and >=1 outputs, got %d/%d", nIn, nOut)
		}
	case ir.Pack:
		if nIn < 1 || nOut != 1 {
			return newParseError(lineNo, line, "pack requires >=1 inputs and 1 output, got %d/%d", nIn, nOut)
		}
	case ir.ConstMul, ir.ConstMulNeg:
		if nIn != 1 || nOut != 1 {
			return newParseError(lineNo, line, "%s requires 1 input and 1 output, got %d/%d", op, nIn, nOut)
		}
	}
	return nil
}
