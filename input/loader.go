// Package input parses the `<wire-id> <sep> <hex-value>` witness files
// that supply initial wire values before evaluation.
//
// Grounded on CircuitReader::parseInputs in
// original_source/cxx/circuit_reader.cpp, whose sscanf pattern
// "%u%[= ]%s" accepts any run of '=' and/or space characters as the
// separator between the wire id and its hex value - that permissiveness is
// preserved verbatim via the separator regexp below.
package input

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/ethsnarks-go/circuitcore/field"
	"github.com/ethsnarks-go/circuitcore/ir"
	"github.com/rs/zerolog"
)

// InputError reports a malformed input-file line.
type InputError struct {
	LineNo int
	Line   string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input file line %d: %s: %q", e.LineNo, e.Reason, e.Line)
}

var entryPattern = regexp.MustCompile(`^(\d+)[= ]+([0-9a-fA-F]+)$`)

// Load reads wire-value assignments from r and writes them into wt. Entries
// for the same wire id that appear more than once are not defined by the
// format; as in the reference reader, the last one read wins.
func Load(r io.Reader, wt *ir.WireTable, log zerolog.Logger) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		m := entryPattern.FindStringSubmatch(line)
		if m == nil {
			return &InputError{LineNo: lineNo, Line: line, Reason: "expected `<wire-id>[= ]<hex-value>`"}
		}
		wireID, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			return &InputError{LineNo: lineNo, Line: line, Reason: "bad wire id"}
		}
		val, err := field.ParseHex(m[2])
		if err != nil {
			return &InputError{LineNo: lineNo, Line: line, Reason: "bad hex value"}
		}
		w := ir.Wire(wireID)
		wt.WriteValue(w, val)
		log.Debug().Uint64("wire", wireID).Str("value", val.String()).Msg("loaded input")
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input: reading input file: %w", err)
	}
	return nil
}
