// Command circuit-eval is the thin command-line harness around the
// circuit core: it owns file-system access and exit-code policy, both of
// which are explicitly kept out of the core itself.
//
// Grounded on the cobra+flag CLI shape in PolyhedraZK-Expander's main.go
// (other_examples/PolyhedraZK-Expander__main.go).
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ethsnarks-go/circuitcore/core"
	"github.com/ethsnarks-go/circuitcore/parser"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	exitOK               = 0
	exitUsage            = 1
	exitUnsatisfiedOrErr = 2
	exitMissingArgs      = 5
	exitArityOrSize      = 6
)

var (
	circuitPath  string
	inputPath    string
	dumpR1CSPath string
	verbose      bool
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:   "circuit-eval",
		Short: "Parse, evaluate, and emit R1CS constraints for a Pinocchio arithmetic circuit",
	}
	var exitCode int

	evalCmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a circuit and report constraint satisfaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = doEval()
			return nil
		},
	}
	evalCmd.Flags().StringVar(&circuitPath, "circuit", "", "path to the circuit (.arith) file")
	evalCmd.Flags().StringVar(&inputPath, "input", "", "path to the input (witness) file")
	evalCmd.Flags().StringVar(&dumpR1CSPath, "dump-r1cs", "", "write the serialized R1CS artifact to this path")
	evalCmd.Flags().BoolVar(&verbose, "verbose", false, "trace each parsed instruction and loaded input entry")

	root.AddCommand(evalCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	return exitCode
}

func doEval() int {
	if circuitPath == "" {
		fmt.Fprintln(os.Stderr, "circuit-eval: --circuit is required")
		return exitMissingArgs
	}

	log := zerolog.Nop()
	if verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	circuitFile, err := os.Open(circuitPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "circuit-eval: %v\n", err)
		return exitUsage
	}
	defer circuitFile.Close()

	var inputFile *os.File
	var inputReader io.Reader
	if inputPath != "" {
		inputFile, err = os.Open(inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "circuit-eval: %v\n", err)
			return exitUsage
		}
		defer inputFile.Close()
		inputReader = inputFile
	}

	c, err := core.New(circuitFile, inputReader, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "circuit-eval: %v\n", err)
		if _, ok := err.(*parser.ParseError); ok {
			return exitArityOrSize
		}
		return exitUnsatisfiedOrErr
	}

	fmt.Printf("inputs=%d private_inputs=%d outputs=%d constraints=%d\n",
		c.NumInputs(), c.NumPrivateInputs(), c.NumOutputs(), c.NumConstraints())

	for _, w := range c.OutputWireIDs() {
		wv := c.WireValue(w)
		fmt.Printf("output %d = %s\n", w, wv.String())
	}

	if unset := c.ConstraintSystem().UnsetVariables(); verbose && len(unset) > 0 {
		log.Warn().Int("count", len(unset)).Msg("circuit has allocated variables that were never assigned a value")
	}

	if dumpR1CSPath != "" {
		dumpFile, err := os.Create(dumpR1CSPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "circuit-eval: %v\n", err)
			return exitUnsatisfiedOrErr
		}
		defer dumpFile.Close()
		if err := c.ConstraintSystem().DumpCBOR(dumpFile); err != nil {
			fmt.Fprintf(os.Stderr, "circuit-eval: %v\n", err)
			return exitUnsatisfiedOrErr
		}
	}

	if inputFile == nil {
		return exitOK
	}

	if !c.IsSatisfied() {
		fmt.Fprintln(os.Stderr, "circuit-eval: witness does not satisfy the constraint system")
		return exitUnsatisfiedOrErr
	}
	fmt.Println("satisfied")
	return exitOK
}
