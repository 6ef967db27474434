// Command tainted-storage runs the tainted-storage detector over a
// compilation-unit snapshot and prints a report, mirroring the shape of
// gosec's cmd/gosec/main.go: a flag-driven CLI with a -fmt/-out/-strict
// set of options and a usage banner naming the registered detector.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mokita-j/tainted-storage/detectors"
	"github.com/mokita-j/tainted-storage/ir"
	"github.com/mokita-j/tainted-storage/report"
	"github.com/mokita-j/tainted-storage/storage"
)

const usageText = `
tainted-storage - Solidity storage taint checker

tainted-storage loads a compiled-IR snapshot of one or more Solidity
contracts and reports state variables whose stored value is tainted by
gasleft(), a gas-related global, a CREATE2-derived address, or
msg.sender.balance.

USAGE:

	# Check a snapshot and print a text report
	$ tainted-storage contracts.json

	# Check a snapshot and save a JSON report
	$ tainted-storage -fmt=json -out=results.json contracts.json

OPTIONS:

`

var (
	flagFormat = flag.String("fmt", "text", "Set output format. Valid options are: json, yaml, text")
	flagOutput = flag.String("out", "", "Set output file for results")
	flagColor  = flag.Bool("color", true, "Colorize the text format report")
	flagStrict = flag.Bool("strict", false, "Fail instead of reporting a finding with an unresolved storage slot")
	flagQuiet  = flag.Bool("quiet", false, "Only print output when findings are present")

	flagExtraGasGlobals arrayFlags
)

type arrayFlags []string

func (a *arrayFlags) String() string { return fmt.Sprint([]string(*a)) }
func (a *arrayFlags) Set(v string) error {
	*a = append(*a, v)
	return nil
}

func usage() {
	fmt.Fprint(os.Stderr, usageText)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nRULES:\n\n\t%s: %s\n\n", detectors.ID, detectors.TaintedStorage.Help)
}

func main() {
	flag.Usage = usage
	flag.Var(&flagExtraGasGlobals, "gas-global", "Additional tx/block global to treat as a gas-composed source (repeatable)")
	flag.Parse()

	logger := log.New(os.Stderr, "[tainted-storage] ", 0)

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one snapshot file argument")
		flag.Usage()
		os.Exit(exitUsageError)
	}

	if err := run(logger, flag.Arg(0)); err != nil {
		logger.Println(err)
		os.Exit(exitFromError(err))
	}
}

func run(logger *log.Logger, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSnapshotLoad, path, err)
	}
	defer f.Close()

	unit, err := ir.DecodeCompilationUnit(f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotLoad, err)
	}

	cfg := detectors.Config{ExtraGasGlobals: flagExtraGasGlobals, Strict: *flagStrict}
	detector := detectors.Register(storage.NewOracle(), cfg)
	findings, err := detector.Detect(unit)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStrictLayoutMiss, err)
	}

	if len(findings) == 0 && *flagQuiet {
		return nil
	}

	out := os.Stdout
	if *flagOutput != "" {
		outFile, err := os.Create(*flagOutput)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrReportWrite, *flagOutput, err)
		}
		defer outFile.Close()
		if err := report.CreateReport(outFile, *flagFormat, false, findings); err != nil {
			return fmt.Errorf("%w: %v", ErrReportWrite, err)
		}
		logger.Printf("Wrote %d finding(s) to %s", len(findings), *flagOutput)
		return nil
	}

	if err := report.CreateReport(out, *flagFormat, *flagColor, findings); err != nil {
		return fmt.Errorf("%w: %v", ErrReportWrite, err)
	}
	return nil
}
