package cmd

import (
	"fmt"
	"os"
	"strings"

	"scriptc/common"
	"scriptc/concrete"
	"scriptc/lower"
	"scriptc/report"
	"scriptc/script"

	"github.com/ComedicChimera/olive"
	"github.com/hashicorp/go-hclog"
)

// Execute is the main entry point for the `scriptc` CLI utility
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("scriptc", "scriptc specializes host modules into compiled types", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")
	cli.AddFlag("debug", "d", "trace resolution and specialization decisions to stderr")

	specCmd := cli.AddSubcommand("specialize", "specialize the module instances of a manifest", true)
	specCmd.AddPrimaryArg("manifest-path", "the path to the manifest", true)
	specCmd.AddFlag("emit-llvm", "e", "print the LLVM type definitions of the compiled types")

	cli.AddSubcommand("version", "print the scriptc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.InitReporter(report.LogLevelError)
		report.ReportFatal(err.Error())
	}

	logLevel, _ := report.LogLevelFromName(result.Arguments["loglevel"].(string))
	report.InitReporter(logLevel)

	if result.HasFlag("debug") {
		report.EnableTracing(hclog.Trace)
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "specialize":
		execSpecializeCommand(subResult)
	case "version":
		report.PrintInfoMessage("scriptc Version", common.ScriptcVersion)
	}
}

// execSpecializeCommand executes the specialize subcommand and handles all
// errors.
func execSpecializeCommand(result *olive.ArgParseResult) {
	manifestPath, _ := result.PrimaryArg()

	m, err := LoadManifest(manifestPath)
	if err != nil {
		report.ReportFatal("failed to load manifest: %s", err)
	}

	if m.VersionMismatch != "" {
		report.ReportCompileWarning(manifestPath, nil, "%s", m.VersionMismatch)
	}

	unit := script.NewUnit()
	cache := concrete.NewCache(unit)

	rows := [][]string{{"Instance", "Class", "Compiled Type", "Failed Attributes"}}
	for _, inst := range m.Instances {
		if row, ok := specializeInstance(manifestPath, cache, inst); ok {
			rows = append(rows, row)
		}
	}

	report.PrintTable(rows)
	report.PrintInfoMessage("Distinct Types", fmt.Sprintf("%d module type(s) for %d instance(s)", cache.Len(), len(m.Instances)))

	if result.HasFlag("emit-llvm") && report.ShouldProceed() {
		fmt.Println(unit.EmitLLVM().String())
	}

	report.ReportCompilationFinished()
}

// specializeInstance specializes one instance and returns its table row.
func specializeInstance(manifestPath string, cache *concrete.Cache, inst *NamedInstance) (row []string, ok bool) {
	defer report.CatchErrors(manifestPath)

	c := lower.NewCompiler(cache)
	cmt, err := c.Resolver().Specialize(nil, inst.Module)
	if err != nil {
		report.ReportError(manifestPath, err)
		return nil, false
	}

	return []string{
		inst.Name,
		cmt.Origin().QualifiedName().String(),
		cmt.JitType().Name.String(),
		strings.Join(cmt.FailedAttributeNames(), ", "),
	}, true
}
