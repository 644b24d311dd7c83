package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pierremrtn/chassis/internal/cli"
	"github.com/pierremrtn/chassis/internal/utils"
)

func main() {
	var (
		moduleFlag  = flag.String("module", "", "Custom module path (defaults to the enclosing go.mod module)")
		verboseFlag = flag.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = flag.Bool("quiet", false, "Only show errors and final results")
		cleanFlag   = flag.Bool("clean", false, "Delete all generated .chassis.go files from the specified directories")
		helpFlag    = flag.Bool("help", false, "Show help information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <directory-paths...>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Chassis Code Generator\n")
		fmt.Fprintf(os.Stderr, "Scans directories for Go files with chassis:: markers and generates message,\n")
		fmt.Fprintf(os.Stderr, "handler, and bus wiring code.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nArguments:\n")
		fmt.Fprintf(os.Stderr, "  directory-paths    One or more directories to scan for marked Go files\n")
		fmt.Fprintf(os.Stderr, "                     Supports Go-style patterns like './...' for recursive scanning\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s ./...                                  # Scan everything recursively\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s ./internal/bank                        # Scan one package\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --module example.com/acme/bank ./...   # Override the module path\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --clean ./...                          # Delete all generated files\n", os.Args[0])
	}

	flag.Parse()

	if *helpFlag {
		flag.Usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Error: At least one directory path is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	config := cli.Config{
		Directories: args,
		ModuleName:  *moduleFlag,
		Verbose:     *verboseFlag,
		Quiet:       *quietFlag,
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case config.Quiet:
		diagnostics = utils.NewQuietDiagnostics()
	case config.Verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	diagnostics.Section("Chassis Code Generator")

	if *cleanFlag {
		removed, err := cli.NewCleaner().Clean(args)
		if err != nil {
			diagnostics.Error("Clean operation failed: %v", err)
			os.Exit(1)
		}
		for _, path := range removed {
			diagnostics.Verbose("removed %s", path)
		}
		diagnostics.Success("Removed %d generated file(s)", len(removed))
		return
	}

	if config.Verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Target directories: %s", strings.Join(config.Directories, ", "))
		if config.ModuleName != "" {
			diagnostics.List("Custom module: %s", config.ModuleName)
		}
	}

	generator := cli.NewGenerator(config, diagnostics)
	if err := generator.Generate(); err != nil {
		diagnostics.Error("Generation failed: %v", err)
		os.Exit(1)
	}

	summary := generator.GetSummary()
	keys := []string{
		"Module",
		"Packages processed",
		"Methods extracted",
		"Handlers found",
		"Buses generated",
		"Files written",
		"Warnings",
	}
	diagnostics.Summary("Generation complete", keys, map[string]interface{}{
		"Module":             summary.ModulePath,
		"Packages processed": summary.PackagesProcessed,
		"Methods extracted":  summary.MethodsExtracted,
		"Handlers found":     summary.HandlersFound,
		"Buses generated":    summary.BusesGenerated,
		"Files written":      len(summary.GeneratedFiles),
		"Warnings":           summary.Warnings,
	})

	if config.Verbose {
		for _, file := range summary.GeneratedFiles {
			diagnostics.List("%s", file)
		}
	}
}
