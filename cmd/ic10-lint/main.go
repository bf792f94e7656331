// =============================================================================
// IC10 Linter - Main Entry Point
// =============================================================================
//
// This tool transforms IC10 scripts from "text files" into a "queryable
// database," enabling chip-limit and dataflow checks before a script
// ever reaches an IC housing.
//
// THE PIPELINE:
//   1. The line reader parses each script into instructions and labels
//   2. The symbol builder collects defines, aliases, and labels
//   3. The register analyzer tracks assignments, reads, and value kinds
//   4. The type checker matches operands against instruction signatures
//   5. CUE Validator enforces data contract (crash on schema mismatch)
//   6. OPA evaluates policy rules against the extracted fact tables
//   7. Diagnostics and violations are reported with file/line locations
//
// WHEN INVESTIGATING FALSE POSITIVES:
//   Start at the beginning of the pipeline, not the end!
//   Reader issues → Analyzer issues → Policy issues
// =============================================================================

package main

import (
	"fmt"
	"os"

	"github.com/ic10tools/ic10-lint/internal/analysis"
	"github.com/ic10tools/ic10-lint/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	switch cmd {
	case "init":
		runInit()
	case "-v", "--verbose":
		if len(os.Args) < 3 {
			printUsage()
			os.Exit(1)
		}
		runLint(os.Args[2], true, false)
	case "-j", "--json":
		if len(os.Args) < 3 {
			printUsage()
			os.Exit(1)
		}
		runLint(os.Args[2], false, true)
	case "-h", "--help", "help":
		printUsage()
	case "-c", "--config":
		if len(os.Args) < 4 {
			printUsage()
			os.Exit(1)
		}
		runLintWithConfig(os.Args[2], os.Args[3])
	default:
		runLint(cmd, false, false)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: ic10-lint [command] [options] <path>

Commands:
  init              Create an ic10_lint.json configuration file
  <path>            Lint IC10 scripts in the given path

Options:
  -v, --verbose     Enable verbose output
  -j, --json        Emit the result as JSON
  -c, --config      Specify config file: ic10-lint -c config.json <path>
  -h, --help        Show this help message

Configuration:
  ic10-lint looks for configuration in:
    1. ./ic10_lint.json
    2. ./.ic10_lint.json
    3. ~/.config/ic10_lint/config.json

  Run 'ic10-lint init' to create a default configuration file.`)
}

func runInit() {
	configPath := "ic10_lint.json"

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config file %s already exists. Overwrite? [y/N]: ", configPath)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return
		}
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Println("\nEdit this file to configure:")
	fmt.Println("  - Script file patterns")
	fmt.Println("  - Chip line, column, and byte limits")
	fmt.Println("  - Lint rule severities")
}

func runLint(path string, verbose, jsonOutput bool) {
	// Load config from default locations
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("Warning: Could not load config: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	runner := analysis.NewWithConfig(cfg)
	runner.Verbose = verbose
	runner.JSONOutput = jsonOutput
	if err := runner.Run(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runLintWithConfig(configPath, lintPath string) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config %s: %v\n", configPath, err)
		os.Exit(1)
	}

	runner := analysis.NewWithConfig(cfg)
	if err := runner.Run(lintPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
