package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/ic10tools/ic10-lint/internal/config"
	"github.com/ic10tools/ic10-lint/internal/diag"
	"github.com/ic10tools/ic10-lint/internal/facts"
	"github.com/ic10tools/ic10-lint/internal/policy"
	"github.com/ic10tools/ic10-lint/internal/validator"
)

// Runner drives the whole pipeline: file discovery, per-document
// analysis, fact table construction, CUE contract validation, and OPA
// policy evaluation.
type Runner struct {
	// Configuration loaded from ic10_lint.json
	Config *config.Config

	// Analyzed documents from the last run
	Documents []*Document

	// Fact tables built from the last run
	Tables facts.Tables

	// Directory with additional *.rego policy files ("" = built-ins only)
	PolicyDir string

	// Verbose output
	Verbose bool

	// JSON output mode
	JSONOutput bool
}

// LintResult is the structured result of running the linter.
// This can be serialized to JSON for programmatic consumption
type LintResult struct {
	// Violations found by policy evaluation
	Violations []policy.Violation `json:"violations"`

	// Summary counts across diagnostics and violations
	Summary ResultSummary `json:"summary"`

	// Analysis statistics
	Stats AnalysisStats `json:"stats"`

	// Per-file breakdown
	Files []FileResult `json:"files"`

	// Read errors encountered
	ParseErrors []ParseError `json:"parse_errors,omitempty"`
}

// ResultSummary provides aggregate counts
type ResultSummary struct {
	TotalViolations int `json:"total_violations"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
	Hints           int `json:"hints"`
}

// AnalysisStats provides counts of analyzed elements
type AnalysisStats struct {
	Files        int `json:"files"`
	Instructions int `json:"instructions"`
	Defines      int `json:"defines"`
	Aliases      int `json:"aliases"`
	Labels       int `json:"labels"`
	Registers    int `json:"registers"`
	Diagnostics  int `json:"diagnostics"`
}

// FileResult is the per-file diagnostic breakdown
type FileResult struct {
	Path        string            `json:"path"`
	Errors      int               `json:"errors"`
	Warnings    int               `json:"warnings"`
	Info        int               `json:"info"`
	Hints       int               `json:"hints"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

// ParseError is a file that could not be read
type ParseError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// New creates a Runner with configuration loaded lazily by Run.
func New() *Runner {
	return &Runner{}
}

// NewWithConfig creates a Runner with an explicit configuration.
func NewWithConfig(cfg *config.Config) *Runner {
	return &Runner{Config: cfg}
}

type analyzedFile struct {
	doc *Document
	err error
}

// Run analyzes every script under rootPath and reports the result on
// stdout, JSON or text depending on the output mode.
func (r *Runner) Run(rootPath string) error {
	result, err := r.Evaluate(rootPath)
	if err != nil {
		return err
	}

	if r.JSONOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
		return nil
	}

	r.printText(result)
	return nil
}

// Evaluate runs the pipeline and returns the structured result without
// printing it.
func (r *Runner) Evaluate(rootPath string) (*LintResult, error) {
	runStart := time.Now()

	// 0. Load configuration if not already loaded
	if r.Config == nil {
		cfg, err := config.Load(rootPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		r.Config = cfg
	}

	// Reset per-run state
	r.Documents = nil

	// 1. Find all scripts using configuration. A direct file path
	// bypasses the glob expansion.
	var files []string
	if info, statErr := os.Stat(rootPath); statErr == nil && !info.IsDir() {
		files = []string{rootPath}
	} else {
		found, err := r.Config.GetAllFiles(rootPath)
		if err != nil {
			return nil, fmt.Errorf("scanning files: %w", err)
		}
		files = found
	}
	if r.Verbose && !r.JSONOutput {
		fmt.Printf("Found %d IC10 files\n", len(files))
	}

	// 2. Parallel per-file analysis
	workers := r.Config.Analysis.MaxParallelFiles
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sem := make(chan struct{}, workers)
	resultChan := make(chan analyzedFile, len(files))
	var wg sync.WaitGroup

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			content, err := os.ReadFile(f)
			if err != nil {
				resultChan <- analyzedFile{err: fmt.Errorf("%s: %w", f, err)}
				return
			}
			resultChan <- analyzedFile{doc: AnalyzeSource(f, string(content), r.Config)}
		}(file)
	}

	wg.Wait()
	close(resultChan)

	var readErrs []error
	for res := range resultChan {
		if res.err != nil {
			readErrs = append(readErrs, res.err)
			continue
		}
		r.Documents = append(r.Documents, res.doc)
	}
	sort.Slice(r.Documents, func(i, j int) bool {
		return r.Documents[i].Path < r.Documents[j].Path
	})

	// 3. Build and validate fact tables (CUE contract enforcement)
	fileFacts := make([]facts.FileFacts, 0, len(r.Documents))
	for _, doc := range r.Documents {
		fileFacts = append(fileFacts, facts.FileFacts{
			Path:        doc.Path,
			File:        doc.File,
			Table:       doc.Table,
			Registers:   doc.Registers,
			Diagnostics: doc.Diagnostics,
		})
	}
	r.Tables = facts.BuildTables(fileFacts)

	factsValidator, err := validator.NewFactsValidator()
	if err != nil {
		return nil, fmt.Errorf("CRITICAL: Failed to initialize facts validator: %w", err)
	}
	if err := factsValidator.Validate(r.Tables); err != nil {
		return nil, fmt.Errorf("CRITICAL: Fact table contract violation: %w", err)
	}

	// 4. Policy evaluation
	policyEngine, err := policy.New(r.PolicyDir)
	if err != nil {
		return nil, fmt.Errorf("initialize policy engine: %w", err)
	}
	policyResult, err := policyEngine.Evaluate(policy.Input{
		Limits: policy.Limits{
			MaxLines:   r.Config.Limits.MaxLines,
			MaxColumns: r.Config.Limits.MaxColumns,
			MaxBytes:   r.Config.Limits.MaxBytes,
		},
		Tables: r.Tables,
	})
	if err != nil {
		return nil, fmt.Errorf("policy evaluation failed: %w", err)
	}

	// 5. Assemble and validate the result
	result := r.buildResult(policyResult, readErrs)

	outputValidator, err := validator.NewOutputValidator()
	if err != nil {
		return nil, fmt.Errorf("CRITICAL: Failed to initialize output validator: %w", err)
	}
	if err := outputValidator.Validate(result); err != nil {
		return nil, fmt.Errorf("CRITICAL: Output contract violation: %w", err)
	}

	if r.Verbose && !r.JSONOutput {
		fmt.Printf("Analyzed %d files in %s\n", len(r.Documents), time.Since(runStart).Round(time.Millisecond))
	}
	return result, nil
}

func (r *Runner) buildResult(policyResult *policy.Result, readErrs []error) *LintResult {
	result := &LintResult{
		Violations:  []policy.Violation{},
		Files:       []FileResult{},
		ParseErrors: []ParseError{},
		Stats: AnalysisStats{
			Files:        len(r.Tables.Files),
			Instructions: len(r.Tables.Instructions),
			Defines:      len(r.Tables.Defines),
			Aliases:      len(r.Tables.Aliases),
			Labels:       len(r.Tables.Labels),
			Registers:    len(r.Tables.Registers),
			Diagnostics:  len(r.Tables.Diagnostics),
		},
	}

	for _, v := range policyResult.Violations {
		if !r.Config.IsRuleEnabled(v.Rule) {
			continue
		}
		result.Violations = append(result.Violations, v)
		result.Summary.TotalViolations++
		switch v.Severity {
		case "error":
			result.Summary.Errors++
		case "warning":
			result.Summary.Warnings++
		case "info":
			result.Summary.Info++
		}
	}

	for _, doc := range r.Documents {
		fr := FileResult{
			Path:        doc.Path,
			Diagnostics: doc.Diagnostics,
		}
		if fr.Diagnostics == nil {
			fr.Diagnostics = []diag.Diagnostic{}
		}
		for _, d := range doc.Diagnostics {
			switch d.Severity {
			case diag.Error:
				fr.Errors++
				result.Summary.Errors++
			case diag.Warning:
				fr.Warnings++
				result.Summary.Warnings++
			case diag.Information:
				fr.Info++
				result.Summary.Info++
			case diag.Hint:
				fr.Hints++
				result.Summary.Hints++
			}
		}
		result.Files = append(result.Files, fr)
	}

	for _, err := range readErrs {
		result.ParseErrors = append(result.ParseErrors, ParseError{Message: err.Error()})
	}
	return result
}

func (r *Runner) printText(result *LintResult) {
	for _, fr := range result.Files {
		if len(fr.Diagnostics) == 0 {
			continue
		}
		fmt.Printf("\n=== %s ===\n", fr.Path)
		for _, d := range fr.Diagnostics {
			fmt.Printf("  %s:%d:%d %s: %s\n",
				fr.Path, d.Range.Start.Line+1, d.Range.Start.Column+1,
				d.Severity, d.Message)
		}
	}

	if len(result.Violations) > 0 {
		fmt.Printf("\n=== Policy Violations ===\n")
		for _, v := range result.Violations {
			icon := "ℹ"
			if v.Severity == "error" {
				icon = "✗"
			} else if v.Severity == "warning" {
				icon = "⚠"
			}
			fmt.Printf("%s [%s] %s - %s\n", icon, v.Rule, v.File, v.Message)
		}
	}

	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("  Errors:   %d\n", result.Summary.Errors)
	fmt.Printf("  Warnings: %d\n", result.Summary.Warnings)
	fmt.Printf("  Info:     %d\n", result.Summary.Info)

	fmt.Printf("\n=== Analysis Summary ===\n")
	fmt.Printf("  Files:        %d\n", result.Stats.Files)
	fmt.Printf("  Instructions: %d\n", result.Stats.Instructions)
	fmt.Printf("  Defines:      %d\n", result.Stats.Defines)
	fmt.Printf("  Aliases:      %d\n", result.Stats.Aliases)
	fmt.Printf("  Labels:       %d\n", result.Stats.Labels)

	if len(result.ParseErrors) > 0 {
		fmt.Printf("\n=== Read Errors ===\n")
		for _, e := range result.ParseErrors {
			fmt.Printf("  %s\n", e.Message)
		}
	}
}
