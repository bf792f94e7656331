package facts

import (
	"sort"

	"github.com/ic10tools/ic10-lint/internal/ast"
	"github.com/ic10tools/ic10-lint/internal/diag"
	"github.com/ic10tools/ic10-lint/internal/registers"
	"github.com/ic10tools/ic10-lint/internal/symbols"
)

// FileFacts bundles the analysis products of one script for table
// construction.
type FileFacts struct {
	Path        string
	File        *ast.File
	Table       *symbols.Table
	Registers   *registers.Analyzer
	Diagnostics []diag.Diagnostic
}

// Tables is the relational fact model for the policy engine.
// Each slice is a relation (table) with flat rows.
type Tables struct {
	Files        []FileRow        `json:"files"`
	Defines      []DefineRow      `json:"defines"`
	Aliases      []AliasRow       `json:"aliases"`
	Labels       []LabelRow       `json:"labels"`
	Instructions []InstructionRow `json:"instructions"`
	Registers    []RegisterRow    `json:"registers"`
	Diagnostics  []DiagnosticRow  `json:"diagnostics"`
}

type FileRow struct {
	Path         string `json:"path"`
	Lines        int    `json:"lines"`
	Bytes        int    `json:"bytes"`
	Instructions int    `json:"instructions"`
}

type DefineRow struct {
	Name       string `json:"name"`
	Value      string `json:"value"`
	Numeric    int32  `json:"numeric"`
	HasNumeric bool   `json:"has_numeric"`
	File       string `json:"file"`
	Line       int    `json:"line"`
}

type AliasRow struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	Kind   string `json:"kind"`
	File   string `json:"file"`
	Line   int    `json:"line"`
}

type LabelRow struct {
	Name string `json:"name"`
	File string `json:"file"`
	Line int    `json:"line"`
}

type InstructionRow struct {
	Operation string `json:"operation"`
	Operands  int    `json:"operands"`
	File      string `json:"file"`
	Line      int    `json:"line"`
}

type RegisterRow struct {
	Name        string `json:"name"`
	Alias       string `json:"alias"`
	State       string `json:"state"`
	Kind        string `json:"kind"`
	Assignments int    `json:"assignments"`
	Reads       int    `json:"reads"`
	File        string `json:"file"`
}

type DiagnosticRow struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"end_line"`
	EndColumn int    `json:"end_column"`
	Severity  string `json:"severity"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// BuildTables converts per-file analysis products into a normalized
// relational model.
func BuildTables(fileFacts []FileFacts) Tables {
	tables := emptyTables()

	seenFiles := make(map[string]bool)
	for _, f := range fileFacts {
		if f.File == nil {
			continue
		}
		if !seenFiles[f.Path] {
			seenFiles[f.Path] = true
			tables.Files = append(tables.Files, FileRow{
				Path:         f.Path,
				Lines:        len(f.File.Lines),
				Bytes:        ScriptBytes(f.File.Source),
				Instructions: len(f.File.Instructions),
			})
		}

		if f.Table != nil {
			for _, name := range sortedDefineNames(f.Table) {
				d := f.Table.Defines[name]
				tables.Defines = append(tables.Defines, DefineRow{
					Name:       d.Name,
					Value:      d.RawValue,
					Numeric:    d.Numeric,
					HasNumeric: d.NumericOK,
					File:       f.Path,
					Line:       d.Range.Start.Line,
				})
			}
			for _, name := range sortedAliasNames(f.Table) {
				a := f.Table.Aliases[name]
				kind := "register"
				if a.Kind == symbols.AliasDevice {
					kind = "device"
				}
				tables.Aliases = append(tables.Aliases, AliasRow{
					Name:   a.Name,
					Target: a.Target,
					Kind:   kind,
					File:   f.Path,
					Line:   a.Range.Start.Line,
				})
			}
			for _, name := range sortedLabelNames(f.Table) {
				l := f.Table.Labels[name]
				tables.Labels = append(tables.Labels, LabelRow{
					Name: l.Name,
					File: f.Path,
					Line: l.Line,
				})
			}
		}

		for _, inst := range f.File.Instructions {
			tables.Instructions = append(tables.Instructions, InstructionRow{
				Operation: inst.Operation,
				Operands:  len(inst.Operands),
				File:      f.Path,
				Line:      inst.Span.Start.Line,
			})
		}

		if f.Registers != nil {
			for _, r := range f.Registers.Report() {
				tables.Registers = append(tables.Registers, RegisterRow{
					Name:        r.Name,
					Alias:       r.Alias,
					State:       r.State.String(),
					Kind:        r.Kind.String(),
					Assignments: r.Assignments,
					Reads:       r.Reads,
					File:        f.Path,
				})
			}
		}

		for _, d := range f.Diagnostics {
			tables.Diagnostics = append(tables.Diagnostics, DiagnosticRow{
				File:      f.Path,
				Line:      d.Range.Start.Line,
				Column:    d.Range.Start.Column,
				EndLine:   d.Range.End.Line,
				EndColumn: d.Range.End.Column,
				Severity:  d.Severity.String(),
				Code:      d.Code,
				Message:   d.Message,
			})
		}
	}

	sort.Slice(tables.Files, func(i, j int) bool { return tables.Files[i].Path < tables.Files[j].Path })

	return tables
}

// ScriptBytes counts source bytes the way the chip does: every
// character is one byte except newlines, which count as two.
func ScriptBytes(source string) int {
	n := 0
	for _, r := range source {
		if r == '\n' {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func emptyTables() Tables {
	return Tables{
		Files:        []FileRow{},
		Defines:      []DefineRow{},
		Aliases:      []AliasRow{},
		Labels:       []LabelRow{},
		Instructions: []InstructionRow{},
		Registers:    []RegisterRow{},
		Diagnostics:  []DiagnosticRow{},
	}
}

func sortedDefineNames(t *symbols.Table) []string {
	names := make([]string, 0, len(t.Defines))
	for name := range t.Defines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedAliasNames(t *symbols.Table) []string {
	names := make([]string, 0, len(t.Aliases))
	for name := range t.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedLabelNames(t *symbols.Table) []string {
	names := make([]string, 0, len(t.Labels))
	for name := range t.Labels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
