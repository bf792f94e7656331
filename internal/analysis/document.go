// Package analysis drives the full diagnostic pipeline over IC10
// documents: symbol collection, register dataflow, type checking, and
// the chip-limit lints, merged through a deduplicating aggregator.
package analysis

import (
	"fmt"
	"strings"

	"github.com/ic10tools/ic10-lint/internal/ast"
	"github.com/ic10tools/ic10-lint/internal/catalog"
	"github.com/ic10tools/ic10-lint/internal/config"
	"github.com/ic10tools/ic10-lint/internal/diag"
	"github.com/ic10tools/ic10-lint/internal/registers"
	"github.com/ic10tools/ic10-lint/internal/symbols"
	"github.com/ic10tools/ic10-lint/internal/typecheck"
)

// Document is one fully analyzed script with its intermediate models.
type Document struct {
	Path        string
	File        *ast.File
	Table       *symbols.Table
	Registers   *registers.Analyzer
	Diagnostics []diag.Diagnostic
}

// AnalyzeSource runs every pass over a single script. Passes run in a
// fixed order so later producers can drop duplicates of earlier ones;
// the returned slice is sorted by position.
func AnalyzeSource(path, source string, cfg *config.Config) *Document {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	file := ast.Parse(source)
	table, defDiags := symbols.Build(file)

	analyzer := registers.NewAnalyzer()
	analyzer.Analyze(file, table)

	agg := diag.NewAggregator()
	agg.Add(defDiags...)
	agg.Add(syntaxErrors(file)...)
	agg.Add(typecheck.NewChecker(table, analyzer).Check(file)...)
	agg.Add(overlengthChecks(file, cfg)...)
	agg.Add(byteSizeCheck(source, cfg.Limits.MaxBytes)...)
	agg.Add(absoluteJumpLint(file, cfg)...)
	agg.Add(registerDiagnostics(analyzer, cfg)...)

	return &Document{
		Path:        path,
		File:        file,
		Table:       table,
		Registers:   analyzer,
		Diagnostics: agg.Result(),
	}
}

func syntaxErrors(file *ast.File) []diag.Diagnostic {
	var diags []diag.Diagnostic
	for _, errNode := range file.Errors {
		diags = append(diags, diag.Diagnostic{
			Severity: diag.Error,
			Range:    errNode.Span,
			Message:  "Syntax error",
		})
	}
	return diags
}

// overlengthChecks reports code past the chip's column and line limits.
// The column finding covers only the overflowing tail so the squiggle
// starts where the editor stops displaying.
func overlengthChecks(file *ast.File, cfg *config.Config) []diag.Diagnostic {
	maxColumns := cfg.Limits.MaxColumns
	maxLines := cfg.Limits.MaxLines
	warnComments := cfg.Lint.WarnOvercolumnComment == nil || *cfg.Lint.WarnOvercolumnComment
	warnOverline := cfg.Lint.WarnOverlineComment == nil || *cfg.Lint.WarnOverlineComment

	var diags []diag.Diagnostic
	for _, inst := range file.Instructions {
		if inst.Span.End.Column > maxColumns {
			diags = append(diags, diag.Diagnostic{
				Severity: diag.Error,
				Range: ast.Range{
					Start: ast.Position{Line: inst.Span.End.Line, Column: maxColumns},
					End:   inst.Span.End,
				},
				Message: fmt.Sprintf("Instruction past column %d", maxColumns),
			})
		}
	}
	if warnComments {
		for _, comment := range file.Comments {
			if comment.Span.End.Column > maxColumns {
				diags = append(diags, diag.Diagnostic{
					Severity: diag.Warning,
					Range: ast.Range{
						Start: ast.Position{Line: comment.Span.End.Line, Column: maxColumns},
						End:   comment.Span.End,
					},
					Message: fmt.Sprintf("Comment past column %d", maxColumns),
				})
			}
		}
	}

	for _, inst := range file.Instructions {
		if inst.Span.Start.Line >= maxLines {
			diags = append(diags, diag.Diagnostic{
				Severity: diag.Error,
				Range:    inst.Span,
				Message:  fmt.Sprintf("Instruction past line %d", maxLines),
			})
		}
	}
	if warnOverline {
		for _, comment := range file.Comments {
			if comment.Span.Start.Line >= maxLines {
				diags = append(diags, diag.Diagnostic{
					Severity: diag.Warning,
					Range:    comment.Span,
					Message:  fmt.Sprintf("Comment past line %d", maxLines),
				})
			}
		}
	}
	return diags
}

// byteSizeCheck enforces the chip's script size limit. The in-game
// editor stores newlines as two bytes, so they count double here. The
// finding spans from the first character past the limit to the end of
// the script.
func byteSizeCheck(source string, maxBytes int) []diag.Diagnostic {
	byteCount := 0
	var start *ast.Position
	line, col := 0, 0

	for _, r := range source {
		charLen := 1
		if r == '\n' {
			charLen = 2
		}
		if byteCount <= maxBytes && byteCount+charLen > maxBytes && start == nil {
			start = &ast.Position{Line: line, Column: col}
		}
		byteCount += charLen
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	if byteCount <= maxBytes {
		return nil
	}

	lines := strings.Split(source, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	endLine := len(lines) - 1
	endCol := len(lines[endLine])
	if start == nil {
		start = &ast.Position{Line: endLine, Column: 0}
	}
	return []diag.Diagnostic{{
		Severity: diag.Error,
		Range: ast.Range{
			Start: *start,
			End:   ast.Position{Line: endLine, Column: endCol},
		},
		Message: fmt.Sprintf("Script size (%d bytes) exceeds the maximum limit of %d bytes.", byteCount, maxBytes),
	}}
}

// absoluteJumpLint flags branches whose target is a literal line
// number. Labels survive edits; absolute line numbers do not.
func absoluteJumpLint(file *ast.File, cfg *config.Config) []diag.Diagnostic {
	if !cfg.IsRuleEnabled(diag.CodeAbsoluteJump) {
		return nil
	}
	severity := ruleSeverity(cfg, diag.CodeAbsoluteJump, diag.Warning)

	var diags []diag.Diagnostic
	for _, inst := range file.Instructions {
		if len(inst.Operands) == 0 || !catalog.IsBranch(inst.Operation) {
			continue
		}
		if _, ok := inst.Operands[len(inst.Operands)-1].(ast.Number); !ok {
			continue
		}
		diags = append(diags, diag.Diagnostic{
			Severity: severity,
			Range:    inst.Span,
			Message:  "Absolute jump to line number",
			Code:     diag.CodeAbsoluteJump,
		})
	}
	return diags
}

func registerDiagnostics(analyzer *registers.Analyzer, cfg *config.Config) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range analyzer.Diagnostics() {
		if d.Code != "" && !cfg.IsRuleEnabled(d.Code) {
			continue
		}
		if d.Code != "" {
			d.Severity = ruleSeverity(cfg, d.Code, d.Severity)
		}
		out = append(out, d)
	}
	return out
}

func ruleSeverity(cfg *config.Config, rule string, fallback diag.Severity) diag.Severity {
	switch cfg.GetRuleSeverity(rule, fallback.String()) {
	case "error":
		return diag.Error
	case "warning":
		return diag.Warning
	case "info":
		return diag.Information
	case "hint":
		return diag.Hint
	}
	return fallback
}
