package facts

import (
	"testing"

	"github.com/ic10tools/ic10-lint/internal/ast"
	"github.com/ic10tools/ic10-lint/internal/registers"
	"github.com/ic10tools/ic10-lint/internal/symbols"
)

func analyzeScript(t *testing.T, path, source string) FileFacts {
	t.Helper()
	file := ast.Parse(source)
	table, diags := symbols.Build(file)
	analyzer := registers.NewAnalyzer()
	analyzer.Analyze(file, table)
	diags = append(diags, analyzer.Diagnostics()...)
	return FileFacts{
		Path:        path,
		File:        file,
		Table:       table,
		Registers:   analyzer,
		Diagnostics: diags,
	}
}

func TestBuildTablesPopulatesCoreRelations(t *testing.T) {
	source := "define Limit 500\nalias pump d0\nstart:\nl r0 pump Pressure\nblt r0 Limit start\n"
	tables := BuildTables([]FileFacts{analyzeScript(t, "test/a.ic10", source)})

	if len(tables.Files) != 1 {
		t.Fatalf("expected 1 file row, got %d", len(tables.Files))
	}
	if tables.Files[0].Instructions != 4 {
		t.Fatalf("expected 4 instruction rows counted, got %d", tables.Files[0].Instructions)
	}
	if len(tables.Defines) != 1 || tables.Defines[0].Name != "Limit" {
		t.Fatalf("expected define Limit, got %+v", tables.Defines)
	}
	if !tables.Defines[0].HasNumeric || tables.Defines[0].Numeric != 500 {
		t.Fatalf("expected numeric define value 500, got %+v", tables.Defines[0])
	}
	if len(tables.Aliases) != 1 || tables.Aliases[0].Kind != "device" {
		t.Fatalf("expected device alias, got %+v", tables.Aliases)
	}
	if len(tables.Labels) != 1 || tables.Labels[0].Name != "start" {
		t.Fatalf("expected label start, got %+v", tables.Labels)
	}
	if len(tables.Instructions) != 4 {
		t.Fatalf("expected 4 instruction rows, got %d", len(tables.Instructions))
	}
}

func TestBuildTablesRegisterRows(t *testing.T) {
	source := "move r0 1\nmove r1 2\nadd r0 r0 r1\ns d0 Setting r0\n"
	tables := BuildTables([]FileFacts{analyzeScript(t, "a.ic10", source)})

	states := make(map[string]string)
	for _, row := range tables.Registers {
		states[row.Name] = row.State
	}
	if states["r0"] != "used" {
		t.Fatalf("expected r0 used, got %q", states["r0"])
	}
	if states["r1"] != "used" {
		t.Fatalf("expected r1 used, got %q", states["r1"])
	}
}

func TestBuildTablesDiagnosticRows(t *testing.T) {
	source := "move r0 1\n"
	facts := analyzeScript(t, "a.ic10", source)
	tables := BuildTables([]FileFacts{facts})

	found := false
	for _, row := range tables.Diagnostics {
		if row.Code == "register_assigned_not_read" && row.Severity == "warning" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected assigned-not-read diagnostic row, got %+v", tables.Diagnostics)
	}
}

func TestBuildTablesSortsFileRows(t *testing.T) {
	tables := BuildTables([]FileFacts{
		analyzeScript(t, "b.ic10", "move r0 1\n"),
		analyzeScript(t, "a.ic10", "move r0 1\n"),
	})
	if len(tables.Files) != 2 || tables.Files[0].Path != "a.ic10" {
		t.Fatalf("expected file rows sorted by path, got %+v", tables.Files)
	}
}

func TestScriptBytesCountsNewlinesDouble(t *testing.T) {
	if got := ScriptBytes("ab\ncd\n"); got != 8 {
		t.Fatalf("expected 8 bytes, got %d", got)
	}
}
