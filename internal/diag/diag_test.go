package diag

import (
	"reflect"
	"testing"

	"github.com/ic10tools/ic10-lint/internal/ast"
)

func at(line, startCol, endCol int) ast.Range {
	return ast.Range{
		Start: ast.Position{Line: line, Column: startCol},
		End:   ast.Position{Line: line, Column: endCol},
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{Error, "error"},
		{Warning, "warning"},
		{Information, "info"},
		{Hint, "hint"},
		{Severity(0), "unknown"},
		{Severity(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Fatalf("Severity(%d).String() = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

func TestAggregatorDropsDuplicates(t *testing.T) {
	agg := NewAggregator()
	agg.Add(Diagnostic{Severity: Warning, Range: at(0, 0, 4), Message: "unused register", Code: CodeAssignedNotRead})
	agg.Add(Diagnostic{Severity: Error, Range: at(0, 0, 4), Message: "unused register"})
	got := agg.Result()
	if len(got) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(got))
	}
	// First occurrence wins, including its severity and code.
	if got[0].Severity != Warning || got[0].Code != CodeAssignedNotRead {
		t.Fatalf("kept wrong diagnostic: %+v", got[0])
	}
}

func TestAggregatorKeepsDistinctMessages(t *testing.T) {
	agg := NewAggregator()
	agg.Add(
		Diagnostic{Severity: Error, Range: at(0, 0, 4), Message: "first"},
		Diagnostic{Severity: Error, Range: at(0, 0, 4), Message: "second"},
		Diagnostic{Severity: Error, Range: at(0, 0, 5), Message: "first"},
	)
	if got := agg.Result(); len(got) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(got))
	}
}

func TestResultSortsByRangeThenMessage(t *testing.T) {
	agg := NewAggregator()
	agg.Add(
		Diagnostic{Range: at(2, 0, 1), Message: "c"},
		Diagnostic{Range: at(0, 5, 9), Message: "b"},
		Diagnostic{Range: at(0, 5, 9), Message: "a"},
		Diagnostic{Range: at(0, 2, 4), Message: "d"},
	)
	got := agg.Result()
	want := []string{"d", "a", "b", "c"}
	var msgs []string
	for _, d := range got {
		msgs = append(msgs, d.Message)
	}
	if !reflect.DeepEqual(msgs, want) {
		t.Fatalf("order = %v, want %v", msgs, want)
	}
}

func TestResultDoesNotAliasInternalSlice(t *testing.T) {
	agg := NewAggregator()
	agg.Add(Diagnostic{Range: at(0, 0, 1), Message: "only"})
	first := agg.Result()
	first[0].Message = "mutated"
	second := agg.Result()
	if second[0].Message != "only" {
		t.Fatalf("internal state mutated: %+v", second[0])
	}
}

func TestSortIsStableForEqualKeys(t *testing.T) {
	diags := []Diagnostic{
		{Range: at(1, 0, 2), Message: "same", Code: "first"},
		{Range: at(1, 0, 2), Message: "same", Code: "second"},
	}
	Sort(diags)
	if diags[0].Code != "first" || diags[1].Code != "second" {
		t.Fatalf("stable order lost: %+v", diags)
	}
}
