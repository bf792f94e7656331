package typecheck

import (
	"strings"
	"testing"

	"github.com/ic10tools/ic10-lint/internal/ast"
	"github.com/ic10tools/ic10-lint/internal/diag"
	"github.com/ic10tools/ic10-lint/internal/registers"
	"github.com/ic10tools/ic10-lint/internal/symbols"
)

func check(t *testing.T, source string) []diag.Diagnostic {
	t.Helper()
	file := ast.Parse(source)
	table, _ := symbols.Build(file)
	analyzer := registers.NewAnalyzer()
	analyzer.Analyze(file, table)
	return NewChecker(table, analyzer).Check(file)
}

func messages(diags []diag.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Message
	}
	return out
}

func TestValidProgramIsClean(t *testing.T) {
	src := strings.Join([]string{
		"alias pump d0",
		"define Target 500",
		"start:",
		"l r0 pump Pressure",
		"slt r1 r0 Target",
		"s pump On r1",
		"yield",
		"j start",
	}, "\n")
	if diags := check(t, src); len(diags) != 0 {
		t.Fatalf("expected clean program, got %v", messages(diags))
	}
}

func TestInvalidInstruction(t *testing.T) {
	diags := check(t, "frobnicate r0 1\n")
	if len(diags) != 1 {
		t.Fatalf("got %v", messages(diags))
	}
	if diags[0].Message != "Invalid instruction" || diags[0].Severity != diag.Error {
		t.Fatalf("got %+v", diags[0])
	}
	if diags[0].Range.Start.Column != 0 || diags[0].Range.End.Column != len("frobnicate") {
		t.Fatalf("diagnostic must cover the operation, got %+v", diags[0].Range)
	}
}

func TestUppercaseOperationIsInvalid(t *testing.T) {
	diags := check(t, "MOVE r0 1\n")
	if len(diags) == 0 || diags[0].Message != "Invalid instruction" {
		t.Fatalf("got %v", messages(diags))
	}
}

func TestMissingArgument(t *testing.T) {
	diags := check(t, "add r0 r0\nj 0\n")
	var found bool
	for _, d := range diags {
		if d.Message == "Invalid number of arguments" {
			found = true
			if d.Range.Start.Line != 0 {
				t.Fatalf("diagnostic on line %d", d.Range.Start.Line)
			}
		}
	}
	if !found {
		t.Fatalf("got %v", messages(diags))
	}
}

func TestSuperfluousSingleArgument(t *testing.T) {
	diags := check(t, "yield 1\n")
	if len(diags) != 1 {
		t.Fatalf("got %v", messages(diags))
	}
	want := "Superfluous argument. 'yield' only requires 0 arguments."
	if diags[0].Message != want {
		t.Fatalf("message = %q", diags[0].Message)
	}
}

func TestSuperfluousMultipleArguments(t *testing.T) {
	diags := check(t, "move r0 1 2 3\n")
	if len(diags) != 1 {
		t.Fatalf("got %v", messages(diags))
	}
	want := "Superfluous arguments. 'move' only requires 2 arguments."
	if diags[0].Message != want {
		t.Fatalf("message = %q", diags[0].Message)
	}
	if diags[0].Range.Start.Column != len("move r0 1 ") {
		t.Fatalf("range must start at the first excess operand, got %+v", diags[0].Range)
	}
}

func TestTypeMismatch(t *testing.T) {
	diags := check(t, "move 1 2\n")
	if len(diags) != 1 {
		t.Fatalf("got %v", messages(diags))
	}
	want := "Type mismatch. Found num, expected r"
	if diags[0].Message != want {
		t.Fatalf("message = %q", diags[0].Message)
	}
}

func TestUnknownIdentifier(t *testing.T) {
	diags := check(t, "move r0 Bogus\n")
	var found bool
	for _, d := range diags {
		if d.Message == "Unknown identifier" && d.Severity == diag.Error {
			found = true
		}
		if strings.HasPrefix(d.Message, "Type mismatch") {
			t.Fatalf("unknown identifier must not also produce a mismatch: %v", messages(diags))
		}
	}
	if !found {
		t.Fatalf("got %v", messages(diags))
	}
}

func TestDefineNameIsNotUnknown(t *testing.T) {
	diags := check(t, "define Limit 100\n")
	if len(diags) != 0 {
		t.Fatalf("got %v", messages(diags))
	}
}

func TestDefineUsedAsNumber(t *testing.T) {
	diags := check(t, "define Limit 100\nmove r0 Limit\nj r0\n")
	if len(diags) != 0 {
		t.Fatalf("got %v", messages(diags))
	}
}

func TestDefineCaseWarning(t *testing.T) {
	diags := check(t, "define Limit 100\nmove r0 limit\n")
	var found bool
	for _, d := range diags {
		if d.Message == "Define 'limit' differs in case from canonical 'Limit'." {
			found = true
			if d.Severity != diag.Warning {
				t.Fatalf("severity = %v", d.Severity)
			}
		}
	}
	if !found {
		t.Fatalf("got %v", messages(diags))
	}
}

func TestLabelUsedAsNumber(t *testing.T) {
	diags := check(t, "loop:\nj loop\n")
	if len(diags) != 0 {
		t.Fatalf("got %v", messages(diags))
	}
}

func TestAliasSatisfiesRegisterParameter(t *testing.T) {
	diags := check(t, "alias counter r1\nmove counter 5\nadd r0 counter 1\nj r0\n")
	if len(diags) != 0 {
		t.Fatalf("got %v", messages(diags))
	}
}

func TestDeviceAliasSatisfiesDeviceParameter(t *testing.T) {
	diags := check(t, "alias sensor d0\nl r0 sensor Temperature\nj r0\n")
	if len(diags) != 0 {
		t.Fatalf("got %v", messages(diags))
	}
}

func TestDeviceIDRegisterSatisfiesDeviceParameter(t *testing.T) {
	diags := check(t, "l r1 d0 ReferenceId\nl r0 r1 Temperature\nj r0\n")
	if len(diags) != 0 {
		t.Fatalf("got %v", messages(diags))
	}
}

func TestNumberRegisterRejectedAsDevice(t *testing.T) {
	diags := check(t, "add r1 1 2\nl r0 r1 Temperature\nj r0\n")
	var found bool
	for _, d := range diags {
		if strings.HasPrefix(d.Message, "Type mismatch") {
			found = true
			if !strings.Contains(d.Message, "expected d") {
				t.Fatalf("message = %q", d.Message)
			}
		}
	}
	if !found {
		t.Fatalf("number-kind register must not satisfy a device parameter: %v", messages(diags))
	}
}

func TestRegisterSatisfiesLogicTypeParameter(t *testing.T) {
	diags := check(t, "move r1 10\nl r0 d0 r1\nj r0\n")
	if len(diags) != 0 {
		t.Fatalf("got %v", messages(diags))
	}
}

func TestKeywordCaseWarning(t *testing.T) {
	diags := check(t, "l r0 d0 pressure\nj r0\n")
	var found bool
	for _, d := range diags {
		if strings.Contains(d.Message, "matches a known logic/parameter type by name but differs by case") {
			found = true
			if d.Severity != diag.Warning {
				t.Fatalf("severity = %v", d.Severity)
			}
		}
	}
	if !found {
		t.Fatalf("got %v", messages(diags))
	}
}

func TestEnumCaseWarning(t *testing.T) {
	diags := check(t, "move r0 logictype.temperature\nj r0\n")
	var found bool
	for _, d := range diags {
		if d.Message == "Enum 'logictype.temperature' differs in case from canonical 'LogicType.Temperature'." {
			found = true
		}
	}
	if !found {
		t.Fatalf("got %v", messages(diags))
	}
}

func TestHashKnownDeviceIsClean(t *testing.T) {
	diags := check(t, "define Pump HASH(\"StructureVolumePump\")\n")
	if len(diags) != 0 {
		t.Fatalf("got %v", messages(diags))
	}
}

func TestHashUnknownDeviceInformation(t *testing.T) {
	diags := check(t, "define Gizmo HASH(\"StructureDoesNotExist\")\n")
	if len(diags) != 1 {
		t.Fatalf("got %v", messages(diags))
	}
	want := "Unrecognized device name 'StructureDoesNotExist' in HASH(...). Will be treated as number."
	if diags[0].Message != want || diags[0].Severity != diag.Information {
		t.Fatalf("got %+v", diags[0])
	}
}

func TestBatchLoadSignature(t *testing.T) {
	diags := check(t, "define Pump HASH(\"StructureVolumePump\")\nlb r0 Pump Pressure Average\nj r0\n")
	if len(diags) != 0 {
		t.Fatalf("got %v", messages(diags))
	}
}
