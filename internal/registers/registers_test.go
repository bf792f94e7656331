package registers

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ic10tools/ic10-lint/internal/ast"
	"github.com/ic10tools/ic10-lint/internal/diag"
	"github.com/ic10tools/ic10-lint/internal/symbols"
)

func analyze(t *testing.T, source string) *Analyzer {
	t.Helper()
	file := ast.Parse(source)
	table, _ := symbols.Build(file)
	a := NewAnalyzer()
	a.Analyze(file, table)
	return a
}

func TestStackPointerDefaultsToUsed(t *testing.T) {
	a := analyze(t, "")
	u, ok := a.Info("sp")
	if !ok {
		t.Fatalf("sp missing from usage map")
	}
	if u.State() != Used {
		t.Fatalf("sp state = %v, want Used", u.State())
	}
}

func TestReturnAddressReadWithoutWrite(t *testing.T) {
	a := analyze(t, "Travel:\n    j ra\n")
	u, _ := a.Info("ra")
	if u.State() != Used {
		t.Fatalf("ra state = %v, want Used", u.State())
	}
}

func TestIndirectionRegistersTracked(t *testing.T) {
	a := analyze(t, "move rr5 1\npush rr5\n")
	u, _ := a.Info("rr5")
	if u.State() != Used {
		t.Fatalf("rr5 state = %v, want Used", u.State())
	}
}

func TestReferenceIdLoadSetsDeviceID(t *testing.T) {
	for _, src := range []string{
		"l r1 d0 ReferenceId\n",
		"lb r1 0 ReferenceId Average\n",
		"lbn r1 0 0 ReferenceId Average\n",
	} {
		a := analyze(t, src)
		if got := a.KindOf("r1"); got != KindDeviceID {
			t.Fatalf("%q: kind = %v, want DeviceID", strings.TrimSpace(src), got)
		}
	}
}

func TestMovePropagatesDeviceID(t *testing.T) {
	a := analyze(t, "l r1 d0 ReferenceId\nmove r2 r1\n")
	if got := a.KindOf("r2"); got != KindDeviceID {
		t.Fatalf("r2 kind = %v, want DeviceID", got)
	}
}

func TestMoveFromAliasPropagatesDeviceID(t *testing.T) {
	a := analyze(t, "alias foo r1\nl foo d0 ReferenceId\nmove r3 foo\n")
	if got := a.KindOf("r3"); got != KindDeviceID {
		t.Fatalf("r3 kind = %v, want DeviceID", got)
	}
}

func TestArithmeticCoercesToNumber(t *testing.T) {
	a := analyze(t, "l r1 d0 ReferenceId\nadd r4 r1 1\nj r4\n")
	if got := a.KindOf("r4"); got != KindNumber {
		t.Fatalf("r4 kind = %v, want Number", got)
	}
}

func TestGetIsAssignment(t *testing.T) {
	a := analyze(t, "get r5 d0 0\n")
	u, _ := a.Info("r5")
	if len(u.Assignments) == 0 {
		t.Fatalf("get must record an assignment to r5")
	}
}

func TestGetAssignsBeforeBranchRead(t *testing.T) {
	for _, src := range []string{
		"yield\nget r12 db 12\nbeqz r12 InitWaitLoop\n",
		"InitWaitLoop:\n    yield\n    get r12 db 12\n    beqz r12 InitWaitLoop\n",
	} {
		a := analyze(t, src)
		u, _ := a.Info("r12")
		if len(u.Assignments) == 0 {
			t.Fatalf("%q: get should record an assignment", src)
		}
		if len(u.Reads) == 0 {
			t.Fatalf("%q: beqz should record a read", src)
		}
		if u.State() != Used {
			t.Fatalf("%q: state = %v, want Used", src, u.State())
		}
	}
}

func TestIndirectionAssignmentSuppressed(t *testing.T) {
	a := analyze(t, "move rr15 1\n")
	for _, d := range a.Diagnostics() {
		if strings.Contains(d.Message, "rr15") {
			t.Fatalf("rr15 must not be reported: %q", d.Message)
		}
	}
}

func TestAssignedNotReadWarning(t *testing.T) {
	a := analyze(t, "move r2 1\nmove r0 2\nadd r0 r0 r0\nj r0\n")
	var found *diag.Diagnostic
	diags := a.Diagnostics()
	for i := range diags {
		if diags[i].Code == diag.CodeAssignedNotRead && diags[i].Payload == "r2" {
			found = &diags[i]
			break
		}
	}
	if found == nil {
		t.Fatalf("expected assigned-not-read warning for r2")
	}
	if found.Severity != diag.Warning {
		t.Fatalf("severity = %v, want Warning", found.Severity)
	}
	want := "Register r2 is assigned but never read. Consider removing to optimize register usage."
	if found.Message != want {
		t.Fatalf("message = %q", found.Message)
	}
}

func TestReadBeforeAssignError(t *testing.T) {
	a := analyze(t, "add r0 r3 1\nj r0\n")
	var found bool
	for _, d := range a.Diagnostics() {
		if d.Code == diag.CodeReadBeforeAssign && d.Payload == "r3" {
			found = true
			if d.Severity != diag.Error {
				t.Fatalf("severity = %v, want Error", d.Severity)
			}
			want := "Register r3 is read before being assigned a value."
			if d.Message != want {
				t.Fatalf("message = %q", d.Message)
			}
		}
	}
	if !found {
		t.Fatalf("expected read-before-assign error for r3")
	}
}

func TestAliasDisplayInMessage(t *testing.T) {
	a := analyze(t, "alias counter r2\nmove counter 1\n")
	var msgs []string
	for _, d := range a.Diagnostics() {
		if d.Payload == "r2" {
			msgs = append(msgs, d.Message)
		}
	}
	if len(msgs) == 0 {
		t.Fatalf("expected diagnostics for r2")
	}
	for _, m := range msgs {
		if !strings.Contains(m, "'counter' (r2)") {
			t.Fatalf("message %q missing alias display", m)
		}
	}
}

func TestIgnoreDirective(t *testing.T) {
	a := analyze(t, "# ignore r2, r5\nmove r2 1\nmove r5 2\n")
	for _, d := range a.Diagnostics() {
		if d.Payload == "r2" || d.Payload == "r5" {
			t.Fatalf("ignored register reported: %q", d.Message)
		}
	}
}

func TestIgnoreDirectiveWithColon(t *testing.T) {
	a := analyze(t, "# ignore: r7\nmove r7 1\n")
	for _, d := range a.Diagnostics() {
		if d.Payload == "r7" {
			t.Fatalf("ignored register reported: %q", d.Message)
		}
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	src := "alias pump d0\nmove r2 1\nadd r3 r2 1\nj r3\n"
	file := ast.Parse(src)
	table, _ := symbols.Build(file)
	a := NewAnalyzer()
	a.Analyze(file, table)
	first := a.Diagnostics()
	a.Analyze(file, table)
	second := a.Diagnostics()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("diagnostics changed across runs:\n%v\nvs\n%v", first, second)
	}
}

func TestJalAssignsReturnAddress(t *testing.T) {
	a := analyze(t, "jal work\nwork:\nj ra\n")
	u, _ := a.Info("ra")
	if u.State() != Used {
		t.Fatalf("ra state = %v, want Used", u.State())
	}
	if len(u.Assignments) == 0 {
		t.Fatalf("jal must record an assignment to ra")
	}
}

func TestHistoryDedupesSameLine(t *testing.T) {
	a := analyze(t, "add r1 r1 r1\n")
	u, _ := a.Info("r1")
	if len(u.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(u.History))
	}
	if u.History[0].Line != 1 {
		t.Fatalf("history line = %d, want 1", u.History[0].Line)
	}
	if u.History[0].Operation != "add r1 r1 r1" {
		t.Fatalf("history text = %q", u.History[0].Operation)
	}
}

func TestMoveLogicTypeConstant(t *testing.T) {
	a := analyze(t, "move r6 LogicType.Temperature\ns d0 LogicType r6\n")
	if got := a.KindOf("r6"); got != KindLogicType {
		t.Fatalf("r6 kind = %v, want LogicType", got)
	}
}
