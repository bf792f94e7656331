// Package registers tracks how each register of a document is assigned
// and read, infers the kind of value a register holds, and reports
// registers that are written but never consumed or consumed before any
// write.
package registers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ic10tools/ic10-lint/internal/ast"
	"github.com/ic10tools/ic10-lint/internal/catalog"
	"github.com/ic10tools/ic10-lint/internal/diag"
	"github.com/ic10tools/ic10-lint/internal/symbols"
)

// ValueKind is the inferred kind of value a register currently holds.
type ValueKind int

const (
	KindUnknown ValueKind = iota
	KindNumber
	KindDeviceID
	KindLogicType
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDeviceID:
		return "deviceId"
	case KindLogicType:
		return "logicType"
	default:
		return "unknown"
	}
}

// State summarizes a register's lifecycle over the whole document.
type State int

const (
	Unused State = iota
	AssignedNotRead
	ReadBeforeAssign
	Used
)

func (s State) String() string {
	switch s {
	case Unused:
		return "unused"
	case AssignedNotRead:
		return "assigned_not_read"
	case ReadBeforeAssign:
		return "read_before_assign"
	case Used:
		return "used"
	}
	return "unknown"
}

// OperationRecord is one instruction that touched a register, kept so
// hover surfaces can show a short history.
type OperationRecord struct {
	Line      int
	Operation string
}

// Usage accumulates everything observed about one register.
type Usage struct {
	Assignments []ast.Range
	Reads       []ast.Range
	AliasName   string
	History     []OperationRecord
	Kind        ValueKind
}

// State derives the lifecycle state from recorded assignments and
// reads. When both exist, the earliest read line is compared against
// the earliest assignment line.
func (u *Usage) State() State {
	switch {
	case len(u.Assignments) == 0 && len(u.Reads) == 0:
		return Unused
	case len(u.Reads) == 0:
		return AssignedNotRead
	case len(u.Assignments) == 0:
		return ReadBeforeAssign
	}
	firstAssign := u.Assignments[0].Start.Line
	for _, r := range u.Assignments[1:] {
		if r.Start.Line < firstAssign {
			firstAssign = r.Start.Line
		}
	}
	firstRead := u.Reads[0].Start.Line
	for _, r := range u.Reads[1:] {
		if r.Start.Line < firstRead {
			firstRead = r.Start.Line
		}
	}
	if firstRead < firstAssign {
		return ReadBeforeAssign
	}
	return Used
}

// assignmentOps lists operations that write their first register
// operand. Matched case-insensitively.
var assignmentOps = map[string]struct{}{}

func init() {
	for _, op := range []string{
		"move", "add", "sub", "mul", "div", "mod", "max", "min",
		"abs", "ceil", "floor", "round", "sqrt", "trunc", "exp", "log",
		"sin", "cos", "tan", "asin", "acos", "atan", "atan2",
		"and", "or", "xor", "nor", "not", "sla", "sll", "sra", "srl",
		"l", "lb", "lr", "ls", "lbn", "lbs", "lbns", "lhz", "lhs",
		"peek", "pop", "sap", "sapz",
		"sdns", "sdse", "select", "seq", "seqz", "sge", "sgez",
		"sgt", "sgtz", "sle", "slez", "slt", "sltz", "sna", "snaz",
		"sne", "snez", "rget", "alias",
		"get", "getd", "ld", "rmap", "rand", "pow", "ext", "ins", "lerp",
	} {
		assignmentOps[op] = struct{}{}
	}
}

func isAssignmentOp(operation string) bool {
	_, ok := assignmentOps[strings.ToLower(operation)]
	return ok
}

// Analyzer runs the register usage pass over one document. An Analyzer
// may be reused; every Analyze call starts from a clean slate.
type Analyzer struct {
	usage           map[string]*Usage
	aliasToRegister map[string]string
	ignored         map[string]struct{}
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		usage:           make(map[string]*Usage),
		aliasToRegister: make(map[string]string),
		ignored:         make(map[string]struct{}),
	}
}

var seededRegisters = func() []string {
	names := make([]string, 0, 36)
	for i := 0; i < 16; i++ {
		names = append(names, fmt.Sprintf("r%d", i))
	}
	names = append(names, "ra", "sp")
	for i := 0; i < 16; i++ {
		names = append(names, fmt.Sprintf("rr%d", i))
	}
	return names
}()

func (a *Analyzer) entry(name string) *Usage {
	u, ok := a.usage[name]
	if !ok {
		u = &Usage{}
		a.usage[name] = u
	}
	return u
}

// Analyze rebuilds the usage model for the file. Aliases from the
// symbol table contribute display names and resolve identifier
// operands to their underlying registers.
func (a *Analyzer) Analyze(file *ast.File, table *symbols.Table) {
	a.usage = make(map[string]*Usage)
	a.aliasToRegister = make(map[string]string)
	a.ignored = make(map[string]struct{})

	a.parseIgnoreDirectives(file.Source)

	for _, name := range seededRegisters {
		a.usage[name] = &Usage{}
	}

	a.attachAliases(table)
	a.detectAssignments(file, table)
	a.detectReads(file, table)
	a.detectReturnAddressWrites(file)
	a.trackHistory(file, table)
	a.detectValueKinds(file, table)
	a.fallbackLineScan(file.Source)
	a.bootstrapImplicit()
	a.markReferenceRegistersUsed()
}

// parseIgnoreDirectives collects register names from comments of the
// form "# ignore r2, r5" or "# ignore: r2".
func (a *Analyzer) parseIgnoreDirectives(source string) {
	for _, line := range strings.Split(source, "\n") {
		hash := strings.Index(line, "#")
		if hash < 0 {
			continue
		}
		comment := strings.TrimSpace(line[hash+1:])
		pos := strings.Index(comment, "ignore")
		if pos < 0 {
			continue
		}
		rest := strings.TrimSpace(comment[pos+len("ignore"):])
		rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		for _, name := range strings.Split(rest, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				a.ignored[name] = struct{}{}
			}
		}
	}
}

// attachAliases records the first alias declared for each register,
// walking alias names in sorted order so ties resolve the same way on
// every run.
func (a *Analyzer) attachAliases(table *symbols.Table) {
	if table == nil {
		return
	}
	names := make([]string, 0, len(table.Aliases))
	for name := range table.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := table.Aliases[name]
		if entry.Kind != symbols.AliasRegister {
			continue
		}
		u := a.entry(entry.Target)
		if u.AliasName == "" {
			u.AliasName = name
		}
		a.aliasToRegister[name] = entry.Target
	}
}

// registerFromOperand resolves an operand to a register name, looking
// through register aliases. Returns "" for anything else.
func (a *Analyzer) registerFromOperand(op ast.Operand, table *symbols.Table) string {
	switch o := op.(type) {
	case ast.Register:
		return o.Name
	case ast.Identifier:
		if table == nil {
			return ""
		}
		if entry, ok := table.Aliases[o.Name]; ok && entry.Kind == symbols.AliasRegister {
			return entry.Target
		}
	}
	return ""
}

func (a *Analyzer) detectAssignments(file *ast.File, table *symbols.Table) {
	for _, inst := range file.Instructions {
		if !isAssignmentOp(inst.Operation) || len(inst.Operands) == 0 {
			continue
		}
		if name := a.registerFromOperand(inst.Operands[0], table); name != "" {
			u := a.entry(name)
			u.Assignments = append(u.Assignments, inst.Operands[0].Range())
		}
	}
}

func (a *Analyzer) detectReads(file *ast.File, table *symbols.Table) {
	for _, inst := range file.Instructions {
		start := 0
		if isAssignmentOp(inst.Operation) {
			start = 1
		}
		for _, op := range inst.Operands[min(start, len(inst.Operands)):] {
			if name := a.registerFromOperand(op, table); name != "" {
				u := a.entry(name)
				u.Reads = append(u.Reads, op.Range())
			}
		}
	}
}

// detectReturnAddressWrites records jal instructions as assignments to
// ra, spanning the whole instruction.
func (a *Analyzer) detectReturnAddressWrites(file *ast.File) {
	for _, inst := range file.Instructions {
		if strings.EqualFold(inst.Operation, "jal") {
			u := a.entry("ra")
			u.Assignments = append(u.Assignments, inst.Span)
		}
	}
}

// trackHistory records each instruction against every register named in
// its operands, deduplicating consecutive records on the same line.
func (a *Analyzer) trackHistory(file *ast.File, table *symbols.Table) {
	for _, inst := range file.Instructions {
		if len(inst.Operands) == 0 {
			continue
		}
		line := inst.Span.Start.Line + 1
		text := inst.Text(file)
		for _, op := range inst.Operands {
			name := a.registerFromOperand(op, table)
			if name == "" {
				continue
			}
			a.record(name, line, text)
		}
		if isAssignmentOp(inst.Operation) {
			if target := a.registerFromOperand(inst.Operands[0], table); target != "" {
				a.record(target, line, text)
			}
		}
	}
}

func (a *Analyzer) record(register string, line int, text string) {
	u := a.entry(register)
	if n := len(u.History); n > 0 && u.History[n-1].Line == line {
		return
	}
	u.History = append(u.History, OperationRecord{Line: line, Operation: text})
}

func (a *Analyzer) setKind(register string, kind ValueKind) {
	if register == "" {
		return
	}
	a.entry(register).Kind = kind
}

func operandText(op ast.Operand) string {
	switch op.(type) {
	case ast.Identifier, ast.LogicKeyword:
		return op.Text()
	}
	return ""
}

// detectValueKinds walks instructions in order and infers what kind of
// value each assignment leaves in its target register.
func (a *Analyzer) detectValueKinds(file *ast.File, table *symbols.Table) {
	for _, inst := range file.Instructions {
		if len(inst.Operands) == 0 {
			continue
		}
		target := a.registerFromOperand(inst.Operands[0], table)

		switch strings.ToLower(inst.Operation) {
		case "l", "ld", "lb", "lbn":
			sawReference, sawLogic := false, false
			for _, op := range inst.Operands[1:] {
				word := operandText(op)
				if word == "" {
					continue
				}
				if strings.EqualFold(word, "ReferenceId") {
					sawReference = true
				}
				if catalog.IsLogicType(word) {
					sawLogic = true
				}
			}
			if target != "" {
				if sawReference {
					a.setKind(target, KindDeviceID)
				} else if sawLogic {
					a.setKind(target, KindNumber)
				}
			}
		case "move", "alias":
			// move propagation happens in the textual pass below.
		case "abs", "ceil", "floor", "round", "sqrt", "trunc":
			if len(inst.Operands) >= 2 {
				if src, ok := inst.Operands[1].(ast.Register); ok {
					if u, ok := a.usage[src.Name]; ok && (u.Kind == KindDeviceID || u.Kind == KindLogicType) {
						a.setKind(target, u.Kind)
						continue
					}
				}
			}
			a.setKind(target, KindNumber)
		case "get", "getd", "pop", "peek":
			// Stack and slot reads can hold anything; leave Unknown.
		case "add", "sub", "mul", "div", "mod", "max", "min", "and", "or", "xor", "nor":
			a.setKind(target, KindNumber)
		default:
			if target != "" && isAssignmentOp(inst.Operation) {
				a.setKind(target, KindNumber)
			}
		}
	}
}

// fallbackLineScan reinforces kind propagation and assignment detection
// from the raw text, covering lines the reader could not turn into
// instructions.
func (a *Analyzer) fallbackLineScan(source string) {
	lines := strings.Split(source, "\n")
	for idx, line := range lines {
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "l":
			if len(tokens) >= 4 {
				u := a.entry(tokens[1])
				if strings.EqualFold(tokens[3], "ReferenceId") {
					u.Kind = KindDeviceID
				} else if u.Kind == KindUnknown {
					u.Kind = KindNumber
				}
			}
		case "move":
			if len(tokens) >= 3 {
				a.fallbackMove(tokens[1], tokens[2], lines)
			}
		case "get", "getd", "pop", "peek":
			if len(tokens) >= 2 {
				u := a.entry(tokens[1])
				if len(u.Assignments) == 0 {
					at := ast.Position{Line: idx, Column: 0}
					u.Assignments = append(u.Assignments, ast.Range{Start: at, End: at})
				}
			}
		case "add", "sub", "mul", "div", "mod", "max", "min":
			if len(tokens) >= 3 {
				for _, t := range tokens[2:] {
					if hasEnumPrefix(t) {
						a.entry(tokens[1]).Kind = KindNumber
						break
					}
				}
			}
		}
	}
}

func (a *Analyzer) fallbackMove(dst, src string, lines []string) {
	if hasEnumPrefix(src) {
		a.entry(dst).Kind = KindLogicType
		return
	}
	kind := KindUnknown
	if u, ok := a.usage[src]; ok {
		kind = u.Kind
	}
	a.entry(dst).Kind = kind

	if strings.HasPrefix(src, "r") {
		return
	}
	register, ok := a.aliasToRegister[src]
	if !ok {
		return
	}
	aliasKind := KindUnknown
	if u, ok := a.usage[register]; ok {
		aliasKind = u.Kind
	}
	a.entry(dst).Kind = aliasKind
	if aliasKind != KindUnknown {
		return
	}
	for _, line := range lines {
		if strings.Contains(line, register) && strings.Contains(line, "ReferenceId") {
			a.entry(dst).Kind = KindDeviceID
			return
		}
	}
}

func hasEnumPrefix(token string) bool {
	return strings.Contains(token, "LogicType.") || strings.Contains(token, "SlotLogicType.")
}

// bootstrapImplicit gives sp one synthetic assignment and read and ra
// one synthetic assignment at the document origin, so registers the
// machine initializes are never flagged on their own.
func (a *Analyzer) bootstrapImplicit() {
	origin := ast.Range{}
	sp := a.entry("sp")
	if len(sp.Assignments) == 0 {
		sp.Assignments = append(sp.Assignments, origin)
	}
	if len(sp.Reads) == 0 {
		sp.Reads = append(sp.Reads, origin)
	}
	ra := a.entry("ra")
	if len(ra.Assignments) == 0 {
		ra.Assignments = append(ra.Assignments, origin)
	}
}

// markReferenceRegistersUsed treats the rr indirection registers as
// implicitly initialized; each always maps onto one of r0 through r15.
func (a *Analyzer) markReferenceRegistersUsed() {
	origin := ast.Range{}
	for name, u := range a.usage {
		if !strings.HasPrefix(name, "rr") {
			continue
		}
		if len(u.Assignments) == 0 {
			u.Assignments = append(u.Assignments, origin)
		}
		if len(u.Reads) == 0 {
			u.Reads = append(u.Reads, origin)
		}
	}
}

func (a *Analyzer) display(name string, u *Usage) string {
	if u.AliasName != "" {
		return fmt.Sprintf("'%s' (%s)", u.AliasName, name)
	}
	return name
}

// Diagnostics reports assigned-but-never-read and read-before-assign
// findings, honoring ignore directives and the implicit registers.
func (a *Analyzer) Diagnostics() []diag.Diagnostic {
	names := make([]string, 0, len(a.usage))
	for name := range a.usage {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []diag.Diagnostic
	for _, name := range names {
		if _, skip := a.ignored[name]; skip {
			continue
		}
		u := a.usage[name]
		switch u.State() {
		case AssignedNotRead:
			if name == "ra" || strings.HasPrefix(name, "rr") {
				continue
			}
			for _, r := range u.Assignments {
				out = append(out, diag.Diagnostic{
					Severity: diag.Warning,
					Range:    r,
					Code:     diag.CodeAssignedNotRead,
					Message: fmt.Sprintf(
						"Register %s is assigned but never read. Consider removing to optimize register usage.",
						a.display(name, u)),
					Payload: name,
				})
			}
		case ReadBeforeAssign:
			if name == "sp" || strings.HasPrefix(name, "rr") {
				continue
			}
			for _, r := range u.Reads {
				out = append(out, diag.Diagnostic{
					Severity: diag.Error,
					Range:    r,
					Code:     diag.CodeReadBeforeAssign,
					Message: fmt.Sprintf(
						"Register %s is read before being assigned a value.",
						a.display(name, u)),
					Payload: name,
				})
			}
		}
	}
	return out
}

// RegisterReport is a flat usage summary for one register.
type RegisterReport struct {
	Name        string
	Alias       string
	State       State
	Kind        ValueKind
	Assignments int
	Reads       int
}

// Report summarizes usage for every tracked register, sorted by name.
// The raw-text fallback scan can record entries under non-register
// tokens; those are filtered out here.
func (a *Analyzer) Report() []RegisterReport {
	names := make([]string, 0, len(a.usage))
	for name := range a.usage {
		if isRegisterName(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]RegisterReport, 0, len(names))
	for _, name := range names {
		u := a.usage[name]
		out = append(out, RegisterReport{
			Name:        name,
			Alias:       u.AliasName,
			State:       u.State(),
			Kind:        u.Kind,
			Assignments: len(u.Assignments),
			Reads:       len(u.Reads),
		})
	}
	return out
}

func isRegisterName(name string) bool {
	if name == "ra" || name == "sp" {
		return true
	}
	digits := strings.TrimPrefix(strings.TrimPrefix(name, "r"), "r")
	if digits == name || digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

// Info looks up the usage record for a register or one of its aliases.
func (a *Analyzer) Info(registerOrAlias string) (*Usage, bool) {
	if u, ok := a.usage[registerOrAlias]; ok {
		return u, true
	}
	if register, ok := a.aliasToRegister[registerOrAlias]; ok {
		if u, ok := a.usage[register]; ok {
			return u, true
		}
	}
	return nil, false
}

// KindOf returns the inferred value kind for a register or alias,
// defaulting to unknown.
func (a *Analyzer) KindOf(registerOrAlias string) ValueKind {
	if u, ok := a.Info(registerOrAlias); ok {
		return u.Kind
	}
	return KindUnknown
}
