// Package symbols builds the per-document table of user-defined names:
// constants introduced with define, register/device aliases, and jump
// labels. The table is rebuilt from nothing on every pass.
package symbols

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ic10tools/ic10-lint/internal/ast"
	"github.com/ic10tools/ic10-lint/internal/catalog"
	"github.com/ic10tools/ic10-lint/internal/diag"
)

// DefineEntry is a named constant. Numeric holds the resolved value
// when the raw text parses as an integer literal or a HASH(...) call.
type DefineEntry struct {
	Name      string
	Range     ast.Range
	RawValue  string
	Numeric   int32
	NumericOK bool
}

// AliasKind classifies what an alias points at.
type AliasKind int

const (
	AliasRegister AliasKind = iota
	AliasDevice
)

// AliasEntry is a source name bound to a register or device pin.
type AliasEntry struct {
	Name   string
	Range  ast.Range
	Target string
	Kind   AliasKind
}

// LabelEntry is a jump target declaration.
type LabelEntry struct {
	Name  string
	Range ast.Range
	Line  int
}

// Table holds every user-defined name of one document. A name lives in
// at most one of the three maps; later duplicates are rejected during
// the build.
type Table struct {
	Defines map[string]DefineEntry
	Aliases map[string]AliasEntry
	Labels  map[string]LabelEntry
}

// NewTable returns an empty symbol table.
func NewTable() *Table {
	return &Table{
		Defines: make(map[string]DefineEntry),
		Aliases: make(map[string]AliasEntry),
		Labels:  make(map[string]LabelEntry),
	}
}

// RangeOf returns the definition range of a name in any category.
func (t *Table) RangeOf(name string) (ast.Range, bool) {
	if e, ok := t.Defines[name]; ok {
		return e.Range, true
	}
	if e, ok := t.Aliases[name]; ok {
		return e.Range, true
	}
	if e, ok := t.Labels[name]; ok {
		return e.Range, true
	}
	return ast.Range{}, false
}

// DefineFold resolves a define name case-insensitively, reporting
// whether the spelling matched the canonical one exactly.
func (t *Table) DefineFold(name string) (canonical string, exact bool, ok bool) {
	if _, ok := t.Defines[name]; ok {
		return name, true, true
	}
	for k := range t.Defines {
		if strings.EqualFold(k, name) {
			return k, false, true
		}
	}
	return "", false, false
}

// Build scans the file for define/alias instructions and label nodes in
// source order and assembles the symbol table. Duplicate names produce
// an error pointing back at the first occurrence; the later entry is
// discarded.
func Build(file *ast.File) (*Table, []diag.Diagnostic) {
	table := NewTable()
	var diags []diag.Diagnostic

	for _, ev := range definitionEvents(file) {
		if ev.label != nil {
			table.addLabel(ev.label, &diags)
			continue
		}
		switch strings.ToLower(ev.inst.Operation) {
		case "define":
			table.addDefine(ev.inst, &diags)
		case "alias":
			table.addAlias(ev.inst, &diags)
		}
	}

	return table, diags
}

type definitionEvent struct {
	line, col int
	inst      *ast.Instruction
	label     *ast.Label
}

func definitionEvents(file *ast.File) []definitionEvent {
	events := make([]definitionEvent, 0, len(file.Instructions)+len(file.Labels))
	for _, inst := range file.Instructions {
		events = append(events, definitionEvent{
			line: inst.Span.Start.Line,
			col:  inst.Span.Start.Column,
			inst: inst,
		})
	}
	for _, label := range file.Labels {
		events = append(events, definitionEvent{
			line:  label.Line,
			col:   label.NameRange.Start.Column,
			label: label,
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].line != events[j].line {
			return events[i].line < events[j].line
		}
		return events[i].col < events[j].col
	})
	return events
}

func (t *Table) addDefine(inst *ast.Instruction, diags *[]diag.Diagnostic) {
	name, nameRange, ok := definitionName(inst)
	if !ok {
		return
	}
	if t.reportDuplicate(name, nameRange, diags, false) {
		return
	}
	value := inst.Operands[len(inst.Operands)-1]
	switch value.(type) {
	case ast.Number, ast.FunctionCall, ast.StringLit, ast.Identifier:
	default:
		return
	}
	t.Defines[name] = NewDefine(name, nameRange, value.Text())
}

// NewDefine builds a DefineEntry, resolving the numeric value when the
// raw text is an integer literal or a HASH(...) call.
func NewDefine(name string, r ast.Range, rawValue string) DefineEntry {
	entry := DefineEntry{Name: name, Range: r, RawValue: rawValue}
	if v, err := strconv.ParseInt(strings.TrimSpace(rawValue), 10, 32); err == nil {
		entry.Numeric = int32(v)
		entry.NumericOK = true
	} else if arg, ok := catalog.ExtractHashArgument(rawValue); ok {
		entry.Numeric = catalog.ComputeCRC32(arg)
		entry.NumericOK = true
	}
	return entry
}

func (t *Table) addAlias(inst *ast.Instruction, diags *[]diag.Diagnostic) {
	name, nameRange, ok := definitionName(inst)
	if !ok {
		return
	}
	if t.reportDuplicate(name, nameRange, diags, false) {
		return
	}
	value := inst.Operands[len(inst.Operands)-1]
	switch value.(type) {
	case ast.Register, ast.Device:
	default:
		return
	}
	target := value.Text()
	kind := AliasRegister
	if strings.HasPrefix(target, "d") {
		kind = AliasDevice
	}
	t.Aliases[name] = AliasEntry{Name: name, Range: nameRange, Target: target, Kind: kind}
}

func (t *Table) addLabel(label *ast.Label, diags *[]diag.Diagnostic) {
	if t.reportDuplicate(label.Name, label.NameRange, diags, true) {
		return
	}
	t.Labels[label.Name] = LabelEntry{
		Name:  label.Name,
		Range: label.NameRange,
		Line:  label.Line,
	}
}

// reportDuplicate emits the duplicate-definition error when the name is
// already taken. Label names also collide with earlier labels; define
// and alias names only collide with defines and aliases.
func (t *Table) reportDuplicate(name string, r ast.Range, diags *[]diag.Diagnostic, includeLabels bool) bool {
	var prior ast.Range
	found := false
	if e, ok := t.Defines[name]; ok {
		prior, found = e.Range, true
	} else if e, ok := t.Aliases[name]; ok {
		prior, found = e.Range, true
	} else if e, ok := t.Labels[name]; ok && includeLabels {
		prior, found = e.Range, true
	}
	if !found {
		return false
	}
	*diags = append(*diags, diag.Diagnostic{
		Severity: diag.Error,
		Range:    r,
		Message:  "Duplicate definition",
		Related: []diag.Related{{
			Range:   prior,
			Message: "Previously defined here",
		}},
	})
	return true
}

func definitionName(inst *ast.Instruction) (string, ast.Range, bool) {
	if len(inst.Operands) < 2 {
		return "", ast.Range{}, false
	}
	first := inst.Operands[0]
	name := strings.TrimSpace(first.Text())
	if name == "" {
		return "", ast.Range{}, false
	}
	return name, first.Range(), true
}
