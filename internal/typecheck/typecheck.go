// Package typecheck validates every instruction of a document against
// the signature catalog: unknown operations, operand counts, and the
// type of each operand position. Register value kinds feed back into
// the check so a register known to hold a device id may stand in for a
// device pin.
package typecheck

import (
	"fmt"
	"strings"

	"github.com/ic10tools/ic10-lint/internal/ast"
	"github.com/ic10tools/ic10-lint/internal/catalog"
	"github.com/ic10tools/ic10-lint/internal/diag"
	"github.com/ic10tools/ic10-lint/internal/registers"
	"github.com/ic10tools/ic10-lint/internal/symbols"
)

// RegisterKinds exposes the inferred value kind of a register or alias.
type RegisterKinds interface {
	KindOf(registerOrAlias string) registers.ValueKind
}

// Checker validates instructions against the signature catalog.
type Checker struct {
	table *symbols.Table
	kinds RegisterKinds
}

// NewChecker builds a checker over the document's symbol table and
// register kind source. Either may be nil; lookups then simply fail.
func NewChecker(table *symbols.Table, kinds RegisterKinds) *Checker {
	if table == nil {
		table = symbols.NewTable()
	}
	return &Checker{table: table, kinds: kinds}
}

// Check validates every instruction in the file and returns the
// resulting diagnostics in document order.
func (c *Checker) Check(file *ast.File) []diag.Diagnostic {
	var diags []diag.Diagnostic

	// Defines resolved so far in document order. Seeded with the full
	// table so forward references still resolve; values written by a
	// define instruction refresh the entry as the walk passes it.
	working := make(map[string]symbols.DefineEntry, len(c.table.Defines))
	for name, entry := range c.table.Defines {
		working[name] = entry
	}

	for _, inst := range file.Instructions {
		diags = append(diags, c.checkInstruction(file, inst, working)...)
	}
	return diags
}

func (c *Checker) checkInstruction(file *ast.File, inst *ast.Instruction, working map[string]symbols.DefineEntry) []diag.Diagnostic {
	var diags []diag.Diagnostic

	signature, ok := catalog.Lookup(inst.Operation)
	if !ok {
		return []diag.Diagnostic{{
			Severity: diag.Error,
			Range:    inst.OpRange,
			Message:  "Invalid instruction",
		}}
	}

	isDefine := strings.EqualFold(inst.Operation, "define")
	arity := signature.Arity()
	firstSuperfluous := -1
	var pendingDefine struct {
		name  string
		at    ast.Range
		valid bool
	}

	for i, operand := range inst.Operands {
		if i >= arity {
			if firstSuperfluous < 0 {
				firstSuperfluous = i
			}
			continue
		}
		parameter := signature.Params[i]

		found, underlying, skip := c.operandType(operand, parameter, isDefine, i, working, &diags)
		if isDefine && i == 0 {
			if ident, ok := operand.(ast.Identifier); ok {
				pendingDefine.name = ident.Name
				pendingDefine.at = ident.Span
				pendingDefine.valid = true
			}
		}
		if skip {
			continue
		}

		effective := c.widen(found, parameter, underlying)
		if !parameter.Intersects(effective) {
			diags = append(diags, diag.Diagnostic{
				Severity: diag.Error,
				Range:    operand.Range(),
				Message:  fmt.Sprintf("Type mismatch. Found %s, expected %s", effective, parameter),
			})
		}

		if isDefine && i == 1 && pendingDefine.valid {
			working[pendingDefine.name] = symbols.NewDefine(
				pendingDefine.name, pendingDefine.at, strings.TrimSpace(operand.Text()))
		}
	}

	count := len(inst.Operands)
	if count > arity {
		plural := ""
		if count-arity > 1 {
			plural = "s"
		}
		diags = append(diags, diag.Diagnostic{
			Severity: diag.Error,
			Range: ast.Range{
				Start: inst.Operands[firstSuperfluous].Range().Start,
				End:   inst.Span.End,
			},
			Message: fmt.Sprintf("Superfluous argument%s. '%s' only requires %d arguments.",
				plural, inst.Operation, arity),
		})
		return diags
	}
	if count != arity {
		diags = append(diags, diag.Diagnostic{
			Severity: diag.Error,
			Range:    inst.Span,
			Message:  "Invalid number of arguments",
		})
	}
	return diags
}

// operandType resolves the type union an operand presents. For
// registers (direct or via alias) it also reports the underlying
// register name so widening can consult its value kind. skip means the
// operand produced its own diagnostic and no type comparison should
// follow.
func (c *Checker) operandType(operand ast.Operand, parameter catalog.Union, isDefine bool, index int, working map[string]symbols.DefineEntry, diags *[]diag.Diagnostic) (found catalog.Union, underlying string, skip bool) {
	switch o := operand.(type) {
	case ast.Register:
		return catalog.Union{catalog.Register}, o.Name, false
	case ast.Device:
		return catalog.Union{catalog.Device}, "", false
	case ast.Number:
		return catalog.Union{catalog.Number}, "", false
	case ast.LogicKeyword:
		class, _ := catalog.ClassifyKeyword(o.Word)
		if class.Any() {
			return class.Union(), "", false
		}
		return catalog.Union{}, "", false
	case ast.Identifier:
		return c.identifierType(o, parameter, isDefine, index, working, diags)
	case ast.FunctionCall:
		if catalog.IsHashCall(o.Raw) {
			if name, ok := catalog.ExtractHashArgument(o.Raw); ok && !catalog.IsKnownDevice(name) {
				*diags = append(*diags, diag.Diagnostic{
					Severity: diag.Information,
					Range:    o.Span,
					Message: fmt.Sprintf(
						"Unrecognized device name '%s' in HASH(...). Will be treated as number.", name),
				})
			}
		}
		// Unknown calls are still constant producers; treat as number.
		return catalog.Union{catalog.Number}, "", false
	default:
		return nil, "", true
	}
}

func (c *Checker) identifierType(ident ast.Identifier, parameter catalog.Union, isDefine bool, index int, working map[string]symbols.DefineEntry, diags *[]diag.Diagnostic) (catalog.Union, string, bool) {
	name := ident.Name

	// The first operand of define introduces the name; it is never an
	// unknown identifier.
	if isDefine && index == 0 {
		return catalog.Union{catalog.Name}, "", false
	}
	if parameter.Has(catalog.Name) {
		return catalog.Union{catalog.Name}, "", false
	}

	if strings.Contains(name, ".") {
		return c.dottedIdentifierType(ident, working, diags)
	}

	if _, ok := working[name]; ok {
		return catalog.Union{catalog.Number}, "", false
	}
	if _, ok := c.table.Labels[name]; ok {
		return catalog.Union{catalog.Number}, "", false
	}
	if canonical, ok := foldDefine(working, name); ok {
		if canonical != name {
			*diags = append(*diags, diag.Diagnostic{
				Severity: diag.Warning,
				Range:    ident.Span,
				Message: fmt.Sprintf("Define '%s' differs in case from canonical '%s'.",
					name, canonical),
			})
		}
		return catalog.Union{catalog.Number}, "", false
	}
	if entry, ok := c.table.Aliases[name]; ok {
		if entry.Kind == symbols.AliasDevice {
			return catalog.Union{catalog.Device}, "", false
		}
		return catalog.Union{catalog.Register}, entry.Target, false
	}

	class, exact := catalog.ClassifyKeyword(name)
	if !class.Any() {
		*diags = append(*diags, diag.Diagnostic{
			Severity: diag.Error,
			Range:    ident.Span,
			Message:  "Unknown identifier",
		})
		return nil, "", true
	}
	if !exact {
		*diags = append(*diags, diag.Diagnostic{
			Severity: diag.Warning,
			Range:    ident.Span,
			Message: fmt.Sprintf(
				"Identifier '%s' matches a known logic/parameter type by name but differs by case. Consider using proper case or renaming your identifier.", name),
		})
	}
	return class.Union(), "", false
}

// dottedIdentifierType resolves Family.Member spellings: enum catalog
// first, then defines and labels, then aliases.
func (c *Checker) dottedIdentifierType(ident ast.Identifier, working map[string]symbols.DefineEntry, diags *[]diag.Diagnostic) (catalog.Union, string, bool) {
	name := ident.Name

	if canonical, exact, ok := catalog.EnumLookup(name); ok {
		if !exact {
			*diags = append(*diags, diag.Diagnostic{
				Severity: diag.Warning,
				Range:    ident.Span,
				Message: fmt.Sprintf("Enum '%s' differs in case from canonical '%s'.",
					name, canonical),
			})
		}
		return catalog.Union{catalog.Number}, "", false
	}
	if _, ok := working[name]; ok {
		return catalog.Union{catalog.Number}, "", false
	}
	if _, ok := c.table.Labels[name]; ok {
		return catalog.Union{catalog.Number}, "", false
	}
	if canonical, ok := foldDefine(working, name); ok {
		if canonical != name {
			*diags = append(*diags, diag.Diagnostic{
				Severity: diag.Warning,
				Range:    ident.Span,
				Message: fmt.Sprintf("Define '%s' differs in case from canonical '%s'.",
					name, canonical),
			})
		}
		return catalog.Union{catalog.Number}, "", false
	}
	if entry, ok := c.table.Aliases[name]; ok {
		if entry.Kind == symbols.AliasDevice {
			return catalog.Union{catalog.Device}, "", false
		}
		return catalog.Union{catalog.Register}, entry.Target, false
	}
	return catalog.Union{}, "", false
}

func foldDefine(working map[string]symbols.DefineEntry, name string) (string, bool) {
	for k := range working {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}

// widen substitutes register operands for device and logic type
// parameters when the register's tracked value kind permits it.
func (c *Checker) widen(found catalog.Union, parameter catalog.Union, underlying string) catalog.Union {
	if underlying == "" || c.kinds == nil {
		return found
	}
	kind := c.kinds.KindOf(underlying)
	switch {
	case parameter.Has(catalog.Device):
		if kind == registers.KindDeviceID || kind == registers.KindUnknown {
			return catalog.Union{catalog.Device}
		}
	case parameter.Has(catalog.LogicType):
		if kind == registers.KindLogicType || kind == registers.KindNumber || kind == registers.KindUnknown {
			return catalog.Union{catalog.LogicType}
		}
	case parameter.Has(catalog.SlotLogicType):
		if kind == registers.KindLogicType || kind == registers.KindNumber || kind == registers.KindUnknown {
			return catalog.Union{catalog.SlotLogicType}
		}
	}
	return found
}
