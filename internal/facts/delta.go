package facts

// Delta captures added and removed fact rows between two snapshots.
type Delta struct {
	Added   Tables `json:"added"`
	Removed Tables `json:"removed"`
}

// ComputeDelta computes row-level additions and removals between two snapshots.
func ComputeDelta(prev, next Tables) Delta {
	return Delta{
		Added:   diffTables(prev, next),
		Removed: diffTables(next, prev),
	}
}

func diffTables(from, to Tables) Tables {
	out := emptyTables()

	out.Files = diffFileRows(from.Files, to.Files)
	out.Defines = diffDefineRows(from.Defines, to.Defines)
	out.Aliases = diffAliasRows(from.Aliases, to.Aliases)
	out.Labels = diffLabelRows(from.Labels, to.Labels)
	out.Instructions = diffInstructionRows(from.Instructions, to.Instructions)
	out.Registers = diffRegisterRows(from.Registers, to.Registers)
	out.Diagnostics = diffDiagnosticRows(from.Diagnostics, to.Diagnostics)

	return out
}

func diffFileRows(from, to []FileRow) []FileRow {
	return diffRows(from, to, func(r FileRow) string {
		return r.Path + "|" + intKey(r.Lines) + "|" + intKey(r.Bytes) + "|" + intKey(r.Instructions)
	})
}

func diffDefineRows(from, to []DefineRow) []DefineRow {
	return diffRows(from, to, func(r DefineRow) string {
		return r.Name + "|" + r.Value + "|" + intKey(int(r.Numeric)) + "|" + boolKey(r.HasNumeric) + "|" + r.File + "|" + intKey(r.Line)
	})
}

func diffAliasRows(from, to []AliasRow) []AliasRow {
	return diffRows(from, to, func(r AliasRow) string {
		return r.Name + "|" + r.Target + "|" + r.Kind + "|" + r.File + "|" + intKey(r.Line)
	})
}

func diffLabelRows(from, to []LabelRow) []LabelRow {
	return diffRows(from, to, func(r LabelRow) string {
		return r.Name + "|" + r.File + "|" + intKey(r.Line)
	})
}

func diffInstructionRows(from, to []InstructionRow) []InstructionRow {
	return diffRows(from, to, func(r InstructionRow) string {
		return r.Operation + "|" + intKey(r.Operands) + "|" + r.File + "|" + intKey(r.Line)
	})
}

func diffRegisterRows(from, to []RegisterRow) []RegisterRow {
	return diffRows(from, to, func(r RegisterRow) string {
		return r.Name + "|" + r.Alias + "|" + r.State + "|" + r.Kind + "|" + intKey(r.Assignments) + "|" + intKey(r.Reads) + "|" + r.File
	})
}

func diffDiagnosticRows(from, to []DiagnosticRow) []DiagnosticRow {
	return diffRows(from, to, func(r DiagnosticRow) string {
		return r.File + "|" + intKey(r.Line) + "|" + intKey(r.Column) + "|" + intKey(r.EndLine) + "|" + intKey(r.EndColumn) + "|" + r.Severity + "|" + r.Code + "|" + r.Message
	})
}

func diffRows[T any](from, to []T, key func(T) string) []T {
	fromSet := make(map[string]T, len(from))
	for _, row := range from {
		fromSet[key(row)] = row
	}
	var diff []T
	for _, row := range to {
		rowKey := key(row)
		if _, ok := fromSet[rowKey]; !ok {
			diff = append(diff, row)
		}
	}
	if diff == nil {
		diff = []T{}
	}
	return diff
}

func boolKey(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func intKey(v int) string {
	if v == 0 {
		return "0"
	}
	return itoa(v)
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
