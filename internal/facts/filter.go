package facts

// FilterTablesByFiles returns a new Tables object containing only rows whose file
// or path is present in the provided file set.
func FilterTablesByFiles(tables Tables, files map[string]bool) Tables {
	if len(files) == 0 {
		return emptyTables()
	}
	out := emptyTables()

	for _, row := range tables.Files {
		if files[row.Path] {
			out.Files = append(out.Files, row)
		}
	}
	for _, row := range tables.Defines {
		if files[row.File] {
			out.Defines = append(out.Defines, row)
		}
	}
	for _, row := range tables.Aliases {
		if files[row.File] {
			out.Aliases = append(out.Aliases, row)
		}
	}
	for _, row := range tables.Labels {
		if files[row.File] {
			out.Labels = append(out.Labels, row)
		}
	}
	for _, row := range tables.Instructions {
		if files[row.File] {
			out.Instructions = append(out.Instructions, row)
		}
	}
	for _, row := range tables.Registers {
		if files[row.File] {
			out.Registers = append(out.Registers, row)
		}
	}
	for _, row := range tables.Diagnostics {
		if files[row.File] {
			out.Diagnostics = append(out.Diagnostics, row)
		}
	}

	return out
}

// FilterDeltaByFiles returns a new Delta containing only rows for the specified files.
func FilterDeltaByFiles(delta Delta, files map[string]bool) Delta {
	if len(files) == 0 {
		return Delta{
			Added:   emptyTables(),
			Removed: emptyTables(),
		}
	}
	return Delta{
		Added:   FilterTablesByFiles(delta.Added, files),
		Removed: FilterTablesByFiles(delta.Removed, files),
	}
}
