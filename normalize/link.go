package normalize

// Link threads the intra-function prev/next sequence and resolves branch
// and PC-relative load targets to label nodes (spec §4.2). Linking is
// idempotent and must not be re-run after RenameLabels: downstream passes
// use Target rather than re-matching by name.
func Link(file *File) {
	for _, fn := range file.Functions {
		linkFunction(fn)
	}
}

func linkFunction(fn *Function) {
	var prev *Instr
	for _, instr := range fn.Instrs {
		instr.Prev = prev
		instr.Next = nil
		if instr.Kind == KindLabel {
			instr.Loads = nil
		}
		if prev != nil {
			prev.Next = instr
		}
		prev = instr
	}

	for _, instr := range fn.Instrs {
		switch instr.Kind {
		case KindBranch:
			if target := findLabel(fn, instr.Symbol); target != nil {
				instr.Target = target
			}
		case KindLdrPC:
			if target := findLabel(fn, instr.Symbol); target != nil {
				instr.Target = target
				target.Loads = append(target.Loads, instr)
			}
		}
	}
}

// findLabel scans fn's instructions for a LABEL whose name equals name.
// CollectLabels has not necessarily run yet when Link does, so this does
// not rely on Function.Labels.
func findLabel(fn *Function, name string) *Instr {
	for _, instr := range fn.Instrs {
		if instr.Kind == KindLabel && instr.Name == name {
			return instr
		}
	}
	return nil
}
