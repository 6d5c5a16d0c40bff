package normalize

// CollectLabels populates Function.Labels, a map from label name to LABEL
// node (spec §4.3). The map keeps no source order, and when a name repeats
// within a function the later label replaces the earlier one.
// Must run after Link, before ClassifyLabels.
func CollectLabels(file *File) {
	for _, fn := range file.Functions {
		fn.Labels = make(map[string]*Instr)
		for _, instr := range fn.Instrs {
			if instr.Kind == KindLabel {
				fn.Labels[instr.Name] = instr
			}
		}
	}
}

// ClassifyLabels assigns each label a role from use-site evidence, applying
// the three rules in precedence order (later writes win), per spec §4.3:
//
//  1. every label starts OTHER (model.go's zero value).
//  2. a label immediately followed by DATA becomes DATA.
//  3. a label that is any Branch's target becomes CODE.
//  4. a label named by a DATA payload symbol becomes CASE, and that DATA's
//     Target is set to point at it.
//
// The precedence matters: a label that is both a branch target and
// followed by data ends up CODE (rule 3 runs after rule 2); a label used
// as a switch-case symbol is CASE even if it also precedes code.
func ClassifyLabels(file *File) {
	for _, fn := range file.Functions {
		for _, instr := range fn.Instrs {
			if instr.Kind == KindLabel && instr.Next != nil && instr.Next.Kind == KindData {
				instr.LabelType = LabelData
			}
		}

		for _, instr := range fn.Instrs {
			if instr.Kind == KindBranch && instr.Target != nil {
				instr.Target.LabelType = LabelCode
			}
		}

		for _, instr := range fn.Instrs {
			if instr.Kind != KindData || instr.DataKind != DataSymbol {
				continue
			}
			if label, ok := fn.Labels[instr.Symbol]; ok {
				label.LabelType = LabelCase
				instr.Target = label
			}
		}
	}
}
