package normalize

import "fmt"

// RenameLabels assigns deterministic per-function names by role (spec
// §4.6). Because every reference is by pointer (Target, Loads), no
// symbol-table rewalk is necessary once names change.
func RenameLabels(file *File) {
	nfunction := 0
	for _, fn := range file.Functions {
		ncode, ndata, ncase, nother := 0, 0, 0, 0
		for _, instr := range fn.Instrs {
			if instr.Kind != KindLabel {
				continue
			}
			switch instr.LabelType {
			case LabelCode:
				instr.Name = fmt.Sprintf("_code%d_%d", nfunction, ncode)
				ncode++
			case LabelCase:
				instr.Name = fmt.Sprintf("_case%d_%d", nfunction, ncase)
				ncase++
			case LabelData:
				instr.Name = fmt.Sprintf("_data%d_%d", nfunction, ndata)
				ndata++
			default:
				instr.Name = fmt.Sprintf("_other%d_%d", nfunction, nother)
				nother++
			}
		}
		nfunction++
	}
}
