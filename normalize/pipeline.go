package normalize

import "fmt"

// Pipeline parses src and drives the IR through the full pass order (spec
// §5): Link, CollectLabels, ClassifyLabels, PatchInstructions,
// MergeDataLabels, RenameLabels. It stops short of Emit so callers that
// need to inspect the IR (e.g. counting unresolved references for
// -strict) can do so before serialisation.
func Pipeline(src, filename string) (*File, error) {
	file, errs := Parse(src, filename)
	if errs != nil {
		return nil, fmt.Errorf("bad input file: %w", errs)
	}

	Link(file)
	CollectLabels(file)
	ClassifyLabels(file)
	PatchInstructions(file)
	MergeDataLabels(file)
	RenameLabels(file)

	return file, nil
}

// Run parses src, runs the full pipeline, and emits the result.
func Run(src, filename string) (string, error) {
	file, err := Pipeline(src, filename)
	if err != nil {
		return "", err
	}
	return Emit(file), nil
}

// CountUnresolved counts branches and PC-relative loads whose target
// never resolved to a local label (spec §7's UnresolvedReference); BL
// callees are not counted. Used by -strict to fail loudly instead of
// silently falling back to the original symbol text.
func CountUnresolved(file *File) int {
	n := 0
	for _, fn := range file.Functions {
		for _, instr := range fn.Instrs {
			switch instr.Kind {
			case KindBranch, KindLdrPC:
				if instr.Target == nil {
					n++
				}
			}
		}
	}
	return n
}
