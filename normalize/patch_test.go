package normalize_test

import (
	"testing"

	"github.com/agbcc-tools/armclean/normalize"
)

func patchedInstr(t *testing.T, src string) *normalize.Instr {
	t.Helper()
	file, errs := normalize.Parse(src, "patch")
	if errs != nil {
		t.Fatalf("parse failed: %v", errs)
	}
	normalize.PatchInstructions(file)
	return file.Functions[0].Instrs[0]
}

// TestPatchInstructions_AddZeroFoldsSubDoesNot asserts spec §4.4's asymmetry:
// only ADD rd, rn, #0 folds to MOV; SUB rd, rn, #0 is an "other" instruction
// and must pass through unchanged.
func TestPatchInstructions_AddZeroFoldsSubDoesNot(t *testing.T) {
	add := patchedInstr(t, "foo:\n\tadd r0, r1, #0\n")
	if add.Kind != normalize.KindMov || add.Rd != 0 || add.Rm.Reg != 1 {
		t.Errorf("add rd, rn, #0 should fold to mov rd, rn, got %+v", add)
	}

	sub := patchedInstr(t, "foo:\n\tsub r0, r1, #0\n")
	if sub.Kind != normalize.KindOp || sub.Op != "sub" || sub.Rd != 0 || sub.Rn != 1 || sub.Rm.Val != 0 {
		t.Errorf("sub rd, rn, #0 must pass through unchanged, got %+v", sub)
	}
}

func TestPatchInstructions_NegativeImmediateFlips(t *testing.T) {
	add := patchedInstr(t, "foo:\n\tadd r0, r1, #-4\n")
	if add.Kind != normalize.KindOp || add.Op != "sub" || add.Rm.Val != 4 {
		t.Errorf("add rd, rn, #-k should flip to sub rd, rn, #k, got %+v", add)
	}

	sub := patchedInstr(t, "foo:\n\tsub r0, r1, #-4\n")
	if sub.Kind != normalize.KindOp || sub.Op != "add" || sub.Rm.Val != 4 {
		t.Errorf("sub rd, rn, #-k should flip to add rd, rn, #k, got %+v", sub)
	}
}

func TestPatchInstructions_DropsDirectives(t *testing.T) {
	file, errs := normalize.Parse("foo:\n\t.align 2\n\tbx lr\n", "patch-directive")
	if errs != nil {
		t.Fatalf("parse failed: %v", errs)
	}
	normalize.PatchInstructions(file)
	for _, instr := range file.Functions[0].Instrs {
		if instr.Kind == normalize.KindDirective {
			t.Fatalf("directive should have been dropped, got %+v", instr)
		}
	}
}
