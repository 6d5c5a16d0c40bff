package normalize

// PatchInstructions canonicalises instructions and strips directives (spec
// §4.4). It builds a fresh instruction list for each function and relinks
// Prev/Next as it goes; labels, branches, data and loads are never cloned,
// so their Target/Loads cross-references stay valid without any rewalk.
func PatchInstructions(file *File) {
	for _, fn := range file.Functions {
		patchFunction(fn)
	}
}

func patchFunction(fn *Function) {
	out := make([]*Instr, 0, len(fn.Instrs))
	for _, instr := range fn.Instrs {
		switch {
		case instr.Kind == KindDirective:
			continue
		case instr.Kind == KindOp && instr.Op == "add":
			out = append(out, patchAddSub(instr, "sub", true))
		case instr.Kind == KindOp && instr.Op == "sub":
			out = append(out, patchAddSub(instr, "add", false))
		default:
			out = append(out, instr)
		}
	}
	relink(fn, out)
}

// patchAddSub implements the fold/flip rules shared by ADD and SUB:
//
//	ADD rd, rn, #0  -> MOV rd, rn   (ADD only; SUB rd, rn, #0 passes through)
//	ADD rd, rn, #-k -> SUB rd, rn, #k  (k > 0)
//	SUB rd, rn, #-k -> ADD rd, rn, #k  (k > 0)
//
// flipped is the mnemonic to use when the immediate's sign contradicts the
// instruction's own mnemonic. foldZero gates the #0 -> MOV fold, which spec
// §4.4 only names for ADD.
func patchAddSub(instr *Instr, flipped string, foldZero bool) *Instr {
	if instr.Rm.Kind != OperandConstant {
		return instr
	}
	if foldZero && instr.Rm.Val == 0 {
		return &Instr{Kind: KindMov, Rd: instr.Rd, Rm: RegOperand(instr.Rn)}
	}
	if instr.Rm.Val < 0 {
		return &Instr{Kind: KindOp, Op: flipped, Rd: instr.Rd, Rn: instr.Rn, Rm: ConstOperand(-instr.Rm.Val)}
	}
	return instr
}

// relink replaces fn's instruction list and rebuilds Prev/Next over it.
func relink(fn *Function, instrs []*Instr) {
	fn.Instrs = instrs
	var prev *Instr
	for _, instr := range instrs {
		instr.Prev = prev
		instr.Next = nil
		if prev != nil {
			prev.Next = instr
		}
		prev = instr
	}
}
