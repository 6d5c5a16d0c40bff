package normalize

import (
	"strings"

	"github.com/agbcc-tools/armclean/diag"
)

// arithOps are the ten 3-operand arithmetic/logic mnemonics that accept
// both a 2- and 3-operand form and an optional flag-setting "s" suffix.
var arithOps = map[string]bool{
	"add": true, "sub": true, "and": true, "orr": true, "eor": true,
	"lsl": true, "lsr": true, "asl": true, "asr": true, "bic": true,
}

// prologueDirectives are header-only tokens consumed before a function is
// opened: they carry no information the IR needs once the function's name
// is known, either from the directive operand or from the label that
// follows.
var prologueDirectives = map[string]bool{
	"global": true, "thumb": true, "thumb_func": true, "type": true,
}

// bodyDirectives are the directive keywords recognised inside a function
// body; any other directive-shaped line is unrecognised input.
var bodyDirectives = map[string]bool{
	"align": true, "code": true, "size": true,
}

// Parse recognises a file as a sequence of functions (spec grammar §4.1)
// and lowers it directly to the typed Instr IR in one pass: lex, parse and
// AST-build are fused the way a hand-written recursive-descent frontend
// usually fuses them for a line-oriented assembly grammar.
func Parse(src, filename string) (*File, *diag.List) {
	errs := &diag.List{}
	file := &File{}

	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")

	var cur *Function
	for i, raw := range lines {
		pos := diag.Position{File: filename, Line: i + 1}
		line := strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}

		label, rest, hasLabel := splitLabel(line)

		if cur == nil {
			// Not currently inside a function: look for one of the two
			// header shapes, or a prologue directive to skip over.
			if hasLabel && rest == "" {
				cur = &Function{Name: label}
				continue
			}
			if hasLabel {
				// "<name>: <instruction>" with no preceding prologue: shape 1
				// with a body line fused onto the header line.
				cur = &Function{Name: label}
				appendLine(cur, rest, pos, errs)
				continue
			}
			mnemonic, operandText := splitMnemonicOperands(line)
			kw := directiveKeyword(mnemonic)
			if kw == "thumb_func_start" {
				name := strings.TrimSpace(operandText)
				cur = &Function{Name: name}
				continue
			}
			if prologueDirectives[kw] {
				continue
			}
			errs.Add(pos, diag.Syntax, "line outside of any function: %q", line)
			continue
		}

		// Inside a function body: a bare "<name>:" is always a body label,
		// never a new function boundary (only thumb_func_start forces one).
		if hasLabel && rest == "" {
			cur.Instrs = append(cur.Instrs, &Instr{Kind: KindLabel, Name: label, LabelType: LabelOther})
			continue
		}
		if hasLabel {
			cur.Instrs = append(cur.Instrs, &Instr{Kind: KindLabel, Name: label, LabelType: LabelOther})
			appendLine(cur, rest, pos, errs)
			continue
		}

		mnemonic, operandText := splitMnemonicOperands(line)
		kw := directiveKeyword(mnemonic)
		if kw == "thumb_func_start" {
			// A new function begins; close the current one.
			file.Functions = append(file.Functions, cur)
			name := strings.TrimSpace(operandText)
			cur = &Function{Name: name}
			continue
		}
		appendLine(cur, line, pos, errs)
	}

	if cur != nil {
		file.Functions = append(file.Functions, cur)
	}

	if errs.HasErrors() {
		return file, errs
	}
	return file, nil
}

// splitLabel recognises a "<ident>:" prefix on a line, returning the label
// name, the remaining text (may be empty), and whether a label was found.
func splitLabel(line string) (label, rest string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", line, false
	}
	candidate := strings.TrimSpace(line[:i])
	if !isIdent(candidate) {
		return "", line, false
	}
	return candidate, strings.TrimSpace(line[i+1:]), true
}

// directiveKeyword extracts the bare directive keyword from a mnemonic
// token, stripping a leading '.' if present.
func directiveKeyword(mnemonic string) string {
	return strings.TrimPrefix(mnemonic, ".")
}

// appendLine parses one non-label body line and appends the resulting
// Instr (or Instrs, for data directives producing a single node) to fn,
// recording a diagnostic instead of panicking on unrecognised input.
func appendLine(fn *Function, line string, pos diag.Position, errs *diag.List) {
	if line == "" {
		return
	}
	mnemonic, operandText := splitMnemonicOperands(line)
	instr, err := buildInstr(mnemonic, operandText)
	if err != "" {
		errs.Add(pos, diag.Semantic, "%s", err)
		return
	}
	if instr == nil {
		errs.Add(pos, diag.Syntax, "unrecognised line: %q", line)
		return
	}
	fn.Instrs = append(fn.Instrs, instr)
}

// buildInstr dispatches a mnemonic to the matching grammar rule. It returns
// (nil, "") for input the grammar does not recognise at all (a syntax
// error), and (nil, message) for input that parses syntactically but
// violates a build-time invariant (a semantic error).
func buildInstr(mnemonic, operands string) (*Instr, string) {
	kw := directiveKeyword(mnemonic)
	if bodyDirectives[kw] {
		return buildDirective(kw), ""
	}
	if size, ok := dataSize(kw); ok {
		return buildData(size, strings.TrimSpace(operands))
	}

	low := strings.ToLower(mnemonic)
	ops := splitOperandList(operands)

	if low == "push" {
		regs, ok := parseRegisterList(operands)
		if !ok || len(regs) == 0 {
			return nil, ""
		}
		return &Instr{Kind: KindPush, Regs: regs}, ""
	}
	if low == "pop" {
		regs, ok := parseRegisterList(operands)
		if !ok || len(regs) == 0 {
			return nil, ""
		}
		return &Instr{Kind: KindPop, Regs: regs}, ""
	}
	if strings.HasPrefix(low, "stm") {
		return buildStm(ops)
	}
	if low == "rsb" {
		return buildRsb(ops)
	}
	if low == "neg" {
		return buildNeg(ops)
	}
	if low == "mul" {
		return buildMul(ops)
	}
	if base, ok := stripFlagSuffix(low); ok {
		return buildArith(base, ops)
	}
	if low == "mov" {
		return buildMov(ops)
	}
	if low == "cmp" || low == "cmn" {
		return buildCmpCmn(low, ops)
	}
	if low == "bl" {
		if len(ops) != 1 {
			return nil, ""
		}
		return &Instr{Kind: KindBl, Symbol: ops[0]}, ""
	}
	if low == "bx" {
		if len(ops) != 1 {
			return nil, ""
		}
		rm, ok := ParseRegister(ops[0])
		if !ok {
			return nil, ""
		}
		return &Instr{Kind: KindBx, Rm2: rm}, ""
	}
	if cond, ok := branchCondition(low); ok {
		if len(ops) != 1 {
			return nil, ""
		}
		return &Instr{Kind: KindBranch, Op: cond, Symbol: ops[0]}, ""
	}
	if size, signed, ok := ldrVariant(low); ok {
		return buildLdr(size, signed, ops)
	}
	if size, ok := strVariant(low); ok {
		return buildStr(size, ops)
	}

	return nil, ""
}

// dataSize maps a ".1byte"/".2byte"/".4byte" directive keyword to its size.
func dataSize(kw string) (int, bool) {
	switch kw {
	case "1byte":
		return 1, true
	case "2byte":
		return 2, true
	case "4byte":
		return 4, true
	}
	return 0, false
}

// buildData parses the value operand of a data directive: either a symbol
// or an integer literal in any base (spec Open Question: the payload is a
// sum of {Symbol, Integer}, modelled as DataKind).
func buildData(size int, value string) (*Instr, string) {
	if value == "" {
		return nil, ""
	}
	if v, ok := parseIntLiteral(value); ok {
		return &Instr{Kind: KindData, Size: size, DataKind: DataInteger, Value: v}, ""
	}
	if isIdent(value) {
		return &Instr{Kind: KindData, Size: size, DataKind: DataSymbol, Symbol: value}, ""
	}
	return nil, ""
}

func buildDirective(kw string) *Instr {
	if kw == "align" {
		return &Instr{Kind: KindDirective, Text: ".align 2, 0"}
	}
	return &Instr{Kind: KindDirective, Text: ""}
}

// splitOperandList splits the raw operand text on top-level commas, unless
// it is empty.
func splitOperandList(operands string) []string {
	operands = strings.TrimSpace(operands)
	if operands == "" {
		return nil
	}
	return splitBalanced(operands)
}

// stripFlagSuffix recognises a trailing flag-setting "s" on one of the ten
// 3-operand arithmetic/logic mnemonics, discarding it: the upstream
// compiler emits it, the reference toolchain's grammar never does.
func stripFlagSuffix(mnemonic string) (string, bool) {
	if arithOps[mnemonic] {
		return mnemonic, true
	}
	if strings.HasSuffix(mnemonic, "s") {
		base := mnemonic[:len(mnemonic)-1]
		if arithOps[base] {
			return base, true
		}
	}
	return "", false
}

func buildArith(mnemonic string, ops []string) (*Instr, string) {
	var rdTok, rnTok, rmTok string
	switch len(ops) {
	case 2:
		rdTok, rnTok, rmTok = ops[0], ops[0], ops[1]
	case 3:
		rdTok, rnTok, rmTok = ops[0], ops[1], ops[2]
	default:
		return nil, ""
	}
	rd, ok1 := ParseRegister(rdTok)
	rn, ok2 := ParseRegister(rnTok)
	rm, ok3 := parseOperandToken(rmTok)
	if !ok1 || !ok2 || !ok3 {
		return nil, ""
	}
	return &Instr{Kind: KindOp, Op: mnemonic, Rd: rd, Rn: rn, Rm: rm}, ""
}

func buildRsb(ops []string) (*Instr, string) {
	if len(ops) != 3 {
		return nil, ""
	}
	rd, ok1 := ParseRegister(ops[0])
	rn, ok2 := ParseRegister(ops[1])
	imm, ok3 := parseOperandToken(ops[2])
	if !ok1 || !ok2 || !ok3 {
		return nil, ""
	}
	if imm.Kind != OperandConstant || imm.Val != 0 {
		return nil, "rsb only allowed with 0 immediate"
	}
	return &Instr{Kind: KindNeg, Rd: rd, Rm2: rn}, ""
}

func buildNeg(ops []string) (*Instr, string) {
	if len(ops) != 2 {
		return nil, ""
	}
	rd, ok1 := ParseRegister(ops[0])
	rm, ok2 := ParseRegister(ops[1])
	if !ok1 || !ok2 {
		return nil, ""
	}
	return &Instr{Kind: KindNeg, Rd: rd, Rm2: rm}, ""
}

func buildMul(ops []string) (*Instr, string) {
	switch len(ops) {
	case 2:
		rd, ok1 := ParseRegister(ops[0])
		rm, ok2 := ParseRegister(ops[1])
		if !ok1 || !ok2 {
			return nil, ""
		}
		return &Instr{Kind: KindMul, Rd: rd, Rn: rm, Rm2: rd}, ""
	case 3:
		rd, ok1 := ParseRegister(ops[0])
		rn, ok2 := ParseRegister(ops[1])
		rm, ok3 := ParseRegister(ops[2])
		if !ok1 || !ok2 || !ok3 {
			return nil, ""
		}
		if rd != rn && rd != rm {
			return nil, "mul destination must be equal to one of the factors"
		}
		return &Instr{Kind: KindMul, Rd: rd, Rn: rn, Rm2: rm}, ""
	default:
		return nil, ""
	}
}

func buildMov(ops []string) (*Instr, string) {
	if len(ops) != 2 {
		return nil, ""
	}
	rd, ok1 := ParseRegister(ops[0])
	rm, ok2 := parseOperandToken(ops[1])
	if !ok1 || !ok2 {
		return nil, ""
	}
	return &Instr{Kind: KindMov, Rd: rd, Rm: rm}, ""
}

func buildCmpCmn(mnemonic string, ops []string) (*Instr, string) {
	if len(ops) != 2 {
		return nil, ""
	}
	rn, ok1 := ParseRegister(ops[0])
	rm, ok2 := parseOperandToken(ops[1])
	if !ok1 || !ok2 {
		return nil, ""
	}
	return &Instr{Kind: KindCmp, Op: mnemonic, Rn: rn, Rm: rm}, ""
}

// branchCondition maps a branch mnemonic to its condition-code field ("" for
// a plain B).
func branchCondition(mnemonic string) (string, bool) {
	switch mnemonic {
	case "b":
		return "", true
	case "beq", "bne", "bhs", "blo", "bmi", "bpl", "bvs", "bvc",
		"bhi", "bls", "bge", "blt", "bgt", "ble":
		return mnemonic[1:], true
	}
	return "", false
}

// ldrVariant maps an ldr-family mnemonic to its size and sign.
func ldrVariant(mnemonic string) (size int, signed bool, ok bool) {
	switch mnemonic {
	case "ldr":
		return 4, false, true
	case "ldrh":
		return 2, false, true
	case "ldrsh":
		return 2, true, true
	case "ldrb":
		return 1, false, true
	case "ldrsb":
		return 1, true, true
	}
	return 0, false, false
}

// strVariant maps an str-family mnemonic to its size.
func strVariant(mnemonic string) (size int, ok bool) {
	switch mnemonic {
	case "str":
		return 4, true
	case "strh":
		return 2, true
	case "strb":
		return 1, true
	}
	return 0, false
}

func buildLdr(size int, signed bool, ops []string) (*Instr, string) {
	if len(ops) != 2 {
		return nil, ""
	}
	rt, ok := ParseRegister(ops[0])
	if !ok {
		return nil, ""
	}
	mem := strings.TrimSpace(ops[1])
	if !strings.HasPrefix(mem, "[") {
		// PC-relative literal-pool load: "ldr rt, <label>".
		if !isIdent(mem) {
			return nil, ""
		}
		return &Instr{Kind: KindLdrPC, Rd: rt, Symbol: mem, Size: size, Signed: signed}, ""
	}
	rn, index, ok := parseMemOperand(mem)
	if !ok {
		return nil, ""
	}
	return &Instr{Kind: KindLdr, Rd: rt, Rn: rn, Index: index, Size: size, Signed: signed}, ""
}

func buildStr(size int, ops []string) (*Instr, string) {
	if len(ops) != 2 {
		return nil, ""
	}
	rt, ok := ParseRegister(ops[0])
	if !ok {
		return nil, ""
	}
	rn, index, ok := parseMemOperand(ops[1])
	if !ok {
		return nil, ""
	}
	return &Instr{Kind: KindStr, Rd: rt, Rn: rn, Index: index, Size: size}, ""
}

// parseMemOperand parses a bracketed addressing expression: "[rn]" or
// "[rn, rm]" where rm is a register or immediate.
func parseMemOperand(s string) (rn Register, index *Operand, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return 0, nil, false
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	parts := splitBalanced(inner)
	switch len(parts) {
	case 1:
		rn, ok = ParseRegister(strings.TrimSpace(parts[0]))
		return rn, nil, ok
	case 2:
		rn, ok = ParseRegister(strings.TrimSpace(parts[0]))
		if !ok {
			return 0, nil, false
		}
		op, ok2 := parseOperandToken(strings.TrimSpace(parts[1]))
		if !ok2 {
			return 0, nil, false
		}
		return rn, &op, true
	default:
		return 0, nil, false
	}
}

func buildStm(ops []string) (*Instr, string) {
	if len(ops) != 2 {
		return nil, ""
	}
	baseTok := strings.TrimSuffix(strings.TrimSpace(ops[0]), "!")
	base, ok := ParseRegister(baseTok)
	if !ok {
		return nil, ""
	}
	regs, ok := parseRegisterList(ops[1])
	if !ok || len(regs) == 0 {
		return nil, ""
	}
	return &Instr{Kind: KindStm, Base: base, Regs: regs}, ""
}

// parseOperandToken parses a token that is either a register or an
// immediate ("#..."), the two Operand variants.
func parseOperandToken(tok string) (Operand, bool) {
	tok = strings.TrimSpace(tok)
	if strings.HasPrefix(tok, "#") {
		v, ok := parseIntLiteral(tok[1:])
		if !ok {
			return Operand{}, false
		}
		return ConstOperand(v), true
	}
	if reg, ok := ParseRegister(tok); ok {
		return RegOperand(reg), true
	}
	return Operand{}, false
}
