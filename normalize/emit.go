package normalize

import (
	"fmt"
	"strings"
)

// Emit serialises file to its canonical textual form (spec §4.7). Per
// function: a blank line, the thumb_func_start prologue, then one line per
// instruction in order.
func Emit(file *File) string {
	var b strings.Builder
	for _, fn := range file.Functions {
		fmt.Fprintf(&b, "\n\tthumb_func_start %s\n%s:\n", fn.Name, fn.Name)
		for _, instr := range fn.Instrs {
			emitInstr(&b, instr)
		}
	}
	return b.String()
}

func emitInstr(b *strings.Builder, instr *Instr) {
	if instr.Kind == KindLabel {
		fmt.Fprintf(b, "%s:\n", instr.Name)
		return
	}
	fmt.Fprintf(b, "\t%s\n", instrText(instr))
}

// instrText renders one non-label instruction's canonical textual form.
func instrText(instr *Instr) string {
	switch instr.Kind {
	case KindData:
		return emitData(instr)
	case KindPush:
		return fmt.Sprintf("push {%s}", joinRegs(instr.Regs))
	case KindPop:
		return fmt.Sprintf("pop {%s}", joinRegs(instr.Regs))
	case KindStm:
		return fmt.Sprintf("stmia %s!, {%s}", instr.Base, joinRegs(instr.Regs))
	case KindOp:
		if instr.Rd == instr.Rn {
			return fmt.Sprintf("%s %s, %s", instr.Op, instr.Rd, instr.Rm)
		}
		return fmt.Sprintf("%s %s, %s, %s", instr.Op, instr.Rd, instr.Rn, instr.Rm)
	case KindMul:
		if instr.Rd == instr.Rn || instr.Rd == instr.Rm2 {
			other := instr.Rn
			if instr.Rd == instr.Rn {
				other = instr.Rm2
			}
			return fmt.Sprintf("mul %s, %s", instr.Rd, other)
		}
		return fmt.Sprintf("mul %s, %s, %s", instr.Rd, instr.Rn, instr.Rm2)
	case KindNeg:
		return fmt.Sprintf("neg %s, %s", instr.Rd, instr.Rm2)
	case KindMov:
		return fmt.Sprintf("mov %s, %s", instr.Rd, instr.Rm)
	case KindCmp:
		return fmt.Sprintf("%s %s, %s", instr.Op, instr.Rn, instr.Rm)
	case KindLdr:
		return fmt.Sprintf("%s %s, %s", ldrMnemonic(instr.Size, instr.Signed), instr.Rd, memOperand(instr.Rn, instr.Index))
	case KindStr:
		return fmt.Sprintf("%s %s, %s", strMnemonic(instr.Size), instr.Rd, memOperand(instr.Rn, instr.Index))
	case KindLdrPC:
		return emitLdrPC(instr)
	case KindBl:
		return fmt.Sprintf("bl %s", instr.Symbol)
	case KindBx:
		return fmt.Sprintf("bx %s", instr.Rm2)
	case KindBranch:
		return fmt.Sprintf("b%s %s", instr.Op, branchLabel(instr))
	case KindDirective:
		return instr.Text
	}
	return ""
}

func joinRegs(regs []Register) string {
	parts := make([]string, len(regs))
	for i, r := range regs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

func memOperand(rn Register, index *Operand) string {
	if index != nil && index.Truthy() {
		return fmt.Sprintf("[%s, %s]", rn, index)
	}
	return fmt.Sprintf("[%s]", rn)
}

// ldrMnemonic inverts ldrVariant: maps a transfer size and signedness back
// to the ldr-family mnemonic.
func ldrMnemonic(size int, signed bool) string {
	switch {
	case size == 4:
		return "ldr"
	case size == 2 && !signed:
		return "ldrh"
	case size == 2 && signed:
		return "ldrsh"
	case size == 1 && !signed:
		return "ldrb"
	case size == 1 && signed:
		return "ldrsb"
	}
	return "ldr"
}

// strMnemonic inverts strVariant.
func strMnemonic(size int) string {
	switch size {
	case 2:
		return "strh"
	case 1:
		return "strb"
	default:
		return "str"
	}
}

func emitLdrPC(instr *Instr) string {
	label := instr.Symbol
	if instr.Target != nil {
		label = instr.Target.Name
	}
	mnem := ldrMnemonic(instr.Size, instr.Signed)
	if instr.Offset != 0 {
		return fmt.Sprintf("%s %s, %s+0x%x", mnem, instr.Rd, label, instr.Offset)
	}
	return fmt.Sprintf("%s %s, %s", mnem, instr.Rd, label)
}

func branchLabel(instr *Instr) string {
	if instr.Target != nil {
		return instr.Target.Name
	}
	return instr.Symbol
}

func emitData(instr *Instr) string {
	kw := dataKeyword(instr.Size)
	if instr.Target != nil {
		return fmt.Sprintf("%s %s", kw, instr.Target.Name)
	}
	if instr.DataKind == DataInteger {
		if instr.Value < 0 {
			return fmt.Sprintf("%s -0x%x", kw, -instr.Value)
		}
		return fmt.Sprintf("%s 0x%x", kw, instr.Value)
	}
	return fmt.Sprintf("%s %s", kw, instr.Symbol)
}

func dataKeyword(size int) string {
	return fmt.Sprintf(".%dbyte", size)
}
