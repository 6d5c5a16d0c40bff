package normalize_test

import (
	"testing"

	"github.com/agbcc-tools/armclean/normalize"
)

func emitOne(instr *normalize.Instr) string {
	file := &normalize.File{Functions: []*normalize.Function{
		{Name: "f", Instrs: []*normalize.Instr{instr}},
	}}
	return normalize.Emit(file)
}

func TestEmit_MulCollapse(t *testing.T) {
	tests := []struct {
		name string
		in   *normalize.Instr
		want string
	}{
		{"rd==rn", &normalize.Instr{Kind: normalize.KindMul, Rd: 0, Rn: 0, Rm2: 1}, "mul r0, r1"},
		{"rd==rm", &normalize.Instr{Kind: normalize.KindMul, Rd: 0, Rn: 1, Rm2: 0}, "mul r0, r1"},
		{"three-operand", &normalize.Instr{Kind: normalize.KindMul, Rd: 0, Rn: 1, Rm2: 2}, "mul r0, r1, r2"},
	}
	for _, tc := range tests {
		out := emitOne(tc.in)
		if got := lastLine(out); got != tc.want {
			t.Errorf("[%s] got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestEmit_OpCollapse(t *testing.T) {
	op := &normalize.Instr{Kind: normalize.KindOp, Op: "add", Rd: 0, Rn: 0, Rm: normalize.RegOperand(1)}
	if got, want := lastLine(emitOne(op)), "add r0, r1"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmit_LdrStrBracketAddressing(t *testing.T) {
	noIndex := &normalize.Instr{Kind: normalize.KindLdr, Rd: 0, Rn: 1, Size: 4}
	if got, want := lastLine(emitOne(noIndex)), "ldr r0, [r1]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	zeroIndex := normalize.ConstOperand(0)
	falsyIndex := &normalize.Instr{Kind: normalize.KindLdr, Rd: 0, Rn: 1, Size: 4, Index: &zeroIndex}
	if got, want := lastLine(emitOne(falsyIndex)), "ldr r0, [r1]"; got != want {
		t.Errorf("a falsy constant index must be omitted: got %q, want %q", got, want)
	}

	regIndex := normalize.RegOperand(2)
	withIndex := &normalize.Instr{Kind: normalize.KindStr, Rd: 0, Rn: 1, Size: 1, Index: &regIndex}
	if got, want := lastLine(emitOne(withIndex)), "strb r0, [r1, r2]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmit_LdrPCOffset(t *testing.T) {
	target := &normalize.Instr{Kind: normalize.KindLabel, Name: "_data0_0"}
	withOffset := &normalize.Instr{Kind: normalize.KindLdrPC, Rd: 0, Size: 4, Offset: 4, Target: target}
	if got, want := lastLine(emitOne(withOffset)), "ldr r0, _data0_0+0x4"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	noOffset := &normalize.Instr{Kind: normalize.KindLdrPC, Rd: 0, Size: 4, Target: target}
	if got, want := lastLine(emitOne(noOffset)), "ldr r0, _data0_0"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEmit_PushPop(t *testing.T) {
	push := &normalize.Instr{Kind: normalize.KindPush, Regs: []normalize.Register{4, 5, normalize.RegLR}}
	if got, want := lastLine(emitOne(push)), "push {r4, r5, lr}"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	pop := &normalize.Instr{Kind: normalize.KindPop, Regs: []normalize.Register{4, 5, normalize.RegPC}}
	if got, want := lastLine(emitOne(pop)), "pop {r4, r5, pc}"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// lastLine returns the final non-empty line of emitted text, skipping the
// function-header preamble.
func lastLine(s string) string {
	lines := make([]string, 0)
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if line := s[start:i]; line != "" {
				lines = append(lines, line)
			}
			start = i + 1
		}
	}
	if len(lines) == 0 {
		return ""
	}
	last := lines[len(lines)-1]
	if len(last) > 0 && last[0] == '\t' {
		return last[1:]
	}
	return last
}
