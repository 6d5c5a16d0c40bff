package normalize_test

import (
	"testing"

	"github.com/agbcc-tools/armclean/normalize"
)

func TestOperandString(t *testing.T) {
	tests := []struct {
		op   normalize.Operand
		want string
	}{
		{normalize.RegOperand(0), "r0"},
		{normalize.RegOperand(normalize.RegLR), "lr"},
		{normalize.ConstOperand(0), "#0x0"},
		{normalize.ConstOperand(4), "#0x4"},
		{normalize.ConstOperand(-4), "#-0x4"},
		{normalize.ConstOperand(255), "#0xff"},
	}
	for _, tc := range tests {
		if got := tc.op.String(); got != tc.want {
			t.Errorf("Operand.String() = %q, want %q", got, tc.want)
		}
	}
}

func TestOperandTruthy(t *testing.T) {
	if !normalize.RegOperand(0).Truthy() {
		t.Errorf("a register operand must always be truthy, even r0")
	}
	if normalize.ConstOperand(0).Truthy() {
		t.Errorf("a zero constant must be falsy")
	}
	if !normalize.ConstOperand(1).Truthy() {
		t.Errorf("a non-zero constant must be truthy")
	}
}

func TestOperandEqual(t *testing.T) {
	if !normalize.RegOperand(3).Equal(normalize.RegOperand(3)) {
		t.Errorf("equal registers should compare equal")
	}
	if normalize.RegOperand(3).Equal(normalize.RegOperand(4)) {
		t.Errorf("different registers should not compare equal")
	}
	if !normalize.ConstOperand(5).Equal(normalize.ConstOperand(5)) {
		t.Errorf("equal constants should compare equal")
	}
	if normalize.RegOperand(3).Equal(normalize.ConstOperand(3)) {
		t.Errorf("a register and a constant must never compare equal")
	}
}
