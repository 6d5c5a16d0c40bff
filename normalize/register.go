package normalize

import "fmt"

// Register is a physical register identity in the range 0..=15.
type Register int

// Register aliases recognised on parse and collapsed to numeric identity.
const (
	RegSB Register = 9
	RegSL Register = 10
	RegIP Register = 12
	RegSP Register = 13
	RegLR Register = 14
	RegPC Register = 15
)

// registerAliases maps the lexical alias tokens to their numeric identity.
// r0..r15 are handled separately since they carry their own number.
var registerAliases = map[string]Register{
	"sb": RegSB,
	"sl": RegSL,
	"ip": RegIP,
	"sp": RegSP,
	"lr": RegLR,
	"pc": RegPC,
}

// ParseRegister recognises a register token (r0..r15 or an alias) and
// returns its numeric identity.
func ParseRegister(tok string) (Register, bool) {
	if reg, ok := registerAliases[tok]; ok {
		return reg, true
	}
	if len(tok) >= 2 && tok[0] == 'r' {
		n, ok := parseDecimalDigits(tok[1:])
		if ok && n >= 0 && n <= 15 {
			return Register(n), true
		}
	}
	return 0, false
}

// parseDecimalDigits parses an unsigned decimal integer with no base
// prefix handling, used only for the rN register suffix.
func parseDecimalDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// String renders the register in the reference toolchain's convention:
// r0..r12 for 0-12, sp/lr/pc for 13-15. sb, sl and ip are never re-emitted.
func (r Register) String() string {
	switch r {
	case RegSP:
		return "sp"
	case RegLR:
		return "lr"
	case RegPC:
		return "pc"
	default:
		return fmt.Sprintf("r%d", int(r))
	}
}
