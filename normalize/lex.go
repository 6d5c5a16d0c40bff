package normalize

import (
	"strconv"
	"strings"
)

// stripComment removes a trailing "@ ..." line comment, matching the
// upstream compiler's own comment syntax.
func stripComment(line string) string {
	if i := strings.IndexByte(line, '@'); i >= 0 {
		return line[:i]
	}
	return line
}

// isIdentStart reports whether r can start an identifier.
func isIdentStart(r byte) bool {
	return r == '_' || r == '.' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isIdentPart reports whether r can continue an identifier.
func isIdentPart(r byte) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

// isIdent reports whether s is a well-formed identifier token.
func isIdent(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}

// parseIntLiteral parses an integer literal in any base: "0x"/"0X" hex,
// "0b"/"0B" binary, a leading "0" (with more digits) octal, bare decimal
// otherwise. A leading '-' is accepted before the prefix.
func parseIntLiteral(s string) (int64, bool) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}

	var v uint64
	var err error
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err = strconv.ParseUint(s[2:], 16, 64)
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		v, err = strconv.ParseUint(s[2:], 2, 64)
	case len(s) > 1 && s[0] == '0':
		v, err = strconv.ParseUint(s[1:], 8, 64)
	default:
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, false
	}
	val := int64(v)
	if neg {
		val = -val
	}
	return val, true
}

// splitBalanced splits s on commas at bracket depth 0, so "[r0, r1]" and
// "{r4, r5}" aren't split internally. Mirrors the teacher assembler's
// splitOperands, generalised to square brackets and braces.
func splitBalanced(s string) []string {
	var out []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '[', '{', '(':
			depth++
		case ']', '}', ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[last:]))
	return out
}

// splitMnemonicOperands splits a trimmed instruction line into its mnemonic
// and the remaining operand text.
func splitMnemonicOperands(line string) (mnemonic, rest string) {
	i := strings.IndexAny(line, " \t")
	if i == -1 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

// parseRegisterList parses a brace-delimited register list such as
// "{r4, r5, r6, lr}", expanding "rX-rY" range tokens (the upstream
// compiler emits these for contiguous PUSH/POP groups).
func parseRegisterList(s string) ([]Register, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, false
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil, false
	}
	var regs []Register
	for _, tok := range splitBalanced(inner) {
		tok = strings.TrimSpace(tok)
		if dash := strings.IndexByte(tok, '-'); dash > 0 {
			lo, ok1 := ParseRegister(tok[:dash])
			hi, ok2 := ParseRegister(tok[dash+1:])
			if !ok1 || !ok2 || hi < lo {
				return nil, false
			}
			for r := lo; r <= hi; r++ {
				regs = append(regs, r)
			}
			continue
		}
		reg, ok := ParseRegister(tok)
		if !ok {
			return nil, false
		}
		regs = append(regs, reg)
	}
	return regs, true
}
