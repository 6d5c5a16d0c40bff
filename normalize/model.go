package normalize

// LabelType classifies the role a LABEL plays, assigned by ClassifyLabels.
type LabelType int

const (
	// LabelOther is the default classification before ClassifyLabels runs.
	LabelOther LabelType = iota
	LabelCode
	LabelData
	LabelCase
)

func (t LabelType) String() string {
	switch t {
	case LabelCode:
		return "code"
	case LabelData:
		return "data"
	case LabelCase:
		return "case"
	default:
		return "other"
	}
}

// DataKind discriminates the two shapes a DATA payload can take, depending
// on which grammar rule built it (see spec Open Questions).
type DataKind int

const (
	DataInteger DataKind = iota
	DataSymbol
)

// Kind discriminates the Instr variants. Each Instr carries only the
// fields relevant to its Kind; the rest are left at their zero value.
type Kind int

const (
	KindLabel Kind = iota
	KindData
	KindPush
	KindPop
	KindStm
	KindOp // ADD, SUB, AND, ORR, EOR, LSL, LSR, ASL, ASR, BIC
	KindMul
	KindNeg
	KindMov
	KindCmp // CMP, CMN
	KindLdr
	KindStr
	KindLdrPC
	KindBl
	KindBx
	KindBranch // B and the 14 conditionals
	KindDirective
)

// Instr is one node of the intra-function instruction sequence. It is a
// closed tagged union over Kind: which fields are meaningful depends on
// Kind, mirroring how the reference toolchain's own node type reuses one
// struct across every line shape.
type Instr struct {
	Kind Kind

	// Prev and Next thread the intra-function sequence; set by Link and
	// rebuilt by any pass that replaces the instruction list. Both are nil
	// at the ends of a function.
	Prev, Next *Instr

	// Op carries the variant mnemonic for KindOp ("add","sub","and","orr",
	// "eor","lsl","lsr","asl","asr","bic"), KindCmp ("cmp","cmn"), and the
	// condition suffix for KindBranch ("" for plain B, else e.g. "eq").
	Op string

	// Register and Operand fields. Meaning depends on Kind:
	//   KindOp:     Rd, Rn, Rm        (3-operand arithmetic/logic)
	//   KindMul:    Rd, Rn, Rm2       (rd == rn || rd == rm2, checked at build time)
	//   KindNeg:    Rd, Rm2           (rd, source register)
	//   KindMov:    Rd, Rm            (destination, operand)
	//   KindCmp:    Rn, Rm
	//   KindLdr:    Rd (rt), Rn (base), Index (optional rm)
	//   KindStr:    Rd (rt), Rn (base), Index (optional rm)
	//   KindLdrPC:  Rd (rt)
	//   KindBx:     Rm2 (rm)
	Rd, Rn Register
	Rm     Operand
	Rm2    Register
	Index  *Operand

	// Base and Regs carry PUSH/POP/STM register lists. Regs is ordered and
	// non-empty for KindPush/KindPop/KindStm.
	Base Register
	Regs []Register

	// Size is the transfer width in bytes: 1, 2, or 4. Used by KindData,
	// KindLdr, KindStr, KindLdrPC.
	Size int
	// Signed applies only to KindLdr and KindLdrPC.
	Signed bool

	// Name is the LABEL's own name (KindLabel). Before RenameLabels this is
	// the source name; after, it is the canonical _<role><F>_<N> form.
	Name string
	// LabelType is the LABEL's classification (KindLabel only).
	LabelType LabelType
	// Loads lists the KindLdrPC instructions whose Target points at this
	// label (KindLabel only).
	Loads []*Instr

	// Symbol carries unresolved reference text: the branch target
	// (KindBranch), the PC-relative load label (KindLdrPC), the callee
	// (KindBl), or the DATA payload when DataKind == DataSymbol.
	Symbol string
	// Value carries the DATA integer payload when DataKind == DataInteger.
	Value    int64
	DataKind DataKind

	// Offset is the byte offset of a KindLdrPC load within its literal
	// pool, default 0; set non-zero by MergeDataLabels.
	Offset int64

	// Target is the resolved LABEL for KindBranch, KindLdrPC and KindData
	// (when its payload names a local label). Nil means unresolved.
	Target *Instr

	// Text is the opaque verbatim payload of a KindDirective node.
	Text string
}

// Function is an ordered, owned list of instructions plus a non-owning
// index of its labels, populated by CollectLabels.
type Function struct {
	Name   string
	Instrs []*Instr
	Labels map[string]*Instr
}

// File is an ordered, owned list of functions.
type File struct {
	Functions []*Function
}
