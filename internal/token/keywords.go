package token

var keywords = map[string]Kind{
	"module":       KwModule,
	"macromodule":  KwMacromodule,
	"endmodule":    KwEndmodule,
	"input":        KwInput,
	"output":       KwOutput,
	"inout":        KwInout,
	"wire":         KwWire,
	"tri":          KwTri,
	"wand":         KwWand,
	"wor":          KwWor,
	"supply0":      KwSupply0,
	"supply1":      KwSupply1,
	"reg":          KwReg,
	"logic":        KwLogic,
	"bit":          KwBit,
	"integer":      KwInteger,
	"int":          KwInt,
	"real":         KwReal,
	"string":       KwString,
	"signed":       KwSigned,
	"unsigned":     KwUnsigned,
	"parameter":    KwParameter,
	"localparam":   KwLocalparam,
	"genvar":       KwGenvar,
	"assign":       KwAssign,
	"always":       KwAlways,
	"always_comb":  KwAlwaysComb,
	"always_ff":    KwAlwaysFF,
	"always_latch": KwAlwaysLatch,
	"initial":      KwInitial,
	"begin":        KwBegin,
	"end":          KwEnd,
	"if":           KwIf,
	"else":         KwElse,
	"case":         KwCase,
	"casez":        KwCasez,
	"casex":        KwCasex,
	"endcase":      KwEndcase,
	"default":      KwDefault,
	"generate":     KwGenerate,
	"endgenerate":  KwEndgenerate,
	"for":          KwFor,
	"posedge":      KwPosedge,
	"negedge":      KwNegedge,
	"or":           KwOr,
	"and":          KwAnd,
	"nand":         KwNand,
	"nor":          KwNor,
	"xor":          KwXor,
	"xnor":         KwXnor,
	"not":          KwNot,
	"buf":          KwBuf,
}

// LookupKeyword returns the keyword kind for ident. Keywords are case
// sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
