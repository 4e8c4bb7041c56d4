package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the token stream.
	EOF

	Ident       // foo, \bus[0]
	SystemIdent // $clog2
	Directive   // `define
	IntLit      // 12, 8'hff, 'd5
	UnbasedLit  // '0 '1 'x 'z
	RealLit     // 1.5, 2e3
	StringLit   // "text"

	keywordBegin
	KwModule
	KwMacromodule
	KwEndmodule
	KwInput
	KwOutput
	KwInout
	KwWire
	KwTri
	KwWand
	KwWor
	KwSupply0
	KwSupply1
	KwReg
	KwLogic
	KwBit
	KwInteger
	KwInt
	KwReal
	KwString
	KwSigned
	KwUnsigned
	KwParameter
	KwLocalparam
	KwGenvar
	KwAssign
	KwAlways
	KwAlwaysComb
	KwAlwaysFF
	KwAlwaysLatch
	KwInitial
	KwBegin
	KwEnd
	KwIf
	KwElse
	KwCase
	KwCasez
	KwCasex
	KwEndcase
	KwDefault
	KwGenerate
	KwEndgenerate
	KwFor
	KwPosedge
	KwNegedge
	KwOr
	KwAnd
	KwNand
	KwNor
	KwXor
	KwXnor
	KwNot
	KwBuf
	keywordEnd

	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Power      // **
	EqEq       // ==
	BangEq     // !=
	CaseEq     // ===
	CaseNeq    // !==
	Lt         // <
	LtEq       // <=
	Gt         // >
	GtEq       // >=
	AndAnd     // &&
	OrOr       // ||
	Bang       // !
	Tilde      // ~
	Amp        // &
	Pipe       // |
	Caret      // ^
	TildeAmp   // ~&
	TildePipe  // ~|
	TildeCaret // ~^ or ^~
	Shl        // <<
	Shr        // >>
	AShl       // <<<
	AShr       // >>>
	Question   // ?
	Colon      // :
	Assign     // =
	PlusColon  // +:
	MinusColon // -:
	LParen     // (
	RParen     // )
	LBracket   // [
	RBracket   // ]
	LBrace     // {
	RBrace     // }
	Comma      // ,
	Semicolon  // ;
	Dot        // .
	Hash       // #
	At         // @
	AttrOpen   // (*
	AttrClose  // *)

	kindCount
)

var kindNames = [kindCount]string{
	Invalid:     "invalid",
	EOF:         "end of file",
	Ident:       "identifier",
	SystemIdent: "system name",
	Directive:   "directive",
	IntLit:      "integer literal",
	UnbasedLit:  "unbased literal",
	RealLit:     "real literal",
	StringLit:   "string literal",
	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	Slash:       "/",
	Percent:     "%",
	Power:       "**",
	EqEq:        "==",
	BangEq:      "!=",
	CaseEq:      "===",
	CaseNeq:     "!==",
	Lt:          "<",
	LtEq:        "<=",
	Gt:          ">",
	GtEq:        ">=",
	AndAnd:      "&&",
	OrOr:        "||",
	Bang:        "!",
	Tilde:       "~",
	Amp:         "&",
	Pipe:        "|",
	Caret:       "^",
	TildeAmp:    "~&",
	TildePipe:   "~|",
	TildeCaret:  "~^",
	Shl:         "<<",
	Shr:         ">>",
	AShl:        "<<<",
	AShr:        ">>>",
	Question:    "?",
	Colon:       ":",
	Assign:      "=",
	PlusColon:   "+:",
	MinusColon:  "-:",
	LParen:      "(",
	RParen:      ")",
	LBracket:    "[",
	RBracket:    "]",
	LBrace:      "{",
	RBrace:      "}",
	Comma:       ",",
	Semicolon:   ";",
	Dot:         ".",
	Hash:        "#",
	At:          "@",
	AttrOpen:    "(*",
	AttrClose:   "*)",
}

func init() {
	for text, k := range keywords {
		kindNames[k] = text
	}
}

func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k > keywordBegin && k < keywordEnd
}
