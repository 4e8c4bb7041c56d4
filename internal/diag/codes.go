package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscapedIdent          Code = 1005
	LexTokenLimit               Code = 1006

	// Препроцессор
	PPUnknownDirective  Code = 1100
	PPUnbalancedEndif   Code = 1101
	PPUnterminatedIfdef Code = 1102
	PPExpectMacroName   Code = 1103
	PPUndefinedMacro    Code = 1104
	PPRecursiveMacro    Code = 1105
	PPIncludeNotFound   Code = 1106
	PPIgnoredDirective  Code = 1107
	PPIncludeDepth      Code = 1108
	PPMacroRedefinition Code = 1109
	PPMacroArgCount     Code = 1110

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectExpression   Code = 2004
	SynExpectEndmodule    Code = 2005
	SynUnclosedParen      Code = 2006
	SynUnclosedBracket    Code = 2007
	SynUnclosedBrace      Code = 2008
	SynExpectEnd          Code = 2009
	SynUnexpectedTopLevel Code = 2010
	SynUnpackedDimIgnored Code = 2011
	SynMixedPortStyles    Code = 2012
	SynExpectStatement    Code = 2013
	SynExpectEndcase      Code = 2014
	SynExpectEndgenerate  Code = 2015
	SynLabelMismatch      Code = 2016

	// Семантические
	SemaInfo                 Code = 3000
	SemaError                Code = 3001
	SemaDuplicateDefinition  Code = 3002
	SemaDuplicateSymbol      Code = 3003
	SemaUnknownModule        Code = 3004
	SemaUndeclaredIdentifier Code = 3005
	SemaNotConstant          Code = 3006
	SemaUnknownTop           Code = 3007
	SemaNoTopModules         Code = 3008
	SemaInstanceDepth        Code = 3009
	SemaUnknownParameter     Code = 3010
	SemaUnknownPort          Code = 3011
	SemaTooManyConnections   Code = 3012
	SemaDuplicateConnection  Code = 3013
	SemaWidthMismatch        Code = 3014
	SemaGenerateLoopLimit    Code = 3015
	SemaNotAssignable        Code = 3016
	SemaIndexOutOfRange      Code = 3017
	SemaNotAGenvar           Code = 3018
	SemaPortWithoutDecl      Code = 3019
	SemaLocalparamOverride   Code = 3020
	SemaDivideByZero         Code = 3021
	SemaUnusedPort           Code = 3022

	// Ввод-вывод
	IOLoadFileError Code = 4001
	IOReadError     Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed numeric literal",
	LexBadEscapedIdent:          "Malformed escaped identifier",
	LexTokenLimit:               "Token limit exceeded",
	PPUnknownDirective:          "Unknown compiler directive",
	PPUnbalancedEndif:           "Conditional directive without matching `ifdef",
	PPUnterminatedIfdef:         "Unterminated conditional directive",
	PPExpectMacroName:           "Expected macro name",
	PPUndefinedMacro:            "Use of undefined macro",
	PPRecursiveMacro:            "Recursive macro expansion",
	PPIncludeNotFound:           "Included file not found",
	PPIgnoredDirective:          "Directive is ignored",
	PPIncludeDepth:              "Include nesting too deep",
	PPMacroRedefinition:         "Macro redefined",
	PPMacroArgCount:             "Wrong number of macro arguments",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectSemicolon:          "Expected ';'",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectExpression:         "Expected expression",
	SynExpectEndmodule:          "Expected 'endmodule'",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBracket:          "Unclosed bracket",
	SynUnclosedBrace:            "Unclosed brace",
	SynExpectEnd:                "Expected 'end'",
	SynUnexpectedTopLevel:       "Unexpected top-level construct",
	SynUnpackedDimIgnored:       "Unpacked dimensions are not supported",
	SynMixedPortStyles:          "Mixed ANSI and non-ANSI port declarations",
	SynExpectStatement:          "Expected statement",
	SynExpectEndcase:            "Expected 'endcase'",
	SynExpectEndgenerate:        "Expected 'endgenerate'",
	SynLabelMismatch:            "End label does not match",
	SemaInfo:                    "Semantic information",
	SemaError:                   "Semantic error",
	SemaDuplicateDefinition:     "Duplicate module definition",
	SemaDuplicateSymbol:         "Duplicate declaration",
	SemaUnknownModule:           "Unknown module",
	SemaUndeclaredIdentifier:    "Undeclared identifier",
	SemaNotConstant:             "Expression is not constant",
	SemaUnknownTop:              "Unknown top module",
	SemaNoTopModules:            "No top-level modules",
	SemaInstanceDepth:           "Maximum instance depth exceeded",
	SemaUnknownParameter:        "Unknown parameter",
	SemaUnknownPort:             "Unknown port",
	SemaTooManyConnections:      "Too many port connections",
	SemaDuplicateConnection:     "Duplicate port connection",
	SemaWidthMismatch:           "Width mismatch",
	SemaGenerateLoopLimit:       "Generate loop iteration limit exceeded",
	SemaNotAssignable:           "Expression is not assignable",
	SemaIndexOutOfRange:         "Index out of range",
	SemaNotAGenvar:              "Loop variable is not a genvar",
	SemaPortWithoutDecl:         "Port has no declaration",
	SemaLocalparamOverride:      "Local parameter cannot be overridden",
	SemaDivideByZero:            "Division by zero in constant expression",
	SemaUnusedPort:              "Port is never connected",
	IOLoadFileError:             "Failed to load file",
	IOReadError:                 "Failed to read file",
}

// ID returns the stable string form of c, e.g. "SYN2001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 1100:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 1100 && ic < 2000:
		return fmt.Sprintf("PP%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
