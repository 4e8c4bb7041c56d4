package parser

import (
	"svdump/internal/token"
)

// Таблица приоритетов для бинарных операторов.
// Чем больше число, тем выше приоритет
const (
	precConditional    = 1  // ?:
	precLogicalOr      = 2  // ||
	precLogicalAnd     = 3  // &&
	precBitwiseOr      = 4  // |
	precBitwiseXor     = 5  // ^ ~^
	precBitwiseAnd     = 6  // &
	precEquality       = 7  // == != === !==
	precComparison     = 8  // < <= > >=
	precShift          = 9  // << >> <<< >>>
	precAdditive       = 10 // + -
	precMultiplicative = 11 // * / %
	precPower          = 12 // **
)

// getBinaryOperatorPrec возвращает приоритет и ассоциативность оператора.
// Возвращает (приоритет, правоассоциативный)
func getBinaryOperatorPrec(kind token.Kind) (int, bool) {
	switch kind {
	case token.OrOr:
		return precLogicalOr, false
	case token.AndAnd:
		return precLogicalAnd, false

	case token.Pipe:
		return precBitwiseOr, false
	case token.Caret, token.TildeCaret:
		return precBitwiseXor, false
	case token.Amp:
		return precBitwiseAnd, false

	case token.EqEq, token.BangEq, token.CaseEq, token.CaseNeq:
		return precEquality, false
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, false

	case token.Shl, token.Shr, token.AShl, token.AShr:
		return precShift, false

	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, false
	case token.Power:
		return precPower, false

	default:
		return -1, false // не бинарный оператор
	}
}

// isUnaryOperator reports prefix operators, reductions included.
func isUnaryOperator(kind token.Kind) bool {
	switch kind {
	case token.Plus, token.Minus, token.Bang, token.Tilde,
		token.Amp, token.Pipe, token.Caret,
		token.TildeAmp, token.TildePipe, token.TildeCaret:
		return true
	default:
		return false
	}
}
