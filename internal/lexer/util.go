package lexer

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\f' || b == '\v' || b == '\r'
}

func isIdentStartByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b) || b == '$'
}

func isDec(b byte) bool {
	return '0' <= b && b <= '9'
}

func isBaseChar(b byte) bool {
	switch b {
	case 'b', 'B', 'o', 'O', 'd', 'D', 'h', 'H':
		return true
	}
	return false
}

// isBasedDigit accepts the union of digits of every base plus x/z/?.
// The literal parser checks digits against the actual base.
func isBasedDigit(b byte) bool {
	switch {
	case isDec(b), 'a' <= b && b <= 'f', 'A' <= b && b <= 'F':
		return true
	}
	switch b {
	case 'x', 'X', 'z', 'Z', '?', '_':
		return true
	}
	return false
}
