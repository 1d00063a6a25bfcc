package core

// Character code constants
const (
	CharEOF       = -1
	CharTAB       = 9
	CharLF        = 10
	CharCR        = 13
	CharSPACE     = 32
	CharBANG      = 33
	CharDQ        = 34
	CharAMPERSAND = 38
	CharSQ        = 39
	CharLPAREN    = 40
	CharRPAREN    = 41
	CharCOMMA     = 44
	CharMINUS     = 45
	CharPERIOD    = 46
	CharSLASH     = 47
	CharSEMICOLON = 59
	CharLT        = 60
	CharEQ        = 61
	CharGT        = 62
	CharAT        = 64

	Char0 = 48
	Char9 = 57

	CharA = 65
	CharZ = 90

	CharUnderscore = 95

	CharLowerA = 97
	CharLowerZ = 122

	CharLBRACE = 123
	CharRBRACE = 125
	CharNBSP   = 160
)

// IsWhitespace checks if a character code represents whitespace
func IsWhitespace(code int) bool {
	return (code >= CharTAB && code <= CharSPACE) || code == CharNBSP
}

// IsDigit checks if a character code represents a digit
func IsDigit(code int) bool {
	return Char0 <= code && code <= Char9
}

// IsAsciiLetter checks if a character code represents an ASCII letter
func IsAsciiLetter(code int) bool {
	return (code >= CharLowerA && code <= CharLowerZ) || (code >= CharA && code <= CharZ)
}

// IsNewLine checks if a character code represents a newline
func IsNewLine(code int) bool {
	return code == CharLF || code == CharCR
}

// IsQuote checks if a character code opens a quoted attribute value
func IsQuote(code int) bool {
	return code == CharSQ || code == CharDQ
}

// IsIdentifierChar reports whether code may appear in a binding name or a
// path segment.
func IsIdentifierChar(code int) bool {
	return IsAsciiLetter(code) || IsDigit(code) || code == CharUnderscore || code == '$' || code == CharMINUS
}
