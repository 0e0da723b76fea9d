package parser

import (
	"strconv"
	"strings"
)

// parseIntegerLexeme converts a scanned integer lexeme (decimal, 0x hex, or
// 0b binary) into its value.
func parseIntegerLexeme(lexeme string) (int64, error) {
	switch {
	case strings.HasPrefix(lexeme, "0x") || strings.HasPrefix(lexeme, "0X"):
		return strconv.ParseInt(lexeme[2:], 16, 64)
	case strings.HasPrefix(lexeme, "0b") || strings.HasPrefix(lexeme, "0B"):
		return strconv.ParseInt(lexeme[2:], 2, 64)
	default:
		return strconv.ParseInt(lexeme, 10, 64)
	}
}

func parseDoubleLexeme(lexeme string) (float64, error) {
	return strconv.ParseFloat(lexeme, 64)
}
