package internal

import (
	"strings"
	"unicode"
)

// Tokenize splits text at white space and at any rune in delims. A double
// quote starts a token that runs to the next double quote; the quotes are
// dropped and delimiters inside are kept. An unterminated quote runs to the
// end of text.
func Tokenize(text string, delims string) (tokens []string) {
	var token strings.Builder
	inToken := false

	flush := func() {
		if inToken {
			tokens = append(tokens, token.String())
			token.Reset()
			inToken = false
		}
	}

	quoted := false
	for _, r := range text {
		switch {
		case quoted:
			if r == '"' {
				quoted = false
				flush()
				continue
			}
			token.WriteRune(r)
		case r == '"':
			flush()
			quoted = true
			inToken = true
		case unicode.IsSpace(r) || strings.ContainsRune(delims, r):
			flush()
		default:
			token.WriteRune(r)
			inToken = true
		}
	}
	flush()

	return
}
