package spec

import (
	"strings"

	verr "github.com/nihei9/xml2ccg/error"
)

// NeedsQuote reports whether word contains a character that cannot appear in a bare .ccg token.
func NeedsQuote(word string) bool {
	for _, c := range word {
		if !isBareChar(c) {
			return true
		}
	}
	return false
}

func isBareChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '+' || c == '%' || c == '_' || c == '*':
		return true
	}
	return false
}

// Quote wraps word in quotes when it contains characters outside [a-zA-Z0-9\-+%_*].
// Single quotes are preferred; double quotes are used when the word contains a single quote.
// A word containing both quote characters cannot be represented.
func Quote(word string) (string, error) {
	if !NeedsQuote(word) {
		return word, nil
	}
	hasSingle := strings.Contains(word, "'")
	hasDouble := strings.Contains(word, `"`)
	switch {
	case hasSingle && hasDouble:
		return "", &verr.GrammarError{
			Cause:  verr.ErrUnquotable,
			Detail: word,
		}
	case hasSingle:
		return `"` + word + `"`, nil
	default:
		return "'" + word + "'", nil
	}
}

// Unquote removes the quotes added by Quote.
func Unquote(word string) string {
	if len(word) >= 2 {
		if (word[0] == '\'' && word[len(word)-1] == '\'') || (word[0] == '"' && word[len(word)-1] == '"') {
			return word[1 : len(word)-1]
		}
	}
	return word
}
