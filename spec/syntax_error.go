package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// lexical errors
	synErrInvalidToken = newSyntaxError("invalid token")

	// syntax errors
	synErrUnknownSection     = newSyntaxError("a section must start with feature, relation-sorting, word, rule, family or testbed")
	synErrNoLBrace           = newSyntaxError("a section body must start with '{'")
	synErrUnclosedBlock      = newSyntaxError("unclosed block; '}' is missing")
	synErrNoSemicolon        = newSyntaxError("the semicolon is missing at the end of a declaration")
	synErrNoName             = newSyntaxError("a name is missing")
	synErrNoColon            = newSyntaxError("the colon is missing")
	synErrUnclosedIDList     = newSyntaxError("unclosed feature structure id list; '>' is missing")
	synErrUnclosedParen      = newSyntaxError("unclosed parenthesis; ')' is missing")
	synErrUnclosedBracket    = newSyntaxError("unclosed bracket; ']' is missing")
	synErrInvalidNumOfParses = newSyntaxError("the number of parses must be an integer")
	synErrNoEntry            = newSyntaxError("a family body may only contain entry and member declarations")
)
