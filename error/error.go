package error

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// GrammarError reports a problem found while reading or converting a grammar.
// SourceName is the name shown to the user (a file name or "stdin") and FilePath
// is the file used to print the offending line when Row is known.
type GrammarError struct {
	Cause      error
	Detail     string
	FilePath   string
	SourceName string
	Row        int
	Col        int
}

func (e *GrammarError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Row != 0 {
		if e.Col != 0 {
			fmt.Fprintf(&b, "%v:%v: ", e.Row, e.Col)
		} else {
			fmt.Fprintf(&b, "%v: ", e.Row)
		}
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}

	line := readLine(e.FilePath, e.Row)
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
	}

	return b.String()
}

func (e *GrammarError) Unwrap() error {
	return e.Cause
}

func readLine(filePath string, row int) string {
	if filePath == "" || row <= 0 {
		return ""
	}

	f, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	i := 1
	s := bufio.NewScanner(f)
	for s.Scan() {
		if i == row {
			return s.Text()
		}
		i++
	}

	return ""
}

// Cause is a sentinel error used as GrammarError.Cause. Callers match causes with errors.Is.
type Cause struct {
	message string
}

func NewCause(message string) *Cause {
	return &Cause{
		message: message,
	}
}

func (c *Cause) Error() string {
	return c.message
}

var (
	ErrDuplicateFeature   = NewCause("feature specified twice in types")
	ErrUndeclaredParent   = NewCause("undeclared parent type")
	ErrUnknownFeature     = NewCause("unknown feature")
	ErrUnquotable         = NewCause("cannot handle single and double quotes in a single word")
	ErrUnknownCategoryTag = NewCause("unknown category tag")
	ErrUnknownDiamondTag  = NewCause("unknown tag inside 'diamond'")
	ErrMalformedXML       = NewCause("malformed XML")
	ErrUnknownDirection   = NewCause("unknown rule direction")
)
