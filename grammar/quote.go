package grammar

import (
	"fmt"

	"github.com/nihei9/xml2ccg/spec"
)

func raiseError(err error) {
	panic(err)
}

func quote(word string) string {
	q, err := spec.Quote(word)
	if err != nil {
		raiseError(err)
	}
	return q
}

func quoteAll(words []string) []string {
	qs := make([]string, len(words))
	for i, w := range words {
		qs[i] = quote(w)
	}
	return qs
}

// recoverError converts a panic raised by raiseError into an error.
func recoverError(retErr *error) {
	v := recover()
	if v == nil {
		return
	}
	if err, ok := v.(error); ok {
		*retErr = err
		return
	}
	*retErr = fmt.Errorf("an unexpected error occurred: %v", v)
}
