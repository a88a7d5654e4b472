package spec

import (
	"errors"
	"testing"

	verr "github.com/nihei9/xml2ccg/error"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		word   string
		quoted string
		err    error
	}{
		{word: "dog", quoted: "dog"},
		{word: "sg-3rd", quoted: "sg-3rd"},
		{word: "+%_*", quoted: "+%_*"},
		{word: "", quoted: ""},
		{word: "a.b", quoted: "'a.b'"},
		{word: "New York", quoted: "'New York'"},
		{word: "don't", quoted: `"don't"`},
		{word: `say "hi"`, quoted: `'say "hi"'`},
		{word: "über", quoted: "'über'"},
		{word: `it's "x"`, err: verr.ErrUnquotable},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			quoted, err := Quote(tt.word)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if quoted != tt.quoted {
				t.Fatalf("unexpected quoted word; want: %v, got: %v", tt.quoted, quoted)
			}
			if u := Unquote(quoted); u != tt.word {
				t.Fatalf("Unquote must restore the word; want: %v, got: %v", tt.word, u)
			}
		})
	}
}
