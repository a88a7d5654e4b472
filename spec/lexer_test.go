package spec

import (
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tok := func(kind tokenKind, text string) *token {
		return &token{
			kind: kind,
			text: text,
		}
	}
	sym := func(kind tokenKind) *token {
		return tok(kind, string(kind))
	}
	eof := &token{
		kind: tokenKindEOF,
	}

	tests := []struct {
		caption string
		src     string
		tokens  []*token
	}{
		{
			caption: "the lexer can recognize all kinds of tokens",
			src:     `feature{}()[]<>:;,= => ! / 'a b' "c'd" word-1`,
			tokens: []*token{
				tok(tokenKindWord, "feature"),
				sym(tokenKindLBrace),
				sym(tokenKindRBrace),
				sym(tokenKindLParen),
				sym(tokenKindRParen),
				sym(tokenKindLBracket),
				sym(tokenKindRBracket),
				sym(tokenKindLAngle),
				sym(tokenKindRAngle),
				sym(tokenKindColon),
				sym(tokenKindSemicolon),
				sym(tokenKindComma),
				sym(tokenKindEqual),
				sym(tokenKindArrow),
				sym(tokenKindBang),
				tok(tokenKindSymbol, "/"),
				tok(tokenKindString, "a b"),
				tok(tokenKindString, "c'd"),
				tok(tokenKindWord, "word-1"),
				eof,
			},
		},
		{
			caption: "directions and wildcards are words",
			src:     `app +-; *`,
			tokens: []*token{
				tok(tokenKindWord, "app"),
				tok(tokenKindWord, "+-"),
				sym(tokenKindSemicolon),
				tok(tokenKindWord, "*"),
				eof,
			},
		},
		{
			caption: "the lexer skips comments",
			src: `# Features
feature { # trailing
}`,
			tokens: []*token{
				tok(tokenKindWord, "feature"),
				sym(tokenKindLBrace),
				sym(tokenKindRBrace),
				eof,
			},
		},
		{
			caption: "the lexer can recognize category symbols",
			src:     `s<~2>\np$1^x.y`,
			tokens: []*token{
				tok(tokenKindWord, "s"),
				sym(tokenKindLAngle),
				tok(tokenKindSymbol, "~"),
				tok(tokenKindWord, "2"),
				sym(tokenKindRAngle),
				tok(tokenKindSymbol, `\`),
				tok(tokenKindWord, "np"),
				tok(tokenKindSymbol, "$"),
				tok(tokenKindWord, "1"),
				tok(tokenKindSymbol, "^"),
				tok(tokenKindWord, "x"),
				tok(tokenKindSymbol, "."),
				tok(tokenKindWord, "y"),
				eof,
			},
		},
		{
			caption: "the lexer can recognize valid tokens following an invalid token",
			src:     `abc ` + "é" + ` def`,
			tokens: []*token{
				tok(tokenKindWord, "abc"),
				tok(tokenKindInvalid, "é"),
				tok(tokenKindWord, "def"),
				eof,
			},
		},
		{
			caption: "a quote doesn't pair up with a quote on another line",
			src:     "John's dog;\nMary's cat;",
			tokens: []*token{
				tok(tokenKindWord, "John"),
				tok(tokenKindInvalid, "'"),
				tok(tokenKindWord, "s"),
				tok(tokenKindWord, "dog"),
				sym(tokenKindSemicolon),
				tok(tokenKindWord, "Mary"),
				tok(tokenKindInvalid, "'"),
				tok(tokenKindWord, "s"),
				tok(tokenKindWord, "cat"),
				sym(tokenKindSemicolon),
				eof,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			toks, err := tokenize(strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			var sig []*token
			for _, tok := range toks {
				if tok.significant() {
					sig = append(sig, tok)
				}
			}
			if len(sig) != len(tt.tokens) {
				t.Fatalf("unexpected token count; want: %v, got: %v (%+v)", len(tt.tokens), len(sig), sig)
			}
			for i, tok := range sig {
				testToken(t, tok, tt.tokens[i])
			}
		})
	}
}

func TestTokenize_KeepsWhiteSpacesAndPositions(t *testing.T) {
	toks, err := tokenize(strings.NewReader("a  b\n# c\nd"))
	if err != nil {
		t.Fatal(err)
	}
	kinds := []tokenKind{
		tokenKindWord,
		tokenKindWhiteSpace,
		tokenKindWord,
		tokenKindWhiteSpace,
		tokenKindComment,
		tokenKindWhiteSpace,
		tokenKindWord,
		tokenKindEOF,
	}
	if len(toks) != len(kinds) {
		t.Fatalf("unexpected token count; want: %v, got: %v", len(kinds), len(toks))
	}
	for i, tok := range toks {
		if tok.kind != kinds[i] {
			t.Fatalf("unexpected token kind at %v; want: %v, got: %v", i, kinds[i], tok.kind)
		}
	}
	if toks[1].lexeme != "  " {
		t.Fatalf("unexpected white space; want: %q, got: %q", "  ", toks[1].lexeme)
	}
	if d := toks[6]; d.pos.Row != 3 || d.pos.Col != 1 {
		t.Fatalf("unexpected position; want: 3:1, got: %v:%v", d.pos.Row, d.pos.Col)
	}
}

func testToken(t *testing.T, tok, expected *token) {
	t.Helper()
	if tok.kind != expected.kind || tok.text != expected.text {
		t.Fatalf("unexpected token; want: %+v, got: %+v", expected, tok)
	}
}
