package spec

import (
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
	verr "github.com/nihei9/xml2ccg/error"
)

type tokenKind string

const (
	tokenKindWord       = tokenKind("word")
	tokenKindString     = tokenKind("string")
	tokenKindLBrace     = tokenKind("{")
	tokenKindRBrace     = tokenKind("}")
	tokenKindLParen     = tokenKind("(")
	tokenKindRParen     = tokenKind(")")
	tokenKindLBracket   = tokenKind("[")
	tokenKindRBracket   = tokenKind("]")
	tokenKindLAngle     = tokenKind("<")
	tokenKindRAngle     = tokenKind(">")
	tokenKindColon      = tokenKind(":")
	tokenKindSemicolon  = tokenKind(";")
	tokenKindComma      = tokenKind(",")
	tokenKindEqual      = tokenKind("=")
	tokenKindArrow      = tokenKind("=>")
	tokenKindBang       = tokenKind("!")
	tokenKindSymbol     = tokenKind("symbol")
	tokenKindWhiteSpace = tokenKind("white space")
	tokenKindComment    = tokenKind("comment")
	tokenKindInvalid    = tokenKind("invalid")
	tokenKindEOF        = tokenKind("eof")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	// text is the lexeme without quotes for string tokens and the lexeme otherwise.
	text   string
	lexeme string
	pos    Position
}

func (t *token) significant() bool {
	return t.kind != tokenKindWhiteSpace && t.kind != tokenKindComment
}

// lexEntries maps maleeni kind names to token kinds. The order decides which entry wins when
// two patterns match the same text.
var lexEntries = []struct {
	kind    string
	pattern string
	token   tokenKind
}{
	{"white_space", `[\u{0009}\u{000A}\u{000D}\u{0020}]+`, tokenKindWhiteSpace},
	{"comment", `#[^\u{000A}]*`, tokenKindComment},
	{"arrow", mlspec.EscapePattern("=>"), tokenKindArrow},
	{"word", `[-0-9A-Za-z_%*+]+`, tokenKindWord},
	// Quoted names end within their line and statement.
	{"single_quoted", `'[^'\u{000A};]*'`, tokenKindString},
	{"double_quoted", `"[^"\u{000A};]*"`, tokenKindString},
	{"l_brace", mlspec.EscapePattern("{"), tokenKindLBrace},
	{"r_brace", mlspec.EscapePattern("}"), tokenKindRBrace},
	{"l_paren", mlspec.EscapePattern("("), tokenKindLParen},
	{"r_paren", mlspec.EscapePattern(")"), tokenKindRParen},
	{"l_bracket", mlspec.EscapePattern("["), tokenKindLBracket},
	{"r_bracket", mlspec.EscapePattern("]"), tokenKindRBracket},
	{"l_angle", mlspec.EscapePattern("<"), tokenKindLAngle},
	{"r_angle", mlspec.EscapePattern(">"), tokenKindRAngle},
	{"colon", mlspec.EscapePattern(":"), tokenKindColon},
	{"semicolon", mlspec.EscapePattern(";"), tokenKindSemicolon},
	{"comma", mlspec.EscapePattern(","), tokenKindComma},
	{"equal", mlspec.EscapePattern("="), tokenKindEqual},
	{"bang", mlspec.EscapePattern("!"), tokenKindBang},
	{"symbol", `[/\\|$~\^.@&?]`, tokenKindSymbol},
}

var (
	compileOnce  sync.Once
	compiledSpec *mlspec.CompiledLexSpec
	compileErr   error
	kindTokens   map[string]tokenKind
)

func compileLexSpec() (*mlspec.CompiledLexSpec, error) {
	compileOnce.Do(func() {
		entries := make([]*mlspec.LexEntry, len(lexEntries))
		kindTokens = map[string]tokenKind{}
		for i, e := range lexEntries {
			entries[i] = &mlspec.LexEntry{
				Kind:    mlspec.LexKindName(e.kind),
				Pattern: mlspec.LexPattern(e.pattern),
			}
			kindTokens[e.kind] = e.token
		}
		s, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
			Name:    "ccg",
			Entries: entries,
		}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				var b strings.Builder
				for i, cErr := range cErrs {
					if i > 0 {
						fmt.Fprintf(&b, "\n")
					}
					fmt.Fprintf(&b, "%v: %v", cErr.Kind, cErr.Cause)
				}
				compileErr = fmt.Errorf("Cannot compile the .ccg lexical specification: %v", b.String())
				return
			}
			compileErr = err
			return
		}
		compiledSpec = s
	})
	return compiledSpec, compileErr
}

// tokenize reads all tokens of src, including white spaces and comments. The last token is EOF.
func tokenize(src io.Reader) ([]*token, error) {
	s, err := compileLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}

	var toks []*token
	for {
		tok, err := d.Next()
		if err != nil {
			return nil, err
		}
		pos := newPosition(tok.Row+1, tok.Col+1)
		if tok.EOF {
			toks = append(toks, &token{
				kind: tokenKindEOF,
				pos:  pos,
			})
			return toks, nil
		}
		lexeme := string(tok.Lexeme)
		if tok.Invalid {
			toks = append(toks, &token{
				kind:   tokenKindInvalid,
				text:   lexeme,
				lexeme: lexeme,
				pos:    pos,
			})
			continue
		}
		kind, ok := kindTokens[s.KindNames[tok.KindID].String()]
		if !ok {
			return nil, &verr.GrammarError{
				Cause:  synErrInvalidToken,
				Detail: lexeme,
				Row:    pos.Row,
				Col:    pos.Col,
			}
		}
		text := lexeme
		if kind == tokenKindString {
			text = Unquote(lexeme)
		}
		toks = append(toks, &token{
			kind:   kind,
			text:   text,
			lexeme: lexeme,
			pos:    pos,
		})
	}
}
