package spec

import (
	"io"
	"strconv"
	"strings"

	verr "github.com/nihei9/xml2ccg/error"
)

// Document is the content of a .ccg file.
type Document struct {
	Features        []*FeatureNode
	SpecialMacros   []*MacroNode
	RelationSorting string
	Words           []*WordNode
	// Rules holds the statements of the rule blocks with white spaces collapsed.
	Rules    []string
	Families []*FamilyNode
	Testbed  []*TestbedItem
}

type FeatureNode struct {
	Name              string
	Distributive      bool
	IDs               []string
	Licensing         string
	AdditionalParents []string
	Children          []*FeatureNode
	// Value is set only for `name:value` children of a special macro declaration.
	Value string
	Pos   Position
}

// MacroNode is a special macro declaration `attr<id>: name:value;`.
type MacroNode struct {
	Attr  string
	ID    string
	Name  string
	Value string
	Pos   Position
}

type WordNode struct {
	Stem       string
	Family     string
	Attributes []string
	Forms      []*FormNode
	Pos        Position
}

type FormNode struct {
	Form   string
	Macros []string
}

type FamilyNode struct {
	Name       string
	Attributes string
	Entries    []*EntryNode
	Members    []string
	Pos        Position
}

type EntryNode struct {
	Name     string
	Category string
	Pos      Position
}

type TestbedItem struct {
	Sentence    string
	NumOfParses string
	Known       bool
	Pos         Position
}

func raiseSyntaxError(tok *token, synErr *SyntaxError) {
	panic(&verr.GrammarError{
		Cause: synErr,
		Row:   tok.pos.Row,
		Col:   tok.pos.Col,
	})
}

func Parse(src io.Reader) (*Document, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{
		toks: toks,
	}
	return p.parse()
}

type parser struct {
	toks    []*token
	next    int
	lastTok *token
}

func (p *parser) parse() (doc *Document, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			gErr, ok := err.(*verr.GrammarError)
			if !ok {
				panic(err)
			}
			doc = nil
			retErr = gErr
		}
	}()

	doc = &Document{}
	for {
		if p.consume(tokenKindEOF) {
			return doc, nil
		}
		if !p.consume(tokenKindWord) {
			raiseSyntaxError(p.peek(), synErrUnknownSection)
		}
		switch p.lastTok.text {
		case "feature":
			p.parseFeatureSection(doc)
		case "relation-sorting":
			p.expect(tokenKindColon, synErrNoColon)
			doc.RelationSorting = p.readRaw(tokenKindSemicolon, rawModeNested, synErrNoSemicolon)
		case "word":
			doc.Words = append(doc.Words, p.parseWord())
		case "rule":
			doc.Rules = append(doc.Rules, p.parseRuleSection()...)
		case "family":
			doc.Families = append(doc.Families, p.parseFamily())
		case "testbed":
			doc.Testbed = append(doc.Testbed, p.parseTestbed()...)
		default:
			raiseSyntaxError(p.lastTok, synErrUnknownSection)
		}
	}
}

func (p *parser) parseFeatureSection(doc *Document) {
	p.expect(tokenKindLBrace, synErrNoLBrace)
	for {
		if p.consume(tokenKindRBrace) {
			return
		}
		if p.peek().kind == tokenKindEOF {
			raiseSyntaxError(p.peek(), synErrUnclosedBlock)
		}

		pos := p.peek().pos
		f := &FeatureNode{
			Pos: pos,
		}
		f.Distributive = p.consume(tokenKindBang)
		f.Name = p.expectName()
		if p.consume(tokenKindLAngle) {
			for _, id := range strings.Split(p.readRaw(tokenKindRAngle, rawModeNested, synErrUnclosedIDList), ",") {
				f.IDs = append(f.IDs, strings.TrimSpace(id))
			}
		}
		f.Licensing = p.parseLicensing()
		if p.consume(tokenKindColon) {
			f.Children = p.parseFeatureChildren(tokenKindSemicolon, synErrNoSemicolon)
		}
		p.expect(tokenKindSemicolon, synErrNoSemicolon)

		if len(f.Children) > 0 && f.Children[0].Value != "" {
			for _, c := range f.Children {
				doc.SpecialMacros = append(doc.SpecialMacros, &MacroNode{
					Attr:  f.Name,
					ID:    strings.Join(f.IDs, ","),
					Name:  c.Name,
					Value: c.Value,
					Pos:   pos,
				})
			}
			continue
		}
		doc.Features = append(doc.Features, f)
	}
}

func (p *parser) parseFeatureChildren(end tokenKind, unclosed *SyntaxError) []*FeatureNode {
	var children []*FeatureNode
	for {
		tok := p.peek()
		if tok.kind == end {
			return children
		}
		if !isName(tok) {
			raiseSyntaxError(tok, unclosed)
		}
		children = append(children, p.parseFeatureChild())
	}
}

func (p *parser) parseFeatureChild() *FeatureNode {
	pos := p.peek().pos
	name := p.expectName()
	if p.consume(tokenKindColon) {
		return &FeatureNode{
			Name:  name,
			Value: p.expectName(),
			Pos:   pos,
		}
	}

	f := &FeatureNode{
		Name:      name,
		Licensing: p.parseLicensing(),
		Pos:       pos,
	}
	if p.consume(tokenKindLBracket) {
		for !p.consume(tokenKindRBracket) {
			if p.peek().kind == tokenKindEOF {
				raiseSyntaxError(p.peek(), synErrUnclosedBracket)
			}
			f.AdditionalParents = append(f.AdditionalParents, p.expectName())
		}
	}
	if p.consume(tokenKindLBrace) {
		f.Children = p.parseFeatureChildren(tokenKindRBrace, synErrUnclosedBlock)
		p.expect(tokenKindRBrace, synErrUnclosedBlock)
	}
	return f
}

func (p *parser) parseLicensing() string {
	if !p.consume(tokenKindLParen) {
		return ""
	}
	return p.readRaw(tokenKindRParen, rawModeNested, synErrUnclosedParen)
}

func (p *parser) parseWord() *WordNode {
	w := &WordNode{
		Pos: p.lastTok.pos,
	}
	w.Stem = p.expectName()
	// `stem:family` is written without white spaces. A colon followed by a white space starts
	// the macro list instead.
	if p.next+1 < len(p.toks) && p.toks[p.next].kind == tokenKindColon && isName(p.toks[p.next+1]) {
		p.consume(tokenKindColon)
		w.Family = p.expectName()
	}
	if p.consume(tokenKindLParen) {
		for _, a := range strings.Split(p.readRaw(tokenKindRParen, rawModeNested, synErrUnclosedParen), ",") {
			w.Attributes = append(w.Attributes, strings.TrimSpace(a))
		}
	}

	switch {
	case p.consume(tokenKindSemicolon):
		w.Forms = []*FormNode{{Form: w.Stem}}
	case p.consume(tokenKindColon):
		w.Forms = []*FormNode{{Form: w.Stem, Macros: p.parseMacroList()}}
	case p.consume(tokenKindLBrace):
		for !p.consume(tokenKindRBrace) {
			if p.peek().kind == tokenKindEOF {
				raiseSyntaxError(p.peek(), synErrUnclosedBlock)
			}
			form := &FormNode{
				Form: p.expectName(),
			}
			if p.consume(tokenKindColon) {
				form.Macros = p.parseMacroList()
			} else {
				p.expect(tokenKindSemicolon, synErrNoSemicolon)
			}
			w.Forms = append(w.Forms, form)
		}
	default:
		raiseSyntaxError(p.peek(), synErrNoSemicolon)
	}
	return w
}

// parseMacroList reads names up to and including a semicolon.
func (p *parser) parseMacroList() []string {
	var names []string
	for !p.consume(tokenKindSemicolon) {
		if p.peek().kind == tokenKindEOF {
			raiseSyntaxError(p.peek(), synErrNoSemicolon)
		}
		names = append(names, p.expectName())
	}
	return names
}

func (p *parser) parseRuleSection() []string {
	p.expect(tokenKindLBrace, synErrNoLBrace)
	var stmts []string
	for !p.consume(tokenKindRBrace) {
		if p.peek().kind == tokenKindEOF {
			raiseSyntaxError(p.peek(), synErrUnclosedBlock)
		}
		stmt := p.readRaw(tokenKindSemicolon, rawModeNested, synErrNoSemicolon)
		if stmt == "" {
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

func (p *parser) parseFamily() *FamilyNode {
	f := &FamilyNode{
		Pos: p.lastTok.pos,
	}
	f.Name = p.expectName()
	if p.consume(tokenKindLParen) {
		f.Attributes = p.readRaw(tokenKindRParen, rawModeNested, synErrUnclosedParen)
	}
	p.expect(tokenKindLBrace, synErrNoLBrace)
	for !p.consume(tokenKindRBrace) {
		if p.peek().kind == tokenKindEOF {
			raiseSyntaxError(p.peek(), synErrUnclosedBlock)
		}
		if !p.consume(tokenKindWord) {
			raiseSyntaxError(p.peek(), synErrNoEntry)
		}
		switch p.lastTok.text {
		case "entry":
			e := &EntryNode{
				Pos: p.lastTok.pos,
			}
			if !p.consume(tokenKindColon) {
				e.Name = p.expectName()
				p.expect(tokenKindColon, synErrNoColon)
			}
			e.Category = p.readRaw(tokenKindSemicolon, rawModeNested, synErrNoSemicolon)
			f.Entries = append(f.Entries, e)
		case "member":
			p.expect(tokenKindColon, synErrNoColon)
			f.Members = append(f.Members, p.parseMacroList()...)
		default:
			raiseSyntaxError(p.lastTok, synErrNoEntry)
		}
	}
	return f
}

func (p *parser) parseTestbed() []*TestbedItem {
	p.expect(tokenKindLBrace, synErrNoLBrace)
	var items []*TestbedItem
	for {
		// A sentence may start with a character no other token accepts, so the next token
		// is inspected without consume.
		tok := p.peek()
		if tok.kind == tokenKindRBrace {
			p.next++
			p.lastTok = tok
			return items
		}
		if tok.kind == tokenKindEOF {
			raiseSyntaxError(tok, synErrUnclosedBlock)
		}
		item := &TestbedItem{
			Pos: tok.pos,
		}
		if tok.kind == tokenKindBang {
			p.next++
			p.lastTok = tok
			item.Known = true
		}
		text := p.readRaw(tokenKindSemicolon, rawModeVerbatim, synErrNoSemicolon)
		i := strings.LastIndex(text, ":")
		if i < 0 {
			raiseSyntaxError(p.lastTok, synErrNoColon)
		}
		item.Sentence = strings.TrimSpace(text[:i])
		item.NumOfParses = strings.TrimSpace(text[i+1:])
		if _, err := strconv.Atoi(item.NumOfParses); err != nil {
			raiseSyntaxError(p.lastTok, synErrInvalidNumOfParses)
		}
		items = append(items, item)
	}
}

type rawMode int

const (
	// rawModeNested collapses white spaces into one space and doesn't stop inside braces,
	// parentheses or brackets.
	rawModeNested rawMode = iota
	// rawModeVerbatim keeps white spaces and accepts any character.
	rawModeVerbatim
)

// readRaw returns the source text up to a stop token and consumes the stop token. Comments are
// dropped and the result is trimmed.
func (p *parser) readRaw(stop tokenKind, mode rawMode, unclosed *SyntaxError) string {
	var b strings.Builder
	depth := 0
	space := false
	for {
		tok := p.toks[p.next]
		if tok.kind == tokenKindEOF {
			raiseSyntaxError(tok, unclosed)
		}
		if tok.kind == stop && (depth == 0 || mode == rawModeVerbatim) {
			p.next++
			p.lastTok = tok
			return strings.TrimSpace(b.String())
		}
		p.next++

		switch tok.kind {
		case tokenKindComment:
			continue
		case tokenKindWhiteSpace:
			if mode == rawModeVerbatim {
				b.WriteString(tok.lexeme)
			} else if !space {
				b.WriteString(" ")
				space = true
			}
			continue
		case tokenKindInvalid:
			if mode != rawModeVerbatim {
				raiseSyntaxError(tok, synErrInvalidToken)
			}
		}
		if mode == rawModeNested {
			switch tok.kind {
			case tokenKindLBrace, tokenKindLParen, tokenKindLBracket:
				depth++
			case tokenKindRBrace, tokenKindRParen, tokenKindRBracket:
				if depth == 0 {
					raiseSyntaxError(tok, unclosed)
				}
				depth--
			}
		}
		b.WriteString(tok.lexeme)
		space = false
	}
}

// peek returns the next token that is neither a white space nor a comment.
func (p *parser) peek() *token {
	for !p.toks[p.next].significant() {
		p.next++
	}
	return p.toks[p.next]
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.peek()
	if tok.kind == tokenKindInvalid {
		raiseSyntaxError(tok, synErrInvalidToken)
	}
	if tok.kind != expected {
		return false
	}
	p.next++
	p.lastTok = tok
	return true
}

func (p *parser) expect(expected tokenKind, synErr *SyntaxError) {
	if !p.consume(expected) {
		raiseSyntaxError(p.peek(), synErr)
	}
}

func (p *parser) expectName() string {
	if !p.consume(tokenKindWord) && !p.consume(tokenKindString) {
		raiseSyntaxError(p.peek(), synErrNoName)
	}
	return p.lastTok.text
}

func isName(tok *token) bool {
	return tok.kind == tokenKindWord || tok.kind == tokenKindString
}
