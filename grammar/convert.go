package grammar

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	verr "github.com/nihei9/xml2ccg/error"
	"github.com/nihei9/xml2ccg/store"
)

const ccgTemplate = `%v
#
# This grammar was automatically generated from OpenCCG
# xml files using the xml2ccg tool.
#
# Conversion date: %v
#
# For a tutorial on using this file, please refer to
# http://www.utcompling.com/wiki/openccg/visccg-tutorial
#

###################### Features #########################

%v

######################## Words ##########################

%v

######################## Rules ##########################

%v

################# Lexicon/Categories ####################

%v

####################### Testbed #########################

%v
`

const (
	bannerWidth = 57
	dateLayout  = "2006-01-02T15:04:05.000000"
)

// Grammar is the in-memory form of one grammar directory. A nil Features, Rules or Testbed
// means the grammar has no such document.
type Grammar struct {
	Name       string
	Features   *FeatureHierarchy
	WordGroups []*WordGroup
	Rules      *RuleSet
	Families   []*Family
	Testbed    []*TestItem
	hasTestbed bool
}

type GrammarBuilder struct {
	Store *store.Store
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	types, err := b.Store.Types()
	if err != nil {
		return nil, err
	}
	morph, err := b.Store.Morph()
	if err != nil {
		return nil, err
	}
	lexicon, err := b.Store.Lexicon()
	if err != nil {
		return nil, err
	}
	rules, err := b.Store.Rules()
	if err != nil {
		return nil, err
	}
	testbed, err := b.Store.Testbed()
	if err != nil {
		return nil, err
	}

	g := &Grammar{
		Name: b.Store.Name(),
	}

	if types != nil {
		fb := &featureHierarchyBuilder{
			types:   types,
			morph:   morph,
			lexicon: lexicon,
		}
		g.Features, err = fb.build()
		if err != nil {
			return nil, b.withSource(err, store.DocTypes)
		}
	}

	g.WordGroups, err = buildWordGroups(morph)
	if err != nil {
		return nil, b.withSource(err, store.DocMorph)
	}

	if rules != nil {
		g.Rules, err = buildRuleSet(rules)
		if err != nil {
			return nil, b.withSource(err, store.DocRules)
		}
	}

	g.Families, err = buildFamilies(lexicon)
	if err != nil {
		return nil, b.withSource(err, store.DocLexicon)
	}

	if testbed != nil {
		g.Testbed = buildTestbed(testbed)
		g.hasTestbed = true
	}

	return g, nil
}

func (b *GrammarBuilder) withSource(err error, name store.DocumentName) error {
	if gErr, ok := asGrammarError(err); ok && gErr.SourceName == "" {
		gErr.SourceName = b.Store.Path(name)
	}
	return err
}

func asGrammarError(err error) (*verr.GrammarError, bool) {
	var gErr *verr.GrammarError
	ok := errors.As(err, &gErr)
	return gErr, ok
}

// Sections holds the text of the five .ccg sections.
type Sections struct {
	Features string
	Words    string
	Rules    string
	Lexicon  string
	Testbed  string
}

func (g *Grammar) Sections() (_ *Sections, retErr error) {
	defer recoverError(&retErr)

	s := &Sections{
		Features: "feature {\n}",
		Testbed:  "testbed {\n}",
	}
	if g.Features != nil {
		s.Features = g.Features.section()
	}
	s.Words = wordSection(g.WordGroups)
	if g.Rules != nil {
		var err error
		s.Rules, err = g.Rules.section()
		if err != nil {
			return nil, err
		}
	}
	lex, err := lexiconSection(g.Families)
	if err != nil {
		return nil, err
	}
	s.Lexicon = lex
	if g.hasTestbed {
		s.Testbed = testbedSection(g.Testbed)
	}
	return s, nil
}

// CCG returns the complete .ccg text. date is written into the banner.
func (g *Grammar) CCG(date time.Time) (string, error) {
	s, err := g.Sections()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(ccgTemplate,
		banner(g.Name+".ccg"),
		date.Format(dateLayout),
		s.Features,
		s.Words,
		s.Rules,
		s.Lexicon,
		s.Testbed,
	), nil
}

// Write writes the .ccg text followed by a newline.
func (g *Grammar) Write(w io.Writer, date time.Time) error {
	src, err := g.CCG(date)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, src)
	return err
}

// banner centers ` title ` in a line of '#'. An odd remainder goes to the right.
func banner(title string) string {
	title = " " + title + " "
	pad := bannerWidth - len([]rune(title))
	if pad <= 0 {
		return title
	}
	left := pad / 2
	return strings.Repeat("#", left) + title + strings.Repeat("#", pad-left)
}

// Convert reads the grammar directory dir and writes it as .ccg text to w.
func Convert(w io.Writer, dir string, opts ...store.Option) error {
	s, err := store.Open(dir, opts...)
	if err != nil {
		return err
	}
	b := &GrammarBuilder{
		Store: s,
	}
	g, err := b.Build()
	if err != nil {
		return err
	}
	return g.Write(w, time.Now())
}
