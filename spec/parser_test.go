package spec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	verr "github.com/nihei9/xml2ccg/error"
)

func TestParse(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		doc     *Document
		synErr  *SyntaxError
	}{
		{
			caption: "an empty source is a valid document",
			src:     ``,
			doc:     &Document{},
		},
		{
			caption: "the parser can read toplevel features with ids, licensing and children",
			src: `feature {
  !num<2,3>(license=no, instantiate=no): sg pl;

  case<0>;
}`,
			doc: &Document{
				Features: []*FeatureNode{
					{
						Name:         "num",
						Distributive: true,
						IDs:          []string{"2", "3"},
						Licensing:    "license=no, instantiate=no",
						Children: []*FeatureNode{
							{Name: "sg"},
							{Name: "pl"},
						},
					},
					{
						Name: "case",
						IDs:  []string{"0"},
					},
				},
			},
		},
		{
			caption: "the parser can read nested children and additional parents",
			src: `feature {
  ontology: sem-obj {
    phys-obj[abstraction] {
      animate
    }
  } abstraction;
}`,
			doc: &Document{
				Features: []*FeatureNode{
					{
						Name: "ontology",
						Children: []*FeatureNode{
							{
								Name: "sem-obj",
								Children: []*FeatureNode{
									{
										Name:              "phys-obj",
										AdditionalParents: []string{"abstraction"},
										Children: []*FeatureNode{
											{Name: "animate"},
										},
									},
								},
							},
							{Name: "abstraction"},
						},
					},
				},
			},
		},
		{
			caption: "the parser can read special macros and relation sorting",
			src: `feature {
  num<X:num>: E:sg;
}

relation-sorting: Det *;`,
			doc: &Document{
				SpecialMacros: []*MacroNode{
					{
						Attr:  "num",
						ID:    "X:num",
						Name:  "E",
						Value: "sg",
					},
				},
				RelationSorting: "Det *",
			},
		},
		{
			caption: "the parser can read every shape of word declarations",
			src: `word a:Det;
word dog:N(animal,pred=hund): sg;
word walk: pl;
word mouse {
  mice: pl;
}
word 'be':V {
  is: pres sg-3rd;
  be;
}`,
			doc: &Document{
				Words: []*WordNode{
					{
						Stem:   "a",
						Family: "Det",
						Forms:  []*FormNode{{Form: "a"}},
					},
					{
						Stem:       "dog",
						Family:     "N",
						Attributes: []string{"animal", "pred=hund"},
						Forms:      []*FormNode{{Form: "dog", Macros: []string{"sg"}}},
					},
					{
						Stem:  "walk",
						Forms: []*FormNode{{Form: "walk", Macros: []string{"pl"}}},
					},
					{
						Stem:  "mouse",
						Forms: []*FormNode{{Form: "mice", Macros: []string{"pl"}}},
					},
					{
						Stem:   "be",
						Family: "V",
						Forms: []*FormNode{
							{Form: "is", Macros: []string{"pres", "sg-3rd"}},
							{Form: "be"},
						},
					},
				},
			},
		},
		{
			caption: "the parser collapses white spaces in rule statements",
			src: `rule {
  no;
  app +-;
  typeraise +   $: np => s;
  typechange: n {
    np } => np;
}`,
			doc: &Document{
				Rules: []string{
					"no",
					"app +-",
					"typeraise + $: np => s",
					"typechange: n { np } => np",
				},
			},
		},
		{
			caption: "the parser can read families",
			src: `family 'Det'(Noun, indexRel="det") {
  entry: np<2>[X] / n<2>: X:sem-obj(<Det>D);
  entry Primary: np;
  member: a the;
}`,
			doc: &Document{
				Families: []*FamilyNode{
					{
						Name:       "Det",
						Attributes: `Noun, indexRel="det"`,
						Entries: []*EntryNode{
							{Category: "np<2>[X] / n<2>: X:sem-obj(<Det>D)"},
							{Name: "Primary", Category: "np"},
						},
						Members: []string{"a", "the"},
					},
				},
			},
		},
		{
			caption: "the parser keeps testbed sentences verbatim",
			src: `testbed {
  the dog barks: 1;
  ! the  dog ` + "é" + `: 0;
}`,
			doc: &Document{
				Testbed: []*TestbedItem{
					{Sentence: "the dog barks", NumOfParses: "1"},
					{Sentence: "the  dog é", NumOfParses: "0", Known: true},
				},
			},
		},
		{
			caption: "apostrophes in testbed sentences don't pair up across items",
			src: `testbed {
  John's dog barks: 1;
  Mary's cat sleeps: 2;
  ! 'tis the dog: 0;
  the "big" dog's bone: 1;
}`,
			doc: &Document{
				Testbed: []*TestbedItem{
					{Sentence: "John's dog barks", NumOfParses: "1"},
					{Sentence: "Mary's cat sleeps", NumOfParses: "2"},
					{Sentence: "'tis the dog", NumOfParses: "0", Known: true},
					{Sentence: `the "big" dog's bone`, NumOfParses: "1"},
				},
			},
		},
		{
			caption: "a document must consist of known sections",
			src:     `lexicon {}`,
			synErr:  synErrUnknownSection,
		},
		{
			caption: "a block must be closed",
			src:     `feature { num: sg pl;`,
			synErr:  synErrUnclosedBlock,
		},
		{
			caption: "a feature declaration must end with a semicolon",
			src:     `feature { num: sg pl }`,
			synErr:  synErrNoSemicolon,
		},
		{
			caption: "a feature structure id list must be closed",
			src:     `feature { num<2: sg; }`,
			synErr:  synErrUnclosedIDList,
		},
		{
			caption: "a family body may contain only entries and members",
			src:     `family N { word: n; }`,
			synErr:  synErrNoEntry,
		},
		{
			caption: "the number of parses must be an integer",
			src:     `testbed { the dog: one; }`,
			synErr:  synErrInvalidNumOfParses,
		},
		{
			caption: "an invalid token outside testbed sentences is an error",
			src:     `word ` + "é" + `;`,
			synErr:  synErrInvalidToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			doc, err := Parse(strings.NewReader(tt.src))
			if tt.synErr != nil {
				if !errors.Is(err, tt.synErr) {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.synErr, err)
				}
				if doc != nil {
					t.Fatalf("document must be nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testDocument(t, doc, tt.doc)
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := Parse(strings.NewReader("feature {\n  num: sg pl\n}"))
	var gErr *verr.GrammarError
	if !errors.As(err, &gErr) {
		t.Fatalf("unexpected error; want: *GrammarError, got: %T", err)
	}
	if gErr.Row != 3 || gErr.Col != 1 {
		t.Fatalf("unexpected position; want: 3:1, got: %v:%v", gErr.Row, gErr.Col)
	}
}

func testDocument(t *testing.T, doc, expected *Document) {
	t.Helper()
	clearPositions(doc)
	if !reflect.DeepEqual(doc.Features, expected.Features) {
		t.Fatalf("unexpected features; want: %v, got: %v", dump(expected.Features), dump(doc.Features))
	}
	if !reflect.DeepEqual(doc.SpecialMacros, expected.SpecialMacros) {
		t.Fatalf("unexpected special macros; want: %+v, got: %+v", expected.SpecialMacros, doc.SpecialMacros)
	}
	if doc.RelationSorting != expected.RelationSorting {
		t.Fatalf("unexpected relation sorting; want: %q, got: %q", expected.RelationSorting, doc.RelationSorting)
	}
	if !reflect.DeepEqual(doc.Words, expected.Words) {
		t.Fatalf("unexpected words; want: %v, got: %v", dump(expected.Words), dump(doc.Words))
	}
	if !reflect.DeepEqual(doc.Rules, expected.Rules) {
		t.Fatalf("unexpected rules; want: %q, got: %q", expected.Rules, doc.Rules)
	}
	if !reflect.DeepEqual(doc.Families, expected.Families) {
		t.Fatalf("unexpected families; want: %v, got: %v", dump(expected.Families), dump(doc.Families))
	}
	if !reflect.DeepEqual(doc.Testbed, expected.Testbed) {
		t.Fatalf("unexpected testbed; want: %v, got: %v", dump(expected.Testbed), dump(doc.Testbed))
	}
}

func clearPositions(doc *Document) {
	var clearFeatures func(fs []*FeatureNode)
	clearFeatures = func(fs []*FeatureNode) {
		for _, f := range fs {
			f.Pos = Position{}
			clearFeatures(f.Children)
		}
	}
	clearFeatures(doc.Features)
	for _, m := range doc.SpecialMacros {
		m.Pos = Position{}
	}
	for _, w := range doc.Words {
		w.Pos = Position{}
	}
	for _, f := range doc.Families {
		f.Pos = Position{}
		for _, e := range f.Entries {
			e.Pos = Position{}
		}
	}
	for _, i := range doc.Testbed {
		i.Pos = Position{}
	}
}

func dump[T any](vs []*T) string {
	var b strings.Builder
	for _, v := range vs {
		fmt.Fprintf(&b, "%+v; ", *v)
	}
	return b.String()
}
