package grammar

import (
	"strings"
	"testing"

	verr "github.com/nihei9/xml2ccg/error"
	"github.com/nihei9/xml2ccg/spec"
)

func TestWordSection(t *testing.T) {
	tests := []struct {
		caption string
		morph   string
		section string
		cause   error
	}{
		{
			caption: "a word whose form is its stem",
			morph:   `<morph><entry word="the" pos="Det"/></morph>`,
			section: "word the:Det;",
		},
		{
			caption: "macros follow the header",
			morph:   `<morph><entry word="dog" pos="N" macros="@sg @nom"/></morph>`,
			section: "word dog:N: sg nom;",
		},
		{
			caption: "a form differing from its stem is written in braces",
			morph:   `<morph><entry word="dogs" stem="dog" pos="N" macros="@pl"/></morph>`,
			section: "word dog:N {\n  dogs: pl;\n}",
		},
		{
			caption: "entries sharing a header are grouped",
			morph: `<morph>
  <entry word="dog" pos="N" class="animate" macros="@sg"/>
  <entry word="dogs" stem="dog" pos="N" class="animate" macros="@pl"/>
  <entry word="the" pos="Det"/>
</morph>`,
			section: "word dog:N(animate) {\n  dog: sg;\n  dogs: pl;\n}\nword the:Det;",
		},
		{
			caption: "class and predicate attributes",
			morph:   `<morph><entry word="sees" stem="see" pos="TV" class="action" pred="see" macros="@sg"/></morph>`,
			section: "word see:TV(action,pred=see) {\n  sees: sg;\n}",
		},
		{
			caption: "a word without a family",
			morph:   `<morph><entry word="ouch"/></morph>`,
			section: "word ouch;",
		},
		{
			caption: "words needing quotes are quoted",
			morph:   `<morph><entry word="New York" pos="NP"/><entry word="o'clock" pos="N"/></morph>`,
			section: "word 'New York':NP;\nword \"o'clock\":N;",
		},
		{
			caption: "a grammar without morph.xml has no words",
			section: "",
		},
		{
			caption: "a word containing both quote characters cannot be written",
			morph:   `<morph><entry word="it's &quot;x&quot;" pos="N"/></morph>`,
			cause:   verr.ErrUnquotable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			files := map[string]string{}
			if tt.morph != "" {
				files["morph.xml"] = tt.morph
			}
			s, err := buildSections(t, files)
			if tt.cause != nil {
				testSectionError(t, err, tt.cause)
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if s.Words != tt.section {
				t.Fatalf("unexpected word section;\nwant:\n%v\ngot:\n%v", tt.section, s.Words)
			}
		})
	}
}

func TestWordSection_Readable(t *testing.T) {
	s, err := buildSections(t, map[string]string{
		"morph.xml": `<morph>
  <entry word="dog" pos="N" class="animate" macros="@sg"/>
  <entry word="dogs" stem="dog" pos="N" class="animate" macros="@pl"/>
  <entry word="sees" stem="see" pos="TV" pred="see" macros="@sg"/>
  <entry word="the" pos="Det"/>
</morph>`,
	})
	if err != nil {
		t.Fatal(err)
	}
	doc, err := spec.Parse(strings.NewReader(s.Words))
	if err != nil {
		t.Fatalf("the word section must be readable: %v\n%v", err, s.Words)
	}
	if len(doc.Words) != 3 {
		t.Fatalf("unexpected word count; want: 3, got: %v", len(doc.Words))
	}
	dog := doc.Words[0]
	if dog.Stem != "dog" || dog.Family != "N" || len(dog.Forms) != 2 {
		t.Fatalf("unexpected word: %+v", dog)
	}
	if dog.Forms[1].Form != "dogs" || len(dog.Forms[1].Macros) != 1 || dog.Forms[1].Macros[0] != "pl" {
		t.Fatalf("unexpected form: %+v", dog.Forms[1])
	}
}
