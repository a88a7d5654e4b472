package grammar

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/nihei9/xml2ccg/store"
)

// Word is one inflected form declared by a morph entry.
type Word struct {
	Form       string
	Stem       string
	Family     string
	Attributes []string
	// Features are macro names without their leading sigil.
	Features []string
}

func newWord(entry *etree.Element) *Word {
	w := &Word{
		Form:       entry.SelectAttrValue("word", ""),
		Family:     entry.SelectAttrValue("pos", ""),
		Attributes: strings.Fields(entry.SelectAttrValue("class", "")),
	}
	w.Stem = entry.SelectAttrValue("stem", w.Form)
	for _, key := range []string{"pred", "excluded", "coart"} {
		if v, ok := store.Attr(entry, key); ok {
			w.Attributes = append(w.Attributes, fmt.Sprintf("%v=%v", key, v))
		}
	}
	for _, m := range strings.Fields(entry.SelectAttrValue("macros", "")) {
		w.Features = append(w.Features, m[1:])
	}
	return w
}

// Header returns `word stem[:family][(attr,...)]`.
func (w *Word) Header() string {
	var b strings.Builder
	fmt.Fprintf(&b, "word %v", quote(w.Stem))
	if w.Family != "" {
		fmt.Fprintf(&b, ":%v", quote(w.Family))
	}
	if len(w.Attributes) > 0 {
		fmt.Fprintf(&b, "(%v)", strings.Join(w.Attributes, ","))
	}
	return b.String()
}

// Body returns `[form[: ]]features;`. When explicit is true the form is written even if it
// equals the stem, which a group needs because the stem may also be one of its forms.
func (w *Word) Body(explicit bool) string {
	var b strings.Builder
	if w.Form != w.Stem || explicit {
		b.WriteString(quote(w.Form))
		if len(w.Features) > 0 {
			b.WriteString(": ")
		}
	}
	b.WriteString(strings.Join(quoteAll(w.Features), " "))
	b.WriteString(";")
	return b.String()
}

func (w *Word) format() string {
	switch {
	case w.Form != w.Stem:
		return fmt.Sprintf("%v {\n  %v\n}", w.Header(), w.Body(false))
	case len(w.Features) > 0:
		return fmt.Sprintf("%v: %v", w.Header(), w.Body(false))
	}
	return w.Header() + w.Body(false)
}

// WordGroup holds the words sharing one header.
type WordGroup struct {
	Header string
	Words  []*Word
}

func (g *WordGroup) format() string {
	if len(g.Words) == 1 {
		return g.Words[0].format()
	}
	bodies := make([]string, len(g.Words))
	for i, w := range g.Words {
		bodies[i] = w.Body(true)
	}
	return fmt.Sprintf("%v {\n  %v\n}", g.Header, strings.Join(bodies, "\n  "))
}

func buildWordGroups(morph *etree.Element) (_ []*WordGroup, retErr error) {
	defer recoverError(&retErr)

	var groups []*WordGroup
	byHeader := map[string]*WordGroup{}
	for _, entry := range store.Iter(morph, "entry") {
		w := newWord(entry)
		h := w.Header()
		g, ok := byHeader[h]
		if !ok {
			g = &WordGroup{Header: h}
			byHeader[h] = g
			groups = append(groups, g)
		}
		g.Words = append(g.Words, w)
	}
	return groups, nil
}

func wordSection(groups []*WordGroup) string {
	blocks := make([]string, len(groups))
	for i, g := range groups {
		blocks[i] = g.format()
	}
	return strings.Join(blocks, "\n")
}
