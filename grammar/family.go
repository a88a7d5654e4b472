package grammar

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/nihei9/xml2ccg/grammar/category"
	"github.com/nihei9/xml2ccg/store"
)

// capturedFamilyAttrs are the family attributes that are not passed through as key="value"
// pairs. `closed` is implied by the member words.
var capturedFamilyAttrs = map[string]struct{}{
	"pos":    {},
	"name":   {},
	"closed": {},
}

// autoEntryPrefix marks entry names generated by ccg2xml; they are omitted from the output.
const autoEntryPrefix = "Entry-"

type Family struct {
	Name       string
	Pos        string
	Entries    []*FamilyEntry
	Attributes []*Attribute
	// Members are the stems of the member elements. ccg2xml derives them from the word
	// declarations, so they are not written.
	Members []string
}

type FamilyEntry struct {
	Name     string
	Category category.Node
}

func buildFamilies(lexicon *etree.Element) ([]*Family, error) {
	var families []*Family
	for _, e := range store.Iter(lexicon, "family") {
		f := &Family{
			Name: e.SelectAttrValue("name", ""),
			Pos:  e.SelectAttrValue("pos", ""),
		}
		for _, entry := range store.Iter(e, "entry") {
			cat, err := category.Decode(store.FirstChild(entry))
			if err != nil {
				return nil, err
			}
			f.Entries = append(f.Entries, &FamilyEntry{
				Name:     entry.SelectAttrValue("name", ""),
				Category: cat,
			})
		}
		for _, m := range e.SelectElements("member") {
			f.Members = append(f.Members, m.SelectAttrValue("stem", ""))
		}
		for _, a := range e.Attr {
			if _, ok := capturedFamilyAttrs[a.Key]; ok {
				continue
			}
			f.Attributes = append(f.Attributes, &Attribute{Key: a.Key, Value: a.Value})
		}
		families = append(families, f)
	}
	return families, nil
}

func (e *FamilyEntry) format() (string, error) {
	cat, err := category.Format(e.Category)
	if err != nil {
		return "", err
	}
	var name string
	if e.Name != "" && !strings.HasPrefix(e.Name, autoEntryPrefix) {
		name = " " + quote(e.Name)
	}
	s := fmt.Sprintf("entry%v: %v;", name, cat)
	return strings.ReplaceAll(s, "[*DEFAULT*]", "*"), nil
}

func (f *Family) format() (string, error) {
	var attrs []string
	if f.Pos != "" && f.Pos != f.Name {
		attrs = append(attrs, quote(f.Pos))
	}
	for _, a := range f.Attributes {
		attrs = append(attrs, fmt.Sprintf(`%v="%v"`, quote(a.Key), quote(a.Value)))
	}
	var attrText string
	if len(attrs) > 0 {
		attrText = "(" + strings.Join(attrs, ", ") + ")"
	}

	entries := make([]string, len(f.Entries))
	for i, e := range f.Entries {
		s, err := e.format()
		if err != nil {
			return "", err
		}
		entries[i] = s
	}

	// The empty line keeps the place of member declarations.
	return fmt.Sprintf("family %v%v {\n  %v\n  \n}", quote(f.Name), attrText, strings.Join(entries, "\n  ")), nil
}

func lexiconSection(families []*Family) (_ string, retErr error) {
	defer recoverError(&retErr)

	blocks := make([]string, len(families))
	for i, f := range families {
		s, err := f.format()
		if err != nil {
			return "", err
		}
		blocks[i] = s
	}
	return strings.Join(blocks, "\n\n"), nil
}
