// Package category decodes OpenCCG category elements (complexcat, atomcat, slash, setarg,
// dollar and lf) into a tagged tree and prints them in .ccg syntax.
package category

import (
	"github.com/beevik/etree"
	verr "github.com/nihei9/xml2ccg/error"
	"github.com/nihei9/xml2ccg/store"
)

// Node is one of *Complex, *Atom, *Slash, *SetArg, *Dollar or *LF.
type Node interface {
	node()
}

type Complex struct {
	Parts []Node
}

type Atom struct {
	Type string
	FS   []*FeatureStructure
	LF   []*LF
}

type Slash struct {
	Dir  string
	Mode string
}

type SetArg struct {
	Parts []Node
}

type Dollar struct {
	Name string
}

// LF is a logical form rooted at a satop nominal.
type LF struct {
	Nomvar string
	Preds  []Pred
}

func (*Complex) node() {}
func (*Atom) node()    {}
func (*Slash) node()   {}
func (*SetArg) node()  {}
func (*Dollar) node()  {}
func (*LF) node()      {}

// Pred is one of *Prop, *Nomvar or *Diamond. Nominals are referenced by name, so a logical
// form that reuses a nominal stays a tree.
type Pred interface {
	pred()
}

type Prop struct {
	Name string
}

type Nomvar struct {
	Name string
}

type Diamond struct {
	Mode string
	Args []Pred
}

func (*Prop) pred()    {}
func (*Nomvar) pred()  {}
func (*Diamond) pred() {}

type FeatureStructure struct {
	ID           string
	HasID        bool
	InheritsFrom string
	Feats        []*Feat
}

type Feat struct {
	Name   string
	Val    string
	HasVal bool
}

// Decode converts a category element into a Node.
func Decode(e *etree.Element) (Node, error) {
	if e == nil {
		return &Complex{}, nil
	}
	switch e.Tag {
	case "complexcat":
		parts, err := decodeParts(e)
		if err != nil {
			return nil, err
		}
		return &Complex{Parts: parts}, nil
	case "atomcat":
		return decodeAtom(e)
	case "setarg":
		parts, err := decodeParts(e)
		if err != nil {
			return nil, err
		}
		return &SetArg{Parts: parts}, nil
	case "slash":
		return &Slash{
			Dir:  e.SelectAttrValue("dir", ""),
			Mode: e.SelectAttrValue("mode", ""),
		}, nil
	case "dollar":
		return &Dollar{Name: e.SelectAttrValue("name", "")}, nil
	case "lf":
		return decodeLF(e)
	}
	return nil, &verr.GrammarError{
		Cause:  verr.ErrUnknownCategoryTag,
		Detail: e.Tag,
	}
}

func decodeParts(e *etree.Element) ([]Node, error) {
	var parts []Node
	for _, c := range e.ChildElements() {
		n, err := Decode(c)
		if err != nil {
			return nil, err
		}
		parts = append(parts, n)
	}
	return parts, nil
}

func decodeAtom(e *etree.Element) (*Atom, error) {
	a := &Atom{
		Type: e.SelectAttrValue("type", ""),
	}
	for _, c := range e.ChildElements() {
		switch c.Tag {
		case "fs":
			a.FS = append(a.FS, decodeFS(c))
		case "lf":
			lf, err := decodeLF(c)
			if err != nil {
				return nil, err
			}
			a.LF = append(a.LF, lf)
		}
	}
	return a, nil
}

func decodeFS(e *etree.Element) *FeatureStructure {
	fs := &FeatureStructure{}
	if id, ok := store.Attr(e, "id"); ok {
		fs.ID = id
		fs.HasID = true
	} else {
		fs.InheritsFrom = e.SelectAttrValue("inheritsFrom", "")
	}
	for _, feat := range e.ChildElements() {
		f := &Feat{}
		switch {
		case feat.SelectElement("lf") != nil:
			lf := feat.SelectElement("lf")
			if nv := lf.SelectElement("nomvar"); nv != nil {
				f.Name = nv.SelectAttrValue("name", "")
			} else {
				f.Name = lf.SelectAttrValue("name", "")
			}
		case feat.SelectElement("featvar") != nil:
			f.Name = feat.SelectElement("featvar").SelectAttrValue("name", "")
		default:
			f.Name = feat.SelectAttrValue("attr", "")
		}
		f.Val, f.HasVal = store.Attr(feat, "val")
		if f.Name == "" {
			continue
		}
		fs.Feats = append(fs.Feats, f)
	}
	return fs
}

func decodeLF(e *etree.Element) (*LF, error) {
	lf := &LF{}
	satop := e.SelectElement("satop")
	if satop == nil {
		return lf, nil
	}
	lf.Nomvar = satop.SelectAttrValue("nomvar", "")
	for _, c := range satop.ChildElements() {
		switch c.Tag {
		case "prop":
			lf.Preds = append(lf.Preds, &Prop{Name: c.SelectAttrValue("name", "")})
		case "diamond":
			d, err := decodeDiamond(c)
			if err != nil {
				return nil, err
			}
			lf.Preds = append(lf.Preds, d)
		}
	}
	return lf, nil
}

func decodeDiamond(e *etree.Element) (*Diamond, error) {
	d := &Diamond{
		Mode: e.SelectAttrValue("mode", ""),
	}
	for _, c := range e.ChildElements() {
		switch c.Tag {
		case "diamond":
			nested, err := decodeDiamond(c)
			if err != nil {
				return nil, err
			}
			d.Args = append(d.Args, nested)
		case "nomvar":
			d.Args = append(d.Args, &Nomvar{Name: c.SelectAttrValue("name", "")})
		case "prop":
			d.Args = append(d.Args, &Prop{Name: c.SelectAttrValue("name", "")})
		default:
			return nil, &verr.GrammarError{
				Cause:  verr.ErrUnknownDiamondTag,
				Detail: c.Tag,
			}
		}
	}
	return d, nil
}
