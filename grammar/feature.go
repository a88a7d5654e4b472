package grammar

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	verr "github.com/nihei9/xml2ccg/error"
	"github.com/nihei9/xml2ccg/store"
)

type featureKind int

const (
	// featureKindType is a type declared in types.xml or derived from a morph macro.
	featureKindType featureKind = iota
	// featureKindLink is a non-owning reference to another feature by name.
	featureKindLink
	// featureKindSpecialMacro is an inline assignment `attr<id>: name:val;`.
	featureKindSpecialMacro
)

// Attribute is an XML attribute kept in document order.
type Attribute struct {
	Key   string
	Value string
}

// Feature is a node of the type hierarchy. A feature owns its Children; AdditionalParents
// only names further parents and is resolved by name.
type Feature struct {
	Name              string
	Toplevel          bool
	Distributive      bool
	AdditionalParents []string
	Licensing         []*Attribute
	FeatureStructIDs  []string
	Children          []*Feature

	// ID, Attr and Val are set for special macros only.
	ID   string
	Attr string
	Val  string

	kind      featureKind
	parents   []string
	fromMacro bool
	// lfProp is the prop named by lf/satop/diamond/prop of a macro-derived feature.
	lfProp string
}

func newLinkFeature(name string) *Feature {
	return &Feature{
		Name: name,
		kind: featureKindLink,
	}
}

func (f *Feature) IsSpecialMacro() bool {
	return f.kind == featureKindSpecialMacro
}

func (f *Feature) IsLink() bool {
	return f.kind == featureKindLink
}

func (f *Feature) hasChild(name string) bool {
	for _, c := range f.Children {
		if c.Name == name {
			return true
		}
	}
	return false
}

func (f *Feature) setLicensing(key, value string) {
	for _, a := range f.Licensing {
		if a.Key == key {
			a.Value = value
			return
		}
	}
	f.Licensing = append(f.Licensing, &Attribute{Key: key, Value: value})
}

// gatherFeatureStructIDs returns the ids of f and all of its descendants without duplicates,
// in first-seen order.
func (f *Feature) gatherFeatureStructIDs() []string {
	var ids []string
	seen := map[string]struct{}{}
	var walk func(f *Feature)
	walk = func(f *Feature) {
		for _, id := range f.FeatureStructIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		for _, c := range f.Children {
			walk(c)
		}
	}
	walk(f)
	return ids
}

func (f *Feature) format(depth int) string {
	switch f.kind {
	case featureKindLink:
		if depth != 0 && len(f.AdditionalParents) > 0 {
			return fmt.Sprintf("%v[%v]", quote(f.Name), strings.Join(quoteAll(f.AdditionalParents), " "))
		}
		return quote(f.Name)
	case featureKindSpecialMacro:
		if depth != 0 {
			return fmt.Sprintf("%v:%v", quote(f.Name), quote(f.Val))
		}
		// A toplevel special macro prints its children as siblings.
		lines := []string{f.macroLine()}
		for _, c := range f.Children {
			lines = append(lines, c.macroLine())
		}
		return strings.Join(lines, "\n  ")
	}

	var b strings.Builder
	children := make([]string, len(f.Children))
	for i, c := range f.Children {
		children[i] = c.format(depth + 1)
	}
	childText := strings.Join(children, " ")

	if f.Toplevel {
		if f.Distributive {
			b.WriteString("!")
		}
		b.WriteString(quote(f.Name))
		if ids := f.gatherFeatureStructIDs(); len(ids) > 0 {
			fmt.Fprintf(&b, "<%v>", strings.Join(ids, ","))
		}
		b.WriteString(f.licensingText())
		if len(f.Children) > 0 {
			fmt.Fprintf(&b, ": %v", childText)
		}
		b.WriteString(";")
		return b.String()
	}

	b.WriteString(quote(f.Name))
	b.WriteString(f.licensingText())
	if len(f.AdditionalParents) > 0 {
		fmt.Fprintf(&b, "[%v]", strings.Join(quoteAll(f.AdditionalParents), " "))
	}
	if childText != "" {
		if depth > 0 {
			spaces := strings.Repeat("  ", depth)
			fmt.Fprintf(&b, " {\n  %v%v\n%v}\n%v", spaces, childText, spaces, spaces)
		} else {
			fmt.Fprintf(&b, "{%v}", childText)
		}
	}
	return b.String()
}

func (f *Feature) macroLine() string {
	return fmt.Sprintf("%v<%v>: %v:%v;", quote(f.Attr), quote(f.ID), quote(f.Name), quote(f.Val))
}

func (f *Feature) licensingText() string {
	var pairs []string
	for _, a := range f.Licensing {
		if a.Key == "attr" || a.Key == "val" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%v=%v", a.Key, a.Value))
	}
	if len(pairs) == 0 {
		return ""
	}
	return "(" + strings.Join(pairs, ", ") + ")"
}

// FeatureHierarchy maps feature names to features in first-declaration order.
type FeatureHierarchy struct {
	names    []string
	features map[string]*Feature

	RelationSorting string
}

func newFeatureHierarchy() *FeatureHierarchy {
	return &FeatureHierarchy{
		features: map[string]*Feature{},
	}
}

func (h *FeatureHierarchy) Lookup(name string) (*Feature, bool) {
	f, ok := h.features[name]
	return f, ok
}

// Features returns all features in declaration order.
func (h *FeatureHierarchy) Features() []*Feature {
	fs := make([]*Feature, len(h.names))
	for i, n := range h.names {
		fs[i] = h.features[n]
	}
	return fs
}

// Toplevel returns the toplevel features in declaration order.
func (h *FeatureHierarchy) Toplevel() []*Feature {
	var fs []*Feature
	for _, f := range h.Features() {
		if f.Toplevel {
			fs = append(fs, f)
		}
	}
	return fs
}

func (h *FeatureHierarchy) put(key string, f *Feature) {
	if _, ok := h.features[key]; !ok {
		h.names = append(h.names, key)
	}
	h.features[key] = f
}

type featureHierarchyBuilder struct {
	types   *etree.Element
	morph   *etree.Element
	lexicon *etree.Element
}

func (b *featureHierarchyBuilder) build() (_ *FeatureHierarchy, retErr error) {
	defer recoverError(&retErr)

	h := newFeatureHierarchy()

	for _, t := range store.Iter(b.types, "type") {
		name := strings.ReplaceAll(t.SelectAttrValue("name", ""), "@", "")
		parents, hasParents := store.Attr(t, "parents")
		if _, ok := h.Lookup(name); ok {
			return nil, &verr.GrammarError{
				Cause:  verr.ErrDuplicateFeature,
				Detail: name,
			}
		}
		h.put(name, &Feature{
			Name:     name,
			Toplevel: !hasParents,
			parents:  strings.Fields(parents),
		})
	}

	specialMacros := b.scanMacros(h)

	// Parents may be declared after their children, so linkage runs once every type exists.
	for _, f := range h.Features() {
		if len(f.parents) == 0 {
			continue
		}
		parent, ok := h.Lookup(f.parents[0])
		if !ok {
			return nil, &verr.GrammarError{
				Cause:  verr.ErrUndeclaredParent,
				Detail: fmt.Sprintf("%v (parent of %v)", f.parents[0], f.Name),
			}
		}
		f.AdditionalParents = append(f.AdditionalParents, f.parents[1:]...)
		parent.Children = append(parent.Children, f)
	}

	promoteDiamondReferences(h)

	for _, m := range specialMacros {
		if _, ok := h.Lookup(m.Attr); ok {
			m.AdditionalParents = append(m.AdditionalParents, m.Attr)
		}
		h.put(m.Attr+m.Name, m)
	}

	if err := b.applyLexiconAttributes(h); err != nil {
		return nil, err
	}

	return h, nil
}

// scanMacros collects feature structure ids from the morph macros into h and returns the
// special macros, which are inserted after parent linkage.
func (b *featureHierarchyBuilder) scanMacros(h *FeatureHierarchy) []*Feature {
	var specialMacros []*Feature
	for _, macro := range store.Iter(b.morph, "macro") {
		macroName := macro.SelectAttrValue("name", "")
		var name, id, val string
		var hasID bool
		if fs := macro.SelectElement("fs"); fs != nil {
			id, hasID = store.Attr(fs, "id")
			name = fs.SelectAttrValue("attr", "")
			if feat := fs.SelectElement("feat"); feat != nil {
				name = feat.SelectAttrValue("attr", "")
				val = feat.SelectAttrValue("val", "")
			}
			if fsVal, ok := store.Attr(fs, "val"); ok {
				specialMacros = append(specialMacros, &Feature{
					Name:     strings.ReplaceAll(macroName, "@", ""),
					Toplevel: true,
					ID:       id,
					Attr:     name,
					Val:      fsVal,
					kind:     featureKindSpecialMacro,
				})
				continue
			}
		} else if lf := macro.SelectElement("lf"); lf != nil {
			if len(macroName) > 0 {
				name = macroName[1:]
			}
			satop := lf.SelectElement("satop")
			if satop == nil {
				continue
			}
			id = quote(satop.SelectAttrValue("nomvar", ""))
			hasID = true
			var mode string
			if d := satop.SelectElement("diamond"); d != nil {
				mode = d.SelectAttrValue("mode", "")
			} else if p := satop.SelectElement("prop"); p != nil {
				mode = p.SelectAttrValue("name", "")
			}
			if id != mode {
				id = fmt.Sprintf("%v:%v", id, mode)
			}
		} else {
			continue
		}
		if name == "" {
			continue
		}

		f, ok := h.Lookup(name)
		if !ok {
			// A macro may name a feature that types.xml never declares.
			f = &Feature{
				Name:      name,
				Toplevel:  true,
				fromMacro: true,
			}
			if prop := store.Find(macro, "lf", "satop", "diamond", "prop"); prop != nil {
				f.lfProp = prop.SelectAttrValue("name", "")
			}
			h.put(name, f)
		}
		if hasID {
			f.FeatureStructIDs = append(f.FeatureStructIDs, id)
		}
		if val != "" && f.fromMacro && !f.hasChild(val) {
			if _, declared := h.Lookup(val); !declared {
				f.Children = append(f.Children, newLinkFeature(val))
			}
		}
	}
	return specialMacros
}

// promoteDiamondReferences links a macro-derived feature to the feature named by its
// lf/satop/diamond/prop and makes the source feature toplevel. This is how the .ccg
// format declares such relations, not a side effect of parent linkage.
func promoteDiamondReferences(h *FeatureHierarchy) {
	for _, f := range h.Features() {
		if f.lfProp == "" {
			continue
		}
		if _, ok := h.Lookup(f.lfProp); !ok {
			continue
		}
		f.Children = append(f.Children, newLinkFeature(f.lfProp))
		f.Toplevel = true
	}
}

func (b *featureHierarchyBuilder) applyLexiconAttributes(h *FeatureHierarchy) error {
	if b.lexicon == nil {
		return nil
	}

	if dist := b.lexicon.SelectElement("distributive-features"); dist != nil {
		for _, name := range strings.Fields(dist.SelectAttrValue("attrs", "")) {
			f, ok := h.Lookup(name)
			if !ok {
				return &verr.GrammarError{
					Cause:  verr.ErrUnknownFeature,
					Detail: fmt.Sprintf("distributive feature %v", name),
				}
			}
			f.Distributive = true
		}
	}

	if lic := b.lexicon.SelectElement("licensing-features"); lic != nil {
		for _, feat := range store.Iter(lic, "feat") {
			name, ok := store.Attr(feat, "val")
			if !ok {
				name = feat.SelectAttrValue("attr", "")
			}
			f, ok := h.Lookup(name)
			if !ok {
				return &verr.GrammarError{
					Cause:  verr.ErrUnknownFeature,
					Detail: fmt.Sprintf("licensing feature %v", name),
				}
			}
			for _, a := range feat.Attr {
				f.setLicensing(a.Key, a.Value)
			}
		}
	}

	if rs := b.lexicon.SelectElement("relation-sorting"); rs != nil {
		h.RelationSorting = rs.SelectAttrValue("order", "")
	}

	return nil
}

func (h *FeatureHierarchy) section() string {
	top := h.Toplevel()
	lines := make([]string, len(top))
	for i, f := range top {
		lines[i] = f.format(0)
	}
	s := fmt.Sprintf("feature {\n  %v\n}", strings.Join(lines, "\n\n  "))
	if h.RelationSorting != "" {
		s += fmt.Sprintf("\n\nrelation-sorting: %v;", h.RelationSorting)
	}
	return s
}
