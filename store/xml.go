package store

import "github.com/beevik/etree"

// Iter returns e and all of its descendants with the given tag, in document order.
func Iter(e *etree.Element, tag string) []*etree.Element {
	if e == nil {
		return nil
	}
	var elems []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if e.Tag == tag {
			elems = append(elems, e)
		}
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	walk(e)
	return elems
}

// Find returns the first child of e reached by following the tags in order, or nil.
// Each tag selects among direct children only.
func Find(e *etree.Element, tags ...string) *etree.Element {
	for _, tag := range tags {
		if e == nil {
			return nil
		}
		e = e.SelectElement(tag)
	}
	return e
}

// FirstChild returns the first child element of e, or nil.
func FirstChild(e *etree.Element) *etree.Element {
	if e == nil {
		return nil
	}
	cs := e.ChildElements()
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}

// Attr returns the value of the attribute key and whether it is present.
func Attr(e *etree.Element, key string) (string, bool) {
	a := e.SelectAttr(key)
	if a == nil {
		return "", false
	}
	return a.Value, true
}
