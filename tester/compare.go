package tester

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/nihei9/xml2ccg/store"
)

type Diff struct {
	Document     store.DocumentName
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newDiff(expected, actual *etree.Element, index int, message string) *Diff {
	return &Diff{
		ExpectedPath: elementPath(expected, index),
		ActualPath:   elementPath(actual, index),
		Message:      message,
	}
}

func elementPath(e *etree.Element, index int) string {
	if e == nil {
		return ""
	}
	var parent string
	if p := e.Parent(); p != nil {
		parent = p.Tag
	}
	return fmt.Sprintf("%v.[%v]%v", parent, index, sortKey(e))
}

// CompareTrees compares the children of original and regenerated after sorting them by tag and
// attributes. The root elements themselves are skipped because their name attribute depends
// on how ccg2xml is called. Nothing is compared when original is nil.
func CompareTrees(original, regenerated *etree.Element) []*Diff {
	if original == nil {
		return nil
	}
	if regenerated == nil {
		return []*Diff{
			{
				ExpectedPath: original.Tag,
				Message:      "the document was not regenerated",
			},
		}
	}

	expected := sortedChildren(original)
	actual := sortedChildren(regenerated)
	var diffs []*Diff
	for i := 0; i < len(expected) && i < len(actual); i++ {
		exp, act := expected[i], actual[i]
		if exp.Tag != act.Tag {
			diffs = append(diffs, newDiff(exp, act, i, fmt.Sprintf("unexpected tag: expected '%v' but got '%v'", exp.Tag, act.Tag)))
			continue
		}
		if reflect.DeepEqual(attrMap(exp), attrMap(act)) || equalTypes(exp, act) {
			continue
		}
		diffs = append(diffs, newDiff(exp, act, i, fmt.Sprintf("unexpected attributes: expected '%v' but got '%v'", attrText(exp), attrText(act))))
	}
	if len(expected) != len(actual) {
		diffs = append(diffs, &Diff{
			ExpectedPath: original.Tag,
			ActualPath:   regenerated.Tag,
			Message:      fmt.Sprintf("unexpected element count: expected %v but got %v", len(expected), len(actual)),
		})
	}
	return diffs
}

// equalTypes compares two type elements, whose parents are a set.
func equalTypes(l, r *etree.Element) bool {
	if l.Tag != "type" || r.Tag != "type" {
		return false
	}
	if l.SelectAttrValue("name", "") != r.SelectAttrValue("name", "") {
		return false
	}
	lp := strings.Fields(l.SelectAttrValue("parents", ""))
	rp := strings.Fields(r.SelectAttrValue("parents", ""))
	sort.Strings(lp)
	sort.Strings(rp)
	return reflect.DeepEqual(lp, rp)
}

func sortedChildren(e *etree.Element) []*etree.Element {
	cs := e.ChildElements()
	keys := make(map[*etree.Element]string, len(cs))
	for _, c := range cs {
		keys[c] = sortKey(c)
	}
	sort.SliceStable(cs, func(i, j int) bool {
		return keys[cs[i]] < keys[cs[j]]
	})
	return cs
}

func sortKey(e *etree.Element) string {
	return e.Tag + "[" + attrText(e) + "]"
}

func attrMap(e *etree.Element) map[string]string {
	m := make(map[string]string, len(e.Attr))
	for _, a := range e.Attr {
		m[a.Key] = a.Value
	}
	return m
}

// attrText returns the attributes as sorted key=value pairs.
func attrText(e *etree.Element) string {
	pairs := make([]string, len(e.Attr))
	for i, a := range e.Attr {
		pairs[i] = fmt.Sprintf("%v=%v", a.Key, a.Value)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}
