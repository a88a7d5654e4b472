package tester

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nihei9/xml2ccg/spec"
	"github.com/nihei9/xml2ccg/store"
)

// checkFeatures checks that every type and every parent relation of types.xml is declared.
// The .ccg text may declare more, e.g. features derived from macros.
func checkFeatures(s *store.Store, doc *spec.Document) ([]*Diff, error) {
	types, err := s.Types()
	if err != nil || types == nil {
		return nil, err
	}

	var expNames, expParents []string
	for _, t := range store.Iter(types, "type") {
		name := strings.ReplaceAll(t.SelectAttrValue("name", ""), "@", "")
		expNames = append(expNames, name)
		for _, p := range strings.Fields(t.SelectAttrValue("parents", "")) {
			expParents = append(expParents, parentKey(name, p))
		}
	}

	var actNames, actParents []string
	var walk func(parent string, fs []*spec.FeatureNode)
	walk = func(parent string, fs []*spec.FeatureNode) {
		for _, f := range fs {
			actNames = append(actNames, f.Name)
			if parent != "" {
				actParents = append(actParents, parentKey(f.Name, parent))
			}
			for _, p := range f.AdditionalParents {
				actParents = append(actParents, parentKey(f.Name, p))
			}
			walk(f.Name, f.Children)
		}
	}
	walk("", doc.Features)

	diffs := diffSets(store.DocTypes, "feature", expNames, actNames, true)
	return append(diffs, diffSets(store.DocTypes, "parent relation", expParents, actParents, true)...), nil
}

func parentKey(child, parent string) string {
	return fmt.Sprintf("%v < %v", child, parent)
}

// checkWords compares the (form, stem, family, class, macros) tuples of morph.xml with the
// words declared in the .ccg text.
func checkWords(s *store.Store, doc *spec.Document) ([]*Diff, error) {
	morph, err := s.Morph()
	if err != nil {
		return nil, err
	}

	var expected []string
	for _, e := range store.Iter(morph, "entry") {
		form := e.SelectAttrValue("word", "")
		var macros []string
		for _, m := range strings.Fields(e.SelectAttrValue("macros", "")) {
			macros = append(macros, strings.TrimPrefix(m, "@"))
		}
		expected = append(expected, wordKey(
			form,
			e.SelectAttrValue("stem", form),
			e.SelectAttrValue("pos", ""),
			strings.Fields(e.SelectAttrValue("class", "")),
			macros,
		))
	}

	var actual []string
	for _, w := range doc.Words {
		var class []string
		for _, a := range w.Attributes {
			if !strings.Contains(a, "=") {
				class = append(class, a)
			}
		}
		for _, f := range w.Forms {
			actual = append(actual, wordKey(f.Form, w.Stem, w.Family, class, f.Macros))
		}
	}

	return diffSets(store.DocMorph, "word", expected, actual, false), nil
}

// wordKey ignores the order of macros.
func wordKey(form, stem, family string, class, macros []string) string {
	sorted := append([]string(nil), macros...)
	sort.Strings(sorted)
	return fmt.Sprintf("form=%v stem=%v family=%v class=%v macros=%v", form, stem, family, strings.Join(class, " "), strings.Join(sorted, " "))
}

var ruleNames = map[string]string{
	"app":  "application",
	"comp": "composition",
	"sub":  "substitution",
}

var ruleDirs = map[rune]string{
	'+': "forward",
	'-': "backward",
}

// checkRules compares the rule declarations of rules.xml with the rule statements.
func checkRules(s *store.Store, doc *spec.Document) ([]*Diff, error) {
	rules, err := s.Rules()
	if err != nil {
		return nil, err
	}

	var expected []string
	for _, name := range []string{"application", "composition", "substitution"} {
		for _, e := range store.Iter(rules, name) {
			expected = append(expected, simpleRuleKey(name, e.SelectAttrValue("dir", ""), e.SelectAttrValue("harmonic", "true") == "true"))
		}
	}
	for _, e := range store.Iter(rules, "typeraising") {
		expected = append(expected, typeRaisingKey(e.SelectAttrValue("dir", ""), e.SelectAttrValue("useDollar", "false") == "true"))
	}
	for range store.Iter(rules, "typechanging") {
		expected = append(expected, "typechanging")
	}

	var actual []string
	var diffs []*Diff
	for _, stmt := range doc.Rules {
		// Type-raising and type-changing rules may spell out `: arg => result`.
		head := stmt
		if i := strings.Index(head, ":"); i >= 0 {
			head = head[:i]
		}
		fields := strings.Fields(head)
		if len(fields) == 0 {
			continue
		}
		switch {
		case fields[0] == "no":
		case fields[0] == "typechange":
			actual = append(actual, "typechanging")
		case fields[0] == "typeraise" && len(fields) >= 2:
			dollar := len(fields) >= 3 && fields[2] == "$"
			actual = append(actual, typeRaisingKey(ruleDirs[rune(fields[1][0])], dollar))
		case len(fields) == 2 && ruleNames[strings.TrimPrefix(fields[0], "x")] != "":
			name := ruleNames[strings.TrimPrefix(fields[0], "x")]
			harmonic := !strings.HasPrefix(fields[0], "x")
			for _, c := range fields[1] {
				actual = append(actual, simpleRuleKey(name, ruleDirs[c], harmonic))
			}
		default:
			diffs = append(diffs, &Diff{
				Document: store.DocRules,
				Message:  fmt.Sprintf("unknown rule statement: %v", stmt),
			})
		}
	}

	return append(diffs, diffSets(store.DocRules, "rule", expected, actual, false)...), nil
}

func simpleRuleKey(name, dir string, harmonic bool) string {
	return fmt.Sprintf("%v dir=%v harmonic=%v", name, dir, harmonic)
}

func typeRaisingKey(dir string, dollar bool) string {
	return fmt.Sprintf("typeraising dir=%v useDollar=%v", dir, dollar)
}

// checkTestbed compares the (sentence, numOfParses, known) triples.
func checkTestbed(s *store.Store, doc *spec.Document) ([]*Diff, error) {
	testbed, err := s.Testbed()
	if err != nil {
		return nil, err
	}

	var expected []string
	for _, e := range store.Iter(testbed, "item") {
		expected = append(expected, testItemKey(
			e.SelectAttrValue("string", ""),
			e.SelectAttrValue("numOfParses", "1"),
			e.SelectAttrValue("known", "") == "true",
		))
	}
	var actual []string
	for _, item := range doc.Testbed {
		actual = append(actual, testItemKey(item.Sentence, item.NumOfParses, item.Known))
	}

	return diffSets(store.DocTestbed, "test item", expected, actual, false), nil
}

func testItemKey(sentence, numOfParses string, known bool) string {
	return fmt.Sprintf("%q parses=%v known=%v", sentence, numOfParses, known)
}
