package grammar

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	verr "github.com/nihei9/xml2ccg/error"
	"github.com/nihei9/xml2ccg/grammar/category"
	"github.com/nihei9/xml2ccg/store"
)

type RuleTag string

const (
	RuleTagApplication  RuleTag = "application"
	RuleTagComposition  RuleTag = "composition"
	RuleTagSubstitution RuleTag = "substitution"
	RuleTagTypeRaising  RuleTag = "typeraising"
	RuleTagTypeChanging RuleTag = "typechanging"
)

// simpleRules lists the rules accumulated into one directional line, with their .ccg names.
var simpleRules = []struct {
	tag  RuleTag
	name string
}{
	{RuleTagApplication, "app"},
	{RuleTagComposition, "comp"},
	{RuleTagSubstitution, "sub"},
}

var directionSymbols = map[string]string{
	"forward":  "+",
	"backward": "-",
}

// Rule is one combinatory rule element of rules.xml.
type Rule struct {
	Tag       RuleTag
	Dir       string
	Harmonic  bool
	UseDollar bool
	// Arg and Result are set when a type-raising or type-changing rule spells out both.
	Arg    category.Node
	Result category.Node
}

func (r *Rule) dirSymbol() (string, error) {
	sym, ok := directionSymbols[r.Dir]
	if !ok {
		return "", &verr.GrammarError{
			Cause:  verr.ErrUnknownDirection,
			Detail: fmt.Sprintf("%v in %v", r.Dir, r.Tag),
		}
	}
	return sym, nil
}

func (r *Rule) argResult() (string, error) {
	if r.Arg == nil || r.Result == nil {
		return "", nil
	}
	arg, err := category.Format(r.Arg)
	if err != nil {
		return "", err
	}
	result, err := category.Format(r.Result)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(": %v => %v", arg, result), nil
}

// RuleSet holds the rules of rules.xml grouped by tag.
type RuleSet struct {
	rules map[RuleTag][]*Rule
}

func buildRuleSet(rules *etree.Element) (*RuleSet, error) {
	rs := &RuleSet{
		rules: map[RuleTag][]*Rule{},
	}
	tags := []RuleTag{
		RuleTagApplication,
		RuleTagComposition,
		RuleTagSubstitution,
		RuleTagTypeRaising,
		RuleTagTypeChanging,
	}
	for _, tag := range tags {
		for _, e := range store.Iter(rules, string(tag)) {
			r := &Rule{
				Tag:       tag,
				Dir:       e.SelectAttrValue("dir", ""),
				Harmonic:  e.SelectAttrValue("harmonic", "true") == "true",
				UseDollar: e.SelectAttrValue("useDollar", "false") == "true",
			}
			arg := store.FirstChild(e.SelectElement("arg"))
			result := store.FirstChild(e.SelectElement("result"))
			if e.SelectElement("arg") != nil && e.SelectElement("result") != nil {
				var err error
				r.Arg, err = category.Decode(arg)
				if err != nil {
					return nil, err
				}
				r.Result, err = category.Decode(result)
				if err != nil {
					return nil, err
				}
			}
			rs.rules[tag] = append(rs.rules[tag], r)
		}
	}
	return rs, nil
}

func (rs *RuleSet) Rules(tag RuleTag) []*Rule {
	return rs.rules[tag]
}

// lines returns the rule statements. The first statement, `no;`, clears the defaults
// ccg2xml would otherwise apply.
func (rs *RuleSet) lines() ([]string, error) {
	lines := []string{"no;"}

	for _, sr := range simpleRules {
		var dirs, xdirs string
		for _, r := range rs.rules[sr.tag] {
			sym, err := r.dirSymbol()
			if err != nil {
				return nil, err
			}
			if r.Harmonic {
				dirs += sym
			} else {
				xdirs += sym
			}
		}
		if dirs != "" {
			lines = append(lines, fmt.Sprintf("%v %v;", sr.name, dirs))
		}
		if xdirs != "" {
			lines = append(lines, fmt.Sprintf("x%v %v;", sr.name, xdirs))
		}
	}

	for _, r := range rs.rules[RuleTagTypeRaising] {
		sym, err := r.dirSymbol()
		if err != nil {
			return nil, err
		}
		line := "typeraise " + sym
		if r.UseDollar {
			line += " $"
		}
		ar, err := r.argResult()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line+ar+";")
	}

	for _, r := range rs.rules[RuleTagTypeChanging] {
		ar, err := r.argResult()
		if err != nil {
			return nil, err
		}
		lines = append(lines, "typechange"+ar+";")
	}

	return lines, nil
}

func (rs *RuleSet) section() (string, error) {
	lines, err := rs.lines()
	if err != nil {
		return "", err
	}
	s := fmt.Sprintf("rule {\n  %v\n}", strings.Join(lines, "\n  "))
	// Forward is always printed before backward. The replacement runs over the whole block,
	// which is safe while '+' and '-' only occur as directions.
	return strings.ReplaceAll(s, "-+", "+-"), nil
}
