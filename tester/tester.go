package tester

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/nihei9/xml2ccg/grammar"
	"github.com/nihei9/xml2ccg/spec"
	"github.com/nihei9/xml2ccg/store"
)

type TestResult struct {
	GrammarPath string
	Error       error
	Diffs       []*Diff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.GrammarPath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, fmt.Sprintf("%v: %v", diff.Document, diff.Message))
			if diff.ExpectedPath != "" {
				diffLines = append(diffLines, fmt.Sprintf("%vexpected path: %v", indent1, diff.ExpectedPath))
			}
			if diff.ActualPath != "" {
				diffLines = append(diffLines, fmt.Sprintf("%vactual path:   %v", indent1, diff.ActualPath))
			}
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.GrammarPath)
}

type Tester struct {
	Compiler *Compiler
	// WorkDir is the directory temporary grammars are created in. The system default is used
	// when it is empty.
	WorkDir string
	// Keep leaves the regenerated grammars in place.
	Keep bool
	// StoreOptions are applied when the original grammar is opened.
	StoreOptions []store.Option
	Logger       *log.Logger
}

func (t *Tester) logger() *log.Logger {
	if t.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return t.Logger
}

// RoundTrip converts the grammar in dir to .ccg, compiles the result with ccg2xml and compares
// the regenerated XML documents with the original ones.
func (t *Tester) RoundTrip(ctx context.Context, dir string) *TestResult {
	if t.Compiler == nil {
		return &TestResult{
			GrammarPath: dir,
			Error:       fmt.Errorf("no compiler is configured"),
		}
	}

	orig, src, err := t.convert(dir)
	if err != nil {
		return &TestResult{
			GrammarPath: dir,
			Error:       err,
		}
	}

	out, err := os.MkdirTemp(t.WorkDir, "ccgcheck-")
	if err != nil {
		return &TestResult{
			GrammarPath: dir,
			Error:       err,
		}
	}
	if t.Keep {
		t.logger().Printf("%v: regenerated grammar is kept in %v", dir, out)
	} else {
		defer os.RemoveAll(out)
	}

	err = t.Compiler.Compile(ctx, orig.Name(), src, out)
	if err != nil {
		return &TestResult{
			GrammarPath: dir,
			Error:       err,
		}
	}

	regen, err := store.Open(out, store.WithLogger(t.logger()))
	if err != nil {
		return &TestResult{
			GrammarPath: dir,
			Error:       err,
		}
	}
	var diffs []*Diff
	for _, name := range store.DocumentNames {
		o, err := orig.Document(name)
		if err != nil {
			return &TestResult{
				GrammarPath: dir,
				Error:       err,
			}
		}
		r, err := regen.Document(name)
		if err != nil {
			return &TestResult{
				GrammarPath: dir,
				Error:       err,
			}
		}
		for _, d := range CompareTrees(o, r) {
			d.Document = name
			diffs = append(diffs, d)
		}
	}
	return newResult(dir, diffs)
}

// SelfCheck converts the grammar in dir, reads the .ccg text back and checks that it declares
// the features, words, rules and test items of the XML documents. It needs no compiler.
func (t *Tester) SelfCheck(dir string) *TestResult {
	s, src, err := t.convert(dir)
	if err != nil {
		return &TestResult{
			GrammarPath: dir,
			Error:       err,
		}
	}
	doc, err := spec.Parse(bytes.NewReader(src))
	if err != nil {
		return &TestResult{
			GrammarPath: dir,
			Error:       fmt.Errorf("the generated .ccg text cannot be read: %w", err),
		}
	}

	var diffs []*Diff
	for _, check := range []func(*store.Store, *spec.Document) ([]*Diff, error){
		checkFeatures,
		checkWords,
		checkRules,
		checkTestbed,
	} {
		ds, err := check(s, doc)
		if err != nil {
			return &TestResult{
				GrammarPath: dir,
				Error:       err,
			}
		}
		diffs = append(diffs, ds...)
	}
	return newResult(dir, diffs)
}

func (t *Tester) convert(dir string) (*store.Store, []byte, error) {
	opts := append([]store.Option{store.WithLogger(t.logger())}, t.StoreOptions...)
	s, err := store.Open(dir, opts...)
	if err != nil {
		return nil, nil, err
	}
	b := &grammar.GrammarBuilder{
		Store: s,
	}
	g, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	err = g.Write(&buf, time.Now())
	if err != nil {
		return nil, nil, err
	}
	return s, buf.Bytes(), nil
}

func newResult(dir string, diffs []*Diff) *TestResult {
	if len(diffs) > 0 {
		return &TestResult{
			GrammarPath: dir,
			Error:       fmt.Errorf("output mismatch"),
			Diffs:       diffs,
		}
	}
	return &TestResult{
		GrammarPath: dir,
	}
}

// diffSets reports the keys of expected missing from actual and, unless subset is true, the
// keys of actual missing from expected.
func diffSets(doc store.DocumentName, what string, expected, actual []string, subset bool) []*Diff {
	exp := toSet(expected)
	act := toSet(actual)
	var diffs []*Diff
	for _, k := range sortedKeys(exp) {
		if _, ok := act[k]; !ok {
			diffs = append(diffs, &Diff{
				Document: doc,
				Message:  fmt.Sprintf("missing %v: %v", what, k),
			})
		}
	}
	if subset {
		return diffs
	}
	for _, k := range sortedKeys(act) {
		if _, ok := exp[k]; !ok {
			diffs = append(diffs, &Diff{
				Document: doc,
				Message:  fmt.Sprintf("unexpected %v: %v", what, k),
			})
		}
	}
	return diffs
}

func toSet(keys []string) map[string]struct{} {
	s := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func sortedKeys(s map[string]struct{}) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
