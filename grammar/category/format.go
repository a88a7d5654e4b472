package category

import (
	"fmt"
	"strings"

	"github.com/nihei9/xml2ccg/spec"
)

// defaultModes maps a slash direction to the mode it implies when no mode is written.
var defaultModes = map[string]string{
	"/": ">",
	`\`: "<",
	"|": ".",
}

// defaultDirs maps a mode to the direction it implies when no direction is written.
var defaultDirs = map[string]string{
	">": "/",
	"<": `\`,
	".": "|",
}

// Format prints a category in .ccg syntax.
func Format(n Node) (s string, retErr error) {
	defer func() {
		if v := recover(); v != nil {
			err, ok := v.(error)
			if !ok {
				panic(v)
			}
			retErr = err
		}
	}()
	var b strings.Builder
	writeNode(&b, n)
	return b.String(), nil
}

func quote(word string) string {
	q, err := spec.Quote(word)
	if err != nil {
		panic(err)
	}
	return q
}

func writeNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Complex:
		for _, p := range n.Parts {
			writeNode(b, p)
		}
	case *Atom:
		writeAtom(b, n)
	case *Slash:
		writeSlash(b, n)
	case *SetArg:
		b.WriteString("{")
		for _, p := range n.Parts {
			writeNode(b, p)
		}
		b.WriteString("}")
	case *Dollar:
		fmt.Fprintf(b, "$%v", n.Name)
	case *LF:
		b.WriteString(": ")
		writeLF(b, n)
	default:
		panic(fmt.Errorf("unexpected category node %T", n))
	}
}

func writeAtom(b *strings.Builder, a *Atom) {
	b.WriteString(quote(a.Type))
	for _, fs := range a.FS {
		writeFS(b, fs)
	}
	if len(a.LF) > 0 {
		b.WriteString(": ")
		for _, lf := range a.LF {
			writeLF(b, lf)
		}
	}
}

func writeSlash(b *strings.Builder, s *Slash) {
	dir, mode := s.Dir, s.Mode
	if dir == "" && mode == "" {
		return
	}
	if dir == "" {
		dir = defaultDirs[mode]
	}
	if defaultModes[dir] == mode {
		mode = ""
	}
	fmt.Fprintf(b, " %v%v ", dir, mode)
}

func writeFS(b *strings.Builder, fs *FeatureStructure) {
	if fs.HasID {
		fmt.Fprintf(b, "<%v>", fs.ID)
	} else if fs.InheritsFrom != "" {
		fmt.Fprintf(b, "<~%v>", fs.InheritsFrom)
	}
	if len(fs.Feats) == 0 {
		return
	}
	feats := make([]string, len(fs.Feats))
	for i, f := range fs.Feats {
		feats[i] = f.Name
		if f.HasVal {
			feats[i] += "=" + quote(f.Val)
		}
	}
	fmt.Fprintf(b, "[%v]", strings.Join(feats, " "))
}

func writeLF(b *strings.Builder, lf *LF) {
	b.WriteString(lf.Nomvar)
	if len(lf.Preds) == 0 {
		return
	}
	preds := make([]string, len(lf.Preds))
	for i, p := range lf.Preds {
		preds[i] = predString(p)
	}
	fmt.Fprintf(b, "(%v)", strings.Join(preds, " "))
}

func predString(p Pred) string {
	switch p := p.(type) {
	case *Prop:
		return p.Name
	case *Nomvar:
		return p.Name
	case *Diamond:
		return diamondString(p)
	}
	panic(fmt.Errorf("unexpected logical form node %T", p))
}

// diamondString prints <mode>x for a single argument and <mode>(x ^ y) otherwise.
func diamondString(d *Diamond) string {
	mode := quote(d.Mode)
	switch len(d.Args) {
	case 0:
		return fmt.Sprintf("<%v>", mode)
	case 1:
		if nested, ok := d.Args[0].(*Diamond); ok {
			return fmt.Sprintf("<%v>(%v)", mode, diamondString(nested))
		}
		return fmt.Sprintf("<%v>%v", mode, predString(d.Args[0]))
	}
	args := make([]string, len(d.Args))
	for i, a := range d.Args {
		args[i] = predString(a)
	}
	return fmt.Sprintf("<%v>(%v)", mode, strings.Join(args, " ^ "))
}
