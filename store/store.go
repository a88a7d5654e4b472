package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	lru "github.com/hashicorp/golang-lru/v2"
	verr "github.com/nihei9/xml2ccg/error"
)

// DocumentName identifies one logical file of an OpenCCG grammar.
type DocumentName string

const (
	DocGrammar DocumentName = "grammar"
	DocMorph   DocumentName = "morph"
	DocLexicon DocumentName = "lexicon"
	DocRules   DocumentName = "rules"
	DocTypes   DocumentName = "types"
	DocTestbed DocumentName = "testbed"
)

// DocumentNames lists every document a grammar directory may contain.
var DocumentNames = []DocumentName{
	DocGrammar,
	DocMorph,
	DocLexicon,
	DocRules,
	DocTypes,
	DocTestbed,
}

func (n DocumentName) pattern() string {
	return "*" + string(n) + ".xml"
}

type document struct {
	root *etree.Element
	path string
	err  error
}

// Store exposes the XML documents of one grammar directory. Each document is located by
// the glob *<name>.xml, parsed on first access and cached afterwards.
type Store struct {
	fsys    fs.FS
	dir     string
	lenient bool
	logger  *log.Logger
	cache   *lru.Cache[DocumentName, *document]
}

type Option func(s *Store)

// Lenient makes a document that fails to parse behave like an absent document.
func Lenient() Option {
	return func(s *Store) {
		s.lenient = true
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// Open returns a Store reading the grammar directory dir.
func Open(dir string, opts ...Option) (*Store, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar directory %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return New(os.DirFS(dir), dir, opts...)
}

// New returns a Store reading documents from fsys. dir is only used to derive the grammar
// name and to report file paths.
func New(fsys fs.FS, dir string, opts ...Option) (*Store, error) {
	cache, err := lru.New[DocumentName, *document](len(DocumentNames))
	if err != nil {
		return nil, err
	}
	s := &Store{
		fsys:   fsys,
		dir:    dir,
		logger: log.New(io.Discard, "", 0),
		cache:  cache,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Name returns the grammar name: the base name of the directory without its extension.
func (s *Store) Name() string {
	dir := s.dir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	base := filepath.Base(dir)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Document returns the root element of the named document. It returns a nil element and a
// nil error when the grammar has no such document.
func (s *Store) Document(name DocumentName) (*etree.Element, error) {
	doc := s.document(name)
	return doc.root, doc.err
}

// Path returns the path of the file backing the named document, or an empty string.
func (s *Store) Path(name DocumentName) string {
	doc := s.document(name)
	if doc.path == "" {
		return ""
	}
	return filepath.Join(s.dir, filepath.FromSlash(doc.path))
}

func (s *Store) document(name DocumentName) *document {
	doc, ok := s.cache.Get(name)
	if !ok {
		doc = s.load(name)
		s.cache.Add(name, doc)
	}
	return doc
}

func (s *Store) load(name DocumentName) *document {
	matches, err := fs.Glob(s.fsys, name.pattern())
	if err != nil {
		return &document{err: err}
	}
	if len(matches) == 0 {
		s.logger.Printf("%v: no file matches %v", s.dir, name.pattern())
		return &document{}
	}
	p := matches[0]

	src, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		return &document{path: p, err: fmt.Errorf("Cannot read %s: %w", p, err)}
	}
	xmlDoc := etree.NewDocument()
	err = xmlDoc.ReadFromBytes(src)
	if err == nil && xmlDoc.Root() == nil {
		err = errors.New("no root element")
	}
	if err != nil {
		if s.lenient {
			s.logger.Printf("%v: ignoring malformed document: %v", path.Join(s.dir, p), err)
			return &document{path: p}
		}
		return &document{
			path: p,
			err: &verr.GrammarError{
				Cause:      verr.ErrMalformedXML,
				Detail:     err.Error(),
				SourceName: filepath.Join(s.dir, filepath.FromSlash(p)),
			},
		}
	}
	return &document{
		root: xmlDoc.Root(),
		path: p,
	}
}

func (s *Store) Grammar() (*etree.Element, error) { return s.Document(DocGrammar) }
func (s *Store) Morph() (*etree.Element, error)   { return s.Document(DocMorph) }
func (s *Store) Lexicon() (*etree.Element, error) { return s.Document(DocLexicon) }
func (s *Store) Rules() (*etree.Element, error)   { return s.Document(DocRules) }
func (s *Store) Types() (*etree.Element, error)   { return s.Document(DocTypes) }
func (s *Store) Testbed() (*etree.Element, error) { return s.Document(DocTestbed) }
