package preproc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"svdump/internal/diag"
	"svdump/internal/lexer"
	"svdump/internal/source"
	"svdump/internal/token"
)

// ignored directives consume the rest of their line silently.
var ignored = map[string]bool{
	"timescale":           true,
	"default_nettype":     true,
	"resetall":            true,
	"celldefine":          true,
	"endcelldefine":       true,
	"unconnected_drive":   true,
	"nounconnected_drive": true,
}

// warned directives are skipped with a warning.
var warned = map[string]bool{
	"pragma":         true,
	"line":           true,
	"begin_keywords": true,
	"end_keywords":   true,
}

type include struct {
	file *source.File
	toks []token.Token
}

// Preprocessor expands directives file by file. It loads included files
// into the shared FileSet, so a Preprocessor must be used by one
// goroutine at a time.
type Preprocessor struct {
	fs         *source.FileSet
	opts       Options
	predefined []token.Token
	includes   map[string]*include
}

// New prepares the command-line macros. They are rendered as `define
// lines of a virtual file registered in fs and replayed for every input.
func New(fs *source.FileSet, opts Options) *Preprocessor {
	if opts.MaxIncludeDepth <= 0 {
		opts.MaxIncludeDepth = DefaultMaxIncludeDepth
	}
	p := &Preprocessor{fs: fs, opts: opts, includes: make(map[string]*include)}
	if len(opts.Defines) > 0 {
		var sb strings.Builder
		for _, d := range opts.Defines {
			fmt.Fprintf(&sb, "`define %s %s\n", d.Name, strings.ReplaceAll(d.Value, "\n", " "))
		}
		id := fs.AddVirtual("<command line>", []byte(sb.String()))
		toks := lexer.New(fs.Get(id), lexer.Options{}).All()
		p.predefined = toks[:len(toks)-1]
	}
	return p
}

// Process runs the directives of one input file. toks is the file's lexed
// stream ending with EOF; the result ends with the same EOF token.
func (p *Preprocessor) Process(toks []token.Token, rep diag.Reporter) []token.Token {
	s := &state{
		p:         p,
		rep:       rep,
		macros:    make(map[string]*macro),
		expanding: make(map[string]bool),
	}
	if rep == nil {
		s.rep = diag.NopReporter{}
	}
	s.stream(p.predefined, 0)
	eof := token.Token{Kind: token.EOF}
	if n := len(toks); n > 0 && toks[n-1].Kind == token.EOF {
		eof = toks[n-1]
		toks = toks[:n-1]
	}
	s.file(toks, 0)
	s.out = append(s.out, eof)
	return s.out
}

type condFrame struct {
	active      bool
	taken       bool
	seenElse    bool
	parentAlive bool
	span        source.Span
}

type state struct {
	p         *Preprocessor
	rep       diag.Reporter
	macros    map[string]*macro
	expanding map[string]bool
	cond      []condFrame
	out       []token.Token
}

func (s *state) emitting() bool {
	return len(s.cond) == 0 || s.cond[len(s.cond)-1].active
}

func (s *state) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportError(s.rep, code, sp, fmt.Sprintf(format, args...)).Emit()
}

func (s *state) warnf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportWarning(s.rep, code, sp, fmt.Sprintf(format, args...)).Emit()
}

// file processes one file's tokens; conditionals must balance inside it.
func (s *state) file(toks []token.Token, depth int) {
	base := len(s.cond)
	s.stream(toks, depth)
	for len(s.cond) > base {
		f := s.cond[len(s.cond)-1]
		s.cond = s.cond[:len(s.cond)-1]
		s.errorf(diag.PPUnterminatedIfdef, f.span, "missing `endif for conditional opened here")
	}
}

// lineEnd returns the index after the last token on the line of toks[i].
func lineEnd(toks []token.Token, i int) int {
	j := i + 1
	for j < len(toks) && !toks[j].StartsLine() {
		j++
	}
	return j
}

func (s *state) stream(toks []token.Token, depth int) {
	for i := 0; i < len(toks); {
		t := toks[i]
		if t.Kind != token.Directive {
			if s.emitting() {
				s.out = append(s.out, t)
			}
			i++
			continue
		}
		name := t.DirectiveName()
		switch name {
		case "ifdef", "ifndef", "elsif", "else", "endif":
			i = s.conditional(toks, i, name)
			continue
		}
		if !s.emitting() {
			i++
			continue
		}
		switch {
		case name == "define":
			i = s.define(toks, i)
		case name == "undef":
			i = s.undef(toks, i)
		case name == "include":
			i = s.include(toks, i, depth)
		case name == "__FILE__":
			s.out = append(s.out, s.fileToken(t))
			i++
		case name == "__LINE__":
			s.out = append(s.out, s.lineToken(t))
			i++
		case ignored[name]:
			i = lineEnd(toks, i)
		case warned[name]:
			s.warnf(diag.PPIgnoredDirective, t.Span, "directive `%s is ignored", name)
			i = lineEnd(toks, i)
		default:
			i = s.expand(toks, i, depth)
		}
	}
}

func (s *state) conditional(toks []token.Token, i int, name string) int {
	t := toks[i]
	switch name {
	case "ifdef", "ifndef":
		_, ok := s.macroName(toks, i)
		alive := s.emitting()
		cond := false
		if ok {
			_, defined := s.macros[toks[i+1].Text]
			cond = defined == (name == "ifdef")
		}
		s.cond = append(s.cond, condFrame{active: alive && cond, taken: cond, parentAlive: alive, span: t.Span})
		if ok {
			return i + 2
		}
		return i + 1
	case "elsif":
		if len(s.cond) == 0 {
			s.errorf(diag.PPUnbalancedEndif, t.Span, "`elsif without `ifdef")
			return i + 1
		}
		f := &s.cond[len(s.cond)-1]
		_, ok := s.macroName(toks, i)
		if f.seenElse {
			s.errorf(diag.PPUnbalancedEndif, t.Span, "`elsif after `else")
		}
		cond := false
		if ok {
			_, cond = s.macros[toks[i+1].Text]
		}
		f.active = f.parentAlive && !f.taken && cond
		f.taken = f.taken || cond
		if ok {
			return i + 2
		}
		return i + 1
	case "else":
		if len(s.cond) == 0 {
			s.errorf(diag.PPUnbalancedEndif, t.Span, "`else without `ifdef")
			return i + 1
		}
		f := &s.cond[len(s.cond)-1]
		if f.seenElse {
			s.errorf(diag.PPUnbalancedEndif, t.Span, "duplicate `else")
		}
		f.seenElse = true
		f.active = f.parentAlive && !f.taken
		f.taken = true
		return i + 1
	default: // endif
		if len(s.cond) == 0 {
			s.errorf(diag.PPUnbalancedEndif, t.Span, "`endif without `ifdef")
			return i + 1
		}
		s.cond = s.cond[:len(s.cond)-1]
		return i + 1
	}
}

// macroName checks that toks[i+1] is a name on the directive's line.
func (s *state) macroName(toks []token.Token, i int) (string, bool) {
	if i+1 < len(toks) && !toks[i+1].StartsLine() && (toks[i+1].Kind == token.Ident || toks[i+1].Kind.IsKeyword()) {
		return toks[i+1].Text, true
	}
	if s.emitting() {
		s.errorf(diag.PPExpectMacroName, toks[i].Span, "expected macro name after `%s", toks[i].DirectiveName())
	}
	return "", false
}

func (s *state) define(toks []token.Token, i int) int {
	end := lineEnd(toks, i)
	name, ok := s.macroName(toks, i)
	if !ok {
		return end
	}
	m := &macro{name: name, span: toks[i+1].Span}
	j := i + 2
	// "NAME(" with no space between is a parameter list
	if j < end && toks[j].Kind == token.LParen && len(toks[j].Leading) == 0 {
		m.params = []string{}
		j++
		for j < end && toks[j].Kind != token.RParen {
			if toks[j].Kind == token.Ident {
				m.params = append(m.params, toks[j].Text)
			} else if toks[j].Kind != token.Comma {
				s.errorf(diag.PPExpectMacroName, toks[j].Span, "expected macro parameter name")
			}
			j++
		}
		if j >= end {
			s.errorf(diag.PPExpectMacroName, toks[i].Span, "unterminated macro parameter list")
			return end
		}
		j++
	}
	m.body = append([]token.Token(nil), toks[j:end]...)
	if prev, exists := s.macros[name]; exists && !prev.sameAs(m) {
		b := diag.ReportWarning(s.rep, diag.PPMacroRedefinition, m.span, fmt.Sprintf("macro %q redefined", name))
		if !prev.span.IsDetached() {
			b.WithNote(prev.span, "previous definition")
		}
		b.Emit()
	}
	s.macros[name] = m
	return end
}

func (s *state) undef(toks []token.Token, i int) int {
	name, ok := s.macroName(toks, i)
	if !ok {
		return i + 1
	}
	delete(s.macros, name)
	return i + 2
}

func (s *state) include(toks []token.Token, i int, depth int) int {
	t := toks[i]
	if i+1 >= len(toks) || toks[i+1].Kind != token.StringLit || toks[i+1].StartsLine() {
		s.errorf(diag.PPIncludeNotFound, t.Span, "`include expects a quoted file name")
		return i + 1
	}
	nameTok := toks[i+1]
	name, err := strconv.Unquote(nameTok.Text)
	if err != nil {
		name = strings.Trim(nameTok.Text, `"`)
	}
	if depth+1 > s.p.opts.MaxIncludeDepth {
		s.errorf(diag.PPIncludeDepth, nameTok.Span, "include nesting deeper than %d", s.p.opts.MaxIncludeDepth)
		return i + 2
	}
	inc, err := s.p.load(name, t.Span.File)
	if err != nil {
		s.errorf(diag.PPIncludeNotFound, nameTok.Span, "cannot find include file %q", name)
		return i + 2
	}
	s.file(inc.toks[:len(inc.toks)-1], depth+1)
	return i + 2
}

// load resolves name against the including file's directory, then the
// include directories, and lexes each file once.
func (p *Preprocessor) load(name string, from source.FileID) (*include, error) {
	var candidates []string
	if filepath.IsAbs(name) {
		candidates = append(candidates, name)
	} else {
		if f := p.fs.Get(from); f != nil && f.Flags&source.FileVirtual == 0 {
			candidates = append(candidates, filepath.Join(filepath.Dir(f.Path), name))
		}
		for _, dir := range p.opts.IncludeDirs {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	for _, c := range candidates {
		c = filepath.Clean(c)
		if inc, ok := p.includes[c]; ok {
			return inc, nil
		}
		if st, err := os.Stat(c); err != nil || st.IsDir() {
			continue
		}
		id, err := p.fs.Load(c)
		if err != nil {
			return nil, err
		}
		p.fs.MarkIncluded(id, from)
		f := p.fs.Get(id)
		inc := &include{file: f, toks: lexer.New(f, lexer.Options{MaxTokens: p.opts.MaxTokens}).All()}
		p.includes[c] = inc
		return inc, nil
	}
	return nil, os.ErrNotExist
}

// expand substitutes a macro use at toks[i].
func (s *state) expand(toks []token.Token, i int, depth int) int {
	t := toks[i]
	name := t.DirectiveName()
	m, ok := s.macros[name]
	if !ok {
		s.errorf(diag.PPUndefinedMacro, t.Span, "macro `%s is not defined", name)
		return i + 1
	}
	if s.expanding[name] {
		s.errorf(diag.PPRecursiveMacro, t.Span, "macro `%s expands to itself", name)
		return i + 1
	}
	next := i + 1
	var args [][]token.Token
	if m.functionLike() {
		var ok bool
		args, next, ok = collectArgs(toks, i+1)
		if !ok {
			s.errorf(diag.PPMacroArgCount, t.Span, "macro `%s expects an argument list", name)
			return next
		}
		// "`M()" passes no arguments to a macro without parameters
		if len(m.params) == 0 && len(args) == 1 && len(args[0]) == 0 {
			args = nil
		}
		if len(args) != len(m.params) {
			s.errorf(diag.PPMacroArgCount, t.Span, "macro `%s expects %d arguments, got %d", name, len(m.params), len(args))
			return next
		}
	}
	expanded := m.substitute(t.Span, t.Leading, args)
	s.expanding[name] = true
	s.stream(expanded, depth)
	delete(s.expanding, name)
	return next
}

// collectArgs reads "( a, b(c, d), e )" starting at toks[i].
func collectArgs(toks []token.Token, i int) ([][]token.Token, int, bool) {
	if i >= len(toks) || toks[i].Kind != token.LParen {
		return nil, i, false
	}
	args := [][]token.Token{nil}
	level := 0
	for j := i + 1; j < len(toks); j++ {
		t := toks[j]
		switch t.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			level++
		case token.RParen, token.RBracket, token.RBrace:
			if level == 0 && t.Kind == token.RParen {
				return args, j + 1, true
			}
			level--
		case token.Comma:
			if level == 0 {
				args = append(args, nil)
				continue
			}
		}
		args[len(args)-1] = append(args[len(args)-1], t)
	}
	return nil, len(toks), false
}

func (s *state) fileToken(t token.Token) token.Token {
	path := ""
	if f := s.p.fs.Get(t.Span.File); f != nil {
		path = f.Path
	}
	return token.Token{Kind: token.StringLit, Span: t.Span, Text: strconv.Quote(path), Leading: t.Leading, Expanded: true}
}

func (s *state) lineToken(t token.Token) token.Token {
	start, _ := s.p.fs.Resolve(t.Span)
	return token.Token{Kind: token.IntLit, Span: t.Span, Text: strconv.FormatUint(uint64(start.Line), 10), Leading: t.Leading, Expanded: true}
}
