// Package parser turns a preprocessed token stream into the ast of one file.
package parser

import (
	"slices"

	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/source"
	"svdump/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser - состояние парсера на один файл
type Parser struct {
	toks     []token.Token // поток токенов после препроцессора, заканчивается EOF
	pos      int
	arenas   *ast.Builder
	file     *ast.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	// pendingAttrs are (* *) annotations waiting for the next item.
	pendingAttrs []ast.Attribute
}

// ParseFile parses toks, which must end with EOF, into arenas.
func ParseFile(fileID source.FileID, toks []token.Token, arenas *ast.Builder, opts Options) *ast.File {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		eof := token.Token{Kind: token.EOF, Span: source.Span{File: fileID}}
		if len(toks) > 0 {
			eof.Span = toks[len(toks)-1].Span.ZeroAt()
		}
		toks = append(slices.Clip(toks), eof)
	}
	p := Parser{
		toks:     toks,
		arenas:   arenas,
		file:     &ast.File{ID: fileID},
		opts:     opts,
		lastSpan: source.Span{File: fileID},
	}
	p.parseItems()
	return p.file
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// peekN смотрит на n токенов вперёд, не выходя за EOF.
func (p *Parser) peekN(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) at_or(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

// parseItems - основной цикл верхнего уровня: пока не EOF - модуль.
func (p *Parser) parseItems() {
	startSpan := p.peek().Span
	for !p.at(token.EOF) {
		if p.opts.Enough() {
			break
		}
		switch p.peek().Kind {
		case token.AttrOpen:
			p.pendingAttrs = append(p.pendingAttrs, p.parseAttributes()...)
		case token.Semicolon:
			p.advance()
		case token.KwModule, token.KwMacromodule:
			if id, ok := p.parseModule(); ok {
				p.file.Modules = append(p.file.Modules, id)
			}
		default:
			p.report(diag.SynUnexpectedTopLevel, diag.SevError, p.peek().Span,
				"unexpected "+describe(p.peek())+" outside of a module")
			p.pendingAttrs = nil
			p.resyncTop()
		}
	}
	p.file.Span = startSpan.Cover(p.peek().Span)
}

// resyncTop - прокручиваем до следующего module или EOF.
func (p *Parser) resyncTop() {
	p.advance()
	p.resyncUntil(token.KwModule, token.KwMacromodule)
}

// describe renders a token for diagnostics.
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.SystemIdent, token.IntLit, token.UnbasedLit, token.RealLit, token.StringLit:
		return "'" + tok.Text + "'"
	default:
		return "'" + tok.Kind.String() + "'"
	}
}
