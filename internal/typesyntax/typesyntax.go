// Package typesyntax parses the CLI's surface type syntax (e.g.
// "int -> 'a -> 'a") into typeterm.Ty values through the smart
// constructors. It is one of the external-collaborator interfaces
// spec.md's core deliberately leaves unspecified beyond "some parser
// exists"; this implementation supplies a concrete one.
package typesyntax

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/typodex/typodex/internal/path"
	"github.com/typodex/typodex/internal/typeterm"
)

// Syntax:
//
//	Type    := Sum ( "->" Type )?
//	Sum     := Postfix ( "*" Postfix )*
//	Postfix := Atom ( Ident )*
//	Atom    := "'" Ident
//	         | Ident ( "(" Type ( "," Type )* ")" )?
//	         | "(" Type ( "," Type )* ")"
//
// "->" is right-associative. Trailing bare identifiers after an atom apply
// it as a single-argument constructor, so "'a list" parses as list('a) and
// "'a list option" as option(list('a)). A parenthesized, comma-separated
// argument list right after an identifier applies it as a multi-argument
// constructor, so "dict(string, int)" parses as dict(string, int).

// ParseError reports a syntax error together with the byte offset it was
// found at.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("typesyntax: %s (at offset %d)", e.Message, e.Offset)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLParen
	tokRParen
	tokComma
	tokArrow
	tokStar
	tokTick
	tokIdent
)

type token struct {
	kind   tokenKind
	text   string
	offset int
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

func (l *lexer) next() token {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, offset: l.pos}
	}
	start := l.pos
	c := l.src[l.pos]
	switch c {
	case '(':
		l.pos++
		return token{kind: tokLParen, offset: start}
	case ')':
		l.pos++
		return token{kind: tokRParen, offset: start}
	case ',':
		l.pos++
		return token{kind: tokComma, offset: start}
	case '*':
		l.pos++
		return token{kind: tokStar, offset: start}
	case '\'':
		l.pos++
		return token{kind: tokTick, offset: start}
	case '-':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '>' {
			l.pos += 2
			return token{kind: tokArrow, offset: start}
		}
	}
	if strings.HasPrefix(l.src[l.pos:], "→") { // '→'
		l.pos += len("→")
		return token{kind: tokArrow, offset: start}
	}
	if isIdentRune(rune(c)) {
		for l.pos < len(l.src) && isIdentRune(rune(l.src[l.pos])) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.src[start:l.pos], offset: start}
	}
	panic(&ParseError{Offset: start, Message: fmt.Sprintf("unexpected character %q", c)})
}

type parser struct {
	env  *typeterm.Env
	lex  *lexer
	tok  token
	vars map[string]typeterm.Ty
}

// namedVar returns the Ty for a surface variable name, reusing the same
// underlying variable for repeat occurrences within one Parse call so that
// "'a -> 'a" produces two occurrences of one variable, not two variables.
func (p *parser) namedVar(name string) typeterm.Ty {
	if t, ok := p.vars[name]; ok {
		return t
	}
	if p.vars == nil {
		p.vars = make(map[string]typeterm.Ty)
	}
	t := p.env.NewVar(p.env.Vars.FreshNamed(name))
	p.vars[name] = t
	return t
}

func (p *parser) advance() {
	p.tok = p.lex.next()
}

func (p *parser) expect(kind tokenKind, what string) token {
	if p.tok.kind != kind {
		panic(&ParseError{Offset: p.tok.offset, Message: "expected " + what})
	}
	t := p.tok
	p.advance()
	return t
}

// Parse parses s into a Ty interned in env. It never returns a partially
// applied error type: on syntax error it returns a non-nil error and the
// zero Ty.
func Parse(env *typeterm.Env, s string) (t typeterm.Ty, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()
	p := &parser{env: env, lex: &lexer{src: s}}
	p.advance()
	result := p.parseType()
	if p.tok.kind != tokEOF {
		return typeterm.Ty{}, &ParseError{Offset: p.tok.offset, Message: "unexpected trailing input"}
	}
	return result, nil
}

func (p *parser) parseType() typeterm.Ty {
	left := p.parseSum()
	if p.tok.kind == tokArrow {
		p.advance()
		right := p.parseType()
		return p.env.NewArrow(left, right)
	}
	return left
}

func (p *parser) parseSum() typeterm.Ty {
	elems := []typeterm.Ty{p.parsePostfix()}
	for p.tok.kind == tokStar {
		p.advance()
		elems = append(elems, p.parsePostfix())
	}
	if len(elems) == 1 {
		return elems[0]
	}
	return p.env.NewTuple(elems)
}

func (p *parser) parsePostfix() typeterm.Ty {
	t := p.parseAtom()
	for p.tok.kind == tokIdent {
		name := p.tok.text
		p.advance()
		t = p.env.NewConstr(path.Parse(name), []typeterm.Ty{t})
	}
	return t
}

// Render renders t back into the surface syntax Parse accepts, using env's
// variable registry for display names. It is not guaranteed to round-trip
// byte-for-byte through Parse (e.g. postfix constructor sugar is not
// reintroduced), only to produce a valid, re-parseable rendering.
func Render(env *typeterm.Env, t typeterm.Ty) string {
	if !t.Valid() {
		return ""
	}
	var b strings.Builder
	render(&b, env, t, 0)
	return b.String()
}

// prec tracks the minimal binding power required of the child being
// rendered so parentheses are added only where necessary: 0 where tuples
// and arrows need no parentheses (top level, a constructor argument, an
// arrow's return), and 1 or more where they are parenthesized (a tuple
// element or an arrow argument, which are rendered with 2).
func render(b *strings.Builder, env *typeterm.Env, t typeterm.Ty, prec int) {
	switch t.Kind() {
	case typeterm.KindVar:
		// Generated names already carry the leading tick; names recorded
		// by Parse do not.
		name := env.Vars.Name(t.Var())
		if !strings.HasPrefix(name, "'") {
			b.WriteByte('\'')
		}
		b.WriteString(name)
	case typeterm.KindOther:
		fmt.Fprintf(b, "<opaque:%x>", t.OtherHash())
	case typeterm.KindConstr:
		args := t.ConstrArgs()
		name := t.ConstrPath().String()
		if len(args) == 0 {
			b.WriteString(name)
			return
		}
		b.WriteString(name)
		b.WriteByte('(')
		for i, a := range args {
			if i > 0 {
				b.WriteString(", ")
			}
			render(b, env, a, 0)
		}
		b.WriteByte(')')
	case typeterm.KindTuple:
		open := prec >= 1
		if open {
			b.WriteByte('(')
		}
		for i, e := range t.TupleElems() {
			if i > 0 {
				b.WriteString(" * ")
			}
			render(b, env, e, 2)
		}
		if open {
			b.WriteByte(')')
		}
	case typeterm.KindArrow:
		open := prec >= 1
		if open {
			b.WriteByte('(')
		}
		for i, a := range t.ArrowArgs() {
			if i > 0 {
				b.WriteString(" * ")
			}
			render(b, env, a, 2)
		}
		b.WriteString(" -> ")
		render(b, env, t.ArrowReturn(), 0)
		if open {
			b.WriteByte(')')
		}
	}
}

func (p *parser) parseAtom() typeterm.Ty {
	switch p.tok.kind {
	case tokTick:
		p.advance()
		name := p.expect(tokIdent, "variable name after '").text
		return p.namedVar(name)
	case tokLParen:
		p.advance()
		elems := []typeterm.Ty{p.parseType()}
		for p.tok.kind == tokComma {
			p.advance()
			elems = append(elems, p.parseType())
		}
		p.expect(tokRParen, "closing ')'")
		if len(elems) == 1 {
			// Could still be a constructor call's argument list handled by
			// the caller, or a plain parenthesized grouping.
			return elems[0]
		}
		return p.env.NewTuple(elems)
	case tokIdent:
		name := p.tok.text
		p.advance()
		if p.tok.kind == tokLParen {
			p.advance()
			args := []typeterm.Ty{p.parseType()}
			for p.tok.kind == tokComma {
				p.advance()
				args = append(args, p.parseType())
			}
			p.expect(tokRParen, "closing ')'")
			return p.env.NewConstr(path.Parse(name), args)
		}
		return p.env.NewConstr(path.Parse(name), nil)
	default:
		panic(&ParseError{Offset: p.tok.offset, Message: "expected a type"})
	}
}
