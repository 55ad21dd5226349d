// filter.go: per-sink filter expression compiler (§6).
//
// Grammar: comparisons (`>=, <=, =, /=`) between a decorator/field name and
// a literal, combined with `and`, `or`, `not`, parentheses, and function
// calls `fn_name(args)`. Compiles once, at configuration time, to a
// closure over Composed — never re-parsed on the hot path (§6, §4.6).
//
// Grounded on the teacher's sampling.go-style small DSL-free predicate
// structs; the teacher has nothing resembling a text expression compiler,
// so the tokenizer/parser here is built fresh in the idiom of a small
// hand-written recursive-descent parser, the common Go approach for
// compiling a tiny DSL (as seen in text/template and similar stdlib-style
// tools the wider ecosystem imitates).
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agilira/go-errors"
)

// FilterFunc is a compiled per-sink filter predicate (§6).
type FilterFunc func(Composed) bool

// builtinFilterFuncs are the fn_name(args) forms a filter expression may
// call (§6 "fn_name(args)").
var builtinFilterFuncs = map[string]func(args []string) FilterFunc{
	"contains": func(args []string) FilterFunc {
		if len(args) != 2 {
			return func(Composed) bool { return false }
		}
		key, needle := args[0], args[1]
		return func(c Composed) bool {
			f, ok := c.Get(key)
			return ok && strings.Contains(fieldToString(f), needle)
		}
	},
	"has": func(args []string) FilterFunc {
		if len(args) != 1 {
			return func(Composed) bool { return false }
		}
		key := args[0]
		return func(c Composed) bool {
			_, ok := c.Get(key)
			return ok
		}
	},
}

type filterTokenKind int

const (
	tokIdent filterTokenKind = iota
	tokString
	tokNumber
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type filterToken struct {
	kind filterTokenKind
	text string
}

func tokenizeFilter(src string) ([]filterToken, error) {
	var toks []filterToken
	i, n := 0, len(src)
	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, filterToken{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, filterToken{tokRParen, ")"})
			i++
		case c == ',':
			toks = append(toks, filterToken{tokComma, ","})
			i++
		case c == '"':
			j := i + 1
			for j < n && src[j] != '"' {
				j++
			}
			if j >= n {
				return nil, errors.New(ErrCodeFilterCompile, "ignite: unterminated string in filter expression")
			}
			toks = append(toks, filterToken{tokString, src[i+1 : j]})
			i = j + 1
		case c == '>' || c == '<' || c == '=':
			if i+1 < n && src[i+1] == '=' {
				toks = append(toks, filterToken{tokOp, src[i : i+2]})
				i += 2
			} else {
				toks = append(toks, filterToken{tokOp, src[i : i+1]})
				i++
			}
		case c == '/' && i+1 < n && src[i+1] == '=':
			toks = append(toks, filterToken{tokOp, "/="})
			i += 2
		case isIdentStart(c):
			j := i + 1
			for j < n && isIdentPart(src[j]) {
				j++
			}
			toks = append(toks, filterToken{tokIdent, src[i:j]})
			i = j
		case isDigit(c):
			j := i + 1
			for j < n && (isDigit(src[j]) || src[j] == '.') {
				j++
			}
			toks = append(toks, filterToken{tokNumber, src[i:j]})
			i = j
		default:
			return nil, errors.New(ErrCodeFilterCompile, fmt.Sprintf("ignite: unexpected character %q in filter expression", c))
		}
	}
	toks = append(toks, filterToken{tokEOF, ""})
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
func isDigit(c byte) bool     { return c >= '0' && c <= '9' }

type filterParser struct {
	toks []filterToken
	pos  int
}

func (p *filterParser) peek() filterToken { return p.toks[p.pos] }
func (p *filterParser) next() filterToken {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// CompileFilter parses and compiles expr into a FilterFunc (§6). An empty
// expr always accepts.
func CompileFilter(expr string) (FilterFunc, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return func(Composed) bool { return true }, nil
	}
	toks, err := tokenizeFilter(expr)
	if err != nil {
		return nil, err
	}
	p := &filterParser{toks: toks}
	fn, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, errors.New(ErrCodeFilterCompile, fmt.Sprintf("ignite: unexpected trailing token %q in filter expression", p.peek().text))
	}
	return fn, nil
}

func (p *filterParser) parseOr() (FilterFunc, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokIdent && strings.EqualFold(p.peek().text, "or") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l := left
		left = func(c Composed) bool { return l(c) || right(c) }
	}
	return left, nil
}

func (p *filterParser) parseAnd() (FilterFunc, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokIdent && strings.EqualFold(p.peek().text, "and") {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		l := left
		left = func(c Composed) bool { return l(c) && right(c) }
	}
	return left, nil
}

func (p *filterParser) parseNot() (FilterFunc, error) {
	if p.peek().kind == tokIdent && strings.EqualFold(p.peek().text, "not") {
		p.next()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return func(c Composed) bool { return !inner(c) }, nil
	}
	return p.parsePrimary()
}

func (p *filterParser) parsePrimary() (FilterFunc, error) {
	if p.peek().kind == tokLParen {
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, errors.New(ErrCodeFilterCompile, "ignite: missing closing parenthesis in filter expression")
		}
		p.next()
		return inner, nil
	}

	if p.peek().kind != tokIdent {
		return nil, errors.New(ErrCodeFilterCompile, fmt.Sprintf("ignite: expected identifier, got %q", p.peek().text))
	}
	name := p.next().text

	if p.peek().kind == tokLParen {
		p.next()
		var args []string
		for p.peek().kind != tokRParen {
			tok := p.next()
			args = append(args, tok.text)
			if p.peek().kind == tokComma {
				p.next()
			}
		}
		p.next() // consume ')'
		builder, ok := builtinFilterFuncs[strings.ToLower(name)]
		if !ok {
			return nil, errors.New(ErrCodeFilterCompile, fmt.Sprintf("ignite: unknown filter function %q", name))
		}
		return builder(args), nil
	}

	if p.peek().kind != tokOp {
		return nil, errors.New(ErrCodeFilterCompile, fmt.Sprintf("ignite: expected comparison operator after %q", name))
	}
	op := p.next().text
	if p.peek().kind != tokString && p.peek().kind != tokNumber && p.peek().kind != tokIdent {
		return nil, errors.New(ErrCodeFilterCompile, "ignite: expected literal after comparison operator")
	}
	litTok := p.next()

	field := name
	return func(c Composed) bool {
		f, ok := c.Get(field)
		if !ok {
			return false
		}
		return compareField(f, op, litTok)
	}, nil
}

func compareField(f Field, op string, lit filterToken) bool {
	switch f.Kind() {
	case kindI64, kindInstant:
		n, err := strconv.ParseInt(lit.text, 10, 64)
		if err != nil {
			return false
		}
		return compareOrdered(f.IntValue(), n, op)
	case kindF64:
		n, err := strconv.ParseFloat(lit.text, 64)
		if err != nil {
			return false
		}
		return compareOrdered(f.FloatValue(), n, op)
	case kindBool:
		b, err := strconv.ParseBool(lit.text)
		if err != nil {
			return false
		}
		return compareEquality(f.BoolValue(), b, op)
	default:
		// string-ish comparison: also handles severity names ("warning")
		// and bare identifiers used as literals.
		if sev, err := ParseSeverity(lit.text); err == nil {
			if s2, err2 := ParseSeverity(f.StringValue()); err2 == nil {
				return compareOrdered(int64(s2), int64(sev), op)
			}
		}
		return compareEquality(f.StringValue(), lit.text, op)
	}
}

func compareOrdered[T int64 | float64](a, b T, op string) bool {
	switch op {
	case "=":
		return a == b
	case "/=":
		return a != b
	case ">=":
		return a >= b
	case "<=":
		return a <= b
	default:
		return false
	}
}

func compareEquality[T comparable](a, b T, op string) bool {
	switch op {
	case "=":
		return a == b
	case "/=":
		return a != b
	default:
		return false
	}
}
