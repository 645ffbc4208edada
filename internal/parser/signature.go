package parser

import (
	"rossa/internal/ast"
	"rossa/internal/token"
	"rossa/internal/value"
)

// parseTypeKind reads one type-name token — a builtin keyword (Number,
// String, ...) or a bare identifier naming a user class — and returns the
// value.Kind it denotes. A class name's Kind is its interned-name hash,
// the same positive-Kind convention value.Score relies on (spec.md §3.5).
func (p *Parser) parseTypeKind() (value.Kind, error) {
	t := p.cur()
	switch t.Kind {
	case token.TypeNumber:
		p.advance()
		return value.KindNumber, nil
	case token.TypeString:
		p.advance()
		return value.KindString, nil
	case token.TypeBoolean:
		p.advance()
		return value.KindBoolean, nil
	case token.TypeArray:
		p.advance()
		return value.KindArray, nil
	case token.TypeDictionary:
		p.advance()
		return value.KindDictionary, nil
	case token.TypeObject:
		p.advance()
		return value.KindObject, nil
	case token.TypeFunction:
		p.advance()
		return value.KindFunction, nil
	case token.TypeTypeName:
		p.advance()
		return value.KindType, nil
	case token.TypePointer:
		p.advance()
		return value.KindPointer, nil
	case token.TypeNil:
		p.advance()
		return value.KindNil, nil
	case token.TypeAny:
		p.advance()
		return value.KindAny, nil
	case token.Ident:
		p.advance()
		return value.Kind(p.hash(t.Text)), nil
	default:
		return 0, p.errf("expected a type name, got %s", t)
	}
}

// parseParamType reads a possibly-qualified type annotation, e.g. `Number`
// or `Function<Number, Any>` (spec.md §3.5). Qualifiers recurse through
// the same production; consumeAngleClose handles a closing `>` that the
// lexer folded into a longer operator spelling like `>>`.
func (p *Parser) parseParamType() (value.ParamType, error) {
	kind, err := p.parseTypeKind()
	if err != nil {
		return value.ParamType{}, err
	}
	pt := value.ParamType{Base: kind}
	if p.checkOp("<") {
		p.advance()
		for {
			q, err := p.parseParamType()
			if err != nil {
				return value.ParamType{}, err
			}
			pt.Qualifiers = append(pt.Qualifiers, q)
			if p.match(token.Comma) {
				continue
			}
			break
		}
		if err := p.consumeAngleClose(); err != nil {
			return value.ParamType{}, err
		}
	}
	return pt, nil
}

// parseParamList parses `(` params `)`, returning the params and whether
// the last one was a `...name` vararg binder (spec.md §4.4).
func (p *Parser) parseParamList() ([]ast.ParamNode, bool, error) {
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return nil, false, err
	}
	var params []ast.ParamNode
	vararg := false
	if !p.check(token.RParen) {
		for {
			pn, isVararg, err := p.parseParam()
			if err != nil {
				return nil, false, err
			}
			params = append(params, pn)
			if isVararg {
				vararg = true
				break
			}
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, false, err
	}
	return params, vararg, nil
}

// parseParam parses one formal parameter: a vararg binder, a literal
// dispatch guard (spec.md §8.4 S1's `def fib(0) -> 0;`), or an ordinary
// `[ref] name [: Type]`.
func (p *Parser) parseParam() (ast.ParamNode, bool, error) {
	if p.checkOp("...") {
		p.advance()
		nameTok, err := p.expect(token.Ident, "vararg parameter name")
		if err != nil {
			return ast.ParamNode{}, false, err
		}
		typ := value.AnyType
		if p.match(token.Colon) {
			t, err := p.parseParamType()
			if err != nil {
				return ast.ParamNode{}, false, err
			}
			typ = t
		}
		return ast.ParamNode{Name: p.hash(nameTok.Text), Mode: value.ByValue, Type: typ}, true, nil
	}

	if pn, ok, err := p.tryParseLiteralParam(); err != nil {
		return ast.ParamNode{}, false, err
	} else if ok {
		return pn, false, nil
	}

	mode := value.ByValue
	if p.match(token.KwRef) {
		mode = value.ByRef
	}
	nameTok, err := p.expect(token.Ident, "parameter name")
	if err != nil {
		return ast.ParamNode{}, false, err
	}
	typ := value.AnyType
	if p.match(token.Colon) {
		t, err := p.parseParamType()
		if err != nil {
			return ast.ParamNode{}, false, err
		}
		typ = t
	}
	return ast.ParamNode{Name: p.hash(nameTok.Text), Mode: mode, Type: typ}, false, nil
}

// literalParamName is the synthetic binder name for a literal-guarded
// parameter position: nothing in the body can read it by name, since it
// has none in the source, so every literal param shares one throwaway
// handle.
func (p *Parser) literalParamName() int { return p.hash(" literal") }

func (p *Parser) tryParseLiteralParam() (ast.ParamNode, bool, error) {
	t := p.cur()
	var v value.Value
	switch t.Kind {
	case token.Number:
		v = value.Num(t.Num)
	case token.String:
		v = value.Str(t.Text)
	case token.KwTrue:
		v = value.Bool(true)
	case token.KwFalse:
		v = value.Bool(false)
	case token.KwNil:
		v = value.Nil
	default:
		return ast.ParamNode{}, false, nil
	}
	p.advance()
	return ast.ParamNode{Name: p.literalParamName(), Mode: value.ByValue, Type: value.ParamType{Literal: &v}}, true, nil
}
