package parser

import (
	"math"

	"rossa/internal/ast"
	"rossa/internal/intern"
	"rossa/internal/rnumber"
	"rossa/internal/token"
	"rossa/internal/value"
)

// parseExpression is the entry point for any expression context, at the
// loosest precedence level: `delete` (spec.md §4.3, prec 1).
func (p *Parser) parseExpression() (ast.Node, error) {
	return p.parseDelete()
}

func (p *Parser) parseDelete() (ast.Node, error) {
	if p.check(token.KwDelete) {
		at := p.advance()
		target, err := p.parseDelete()
		if err != nil {
			return nil, err
		}
		return &ast.DeleteExpr{At: at, Target: target}, nil
	}
	return p.parseTernary()
}

// parseTernary is `cond ? then : else`, right-associative.
func (p *Parser) parseTernary() (ast.Node, error) {
	cond, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	if p.check(token.Question) {
		at := p.advance()
		then, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon, "':'"); err != nil {
			return nil, err
		}
		els, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return &ast.TernaryExpr{At: at, Cond: cond, Then: then, Else: els}, nil
	}
	return cond, nil
}

// parseRange special-cases `..`/`<>` rather than sitting in the ordinary
// binary-precedence chain (spec.md §4.3: range operators are deliberately
// absent from the precedence table), with an optional `:`-separated step
// (spec.md §8.4 S5).
func (p *Parser) parseRange() (ast.Node, error) {
	from, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.checkOp("..") || p.checkOp("<>") {
		inclusive := p.checkOp("<>")
		at := p.advance()
		to, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		var step ast.Node
		if p.match(token.Colon) {
			step, err = p.parseOr()
			if err != nil {
				return nil, err
			}
		}
		return &ast.RangeExpr{At: at, From: from, To: to, Step: step, Inclusive: inclusive}, nil
	}
	return from, nil
}

// parseBinaryLevel is the shared left-associative binary-operator climber:
// it parses one operand via next, then keeps consuming same-level
// operators (one of ops) and right operands.
func (p *Parser) parseBinaryLevel(next func() (ast.Node, error), ops ...string) (ast.Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		matched := ""
		for _, op := range ops {
			if p.checkOp(op) {
				matched = op
				break
			}
		}
		if matched == "" {
			return left, nil
		}
		at := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{At: at, Op: matched, OpHash: p.hash(matched), Left: left, Right: right}
	}
}

func (p *Parser) parseOr() (ast.Node, error)  { return p.parseBinaryLevel(p.parseAnd, "||") }
func (p *Parser) parseAnd() (ast.Node, error) { return p.parseBinaryLevel(p.parseBitOr, "&&") }
func (p *Parser) parseBitOr() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseBitXor, "|")
}
func (p *Parser) parseBitXor() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseBitAnd, "^")
}
func (p *Parser) parseBitAnd() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseEquality, "&")
}
func (p *Parser) parseEquality() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseComparison, "==", "===", "!=", "!==")
}
func (p *Parser) parseComparison() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseShift, "<", ">", "<=", ">=")
}
func (p *Parser) parseShift() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseAdditive, "<<", ">>")
}
func (p *Parser) parseAdditive() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseMultiplicative, "+", "++", "-")
}
func (p *Parser) parseMultiplicative() (ast.Node, error) {
	return p.parseBinaryLevel(p.parsePow, "*", "/", "//", "%")
}

// parsePow is `**`, right-associative (spec.md §4.3).
func (p *Parser) parsePow() (ast.Node, error) {
	left, err := p.parseCast()
	if err != nil {
		return nil, err
	}
	if p.checkOp("**") {
		at := p.advance()
		right, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{At: at, Op: "**", OpHash: p.hash("**"), Left: left, Right: right}, nil
	}
	return left, nil
}

// parseCast is `expr -> Type`, left-associative and chainable
// (`x -> Number -> String`); the right-hand side is a type name, not a
// sub-expression.
func (p *Parser) parseCast() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.checkOp("->") {
		at := p.advance()
		kind, err := p.parseTypeKind()
		if err != nil {
			return nil, err
		}
		left = &ast.CastExpr{At: at, Src: left, Target: kind}
	}
	return left, nil
}

// parseUnary is the prefix `- ! ~ @` family (spec.md §4.3: unary operators
// bind tighter than every binary operator, including `**` and `->`). `@`
// is type-of (eval.TypeOf); the rest build a plain eval.Unary.
func (p *Parser) parseUnary() (ast.Node, error) {
	if p.check(token.At) {
		at := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.TypeOfExpr{At: at, Target: operand}, nil
	}
	if p.checkOp("-") || p.checkOp("!") || p.checkOp("~") {
		at := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{At: at, Op: at.Text, OpHash: p.hash(at.Text), Operand: operand}, nil
	}
	return p.parsePostfix()
}

// parsePostfix chains `[]`, `.member`/`.len`/`.size`, and `(...)` calls
// left to right, the tightest-binding productions of spec.md §4.3.
func (p *Parser) parsePostfix() (ast.Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(token.LBracket):
			at := p.advance()
			key, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBracket, "']'"); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{At: at, Container: expr, Key: key}
		case p.check(token.Dot):
			at := p.advance()
			name, err := p.expect(token.Ident, "member name")
			if err != nil {
				return nil, err
			}
			switch name.Text {
			case "len":
				expr = &ast.LengthExpr{At: at, Target: expr, ByteLength: false}
			case "size":
				expr = &ast.LengthExpr{At: at, Target: expr, ByteLength: true}
			default:
				h := p.hash(name.Text)
				expr = &ast.InnerExpr{At: at, Target: expr, Member: h, FallbackName: h, HasFallback: true}
			}
		case p.check(token.LParen):
			expr, err = p.parseCallArgs(expr)
			if err != nil {
				return nil, err
			}
		default:
			return expr, nil
		}
	}
}

// parseCallArgs parses `(` [ref] expr (, [ref] expr)* `)` following a
// callee already parsed.
func (p *Parser) parseCallArgs(callee ast.Node) (ast.Node, error) {
	at, err := p.expect(token.LParen, "'('")
	if err != nil {
		return nil, err
	}
	var args []ast.Node
	var byRef []bool
	if !p.check(token.RParen) {
		for {
			ref := p.match(token.KwRef)
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			byRef = append(byRef, ref)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	return &ast.CallExpr{At: at, Callee: callee, Args: args, ByRef: byRef}, nil
}

// parsePrimary parses literals, identifiers, grouping, collection
// literals, `new`, lambdas, and the reserved builtin call forms.
func (p *Parser) parsePrimary() (ast.Node, error) {
	t := p.cur()
	switch t.Kind {
	case token.Number:
		p.advance()
		return &ast.Container{At: t, Val: value.Num(t.Num)}, nil
	case token.String:
		p.advance()
		return &ast.Container{At: t, Val: value.Str(t.Text)}, nil
	case token.KwTrue:
		p.advance()
		return &ast.Container{At: t, Val: value.Bool(true)}, nil
	case token.KwFalse:
		p.advance()
		return &ast.Container{At: t, Val: value.Bool(false)}, nil
	case token.KwNil:
		p.advance()
		return &ast.Container{At: t, Val: value.Nil}, nil
	case token.KwInf:
		p.advance()
		return &ast.Container{At: t, Val: value.Num(rnumber.Float(math.Inf(1)))}, nil
	case token.KwNan:
		p.advance()
		return &ast.Container{At: t, Val: value.Num(rnumber.Float(math.NaN()))}, nil
	case token.LParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case token.LBracket:
		return p.parseArrayLit()
	case token.LBrace:
		return p.parseDictLit()
	case token.KwLambda:
		return p.parseLambda()
	case token.KwNew:
		return p.parseNew()
	case token.Op:
		if t.Text == "|>" {
			return p.parseArrowLambda()
		}
	case token.Ident:
		return p.parseIdentOrBuiltin()
	}
	return nil, p.errf("unexpected token %s", t)
}

func (p *Parser) parseArrayLit() (ast.Node, error) {
	at := p.advance() // '['
	var elems []ast.Node
	if !p.check(token.RBracket) {
		for {
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RBracket, "']'"); err != nil {
		return nil, err
	}
	return &ast.ArrayLitNode{At: at, Elems: elems}, nil
}

// parseDictLit parses `{key: value, ...}`, accepting either a bare
// identifier or a string literal as a key (spec.md §8.4 S6's unquoted
// `{name: "a", xs: [1,2,3]}`).
func (p *Parser) parseDictLit() (ast.Node, error) {
	at := p.advance() // '{'
	var keys, values []ast.Node
	if !p.check(token.RBrace) {
		for {
			kt := p.cur()
			var keyNode ast.Node
			switch kt.Kind {
			case token.Ident:
				p.advance()
				keyNode = &ast.Container{At: kt, Val: value.Str(kt.Text)}
			case token.String:
				p.advance()
				keyNode = &ast.Container{At: kt, Val: value.Str(kt.Text)}
			default:
				return nil, p.errf("expected dictionary key, got %s", kt)
			}
			if _, err := p.expect(token.Colon, "':'"); err != nil {
				return nil, err
			}
			v, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			keys = append(keys, keyNode)
			values = append(values, v)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return nil, err
	}
	return &ast.DictLitNode{At: at, Keys: keys, Values: values}, nil
}

func (p *Parser) parseNew() (ast.Node, error) {
	at := p.advance() // 'new'
	nameTok, err := p.expect(token.Ident, "class name")
	if err != nil {
		return nil, err
	}
	class := ast.Node(&ast.Ident{At: nameTok, Name: p.hash(nameTok.Text)})
	var args []ast.Node
	var byRef []bool
	if p.check(token.LParen) {
		p.advance()
		if !p.check(token.RParen) {
			for {
				ref := p.match(token.KwRef)
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				byRef = append(byRef, ref)
				if !p.match(token.Comma) {
					break
				}
			}
		}
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
	}
	return &ast.NewExpr{At: at, Class: class, Args: args, ByRef: byRef}, nil
}

// parseLambda is `lambda (params) { body }` / `lambda (params) -> expr`.
func (p *Parser) parseLambda() (ast.Node, error) {
	at := p.advance() // 'lambda'
	params, vararg, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseFuncBody()
	if err != nil {
		return nil, err
	}
	return &ast.FuncLitNode{
		At:           at,
		NameHash:     intern.LambdaHandle,
		Params:       params,
		Body:         body,
		IsVararg:     vararg,
		CaptureNames: freeVariables(body, params),
	}, nil
}

// parseArrowLambda is the `|> expr` shorthand for a zero-argument lambda
// (spec.md §4.4).
func (p *Parser) parseArrowLambda() (ast.Node, error) {
	at := p.advance() // '|>'
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.FuncLitNode{
		At:           at,
		NameHash:     intern.LambdaHandle,
		Body:         body,
		CaptureNames: freeVariables(body, nil),
	}, nil
}

// parseFuncBody is a def/lambda body: either the `-> expr` arrow
// shorthand (the bare expression node, since eval's call boundary already
// discards the Return/Casual distinction) or a `{ stmts }` block run
// directly against the call scope.
func (p *Parser) parseFuncBody() (ast.Node, error) {
	if p.matchOp("->") {
		return p.parseExpression()
	}
	return p.parseSeqBlock()
}

// parseSeqBlock parses `{ stmts }` into a flat SeqStmt (no extra child
// scope — used for function bodies and class bodies, which already run
// against their own scope).
func (p *Parser) parseSeqBlock() (*ast.SeqStmt, error) {
	at, err := p.expect(token.LBrace, "'{'")
	if err != nil {
		return nil, err
	}
	var stmts []ast.Node
	for !p.check(token.RBrace) && !p.atEnd() {
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, ast.Fold(p.env, st))
	}
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return nil, err
	}
	return &ast.SeqStmt{At: at, Stmts: stmts}, nil
}

// parseBlock parses `{ stmts }` into a BlockStmt, which runs the SeqStmt
// in a fresh child scope — used for if/while/for bodies.
func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	seq, err := p.parseSeqBlock()
	if err != nil {
		return nil, err
	}
	return &ast.BlockStmt{At: seq.At, Body: seq}, nil
}

// parseIdentOrBuiltin resolves a bare identifier into `this`, one of the
// reserved builtin call forms (alloc/charN/charS/parse/callop), or an
// ordinary Ident.
func (p *Parser) parseIdentOrBuiltin() (ast.Node, error) {
	t := p.advance()
	if t.Text == "this" {
		return &ast.This{At: t, ThisHash: value.ThisHash()}, nil
	}
	if p.check(token.LParen) {
		switch t.Text {
		case "alloc":
			p.advance()
			n, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RParen, "')'"); err != nil {
				return nil, err
			}
			return &ast.AllocExpr{At: t, N: n}, nil
		case "charN":
			p.advance()
			src, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RParen, "')'"); err != nil {
				return nil, err
			}
			return &ast.CharNExpr{At: t, Src: src}, nil
		case "charS":
			p.advance()
			src, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RParen, "')'"); err != nil {
				return nil, err
			}
			return &ast.CharSExpr{At: t, Src: src}, nil
		case "parse":
			p.advance()
			src, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RParen, "')'"); err != nil {
				return nil, err
			}
			return &ast.ParseExpr{At: t, Src: src}, nil
		case "callop":
			p.advance()
			id, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			var args []ast.Node
			for p.match(token.Comma) {
				a, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
			}
			if _, err := p.expect(token.RParen, "')'"); err != nil {
				return nil, err
			}
			return &ast.CallOpIExpr{At: t, ID: id, Args: args}, nil
		}
	}
	return &ast.Ident{At: t, Name: p.hash(t.Text)}, nil
}
