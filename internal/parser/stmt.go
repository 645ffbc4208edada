package parser

import (
	"rossa/internal/ast"
	"rossa/internal/token"
	"rossa/internal/value"
)

// compoundOps maps a compound-assignment operator spelling to the plain
// binary operator it desugars into: `x += y` becomes `x = x + y`
// (spec.md §4.3's `=`/compound-assignment row).
var compoundOps = map[string]string{
	"+=": "+", "-=": "-", "*=": "*", "/=": "/", "%=": "%",
	"&=": "&", "|=": "|", "^=": "^", "<<=": "<<", ">>=": ">>",
	"&&=": "&&", "||=": "||", "**=": "**", "//=": "//",
}

func (p *Parser) consumeSemi() error {
	_, err := p.expect(token.Semi, "';'")
	return err
}

// parseStatement dispatches on the current token's keyword, falling back
// to assignment/expression-statement parsing otherwise (spec.md §4.4).
func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.cur().Kind {
	case token.KwLoad:
		return p.parseLoad()
	case token.KwDef:
		return p.parseDef()
	case token.KwVar:
		return p.parseVarDecl(false)
	case token.KwConst:
		return p.parseVarDecl(true)
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseForOrUntil()
	case token.KwExtern:
		return p.parseExtern()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwTry:
		return p.parseTry()
	case token.KwStruct, token.KwStatic, token.KwVirtual:
		return p.parseClassDecl()
	case token.KwThrow:
		return p.parseThrow()
	case token.KwBreak:
		return p.parseBreak()
	case token.KwContinue:
		at := p.advance()
		if err := p.consumeSemi(); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{At: at}, nil
	case token.KwReturn:
		return p.parseReturn()
	case token.KwRefer:
		return p.parseRefer()
	default:
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseLoad() (ast.Node, error) {
	at := p.advance()
	pathTok, err := p.expect(token.String, "module path string")
	if err != nil {
		return nil, err
	}
	if err := p.consumeSemi(); err != nil {
		return nil, err
	}
	return &ast.LoadStmt{At: at, Path: pathTok.Text}, nil
}

// parseDef is a top-level or class-body `def name(params) { body }` or
// its `-> expr;` arrow shorthand (spec.md §8.4 S1/S2).
func (p *Parser) parseDef() (ast.Node, error) {
	at := p.advance() // 'def'
	nameTok, err := p.expect(token.Ident, "function name")
	if err != nil {
		return nil, err
	}
	params, vararg, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	arrow := p.checkOp("->")
	body, err := p.parseFuncBody()
	if err != nil {
		return nil, err
	}
	if arrow {
		if err := p.consumeSemi(); err != nil {
			return nil, err
		}
	}
	nameHash := p.hash(nameTok.Text)
	lit := &ast.FuncLitNode{
		At:           at,
		NameHash:     nameHash,
		Params:       params,
		Body:         body,
		IsVararg:     vararg,
		CaptureNames: freeVariables(body, params),
	}
	return &ast.DefStmt{At: at, Name: nameHash, Lit: lit}, nil
}

// parseVarDecl is `var a, b=1, c;`. `const` (without a `var` keyword) is
// spelled with `:=` after a bare name instead (handled in
// parseSimpleStatement); KwConst here covers `const a = 1, b = 2;` as
// the explicit-keyword form of the same thing.
func (p *Parser) parseVarDecl(isConst bool) (ast.Node, error) {
	at := p.advance() // 'var' or 'const'
	var names []int
	var inits []ast.Node
	for {
		nameTok, err := p.expect(token.Ident, "variable name")
		if err != nil {
			return nil, err
		}
		names = append(names, p.hash(nameTok.Text))
		if p.matchOp("=") {
			init, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			inits = append(inits, init)
		} else {
			inits = append(inits, nil)
		}
		if !p.match(token.Comma) {
			break
		}
	}
	if err := p.consumeSemi(); err != nil {
		return nil, err
	}
	return &ast.DeclStmt{At: at, Names: names, Inits: inits, Const: isConst}, nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	at := p.advance() // 'if'
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els ast.Node
	switch p.cur().Kind {
	case token.KwElif:
		els, err = p.parseElif()
		if err != nil {
			return nil, err
		}
	case token.KwElse:
		p.advance()
		els, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{At: at, Cond: cond, Then: then, Else: els}, nil
}

// parseElif parses a chained `elif cond { } ...` as a nested IfStmt, the
// way `if`'s own Else slot represents an `else` branch.
func (p *Parser) parseElif() (ast.Node, error) {
	at := p.advance() // 'elif'
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els ast.Node
	switch p.cur().Kind {
	case token.KwElif:
		els, err = p.parseElif()
		if err != nil {
			return nil, err
		}
	case token.KwElse:
		p.advance()
		els, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{At: at, Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	at := p.advance() // 'while'
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{At: at, Cond: cond, Body: body}, nil
}

// parseForOrUntil is `for name in iterable { body }` or the range-loop
// form `for name in from..to[:step] { body }` / `from<>to[:step]`
// (spec.md §4.7, §8.4 S5). Both share the `for NAME in` prefix; which
// node results depends on whether a range operator follows.
func (p *Parser) parseForOrUntil() (ast.Node, error) {
	at := p.advance() // 'for'
	nameTok, err := p.expect(token.Ident, "loop variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwIn, "'in'"); err != nil {
		return nil, err
	}
	nameHash := p.hash(nameTok.Text)
	first, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.checkOp("..") || p.checkOp("<>") {
		inclusive := p.checkOp("<>")
		p.advance()
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
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.UntilStmt{At: at, Name: nameHash, From: first, To: to, Step: step, Inclusive: inclusive, Body: body}, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForInStmt{At: at, Name: nameHash, Iterable: first, Body: body}, nil
}

// parseExtern is `extern name in "lib";` (spec.md §6.2): the extern's
// implementation function name inside the library defaults to the
// declared name itself.
func (p *Parser) parseExtern() (ast.Node, error) {
	at := p.advance() // 'extern'
	nameTok, err := p.expect(token.Ident, "extern function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwIn, "'in'"); err != nil {
		return nil, err
	}
	libTok, err := p.expect(token.String, "library name string")
	if err != nil {
		return nil, err
	}
	if err := p.consumeSemi(); err != nil {
		return nil, err
	}
	return &ast.ExternDecl{At: at, Name: p.hash(nameTok.Text), Lib: libTok.Text, Fn: nameTok.Text}, nil
}

// parseSwitch is `switch subject of { case v: body ... } [else { body }]`
// (spec.md §8.4 S4: `of`, no `default` keyword — the fallback branch
// reuses `else`).
func (p *Parser) parseSwitch() (ast.Node, error) {
	at := p.advance() // 'switch'
	subject, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwOf, "'of'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace, "'{'"); err != nil {
		return nil, err
	}
	var cases []ast.SwitchCaseNode
	for p.check(token.KwCase) {
		p.advance()
		match, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon, "':'"); err != nil {
			return nil, err
		}
		body, err := p.parseCaseBody()
		if err != nil {
			return nil, err
		}
		cases = append(cases, ast.SwitchCaseNode{Match: match, Body: body})
	}
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return nil, err
	}
	var def ast.Node
	if p.check(token.KwElse) {
		p.advance()
		def, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.SwitchStmt{At: at, Subject: subject, Cases: cases, Default: def}, nil
}

// parseCaseBody collects statements up to the next `case`/`else`/closing
// brace, the way a C-style switch case body runs without its own braces.
func (p *Parser) parseCaseBody() (*ast.SeqStmt, error) {
	at := p.cur()
	var stmts []ast.Node
	for !p.check(token.KwCase) && !p.check(token.KwElse) && !p.check(token.RBrace) && !p.atEnd() {
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, ast.Fold(p.env, st))
	}
	return &ast.SeqStmt{At: at, Stmts: stmts}, nil
}

// parseTry is `try { body } catch name then { catchBody } [finally { }]`
// (spec.md §8.4 S4: no parens around the binding name, explicit `then`).
func (p *Parser) parseTry() (ast.Node, error) {
	at := p.advance() // 'try'
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwCatch, "'catch'"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.Ident, "catch binding name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwThen, "'then'"); err != nil {
		return nil, err
	}
	catchBody, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var fin ast.Node
	if p.matchIdentKeyword("finally") {
		fin, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.TryStmt{At: at, Body: body, CatchName: p.hash(nameTok.Text), CatchBody: catchBody, Finally: fin}, nil
}

// matchIdentKeyword consumes the current token if it is an identifier
// spelled exactly text; `finally` has no reserved token of its own, so it
// is recognized this way rather than adding a keyword the rest of the
// grammar never needs.
func (p *Parser) matchIdentKeyword(text string) bool {
	if p.check(token.Ident) && p.cur().Text == text {
		p.advance()
		return true
	}
	return false
}

// parseClassDecl is `struct|static|virtual Name [: Base1, Base2] { body }`
// (spec.md §3.3, §8.4 S3). The class body is parsed as a flat SeqStmt,
// not a BlockStmt, since eval.ClassDecl runs Body directly against the
// class's own Scope rather than a nested child scope.
func (p *Parser) parseClassDecl() (ast.Node, error) {
	at := p.advance()
	var kind value.ScopeKind
	switch at.Kind {
	case token.KwStruct:
		kind = value.Struct
	case token.KwStatic:
		kind = value.Static
	case token.KwVirtual:
		kind = value.Virtual
	}
	nameTok, err := p.expect(token.Ident, "class name")
	if err != nil {
		return nil, err
	}
	var bases []ast.Node
	if p.match(token.Colon) {
		for {
			baseTok, err := p.expect(token.Ident, "base class name")
			if err != nil {
				return nil, err
			}
			bases = append(bases, &ast.Ident{At: baseTok, Name: p.hash(baseTok.Text)})
			if !p.match(token.Comma) {
				break
			}
		}
	}
	body, err := p.parseSeqBlock()
	if err != nil {
		return nil, err
	}
	nameHash := p.hash(nameTok.Text)
	return &ast.ClassDeclNode{At: at, Name: nameHash, ClassHash: nameHash, Kind: kind, Bases: bases, Body: body}, nil
}

func (p *Parser) parseThrow() (ast.Node, error) {
	at := p.advance()
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeSemi(); err != nil {
		return nil, err
	}
	return &ast.ThrowStmt{At: at, Val: val}, nil
}

func (p *Parser) parseBreak() (ast.Node, error) {
	at := p.advance()
	var val ast.Node
	if !p.check(token.Semi) {
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		val = v
	}
	if err := p.consumeSemi(); err != nil {
		return nil, err
	}
	return &ast.BreakStmt{At: at, Val: val}, nil
}

func (p *Parser) parseReturn() (ast.Node, error) {
	at := p.advance()
	var val ast.Node
	if !p.check(token.Semi) {
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		val = v
	}
	if err := p.consumeSemi(); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{At: at, Val: val}, nil
}

func (p *Parser) parseRefer() (ast.Node, error) {
	at := p.advance()
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeSemi(); err != nil {
		return nil, err
	}
	return &ast.ReferStmt{At: at, Val: val}, nil
}

// parseSimpleStatement covers `name := expr;` declarations, every
// assignment form (plain, compound, `.=`), and bare expression
// statements (including a leading `delete target;`).
func (p *Parser) parseSimpleStatement() (ast.Node, error) {
	if p.check(token.Ident) && p.peekOp(1, ":=") {
		nameTok := p.advance()
		p.advance() // ':='
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.consumeSemi(); err != nil {
			return nil, err
		}
		return &ast.DeclStmt{At: nameTok, Names: []int{p.hash(nameTok.Text)}, Inits: []ast.Node{init}, Const: true}, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if assignOp, isAssign := p.currentAssignOp(); isAssign {
		at := p.advance()
		rhs, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if op, ok := compoundOps[assignOp]; ok {
			rhs = &ast.BinaryExpr{At: at, Op: op, OpHash: p.hash(op), Left: expr, Right: rhs}
		}
		stmt, err := p.buildAssign(at, expr, rhs)
		if err != nil {
			return nil, err
		}
		if err := p.consumeSemi(); err != nil {
			return nil, err
		}
		return stmt, nil
	}

	if err := p.consumeSemi(); err != nil {
		return nil, err
	}
	return expr, nil
}

// currentAssignOp reports whether the current token is one of `=`, `.=`,
// or a compound-assignment spelling, returning its text.
func (p *Parser) currentAssignOp() (string, bool) {
	t := p.cur()
	if t.Kind != token.Op {
		return "", false
	}
	if t.Text == "=" || t.Text == ".=" {
		return t.Text, true
	}
	if _, ok := compoundOps[t.Text]; ok {
		return t.Text, true
	}
	return "", false
}

// buildAssign turns a parsed lvalue expression plus an already-built rhs
// into the matching Set*Stmt (spec.md §4.4). `.=` is a plain alias for
// `=`, kept as a distinct spelling for the fluent/chained-call style some
// Rossa sources use.
func (p *Parser) buildAssign(at token.Token, lhs ast.Node, rhs ast.Node) (ast.Node, error) {
	switch t := lhs.(type) {
	case *ast.Ident:
		return &ast.SetStmt{At: at, Name: t.Name, Rhs: rhs}, nil
	case *ast.IndexExpr:
		return &ast.SetIndexStmt{At: at, Container: t.Container, Key: t.Key, Rhs: rhs}, nil
	case *ast.InnerExpr:
		return &ast.SetInnerStmt{At: at, Target: t.Target, Member: t.Member, Rhs: rhs}, nil
	default:
		return nil, p.errf("invalid assignment target")
	}
}

// peekOp reports whether the token offset ahead of the current position
// is an Op with exactly text, without consuming anything.
func (p *Parser) peekOp(offset int, text string) bool {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return false
	}
	t := p.toks[idx]
	return t.Kind == token.Op && t.Text == text
}
