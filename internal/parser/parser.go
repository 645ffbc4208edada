// Package parser is the hand-written recursive-descent parser of spec.md
// §4.4: it turns a token.Token stream from internal/lexer into an
// internal/ast tree, following sentra's internal/parser/parser.go shape
// (a Parser struct holding the token slice and a cursor, statement
// dispatch by keyword match, a Pratt-style climb for expressions) but
// generalized to Rossa's richer grammar — multiple-dispatch def
// signatures, class declarations, try/catch, switch/of, and the `..`/`<>`
// range operators.
package parser

import (
	"fmt"

	"rossa/internal/ast"
	"rossa/internal/eval"
	"rossa/internal/extern"
	"rossa/internal/intern"
	"rossa/internal/lexer"
	"rossa/internal/token"
)

func init() {
	eval.CompileSource = compileSource
}

// compileSource lexes, parses, and folds src into a single Instruction,
// the implementation behind the `parse(s)` reserved call and the Parse
// instruction of spec.md §4.5.
func compileSource(env *eval.Env, src, file string) (eval.Instruction, error) {
	prog, err := Parse(src, file, env)
	if err != nil {
		return nil, err
	}
	return prog.Generate(env)
}

// Parser walks a fixed token slice built by internal/lexer, producing
// internal/ast nodes. env carries the identifier interner and extension
// registry needed by a handful of productions (extern declarations,
// literal-pattern def parameters) at parse time rather than generate
// time.
type Parser struct {
	toks []token.Token
	pos  int
	file string
	env  *eval.Env
}

// New builds a Parser over an already-scanned token slice.
func New(toks []token.Token, file string, env *eval.Env) *Parser {
	return &Parser{toks: toks, file: file, env: env}
}

// Parse lexes, parses, and constant-folds src into a *ast.Program.
func Parse(src, file string, env *eval.Env) (*ast.Program, error) {
	toks, err := lexer.New(src, file).Scan()
	if err != nil {
		return nil, err
	}
	p := New(toks, file, env)
	return p.ParseProgram()
}

// ParseProgram parses the whole token stream as a sequence of top-level
// statements (spec.md §4.4: "Program ::= sequence of top-level
// statements"), folding each as it's produced.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	at := p.cur()
	var stmts []ast.Node
	for !p.atEnd() {
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, ast.Fold(p.env, st))
	}
	return &ast.Program{At: at, Stmts: stmts}, nil
}

// --- token-stream primitives ---

func (p *Parser) atEnd() bool { return p.cur().Kind == token.EOF }

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *Parser) prev() token.Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.cur().Kind == k }

// checkOp reports whether the current token is an Op with exactly text.
func (p *Parser) checkOp(text string) bool {
	return p.cur().Kind == token.Op && p.cur().Text == text
}

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchOp(text string) bool {
	if p.checkOp(text) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind, what string) (token.Token, error) {
	if p.check(k) {
		return p.advance(), nil
	}
	return token.Token{}, p.errf("expected %s, got %s", what, p.cur())
}

func (p *Parser) expectOp(text string) (token.Token, error) {
	if p.checkOp(text) {
		return p.advance(), nil
	}
	return token.Token{}, p.errf("expected %q, got %s", text, p.cur())
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return fmt.Errorf("parse error at %s:%d: %s", p.file, p.cur().Line, fmt.Sprintf(format, args...))
}

// hash interns name through the shared table, the same handle the
// evaluator will see for any matching identifier at runtime.
func (p *Parser) hash(name string) int { return p.env.Interner.Hash(name) }

// consumeAngleClose consumes one closing `>` of a generic signature's
// `Function<...>` qualifier list. The lexer's maximal-munch scanning
// tokenizes a run of closing angles like `>>` or `>=` as a single Op
// token (spec.md §4.3: "Multi-character `<>` in signature contexts is
// split into two angle tokens"), so a nested `Function<Function<Number>>`
// needs its last token's text peeled one character at a time rather than
// consumed whole.
func (p *Parser) consumeAngleClose() error {
	t := p.cur()
	if t.Kind != token.Op || len(t.Text) == 0 || t.Text[0] != '>' {
		return p.errf("expected '>', got %s", t)
	}
	if len(t.Text) == 1 {
		p.advance()
		return nil
	}
	p.toks[p.pos].Text = t.Text[1:]
	return nil
}

// newEnv is a convenience for hosts that only need an Env for parsing
// (no extern registrations yet pending).
func newEnv(interner *intern.Table, registry *extern.Registry) *eval.Env {
	return &eval.Env{Interner: interner, Registry: registry}
}
