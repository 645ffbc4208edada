// Package lexer turns Rossa source text into a flat token sequence,
// following the scanning style of sentra's internal/lexer/scanner.go
// (single advance/peek/match primitives, a keyword switch on the scanned
// identifier text) generalized to Rossa's richer literal and operator
// grammar (spec.md §4.3).
package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"rossa/internal/rnumber"
	"rossa/internal/token"
)

var keywords = map[string]token.Kind{
	"if": token.KwIf, "else": token.KwElse, "elif": token.KwElif,
	"while": token.KwWhile, "for": token.KwFor, "do": token.KwDo,
	"then": token.KwThen, "in": token.KwIn, "of": token.KwOf,
	"def": token.KwDef, "return": token.KwReturn, "refer": token.KwRefer,
	"break": token.KwBreak, "continue": token.KwContinue, "throw": token.KwThrow,
	"try": token.KwTry, "catch": token.KwCatch, "switch": token.KwSwitch,
	"case": token.KwCase, "new": token.KwNew, "struct": token.KwStruct,
	"static": token.KwStatic, "virtual": token.KwVirtual, "class": token.KwClass,
	"load": token.KwLoad, "extern": token.KwExtern, "ref": token.KwRef,
	"const": token.KwConst, "var": token.KwVar, "where": token.KwWhere,
	"each": token.KwEach, "lambda": token.KwLambda, "delete": token.KwDelete,
	"true": token.KwTrue, "false": token.KwFalse, "nil": token.KwNil,
	"inf": token.KwInf, "nan": token.KwNan,

	"Number": token.TypeNumber, "String": token.TypeString,
	"Boolean": token.TypeBoolean, "Array": token.TypeArray,
	"Dictionary": token.TypeDictionary, "Object": token.TypeObject,
	"Function": token.TypeFunction, "Type": token.TypeTypeName,
	"Pointer": token.TypePointer, "Nil": token.TypeNil, "Any": token.TypeAny,
}

// multi-character operator spellings, longest first so maximal munch works
// by simple prefix scan. This is the binary/unary/compound-assignment
// table of spec.md §4.3/§4.4.
var multiCharOps = []string{
	"<<=", ">>=", "&&=", "||=", "**=", "//=",
	"===", "!==",
	"->", "**", "//", "++", "<<", ">>", "<=", ">=", "==", "!=",
	"&&", "||", "<>", "..", "|>",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", ":=", ".=",
}

var singleCharOps = "+-*/%<>=!&|^~$"

// Error is a lex-time failure (unterminated string, malformed number).
type Error struct {
	Message string
	Token   token.Token
}

func (e *Error) Error() string { return e.Message }

// Lexer scans a single source unit into a token slice.
type Lexer struct {
	file    string
	src     []rune
	lines   []string
	start   int
	current int
	line    int
	lineStartCol int
	tokens  []token.Token
}

// New creates a Lexer for source from file (used for diagnostics only).
func New(source, file string) *Lexer {
	return &Lexer{
		file:  file,
		src:   []rune(source),
		lines: strings.Split(source, "\n"),
		line:  1,
	}
}

// Scan tokenizes the whole source, returning the token slice terminated
// by an EOF token, or a lex Error on the first unterminated literal.
func (l *Lexer) Scan() ([]token.Token, error) {
	if len(l.src) >= 2 && l.src[0] == '#' && l.src[1] == '!' {
		for !l.atEnd() && l.peek() != '\n' {
			l.advance()
		}
	}
	for !l.atEnd() {
		l.skipSpaceAndComments()
		if l.atEnd() {
			break
		}
		l.start = l.current
		if err := l.scanOne(); err != nil {
			return nil, err
		}
	}
	l.tokens = append(l.tokens, l.makeToken(token.EOF, ""))
	return l.tokens, nil
}

func (l *Lexer) skipSpaceAndComments() {
	for !l.atEnd() {
		c := l.peek()
		switch {
		case c == '\n':
			l.advance()
			l.line++
		case unicode.IsSpace(c):
			l.advance()
		case c == '#':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) scanOne() error {
	c := l.advance()
	switch {
	case c == '(':
		l.emit(token.LParen, "(")
	case c == ')':
		l.emit(token.RParen, ")")
	case c == '{':
		l.emit(token.LBrace, "{")
	case c == '}':
		l.emit(token.RBrace, "}")
	case c == '[':
		l.emit(token.LBracket, "[")
	case c == ']':
		l.emit(token.RBracket, "]")
	case c == ';':
		l.emit(token.Semi, ";")
	case c == ',':
		l.emit(token.Comma, ",")
	case c == ':':
		if l.match(':') {
			l.emit(token.Op, "::")
		} else if l.match('=') {
			l.emit(token.Op, ":=")
		} else {
			l.emit(token.Colon, ":")
		}
	case c == '@':
		l.emit(token.At, "@")
	case c == '?':
		l.emit(token.Question, "?")
	case c == '"':
		return l.scanString()
	case c == '\'':
		return l.scanChar()
	case c == '`':
		return l.scanBacktickIdent()
	case c == '.':
		if l.matchStr("..") {
			l.emit(token.Op, "...")
		} else if l.matchStr(".") {
			l.emit(token.Op, "..")
		} else if l.matchStr("=") {
			l.emit(token.Op, ".=")
		} else {
			l.emit(token.Dot, ".")
		}
	default:
		l.current--
		return l.scanOperatorOrLiteral()
	}
	return nil
}

func (l *Lexer) scanOperatorOrLiteral() error {
	rest := string(l.src[l.current:])
	for _, op := range multiCharOps {
		if strings.HasPrefix(rest, op) {
			l.current += len([]rune(op))
			l.emit(token.Op, op)
			return nil
		}
	}
	c := l.peek()
	if strings.ContainsRune(singleCharOps, c) {
		l.advance()
		l.emit(token.Op, string(c))
		return nil
	}
	if unicode.IsDigit(c) {
		return l.scanNumber()
	}
	if isIdentStart(c) {
		l.scanIdent()
		return nil
	}
	return &Error{Message: fmt.Sprintf("unexpected character %q", c), Token: l.makeToken(token.EOF, string(c))}
}

func isIdentStart(c rune) bool { return unicode.IsLetter(c) || c == '_' }
func isIdentPart(c rune) bool  { return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' }

func (l *Lexer) scanIdent() {
	for !l.atEnd() && isIdentPart(l.peek()) {
		l.advance()
	}
	text := string(l.src[l.start:l.current])
	if kind, ok := keywords[text]; ok {
		l.emit(kind, text)
		return
	}
	l.emit(token.Ident, text)
}

func (l *Lexer) scanBacktickIdent() error {
	for !l.atEnd() && l.peek() != '`' {
		l.advance()
	}
	if l.atEnd() {
		return &Error{Message: "unterminated `identifier`", Token: l.makeToken(token.EOF, "")}
	}
	text := string(l.src[l.start+1 : l.current])
	l.advance() // closing backtick
	l.emit(token.Ident, text)
	return nil
}

// scanNumber handles decimal integers/doubles, 0b binary, 0x/0X hex.
func (l *Lexer) scanNumber() error {
	if l.peek() == '0' && l.current+1 < len(l.src) {
		switch l.src[l.current+1] {
		case 'b', 'B':
			l.advance()
			l.advance()
			for !l.atEnd() && (l.peek() == '0' || l.peek() == '1') {
				l.advance()
			}
			text := string(l.src[l.start:l.current])
			n, ok := rnumber.Parse(text)
			if !ok {
				return &Error{Message: "malformed binary literal", Token: l.makeToken(token.Number, text)}
			}
			l.emitNumber(text, n)
			return nil
		case 'x', 'X':
			l.advance()
			l.advance()
			for !l.atEnd() && isHexDigit(l.peek()) {
				l.advance()
			}
			text := string(l.src[l.start:l.current])
			n, ok := rnumber.Parse(text)
			if !ok {
				return &Error{Message: "malformed hex literal", Token: l.makeToken(token.Number, text)}
			}
			l.emitNumber(text, n)
			return nil
		}
	}
	for !l.atEnd() && unicode.IsDigit(l.peek()) {
		l.advance()
	}
	isFloat := false
	if !l.atEnd() && l.peek() == '.' && l.current+1 < len(l.src) && unicode.IsDigit(l.src[l.current+1]) {
		isFloat = true
		l.advance()
		for !l.atEnd() && unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}
	if !l.atEnd() && (l.peek() == 'e' || l.peek() == 'E') {
		save := l.current
		l.advance()
		if !l.atEnd() && (l.peek() == '+' || l.peek() == '-') {
			l.advance()
		}
		if !l.atEnd() && unicode.IsDigit(l.peek()) {
			isFloat = true
			for !l.atEnd() && unicode.IsDigit(l.peek()) {
				l.advance()
			}
		} else {
			l.current = save
		}
	}
	text := string(l.src[l.start:l.current])
	var n rnumber.Number
	if isFloat {
		var ok bool
		n, ok = rnumber.Parse(text)
		if !ok {
			return &Error{Message: "malformed number literal", Token: l.makeToken(token.Number, text)}
		}
	} else {
		var ok bool
		n, ok = rnumber.Parse(text)
		if !ok {
			return &Error{Message: "malformed number literal", Token: l.makeToken(token.Number, text)}
		}
	}
	l.emitNumber(text, n)
	return nil
}

func isHexDigit(c rune) bool {
	return unicode.IsDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// scanChar handles 'x' character literals, which yield a Number equal to
// the byte value (spec.md §4.3).
func (l *Lexer) scanChar() error {
	var b byte
	if l.peek() == '\\' {
		l.advance()
		esc := l.advance()
		decoded, err := decodeEscape(esc, l)
		if err != nil {
			return err
		}
		b = decoded
	} else {
		r := l.advance()
		b = byte(r)
	}
	if l.atEnd() || l.peek() != '\'' {
		return &Error{Message: "unterminated character literal", Token: l.makeToken(token.EOF, "")}
	}
	l.advance()
	l.emitNumber("'"+string(rune(b))+"'", rnumber.Int(int64(b)))
	return nil
}

// scanString handles "..." with the standard escape set.
func (l *Lexer) scanString() error {
	var sb strings.Builder
	for !l.atEnd() && l.peek() != '"' {
		c := l.advance()
		if c == '\n' {
			l.line++
		}
		if c == '\\' {
			if l.atEnd() {
				break
			}
			esc := l.advance()
			b, err := decodeEscape(esc, l)
			if err != nil {
				return err
			}
			sb.WriteByte(b)
			continue
		}
		sb.WriteRune(c)
	}
	if l.atEnd() {
		return &Error{Message: "unterminated string literal", Token: l.makeToken(token.EOF, sb.String())}
	}
	l.advance() // closing quote
	l.emit(token.String, sb.String())
	return nil
}

// decodeEscape decodes the escape character following a backslash:
// \n \t \r \0 \\ \" \' \x.. \u....
func decodeEscape(esc rune, l *Lexer) (byte, error) {
	switch esc {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '0':
		return 0, nil
	case '\\':
		return '\\', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	case 'x':
		if l.current+1 >= len(l.src) {
			return 0, &Error{Message: "malformed \\x escape", Token: l.makeToken(token.EOF, "")}
		}
		hex := string(l.src[l.current : l.current+2])
		l.current += 2
		var v int64
		_, err := fmt.Sscanf(hex, "%x", &v)
		if err != nil {
			return 0, &Error{Message: "malformed \\x escape", Token: l.makeToken(token.EOF, hex)}
		}
		return byte(v), nil
	case 'u':
		if l.current+3 >= len(l.src) {
			return 0, &Error{Message: "malformed \\u escape", Token: l.makeToken(token.EOF, "")}
		}
		hex := string(l.src[l.current : l.current+4])
		l.current += 4
		var v int64
		_, err := fmt.Sscanf(hex, "%x", &v)
		if err != nil {
			return 0, &Error{Message: "malformed \\u escape", Token: l.makeToken(token.EOF, hex)}
		}
		return byte(v), nil
	default:
		return byte(esc), nil
	}
}

func (l *Lexer) advance() rune {
	r := l.src[l.current]
	l.current++
	return r
}

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.src[l.current]
}

func (l *Lexer) match(expected rune) bool {
	if l.atEnd() || l.src[l.current] != expected {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) matchStr(s string) bool {
	rs := []rune(s)
	if l.current+len(rs) > len(l.src) {
		return false
	}
	for i, r := range rs {
		if l.src[l.current+i] != r {
			return false
		}
	}
	l.current += len(rs)
	return true
}

func (l *Lexer) atEnd() bool { return l.current >= len(l.src) }

func (l *Lexer) emit(kind token.Kind, text string) {
	l.tokens = append(l.tokens, l.makeToken(kind, text))
}

func (l *Lexer) emitNumber(text string, n rnumber.Number) {
	t := l.makeToken(token.Number, text)
	t.Num = n
	t.HasNum = true
	l.tokens = append(l.tokens, t)
}

// makeToken builds a Token with trimmed leading whitespace on the line
// text and a column distance adjusted to match, per spec.md §4.3.
func (l *Lexer) makeToken(kind token.Kind, text string) token.Token {
	lineIdx := l.line - 1
	lineText := ""
	if lineIdx >= 0 && lineIdx < len(l.lines) {
		lineText = l.lines[lineIdx]
	}
	trimmed := strings.TrimLeft(lineText, " \t")
	col := l.start - l.lineStartOffset()
	col -= len(lineText) - len(trimmed)
	if col < 0 {
		col = 0
	}
	return token.Token{
		Kind:     kind,
		Text:     text,
		File:     l.file,
		Line:     l.line,
		LineText: trimmed,
		Column:   col,
	}
}

// lineStartOffset returns the rune offset of the start of the current
// line, used to compute column distance.
func (l *Lexer) lineStartOffset() int {
	offset := 0
	for i := 0; i < l.line-1 && i < len(l.lines); i++ {
		offset += len([]rune(l.lines[i])) + 1
	}
	return offset
}
