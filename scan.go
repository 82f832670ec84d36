// Package fd is the root package of the diagramming toolkit: the scanner and parser that turn FD
// source text into an ast.Document live here, mirroring the teacher's layout of its own lexer and
// parser at the module root above the token/ast subpackages.
package fd

import (
	"bufio"
	"fmt"
	"io"
	"unicode"

	"github.com/fdcanvas/fd/token"
)

// ScanError is a lexical error: an illegal character or a malformed literal.
type ScanError struct {
	Pos       token.Position
	Character rune
	Reason    string
}

func (e ScanError) Error() string {
	if e.Character == 0 {
		return fmt.Sprintf("%s: %s", e.Pos, e.Reason)
	}
	return fmt.Sprintf("%s: illegal character %#U: %s", e.Pos, e.Character, e.Reason)
}

// Scanner tokenizes FD source code into a stream of tokens. Grounded on the two-rune-lookahead
// hand-written scanner idiom used for DOT in the pack: a cur/next rune pair advanced by readRune,
// with curLine/curColumn threaded through every emitted token's Start/End.
type Scanner struct {
	r         *bufio.Reader
	cur, next rune
	curLine   int
	curColumn int
	eof       bool
	err       error
}

// NewScanner creates a scanner reading FD source from r.
func NewScanner(r io.Reader) (*Scanner, error) {
	sc := &Scanner{r: bufio.NewReader(r), curLine: 1}
	if err := sc.readRune(); err != nil {
		return nil, err
	}
	if err := sc.readRune(); err != nil {
		return nil, err
	}
	sc.curColumn = 1
	return sc, nil
}

func (sc *Scanner) readRune() error {
	if sc.isDone() {
		return sc.err
	}
	r, _, err := sc.r.ReadRune()
	if err != nil {
		if err != io.EOF {
			sc.err = fmt.Errorf("fd: failed to read rune: %w", err)
			return sc.err
		}
		sc.eof = true
	}
	if sc.cur == '\n' {
		sc.curLine++
		sc.curColumn = 1
	} else if sc.cur != 0 {
		sc.curColumn++
	}
	sc.cur = sc.next
	sc.next = r
	return nil
}

func (sc *Scanner) hasNext() bool { return !sc.eof || sc.cur != 0 }
func (sc *Scanner) isDone() bool  { return sc.isEOF() || sc.err != nil }
func (sc *Scanner) isEOF() bool   { return !sc.hasNext() }

func (sc *Scanner) pos() token.Position {
	return token.Position{Line: sc.curLine, Column: sc.curColumn}
}

func (sc *Scanner) error(reason string) ScanError {
	return ScanError{Pos: sc.pos(), Character: sc.cur, Reason: reason}
}

// Next advances the scanner by one token and returns it. Once the underlying reader is exhausted,
// a token.EOF token is returned on every subsequent call.
func (sc *Scanner) Next() (token.Token, error) {
	sc.skipWhitespace()
	if sc.err != nil {
		return token.Token{}, sc.err
	}
	if sc.isEOF() {
		return token.Token{Kind: token.EOF, Start: sc.pos(), End: sc.pos()}, nil
	}

	var tok token.Token
	var err error

	switch sc.cur {
	case '{':
		tok = sc.single(token.LeftBrace)
	case '}':
		tok = sc.single(token.RightBrace)
	case '[':
		tok = sc.single(token.LeftBracket)
	case ']':
		tok = sc.single(token.RightBracket)
	case ':':
		tok = sc.single(token.Colon)
	case '=':
		tok = sc.single(token.Equal)
	case '"':
		tok, err = sc.scanString()
		if err != nil {
			sc.err = err
			return tok, err
		}
		return tok, nil
	case '@':
		tok, err = sc.scanNodeID()
		if err != nil {
			sc.err = err
			return tok, err
		}
		return tok, nil
	case '#':
		tok, err = sc.scanHashPrefixed()
		if err != nil {
			sc.err = err
			return tok, err
		}
		return tok, nil
	case '-':
		if sc.next == '>' {
			tok, err = sc.scanArrow()
			if err != nil {
				sc.err = err
				return tok, err
			}
			return tok, nil
		}
		tok, err = sc.scanNumber()
		if err != nil {
			sc.err = err
			return tok, err
		}
		return tok, nil
	default:
		switch {
		case unicode.IsDigit(sc.cur):
			tok, err = sc.scanNumber()
		case isIdentStart(sc.cur):
			tok, err = sc.scanIdent()
		default:
			err = sc.error("unexpected character")
			tok = token.Token{Kind: token.ERROR, Literal: string(sc.cur), Err: err.Error(), Start: sc.pos(), End: sc.pos()}
		}
		if err != nil {
			sc.err = err
			return tok, err
		}
		return tok, nil
	}

	if err := sc.readRune(); err != nil {
		return tok, err
	}
	return tok, nil
}

func (sc *Scanner) single(k token.Kind) token.Token {
	pos := sc.pos()
	return token.Token{Kind: k, Literal: string(sc.cur), Start: pos, End: pos}
}

func (sc *Scanner) skipWhitespace() {
	for isWhitespace(sc.cur) {
		if err := sc.readRune(); err != nil {
			return
		}
	}
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (sc *Scanner) scanArrow() (token.Token, error) {
	start := sc.pos()
	if err := sc.readRune(); err != nil { // consume '-'
		return token.Token{}, err
	}
	end := sc.pos()
	if err := sc.readRune(); err != nil { // consume '>'
		return token.Token{}, err
	}
	return token.Token{Kind: token.Arrow, Literal: "->", Start: start, End: end}, nil
}

// scanNodeID scans an `@ident` node reference.
func (sc *Scanner) scanNodeID() (token.Token, error) {
	start := sc.pos()
	if err := sc.readRune(); err != nil { // consume '@'
		return token.Token{}, err
	}
	if !isIdentStart(sc.cur) {
		return token.Token{}, sc.error("a node id must start with a letter or underscore after '@'")
	}
	var id []rune
	end := start
	for sc.hasNext() && isIdentPart(sc.cur) {
		id = append(id, sc.cur)
		end = sc.pos()
		if err := sc.readRune(); err != nil {
			return token.Token{}, err
		}
	}
	return token.Token{Kind: token.NodeID, Literal: string(id), Start: start, End: end}, nil
}

// scanHashPrefixed disambiguates a leading '#' between a hex color literal ("#RRGGBB"/"#RGB")
// and a line comment. It consumes the run of hex digits following '#'; if that run is exactly 3
// or 6 digits long and ends at a token boundary (any rune that is not a hex digit, or EOF), it is emitted
// as a HexColor. Otherwise scanning continues to end of line and the whole thing, digits
// included, is emitted as a Comment — this matches "# to end of line" for anything that isn't a
// well-formed color.
func (sc *Scanner) scanHashPrefixed() (token.Token, error) {
	start := sc.pos()
	if err := sc.readRune(); err != nil { // consume '#'
		return token.Token{}, err
	}

	var digits []rune
	end := start
	for sc.hasNext() && isHexDigit(sc.cur) && len(digits) < 6 {
		digits = append(digits, sc.cur)
		end = sc.pos()
		if err := sc.readRune(); err != nil {
			return token.Token{}, err
		}
	}

	atBoundary := sc.isEOF() || !isHexDigit(sc.cur)
	if (len(digits) == 3 || len(digits) == 6) && atBoundary {
		return token.Token{Kind: token.HexColor, Literal: "#" + string(digits), Start: start, End: end}, nil
	}

	// Not a well-formed color: digits already consumed become the start of the comment text,
	// continue to end of line.
	text := digits
	for sc.hasNext() && sc.cur != '\n' {
		text = append(text, sc.cur)
		end = sc.pos()
		if err := sc.readRune(); err != nil {
			return token.Token{}, err
		}
	}
	return token.Token{Kind: token.Comment, Literal: string(text), Start: start, End: end}, nil
}

func (sc *Scanner) scanString() (token.Token, error) {
	start := sc.pos()
	if err := sc.readRune(); err != nil { // consume opening quote
		return token.Token{}, err
	}
	var value []rune
	end := start
	closed := false
	for sc.hasNext() {
		if sc.cur == '"' {
			closed = true
			end = sc.pos()
			if err := sc.readRune(); err != nil { // consume closing quote
				return token.Token{}, err
			}
			break
		}
		if sc.cur == '\\' && (sc.next == '"' || sc.next == '\\') {
			if err := sc.readRune(); err != nil { // skip escape backslash
				return token.Token{}, err
			}
			value = append(value, sc.cur)
			end = sc.pos()
			if err := sc.readRune(); err != nil {
				return token.Token{}, err
			}
			continue
		}
		value = append(value, sc.cur)
		end = sc.pos()
		if err := sc.readRune(); err != nil {
			return token.Token{}, err
		}
	}
	if !closed {
		return token.Token{}, sc.error("missing closing quote")
	}
	return token.Token{Kind: token.String, Literal: string(value), Start: start, End: end}, nil
}

// scanNumber scans an integer or decimal literal, an optional leading '-', and an optional
// trailing unit suffix (letters immediately following the digits, e.g. "px"). The unit is part of
// the returned Number token; no separate Unit token is emitted.
func (sc *Scanner) scanNumber() (token.Token, error) {
	start := sc.pos()
	var digits []rune
	end := start
	if sc.cur == '-' {
		digits = append(digits, sc.cur)
		end = sc.pos()
		if err := sc.readRune(); err != nil {
			return token.Token{}, err
		}
	}
	hasDigit := false
	hasDot := false
	for sc.hasNext() {
		switch {
		case unicode.IsDigit(sc.cur):
			hasDigit = true
		case sc.cur == '.' && !hasDot:
			hasDot = true
		default:
			goto done
		}
		digits = append(digits, sc.cur)
		end = sc.pos()
		if err := sc.readRune(); err != nil {
			return token.Token{}, err
		}
	}
done:
	if !hasDigit {
		return token.Token{}, sc.error("a number must have at least one digit")
	}
	// A unit suffix (e.g. "px") directly attached to the digits is folded into the same literal;
	// the parser splits it back off when building a NumberLit.
	for sc.hasNext() && isIdentStart(sc.cur) {
		digits = append(digits, sc.cur)
		end = sc.pos()
		if err := sc.readRune(); err != nil {
			return token.Token{}, err
		}
	}
	return token.Token{Kind: token.Number, Literal: string(digits), Start: start, End: end}, nil
}

func (sc *Scanner) scanIdent() (token.Token, error) {
	start := sc.pos()
	var id []rune
	end := start
	for sc.hasNext() && isIdentPart(sc.cur) {
		id = append(id, sc.cur)
		end = sc.pos()
		if err := sc.readRune(); err != nil {
			return token.Token{}, err
		}
	}
	literal := string(id)
	return token.Token{Kind: token.Lookup(literal), Literal: literal, Start: start, End: end}, nil
}
