// Package token defines the lexical tokens of the FD language together with operations like
// printing and keyword lookup.
package token

import (
	"fmt"
	"strings"
)

// Kind represents the types of lexical tokens of the FD language. Token kinds are powers of 2 and
// can be combined using bitwise OR to create token sets for efficient membership testing, e.g. in
// the parser's expect/recovery helpers.
type Kind uint

const (
	ERROR Kind = 1 << iota
	// EOF is not part of the FD language and is used to indicate the end of the file or stream. No
	// language token should follow the EOF token.
	EOF

	Ident    // bare identifier: gap, left, hover ...
	NodeID   // @ident
	Number   // 100, 1.4, -12
	Unit     // px suffix; the scanner never emits it, a unit stays part of its Number token
	HexColor // #RRGGBB or #RGB
	String   // "quoted string"
	Comment  // # to end of line

	LeftBrace    // {
	RightBrace   // }
	LeftBracket  // [ (reserved, unused by current grammar but lexed defensively)
	RightBracket // ]
	Colon        // :
	Arrow        // ->
	Equal        // = (kvPair)

	// Keywords. These are recognized case-sensitively; FD keywords are lowercase.
	KwTheme
	KwStyle // alias of KwTheme
	KwNode  // group|frame|rect|ellipse|path|text shape keywords share this bucket; Literal disambiguates
	KwEdge
	KwWhen
	KwAnim // alias of KwWhen
	KwSpec
	KwFrom
	KwTo
	KwUse
)

const terminalSet = LeftBrace | RightBrace | LeftBracket | RightBracket | Colon | Arrow | Equal

// String returns the string representation of the token kind.
func (k Kind) String() string {
	switch k {
	case ERROR:
		return "ERROR"
	case EOF:
		return "EOF"
	case Ident:
		return "identifier"
	case NodeID:
		return "node id"
	case Number:
		return "number"
	case Unit:
		return "unit"
	case HexColor:
		return "hex color"
	case String:
		return "string"
	case Comment:
		return "comment"
	case LeftBrace:
		return "{"
	case RightBrace:
		return "}"
	case LeftBracket:
		return "["
	case RightBracket:
		return "]"
	case Colon:
		return ":"
	case Arrow:
		return "->"
	case Equal:
		return "="
	case KwTheme:
		return "theme"
	case KwStyle:
		return "style"
	case KwNode:
		return "node kind"
	case KwEdge:
		return "edge"
	case KwWhen:
		return "when"
	case KwAnim:
		return "anim"
	case KwSpec:
		return "spec"
	case KwFrom:
		return "from"
	case KwTo:
		return "to"
	case KwUse:
		return "use"
	default:
		panic(fmt.Sprintf("missing String() case for token.Kind: %d", k))
	}
}

// IsTerminal reports whether the token kind is a terminal punctuation symbol.
func (k Kind) IsTerminal() bool {
	return k&terminalSet != 0
}

// Token represents a single lexed token of FD source.
type Token struct {
	Kind       Kind
	Literal    string // raw source text; for Ident/NodeID/String this is the decoded value
	Err        string // error message for ERROR tokens, empty otherwise
	Start, End Position
}

// String returns a human-readable representation of the token, using the literal for identifiers,
// node ids, numbers, hex colors and strings, and the kind name otherwise.
func (t Token) String() string {
	switch t.Kind {
	case Ident, NodeID, Number, HexColor, String:
		return t.Literal
	default:
		return t.Kind.String()
	}
}

// shapeKeywords are the node-kind keywords. They all lex as KwNode; the parser disambiguates by
// Literal.
var shapeKeywords = map[string]bool{
	"group":    true,
	"frame":    true,
	"rect":     true,
	"ellipse":  true,
	"path":     true,
	"text":     true,
}

// keywords maps lowercase keyword literals to their Kind. Keywords not in shapeKeywords map 1:1.
var keywords = map[string]Kind{
	"theme": KwTheme,
	"style": KwStyle,
	"edge":  KwEdge,
	"when":  KwWhen,
	"anim":  KwAnim,
	"spec":  KwSpec,
	"from":  KwFrom,
	"to":    KwTo,
	"use":   KwUse,
}

// Lookup returns the token kind associated with the given bare identifier, distinguishing FD
// keywords from plain identifiers. Keywords are matched case-sensitively, matching the grammar in
// spec.md §4.1.
func Lookup(identifier string) Kind {
	if shapeKeywords[identifier] {
		return KwNode
	}
	if k, ok := keywords[identifier]; ok {
		return k
	}
	return Ident
}

// IsShapeKeyword reports whether identifier names one of the shape/node kinds (group, frame, rect,
// ellipse, path, text).
func IsShapeKeyword(identifier string) bool {
	return shapeKeywords[identifier]
}

// NormalizeKeyword resolves backward-compatible keyword aliases to their canonical spelling, per
// spec.md §4.1 ("style"↔"theme", "anim"↔"when").
func NormalizeKeyword(literal string) string {
	switch strings.ToLower(literal) {
	case "style":
		return "theme"
	case "anim":
		return "when"
	default:
		return literal
	}
}
