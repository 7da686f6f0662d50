package token

import (
	"unicode"
)

type Type int

const (
	LParen Type = iota
	RParen
	Comma
	Dot
	Assign
	Ident
	String
	Symbol
	Number
	Newline
	Illegal
)

func (t Type) String() string {
	switch t {
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Comma:
		return "','"
	case Dot:
		return "'.'"
	case Assign:
		return "'='"
	case Ident:
		return "identifier"
	case String:
		return "string"
	case Symbol:
		return "symbol"
	case Number:
		return "number"
	case Newline:
		return "end of statement"
	case Illegal:
		return "illegal character"
	}
	return "unknown"
}

type Token struct {
	Value string
	Type  Type
	Line  int
}

// Tokenize splits mini-language source into tokens. Newlines and ';' both
// become Newline tokens; consecutive terminators collapse into one.
func Tokenize(input string) []Token {
	var tokens []Token
	line := 1
	runes := []rune(input)

	terminate := func() {
		if len(tokens) > 0 && tokens[len(tokens)-1].Type != Newline {
			tokens = append(tokens, Token{"\n", Newline, line})
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\n' || r == ';' {
			terminate()
			if r == '\n' {
				line++
			}
			continue
		}
		if unicode.IsSpace(r) {
			continue
		}

		// Line comment
		if r == '#' {
			for i+1 < len(runes) && runes[i+1] != '\n' {
				i++
			}
			continue
		}

		switch r {
		case '(':
			tokens = append(tokens, Token{"(", LParen, line})
			continue
		case ')':
			tokens = append(tokens, Token{")", RParen, line})
			continue
		case ',':
			tokens = append(tokens, Token{",", Comma, line})
			continue
		case '.':
			tokens = append(tokens, Token{".", Dot, line})
			continue
		case '=':
			tokens = append(tokens, Token{"=", Assign, line})
			continue
		}

		// String literal, single or double quoted
		if r == '"' || r == '\'' {
			quote := r
			open := i
			startLine := line
			var buf []rune
			i++
			for i < len(runes) && runes[i] != quote {
				if runes[i] == '\\' && i+1 < len(runes) {
					i++
				}
				if runes[i] == '\n' {
					line++
				}
				buf = append(buf, runes[i])
				i++
			}
			if i >= len(runes) {
				// Unterminated string swallows the rest of the input
				tokens = append(tokens, Token{string(runes[open:]), Illegal, startLine})
				break
			}
			tokens = append(tokens, Token{string(buf), String, startLine})
			continue
		}

		// Symbol :name
		if r == ':' && i+1 < len(runes) && isIdentStart(runes[i+1]) {
			start := i + 1
			i++
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			tokens = append(tokens, Token{string(runes[start:i]), Symbol, line})
			i--
			continue
		}

		if unicode.IsDigit(r) {
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, Token{string(runes[start:i]), Number, line})
			i--
			continue
		}

		if isIdentStart(r) {
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			tokens = append(tokens, Token{string(runes[start:i]), Ident, line})
			i--
			continue
		}

		tokens = append(tokens, Token{string(r), Illegal, line})
	}

	terminate()
	return tokens
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
