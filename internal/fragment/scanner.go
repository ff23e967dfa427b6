package fragment

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/layerconf/internal/config"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokDollar
	tokDot
	tokAssign
	tokLBrace
	tokRBrace
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of fragment"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokDollar:
		return "'$'"
	case tokDot:
		return "'.'"
	case tokAssign:
		return "'='"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	}
	return "unknown token"
}

// token is one lexical unit. For strings, text holds the unquoted content;
// for everything else it holds the raw source text.
type token struct {
	kind tokenKind
	text string
	pos  hcl.Pos
}

// scanner is a byte-level lexer over one fragment's source. It tracks
// line/column positions so every error can name its exact location.
type scanner struct {
	file string
	src  string
	off  int
	line int
	col  int
}

func newScanner(file, src string) *scanner {
	return &scanner{file: file, src: src, line: 1, col: 1}
}

func (s *scanner) pos() hcl.Pos {
	return hcl.Pos{Line: s.line, Column: s.col, Byte: s.off}
}

func (s *scanner) errorf(pos hcl.Pos, format string, args ...any) error {
	return &config.ParseError{
		Path:  s.file,
		Range: hcl.Range{Filename: s.file, Start: pos, End: pos},
		Msg:   fmt.Sprintf(format, args...),
	}
}

func (s *scanner) advance() byte {
	ch := s.src[s.off]
	s.off++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

// skipSpace consumes whitespace, line comments (`//`) and block comments
// (`/* */`).
func (s *scanner) skipSpace() error {
	for s.off < len(s.src) {
		ch := s.src[s.off]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			s.advance()
		case ch == '/' && s.off+1 < len(s.src) && s.src[s.off+1] == '/':
			for s.off < len(s.src) && s.src[s.off] != '\n' {
				s.advance()
			}
		case ch == '/' && s.off+1 < len(s.src) && s.src[s.off+1] == '*':
			open := s.pos()
			s.advance()
			s.advance()
			closed := false
			for s.off < len(s.src) {
				if s.src[s.off] == '*' && s.off+1 < len(s.src) && s.src[s.off+1] == '/' {
					s.advance()
					s.advance()
					closed = true
					break
				}
				s.advance()
			}
			if !closed {
				return s.errorf(open, "unterminated block comment")
			}
		default:
			return nil
		}
	}
	return nil
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// next returns the next token, or a ParseError for bytes the grammar has
// no use for.
func (s *scanner) next() (token, error) {
	if err := s.skipSpace(); err != nil {
		return token{}, err
	}
	start := s.pos()
	if s.off >= len(s.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	ch := s.src[s.off]
	switch {
	case isIdentStart(ch):
		var b strings.Builder
		for s.off < len(s.src) && isIdentPart(s.src[s.off]) {
			b.WriteByte(s.advance())
		}
		return token{kind: tokIdent, text: b.String(), pos: start}, nil

	case isDigit(ch) || (ch == '-' && s.off+1 < len(s.src) && isDigit(s.src[s.off+1])):
		return s.scanNumber(start), nil

	case ch == '\'' || ch == '"':
		return s.scanString(start)
	}

	s.advance()
	switch ch {
	case '$':
		return token{kind: tokDollar, text: "$", pos: start}, nil
	case '.':
		return token{kind: tokDot, text: ".", pos: start}, nil
	case '=':
		return token{kind: tokAssign, text: "=", pos: start}, nil
	case '{':
		return token{kind: tokLBrace, text: "{", pos: start}, nil
	case '}':
		return token{kind: tokRBrace, text: "}", pos: start}, nil
	}
	return token{}, s.errorf(start, "unexpected character %q", string(ch))
}

func (s *scanner) scanNumber(start hcl.Pos) token {
	var b strings.Builder
	if s.src[s.off] == '-' {
		b.WriteByte(s.advance())
	}
	for s.off < len(s.src) && isDigit(s.src[s.off]) {
		b.WriteByte(s.advance())
	}
	if s.off+1 < len(s.src) && s.src[s.off] == '.' && isDigit(s.src[s.off+1]) {
		b.WriteByte(s.advance())
		for s.off < len(s.src) && isDigit(s.src[s.off]) {
			b.WriteByte(s.advance())
		}
	}
	return token{kind: tokNumber, text: b.String(), pos: start}
}

// scanString handles single- and double-quoted strings with the usual
// backslash escapes. Strings may not span lines.
func (s *scanner) scanString(start hcl.Pos) (token, error) {
	quote := s.advance()
	var b strings.Builder
	for s.off < len(s.src) {
		ch := s.src[s.off]
		if ch == '\n' {
			break
		}
		s.advance()
		if ch == quote {
			return token{kind: tokString, text: b.String(), pos: start}, nil
		}
		if ch == '\\' && s.off < len(s.src) {
			esc := s.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(esc)
			}
			continue
		}
		b.WriteByte(ch)
	}
	return token{}, s.errorf(start, "unterminated string literal")
}

// captureClosure consumes the body of a `{ ... }` dynamic value, the
// opening brace having been consumed already. The body is returned as raw
// text for the dynamic package to compile; braces inside quoted strings do
// not affect nesting.
func (s *scanner) captureClosure(open hcl.Pos) (string, hcl.Range, error) {
	var b strings.Builder
	depth := 1
	for s.off < len(s.src) {
		ch := s.src[s.off]
		if ch == '\'' || ch == '"' {
			quote := s.advance()
			b.WriteByte(quote)
			for s.off < len(s.src) {
				c := s.advance()
				b.WriteByte(c)
				if c == '\\' && s.off < len(s.src) {
					b.WriteByte(s.advance())
					continue
				}
				if c == quote {
					break
				}
			}
			continue
		}
		if ch == '{' {
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 {
				s.advance()
				rng := hcl.Range{Filename: s.file, Start: open, End: s.pos()}
				return strings.TrimSpace(b.String()), rng, nil
			}
		}
		b.WriteByte(s.advance())
	}
	return "", hcl.Range{}, s.errorf(open, "unterminated dynamic value closure")
}
