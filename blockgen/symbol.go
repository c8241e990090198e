package blockgen

import (
	"fmt"
	"io"
)

// ParseSymbols reads the textual symbol stream. Tokens are separated by
// whitespace, commas, semicolons and periods; '#' starts a comment running
// to end of line. Recognized tokens:
//
//	'c'          a single-character literal
//	"string"     one literal per character, with backslash escapes
//	(len, dist)  a length/distance pair, resolved against the mode's tables
//	123          a bare symbol; symbols above 256 are followed by their
//	             distance symbol, and by length-extra and distance-extra
//	             values only where the code carries extra bits
func ParseSymbols(r io.Reader, mode Mode) ([]Symbol, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, mode: mode}
	var syms []Symbol
	for {
		p.skipSeparators()
		if p.pos >= len(p.src) {
			break
		}
		s, err := p.symbol()
		if err != nil {
			return nil, err
		}
		syms = append(syms, s...)
	}
	plog.Debugf("parsed %d symbols", len(syms))
	return syms, nil
}

type parser struct {
	src  []byte
	pos  int
	mode Mode
}

func isSeparator(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ',', ';', '.':
		return true
	}
	return false
}

func (p *parser) skipSeparators() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '#' {
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		if !isSeparator(c) {
			return
		}
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) symbol() ([]Symbol, error) {
	switch c := p.src[p.pos]; {
	case c == '\'':
		return p.charLiteral()
	case c == '"':
		return p.stringLiteral()
	case c == '(':
		return p.pair()
	case c >= '0' && c <= '9':
		return p.bareSymbol()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *parser) charLiteral() ([]Symbol, error) {
	p.pos++
	b, err := p.escapedByte()
	if err != nil {
		return nil, err
	}
	if p.pos >= len(p.src) || p.src[p.pos] != '\'' {
		return nil, p.errorf("unterminated character literal")
	}
	p.pos++
	return []Symbol{{Code: int(b)}}, nil
}

func (p *parser) stringLiteral() ([]Symbol, error) {
	p.pos++
	var syms []Symbol
	for {
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated string literal")
		}
		if p.src[p.pos] == '"' {
			p.pos++
			return syms, nil
		}
		b, err := p.escapedByte()
		if err != nil {
			return nil, err
		}
		syms = append(syms, Symbol{Code: int(b)})
	}
}

func (p *parser) escapedByte() (byte, error) {
	c := p.src[p.pos]
	if c != '\\' {
		p.pos++
		return c, nil
	}
	p.pos++
	if p.pos >= len(p.src) {
		return 0, p.errorf("truncated escape sequence")
	}
	e := p.src[p.pos]
	p.pos++
	switch e {
	case '0':
		return 0, nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'v':
		return '\v', nil
	case '\\':
		return '\\', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	}
	return 0, p.errorf("unknown escape \\%c", e)
}

func (p *parser) pair() ([]Symbol, error) {
	p.pos++ // '('
	length, err := p.pairInt()
	if err != nil {
		return nil, err
	}
	dist, err := p.pairInt()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos >= len(p.src) || p.src[p.pos] != ')' {
		return nil, p.errorf("expected ')'")
	}
	p.pos++
	lsym, lextra, err := p.mode.lengthSymbol(length)
	if err != nil {
		return nil, p.errorf("%v", err)
	}
	dsym, dextra, err := p.mode.distanceSymbol(dist)
	if err != nil {
		return nil, p.errorf("%v", err)
	}
	return []Symbol{{Code: lsym, LenExtra: lextra, Dist: dsym, DistExtra: dextra}}, nil
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n', ',':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) pairInt() (int, error) {
	p.skipSpaces()
	return p.decimal()
}

func (p *parser) decimal() (int, error) {
	if p.pos >= len(p.src) || p.src[p.pos] < '0' || p.src[p.pos] > '9' {
		return 0, p.errorf("expected a decimal number")
	}
	n := 0
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		n = n*10 + int(p.src[p.pos]-'0')
		if n > 1<<20 {
			return 0, p.errorf("number too large")
		}
		p.pos++
	}
	return n, nil
}

// nextValue reads a follow-on decimal token for a bare length symbol.
func (p *parser) nextValue(what string) (int, error) {
	p.skipSeparators()
	if p.pos >= len(p.src) {
		return 0, p.errorf("missing %s", what)
	}
	return p.decimal()
}

func (p *parser) bareSymbol() ([]Symbol, error) {
	code, err := p.decimal()
	if err != nil {
		return nil, err
	}
	if code > 285 {
		return nil, p.errorf("symbol %d out of range", code)
	}
	if code <= endBlock {
		return []Symbol{{Code: code}}, nil
	}

	s := Symbol{Code: code}
	if eb := p.mode.lengthExtraBits(code); eb > 0 {
		if s.LenExtra, err = p.nextValue("length extra value"); err != nil {
			return nil, err
		}
		if s.LenExtra >= 1<<eb {
			return nil, p.errorf("length extra %d does not fit %d bits", s.LenExtra, eb)
		}
	}
	if s.Dist, err = p.nextValue("distance symbol"); err != nil {
		return nil, err
	}
	if s.Dist >= p.mode.numDistSyms() {
		return nil, p.errorf("distance symbol %d out of range", s.Dist)
	}
	if eb := distBits[s.Dist]; eb > 0 {
		if s.DistExtra, err = p.nextValue("distance extra value"); err != nil {
			return nil, err
		}
		if s.DistExtra >= 1<<eb {
			return nil, p.errorf("distance extra %d does not fit %d bits", s.DistExtra, eb)
		}
	}
	return []Symbol{s}, nil
}
