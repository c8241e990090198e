// Package textbits packs the line-based textual bit-stream rendering used by
// the block encoder into bytes.
//
// The format consists of whitespace-separated tokens; a '#' starts a comment
// running to end of line. A token of the pattern [01]+ is a bit-string
// written most-significant bit first. A ">N" token pushes a bit-ordering
// override: until the matching ">>N", each bit-string is written
// least-significant bit first, which is how DEFLATE packs header fields and
// extra bits. Bits fill each output byte starting from its least significant
// bit; a final partial byte is padded with zeros.
package textbits

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Pack converts text in the grammar above to the packed byte stream.
func Pack(text string) ([]byte, error) {
	var bw bitBuffer
	depth := 0
	for ln, line := range strings.Split(text, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, tok := range strings.Fields(line) {
			switch {
			case strings.HasPrefix(tok, ">>"):
				n, err := strconv.Atoi(tok[2:])
				if err != nil || n != depth {
					return nil, fmt.Errorf("textbits: line %d: unbalanced override %q", ln+1, tok)
				}
				depth--
			case strings.HasPrefix(tok, ">"):
				n, err := strconv.Atoi(tok[1:])
				if err != nil || n != depth+1 {
					return nil, fmt.Errorf("textbits: line %d: unexpected override %q", ln+1, tok)
				}
				depth++
			default:
				if err := bw.writeToken(tok, depth > 0); err != nil {
					return nil, fmt.Errorf("textbits: line %d: %v", ln+1, err)
				}
			}
		}
	}
	if depth != 0 {
		return nil, errors.New("textbits: unterminated override")
	}
	return bw.bytes(), nil
}

// bitBuffer packs bits into bytes starting from each byte's least
// significant bit.
type bitBuffer struct {
	b []byte
	m byte
}

func (b *bitBuffer) writeBit(set bool) {
	if b.m == 0 {
		b.m = 0x01
		b.b = append(b.b, 0)
	}
	if set {
		b.b[len(b.b)-1] |= b.m
	}
	b.m <<= 1
}

func (b *bitBuffer) writeToken(tok string, lsbFirst bool) error {
	for _, c := range tok {
		if c != '0' && c != '1' {
			return fmt.Errorf("invalid token %q", tok)
		}
	}
	if lsbFirst {
		for i := len(tok) - 1; i >= 0; i-- {
			b.writeBit(tok[i] == '1')
		}
	} else {
		for i := 0; i < len(tok); i++ {
			b.writeBit(tok[i] == '1')
		}
	}
	return nil
}

func (b *bitBuffer) bytes() []byte {
	return b.b
}
