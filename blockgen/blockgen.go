// Package blockgen constructs fully-formed DEFLATE blocks from a parsed
// symbol stream: it builds canonical, length-limited Huffman codes for the
// literal/length, distance and code-length alphabets, run-length encodes the
// code-length vector, and renders the block as the textual bit grammar
// packed by package textbits. It is the offline companion to package
// inflate.
package blockgen

import (
	"fmt"

	"github.com/coreos/pkg/capnslog"
)

var plog = capnslog.NewPackageLogger("github.com/coreos/inflatelib", "blockgen")

// Mode selects the bit format a block is generated for.
type Mode int

const (
	// Deflate is the format of RFC 1951.
	Deflate Mode = iota
	// Deflate64 re-bases length symbol 285 and adds distance symbols 30
	// and 31.
	Deflate64
)

const (
	endBlock = 256

	maxLenBits  = 15
	maxCLenBits = 7
)

// A Symbol is one resolved element of the block body: a literal byte, the
// end-of-block marker, or a length code with its extra value and distance.
type Symbol struct {
	Code      int // literal 0..255, end-of-block 256, or length code 257..285
	LenExtra  int // extra value for Code >= 257
	Dist      int // distance symbol for Code >= 257
	DistExtra int
}

// Length code bases and extra bit counts for symbols 257..285, RFC 1951
// section 3.2.5.
var lengthBase = [29]int{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
	35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthBits = [29]int{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
	3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// Distance code bases and extra bit counts for symbols 0..31; 30 and 31
// exist only in Deflate64.
var distBase = [32]int{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193,
	257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145,
	8193, 12289, 16385, 24577, 32769, 49153,
}

var distBits = [32]int{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6,
	7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13, 14, 14,
}

// codeOrder is the permutation in which code-length code lengths appear in
// the dynamic header.
var codeOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

func (m Mode) maxLength() int {
	if m == Deflate64 {
		return 65538
	}
	return 258
}

func (m Mode) maxDistance() int {
	if m == Deflate64 {
		return 65536
	}
	return 32768
}

func (m Mode) numDistSyms() int {
	if m == Deflate64 {
		return 32
	}
	return 30
}

func (m Mode) lengthExtraBits(sym int) int {
	if sym == 285 && m == Deflate64 {
		return 16
	}
	return lengthBits[sym-257]
}

// lengthSymbol resolves a match length to its code and extra value.
func (m Mode) lengthSymbol(length int) (sym, extra int, err error) {
	if length < 3 || length > m.maxLength() {
		return 0, 0, fmt.Errorf("match length %d out of range", length)
	}
	if m == Deflate64 && length > 258 {
		return 285, length - 3, nil
	}
	if m == Deflate && length == 258 {
		return 285, 0, nil
	}
	for i := 27; i >= 0; i-- {
		if length >= lengthBase[i] {
			return 257 + i, length - lengthBase[i], nil
		}
	}
	return 0, 0, fmt.Errorf("match length %d out of range", length)
}

// distanceSymbol resolves a match distance to its code and extra value.
func (m Mode) distanceSymbol(dist int) (sym, extra int, err error) {
	if dist < 1 || dist > m.maxDistance() {
		return 0, 0, fmt.Errorf("match distance %d out of range", dist)
	}
	for i := m.numDistSyms() - 1; i >= 0; i-- {
		if dist >= distBase[i] {
			return i, dist - distBase[i], nil
		}
	}
	return 0, 0, fmt.Errorf("match distance %d out of range", dist)
}

func soloSymbol(freq []uint64) bool {
	n := 0
	for _, c := range freq {
		if c > 0 {
			n++
		}
	}
	return n == 1
}

// Encode renders the symbol stream as a single final DEFLATE block in the
// textual bit grammar. When the stream does not already end with the
// end-of-block symbol, one is appended.
func Encode(symbols []Symbol, mode Mode, static bool) (string, error) {
	if n := len(symbols); n == 0 || symbols[n-1].Code != endBlock {
		symbols = append(symbols, Symbol{Code: endBlock})
	}
	if static {
		return encodeStatic(symbols, mode)
	}
	return encodeDynamic(symbols, mode)
}

func encodeDynamic(symbols []Symbol, mode Mode) (string, error) {
	var litFreq [286]uint64
	var distFreq [32]uint64
	for _, s := range symbols {
		litFreq[s.Code]++
		if s.Code >= 257 {
			distFreq[s.Dist]++
		}
	}
	// The format disallows zero-bit codes, and only the distance alphabet
	// may degenerate to a single code; when the end-of-block code is alone,
	// give it company so the tree stays decodable.
	if soloSymbol(litFreq[:]) {
		litFreq[0]++
	}

	litLens, err := buildLengths(litFreq[:], maxLenBits)
	if err != nil {
		return "", err
	}
	distLens, err := buildLengths(distFreq[:], maxLenBits)
	if err != nil {
		return "", err
	}

	nlit := 257
	for i, l := range litLens {
		if l > 0 && i+1 > nlit {
			nlit = i + 1
		}
	}
	ndist := 1
	for i, l := range distLens {
		if l > 0 && i+1 > ndist {
			ndist = i + 1
		}
	}

	combined := make([]int, 0, nlit+ndist)
	combined = append(combined, litLens[:nlit]...)
	combined = append(combined, distLens[:ndist]...)
	ops := runLength(combined)

	var clenFreq [19]uint64
	for _, op := range ops {
		clenFreq[op.sym]++
	}
	if soloSymbol(clenFreq[:]) {
		if clenFreq[0] > 0 {
			clenFreq[18]++
		} else {
			clenFreq[0]++
		}
	}
	clenLens, err := buildLengths(clenFreq[:], maxCLenBits)
	if err != nil {
		return "", err
	}
	hclen := 4
	for i, s := range codeOrder {
		if clenLens[s] > 0 && i+1 > hclen {
			hclen = i + 1
		}
	}

	litCode := canonicalCodes(litLens)
	distCode := canonicalCodes(distLens)
	clenCode := canonicalCodes(clenLens)

	plog.Debugf("dynamic block: hlit=%d hdist=%d hclen=%d rle=%d", nlit, ndist, hclen, len(ops))

	var e emitter
	e.comment(fmt.Sprintf("dynamic block, %d symbols", len(symbols)))
	e.line(">1 1 10 >>1", "BFINAL=1 BTYPE=10")
	e.line(valTok(uint32(nlit-257), 5), fmt.Sprintf("HLIT=%d", nlit-257))
	e.line(valTok(uint32(ndist-1), 5), fmt.Sprintf("HDIST=%d", ndist-1))
	e.line(valTok(uint32(hclen-4), 4), fmt.Sprintf("HCLEN=%d", hclen-4))
	for i := 0; i < hclen; i++ {
		s := codeOrder[i]
		e.line(valTok(uint32(clenLens[s]), 3), fmt.Sprintf("clen %d: length %d", s, clenLens[s]))
	}
	for _, op := range ops {
		tok := binTok(clenCode[op.sym], clenLens[op.sym])
		switch {
		case op.sym < 16:
			e.line(tok, fmt.Sprintf("length %d", op.sym))
		default:
			e.line(tok+" "+valTok(uint32(op.extra), op.bits),
				fmt.Sprintf("repeat %d, %d times", op.sym, op.count()))
		}
	}
	emitData(&e, symbols, mode, func(sym int) (uint32, int) {
		return litCode[sym], litLens[sym]
	}, func(sym int) (uint32, int) {
		return distCode[sym], distLens[sym]
	})
	return e.String(), nil
}

func encodeStatic(symbols []Symbol, mode Mode) (string, error) {
	var e emitter
	e.comment(fmt.Sprintf("static block, %d symbols", len(symbols)))
	e.line(">1 1 01 >>1", "BFINAL=1 BTYPE=01")
	emitData(&e, symbols, mode, staticLitLenCode, staticDistCode)
	return e.String(), nil
}

// Static table code assignment, RFC 1951 section 3.2.6.
func staticLitLenCode(sym int) (uint32, int) {
	switch {
	case sym < 144:
		return uint32(0x30 + sym), 8
	case sym < 256:
		return uint32(0x190 + sym - 144), 9
	case sym < 280:
		return uint32(sym - 256), 7
	default:
		return uint32(0xc0 + sym - 280), 8
	}
}

func staticDistCode(sym int) (uint32, int) {
	return uint32(sym), 5
}

func emitData(e *emitter, symbols []Symbol, mode Mode, lit, dist func(int) (uint32, int)) {
	for _, s := range symbols {
		code, n := lit(s.Code)
		switch {
		case s.Code < endBlock:
			e.line(binTok(code, n), fmt.Sprintf("literal %q", byte(s.Code)))
		case s.Code == endBlock:
			e.line(binTok(code, n), "end of block")
		default:
			tok := binTok(code, n)
			if eb := mode.lengthExtraBits(s.Code); eb > 0 {
				tok += " " + valTok(uint32(s.LenExtra), eb)
			}
			dcode, dn := dist(s.Dist)
			tok += " " + binTok(dcode, dn)
			if eb := distBits[s.Dist]; eb > 0 {
				tok += " " + valTok(uint32(s.DistExtra), eb)
			}
			e.line(tok, fmt.Sprintf("length code %d+%d, distance code %d+%d",
				s.Code, s.LenExtra, s.Dist, s.DistExtra))
		}
	}
}
