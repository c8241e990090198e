package inflate

const (
	maxLit   = 286
	maxDist  = 32
	numCodes = 19 // number of codes in the Huffman meta-code

	endBlockSym = 256

	maxLenBits  = 15 // ceiling for literal/length and distance codes
	maxCLenBits = 7  // ceiling for the code-length alphabet

	histSize   = 1 << 15 // DEFLATE history window
	histSize64 = 1 << 16 // Deflate64 history window
)

// Mode selects the bit format the Inflater decodes.
type Mode int

const (
	// Deflate is the format of RFC 1951.
	Deflate Mode = iota
	// Deflate64 is Microsoft's variant: a 64 KiB window, 16 extra bits on
	// length symbol 285, and distance symbols 30 and 31.
	Deflate64
)

func (m Mode) histSize() int {
	if m == Deflate64 {
		return histSize64
	}
	return histSize
}

// rangeCode gives the base value and extra bit count for a length or
// distance symbol, per RFC 1951 section 3.2.5.
type rangeCode struct {
	base uint32
	bits uint8
}

// Length codes 257..285.
var lengthCodes = [29]rangeCode{
	{3, 0}, {4, 0}, {5, 0}, {6, 0}, {7, 0}, {8, 0}, {9, 0}, {10, 0},
	{11, 1}, {13, 1}, {15, 1}, {17, 1}, {19, 2}, {23, 2}, {27, 2}, {31, 2},
	{35, 3}, {43, 3}, {51, 3}, {59, 3}, {67, 4}, {83, 4}, {99, 4}, {115, 4},
	{131, 5}, {163, 5}, {195, 5}, {227, 5}, {258, 0},
}

// In Deflate64, symbol 285 re-bases to 3 with 16 extra bits, for match
// lengths up to 65538.
var lengthCode64 = rangeCode{3, 16}

// Distance codes 0..31. Symbols 30 and 31 are valid only in Deflate64.
var distCodes = [32]rangeCode{
	{1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 1}, {7, 1}, {9, 2}, {13, 2},
	{17, 3}, {25, 3}, {33, 4}, {49, 4}, {65, 5}, {97, 5}, {129, 6}, {193, 6},
	{257, 7}, {385, 7}, {513, 8}, {769, 8}, {1025, 9}, {1537, 9},
	{2049, 10}, {3073, 10}, {4097, 11}, {6145, 11}, {8193, 12}, {12289, 12},
	{16385, 13}, {24577, 13}, {32769, 14}, {49153, 14},
}

func (m Mode) lengthCode(sym int) rangeCode {
	if sym == 285 && m == Deflate64 {
		return lengthCode64
	}
	return lengthCodes[sym-257]
}

func (m Mode) numDistSyms() int {
	if m == Deflate64 {
		return 32
	}
	return 30
}

// codeOrder is the permutation in which code-length code lengths appear in a
// dynamic block header, RFC 1951 section 3.2.7.
var codeOrder = [numCodes]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// Fixed Huffman tables for BTYPE=01 blocks, RFC 1951 section 3.2.6.
var (
	fixedLitLen huffmanTable
	fixedDist   huffmanTable
)

func init() {
	lengths := make([]int, 288)
	for i := 0; i < 144; i++ {
		lengths[i] = 8
	}
	for i := 144; i < 256; i++ {
		lengths[i] = 9
	}
	for i := 256; i < 280; i++ {
		lengths[i] = 7
	}
	for i := 280; i < 288; i++ {
		lengths[i] = 8
	}
	if k := fixedLitLen.init(lengths, maxLenBits, false); k != errNone {
		panic(InternalError("bad fixed literal/length table"))
	}
	dists := make([]int, 32)
	for i := range dists {
		dists[i] = 5
	}
	if k := fixedDist.init(dists, maxLenBits, false); k != errNone {
		panic(InternalError("bad fixed distance table"))
	}
}
