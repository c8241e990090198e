// Package inflate implements a resumable, streaming decoder for the DEFLATE
// compressed data format described in RFC 1951, and for the Deflate64
// variant. The gzip and zlib framing layers are out of scope; the decoder
// consumes a raw bitstream fed in arbitrary-sized chunks and produces
// decompressed bytes into arbitrary-sized output buffers, suspending and
// resuming at any bit boundary in any parse state.
package inflate

// Status tells the caller which resource the Inflater ran out of, or that
// the stream is finished.
type Status int

const (
	statusWork Status = iota // internal: keep stepping

	// NeedInput means the bitstream is exhausted; Feed more input.
	NeedInput
	// NeedOutput means the output buffer filled; drain with a fresh buffer.
	NeedOutput
	// Done means the final block completed and all output has been drained.
	Done
)

// Sub-states of a Huffman block, capturing where the symbol loop suspended.
const (
	stateReadSymbol = iota
	stateLengthExtra
	stateDistSymbol
	stateDistExtra
	stateCopyMatch
)

// Sub-states of a dynamic block header.
const (
	hdrCounts = iota
	hdrCodeLens
	hdrSymbols
)

// An Inflater is the decompression state machine. It is not safe for
// concurrent use; independent instances share no state.
type Inflater struct {
	mode Mode
	br   bitReader
	win  window

	// Huffman decoders for literal/length and distance.
	h1, h2 huffmanTable
	hl, hd *huffmanTable

	// Length vectors used to define the dynamic Huffman codes.
	bits     [maxLit + maxDist]int
	codebits [numCodes]int

	// Next step in the decompression, and decompression state.
	step      func(*Inflater) Status
	stepState int
	final     bool
	done      bool
	err       error

	// Scalars captured across suspensions.
	storedLen int
	copyLen   int
	copyDist  int
	extraNB   uint
	nlit      int
	ndist     int
	nclen     int
	hdrIdx    int
	lenIdx    int
	repSym    int // pending RLE repeat symbol, -1 if none

	woffset int64
}

// New returns an Inflater for the given bit format.
func New(mode Mode) *Inflater {
	z := new(Inflater)
	z.Reset(mode)
	return z
}

// Reset returns the Inflater to the state of a fresh instance, discarding
// any fed input and undrained output. The history buffer is reused when the
// mode's window fits in it.
func (z *Inflater) Reset(mode Mode) {
	buf := z.win.buf
	in := z.br.in
	*z = Inflater{mode: mode}
	z.win.buf = buf
	z.win.init(mode.histSize())
	z.br.in = in[:0]
	z.step = (*Inflater).nextBlock
	z.repSym = -1
}

// Feed appends a copy of p to the input queue and returns immediately.
func (z *Inflater) Feed(p []byte) {
	z.br.feed(p)
}

// InputOffset is the number of compressed bytes consumed so far, including
// bytes buffered for bit-level access.
func (z *Inflater) InputOffset() int64 { return z.br.offset }

// OutputOffset is the number of decompressed bytes returned to the caller.
func (z *Inflater) OutputOffset() int64 { return z.woffset }

// Inflate drains produced bytes into out and advances the state machine
// until it suspends. It returns the number of bytes written to out and the
// reason for stopping. The first decoding error is terminal: every later
// call returns the same error, and no partially-decoded symbol is ever
// emitted.
func (z *Inflater) Inflate(out []byte) (int, Status, error) {
	n := z.win.drain(out)
	z.woffset += int64(n)
	for {
		if z.err != nil {
			return n, statusWork, z.err
		}
		if z.done && z.win.pending == 0 {
			return n, Done, nil
		}
		if n == len(out) && (z.win.pending > 0 || z.win.avail() == 0) {
			return n, NeedOutput, nil
		}
		st := z.step(z)
		c := z.win.drain(out[n:])
		n += c
		z.woffset += int64(c)
		switch st {
		case NeedInput:
			if z.err == nil {
				return n, NeedInput, nil
			}
		case NeedOutput:
			if n == len(out) {
				return n, NeedOutput, nil
			}
			// The drain above freed window space; keep going.
		case Done:
			z.done = true
		}
	}
}

// Close reports whether the stream ended cleanly. If the final block never
// completed, the input ended early and the Inflater moves to a terminal
// UnexpectedEnd error.
func (z *Inflater) Close() error {
	if z.err != nil {
		return z.err
	}
	if !z.done {
		z.err = &Error{Kind: UnexpectedEnd, Offset: z.br.offset}
		return z.err
	}
	return nil
}

func (z *Inflater) fail(k ErrorKind) Status {
	z.err = &Error{Kind: k, Offset: z.br.offset}
	return statusWork
}

// nextBlock reads the 3-bit block header, RFC 1951 section 3.2.3.
func (z *Inflater) nextBlock() Status {
	if z.final {
		return Done
	}
	if !z.br.ensure(3) {
		return NeedInput
	}
	z.final = z.br.take(1) == 1
	switch z.br.take(2) {
	case 0:
		z.br.alignToByte()
		z.step = (*Inflater).storedHeader
	case 1:
		z.hl, z.hd = &fixedLitLen, &fixedDist
		z.step = (*Inflater).huffmanBlock
		z.stepState = stateReadSymbol
	case 2:
		z.step = (*Inflater).dynamicHeader
		z.stepState = hdrCounts
	default:
		return z.fail(InvalidBlockType)
	}
	return statusWork
}

// storedHeader reads the LEN/NLEN pair of a stored block.
func (z *Inflater) storedHeader() Status {
	if !z.br.ensure(32) {
		return NeedInput
	}
	n := z.br.take(16)
	nn := z.br.take(16)
	if nn != n^0xffff {
		return z.fail(CorruptStoredBlock)
	}
	z.storedLen = int(n)
	z.step = (*Inflater).storedData
	return statusWork
}

// storedData copies LEN literal bytes into the window, pausing for input or
// for the caller to drain.
func (z *Inflater) storedData() Status {
	for z.storedLen > 0 {
		dst := z.win.writeSpan(z.storedLen)
		if len(dst) == 0 {
			return NeedOutput
		}
		c := z.br.readBytes(dst)
		if c == 0 {
			return NeedInput
		}
		z.win.commit(c)
		z.storedLen -= c
	}
	z.step = (*Inflater).nextBlock
	return statusWork
}

// dynamicHeader reconstructs the two Huffman tables of a dynamic block,
// RFC 1951 section 3.2.7.
func (z *Inflater) dynamicHeader() Status {
	switch z.stepState {
	case hdrCounts:
		if !z.br.ensure(14) {
			return NeedInput
		}
		z.nlit = int(z.br.take(5)) + 257
		z.ndist = int(z.br.take(5)) + 1
		z.nclen = int(z.br.take(4)) + 4
		if z.nlit > maxLit {
			return z.fail(InvalidCodeLengths)
		}
		z.hdrIdx = 0
		z.stepState = hdrCodeLens
		fallthrough
	case hdrCodeLens:
		for z.hdrIdx < z.nclen {
			if !z.br.ensure(3) {
				return NeedInput
			}
			z.codebits[codeOrder[z.hdrIdx]] = int(z.br.take(3))
			z.hdrIdx++
		}
		for i := z.nclen; i < numCodes; i++ {
			z.codebits[codeOrder[i]] = 0
		}
		if k := z.h1.init(z.codebits[:], maxCLenBits, false); k != errNone {
			return z.fail(k)
		}
		z.lenIdx = 0
		z.repSym = -1
		z.stepState = hdrSymbols
		fallthrough
	default:
		if st := z.readCodeLengths(); st != statusWork || z.err != nil {
			return st
		}
		if k := z.h1.init(z.bits[:z.nlit], maxLenBits, false); k != errNone {
			return z.fail(k)
		}
		if k := z.h2.init(z.bits[z.nlit:z.nlit+z.ndist], maxLenBits, true); k != errNone {
			return z.fail(k)
		}
		z.hl, z.hd = &z.h1, &z.h2
		z.step = (*Inflater).huffmanBlock
		z.stepState = stateReadSymbol
	}
	return statusWork
}

// readCodeLengths decodes the HLIT+257 plus HDIST+1 code lengths using the
// code-length alphabet's RLE symbols 16, 17 and 18.
func (z *Inflater) readCodeLengths() Status {
	total := z.nlit + z.ndist
	for z.lenIdx < total {
		if z.repSym < 0 {
			sym, ok, k := z.h1.decode(&z.br)
			if k != errNone {
				return z.fail(k)
			}
			if !ok {
				return NeedInput
			}
			if sym < 16 {
				z.bits[z.lenIdx] = sym
				z.lenIdx++
				continue
			}
			z.repSym = sym
		}
		var rep, b int
		var nb uint
		switch z.repSym {
		case 16:
			if z.lenIdx == 0 {
				return z.fail(RepeatBeforeFirst)
			}
			rep, nb, b = 3, 2, z.bits[z.lenIdx-1]
		case 17:
			rep, nb = 3, 3
		default:
			rep, nb = 11, 7
		}
		if !z.br.ensure(nb) {
			return NeedInput
		}
		rep += int(z.br.take(nb))
		z.repSym = -1
		if z.lenIdx+rep > total {
			return z.fail(OverflowCodeLengths)
		}
		for ; rep > 0; rep-- {
			z.bits[z.lenIdx] = b
			z.lenIdx++
		}
	}
	return statusWork
}

// huffmanBlock is the symbol loop of a compressed block. Each suspension
// point has its own sub-state so the loop resumes exactly where it paused.
func (z *Inflater) huffmanBlock() Status {
	for {
		switch z.stepState {
		case stateReadSymbol:
			if z.win.avail() == 0 {
				return NeedOutput
			}
			sym, ok, k := z.hl.decode(&z.br)
			if k != errNone {
				return z.fail(k)
			}
			if !ok {
				return NeedInput
			}
			switch {
			case sym < endBlockSym:
				z.win.writeByte(byte(sym))
			case sym == endBlockSym:
				z.step = (*Inflater).nextBlock
				return statusWork
			case sym > 285:
				return z.fail(InvalidSymbol)
			default:
				rc := z.mode.lengthCode(sym)
				z.copyLen = int(rc.base)
				z.extraNB = uint(rc.bits)
				z.stepState = stateLengthExtra
			}
		case stateLengthExtra:
			if !z.br.ensure(z.extraNB) {
				return NeedInput
			}
			z.copyLen += int(z.br.take(z.extraNB))
			z.stepState = stateDistSymbol
		case stateDistSymbol:
			sym, ok, k := z.hd.decode(&z.br)
			if k != errNone {
				return z.fail(k)
			}
			if !ok {
				return NeedInput
			}
			if sym >= z.mode.numDistSyms() {
				return z.fail(InvalidSymbol)
			}
			rc := distCodes[sym]
			z.copyDist = int(rc.base)
			z.extraNB = uint(rc.bits)
			z.stepState = stateDistExtra
		case stateDistExtra:
			if !z.br.ensure(z.extraNB) {
				return NeedInput
			}
			z.copyDist += int(z.br.take(z.extraNB))
			if z.copyDist > len(z.win.buf) || int64(z.copyDist) > z.win.total {
				return z.fail(InvalidDistance)
			}
			z.stepState = stateCopyMatch
		case stateCopyMatch:
			z.copyLen -= z.win.copyMatch(z.copyDist, z.copyLen)
			if z.copyLen > 0 {
				return NeedOutput
			}
			z.stepState = stateReadSymbol
		}
	}
}
