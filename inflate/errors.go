package inflate

import "strconv"

// ErrorKind identifies the way in which a compressed stream is malformed.
type ErrorKind int

const (
	errNone ErrorKind = iota

	// InvalidBlockType is reported for the reserved block type BTYPE=11.
	InvalidBlockType
	// CorruptStoredBlock is reported when a stored block's NLEN field is not
	// the ones-complement of its LEN field.
	CorruptStoredBlock
	// InvalidCodeLengths is reported when a code length vector oversubscribes
	// its alphabet or contains a length beyond the alphabet's ceiling.
	InvalidCodeLengths
	// IncompleteTree is reported when a code length vector underspecifies its
	// alphabet (Kraft sum below one with more than one code present).
	IncompleteTree
	// RepeatBeforeFirst is reported when RLE symbol 16 appears before any
	// code length has been produced.
	RepeatBeforeFirst
	// OverflowCodeLengths is reported when the RLE expansion produces more
	// code lengths than HLIT+257 plus HDIST+1.
	OverflowCodeLengths
	// InvalidCode is reported when a bit pattern does not decode to any
	// assigned code.
	InvalidCode
	// InvalidSymbol is reported when a decoded symbol lies outside its
	// alphabet, such as a literal/length symbol above 285.
	InvalidSymbol
	// InvalidDistance is reported when a back-reference reaches behind the
	// start of the output or beyond the history window.
	InvalidDistance
	// UnexpectedEnd is reported by Close when the input ended before a block
	// with BFINAL=1 completed.
	UnexpectedEnd
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidBlockType:
		return "invalid block type"
	case CorruptStoredBlock:
		return "corrupt stored block"
	case InvalidCodeLengths:
		return "invalid code lengths"
	case IncompleteTree:
		return "incomplete code tree"
	case RepeatBeforeFirst:
		return "length repeat before first length"
	case OverflowCodeLengths:
		return "code length overflow"
	case InvalidCode:
		return "invalid code"
	case InvalidSymbol:
		return "invalid symbol"
	case InvalidDistance:
		return "invalid distance"
	case UnexpectedEnd:
		return "unexpected end of stream"
	}
	return "unknown error"
}

// An Error reports corrupt input of a particular kind at a given byte offset.
type Error struct {
	Kind   ErrorKind
	Offset int64
}

func (e *Error) Error() string {
	return "inflate: " + e.Kind.String() + " before offset " + strconv.FormatInt(e.Offset, 10)
}

// An InternalError reports an error in the inflate code itself.
type InternalError string

func (e InternalError) Error() string { return "inflate: internal error: " + string(e) }
