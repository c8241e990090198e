package blockgen

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/coreos/inflatelib/inflate"
	"github.com/coreos/inflatelib/textbits"
)

// expand computes the literal byte sequence a symbol stream implies.
func expand(t *testing.T, symbols []Symbol, mode Mode) []byte {
	t.Helper()
	var out []byte
	for _, s := range symbols {
		switch {
		case s.Code < endBlock:
			out = append(out, byte(s.Code))
		case s.Code == endBlock:
		default:
			length := lengthBase[s.Code-257] + s.LenExtra
			if s.Code == 285 && mode == Deflate64 {
				length = 3 + s.LenExtra
			}
			dist := distBase[s.Dist] + s.DistExtra
			if dist > len(out) {
				t.Fatalf("symbol %+v reaches %d bytes back into %d", s, dist, len(out))
			}
			for i := 0; i < length; i++ {
				out = append(out, out[len(out)-dist])
			}
		}
	}
	return out
}

func inflateText(t *testing.T, text string, mode Mode) []byte {
	t.Helper()
	packed, err := textbits.Pack(text)
	if err != nil {
		t.Fatalf("pack: %v\n%s", err, text)
	}
	imode := inflate.Deflate
	if mode == Deflate64 {
		imode = inflate.Deflate64
	}
	z := inflate.New(imode)
	z.Feed(packed)
	var out []byte
	buf := make([]byte, 4096)
	for {
		n, st, err := z.Inflate(buf)
		out = append(out, buf[:n]...)
		if err != nil {
			t.Fatalf("inflate: %v\n%s", err, text)
		}
		switch st {
		case inflate.Done:
			return out
		case inflate.NeedInput:
			t.Fatalf("inflater starved before the final block\n%s", text)
		}
	}
}

func roundTrip(t *testing.T, input string, mode Mode, static bool) {
	t.Helper()
	symbols, err := ParseSymbols(strings.NewReader(input), mode)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	text, err := Encode(symbols, mode, static)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := expand(t, symbols, mode)
	if got := inflateText(t, text, mode); !bytes.Equal(got, want) {
		t.Fatalf("round trip of %q: got %q, want %q", input, got, want)
	}
}

func TestRoundTripDynamic(t *testing.T) {
	tests := []string{
		`"ABC"`,
		`'A' (3, 1)`,
		`"Blah blah blah blah blah!" (24, 5)`,
		// An empty stream encodes to a lone end-of-block.
		``,
		`256`,
		// A literal whose value is 11 puts an exactly-11 zero run in front
		// of it in the code-length vector.
		`11 'a' 11`,
		// Several distance symbols and extra bits.
		`"abcdefgh" (4, 2) (5, 7) (6, 8) (7, 13)`,
		// Bare length symbols with explicit extras.
		`'x' 'y' 257 1 0 265 1 2 1`,
		// Length 258 (symbol 285) forces the full literal/length alphabet.
		`"the quick brown fox jumps over the lazy dog" (10, 20) (258, 30)`,
	}
	for _, in := range tests {
		roundTrip(t, in, Deflate, false)
	}
}

func TestRoundTripStatic(t *testing.T) {
	tests := []string{
		`"ABC"`,
		`'A' (3, 1)`,
		``,
		`"static blocks need no header" (12, 9)`,
	}
	for _, in := range tests {
		roundTrip(t, in, Deflate, true)
	}
}

func TestRoundTripDeflate64(t *testing.T) {
	tests := []string{
		`"ABC" (300, 2)`,
		`'A' (65538, 1)`,
		`"d64" (258, 1) (259, 3)`,
	}
	for _, in := range tests {
		roundTrip(t, in, Deflate64, false)
		roundTrip(t, in, Deflate64, true)
	}
}

func TestRoundTripRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for iter := 0; iter < 30; iter++ {
		var sb strings.Builder
		produced := 0
		for n := rnd.Intn(200) + 1; n > 0; n-- {
			if produced > 0 && rnd.Intn(4) == 0 {
				length := rnd.Intn(40) + 3
				dist := rnd.Intn(produced) + 1
				fmt.Fprintf(&sb, "(%d, %d) ", length, dist)
				produced += length
			} else {
				fmt.Fprintf(&sb, "%d ", rnd.Intn(256))
				produced++
			}
		}
		static := iter%3 == 0
		roundTrip(t, sb.String(), Deflate, static)
	}
}

func TestEncodeAppendsEndOfBlock(t *testing.T) {
	text, err := Encode([]Symbol{{Code: 'A'}}, Deflate, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := inflateText(t, text, Deflate); string(got) != "A" {
		t.Errorf("got %q, want %q", got, "A")
	}
}

func TestEncodeEmitsOverrideBrackets(t *testing.T) {
	text, err := Encode([]Symbol{{Code: 'A'}, {Code: 257, Dist: 4, DistExtra: 1}}, Deflate, true)
	if err != nil {
		t.Fatal(err)
	}
	// Distance code 4 carries one extra bit, here with value 1.
	if !strings.Contains(text, valTok(1, 1)) {
		t.Error("extra bits are not bracketed by the bit-order override")
	}
	if !strings.Contains(text, "#") {
		t.Error("no comments in the rendering")
	}
}
