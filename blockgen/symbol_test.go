package blockgen

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseSymbols(t *testing.T) {
	tests := []struct {
		in   string
		mode Mode
		want []Symbol
	}{
		{"'A'", Deflate, []Symbol{{Code: 'A'}}},
		{`'\n'`, Deflate, []Symbol{{Code: '\n'}}},
		{`"AB"`, Deflate, []Symbol{{Code: 'A'}, {Code: 'B'}}},
		{`"a\tb\\c\"d\0"`, Deflate, []Symbol{
			{Code: 'a'}, {Code: '\t'}, {Code: 'b'}, {Code: '\\'},
			{Code: 'c'}, {Code: '"'}, {Code: 'd'}, {Code: 0},
		}},
		// Separators: whitespace, comma, semicolon, period; # comments.
		{"'x', 'y'; 'z'. 'w' # tail\n'v'", Deflate, []Symbol{
			{Code: 'x'}, {Code: 'y'}, {Code: 'z'}, {Code: 'w'}, {Code: 'v'},
		}},
		// Length/distance pairs resolve against the RFC base tables.
		{"(3, 1)", Deflate, []Symbol{{Code: 257, Dist: 0}}},
		{"(10, 4)", Deflate, []Symbol{{Code: 264, Dist: 3}}},
		{"(13, 5)", Deflate, []Symbol{{Code: 266, LenExtra: 0, Dist: 4, DistExtra: 0}}},
		{"(258, 32768)", Deflate, []Symbol{{Code: 285, Dist: 29, DistExtra: 8191}}},
		{"(20, 100)", Deflate, []Symbol{{Code: 269, LenExtra: 1, Dist: 13, DistExtra: 3}}},
		// Bare symbols; above 256 the extras follow as plain tokens.
		{"65 256", Deflate, []Symbol{{Code: 65}, {Code: 256}}},
		{"257 0", Deflate, []Symbol{{Code: 257, Dist: 0}}},
		{"266 1 4 1", Deflate, []Symbol{{Code: 266, LenExtra: 1, Dist: 4, DistExtra: 1}}},
		// Deflate64: symbol 285 takes 16 extra bits, distances reach 65536.
		{"(300, 1)", Deflate64, []Symbol{{Code: 285, LenExtra: 297, Dist: 0}}},
		{"(258, 1)", Deflate64, []Symbol{{Code: 284, LenExtra: 31, Dist: 0}}},
		{"(3, 65536)", Deflate64, []Symbol{{Code: 257, Dist: 31, DistExtra: 16383}}},
		{"285 297 0", Deflate64, []Symbol{{Code: 285, LenExtra: 297, Dist: 0}}},
	}
	for i, tt := range tests {
		got, err := ParseSymbols(strings.NewReader(tt.in), tt.mode)
		if err != nil {
			t.Errorf("case %d: %v", i, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("case %d: got %+v, want %+v", i, got, tt.want)
		}
	}
}

func TestParseSymbolsErrors(t *testing.T) {
	tests := []struct {
		in   string
		mode Mode
	}{
		{"'A", Deflate},           // unterminated char
		{`"abc`, Deflate},         // unterminated string
		{`'\q'`, Deflate},         // unknown escape
		{"286", Deflate},          // symbol out of range
		{"(2, 1)", Deflate},       // length below minimum
		{"(259, 1)", Deflate},     // length above DEFLATE maximum
		{"(3, 0)", Deflate},       // distance below minimum
		{"(3, 32769)", Deflate},   // distance above DEFLATE maximum
		{"(3, 65537)", Deflate64}, // distance above Deflate64 maximum
		{"266 9 0", Deflate},      // length extra does not fit one bit
		{"266 1 30 0", Deflate},   // distance symbol out of range
		{"266 1", Deflate},        // missing distance symbol
		{"(3, 1", Deflate},        // unterminated pair
		{"%", Deflate},            // stray character
	}
	for i, tt := range tests {
		if _, err := ParseSymbols(strings.NewReader(tt.in), tt.mode); err == nil {
			t.Errorf("case %d: expected non-nil error for %q", i, tt.in)
		}
	}
}

func TestLengthSymbolResolution(t *testing.T) {
	tests := []struct {
		mode   Mode
		length int
		sym    int
		extra  int
	}{
		{Deflate, 3, 257, 0},
		{Deflate, 10, 264, 0},
		{Deflate, 11, 265, 0},
		{Deflate, 12, 265, 1},
		{Deflate, 257, 284, 30},
		{Deflate, 258, 285, 0},
		{Deflate64, 258, 284, 31},
		{Deflate64, 259, 285, 256},
		{Deflate64, 65538, 285, 65535},
	}
	for i, tt := range tests {
		sym, extra, err := tt.mode.lengthSymbol(tt.length)
		if err != nil {
			t.Errorf("case %d: %v", i, err)
			continue
		}
		if sym != tt.sym || extra != tt.extra {
			t.Errorf("case %d: got (%d, %d), want (%d, %d)", i, sym, extra, tt.sym, tt.extra)
		}
	}
}

func TestDistanceSymbolResolution(t *testing.T) {
	tests := []struct {
		mode  Mode
		dist  int
		sym   int
		extra int
	}{
		{Deflate, 1, 0, 0},
		{Deflate, 4, 3, 0},
		{Deflate, 5, 4, 0},
		{Deflate, 6, 4, 1},
		{Deflate, 24577, 29, 0},
		{Deflate, 32768, 29, 8191},
		{Deflate64, 32769, 30, 0},
		{Deflate64, 49153, 31, 0},
		{Deflate64, 65536, 31, 16383},
	}
	for i, tt := range tests {
		sym, extra, err := tt.mode.distanceSymbol(tt.dist)
		if err != nil {
			t.Errorf("case %d: %v", i, err)
			continue
		}
		if sym != tt.sym || extra != tt.extra {
			t.Errorf("case %d: got (%d, %d), want (%d, %d)", i, sym, extra, tt.sym, tt.extra)
		}
	}
}
