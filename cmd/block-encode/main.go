// Command block-encode renders a textual symbol stream as a fully-formed
// DEFLATE block in the textual bit grammar.
//
// Usage:
//
//	block-encode <deflate|deflate64> [input-path] [static]
//
// The symbol stream is read from input-path, or from standard input when no
// path is given. The trailing keyword "static" forces the RFC-defined static
// tables instead of a dynamic header. Log verbosity is controlled through
// the INFLATELIB_LOG environment variable.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/coreos/pkg/capnslog"

	"github.com/coreos/inflatelib/blockgen"
)

var plog = capnslog.NewPackageLogger("github.com/coreos/inflatelib", "main")

func main() {
	capnslog.SetFormatter(capnslog.NewStringFormatter(os.Stderr))
	if s := os.Getenv("INFLATELIB_LOG"); s != "" {
		l, err := capnslog.ParseLevel(s)
		if err != nil {
			fmt.Fprintln(os.Stderr, "block-encode:", err)
			os.Exit(1)
		}
		capnslog.SetGlobalLogLevel(l)
	}
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "block-encode:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: block-encode <deflate|deflate64> [input-path] [static]")
	}
	var mode blockgen.Mode
	switch args[0] {
	case "deflate":
		mode = blockgen.Deflate
	case "deflate64":
		mode = blockgen.Deflate64
	default:
		return fmt.Errorf("unknown format %q", args[0])
	}

	rest := args[1:]
	static := false
	if n := len(rest); n > 0 && rest[n-1] == "static" {
		static = true
		rest = rest[:n-1]
	}
	if len(rest) > 1 {
		return fmt.Errorf("unexpected argument %q", rest[1])
	}

	in := io.Reader(os.Stdin)
	if len(rest) == 1 {
		f, err := os.Open(rest[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	syms, err := blockgen.ParseSymbols(in, mode)
	if err != nil {
		return err
	}
	plog.Debugf("encoding %d symbols, static=%v", len(syms), static)
	text, err := blockgen.Encode(syms, mode, static)
	if err != nil {
		return err
	}
	_, err = io.WriteString(os.Stdout, text)
	return err
}
