// Command fdfmt canonicalizes an FD document: parse, lower to a scene graph, and re-emit the
// canonical text. Mirrors the teacher's cmd/dotfmt — a single-purpose formatter stays on the
// stdlib flag package rather than pulling in the richer CLI framework cmd/fdctl uses.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/fdcanvas/fd"
	"github.com/fdcanvas/fd/emit"
	"github.com/fdcanvas/fd/scene"
)

func main() {
	if err := run(os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(args []string, r io.Reader, w io.Writer, wErr io.Writer) error {
	flags := flag.NewFlagSet(args[0], flag.ExitOnError)
	flags.SetOutput(wErr)
	cpuProfile := flags.String("cpuprofile", "", "write cpu profile to `file`")
	memProfile := flags.String("memprofile", "", "write memory profile to `file`")

	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	p, err := fd.NewParser(strings.NewReader(string(src)))
	if err != nil {
		return fmt.Errorf("fdfmt: %w", err)
	}
	doc, errs := p.Parse()
	for _, e := range errs {
		if e.Severity == fd.SeverityError {
			fmt.Fprintf(wErr, "%s: %s\n", e.Pos, e.Msg)
		}
	}

	g, warnings := scene.Build(doc)
	for _, wn := range warnings {
		fmt.Fprintf(wErr, "%s: %s\n", wn.Pos, wn.Msg)
	}

	if _, err := io.WriteString(w, emit.Document(g)); err != nil {
		return err
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			return fmt.Errorf("could not create memory profile: %v", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("could not write memory profile: %v", err)
		}
	}

	return nil
}
