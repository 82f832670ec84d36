// Command fdwatch serves a live, filtered view of an FD document over HTTP, refreshing connected
// browsers via SSE whenever the file changes on disk. It is the runnable reference host for
// sync.Engine's text port — something to point a browser at without a real editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fdcanvas/fd/viewfilter"
	"github.com/fdcanvas/fd/watch"
)

func main() {
	if err := run(os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr *os.File) error {
	flags := flag.NewFlagSet(args[0], flag.ExitOnError)
	flags.SetOutput(stderr)
	port := flags.String("port", "8080", "HTTP port to serve on")
	mode := flags.String("mode", string(viewfilter.ModeVisual), "view filter: full, structure, layout, design, spec, visual, when, edges")
	debug := flags.Bool("debug", false, "enable debug logging")

	if err := flags.Parse(args[1:]); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: %s [flags] <file.fd>", args[0])
	}

	wa, err := watch.New(watch.Config{
		File:   flags.Arg(0),
		Port:   *port,
		Mode:   viewfilter.Mode(*mode),
		Debug:  *debug,
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return wa.Watch(ctx)
}
