// Command slidekit exports, renders, stores and previews GoSlides
// documents.
//
//	slidekit export -in deck.json -out deck.pdf [-order id1,id2]
//	slidekit render -in deck.json -slide 2 -out slide.png
//	slidekit import -in deck.json
//	slidekit new -title "Roadmap"
//	slidekit serve -addr localhost:8090
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/VantageDataChat/GoSlides/export"
	"github.com/VantageDataChat/GoSlides/internal/config"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, args []string, stdout io.Writer) error
}

var commands = []command{
	{"export", "render slides to a PDF", runExport},
	{"render", "render slides to PNG or JPEG images", runRender},
	{"import", "store a JSON document", runImport},
	{"new", "create and store an empty document", runNew},
	{"serve", "run the preview server", runServe},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		config.Exitf("slidekit: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		usage(os.Stderr)
		return flag.ErrHelp
	}
	switch args[0] {
	case "version", "-version", "--version":
		fmt.Fprintf(stdout, "slidekit %s\n", export.Version)
		return nil
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return nil
	}
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(ctx, args[1:], stdout)
		}
	}
	usage(os.Stderr)
	return fmt.Errorf("unknown command %q", args[0])
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: slidekit <command> [flags]")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.usage)
	}
	fmt.Fprintf(w, "  %-8s %s\n", "version", "print the version")
}
