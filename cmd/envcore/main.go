package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/escalier-lang/envcore/internal/environ"
	"github.com/escalier-lang/envcore/internal/jsonload"
	"github.com/escalier-lang/envcore/internal/resolve"
)

func main() {
	inspectCmd := flag.NewFlagSet("inspect", flag.ExitOnError)
	resolveCmd := flag.NewFlagSet("resolve-type-names", flag.ExitOnError)

	if len(os.Args) < 2 {
		fmt.Println("expected 'inspect' or 'resolve-type-names' subcommands")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "inspect":
		if err := inspectCmd.Parse(os.Args[2:]); err != nil {
			fmt.Println("failed to parse inspect command")
			os.Exit(1)
		}
		inspect(os.Stdout, os.Stderr, inspectCmd.Args())
	case "resolve-type-names":
		if err := resolveCmd.Parse(os.Args[2:]); err != nil {
			fmt.Println("failed to parse resolve-type-names command")
			os.Exit(1)
		}
		resolveTypeNames(os.Stdout, os.Stderr, resolveCmd.Args())
	default:
		fmt.Println("expected 'inspect' or 'resolve-type-names' subcommands")
	}
}

func loadEnv(stderr io.Writer, args []string) *environ.Environment {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "expected a manifest path")
		os.Exit(1)
	}
	loader := &jsonload.Loader{Path: args[0]}
	env, err := environ.FromLoader(loader)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load %s: %s\n", args[0], err)
		os.Exit(1)
	}
	return env
}

func inspect(stdout, stderr io.Writer, args []string) {
	env := loadEnv(stderr, args)

	counts := env.DebugInspector()
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(stdout, "%-20s %d\n", k, counts[k])
	}

	for _, err := range env.ValidateTypeParams() {
		fmt.Fprintf(stderr, "generic parameter mismatch: %s\n", err)
	}
}

func resolveTypeNames(stdout, stderr io.Writer, args []string) {
	env := loadEnv(stderr, args)

	resolved, err := resolve.ResolveTypeNames(env, &scopeResolver{env: env}, nil)
	if err != nil {
		fmt.Fprintf(stderr, "failed to resolve type names: %s\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(stdout, "resolved %d top-level declarations\n", len(resolved.Declarations))
	for _, buf := range resolved.Buffers() {
		fmt.Fprintf(stdout, "buffer: %s\n", buf)
	}
}
