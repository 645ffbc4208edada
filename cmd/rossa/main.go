// cmd/rossa/main.go is the interpreter entry point of spec.md §6.3: a
// source file path (optional — absent means REPL), a `-no-stdlib` flag,
// and a repeatable `-search-path` flag feeding `load`'s module loader.
package main

import (
	"flag"
	"fmt"
	"os"

	"rossa/internal/repl"
)

// searchPaths collects repeated `-search-path` flags in order.
type searchPaths []string

func (s *searchPaths) String() string { return fmt.Sprint([]string(*s)) }
func (s *searchPaths) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	noStdlib := flag.Bool("no-stdlib", false, "skip registering the standard library")
	var roots searchPaths
	flag.Var(&roots, "search-path", "directory to search for `load \"path\";` targets (repeatable)")
	flag.Parse()

	h := repl.NewHost(!*noStdlib, roots...)

	args := flag.Args()
	if len(args) == 0 {
		repl.Start(h)
		return
	}

	if _, err := h.RunFile(args[0]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
