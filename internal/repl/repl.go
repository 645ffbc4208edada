package repl

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"rossa/internal/value"
)

// Start runs the interactive REPL loop of spec.md §6.3: read a line,
// parse, fold, evaluate against the host's persistent global scope, and
// print the result — element by element when it's Array-shaped — the
// way the teacher's internal/repl.Start loops a scanner against a fresh
// chunk per line, generalized to a tree-walking Eval call instead of a
// bytecode chunk swap.
func Start(h *Host) {
	interactive := isatty.IsTerminal(os.Stdin.Fd())
	if interactive {
		fmt.Println("rossa REPL | type 'exit' to quit")
	}
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print(">>> ")
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "exit" {
			break
		}
		if line == "" {
			continue
		}
		v, err := h.Run(line, "<repl>")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		printResult(v, h)
	}
}

func printResult(v value.Value, h *Host) {
	if v.Kind == value.KindArray {
		for _, e := range v.Elems() {
			fmt.Println(e.ToString(h.Interner))
		}
		return
	}
	if v.Kind == value.KindNil {
		return
	}
	fmt.Println(v.ToString(h.Interner))
}
