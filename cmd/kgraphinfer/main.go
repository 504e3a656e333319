package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kgraphinfer "github.com/vital-ai/kgraphinfer"
	"github.com/vital-ai/kgraphinfer/internal/loader"
	"github.com/vital-ai/kgraphinfer/internal/predicate"
)

const helpText = `kgraphinfer interactive REPL

Commands:
  load <pred> <csv|jsonl> <file> [fields...]   Register a filter predicate from a data file
  unload <pred>                                Not supported: predicates stay registered for the session
  list                                         List registered predicates
  help                                         Show this help message
  exit / quit                                  Exit the REPL

For a jsonl file, list the record fields to project into the tuple after the
file path, in order (e.g. "load person jsonl people.jsonl id name age").
For csv, the file's own column order is used; pass "header" as an extra
argument if the first row is a header row to skip.

Any other input is treated as a DSL query against the registered predicates.

DSL examples:
  friendOf(?x, ?y), ageOf(?y, ?age), ?age >= 18
  ?total is sum{ ?amt | orderAmount(?o, ?amt) }
  not(enemy(?x))
`

func main() {
	e := kgraphinfer.New()
	loaded := make(map[string]bool)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("kgraphinfer — knowledge-graph logic-query engine")
	fmt.Println(`Type "help" for available commands.`)
	fmt.Println()

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "exit", "quit":
			return

		case "help":
			fmt.Print(helpText)

		case "list":
			if len(loaded) == 0 {
				fmt.Println("(no predicates registered)")
			} else {
				for name := range loaded {
					fmt.Printf("  %s\n", name)
				}
			}

		case "load":
			if len(parts) < 4 {
				fmt.Fprintln(os.Stderr, "usage: load <pred> <csv|jsonl> <file> [fields...]")
				continue
			}
			name, kind, path := parts[1], strings.ToLower(parts[2]), parts[3]
			p, err := loadPredicate(kind, path, parts[4:])
			if err != nil {
				fmt.Fprintf(os.Stderr, "error loading %q: %v\n", path, err)
				continue
			}
			if err := e.Register(name, p); err != nil {
				fmt.Fprintf(os.Stderr, "error registering %q: %v\n", name, err)
				continue
			}
			loaded[name] = true
			fmt.Printf("registered predicate %q (%d arguments) from %s\n", name, p.Arity(), filepath.Base(path))

		case "unload":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: unload <pred>")
				continue
			}
			fmt.Fprintln(os.Stderr, "predicates cannot be unregistered once bound; start a new session instead")

		default:
			as, err := e.Execute(context.Background(), line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "query error: %v\n", err)
				continue
			}
			fmt.Printf("verdict: %s\n", as.Verdict)
			for _, r := range as.Results {
				fmt.Printf("  %v\n", r)
			}
		}
	}
}

func loadPredicate(kind, path string, rest []string) (predicate.Predicate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch kind {
	case "csv":
		header := false
		for _, r := range rest {
			if strings.EqualFold(r, "header") {
				header = true
			}
		}
		rows, err := loader.LoadCSV(f, header)
		if err != nil {
			return nil, err
		}
		return predicate.NewFilter(rows), nil

	case "jsonl":
		if len(rest) == 0 {
			return nil, fmt.Errorf("jsonl predicates require at least one field name")
		}
		rows, err := loader.LoadJSONL(f, rest)
		if err != nil {
			return nil, err
		}
		return predicate.NewFilter(rows), nil

	default:
		return nil, fmt.Errorf("unknown data format %q (want csv or jsonl)", kind)
	}
}
