package main

import (
	"flag"
	"fmt"

	"github.com/typodex/typodex/index"
	"github.com/typodex/typodex/internal/common"
	"github.com/typodex/typodex/internal/typesyntax"
)

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	indexFile := fs.String("index", "", "path to a saved index (required)")
	exhaustive := fs.Bool("exhaustive", false, "visit every entry instead of only feature-compatible ones")
	limit := fs.Int("n", 20, "maximum number of results; negative means unlimited")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if *indexFile == "" || len(rest) == 0 {
		fs.Usage()
		return fmt.Errorf("search: --index and a query type are required")
	}
	typeExpr := rest[len(rest)-1]
	pkgs := rest[:len(rest)-1]

	ix, err := index.Load(*indexFile, index.Options{})
	if err != nil {
		return common.Wrap("search", err)
	}

	query, err := typesyntax.Parse(ix.Env(), typeExpr)
	if err != nil {
		return common.Wrap("search", err)
	}

	find := ix.FindWith
	if *exhaustive {
		find = ix.Find
	}
	results, err := find(query, index.FindOptions{Pkgs: pkgs, Limit: *limit})
	if err != nil {
		return common.Wrap("search", err)
	}

	for r := range results {
		fmt.Printf("%s : %s\n", r.Path.String(), typesyntax.Render(ix.Env(), r.Type))
	}
	return nil
}
