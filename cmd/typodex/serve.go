package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/typodex/typodex/discovery"
	"github.com/typodex/typodex/index"
	"github.com/typodex/typodex/internal/common"
	"github.com/typodex/typodex/internal/typesyntax"
	"github.com/typodex/typodex/mcpserver"
	"github.com/typodex/typodex/sigdoc"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	indexFile := fs.String("index", "", "path to a saved index (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *indexFile == "" {
		fs.Usage()
		return fmt.Errorf("serve: --index is required")
	}

	ix, err := index.Load(*indexFile, index.Options{})
	if err != nil {
		return common.Wrap("serve", err)
	}

	docs := sigdoc.NewInMemoryStore(sigdoc.StoreOptions{MaxExamples: 5})
	for info := range ix.Iter() {
		_ = docs.RegisterDoc(info.Path.String(), sigdoc.Entry{
			Signature: typesyntax.Render(ix.Env(), info.Type),
		})
	}

	disc := discovery.New(ix, discovery.Options{})
	srv := mcpserver.New(ix, disc, docs, mcpserver.Info{Name: "typodex", Version: "0.1.0"})

	return srv.ServeStdio(context.Background())
}
