package main

import (
	"flag"
	"fmt"

	"github.com/typodex/typodex/harvest"
	"github.com/typodex/typodex/index"
	"github.com/typodex/typodex/internal/common"
	"github.com/typodex/typodex/internal/typeterm"
)

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	fixture := fs.String("fixture", "", "JSON fixture file of {path, type} entries (required)")
	out := fs.String("out", "index.tdx", "output index file path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fixture == "" {
		fs.Usage()
		return fmt.Errorf("build: --fixture is required")
	}

	h, err := harvest.FixtureHarvester(*fixture)
	if err != nil {
		return common.Wrap("build", err)
	}

	env := typeterm.NewEnv()
	ix, err := harvest.Build(env, index.Options{}, h)
	if err != nil {
		return common.Wrap("build", err)
	}

	if err := ix.Save(*out); err != nil {
		return common.Wrap("build", err)
	}

	fmt.Printf("built %d entries -> %s\n", ix.Len(), *out)
	return nil
}
