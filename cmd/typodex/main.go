// Command typodex is a type-directed function-signature search tool: it
// builds a searchable index from harvested library signatures, queries it
// by type, and can expose it to MCP-aware editors.
package main

import (
	"fmt"
	"os"

	"github.com/typodex/typodex/internal/common"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "search":
		err = runSearch(os.Args[2:])
	case "build":
		err = runBuild(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "-h", "-help", "--help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		common.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `typodex is a type-directed function-signature search tool.

Usage:

	typodex search --index <file> [--exhaustive] [-n <count>] [<pkg>...] <type>
	typodex build --fixture <file> [--out <file>]
	typodex serve --index <file>

Run "typodex <command> -h" for a command's flags.`)
}
