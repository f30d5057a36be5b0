package main

import (
	"fmt"
	"os"

	app "github.com/valter-silva-au/todo-list/internal"
	"github.com/valter-silva-au/todo-list/internal/cli"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	basePath := app.ResolveBasePath()

	a, err := app.NewApp(basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing todo: %v\n", err)
		os.Exit(1)
	}
	if a.ConfigErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: using default configuration: %v\n", a.ConfigErr)
	}

	err = cli.Execute()
	_ = a.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
