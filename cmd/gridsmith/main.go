package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/gridsmith/gridsmith/internal/cli"
)

func main() {
	// A .env file can supply GRIDSMITH_DICT / GRIDSMITH_DICT_DB so
	// interactive use doesn't need the flag every time. Absence is
	// fine; flags always win.
	_ = godotenv.Load()

	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
