// Command lti runs state machine scenarios and analyses linear system models.
package main

import (
	"fmt"
	"os"

	"github.com/Fay3V/601/internal/cli"
)

func main() {
	cfg, err := cli.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCommandError)
	}

	if err := cli.NewRootCommand(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
