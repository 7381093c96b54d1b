// zephyrtools serves Zephyr and Embedded Swift toolchain operations to
// coding agents over the Model Context Protocol.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/matiasleandrokruk/zephyrtools/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	cmd := cli.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(errOut, "Error:", err) //nolint:errcheck
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}
