// Package process runs external toolchain commands and captures their output.
// The Executor interface is the only way operations reach the OS; tests
// substitute a fake so no real build tool is ever launched.
package process

import (
	"strings"
	"time"
)

// Invocation is one fully-built command: the argument vector, the working
// directory it runs in, extra environment entries, and an optional second
// stage that receives the first stage's stdout.
// It is built once per call and treated as immutable afterwards.
type Invocation struct {
	Args   []string
	Dir    string
	Env    []string
	Filter []string
}

// CommandLine renders the invocation the way a shell user would type it.
func (inv Invocation) CommandLine() string {
	line := strings.Join(inv.Args, " ")
	if len(inv.Filter) > 0 {
		line += " | " + strings.Join(inv.Filter, " ")
	}
	return line
}

// Result is what the executor observed. A non-zero ExitCode is data, not an error.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration

	// KillReason is set when the process was stopped by a deadline or by
	// cancellation of the calling context.
	KillReason string
}
