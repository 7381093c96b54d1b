//go:build !unix

package process

import "os/exec"

// killProcessGroup is a no-op where process groups are unavailable;
// cancellation kills the direct child and WaitDelay bounds the wait.
func killProcessGroup(*exec.Cmd) {}
