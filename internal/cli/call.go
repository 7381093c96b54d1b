package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/zephyrtools/internal/ctxkeys"
	"github.com/matiasleandrokruk/zephyrtools/internal/domain/operation"
)

// cliSubject identifies direct calls in the audit log.
const cliSubject = "cli"

// CallOptions holds flags for the call command.
type CallOptions struct {
	*RootOptions
	Args string
}

func NewCallCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CallOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "call <operation>",
		Short: "Dispatch one operation and print its result",
		Long: `Dispatch one operation without an MCP client, exactly as an agent would.

The exit status is 0 on success, 1 when the tool ran and exited non-zero,
and 2 when the call was rejected or the tool could not be launched.

Example:
  zephyrtools call zephyr_build --args '{"app_path":"blinky","board":"nrf52840dk"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Args, "args", "{}", "operation parameters as a JSON object")
	return cmd
}

// callOutput is the --format json shape of a call.
type callOutput struct {
	Operation string            `json:"operation"`
	Outcome   operation.Outcome `json:"outcome"`
	Command   string            `json:"command,omitempty"`
	ExitCode  *int              `json:"exit_code,omitempty"`
	Stdout    string            `json:"stdout,omitempty"`
	Stderr    string            `json:"stderr,omitempty"`
	Path      string            `json:"path,omitempty"`
	Text      string            `json:"text,omitempty"`
	Error     string            `json:"error,omitempty"`
}

func runCall(cmd *cobra.Command, opts *CallOptions, name string) error {
	var raw map[string]any
	if err := json.Unmarshal([]byte(opts.Args), &raw); err != nil {
		return WrapExitError(ExitCommandError, "invalid --args JSON", err)
	}

	rt, err := newRuntime(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := ctxkeys.WithValue(cmd.Context(), ctxkeys.Subject, cliSubject)
	res, dispatchErr := rt.dispatcher.Dispatch(ctx, name, raw)

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		if err := writeJSON(out, toCallOutput(name, res, dispatchErr)); err != nil {
			return err
		}
	} else if res != nil && res.Text != "" {
		fmt.Fprintln(out, res.Text)
	}

	if dispatchErr != nil {
		return WrapExitError(ExitCommandError, "call "+name, dispatchErr)
	}
	if res.Execution != nil && res.Execution.ExitCode != 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s exited with code %d", name, res.Execution.ExitCode))
	}
	return nil
}

func toCallOutput(name string, res *operation.Result, err error) callOutput {
	out := callOutput{Operation: name, Outcome: operation.OutcomeOf(res, err)}
	if err != nil {
		out.Error = err.Error()
	}
	if res == nil {
		return out
	}
	out.Text = res.Text
	if res.Invocation != nil {
		out.Command = res.Invocation.CommandLine()
	}
	if res.Execution != nil {
		code := res.Execution.ExitCode
		out.ExitCode = &code
		out.Stdout = res.Execution.Stdout
		out.Stderr = res.Execution.Stderr
	}
	if res.Artifact != nil {
		out.Path = res.Artifact.Path
	}
	return out
}
