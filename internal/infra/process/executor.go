package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// waitDelay bounds how long Wait keeps collecting output after the process
// group was killed.
const waitDelay = 2 * time.Second

// ErrLaunch is returned when a process could not be started or its output
// could not be collected. Exit statuses never produce this error.
var ErrLaunch = errors.New("process launch failed")

// Executor runs an Invocation to completion.
type Executor interface {
	Execute(ctx context.Context, inv Invocation) (*Result, error)
}

// OSExecutor runs invocations with os/exec.
type OSExecutor struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewOSExecutor creates an executor. A zero timeout waits for the process
// for as long as it runs; debugger and emulator sessions rely on that.
func NewOSExecutor(timeout time.Duration, logger *zap.Logger) *OSExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OSExecutor{timeout: timeout, logger: logger}
}

// Execute runs inv in its working directory and waits for it to exit.
// When inv.Filter is set the first stage's stdout is piped into the filter
// and the filter's exit code is reported, as a shell pipeline would.
func (e *OSExecutor) Execute(ctx context.Context, inv Invocation) (*Result, error) {
	if len(inv.Args) == 0 {
		return nil, fmt.Errorf("%w: empty argument vector", ErrLaunch)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	e.logger.Debug("starting process",
		zap.String("command", inv.CommandLine()),
		zap.String("dir", inv.Dir))

	start := time.Now()
	var (
		res *Result
		err error
	)
	if len(inv.Filter) == 0 {
		res, err = e.runSingle(ctx, inv)
	} else {
		res, err = e.runPipeline(ctx, inv)
	}
	if err != nil {
		e.logger.Warn("process launch failed", zap.String("command", inv.CommandLine()), zap.Error(err))
		return nil, err
	}

	res.Duration = time.Since(start)
	if ctxErr := ctx.Err(); ctxErr != nil && res.ExitCode != 0 {
		res.KillReason = ctxErr.Error()
	}
	e.logger.Debug("process exited",
		zap.String("command", inv.CommandLine()),
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("duration", res.Duration))
	return res, nil
}

func (e *OSExecutor) runSingle(ctx context.Context, inv Invocation) (*Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := command(ctx, inv, inv.Args)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLaunch, inv.Args[0], err)
	}
	code, err := exitCode(cmd, cmd.Wait())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLaunch, inv.Args[0], err)
	}

	return &Result{ExitCode: code, Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

func (e *OSExecutor) runPipeline(ctx context.Context, inv Invocation) (*Result, error) {
	var stdout, sourceErr, filterErr bytes.Buffer
	source := command(ctx, inv, inv.Args)
	filter := command(ctx, inv, inv.Filter)
	source.Stderr = &sourceErr
	filter.Stdout = &stdout
	filter.Stderr = &filterErr

	pipe, err := source.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLaunch, inv.Args[0], err)
	}
	filter.Stdin = pipe

	if err := source.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLaunch, inv.Args[0], err)
	}
	if err := filter.Start(); err != nil {
		_ = source.Process.Kill()
		_ = source.Wait()
		return nil, fmt.Errorf("%w: %s: %v", ErrLaunch, inv.Filter[0], err)
	}

	_, sourceWaitErr := exitCode(source, source.Wait())
	code, filterWaitErr := exitCode(filter, filter.Wait())
	if err := errors.Join(sourceWaitErr, filterWaitErr); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLaunch, inv.CommandLine(), err)
	}

	return &Result{
		ExitCode: code,
		Stdout:   stdout.String(),
		Stderr:   sourceErr.String() + filterErr.String(),
	}, nil
}

func command(ctx context.Context, inv Invocation, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), inv.Env...)
	cmd.WaitDelay = waitDelay
	killProcessGroup(cmd)
	return cmd
}

// exitCode turns the error from Wait into an exit status. Only failures
// that are not an exit status are returned as errors.
func exitCode(cmd *exec.Cmd, err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	// The process exited but a leftover child kept the output pipes open
	// past waitDelay.
	if errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode(), nil
	}
	return -1, err
}
