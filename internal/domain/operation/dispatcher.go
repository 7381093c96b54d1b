package operation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/zephyrtools/internal/ctxkeys"
	"github.com/matiasleandrokruk/zephyrtools/internal/domain/codegen"
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/config"
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/process"
)

// TopicCompleted is published once per Dispatch call, whatever its outcome.
const TopicCompleted = "operation.completed"

// Kind distinguishes the two result shapes.
type Kind string

const (
	KindCommand  Kind = "command"
	KindGenerate Kind = "generate"
)

// Result is what a caller gets back from Dispatch. Invocation and Execution
// are set for command operations, Artifact for generation. Text is the
// human-readable block handed to the transport.
type Result struct {
	Operation  string
	Kind       Kind
	Invocation *process.Invocation
	Execution  *process.Result
	Artifact   *codegen.Artifact
	Text       string
}

// CompletedEvent is the payload published on TopicCompleted.
type CompletedEvent struct {
	Operation   string
	Subject     string
	CommandLine string
	ExitCode    *int
	Outcome     Outcome
	Error       string
	StartedAt   time.Time
	Duration    time.Duration
}

// Publisher receives completion events. eventbus.Bus satisfies it.
type Publisher interface {
	Publish(topic string, payload any)
}

// Dispatcher is the single entry point for running catalogue operations.
type Dispatcher struct {
	registry  *Registry
	cfg       config.Config
	executor  process.Executor
	logger    *zap.Logger
	publisher Publisher
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithPublisher makes the dispatcher emit a CompletedEvent per call.
func WithPublisher(p Publisher) Option {
	return func(d *Dispatcher) { d.publisher = p }
}

func NewDispatcher(registry *Registry, cfg config.Config, executor process.Executor, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		cfg:      cfg,
		executor: executor,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry exposes the catalogue the dispatcher serves.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Dispatch validates raw against the named operation's schema and runs it.
// A non-zero exit code is reported in the result, not as an error. For
// generation failures the partial Result is returned alongside the error.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw map[string]any) (*Result, error) {
	started := time.Now()
	res, err := d.dispatch(ctx, name, raw)
	elapsed := time.Since(started)

	outcome := OutcomeOf(res, err)
	fields := []zap.Field{
		zap.String("operation", name),
		zap.String("outcome", string(outcome)),
		zap.String("subject", ctxkeys.Value(ctx, ctxkeys.Subject)),
		zap.Duration("duration", elapsed),
	}
	if res != nil && res.Invocation != nil {
		fields = append(fields, zap.String("command", res.Invocation.CommandLine()))
	}
	if res != nil && res.Execution != nil {
		fields = append(fields, zap.Int("exit_code", res.Execution.ExitCode))
	}
	if err != nil {
		d.logger.Warn("operation failed", append(fields, zap.Error(err))...)
	} else {
		d.logger.Info("operation completed", fields...)
	}

	d.publish(ctx, name, started, elapsed, outcome, res, err)
	return res, err
}

func (d *Dispatcher) dispatch(ctx context.Context, name string, raw map[string]any) (*Result, error) {
	op, ok := d.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}

	params, err := op.Schema().Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	switch op := op.(type) {
	case CommandOperation:
		return d.runCommand(ctx, op, params)
	case GenerateOperation:
		return d.runGenerate(op, params)
	}
	return nil, fmt.Errorf("operation %s: no handler for %T", name, op)
}

func (d *Dispatcher) runCommand(ctx context.Context, op CommandOperation, params Params) (*Result, error) {
	inv := op.Build(d.cfg, params)
	d.logger.Debug("launching", zap.String("operation", op.Name()), zap.Strings("args", inv.Args), zap.String("dir", inv.Dir))

	res := &Result{Operation: op.Name(), Kind: KindCommand, Invocation: &inv}
	exec, err := d.executor.Execute(ctx, inv)
	if err != nil {
		return res, fmt.Errorf("%s: %w: %w", op.Name(), ErrLaunchFailure, err)
	}
	res.Execution = exec
	res.Text = formatCommand(op.Label(), inv, exec)
	return res, nil
}

func (d *Dispatcher) runGenerate(op GenerateOperation, params Params) (*Result, error) {
	artifact, err := op.Generate(d.cfg, params)
	res := &Result{Operation: op.Name(), Kind: KindGenerate, Artifact: artifact}
	if err != nil {
		res.Text = formatGenerateError(err, artifact)
		return res, fmt.Errorf("%s: %w: %w", op.Name(), ErrGenerationFailure, err)
	}
	res.Text = formatGenerated(artifact)
	return res, nil
}

func (d *Dispatcher) publish(ctx context.Context, name string, started time.Time, elapsed time.Duration, outcome Outcome, res *Result, err error) {
	if d.publisher == nil {
		return
	}
	evt := CompletedEvent{
		Operation: name,
		Subject:   ctxkeys.Value(ctx, ctxkeys.Subject),
		Outcome:   outcome,
		StartedAt: started.UTC(),
		Duration:  elapsed,
	}
	if res != nil && res.Invocation != nil {
		evt.CommandLine = res.Invocation.CommandLine()
	}
	if res != nil && res.Execution != nil {
		code := res.Execution.ExitCode
		evt.ExitCode = &code
	}
	if res != nil && res.Artifact != nil && evt.CommandLine == "" {
		evt.CommandLine = res.Artifact.Path
	}
	if err != nil {
		evt.Error = err.Error()
	}
	d.publisher.Publish(TopicCompleted, evt)
}

func formatCommand(label string, inv process.Invocation, exec *process.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s command: %s\n", label, inv.CommandLine())
	fmt.Fprintf(&sb, "Exit code: %d\n", exec.ExitCode)
	if exec.KillReason != "" {
		fmt.Fprintf(&sb, "Killed: %s\n", exec.KillReason)
	}
	fmt.Fprintf(&sb, "Output:\n%s\n", exec.Stdout)
	fmt.Fprintf(&sb, "Errors:\n%s", exec.Stderr)
	return sb.String()
}

func formatGenerated(a *codegen.Artifact) string {
	return fmt.Sprintf("Generated Swift file: %s\n\nContent preview:\n%s...", a.Path, codegen.Preview(a.Content))
}

func formatGenerateError(err error, a *codegen.Artifact) string {
	if a == nil {
		return fmt.Sprintf("Error generating Swift file: %v", err)
	}
	return fmt.Sprintf("Error generating Swift file: %v\n\nContent preview:\n%s...", err, codegen.Preview(a.Content))
}
