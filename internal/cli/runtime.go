package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/matiasleandrokruk/zephyrtools/internal/domain/audit"
	"github.com/matiasleandrokruk/zephyrtools/internal/domain/operation"
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/config"
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/eventbus"
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/process"
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/sqlite"
)

// runtime is the dispatcher plus the optional audit pipeline behind it.
type runtime struct {
	cfg        config.Config
	executor   process.Executor
	dispatcher *operation.Dispatcher

	bus      *eventbus.Bus
	db       *sql.DB
	sinkDone chan struct{}
}

func newRuntime(ctx context.Context, opts *RootOptions) (*runtime, error) {
	cfg, err := opts.Config()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger()

	registry, err := operation.NewRegistry(operation.Catalogue())
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, executor: opts.Executor(cfg)}
	dispatchOpts := []operation.Option{operation.WithLogger(logger)}

	if cfg.AuditDBPath != "" {
		db, err := openAudit(cfg.AuditDBPath)
		if err != nil {
			return nil, err
		}
		rt.db = db
		rt.bus = eventbus.New(eventbus.WithLogger(logger))
		rt.sinkDone = make(chan struct{})

		events := rt.bus.Subscribe(operation.TopicCompleted)
		sink := audit.NewSink(audit.NewService(db), logger)
		go func() {
			defer close(rt.sinkDone)
			sink.Run(ctx, events)
		}()
		dispatchOpts = append(dispatchOpts, operation.WithPublisher(rt.bus))
		logger.Debug("audit enabled", zap.String("path", cfg.AuditDBPath))
	}

	rt.dispatcher = operation.NewDispatcher(registry, cfg, rt.executor, dispatchOpts...)
	return rt, nil
}

// Close flushes pending audit events and closes the database.
func (rt *runtime) Close() error {
	if rt.bus != nil {
		rt.bus.Close()
		<-rt.sinkDone
	}
	if rt.db != nil {
		return rt.db.Close()
	}
	return nil
}

func openAudit(path string) (*sql.DB, error) {
	db, err := sqlite.NewDB(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open audit database", err)
	}
	if err := sqlite.MigrateUp(db); err != nil {
		db.Close()
		return nil, WrapExitError(ExitCommandError, "migrate audit database", err)
	}
	return db, nil
}

// detectWest logs the installed west version. It never fails startup.
func detectWest(ctx context.Context, exec process.Executor, cfg config.Config, logger *zap.Logger) string {
	res, err := exec.Execute(ctx, process.Invocation{
		Args: []string{"west", "--version"},
		Dir:  cfg.SandboxDir(),
		Env:  cfg.ToolEnv(),
	})
	switch {
	case err != nil:
		logger.Warn("west is not available; zephyr_* operations will fail to launch", zap.Error(err))
		return ""
	case res.ExitCode != 0:
		logger.Warn("west --version failed", zap.Int("exit_code", res.ExitCode), zap.String("stderr", res.Stderr))
		return ""
	}
	v := strings.TrimSpace(res.Stdout)
	logger.Info("west detected", zap.String("version", v))
	return v
}

func describeConfig(cfg config.Config) []zap.Field {
	return []zap.Field{
		zap.String("workspace_root", cfg.WorkspaceRoot),
		zap.String("zephyr_base", cfg.ZephyrBase),
		zap.String("toolchain_variant", cfg.ToolchainVariant),
		zap.String("swift_module", cfg.SwiftModule),
		zap.Duration("command_timeout", cfg.CommandTimeout),
		zap.Bool("audit", cfg.AuditDBPath != ""),
	}
}

func errNotConfigured(what, env string) error {
	return NewExitError(ExitCommandError, fmt.Sprintf("%s is not configured; set %s", what, env))
}
