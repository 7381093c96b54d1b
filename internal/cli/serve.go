package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/matiasleandrokruk/zephyrtools/internal/server"
	"github.com/matiasleandrokruk/zephyrtools/internal/version"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	HTTP bool
	Addr string
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long: `Run the MCP server. By default it speaks MCP over stdin/stdout, which is
what agent hosts expect when they spawn the binary. With --http it serves
streamable HTTP on /mcp, guarded by bearer tokens when JWT_SECRET is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.HTTP, "http", false, "serve streamable HTTP instead of stdio")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "HTTP listen address (default from ZEPHYR_TOOLS_HTTP_ADDR)")
	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := opts.Logger()
	rt, err := newRuntime(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn("closing runtime", zap.Error(err))
		}
	}()

	logger.Info("starting zephyrtools", append(describeConfig(rt.cfg), zap.String("version", version.Version))...)
	detectWest(ctx, rt.executor, rt.cfg, logger)

	mcpServer := server.NewMCPServer(rt.dispatcher, version.Version)
	if !opts.HTTP {
		return server.ServeStdio(ctx, mcpServer)
	}

	addr := opts.Addr
	if addr == "" {
		addr = rt.cfg.HTTPAddr
	}
	if rt.cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty; /mcp accepts unauthenticated requests")
	}

	router := server.NewRouter(server.NewStreamableHandler(mcpServer), []byte(rt.cfg.JWTSecret), logger)
	httpServer := server.NewServer(server.DefaultConfig(addr), router, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Shutdown owns cancellation; a listen racing it must not fail.
		return httpServer.Start(context.WithoutCancel(gctx))
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
