package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/zephyrtools/pkg/auth"
)

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	*RootOptions
	Subject string
	TTL     time.Duration
}

func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP transport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errNotConfigured("token signing", "JWT_SECRET")
			}
			token, err := auth.IssueToken([]byte(cfg.JWTSecret), opts.Subject, opts.TTL, time.Now())
			if err != nil {
				return WrapExitError(ExitCommandError, "issue token", err)
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"token": token, "subject": opts.Subject})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Subject, "subject", "agent", "token subject")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", auth.DefaultTokenExpiry, "token lifetime")
	return cmd
}
