package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/zephyrtools/internal/domain/audit"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit     int
	Operation string
	Subject   string
}

func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent operations from the audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", audit.DefaultListLimit, "maximum number of records")
	cmd.Flags().StringVar(&opts.Operation, "operation", "", "only show this operation")
	cmd.Flags().StringVar(&opts.Subject, "subject", "", "only show calls made by this caller")
	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	if cfg.AuditDBPath == "" {
		return errNotConfigured("audit log", "ZEPHYR_TOOLS_AUDIT_DB")
	}

	db, err := openAudit(cfg.AuditDBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := audit.NewService(db).List(cmd.Context(), audit.ListFilter{Operation: opts.Operation, Subject: opts.Subject, Limit: opts.Limit})
	if err != nil {
		return WrapExitError(ExitCommandError, "read audit log", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		if records == nil {
			records = []*audit.Record{}
		}
		return writeJSON(out, records)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tOPERATION\tSUBJECT\tOUTCOME\tEXIT\tDURATION\tCOMMAND")
	for _, r := range records {
		exit := "-"
		if r.ExitCode != nil {
			exit = fmt.Sprint(*r.ExitCode)
		}
		subject := r.Subject
		if subject == "" {
			subject = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Operation, subject, r.Outcome, exit, r.Duration, r.CommandLine)
	}
	return tw.Flush()
}
