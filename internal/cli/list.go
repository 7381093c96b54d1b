package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/zephyrtools/internal/domain/operation"
)

func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, rootOpts)
		},
	}
}

type paramSummary struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Required bool     `json:"required,omitempty"`
	Default  any      `json:"default,omitempty"`
	Enum     []string `json:"enum,omitempty"`
}

type operationSummary struct {
	Name        string         `json:"name"`
	Kind        operation.Kind `json:"kind"`
	Description string         `json:"description"`
	Params      []paramSummary `json:"params"`
}

func runList(cmd *cobra.Command, opts *RootOptions) error {
	registry, err := operation.NewRegistry(operation.Catalogue())
	if err != nil {
		return err
	}

	summaries := make([]operationSummary, 0, len(registry.List()))
	for _, op := range registry.List() {
		summaries = append(summaries, summarize(op))
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(out, summaries)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPARAMETERS\tDESCRIPTION")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, paramList(s.Params), s.Description)
	}
	return tw.Flush()
}

func summarize(op operation.Operation) operationSummary {
	kind := operation.KindCommand
	if _, ok := op.(operation.GenerateOperation); ok {
		kind = operation.KindGenerate
	}
	params := make([]paramSummary, 0, len(op.Schema().Params))
	for _, p := range op.Schema().Params {
		params = append(params, paramSummary{
			Name:     p.Name,
			Type:     string(p.Type),
			Required: p.Required,
			Default:  p.Default,
			Enum:     p.Enum,
		})
	}
	return operationSummary{Name: op.Name(), Kind: kind, Description: op.Description(), Params: params}
}

func paramList(params []paramSummary) string {
	if len(params) == 0 {
		return "-"
	}
	names := make([]string, 0, len(params))
	for _, p := range params {
		if p.Required {
			names = append(names, p.Name+"*")
		} else {
			names = append(names, p.Name)
		}
	}
	return strings.Join(names, ",")
}
