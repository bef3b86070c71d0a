package alerts

import (
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"
	"nathanbeddoewebdev/skyglass/internal/alerthistory"

	"github.com/spf13/cobra"
)

func HistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent alert resolutions",
		Long: `List alert resolutions stored locally, most recent first. When a
subscription is selected only its resolutions are shown.

Examples:
  skyglass alerts history
  skyglass alerts history --limit 50
  skyglass alerts history -o json`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}
	output, _ := cmd.Flags().GetString("output")
	output, err := cmdutil.CheckOutput(output)
	if err != nil {
		return err
	}

	repo, err := alerthistory.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	var entries []alerthistory.Resolution
	if sub := cmdutil.Subscription(cmd); sub != "" {
		entries, err = repo.ListBySubscription(sub, limit)
	} else {
		entries, err = repo.List(limit)
	}
	if err != nil {
		return err
	}

	if output == "json" {
		return cmdutil.WriteJSON(cmd.OutOrStdout(), entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No resolved alerts found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSUBSCRIPTION\tALERT\tSEVERITY\tTITLE\tRESOURCE")
	fmt.Fprintln(w, "----\t------------\t-----\t--------\t-----\t--------")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ResolvedAt.Local().Format("2006-01-02 15:04:05"),
			e.Subscription,
			e.AlertID,
			e.Severity,
			e.Title,
			orDash(e.Resource),
		)
	}
	w.Flush()
	return nil
}
