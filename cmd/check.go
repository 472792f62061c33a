package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/bloominghealth/internal/probe"
)

var checkCmd = &cobra.Command{
	Use:   "check [target...]",
	Short: "Probe the backend and frontend endpoints",
	Long:  "Issues one GET per host:port/path target and prints the status and the start of the body. Defaults to the configured probe targets.",
	RunE: func(cmd *cobra.Command, args []string) error {
		targets := args
		if len(targets) == 0 {
			targets = cfg.Probe.Targets
		}
		report := probe.New(nil, cfg.ProbeTimeout()).Run(cmd.Context(), targets)
		return printReport(cmd.OutOrStdout(), report)
	},
}

func printReport(w io.Writer, report probe.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tSTATUS\tRESULT")
	for _, r := range report.Results {
		status := "-"
		if r.Status != 0 {
			status = fmt.Sprintf("%d", r.Status)
		}
		result := r.Err
		if result == "" {
			result = oneLine(r.Snippet)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.URL, status, result)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "run %s: %d/%d ok\n",
		report.RunID, len(report.Results)-report.Failed(), len(report.Results))
	return err
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
