package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/bloominghealth/internal/provider"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Inspect the compiled-in reference data",
}

var dataAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check zone records for data entry errors",
	Long:  "Reports out-of-range intensities, duplicate zone ids, and degenerate or self-intersecting boundaries. Findings never fail the command.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := provider.Load()
		if err != nil {
			return err
		}
		return printAudit(cmd.OutOrStdout(), p)
	},
}

func printAudit(w io.Writer, p *provider.Static) error {
	zones := 0
	years := p.ListYears()
	for _, y := range years {
		zones += len(p.ListZones(y))
	}
	fmt.Fprintf(w, "Years: %v  Zones: %d  Flowers: %d  Health alerts: %d\n",
		years, zones, len(p.ListFlowers()), len(p.ListHealthAlerts()))

	issues := p.Issues()
	if len(issues) == 0 {
		_, err := fmt.Fprintln(w, "No issues found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tZONE\tKIND\tDETAIL")
	for _, is := range issues {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", is.Year, is.ZoneID, is.Kind, is.Detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d issue(s) found.\n", len(issues))
	return err
}

func init() {
	dataCmd.AddCommand(dataAuditCmd)
	rootCmd.AddCommand(dataCmd)
}
