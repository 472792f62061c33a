package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/sells-group/bloominghealth/internal/config"
	"github.com/sells-group/bloominghealth/internal/forecast"
	"github.com/sells-group/bloominghealth/internal/intensity"
	"github.com/sells-group/bloominghealth/internal/layout"
	"github.com/sells-group/bloominghealth/internal/provider"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Inspect zone classifications and map layouts",
}

var (
	zonesYear     int
	zonesPalette  string
	zonesSelected string
	zonesStep     float64
	zonesStrategy string
	zonesMethod   string
)

var zonesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List zones with their intensity tier and color",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listZones(cmd.OutOrStdout(), cfg, zonesYear, zonesPalette)
	},
}

var zonesClassifyCmd = &cobra.Command{
	Use:   "classify <intensity>...",
	Short: "Classify bloom intensity percentages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return classifyValues(cmd.OutOrStdout(), cfg, args, zonesPalette)
	},
}

var zonesLayoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print map render descriptors as JSON",
	Long:  "Lays out the zones of a year with the radial or anchors strategy, or exports the anchors as GeoJSON.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return layoutZones(cmd.OutOrStdout(), cfg, zonesYear, zonesStrategy, zonesSelected, zonesStep)
	},
}

var zonesForecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project next year's zone intensities",
	Long:  "Projects each zone one year past --year and scores every method by holding out the latest year.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return forecastZones(cmd.OutOrStdout(), cfg, zonesYear, zonesMethod, zonesPalette)
	},
}

func printerFor(cfg *config.Config) *message.Printer {
	return intensity.Printer(cfg.Display.Locale)
}

// resolveYear maps 0 to the latest year with data.
func resolveYear(p *provider.Static, year int) int {
	if year != 0 {
		return year
	}
	latest, _ := p.LatestYear()
	return latest
}

func listZones(w io.Writer, cfg *config.Config, year int, paletteName string) error {
	p, err := provider.Load()
	if err != nil {
		return err
	}
	year = resolveYear(p, year)
	if paletteName == "" {
		paletteName = cfg.Display.Palette
	}
	palette := intensity.PaletteByName(paletteName)
	pr := printerFor(cfg)

	zones := p.ListZones(year)
	if len(zones) == 0 {
		_, err := fmt.Fprintf(w, "No zones for %d.\n", year)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tINTENSITY\tTIER\tCOLOR")
	for _, z := range zones {
		c := intensity.Classify(z.BloomIntensity)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			z.ID, z.Name, pr.Sprintf("%d%%", z.BloomIntensity), c.Tier.Label(pr), palette.Render(c.Color))
	}
	return tw.Flush()
}

func classifyValues(w io.Writer, cfg *config.Config, args []string, paletteName string) error {
	if paletteName == "" {
		paletteName = cfg.Display.Palette
	}
	palette := intensity.PaletteByName(paletteName)
	pr := printerFor(cfg)

	values := make([]int, 0, len(args))
	for _, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return eris.Wrapf(err, "zones classify: invalid intensity %q", a)
		}
		values = append(values, v)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INTENSITY\tTIER\tCOLOR")
	for _, v := range values {
		c := intensity.Classify(v)
		fmt.Fprintf(tw, "%d\t%s\t%s\n", v, c.Tier.Label(pr), palette.Render(c.Color))
	}
	return tw.Flush()
}

func layoutZones(w io.Writer, cfg *config.Config, year int, strategy, selected string, step float64) error {
	p, err := provider.Load()
	if err != nil {
		return err
	}
	zones := p.ListZones(resolveYear(p, year))
	engine := cfg.Engine()

	var out any
	switch strategy {
	case "geojson":
		fc, err := layout.FeatureCollection(engine.Anchors(zones, selected))
		if err != nil {
			return err
		}
		out = fc
	default:
		s, ok := layout.ParseStrategy(strategy)
		if !ok {
			return eris.Errorf("zones layout: unknown strategy %q (want radial, anchors, or geojson)", strategy)
		}
		out = engine.Layout(s, zones, step, selected)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return eris.Wrap(err, "zones layout: encode")
	}
	return nil
}

func forecastZones(w io.Writer, cfg *config.Config, year int, methodName, paletteName string) error {
	method, ok := forecast.ParseMethod(methodName)
	if !ok {
		return eris.Errorf("zones forecast: unknown method %q (want linear or naive)", methodName)
	}
	p, err := provider.Load()
	if err != nil {
		return err
	}
	year = resolveYear(p, year)
	if paletteName == "" {
		paletteName = cfg.Display.Palette
	}
	palette := intensity.PaletteByName(paletteName)
	pr := printerFor(cfg)

	history := forecast.History(p, year)
	if len(history) == 0 {
		_, err := fmt.Fprintf(w, "No zones for %d.\n", year)
		return err
	}
	proj := forecast.Project(history, method)

	fmt.Fprintf(w, "Forecast %d from %d (%s)\n\n", proj.Year, proj.BaseYear, proj.Method)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLAST\tPREDICTED\tTIER\tCOLOR\tSLOPE")
	for _, z := range proj.Zones {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%+.1f\n",
			z.ID, z.Name, pr.Sprintf("%d%%", z.LastIntensity), pr.Sprintf("%d%%", z.Intensity),
			z.Tier.Label(pr), palette.Render(z.Tier.Color()), z.Slope)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	var scores []forecast.Validation
	for _, m := range forecast.Methods() {
		if v, ok := forecast.Validate(history, m); ok {
			scores = append(scores, v)
		}
	}
	best, ok := forecast.Best(scores)
	if !ok {
		_, err := fmt.Fprintln(w, "\nNot enough history to validate.")
		return err
	}

	fmt.Fprintf(w, "\nHoldout %d\n", best.HoldoutYear)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tMAE\tRMSE\tMAPE")
	for _, v := range scores {
		mark := ""
		if v.Method == best.Method {
			mark = "best"
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.1f%%\t%s\n", v.Method, v.Errors.MAE, v.Errors.RMSE, v.Errors.MAPE, mark)
	}
	return tw.Flush()
}

func init() {
	zonesListCmd.Flags().IntVar(&zonesYear, "year", 0, "snapshot year (default latest)")
	zonesListCmd.Flags().StringVar(&zonesPalette, "palette", "", "color palette: tailwind or hex (default from config)")

	zonesClassifyCmd.Flags().StringVar(&zonesPalette, "palette", "", "color palette: tailwind or hex (default from config)")

	zonesLayoutCmd.Flags().IntVar(&zonesYear, "year", 0, "snapshot year (default latest)")
	zonesLayoutCmd.Flags().StringVar(&zonesSelected, "selected", "", "zone id to highlight")
	zonesLayoutCmd.Flags().Float64Var(&zonesStep, "step", 0, "radial angle step in degrees (default 360/N)")
	zonesLayoutCmd.Flags().StringVar(&zonesStrategy, "strategy", "radial", "layout strategy: radial, anchors, or geojson")

	zonesForecastCmd.Flags().IntVar(&zonesYear, "year", 0, "last observed year (default latest)")
	zonesForecastCmd.Flags().StringVar(&zonesMethod, "method", "linear", "projection method: linear or naive")
	zonesForecastCmd.Flags().StringVar(&zonesPalette, "palette", "", "color palette: tailwind or hex (default from config)")

	zonesCmd.AddCommand(zonesListCmd, zonesClassifyCmd, zonesLayoutCmd, zonesForecastCmd)
	rootCmd.AddCommand(zonesCmd)
}
