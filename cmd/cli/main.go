package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"yearbars/app"
	"yearbars/internal/analysis"
	"yearbars/internal/config"
	"yearbars/internal/container"
	"yearbars/internal/testkit"
	"yearbars/ui"
)

type globalFlags struct {
	lenient  bool
	logLevel string
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "warning: .env:", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "yearbars",
		Short:         "Draw yearly male/female counts from a spreadsheet as an SVG bar chart",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&flags.lenient, "lenient", false, "Render unreadable cells as NaN instead of failing")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "ERROR|WARN|INFO|DEBUG|TRACE (default from LOG_LEVEL)")

	rootCmd.AddCommand(
		newRenderCmd(flags),
		newSummaryCmd(flags),
		newSampleCmd(),
		newServeCmd(flags),
	)
	return rootCmd
}

// buildContainer loads env configuration and applies the global flags
func buildContainer(flags *globalFlags) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.lenient {
		cfg.Chart.Extract.Strict = false
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	return container.New(cfg)
}

func newRenderCmd(flags *globalFlags) *cobra.Command {
	var output string
	var jobs int

	cmd := &cobra.Command{
		Use:   "render [file...]",
		Short: "Render one chart per spreadsheet",
		Long: `Render one SVG chart per spreadsheet.

With a single input, --output names the file ("-" writes to stdout). With
several inputs --output is a directory and each chart is written next to
its name with an .svg extension.

Example: yearbars render suicides.xlsx -o suicides.svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(flags)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), c.Charts, args, output, jobs, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, directory, or - for stdout")
	cmd.Flags().IntVar(&jobs, "jobs", 4, "Maximum files rendered concurrently")
	return cmd
}

func runRender(ctx context.Context, charts *app.ChartService, inputs []string, output string, jobs int, stdout io.Writer) error {
	if len(inputs) > 1 && output == "-" {
		return fmt.Errorf("cannot write %d charts to stdout", len(inputs))
	}

	dests := make(map[string]string, len(inputs))
	if output != "-" {
		seen := make(map[string]string, len(inputs))
		for _, input := range inputs {
			dest := outputPath(input, output, len(inputs) > 1)
			if prev, ok := seen[filepath.Clean(dest)]; ok {
				return fmt.Errorf("%s and %s would both be written to %s", prev, input, dest)
			}
			seen[filepath.Clean(dest)] = input
			dests[input] = dest
		}
	}

	if len(inputs) > 1 && output != "" {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	var stdoutMu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for _, input := range inputs {
		input := input
		g.Go(func() error {
			result, err := charts.Render(ctx, app.FileSource{Path: input})
			if err != nil {
				return err
			}

			if output == "-" {
				stdoutMu.Lock()
				defer stdoutMu.Unlock()
				return result.Document.WriteStandalone(stdout)
			}

			dest := dests[input]
			f, err := os.Create(dest)
			if err != nil {
				return fmt.Errorf("create %s: %w", dest, err)
			}
			if err := result.Document.WriteStandalone(f); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", dest, err)
			}
			if err := f.Close(); err != nil {
				return err
			}

			stdoutMu.Lock()
			fmt.Fprintf(stdout, "%s -> %s (%d years)\n", input, dest, len(result.Points))
			stdoutMu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

// outputPath puts the chart beside its input unless --output says otherwise
func outputPath(input, output string, multi bool) string {
	svgName := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".svg"
	switch {
	case output == "":
		return filepath.Join(filepath.Dir(input), svgName)
	case multi:
		return filepath.Join(output, svgName)
	default:
		return output
	}
}

func newSummaryCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary [file]",
		Short: "Print per-series statistics for a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(flags)
			if err != nil {
				return err
			}
			title, summary, err := c.Charts.Summarize(cmd.Context(), app.FileSource{Path: args[0]})
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{"title": title, "summary": summary})
			}
			printSummary(cmd.OutOrStdout(), title, summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func printSummary(w io.Writer, title string, s analysis.Summary) {
	fmt.Fprintf(w, "%s\n", title)
	if len(s.Series) == 0 {
		fmt.Fprintln(w, "no data points")
		return
	}
	fmt.Fprintf(w, "%d years (%d-%d), peak %d with %.0f\n", s.Years, s.FirstYear, s.LastYear, s.PeakYear, s.PeakTotal)
	fmt.Fprintf(w, "%-8s %6s %10s %10s %10s %10s %12s\n", "series", "n", "min", "max", "mean", "stddev", "sum")
	for _, series := range s.Series {
		fmt.Fprintf(w, "%-8s %6d %10.0f %10.0f %10.1f %10.1f %12.0f\n",
			series.Name, series.Count, series.Min, series.Max, series.Mean, series.StdDev, series.Sum)
	}
	fmt.Fprintf(w, "share %s: %.1f%%\n", s.Series[0].Name, s.MaleShare*100)
}

func newSampleCmd() *cobra.Command {
	var seed int64
	var format string

	cmd := &cobra.Command{
		Use:   "sample [output]",
		Short: "Write a synthetic workbook in the expected layout",
		Long: `Write a synthetic 23-year workbook laid out the way the extractor expects.

Example: yearbars sample demo.xlsx --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := testkit.DefaultSpec(seed)

			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(args[0])), ".")
			}
			var data []byte
			var err error
			switch format {
			case "csv":
				data, err = testkit.CSVBytes(spec)
			case "xlsx", "":
				data, err = testkit.WorkbookBytes(spec)
			default:
				return fmt.Errorf("unsupported sample format %q (use xlsx or csv)", format)
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d years)\n", args[0], len(spec.Points))
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for the generated counts")
	cmd.Flags().StringVar(&format, "format", "", "xlsx or csv (default from the file extension)")
	return cmd
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload page",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(flags)
			if err != nil {
				return err
			}
			if port == "" {
				port = c.Config.Server.Port
			}
			gin.SetMode(c.Config.Server.GinMode)
			server, err := ui.NewServer(c.Charts, ui.Options{MaxUploadBytes: c.Config.Upload.MaxBytes})
			if err != nil {
				return err
			}
			return server.Start(":" + port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (default from PORT)")
	return cmd
}
