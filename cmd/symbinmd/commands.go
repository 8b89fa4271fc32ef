package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"symbinmd/internal/logging"
	"symbinmd/internal/models"
	"symbinmd/pkg/binning"
	"symbinmd/pkg/config"
	"symbinmd/pkg/eventstore"
	"symbinmd/pkg/expansion"
	"symbinmd/pkg/symdb"
	"symbinmd/pkg/symmetry"
	"symbinmd/pkg/visualization"
)

// loadConfig reads --config and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Output.Verbose, _ = cmd.Flags().GetBool("verbose")
	}
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	var eventsPath, outputPath, plotDir string
	var cores int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bin events and accumulate every symmetry-equivalent orientation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				cfg.Output.Database = outputPath
			}
			if cmd.Flags().Changed("plots") {
				cfg.Output.PlotDir = plotDir
			}
			if cmd.Flags().Changed("cores") {
				cfg.Processing.NumCores = cores
			}
			return runBinning(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, eventsPath)
		},
	}
	cmd.Flags().StringVarP(&eventsPath, "events", "e", "", "SQLite database holding the input events")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "SQLite database receiving the histogram (default from config)")
	cmd.Flags().StringVar(&plotDir, "plots", "", "directory for heat-map slices")
	cmd.Flags().IntVar(&cores, "cores", runtime.NumCPU(), "number of CPU cores used for binning")
	if err := cmd.MarkFlagRequired("events"); err != nil {
		panic(err)
	}
	return cmd
}

func runBinning(out, logOut io.Writer, cfg *config.Config, eventsPath string) error {
	log := logging.New(cfg.Output.Verbose, logOut)

	params, err := cfg.ExpansionParams()
	if err != nil {
		return err
	}

	events, err := eventstore.Open(eventsPath)
	if err != nil {
		return fmt.Errorf("error opening event database: %w", err)
	}
	defer events.Close()

	table, err := events.LoadEvents()
	if err != nil {
		return fmt.Errorf("error loading events: %w", err)
	}
	log.WithField("events", table.Len()).Info("Loaded events")

	startTime := time.Now()
	binner := binning.NewEventBinner(table, cfg.Processing.NumCores)
	driver := expansion.NewDriver(params, binner, symdb.New(), log)
	hist, report, err := driver.Run()
	if err != nil {
		return err
	}
	elapsed := time.Since(startTime)

	if cfg.Output.Database != "" {
		if err := saveHistogram(cfg, report, hist); err != nil {
			return err
		}
		log.WithField("database", cfg.Output.Database).Info("Histogram stored")
	}

	if cfg.Output.PlotDir != "" && len(hist.Dims) >= 2 {
		files, err := visualization.NewViewer(hist).SaveSliceSequence(0, 1, cfg.Output.PlotDir)
		if err != nil {
			return fmt.Errorf("error saving slices: %w", err)
		}
		log.WithField("files", len(files)).Info("Slices saved")
	}

	printReport(out, report, hist, elapsed)
	return nil
}

func saveHistogram(cfg *config.Config, report *expansion.Report, hist *models.Histogram) error {
	store, err := eventstore.Open(cfg.Output.Database)
	if err != nil {
		return fmt.Errorf("error opening output database: %w", err)
	}
	defer store.Close()

	rendered, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	meta := eventstore.RunMeta{
		Mode:   report.Mode.String(),
		Params: string(rendered),
		Passes: report.Passes(),
	}
	return store.SaveHistogram(report.RunID, hist, meta)
}

func printReport(out io.Writer, report *expansion.Report, hist *models.Histogram, elapsed time.Duration) {
	fmt.Fprintf(out, "Run %s completed in %.2f seconds\n", report.RunID, elapsed.Seconds())
	fmt.Fprintf(out, "Mode: %s\n", report.Mode)
	if report.Mode == expansion.SpaceGroupMode {
		fmt.Fprintf(out, "Space group: %d (%s), %s frame, point group order %d\n",
			report.SpaceGroup, report.SpaceGroupSymbol, report.LatticeFamily, report.GroupOrder)
	}
	fmt.Fprintf(out, "Binning passes: %d\n", report.Passes())

	s := hist.Summary()
	fmt.Fprintf(out, "Shape: %v\n", hist.Shape())
	fmt.Fprintf(out, "Total signal: %.6g\n", s.TotalSignal)
	fmt.Fprintf(out, "Total events: %.0f\n", s.TotalEvents)
	fmt.Fprintf(out, "Populated bins: %d of %d\n", s.PopulatedBins, hist.Size())
	fmt.Fprintf(out, "Mean signal per populated bin: %.6g (std dev %.6g)\n", s.MeanSignal, s.StdDevSignal)
}

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the binning requests a run would issue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			params, err := cfg.ExpansionParams()
			if err != nil {
				return err
			}

			log := logging.New(cfg.Output.Verbose, cmd.ErrOrStderr())
			report, err := expansion.NewDriver(params, noBinner{}, symdb.New(), log).Plan()
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

// noBinner satisfies the driver while planning; Plan never bins.
type noBinner struct{}

func (noBinner) Bin(binning.Request) (*models.Histogram, error) {
	return nil, fmt.Errorf("%w: planning only", models.ErrBinning)
}

func printPlan(out io.Writer, report *expansion.Report) {
	fmt.Fprintf(out, "Mode: %s\n", report.Mode)
	switch report.Mode {
	case expansion.SpaceGroupMode:
		fmt.Fprintf(out, "Space group: %d (%s), %s frame\n", report.SpaceGroup, report.SpaceGroupSymbol, report.LatticeFamily)
		fmt.Fprintf(out, "Point group order: %d, distinct orientations: %d\n", report.GroupOrder, len(report.Expansion))
	case expansion.ExplicitOpsMode:
		names := make([]string, len(report.Operations))
		for i, op := range report.Operations {
			names[i] = op.String()
		}
		fmt.Fprintf(out, "Operations: %s\n", strings.Join(names, "  "))
	}

	fmt.Fprintf(out, "%3d  %s\n", 0, basisLine(report.Identity))
	for i, req := range report.Expansion {
		fmt.Fprintf(out, "%3d  %s\n", i+1, basisLine(req))
	}
}

func basisLine(req binning.Request) string {
	var parts []string
	for _, s := range req.Basis {
		if s.IsPresent() {
			parts = append(parts, s.String())
		}
	}
	return strings.Join(parts, " | ")
}

func newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the symmetry operations accepted in explicit mode",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, op := range symmetry.Catalog() {
				fmt.Fprintf(out, "%2d  %-10s det %+d\n", int(op), op, op.Matrix().Det())
			}
		},
	}
}

func newShowCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "List stored runs, or summarise one stored histogram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := eventstore.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				ids, err := store.Runs()
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid run id %q: %w", args[0], err)
			}
			hist, meta, err := store.LoadHistogram(id)
			if err != nil {
				return err
			}
			s := hist.Summary()
			fmt.Fprintf(out, "Run %s (%s, %d passes, %s)\n", id, meta.Mode, meta.Passes, meta.CreatedAt.Format(time.RFC3339))
			for _, d := range hist.Dims {
				fmt.Fprintf(out, "  %-12s [%g, %g) x %d\n", d.Name, d.Min, d.Max, d.Bins)
			}
			fmt.Fprintf(out, "Total signal: %.6g, populated bins: %d\n", s.TotalSignal, s.PopulatedBins)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dbPath, "db", "d", "symbinmd.db", "SQLite database holding stored histograms")
	return cmd
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.CreateDefaultConfigFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default configuration written to %s\n", path)
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	var eventsPath string

	cmd := &cobra.Command{
		Use:   "import <events.csv>",
		Short: "Append events from a CSV file (h,k,l,E,signal,errorSq) to the event database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			table, err := readEventsCSV(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			store, err := eventstore.Open(eventsPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.InsertEvents(table); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d events into %s\n", table.Len(), eventsPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&eventsPath, "events", "e", "events.db", "SQLite database receiving the events")
	return cmd
}

// readEventsCSV parses rows of six numbers. Lines starting with '#' are
// skipped.
func readEventsCSV(r io.Reader) (*models.EventTable, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 6
	cr.TrimLeadingSpace = true

	table := models.NewEventTable()
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrFormat, err)
		}

		var vals [6]float64
		for i, field := range rec {
			if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("%w: record %d field %d: %q is not a number", models.ErrFormat, line, i+1, field)
			}
		}
		table.Events = append(table.Events, models.Event{
			Coords:  [4]float64{vals[0], vals[1], vals[2], vals[3]},
			Signal:  vals[4],
			ErrorSq: vals[5],
		})
	}
	return table, nil
}
