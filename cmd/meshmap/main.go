package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/hupe1980/meshmap"
	"github.com/hupe1980/meshmap/config"
)

// Version is set at build time.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "meshmap",
		Usage:   "Match points with the nodes and elements of a partitioned mesh",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Write logs as JSON",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "map",
				Aliases:   []string{"m"},
				Usage:     "Map the points of a case file onto its origin mesh",
				ArgsUsage: "<case.toml>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Mapping mode (nearest_neighbor, nearest_element); overrides the case file",
					},
					&cli.StringFlag{
						Name:  "index",
						Value: meshmap.IndexBins.String(),
						Usage: "Spatial index (bins, flat)",
					},
					&cli.IntFlag{
						Name:    "ranks",
						Aliases: []string{"n"},
						Value:   1,
						Usage:   "Number of partitions searched concurrently",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Worker slots shared by all ranks (0 = GOMAXPROCS)",
					},
					&cli.IntFlag{
						Name:  "memory-limit-mb",
						Usage: "Scratch memory limit shared by all ranks (0 = unlimited)",
					},
					&cli.Float64Flag{
						Name:  "tolerance",
						Usage: "Local coordinate tolerance of the projection test (0 = default)",
					},
					&cli.IntFlag{
						Name:  "echo-level",
						Usage: "Search verbosity; overrides the case file",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output results as JSON",
					},
				},
				Action: mapCommand,
			},
			{
				Name:      "settings",
				Usage:     "Validate a settings file and print it normalized",
				ArgsUsage: "<settings.toml>",
				Action:    settingsCommand,
			},
		},
	}
}

func loggerFromFlags(c *cli.Context) (*meshmap.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.String("log-level"), err)
	}

	if c.Bool("log-json") {
		return meshmap.NewJSONLogger(level), nil
	}
	return meshmap.NewTextLogger(level), nil
}

func mapCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one case file", 2)
	}

	logger, err := loggerFromFlags(c)
	if err != nil {
		return err
	}

	cf, err := loadCase(c.Args().First())
	if err != nil {
		return err
	}

	modeName := cf.Mode
	if c.IsSet("mode") {
		modeName = c.String("mode")
	}
	if modeName == "" {
		modeName = meshmap.ModeNearestNeighbor.String()
	}
	mode, err := meshmap.ParseMode(modeName)
	if err != nil {
		return err
	}

	indexType, err := meshmap.ParseIndexType(c.String("index"))
	if err != nil {
		return err
	}

	if c.IsSet("echo-level") {
		cf.Settings.EchoLevel = c.Int("echo-level")
	}

	rep, err := runCase(c.Context, cf, runOptions{
		mode:      mode,
		indexType: indexType,
		ranks:     c.Int("ranks"),
		workers:   c.Int("workers"),
		memoryMB:  c.Int("memory-limit-mb"),
		tolerance: c.Float64("tolerance"),
		logger:    logger,
	})
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return writeJSON(c.App.Writer, rep)
	}
	return writeText(c.App.Writer, rep)
}

func settingsCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one settings file", 2)
	}

	s, err := config.LoadFile(c.Args().First())
	if err != nil {
		return err
	}

	return s.Encode(c.App.Writer)
}

func writeJSON(w io.Writer, rep *report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func writeText(w io.Writer, rep *report) error {
	fmt.Fprintf(w, "mode=%s ranks=%d iterations=%d conforming=%t radius=%g unmatched=%d candidates=%d\n",
		rep.Mode, rep.Ranks, rep.Iterations, rep.Conforming, rep.SearchRadius, rep.Unmatched, rep.Candidates)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POINT\tRANK\tMATCH\tOBJECT\tDISTANCE\tNODES\tWEIGHTS")
	for _, p := range rep.Points {
		if !p.Found {
			fmt.Fprintf(tw, "%d\t%d\tnone\t-\t-\t-\t-\n", p.Index, p.Rank)
			continue
		}

		kind := "exact"
		if p.Approximate {
			kind = "approx"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%.6g\t%s\t%s\n",
			p.Index, p.Rank, kind, p.ObjectID, *p.Distance, joinInts(p.NodeIDs), joinFloats(p.Weights))
	}

	return tw.Flush()
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ",")
}

func joinFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.4g", x)
	}
	return strings.Join(parts, ",")
}
