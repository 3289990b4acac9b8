package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"climbcheck/internal/analysis"
	"climbcheck/internal/service"
	"climbcheck/internal/store"
	"climbcheck/internal/track"
)

var errNoCatalogue = errors.New("no climb catalogue imported; run: climbcheck import climbs.csv")

// requireCatalogue turns an empty store into an actionable error
func requireCatalogue(e *env) error {
	if !e.climbs.Status().Ready() {
		return errNoCatalogue
	}
	return nil
}

func listCmd(rider *riderFlags) *cobra.Command {
	var tier, search, sortBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List climbs with their suitability for the rider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := service.Filter{Search: search}
			if tier != "" {
				s, ok := analysis.ParseSuitability(tier)
				if !ok {
					return fmt.Errorf("unknown tier %q (want friendly, challenging or brutal)", tier)
				}
				filter.Suitability = &s
			}
			if sortBy != "" {
				o, ok := service.ParseSortOrder(sortBy)
				if !ok {
					return fmt.Errorf("unknown sort order %q", sortBy)
				}
				filter.Sort = o
			}

			e, err := openEnv(cmd, rider)
			if err != nil {
				return err
			}
			defer e.Close()
			if err := requireCatalogue(e); err != nil {
				return err
			}

			printClimbTable(os.Stdout, e.climbs.Query(filter))
			return nil
		},
	}

	cmd.Flags().StringVarP(&tier, "tier", "t", "", "only show friendly, challenging or brutal climbs")
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name or location")
	cmd.Flags().StringVar(&sortBy, "sort", "", "catalogue, name, distance or difficulty")
	return cmd
}

func showCmd(rider *riderFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show the full effort breakdown for one climb",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, rider)
			if err != nil {
				return err
			}
			defer e.Close()
			if err := requireCatalogue(e); err != nil {
				return err
			}

			detail, err := e.climbs.Detail(args[0])
			if errors.Is(err, store.ErrClimbNotFound) {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err != nil {
				return err
			}
			printClimbDetail(os.Stdout, detail)
			return nil
		},
	}
}

func importCmd(rider *riderFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the climb catalogue with a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, rider)
			if err != nil {
				return err
			}
			defer e.Close()

			imported, err := e.climbs.Import(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d climbs from %s (batch %s)\n", imported.ClimbCount, imported.Source, imported.ID)

			counts := e.climbs.CountBySuitability()
			fmt.Printf("  %d friendly, %d challenging, %d brutal\n",
				counts[analysis.Friendly], counts[analysis.Challenging], counts[analysis.Brutal])
			return nil
		},
	}
}

func profileCmd(rider *riderFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show, change or export the rider profile",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active rider profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd, rider)
			if err != nil {
				return err
			}
			defer e.Close()

			printRider(os.Stdout, e.climbs.Rider())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Save the rider flags as the new profile, e.g. profile set --ftp 250",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !rider.changed(cmd.Flags()) {
				return errors.New("no profile values given; see climbcheck profile set --help")
			}

			e, err := openEnv(cmd, rider)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.climbs.SetRider(e.climbs.Rider()); err != nil {
				return err
			}
			fmt.Println("Rider profile saved.")
			printRider(os.Stdout, e.climbs.Rider())
			return nil
		},
	})

	var format string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the active rider profile as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd, rider)
			if err != nil {
				return err
			}
			defer e.Close()

			return exportRider(os.Stdout, e.climbs.Rider(), format)
		},
	}
	export.Flags().StringVarP(&format, "format", "f", "json", "json or yaml")
	cmd.AddCommand(export)

	return cmd
}

func exportRider(w io.Writer, p store.RiderProfile, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func convertCmd() *cobra.Command {
	var (
		start, end     string
		name, location string
		outDir         string
	)
	opts := track.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "convert TRACK",
		Short: "Reduce a GPX, FIT or paths CSV track to an importable climb row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.ConvertRequest{
				TrackPath: args[0],
				Options:   opts,
				Name:      name,
				Location:  location,
				OutputDir: outDir,
			}

			var err error
			if start != "" {
				if req.Start, err = track.ParseTime(start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
			}
			if end != "" {
				if req.End, err = track.ParseTime(end); err != nil {
					return fmt.Errorf("--end: %w", err)
				}
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, sink := newLogger(cfg.Log)
			defer sink.Close()

			progress := make(chan service.ConvertProgress, 4)
			done := make(chan struct{})
			go func() {
				defer close(done)
				for p := range progress {
					fmt.Fprintf(os.Stderr, "%-7s %d points\n", p.Phase, p.Points)
				}
			}()

			result, err := service.NewConvertService(logger).Convert(cmd.Context(), req, progress)
			<-done
			if err != nil {
				return err
			}

			printConvertResult(os.Stdout, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "ignore points before this time (RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "ignore points after this time (RFC 3339)")
	cmd.Flags().IntVar(&opts.SmoothingPoints, "smooth", opts.SmoothingPoints, "elevation moving-average half width, 0 disables")
	cmd.Flags().Float64Var(&opts.MinSegmentMeters, "min-seg", opts.MinSegmentMeters, "minimum segment length in metres for gradients")
	cmd.Flags().StringVar(&name, "name", "", "climb name (default: track file name)")
	cmd.Flags().StringVar(&location, "location", "", "climb location (default: track directory name)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: track directory)")
	return cmd
}
