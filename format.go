package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"climbcheck/internal/analysis"
	"climbcheck/internal/service"
	"climbcheck/internal/store"
)

func printClimbTable(w io.Writer, climbs []analysis.EnrichedClimb) {
	if len(climbs) == 0 {
		fmt.Fprintln(w, "No climbs match.")
		return
	}

	rows := make([][]string, 0, len(climbs))
	for _, c := range climbs {
		effort := fmt.Sprintf("%.0f%%", c.DifficultyRatio()*100)
		if c.BurstWarningRatio != nil {
			effort += " !"
		}
		rows = append(rows, []string{
			c.Name,
			c.Location,
			fmt.Sprintf("%.1f", c.Climb.DistanceKm),
			fmt.Sprintf("%.1f", c.Climb.AvgGradientPct),
			fmt.Sprintf("%.1f", c.Climb.MaxGradientPct),
			analysis.FormatDuration(c.ClimbTimeSeconds),
			c.Suitability.String(),
			effort,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Name", "Location", "km", "Avg%", "Max%", "Time", "Suitability", "Effort").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d climbs  (! = burst warning)\n", len(climbs))
}

func printClimbDetail(w io.Writer, d *service.ClimbDetail) {
	e := d.Climb
	c := e.Climb

	fmt.Fprintf(w, "%s", e.Name)
	if e.Location != "" {
		fmt.Fprintf(w, " (%s)", e.Location)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %.2f km, %.0f m ascent, avg %.1f%%, max %.1f%%\n\n",
		c.DistanceKm, c.TotalAscentMeters, c.AvgGradientPct, c.MaxGradientPct)

	fmt.Fprintf(w, "  %-18s %s: %s\n", "Suitability", e.Suitability, e.Suitability.Description())
	fmt.Fprintf(w, "  %-18s %.1f km/h\n", "Minimum speed", analysis.MpsToKmh(e.MinSpeedMps))
	fmt.Fprintf(w, "  %-18s %s\n", "Climb time", analysis.FormatDuration(e.ClimbTimeSeconds))
	fmt.Fprintf(w, "  %-18s %.0f W (%.0f%% FTP)\n", "Average power", e.AveragePowerWatts, e.AverageFtpRatio*100)
	fmt.Fprintf(w, "  %-18s %.0f%% FTP\n", "Sustained effort", e.SustainedFtpRatio*100)
	fmt.Fprintf(w, "  %-18s %.0f W (%.0f%% FTP)\n", "Peak power", e.PeakPowerWatts, e.PeakFtpRatio*100)
	if e.BurstWarningRatio != nil {
		fmt.Fprintf(w, "\n  Burst warning: the steepest section needs %.0f%% of FTP\n", *e.BurstWarningRatio*100)
	}

	var printed bool
	for _, bar := range d.Histogram {
		if bar.DistanceKm <= 0 {
			continue
		}
		if !printed {
			fmt.Fprintln(w, "\n  Distance at or above gradient:")
			printed = true
		}
		fmt.Fprintf(w, "    >=%2d%%  %6.2f km  (%3.0f%%)\n", bar.Threshold, bar.DistanceKm, bar.Percent)
	}
}

func printRider(w io.Writer, p store.RiderProfile) {
	r := analysis.NormalizeRider(p, analysis.DefaultPhysics())

	fmt.Fprintf(w, "  %-22s %.0f W\n", "FTP", p.FTPWatts)
	fmt.Fprintf(w, "  %-22s %.1f kg\n", "Rider weight", p.RiderWeightKg)
	fmt.Fprintf(w, "  %-22s %.1f kg\n", "Bike weight", p.BikeWeightKg)
	fmt.Fprintf(w, "  %-22s %.1f kg\n", "Cargo weight", p.CargoWeightKg)
	fmt.Fprintf(w, "  %-22s %.0f\n", "Chainring teeth", p.FrontChainringTeeth)
	fmt.Fprintf(w, "  %-22s %.0f\n", "Largest sprocket teeth", p.RearSprocketTeeth)
	fmt.Fprintf(w, "  %-22s %.0f mm\n", "Wheel circumference", p.WheelCircumferenceMm)
	fmt.Fprintf(w, "  %-22s %.0f rpm\n", "Minimum cadence", p.MinCadenceRpm)
	fmt.Fprintf(w, "  %-22s %.1f km/h\n", "Minimum speed", analysis.MpsToKmh(analysis.MinSpeed(r)))
}

func printConvertResult(w io.Writer, r *service.ConvertResult) {
	s := r.Stats
	fmt.Fprintf(w, "%d points, %.2f km, %.0f m ascent, avg %.1f%%, max %.1f%%\n",
		r.Points, s.DistanceKm(), s.TotalAscentMeters, s.AvgGradientPct, s.MaxGradientPct)
	fmt.Fprintf(w, "  wrote %s\n", r.SlopesPath)
	fmt.Fprintf(w, "  wrote %s\n", r.PathsPath)
}
