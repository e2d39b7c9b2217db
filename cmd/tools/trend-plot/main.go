// trend-plot renders an account's health score history to a PNG for
// offline reports and QBR decks.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "modernc.org/sqlite"

	"github.com/pulsekpi/pulse/internal/db"
	"github.com/pulsekpi/pulse/internal/trend"
)

var (
	dbPath    = flag.String("db", "pulse.db", "Path to the SQLite database")
	accountID = flag.Int64("account", 0, "Account id to plot")
	output    = flag.String("o", "", "Output PNG path (default trend_<account>.png)")
)

func main() {
	flag.Parse()

	if *accountID < 1 {
		log.Fatal("-account is required")
	}
	outFile := *output
	if outFile == "" {
		outFile = fmt.Sprintf("trend_%d.png", *accountID)
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	points, err := database.TrendsForAccount(*accountID)
	if err != nil {
		log.Fatalf("Failed to load trends: %v", err)
	}
	if len(points) == 0 {
		log.Fatalf("No trend snapshots for account %d", *accountID)
	}

	scores := make([]float64, len(points))
	pts := make(plotter.XYs, len(points))
	for i, p := range points {
		scores[i] = p.OverallScore
		pts[i] = plotter.XY{X: float64(i), Y: p.OverallScore}
	}
	summary := trend.Summarize(scores)

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("Account %d Health Trend (%s, slope %.2f/period)",
		*accountID, summary.Direction, summary.Slope)
	pl.X.Label.Text = "Period"
	pl.Y.Label.Text = "Overall Score"
	pl.Y.Min = 0
	pl.Y.Max = 100

	line, err := plotter.NewLine(pts)
	if err != nil {
		log.Fatalf("Failed to build line: %v", err)
	}
	line.Width = vg.Points(1)
	line.Color = color.RGBA{B: 255, A: 255}
	pl.Add(line)

	// Horizontal threshold markers at the status boundaries.
	for _, threshold := range []struct {
		y float64
		c color.RGBA
	}{
		{70, color.RGBA{G: 160, A: 255}},
		{50, color.RGBA{R: 200, A: 255}},
	} {
		marker := plotter.XYs{
			{X: 0, Y: threshold.y},
			{X: float64(len(points) - 1), Y: threshold.y},
		}
		tl, err := plotter.NewLine(marker)
		if err != nil {
			log.Fatalf("Failed to build threshold line: %v", err)
		}
		tl.Width = vg.Points(1)
		tl.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		tl.Color = threshold.c
		pl.Add(tl)
	}

	if err := pl.Save(10*vg.Inch, 5*vg.Inch, outFile); err != nil {
		log.Fatalf("Failed to save plot: %v", err)
	}
	fmt.Printf("Wrote %s (%d periods, mean %.1f)\n", outFile, summary.Count, summary.Mean)
}
