package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pulsekpi/pulse/internal/httputil"
)

// trendChart renders an account's score history as an HTML line chart.
// This is an operator convenience view; dashboards consume the JSON
// trends endpoint instead.
func (s *Server) trendChart(w http.ResponseWriter, r *http.Request) {
	accountID, ok := s.accountFromPath(w, r)
	if !ok {
		return
	}

	points, err := s.db.TrendsForAccount(accountID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load trends: %v", err))
		return
	}
	if len(points) == 0 {
		httputil.NotFound(w, fmt.Sprintf("no trend snapshots for account %d", accountID))
		return
	}

	labels := make([]string, 0, len(points))
	scores := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		labels = append(labels, fmt.Sprintf("%d-%02d", p.Year, p.Month))
		scores = append(scores, opts.LineData{Value: p.OverallScore})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Account Health Trend", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Account %d Health Trend", accountID),
			Subtitle: fmt.Sprintf("periods=%d latest=%s", len(points), points[len(points)-1].HealthStatus),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 100, Name: "Score"}),
	)

	// Reference lines at the status thresholds make band transitions
	// visible without reading the numbers.
	line.SetXAxis(labels).
		AddSeries("overall score", scores,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
			charts.WithMarkLineNameYAxisItemOpts(
				opts.MarkLineNameYAxisItem{Name: "healthy", YAxis: 70},
				opts.MarkLineNameYAxisItem{Name: "at risk", YAxis: 50},
			),
		)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
