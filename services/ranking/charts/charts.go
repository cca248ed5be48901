// Package charts turns ranking datasets into echarts option specs for
// the dashboard front end.
package charts

import (
	"io"
	"slices"

	"starboard-backend/lib/scrapers/aoc"
	"starboard-backend/services/ranking"

	"gonum.org/v1/gonum/stat"
)

const chartHeight = "500px"

// Campus palette lifted from the ranking site's branding.
var campusColors = map[string]string{
	"UDZ": "#00FF00",
	"BCN": "#FFD700",
	"MAL": "#00FFFF",
	"MAD": "#FF00FF",
}

const (
	allSeriesColor = "#FFFFFF"
	fallbackColor  = "#808080"
	goldColor      = "#FFD700"
	silverColor    = "#C0C0C0"
)

// CampusColor resolves the display color for a campus series. Unknown
// campuses fall back to a neutral gray.
func CampusColor(campus string) string {
	if campus == ranking.AllCampuses {
		return allSeriesColor
	}
	if color, ok := campusColors[campus]; ok {
		return color
	}
	return fallbackColor
}

// Chart is the slice of the go-echarts surface the HTTP API and CLI
// consume. A validated chart marshals straight into its echarts option
// document, the same one Render embeds in HTML.
type Chart interface {
	Validate()
	Render(w io.Writer) error
}

// Builder names one chart constructor.
type Builder struct {
	Name  string
	Build func(ds aoc.Dataset) Chart
}

// Builders lists every chart the dashboard exposes, in display order.
var Builders = []Builder{
	{Name: "stars_distribution", Build: func(ds aoc.Dataset) Chart { return StarsDistribution(ds) }},
	{Name: "star_totals_by_campus", Build: func(ds aoc.Dataset) Chart { return StarTotalsByCampus(ds) }},
	{Name: "success_rate_by_campus", Build: func(ds aoc.Dataset) Chart { return SuccessRateByCampus(ds) }},
	{Name: "points_vs_days", Build: func(ds aoc.Dataset) Chart { return PointsVsDays(ds) }},
	{Name: "campus_radar", Build: func(ds aoc.Dataset) Chart { return CampusRadar(ds) }},
	{Name: "points_distribution", Build: func(ds aoc.Dataset) Chart { return PointsDistribution(ds) }},
	{Name: "completion_heatmap", Build: func(ds aoc.Dataset) Chart { return CompletionHeatmap(ds) }},
	{Name: "top_participants", Build: func(ds aoc.Dataset) Chart { return TopParticipantsBar(ds, 10) }},
}

// Names returns the registered chart names in display order.
func Names() []string {
	names := make([]string, len(Builders))
	for i, builder := range Builders {
		names[i] = builder.Name
	}
	return names
}

// Build constructs the named chart from the dataset. The bool is false
// when no builder goes by that name.
func Build(name string, ds aoc.Dataset) (Chart, bool) {
	for _, builder := range Builders {
		if builder.Name == name {
			chart := builder.Build(ds)
			// Validate folds the axis data into the option tree, which
			// Render only does lazily. JSON consumers read the tree as is.
			chart.Validate()
			return chart, true
		}
	}
	return nil, false
}

// fiveNumbers reduces values to the [min, q1, median, q3, max] summary
// echarts box plots consume. An empty input yields an all-zero box.
func fiveNumbers(values []float64) []float64 {
	if len(values) == 0 {
		return []float64{0, 0, 0, 0, 0}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return []float64{
		sorted[0],
		stat.Quantile(0.25, stat.LinInterp, sorted, nil),
		stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		stat.Quantile(0.75, stat.LinInterp, sorted, nil),
		sorted[len(sorted)-1],
	}
}
