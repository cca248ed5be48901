package charts

import (
	"fmt"
	"strconv"

	"starboard-backend/lib/scrapers/aoc"
	"starboard-backend/services/ranking"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// StarsDistribution summarizes how gold and silver stars spread across
// participants as a pair of box plots.
func StarsDistribution(ds aoc.Dataset) *charts.BoxPlot {
	gold := make([]float64, 0, len(ds))
	silver := make([]float64, 0, len(ds))
	for _, row := range ds {
		gold = append(gold, float64(row.GoldStars))
		silver = append(silver, float64(row.SilverStars))
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Stars Distribution"}),
		charts.WithInitializationOpts(opts.Initialization{Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Stars"}),
	)
	box.SetXAxis([]string{"Gold", "Silver"}).AddSeries("stars", []opts.BoxPlotData{
		{Name: "Gold", Value: fiveNumbers(gold)},
		{Name: "Silver", Value: fiveNumbers(silver)},
	}, charts.WithItemStyleOpts(opts.ItemStyle{Color: goldColor}))
	return box
}

// StarTotalsByCampus charts per-day star totals, one line per campus
// plus a heavier ALL line on top.
func StarTotalsByCampus(ds aoc.Dataset) *charts.Line {
	day := ds.DayCount()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Total Stars by Campus per Day"}),
		charts.WithInitializationOpts(opts.Initialization{Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Day"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Stars"}),
	)
	line.SetXAxis(dayLabels(day))
	line.AddSeries(ranking.AllCampuses, starTotals(ds, day),
		charts.WithLineStyleOpts(opts.LineStyle{Color: allSeriesColor, Width: 4}))
	for _, campus := range ds.Campuses() {
		line.AddSeries(campus, starTotals(ranking.FilterCampus(ds, campus), day),
			charts.WithLineStyleOpts(opts.LineStyle{Color: CampusColor(campus)}))
	}
	return line
}

// SuccessRateByCampus plots the share of participants holding at least
// one star on each day, overall and per campus.
func SuccessRateByCampus(ds aoc.Dataset) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Daily Success Rate by Campus"}),
		charts.WithInitializationOpts(opts.Initialization{Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Day"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Success Rate (%)", Max: 100}),
	)

	series := map[string][]opts.LineData{}
	var order []string
	for _, rate := range ranking.DailySuccessRates(ds) {
		if _, seen := series[rate.Campus]; !seen {
			order = append(order, rate.Campus)
		}
		series[rate.Campus] = append(series[rate.Campus], opts.LineData{Value: rate.Rate})
	}

	line.SetXAxis(dayLabels(ds.DayCount()))
	for _, campus := range order {
		line.AddSeries(campus, series[campus],
			charts.WithLineStyleOpts(opts.LineStyle{Color: CampusColor(campus)}))
	}
	return line
}

// PointsVsDays scatters each participant by days with stars against
// points, with symbols sized by total stars.
func PointsVsDays(ds aoc.Dataset) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Points vs Days with Stars"}),
		charts.WithInitializationOpts(opts.Initialization{Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Days with Stars"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Points"}),
	)
	for _, campus := range ds.Campuses() {
		rows := ranking.FilterCampus(ds, campus)
		data := make([]opts.ScatterData, 0, len(rows))
		for _, row := range rows {
			data = append(data, opts.ScatterData{
				Name:       row.Login,
				Value:      []interface{}{row.CompletedDays, row.Points},
				SymbolSize: 5 + row.TotalStars,
			})
		}
		scatter.AddSeries(campus, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: CampusColor(campus)}))
	}
	return scatter
}

// CampusRadar compares campuses across mean points, streak, days with
// stars and star counts on one polar grid.
func CampusRadar(ds aoc.Dataset) *charts.Radar {
	campuses := ds.Campuses()
	means := make(map[string][]float64, len(campuses))
	maxes := make([]float64, 5)
	for _, campus := range campuses {
		m := campusMeans(ranking.FilterCampus(ds, campus))
		means[campus] = m
		for i, v := range m {
			if v > maxes[i] {
				maxes[i] = v
			}
		}
	}

	axes := []string{"Points", "Streak", "Days with Stars", "Gold Stars", "Silver Stars"}
	indicators := make([]*opts.Indicator, len(axes))
	for i, name := range axes {
		// echarts cannot scale a radar axis whose max is zero.
		max := maxes[i]
		if max == 0 {
			max = 1
		}
		indicators[i] = &opts.Indicator{Name: name, Max: float32(max)}
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Campus Performance Overview"}),
		charts.WithInitializationOpts(opts.Initialization{Height: chartHeight}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators}),
	)
	for _, campus := range campuses {
		radar.AddSeries(campus, []opts.RadarData{{Name: campus, Value: means[campus]}},
			charts.WithLineStyleOpts(opts.LineStyle{Color: CampusColor(campus)}))
	}
	return radar
}

// PointsDistribution boxes points per campus and marks the global
// median across the plot.
func PointsDistribution(ds aoc.Dataset) *charts.BoxPlot {
	campuses := ds.Campuses()
	data := make([]opts.BoxPlotData, 0, len(campuses))
	for _, campus := range campuses {
		rows := ranking.FilterCampus(ds, campus)
		points := make([]float64, 0, len(rows))
		for _, row := range rows {
			points = append(points, row.Points)
		}
		data = append(data, opts.BoxPlotData{Name: campus, Value: fiveNumbers(points)})
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Points Distribution by Campus"}),
		charts.WithInitializationOpts(opts.Initialization{Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Campus"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Points"}),
	)

	seriesOpts := []charts.SeriesOpts{}
	if quartiles, err := ranking.PointsQuartiles(ds); err == nil {
		seriesOpts = append(seriesOpts,
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{Name: "Global Median", YAxis: quartiles.Median}),
			charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
				Symbol:    []string{"none", "none"},
				LineStyle: &opts.LineStyle{Color: allSeriesColor, Type: "dashed"},
			}),
		)
	}
	box.SetXAxis(campuses).AddSeries("points", data, seriesOpts...)
	return box
}

// CompletionHeatmap maps every participant-day cell to its star value:
// blank, silver or gold.
func CompletionHeatmap(ds aoc.Dataset) *charts.HeatMap {
	day := ds.DayCount()
	logins := make([]string, len(ds))
	data := make([]opts.HeatMapData, 0, len(ds)*day)
	for i, row := range ds {
		logins[i] = row.Login
		for d := 0; d < day; d++ {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{d, i, row.Days[d]}})
		}
	}

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Challenge Completion Status"}),
		charts.WithInitializationOpts(opts.Initialization{Height: chartHeight}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "Day"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: logins}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        2,
			InRange:    &opts.VisualMapInRange{Color: []string{"#FFFFFF", silverColor, goldColor}},
		}),
	)
	heatmap.SetXAxis(dayLabels(day)).AddSeries("stars", data)
	return heatmap
}

// TopParticipantsBar ranks the first n participants by points, with
// bars tinted by home campus.
func TopParticipantsBar(ds aoc.Dataset, n int) *charts.Bar {
	top := ranking.TopParticipants(ds, n)
	logins := make([]string, len(top))
	data := make([]opts.BarData, len(top))
	for i, row := range top {
		logins[i] = row.Login
		data[i] = opts.BarData{
			Name:      row.Login,
			Value:     row.Points,
			ItemStyle: &opts.ItemStyle{Color: CampusColor(row.Campus)},
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Top %d Participants by Points", n)}),
		charts.WithInitializationOpts(opts.Initialization{Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Points"}),
	)
	bar.SetXAxis(logins).AddSeries("points", data)
	return bar
}

func campusMeans(rows aoc.Dataset) []float64 {
	if len(rows) == 0 {
		return []float64{0, 0, 0, 0, 0}
	}
	var points, streak, days, gold, silver float64
	for _, row := range rows {
		points += row.Points
		streak += float64(row.Streak)
		days += float64(row.CompletedDays)
		gold += float64(row.GoldStars)
		silver += float64(row.SilverStars)
	}
	n := float64(len(rows))
	return []float64{points / n, streak / n, days / n, gold / n, silver / n}
}

func dayLabels(day int) []string {
	labels := make([]string, day)
	for d := 0; d < day; d++ {
		labels[d] = strconv.Itoa(d + 1)
	}
	return labels
}

func starTotals(rows aoc.Dataset, day int) []opts.LineData {
	totals := make([]opts.LineData, day)
	for d := 0; d < day; d++ {
		total := 0
		for _, row := range rows {
			total += row.Days[d]
		}
		totals[d] = opts.LineData{Value: total}
	}
	return totals
}
