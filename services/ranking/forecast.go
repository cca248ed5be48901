package ranking

import (
	"fmt"
	"math"

	"starboard-backend/lib/scrapers/aoc"

	"gonum.org/v1/gonum/stat"
)

// Days of history the trend line is fitted on.
const forecastWindow = 5

type Forecast struct {
	Campus string `json:"campus"`
	// Day is the projected day number, past the end of the table.
	Day int `json:"day"`
	// Rate is the projected star-weighted success rate, clamped
	// to 0..100.
	Rate  float64 `json:"rate"`
	Slope float64 `json:"slope"`
}

// ForecastSuccessRate fits a linear trend to the star-weighted daily
// success rate of each campus over the trailing forecastWindow days
// and projects it `horizon` days past the end of the table. At least
// two observed days are required.
func ForecastSuccessRate(ds aoc.Dataset, horizon int) ([]Forecast, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be at least 1, got %d", horizon)
	}
	day := ds.DayCount()
	if len(ds) == 0 || day < 2 {
		return nil, ErrInsufficientData
	}

	campuses := append([]string{AllCampuses}, ds.Campuses()...)
	target := day + horizon

	var forecasts []Forecast
	for _, campus := range campuses {
		xs, ys := weightedDailyRates(FilterCampus(ds, campus), day)
		if len(xs) > forecastWindow {
			xs = xs[len(xs)-forecastWindow:]
			ys = ys[len(ys)-forecastWindow:]
		}

		intercept, slope := stat.LinearRegression(xs, ys, nil, false)
		forecasts = append(forecasts, Forecast{
			Campus: campus,
			Day:    target,
			Rate:   clampPercent(intercept + slope*float64(target)),
			Slope:  slope,
		})
	}
	return forecasts, nil
}

// weightedDailyRates computes the percentage of obtainable stars
// (2 per participant) actually earned on each day.
func weightedDailyRates(rows aoc.Dataset, day int) (xs, ys []float64) {
	for d := 0; d < day; d++ {
		stars := 0
		for _, r := range rows {
			if d < len(r.Days) {
				stars += r.Days[d]
			}
		}
		xs = append(xs, float64(d+1))
		ys = append(ys, float64(stars)/float64(2*len(rows))*100)
	}
	return xs, ys
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
