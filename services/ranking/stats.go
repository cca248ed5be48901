package ranking

import (
	"errors"
	"math"
	"slices"

	"starboard-backend/lib/scrapers/aoc"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData marks an aggregation over an empty dataset or
// one without day columns.
var ErrInsufficientData = errors.New("insufficient data for metrics")

// AllCampuses labels aggregates taken over every row regardless of
// campus.
const AllCampuses = "ALL"

// Summary holds the aggregate metrics for one campus, or for the
// whole dataset under the AllCampuses label.
type Summary struct {
	Campus         string  `json:"campus"`
	Students       int     `json:"students"`
	ActiveStudents int     `json:"active_students"`
	PointsMean     float64 `json:"points_mean"`
	PointsMax      float64 `json:"points_max"`
	StreakMean     float64 `json:"streak_mean"`
	StreakMax      int     `json:"streak_max"`
	GoldStars      int     `json:"gold_stars"`
	SilverStars    int     `json:"silver_stars"`
	TotalStars     int     `json:"total_stars"`
	// SuccessRate is the percentage of all obtainable stars
	// (2 per student per day) actually earned.
	SuccessRate       float64 `json:"success_rate"`
	ActiveSuccessRate float64 `json:"active_success_rate"`
	ParticipationRate float64 `json:"participation_rate"`
}

// CurrentDay reports how many event days the scraped table covers.
func CurrentDay(ds aoc.Dataset) int {
	return ds.DayCount()
}

// GlobalMetrics aggregates the whole dataset into one Summary.
func GlobalMetrics(ds aoc.Dataset) (Summary, error) {
	if len(ds) == 0 || ds.DayCount() == 0 {
		return Summary{}, ErrInsufficientData
	}
	return summarize(AllCampuses, ds, ds.DayCount()), nil
}

// CampusMetrics aggregates per campus, ordered by campus name.
func CampusMetrics(ds aoc.Dataset) ([]Summary, error) {
	if len(ds) == 0 || ds.DayCount() == 0 {
		return nil, ErrInsufficientData
	}

	day := ds.DayCount()
	summaries := make([]Summary, 0, 4)
	for _, campus := range ds.Campuses() {
		summaries = append(summaries, summarize(campus, FilterCampus(ds, campus), day))
	}
	return summaries, nil
}

// FilterCampus narrows the dataset to one campus. The AllCampuses
// label passes everything through.
func FilterCampus(ds aoc.Dataset, campus string) aoc.Dataset {
	if campus == AllCampuses {
		return ds
	}
	var rows aoc.Dataset
	for _, r := range ds {
		if r.Campus == campus {
			rows = append(rows, r)
		}
	}
	return rows
}

func summarize(campus string, rows aoc.Dataset, day int) Summary {
	s := Summary{Campus: campus, Students: len(rows)}

	var pointsSum, streakSum float64
	var activeStars int
	for _, r := range rows {
		pointsSum += r.Points
		streakSum += float64(r.Streak)
		if r.Points > s.PointsMax {
			s.PointsMax = r.Points
		}
		if r.Streak > s.StreakMax {
			s.StreakMax = r.Streak
		}
		s.GoldStars += r.GoldStars
		s.SilverStars += r.SilverStars
		s.TotalStars += r.TotalStars
		if r.Points > 0 {
			s.ActiveStudents++
			activeStars += r.TotalStars
		}
	}

	s.PointsMean = pointsSum / float64(len(rows))
	s.StreakMean = streakSum / float64(len(rows))
	s.SuccessRate = starPercentage(s.TotalStars, len(rows), day)
	s.ActiveSuccessRate = starPercentage(activeStars, s.ActiveStudents, day)
	s.ParticipationRate = float64(s.ActiveStudents) / float64(len(rows)) * 100

	return s
}

// starPercentage relates earned stars to the obtainable maximum of
// 2 stars per student per day.
func starPercentage(stars, students, day int) float64 {
	obtainable := students * day * 2
	if obtainable == 0 {
		return 0
	}
	return float64(stars) / float64(obtainable) * 100
}

// TopParticipants returns a copy of the first n rows. The dataset is
// points-sorted, so these are the leaders.
func TopParticipants(ds aoc.Dataset, n int) aoc.Dataset {
	if n > len(ds) {
		n = len(ds)
	}
	if n <= 0 {
		return aoc.Dataset{}
	}
	return slices.Clone(ds[:n])
}

type Quartiles struct {
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
}

// PointsQuartiles reports the quartiles of the points column.
func PointsQuartiles(ds aoc.Dataset) (Quartiles, error) {
	if len(ds) == 0 {
		return Quartiles{}, ErrInsufficientData
	}

	points := make([]float64, len(ds))
	for i, r := range ds {
		points[i] = r.Points
	}
	slices.Sort(points)

	return Quartiles{
		Q1:     stat.Quantile(0.25, stat.LinInterp, points, nil),
		Median: stat.Quantile(0.5, stat.LinInterp, points, nil),
		Q3:     stat.Quantile(0.75, stat.LinInterp, points, nil),
	}, nil
}

// Correlations holds pairwise Pearson correlations between the three
// progression columns. Columns without variance report 0.
type Correlations struct {
	PointsStreak        float64 `json:"points_streak"`
	PointsCompletedDays float64 `json:"points_completed_days"`
	StreakCompletedDays float64 `json:"streak_completed_days"`
}

func CorrelationMetrics(ds aoc.Dataset) (Correlations, error) {
	if len(ds) < 2 {
		return Correlations{}, ErrInsufficientData
	}

	points := make([]float64, len(ds))
	streaks := make([]float64, len(ds))
	completed := make([]float64, len(ds))
	for i, r := range ds {
		points[i] = r.Points
		streaks[i] = float64(r.Streak)
		completed[i] = float64(r.CompletedDays)
	}

	return Correlations{
		PointsStreak:        safeCorrelation(points, streaks),
		PointsCompletedDays: safeCorrelation(points, completed),
		StreakCompletedDays: safeCorrelation(streaks, completed),
	}, nil
}

func safeCorrelation(x, y []float64) float64 {
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// DailyRate is the success rate of one campus on one day: the
// percentage of that campus's participants with at least one star.
type DailyRate struct {
	Campus string  `json:"campus"`
	Day    int     `json:"day"`
	Rate   float64 `json:"rate"`
}

// DailySuccessRates reports per-day success rates for every campus
// and for AllCampuses, ordered by campus then day.
func DailySuccessRates(ds aoc.Dataset) []DailyRate {
	if len(ds) == 0 || ds.DayCount() == 0 {
		return nil
	}

	campuses := append([]string{AllCampuses}, ds.Campuses()...)

	var rates []DailyRate
	for _, campus := range campuses {
		rows := FilterCampus(ds, campus)

		for day := 0; day < ds.DayCount(); day++ {
			solved := 0
			for _, r := range rows {
				if day < len(r.Days) && r.Days[day] > 0 {
					solved++
				}
			}
			rates = append(rates, DailyRate{
				Campus: campus,
				Day:    day + 1,
				Rate:   float64(solved) / float64(len(rows)) * 100,
			})
		}
	}
	return rates
}
