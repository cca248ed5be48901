package ranking

import (
	"testing"

	"starboard-backend/lib/scrapers/aoc"

	"github.com/stretchr/testify/require"
)

func statsDataset() aoc.Dataset {
	ds := aoc.Dataset{
		{
			Login: "a", Campus: "BCN", Streak: 2, Points: 100,
			Days: []int{2, 0, 1}, CompletedDays: 3,
			GoldStars: 2, SilverStars: 1, TotalStars: 3,
		},
		{
			Login: "b", Campus: "BCN", Streak: 0, Points: 0,
			Days: []int{0, 0, 0},
		},
		{
			Login: "c", Campus: "MAD", Streak: 4, Points: 50,
			Days: []int{1, 2, 0}, CompletedDays: 2,
			GoldStars: 1, SilverStars: 2, TotalStars: 3,
		},
	}
	ds.Sort()
	return ds
}

func TestGlobalMetrics(t *testing.T) {
	ds := statsDataset()

	summary, err := GlobalMetrics(ds)
	require.NoError(t, err)

	require.Equal(t, AllCampuses, summary.Campus)
	require.Equal(t, 3, summary.Students)
	require.Equal(t, 2, summary.ActiveStudents)
	require.InDelta(t, 50, summary.PointsMean, 1e-9)
	require.InDelta(t, 100, summary.PointsMax, 1e-9)
	require.InDelta(t, 2, summary.StreakMean, 1e-9)
	require.Equal(t, 4, summary.StreakMax)
	require.Equal(t, 3, summary.GoldStars)
	require.Equal(t, 3, summary.SilverStars)
	require.Equal(t, 6, summary.TotalStars)
	// 6 stars of 3*3*2 obtainable
	require.InDelta(t, 100.0/3, summary.SuccessRate, 1e-9)
	// active students earned all 6 stars of 2*3*2 obtainable
	require.InDelta(t, 50, summary.ActiveSuccessRate, 1e-9)
	require.InDelta(t, 200.0/3, summary.ParticipationRate, 1e-9)
}

func TestGlobalMetricsKnownRate(t *testing.T) {
	// two students, one day, stars 2 and 0 -> exactly half the
	// obtainable stars
	ds := aoc.Dataset{
		{Login: "x", Campus: "BCN", Points: 10, Days: []int{2}, CompletedDays: 1, GoldStars: 2, TotalStars: 2},
		{Login: "y", Campus: "BCN", Days: []int{0}},
	}
	ds.Sort()

	summary, err := GlobalMetrics(ds)
	require.NoError(t, err)
	require.Equal(t, 50.0, summary.SuccessRate)
}

func TestGlobalMetricsInsufficientData(t *testing.T) {
	_, err := GlobalMetrics(aoc.Dataset{})
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestCampusMetrics(t *testing.T) {
	ds := statsDataset()

	summaries, err := CampusMetrics(ds)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	require.Equal(t, "BCN", summaries[0].Campus)
	require.Equal(t, 2, summaries[0].Students)
	require.Equal(t, 1, summaries[0].ActiveStudents)
	require.Equal(t, 3, summaries[0].TotalStars)
	require.InDelta(t, 25, summaries[0].SuccessRate, 1e-9)

	require.Equal(t, "MAD", summaries[1].Campus)
	require.Equal(t, 1, summaries[1].Students)

	_, err = CampusMetrics(aoc.Dataset{})
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestTopParticipants(t *testing.T) {
	ds := statsDataset()

	top := TopParticipants(ds, 2)
	require.Len(t, top, 2)
	require.Equal(t, "a", top[0].Login)
	require.Equal(t, "c", top[1].Login)

	require.Len(t, TopParticipants(ds, 10), 3)
	require.Empty(t, TopParticipants(ds, 0))
}

func TestPointsQuartiles(t *testing.T) {
	ds := statsDataset()

	q, err := PointsQuartiles(ds)
	require.NoError(t, err)
	require.LessOrEqual(t, q.Q1, q.Median)
	require.LessOrEqual(t, q.Median, q.Q3)
	require.GreaterOrEqual(t, q.Q1, 0.0)
	require.LessOrEqual(t, q.Q3, 100.0)

	_, err = PointsQuartiles(aoc.Dataset{})
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestCorrelationMetrics(t *testing.T) {
	// points track streak perfectly, completed days never move
	ds := aoc.Dataset{
		{Login: "a", Campus: "BCN", Streak: 1, Points: 2, Days: []int{1}, CompletedDays: 1},
		{Login: "b", Campus: "BCN", Streak: 2, Points: 4, Days: []int{1}, CompletedDays: 1},
		{Login: "c", Campus: "BCN", Streak: 3, Points: 6, Days: []int{1}, CompletedDays: 1},
	}
	ds.Sort()

	c, err := CorrelationMetrics(ds)
	require.NoError(t, err)
	require.InDelta(t, 1, c.PointsStreak, 1e-9)
	require.Equal(t, 0.0, c.PointsCompletedDays)
	require.Equal(t, 0.0, c.StreakCompletedDays)

	_, err = CorrelationMetrics(aoc.Dataset{statsDataset()[0]})
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestDailySuccessRates(t *testing.T) {
	ds := statsDataset()

	rates := DailySuccessRates(ds)
	// ALL + BCN + MAD, three days each
	require.Len(t, rates, 9)

	require.Equal(t, AllCampuses, rates[0].Campus)
	require.Equal(t, 1, rates[0].Day)
	require.InDelta(t, 200.0/3, rates[0].Rate, 1e-9)

	byCampusDay := map[string]map[int]float64{}
	for _, r := range rates {
		if byCampusDay[r.Campus] == nil {
			byCampusDay[r.Campus] = map[int]float64{}
		}
		byCampusDay[r.Campus][r.Day] = r.Rate
	}
	require.Equal(t, 50.0, byCampusDay["BCN"][1])
	require.Equal(t, 0.0, byCampusDay["BCN"][2])
	require.Equal(t, 50.0, byCampusDay["BCN"][3])
	require.Equal(t, 100.0, byCampusDay["MAD"][1])
	require.Equal(t, 100.0, byCampusDay["MAD"][2])
	require.Equal(t, 0.0, byCampusDay["MAD"][3])

	require.Empty(t, DailySuccessRates(aoc.Dataset{}))
}
