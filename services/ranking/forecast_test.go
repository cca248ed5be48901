package ranking

import (
	"math/rand"
	"testing"

	"starboard-backend/lib/scrapers/aoc"
	"starboard-backend/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestForecastRisingTrendClamped(t *testing.T) {
	// both rows climb 0 -> 1 -> 2 stars, daily rates 0/50/100,
	// the projection overshoots and must clamp at 100
	ds := aoc.Dataset{
		{Login: "a", Campus: "BCN", Points: 10, Days: []int{0, 1, 2}, CompletedDays: 3, TotalStars: 3},
		{Login: "b", Campus: "BCN", Points: 5, Days: []int{0, 1, 2}, CompletedDays: 3, TotalStars: 3},
	}
	ds.Sort()

	forecasts, err := ForecastSuccessRate(ds, 1)
	require.NoError(t, err)
	require.Len(t, forecasts, 2) // ALL + BCN

	for _, f := range forecasts {
		require.Equal(t, 4, f.Day)
		require.Equal(t, 100.0, f.Rate)
		require.InDelta(t, 50, f.Slope, 1e-9)
	}
}

func TestForecastFallingTrendClamped(t *testing.T) {
	ds := aoc.Dataset{
		{Login: "a", Campus: "MAD", Points: 10, Days: []int{2, 1, 0}, CompletedDays: 2, TotalStars: 3},
		{Login: "b", Campus: "MAD", Points: 5, Days: []int{2, 1, 0}, CompletedDays: 2, TotalStars: 3},
	}
	ds.Sort()

	forecasts, err := ForecastSuccessRate(ds, 1)
	require.NoError(t, err)

	for _, f := range forecasts {
		require.Equal(t, 0.0, f.Rate)
	}
}

func TestForecastUsesTrailingWindow(t *testing.T) {
	// day 1 is an outlier, the five trailing days are flat at 50,
	// so a window fit projects exactly 50
	ds := aoc.Dataset{
		{Login: "a", Campus: "BCN", Points: 10, Days: []int{0, 1, 1, 1, 1, 1}, CompletedDays: 6, TotalStars: 5},
	}

	forecasts, err := ForecastSuccessRate(ds, 2)
	require.NoError(t, err)

	for _, f := range forecasts {
		require.Equal(t, 8, f.Day)
		require.InDelta(t, 50, f.Rate, 1e-9)
		require.InDelta(t, 0, f.Slope, 1e-9)
	}
}

func TestForecastRandomizedBounds(t *testing.T) {
	rndm := rand.New(rand.NewSource(3))

	for i := 0; i < 20; i++ {
		ds := testutil.RandomDataset(rndm, 1+rndm.Intn(30), 2+rndm.Intn(11))

		forecasts, err := ForecastSuccessRate(ds, 1+rndm.Intn(3))
		require.NoError(t, err)
		require.Len(t, forecasts, len(ds.Campuses())+1)

		for _, f := range forecasts {
			require.GreaterOrEqual(t, f.Rate, 0.0)
			require.LessOrEqual(t, f.Rate, 100.0)
		}
	}
}

func TestForecastGuards(t *testing.T) {
	ds := aoc.Dataset{
		{Login: "a", Campus: "BCN", Points: 10, Days: []int{2}, CompletedDays: 1, TotalStars: 2},
	}

	_, err := ForecastSuccessRate(ds, 0)
	require.Error(t, err)

	_, err = ForecastSuccessRate(ds, 1)
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = ForecastSuccessRate(aoc.Dataset{}, 1)
	require.ErrorIs(t, err, ErrInsufficientData)
}
