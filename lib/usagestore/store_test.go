package usagestore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"starboard-backend/lib/telemetry"
	"starboard-backend/lib/timezone"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestStore(t *testing.T) {
	defer telemetry.SetupForTesting(t, "usagestore")()

	sqlite, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	store, err := NewStore(sqlite)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		totals, err := store.Totals(ctx)
		if err != nil {
			t.Fatal(err)
		}
		require.Len(t, totals, 0)
	}
	{
		store.Record(ctx, KindChartView, "stars_distribution")
		store.Record(ctx, KindChartView, "stars_distribution")
		store.Record(ctx, KindChartView, "campus_radar")
		store.Record(ctx, KindPageView, "dataset")

		totals, err := store.Totals(ctx)
		if err != nil {
			t.Fatal(err)
		}
		require.Len(t, totals, 3)

		require.Equal(t, KindChartView, totals[0].Kind)
		require.Equal(t, "stars_distribution", totals[0].Name)
		require.EqualValues(t, 2, totals[0].Count)
		require.WithinDuration(t, timezone.Now(), totals[0].LastSeen, time.Minute)

		require.Equal(t, "campus_radar", totals[1].Name)
		require.Equal(t, KindPageView, totals[2].Kind)
		require.Equal(t, "dataset", totals[2].Name)
	}
	{
		// The zero store drops counts instead of erroring.
		var zero Store
		zero.Record(ctx, KindPageView, "noop")

		totals, err := zero.Totals(ctx)
		if err != nil {
			t.Fatal(err)
		}
		require.Len(t, totals, 0)
	}
}
