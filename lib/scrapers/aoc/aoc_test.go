package aoc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"starboard-backend/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func setupClient(t *testing.T, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	return client
}

func TestScrape(t *testing.T) {
	defer telemetry.SetupForTesting(t, "scrapers/aoc")()

	client := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "testdata/ranking.html")
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	dataset, err := client.Scrape(ctx)
	require.NoError(t, err)

	// two fixture rows are malformed and must be skipped
	require.Len(t, dataset, 5)
	require.Equal(t, 3, dataset.DayCount())

	var logins []string
	for _, r := range dataset {
		logins = append(logins, r.Login)
	}
	require.Equal(t, []string{"jdoe", "amarina", "zlast", "mruiz", "pgarcia"}, logins)
	require.Equal(t, []string{"BCN", "MAD", "MAL", "UDZ"}, dataset.Campuses())

	{
		want := ParticipantRecord{
			Login:         "amarina",
			Campus:        "BCN",
			Streak:        3,
			Points:        155.5,
			Days:          []int{2, 2, 1},
			CompletedDays: 3,
			GoldStars:     3,
			SilverStars:   4,
			TotalStars:    7,
		}
		diff := cmp.Diff(want, dataset[1])
		require.Empty(t, diff)
	}
	{
		want := ParticipantRecord{
			Login:         "jdoe",
			Campus:        "MAD",
			Streak:        5,
			Points:        200,
			Days:          []int{2, 2, 2},
			CompletedDays: 3,
			GoldStars:     6,
			SilverStars:   0,
			TotalStars:    6,
		}
		diff := cmp.Diff(want, dataset[0])
		require.Empty(t, diff)
	}
}

func TestScrapeMissingTable(t *testing.T) {
	defer telemetry.SetupForTesting(t, "scrapers/aoc")()

	client := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>mantenimiento</p></body></html>"))
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := client.Scrape(ctx)
	require.ErrorIs(t, err, ErrParse)
}

func TestScrapeEmptyTable(t *testing.T) {
	defer telemetry.SetupForTesting(t, "scrapers/aoc")()

	client := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><table id="rankingTable"><tbody></tbody></table></body></html>`))
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := client.Scrape(ctx)
	require.ErrorIs(t, err, ErrEmptyResult)
}

func TestScrapeServerError(t *testing.T) {
	defer telemetry.SetupForTesting(t, "scrapers/aoc")()

	client := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := client.Scrape(ctx)
	require.ErrorIs(t, err, ErrFetch)

	dataset := client.ScrapeOrEmpty(ctx)
	require.Empty(t, dataset)
}
