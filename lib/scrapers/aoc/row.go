package aoc

import (
	"strconv"

	"starboard-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Marker elements inside a day cell. One class per star tier.
const (
	goldMarkerSelector   = "span.star1"
	silverMarkerSelector = "span.star2"
)

// A tier can carry at most 2 markers, a day at most 2 stars total.
const maxTierStars = 2

// parseRow turns the cells of one leaderboard row into a record.
// Cells 0..3 hold login, campus, streak and points, the remainder one
// day each. Rows with fewer than 5 cells or non-numeric streak/points
// are rejected.
func parseRow(cells *goquery.Selection) (ParticipantRecord, bool) {
	if cells.Length() < 5 {
		return ParticipantRecord{}, false
	}

	streak, err := strconv.Atoi(htmlutil.SelectionText(cells.Eq(2)))
	if err != nil {
		return ParticipantRecord{}, false
	}
	points, err := strconv.ParseFloat(htmlutil.SelectionText(cells.Eq(3)), 64)
	if err != nil {
		return ParticipantRecord{}, false
	}

	record := ParticipantRecord{
		Login:  htmlutil.SelectionText(cells.Eq(0)),
		Campus: htmlutil.SelectionText(cells.Eq(1)),
		Streak: streak,
		Points: points,
	}

	for i := 4; i < cells.Length(); i++ {
		day := i - 3
		cell := cells.Eq(i)

		gold := cell.Find(goldMarkerSelector).Length()
		if gold > maxTierStars {
			gold = maxTierStars
		}
		silver := cell.Find(silverMarkerSelector).Length()
		if silver > maxTierStars {
			silver = maxTierStars
		}

		stars := gold + silver
		if stars > 2 {
			stars = 2
		}

		record.Days = append(record.Days, stars)
		record.GoldStars += gold
		record.SilverStars += silver
		if stars > 0 {
			record.CompletedDays = day
		}
	}
	record.TotalStars = record.GoldStars + record.SilverStars

	return record, true
}
