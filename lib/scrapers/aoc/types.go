package aoc

import (
	"slices"
	"strings"
)

// ParticipantRecord is one leaderboard row. Days holds the star value
// for day i+1 at index i, each value in 0..2.
type ParticipantRecord struct {
	Login         string  `json:"login"`
	Campus        string  `json:"campus"`
	Streak        int     `json:"streak"`
	Points        float64 `json:"points"`
	Days          []int   `json:"days"`
	CompletedDays int     `json:"completed_days"`
	GoldStars     int     `json:"gold_stars"`
	SilverStars   int     `json:"silver_stars"`
	TotalStars    int     `json:"total_stars"`
}

// Dataset is an ordered set of leaderboard rows sharing one day-column
// width, sorted by points descending.
type Dataset []ParticipantRecord

// DayCount returns the shared day-column width, 0 for an empty dataset.
func (d Dataset) DayCount() int {
	if len(d) == 0 {
		return 0
	}
	return len(d[0].Days)
}

// Campuses returns the distinct campus codes in ascending order.
func (d Dataset) Campuses() []string {
	var campuses []string
	for _, r := range d {
		if !slices.Contains(campuses, r.Campus) {
			campuses = append(campuses, r.Campus)
		}
	}
	slices.Sort(campuses)
	return campuses
}

// Sort orders rows by points descending, ties broken by login so the
// order is reproducible.
func (d Dataset) Sort() {
	slices.SortStableFunc(d, func(a, b ParticipantRecord) int {
		if a.Points > b.Points {
			return -1
		}
		if a.Points < b.Points {
			return 1
		}
		return strings.Compare(a.Login, b.Login)
	})
}

// normalizeWidth pads short day slices with zeroes so every record
// shares the widest observed width.
func (d Dataset) normalizeWidth() {
	width := 0
	for _, r := range d {
		if len(r.Days) > width {
			width = len(r.Days)
		}
	}
	for i := range d {
		for len(d[i].Days) < width {
			d[i].Days = append(d[i].Days, 0)
		}
	}
}
