package aoc

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func rowCells(t *testing.T, cellsHtml string) *goquery.Selection {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		"<table><tbody><tr>" + cellsHtml + "</tr></tbody></table>",
	))
	require.NoError(t, err)
	return doc.Find("tr").First().Find("td")
}

const gold = `<span class="star1">★</span>`
const silver = `<span class="star2">★</span>`

func TestParseRow(t *testing.T) {
	cases := []struct {
		name  string
		cells string
		want  ParticipantRecord
		ok    bool
	}{
		{
			name: "basic",
			cells: `<td>amarina</td><td>BCN</td><td>3</td><td>155.5</td>` +
				`<td>` + gold + gold + `</td>` +
				`<td>` + gold + silver + `</td>`,
			want: ParticipantRecord{
				Login:         "amarina",
				Campus:        "BCN",
				Streak:        3,
				Points:        155.5,
				Days:          []int{2, 2},
				CompletedDays: 2,
				GoldStars:     3,
				SilverStars:   1,
				TotalStars:    4,
			},
			ok: true,
		},
		{
			name: "tier counts capped independently",
			cells: `<td>greedy</td><td>MAD</td><td>1</td><td>50</td>` +
				`<td>` + gold + gold + gold + silver + silver + `</td>`,
			want: ParticipantRecord{
				Login:         "greedy",
				Campus:        "MAD",
				Streak:        1,
				Points:        50,
				Days:          []int{2},
				CompletedDays: 1,
				GoldStars:     2,
				SilverStars:   2,
				TotalStars:    4,
			},
			ok: true,
		},
		{
			name: "completed days tracks highest nonzero",
			cells: `<td>gaps</td><td>UDZ</td><td>0</td><td>12</td>` +
				`<td></td><td>` + silver + `</td><td></td><td></td>` +
				`<td>` + gold + gold + `</td><td></td><td>` + gold + `</td>`,
			want: ParticipantRecord{
				Login:         "gaps",
				Campus:        "UDZ",
				Streak:        0,
				Points:        12,
				Days:          []int{0, 1, 0, 0, 2, 0, 1},
				CompletedDays: 7,
				GoldStars:     3,
				SilverStars:   1,
				TotalStars:    4,
			},
			ok: true,
		},
		{
			name: "no stars at all",
			cells: `<td>idle</td><td>MAL</td><td>0</td><td>0</td>` +
				`<td></td><td></td><td></td>`,
			want: ParticipantRecord{
				Login:  "idle",
				Campus: "MAL",
				Days:   []int{0, 0, 0},
			},
			ok: true,
		},
		{
			name: "whitespace and icons stripped from text cells",
			cells: "<td>\n  <i class=\"icon-user\"></i> someone </td><td> BCN </td><td>2</td><td>10</td>" +
				`<td>` + gold + ` 07:12</td>`,
			want: ParticipantRecord{
				Login:         "someone",
				Campus:        "BCN",
				Streak:        2,
				Points:        10,
				Days:          []int{1},
				CompletedDays: 1,
				GoldStars:     1,
				TotalStars:    1,
			},
			ok: true,
		},
		{
			name:  "too few cells",
			cells: `<td>broken</td><td>BCN</td><td>2</td><td>10</td>`,
			ok:    false,
		},
		{
			name:  "non numeric streak",
			cells: `<td>x</td><td>BCN</td><td>-</td><td>10</td><td></td>`,
			ok:    false,
		},
		{
			name:  "non numeric points",
			cells: `<td>x</td><td>BCN</td><td>2</td><td>n/a</td><td></td>`,
			ok:    false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			record, ok := parseRow(rowCells(t, c.cells))
			require.Equal(t, c.ok, ok)
			if !c.ok {
				return
			}
			diff := cmp.Diff(c.want, record)
			require.Empty(t, diff)
		})
	}
}
