package testutil

import (
	"fmt"
	"math/rand"
	"testing"

	"starboard-backend/lib/scrapers/aoc"

	"github.com/mazen160/go-random"
)

// RandomSwitch returns a function that will output various integers at different weights.
//
// Ex. RandomSwitch(2, 3, 5) will return a function that will output:
//   - `0` 20% of the time
//   - `1` 30% of the time
//   - `2` 50% of the time
func RandomSwitch(weights ...int) func(rndm *rand.Rand) int {
	if len(weights) == 0 {
		panic("a random switch must have at least 1 probability")
	}

	var sum int
	for _, p := range weights {
		if p == 0 {
			panic("cannot have weight that is 0")
		}
		sum += p
	}

	return func(rndm *rand.Rand) int {
		value := rndm.Intn(sum)

		threshold := 0
		for i := 0; i < len(weights); i++ {
			threshold += weights[i]
			if value < threshold {
				return i
			}
		}

		panic(fmt.Sprintf("random value generated was out of bounds: %d", value))
	}
}

// RandomString generates a random lowercase string given the pseudo random source.
func RandomString(rndm *rand.Rand, length int) string {
	str := make([]rune, length)
	for i := range length {
		str[i] = 'a' + rune(rndm.Intn(26))
	}
	return string(str)
}

// RandomToken mints a bearer token for request auth tests.
func RandomToken(t testing.TB) string {
	token, err := random.String(16)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

var fixtureCampuses = []string{"UDZ", "BCN", "MAL", "MAD"}

// 0 stars 30% of the time, 1 star 30%, 2 stars 40%
var randomStars = RandomSwitch(3, 3, 4)

// RandomRecord generates one leaderboard row over the given number of
// days. The star, completion and total counters stay consistent with
// the generated day values.
func RandomRecord(rndm *rand.Rand, day int) aoc.ParticipantRecord {
	record := aoc.ParticipantRecord{
		Login:  RandomString(rndm, 8),
		Campus: fixtureCampuses[rndm.Intn(len(fixtureCampuses))],
		Days:   make([]int, day),
	}
	for i := range record.Days {
		stars := randomStars(rndm)
		record.Days[i] = stars
		gold := rndm.Intn(stars + 1)
		record.GoldStars += gold
		record.SilverStars += stars - gold
		record.TotalStars += stars
		if stars > 0 {
			record.CompletedDays = i + 1
		}
	}
	record.Points = float64(record.TotalStars) * float64(10+rndm.Intn(30))
	if record.CompletedDays > 0 {
		record.Streak = 1 + rndm.Intn(record.CompletedDays)
	}
	return record
}

// RandomDataset generates size leaderboard rows over the given number
// of days, sorted the same way the scraper returns them.
func RandomDataset(rndm *rand.Rand, size, day int) aoc.Dataset {
	ds := make(aoc.Dataset, size)
	for i := range ds {
		ds[i] = RandomRecord(rndm, day)
	}
	ds.Sort()
	return ds
}
