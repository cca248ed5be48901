package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Madrid")
	if err != nil {
		panic(err)
	}
}

// force timezone to be in Madrid because the event calendar rolls
// over at midnight CET/CEST and our servers sometimes end up in
// other regions which will cause disturbances when manipulating
// dates based on <time.Time>.Year()/Month()/Day()/Hour()/...
func Now() time.Time {
	return time.Now().In(Location)
}
