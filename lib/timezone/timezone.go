package timezone

import "time"

// Location is the timezone of the court, search dates are calendar days
// in this zone.
var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

func Now() time.Time {
	return time.Now().In(Location)
}

// Day truncates t to midnight of its calendar day in Location.
func Day(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

func Today() time.Time {
	return Day(Now())
}

// ParseDate parses a YYYY-MM-DD date as a calendar day in Location.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, value, Location)
}
