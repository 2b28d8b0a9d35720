package probate

import (
	"errors"
	"fmt"
	"probate-records/lib/timezone"
	"time"
)

// the portal has no records before this day
var MinSearchDate = time.Date(1978, time.January, 1, 0, 0, 0, 0, timezone.Location)

var ErrInvalidRequest = errors.New("invalid search request")

// SearchRequest is the input of one run.
type SearchRequest struct {
	Date   time.Time
	ApiKey string
}

// Validate checks that the date lies between MinSearchDate and today and
// that there is a key for the solving service.
func (r SearchRequest) Validate(today time.Time) error {
	if r.ApiKey == "" {
		return fmt.Errorf("%w: the captcha solving api key is empty", ErrInvalidRequest)
	}
	date := timezone.Day(r.Date)
	if date.Before(MinSearchDate) {
		return fmt.Errorf(
			"%w: %s is before %s",
			ErrInvalidRequest, date.Format(time.DateOnly), MinSearchDate.Format(time.DateOnly),
		)
	}
	if date.After(timezone.Day(today)) {
		return fmt.Errorf("%w: %s is in the future", ErrInvalidRequest, date.Format(time.DateOnly))
	}
	return nil
}
