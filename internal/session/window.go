package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/tickfoundry/tradesilver/internal/model"
)

// ErrInvalidSession reports an unrecognized session type.
var ErrInvalidSession = errors.New("invalid session type")

// NY is the exchange trading calendar timezone, loaded once at startup.
var NY = mustLoadNY()

func mustLoadNY() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic("session: load America/New_York: " + err.Error())
	}
	return loc
}

// Window returns the UTC range [start, end) of the given session on the
// given trading day.
//
//   - electronic: 18:00 NY on the previous calendar day to 16:15 NY on date
//   - regular:    09:30 NY to 16:15 NY on date
func Window(date time.Time, typ model.Session) (start, end time.Time, err error) {
	switch typ {
	case model.SessionElectronic:
		start = atNY(date.AddDate(0, 0, -1), 18, 0)
		end = atNY(date, 16, 15)
	case model.SessionRegular:
		start = atNY(date, 9, 30)
		end = atNY(date, 16, 15)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSession, typ)
	}
	return start.UTC(), end.UTC(), nil
}

// FullDayWindow returns the UTC range [start, end) covering the whole
// trading calendar day: 18:00 NY on the previous day to 17:00 NY on date.
// This is the window the driver hands to the file indexer and extractor;
// session windows above are for intraday bar filtering only.
func FullDayWindow(date time.Time) (start, end time.Time) {
	start = atNY(date.AddDate(0, 0, -1), 18, 0)
	end = atNY(date, 17, 0)
	return start.UTC(), end.UTC()
}

// atNY builds the NY-local instant at hour:min on date's calendar day.
func atNY(date time.Time, hour, min int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, NY)
}
