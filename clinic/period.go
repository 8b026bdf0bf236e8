package clinic

import (
	"time"

	"github.com/siga-vet/go-clinic-repository/model"
)

// dayRange turns the inclusive calendar days [from, to] into the half-open
// UTC interval [start, end).
func dayRange(from, to time.Time) (time.Time, time.Time, error) {
	start := startOfDay(from)
	end := startOfDay(to).AddDate(0, 0, 1)
	if !end.After(start) {
		return time.Time{}, time.Time{}, model.Invalid("date range", "to", "to must not be before from", to)
	}
	return start, end, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(time.Microsecond)
}
