package report

import (
	"time"

	"github.com/PratikDhanave/backoffice-gateway/internal/apierr"
)

const dateLayout = "2006-01-02"

// Window is an inclusive range of calendar days, both ends at midnight UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// DefaultWindow runs from January 1st of now's year through today.
func DefaultWindow(now time.Time) Window {
	now = now.UTC()
	return Window{
		Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// ParseWindow reads fecha_inicio / fecha_fin values. Empty values fall back
// to DefaultWindow. A start after the end is kept as given.
func ParseWindow(start, end string, now time.Time) (Window, error) {
	w := DefaultWindow(now)
	if start != "" {
		t, err := time.Parse(dateLayout, start)
		if err != nil {
			return Window{}, apierr.Validation("fecha_inicio debe tener formato YYYY-MM-DD")
		}
		w.Start = t
	}
	if end != "" {
		t, err := time.Parse(dateLayout, end)
		if err != nil {
			return Window{}, apierr.Validation("fecha_fin debe tener formato YYYY-MM-DD")
		}
		w.End = t
	}
	return w, nil
}

// Empty reports whether no day can fall inside the window.
func (w Window) Empty() bool { return w.Start.After(w.End) }

func (w Window) StartDate() string { return w.Start.Format(dateLayout) }

func (w Window) EndDate() string { return w.End.Format(dateLayout) }

// Lower and Upper are the bounds compared against stored creation timestamps.
func (w Window) Lower() string { return w.StartDate() + "T00:00:00.000Z" }

func (w Window) Upper() string { return w.EndDate() + "T23:59:59.999Z" }
