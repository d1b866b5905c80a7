package quiz

import "time"

// Clock supplies the current time in the viewer's timezone and the ticker
// that drives the countdown.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// SystemClock reads wall-clock time in a fixed location.
type SystemClock struct {
	location *time.Location
}

func NewSystemClock(location *time.Location) SystemClock {
	if location == nil {
		location = time.Local
	}
	return SystemClock{location: location}
}

func (c SystemClock) Now() time.Time {
	return time.Now().In(c.location)
}

func (c SystemClock) Location() *time.Location {
	return c.location
}

func (c SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{ticker: time.NewTicker(d)}
}

type systemTicker struct {
	ticker *time.Ticker
}

func (t systemTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t systemTicker) Stop() {
	t.ticker.Stop()
}

// LoadLocation resolves an IANA timezone name. Empty and "Local" mean the
// process's local timezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// SameDay reports whether t falls on the same calendar day as now, in now's location.
func SameDay(t, now time.Time) bool {
	ty, tm, td := t.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	return ty == ny && tm == nm && td == nd
}

// NextDayBoundary returns the start of the day after now, in now's location.
func NextDayBoundary(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}
