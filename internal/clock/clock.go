package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the source of "now" for every expiry rule. Tests drive it with
// *clockwork.FakeClock.
type Clock interface {
	Now() time.Time
}

var wall = clockwork.NewRealClock()

// System reads the wall clock in UTC.
type System struct{}

func (System) Now() time.Time {
	return wall.Now().UTC()
}
