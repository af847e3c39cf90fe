package throttle

import "time"

// Clock returns the current time. Tests inject a fake.
type Clock func() time.Time

func orNow(now Clock) Clock {
	if now == nil {
		return time.Now
	}
	return now
}
