package tracking

import "time"

// StaleDetector decides whether a route's GPS feed has gone quiet. A
// route with no fix inside the threshold is considered stale.
type StaleDetector struct {
	threshold time.Duration
}

func NewStaleDetector() *StaleDetector {
	return &StaleDetector{
		threshold: 15 * time.Minute,
	}
}

func (d *StaleDetector) WithThreshold(threshold time.Duration) *StaleDetector {
	d.threshold = threshold
	return d
}

// Check reports whether the last fix is older than the threshold. A
// zero lastFix means no trace point was ever recorded.
func (d *StaleDetector) Check(lastFix, currentTime time.Time) bool {
	if lastFix.IsZero() {
		return true
	}
	return currentTime.Sub(lastFix) > d.threshold
}

func (d *StaleDetector) Age(lastFix, currentTime time.Time) time.Duration {
	if lastFix.IsZero() {
		return d.threshold + 1
	}
	return currentTime.Sub(lastFix)
}
