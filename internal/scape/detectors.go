package scape

const (
	CauseDeathPlane   = "death_plane"
	CauseSlowProgress = "slow_progress"
	CauseLifeLimit    = "life_limit"
)

// DeathPlane kills a body that falls below Y.
type DeathPlane struct {
	Y float64
}

func (d DeathPlane) Crossed(b *Body) bool {
	return b.Y < d.Y
}

// SlowProgress periodically checks that the body keeps a minimum average
// speed since spawn.
type SlowProgress struct {
	Interval float64
	MinSpeed float64

	total      float64
	untilCheck float64
}

func NewSlowProgress(interval, minSpeed float64) *SlowProgress {
	s := &SlowProgress{Interval: interval, MinSpeed: minSpeed}
	s.Reset()
	return s
}

func (s *SlowProgress) Reset() {
	s.total = 0
	s.untilCheck = s.Interval
}

// Observe advances the watchdog by dt and reports whether the body, now at
// distance from spawn, is too slow.
func (s *SlowProgress) Observe(dt, distance float64) bool {
	if s.Interval <= 0 {
		return false
	}
	s.total += dt
	s.untilCheck -= dt
	if s.untilCheck >= 0 {
		return false
	}
	s.untilCheck += s.Interval
	return distance < s.MinSpeed*s.total
}
