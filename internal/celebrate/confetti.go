package celebrate

import (
	"math"
	"math/rand"
	"time"
)

// Burst timing and shape.
const (
	Duration      = 15 * time.Second
	Interval      = 250 * time.Millisecond
	MaxParticles  = 50
	StartVelocity = 30
	Spread        = 360
	Ticks         = 60
)

// Origin is a burst origin in viewport fractions: 0,0 is top left, 1,1 bottom
// right. Y may be negative so particles start above the top edge.
type Origin struct {
	X float64
	Y float64
}

// Burst is one emission of particles.
type Burst struct {
	ParticleCount int
	Origin        Origin
	StartVelocity float64
	Spread        float64
	Ticks         int
}

// Schedule emits the timed bursts of one celebration: every Interval, two
// bursts from the left and right thirds of the viewport, shrinking linearly
// to nothing over Duration.
type Schedule struct {
	start time.Time
	end   time.Time
	rnd   *rand.Rand
}

// NewSchedule starts a celebration at start. rnd may be nil.
func NewSchedule(start time.Time, rnd *rand.Rand) *Schedule {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(start.UnixNano()))
	}
	return &Schedule{start: start, end: start.Add(Duration), rnd: rnd}
}

// Done reports whether the celebration is over at now.
func (s *Schedule) Done(now time.Time) bool {
	return !now.Before(s.end)
}

// Bursts returns the bursts to emit at now, or nil once the celebration is
// over.
func (s *Schedule) Bursts(now time.Time) []Burst {
	timeLeft := s.end.Sub(now)
	if timeLeft <= 0 {
		return nil
	}
	count := int(math.Round(MaxParticles * float64(timeLeft) / float64(Duration)))

	return []Burst{
		s.burst(count, s.between(0.1, 0.3)),
		s.burst(count, s.between(0.7, 0.9)),
	}
}

func (s *Schedule) burst(count int, x float64) Burst {
	return Burst{
		ParticleCount: count,
		Origin:        Origin{X: x, Y: s.rnd.Float64() - 0.2},
		StartVelocity: StartVelocity,
		Spread:        Spread,
		Ticks:         Ticks,
	}
}

func (s *Schedule) between(min, max float64) float64 {
	return s.rnd.Float64()*(max-min) + min
}
