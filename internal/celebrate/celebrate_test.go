package celebrate

import (
	"math/rand"
	"testing"
	"time"
)

func TestWatcher_FiresOncePerTransition(t *testing.T) {
	w := NewWatcher(false)

	steps := []struct {
		complete bool
		want     bool
	}{
		{false, false},
		{true, true},
		{true, false},
		{false, false},
		{true, true},
	}
	for i, s := range steps {
		if got := w.Observe(s.complete); got != s.want {
			t.Errorf("step %d: Observe(%v) = %v, want %v", i, s.complete, got, s.want)
		}
	}
}

func TestWatcher_StartsComplete(t *testing.T) {
	w := NewWatcher(true)
	if w.Observe(true) {
		t.Error("already complete list must not fire")
	}
}

func TestWatcher_SyncNeverFires(t *testing.T) {
	w := NewWatcher(false)
	w.Sync(true)
	if w.Observe(true) {
		t.Error("expected no fire after Sync(true)")
	}
	w.Sync(false)
	if !w.Observe(true) {
		t.Error("expected fire after Sync(false)")
	}
}

func TestSchedule_Bursts(t *testing.T) {
	start := time.Unix(1000, 0)
	s := NewSchedule(start, rand.New(rand.NewSource(7)))

	bursts := s.Bursts(start)
	if len(bursts) != 2 {
		t.Fatalf("expected 2 bursts, got %d", len(bursts))
	}
	if bursts[0].ParticleCount != MaxParticles {
		t.Errorf("expected %d particles at start, got %d", MaxParticles, bursts[0].ParticleCount)
	}

	left, right := bursts[0].Origin, bursts[1].Origin
	if left.X < 0.1 || left.X > 0.3 {
		t.Errorf("left origin x out of range: %v", left.X)
	}
	if right.X < 0.7 || right.X > 0.9 {
		t.Errorf("right origin x out of range: %v", right.X)
	}
	for _, b := range bursts {
		if b.Origin.Y < -0.2 || b.Origin.Y > 0.8 {
			t.Errorf("origin y out of range: %v", b.Origin.Y)
		}
		if b.StartVelocity != StartVelocity || b.Spread != Spread || b.Ticks != Ticks {
			t.Errorf("unexpected burst defaults: %+v", b)
		}
	}

	half := s.Bursts(start.Add(Duration / 2))
	if half[0].ParticleCount != MaxParticles/2 {
		t.Errorf("expected %d particles halfway, got %d", MaxParticles/2, half[0].ParticleCount)
	}
}

func TestSchedule_Done(t *testing.T) {
	start := time.Unix(1000, 0)
	s := NewSchedule(start, nil)

	if s.Done(start.Add(Duration - Interval)) {
		t.Error("should not be done before duration")
	}
	if !s.Done(start.Add(Duration)) {
		t.Error("should be done at duration")
	}
	if b := s.Bursts(start.Add(Duration)); b != nil {
		t.Errorf("expected no bursts after duration, got %v", b)
	}
}

func TestField_EmitStepExpire(t *testing.T) {
	f := NewField(40, 10, rand.New(rand.NewSource(3)))
	f.Emit(Burst{ParticleCount: 20, Origin: Origin{X: 0.5, Y: 0.5}, StartVelocity: StartVelocity, Spread: Spread, Ticks: 5})

	if len(f.Particles) != 20 {
		t.Fatalf("expected 20 particles, got %d", len(f.Particles))
	}

	for i := 0; i < 5; i++ {
		f.Step()
	}
	if !f.Empty() {
		t.Errorf("expected particles to expire after their ticks, %d left", len(f.Particles))
	}
}

func TestField_String(t *testing.T) {
	f := NewField(3, 2, nil)
	f.Particles = []Particle{{X: 1, Y: 1, Glyph: '*', TTL: 1}}

	want := "   \n * "
	if got := f.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
