package celebrate

import (
	"math"
	"math/rand"
	"strings"
)

const (
	gravity  = 0.35
	drag     = 0.9
	velScale = 0.05
)

var glyphs = []rune{'*', '+', 'o', '.', '~', '^'}

// Particle is one confetti piece on a character grid.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Glyph  rune
	Color  int
	TTL    int
}

// Field simulates particles on a width x height character grid.
type Field struct {
	Width, Height int
	Particles     []Particle
	rnd           *rand.Rand
}

// NewField creates an empty field. rnd may be nil.
func NewField(width, height int, rnd *rand.Rand) *Field {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(1))
	}
	return &Field{Width: width, Height: height, rnd: rnd}
}

// Resize changes the grid size. Particles outside the new bounds are culled
// on the next Step.
func (f *Field) Resize(width, height int) {
	f.Width, f.Height = width, height
}

// Emit adds the particles of b.
func (f *Field) Emit(b Burst) {
	ox := b.Origin.X * float64(f.Width)
	oy := b.Origin.Y * float64(f.Height)
	spread := b.Spread * math.Pi / 180
	for i := 0; i < b.ParticleCount; i++ {
		angle := -math.Pi/2 + (f.rnd.Float64()-0.5)*spread
		speed := b.StartVelocity * velScale * (0.5 + f.rnd.Float64()*0.5)
		f.Particles = append(f.Particles, Particle{
			X:     ox,
			Y:     oy,
			VX:    math.Cos(angle) * speed * 2, // cells are roughly twice as tall as wide
			VY:    math.Sin(angle) * speed,
			Glyph: glyphs[f.rnd.Intn(len(glyphs))],
			Color: f.rnd.Intn(6),
			TTL:   b.Ticks,
		})
	}
}

// Step advances the simulation by one tick and drops expired particles.
func (f *Field) Step() {
	live := f.Particles[:0]
	for _, p := range f.Particles {
		p.X += p.VX
		p.Y += p.VY
		p.VX *= drag
		p.VY = p.VY*drag + gravity
		p.TTL--
		if p.TTL <= 0 || p.Y >= float64(f.Height) || p.X < 0 || p.X >= float64(f.Width) {
			continue
		}
		live = append(live, p)
	}
	f.Particles = live
}

// Empty reports whether no particles remain.
func (f *Field) Empty() bool {
	return len(f.Particles) == 0
}

// Cell is a visible particle position.
type Cell struct {
	Glyph rune
	Color int
}

// Grid returns the visible particles indexed [row][col]; empty cells have a
// zero Glyph.
func (f *Field) Grid() [][]Cell {
	grid := make([][]Cell, f.Height)
	for y := range grid {
		grid[y] = make([]Cell, f.Width)
	}
	for _, p := range f.Particles {
		x, y := int(p.X), int(p.Y)
		if y < 0 || y >= f.Height || x < 0 || x >= f.Width {
			continue
		}
		grid[y][x] = Cell{Glyph: p.Glyph, Color: p.Color}
	}
	return grid
}

// String renders the field as plain text lines.
func (f *Field) String() string {
	var b strings.Builder
	for y, row := range f.Grid() {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			if c.Glyph == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteRune(c.Glyph)
		}
	}
	return b.String()
}
