// Package flight implements the tracked aircraft the terrain streams around.
// The aircraft holds a fixed altitude; climbing and diving are expressed by
// asking the world to shift vertically underneath it.
package flight

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"flyover/internal/render"
)

// World is the terrain the aircraft flies over.
type World interface {
	HeightAt(x, z float64) (float64, bool)
	SetClimbing(v float64)
	SetFalling(v float64)
	CollectOrbs(p mgl32.Vec3, radius float32) int
}

// Controls are the pilot inputs for one frame.
type Controls struct {
	Left  bool
	Right bool
	Climb bool
	Dive  bool
}

// Config tunes the aircraft.
type Config struct {
	Speed    float64 // world units per second
	TurnRate float64 // radians per second
	Altitude float64

	// CounterMax bounds the climb and dive counters handed to the world.
	CounterMax float64

	// After a terrain hit the speed drops to HitSlowdown of normal and
	// recovers linearly over HitDuration milliseconds. The aircraft blinks
	// for the first BlinkDuration milliseconds.
	HitSlowdown   float64
	HitDuration   float64
	BlinkDuration float64

	Clearance     float64
	CollectRadius float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Speed:         120,
		TurnRate:      1.4,
		Altitude:      80,
		CounterMax:    5,
		HitSlowdown:   0.1,
		HitDuration:   5000,
		BlinkDuration: 2500,
		Clearance:     4,
		CollectRadius: 12,
	}
}

const (
	attitudeDecay = 0.005
	pitchPerFrame = 0.01
	rollPerFrame  = 0.02
	barrelStep    = 0.35
	maxBank       = 0.6
)

// Aircraft is the entity chunk streaming follows.
type Aircraft struct {
	cfg   Config
	world World
	node  *render.Node

	pos      mgl64.Vec3
	heading  float64
	controls Controls

	pitch float64
	roll  float64

	climbing float64
	falling  float64

	prev    float64
	hasPrev bool

	hitTime    float64
	recovering bool
	hits       int
	visible    bool
	barrel     bool
	score      int
}

// New places an aircraft at the origin at the configured altitude.
func New(cfg Config, world World) *Aircraft {
	a := &Aircraft{cfg: cfg, world: world, node: render.NewNode("aircraft")}
	a.Reset()
	return a
}

// SetWorld attaches the terrain. It must be set before the first Update.
func (a *Aircraft) SetWorld(w World) { a.world = w }

// SetControls records the inputs applied on the next Update.
func (a *Aircraft) SetControls(c Controls) { a.controls = c }

// Update advances the aircraft to timestamp (milliseconds).
func (a *Aircraft) Update(timestamp float64) {
	if !a.hasPrev {
		a.prev = timestamp
		a.hasPrev = true
	}
	dt := (timestamp - a.prev) / 1000
	a.prev = timestamp

	a.updateCounters()
	a.updateAttitude(dt)

	factor := a.SpeedFactor(timestamp)
	a.pos = a.pos.Add(a.Forward().Mul(a.cfg.Speed * factor * dt))

	a.checkCollision(timestamp)
	a.collect()
	a.updateBlink(timestamp)

	a.node.SetPosition(float32(a.pos.X()), float32(a.pos.Y()), float32(a.pos.Z()))
}

// Holding a climb or dive ramps the counter up to CounterMax; releasing it
// drops the counter to zero.
func (a *Aircraft) updateCounters() {
	if a.controls.Climb && !a.controls.Dive {
		a.climbing = math.Min(a.climbing+1, a.cfg.CounterMax)
	} else {
		a.climbing = 0
	}
	if a.controls.Dive && !a.controls.Climb {
		a.falling = math.Min(a.falling+1, a.cfg.CounterMax)
	} else {
		a.falling = 0
	}
	a.world.SetClimbing(a.climbing)
	a.world.SetFalling(a.falling)
}

func (a *Aircraft) updateAttitude(dt float64) {
	a.pitch = decay(a.pitch)
	if !a.barrel {
		a.roll = decay(a.roll)
	}
	if a.climbing > 0 {
		a.pitch += pitchPerFrame
	}
	if a.falling > 0 {
		a.pitch -= pitchPerFrame
	}

	turn := 0.0
	if a.controls.Left {
		turn++
	}
	if a.controls.Right {
		turn--
	}
	a.heading = math.Mod(a.heading+turn*a.cfg.TurnRate*dt, 2*math.Pi)
	if !a.barrel && turn != 0 {
		a.roll = math.Max(-maxBank, math.Min(maxBank, a.roll-turn*rollPerFrame))
	}

	if a.barrel {
		a.roll += barrelStep
		if a.roll >= 2*math.Pi {
			a.roll -= 2 * math.Pi
			a.barrel = false
		}
	}
}

func decay(v float64) float64 {
	if math.Abs(v) < attitudeDecay {
		return 0
	}
	return v - math.Copysign(attitudeDecay, v)
}

func (a *Aircraft) checkCollision(timestamp float64) {
	if a.recovering && timestamp-a.hitTime < a.cfg.HitDuration {
		return
	}
	a.recovering = false
	h, ok := a.world.HeightAt(a.pos.X(), a.pos.Z())
	if !ok || h+a.cfg.Clearance <= a.pos.Y() {
		return
	}
	a.recovering = true
	a.hitTime = timestamp
	a.hits++
}

func (a *Aircraft) collect() {
	p := mgl32.Vec3{float32(a.pos.X()), float32(a.pos.Y()), float32(a.pos.Z())}
	n := a.world.CollectOrbs(p, float32(a.cfg.CollectRadius))
	if n == 0 {
		return
	}
	a.score += n
	if !a.barrel {
		a.barrel = true
		a.roll = 0
	}
}

func (a *Aircraft) updateBlink(timestamp float64) {
	since := timestamp - a.hitTime
	if !a.recovering || since >= a.cfg.BlinkDuration {
		a.visible = true
		return
	}
	a.visible = int(since/100)%2 == 1
}

// SpeedFactor is the fraction of cruise speed available at timestamp.
func (a *Aircraft) SpeedFactor(timestamp float64) float64 {
	if !a.recovering {
		return 1
	}
	since := timestamp - a.hitTime
	if since >= a.cfg.HitDuration || a.cfg.HitDuration <= 0 {
		return 1
	}
	return a.cfg.HitSlowdown + (1-a.cfg.HitSlowdown)*since/a.cfg.HitDuration
}

// Reset returns the aircraft to the origin, level and unhurt.
func (a *Aircraft) Reset() {
	a.pos = mgl64.Vec3{0, a.cfg.Altitude, 0}
	a.heading = 0
	a.pitch, a.roll = 0, 0
	a.controls = Controls{}
	a.climbing, a.falling = 0, 0
	a.hasPrev = false
	a.recovering = false
	a.hitTime = 0
	a.hits = 0
	a.barrel = false
	a.visible = true
	a.score = 0
	a.node.SetPosition(0, float32(a.cfg.Altitude), 0)
}

// Forward is the unit heading vector in the XZ plane.
func (a *Aircraft) Forward() mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(a.heading), 0, math.Cos(a.heading)}
}

// Position implements chunk.Tracked.
func (a *Aircraft) Position() mgl64.Vec3 { return a.pos }

// SetPosition teleports the aircraft.
func (a *Aircraft) SetPosition(p mgl64.Vec3) {
	a.pos = p
	a.node.SetPosition(float32(p.X()), float32(p.Y()), float32(p.Z()))
}

func (a *Aircraft) Node() *render.Node { return a.node }
func (a *Aircraft) Heading() float64   { return a.heading }
func (a *Aircraft) Pitch() float64     { return a.pitch }
func (a *Aircraft) Roll() float64      { return a.roll }
func (a *Aircraft) Hits() int          { return a.hits }
func (a *Aircraft) Recovering() bool   { return a.recovering }
func (a *Aircraft) Visible() bool      { return a.visible }
func (a *Aircraft) Score() int         { return a.score }
