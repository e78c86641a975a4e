package flight

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type fakeWorld struct {
	height   float64
	hasLand  bool
	climbing []float64
	falling  []float64
	orbs     int
}

func (w *fakeWorld) HeightAt(x, z float64) (float64, bool) { return w.height, w.hasLand }
func (w *fakeWorld) SetClimbing(v float64)                 { w.climbing = append(w.climbing, v) }
func (w *fakeWorld) SetFalling(v float64)                  { w.falling = append(w.falling, v) }
func (w *fakeWorld) CollectOrbs(p mgl32.Vec3, r float32) int {
	n := w.orbs
	w.orbs = 0
	return n
}

func TestClimbCounterRampsAndResets(t *testing.T) {
	w := &fakeWorld{}
	a := New(DefaultConfig(), w)
	a.SetControls(Controls{Climb: true})
	for i := 0; i < 7; i++ {
		a.Update(float64(i) * 16)
	}
	want := []float64{1, 2, 3, 4, 5, 5, 5}
	for i, v := range want {
		if w.climbing[i] != v {
			t.Fatalf("frame %d climbing = %v, want %v", i, w.climbing[i], v)
		}
	}
	if a.Pitch() <= 0 {
		t.Fatalf("climbing should pitch up, got %f", a.Pitch())
	}
	a.SetControls(Controls{})
	a.Update(200)
	if got := w.climbing[len(w.climbing)-1]; got != 0 {
		t.Fatalf("released climb left counter at %v", got)
	}
	a.SetControls(Controls{Dive: true})
	a.Update(216)
	a.Update(232)
	if got := w.falling[len(w.falling)-1]; got != 2 {
		t.Fatalf("falling = %v, want 2", got)
	}
}

func TestMovesAlongHeading(t *testing.T) {
	a := New(DefaultConfig(), &fakeWorld{})
	a.Update(0)
	a.Update(1000)
	p := a.Position()
	if math.Abs(p.Z()-120) > 1e-9 || math.Abs(p.X()) > 1e-9 {
		t.Fatalf("position after 1s = %v", p)
	}
	if p.Y() != DefaultConfig().Altitude {
		t.Fatalf("altitude changed to %f", p.Y())
	}
	a.SetControls(Controls{Left: true})
	a.Update(2000)
	if math.Abs(a.Heading()-1.4) > 1e-9 {
		t.Fatalf("heading = %f", a.Heading())
	}
	if np := a.Node().Position(); float64(np.Z()) < 120 {
		t.Fatalf("node not synced: %v", np)
	}
}

func TestTerrainHitSlowsAndRecovers(t *testing.T) {
	w := &fakeWorld{height: 200, hasLand: true}
	cfg := DefaultConfig()
	a := New(cfg, w)
	a.Update(0)
	if a.Hits() != 1 || !a.Recovering() {
		t.Fatalf("expected a hit, hits=%d", a.Hits())
	}
	if f := a.SpeedFactor(0); f != cfg.HitSlowdown {
		t.Fatalf("speed factor right after hit = %f", f)
	}
	if f := a.SpeedFactor(2500); math.Abs(f-0.55) > 1e-9 {
		t.Fatalf("speed factor halfway = %f", f)
	}
	a.Update(1000)
	if a.Hits() != 1 {
		t.Fatal("hit retriggered while recovering")
	}

	w.height = 0
	a.Update(5000)
	if a.Recovering() || !a.Visible() {
		t.Fatal("aircraft should have recovered")
	}
	if a.SpeedFactor(5000) != 1 {
		t.Fatal("speed not restored")
	}
}

func TestNoHitWithoutTerrain(t *testing.T) {
	a := New(DefaultConfig(), &fakeWorld{height: 1e6, hasLand: false})
	a.Update(0)
	if a.Hits() != 0 {
		t.Fatal("hit registered over a missing chunk")
	}
}

func TestOrbTriggersBarrelRoll(t *testing.T) {
	w := &fakeWorld{orbs: 2}
	a := New(DefaultConfig(), w)
	a.Update(0)
	if a.Score() != 2 {
		t.Fatalf("score %d", a.Score())
	}
	a.Update(16)
	if a.Roll() < barrelStep-1e-9 {
		t.Fatalf("barrel roll did not start: %f", a.Roll())
	}
	ts := 16.0
	for i := 0; i < 40; i++ {
		ts += 16
		a.Update(ts)
	}
	if math.Abs(a.Roll()) > 2*math.Pi {
		t.Fatalf("roll did not wrap: %f", a.Roll())
	}

	a.Reset()
	if a.Score() != 0 || a.Roll() != 0 || a.Position().Z() != 0 {
		t.Fatal("Reset left state behind")
	}
}
