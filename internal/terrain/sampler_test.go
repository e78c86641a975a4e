package terrain

import (
	"errors"
	"math"
	"testing"
)

func TestRegisteredSamplersAreDeterministic(t *testing.T) {
	for _, name := range []string{"simplex", "perlin"} {
		a, err := NewSampler(name)
		if err != nil {
			t.Fatalf("NewSampler(%q): %v", name, err)
		}
		b, _ := NewSampler(name)
		p := testParams()
		varied := false
		var first float64
		for i := 0; i < 64; i++ {
			x, z := float64(i)*37.1-900, float64(i)*-13.7+420
			sa, err := a.Sample(x, z, p)
			if err != nil {
				t.Fatalf("%s Sample: %v", name, err)
			}
			sb, _ := b.Sample(x, z, p)
			if sa != sb {
				t.Fatalf("%s: samplers disagree at (%g,%g): %v vs %v", name, x, z, sa, sb)
			}
			again, _ := a.Sample(x, z, p)
			if again != sa {
				t.Fatalf("%s: repeated sample differs", name)
			}
			if sa.Height < p.BaseHeight-1e-9 || sa.Height > p.BaseHeight+p.Amplitude+1e-9 {
				t.Fatalf("%s: height %f outside biome range", name, sa.Height)
			}
			if i == 0 {
				first = sa.Height
			} else if math.Abs(sa.Height-first) > 1e-6 {
				varied = true
			}
		}
		if !varied {
			t.Fatalf("%s: produced a constant field", name)
		}
	}
}

func TestSamplersRejectInvalidParams(t *testing.T) {
	p := testParams()
	p.Frequency = 0
	for _, s := range []Sampler{NewSimplexSampler(), NewPerlinSampler()} {
		if _, err := s.Sample(0, 0, p); !errors.Is(err, ErrInvalidParams) {
			t.Fatalf("expected ErrInvalidParams, got %v", err)
		}
	}
}

func TestSeedChangesField(t *testing.T) {
	s := NewSimplexSampler()
	a := testParams()
	b := testParams()
	b.Seed = a.Seed + 1
	differs := false
	for i := 0; i < 16; i++ {
		x := float64(i) * 91.3
		sa, _ := s.Sample(x, x, a)
		sb, _ := s.Sample(x, x, b)
		if sa.Height != sb.Height {
			differs = true
			break
		}
	}
	if !differs {
		t.Fatal("different seeds produced identical samples")
	}
}

func TestNewSamplerUnknown(t *testing.T) {
	if _, err := NewSampler("voronoi"); !errors.Is(err, ErrUnknownSampler) {
		t.Fatalf("expected ErrUnknownSampler, got %v", err)
	}
	names := SamplerNames()
	if len(names) < 2 || names[0] != "perlin" || names[1] != "simplex" {
		t.Fatalf("unexpected sampler names %v", names)
	}
}

func TestClassify(t *testing.T) {
	p := BiomeParams{BaseHeight: 0, Amplitude: 100, WaterLevel: 10, SnowLine: 90}
	cases := []struct {
		h    float64
		want Material
	}{
		{5, MaterialWater},
		{10.5, MaterialSand},
		{20, MaterialGrass},
		{50, MaterialForest},
		{80, MaterialRock},
		{95, MaterialSnow},
	}
	for _, c := range cases {
		if got := classify(c.h, p); got != c.want {
			t.Fatalf("classify(%g) = %v, want %v", c.h, got, c.want)
		}
	}
	p.Ground = MaterialDust
	if got := classify(20, p); got != MaterialDust {
		t.Fatalf("ground override ignored: %v", got)
	}
	if got := classify(5, p); got != MaterialWater {
		t.Fatalf("ground override must not cover water: %v", got)
	}
}

func TestBiomeSet(t *testing.T) {
	set := DefaultBiomeSet()
	if _, err := set.Lookup(DefaultBiome); err != nil {
		t.Fatalf("default biome missing: %v", err)
	}
	if _, err := set.Lookup("swamp"); !errors.Is(err, ErrUnknownBiome) {
		t.Fatalf("expected ErrUnknownBiome, got %v", err)
	}

	custom := testParams()
	custom.Name = "swamp"
	custom.WaterLevel = 30
	if err := set.Merge([]BiomeParams{custom}); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	got, err := set.Lookup("swamp")
	if err != nil || got.WaterLevel != 30 {
		t.Fatalf("merged biome not found: %v %+v", err, got)
	}

	bad := testParams()
	bad.Name = "broken"
	bad.Persistence = 2
	if err := set.Merge([]BiomeParams{bad}); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
	if _, err := set.Lookup("broken"); err == nil {
		t.Fatal("invalid biome was inserted")
	}
	if err := set.Merge([]BiomeParams{{Frequency: 1}}); err == nil {
		t.Fatal("unnamed biome accepted")
	}
}

func TestMaterialText(t *testing.T) {
	var m Material
	if err := m.UnmarshalText([]byte("dust")); err != nil || m != MaterialDust {
		t.Fatalf("UnmarshalText: %v %v", m, err)
	}
	if err := m.UnmarshalText([]byte("lava")); err == nil {
		t.Fatal("unknown material accepted")
	}
	b, _ := MaterialSnow.MarshalText()
	if string(b) != "snow" {
		t.Fatalf("MarshalText = %q", b)
	}
	if len(Palette()) != int(materialCount) {
		t.Fatalf("palette has %d entries", len(Palette()))
	}
}
