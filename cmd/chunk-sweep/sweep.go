package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/klauspost/compress/zstd"

	"flyover/internal/chunk"
	"flyover/internal/render"
)

// path returns the tracked position for a frame.
type path func(frame int, size float64) mgl64.Vec3

var paths = map[string]path{
	"line": func(frame int, size float64) mgl64.Vec3 {
		return mgl64.Vec3{float64(frame) * size / 8, 80, size / 2}
	},
	"circle": func(frame int, size float64) mgl64.Vec3 {
		a := float64(frame) * 2 * math.Pi / 240
		r := 3 * size
		return mgl64.Vec3{r * math.Cos(a), 80, r * math.Sin(a)}
	},
	"teleport": func(frame int, size float64) mgl64.Vec3 {
		hop := float64(frame/60) * 12 * size
		return mgl64.Vec3{hop + size/2, 80, -hop + size/2}
	},
}

type paramSet struct {
	path   string
	radius int
	margin int
	cap    int
}

func (p paramSet) String() string {
	return fmt.Sprintf("path=%s radius=%d margin=%d cap=%d", p.path, p.radius, p.margin, p.cap)
}

type scenarioResult struct {
	params paramSet

	peakResident int
	created      int
	evicted      int
	failures     int
	// convergence is the longest run of frames with required cells missing.
	convergence int
	// overflow counts frames where the resident set escaped the margin square.
	overflow int
	leaked   int
	closeErr error

	frames []frameRecord
}

type frameRecord struct {
	Scenario string  `json:"scenario"`
	Frame    int     `json:"frame"`
	Col      int     `json:"col"`
	Row      int     `json:"row"`
	Resident int     `json:"resident"`
	Pending  int     `json:"pending"`
	Created  int     `json:"created"`
	Evicted  int     `json:"evicted"`
	Offset   float64 `json:"offset"`
}

type tracker struct{ pos mgl64.Vec3 }

func (t *tracker) Position() mgl64.Vec3 { return t.pos }

func runScenario(base chunk.Config, params paramSet, steps int, trace bool, log *slog.Logger) scenarioResult {
	cfg := base
	cfg.Radius = params.radius
	cfg.EvictionMargin = params.margin
	cfg.MaxCreatesPerFrame = params.cap

	res := scenarioResult{params: params}
	move, ok := paths[params.path]
	if !ok {
		res.closeErr = fmt.Errorf("unknown path %q", params.path)
		return res
	}

	dev := render.NewMemoryDevice()
	t := &tracker{pos: move(0, cfg.ChunkSize)}
	m, err := chunk.NewManager(cfg, chunk.Env{Device: dev}, t, nil, log)
	if err != nil {
		res.closeErr = err
		return res
	}

	side := 2*(cfg.Radius+cfg.EvictionMargin) + 1
	limit := side * side
	run := 0
	for frame := 0; frame < steps; frame++ {
		t.pos = move(frame, cfg.ChunkSize)
		m.Update(float64(frame) * 1000 / 60)

		st := m.Stats()
		res.peakResident = max(res.peakResident, st.Resident)
		if st.Resident > limit {
			res.overflow++
		}
		if st.Pending > 0 {
			run++
			res.convergence = max(res.convergence, run)
		} else {
			run = 0
		}
		if trace {
			c, _ := m.Center()
			res.frames = append(res.frames, frameRecord{
				Scenario: params.String(),
				Frame:    frame,
				Col:      c.Col,
				Row:      c.Row,
				Resident: st.Resident,
				Pending:  st.Pending,
				Created:  st.Created,
				Evicted:  st.Evicted,
				Offset:   st.Offset,
			})
		}
	}

	st := m.Stats()
	res.created = st.Created
	res.evicted = st.Evicted
	res.failures = st.GenerationFailures + st.RegenerationFailures + st.DisposalFailures
	res.closeErr = m.Close()
	res.leaked = dev.Stats().Live
	return res
}

// writeTrace streams frame records as zstd-compressed JSON lines.
func writeTrace(w io.Writer, results []scenarioResult) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	j := json.NewEncoder(enc)
	for _, res := range results {
		for _, rec := range res.frames {
			if err := j.Encode(rec); err != nil {
				enc.Close()
				return err
			}
		}
	}
	return enc.Close()
}
