package chunk

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/time/rate"

	"flyover/internal/render"
	"flyover/internal/terrain"
)

// Tracked is the entity the resident window follows.
type Tracked interface {
	Position() mgl64.Vec3
}

// Mode is the manager's vertical state.
type Mode uint8

const (
	ModeDefault Mode = iota
	ModeClimbing
	ModeFalling
	ModeToSpace
)

func (m Mode) String() string {
	switch m {
	case ModeClimbing:
		return "climbing"
	case ModeFalling:
		return "falling"
	case ModeToSpace:
		return "toSpace"
	default:
		return "default"
	}
}

// Stats are cumulative counters plus a view of the current frame.
type Stats struct {
	Frames   int
	Resident int
	// Pending counts required cells still missing after the last Update.
	Pending int

	Created              int
	Evicted              int
	GenerationFailures   int
	DisposalFailures     int
	Regenerations        int
	RegenerationFailures int
	DuplicateInserts     int
	SuppressedLogs       int
	OrbsCollected        int

	Offset    float64
	Timestamp float64
}

// Manager keeps the resident chunk set centred on a tracked entity and fans
// global terrain changes out to every resident chunk. All methods must be
// called from the frame loop.
type Manager struct {
	cfg     Config
	env     Env
	tracked Tracked
	biomes  *terrain.BiomeSet
	log     *slog.Logger
	limiter *rate.Limiter

	group  *render.Node
	chunks map[Coord]*Chunk
	stale  map[Coord]struct{}
	// failed maps a cell to the frame of its last failed creation.
	failed map[Coord]int

	center    Coord
	hasCenter bool

	defaultBiome      string
	biome             terrain.BiomeParams
	climbing          float64
	falling           float64
	toSpace           bool
	spaceRewardHeight float64
	offset            float64

	pendingNoise bool
	pendingGeo   bool

	stats Stats
}

// NewManager validates cfg and returns a manager with no resident chunks.
// A nil Sampler in env is resolved from cfg.Sampler; nil biomes uses the
// built-in set; nil log uses slog.Default().
func NewManager(cfg Config, env Env, tracked Tracked, biomes *terrain.BiomeSet, log *slog.Logger) (*Manager, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk: chunk size %g must be positive", cfg.ChunkSize)
	}
	if cfg.Resolution < 2 {
		return nil, fmt.Errorf("chunk: resolution %d below 2", cfg.Resolution)
	}
	if cfg.Radius < 0 || cfg.EvictionMargin < 0 {
		return nil, fmt.Errorf("chunk: negative radius %d or margin %d", cfg.Radius, cfg.EvictionMargin)
	}
	if env.Device == nil {
		return nil, errors.New("chunk: nil render device")
	}
	if tracked == nil {
		return nil, errors.New("chunk: nil tracked entity")
	}
	if env.Sampler == nil {
		s, err := terrain.NewSampler(cfg.Sampler)
		if err != nil {
			return nil, err
		}
		env.Sampler = s
	}
	if biomes == nil {
		biomes = terrain.DefaultBiomeSet()
	}
	biome, err := biomes.Lookup(cfg.Biome)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		cfg:     cfg,
		env:     env,
		tracked: tracked,
		biomes:  biomes,
		log:     log.With("component", "chunks"),
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		group:   render.NewNode("chunks"),
		chunks:  make(map[Coord]*Chunk),
		stale:   make(map[Coord]struct{}),
		failed:  make(map[Coord]int),
		biome:   biome,

		defaultBiome: biome.Name,
	}, nil
}

// Update advances one frame: vertical offset, eviction, pending
// regeneration, then nearest-first creation capped at MaxCreatesPerFrame.
// Eviction runs before creation so a coordinate is always disposed before it
// can be rebuilt.
func (m *Manager) Update(timestamp float64) {
	m.stats.Frames++
	m.stats.Timestamp = timestamp

	m.applyVertical()

	pos := m.tracked.Position()
	m.center = CoordAt(pos.X(), pos.Z(), m.cfg.ChunkSize)
	m.hasCenter = true

	m.evict()
	m.regenerate()
	m.spawn()

	m.stats.Resident = len(m.chunks)
	m.stats.Offset = m.offset
}

func (m *Manager) applyVertical() {
	m.offset -= m.cfg.ClimbStep * m.climbing
	m.offset += m.cfg.FallStep * m.falling
	m.group.SetPosition(0, float32(m.offset), 0)

	if m.toSpace && m.spaceRewardHeight > 0 && -m.offset >= m.spaceRewardHeight && m.biome.Name != terrain.SpaceBiome {
		if err := m.SetBiome(terrain.SpaceBiome); err != nil {
			m.log.Warn("space biome unavailable", "error", err)
			return
		}
		m.log.Info("reached space", "height", -m.offset)
	}
}

func (m *Manager) evict() {
	limit := m.cfg.Radius + m.cfg.EvictionMargin
	var out []Coord
	for c := range m.chunks {
		if c.Distance(m.center) > limit {
			out = append(out, c)
		}
	}
	sortNearest(out, m.center)
	for _, c := range out {
		m.remove(c)
		m.stats.Evicted++
	}
}

// remove disposes the chunk at c, then drops it from the mapping and the
// render graph. A disposal failure is logged; the chunk is removed anyway.
func (m *Manager) remove(c Coord) {
	ch, ok := m.chunks[c]
	if !ok {
		return
	}
	if err := ch.Dispose(); err != nil {
		m.stats.DisposalFailures++
		m.log.Warn("chunk disposal failed", "coord", c, "error", err)
	}
	delete(m.chunks, c)
	delete(m.stale, c)
	m.group.Remove(ch.Node())
}

func (m *Manager) regenerate() {
	if m.pendingNoise || m.pendingGeo {
		m.pendingNoise, m.pendingGeo = false, false
		m.regenerateAll()
		return
	}
	if len(m.stale) == 0 {
		return
	}
	coords := make([]Coord, 0, len(m.stale))
	for c := range m.stale {
		coords = append(coords, c)
	}
	sortNearest(coords, m.center)
	snap := m.Snapshot()
	for _, c := range coords {
		if ch, ok := m.chunks[c]; ok {
			m.regenerateChunk(ch, snap)
		}
	}
}

func (m *Manager) regenerateAll() {
	snap := m.Snapshot()
	for _, c := range m.ResidentCoords() {
		m.regenerateChunk(m.chunks[c], snap)
	}
}

func (m *Manager) regenerateChunk(ch *Chunk, snap Snapshot) {
	var err error
	if ch.Surface().Geometry().Resolution != snap.Resolution {
		err = ch.UpdateTerrainGeo(snap)
	} else {
		err = ch.UpdateNoise(snap)
	}
	m.stats.Regenerations++
	if err != nil {
		m.stats.RegenerationFailures++
		m.stale[ch.Coord()] = struct{}{}
		m.logFailure("chunk regeneration failed", ch.Coord(), err)
		return
	}
	delete(m.stale, ch.Coord())
}

// spawn creates missing required chunks nearest-first. Cells whose last
// attempt failed queue behind every untried cell, oldest failure first, so a
// cell that keeps failing cannot starve its neighbours of the creation cap.
func (m *Manager) spawn() {
	required := RequiredSet(m.center, m.cfg.Radius)
	for c := range m.failed {
		if c.Distance(m.center) > m.cfg.Radius {
			delete(m.failed, c)
		}
	}

	queue := make([]Coord, 0, len(required))
	var retry []Coord
	for _, c := range required {
		if _, ok := m.chunks[c]; ok {
			continue
		}
		if _, ok := m.failed[c]; ok {
			retry = append(retry, c)
			continue
		}
		queue = append(queue, c)
	}
	sort.SliceStable(retry, func(i, j int) bool { return m.failed[retry[i]] < m.failed[retry[j]] })
	queue = append(queue, retry...)

	snap := m.Snapshot()
	attempts := 0
	pending := 0
	for _, c := range queue {
		if m.cfg.MaxCreatesPerFrame > 0 && attempts >= m.cfg.MaxCreatesPerFrame {
			pending++
			continue
		}
		attempts++
		ch, err := NewChunk(m.env, snap, c)
		if err != nil {
			pending++
			m.failed[c] = m.stats.Frames
			m.stats.GenerationFailures++
			m.logFailure("chunk generation failed", c, err)
			continue
		}
		delete(m.failed, c)
		m.insert(c, ch)
	}
	m.stats.Pending = pending
}

func (m *Manager) insert(c Coord, ch *Chunk) {
	if _, ok := m.chunks[c]; ok {
		m.stats.DuplicateInserts++
		assertf(m.log, ErrDuplicate, "coordinate %v already resident", c)
		m.remove(c)
	}
	m.chunks[c] = ch
	m.group.Add(ch.Node())
	m.stats.Created++
}

func (m *Manager) logFailure(msg string, c Coord, err error) {
	if !m.limiter.Allow() {
		m.stats.SuppressedLogs++
		return
	}
	m.log.Warn(msg, "coord", c, "error", err, "suppressed", m.stats.SuppressedLogs)
}

// Snapshot returns the read-only state chunks are built from.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{
		Size:       m.cfg.ChunkSize,
		Resolution: m.cfg.Resolution,
		Seed:       m.cfg.Seed,
		Biome:      m.biome,
		Clouds:     m.cfg.Clouds,
		Orbs:       m.cfg.Orbs,
	}
}

// SetBiome switches every resident chunk to the named biome on the next Update.
func (m *Manager) SetBiome(name string) error {
	p, err := m.biomes.Lookup(name)
	if err != nil {
		return err
	}
	return m.SetBiomeParams(p)
}

// SetBiomeParams replaces the active biome parameters. Unchanged parameters
// do not schedule a regeneration.
func (m *Manager) SetBiomeParams(p terrain.BiomeParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p == m.biome {
		return nil
	}
	m.biome = p
	m.pendingNoise = true
	return nil
}

// SetResolution changes the per-chunk sample count; resident chunks rebuild
// their topology on the next Update.
func (m *Manager) SetResolution(n int) error {
	if n < 2 {
		return fmt.Errorf("chunk: resolution %d below 2", n)
	}
	if n == m.cfg.Resolution {
		return nil
	}
	m.cfg.Resolution = n
	m.pendingGeo = true
	return nil
}

// SetClimbing sets the climb counter. Negative values are treated as zero.
func (m *Manager) SetClimbing(v float64) { m.climbing = max(v, 0) }

// SetFalling sets the fall counter. Negative values are treated as zero.
func (m *Manager) SetFalling(v float64) { m.falling = max(v, 0) }

// SetToSpace arms or disarms the space transition.
func (m *Manager) SetToSpace(on bool) { m.toSpace = on }

// SetSpaceRewardHeight sets the climbed height at which an armed space
// transition fires.
func (m *Manager) SetSpaceRewardHeight(h float64) { m.spaceRewardHeight = h }

// ResetBiome restores the configured starting biome, clears the vertical
// flags, and regenerates every resident chunk immediately.
func (m *Manager) ResetBiome() {
	p, err := m.biomes.Lookup(m.defaultBiome)
	if err != nil {
		p = terrain.DefaultBiomes()[0]
	}
	m.biome = p
	clear(m.failed)
	m.toSpace = false
	m.climbing, m.falling = 0, 0
	m.spaceRewardHeight = 0
	m.pendingNoise = false
	m.regenerateAll()
}

// Reset returns the world to its starting state: no vertical offset and the
// configured starting biome. Resident chunks are regenerated only if the
// biome changed.
func (m *Manager) Reset() {
	m.offset = 0
	m.group.SetPosition(0, 0, 0)
	def, err := m.biomes.Lookup(m.defaultBiome)
	if err != nil || m.biome != def {
		m.ResetBiome()
		return
	}
	m.toSpace = false
	m.climbing, m.falling = 0, 0
	m.spaceRewardHeight = 0
}

// HeightAt returns the world-space terrain height at (x, z), including the
// vertical offset. It reports false when the cell is not resident.
func (m *Manager) HeightAt(x, z float64) (float64, bool) {
	ch, ok := m.chunks[CoordAt(x, z, m.cfg.ChunkSize)]
	if !ok {
		return 0, false
	}
	h, ok := ch.HeightAt(x, z)
	if !ok {
		return 0, false
	}
	return h + m.offset, true
}

// CollectOrbs collects orbs within radius of world position p from the
// cells around it.
func (m *Manager) CollectOrbs(p mgl32.Vec3, radius float32) int {
	c := CoordAt(float64(p.X()), float64(p.Z()), m.cfg.ChunkSize)
	n := 0
	for _, nc := range RequiredSet(c, 1) {
		if ch, ok := m.chunks[nc]; ok {
			n += ch.CollectOrbs(p, radius)
		}
	}
	m.stats.OrbsCollected += n
	return n
}

// Close disposes every resident chunk and empties the mapping.
func (m *Manager) Close() error {
	var errs []error
	for _, c := range m.ResidentCoords() {
		if err := m.chunks[c].Dispose(); err != nil {
			errs = append(errs, err)
		}
		m.group.Remove(m.chunks[c].Node())
		delete(m.chunks, c)
	}
	clear(m.stale)
	clear(m.failed)
	m.stats.Resident = 0
	return errors.Join(errs...)
}

// ResidentCoords lists resident cells sorted by row, then column.
func (m *Manager) ResidentCoords() []Coord {
	out := make([]Coord, 0, len(m.chunks))
	for c := range m.chunks {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Chunk returns the resident chunk at c.
func (m *Manager) Chunk(c Coord) (*Chunk, bool) {
	ch, ok := m.chunks[c]
	return ch, ok
}

// Len returns the number of resident chunks.
func (m *Manager) Len() int { return len(m.chunks) }

// Group is the render node all resident chunks hang from.
func (m *Manager) Group() *render.Node { return m.group }

// Biome returns the active biome parameters.
func (m *Manager) Biome() terrain.BiomeParams { return m.biome }

// Biomes returns the biome registry.
func (m *Manager) Biomes() *terrain.BiomeSet { return m.biomes }

// Config returns the current streaming configuration.
func (m *Manager) Config() Config { return m.cfg }

// Center returns the tracked entity's cell as of the last Update.
func (m *Manager) Center() (Coord, bool) { return m.center, m.hasCenter }

// Offset returns the accumulated vertical offset.
func (m *Manager) Offset() float64 { return m.offset }

// Climbing returns the climb counter.
func (m *Manager) Climbing() float64 { return m.climbing }

// Falling returns the fall counter.
func (m *Manager) Falling() float64 { return m.falling }

// ToSpace reports whether the space transition is armed.
func (m *Manager) ToSpace() bool { return m.toSpace }

// SpaceRewardHeight returns the armed transition height.
func (m *Manager) SpaceRewardHeight() float64 { return m.spaceRewardHeight }

// Mode reports the vertical state. An armed space transition takes
// precedence over the counters.
func (m *Manager) Mode() Mode {
	switch {
	case m.toSpace:
		return ModeToSpace
	case m.climbing > 0:
		return ModeClimbing
	case m.falling > 0:
		return ModeFalling
	default:
		return ModeDefault
	}
}

// Stats returns a copy of the counters.
func (m *Manager) Stats() Stats {
	s := m.stats
	s.Resident = len(m.chunks)
	return s
}
