package chunk

import (
	"strconv"

	"flyover/internal/core"
)

// Parameters reports streaming, biome, and vertical state for the HUD.
func (m *Manager) Parameters() core.ParameterSnapshot {
	b := m.biome
	s := m.Stats()
	groups := []core.ParameterGroup{
		{
			Name: "Streaming",
			Params: []core.Parameter{
				intParam("radius", "Radius", m.cfg.Radius),
				intParam("eviction_margin", "Eviction margin", m.cfg.EvictionMargin),
				intParam("max_creates_per_frame", "Max creates/frame", m.cfg.MaxCreatesPerFrame),
				intParam("resolution", "Resolution", m.cfg.Resolution),
				floatParam("chunk_size", "Chunk size", m.cfg.ChunkSize),
			},
			Summary: "resident " + strconv.Itoa(s.Resident) + " pending " + strconv.Itoa(s.Pending),
		},
		{
			Name: "Biome",
			Params: []core.Parameter{
				stringParam("biome", "Biome", b.Name),
				int64Param("biome_seed", "Seed", b.Seed),
				floatParam("frequency", "Frequency", b.Frequency),
				intParam("octaves", "Octaves", b.Octaves),
				floatParam("persistence", "Persistence", b.Persistence),
				floatParam("lacunarity", "Lacunarity", b.Lacunarity),
				floatParam("amplitude", "Amplitude", b.Amplitude),
				floatParam("base_height", "Base height", b.BaseHeight),
				floatParam("exponent", "Exponent", b.Exponent),
				floatParam("water_level", "Water level", b.WaterLevel),
			},
		},
		{
			Name: "Vertical",
			Params: []core.Parameter{
				stringParam("mode", "Mode", m.Mode().String()),
				floatParam("offset", "Offset", m.offset),
				floatParam("climbing", "Climbing", m.climbing),
				floatParam("falling", "Falling", m.falling),
				boolParam("to_space", "To space", m.toSpace),
				floatParam("space_reward_height", "Space reward height", m.spaceRewardHeight),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the values the HUD may adjust.
func (m *Manager) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "radius", Label: "Radius", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 8, HasMin: true, HasMax: true},
		{Key: "eviction_margin", Label: "Eviction margin", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 4, HasMin: true, HasMax: true},
		{Key: "max_creates_per_frame", Label: "Max creates/frame", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 64, HasMin: true, HasMax: true},
		{Key: "resolution", Label: "Resolution", Type: core.ParamTypeInt, Step: 8, Min: 2, Max: 129, HasMin: true, HasMax: true},
		{Key: "octaves", Label: "Octaves", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 12, HasMin: true, HasMax: true},
		{Key: "frequency", Label: "Frequency", Type: core.ParamTypeFloat, Step: 0.0005, Min: 0.0005, HasMin: true},
		{Key: "amplitude", Label: "Amplitude", Type: core.ParamTypeFloat, Step: 10, Min: 0, HasMin: true},
		{Key: "persistence", Label: "Persistence", Type: core.ParamTypeFloat, Step: 0.05, Min: 0.05, Max: 1, HasMin: true, HasMax: true},
		{Key: "water_level", Label: "Water level", Type: core.ParamTypeFloat, Step: 5},
		{Key: "space_reward_height", Label: "Space reward height", Type: core.ParamTypeFloat, Step: 50, Min: 0, HasMin: true},
	}
}

// SetIntParameter updates integer tunables. Biome changes take effect on the
// next Update.
func (m *Manager) SetIntParameter(key string, value int) bool {
	switch key {
	case "radius":
		if value < 0 {
			return false
		}
		m.cfg.Radius = value
	case "eviction_margin":
		if value < 0 {
			return false
		}
		m.cfg.EvictionMargin = value
	case "max_creates_per_frame":
		m.cfg.MaxCreatesPerFrame = value
	case "resolution":
		return m.SetResolution(value) == nil
	case "octaves":
		p := m.biome
		p.Octaves = value
		return m.SetBiomeParams(p) == nil
	case "biome_seed":
		p := m.biome
		p.Seed = int64(value)
		return m.SetBiomeParams(p) == nil
	default:
		return false
	}
	return true
}

// SetFloatParameter updates floating point tunables.
func (m *Manager) SetFloatParameter(key string, value float64) bool {
	p := m.biome
	switch key {
	case "frequency":
		p.Frequency = value
	case "amplitude":
		p.Amplitude = value
	case "persistence":
		p.Persistence = value
	case "lacunarity":
		p.Lacunarity = value
	case "base_height":
		p.BaseHeight = value
	case "exponent":
		p.Exponent = value
	case "water_level":
		p.WaterLevel = value
	case "space_reward_height":
		if value < 0 {
			return false
		}
		m.spaceRewardHeight = value
		return true
	case "climb_step":
		if value < 0 {
			return false
		}
		m.cfg.ClimbStep = value
		return true
	case "fall_step":
		if value < 0 {
			return false
		}
		m.cfg.FallStep = value
		return true
	default:
		return false
	}
	return m.SetBiomeParams(p) == nil
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeBool, Value: strconv.FormatBool(value)}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeString, Value: value}
}
