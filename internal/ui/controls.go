package ui

import (
	"math"
	"strconv"

	"flyover/internal/core"
)

const defaultFloatStep = 0.05

// control tracks one +/- row of the HUD: the control description and the
// last value read from the parameter snapshot.
type control struct {
	spec     core.ParameterControl
	current  float64
	hasValue bool
	label    string
}

// refresh parses the snapshot value for the control. Unknown or unparsable
// values disable both buttons.
func (c *control) refresh(params map[string]core.Parameter) {
	c.hasValue = false
	c.label = "--"
	p, ok := params[c.spec.Key]
	if !ok {
		return
	}
	switch c.spec.Type {
	case core.ParamTypeInt:
		v, err := strconv.Atoi(p.Value)
		if err != nil {
			return
		}
		c.current = float64(v)
	case core.ParamTypeFloat:
		v, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			return
		}
		c.current = v
	default:
		return
	}
	c.hasValue = true
	c.label = c.format(c.current)
}

// next returns the value one step in direction, clamped to the bounds. It
// reports false when the value cannot move.
func (c *control) next(direction int) (float64, bool) {
	if !c.hasValue || direction == 0 {
		return 0, false
	}
	step := c.spec.Step
	if c.spec.Type == core.ParamTypeInt {
		step = math.Max(1, math.Round(step))
	} else if step <= 0 {
		step = defaultFloatStep
	}
	target := c.current + float64(direction)*step
	if c.spec.HasMin {
		target = math.Max(target, c.spec.Min)
	}
	if c.spec.HasMax {
		target = math.Min(target, c.spec.Max)
	}
	if c.spec.Type == core.ParamTypeInt {
		target = math.Round(target)
	}
	if math.Abs(target-c.current) < 1e-9 {
		return 0, false
	}
	return target, true
}

// apply pushes v through the matching setter and records it on success.
func (c *control) apply(v float64, ints core.IntParameterSetter, floats core.FloatParameterSetter) bool {
	ok := false
	switch c.spec.Type {
	case core.ParamTypeInt:
		ok = ints != nil && ints.SetIntParameter(c.spec.Key, int(v))
	case core.ParamTypeFloat:
		ok = floats != nil && floats.SetFloatParameter(c.spec.Key, v)
	}
	if ok {
		c.current = v
		c.label = c.format(v)
	}
	return ok
}

func (c *control) format(v float64) string {
	if c.spec.Type == core.ParamTypeInt {
		return strconv.Itoa(int(v))
	}
	step := c.spec.Step
	if step <= 0 {
		step = defaultFloatStep
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// statusLines picks the read-only values shown above the controls: string
// and bool parameters plus each group's summary.
func statusLines(snap core.ParameterSnapshot) []core.Parameter {
	var out []core.Parameter
	for _, group := range snap.Groups {
		for _, p := range group.Params {
			if p.Type == core.ParamTypeString || p.Type == core.ParamTypeBool {
				out = append(out, p)
			}
		}
		if group.Summary != "" {
			out = append(out, core.Parameter{Key: group.Name, Label: group.Name, Value: group.Summary})
		}
	}
	return out
}

func paramIndex(snap core.ParameterSnapshot) map[string]core.Parameter {
	out := map[string]core.Parameter{}
	for _, group := range snap.Groups {
		for _, p := range group.Params {
			out[p.Key] = p
		}
	}
	return out
}
