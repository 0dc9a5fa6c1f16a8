package config

import (
	"math"
	"strings"

	"github.com/shallvtalk/chaospendulum/internal/dynamo"
)

type Preset struct {
	Name        string
	Description string
	State       dynamo.State
	Params      dynamo.Params
}

// Apply copies the preset's state and parameters into cfg.
func (p Preset) Apply(cfg *Config) {
	cfg.State = p.State
	cfg.Params = p.Params
}

// Slug is the lower-case, dash-separated form used on the command line.
func (p Preset) Slug() string {
	return strings.ReplaceAll(strings.ToLower(p.Name), " ", "-")
}

func withParams(fn func(*dynamo.Params)) dynamo.Params {
	p := dynamo.DefaultParams()
	fn(&p)
	return p
}

var Presets = []Preset{
	{
		Name:        "Small Angle",
		Description: "Small angle oscillation - predictable behavior",
		State:       dynamo.AtRest(-0.2, -0.1),
		Params:      dynamo.DefaultParams(),
	},
	{
		Name:        "Classic Chaos",
		Description: "Classic chaotic motion with equal masses",
		State:       dynamo.AtRest(-math.Pi/2, -math.Pi/3),
		Params:      dynamo.DefaultParams(),
	},
	{
		Name:        "High Energy",
		Description: "High energy chaotic motion - complex trajectories",
		State:       dynamo.State{Theta1: -0.7 * math.Pi, Theta2: -0.8 * math.Pi, Omega1: 1.0, Omega2: -0.5},
		Params:      dynamo.DefaultParams(),
	},
	{
		Name:        "Unequal Masses",
		Description: "Heavy bottom mass creates interesting dynamics",
		State:       dynamo.AtRest(-math.Pi/3, -math.Pi/4),
		Params:      withParams(func(p *dynamo.Params) { p.M2 = 3.0 }),
	},
	{
		Name:        "Unequal Lengths",
		Description: "Different arm lengths create asymmetric motion",
		State:       dynamo.AtRest(-math.Pi/4, -math.Pi/3),
		Params:      withParams(func(p *dynamo.Params) { p.L1, p.L2 = 1.5, 0.8 }),
	},
	{
		Name:        "Damped System",
		Description: "Damped motion shows energy dissipation",
		State:       dynamo.AtRest(-math.Pi/2, -math.Pi/4),
		Params:      withParams(func(p *dynamo.Params) { p.Damping = 0.1 }),
	},
	{
		Name:        "Low Gravity",
		Description: "Moon-like gravity creates slower, extended motion",
		State:       dynamo.AtRest(-math.Pi/3, -math.Pi/2),
		Params:      withParams(func(p *dynamo.Params) { p.G = 1.62 }),
	},
	{
		Name:        "Near Circular",
		Description: "High initial velocity creates near-circular motion",
		State:       dynamo.State{Omega1: 3.0, Omega2: 4.0},
		Params:      dynamo.DefaultParams(),
	},
}

// GetPreset matches either the display name or the slug, ignoring case.
func GetPreset(name string) (Preset, bool) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) || strings.EqualFold(p.Slug(), name) {
			return p, true
		}
	}
	return Preset{}, false
}

func ListPresets() []string {
	names := make([]string, len(Presets))
	for i, p := range Presets {
		names[i] = p.Slug()
	}
	return names
}
