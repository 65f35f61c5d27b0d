package ship

import (
	"math"
	"strings"

	"github.com/nathoo/starpilot/types"
)

// Params are the effective drive parameters after engineering.
type Params struct {
	OptMass   float64 // M*, tonnes
	MaxFuel   float64 // F_max, tonnes per jump
	FuelPower float64 // p
	FuelMult  float64 // k
}

// RangeResult is the explicit outcome of a range computation. The engine
// never panics into callers; failures carry an error kind instead.
type RangeResult struct {
	OK        bool
	Error     string // "bad_mass", "bad_params" when !OK
	RangeLY   float64
	LimitedBy types.Limit
}

// Compute evaluates the drive model for the current mass and fuel load.
// Fuel available for one jump is min(fuelMain, MaxFuel); the booster bonus
// is added after the formula; the result is rounded to `rounding` decimals.
func Compute(p Params, mass, fuelMain, boosterLY float64, rounding int) RangeResult {
	if mass <= 0 {
		return RangeResult{Error: "bad_mass", LimitedBy: types.LimitUnknown}
	}
	if p.OptMass <= 0 || p.FuelPower <= 0 || p.FuelMult <= 0 {
		return RangeResult{Error: "bad_params", LimitedBy: types.LimitUnknown}
	}

	limit := types.LimitMass
	if fuelMain < p.MaxFuel || p.MaxFuel <= 0 {
		limit = types.LimitFuel
	}

	fuel := math.Min(fuelMain, p.MaxFuel)
	if fuel <= 0 {
		return RangeResult{OK: true, RangeLY: 0, LimitedBy: limit}
	}

	rangeLY := math.Pow(fuel/p.FuelMult, 1/p.FuelPower) * (p.OptMass / mass)
	rangeLY += boosterLY
	return RangeResult{OK: true, RangeLY: round(rangeLY, rounding), LimitedBy: limit}
}

// ComputeLoadoutMax evaluates the loadout's theoretical best: unladen hull,
// a full single-jump fuel load, nothing else aboard.
func ComputeLoadoutMax(p Params, unladenMass, boosterLY float64, rounding int) RangeResult {
	res := Compute(p, unladenMass+p.MaxFuel, p.MaxFuel, boosterLY, rounding)
	if res.OK {
		res.LimitedBy = types.LimitMass
	}
	return res
}

// EngineeredParams applies the engineering pipeline to a base drive spec:
// labeled loadout modifiers first; otherwise the coarse table multipliers;
// otherwise the experimental-effect heuristic. Reports whether anything
// changed the base parameters.
func EngineeredParams(spec types.FSDSpec, eng *types.Engineering, table *types.FSDEngineering) (Params, bool) {
	p := Params{
		OptMass:   spec.OptMass,
		MaxFuel:   spec.MaxFuel,
		FuelPower: spec.FuelPower,
		FuelMult:  spec.FuelMult,
	}
	if eng == nil {
		return p, false
	}

	if len(eng.Modifiers) > 0 {
		applied := false
		for label, value := range eng.Modifiers {
			if value <= 0 {
				continue
			}
			switch {
			case labelMatches(label, "optimal mass"):
				p.OptMass = value
				applied = true
			case labelMatches(label, "max fuel"):
				p.MaxFuel = value
				applied = true
			case labelMatches(label, "fuel power"):
				p.FuelPower = value
				applied = true
			case labelMatches(label, "fuel multiplier"):
				p.FuelMult = value
				applied = true
			}
		}
		if applied {
			return p, true
		}
	}

	if table != nil {
		applied := false
		if table.OptMassMult > 0 {
			p.OptMass *= table.OptMassMult
			applied = true
		}
		if table.MaxFuelMult > 0 {
			p.MaxFuel *= table.MaxFuelMult
			applied = true
		}
		if table.FuelPowerMult > 0 {
			p.FuelPower *= table.FuelPowerMult
			applied = true
		}
		if table.FuelMultMult > 0 {
			p.FuelMult *= table.FuelMultMult
			applied = true
		}
		if eng.Experimental != "" {
			for effect, mult := range table.Experimental {
				if mult > 0 && labelMatches(eng.Experimental, effect) {
					p.OptMass *= mult
					applied = true
					break
				}
			}
		}
		if applied {
			return p, true
		}
	}

	// Heuristic for the two common experimental effects when no better data
	// is available.
	switch {
	case labelMatches(eng.Experimental, "mass manager"):
		p.OptMass *= 1.04
		return p, true
	case labelMatches(eng.Experimental, "deep charge"):
		p.MaxFuel *= 1.1
		return p, true
	}
	return p, false
}

// labelMatches reports whether a reported modifier label carries the given
// keyword, ignoring case, spaces, and underscores. The journal reports
// labels like "FSDOptimalMass" and "MaxFuelPerJump".
func labelMatches(label, keyword string) bool {
	return strings.Contains(cleanLabel(label), cleanLabel(keyword))
}

func cleanLabel(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "_", "")
}

func round(x float64, decimals int) float64 {
	if decimals < 0 {
		decimals = 0
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(x*scale) / scale
}
