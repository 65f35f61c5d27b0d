// Package survey keeps the per-system scientific ledgers: cartography
// value, exobiology value, first-discovery bonuses, and the discovery
// status derived from them. It also renders the exit summary shown when a
// system survey completes.
package survey

import (
	"fmt"

	"github.com/nathoo/starpilot/norm"
	"github.com/nathoo/starpilot/tables"
	"github.com/nathoo/starpilot/types"
)

// Scan is the typed projection of a Scan journal event.
type Scan struct {
	StarSystem     string
	BodyName       string
	BodyID         int64
	HasBodyID      bool
	PlanetClass    string
	TerraformState string
	WasDiscovered  bool
	WasMapped      bool
}

// Biology is the typed projection of a ScanOrganic or CodexEntry event.
type Biology struct {
	StarSystem     string
	Species        string // raw or codex-wrapped
	FirstDiscovery bool
	FirstFootfall  bool
}

// Engine accumulates one SystemStats per encountered system. It is owned
// by the central state and relies on its lock.
type Engine struct {
	tbl     *tables.Tables
	systems map[string]*types.SystemStats

	unknownBodySeq int
}

// New creates an engine backed by the given reference tables.
func New(tbl *tables.Tables) *Engine {
	return &Engine{tbl: tbl, systems: map[string]*types.SystemStats{}}
}

// Stats returns the accumulator for a system, creating it on first touch.
func (e *Engine) Stats(system string) *types.SystemStats {
	key := norm.Name(system)
	st, ok := e.systems[key]
	if !ok {
		st = &types.SystemStats{
			Name:        system,
			SeenBodies:  map[string]bool{},
			SeenSpecies: map[string]bool{},
		}
		e.systems[key] = st
	}
	return st
}

// ApplyScan credits one body scan. Re-scans of a seen body are no-ops.
// Returns the stats and whether the scan was credited.
func (e *Engine) ApplyScan(scan Scan) (*types.SystemStats, bool) {
	st := e.Stats(scan.StarSystem)

	body := scan.BodyName
	if body == "" && scan.HasBodyID {
		body = fmt.Sprintf("BODY_%d", scan.BodyID)
	}
	if body == "" {
		// No identifier at all: still credit the scan, under a synthetic
		// name that can never dedupe against a real body.
		e.unknownBodySeq++
		body = fmt.Sprintf("UNKNOWN_BODY_%d", e.unknownBodySeq)
	}
	if st.SeenBodies[body] {
		return st, false
	}
	st.SeenBodies[body] = true

	st.TotalScanned++
	if scan.WasDiscovered {
		st.BodiesPrevious++
		st.PrevDiscovered = types.True
	} else {
		st.BodiesFirst++
		if st.PrevDiscovered == types.Unknown {
			st.PrevDiscovered = types.False
		}
	}

	row, ok := e.tbl.BodyValue(scan.PlanetClass, scan.TerraformState)
	if !ok {
		return st, true // empty tables: discovery counters only
	}

	base := row.FSSBase
	if scan.WasMapped {
		base = row.DSSMapped
	}
	st.Cartography += base

	var bonus int64
	if !scan.WasDiscovered {
		switch {
		case scan.WasMapped && row.DSSMapped > 0:
			bonus = max64(0, row.FDMapped-row.DSSMapped)
		case row.FSSBase > 0 && row.DSSMapped > 0:
			bonus = max64(0, int64(float64(row.FSSBase)*(float64(row.FDMapped)/float64(row.DSSMapped)-1)))
		}
	}
	if bonus > 0 {
		st.Bonus += bonus
		st.AnyBonuses = true
	}

	bodyType, terraformable := tables.CanonicalBody(scan.PlanetClass, scan.TerraformState)
	if tables.HighValueClass(bodyType, terraformable) {
		st.HighValue = append(st.HighValue, types.HighValueTarget{
			Body:           scan.BodyName,
			BodyType:       bodyType,
			Terraformable:  terraformable,
			ValueCr:        base + bonus,
			FirstDiscovery: !scan.WasDiscovered,
		})
	}
	return st, true
}

// ApplyBiology credits one organism. A species is credited once per system.
func (e *Engine) ApplyBiology(bio Biology) (*types.SystemStats, bool) {
	st := e.Stats(bio.StarSystem)

	species := norm.Species(bio.Species)
	if species == "" || st.SeenSpecies[species] {
		return st, false
	}
	st.SeenSpecies[species] = true

	row, ok := e.tbl.Species(species)
	if !ok {
		return st, true
	}
	st.Exobiology += row.BaseValue

	var bonus int64
	if bio.FirstDiscovery {
		bonus += row.FDBonus
	}
	if bio.FirstFootfall && row.FFTotal > 0 {
		bonus += max64(0, row.FFTotal-row.BaseValue-row.FDBonus)
	}
	if bonus > 0 {
		st.Bonus += bonus
		st.AnyBonuses = true
	}
	return st, true
}

// SetBodyCount records the system body count from FSSDiscoveryScan and
// resets survey-completion progress for a fresh honk.
func (e *Engine) SetBodyCount(system string, count int) *types.SystemStats {
	st := e.Stats(system)
	st.BodyCount = count
	st.AllBodiesFound = false
	return st
}

// SetAllBodiesFound marks the survey complete.
func (e *Engine) SetAllBodiesFound(system string) *types.SystemStats {
	st := e.Stats(system)
	st.AllBodiesFound = true
	return st
}

// IsVirgin reports whether every scanned body in the system was a first
// discovery. A system with no scans is unsurveyed, not virgin.
func IsVirgin(st *types.SystemStats) bool {
	return st.TotalScanned > 0 && st.BodiesFirst == st.TotalScanned
}

// PrevDiscovered projects the discovery ternary: any previously discovered
// body settles the question, otherwise the stored value stands.
func PrevDiscovered(st *types.SystemStats) types.Ternary {
	if st.BodiesPrevious > 0 {
		return types.True
	}
	return st.PrevDiscovered
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
