package router

import (
	"fmt"
	"strings"
	"time"

	"github.com/nathoo/starpilot/engine/ship"
	"github.com/nathoo/starpilot/engine/survey"
	"github.com/nathoo/starpilot/tables"
	"github.com/nathoo/starpilot/types"
)

// --- movement ---------------------------------------------------------

func (r *Router) handleJumpRoute(rec Record) {
	system := str(rec, "StarSystem")
	if system == "" {
		return
	}
	r.st.RouteArrival(system, types.TriggerFSDJump)
}

func (r *Router) handleJumpLocation(rec Record) {
	if system := str(rec, "StarSystem"); system != "" {
		r.st.SetSystem(system)
	}
}

// handleLocation covers game start, relog, and respawn. The route tracker
// runs with the location trigger; the second SetSystem pass is a carried
// quirk and idempotent.
func (r *Router) handleLocation(rec Record) {
	system := str(rec, "StarSystem")
	if system == "" {
		return
	}
	r.st.RouteArrival(system, types.TriggerLocation)
	r.st.SetSystem(system)
	if r.cfg.LocationDoubleFire {
		r.st.SetSystem(system)
	}
	if boolean(rec, "Docked") {
		r.st.SetDocked(str(rec, "StationName"), true)
	}
}

func (r *Router) handleCarrierJump(rec Record) {
	system := str(rec, "StarSystem")
	if system == "" {
		return
	}
	r.st.RouteArrival(system, types.TriggerLocation)
	r.st.SetSystem(system)
}

func (r *Router) handleDocked(rec Record) {
	r.st.SetDocked(str(rec, "StationName"), true)
}

func (r *Router) handleUndocked(rec Record) {
	r.st.SetDocked("", false)
}

// --- ship -------------------------------------------------------------

func (r *Router) handleLoadout(rec Record) {
	lo := ship.Loadout{
		ShipID:        int64(num(rec, "ShipID")),
		ShipType:      str(rec, "Ship"),
		UnladenMass:   num(rec, "UnladenMass"),
		ReportedMaxLY: num(rec, "MaxJumpRange"),
	}
	if fc := sub(rec, "FuelCapacity"); fc != nil {
		lo.FuelCapacity = num(fc, "Main")
	}
	for _, raw := range list(rec, "Modules") {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		mod := ship.Module{Slot: str(m, "Slot"), Item: str(m, "Item")}
		if eng := sub(m, "Engineering"); eng != nil {
			mod.Engineering = projectEngineering(eng)
		}
		lo.Modules = append(lo.Modules, mod)
	}
	r.st.ApplyLoadout(lo)
}

func projectEngineering(eng Record) *types.Engineering {
	out := &types.Engineering{
		Blueprint:    str(eng, "BlueprintName"),
		Experimental: str(eng, "ExperimentalEffect"),
		Modifiers:    map[string]float64{},
	}
	for _, raw := range list(eng, "Modifiers") {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		label := str(m, "Label")
		if label == "" {
			continue
		}
		out.Modifiers[label] = num(m, "Value")
	}
	return out
}

// --- survey -----------------------------------------------------------

func (r *Router) handleDiscoveryScan(rec Record) {
	system := str(rec, "SystemName")
	count := int(num(rec, "BodyCount"))
	if system == "" || count <= 0 {
		return
	}
	r.st.Survey(func(e *survey.Engine) {
		e.SetBodyCount(system, count)
	})
	r.st.Emit(types.StatusEvent{
		Level: types.LevelInfo, Code: types.CodeFSSProgress,
		Text:   fmt.Sprintf("📡 Discovery scan: %d bodies in %s", count, system),
		TS:     time.Now(),
		Source: "survey",
	}, system)
}

// handleScan credits cartography value and announces high-value finds and
// survey progress. Order matters: credit first, then announce from the
// post-credit snapshot.
func (r *Router) handleScan(rec Record) {
	system := str(rec, "StarSystem")
	if system == "" {
		return
	}
	_, hasID := rec["BodyID"]
	scan := survey.Scan{
		StarSystem:     system,
		BodyName:       str(rec, "BodyName"),
		BodyID:         int64(num(rec, "BodyID")),
		HasBodyID:      hasID,
		PlanetClass:    str(rec, "PlanetClass"),
		TerraformState: str(rec, "TerraformState"),
		WasDiscovered:  boolean(rec, "WasDiscovered"),
		WasMapped:      boolean(rec, "WasMapped"),
	}

	var (
		credited bool
		snap     types.SystemStats
	)
	r.st.Survey(func(e *survey.Engine) {
		st, ok := e.ApplyScan(scan)
		credited, snap = ok, *st
	})
	if !credited {
		return
	}

	bodyType, terraformable := tables.CanonicalBody(scan.PlanetClass, scan.TerraformState)
	if tables.HighValueClass(bodyType, terraformable) && len(snap.HighValue) > 0 {
		hv := snap.HighValue[len(snap.HighValue)-1]
		label := hv.BodyType
		if hv.Terraformable {
			label = "Terraformable " + label
		}
		r.st.Emit(types.StatusEvent{
			Level: types.LevelOK, Code: types.CodeFSSProgress,
			Text:   fmt.Sprintf("⭐ %s: %s", hv.Body, label),
			TS:     time.Now(),
			Source: "survey",
		}, "hv:"+hv.Body)
	}

	// Quartile survey-progress callouts. 100% is left to the game's own
	// completion event.
	if snap.BodyCount > 0 && !snap.AllBodiesFound {
		if pct := crossedQuartile(snap.TotalScanned, snap.BodyCount); pct > 0 {
			r.st.Emit(types.StatusEvent{
				Level: types.LevelInfo, Code: types.CodeFSSProgress,
				Text: fmt.Sprintf("🔭 Survey %d%%: %d of %d bodies",
					pct, snap.TotalScanned, snap.BodyCount),
				TS:     time.Now(),
				Source: "survey",
			}, fmt.Sprintf("%s:%d", system, pct))
		}
	}
}

// crossedQuartile returns the highest of 25/50/75 first reached by the
// latest credited scan, or 0.
func crossedQuartile(scanned, total int) int {
	if total <= 0 || scanned <= 0 || scanned >= total {
		return 0
	}
	prev := (scanned - 1) * 100 / total
	now := scanned * 100 / total
	for _, pct := range []int{75, 50, 25} {
		if prev < pct && now >= pct {
			return pct
		}
	}
	return 0
}

func (r *Router) handleAllBodiesFound(rec Record) {
	system := str(rec, "SystemName")
	if system == "" {
		return
	}
	count := int(num(rec, "Count"))
	r.st.Survey(func(e *survey.Engine) {
		if count > 0 {
			e.SetBodyCount(system, count)
		}
		e.SetAllBodiesFound(system)
	})
	r.st.Emit(types.StatusEvent{
		Level: types.LevelOK, Code: types.CodeFSSComplete,
		Text:   fmt.Sprintf("✅ All %d bodies found in %s", count, system),
		TS:     time.Now(),
		Source: "survey",
	}, system)
	r.st.ExitSummary(system)
}

func (r *Router) handleSAASignals(rec Record) {
	if !r.cfg.BioAssistant {
		return
	}
	body := str(rec, "BodyName")
	for _, raw := range list(rec, "Signals") {
		sig, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if !strings.Contains(str(sig, "Type"), "Biological") &&
			!strings.Contains(str(sig, "Type_Localised"), "Biological") {
			continue
		}
		n := int(num(sig, "Count"))
		if n <= 0 {
			continue
		}
		r.st.Emit(types.StatusEvent{
			Level: types.LevelInfo, Code: types.CodeFSSProgress,
			Text:   fmt.Sprintf("🧬 %d biological signal(s) on %s", n, body),
			TS:     time.Now(),
			Source: "survey",
		}, "bio:"+body)
	}
}

// handleScanOrganic credits exobiology only on the final analysis pass;
// the log and sample passes are ignored. Records without a ScanType are
// already-analysed entries and pass through.
func (r *Router) handleScanOrganic(rec Record) {
	if pass := str(rec, "ScanType"); pass != "" && pass != "Analyse" {
		return
	}
	species := str(rec, "Species_Localised")
	if species == "" {
		species = str(rec, "Species")
	}
	if species == "" {
		return
	}
	_, footfallKnown := rec["FirstFootfall"]
	r.creditBiology(survey.Biology{
		StarSystem:     str(rec, "StarSystem"),
		Species:        species,
		FirstDiscovery: boolean(rec, "FirstDiscovery"),
		FirstFootfall:  boolean(rec, "FirstFootfall"),
	}, footfallKnown)
}

func (r *Router) handleCodexEntry(rec Record) {
	if !strings.Contains(str(rec, "SubCategory"), "Organic_Structures") {
		return
	}
	name := str(rec, "Name_Localised")
	if name == "" {
		name = str(rec, "Name")
	}
	if name == "" {
		return
	}
	r.creditBiology(survey.Biology{
		StarSystem:     str(rec, "System"),
		Species:        name,
		FirstDiscovery: boolean(rec, "IsNewEntry"),
	}, false)
}

func (r *Router) creditBiology(bio survey.Biology, footfallKnown bool) {
	if bio.StarSystem == "" {
		bio.StarSystem = r.st.CurrentSystem()
	}
	if bio.StarSystem == "" {
		return
	}
	// Older journals omit the footfall flag; a recorded touchdown is the
	// next best signal.
	if !footfallKnown {
		bio.FirstFootfall = r.st.TouchdownBody() != ""
	}

	var (
		credited bool
		snap     types.SystemStats
	)
	r.st.Survey(func(e *survey.Engine) {
		st, ok := e.ApplyBiology(bio)
		credited, snap = ok, *st
	})
	if !credited || !r.cfg.BioAssistant {
		return
	}
	r.st.Emit(types.StatusEvent{
		Level: types.LevelOK, Code: types.CodeFSSProgress,
		Text:   fmt.Sprintf("🧬 %s analysed — exobiology now %d cr", bio.Species, snap.Exobiology),
		TS:     time.Now(),
		Source: "survey",
	}, "species:"+bio.Species)
}

// --- surface and cargo ------------------------------------------------

func (r *Router) handleMaterialCollected(rec Record) {
	if name := str(rec, "Name"); name != "" {
		r.st.AdjustInventory(name, int(num(rec, "Count")))
	}
}

func (r *Router) handleMaterialDiscarded(rec Record) {
	if name := str(rec, "Name"); name != "" {
		r.st.AdjustInventory(name, -int(num(rec, "Count")))
	}
}

func (r *Router) handleTouchdown(rec Record) {
	r.st.SetTouchdown(str(rec, "Body"))
}

func (r *Router) handleFootfall(rec Record) {
	body := str(rec, "BodyName")
	if body == "" {
		body = str(rec, "Body")
	}
	r.st.SetTouchdown(body)
}

func (r *Router) handleDisembark(rec Record) {
	if boolean(rec, "OnPlanet") {
		r.st.SetTouchdown(str(rec, "Body"))
	}
}

func (r *Router) handleSmugglerCheck(rec Record) {
	if !r.st.HasStolenCargo() {
		return
	}
	place := str(rec, "StationName")
	if place == "" {
		place = str(rec, "Name_Localised")
	}
	if place == "" {
		place = str(rec, "Name")
	}
	r.st.Emit(types.StatusEvent{
		Level: types.LevelWarn, Code: types.CodeSmugglerAlert,
		Text:   fmt.Sprintf("🚨 Stolen cargo aboard — expect a scan at %s", place),
		TS:     time.Now(),
		Source: "cargo",
	}, place)
}

// handleCargoEvent maintains the stolen ledger and the cargo mass from the
// in-journal Cargo event. The sidecar snapshot covers the same ground when
// the journal omits the inventory.
func (r *Router) handleCargoEvent(rec Record) {
	inv := list(rec, "Inventory")
	if inv == nil {
		for _, key := range []string{"Cargo", "CargoMass", "Count"} {
			if _, ok := rec[key]; ok {
				r.st.SetCargoMass(num(rec, key))
				return
			}
		}
		return
	}
	stolen := map[string]int{}
	total := 0
	for _, raw := range inv {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		count := int(num(item, "Count"))
		total += count
		if n := int(num(item, "Stolen")); n > 0 {
			stolen[str(item, "Name")] = n
		}
	}
	r.st.SetStolenCargo(stolen)
	r.st.SetCargoMass(float64(total))
}
