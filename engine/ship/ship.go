package ship

import (
	"fmt"
	"math"
	"time"

	"github.com/nathoo/starpilot/tables"
	"github.com/nathoo/starpilot/types"
)

// Ship is the live vehicle accumulator. It is exclusively owned by the
// central state and relies on its lock; all methods are plain calls that
// return what should be published instead of publishing it themselves.
type Ship struct {
	cfg *types.Config
	tbl *tables.Tables

	snap types.ShipSnapshot
}

// New creates an empty ship. It is never destroyed; loadout and status
// deltas fill it in over the course of a session.
func New(cfg *types.Config, tbl *tables.Tables) *Ship {
	return &Ship{cfg: cfg, tbl: tbl, snap: types.ShipSnapshot{LimitedBy: types.LimitUnknown}}
}

// Snapshot returns a copy of the current ship state.
func (s *Ship) Snapshot() types.ShipSnapshot {
	return s.snap
}

// ApplyLoadout ingests a Loadout event: identity, hull mass, fit
// resolution, recompute, and validation against the game's own figure.
func (s *Ship) ApplyLoadout(lo Loadout) (changed bool, events []types.StatusEvent) {
	s.snap.ShipID = lo.ShipID
	s.snap.ShipType = lo.ShipType
	if lo.UnladenMass > 0 {
		s.snap.UnladenMass = lo.UnladenMass
	}
	if lo.FuelCapacity > 0 && s.snap.FuelMain == 0 {
		// No status snapshot yet: assume full tanks until one arrives.
		s.snap.FuelMain = lo.FuelCapacity
	}

	fsd, booster, ready := ResolveFit(lo.Modules)
	s.snap.FSD = fsd
	s.snap.Booster = booster
	s.snap.FitReady = ready
	if !ready {
		s.snap.RangeLY = 0
		s.snap.MaxRangeLY = 0
		s.snap.LimitedBy = types.LimitUnknown
		return true, append(events, status(types.LevelWarn, types.CodeJRNotReadyFallback,
			"No usable frame shift drive in loadout; jump range unavailable"))
	}

	if s.computeOn(types.ComputeOnLoadout) {
		events = append(events, s.recompute(true)...)
	}
	events = append(events, s.validate(lo.ReportedMaxLY)...)
	return true, events
}

// SetFuel ingests a fuel delta from the status sidecar.
func (s *Ship) SetFuel(main, reservoir float64) (changed bool, events []types.StatusEvent) {
	if s.snap.FuelMain == main && s.snap.FuelReservoir == reservoir {
		return false, nil
	}
	s.snap.FuelMain = main
	s.snap.FuelReservoir = reservoir
	if s.computeOn(types.ComputeOnStatus) {
		events = s.recompute(false)
	}
	return true, events
}

// SetCargoMass ingests a cargo delta from the cargo sidecar or event.
func (s *Ship) SetCargoMass(tonnes float64) (changed bool, events []types.StatusEvent) {
	if s.snap.CargoMass == tonnes {
		return false, nil
	}
	s.snap.CargoMass = tonnes
	if s.computeOn(types.ComputeOnStatus) {
		events = s.recompute(false)
	}
	return true, events
}

func (s *Ship) computeOn(trigger string) bool {
	if !s.cfg.JumpRangeEnabled {
		return false
	}
	return s.cfg.JumpRangeComputeOn == types.ComputeOnBoth || s.cfg.JumpRangeComputeOn == trigger
}

// recompute re-evaluates current range and loadout max. fromLoadout gates
// the one-time engineering announcement.
func (s *Ship) recompute(fromLoadout bool) []types.StatusEvent {
	var events []types.StatusEvent

	if !s.snap.FitReady {
		return []types.StatusEvent{status(types.LevelInfo, types.CodeJRNotReadyFallback,
			"Jump range skipped: ship fit not resolved yet")}
	}
	if s.snap.UnladenMass <= 0 {
		return []types.StatusEvent{status(types.LevelBusy, types.CodeJRWaitingData,
			"Jump range waiting for ship mass data")}
	}

	spec, ok := s.tbl.FSD(s.snap.FSD.Class, s.snap.FSD.Rating)
	if !ok {
		return []types.StatusEvent{status(types.LevelError, types.CodeJRComputeFail,
			fmt.Sprintf("No drive data for %d%s frame shift drive", s.snap.FSD.Class, s.snap.FSD.Rating))}
	}

	params := Params{OptMass: spec.OptMass, MaxFuel: spec.MaxFuel, FuelPower: spec.FuelPower, FuelMult: spec.FuelMult}
	if s.cfg.JumpRangeEngineering {
		engineered, applied := EngineeredParams(spec, s.snap.FSD.Engineering, s.tbl.Engineering())
		params = engineered
		if applied && fromLoadout {
			events = append(events, status(types.LevelInfo, types.CodeJREngineering,
				fmt.Sprintf("Engineering applied: optimal mass %.0f t, max fuel %.2f t", params.OptMass, params.MaxFuel)))
		}
	}

	mass := s.snap.UnladenMass + s.snap.CargoMass + s.snap.FuelMain
	if s.cfg.JumpRangeIncludeReservoir {
		mass += s.snap.FuelReservoir
	}

	var boosterLY float64
	if s.snap.Booster != nil {
		boosterLY = s.snap.Booster.BonusLY
	}

	res := Compute(params, mass, s.snap.FuelMain, boosterLY, s.cfg.JumpRangeRounding)
	if !res.OK {
		s.snap.LimitedBy = types.LimitUnknown
		return append(events, status(types.LevelError, types.CodeJRComputeFail,
			fmt.Sprintf("Jump range computation failed (%s)", res.Error)))
	}
	s.snap.RangeLY = res.RangeLY
	s.snap.LimitedBy = res.LimitedBy

	if maxRes := ComputeLoadoutMax(params, s.snap.UnladenMass, boosterLY, s.cfg.JumpRangeRounding); maxRes.OK {
		s.snap.MaxRangeLY = maxRes.RangeLY
	}

	events = append(events, status(types.LevelOK, types.CodeJRReady,
		fmt.Sprintf("Jump range %.*f ly (%s limited)", s.cfg.JumpRangeRounding, s.snap.RangeLY, s.snap.LimitedBy)))
	return events
}

// validate compares the computed loadout max against the game's reported
// figure; a delta beyond tolerance is worth a warning.
func (s *Ship) validate(reportedLY float64) []types.StatusEvent {
	if !s.cfg.JumpRangeValidateEnabled || reportedLY <= 0 || s.snap.MaxRangeLY <= 0 {
		return nil
	}
	delta := s.snap.MaxRangeLY - reportedLY
	s.snap.ValidateDelta = delta
	if math.Abs(delta) > s.cfg.JumpRangeValidateTolerance {
		return []types.StatusEvent{status(types.LevelWarn, types.CodeJRValidateDelta,
			fmt.Sprintf("Computed max range %.2f ly differs from game value %.2f ly by %.2f ly",
				s.snap.MaxRangeLY, reportedLY, delta))}
	}
	return []types.StatusEvent{status(types.LevelOK, types.CodeJRValidateOK,
		fmt.Sprintf("Jump range model validated within %.2f ly", s.cfg.JumpRangeValidateTolerance))}
}

func status(level types.Level, code, text string) types.StatusEvent {
	return types.StatusEvent{Level: level, Code: code, Text: text, TS: time.Now(), Source: "ship"}
}
