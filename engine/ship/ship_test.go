package ship

import (
	"testing"

	"github.com/nathoo/starpilot/tables"
	"github.com/nathoo/starpilot/types"
)

func shipConfig() *types.Config {
	return &types.Config{
		JumpRangeEnabled:           true,
		JumpRangeComputeOn:         types.ComputeOnBoth,
		JumpRangeEngineering:       true,
		JumpRangeIncludeReservoir:  true,
		JumpRangeRounding:          2,
		JumpRangeValidateEnabled:   true,
		JumpRangeValidateTolerance: 0.05,
	}
}

func shipTables(t *testing.T) *tables.Tables {
	t.Helper()
	tbl, err := tables.Build(nil, nil, []types.FSDSpec{
		{Class: 5, Rating: "A", Name: "5A FSD", OptMass: 1050, MaxFuel: 5, FuelPower: 2.45, FuelMult: 0.012},
	}, nil)
	if err != nil {
		t.Fatalf("tables.Build: %v", err)
	}
	return tbl
}

func hasCode(events []types.StatusEvent, code string) bool {
	for _, ev := range events {
		if ev.Code == code {
			return true
		}
	}
	return false
}

func TestApplyLoadoutComputesRange(t *testing.T) {
	s := New(shipConfig(), shipTables(t))

	changed, events := s.ApplyLoadout(Loadout{
		ShipID:       42,
		ShipType:     "asp",
		UnladenMass:  280.4,
		FuelCapacity: 32,
		Modules:      []Module{{Slot: "FrameShiftDrive", Item: "int_hyperdrive_size5_class5"}},
	})
	if !changed {
		t.Fatal("loadout must change the snapshot")
	}
	if !hasCode(events, types.CodeJRReady) {
		t.Errorf("expected JR_READY in %+v", events)
	}
	snap := s.Snapshot()
	if !snap.FitReady || snap.RangeLY <= 0 || snap.MaxRangeLY <= 0 {
		t.Errorf("snapshot = %+v, want ready with ranges", snap)
	}
	if snap.MaxRangeLY < snap.RangeLY {
		t.Errorf("loadout max %v below current %v", snap.MaxRangeLY, snap.RangeLY)
	}
}

func TestApplyLoadoutNoDrive(t *testing.T) {
	s := New(shipConfig(), shipTables(t))

	_, events := s.ApplyLoadout(Loadout{ShipID: 1, UnladenMass: 100})
	if !hasCode(events, types.CodeJRNotReadyFallback) {
		t.Errorf("expected JR_NOT_READY_FALLBACK in %+v", events)
	}
	if s.Snapshot().FitReady {
		t.Error("fit must not be ready without a drive")
	}
}

func TestSetFuelRecomputes(t *testing.T) {
	s := New(shipConfig(), shipTables(t))
	s.ApplyLoadout(Loadout{UnladenMass: 280.4, FuelCapacity: 32,
		Modules: []Module{{Item: "int_hyperdrive_size5_class5"}}})
	before := s.Snapshot().RangeLY

	changed, events := s.SetFuel(4, 0.5)
	if !changed || !hasCode(events, types.CodeJRReady) {
		t.Fatalf("fuel delta must recompute: changed=%v events=%+v", changed, events)
	}
	snap := s.Snapshot()
	if snap.RangeLY <= before {
		t.Errorf("lighter ship must jump further: %v -> %v", before, snap.RangeLY)
	}
	if snap.LimitedBy != types.LimitFuel {
		t.Errorf("LimitedBy = %s, want fuel (4 t < 5 t per jump)", snap.LimitedBy)
	}

	if changed, _ := s.SetFuel(4, 0.5); changed {
		t.Error("identical fuel reading must be a no-op")
	}
}

func TestComputeOnLoadoutOnly(t *testing.T) {
	cfg := shipConfig()
	cfg.JumpRangeComputeOn = types.ComputeOnLoadout
	s := New(cfg, shipTables(t))
	s.ApplyLoadout(Loadout{UnladenMass: 280.4,
		Modules: []Module{{Item: "int_hyperdrive_size5_class5"}}})

	_, events := s.SetFuel(4, 0)
	if hasCode(events, types.CodeJRReady) {
		t.Error("status-change trigger must not recompute in loadout-only mode")
	}
}

func TestValidateDelta(t *testing.T) {
	s := New(shipConfig(), shipTables(t))

	_, events := s.ApplyLoadout(Loadout{
		UnladenMass:   280.4,
		ReportedMaxLY: 5, // far from the computed figure
		Modules:       []Module{{Item: "int_hyperdrive_size5_class5"}},
	})
	if !hasCode(events, types.CodeJRValidateDelta) {
		t.Errorf("expected JR_VALIDATE_DELTA in %+v", events)
	}

	// A second loadout reporting the computed max itself must validate OK.
	reported := s.Snapshot().MaxRangeLY
	_, events = s.ApplyLoadout(Loadout{
		UnladenMass:   280.4,
		ReportedMaxLY: reported,
		Modules:       []Module{{Item: "int_hyperdrive_size5_class5"}},
	})
	if !hasCode(events, types.CodeJRValidateOK) {
		t.Errorf("expected JR_VALIDATE_OK in %+v", events)
	}
}

func TestMissingDriveData(t *testing.T) {
	empty := tables.Empty()
	s := New(shipConfig(), empty)

	_, events := s.ApplyLoadout(Loadout{UnladenMass: 280.4,
		Modules: []Module{{Item: "int_hyperdrive_size5_class5"}}})
	if !hasCode(events, types.CodeJRComputeFail) {
		t.Errorf("expected JR_COMPUTE_FAIL with empty tables, got %+v", events)
	}
}
