package ship

import (
	"testing"

	"github.com/nathoo/starpilot/types"
)

func TestResolveFit(t *testing.T) {
	modules := []Module{
		{Slot: "PowerPlant", Item: "int_powerplant_size4_class5"},
		{Slot: "FrameShiftDrive", Item: "int_hyperdrive_size5_class5",
			Engineering: &types.Engineering{Blueprint: "FSD_LongRange"}},
		{Slot: "Slot03_Size5", Item: "int_guardianfsdbooster_size5"},
	}

	fsd, booster, ready := ResolveFit(modules)
	if !ready {
		t.Fatal("fit with a drive must be ready")
	}
	if fsd.Class != 5 || fsd.Rating != "A" {
		t.Errorf("FSD = %+v, want class 5 rating A", fsd)
	}
	if fsd.Engineering == nil || fsd.Engineering.Blueprint != "FSD_LongRange" {
		t.Errorf("engineering not carried: %+v", fsd.Engineering)
	}
	if booster == nil || booster.Class != 5 || booster.BonusLY != 10.5 {
		t.Errorf("booster = %+v, want class 5 / 10.5 ly", booster)
	}
}

func TestResolveFitOverchargeVariant(t *testing.T) {
	fsd, _, ready := ResolveFit([]Module{
		{Slot: "FrameShiftDrive", Item: "int_hyperdrive_overcharge_size6_class3"},
	})
	if !ready || fsd.Class != 6 || fsd.Rating != "C" {
		t.Errorf("overcharge drive: ready=%v fsd=%+v, want class 6 rating C", ready, fsd)
	}
}

func TestResolveFitNoDrive(t *testing.T) {
	_, booster, ready := ResolveFit([]Module{
		{Slot: "PowerPlant", Item: "int_powerplant_size4_class5"},
		{Slot: "Slot01_Size3", Item: "int_guardianfsdbooster_size3"},
	})
	if ready {
		t.Error("fit without a drive must not be ready")
	}
	if booster == nil || booster.BonusLY != 7.75 {
		t.Errorf("booster should still resolve: %+v", booster)
	}
}

func TestResolveFitUnparseableDrive(t *testing.T) {
	if _, _, ready := ResolveFit([]Module{{Item: "int_hyperdrive_mystery"}}); ready {
		t.Error("unparseable drive symbol must not mark the fit ready")
	}
}
