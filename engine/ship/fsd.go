// Package ship models the vehicle: loadout resolution, the jump-range
// physics, and the live mass/fuel/cargo accumulator that ties them together.
package ship

import (
	"strings"

	"github.com/nathoo/starpilot/types"
)

// Module is one loadout slot, already projected from the untyped journal
// record by the router.
type Module struct {
	Slot        string
	Item        string
	Engineering *types.Engineering
}

// Loadout is the typed projection of a Loadout journal event.
type Loadout struct {
	ShipID        int64
	ShipType      string
	UnladenMass   float64
	FuelCapacity  float64
	ReportedMaxLY float64 // the game's own MaxJumpRange, for validation
	Modules       []Module
}

// boosterBonusLY maps booster class to its flat range bonus.
var boosterBonusLY = map[int]float64{
	1: 4.0,
	2: 6.0,
	3: 7.75,
	4: 9.25,
	5: 10.5,
}

// driveRatings maps the class digit in a drive symbol to its rating letter.
var driveRatings = map[string]string{
	"1": "E",
	"2": "D",
	"3": "C",
	"4": "B",
	"5": "A",
}

// ResolveFit walks the module list and extracts the FSD and any booster.
// The fit is ready for jump-range work only when a usable drive is found.
func ResolveFit(modules []Module) (fsd *types.FSD, booster *types.FSDBooster, ready bool) {
	for _, m := range modules {
		item := strings.ToLower(m.Item)
		switch {
		case strings.Contains(item, "int_hyperdrive"):
			class, rating := driveClassRating(item)
			if class == 0 {
				continue
			}
			fsd = &types.FSD{
				Class:       class,
				Rating:      rating,
				Item:        m.Item,
				Engineering: m.Engineering,
			}
		case strings.Contains(item, "fsdbooster"):
			class := sizeDigit(item, "size")
			booster = &types.FSDBooster{Class: class, BonusLY: boosterBonusLY[class]}
		}
	}
	return fsd, booster, fsd != nil
}

// driveClassRating parses "int_hyperdrive_size5_class5" (and the overcharge
// variants) into (size, rating). Returns (0, "") when unparseable.
func driveClassRating(item string) (int, string) {
	size := sizeDigit(item, "size")
	if size == 0 {
		return 0, ""
	}
	idx := strings.Index(item, "class")
	if idx < 0 || idx+5 >= len(item) {
		return 0, ""
	}
	rating, ok := driveRatings[item[idx+5:idx+6]]
	if !ok {
		return 0, ""
	}
	return size, rating
}

// sizeDigit extracts the single digit following marker in item, or 0.
func sizeDigit(item, marker string) int {
	idx := strings.Index(item, marker)
	if idx < 0 || idx+len(marker) >= len(item) {
		return 0
	}
	c := item[idx+len(marker)]
	if c < '1' || c > '9' {
		return 0
	}
	return int(c - '0')
}
