package tables

import (
	"strings"

	"github.com/nathoo/starpilot/norm"
)

// canonicalBodies maps the game's PlanetClass strings (case-folded) to the
// body types used by the cartography table.
var canonicalBodies = map[string]string{
	"ammonia world":                    "Ammonia World",
	"earthlike body":                   "Earth-like World",
	"water world":                      "Water World",
	"high metal content body":          "High Metal Content World",
	"icy body":                         "Icy Body",
	"metal rich body":                  "Metal-Rich Body",
	"rocky body":                       "Rocky Body",
	"rocky ice body":                   "Rocky Ice Body",
	"sudarsky class i gas giant":       "Class I Gas Giant",
	"sudarsky class ii gas giant":      "Class II Gas Giant",
	"sudarsky class iii gas giant":     "Class III Gas Giant",
	"sudarsky class iv gas giant":      "Class IV Gas Giant",
	"sudarsky class v gas giant":       "Class V Gas Giant",
	"gas giant with ammonia based life": "Gas Giant with Ammonia-based Life",
	"gas giant with water based life":   "Gas Giant with Water-based Life",
	"helium rich gas giant":            "Helium-Rich Gas Giant",
	"water giant":                      "Water Giant",
}

// CanonicalBody maps a journal (PlanetClass, TerraformState) pair to the
// canonical (body type, terraformable) key used by the cartography table.
// Unknown classes fall through to the title-cased raw class; BodyValue
// applies the generic fallback after that.
func CanonicalBody(planetClass, terraformState string) (string, bool) {
	terraformable := strings.Contains(strings.ToLower(terraformState), "terraform")
	if bt, ok := canonicalBodies[norm.Name(planetClass)]; ok {
		return bt, terraformable
	}
	return norm.Title(planetClass), terraformable
}

// HighValueClass reports whether a canonical body type warrants a
// high-value-target record: Earth-like, Water World, Ammonia World, or a
// terraformable High Metal Content World.
func HighValueClass(bodyType string, terraformable bool) bool {
	switch bodyType {
	case "Earth-like World", "Water World", "Ammonia World":
		return true
	case "High Metal Content World":
		return terraformable
	}
	return false
}
