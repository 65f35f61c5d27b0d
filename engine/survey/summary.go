package survey

import (
	"fmt"

	"github.com/nathoo/starpilot/types"
)

// Summary line templates. These strings are part of the external contract
// with overlays and speech scripts; keep the bytes stable.
const (
	summaryHeader    = "📋 System survey: %s"
	summaryScanned   = "Scanned bodies: %d"
	summaryScannedOf = "Scanned bodies: %d of %d"
	summaryAllFound  = "All bodies found"
	summaryCarto     = "🧭 Cartography: %s cr"
	summaryExo       = "🧬 Exobiology: %s cr"
	summaryBonus     = "💎 First discovery bonus: %s cr"
	summaryTotal     = "💰 Total: %s cr"
	summaryVirgin    = "✨ Virgin system — no previous discoveries on record"
	summaryVisited   = "Previously discovered system"
	summaryHighValue = "⭐ %s (%s)"
)

// classCountNames maps a (body type, terraformable) pair to its summary
// count line label.
var classCountNames = []struct {
	bodyType      string
	terraformable bool
	label         string
}{
	{"Earth-like World", false, "Earth-like Worlds"},
	{"Water World", false, "Water Worlds"},
	{"Water World", true, "Terraformable Water Worlds"},
	{"Ammonia World", false, "Ammonia Worlds"},
	{"High Metal Content World", true, "Terraformable High Metal Content Worlds"},
}

// BuildExitSummary renders a system's accumulated value into the human
// summary published on survey completion. A terraformable body counts both
// in its plain class line and its terraformable line.
func BuildExitSummary(st *types.SystemStats) []string {
	var lines []string
	lines = append(lines, fmt.Sprintf(summaryHeader, st.Name))

	if st.BodyCount > 0 {
		lines = append(lines, fmt.Sprintf(summaryScannedOf, st.TotalScanned, st.BodyCount))
	} else {
		lines = append(lines, fmt.Sprintf(summaryScanned, st.TotalScanned))
	}
	if st.AllBodiesFound {
		lines = append(lines, summaryAllFound)
	}

	for _, cc := range classCountNames {
		n := 0
		for _, hv := range st.HighValue {
			if hv.BodyType != cc.bodyType {
				continue
			}
			if cc.terraformable && !hv.Terraformable {
				continue
			}
			n++
		}
		if n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", cc.label, n))
		}
	}

	for _, hv := range st.HighValue {
		label := hv.BodyType
		if hv.Terraformable {
			label = "Terraformable " + label
		}
		lines = append(lines, fmt.Sprintf(summaryHighValue, hv.Body, label))
	}

	lines = append(lines, fmt.Sprintf(summaryCarto, groupDigits(st.Cartography)))
	if st.Exobiology > 0 {
		lines = append(lines, fmt.Sprintf(summaryExo, groupDigits(st.Exobiology)))
	}
	if st.Bonus > 0 {
		lines = append(lines, fmt.Sprintf(summaryBonus, groupDigits(st.Bonus)))
	}
	lines = append(lines, fmt.Sprintf(summaryTotal, groupDigits(st.Cartography+st.Exobiology+st.Bonus)))

	if IsVirgin(st) {
		lines = append(lines, summaryVirgin)
	} else if PrevDiscovered(st) == types.True {
		lines = append(lines, summaryVisited)
	}
	return lines
}

// groupDigits formats n with thousands separators: 1234567 → "1,234,567".
func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
