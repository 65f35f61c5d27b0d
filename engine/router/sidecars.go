package router

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nathoo/starpilot/norm"
	"github.com/nathoo/starpilot/types"
)

// Sidecar handlers consume whole-file snapshots (Status.json, Cargo.json,
// Market.json, NavRoute.json) rather than journal lines. Each tolerates a
// truncated or mid-write file by reporting a throttled parse diagnostic.

// HandleStatus feeds a Status.json snapshot into the fuel accumulator.
func (r *Router) HandleStatus(raw []byte) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		r.diag(types.CodeJournalParse, "status snapshot parse error: %v", err)
		return
	}
	fuel := sub(rec, "Fuel")
	if fuel == nil {
		return
	}
	r.st.SetFuel(num(fuel, "FuelMain"), num(fuel, "FuelReservoir"))
}

// HandleCargo feeds a Cargo.json snapshot into the cargo accumulator and
// the stolen-goods ledger.
func (r *Router) HandleCargo(raw []byte) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		r.diag(types.CodeJournalParse, "cargo snapshot parse error: %v", err)
		return
	}
	r.handleCargoEvent(rec)
}

// HandleMarket scans a Market.json snapshot for below-threshold buy prices
// and raises a one-shot jackpot alert per (system, station, commodity).
func (r *Router) HandleMarket(raw []byte) {
	if len(r.cfg.JackpotThresholds) == 0 {
		return
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		r.diag(types.CodeJournalParse, "market snapshot parse error: %v", err)
		return
	}
	system := str(rec, "StarSystem")
	station := str(rec, "StationName")
	for _, raw := range list(rec, "Items") {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name := str(item, "Name_Localised")
		if name == "" {
			name = str(item, "Name")
		}
		threshold, ok := r.jackpotThreshold(name)
		if !ok {
			continue
		}
		price := int64(num(item, "BuyPrice"))
		stock := int64(num(item, "Stock"))
		if stock <= 0 || price <= 0 || price >= threshold {
			continue
		}
		if !r.st.MarkJackpot(system, station, name) {
			continue
		}
		r.st.Emit(types.StatusEvent{
			Level: types.LevelOK, Code: types.CodeTradeJackpot,
			Text: fmt.Sprintf("💰 %s at %d cr (threshold %d) — %s, %s",
				name, price, threshold, station, system),
			TS:     time.Now(),
			Source: "trade",
		}, "")
	}
}

// jackpotThreshold resolves a commodity against the configured thresholds
// with normalized matching, so "Low Temperature Diamonds" and
// "lowtemperaturediamonds" both hit.
func (r *Router) jackpotThreshold(name string) (int64, bool) {
	want := commodityKey(name)
	for commodity, threshold := range r.cfg.JackpotThresholds {
		if commodityKey(commodity) == want {
			return threshold, true
		}
	}
	return 0, false
}

func commodityKey(name string) string {
	return strings.ReplaceAll(norm.Name(name), " ", "")
}

// HandleNavRoute mirrors a NavRoute.json snapshot into the in-game route,
// which powers the desync symbiosis check.
func (r *Router) HandleNavRoute(raw []byte) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		r.diag(types.CodeJournalParse, "navroute snapshot parse error: %v", err)
		return
	}
	var systems []string
	for _, raw := range list(rec, "Route") {
		hop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if s := str(hop, "StarSystem"); s != "" {
			systems = append(systems, s)
		}
	}
	if len(systems) == 0 {
		r.st.SetInGameRoute("", nil, "navroute")
		return
	}
	r.st.SetInGameRoute(systems[len(systems)-1], systems, "navroute")
}
