// Package types defines the shared data structures for the starpilot core.
// This package contains only type definitions, no logic.
package types

import "time"

// Level classifies a status event for the UI palette and the log.
type Level string

const (
	LevelOK    Level = "OK"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
	LevelBusy  Level = "BUSY"
)

// Status codes are a stable vocabulary shared with every external consumer.
// Renaming one is a breaking change for overlays and speech scripts.
const (
	CodeNextHopCopied        = "NEXT_HOP_COPIED"
	CodeRouteComplete        = "ROUTE_COMPLETE"
	CodeRouteDesync          = "ROUTE_DESYNC"
	CodeRouteDesyncPending   = "ROUTE_DESYNC_PENDING"
	CodeRouteAlignedIngame   = "ROUTE_ALIGNED_INGAME"
	CodeNextHopEmpty         = "NEXT_HOP_EMPTY"
	CodeAutoClipboardNextHop = "AUTO_CLIPBOARD_MODE_NEXT_HOP"
	CodeAutoClipboardOff     = "AUTO_CLIPBOARD_OFF"
	CodeRouteCopied          = "ROUTE_COPIED"
	CodeClipboardFail        = "CLIPBOARD_FAIL"
	CodeRouteEmpty           = "ROUTE_EMPTY"
	CodeRouteFound           = "ROUTE_FOUND"
	CodeRouteCleared         = "ROUTE_CLEARED"
	CodeRouteError           = "ROUTE_ERROR"
	CodeJRReady              = "JR_READY"
	CodeJRWaitingData        = "JR_WAITING_DATA"
	CodeJRComputeFail        = "JR_COMPUTE_FAIL"
	CodeJRValidateOK         = "JR_VALIDATE_OK"
	CodeJRValidateDelta      = "JR_VALIDATE_DELTA"
	CodeJREngineering        = "JR_ENGINEERING_APPLIED"
	CodeJRNotReadyFallback   = "JR_NOT_READY_FALLBACK"
	CodeMilestoneProgress    = "MILESTONE_PROGRESS"
	CodeMilestoneReached     = "MILESTONE_REACHED"
	CodeFSSProgress          = "FSS_PROGRESS"
	CodeFSSComplete          = "FSS_COMPLETE"
	CodeTradeJackpot         = "TRADE_JACKPOT"
	CodeSmugglerAlert        = "SMUGGLER_ALERT"
	CodeExitSummary          = "EXIT_SUMMARY"
	CodeJournalParse         = "JOURNAL_PARSE"
	CodeHandlerFault         = "HANDLER_FAULT"
)

// StatusEvent is the user-visible payload for bus messages of kind
// "status_event". Text is already translated and ready to speak or display.
type StatusEvent struct {
	Level  Level
	Code   string
	Text   string
	TS     time.Time
	Source string
	Sticky bool
}

// UISlot is a (text, color) pair published to a named UI slot.
type UISlot struct {
	Target string
	Text   string
	Color  string
}

// Message is the envelope carried on the bus. Exactly one payload field is
// set, selected by Kind.
type Message struct {
	Kind   string // "start_label", "status_event", "status_slot", "ship_state", "log"
	Label  string
	Status *StatusEvent
	Slot   *UISlot
	Ship   *ShipSnapshot
	Log    string
}

// ActiveRoute is the planned multi-hop path and its progress bookkeeping.
type ActiveRoute struct {
	SystemsRaw  []string // as displayed
	SystemsNorm []string // canonical forms, parallel to SystemsRaw
	Index       int      // next hop to copy; len(systems) when complete
	LastCopied  string
	LastProgTS  time.Time
	Source      string

	DesyncStrikes int
	DesyncActive  bool

	// Milestone sub-state for the active target.
	TargetNorm           string
	TargetRaw            string
	TargetIndex          int
	StartIndex           int
	Announced            map[int]bool // thresholds 25/50/75/100 already emitted
	StartRemainingIngame int
}

// InGameRoute mirrors the game's own auto-plotted path.
type InGameRoute struct {
	Endpoint  string   // normalized
	Systems   []string // normalized, adjacent duplicates removed on ingest
	UpdatedAt time.Time
	Source    string
}

// Engineering captures labeled FSD modifiers from a loadout.
type Engineering struct {
	Blueprint    string
	Experimental string
	Modifiers    map[string]float64 // label → value, labels as reported
}

// FSD is the resolved frame-shift drive fit.
type FSD struct {
	Class       int
	Rating      string
	Item        string
	Engineering *Engineering
}

// FSDBooster is the resolved jump-range booster fit.
type FSDBooster struct {
	Class   int
	BonusLY float64
}

// Limit names what capped the last jump-range computation.
type Limit string

const (
	LimitMass    Limit = "mass"
	LimitFuel    Limit = "fuel"
	LimitUnknown Limit = "unknown"
)

// ShipSnapshot is the full ship-state dictionary published on every change.
type ShipSnapshot struct {
	ShipID   int64
	ShipType string

	UnladenMass   float64 // tonnes
	CargoMass     float64
	FuelMain      float64
	FuelReservoir float64

	FSD           *FSD
	Booster       *FSDBooster
	FitReady      bool
	RangeLY       float64
	LimitedBy     Limit
	MaxRangeLY    float64
	ValidateDelta float64
}

// HighValueTarget is a body worth a dedicated mapping visit.
type HighValueTarget struct {
	Body           string
	BodyType       string
	Terraformable  bool
	ValueCr        int64
	FirstDiscovery bool
}

// Ternary is a three-valued flag for facts the journal may never settle.
type Ternary int

const (
	Unknown Ternary = iota
	False
	True
)

// SystemStats accumulates scientific value for one star system.
type SystemStats struct {
	Name string

	Cartography int64 // credits
	Exobiology  int64
	Bonus       int64 // first-discovery bonuses, both ledgers

	SeenBodies  map[string]bool
	SeenSpecies map[string]bool
	HighValue   []HighValueTarget

	TotalScanned   int
	BodiesFirst    int
	BodiesPrevious int
	AnyBonuses     bool
	PrevDiscovered Ternary

	BodyCount      int // from FSSDiscoveryScan, 0 when unknown
	AllBodiesFound bool
}

// BodyValueRow is one row of the cartography reference table.
type BodyValueRow struct {
	BodyType      string `yaml:"body_type"`
	Terraformable string `yaml:"terraformable"` // "Yes" / "No"
	FSSBase       int64  `yaml:"fss_base_value"`
	DSSMapped     int64  `yaml:"dss_mapped_value"`
	FDMapped      int64  `yaml:"first_discovery_mapped_value"`
}

// SpeciesRow is one row of the exobiology reference table.
type SpeciesRow struct {
	Species     string `yaml:"species_name"`
	BaseValue   int64  `yaml:"base_value"`
	FDBonus     int64  `yaml:"first_discovery_bonus"`
	FFTotal     int64  `yaml:"total_first_footfall"`
	MinDistance int    `yaml:"minimum_distance"`
}

// FSDSpec is one row of the FSD module reference table.
type FSDSpec struct {
	Class     int     `yaml:"class"`
	Rating    string  `yaml:"rating"`
	Symbol    string  `yaml:"symbol"`
	Name      string  `yaml:"name"`
	OptMass   float64 `yaml:"opt_mass"`
	MaxFuel   float64 `yaml:"max_fuel"`
	FuelPower float64 `yaml:"fuel_power"`
	FuelMult  float64 `yaml:"fuel_multiplier"`
}

// FSDEngineering is the coarse multiplier section of the FSD table, used
// when a loadout carries no explicit modifier list.
type FSDEngineering struct {
	OptMassMult   float64            `yaml:"opt_mass_mult"`
	MaxFuelMult   float64            `yaml:"max_fuel_mult"`
	FuelPowerMult float64            `yaml:"fuel_power_mult"`
	FuelMultMult  float64            `yaml:"fuel_multiplier_mult"`
	Experimental  map[string]float64 `yaml:"experimental"` // effect → opt-mass multiplier
}
