package types

// Clipboard auto-copy modes and triggers.
const (
	ClipModeFullRoute = "FULL_ROUTE"
	ClipModeNextHop   = "NEXT_HOP"

	TriggerFSDJump  = "fsdjump"
	TriggerLocation = "location"
	TriggerBoth     = "both"

	PolicyNearestForward = "nearest_forward"
	PolicyStrict         = "strict"

	ComputeOnBoth    = "both"
	ComputeOnLoadout = "loadout"
	ComputeOnStatus  = "status_change"
)

// Config holds every recognized configuration key. All fields have working
// defaults; see Defaults().
type Config struct {
	AutoClipboard             bool   `yaml:"auto_clipboard"`
	AutoClipboardMode         string `yaml:"auto_clipboard_mode"`
	NextHopTrigger            string `yaml:"auto_clipboard_next_hop_trigger"`
	NextHopResyncPolicy       string `yaml:"auto_clipboard_next_hop_resync_policy"`
	NextHopDesyncConfirmJumps int    `yaml:"auto_clipboard_next_hop_desync_confirm_jumps"`

	JumpRangeEnabled           bool    `yaml:"jump_range_engine_enabled"`
	JumpRangeComputeOn         string  `yaml:"jump_range_compute_on"`
	JumpRangeEngineering       bool    `yaml:"jump_range_engineering_enabled"`
	JumpRangeIncludeReservoir  bool    `yaml:"jump_range_include_reservoir_mass"`
	JumpRangeRounding          int     `yaml:"jump_range_rounding"`
	JumpRangeValidateEnabled   bool    `yaml:"jump_range_validate_enabled"`
	JumpRangeValidateTolerance float64 `yaml:"jump_range_validate_tolerance_ly"`

	BioAssistant        bool `yaml:"bio_assistant"`
	TradeJackpotSpeech  bool `yaml:"trade_jackpot_speech"`
	RouteProgressSpeech bool `yaml:"route_progress_speech"`
	ExitSummaryEnabled  bool `yaml:"exit_summary_enabled"`

	// Carries forward the double system-change pass of the Location handler.
	LocationDoubleFire bool `yaml:"location_double_fire"`

	JackpotThresholds map[string]int64 `yaml:"jackpot_thresholds"` // commodity → credits
}
