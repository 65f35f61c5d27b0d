// Package config loads the starpilot configuration: working defaults,
// optionally overridden by a YAML file, optionally overridden again by the
// persisted settings snapshot.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/starpilot/types"
)

// Defaults returns the configuration used when nothing else is present.
func Defaults() *types.Config {
	return &types.Config{
		AutoClipboard:             true,
		AutoClipboardMode:         types.ClipModeNextHop,
		NextHopTrigger:            types.TriggerFSDJump,
		NextHopResyncPolicy:       types.PolicyNearestForward,
		NextHopDesyncConfirmJumps: 2,

		JumpRangeEnabled:           true,
		JumpRangeComputeOn:         types.ComputeOnBoth,
		JumpRangeEngineering:       true,
		JumpRangeIncludeReservoir:  true,
		JumpRangeRounding:          2,
		JumpRangeValidateEnabled:   true,
		JumpRangeValidateTolerance: 0.05,

		BioAssistant:        true,
		TradeJackpotSpeech:  true,
		RouteProgressSpeech: true,
		ExitSummaryEnabled:  true,
		LocationDoubleFire:  true,

		JackpotThresholds: map[string]int64{},
	}
}

// Load reads path over the defaults. A missing file is not an error; a
// malformed one is.
func Load(path string) (*types.Config, error) {
	cfg := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return Defaults(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	normalize(cfg)
	return cfg, nil
}

// normalize clamps out-of-range values back to sane ones.
func normalize(cfg *types.Config) {
	if cfg.NextHopDesyncConfirmJumps < 1 {
		cfg.NextHopDesyncConfirmJumps = 1
	}
	if cfg.JumpRangeRounding < 0 {
		cfg.JumpRangeRounding = 0
	}
	if cfg.JumpRangeValidateTolerance <= 0 {
		cfg.JumpRangeValidateTolerance = 0.05
	}
	switch cfg.AutoClipboardMode {
	case types.ClipModeFullRoute, types.ClipModeNextHop:
	default:
		cfg.AutoClipboardMode = types.ClipModeNextHop
	}
	switch cfg.NextHopTrigger {
	case types.TriggerFSDJump, types.TriggerLocation, types.TriggerBoth:
	default:
		cfg.NextHopTrigger = types.TriggerFSDJump
	}
	switch cfg.NextHopResyncPolicy {
	case types.PolicyNearestForward, types.PolicyStrict:
	default:
		cfg.NextHopResyncPolicy = types.PolicyNearestForward
	}
	switch cfg.JumpRangeComputeOn {
	case types.ComputeOnBoth, types.ComputeOnLoadout, types.ComputeOnStatus:
	default:
		cfg.JumpRangeComputeOn = types.ComputeOnBoth
	}
	if cfg.JackpotThresholds == nil {
		cfg.JackpotThresholds = map[string]int64{}
	}
}
