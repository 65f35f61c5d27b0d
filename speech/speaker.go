package speech

import (
	"context"

	"github.com/nathoo/starpilot/types"
)

// spokenCodes lists what is worth saying out loud at all; chatter like
// slot refreshes and validation confirmations stays on screen only.
var spokenCodes = map[string]bool{
	types.CodeNextHopCopied:     true,
	types.CodeRouteComplete:     true,
	types.CodeRouteDesync:       true,
	types.CodeRouteFound:        true,
	types.CodeMilestoneProgress: true,
	types.CodeMilestoneReached:  true,
	types.CodeJRReady:           true,
	types.CodeJRValidateDelta:   true,
	types.CodeFSSComplete:       true,
	types.CodeTradeJackpot:      true,
	types.CodeSmugglerAlert:     true,
	types.CodeExitSummary:       true,
}

// Speaker consumes bus traffic and speaks rendered phrases through say.
// say is typically a TTS shell-out; tests inject a recorder.
type Speaker struct {
	cfg     *types.Config
	phraser *Phraser
	say     func(string)
}

// NewSpeaker wires a phraser to an output function.
func NewSpeaker(cfg *types.Config, p *Phraser, say func(string)) *Speaker {
	return &Speaker{cfg: cfg, phraser: p, say: say}
}

// Run consumes messages until ctx is done.
func (s *Speaker) Run(ctx context.Context, ch <-chan types.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			s.Handle(m)
		}
	}
}

// Handle speaks one bus message if its code passes the config gates.
func (s *Speaker) Handle(m types.Message) {
	if m.Kind != "status_event" || m.Status == nil {
		return
	}
	ev := *m.Status
	if !spokenCodes[ev.Code] || !s.enabled(ev.Code) {
		return
	}
	if text, ok := s.phraser.Render(ev); ok {
		s.say(text)
	}
}

// enabled applies the per-feature speech switches.
func (s *Speaker) enabled(code string) bool {
	switch code {
	case types.CodeMilestoneProgress, types.CodeMilestoneReached:
		return s.cfg.RouteProgressSpeech
	case types.CodeTradeJackpot:
		return s.cfg.TradeJackpotSpeech
	case types.CodeExitSummary:
		return s.cfg.ExitSummaryEnabled
	}
	return true
}
