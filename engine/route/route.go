// Package route reconciles the player's actual jumps against the planned
// route: next-hop advancement, milestone progress at quartiles, and
// de-sync detection with the in-game symbiosis guard.
package route

import (
	"fmt"
	"strings"
	"time"

	"github.com/nathoo/starpilot/norm"
	"github.com/nathoo/starpilot/types"
)

// Outcome is what one tracker operation wants published: status events for
// the bus and texts for the clipboard collaborator.
type Outcome struct {
	Events []types.StatusEvent
	Copy   []string
}

func (o *Outcome) status(level types.Level, code, text string) {
	o.Events = append(o.Events, types.StatusEvent{
		Level: level, Code: code, Text: text, TS: time.Now(), Source: "route",
	})
}

// Tracker owns the active route, the mirrored in-game route, and the
// milestone list. It is exclusively owned by the central state and relies
// on its lock.
type Tracker struct {
	cfg *types.Config

	route  types.ActiveRoute
	ingame types.InGameRoute

	milestonesRaw  []string
	milestonesNorm []string
	milestoneIndex int
}

// New creates a tracker with no route.
func New(cfg *types.Config) *Tracker {
	return &Tracker{cfg: cfg}
}

// Route returns a copy of the active route state.
func (t *Tracker) Route() types.ActiveRoute {
	r := t.route
	r.SystemsRaw = append([]string(nil), t.route.SystemsRaw...)
	r.SystemsNorm = append([]string(nil), t.route.SystemsNorm...)
	ann := make(map[int]bool, len(t.route.Announced))
	for k, v := range t.route.Announced {
		ann[k] = v
	}
	r.Announced = ann
	return r
}

// SetRoute installs a new planned route and resets all progress state.
func (t *Tracker) SetRoute(systems []string, source string) Outcome {
	var out Outcome

	raw := make([]string, 0, len(systems))
	normed := make([]string, 0, len(systems))
	for _, s := range systems {
		n := norm.Name(s)
		if n == "" {
			continue
		}
		raw = append(raw, s)
		normed = append(normed, n)
	}

	t.route = types.ActiveRoute{
		SystemsRaw:  raw,
		SystemsNorm: normed,
		Source:      source,
		Announced:   map[int]bool{},
	}

	if len(normed) == 0 {
		out.status(types.LevelWarn, types.CodeRouteEmpty, "Route is empty")
		return out
	}

	t.armTarget(0)
	out.status(types.LevelOK, types.CodeRouteFound,
		fmt.Sprintf("Route loaded: %d systems, destination %s", len(raw), raw[len(raw)-1]))

	switch {
	case !t.cfg.AutoClipboard:
		out.status(types.LevelInfo, types.CodeAutoClipboardOff, "Auto clipboard is off")
	case t.cfg.AutoClipboardMode == types.ClipModeFullRoute:
		out.Copy = append(out.Copy, strings.Join(raw, "\n"))
		out.status(types.LevelOK, types.CodeRouteCopied,
			fmt.Sprintf("Copied full route (%d systems)", len(raw)))
	default:
		out.status(types.LevelInfo, types.CodeAutoClipboardNextHop, "Auto clipboard: next hop mode")
	}
	return out
}

// ClearRoute drops the planned route and returns the tracker to its
// initial state.
func (t *Tracker) ClearRoute() Outcome {
	var out Outcome
	t.route = types.ActiveRoute{Announced: map[int]bool{}}
	t.milestonesRaw = nil
	t.milestonesNorm = nil
	t.milestoneIndex = 0
	out.status(types.LevelInfo, types.CodeRouteCleared, "Route cleared")
	return out
}

// SetMilestones installs the boost-point list: deduplicated, order
// preserved, and re-arms the active target.
func (t *Tracker) SetMilestones(names []string) {
	seen := map[string]bool{}
	t.milestonesRaw = nil
	t.milestonesNorm = nil
	for _, name := range names {
		n := norm.Name(name)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		t.milestonesRaw = append(t.milestonesRaw, name)
		t.milestonesNorm = append(t.milestonesNorm, n)
	}
	t.milestoneIndex = 0
	if len(t.route.SystemsNorm) > 0 {
		t.armTarget(t.route.StartIndex)
	}
}

// SetInGameRoute mirrors the game's auto-plotted route, normalized with
// adjacent duplicates dropped.
func (t *Tracker) SetInGameRoute(endpoint string, systems []string, source string) {
	t.ingame = types.InGameRoute{
		Endpoint:  norm.Name(endpoint),
		Systems:   norm.Routes(systems),
		UpdatedAt: time.Now(),
		Source:    source,
	}
	// A fresh in-game plot restarts the symbiosis baseline.
	t.route.StartRemainingIngame = 0
}

// armTarget resolves the active milestone target starting the progress
// window at startIndex. With no milestones left the route tail is the
// target.
func (t *Tracker) armTarget(startIndex int) {
	r := &t.route
	r.StartIndex = startIndex
	r.Announced = map[int]bool{}
	r.StartRemainingIngame = 0

	for t.milestoneIndex < len(t.milestonesNorm) {
		n := t.milestonesNorm[t.milestoneIndex]
		if idx := indexFrom(r.SystemsNorm, n, startIndex); idx >= 0 {
			r.TargetNorm = n
			r.TargetRaw = t.milestonesRaw[t.milestoneIndex]
			r.TargetIndex = idx
			return
		}
		// Milestone not ahead of us on the route: skip it.
		t.milestoneIndex++
	}

	last := len(r.SystemsNorm) - 1
	if last >= 0 {
		r.TargetNorm = r.SystemsNorm[last]
		r.TargetRaw = r.SystemsRaw[last]
		r.TargetIndex = last
	}
}

// OnArrival runs the reconciliation state machine for an arrival at
// system, announced by the given trigger kind.
func (t *Tracker) OnArrival(system, trigger string) Outcome {
	var out Outcome
	r := &t.route

	if len(r.SystemsNorm) == 0 || r.Index >= len(r.SystemsNorm) {
		return out
	}
	if !t.triggerEnabled(trigger) {
		return out
	}

	n := norm.Name(system)
	// Duplicate arrival at the position we already advanced past: replayed
	// journal lines must not count as strikes or progress.
	if r.Index > 0 && r.SystemsNorm[r.Index-1] == n {
		return out
	}
	p := t.locate(n)
	if p < 0 {
		t.offRoute(n, &out)
		return out
	}

	r.DesyncStrikes = 0
	r.DesyncActive = false
	r.LastProgTS = time.Now()

	if p+1 >= len(r.SystemsNorm) {
		r.Index = len(r.SystemsNorm)
		t.milestoneProgress(p, &out)
		out.status(types.LevelOK, types.CodeRouteComplete,
			fmt.Sprintf("Route complete: arrived at %s", r.SystemsRaw[p]))
		return out
	}

	r.Index = p + 1
	t.milestoneProgress(p, &out)

	if t.cfg.AutoClipboard && t.cfg.AutoClipboardMode == types.ClipModeNextHop {
		next := r.SystemsRaw[r.Index]
		if next != r.LastCopied {
			r.LastCopied = next
			out.Copy = append(out.Copy, next)
			out.status(types.LevelOK, types.CodeNextHopCopied,
				fmt.Sprintf("Next hop copied: %s", next))
		}
	}
	return out
}

// ManualAdvance copies the current next hop on user request, bypassing the
// last-copied dedupe, and advances the route index.
func (t *Tracker) ManualAdvance() Outcome {
	var out Outcome
	r := &t.route

	if r.Index >= len(r.SystemsRaw) {
		out.status(types.LevelWarn, types.CodeNextHopEmpty, "No next hop to copy")
		return out
	}
	next := r.SystemsRaw[r.Index]
	r.LastCopied = next
	r.Index++
	out.Copy = append(out.Copy, next)
	out.status(types.LevelOK, types.CodeNextHopCopied,
		fmt.Sprintf("Next hop copied: %s", next))
	return out
}

func (t *Tracker) triggerEnabled(trigger string) bool {
	switch t.cfg.NextHopTrigger {
	case types.TriggerBoth, "":
		return true
	default:
		return t.cfg.NextHopTrigger == trigger
	}
}

// locate finds the arrival system in the planned route under the
// configured resync policy.
func (t *Tracker) locate(n string) int {
	if t.cfg.NextHopResyncPolicy == types.PolicyStrict {
		return indexFrom(t.route.SystemsNorm, n, 0)
	}
	return indexFrom(t.route.SystemsNorm, n, t.route.Index)
}

// offRoute handles an arrival that is not on the planned route: the
// symbiosis guard first, then de-sync strike accounting.
func (t *Tracker) offRoute(n string, out *Outcome) {
	r := &t.route

	if t.ingame.Endpoint != "" && t.ingame.Endpoint == r.TargetNorm {
		if pos := indexFrom(t.ingame.Systems, n, 0); pos >= 0 {
			r.DesyncStrikes = 0
			r.DesyncActive = false
			t.ingameProgress(pos, out)
			return
		}
	}

	r.DesyncStrikes++
	if r.DesyncStrikes < t.confirmJumps() {
		out.status(types.LevelInfo, types.CodeRouteDesyncPending,
			fmt.Sprintf("Off planned route (%d of %d jumps)", r.DesyncStrikes, t.confirmJumps()))
		return
	}
	if !r.DesyncActive {
		r.DesyncActive = true
		out.status(types.LevelWarn, types.CodeRouteDesync,
			"Route de-sync: recent jumps are not on the planned route")
	}
}

func (t *Tracker) confirmJumps() int {
	if t.cfg.NextHopDesyncConfirmJumps < 1 {
		return 1
	}
	return t.cfg.NextHopDesyncConfirmJumps
}

// milestoneProgress emits quartile progress for an on-route arrival at
// position p. The 100 % threshold fires only through this path.
func (t *Tracker) milestoneProgress(p int, out *Outcome) {
	r := &t.route
	if r.TargetIndex <= r.StartIndex {
		return
	}

	if p >= r.TargetIndex {
		if !r.Announced[100] {
			r.Announced[100] = true
			text := fmt.Sprintf("Milestone reached: %s", r.TargetRaw)
			t.milestoneIndex++
			t.armTarget(p)
			if next := t.route.TargetRaw; next != "" && t.route.TargetIndex > p {
				text += fmt.Sprintf(", next milestone %s", next)
			}
			out.status(types.LevelOK, types.CodeMilestoneReached, text)
		}
		return
	}

	t.announceQuartiles(clampProgress(p-r.StartIndex, r.TargetIndex-r.StartIndex), out)
}

// ingameProgress emits progress derived from the in-game route while the
// symbiosis guard holds. Never emits 100 through this path; that is
// reserved for the matched-arrival case.
func (t *Tracker) ingameProgress(pos int, out *Outcome) {
	r := &t.route
	remaining := len(t.ingame.Systems) - pos - 1
	if remaining < 0 {
		remaining = 0
	}
	if r.StartRemainingIngame == 0 {
		r.StartRemainingIngame = remaining
		if r.StartRemainingIngame < 1 {
			r.StartRemainingIngame = 1
		}
		out.status(types.LevelInfo, types.CodeRouteAlignedIngame,
			fmt.Sprintf("Following in-game plot toward %s", r.TargetRaw))
	}

	total := r.StartRemainingIngame
	progress := clampProgress(total-remaining, total)
	// The 100 % threshold belongs to the matched-arrival path alone.
	if progress > 99 {
		progress = 99
	}
	t.announceQuartiles(progress, out)
}

// announceQuartiles emits the highest newly crossed threshold of
// 25/50/75, marking every crossed one so it never re-fires for the same
// (target, start-index) pair.
func (t *Tracker) announceQuartiles(progress int, out *Outcome) {
	best := 0
	for _, threshold := range []int{25, 50, 75} {
		if progress >= threshold && !t.route.Announced[threshold] {
			t.route.Announced[threshold] = true
			best = threshold
		}
	}
	if best > 0 {
		out.status(types.LevelInfo, types.CodeMilestoneProgress,
			fmt.Sprintf("Route progress %d%% toward %s", progress, t.route.TargetRaw))
	}
}

func clampProgress(done, total int) int {
	if total <= 0 {
		return 0
	}
	p := done * 100 / total
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// indexFrom returns the first index ≥ from whose element equals n, or -1.
func indexFrom(list []string, n string, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(list); i++ {
		if list[i] == n {
			return i
		}
	}
	return -1
}
