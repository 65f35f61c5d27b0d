// Package norm provides the canonical string forms shared by the route
// tracker, the nav-route ingest, and the survey engine. Canonicalization is
// the only defense against the game's inconsistent casing and padding, so
// every comparison in the core goes through this package.
package norm

import "strings"

// Name returns the canonical form of a system or station name: trimmed,
// inner whitespace collapsed, case-folded.
func Name(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Title upper-cases the first letter of each word. Used for soft matches
// against title-cased reference rows.
func Title(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Species canonicalizes an organism name. Codex symbols arrive wrapped as
// $Codex_Ent_<id>_Name;. Strip the wrapper, replace underscores, then
// title-case each word.
func Species(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "$Codex_Ent_") {
		s = strings.TrimPrefix(s, "$Codex_Ent_")
		s = strings.TrimSuffix(s, ";")
		s = strings.TrimSuffix(s, "_Name")
	}
	s = strings.ReplaceAll(s, "_", " ")
	return Title(s)
}

// Routes returns the normalized copy of a route, dropping blank entries and
// collapsing adjacent duplicates. The game re-emits the current system at
// the head of every NavRoute write, which would otherwise inflate progress.
func Routes(systems []string) []string {
	out := make([]string, 0, len(systems))
	for _, s := range systems {
		n := Name(s)
		if n == "" {
			continue
		}
		if len(out) > 0 && out[len(out)-1] == n {
			continue
		}
		out = append(out, n)
	}
	return out
}
