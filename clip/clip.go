// Package clip wraps the system clipboard behind a small interface so the
// core can request copies without knowing about display servers, and tests
// can record what would have been copied.
package clip

import "github.com/atotto/clipboard"

// Copier writes one text to a clipboard-like destination.
type Copier interface {
	Copy(text string) error
}

// System copies to the real OS clipboard.
type System struct{}

func (System) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// Discard drops every copy. Used for headless runs.
var Discard Copier = discard{}

type discard struct{}

func (discard) Copy(string) error { return nil }

// Recorder keeps copied texts for assertions. Err, when set, is returned
// by every Copy.
type Recorder struct {
	Texts []string
	Err   error
}

func (r *Recorder) Copy(text string) error {
	if r.Err != nil {
		return r.Err
	}
	r.Texts = append(r.Texts, text)
	return nil
}
