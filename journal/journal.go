// Package journal follows the game's journal directory: it replays the
// newest journal file on startup, then tails it (and its successors) for
// appended lines, forwarding each line to the event router.
package journal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nathoo/starpilot/engine/router"
	"github.com/nathoo/starpilot/engine/state"
)

// PollInterval is how often the watcher checks for new journal bytes and
// sidecar updates. Journal files are append-only, so polling a file offset
// is cheap and robust against editors and network shares.
const PollInterval = 250 * time.Millisecond

// Watcher tails the journal directory. One instance per process.
type Watcher struct {
	dir string
	r   *router.Router
	st  *state.State

	current string // path of the journal file being tailed
	offset  int64
	partial []byte // trailing bytes of a line still being written

	sidecars []*sidecar
}

// New creates a watcher rooted at the game's journal directory.
func New(dir string, r *router.Router, st *state.State) *Watcher {
	w := &Watcher{dir: dir, r: r, st: st}
	w.sidecars = []*sidecar{
		newSidecar(filepath.Join(dir, "Status.json"), r.HandleStatus),
		newSidecar(filepath.Join(dir, "Cargo.json"), r.HandleCargo),
		newSidecar(filepath.Join(dir, "Market.json"), r.HandleMarket),
		newSidecar(filepath.Join(dir, "NavRoute.json"), r.HandleNavRoute),
	}
	return w
}

// Bootstrap replays the newest journal file with emissions suppressed, so
// restarting mid-session rebuilds state without re-announcing old events.
// Suppression is lifted by the first live system event after Bootstrap
// returns.
func (w *Watcher) Bootstrap() error {
	path, err := newestJournal(w.dir)
	if err != nil {
		return err
	}
	if path == "" {
		return nil // empty directory: nothing to replay, nothing suppressed
	}

	w.st.SetBootstrap(true)
	w.current = path
	w.offset = 0
	w.partial = nil
	if err := w.consume(false); err != nil {
		return fmt.Errorf("replaying %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Run polls until ctx is done. Call Bootstrap first.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll performs one scan step: switch to a newer journal file if one
// appeared, consume appended lines, and re-read changed sidecars. Exported
// so tests can drive the watcher without timers.
func (w *Watcher) Poll() {
	if path, err := newestJournal(w.dir); err == nil && path != "" && path != w.current {
		// The game rotated to a new file; the old one gets no more lines.
		w.consume(true)
		w.current = path
		w.offset = 0
		w.partial = nil
	}
	w.consume(true)
	for _, sc := range w.sidecars {
		sc.poll()
	}
}

// consume reads journal bytes past the stored offset and routes every
// complete line. A trailing fragment without a newline is kept for the
// next pass; the game writes lines atomically but the read may not be.
func (w *Watcher) consume(live bool) error {
	if w.current == "" {
		return nil
	}
	f, err := os.Open(w.current)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Seek(w.offset, io.SeekStart); err != nil {
		return err
	}
	rd := bufio.NewReader(f)
	for {
		chunk, err := rd.ReadBytes('\n')
		w.offset += int64(len(chunk))
		if err != nil {
			// Incomplete trailing line: stash and retry next poll.
			w.partial = append(w.partial, chunk...)
			if err == io.EOF {
				return nil
			}
			return err
		}
		line := append(w.partial, chunk...)
		w.partial = nil
		if len(trimmed(line)) == 0 {
			continue
		}
		w.r.HandleLine(line, live)
	}
}

func trimmed(line []byte) []byte {
	return []byte(strings.TrimSpace(string(line)))
}

// newestJournal returns the most recently modified Journal*.log in dir, or
// "" when none exists yet.
func newestJournal(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading journal directory %s: %w", dir, err)
	}
	type candidate struct {
		path string
		mod  time.Time
	}
	var found []candidate
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "Journal") || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{filepath.Join(dir, name), info.ModTime()})
	}
	if len(found) == 0 {
		return "", nil
	}
	sort.Slice(found, func(i, j int) bool {
		if !found[i].mod.Equal(found[j].mod) {
			return found[i].mod.After(found[j].mod)
		}
		// Same mtime granularity: the filename timestamp breaks the tie.
		return found[i].path > found[j].path
	})
	return found[0].path, nil
}
