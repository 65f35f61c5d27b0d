package journal

import (
	"bytes"
	"os"
	"time"
)

// sidecar is one whole-file snapshot the game rewrites in place
// (Status.json and friends). A changed mtime triggers a re-read; the
// content check filters the frequent no-op rewrites Status.json makes.
type sidecar struct {
	path    string
	handler func([]byte)

	lastMod  time.Time
	lastBody []byte
}

func newSidecar(path string, handler func([]byte)) *sidecar {
	return &sidecar{path: path, handler: handler}
}

// poll re-reads the file when it changed. Transiently missing or empty
// files are normal: the game deletes and rewrites snapshots mid-frame.
func (s *sidecar) poll() {
	info, err := os.Stat(s.path)
	if err != nil {
		return
	}
	if info.ModTime().Equal(s.lastMod) {
		return
	}
	raw, err := os.ReadFile(s.path)
	if err != nil || len(raw) == 0 {
		return
	}
	s.lastMod = info.ModTime()
	if bytes.Equal(raw, s.lastBody) {
		return
	}
	s.lastBody = raw
	s.handler(raw)
}
