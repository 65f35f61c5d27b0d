// Package speech turns status events into spoken phrases. Phrase scripts
// are user-editable Lua files: each registers phrase(code, fn) handlers
// that rewrite or suppress the default text. The VM is sandboxed and
// long-lived; calls are serialized, so scripts can keep local state.
package speech

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/starpilot/types"
)

// Phraser renders one spoken line per status event.
type Phraser struct {
	mu       sync.Mutex
	vm       *lua.LState
	handlers map[string]*lua.LFunction
}

// Load creates a phraser from every .lua file in dir, alphabetical order.
// A missing directory yields a pass-through phraser.
func Load(dir string) (*Phraser, error) {
	p := &Phraser{handlers: map[string]*lua.LFunction{}}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading phrase directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return p, nil
	}
	sort.Strings(files)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	L.SetGlobal("phrase", L.NewFunction(p.registerPhrase))

	for _, f := range files {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			L.Close()
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}
	p.vm = L
	return p, nil
}

// Close releases the VM. Safe on a pass-through phraser.
func (p *Phraser) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.vm != nil {
		p.vm.Close()
		p.vm = nil
	}
}

// registerPhrase is the Lua-side phrase(code, fn) API.
func (p *Phraser) registerPhrase(L *lua.LState) int {
	code := L.CheckString(1)
	fn := L.CheckFunction(2)
	p.handlers[code] = fn
	return 0
}

// Render produces the spoken line for an event. Returns ok=false when the
// event should stay silent: no registered handler falls back to the event
// text, but a handler returning nil or "" suppresses speech.
func (p *Phraser) Render(ev types.StatusEvent) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fn, ok := p.handlers[ev.Code]
	if !ok || p.vm == nil {
		return ev.Text, ev.Text != ""
	}

	L := p.vm
	tbl := L.NewTable()
	tbl.RawSetString("code", lua.LString(ev.Code))
	tbl.RawSetString("text", lua.LString(ev.Text))
	tbl.RawSetString("level", lua.LString(levelName(ev.Level)))
	tbl.RawSetString("source", lua.LString(ev.Source))

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, tbl); err != nil {
		// A broken script falls back to the stock text.
		return ev.Text, ev.Text != ""
	}
	ret := L.Get(-1)
	L.Pop(1)

	switch v := ret.(type) {
	case lua.LString:
		s := string(v)
		return s, s != ""
	default:
		return "", false
	}
}

func levelName(l types.Level) string {
	switch l {
	case types.LevelOK:
		return "ok"
	case types.LevelInfo:
		return "info"
	case types.LevelWarn:
		return "warn"
	case types.LevelError:
		return "error"
	case types.LevelBusy:
		return "busy"
	}
	return "info"
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}
