// Package probe reports which application currently owns input focus.
package probe

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// commandTimeout bounds helper processes spawned by a probe.
const commandTimeout = 500 * time.Millisecond

// Func returns the focused application's identity. ok is false when there is
// no signal.
type Func func() (app string, ok bool)

func (f Func) ActiveApplication() (string, bool) { return f() }

// Static returns a probe that cycles through names. An empty name reports no
// signal for that call.
func Static(names ...string) Func {
	var (
		mu sync.Mutex
		i  int
	)
	return func() (string, bool) {
		if len(names) == 0 {
			return "", false
		}
		mu.Lock()
		name := names[i%len(names)]
		i++
		mu.Unlock()
		name = strings.TrimSpace(name)
		return name, name != ""
	}
}

// Identity reduces an executable path to its base name without extension.
// Both slash styles are accepted.
func Identity(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	if ext := filepath.Ext(path); ext != "" && ext != path {
		path = strings.TrimSuffix(path, ext)
	}
	return path
}

// Self returns the identity of the running executable.
func Self() string {
	exe, err := os.Executable()
	if err != nil || exe == "" {
		if len(os.Args) == 0 {
			return ""
		}
		exe = os.Args[0]
	}
	return Identity(exe)
}
