//go:build linux

package probe

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// New returns a probe that resolves the active X11 window's process through
// xdotool and /proc.
func New() Func {
	return func() (string, bool) {
		pid, ok := activePID()
		if !ok {
			return "", false
		}
		return commName("/proc", pid)
	}
}

func activePID() (int, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, "xdotool", "getactivewindow", "getwindowpid")
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(stdout.String()))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// commName reads the short process name from procfs.
func commName(procRoot string, pid int) (string, bool) {
	data, err := os.ReadFile(procRoot + "/" + strconv.Itoa(pid) + "/comm")
	if err != nil {
		return "", false
	}
	name := strings.TrimSpace(string(data))
	return name, name != ""
}
