//go:build darwin

package probe

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

const frontmostScript = `tell application "System Events" to get name of first application process whose frontmost is true`

// New returns a probe that asks System Events for the frontmost process.
func New() Func {
	return frontmost
}

func frontmost() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, "osascript", "-e", frontmostScript)
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", false
	}
	name := strings.TrimSpace(stdout.String())
	return name, name != ""
}
