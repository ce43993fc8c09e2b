//go:build windows

package probe

import (
	"golang.org/x/sys/windows"
)

// New returns a probe backed by the Win32 foreground window.
func New() Func {
	return foreground
}

func foreground() (string, bool) {
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return "", false
	}
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil || pid == 0 {
		return "", false
	}

	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", false
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, 1024)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", false
	}
	name := Identity(windows.UTF16ToString(buf[:size]))
	return name, name != ""
}
