//go:build !windows && !darwin && !linux

package probe

// New returns a probe that never reports a signal.
func New() Func {
	return func() (string, bool) { return "", false }
}
